// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

package discord

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/guildsnap/guildsnap/backup"
)

// cdnBase is the root of Discord's static asset CDN.
const cdnBase = "https://cdn.discordapp.com"

// guildInfoFields builds the workspace attribute mapping from an
// explicit, versioned field list. The closed list replaces upstream
// attribute scanning: every field here is known to normalize, and a
// Discord API addition changes nothing until the list does.
func guildInfoFields(guild *discordgo.Guild) map[string]any {
	fields := map[string]any{
		"id":                 guild.ID,
		"name":               guild.Name,
		"description":        guild.Description,
		"owner_id":           guild.OwnerID,
		"member_count":       memberCount(guild),
		"features":           featureNames(guild.Features),
		"preferred_locale":   guild.PreferredLocale,
		"verification_level": int(guild.VerificationLevel),
		"mfa_level":          int(guild.MfaLevel),
		"premium_tier":       int(guild.PremiumTier),
		"boost_count":        guild.PremiumSubscriptionCount,
		"icon_url":           assetURL("icons", guild.ID, guild.Icon),
		"banner_url":         assetURL("banners", guild.ID, guild.Banner),
		"splash_url":         assetURL("splashes", guild.ID, guild.Splash),
	}
	if createdAt, err := CreationTime(guild.ID); err == nil {
		// Left as time.Time; the pipeline's normalizer renders it.
		fields["created_at"] = createdAt
	}
	return fields
}

// memberCount prefers the gateway-populated count and falls back to
// the REST approximation, which is only present when the guild was
// fetched with counts requested.
func memberCount(guild *discordgo.Guild) int {
	if guild.MemberCount > 0 {
		return guild.MemberCount
	}
	return guild.ApproximateMemberCount
}

func featureNames(features []discordgo.GuildFeature) []string {
	names := make([]string, len(features))
	for i, feature := range features {
		names[i] = string(feature)
	}
	return names
}

// assetURL builds a CDN URL for a guild image asset, or returns ""
// when the guild has none set.
func assetURL(kind, guildID, hash string) string {
	if hash == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s/%s.png", cdnBase, kind, guildID, hash)
}

// memberRecord detaches one guild member into a roster entry. Role IDs
// are resolved to names through the guild's role table; the implicit
// @everyone role leads the list. Roles the table no longer knows
// (deleted between fetches) are dropped.
func memberRecord(member *discordgo.Member, roleNames map[string]string) backup.RosterEntry {
	roles := []string{"@everyone"}
	for _, roleID := range member.Roles {
		if name, known := roleNames[roleID]; known {
			roles = append(roles, name)
		}
	}

	display := member.Nick
	if display == "" {
		display = member.User.GlobalName
	}
	if display == "" {
		display = member.User.Username
	}

	joined := "None"
	if !member.JoinedAt.IsZero() {
		joined = member.JoinedAt.UTC().Format(time.RFC3339)
	}

	return backup.RosterEntry{
		ID: member.User.ID,
		Member: backup.Member{
			Name:        member.User.Username,
			DisplayName: display,
			Roles:       roles,
			JoinedAt:    joined,
			Bot:         member.User.Bot,
		},
	}
}

// messageRecord detaches one message into its archival form. The
// record holds only strings, numbers, and plain maps, so it is safe to
// retain after the session is closed.
func messageRecord(message *discordgo.Message) backup.Message {
	createdAt := message.Timestamp
	if createdAt.IsZero() {
		// Some dispatch paths omit the timestamp; the ID always
		// carries one.
		if fromID, err := CreationTime(message.ID); err == nil {
			createdAt = fromID
		}
	}

	attachments := []string{}
	for _, attachment := range message.Attachments {
		attachments = append(attachments, attachment.URL)
	}

	reactions := []backup.Reaction{}
	for _, reaction := range message.Reactions {
		reactions = append(reactions, backup.Reaction{
			Emoji: emojiString(reaction.Emoji),
			Count: reaction.Count,
		})
	}

	record := backup.Message{
		ID:          message.ID,
		Content:     message.Content,
		CreatedAt:   createdAt.UTC().Format(time.RFC3339),
		Attachments: attachments,
		Embeds:      detachEmbeds(message.Embeds),
		Reactions:   reactions,
		Pinned:      message.Pinned,
		Type:        messageTypeString(message.Type),
	}
	if message.Author != nil {
		record.Author = backup.Author{
			Name: message.Author.Username,
			ID:   message.Author.ID,
			Bot:  message.Author.Bot,
		}
	}
	return record
}

// detachEmbeds converts embeds to plain maps through a JSON round
// trip, severing every pointer back into the discordgo object graph.
func detachEmbeds(embeds []*discordgo.MessageEmbed) []map[string]any {
	detached := []map[string]any{}
	if len(embeds) == 0 {
		return detached
	}
	encoded, err := json.Marshal(embeds)
	if err != nil {
		return detached
	}
	if err := json.Unmarshal(encoded, &detached); err != nil {
		return []map[string]any{}
	}
	return detached
}

// emojiString renders a reaction emoji the way it appears in message
// content: the literal character for unicode emoji, the <:name:id>
// mention form for custom ones.
func emojiString(emoji *discordgo.Emoji) string {
	if emoji == nil {
		return ""
	}
	if emoji.ID == "" {
		return emoji.Name
	}
	if emoji.Animated {
		return fmt.Sprintf("<a:%s:%s>", emoji.Name, emoji.ID)
	}
	return fmt.Sprintf("<:%s:%s>", emoji.Name, emoji.ID)
}

// messageTypeNames covers the message types a guild text channel can
// contain. Unlisted values render as unknown(n) rather than failing
// the job.
var messageTypeNames = map[discordgo.MessageType]string{
	discordgo.MessageTypeDefault:                      "default",
	discordgo.MessageTypeRecipientAdd:                 "recipient_add",
	discordgo.MessageTypeRecipientRemove:              "recipient_remove",
	discordgo.MessageTypeCall:                         "call",
	discordgo.MessageTypeChannelNameChange:            "channel_name_change",
	discordgo.MessageTypeChannelIconChange:            "channel_icon_change",
	discordgo.MessageTypeChannelPinnedMessage:         "pins_add",
	discordgo.MessageTypeGuildMemberJoin:              "new_member",
	discordgo.MessageTypeUserPremiumGuildSubscription: "premium_guild_subscription",
	discordgo.MessageTypeChannelFollowAdd:             "channel_follow_add",
	discordgo.MessageTypeGuildDiscoveryDisqualified:   "guild_discovery_disqualified",
	discordgo.MessageTypeGuildDiscoveryRequalified:    "guild_discovery_requalified",
	discordgo.MessageTypeThreadCreated:                "thread_created",
	discordgo.MessageTypeReply:                        "reply",
	discordgo.MessageTypeChatInputCommand:             "chat_input_command",
	discordgo.MessageTypeThreadStarterMessage:         "thread_starter_message",
	discordgo.MessageTypeContextMenuCommand:           "context_menu_command",
}

func messageTypeString(messageType discordgo.MessageType) string {
	if name, known := messageTypeNames[messageType]; known {
		return name
	}
	return fmt.Sprintf("unknown(%d)", messageType)
}
