// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

package discord

import (
	"reflect"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
)

func TestGuildInfoFields(t *testing.T) {
	guild := &discordgo.Guild{
		ID:                       "175928847299117063",
		Name:                     "Test Guild",
		Description:              "a guild",
		OwnerID:                  "100",
		MemberCount:              42,
		ApproximateMemberCount:   7,
		Icon:                     "abc123",
		Features:                 []discordgo.GuildFeature{discordgo.GuildFeatureCommunity},
		PreferredLocale:          "en-US",
		PremiumSubscriptionCount: 3,
	}

	fields := guildInfoFields(guild)

	if fields["name"] != "Test Guild" {
		t.Errorf("name = %v", fields["name"])
	}
	if fields["member_count"] != 42 {
		t.Errorf("member_count = %v, want gateway count over approximation", fields["member_count"])
	}
	if fields["icon_url"] != "https://cdn.discordapp.com/icons/175928847299117063/abc123.png" {
		t.Errorf("icon_url = %v", fields["icon_url"])
	}
	if fields["banner_url"] != "" {
		t.Errorf("banner_url = %v, want empty for unset asset", fields["banner_url"])
	}
	if got, ok := fields["features"].([]string); !ok || len(got) != 1 || got[0] != "COMMUNITY" {
		t.Errorf("features = %v", fields["features"])
	}
	createdAt, ok := fields["created_at"].(time.Time)
	if !ok {
		t.Fatalf("created_at = %T, want time.Time", fields["created_at"])
	}
	if createdAt.Year() != 2016 {
		t.Errorf("created_at = %v", createdAt)
	}
}

func TestGuildInfoFieldsMemberCountFallback(t *testing.T) {
	fields := guildInfoFields(&discordgo.Guild{ID: "1", ApproximateMemberCount: 7})
	if fields["member_count"] != 7 {
		t.Errorf("member_count = %v, want approximation when gateway count absent", fields["member_count"])
	}
}

func TestMemberRecord(t *testing.T) {
	roleNames := map[string]string{"r1": "admin", "r2": "mod"}
	joined := time.Date(2020, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("nickname wins", func(t *testing.T) {
		entry := memberRecord(&discordgo.Member{
			User:     &discordgo.User{ID: "100", Username: "alice", GlobalName: "Alice G"},
			Nick:     "Ali",
			Roles:    []string{"r1", "deleted-role", "r2"},
			JoinedAt: joined,
		}, roleNames)

		if entry.ID != "100" {
			t.Errorf("ID = %q", entry.ID)
		}
		if entry.Member.Name != "alice" || entry.Member.DisplayName != "Ali" {
			t.Errorf("names = %q/%q", entry.Member.Name, entry.Member.DisplayName)
		}
		wantRoles := []string{"@everyone", "admin", "mod"}
		if !reflect.DeepEqual(entry.Member.Roles, wantRoles) {
			t.Errorf("roles = %v, want %v", entry.Member.Roles, wantRoles)
		}
		if entry.Member.JoinedAt != "2020-03-01T10:00:00Z" {
			t.Errorf("joined_at = %q", entry.Member.JoinedAt)
		}
	})

	t.Run("global name fallback", func(t *testing.T) {
		entry := memberRecord(&discordgo.Member{
			User: &discordgo.User{ID: "101", Username: "bob", GlobalName: "Bobby"},
		}, roleNames)
		if entry.Member.DisplayName != "Bobby" {
			t.Errorf("DisplayName = %q", entry.Member.DisplayName)
		}
		if entry.Member.JoinedAt != "None" {
			t.Errorf("joined_at = %q, want None for unknown join time", entry.Member.JoinedAt)
		}
	})

	t.Run("username last resort", func(t *testing.T) {
		entry := memberRecord(&discordgo.Member{
			User: &discordgo.User{ID: "102", Username: "carol", Bot: true},
		}, roleNames)
		if entry.Member.DisplayName != "carol" {
			t.Errorf("DisplayName = %q", entry.Member.DisplayName)
		}
		if !entry.Member.Bot {
			t.Error("Bot flag lost")
		}
	})
}

func TestMessageRecord(t *testing.T) {
	sent := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	record := messageRecord(&discordgo.Message{
		ID:        "900",
		Content:   "hello",
		Author:    &discordgo.User{ID: "100", Username: "alice"},
		Timestamp: sent,
		Pinned:    true,
		Type:      discordgo.MessageTypeReply,
		Attachments: []*discordgo.MessageAttachment{
			{URL: "https://cdn.example/a.png"},
		},
		Embeds: []*discordgo.MessageEmbed{
			{Title: "embedded", Description: "body"},
		},
		Reactions: []*discordgo.MessageReactions{
			{Count: 3, Emoji: &discordgo.Emoji{Name: "👍"}},
			{Count: 1, Emoji: &discordgo.Emoji{ID: "555", Name: "blob"}},
		},
	})

	if record.CreatedAt != "2024-06-01T12:00:00Z" {
		t.Errorf("created_at = %q", record.CreatedAt)
	}
	if record.Type != "reply" {
		t.Errorf("type = %q", record.Type)
	}
	if !record.Pinned {
		t.Error("pinned flag lost")
	}
	if len(record.Attachments) != 1 || record.Attachments[0] != "https://cdn.example/a.png" {
		t.Errorf("attachments = %v", record.Attachments)
	}
	if len(record.Embeds) != 1 || record.Embeds[0]["title"] != "embedded" {
		t.Errorf("embeds = %v", record.Embeds)
	}
	if len(record.Reactions) != 2 {
		t.Fatalf("reactions = %v", record.Reactions)
	}
	if record.Reactions[0].Emoji != "👍" || record.Reactions[0].Count != 3 {
		t.Errorf("unicode reaction = %+v", record.Reactions[0])
	}
	if record.Reactions[1].Emoji != "<:blob:555>" {
		t.Errorf("custom reaction = %+v", record.Reactions[1])
	}
}

func TestMessageRecordTimestampFallback(t *testing.T) {
	record := messageRecord(&discordgo.Message{
		ID:     "175928847299117063",
		Author: &discordgo.User{ID: "100", Username: "alice"},
	})
	if record.CreatedAt != "2016-04-30T11:18:25Z" {
		t.Errorf("created_at = %q, want snowflake-derived time", record.CreatedAt)
	}
}

func TestMessageTypeString(t *testing.T) {
	if got := messageTypeString(discordgo.MessageTypeDefault); got != "default" {
		t.Errorf("default = %q", got)
	}
	if got := messageTypeString(discordgo.MessageType(99)); got != "unknown(99)" {
		t.Errorf("unlisted = %q", got)
	}
}

func TestEmojiString(t *testing.T) {
	if got := emojiString(&discordgo.Emoji{ID: "7", Name: "spin", Animated: true}); got != "<a:spin:7>" {
		t.Errorf("animated = %q", got)
	}
	if got := emojiString(nil); got != "" {
		t.Errorf("nil = %q", got)
	}
}
