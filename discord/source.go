// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

package discord

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"sync"

	"github.com/bwmarrin/discordgo"

	"github.com/guildsnap/guildsnap/backup"
)

// Default page sizes match the API maximums for their endpoints.
const (
	defaultMemberPageSize  = 1000
	defaultMessagePageSize = 100
)

// SourceConfig holds configuration for creating a Source.
type SourceConfig struct {
	// Session is the authenticated discordgo session. Only REST calls
	// are made through it; a gateway connection is not required.
	Session *discordgo.Session
	// GuildID identifies the guild to back up.
	GuildID string
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
	// MemberPageSize caps roster pages. If zero, the API maximum of
	// 1000 is used.
	MemberPageSize int
	// MessagePageSize caps history pages. If zero, the API maximum of
	// 100 is used.
	MessagePageSize int
}

// Source implements [backup.Source] for one Discord guild.
type Source struct {
	session         *discordgo.Session
	guildID         string
	logger          *slog.Logger
	memberPageSize  int
	messagePageSize int

	mu    sync.Mutex
	guild *discordgo.Guild
}

// NewSource creates a Source for the configured guild. No API call is
// made until the first pipeline operation.
func NewSource(config SourceConfig) (*Source, error) {
	if config.Session == nil {
		return nil, fmt.Errorf("discord: Session is required")
	}
	if config.GuildID == "" {
		return nil, fmt.Errorf("discord: GuildID is required")
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	memberPageSize := config.MemberPageSize
	if memberPageSize <= 0 {
		memberPageSize = defaultMemberPageSize
	}
	messagePageSize := config.MessagePageSize
	if messagePageSize <= 0 {
		messagePageSize = defaultMessagePageSize
	}

	return &Source{
		session:         config.Session,
		guildID:         config.GuildID,
		logger:          logger,
		memberPageSize:  memberPageSize,
		messagePageSize: messagePageSize,
	}, nil
}

// getGuild fetches and caches the guild object. The guild carries the
// role table and the attribute fields, so every other operation goes
// through here at most once per job.
func (s *Source) getGuild(ctx context.Context) (*discordgo.Guild, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.guild != nil {
		return s.guild, nil
	}

	guild, err := s.session.GuildWithCounts(s.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("discord: fetching guild %s: %w", s.guildID, err)
	}
	s.guild = guild
	return guild, nil
}

// Workspace implements [backup.Source].
func (s *Source) Workspace(ctx context.Context) (string, error) {
	guild, err := s.getGuild(ctx)
	if err != nil {
		return "", err
	}
	return guild.Name, nil
}

// Info implements [backup.Source].
func (s *Source) Info(ctx context.Context) (map[string]any, error) {
	guild, err := s.getGuild(ctx)
	if err != nil {
		return nil, err
	}
	return guildInfoFields(guild), nil
}

// Channels implements [backup.Source]. Only plain text channels are
// returned, ordered as the guild displays them (position, then ID for
// ties).
func (s *Source) Channels(ctx context.Context) ([]backup.Channel, error) {
	channels, err := s.session.GuildChannels(s.guildID, discordgo.WithContext(ctx))
	if err != nil {
		return nil, fmt.Errorf("discord: listing channels of %s: %w", s.guildID, err)
	}

	text := make([]*discordgo.Channel, 0, len(channels))
	for _, channel := range channels {
		if channel.Type == discordgo.ChannelTypeGuildText {
			text = append(text, channel)
		}
	}
	sort.Slice(text, func(i, j int) bool {
		if text[i].Position != text[j].Position {
			return text[i].Position < text[j].Position
		}
		return text[i].ID < text[j].ID
	})

	result := make([]backup.Channel, len(text))
	for i, channel := range text {
		result[i] = backup.Channel{ID: channel.ID, Name: channel.Name}
	}
	return result, nil
}

// Members implements [backup.Source].
func (s *Source) Members(ctx context.Context) backup.MemberFeed {
	return &memberFeed{source: s}
}

// History implements [backup.Source].
func (s *Source) History(ctx context.Context, channel backup.Channel) backup.MessageFeed {
	// Cursor 0 addresses the position before the first message, so the
	// feed walks history oldest to newest.
	return &messageFeed{source: s, channel: channel, after: "0"}
}

// memberFeed pages through the guild roster with the after-cursor of
// the members endpoint.
type memberFeed struct {
	source *Source
	after  string
	done   bool
}

// Next implements [backup.MemberFeed].
func (f *memberFeed) Next(ctx context.Context) ([]backup.RosterEntry, error) {
	if f.done {
		return nil, nil
	}

	guild, err := f.source.getGuild(ctx)
	if err != nil {
		return nil, err
	}
	roleNames := make(map[string]string, len(guild.Roles))
	for _, role := range guild.Roles {
		roleNames[role.ID] = role.Name
	}

	members, err := f.source.session.GuildMembers(
		f.source.guildID, f.after, f.source.memberPageSize,
		discordgo.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("discord: member page after %q: %w", f.after, err)
	}
	if len(members) == 0 {
		f.done = true
		return nil, nil
	}

	entries, cursor := rosterPage(members, roleNames)
	if cursor == "" {
		// No member on the page carried a user record, so there is
		// nothing to advance the cursor to.
		f.done = true
		return nil, nil
	}

	f.after = cursor
	if len(members) < f.source.memberPageSize {
		f.done = true
	}
	return entries, nil
}

// rosterPage detaches one page of members and returns the pagination
// cursor: the ID of the last member with a user record. Members
// without one are skipped by both the entries and the cursor.
func rosterPage(members []*discordgo.Member, roleNames map[string]string) ([]backup.RosterEntry, string) {
	entries := make([]backup.RosterEntry, 0, len(members))
	cursor := ""
	for _, member := range members {
		if member.User == nil {
			continue
		}
		cursor = member.User.ID
		entries = append(entries, memberRecord(member, roleNames))
	}
	return entries, cursor
}

// messageFeed pages through one channel's history with the
// after-cursor of the messages endpoint. The API returns each page
// newest first, so pages are reversed before delivery to honor the
// oldest-to-newest feed contract.
type messageFeed struct {
	source  *Source
	channel backup.Channel
	after   string
	done    bool
}

// Next implements [backup.MessageFeed].
func (f *messageFeed) Next(ctx context.Context) ([]backup.Message, error) {
	if f.done {
		return nil, nil
	}

	messages, err := f.source.session.ChannelMessages(
		f.channel.ID, f.source.messagePageSize, "", f.after, "",
		discordgo.WithContext(ctx),
	)
	if err != nil {
		if isAccessDenied(err) {
			return nil, fmt.Errorf("discord: history of %q: %w", f.channel.Name, backup.ErrAccessDenied)
		}
		return nil, fmt.Errorf("discord: history of %q after %s: %w", f.channel.Name, f.after, err)
	}
	if len(messages) == 0 {
		f.done = true
		return nil, nil
	}

	// messages[0] is the newest of the page and becomes the next cursor.
	f.after = messages[0].ID
	if len(messages) < f.source.messagePageSize {
		f.done = true
	}

	records := make([]backup.Message, 0, len(messages))
	for i := len(messages) - 1; i >= 0; i-- {
		records = append(records, messageRecord(messages[i]))
	}
	return records, nil
}

// isAccessDenied reports whether err is Discord's way of saying the
// credential cannot read the resource: the Missing Access error code,
// or a bare HTTP 403.
func isAccessDenied(err error) bool {
	var restErr *discordgo.RESTError
	if !errors.As(err, &restErr) {
		return false
	}
	if restErr.Message != nil && restErr.Message.Code == discordgo.ErrCodeMissingAccess {
		return true
	}
	return restErr.Response != nil && restErr.Response.StatusCode == http.StatusForbidden
}
