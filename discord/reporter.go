// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

package discord

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/guildsnap/guildsnap/backup"
)

// Embed accent colors for the progress message.
const (
	colorInProgress = 0x3498db
	colorDone       = 0x2ecc71
)

// EmbedReporterConfig holds configuration for creating an EmbedReporter.
type EmbedReporterConfig struct {
	// Session is the authenticated discordgo session.
	Session *discordgo.Session
	// ChannelID is the channel the progress embed is posted to,
	// normally the channel the backup was requested from.
	ChannelID string
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// EmbedReporter renders backup progress as a single Discord embed:
// the first update posts it, every later update edits it in place.
// One reporter serves one job; it is driven synchronously by the
// assembler and needs no locking.
type EmbedReporter struct {
	session   *discordgo.Session
	channelID string
	logger    *slog.Logger
	messageID string
}

// NewEmbedReporter creates an EmbedReporter. Nothing is posted until
// the first Update.
func NewEmbedReporter(config EmbedReporterConfig) (*EmbedReporter, error) {
	if config.Session == nil {
		return nil, fmt.Errorf("discord: Session is required")
	}
	if config.ChannelID == "" {
		return nil, fmt.Errorf("discord: ChannelID is required")
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &EmbedReporter{
		session:   config.Session,
		channelID: config.ChannelID,
		logger:    logger,
	}, nil
}

// Update implements [backup.Reporter].
func (r *EmbedReporter) Update(ctx context.Context, view backup.View) error {
	embed := progressEmbed(view)

	if r.messageID == "" {
		message, err := r.session.ChannelMessageSendEmbed(
			r.channelID, embed, discordgo.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("discord: posting progress embed: %w", err)
		}
		r.messageID = message.ID
		return nil
	}

	_, err := r.session.ChannelMessageEditEmbed(
		r.channelID, r.messageID, embed, discordgo.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("discord: editing progress embed: %w", err)
	}
	return nil
}

// progressEmbed builds the embed payload for one view.
func progressEmbed(view backup.View) *discordgo.MessageEmbed {
	title := "Backup in progress"
	color := colorInProgress
	if view.Done() {
		title = "Backup complete"
		color = colorDone
	}

	fields := []*discordgo.MessageEmbedField{
		{Name: "Status", Value: view.Status, Inline: false},
		{Name: "Channels", Value: view.ChannelsField(), Inline: true},
		{Name: "Messages", Value: view.MessagesField(), Inline: true},
	}
	if view.Done() && view.ArchivePath != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name: "Archive", Value: view.ArchivePath, Inline: false,
		})
	}

	return &discordgo.MessageEmbed{
		Title:  title,
		Color:  color,
		Fields: fields,
	}
}
