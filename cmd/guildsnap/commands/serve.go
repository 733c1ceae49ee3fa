// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/pflag"

	"github.com/guildsnap/guildsnap/archive"
	"github.com/guildsnap/guildsnap/backup"
	"github.com/guildsnap/guildsnap/cmd/guildsnap/cli"
	"github.com/guildsnap/guildsnap/discord"
	"github.com/guildsnap/guildsnap/lib/config"
)

func serveCommand() *cli.Command {
	var configPath string
	return &cli.Command{
		Name:    "serve",
		Summary: "Connect to the gateway and accept backup commands in chat",
		Description: "Stay connected as a bot and listen for the backup command\n" +
			"(default \"!backup [channel]\") from guild administrators. Progress\n" +
			"is reported as an embed edited in place in the requesting channel.",
		Usage: "guildsnap serve [flags]",
		Examples: []cli.Example{
			{
				Description: "Serve with config from GUILDSNAP_CONFIG",
				Command:     "guildsnap serve",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("serve", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "path to config file (default: $GUILDSNAP_CONFIG)")
			return flags
		},
		Run: func(args []string) error {
			return runServe(configPath)
		},
	}
}

func runServe(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger := cli.NewCommandLogger().With("command", "serve")

	token, err := resolveToken(cfg)
	if err != nil {
		return err
	}

	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMembers |
		discordgo.IntentsGuildMessages |
		discordgo.IntentMessageContent

	b := &bot{cfg: cfg, logger: logger, active: map[string]bool{}}
	session.AddHandler(b.onMessageCreate)

	if err := session.Open(); err != nil {
		return fmt.Errorf("opening gateway: %w", err)
	}
	defer session.Close()
	logger.Info("gateway connected", "prefix", cfg.Command.Prefix)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	logger.Info("shutting down")
	return nil
}

// bot handles gateway events for serve mode. One backup job runs per
// guild at a time; a second request while one is active is refused
// rather than queued.
type bot struct {
	cfg    *config.Config
	logger *slog.Logger

	mu     sync.Mutex
	active map[string]bool
}

// parseCommand matches a message against the backup command. The
// second token names the target: "all" or a single channel. A matched
// command with no target returns ok with an empty target; the caller
// replies with a usage hint rather than guessing.
func parseCommand(content, prefix string) (target string, ok bool) {
	fields := strings.Fields(content)
	if len(fields) == 0 || fields[0] != prefix+"backup" {
		return "", false
	}
	if len(fields) < 2 {
		return "", true
	}
	return fields[1], true
}

func (b *bot) onMessageCreate(session *discordgo.Session, event *discordgo.MessageCreate) {
	if event.Author == nil || event.Author.Bot || event.GuildID == "" {
		return
	}
	target, ok := parseCommand(event.Content, b.cfg.Command.Prefix)
	if !ok {
		return
	}

	// A missing target is an input error, rejected before any
	// permission lookup or progress UI exists.
	if target == "" {
		prefix := b.cfg.Command.Prefix
		b.say(session, event.ChannelID,
			fmt.Sprintf("Usage: %sbackup all or %sbackup <channel>", prefix, prefix))
		return
	}

	logger := b.logger.With("guild", event.GuildID, "requester", event.Author.ID)

	permissions, err := session.UserChannelPermissions(event.Author.ID, event.ChannelID)
	if err != nil {
		logger.Warn("permission check failed", "error", err)
		return
	}
	if permissions&discordgo.PermissionAdministrator == 0 {
		b.say(session, event.ChannelID, "You need the Administrator permission to run a backup.")
		return
	}

	if !b.acquire(event.GuildID) {
		b.say(session, event.ChannelID, "A backup is already running for this guild.")
		return
	}

	logger.Info("backup requested", "target", target)
	go b.runJob(session, event.GuildID, event.ChannelID, target, logger)
}

func (b *bot) acquire(guildID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.active[guildID] {
		return false
	}
	b.active[guildID] = true
	return true
}

func (b *bot) release(guildID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.active, guildID)
}

// runJob executes one backup end to end: assemble, build the archive,
// persist it, and flip the progress embed to its final state.
func (b *bot) runJob(session *discordgo.Session, guildID, channelID, target string, logger *slog.Logger) {
	defer b.release(guildID)
	ctx := context.Background()

	source, err := discord.NewSource(discord.SourceConfig{
		Session:         session,
		GuildID:         guildID,
		Logger:          logger,
		MemberPageSize:  b.cfg.API.MemberPageSize,
		MessagePageSize: b.cfg.API.MessagePageSize,
	})
	if err != nil {
		logger.Error("source setup failed", "error", err)
		return
	}
	reporter, err := discord.NewEmbedReporter(discord.EmbedReporterConfig{
		Session:   session,
		ChannelID: channelID,
		Logger:    logger,
	})
	if err != nil {
		logger.Error("reporter setup failed", "error", err)
		return
	}
	assembler, err := backup.NewAssembler(backup.AssemblerConfig{
		Source:   source,
		Reporter: reporter,
		Logger:   logger,
	})
	if err != nil {
		logger.Error("assembler setup failed", "error", err)
		return
	}

	result, err := assembler.Run(ctx, target)
	if err != nil {
		logger.Error("backup failed", "error", err)
		if errors.Is(err, backup.ErrNoTarget) {
			b.say(session, channelID, "No matching channel to back up.")
		} else {
			b.say(session, channelID, "Backup failed, nothing was written.")
		}
		return
	}

	store := archive.NewStore(archive.StoreConfig{Dir: b.cfg.Backup.Dir, Logger: logger})
	fileName := store.ArchiveName(result.Workspace)
	data, err := archive.Build(result.Snapshot, fileName)
	if err != nil {
		logger.Error("archive build failed", "error", err)
		b.say(session, channelID, "Backup failed, nothing was written.")
		return
	}
	path, err := store.Save(data, fileName)
	if err != nil {
		logger.Error("archive save failed", "error", err)
		b.say(session, channelID, "Backup failed, nothing was written.")
		return
	}

	final := result.Progress.Advance(-1, -1, -1, backup.StatusDone)
	final.ArchivePath = path
	if err := reporter.Update(ctx, final); err != nil {
		logger.Warn("final progress render failed", "error", err)
	}
}

// say posts a plain message, logging delivery failures. Used for
// refusals and error notices outside the progress embed.
func (b *bot) say(session *discordgo.Session, channelID, message string) {
	if _, err := session.ChannelMessageSend(channelID, message); err != nil {
		b.logger.Warn("notice delivery failed", "channel", channelID, "error", err)
	}
}
