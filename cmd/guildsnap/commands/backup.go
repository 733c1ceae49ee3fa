// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bwmarrin/discordgo"
	"github.com/spf13/pflag"

	"github.com/guildsnap/guildsnap/archive"
	"github.com/guildsnap/guildsnap/backup"
	"github.com/guildsnap/guildsnap/cmd/guildsnap/cli"
	"github.com/guildsnap/guildsnap/discord"
	"github.com/guildsnap/guildsnap/lib/statusline"
)

func backupCommand() *cli.Command {
	var (
		configPath string
		guildID    string
		target     string
		outputDir  string
	)
	return &cli.Command{
		Name:    "backup",
		Summary: "Run one backup job and exit",
		Description: "Archive the guild's info, member roster, and channel history into\n" +
			"a zip file. Channels the bot cannot read are skipped with a warning;\n" +
			"any other failure aborts the run without writing an archive.",
		Usage: "guildsnap backup [flags]",
		Examples: []cli.Example{
			{
				Description: "Back up every text channel of a guild",
				Command:     "guildsnap backup --guild 175928847299117063",
			},
			{
				Description: "Back up a single channel",
				Command:     "guildsnap backup --guild 175928847299117063 --channel 53908232506183680",
			},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("backup", pflag.ContinueOnError)
			flags.StringVar(&configPath, "config", "", "path to config file (default: $GUILDSNAP_CONFIG)")
			flags.StringVar(&guildID, "guild", "", "guild ID to back up (overrides the config file)")
			flags.StringVar(&target, "channel", backup.TargetAll, `channel ID or mention, or "all"`)
			flags.StringVar(&outputDir, "output-dir", "", "archive output directory (overrides the config file)")
			return flags
		},
		Run: func(args []string) error {
			return runBackup(configPath, guildID, target, outputDir)
		},
	}
}

func runBackup(configPath, guildID, target, outputDir string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	if guildID == "" {
		guildID = cfg.GuildID
	}
	if guildID == "" {
		return fmt.Errorf("guild ID required: pass --guild or set guild_id in the config file")
	}
	if outputDir != "" {
		cfg.Backup.Dir = outputDir
	}

	logger := cli.NewCommandLogger().With(
		"command", "backup",
		"guild", guildID,
	)

	token, err := resolveToken(cfg)
	if err != nil {
		return err
	}

	// One-shot runs use REST only; the gateway is never opened.
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return fmt.Errorf("creating session: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source, err := discord.NewSource(discord.SourceConfig{
		Session:         session,
		GuildID:         guildID,
		Logger:          logger,
		MemberPageSize:  cfg.API.MemberPageSize,
		MessagePageSize: cfg.API.MessagePageSize,
	})
	if err != nil {
		return err
	}

	reporter := statusline.New()
	assembler, err := backup.NewAssembler(backup.AssemblerConfig{
		Source:   source,
		Reporter: reporter,
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	result, err := assembler.Run(ctx, target)
	if err != nil {
		return err
	}

	store := archive.NewStore(archive.StoreConfig{Dir: cfg.Backup.Dir, Logger: logger})
	fileName := store.ArchiveName(result.Workspace)
	data, err := archive.Build(result.Snapshot, fileName)
	if err != nil {
		return err
	}
	path, err := store.Save(data, fileName)
	if err != nil {
		return err
	}

	final := result.Progress.Advance(-1, -1, -1, backup.StatusDone)
	final.ArchivePath = path
	if err := reporter.Update(ctx, final); err != nil {
		logger.Warn("final progress render failed", "error", err)
	}
	return nil
}
