// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

// Package commands defines the guildsnap command tree: one-shot
// backup runs, the long-running serve mode, and version reporting.
package commands

import (
	"fmt"

	"github.com/guildsnap/guildsnap/cmd/guildsnap/cli"
	"github.com/guildsnap/guildsnap/lib/config"
	"github.com/guildsnap/guildsnap/lib/credential"
)

// Root returns the top-level guildsnap command.
func Root() *cli.Command {
	return &cli.Command{
		Name:    "guildsnap",
		Summary: "Back up a Discord guild into a zip archive",
		Description: "guildsnap archives a guild's metadata, member roster, and full\n" +
			"channel history into a single zip file. Run it once with 'backup',\n" +
			"or keep it connected with 'serve' to accept backup commands in chat.",
		Subcommands: []*cli.Command{
			backupCommand(),
			serveCommand(),
			versionCommand(),
		},
	}
}

// loadConfig loads configuration from an explicit path, or from
// GUILDSNAP_CONFIG (with defaults when unset), and validates it.
func loadConfig(path string) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if path != "" {
		cfg, err = config.LoadFile(path)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveToken reads the bot token from the configured source. A
// token file wins over the environment variable when both are set.
func resolveToken(cfg *config.Config) (string, error) {
	var provider credential.Provider
	if cfg.Credentials.TokenFile != "" {
		provider = credential.File{Path: cfg.Credentials.TokenFile}
	} else {
		provider = credential.Env{Name: cfg.Credentials.TokenEnv}
	}
	token, err := provider.Token()
	if err != nil {
		return "", fmt.Errorf("resolving bot token: %w", err)
	}
	return token, nil
}
