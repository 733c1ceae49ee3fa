// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for guildsnap.
//
// Configuration is loaded from a single YAML file specified by:
//   - GUILDSNAP_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. Environment variables
// do not override config values; the only expansion performed is
// ${VAR} and ${VAR:-default} in path fields for portability.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// API endpoint page-size ceilings. Values above these are rejected
// rather than clamped so a typo is visible.
const (
	maxMemberPageSize  = 1000
	maxMessagePageSize = 100
)

// Config is the master configuration for guildsnap.
type Config struct {
	// GuildID is the workspace to back up. Required for one-shot runs;
	// serve mode uses the guild of the requesting channel instead.
	GuildID string `yaml:"guild_id"`

	// API configures paging against the platform API.
	API APIConfig `yaml:"api"`

	// Backup configures archive output.
	Backup BackupConfig `yaml:"backup"`

	// Command configures the serve-mode chat command.
	Command CommandConfig `yaml:"command"`

	// Credentials configures where the bot token comes from.
	Credentials CredentialsConfig `yaml:"credentials"`
}

// APIConfig configures paging against the platform API.
type APIConfig struct {
	// MemberPageSize caps roster pages. Default: 1000 (the API maximum).
	MemberPageSize int `yaml:"member_page_size"`

	// MessagePageSize caps history pages. Default: 100 (the API maximum).
	MessagePageSize int `yaml:"message_page_size"`
}

// BackupConfig configures archive output.
type BackupConfig struct {
	// Dir is the directory archives are written to.
	// Default: backups (relative to the working directory).
	Dir string `yaml:"dir"`
}

// CommandConfig configures the serve-mode chat command.
type CommandConfig struct {
	// Prefix is the command prefix the bot listens for.
	// Default: !
	Prefix string `yaml:"prefix"`
}

// CredentialsConfig configures where the bot token comes from.
// Exactly one of the two sources is consulted; a file takes
// precedence when both are set.
type CredentialsConfig struct {
	// TokenEnv names the environment variable holding the bot token.
	// Default: GUILDSNAP_TOKEN
	TokenEnv string `yaml:"token_env"`

	// TokenFile is a path to a file holding the bot token. Leading and
	// trailing whitespace in the file is ignored.
	TokenFile string `yaml:"token_file"`
}

// Default returns the default configuration. These defaults are the
// base the config file is merged onto; every field a file omits keeps
// its default.
func Default() *Config {
	return &Config{
		API: APIConfig{
			MemberPageSize:  maxMemberPageSize,
			MessagePageSize: maxMessagePageSize,
		},
		Backup: BackupConfig{
			Dir: "backups",
		},
		Command: CommandConfig{
			Prefix: "!",
		},
		Credentials: CredentialsConfig{
			TokenEnv: "GUILDSNAP_TOKEN",
		},
	}
}

// Load loads configuration from the GUILDSNAP_CONFIG environment
// variable. If the variable is unset, defaults are returned — running
// without a config file is supported because every field has a
// workable default except the guild ID, which the CLI takes as a flag.
func Load() (*Config, error) {
	configPath := os.Getenv("GUILDSNAP_CONFIG")
	if configPath == "" {
		return Default(), nil
	}
	return LoadFile(configPath)
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} patterns in path fields.
func (c *Config) expandVariables() {
	vars := map[string]string{
		"HOME": os.Getenv("HOME"),
	}
	c.Backup.Dir = expandVars(c.Backup.Dir, vars)
	c.Credentials.TokenFile = expandVars(c.Credentials.TokenFile, vars)
}

// expandVars expands ${VAR} and ${VAR:-default} patterns.
var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}

		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}

		// Check provided vars first, then environment.
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.API.MemberPageSize < 1 || c.API.MemberPageSize > maxMemberPageSize {
		errs = append(errs, fmt.Errorf("api.member_page_size must be 1-%d", maxMemberPageSize))
	}
	if c.API.MessagePageSize < 1 || c.API.MessagePageSize > maxMessagePageSize {
		errs = append(errs, fmt.Errorf("api.message_page_size must be 1-%d", maxMessagePageSize))
	}
	if c.Backup.Dir == "" {
		errs = append(errs, fmt.Errorf("backup.dir is required"))
	}
	if c.Command.Prefix == "" {
		errs = append(errs, fmt.Errorf("command.prefix is required"))
	}
	if c.Credentials.TokenEnv == "" && c.Credentials.TokenFile == "" {
		errs = append(errs, fmt.Errorf("one of credentials.token_env or credentials.token_file is required"))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}
