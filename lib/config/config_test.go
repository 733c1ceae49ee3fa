// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "guildsnap.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
	return path
}

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("default config invalid: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
guild_id: "175928847299117063"
api:
  message_page_size: 50
backup:
  dir: /srv/guildsnap/backups
command:
  prefix: "?"
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.GuildID != "175928847299117063" {
		t.Errorf("GuildID = %q", cfg.GuildID)
	}
	if cfg.API.MessagePageSize != 50 {
		t.Errorf("MessagePageSize = %d", cfg.API.MessagePageSize)
	}
	// Omitted fields keep their defaults.
	if cfg.API.MemberPageSize != 1000 {
		t.Errorf("MemberPageSize = %d, want default", cfg.API.MemberPageSize)
	}
	if cfg.Credentials.TokenEnv != "GUILDSNAP_TOKEN" {
		t.Errorf("TokenEnv = %q, want default", cfg.Credentials.TokenEnv)
	}
	if cfg.Backup.Dir != "/srv/guildsnap/backups" {
		t.Errorf("Backup.Dir = %q", cfg.Backup.Dir)
	}
	if cfg.Command.Prefix != "?" {
		t.Errorf("Prefix = %q", cfg.Command.Prefix)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("loaded config invalid: %v", err)
	}
}

func TestLoadFileExpandsVariables(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	path := writeConfig(t, `
backup:
  dir: ${HOME}/backups
credentials:
  token_file: ${GUILDSNAP_STATE:-/var/lib/guildsnap}/token
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if cfg.Backup.Dir != "/home/tester/backups" {
		t.Errorf("Backup.Dir = %q", cfg.Backup.Dir)
	}
	if cfg.Credentials.TokenFile != "/var/lib/guildsnap/token" {
		t.Errorf("TokenFile = %q", cfg.Credentials.TokenFile)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if _, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadWithoutEnvReturnsDefaults(t *testing.T) {
	t.Setenv("GUILDSNAP_CONFIG", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.API.MemberPageSize != 1000 {
		t.Errorf("MemberPageSize = %d", cfg.API.MemberPageSize)
	}
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name     string
		mutate   func(*Config)
		wantPart string
	}{
		{
			name:     "member page size too large",
			mutate:   func(c *Config) { c.API.MemberPageSize = 5000 },
			wantPart: "member_page_size",
		},
		{
			name:     "message page size zero",
			mutate:   func(c *Config) { c.API.MessagePageSize = 0 },
			wantPart: "message_page_size",
		},
		{
			name:     "empty prefix",
			mutate:   func(c *Config) { c.Command.Prefix = "" },
			wantPart: "command.prefix",
		},
		{
			name: "no credential source",
			mutate: func(c *Config) {
				c.Credentials.TokenEnv = ""
				c.Credentials.TokenFile = ""
			},
			wantPart: "credentials",
		},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			cfg := Default()
			testCase.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), testCase.wantPart) {
				t.Errorf("error %q does not mention %q", err, testCase.wantPart)
			}
		})
	}
}
