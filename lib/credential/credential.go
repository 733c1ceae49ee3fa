// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

// Package credential resolves the bot token from its configured
// source. The token never appears in config files or logs; it is read
// from an environment variable or a token file at startup.
package credential

import (
	"fmt"
	"os"
	"strings"
)

// Provider yields the bot token. Implementations read it from exactly
// one source; selection between sources is the caller's concern.
type Provider interface {
	Token() (string, error)
}

// Env reads the token from an environment variable.
type Env struct {
	// Name is the environment variable holding the token.
	Name string
}

// Token implements [Provider].
func (e Env) Token() (string, error) {
	value := os.Getenv(e.Name)
	if value == "" {
		return "", fmt.Errorf("credential: environment variable %s is not set", e.Name)
	}
	return value, nil
}

// File reads the token from a file, ignoring surrounding whitespace.
type File struct {
	// Path is the token file location.
	Path string
}

// Token implements [Provider].
func (f File) Token() (string, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return "", fmt.Errorf("credential: reading token file: %w", err)
	}
	token := strings.TrimSpace(string(data))
	if token == "" {
		return "", fmt.Errorf("credential: token file %s is empty", f.Path)
	}
	return token, nil
}
