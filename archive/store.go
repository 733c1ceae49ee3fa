// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"

	"github.com/guildsnap/guildsnap/lib/clock"
)

// DefaultDir is the archive directory relative to the process working
// directory when no other location is configured.
const DefaultDir = "backups"

// nonWord matches characters that are unsafe in a file name; they are
// replaced with underscores when deriving a name from the workspace.
var nonWord = regexp.MustCompile(`\W`)

// StoreConfig holds configuration for creating a Store.
type StoreConfig struct {
	// Dir is the destination directory. If empty, DefaultDir is used.
	Dir string
	// Clock supplies the completion timestamp embedded in archive
	// names. If nil, clock.Real() is used.
	Clock clock.Clock
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Store persists in-memory archive buffers to durable storage. The
// buffer is written in a single call — never streamed — so an
// interrupted process cannot leave a truncated archive behind.
type Store struct {
	dir    string
	clock  clock.Clock
	logger *slog.Logger
}

// NewStore creates a Store.
func NewStore(config StoreConfig) *Store {
	dir := config.Dir
	if dir == "" {
		dir = DefaultDir
	}
	timeSource := config.Clock
	if timeSource == nil {
		timeSource = clock.Real()
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{dir: dir, clock: timeSource, logger: logger}
}

// ArchiveName generates the outer file name for a workspace archive:
// backup_<workspace>_<YYYY-MM-DD_HH-MM-SS>.zip, with non-word
// characters in the workspace name replaced by underscores. The
// timestamp is taken now — callers invoke this at job completion, not
// start. The second-granularity timestamp is the collision guard; two
// runs for the same workspace within one second overwrite, which is
// accepted behavior.
func (s *Store) ArchiveName(workspace string) string {
	safe := nonWord.ReplaceAllString(workspace, "_")
	stamp := s.clock.Now().Format("2006-01-02_15-04-05")
	return fmt.Sprintf("backup_%s_%s.zip", safe, stamp)
}

// Save writes the archive buffer under the store directory, creating
// the directory if absent, and returns the absolute path written.
// Name collisions are not checked here — the name is already
// collision-resistant by construction.
func (s *Store) Save(data []byte, fileName string) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("archive: creating %s: %w", s.dir, err)
	}

	target := filepath.Join(s.dir, fileName)
	if err := os.WriteFile(target, data, 0o644); err != nil {
		return "", fmt.Errorf("archive: writing %s: %w", target, err)
	}

	absolute, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("archive: resolving %s: %w", target, err)
	}

	s.logger.Info("archive written",
		"path", absolute,
		"bytes", len(data),
	)
	return absolute, nil
}
