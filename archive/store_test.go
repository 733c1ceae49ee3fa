// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/guildsnap/guildsnap/lib/clock"
)

func TestArchiveName(t *testing.T) {
	fixed := time.Date(2026, 8, 24, 12, 30, 45, 0, time.UTC)
	store := NewStore(StoreConfig{Clock: clock.Fake(fixed)})

	cases := []struct{ workspace, want string }{
		{"My Server!", "backup_My_Server__2026-08-24_12-30-45.zip"},
		{"plain", "backup_plain_2026-08-24_12-30-45.zip"},
		{"a/b\\c", "backup_a_b_c_2026-08-24_12-30-45.zip"},
	}
	for _, testCase := range cases {
		if got := store.ArchiveName(testCase.workspace); got != testCase.want {
			t.Errorf("ArchiveName(%q) = %q, want %q", testCase.workspace, got, testCase.want)
		}
	}
}

func TestArchiveNameUsesCurrentTime(t *testing.T) {
	fake := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	store := NewStore(StoreConfig{Clock: fake})

	first := store.ArchiveName("ws")
	fake.Advance(time.Second)
	second := store.ArchiveName("ws")
	if first == second {
		t.Errorf("names identical across clock advance: %q", first)
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "backups")
	store := NewStore(StoreConfig{Dir: dir})

	payload := []byte("archive bytes")
	path, err := store.Save(payload, "backup_ws_2026-01-01_00-00-00.zip")
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("Save returned relative path %q", path)
	}

	written, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved archive: %v", err)
	}
	if string(written) != string(payload) {
		t.Errorf("saved content = %q, want %q", written, payload)
	}
}
