// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"testing"

	"github.com/guildsnap/guildsnap/backup"
)

func TestParseCommand(t *testing.T) {
	cases := []struct {
		name       string
		content    string
		prefix     string
		wantTarget string
		wantOK     bool
	}{
		{
			name:       "missing target matches but yields no target",
			content:    "!backup",
			prefix:     "!",
			wantTarget: "",
			wantOK:     true,
		},
		{
			name:       "explicit all",
			content:    "!backup all",
			prefix:     "!",
			wantTarget: backup.TargetAll,
			wantOK:     true,
		},
		{
			name:       "channel mention argument",
			content:    "!backup <#53908232506183680>",
			prefix:     "!",
			wantTarget: "<#53908232506183680>",
			wantOK:     true,
		},
		{
			name:       "extra tokens beyond the target are ignored",
			content:    "!backup all please",
			prefix:     "!",
			wantTarget: "all",
			wantOK:     true,
		},
		{
			name:    "different prefix",
			content: "!backup",
			prefix:  "?",
			wantOK:  false,
		},
		{
			name:    "prefix embedded mid-message",
			content: "run !backup now",
			prefix:  "!",
			wantOK:  false,
		},
		{
			name:    "unrelated message",
			content: "hello there",
			prefix:  "!",
			wantOK:  false,
		},
		{
			name:    "empty message",
			content: "",
			prefix:  "!",
			wantOK:  false,
		},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			target, ok := parseCommand(testCase.content, testCase.prefix)
			if ok != testCase.wantOK {
				t.Fatalf("ok = %v, want %v", ok, testCase.wantOK)
			}
			if ok && target != testCase.wantTarget {
				t.Errorf("target = %q, want %q", target, testCase.wantTarget)
			}
		})
	}
}

func TestBotAcquireRelease(t *testing.T) {
	b := &bot{active: map[string]bool{}}

	if !b.acquire("g1") {
		t.Fatal("first acquire refused")
	}
	if b.acquire("g1") {
		t.Error("second acquire for same guild succeeded")
	}
	if !b.acquire("g2") {
		t.Error("acquire for a different guild refused")
	}

	b.release("g1")
	if !b.acquire("g1") {
		t.Error("acquire after release refused")
	}
}
