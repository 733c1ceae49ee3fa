// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestExecuteDispatch(t *testing.T) {
	var ran []string
	root := &Command{
		Name: "guildsnap",
		Subcommands: []*Command{
			{
				Name: "backup",
				Run: func(args []string) error {
					ran = append(ran, "backup")
					return nil
				},
			},
			{
				Name: "serve",
				Run: func(args []string) error {
					ran = append(ran, "serve")
					return nil
				},
			},
		},
	}

	if err := root.Execute([]string{"backup"}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(ran) != 1 || ran[0] != "backup" {
		t.Errorf("ran = %v", ran)
	}
}

func TestExecuteUnknownCommandSuggests(t *testing.T) {
	root := &Command{
		Name:        "guildsnap",
		Subcommands: []*Command{{Name: "backup"}, {Name: "serve"}},
	}

	err := root.Execute([]string{"bakcup"})
	if err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(err.Error(), `did you mean "backup"`) {
		t.Errorf("error = %q, want suggestion", err)
	}
}

func TestExecuteFlagParsing(t *testing.T) {
	var guild string
	command := &Command{
		Name: "backup",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("backup", pflag.ContinueOnError)
			flags.StringVar(&guild, "guild", "", "guild ID")
			return flags
		},
		Run: func(args []string) error { return nil },
	}

	if err := command.Execute([]string{"--guild", "123"}); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if guild != "123" {
		t.Errorf("guild = %q", guild)
	}
}

func TestExecuteUnknownFlagSuggests(t *testing.T) {
	command := &Command{
		Name: "backup",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("backup", pflag.ContinueOnError)
			flags.String("guild", "", "guild ID")
			return flags
		},
		Run: func(args []string) error { return nil },
	}

	err := command.Execute([]string{"--guilde", "123"})
	if err == nil {
		t.Fatal("expected error for unknown flag")
	}
	if !strings.Contains(err.Error(), "--guild") {
		t.Errorf("error = %q, want flag suggestion", err)
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"backup", "backup", 0},
		{"bakcup", "backup", 2},
		{"serve", "backup", 6},
		{"", "abc", 3},
	}
	for _, testCase := range cases {
		if got := levenshtein(testCase.a, testCase.b); got != testCase.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", testCase.a, testCase.b, got, testCase.want)
		}
	}
}
