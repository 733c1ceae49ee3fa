// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command dispatch framework for the
// guildsnap binary: a nested command tree with pflag flag parsing,
// structured help output, typo suggestions for unknown commands and
// flags, and logger construction shared by all commands.
package cli
