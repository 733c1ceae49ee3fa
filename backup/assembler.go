// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

package backup

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
)

// TargetAll is the target token requesting every text channel in the
// workspace.
const TargetAll = "all"

// nonDigits strips everything but digits from a target token, so that
// channel mentions ("<#123456>") and bare IDs resolve the same way.
var nonDigits = regexp.MustCompile(`\D`)

// ResolveTarget resolves a target token against the workspace channel
// list. "all" selects every channel in source order; any other token
// has its non-digit characters stripped and the remainder matched
// against channel IDs. A resolution that yields zero channels returns
// an error wrapping [ErrNoTarget].
func ResolveTarget(target string, channels []Channel) ([]Channel, error) {
	if target == TargetAll {
		if len(channels) == 0 {
			return nil, fmt.Errorf("backup: workspace has no text channels: %w", ErrNoTarget)
		}
		return append([]Channel(nil), channels...), nil
	}

	id := nonDigits.ReplaceAllString(target, "")
	if id == "" {
		return nil, fmt.Errorf("backup: target %q contains no channel ID: %w", target, ErrNoTarget)
	}
	for _, channel := range channels {
		if channel.ID == id {
			return []Channel{channel}, nil
		}
	}
	return nil, fmt.Errorf("backup: channel %s not found: %w", id, ErrNoTarget)
}

// AssemblerConfig holds configuration for creating an Assembler.
type AssemblerConfig struct {
	// Source is the transport the pipeline pulls from. Required.
	Source Source
	// Reporter renders progress. If nil, updates are discarded.
	Reporter Reporter
	// Logger is used for structured logging. If nil, slog.Default() is used.
	Logger *slog.Logger
}

// Assembler orchestrates one backup job: info, roster, then every
// target channel in order. Assemblers are single-use — create a fresh
// one per job. Concurrent jobs are independent call stacks with no
// shared state.
type Assembler struct {
	source   Source
	reporter Reporter
	logger   *slog.Logger
	tracker  Tracker
}

// Result is the outcome of a completed backup job.
type Result struct {
	// Snapshot is the assembled document, ready for the archive writer.
	Snapshot *Snapshot
	// Workspace is the workspace display name, for archive naming.
	Workspace string
	// ChannelsTotal is the size of the resolved target set.
	ChannelsTotal int
	// ChannelsArchived counts channels whose history was collected.
	ChannelsArchived int
	// ChannelsSkipped counts channels skipped on access-denied.
	ChannelsSkipped int
	// Messages is the cumulative archived message count.
	Messages int
	// Progress is the final tracker state. The caller advances it one
	// last time (status "done", archive path) after persistence.
	Progress Tracker
}

// NewAssembler creates an Assembler for one backup job.
func NewAssembler(config AssemblerConfig) (*Assembler, error) {
	if config.Source == nil {
		return nil, fmt.Errorf("backup: Source is required")
	}
	reporter := config.Reporter
	if reporter == nil {
		reporter = DiscardReporter{}
	}
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Assembler{
		source:   config.Source,
		reporter: reporter,
		logger:   logger,
	}, nil
}

// Run executes the job for the given target token and returns the
// assembled snapshot. The state sequence is linear with no branching
// back: resolve targets, collect info, collect roster, iterate
// channels, finalize.
//
// A channel whose history is denied is logged and skipped; any other
// failure aborts the job and no partial snapshot survives.
func (a *Assembler) Run(ctx context.Context, target string) (*Result, error) {
	workspace, err := a.source.Workspace(ctx)
	if err != nil {
		return nil, fmt.Errorf("backup: resolving workspace: %w", err)
	}

	channels, err := a.source.Channels(ctx)
	if err != nil {
		return nil, fmt.Errorf("backup: listing channels: %w", err)
	}
	targets, err := ResolveTarget(target, channels)
	if err != nil {
		return nil, err
	}

	// The initial render happens only after target resolution
	// succeeds — a rejected target never creates progress UI.
	a.render(ctx, a.tracker.Advance(0, 0, 0, StatusPreparing))

	a.logger.Info("backup started",
		"workspace", workspace,
		"target", target,
		"channels", len(targets),
	)

	snapshot := NewSnapshot()

	raw, err := a.source.Info(ctx)
	if err != nil {
		return nil, fmt.Errorf("backup: collecting workspace info: %w", err)
	}
	snapshot.Info = NormalizeInfo(raw)

	snapshot.Members, err = CollectRoster(ctx, a.source.Members(ctx))
	if err != nil {
		return nil, err
	}

	result := &Result{
		Snapshot:      snapshot,
		Workspace:     workspace,
		ChannelsTotal: len(targets),
	}

	for index, channel := range targets {
		a.render(ctx, a.tracker.Advance(index, len(targets), result.Messages,
			fmt.Sprintf("archiving #%s", channel.Name)))

		history, err := CollectHistory(ctx, a.source.History(ctx, channel))
		if err != nil {
			if IsAccessDenied(err) {
				a.logger.Warn("access denied, skipping channel",
					"channel", channel.Name,
					"channel_id", channel.ID,
				)
				result.ChannelsSkipped++
				a.render(ctx, a.tracker.Advance(index+1, len(targets), result.Messages,
					fmt.Sprintf("skipped #%s (access denied)", channel.Name)))
				continue
			}
			return nil, err
		}

		snapshot.Channels[channel.Name] = history
		result.ChannelsArchived++
		result.Messages += len(history)
		a.render(ctx, a.tracker.Advance(index+1, len(targets), result.Messages,
			fmt.Sprintf("archived #%s", channel.Name)))
	}

	a.logger.Info("backup assembled",
		"workspace", workspace,
		"channels_archived", result.ChannelsArchived,
		"channels_skipped", result.ChannelsSkipped,
		"messages", result.Messages,
	)

	result.Progress = a.tracker
	return result, nil
}

// render invokes the reporter. Render failures are logged and
// swallowed — progress display must never take down a backup.
func (a *Assembler) render(ctx context.Context, view View) {
	if err := a.reporter.Update(ctx, view); err != nil {
		a.logger.Warn("progress render failed", "error", err)
	}
}
