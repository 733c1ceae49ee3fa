// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

package backup

import (
	"context"
	"fmt"
)

// Tracker holds the progress state of one backup job: channels
// completed out of total, cumulative message count, and the latest
// status text. It has no internal concurrency — the assembler drives
// it synchronously after each channel starts or finishes. The tracker
// only computes the next display payload; rendering it is the
// caller's side effect.
type Tracker struct {
	completed int
	total     int
	messages  int
	status    string
}

// Advance records a state transition and returns the view to render.
// Invariants are enforced rather than trusted: completed never
// exceeds total once total is known, and the message counter is
// monotonically non-decreasing within one run.
func (t *Tracker) Advance(completed, total, messages int, status string) View {
	if total >= 0 {
		t.total = total
	}
	if completed >= 0 {
		t.completed = completed
	}
	if t.total > 0 && t.completed > t.total {
		t.completed = t.total
	}
	if messages > t.messages {
		t.messages = messages
	}
	t.status = status
	return t.View()
}

// View returns the current display payload without advancing.
func (t *Tracker) View() View {
	return View{
		Completed: t.completed,
		Total:     t.total,
		Messages:  t.messages,
		Status:    t.status,
	}
}

// View is one rendered progress payload: the three labeled fields a
// renderer displays, plus the archive path on the final update.
type View struct {
	Completed int
	Total     int
	Messages  int
	Status    string

	// ArchivePath is set only on the final update, after the archive
	// has been persisted.
	ArchivePath string
}

// ChannelsField formats the channel progress counter ("3/12").
func (v View) ChannelsField() string {
	return fmt.Sprintf("%d/%d", v.Completed, v.Total)
}

// MessagesField formats the cumulative message counter.
func (v View) MessagesField() string {
	return fmt.Sprintf("%d", v.Messages)
}

// Done reports whether this is the final view of a completed job.
func (v View) Done() bool {
	return v.Status == StatusDone
}

// Status text constants shared between the assembler and renderers.
const (
	// StatusPreparing is the initial status, rendered before any
	// collection work starts.
	StatusPreparing = "preparing"

	// StatusDone is the final status of a completed job.
	StatusDone = "done"
)

// Reporter renders progress views. The assembler invokes it on every
// tracker transition; implementations edit a status message, redraw a
// terminal line, or similar. A render failure is reported to the
// assembler but never aborts the job.
type Reporter interface {
	Update(ctx context.Context, view View) error
}

// DiscardReporter ignores all updates. Useful for tests and for
// callers that do not render progress.
type DiscardReporter struct{}

// Update implements [Reporter].
func (DiscardReporter) Update(context.Context, View) error { return nil }
