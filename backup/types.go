// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

package backup

import "context"

// Snapshot is the root archival document for one backup job. It is
// created empty at job start, mutated in place by the Assembler as
// each channel completes, and handed off read-only to the archive
// writer exactly once.
type Snapshot struct {
	// Info maps workspace attribute names to normalized values.
	Info map[string]any `json:"info"`

	// Members maps member ID to the member's roster record.
	Members map[string]Member `json:"members"`

	// Channels maps channel name to the channel's full message
	// history, oldest to newest. A channel the job could not read is
	// absent from the map. The source platform does not guarantee
	// channel-name uniqueness; a duplicate name overwrites the earlier
	// entry, matching observed upstream behavior.
	Channels map[string][]Message `json:"channels"`
}

// NewSnapshot returns an empty Snapshot ready for assembly.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Info:     map[string]any{},
		Members:  map[string]Member{},
		Channels: map[string][]Message{},
	}
}

// Member is one roster entry, detached from the transport.
type Member struct {
	Name        string   `json:"name"`
	DisplayName string   `json:"display_name"`
	Roles       []string `json:"roles"`
	JoinedAt    string   `json:"joined_at"`
	Bot         bool     `json:"bot"`
}

// RosterEntry pairs a member ID with its record. Feeds deliver
// entries rather than map fragments so the collector controls map
// construction.
type RosterEntry struct {
	ID     string
	Member Member
}

// Message is one archived message. The record is fully detached: it
// never references live transport objects after creation.
type Message struct {
	ID          string           `json:"id"`
	Content     string           `json:"content"`
	Author      Author           `json:"author"`
	CreatedAt   string           `json:"created_at"`
	Attachments []string         `json:"attachments"`
	Embeds      []map[string]any `json:"embeds"`
	Reactions   []Reaction       `json:"reactions"`
	Pinned      bool             `json:"pinned"`
	Type        string           `json:"type"`
}

// Author identifies who sent a message.
type Author struct {
	Name string `json:"name"`
	ID   string `json:"id"`
	Bot  bool   `json:"bot"`
}

// Reaction is one emoji reaction tally on a message.
type Reaction struct {
	Emoji string `json:"emoji"`
	Count int    `json:"count"`
}

// Channel identifies one message channel in the workspace.
type Channel struct {
	ID   string
	Name string
}

// MemberFeed streams the workspace roster page by page. Next blocks
// on the underlying fetch and returns the next page of entries; an
// empty page with a nil error means the feed is exhausted. Feeds are
// finite but of unknown size, and not restartable — a fresh feed
// starts over from the beginning.
type MemberFeed interface {
	Next(ctx context.Context) ([]RosterEntry, error)
}

// MessageFeed streams one channel's history page by page, oldest to
// newest. Same exhaustion and restart semantics as [MemberFeed].
// A feed for a channel the caller cannot read returns an error
// wrapping [ErrAccessDenied] from its first Next call.
type MessageFeed interface {
	Next(ctx context.Context) ([]Message, error)
}

// Source is the transport collaborator the pipeline pulls from. It is
// assumed to either return data or fail with a typed error per
// resource; connection management, auth, and rate limiting live
// behind it.
type Source interface {
	// Workspace returns the workspace display name. Used for progress
	// text and archive naming.
	Workspace(ctx context.Context) (string, error)

	// Info returns the workspace attribute mapping from the source's
	// versioned field list. Values may still contain opaque types;
	// the assembler normalizes them before they enter the Snapshot.
	Info(ctx context.Context) (map[string]any, error)

	// Channels returns the workspace's text channels in source order.
	Channels(ctx context.Context) ([]Channel, error)

	// Members returns a feed over the full workspace roster.
	Members(ctx context.Context) MemberFeed

	// History returns a feed over one channel's complete history.
	History(ctx context.Context, channel Channel) MessageFeed
}
