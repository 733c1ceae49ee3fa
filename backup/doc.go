// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

// Package backup implements the snapshot pipeline: collecting the
// observable state of a workspace (info attributes, member roster,
// per-channel message history) from a paginated [Source] and
// assembling it into a single in-memory [Snapshot] document.
//
// The pipeline is strictly sequential. One [Assembler] drives one
// backup job: it resolves the target channel set, collects info and
// roster once, then drains each channel's history feed to exhaustion
// in order. The only suspension points are the paginated fetch calls
// and the progress render side effect; everything else is synchronous
// and bounded by local CPU and memory. Channel fetches are never
// parallelized — the upstream transport enforces global rate limits,
// and sequential processing keeps progress reporting monotonic.
//
// Failure policy: a channel whose history raises [ErrAccessDenied] is
// logged and skipped (the channel is simply absent from the result).
// Every other error aborts the job before anything is persisted.
// There are no retries at any layer here — retry and backoff, if
// desired, belong to the transport.
//
// All records in a Snapshot are fully detached, JSON-safe values.
// Nothing in a finished Snapshot references live transport objects.
package backup
