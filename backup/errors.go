// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

package backup

import "errors"

// ErrAccessDenied marks a per-resource authorization failure, as
// opposed to a transport or connection failure. Transport adapters
// wrap it (with %w) into the errors they return for channels the
// acting principal cannot read. It is the only error class the
// assembler recovers from: the channel is logged and skipped, and
// iteration continues.
var ErrAccessDenied = errors.New("access denied")

// ErrNoTarget is returned when target resolution yields no channels:
// either the requested channel does not exist in the workspace, or
// the workspace has no text channels at all. The job fails before any
// collection work begins.
var ErrNoTarget = errors.New("no target channel")

// IsAccessDenied reports whether err wraps ErrAccessDenied.
func IsAccessDenied(err error) bool {
	return errors.Is(err, ErrAccessDenied)
}
