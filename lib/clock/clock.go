// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time abstraction for
// testability.
//
// Production code accepts a Clock parameter instead of calling
// time.Now directly. Real() provides standard library behavior;
// Fake() provides a deterministic clock for tests, which matters here
// because archive file names embed a completion timestamp.
package clock

import "time"

// Clock abstracts time for code that needs the current instant.
// Every production function that would call time.Now should accept a
// Clock (or be a method on a struct with a Clock field) instead.
type Clock interface {
	// Now returns the current time.
	Now() time.Time
}

// Real returns a Clock backed by the standard time package.
func Real() Clock { return realClock{} }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }
