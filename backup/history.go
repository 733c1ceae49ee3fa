// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

package backup

import (
	"context"
	"fmt"
)

// CollectHistory drains one channel's message feed to exhaustion and
// returns the full history, oldest to newest, with no length cap.
// The feed is bounded only by its pagination cursor reaching the end
// — this is the dominant cost center of a backup job, and no
// artificial delay or batching is imposed beyond what the feed
// naturally paces.
//
// An access-denied error from the feed propagates to the caller
// untouched; deciding whether that aborts the job belongs to the
// assembler, not here.
func CollectHistory(ctx context.Context, feed MessageFeed) ([]Message, error) {
	// Non-nil so an empty channel archives as [] rather than null.
	history := []Message{}
	for {
		page, err := feed.Next(ctx)
		if err != nil {
			if IsAccessDenied(err) {
				return nil, err
			}
			return nil, fmt.Errorf("backup: history collection failed: %w", err)
		}
		if len(page) == 0 {
			return history, nil
		}
		history = append(history, page...)
	}
}
