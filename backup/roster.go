// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

package backup

import (
	"context"
	"fmt"
)

// CollectRoster drains a member feed to exhaustion and returns the
// complete members mapping keyed by member ID. The feed may be large
// (hundreds of thousands of entries for a big workspace) — pages are
// folded into the map as they arrive, nothing else is buffered.
//
// Any feed error is fatal to the whole job: a workspace without
// readable membership is not a meaningful snapshot.
func CollectRoster(ctx context.Context, feed MemberFeed) (map[string]Member, error) {
	members := map[string]Member{}
	for {
		page, err := feed.Next(ctx)
		if err != nil {
			return nil, fmt.Errorf("backup: roster collection failed: %w", err)
		}
		if len(page) == 0 {
			return members, nil
		}
		for _, entry := range page {
			members[entry.ID] = entry.Member
		}
	}
}
