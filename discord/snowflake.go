// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

package discord

import (
	"fmt"
	"time"

	"github.com/bwmarrin/snowflake"
)

// discordEpoch is the Discord snowflake epoch: 2015-01-01T00:00:00Z in
// Unix milliseconds. Snowflake timestamps count from here, not from
// the Twitter epoch the snowflake package defaults to.
const discordEpoch = 1420070400000

// CreationTime extracts the embedded creation instant from a Discord
// snowflake ID. Used as the timestamp of record when the API omits one.
func CreationTime(id string) (time.Time, error) {
	parsed, err := snowflake.ParseString(id)
	if err != nil {
		return time.Time{}, fmt.Errorf("discord: invalid snowflake %q: %w", id, err)
	}
	// The top 42 bits are milliseconds since the Discord epoch.
	milliseconds := (int64(parsed) >> 22) + discordEpoch
	return time.UnixMilli(milliseconds).UTC(), nil
}
