// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

package commands

import (
	"fmt"

	"github.com/guildsnap/guildsnap/cmd/guildsnap/cli"
)

// Version is the release version, overridden at link time:
//
//	go build -ldflags "-X .../commands.Version=v1.2.3"
var Version = "dev"

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:    "version",
		Summary: "Print the guildsnap version",
		Run: func(args []string) error {
			fmt.Println("guildsnap " + Version)
			return nil
		},
	}
}
