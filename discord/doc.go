// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

// Package discord adapts the Discord REST and gateway APIs to the
// backup pipeline's collaborator interfaces.
//
// Source implements [backup.Source] over a discordgo session: it
// resolves the guild, lists text channels, and streams the member
// roster and per-channel message history through paginated feeds.
// Records are detached at the package boundary — nothing downstream of
// this package holds a discordgo type.
//
// EmbedReporter implements [backup.Reporter] by posting a progress
// embed to a channel and editing it in place on every update.
//
// Discord's permission errors are mapped to [backup.ErrAccessDenied]
// so the pipeline can apply its skip policy without knowing the
// transport.
package discord
