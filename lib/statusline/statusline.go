// Copyright 2026 The Guildsnap Authors
// SPDX-License-Identifier: Apache-2.0

// Package statusline renders backup progress on a terminal. On a TTY
// the line is redrawn in place; when output is piped each update is
// printed on its own line so logs stay readable.
package statusline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/guildsnap/guildsnap/backup"
)

var (
	labelStyle  = lipgloss.NewStyle().Faint(true)
	statusStyle = lipgloss.NewStyle().Bold(true)
	doneStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2"))
)

// Renderer implements [backup.Reporter] for terminal output.
type Renderer struct {
	out     io.Writer
	tty     bool
	lastLen int
}

// New creates a Renderer writing to stdout, detecting whether it is a
// terminal.
func New() *Renderer {
	return &Renderer{
		out: os.Stdout,
		tty: term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// NewWithWriter creates a Renderer for an explicit writer, treated as
// a plain (non-TTY) stream. Used by tests.
func NewWithWriter(out io.Writer) *Renderer {
	return &Renderer{out: out}
}

// Update implements [backup.Reporter].
func (r *Renderer) Update(ctx context.Context, view backup.View) error {
	line := formatView(view)

	if !r.tty {
		_, err := fmt.Fprintln(r.out, line)
		return err
	}

	// Redraw in place, padding over any residue of a longer prior line.
	padding := ""
	if visible := lipgloss.Width(line); visible < r.lastLen {
		padding = strings.Repeat(" ", r.lastLen-visible)
	}
	r.lastLen = lipgloss.Width(line)

	terminator := ""
	if view.Done() {
		terminator = "\n"
	}
	_, err := fmt.Fprintf(r.out, "\r%s%s%s", line, padding, terminator)
	return err
}

// formatView renders one view as a single styled line.
func formatView(view backup.View) string {
	style := statusStyle
	if view.Done() {
		style = doneStyle
	}

	parts := []string{
		style.Render(view.Status),
		labelStyle.Render("channels ") + view.ChannelsField(),
		labelStyle.Render("messages ") + view.MessagesField(),
	}
	if view.Done() && view.ArchivePath != "" {
		parts = append(parts, labelStyle.Render("archive ")+view.ArchivePath)
	}
	return strings.Join(parts, "  ")
}
