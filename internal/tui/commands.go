// Package tui provides a terminal user interface for visualizing
// pipeline phase progress.
package tui

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/vito/progrock"
)

// TapeSource is an interface for reading progrock updates. The telemetry
// adapter's stream implements it.
type TapeSource interface {
	Read() (*progrock.StatusUpdate, error)
}

// WaitForTape returns a Bubble Tea command that reads the next update
// from the tape. It returns MsgTapeUpdate on success or MsgTapeEnded on
// EOF or error.
func WaitForTape(tape TapeSource) tea.Cmd {
	return func() tea.Msg {
		update, err := tape.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return MsgTapeEnded{}
			}
			// Treat other errors as end of stream
			return MsgTapeEnded{}
		}
		return MsgTapeUpdate{Update: update}
	}
}
