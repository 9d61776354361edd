package messages

import (
	"time"

	"nordify/internal/history"
	"nordify/pkg/types"
)

// DispatchedMsg carries the outcome of a command run off the update loop.
type DispatchedMsg struct {
	Command string
	Events  []types.Event
	Err     error
}

// TickMsg asks the model to check the watcher.
type TickMsg time.Time

// OpenedMsg reports the result of opening the preview in the system viewer.
type OpenedMsg struct {
	Path string
	Err  error
}

// HistoryMsg carries recently visited directories.
type HistoryMsg struct {
	Visits []history.Visit
	Err    error
}
