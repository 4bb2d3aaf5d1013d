package tui

import (
	"github.com/mark3labs/mailman/internal/hooks"
	"github.com/mark3labs/mailman/internal/mergetemplate"
)

// listChangedMsg is sent from bus goroutines after the list or settings
// view changed, so the next frame picks it up.
type listChangedMsg struct{}

// loadedMsg reports that the template stream has been replayed.
type loadedMsg struct {
	err error
}

// savedMsg reports the outcome of saving a wizard result.
type savedMsg struct {
	template *mergetemplate.Template
	sendNow  bool
	err      error
}

// hookRanMsg carries the combined output of the hooks run for an event.
type hookRanMsg struct {
	event  hooks.Event
	title  string
	result hooks.Result
	err    error
}
