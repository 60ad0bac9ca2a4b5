// Package tui is a Bubble Tea front end for the test authoring wizard.
package tui

import "github.com/smartmcq/smartmcq/internal/authoring"

// viewMsg carries the result of one backend call.
type viewMsg struct {
	view authoring.View
	err  error
}
