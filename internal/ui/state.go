package ui

import (
	"github.com/bokysan/tonconv/internal/address"
	"time"
)

// CopiedNoticeDuration is how long the "copied" notice stays visible after a successful copy
const CopiedNoticeDuration = 2 * time.Second

// State is everything the presentation layer shows: what the user typed, what it converts to and whether
// the "copied" notice is visible.
type State struct {
	Input  string `json:"input"`
	Output string `json:"output"`
	Copied bool   `json:"copied"`
}

// Apply returns the state after the input field changed to `input`. The whole field is re-converted.
// The copied flag is carried over: typing does not hide the notice.
func Apply(s State, input string) State {
	return State{
		Input:  input,
		Output: address.Convert(input),
		Copied: s.Copied,
	}
}

// Valid returns true if the output holds a converted address and not the error text
func (s State) Valid() bool {
	return address.HasValidPrefix(s.Input)
}
