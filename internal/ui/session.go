package ui

import (
	"context"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"sync"
)

// Session owns the UI state of one user. State only changes through SetInput and Copy (and the timer
// Copy arms), so any front-end -- terminal, web page -- can simply render what it gets.
type Session struct {
	mu        sync.Mutex
	state     State
	clipboard Clipboard
	clock     clockwork.Clock

	copySeq   uint64
	cancel    context.CancelFunc
	timer     clockwork.Timer
	timerSeq  uint64
	listeners []func(State)
}

// NewSession creates a new session. Nothing is converted until the first input, so the output starts
// empty. If clock is nil, the real clock is used.
func NewSession(clipboard Clipboard, clock clockwork.Clock) *Session {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Session{
		clipboard: clipboard,
		clock:     clock,
	}
}

// OnChange registers a function which gets called with the new state after every change, including the
// notice being hidden by the timer. Listeners are called outside of the session lock.
func (s *Session) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// State returns a snapshot of the current state
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// SetInput updates the input field and re-converts it
func (s *Session) SetInput(input string) State {
	s.mu.Lock()
	s.state = Apply(s.state, input)
	state := s.state
	s.mu.Unlock()

	s.notify(state)
	return state
}

// Copy writes the current output to the clipboard. It does nothing if there's no output. A copy which is
// still running when Copy is called again gets cancelled. After a successful write the copied notice is
// shown for CopiedNoticeDuration; a new successful copy restarts that period.
func (s *Session) Copy(ctx context.Context) error {
	s.mu.Lock()
	text := s.state.Output
	if text == "" {
		s.mu.Unlock()
		return nil
	}
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.copySeq++
	seq := s.copySeq
	s.mu.Unlock()
	defer cancel()

	if err := s.clipboard.WriteText(ctx, text); err != nil {
		return errors.Wrapf(err, "Could not copy to clipboard")
	}

	s.mu.Lock()
	if seq != s.copySeq {
		// superseded by a newer copy
		s.mu.Unlock()
		return nil
	}
	s.cancel = nil
	s.state.Copied = true
	s.armTimer()
	state := s.state
	s.mu.Unlock()

	s.notify(state)
	return nil
}

// armTimer (re)starts the timer which hides the notice. Must be called with the lock held.
func (s *Session) armTimer() {
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timerSeq++
	seq := s.timerSeq
	s.timer = s.clock.AfterFunc(CopiedNoticeDuration, func() {
		s.hideNotice(seq)
	})
}

func (s *Session) hideNotice(seq uint64) {
	s.mu.Lock()
	if seq != s.timerSeq || !s.state.Copied {
		s.mu.Unlock()
		return
	}
	s.state.Copied = false
	s.timer = nil
	state := s.state
	s.mu.Unlock()

	s.notify(state)
}

func (s *Session) notify(state State) {
	s.mu.Lock()
	listeners := make([]func(State), len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l(state)
	}
}

// Close stops the notice timer and cancels the copy in progress, if any
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.timerSeq++
}
