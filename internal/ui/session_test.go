package ui

import (
	"context"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"sync"
	"testing"
	"time"
)

const testAddress = "EQBx6tZZWa2Tbv6BvgcvegoOQxkRrVaBVwBOoW85nbP37_Go"

type fakeClock interface {
	clockwork.Clock
	Advance(d time.Duration)
}

func newTestSession() (*Session, *MemoryClipboard, fakeClock) {
	clip := &MemoryClipboard{}
	clock := clockwork.NewFakeClock()
	return NewSession(clip, clock), clip, clock
}

func notCopied(s *Session) func() bool {
	return func() bool {
		return !s.State().Copied
	}
}

func Test_Session_SetInput(t *testing.T) {
	s, _, _ := newTestSession()
	defer s.Close()

	state := s.SetInput(testAddress)
	require.Equal(t, testAddress, state.Input)
	require.Len(t, state.Output, 69)
	require.Equal(t, state, s.State())
}

func Test_Session_CopyShowsNoticeForTwoSeconds(t *testing.T) {
	s, clip, clock := newTestSession()
	defer s.Close()

	state := s.SetInput(testAddress)
	require.NoError(t, s.Copy(context.Background()))
	require.Equal(t, state.Output, clip.Text())
	require.True(t, s.State().Copied)

	clock.Advance(CopiedNoticeDuration - time.Millisecond)
	require.True(t, s.State().Copied)

	clock.Advance(time.Millisecond)
	require.Eventually(t, notCopied(s), time.Second, 5*time.Millisecond)
}

func Test_Session_SecondCopyRestartsTimer(t *testing.T) {
	s, _, clock := newTestSession()
	defer s.Close()

	s.SetInput(testAddress)
	require.NoError(t, s.Copy(context.Background()))

	clock.Advance(1500 * time.Millisecond)
	require.NoError(t, s.Copy(context.Background()))

	clock.Advance(time.Second)
	require.True(t, s.State().Copied, "Notice hidden by a timer which should have been reset")

	clock.Advance(time.Second)
	require.Eventually(t, notCopied(s), time.Second, 5*time.Millisecond)
}

func Test_Session_TypingDoesNotHideNotice(t *testing.T) {
	s, _, _ := newTestSession()
	defer s.Close()

	s.SetInput(testAddress)
	require.NoError(t, s.Copy(context.Background()))

	state := s.SetInput("garbage")
	require.True(t, state.Copied)
}

func Test_Session_FailedCopy(t *testing.T) {
	s, clip, _ := newTestSession()
	defer s.Close()

	failure := errors.New("no clipboard")
	clip.Fail(failure)

	s.SetInput(testAddress)
	err := s.Copy(context.Background())
	require.Error(t, err)
	require.Equal(t, failure, errors.Cause(err))
	require.False(t, s.State().Copied)
	require.Empty(t, clip.Text())
}

func Test_Session_CopyWithoutOutput(t *testing.T) {
	s, clip, _ := newTestSession()
	defer s.Close()

	s.SetInput("EQ")
	require.NoError(t, s.Copy(context.Background()))
	require.False(t, s.State().Copied)
	require.Empty(t, clip.Text())
}

func Test_Session_CopiesErrorText(t *testing.T) {
	s, clip, _ := newTestSession()
	defer s.Close()

	state := s.SetInput("nope")
	require.NoError(t, s.Copy(context.Background()))
	require.Equal(t, state.Output, clip.Text())
}

func Test_Session_CancelledCopy(t *testing.T) {
	s, _, _ := newTestSession()
	defer s.Close()

	s.SetInput(testAddress)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.Error(t, s.Copy(ctx))
	require.False(t, s.State().Copied)
}

func Test_Session_OnChange(t *testing.T) {
	s, _, clock := newTestSession()
	defer s.Close()

	var mu sync.Mutex
	states := make([]State, 0)
	s.OnChange(func(state State) {
		mu.Lock()
		defer mu.Unlock()
		states = append(states, state)
	})

	s.SetInput(testAddress)
	require.NoError(t, s.Copy(context.Background()))
	clock.Advance(CopiedNoticeDuration)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(states) == 3
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.False(t, states[0].Copied)
	require.True(t, states[1].Copied)
	require.False(t, states[2].Copied)
}

func Test_Session_StartsEmpty(t *testing.T) {
	s, clip, _ := newTestSession()
	defer s.Close()

	require.Equal(t, State{}, s.State())
	require.NoError(t, s.Copy(context.Background()))
	require.Empty(t, clip.Text())
}
