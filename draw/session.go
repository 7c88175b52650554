// Package draw manages the numbers called during a game of Tambola.
package draw

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/Parkreiner/tambola"
	"github.com/Parkreiner/tambola/shuffler"
	"github.com/google/uuid"
)

// Session manages every number in a single draw: the ones that have been
// called (in call order), and the pool of ones that haven't. A Session can be
// reused across multiple games via Reset.
type Session struct {
	id       uuid.UUID
	called   []tambola.Number
	uncalled []tambola.Number
	shuffler *shuffler.Shuffler
	// preview feeds Peek. It is kept apart from shuffler so that animation
	// frames never change which numbers a given seed ends up committing
	preview    *shuffler.Shuffler
	dispatcher tambola.EventDispatcher
	now        func() time.Time
	mtx        *sync.Mutex
}

// Option configures optional Session behavior
type Option func(*Session)

// WithDispatcher makes the session dispatch an event every time it is reset
// or a number is committed.
func WithDispatcher(dispatcher tambola.EventDispatcher) Option {
	return func(s *Session) {
		s.dispatcher = dispatcher
	}
}

// WithClock overrides the function used to timestamp events
func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// NewSession creates a new draw session with a full pool of numbers
func NewSession(rngSeed int64, opts ...Option) *Session {
	s := &Session{
		shuffler: shuffler.NewShuffler(rngSeed),
		preview:  shuffler.NewShuffler(rngSeed + 1),
		now:      time.Now,
		mtx:      &sync.Mutex{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.Reset()
	return s
}

// Reset reverts the session to its initial state: every number back in the
// pool, no call history, and a brand new session ID.
func (s *Session) Reset() {
	s.mtx.Lock()
	s.id = uuid.New()
	s.called = nil
	s.uncalled = tambola.NumbersForRange(1, tambola.MaxNumber)
	event := s.newEvent(tambola.EventTypeReset, tambola.Blank, "draw reset")
	s.mtx.Unlock()

	s.dispatch(event)
}

// DrawNext commits the next number for the game, chosen uniformly from the
// numbers that haven't been called yet. Once every number has been called,
// DrawNext returns tambola.ErrExhausted and leaves the session untouched.
func (s *Session) DrawNext() (tambola.Number, error) {
	s.mtx.Lock()
	if len(s.uncalled) == 0 {
		event := s.newEvent(tambola.EventTypeExhausted, tambola.Blank, "no numbers left to call")
		s.mtx.Unlock()
		s.dispatch(event)
		return tambola.Blank, tambola.ErrExhausted
	}

	next := s.commitAt(s.shuffler.Intn(len(s.uncalled)))
	event := s.newEvent(tambola.EventTypeCalled, next, fmt.Sprintf("called %d", next))
	s.mtx.Unlock()

	s.dispatch(event)
	return next, nil
}

// Call tells the session which number was just called from somewhere else,
// like an in-person ball machine.
func (s *Session) Call(n tambola.Number) error {
	if !n.Valid() {
		return fmt.Errorf("cannot call %d: %w", n, tambola.ErrInvalidNumber)
	}

	s.mtx.Lock()
	if len(s.uncalled) == 0 {
		event := s.newEvent(tambola.EventTypeExhausted, tambola.Blank, "no numbers left to call")
		s.mtx.Unlock()
		s.dispatch(event)
		return tambola.ErrExhausted
	}

	foundIndex := slices.Index(s.uncalled, n)
	if foundIndex == -1 {
		s.mtx.Unlock()
		return fmt.Errorf("cannot call %d: %w", n, tambola.ErrAlreadyCalled)
	}

	s.commitAt(foundIndex)
	event := s.newEvent(tambola.EventTypeCalled, n, fmt.Sprintf("called %d manually", n))
	s.mtx.Unlock()

	s.dispatch(event)
	return nil
}

// Peek samples a number from the pool without committing it. It exists for
// animations that want to flash candidate numbers before the real draw, and
// never changes the pool or the history. Returns false once the pool is empty.
func (s *Session) Peek() (tambola.Number, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.preview.Pick(s.uncalled)
}

// ID returns the ID of the current session. It changes on every reset.
func (s *Session) ID() uuid.UUID {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.id
}

// History returns a copy of every called number, in the order it was called
func (s *Session) History() []tambola.Number {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return slices.Clone(s.called)
}

// Last returns the most recently called number
func (s *Session) Last() (tambola.Number, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if len(s.called) == 0 {
		return tambola.Blank, false
	}
	return s.called[len(s.called)-1], true
}

// Recent returns up to k of the most recent calls, newest first
func (s *Session) Recent(k int) []tambola.Number {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if k <= 0 {
		return nil
	}
	k = min(k, len(s.called))
	recent := make([]tambola.Number, 0, k)
	for i := len(s.called) - 1; i >= len(s.called)-k; i-- {
		recent = append(recent, s.called[i])
	}
	return recent
}

// RemainingCount returns how many numbers are still left to call
func (s *Session) RemainingCount() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return len(s.uncalled)
}

// Remaining returns the numbers that haven't been called, in ascending order
func (s *Session) Remaining() []tambola.Number {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	remaining := slices.Clone(s.uncalled)
	slices.Sort(remaining)
	return remaining
}

// IsCalled reports whether n has been called during the current session
func (s *Session) IsCalled(n tambola.Number) bool {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return slices.Contains(s.called, n)
}

// Status derives the current status from the call history
func (s *Session) Status() tambola.DrawStatus {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return tambola.StatusForCalls(len(s.called))
}

// Snapshot captures the full session state in a single, consistent read
func (s *Session) Snapshot() tambola.Snapshot {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	return tambola.Snapshot{
		SessionID: s.id,
		Status:    tambola.StatusForCalls(len(s.called)),
		Called:    slices.Clone(s.called),
		Remaining: len(s.uncalled),
	}
}

// commitAt moves the pool entry at index i into the history. The pool's order
// carries no meaning, so the last entry gets swapped into the gap. Must be
// called with the lock held.
func (s *Session) commitAt(i int) tambola.Number {
	n := s.uncalled[i]
	last := len(s.uncalled) - 1
	s.uncalled[i] = s.uncalled[last]
	s.uncalled = s.uncalled[:last]
	s.called = append(s.called, n)
	return n
}

// Must be called with the lock held
func (s *Session) newEvent(eventType tambola.DrawEventType, n tambola.Number, message string) tambola.DrawEvent {
	return tambola.DrawEvent{
		ID:        uuid.New(),
		SessionID: s.id,
		Type:      eventType,
		Created:   s.now(),
		Number:    n,
		Called:    len(s.called),
		Remaining: len(s.uncalled),
		Message:   message,
	}
}

// dispatch runs outside of the lock so that subscribers reacting to an event
// can read from the session without deadlocking. A failed dispatch never
// undoes a committed number.
func (s *Session) dispatch(event tambola.DrawEvent) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.DispatchEvent(event)
}
