package draw

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/Parkreiner/tambola"
)

const (
	// DefaultFrameInterval is how often an animated draw shows a new candidate
	// number
	DefaultFrameInterval = 100 * time.Millisecond
	// DefaultWindow is how long an animated draw runs before committing
	DefaultWindow = time.Second
)

// ErrDrawInFlight is returned when a draw is requested while another animated
// draw is still running.
var ErrDrawInFlight = errors.New("a draw is already in progress")

// Animator layers a "rolling" animation over a Session. While the animation
// runs, it feeds ephemeral candidate numbers to a callback; once the window
// closes, it commits exactly one real number through Session.DrawNext.
//
// Only one animated draw can be in flight per Animator at a time.
type Animator struct {
	session  *Session
	interval time.Duration
	window   time.Duration
	inFlight atomic.Bool
}

// NewAnimator creates an animator for session. A non-positive interval falls
// back to DefaultFrameInterval, and a negative window is treated as zero
// (commit right away).
func NewAnimator(session *Session, interval time.Duration, window time.Duration) *Animator {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	if window < 0 {
		window = 0
	}
	return &Animator{
		session:  session,
		interval: interval,
		window:   window,
	}
}

// Session returns the session the animator commits to
func (a *Animator) Session() *Session {
	return a.session
}

// InFlight reports whether an animated draw is currently running. UIs should
// use it to disable their draw controls.
func (a *Animator) InFlight() bool {
	return a.inFlight.Load()
}

// Draw runs one animated draw. onFrame (which may be nil) is called once right
// away and then on every interval tick with a number sampled from the pool;
// those frames are display-only and are never committed. When the window
// elapses, Draw commits one number and returns it.
//
// Draw returns tambola.ErrExhausted without animating if the pool is already
// empty, ErrDrawInFlight if another draw is running, and the context's error
// if ctx is cancelled before the commit (in which case nothing is committed).
func (a *Animator) Draw(ctx context.Context, onFrame func(tambola.Number)) (tambola.Number, error) {
	if !a.inFlight.CompareAndSwap(false, true) {
		return tambola.Blank, ErrDrawInFlight
	}
	defer a.inFlight.Store(false)

	if a.session.RemainingCount() == 0 {
		return a.session.DrawNext()
	}

	showFrame := func() {
		if onFrame == nil {
			return
		}
		if n, ok := a.session.Peek(); ok {
			onFrame(n)
		}
	}

	ticker := time.NewTicker(a.interval)
	defer ticker.Stop()
	deadline := time.NewTimer(a.window)
	defer deadline.Stop()

	showFrame()
loop:
	for {
		select {
		case <-ctx.Done():
			return tambola.Blank, ctx.Err()
		case <-deadline.C:
			break loop
		case <-ticker.C:
			showFrame()
		}
	}

	// The deadline and a cancellation can become ready at the same time, and
	// select picks between them at random. Cancellation wins.
	if err := ctx.Err(); err != nil {
		return tambola.Blank, err
	}
	return a.session.DrawNext()
}
