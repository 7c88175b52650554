// Package eventlogger provides an easy way to write structured logs
// describing draw events.
package eventlogger

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/Parkreiner/tambola"
	"go.uber.org/zap"
)

// EventLogger writes one log entry per draw event it receives. Once
// instantiated, the logger will automatically start logging every event it is
// subscribed to. The logger can be disposed by calling the Close method.
type EventLogger struct {
	logger       *zap.Logger
	unsubscribe  func()
	disposedChan chan struct{}
	closeOnce    *sync.Once
	logged       int
	mtx          *sync.Mutex
}

var _ io.Closer = &EventLogger{}

// Init is used to instantiate an EventLogger via the New function.
type Init struct {
	Subscriber tambola.EventSubscriber
	Logger     *zap.Logger
	// Types limits which events get logged. Nil or empty logs everything.
	Types []tambola.DrawEventType
}

// New instantiates an EventLogger and automatically subscribes it to the
// requested draw events.
func New(init Init) (*EventLogger, error) {
	if init.Subscriber == nil {
		return nil, errors.New("event logger needs a subscriber")
	}
	logger := init.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	events, unsub, err := init.Subscriber.Subscribe(init.Types)
	if err != nil {
		return nil, fmt.Errorf("unable to subscribe to draw events: %w", err)
	}

	el := &EventLogger{
		logger:       logger.Named("draw"),
		unsubscribe:  unsub,
		disposedChan: make(chan struct{}),
		closeOnce:    &sync.Once{},
		mtx:          &sync.Mutex{},
	}

	go func() {
		defer close(el.disposedChan)
		for event := range events {
			el.logEvent(event)
		}
	}()

	return el, nil
}

func (el *EventLogger) logEvent(event tambola.DrawEvent) {
	fields := []zap.Field{
		zap.Stringer("session", event.SessionID),
		zap.String("event", string(event.Type)),
		zap.Int("called", event.Called),
		zap.Int("remaining", event.Remaining),
		zap.Time("created", event.Created),
	}
	if event.Number != tambola.Blank {
		fields = append(fields, zap.Int("number", int(event.Number)))
	}

	switch event.Type {
	case tambola.EventTypeExhausted:
		el.logger.Warn(event.Message, fields...)
	default:
		el.logger.Info(event.Message, fields...)
	}

	el.mtx.Lock()
	el.logged++
	el.mtx.Unlock()
}

// Logged returns how many events have been written so far
func (el *EventLogger) Logged() int {
	el.mtx.Lock()
	defer el.mtx.Unlock()
	return el.logged
}

// Close unsubscribes the logger and waits for any buffered events to be
// written. This function is safe to call multiple times; calling it more than
// once results in a no-op.
func (el *EventLogger) Close() error {
	el.closeOnce.Do(func() {
		el.unsubscribe()
		<-el.disposedChan
	})
	// Syncing a terminal's stderr fails on some platforms, and there is
	// nothing useful a caller could do about it
	_ = el.logger.Sync()
	return nil
}
