// Package subscriptions makes it easy to manage subscriptions to draw events.
package subscriptions

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Parkreiner/tambola"
	"github.com/google/uuid"
)

const (
	maxSubscriberGoroutines = 100
	subscriberBufferSize    = 16
	defaultDeliveryTimeout  = 2 * time.Second
)

// ErrDisposed is returned by every Manager method once Dispose has been called
var ErrDisposed = errors.New("subscriptions manager has been disposed")

type subscriptionEntry struct {
	id            uuid.UUID
	eventChan     chan tambola.DrawEvent
	filteredTypes []tambola.DrawEventType
	// done is closed on unsubscribe so that in-flight deliveries give up
	// before eventChan gets closed
	done      chan struct{}
	inFlight  *sync.WaitGroup
	closeOnce *sync.Once
}

// shutdown stops any pending deliveries and closes the event channel. Both
// unsubscribing and disposing go through here, so it has to tolerate being
// called twice.
func (s *subscriptionEntry) shutdown() {
	s.closeOnce.Do(func() {
		close(s.done)
		s.inFlight.Wait()
		close(s.eventChan)
	})
}

// Manager fans draw events out to every interested subscriber. It satisfies
// both tambola.EventDispatcher and tambola.EventSubscriber.
type Manager struct {
	subs []*subscriptionEntry
	// Should always be buffered with some size
	routineBuffer   chan struct{}
	disposedChan    chan struct{}
	deliveryTimeout time.Duration
	mtx             *sync.Mutex
}

var (
	_ tambola.EventDispatcher = &Manager{}
	_ tambola.EventSubscriber = &Manager{}
)

// New creates a subscriptions manager. A delivery that a subscriber doesn't
// accept within the delivery timeout is dropped for that subscriber.
func New() *Manager {
	buffer := make(chan struct{}, maxSubscriberGoroutines)
	for i := 0; i < maxSubscriberGoroutines; i++ {
		buffer <- struct{}{}
	}

	return &Manager{
		subs:            nil,
		routineBuffer:   buffer,
		disposedChan:    make(chan struct{}),
		deliveryTimeout: defaultDeliveryTimeout,
		mtx:             &sync.Mutex{},
	}
}

// SetDeliveryTimeout changes how long a dispatch waits on each subscriber
func (sm *Manager) SetDeliveryTimeout(timeout time.Duration) {
	sm.mtx.Lock()
	defer sm.mtx.Unlock()
	sm.deliveryTimeout = timeout
}

func (sm *Manager) disposed() bool {
	select {
	case <-sm.disposedChan:
		return true
	default:
		return false
	}
}

// DispatchEvent delivers event to every subscriber whose filters match it,
// and waits until each delivery either succeeds or times out.
func (sm *Manager) DispatchEvent(event tambola.DrawEvent) error {
	sm.mtx.Lock()
	if sm.disposed() {
		sm.mtx.Unlock()
		return ErrDisposed
	}

	var eligible []*subscriptionEntry
	for _, s := range sm.subs {
		if isEligibleForDispatch(s, event) {
			// Registering the delivery while still locked guarantees that an
			// unsubscribe can't close the channel out from under us
			s.inFlight.Add(1)
			eligible = append(eligible, s)
		}
	}
	timeout := sm.deliveryTimeout
	sm.mtx.Unlock()

	var successfulBroadcasts atomic.Int64
	wg := sync.WaitGroup{}
	for _, s := range eligible {
		wg.Add(1)
		<-sm.routineBuffer
		go func() {
			defer func() {
				s.inFlight.Done()
				wg.Done()
				sm.routineBuffer <- struct{}{}
			}()

			timer := time.NewTimer(timeout)
			defer timer.Stop()

			select {
			case s.eventChan <- event:
				successfulBroadcasts.Add(1)
			case <-s.done:
			case <-timer.C:
			}
		}()
	}
	wg.Wait()

	failed := int64(len(eligible)) - successfulBroadcasts.Load()
	if failed != 0 {
		return fmt.Errorf("dispatch of %s event failed for %d/%d subscribers", event.Type, failed, len(eligible))
	}
	return nil
}

// Subscribe registers a new subscriber for the given event types. A nil or
// empty slice subscribes to every event type. The returned unsubscribe
// function closes the event channel, and is safe to call multiple times.
func (sm *Manager) Subscribe(types []tambola.DrawEventType) (<-chan tambola.DrawEvent, func(), error) {
	sm.mtx.Lock()
	defer sm.mtx.Unlock()

	if sm.disposed() {
		return nil, nil, ErrDisposed
	}

	entry := &subscriptionEntry{
		id:            uuid.New(),
		eventChan:     make(chan tambola.DrawEvent, subscriberBufferSize),
		filteredTypes: slices.Clone(types),
		done:          make(chan struct{}),
		inFlight:      &sync.WaitGroup{},
		closeOnce:     &sync.Once{},
	}
	sm.subs = append(sm.subs, entry)

	unsubscribe := func() {
		sm.removeEntry(entry.id)
		entry.shutdown()
	}

	return entry.eventChan, unsubscribe, nil
}

// SubscriberCount returns how many subscriptions are currently active
func (sm *Manager) SubscriberCount() int {
	sm.mtx.Lock()
	defer sm.mtx.Unlock()
	return len(sm.subs)
}

// Dispose closes every subscription, and stops the manager from accepting
// any new subscriptions or dispatches. This function is safe to call multiple
// times; calling it more than once results in a no-op.
func (sm *Manager) Dispose() error {
	sm.mtx.Lock()
	if sm.disposed() {
		sm.mtx.Unlock()
		return nil
	}
	// Have to close disposedChan while still locked, because otherwise, more
	// subscribers could get added between here and the cleanup below
	close(sm.disposedChan)
	subsCopy := sm.subs
	sm.subs = nil
	sm.mtx.Unlock()

	for _, s := range subsCopy {
		s.shutdown()
	}
	return nil
}

func (sm *Manager) removeEntry(id uuid.UUID) {
	sm.mtx.Lock()
	defer sm.mtx.Unlock()

	sm.subs = slices.DeleteFunc(sm.subs, func(s *subscriptionEntry) bool {
		return s.id == id
	})
}

func isEligibleForDispatch(subscription *subscriptionEntry, event tambola.DrawEvent) bool {
	if len(subscription.filteredTypes) == 0 {
		return true
	}
	return slices.Contains(subscription.filteredTypes, event.Type)
}
