package feed

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/newswired/livedesk/internal/domain"
	"github.com/newswired/livedesk/internal/infrastructure/logging"
	"github.com/newswired/livedesk/internal/infrastructure/metrics"
)

const defaultSubscriberBuffer = 16

// SnapshotFunc loads the current full feed of one event, newest first.
type SnapshotFunc func(ctx context.Context, eventID string) ([]domain.Update, error)

// OnSnapshot receives the full ordered feed every time it changes.
type OnSnapshot func(updates []domain.Update)

// UnsubscribeFunc tears down one subscription. Safe to call more than once.
type UnsubscribeFunc func()

// Hub fans feed snapshots out to every subscriber of an event. All
// snapshot loads and deliveries go through one run loop, so every
// subscriber observes the same sequence of snapshots in the same order.
type Hub struct {
	snapshot SnapshotFunc
	buffer   int
	logger   logging.Logger

	register   chan *subscription
	unregister chan *subscription
	publish    chan string
	done       chan struct{}
	stopOnce   sync.Once

	// eventID → subscription id → subscription; owned by the run loop.
	subs   map[string]map[uint64]*subscription
	nextID atomic.Uint64
}

type subscription struct {
	id       uint64
	eventID  string
	pending  chan []domain.Update
	callback OnSnapshot
	once     sync.Once
}

func NewHub(snapshot SnapshotFunc, buffer int, logger logging.Logger) *Hub {
	if buffer <= 0 {
		buffer = defaultSubscriberBuffer
	}
	return &Hub{
		snapshot:   snapshot,
		buffer:     buffer,
		logger:     logger,
		register:   make(chan *subscription),
		unregister: make(chan *subscription),
		publish:    make(chan string, 256),
		done:       make(chan struct{}),
		subs:       make(map[string]map[uint64]*subscription),
	}
}

// Run owns the subscription table. Callers start it once, in a goroutine.
func (h *Hub) Run() {
	for {
		select {
		case sub := <-h.register:
			h.add(sub)
			h.deliverInitial(sub)

		case sub := <-h.unregister:
			h.remove(sub)

		case eventID := <-h.publish:
			h.broadcast(eventID)

		case <-h.done:
			for _, byID := range h.subs {
				for _, sub := range byID {
					close(sub.pending)
				}
			}
			h.subs = make(map[string]map[uint64]*subscription)
			return
		}
	}
}

func (h *Hub) Stop() {
	h.stopOnce.Do(func() { close(h.done) })
}

// Subscribe registers a callback for one event's feed. The callback is
// invoked once with the current snapshot, then again after every change.
func (h *Hub) Subscribe(eventID string, callback OnSnapshot) UnsubscribeFunc {
	sub := &subscription{
		id:       h.nextID.Add(1),
		eventID:  eventID,
		pending:  make(chan []domain.Update, h.buffer),
		callback: callback,
	}

	go sub.drain()

	select {
	case h.register <- sub:
	case <-h.done:
		close(sub.pending)
		return func() {}
	}

	return func() {
		sub.once.Do(func() {
			select {
			case h.unregister <- sub:
			case <-h.done:
			}
		})
	}
}

// Publish notifies subscribers of eventID that its feed changed.
func (h *Hub) Publish(eventID string) {
	select {
	case h.publish <- eventID:
	case <-h.done:
	}
}

func (h *Hub) add(sub *subscription) {
	byID, ok := h.subs[sub.eventID]
	if !ok {
		byID = make(map[uint64]*subscription)
		h.subs[sub.eventID] = byID
	}
	byID[sub.id] = sub
	metrics.ActiveSubscriptions.Inc()
}

func (h *Hub) remove(sub *subscription) {
	byID, ok := h.subs[sub.eventID]
	if !ok {
		return
	}
	if _, ok := byID[sub.id]; !ok {
		return
	}
	delete(byID, sub.id)
	close(sub.pending)
	if len(byID) == 0 {
		delete(h.subs, sub.eventID)
	}
	metrics.ActiveSubscriptions.Dec()
}

func (h *Hub) deliverInitial(sub *subscription) {
	snapshot, err := h.snapshot(context.Background(), sub.eventID)
	if err != nil {
		h.logger.Error(logging.Feed, logging.Subscribe, "initial snapshot load failed", map[logging.ExtraKey]any{
			logging.EventID:      sub.eventID,
			logging.ErrorMessage: err.Error(),
		})
		return
	}
	sub.offer(snapshot)
}

// broadcast loads the snapshot once and hands it to every subscriber of
// the event. Loading inside the run loop serializes snapshots, which is
// what keeps all subscribers converging on the same order.
func (h *Hub) broadcast(eventID string) {
	byID, ok := h.subs[eventID]
	if !ok || len(byID) == 0 {
		return
	}

	snapshot, err := h.snapshot(context.Background(), eventID)
	if err != nil {
		h.logger.Error(logging.Feed, logging.Publish, "snapshot load failed", map[logging.ExtraKey]any{
			logging.EventID:      eventID,
			logging.ErrorMessage: err.Error(),
		})
		return
	}

	for _, sub := range byID {
		sub.offer(snapshot)
	}
}

// offer enqueues a snapshot without ever blocking the run loop. A full
// queue means the subscriber is slow; the oldest pending snapshot is
// superseded by this one, since each snapshot is complete on its own.
func (s *subscription) offer(snapshot []domain.Update) {
	for {
		select {
		case s.pending <- snapshot:
			return
		default:
			select {
			case <-s.pending:
				metrics.SnapshotsDropped.Inc()
			default:
			}
		}
	}
}

func (s *subscription) drain() {
	for snapshot := range s.pending {
		s.callback(snapshot)
		metrics.SnapshotsDelivered.Inc()
	}
}
