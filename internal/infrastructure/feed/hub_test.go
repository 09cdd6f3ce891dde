package feed

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/newswired/livedesk/internal/domain"
	"github.com/newswired/livedesk/internal/infrastructure/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Init() {}
func (nopLogger) Debug(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Info(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Infof(string, ...any) {}
func (nopLogger) Warn(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Warnf(string, ...any) {}
func (nopLogger) Error(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Errorf(string, ...any) {}
func (nopLogger) Fatal(logging.Category, logging.SubCategory, string, map[logging.ExtraKey]any) {}
func (nopLogger) Fatalf(string, ...any) {}

// feedStore is a minimal snapshot source: per-event feeds held newest
// first, with a call counter for assertions.
type feedStore struct {
	mu    sync.Mutex
	feeds map[string][]domain.Update
	loads atomic.Int64
}

func newFeedStore() *feedStore {
	return &feedStore{feeds: make(map[string][]domain.Update)}
}

func (s *feedStore) push(eventID, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	update := domain.Update{ID: content, EventID: eventID, Content: content, Type: domain.UpdateText}
	s.feeds[eventID] = append([]domain.Update{update}, s.feeds[eventID]...)
}

func (s *feedStore) snapshot(_ context.Context, eventID string) ([]domain.Update, error) {
	s.loads.Add(1)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Update, len(s.feeds[eventID]))
	copy(out, s.feeds[eventID])
	return out, nil
}

func startHub(t *testing.T, store *feedStore) *Hub {
	t.Helper()
	hub := NewHub(store.snapshot, 16, nopLogger{})
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func collect(ch chan []domain.Update) OnSnapshot {
	return func(updates []domain.Update) { ch <- updates }
}

func waitSnapshot(t *testing.T, ch chan []domain.Update) []domain.Update {
	t.Helper()
	select {
	case snapshot := <-ch:
		return snapshot
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for snapshot")
		return nil
	}
}

func contents(updates []domain.Update) []string {
	out := make([]string, len(updates))
	for i, u := range updates {
		out[i] = u.Content
	}
	return out
}

func TestHub_SubscriberGetsInitialSnapshot(t *testing.T) {
	store := newFeedStore()
	store.push("ev-1", "Polls open")
	store.push("ev-1", "Turnout high")
	hub := startHub(t, store)

	ch := make(chan []domain.Update, 16)
	unsubscribe := hub.Subscribe("ev-1", collect(ch))
	defer unsubscribe()

	snapshot := waitSnapshot(t, ch)
	assert.Equal(t, []string{"Turnout high", "Polls open"}, contents(snapshot))
}

func TestHub_LateSubscriberGetsFullFeed(t *testing.T) {
	store := newFeedStore()
	hub := startHub(t, store)

	for i := 0; i < 5; i++ {
		store.push("ev-1", fmt.Sprintf("update %d", i))
	}

	ch := make(chan []domain.Update, 16)
	unsubscribe := hub.Subscribe("ev-1", collect(ch))
	defer unsubscribe()

	snapshot := waitSnapshot(t, ch)
	require.Len(t, snapshot, 5)
	assert.Equal(t, "update 4", snapshot[0].Content)
}

func TestHub_PublishFansOutToAllSubscribers(t *testing.T) {
	store := newFeedStore()
	hub := startHub(t, store)

	first := make(chan []domain.Update, 16)
	second := make(chan []domain.Update, 16)
	unsubA := hub.Subscribe("ev-1", collect(first))
	defer unsubA()
	unsubB := hub.Subscribe("ev-1", collect(second))
	defer unsubB()

	waitSnapshot(t, first)
	waitSnapshot(t, second)

	store.push("ev-1", "Candidate X leads")
	hub.Publish("ev-1")

	assert.Equal(t, []string{"Candidate X leads"}, contents(waitSnapshot(t, first)))
	assert.Equal(t, []string{"Candidate X leads"}, contents(waitSnapshot(t, second)))
}

func TestHub_SubscribersConvergeOnSameOrder(t *testing.T) {
	store := newFeedStore()
	hub := startHub(t, store)

	const subscribers = 4
	const pushes = 10

	channels := make([]chan []domain.Update, subscribers)
	for i := range channels {
		channels[i] = make(chan []domain.Update, 64)
		unsubscribe := hub.Subscribe("ev-1", collect(channels[i]))
		defer unsubscribe()
		waitSnapshot(t, channels[i])
	}

	for i := 0; i < pushes; i++ {
		store.push("ev-1", fmt.Sprintf("update %d", i))
		hub.Publish("ev-1")
	}

	want := []string{
		"update 9", "update 8", "update 7", "update 6", "update 5",
		"update 4", "update 3", "update 2", "update 1", "update 0",
	}

	for i, ch := range channels {
		var last []domain.Update
		prevLen := 0
		for len(last) < pushes {
			last = waitSnapshot(t, ch)
			// snapshots only ever grow, never reorder or shrink
			require.GreaterOrEqual(t, len(last), prevLen, "subscriber %d saw a shrinking feed", i)
			prevLen = len(last)
		}
		assert.Equal(t, want, contents(last), "subscriber %d", i)
	}
}

func TestHub_UnsubscribeIsIdempotent(t *testing.T) {
	store := newFeedStore()
	hub := startHub(t, store)

	ch := make(chan []domain.Update, 16)
	unsubscribe := hub.Subscribe("ev-1", collect(ch))
	waitSnapshot(t, ch)

	unsubscribe()
	unsubscribe()
	unsubscribe()

	store.push("ev-1", "after unsubscribe")
	hub.Publish("ev-1")

	// the unsubscribed callback must see nothing new
	time.Sleep(100 * time.Millisecond)
	assert.Empty(t, ch)

	// and the hub keeps serving other subscribers
	other := make(chan []domain.Update, 16)
	stop := hub.Subscribe("ev-1", collect(other))
	defer stop()
	assert.Equal(t, []string{"after unsubscribe"}, contents(waitSnapshot(t, other)))
}

func TestHub_PublishWithoutSubscribersSkipsSnapshotLoad(t *testing.T) {
	store := newFeedStore()
	hub := startHub(t, store)

	hub.Publish("ev-1")
	time.Sleep(50 * time.Millisecond)

	assert.Zero(t, store.loads.Load())
}

func TestHub_SubscribeAfterStopIsHarmless(t *testing.T) {
	store := newFeedStore()
	hub := NewHub(store.snapshot, 16, nopLogger{})
	go hub.Run()
	hub.Stop()

	ch := make(chan []domain.Update, 1)
	unsubscribe := hub.Subscribe("ev-1", collect(ch))
	unsubscribe()
	hub.Publish("ev-1")
}
