package repository

import (
	"context"
	"sync"
	"time"

	"github.com/newswired/livedesk/internal/domain"
)

// updateRepository keeps per-event feeds in append order. Timestamps and
// the tie-breaking sequence are assigned here, at acceptance, never taken
// from the caller.
type updateRepository struct {
	updates map[string][]domain.Update // eventID → updates, append order
	seq     int64
	mu      sync.RWMutex
}

func NewUpdateRepository() domain.UpdateRepository {
	return &updateRepository{
		updates: make(map[string][]domain.Update),
	}
}

func (r *updateRepository) Append(ctx context.Context, update *domain.Update) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	update.Timestamp = time.Now().UTC()
	update.Seq = r.seq

	r.updates[update.EventID] = append(r.updates[update.EventID], *update)
	return nil
}

func (r *updateRepository) ListByEvent(ctx context.Context, eventID string) ([]domain.Update, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.updates[eventID]

	// Newest first. Append order already is (timestamp, seq) ascending,
	// so a reversed copy is the sorted snapshot.
	snapshot := make([]domain.Update, len(stored))
	for i, update := range stored {
		snapshot[len(stored)-1-i] = update
	}

	return snapshot, nil
}

func (r *updateRepository) CountByEvent(ctx context.Context, eventID string) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.updates[eventID])), nil
}
