package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/newswired/livedesk/internal/domain"
)

// eventRepository is the in-memory store variant, used by tests and
// single-node dev runs. Semantics match the mongo repository, including
// slug uniqueness.
type eventRepository struct {
	events map[string]domain.Event // id → event
	slugs  map[string]string       // slug → id
	mu     sync.RWMutex
}

func NewEventRepository() domain.EventRepository {
	return &eventRepository{
		events: make(map[string]domain.Event),
		slugs:  make(map[string]string),
	}
}

func (r *eventRepository) Create(ctx context.Context, event *domain.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.slugs[event.Slug]; taken {
		return domain.ErrSlugTaken
	}

	// Server-assigned creation timestamp
	event.StartTime = time.Now().UTC()

	r.events[event.ID] = *event
	r.slugs[event.Slug] = event.ID
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	event, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return &event, nil
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.slugs[slug]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	event := r.events[id]
	return &event, nil
}

func (r *eventRepository) List(ctx context.Context) ([]domain.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := make([]domain.Event, 0, len(r.events))
	for _, event := range r.events {
		events = append(events, event)
	}

	// Newest first, as the dashboard list expects
	sort.Slice(events, func(i, j int) bool {
		return events[i].StartTime.After(events[j].StartTime)
	})

	return events, nil
}

func (r *eventRepository) SetStatus(ctx context.Context, id string, status domain.EventStatus, endedAt *time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}

	event.Status = status
	if endedAt != nil {
		event.EndedAt = endedAt
	}
	r.events[id] = event
	return nil
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	event, ok := r.events[id]
	if !ok {
		return domain.ErrEventNotFound
	}

	delete(r.slugs, event.Slug)
	delete(r.events, id)
	return nil
}
