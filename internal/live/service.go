// Package live wires the event registry, the update log and the fan-out
// hub into the one API surface the presentation layer (and any embedder)
// consumes. It holds no global state.
package live

import (
	"context"
	"fmt"
	"time"

	"github.com/newswired/livedesk/internal/domain"
	"github.com/newswired/livedesk/internal/infrastructure/events"
	"github.com/newswired/livedesk/internal/infrastructure/feed"
	"github.com/newswired/livedesk/internal/infrastructure/logging"
	"github.com/newswired/livedesk/internal/infrastructure/metrics"
)

// swapped out in tests
var timeNow = time.Now

type Service struct {
	events    domain.EventRepository
	updates   domain.UpdateRepository
	hub       *feed.Hub
	publisher *events.CoveragePublisher
	logger    logging.Logger
}

func NewService(
	eventRepository domain.EventRepository,
	updateRepository domain.UpdateRepository,
	hub *feed.Hub,
	publisher *events.CoveragePublisher,
	logger logging.Logger,
) *Service {
	return &Service{
		events:    eventRepository,
		updates:   updateRepository,
		hub:       hub,
		publisher: publisher,
		logger:    logger,
	}
}

// CreateEvent registers a new coverage event in upcoming state. The slug
// is derived from the title when absent, and must be unique.
func (s *Service) CreateEvent(ctx context.Context, fields domain.NewEventFields) (*domain.Event, error) {
	event, err := domain.NewEvent(fields)
	if err != nil {
		return nil, err
	}

	if err := s.events.Create(ctx, event); err != nil {
		if err == domain.ErrSlugTaken {
			return nil, err
		}
		return nil, fmt.Errorf("creating event: %w", err)
	}

	if err := s.publisher.PublishEventCreated(ctx, *event); err != nil {
		s.logger.Warn(logging.RabbitMQ, logging.ExternalService, "publish event.created failed", map[logging.ExtraKey]any{
			logging.EventID:      event.ID,
			logging.ErrorMessage: err.Error(),
		})
	}

	return event, nil
}

// GetEvent resolves an event by id first, then by slug. The public site
// routes by slug; the console routes by id.
func (s *Service) GetEvent(ctx context.Context, idOrSlug string) (*domain.Event, error) {
	event, err := s.events.GetByID(ctx, idOrSlug)
	if err == nil {
		return event, nil
	}
	if err != domain.ErrEventNotFound {
		return nil, fmt.Errorf("loading event: %w", err)
	}
	return s.events.GetBySlug(ctx, idOrSlug)
}

func (s *Service) ListEvents(ctx context.Context) ([]domain.Event, error) {
	return s.events.List(ctx)
}

// SetEventStatus applies a lifecycle transition. Only the moves in the
// domain transition table are accepted; ending an event stamps EndedAt.
// There is no transaction around read-validate-write: concurrent editor
// actions on the same event resolve last-write-wins at editorial volume.
func (s *Service) SetEventStatus(ctx context.Context, id string, status domain.EventStatus) error {
	event, err := s.events.GetByID(ctx, id)
	if err != nil {
		return err
	}

	from := event.Status
	if err := event.Transition(status, timeNow()); err != nil {
		return err
	}

	if err := s.events.SetStatus(ctx, id, event.Status, event.EndedAt); err != nil {
		return fmt.Errorf("persisting status: %w", err)
	}

	if err := s.publisher.PublishStatusChanged(ctx, id, from, event.Status); err != nil {
		s.logger.Warn(logging.RabbitMQ, logging.ExternalService, "publish event.status_changed failed", map[logging.ExtraKey]any{
			logging.EventID:      id,
			logging.ErrorMessage: err.Error(),
		})
	}

	return nil
}

// DeleteEvent removes an event entirely. Admin path only; the public and
// editorial flows never delete.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	return s.events.Delete(ctx, id)
}

// PushUpdate appends one update to a live event's feed and fans it out.
// The store assigns the ordering timestamp at acceptance. Delivery from
// author to log is at-most-once: a failed push is returned to the caller
// and never retried here.
func (s *Service) PushUpdate(ctx context.Context, eventID string, fields domain.NewUpdateFields) (*domain.Update, error) {
	event, err := s.events.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != domain.StatusLive {
		metrics.PushFailures.Inc()
		return nil, domain.ErrEventNotLive
	}

	update, err := domain.NewUpdate(eventID, fields)
	if err != nil {
		return nil, err
	}

	if err := s.updates.Append(ctx, update); err != nil {
		metrics.PushFailures.Inc()
		return nil, fmt.Errorf("appending update: %w", err)
	}

	metrics.UpdatesPushed.WithLabelValues(string(update.Type)).Inc()
	s.hub.Publish(eventID)

	if err := s.publisher.PublishUpdatePosted(ctx, *update); err != nil {
		s.logger.Warn(logging.RabbitMQ, logging.ExternalService, "publish update.posted failed", map[logging.ExtraKey]any{
			logging.EventID:      eventID,
			logging.UpdateID:     update.ID,
			logging.ErrorMessage: err.Error(),
		})
	}

	return update, nil
}

// ListUpdates returns the current feed, newest first. Pages that do not
// hold a subscription use this for their initial load.
func (s *Service) ListUpdates(ctx context.Context, eventID string) ([]domain.Update, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.updates.ListByEvent(ctx, eventID)
}

// SubscribeToUpdates attaches a callback to an event's feed. The callback
// gets the full newest-first snapshot immediately and again after every
// append. The returned unsubscribe is idempotent.
func (s *Service) SubscribeToUpdates(ctx context.Context, eventID string, onSnapshot feed.OnSnapshot) (feed.UnsubscribeFunc, error) {
	if _, err := s.events.GetByID(ctx, eventID); err != nil {
		return nil, err
	}
	return s.hub.Subscribe(eventID, onSnapshot), nil
}
