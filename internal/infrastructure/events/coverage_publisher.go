package events

import (
	"context"
	"encoding/json"

	"github.com/newswired/livedesk/internal/domain"
	"github.com/newswired/livedesk/internal/infrastructure/messaging"
)

// CoveragePublisher mirrors editorial actions onto the broker so the admin
// console's audit trail (and any future consumer) sees them. Publishing is
// best-effort: a broker failure never blocks the editorial action.
type CoveragePublisher struct {
	rabbitmq *messaging.RabbitMQ
}

func NewCoveragePublisher(rabbitmq *messaging.RabbitMQ) *CoveragePublisher {
	return &CoveragePublisher{
		rabbitmq: rabbitmq,
	}
}

func (p *CoveragePublisher) PublishEventCreated(ctx context.Context, event domain.Event) error {
	if p == nil || p.rabbitmq == nil {
		return nil
	}

	body, err := json.Marshal(messaging.EventData{Event: event})
	if err != nil {
		return err
	}

	return p.rabbitmq.PublishMessage(ctx, messaging.EventCreated, body)
}

func (p *CoveragePublisher) PublishStatusChanged(ctx context.Context, eventID string, from, to domain.EventStatus) error {
	if p == nil || p.rabbitmq == nil {
		return nil
	}

	body, err := json.Marshal(messaging.StatusChangedData{
		EventID: eventID,
		From:    from,
		To:      to,
	})
	if err != nil {
		return err
	}

	return p.rabbitmq.PublishMessage(ctx, messaging.EventStatusChanged, body)
}

func (p *CoveragePublisher) PublishUpdatePosted(ctx context.Context, update domain.Update) error {
	if p == nil || p.rabbitmq == nil {
		return nil
	}

	body, err := json.Marshal(messaging.UpdatePostedData{Update: update})
	if err != nil {
		return err
	}

	return p.rabbitmq.PublishMessage(ctx, messaging.UpdatePosted, body)
}
