package events

import (
	"context"

	"github.com/newswired/livedesk/internal/infrastructure/logging"
	"github.com/newswired/livedesk/internal/infrastructure/messaging"
	"github.com/rabbitmq/amqp091-go"
)

// coverageConsumer drains the coverage queue and writes the editorial
// audit trail to the log. Moderation tooling reads the same queue in the
// admin console deployment.
type coverageConsumer struct {
	rabbitmq *messaging.RabbitMQ
	logger   logging.Logger
}

func NewCoverageConsumer(rabbitmq *messaging.RabbitMQ, logger logging.Logger) *coverageConsumer {
	return &coverageConsumer{
		rabbitmq: rabbitmq,
		logger:   logger,
	}
}

func (c *coverageConsumer) Listen() error {
	return c.rabbitmq.ConsumeMessages(messaging.CoverageQueue, func(ctx context.Context, msg amqp091.Delivery) error {
		c.logger.Info(logging.RabbitMQ, logging.ExternalService, "coverage event received", map[logging.ExtraKey]any{
			"RoutingKey": msg.RoutingKey,
			"Body":       string(msg.Body),
		})
		return nil
	})
}
