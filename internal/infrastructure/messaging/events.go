package messaging

import "github.com/newswired/livedesk/internal/domain"

const (
	CoverageQueue   = "coverage_events"
	DeadLetterQueue = "dead_letter_queue"
)

// Routing keys - using consistent event/command patterns
const (
	EventCreated       = "event.created"
	EventStatusChanged = "event.status_changed"
	UpdatePosted       = "update.posted"
)

type EventData struct {
	Event domain.Event `json:"event"`
}

type StatusChangedData struct {
	EventID string             `json:"eventId"`
	From    domain.EventStatus `json:"from"`
	To      domain.EventStatus `json:"to"`
}

type UpdatePostedData struct {
	Update domain.Update `json:"update"`
}
