package ws

import "github.com/newswired/livedesk/internal/domain"

type WSMessage struct {
	Type    string `json:"type"`
	EventID string `json:"eventId"`
	Data    any    `json:"data"`
}

// Payload structs
type SnapshotPayload struct {
	Updates []domain.Update `json:"updates"`
	Count   int             `json:"count"`
}

type PresencePayload struct {
	Online int64 `json:"online"`
}

type ErrorPayload struct {
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Retry   bool   `json:"retry,omitempty"`
}

func NewSnapshot(eventID string, updates []domain.Update) *WSMessage {
	return &WSMessage{
		Type:    FeedSnapshot,
		EventID: eventID,
		Data: SnapshotPayload{
			Updates: updates,
			Count:   len(updates),
		},
	}
}

func NewPresenceCount(eventID string, online int64) *WSMessage {
	return &WSMessage{
		Type:    PresenceCount,
		EventID: eventID,
		Data: PresencePayload{
			Online: online,
		},
	}
}

func NewError(eventID, message string) *WSMessage {
	return &WSMessage{
		Type:    ErrorEvent,
		EventID: eventID,
		Data: ErrorPayload{
			Message: message,
			Retry:   false,
		},
	}
}

func NewSubscribeFailed(eventID, reason string) *WSMessage {
	return &WSMessage{
		Type:    SubscribeFailed,
		EventID: eventID,
		Data: ErrorPayload{
			Code:    "SUBSCRIBE_FAILED",
			Message: reason,
			Retry:   true,
		},
	}
}

// NewPresenceFailed reports a degraded viewer counter. The count is never
// synthesized when the backing store is unreachable.
func NewPresenceFailed(eventID string) *WSMessage {
	return &WSMessage{
		Type:    PresenceFailed,
		EventID: eventID,
		Data: ErrorPayload{
			Code:    "PRESENCE_UNAVAILABLE",
			Message: "viewer count unavailable",
			Retry:   true,
		},
	}
}
