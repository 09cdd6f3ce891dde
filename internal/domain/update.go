package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

const maxContentLength = 5000

var (
	ErrUpdateNotFound    = errors.New("update not found")
	ErrContentRequired   = errors.New("content is required")
	ErrContentTooLong    = errors.New("content is too long")
	ErrUnknownUpdateType = errors.New("unknown update type")
	ErrImageURLRequired  = errors.New("image updates require an image url")
)

// UpdateType classifies one feed entry.
type UpdateType string

const (
	UpdateText     UpdateType = "text"
	UpdateImage    UpdateType = "image"
	UpdateBreaking UpdateType = "breaking"
)

func ParseUpdateType(raw string) (UpdateType, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "text":
		return UpdateText, nil
	case "image":
		return UpdateImage, nil
	case "breaking":
		return UpdateBreaking, nil
	}
	return "", ErrUnknownUpdateType
}

// Update is one immutable entry in an event's feed. Timestamp and Seq are
// assigned by the repository at acceptance; client clocks are never trusted.
type Update struct {
	ID         string     `json:"id" bson:"_id"`
	EventID    string     `json:"eventId" bson:"event_id"`
	Content    string     `json:"content" bson:"content"`
	Type       UpdateType `json:"type" bson:"type"`
	AuthorID   string     `json:"authorId" bson:"author_id"`
	AuthorName string     `json:"authorName" bson:"author_name"`
	ImageURL   string     `json:"imageUrl,omitempty" bson:"image_url,omitempty"`
	Timestamp  time.Time  `json:"timestamp" bson:"timestamp"`
	Seq        int64      `json:"-" bson:"seq"`
}

// UpdateRepository is append-only: there is no edit or delete path in the
// editorial flow. Append assigns the ordering timestamp, and ListByEvent
// returns newest first.
type UpdateRepository interface {
	Append(ctx context.Context, update *Update) error
	ListByEvent(ctx context.Context, eventID string) ([]Update, error)
	CountByEvent(ctx context.Context, eventID string) (int64, error)
}

type NewUpdateFields struct {
	Content    string
	Type       string
	AuthorID   string
	AuthorName string
	ImageURL   string
}

func NewUpdate(eventID string, fields NewUpdateFields) (*Update, error) {
	content := strings.TrimSpace(fields.Content)
	if content == "" {
		return nil, ErrContentRequired
	}
	if len(content) > maxContentLength {
		return nil, ErrContentTooLong
	}

	kind, err := ParseUpdateType(fields.Type)
	if err != nil {
		return nil, err
	}
	if kind == UpdateImage && strings.TrimSpace(fields.ImageURL) == "" {
		return nil, ErrImageURLRequired
	}

	return &Update{
		ID:         uuid.NewString(),
		EventID:    eventID,
		Content:    content,
		Type:       kind,
		AuthorID:   fields.AuthorID,
		AuthorName: fields.AuthorName,
		ImageURL:   strings.TrimSpace(fields.ImageURL),
	}, nil
}
