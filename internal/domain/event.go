package domain

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

const (
	maxTitleLength   = 200
	maxSummaryLength = 1000
)

var (
	ErrEventNotFound      = errors.New("event not found")
	ErrSlugTaken          = errors.New("slug already in use")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrEventNotLive       = errors.New("event is not live")
	ErrTitleRequired      = errors.New("title is required")
	ErrTitleTooLong       = errors.New("title is too long")
	ErrSummaryTooLong     = errors.New("summary is too long")
	ErrUnknownEventStatus = errors.New("unknown event status")
)

// EventStatus is the closed set of lifecycle states for a coverage event.
type EventStatus string

const (
	StatusUpcoming EventStatus = "upcoming"
	StatusLive     EventStatus = "live"
	StatusEnded    EventStatus = "ended"
)

// transitions is the one-directional lifecycle table. Anything not listed
// here is rejected, including reopening an ended event.
var transitions = map[EventStatus][]EventStatus{
	StatusUpcoming: {StatusLive, StatusEnded},
	StatusLive:     {StatusEnded},
	StatusEnded:    {},
}

// ParseEventStatus normalizes a raw status string. "active" is a legacy
// alias for "live" still sent by one admin surface.
func ParseEventStatus(raw string) (EventStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "upcoming":
		return StatusUpcoming, nil
	case "live", "active":
		return StatusLive, nil
	case "ended":
		return StatusEnded, nil
	}
	return "", ErrUnknownEventStatus
}

// CanTransition reports whether from→to is an allowed lifecycle move.
func CanTransition(from, to EventStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Event struct {
	ID         string      `json:"id" bson:"_id"`
	Slug       string      `json:"slug" bson:"slug"`
	Title      string      `json:"title" bson:"title"`
	Summary    string      `json:"summary" bson:"summary"`
	Status     EventStatus `json:"status" bson:"status"`
	CoverImage string      `json:"coverImage,omitempty" bson:"cover_image,omitempty"`
	AuthorID   string      `json:"authorId" bson:"author_id"`
	StartTime  time.Time   `json:"startTime" bson:"start_time"`
	EndedAt    *time.Time  `json:"endedAt,omitempty" bson:"ended_at,omitempty"`
}

type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	List(ctx context.Context) ([]Event, error)
	SetStatus(ctx context.Context, id string, status EventStatus, endedAt *time.Time) error
	Delete(ctx context.Context, id string) error
}

type NewEventFields struct {
	Title      string
	Slug       string
	Summary    string
	AuthorID   string
	CoverImage string
}

// NewEvent builds an upcoming event. The slug falls back to a kebab-cased
// derivation of the title when not supplied. StartTime is stamped by the
// repository at acceptance, not here.
func NewEvent(fields NewEventFields) (*Event, error) {
	title := strings.TrimSpace(fields.Title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if len(title) > maxTitleLength {
		return nil, ErrTitleTooLong
	}
	if len(fields.Summary) > maxSummaryLength {
		return nil, ErrSummaryTooLong
	}

	slug := strings.TrimSpace(fields.Slug)
	if slug == "" {
		slug = Slugify(title)
	} else {
		slug = Slugify(slug)
	}

	return &Event{
		ID:         uuid.NewString(),
		Slug:       slug,
		Title:      title,
		Summary:    strings.TrimSpace(fields.Summary),
		Status:     StatusUpcoming,
		CoverImage: fields.CoverImage,
		AuthorID:   fields.AuthorID,
	}, nil
}

// Transition validates and applies a status change in place.
func (e *Event) Transition(to EventStatus, now time.Time) error {
	if !CanTransition(e.Status, to) {
		return ErrInvalidTransition
	}
	e.Status = to
	if to == StatusEnded {
		ts := now.UTC()
		e.EndedAt = &ts
	}
	return nil
}

// Slugify lowercases the input and collapses every run of non-alphanumeric
// characters to a single hyphen.
func Slugify(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))

	lastHyphen := true // suppress leading hyphen
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			sb.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				sb.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(sb.String(), "-")
}
