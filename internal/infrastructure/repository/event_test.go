package repository

import (
	"context"
	"testing"
	"time"

	"github.com/newswired/livedesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvent(t *testing.T, title, slug string) *domain.Event {
	t.Helper()
	event, err := domain.NewEvent(domain.NewEventFields{Title: title, Slug: slug})
	require.NoError(t, err)
	return event
}

func TestEventRepository_CreateAssignsStartTime(t *testing.T) {
	repo := NewEventRepository()
	event := newEvent(t, "Election Night", "")

	require.NoError(t, repo.Create(context.Background(), event))
	assert.False(t, event.StartTime.IsZero())
}

func TestEventRepository_CreateRejectsDuplicateSlug(t *testing.T) {
	repo := NewEventRepository()
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newEvent(t, "Election Night", "election-night")))

	err := repo.Create(ctx, newEvent(t, "Other Coverage", "election-night"))
	assert.ErrorIs(t, err, domain.ErrSlugTaken)
}

func TestEventRepository_GetByIDAndSlug(t *testing.T) {
	repo := NewEventRepository()
	ctx := context.Background()

	event := newEvent(t, "Election Night", "")
	require.NoError(t, repo.Create(ctx, event))

	byID, err := repo.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, event.ID, byID.ID)

	bySlug, err := repo.GetBySlug(ctx, "election-night")
	require.NoError(t, err)
	assert.Equal(t, event.ID, bySlug.ID)

	_, err = repo.GetByID(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	_, err = repo.GetBySlug(ctx, "nope")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestEventRepository_SetStatus(t *testing.T) {
	repo := NewEventRepository()
	ctx := context.Background()

	event := newEvent(t, "Election Night", "")
	require.NoError(t, repo.Create(ctx, event))

	endedAt := time.Now().UTC()
	require.NoError(t, repo.SetStatus(ctx, event.ID, domain.StatusEnded, &endedAt))

	stored, err := repo.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusEnded, stored.Status)
	require.NotNil(t, stored.EndedAt)
	assert.Equal(t, endedAt, *stored.EndedAt)

	err = repo.SetStatus(ctx, "nope", domain.StatusLive, nil)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestEventRepository_DeleteFreesSlug(t *testing.T) {
	repo := NewEventRepository()
	ctx := context.Background()

	event := newEvent(t, "Election Night", "")
	require.NoError(t, repo.Create(ctx, event))
	require.NoError(t, repo.Delete(ctx, event.ID))

	_, err := repo.GetByID(ctx, event.ID)
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	// slug can be reused once the event is gone
	assert.NoError(t, repo.Create(ctx, newEvent(t, "Election Night", "election-night")))
}

func TestEventRepository_StoredEventIsolatedFromCaller(t *testing.T) {
	repo := NewEventRepository()
	ctx := context.Background()

	event := newEvent(t, "Election Night", "")
	require.NoError(t, repo.Create(ctx, event))

	loaded, err := repo.GetByID(ctx, event.ID)
	require.NoError(t, err)
	loaded.Title = "mutated"

	again, err := repo.GetByID(ctx, event.ID)
	require.NoError(t, err)
	assert.Equal(t, "Election Night", again.Title)
}
