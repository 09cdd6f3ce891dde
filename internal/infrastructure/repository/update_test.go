package repository

import (
	"context"
	"fmt"
	"testing"

	"github.com/newswired/livedesk/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appendUpdate(t *testing.T, repo domain.UpdateRepository, eventID, content string) *domain.Update {
	t.Helper()
	update, err := domain.NewUpdate(eventID, domain.NewUpdateFields{Content: content})
	require.NoError(t, err)
	require.NoError(t, repo.Append(context.Background(), update))
	return update
}

func TestUpdateRepository_AppendStampsTimestampAndSeq(t *testing.T) {
	repo := NewUpdateRepository()

	first := appendUpdate(t, repo, "ev-1", "Polls open")
	second := appendUpdate(t, repo, "ev-1", "Turnout high")

	assert.False(t, first.Timestamp.IsZero())
	assert.False(t, second.Timestamp.IsZero())
	assert.Greater(t, second.Seq, first.Seq)
}

func TestUpdateRepository_ListByEventNewestFirst(t *testing.T) {
	repo := NewUpdateRepository()
	ctx := context.Background()

	appendUpdate(t, repo, "ev-1", "Polls open")
	appendUpdate(t, repo, "ev-1", "Turnout high in District 4")
	appendUpdate(t, repo, "ev-1", "Candidate X leads")
	appendUpdate(t, repo, "ev-2", "unrelated feed")

	feed, err := repo.ListByEvent(ctx, "ev-1")
	require.NoError(t, err)
	require.Len(t, feed, 3)

	assert.Equal(t, "Candidate X leads", feed[0].Content)
	assert.Equal(t, "Turnout high in District 4", feed[1].Content)
	assert.Equal(t, "Polls open", feed[2].Content)
}

func TestUpdateRepository_ListByEventUnknownEventIsEmpty(t *testing.T) {
	repo := NewUpdateRepository()

	feed, err := repo.ListByEvent(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, feed)
}

func TestUpdateRepository_SnapshotIsACopy(t *testing.T) {
	repo := NewUpdateRepository()
	ctx := context.Background()

	appendUpdate(t, repo, "ev-1", "Polls open")

	feed, err := repo.ListByEvent(ctx, "ev-1")
	require.NoError(t, err)
	feed[0].Content = "mutated"

	again, err := repo.ListByEvent(ctx, "ev-1")
	require.NoError(t, err)
	assert.Equal(t, "Polls open", again[0].Content)
}

func TestUpdateRepository_CountByEvent(t *testing.T) {
	repo := NewUpdateRepository()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		appendUpdate(t, repo, "ev-1", fmt.Sprintf("update %d", i))
	}

	count, err := repo.CountByEvent(ctx, "ev-1")
	require.NoError(t, err)
	assert.EqualValues(t, 5, count)

	count, err = repo.CountByEvent(ctx, "nope")
	require.NoError(t, err)
	assert.Zero(t, count)
}
