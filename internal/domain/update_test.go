package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUpdate_DefaultsToText(t *testing.T) {
	update, err := NewUpdate("ev-1", NewUpdateFields{Content: "Polls open", AuthorID: "ed-1", AuthorName: "Sam"})

	require.NoError(t, err)
	assert.Equal(t, UpdateText, update.Type)
	assert.Equal(t, "ev-1", update.EventID)
	assert.NotEmpty(t, update.ID)
	assert.True(t, update.Timestamp.IsZero(), "timestamp is assigned by the store, not the constructor")
}

func TestNewUpdate_RequiresContent(t *testing.T) {
	_, err := NewUpdate("ev-1", NewUpdateFields{Content: "  "})

	assert.ErrorIs(t, err, ErrContentRequired)
}

func TestNewUpdate_ImageRequiresURL(t *testing.T) {
	_, err := NewUpdate("ev-1", NewUpdateFields{Content: "Crowd outside court", Type: "image"})
	assert.ErrorIs(t, err, ErrImageURLRequired)

	update, err := NewUpdate("ev-1", NewUpdateFields{
		Content:  "Crowd outside court",
		Type:     "image",
		ImageURL: "https://cdn.example.com/crowd.jpg",
	})
	require.NoError(t, err)
	assert.Equal(t, UpdateImage, update.Type)
	assert.Equal(t, "https://cdn.example.com/crowd.jpg", update.ImageURL)
}

func TestNewUpdate_RejectsUnknownType(t *testing.T) {
	_, err := NewUpdate("ev-1", NewUpdateFields{Content: "x", Type: "poll"})

	assert.ErrorIs(t, err, ErrUnknownUpdateType)
}
