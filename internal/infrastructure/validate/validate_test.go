package validate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequired(t *testing.T) {
	v := Required()

	assert.NoError(t, v("election night"))
	assert.Error(t, v(""))
	assert.Error(t, v("   "))
}

func TestMaxLength(t *testing.T) {
	v := MaxLength(5)

	assert.NoError(t, v("12345"))
	assert.Error(t, v("123456"))
}

func TestOneOf(t *testing.T) {
	v := OneOf("upcoming", "live", "ended")

	assert.NoError(t, v("live"))
	assert.Error(t, v("paused"))
}

func TestSlug(t *testing.T) {
	v := Slug()

	assert.NoError(t, v("election-night-2026"))
	assert.NoError(t, v(""), "empty is Required's job")
	assert.Error(t, v("Election-Night"))
	assert.Error(t, v("double--hyphen"))
	assert.Error(t, v("-leading"))
	assert.Error(t, v("trailing-"))
	assert.Error(t, v("spaced out"))
}

func TestField_PrefixesErrors(t *testing.T) {
	v := Field("title", Required(), MaxLength(120))

	err := v("")
	assert.ErrorContains(t, err, "title")
	assert.NoError(t, v("Budget Vote"))
}

func TestCompose_FirstErrorWins(t *testing.T) {
	v := Compose(Required(), MaxLength(3))

	assert.Error(t, v(""))
	assert.Error(t, v("long value"))
	assert.NoError(t, v("ok"))
}
