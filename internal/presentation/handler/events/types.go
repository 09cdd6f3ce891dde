package events

import (
	"github.com/newswired/livedesk/internal/infrastructure/validate"
)

type createEventRequest struct {
	Title      string `json:"title"`
	Slug       string `json:"slug,omitempty"`
	Summary    string `json:"summary,omitempty"`
	AuthorID   string `json:"authorId"`
	CoverImage string `json:"coverImage,omitempty"`
}

var (
	validateTitle = validate.Field("title", validate.Required(), validate.MaxLength(200))
	validateSlug  = validate.Field("slug", validate.Slug())
)

func (r createEventRequest) validate() error {
	if err := validateTitle(r.Title); err != nil {
		return err
	}
	return validateSlug(r.Slug)
}

type setStatusRequest struct {
	Status string `json:"status"`
}
