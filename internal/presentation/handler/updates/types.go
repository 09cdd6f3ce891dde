package updates

import (
	"github.com/newswired/livedesk/internal/infrastructure/validate"
)

type pushUpdateRequest struct {
	Content    string `json:"content"`
	Type       string `json:"type,omitempty"`
	AuthorID   string `json:"authorId"`
	AuthorName string `json:"authorName"`
	ImageURL   string `json:"imageUrl,omitempty"`
}

var (
	validateContent = validate.Field("content", validate.Required(), validate.MaxLength(5000))
	validateType    = validate.Field("type", validate.OneOf("", "text", "image", "breaking"))
)

func (r pushUpdateRequest) validate() error {
	if err := validateContent(r.Content); err != nil {
		return err
	}
	return validateType(r.Type)
}
