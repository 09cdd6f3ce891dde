package events

import (
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/newswired/livedesk/internal/domain"
	"github.com/newswired/livedesk/internal/infrastructure/json"
	"github.com/newswired/livedesk/internal/live"
)

type Handler struct {
	service *live.Service
}

func NewHandler(service *live.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// CreateEventHandler godoc
// @Summary      Create a new coverage event
// @Description  Registers an event in upcoming state; slug is derived from the title if omitted
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request body createEventRequest true "Event creation parameters"
// @Success      201 {object} domain.Event "Event created"
// @Failure      400 {object} map[string]interface{} "Bad request - validation error"
// @Failure      409 {object} map[string]interface{} "Conflict - slug already in use"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /events [post]
func (h *Handler) CreateEventHandler(w http.ResponseWriter, r *http.Request) {
	var req createEventRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	event, err := h.service.CreateEvent(r.Context(), domain.NewEventFields{
		Title:      req.Title,
		Slug:       req.Slug,
		Summary:    req.Summary,
		AuthorID:   req.AuthorID,
		CoverImage: req.CoverImage,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrSlugTaken):
			json.WriteConflictError(w, err, "An event with this slug already exists")
		case errors.Is(err, domain.ErrTitleRequired),
			errors.Is(err, domain.ErrTitleTooLong),
			errors.Is(err, domain.ErrSummaryTooLong):
			json.WriteValidationError(w, err)
		default:
			log.Printf("Failed to create event %q: %v", req.Title, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	json.Write(w, http.StatusCreated, event)
}

func (h *Handler) ListEventsHandler(w http.ResponseWriter, r *http.Request) {
	events, err := h.service.ListEvents(r.Context())
	if err != nil {
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, events)
}

// GetEventHandler resolves by id or slug; the public site links by slug.
func (h *Handler) GetEventHandler(w http.ResponseWriter, r *http.Request) {
	idOrSlug := chi.URLParam(r, "idOrSlug")
	if idOrSlug == "" {
		json.WriteValidationError(w, errors.New("event id or slug is missing"))
		return
	}

	event, err := h.service.GetEvent(r.Context(), idOrSlug)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			json.WriteNotFoundError(w, "Event not found")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, event)
}

// SetStatusHandler godoc
// @Summary      Transition event status
// @Description  Applies one lifecycle move (upcoming→live, upcoming→ended, live→ended)
// @Tags         events
// @Router       /events/{eventId}/status [patch]
func (h *Handler) SetStatusHandler(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	if eventID == "" {
		json.WriteValidationError(w, errors.New("event id is missing"))
		return
	}

	var req setStatusRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	status, err := domain.ParseEventStatus(req.Status)
	if err != nil {
		json.WriteValidationError(w, err)
		return
	}

	if err := h.service.SetEventStatus(r.Context(), eventID, status); err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			json.WriteNotFoundError(w, "Event not found")
		case errors.Is(err, domain.ErrInvalidTransition):
			json.WriteConflictError(w, err, "This status transition is not allowed")
		default:
			log.Printf("Failed to set status of event %s: %v", eventID, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// DeleteEventHandler is the admin path; the editorial flow never deletes.
func (h *Handler) DeleteEventHandler(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	if eventID == "" {
		json.WriteValidationError(w, errors.New("event id is missing"))
		return
	}

	if err := h.service.DeleteEvent(r.Context(), eventID); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			json.WriteNotFoundError(w, "Event not found")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
