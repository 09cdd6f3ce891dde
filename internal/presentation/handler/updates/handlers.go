package updates

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/newswired/livedesk/internal/domain"
	"github.com/newswired/livedesk/internal/infrastructure/json"
	"github.com/newswired/livedesk/internal/infrastructure/presence"
	"github.com/newswired/livedesk/internal/infrastructure/ws"
	"github.com/newswired/livedesk/internal/live"
)

type Handler struct {
	service  *live.Service
	presence *presence.Tracker // nil when redis is disabled
}

func NewHandler(service *live.Service, presence *presence.Tracker) *Handler {
	return &Handler{
		service:  service,
		presence: presence,
	}
}

// PushUpdateHandler godoc
// @Summary      Append one update to a live event's feed
// @Description  The server assigns the ordering timestamp at acceptance; the update is immutable afterwards
// @Tags         updates
// @Accept       json
// @Produce      json
// @Param        eventId path string true "Event ID"
// @Param        request body pushUpdateRequest true "Update content"
// @Success      201 {object} domain.Update "Update accepted"
// @Failure      400 {object} map[string]interface{} "Bad request - validation error"
// @Failure      404 {object} map[string]interface{} "Event not found"
// @Failure      409 {object} map[string]interface{} "Conflict - event is not live"
// @Failure      500 {object} map[string]interface{} "Internal server error"
// @Router       /events/{eventId}/updates [post]
func (h *Handler) PushUpdateHandler(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	if eventID == "" {
		json.WriteValidationError(w, errors.New("event id is missing"))
		return
	}

	var req pushUpdateRequest
	if err := json.Read(r, &req); err != nil {
		json.WriteValidationError(w, err)
		return
	}
	if err := req.validate(); err != nil {
		json.WriteValidationError(w, err)
		return
	}

	update, err := h.service.PushUpdate(r.Context(), eventID, domain.NewUpdateFields{
		Content:    req.Content,
		Type:       req.Type,
		AuthorID:   req.AuthorID,
		AuthorName: req.AuthorName,
		ImageURL:   req.ImageURL,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrEventNotFound):
			json.WriteNotFoundError(w, "Event not found")
		case errors.Is(err, domain.ErrEventNotLive):
			json.WriteConflictError(w, err, "Coverage has ended or not started; updates are closed")
		case errors.Is(err, domain.ErrContentRequired),
			errors.Is(err, domain.ErrContentTooLong),
			errors.Is(err, domain.ErrUnknownUpdateType),
			errors.Is(err, domain.ErrImageURLRequired):
			json.WriteValidationError(w, err)
		default:
			log.Printf("Failed to push update to event %s: %v", eventID, err)
			json.WriteInternalError(w, err)
		}
		return
	}

	json.Write(w, http.StatusCreated, update)
}

// ListUpdatesHandler returns the current feed newest first, for pages
// doing a plain initial load without a socket.
func (h *Handler) ListUpdatesHandler(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	if eventID == "" {
		json.WriteValidationError(w, errors.New("event id is missing"))
		return
	}

	updates, err := h.service.ListUpdates(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			json.WriteNotFoundError(w, "Event not found")
			return
		}
		json.WriteInternalError(w, err)
		return
	}

	json.Write(w, http.StatusOK, updates)
}

// SubscribeHandler godoc
// @Summary      Subscribe to an event feed via WebSocket
// @Description  Sends the full newest-first snapshot on connect and again after every append
// @Tags         updates
// @Success      101 {object} map[string]interface{} "Switching Protocols"
// @Failure      404 {object} map[string]interface{} "Event not found"
// @Router       /events/{eventId}/subscribe [get]
func (h *Handler) SubscribeHandler(w http.ResponseWriter, r *http.Request) {
	eventID := chi.URLParam(r, "eventId")
	if eventID == "" {
		json.WriteValidationError(w, errors.New("event id is missing"))
		return
	}

	conn, err := ws.Upgrade(w, r)
	if err != nil {
		log.Printf("WebSocket upgrade failed for event %s: %v", eventID, err)
		return
	}

	client := ws.NewClient(conn, uuid.NewString(), eventID)

	unsubscribe, err := h.service.SubscribeToUpdates(r.Context(), eventID, func(updates []domain.Update) {
		client.Send(ws.NewSnapshot(eventID, updates))
	})
	if err != nil {
		msg := "Failed to subscribe"
		if errors.Is(err, domain.ErrEventNotFound) {
			msg = "Event not found"
		}
		_ = conn.WriteJSON(ws.NewSubscribeFailed(eventID, msg))
		_ = conn.Close()
		return
	}

	h.trackJoin(client, eventID)

	go client.WritePump()
	go client.ReadPump(func() {
		unsubscribe()
		h.trackLeave(eventID)
	})
}

// trackJoin bumps the viewer counter and tells the new client the count.
// A presence failure degrades to an explicit error payload; the count is
// never made up.
func (h *Handler) trackJoin(client *ws.Client, eventID string) {
	if h.presence == nil {
		return
	}

	ctx := context.Background()
	if err := h.presence.Join(ctx, eventID); err != nil {
		log.Printf("presence join failed for event %s: %v", eventID, err)
		client.Send(ws.NewPresenceFailed(eventID))
		return
	}

	online, err := h.presence.Count(ctx, eventID)
	if err != nil {
		log.Printf("presence count failed for event %s: %v", eventID, err)
		client.Send(ws.NewPresenceFailed(eventID))
		return
	}

	client.Send(ws.NewPresenceCount(eventID, online))
}

func (h *Handler) trackLeave(eventID string) {
	if h.presence == nil {
		return
	}
	if err := h.presence.Leave(context.Background(), eventID); err != nil {
		log.Printf("presence leave failed for event %s: %v", eventID, err)
	}
}
