package notification

import (
	"errors"
	"net/http"

	"storefront-system/internal/logger"
	"storefront-system/internal/models"
	"storefront-system/internal/web"
)

// Handler exposes the notification feed endpoints.
type Handler struct {
	dispatcher *Dispatcher
	logger     *logger.Logger
}

// NewHandler creates the notification HTTP handler.
func NewHandler(dispatcher *Dispatcher, log *logger.Logger) *Handler {
	return &Handler{dispatcher: dispatcher, logger: log}
}

// Register mounts the notification routes.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /notifications", h.List)
	mux.HandleFunc("GET /notifications/unread-count", h.UnreadCount)
	mux.HandleFunc("POST /notifications/{id}/read", h.MarkRead)
	mux.HandleFunc("POST /notifications/read-all", h.MarkAllRead)
	mux.HandleFunc("DELETE /notifications", h.Clear)
}

// List returns the actor's visible feed.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())

	feed, err := h.dispatcher.Feed(r.Context(), web.ActorFrom(r.Context()))
	if err != nil {
		h.logger.Error("notification_list_failed", "Failed to list notifications", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	if feed == nil {
		feed = []models.Notification{}
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"notifications": feed})
}

// UnreadCount returns the actor's unread counter.
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())

	count, err := h.dispatcher.UnreadCount(r.Context(), web.ActorFrom(r.Context()))
	if err != nil {
		h.logger.Error("notification_count_failed", "Failed to count notifications", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"unread_count": count})
}

// MarkRead marks one of the actor's notifications as read.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())
	actor := web.ActorFrom(r.Context())

	if err := h.dispatcher.MarkRead(r.Context(), actor, r.PathValue("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			web.WriteError(w, http.StatusNotFound, "Notification not found", requestID)
			return
		}
		h.logger.Error("notification_read_failed", "Failed to mark notification read", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}

// MarkAllRead marks everything visible to the actor as read.
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())

	if err := h.dispatcher.MarkAllRead(r.Context(), web.ActorFrom(r.Context())); err != nil {
		h.logger.Error("notification_read_failed", "Failed to mark notifications read", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}

// Clear empties the actor's visible feed.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())

	if err := h.dispatcher.Clear(r.Context(), web.ActorFrom(r.Context())); err != nil {
		h.logger.Error("notification_clear_failed", "Failed to clear notifications", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}
