package settings

import (
	"errors"
	"net/http"

	"storefront-system/internal/logger"
	"storefront-system/internal/models"
	"storefront-system/internal/web"
)

// Handler exposes the restaurant profile endpoints.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates the settings HTTP handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// RegisterStorefront mounts the public profile route.
func (h *Handler) RegisterStorefront(mux *http.ServeMux) {
	mux.HandleFunc("GET /restaurant", h.Get)
}

// RegisterAdmin mounts the profile management routes.
func (h *Handler) RegisterAdmin(mux *http.ServeMux) {
	mux.HandleFunc("GET /settings", h.Get)
	mux.HandleFunc("PUT /settings", h.Put)
}

// Get returns the restaurant profile.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())

	profile, err := h.service.Get(r.Context())
	if err != nil {
		h.logger.Error("settings_get_failed", "Failed to load settings", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, profile)
}

// Put replaces the restaurant profile.
func (h *Handler) Put(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())

	var profile models.RestaurantSettings
	if err := web.DecodeJSON(r, &profile); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	updated, err := h.service.Put(r.Context(), &profile)
	if err != nil {
		if errors.Is(err, ErrInvalidSettings) {
			web.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
			return
		}
		h.logger.Error("settings_put_failed", "Failed to store settings", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, updated)
}
