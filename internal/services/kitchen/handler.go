package kitchen

import (
	"net/http"

	"storefront-system/internal/logger"
	"storefront-system/internal/web"
)

// Handler exposes the kitchen queue endpoint.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates the kitchen HTTP handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// RegisterAdmin mounts the kitchen routes on the back-office mux.
func (h *Handler) RegisterAdmin(mux *http.ServeMux) {
	mux.HandleFunc("GET /kitchen/worklist", h.GetQueue)
}

// GetQueue returns the aggregated preparation queue.
func (h *Handler) GetQueue(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())

	items, err := h.service.Queue(r.Context())
	if err != nil {
		h.logger.Error("kitchen_queue_failed", "Failed to build kitchen queue", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	if items == nil {
		items = []QueueItem{}
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"queue": items})
}
