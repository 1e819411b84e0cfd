package identity

import (
	"errors"
	"net/http"
	"strings"

	"storefront-system/internal/logger"
	"storefront-system/internal/models"
	"storefront-system/internal/web"
)

// Handler exposes the account endpoints.
type Handler struct {
	service *Service
	logger  *logger.Logger
}

// NewHandler creates the identity HTTP handler.
func NewHandler(service *Service, log *logger.Logger) *Handler {
	return &Handler{service: service, logger: log}
}

// Register mounts the auth routes.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("POST /auth/register", h.RegisterAccount)
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/me", h.Me)
	mux.HandleFunc("PUT /auth/addresses", h.SaveAddresses)
}

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type authResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// RegisterAccount creates an account and returns its first session.
func (h *Handler) RegisterAccount(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())

	var req registerRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	u, session, err := h.service.Register(r.Context(), req.Name, req.Email, req.Phone, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailTaken):
			web.WriteError(w, http.StatusConflict, err.Error(), requestID)
		case errors.Is(err, ErrInvalidInput):
			web.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
		default:
			h.logger.Error("register_failed", "Failed to register user", requestID, err, nil)
			web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		}
		return
	}
	web.WriteJSON(w, http.StatusCreated, authResponse{User: u, Token: session.Token})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies credentials and opens a session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())

	var req loginRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	u, session, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			web.WriteError(w, http.StatusUnauthorized, err.Error(), requestID)
			return
		}
		h.logger.Error("login_failed", "Failed to log in", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, authResponse{User: u, Token: session.Token})
}

// Logout closes the current session.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())

	token := ""
	if auth := r.Header.Get("Authorization"); strings.HasPrefix(auth, "Bearer ") {
		token = strings.TrimPrefix(auth, "Bearer ")
	}
	if token != "" {
		if err := h.service.Logout(r.Context(), token); err != nil {
			h.logger.Error("logout_failed", "Failed to delete session", requestID, err, nil)
		}
	}
	web.WriteJSON(w, http.StatusOK, map[string]interface{}{"status": "ok"})
}

// Me returns the acting user's profile.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())
	actor := web.ActorFrom(r.Context())

	if actor.IsGuest() {
		web.WriteError(w, http.StatusUnauthorized, "Not logged in", requestID)
		return
	}

	u, err := h.service.Profile(r.Context(), actor)
	if err != nil {
		h.logger.Error("profile_failed", "Failed to load profile", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, u)
}

type saveAddressesRequest struct {
	Addresses []models.SavedAddress `json:"addresses"`
}

// SaveAddresses replaces the acting user's address book.
func (h *Handler) SaveAddresses(w http.ResponseWriter, r *http.Request) {
	requestID := web.RequestIDFrom(r.Context())
	actor := web.ActorFrom(r.Context())

	if actor.IsGuest() {
		web.WriteError(w, http.StatusUnauthorized, "Not logged in", requestID)
		return
	}

	var req saveAddressesRequest
	if err := web.DecodeJSON(r, &req); err != nil {
		web.WriteError(w, http.StatusBadRequest, "Invalid JSON format", requestID)
		return
	}

	u, err := h.service.SaveAddresses(r.Context(), actor, req.Addresses)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			web.WriteError(w, http.StatusBadRequest, err.Error(), requestID)
			return
		}
		h.logger.Error("address_update_failed", "Failed to save addresses", requestID, err, nil)
		web.WriteError(w, http.StatusInternalServerError, "Internal server error", requestID)
		return
	}
	web.WriteJSON(w, http.StatusOK, u)
}
