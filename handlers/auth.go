package handlers

import (
	"net/http"

	"workforce/apperror"
	"workforce/authz"
	"workforce/config"
	"workforce/middleware"
	"workforce/services"
)

const bootstrapTokenHeader = "X-BOOTSTRAP-TOKEN"

type AuthHandler struct {
	config  *config.Config
	service *services.Service
}

func NewAuthHandler(cfg *config.Config, svc *services.Service) *AuthHandler {
	return &AuthHandler{
		config:  cfg,
		service: svc,
	}
}

type tokenRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type refreshRequest struct {
	Refresh string `json:"refresh"`
}

type tokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in services.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.service.Register(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, newUserResponse(user))
}

// Token exchanges credentials for an access and a refresh token. The
// access token is also set as an HTTP only cookie.
func (h *AuthHandler) Token(w http.ResponseWriter, r *http.Request) {
	var in tokenRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	user, err := h.service.Authenticate(r.Context(), in.Username, in.Password)
	if err != nil {
		writeError(w, r, err)
		return
	}

	access, err := middleware.GenerateToken(user, middleware.TokenAccess, h.config.AccessTokenTTL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	refresh, err := middleware.GenerateToken(user, middleware.TokenRefresh, h.config.RefreshTokenTTL)
	if err != nil {
		writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    access,
		Path:     "/",
		MaxAge:   int(h.config.AccessTokenTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
	writeJSON(w, http.StatusOK, tokenResponse{Access: access, Refresh: refresh})
}

func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var in refreshRequest
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	claims, err := middleware.ValidateToken(in.Refresh, middleware.TokenRefresh)
	if err != nil {
		writeError(w, r, apperror.Unauthorized("Token is invalid or expired"))
		return
	}
	user, err := h.service.Me(r.Context(), authz.Principal{ID: claims.UserID})
	if err != nil {
		writeError(w, r, err)
		return
	}

	access, err := middleware.GenerateToken(user, middleware.TokenAccess, h.config.AccessTokenTTL)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tokenResponse{Access: access})
}

func (h *AuthHandler) BootstrapAdmin(w http.ResponseWriter, r *http.Request) {
	var in services.BootstrapInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, r, err)
		return
	}

	token := r.Header.Get(bootstrapTokenHeader)
	if _, err := h.service.BootstrapAdmin(r.Context(), h.config.BootstrapAdminToken, token, in); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, ErrorResponse{Detail: "Admin created successfully"})
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.service.Me(r.Context(), principal(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, newUserResponse(user))
}
