package handler

import (
	"log/slog"
	"net/http"

	"github.com/foliokit/folio/internal/apperr"
	"github.com/foliokit/folio/internal/ctxkeys"
	"github.com/foliokit/folio/internal/model"
	"github.com/foliokit/folio/internal/respond"
	"github.com/foliokit/folio/internal/service"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

type session struct {
	Token string          `json:"token"`
	User  *model.Identity `json:"user"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := decodeJSON(w, r, &body)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	user, err := h.authService.Login(body.Email, body.Password)
	if err != nil {
		if apperr.Is(err, apperr.KindUnauthorized) {
			slog.Warn("failed login attempt", "email", body.Email)
		}
		respond.Error(w, r, err)
		return
	}

	h.issue(w, r, http.StatusOK, user)
}

// Register creates the first admin and signs them in.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	err := decodeJSON(w, r, &body)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	user, err := h.authService.Register(body.Username, body.Email, body.Password)
	if err != nil {
		respond.Error(w, r, err)
		return
	}

	slog.Info("admin registered", "user_id", user.ID, "username", user.Username)
	h.issue(w, r, http.StatusCreated, user)
}

// Verify echoes the identity of a valid token.
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	respond.JSON(w, http.StatusOK, map[string]any{
		"user": ctxkeys.Identity(r.Context()),
	})
}

func (h *AuthHandler) issue(w http.ResponseWriter, r *http.Request, status int, user *model.User) {
	token, err := h.authService.GenerateJWT(user)
	if err != nil {
		respond.Error(w, r, apperr.E(apperr.KindInternal, "Error logging in", err))
		return
	}

	respond.JSON(w, status, session{
		Token: token,
		User: &model.Identity{
			UserID:   user.ID,
			Username: user.Username,
			Email:    user.Email,
		},
	})
}
