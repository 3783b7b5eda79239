package auth

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cazuela-chapina/cazuela/internal/platform/httpx"
	"github.com/cazuela-chapina/cazuela/internal/shared"
)

// Handler wires HTTP endpoints for authentication flows.
type Handler struct {
	logger         *slog.Logger
	service        *Service
	sessionManager *shared.SessionManager
	validator      *validator.Validate
}

// NewHandler constructs a Handler instance.
func NewHandler(logger *slog.Logger, service *Service, sessions *shared.SessionManager) *Handler {
	return &Handler{
		logger:         logger,
		service:        service,
		sessionManager: sessions,
		validator:      validator.New(),
	}
}

// MountRoutes registers auth routes on provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Get("/me", h.handleMe)
}

type registerForm struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type loginForm struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type userView struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"isAdmin"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var form registerForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.service.Register(r.Context(), form.Name, form.Email, form.Password, form.ConfirmPassword)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.SetUser(user.ID, user.Name, user.IsAdmin)
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    userView{ID: user.ID, Name: user.Name, Email: user.Email, IsAdmin: user.IsAdmin},
	})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var form loginForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}

	user, err := h.service.Authenticate(r.Context(), form.Email, form.Password)
	if err != nil {
		h.logger.Warn("login failed", slog.String("email", form.Email))
		httpx.RespondError(w, err)
		return
	}

	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		sess.SetUser(user.ID, user.Name, user.IsAdmin)
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    userView{ID: user.ID, Name: user.Name, Email: user.Email, IsAdmin: user.IsAdmin},
	})
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := shared.SessionFromContext(r.Context()); sess != nil {
		h.sessionManager.Destroy(sess)
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if !sess.Authenticated() {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    userView{ID: sess.UserID(), Name: sess.UserName(), IsAdmin: sess.IsAdmin()},
	})
}
