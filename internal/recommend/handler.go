package recommend

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cazuela-chapina/cazuela/internal/platform/httpx"
)

// Handler wires the assistant endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers assistant routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.ask)
}

func (h *Handler) ask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Prompt string `json:"prompt"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid payload")
		return
	}

	reply, err := h.service.Recommend(r.Context(), body.Prompt)
	if err != nil {
		h.logger.Error("recommendation failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"reply":   reply,
	})
}
