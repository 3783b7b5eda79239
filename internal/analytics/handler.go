package analytics

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cazuela-chapina/cazuela/internal/platform/httpx"
)

// Handler wires the dashboard endpoint. Admin gating happens in the
// router, not here.
type Handler struct {
	logger  *slog.Logger
	service *Service
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service}
}

// MountRoutes registers analytics routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.dashboard)
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.service.Dashboard(r.Context(), r.URL.Query().Get("top"))
	if err != nil {
		h.logger.Error("build dashboard", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"analytics": dash,
	})
}
