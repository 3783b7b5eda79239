package sales

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cazuela-chapina/cazuela/internal/cart"
	"github.com/cazuela-chapina/cazuela/internal/platform/httpx"
	"github.com/cazuela-chapina/cazuela/internal/shared"
)

// Handler wires the checkout endpoint.
type Handler struct {
	logger  *slog.Logger
	service *Service
	carts   cart.Store
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, service *Service, carts cart.Store) *Handler {
	return &Handler{logger: logger, service: service, carts: carts}
}

// MountRoutes registers checkout routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.checkout)
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.ID == "" {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}

	c, err := h.carts.Load(r.Context(), sess.ID)
	if err != nil {
		h.logger.Error("load cart", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	var userID *int64
	if sess.Authenticated() {
		uid := sess.UserID()
		userID = &uid
	}

	sale, err := h.service.Checkout(r.Context(), sess.ID, userID, c)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	if err := h.carts.Delete(r.Context(), sess.ID); err != nil {
		// The sale is already committed; an orphaned cart is the lesser
		// problem and expires with the session TTL.
		h.logger.Warn("clear cart after checkout", slog.Any("error", err))
	}

	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"saleId":  sale.ID,
		"total":   sale.Total,
		"items":   sale.Items,
	})
}
