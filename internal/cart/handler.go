package cart

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cazuela-chapina/cazuela/internal/platform/httpx"
	"github.com/cazuela-chapina/cazuela/internal/pricing"
	"github.com/cazuela-chapina/cazuela/internal/shared"
)

// Handler wires the session-scoped cart endpoints.
type Handler struct {
	logger *slog.Logger
	store  Store
}

// NewHandler constructs a Handler.
func NewHandler(logger *slog.Logger, store Store) *Handler {
	return &Handler{logger: logger, store: store}
}

// MountRoutes registers cart routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.view)
	r.Delete("/", h.clear)
	r.Post("/items", h.add)
	r.Put("/items/{id}", h.setQuantity)
	r.Delete("/items/{id}", h.remove)
}

type cartView struct {
	Success bool    `json:"success"`
	Entries []Entry `json:"entries"`
	Count   int     `json:"count"`
	Total   float64 `json:"total"`
}

func (h *Handler) respond(w http.ResponseWriter, c *Cart) {
	entries := c.Entries
	if entries == nil {
		entries = []Entry{}
	}
	httpx.JSON(w, http.StatusOK, cartView{
		Success: true,
		Entries: entries,
		Count:   c.Count(),
		Total:   pricing.Round2(c.Total()),
	})
}

func (h *Handler) withCart(w http.ResponseWriter, r *http.Request, mutate func(c *Cart) error) {
	sess := shared.SessionFromContext(r.Context())
	if sess == nil || sess.ID == "" {
		httpx.RespondError(w, shared.ErrUnauthorized)
		return
	}
	c, err := h.store.Load(r.Context(), sess.ID)
	if err != nil {
		h.logger.Error("load cart", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if mutate != nil {
		if err := mutate(c); err != nil {
			httpx.RespondError(w, err)
			return
		}
		if err := h.store.Save(r.Context(), sess.ID, c); err != nil {
			h.logger.Error("save cart", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
	}
	h.respond(w, c)
}

func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	h.withCart(w, r, nil)
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Item map[string]any `json:"item"`
		Qty  int            `json:"qty"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if body.Qty == 0 {
		body.Qty = 1
	}
	h.withCart(w, r, func(c *Cart) error {
		return c.Add(body.Item, body.Qty)
	})
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	var body struct {
		Qty int `json:"qty"`
	}
	if err := httpx.DecodeJSON(r, &body); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid payload")
		return
	}
	h.withCart(w, r, func(c *Cart) error {
		c.SetQuantity(id, body.Qty)
		return nil
	})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		httpx.RespondError(w, shared.ErrNotFound)
		return
	}
	h.withCart(w, r, func(c *Cart) error {
		c.Remove(id)
		return nil
	})
}

func (h *Handler) clear(w http.ResponseWriter, r *http.Request) {
	h.withCart(w, r, func(c *Cart) error {
		c.Clear()
		return nil
	})
}
