package catalog

import (
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/cazuela-chapina/cazuela/internal/platform/httpx"
	"github.com/cazuela-chapina/cazuela/internal/shared"
)

// maxImageBytes caps product image uploads.
const maxImageBytes = 8 << 20

// Handler wires HTTP endpoints for the catalog.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
	admin     func(http.Handler) http.Handler
}

// NewHandler constructs a Handler. admin is the middleware gating
// catalog mutation.
func NewHandler(logger *slog.Logger, service *Service, admin func(http.Handler) http.Handler) *Handler {
	return &Handler{
		logger:    logger,
		service:   service,
		validator: validator.New(),
		admin:     admin,
	}
}

// MountRoutes registers catalog routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Route("/products", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
		r.Get("/{id}/image", h.image)
		r.Group(func(r chi.Router) {
			r.Use(h.admin)
			r.Post("/", h.create)
			r.Put("/{id}", h.update)
			r.Delete("/{id}", h.delete)
			r.Post("/{id}/image", h.uploadImage)
		})
	})
	r.Route("/combos", func(r chi.Router) {
		r.Get("/", h.listCombos)
		r.Get("/{id}", h.getCombo)
		r.With(h.admin).Post("/", h.createCombo)
	})
	r.Get("/options", h.options)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := Filter{}
	if kind := r.URL.Query().Get("kind"); kind != "" {
		filter.Kind = Kind(kind)
	}
	products, err := h.service.List(r.Context(), filter)
	if err != nil {
		h.logger.Error("list products", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if products == nil {
		products = []Product{}
	}
	httpx.JSON(w, http.StatusOK, products)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	product, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, product)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var record map[string]any
	if err := httpx.DecodeJSON(r, &record); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid payload")
		return
	}
	created, err := h.service.Create(r.Context(), FromRecord(record))
	if err != nil {
		h.logger.Error("create product", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "productId": created.ID})
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var record map[string]any
	if err := httpx.DecodeJSON(r, &record); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.service.Update(r.Context(), id, PatchFromRecord(record)); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid content type")
		return
	}
	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "no file uploaded")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "read upload")
		return
	}
	if err := h.service.SetImage(r.Context(), id, data); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true})
}

func (h *Handler) image(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	data, err := h.service.Image(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	// Stored bytes are served as-is; the browser sniffs the format.
	w.Header().Set("Content-Type", "application/octet-stream")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (h *Handler) listCombos(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.List(r.Context(), Filter{Kind: KindCombo})
	if err != nil {
		h.logger.Error("list combos", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	if products == nil {
		products = []Product{}
	}
	httpx.JSON(w, http.StatusOK, products)
}

func (h *Handler) getCombo(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	combo, err := h.service.GetCombo(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	type comboView struct {
		Combo
		EffectivePrice float64 `json:"effective_price"`
	}
	httpx.JSON(w, http.StatusOK, comboView{Combo: combo, EffectivePrice: h.service.EffectivePrice(combo)})
}

func (h *Handler) createCombo(w http.ResponseWriter, r *http.Request) {
	var form comboForm
	if err := httpx.DecodeJSON(r, &form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, "invalid payload")
		return
	}
	if err := h.validator.Struct(form); err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	created, err := h.service.CreateCombo(r.Context(), form.toCombo())
	if err != nil {
		h.logger.Error("create combo", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"success": true, "comboId": created.ID})
}

// options serves the customization option sets the product forms offer.
func (h *Handler) options(w http.ResponseWriter, r *http.Request) {
	httpx.JSON(w, http.StatusOK, map[string][]string{
		"masa":       {"maíz amarillo", "maíz blanco", "arroz"},
		"relleno":    {"recado rojo de cerdo", "negro de pollo", "chipilín vegetariano", "mezcla estilo chuchito"},
		"envoltura":  {"hoja de plátano", "tusa de maíz"},
		"picante":    {"sin chile", "suave", "chapín"},
		"bebidaTipo": {"atol de elote", "atole shuco", "pinol", "cacao batido"},
		"endulzante": {"panela", "miel", "sin azúcar"},
		"topping":    {"malvaviscos", "canela", "ralladura de cacao"},
	})
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, shared.ErrNotFound
	}
	return id, nil
}
