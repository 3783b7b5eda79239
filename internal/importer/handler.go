package importer

import (
	"context"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/cazuela-chapina/cazuela/internal/platform/httpx"
)

const maxUploadBytes = 16 << 20

// Enqueuer hands an upload off to the background queue. Optional; when
// absent every import runs inline.
type Enqueuer interface {
	EnqueueImport(ctx context.Context, data []byte) (string, error)
}

// Handler wires the CSV upload endpoint. Admin gating happens in the
// router.
type Handler struct {
	logger   *slog.Logger
	importer *Importer
	queue    Enqueuer
}

// NewHandler constructs a Handler. The queue may be nil.
func NewHandler(logger *slog.Logger, imp *Importer, queue Enqueuer) *Handler {
	return &Handler{logger: logger, importer: imp, queue: queue}
}

// MountRoutes registers import routes on the provided router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.upload)
}

func (h *Handler) upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	file, _, err := r.FormFile("file")
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, "file field is required")
		return
	}
	defer func() { _ = file.Close() }()

	if h.queue != nil && r.URL.Query().Get("async") == "true" {
		data, err := io.ReadAll(file)
		if err != nil {
			httpx.Fail(w, http.StatusBadRequest, "could not read upload")
			return
		}
		taskID, err := h.queue.EnqueueImport(r.Context(), data)
		if err != nil {
			h.logger.Error("enqueue import", slog.Any("error", err))
			httpx.RespondError(w, err)
			return
		}
		httpx.JSON(w, http.StatusAccepted, map[string]any{
			"success": true,
			"queued":  true,
			"taskId":  taskID,
		})
		return
	}

	result, err := h.importer.ImportCSV(r.Context(), file)
	if err != nil {
		httpx.Fail(w, http.StatusBadRequest, err.Error())
		return
	}
	if result.Errors == nil {
		result.Errors = []RowError{}
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"report":  result,
	})
}
