package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/cazuela-chapina/cazuela/internal/importer"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskTypeImportProducts is the task type for bulk CSV imports.
	TaskTypeImportProducts = "catalog:import"
)

// ImportProductsPayload carries the raw CSV content. Uploads are capped
// well below any queue payload limit.
type ImportProductsPayload struct {
	CSV []byte `json:"csv"`
}

// NewImportProductsTask constructs an Asynq task.
func NewImportProductsTask(payload ImportProductsPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTypeImportProducts, data), nil
}

// ImportHandler processes TaskTypeImportProducts tasks.
type ImportHandler struct {
	logger   *slog.Logger
	importer *importer.Importer
}

// NewImportHandler constructs an ImportHandler.
func NewImportHandler(logger *slog.Logger, imp *importer.Importer) *ImportHandler {
	return &ImportHandler{logger: logger, importer: imp}
}

// Handle runs the import. Malformed payloads are not retried; a row
// failure inside the file is part of the report, not a task failure.
func (h *ImportHandler) Handle(ctx context.Context, t *asynq.Task) error {
	var payload ImportProductsPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	result, err := h.importer.ImportCSV(ctx, bytes.NewReader(payload.CSV))
	if err != nil {
		h.logger.Error("background import failed", slog.Any("error", err))
		return err
	}
	h.logger.Info("background import finished",
		slog.Int("total", result.Total),
		slog.Int("done", result.Done),
		slog.Int("failed", result.Failed),
	)
	return nil
}
