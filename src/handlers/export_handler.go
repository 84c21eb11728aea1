// backend/src/handlers/export_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/username/finansdefter/backend/src/logger"
	"github.com/username/finansdefter/backend/src/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	exportService services.ExportService
}

func NewExportHandler(service services.ExportService) *ExportHandler {
	return &ExportHandler{exportService: service}
}

func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromURL(w, r)
	if !ok {
		return
	}
	file, err := h.exportService.Export(r.Context(), kind)
	if err != nil {
		sendServiceError(w, r, err, "Error exporting definitions")
		return
	}

	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(file.Content.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := file.Content.WriteTo(w); err != nil {
		logger.FromContext(r.Context()).Error("Error writing export file", "kind", kind, "error", err)
	}
}
