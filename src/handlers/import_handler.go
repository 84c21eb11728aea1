// backend/src/handlers/import_handler.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/username/finansdefter/backend/src/logger"
	"github.com/username/finansdefter/backend/src/security/validation"
	"github.com/username/finansdefter/backend/src/services"
	"github.com/username/finansdefter/backend/src/utils"
)

type ImportHandler struct {
	importService  services.ImportService
	maxUploadBytes int64
}

func NewImportHandler(service services.ImportService, maxUploadBytes int64) *ImportHandler {
	return &ImportHandler{
		importService:  service,
		maxUploadBytes: maxUploadBytes,
	}
}

type resolvePlanRequest struct {
	Overwrite bool `json:"overwrite"`
}

// HandleImport reads an uploaded spreadsheet. It answers 200 with the import result,
// or 409 with a plan ID when existing records would be overwritten.
func (h *ImportHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}
	kind, ok := kindFromURL(w, r)
	if !ok {
		return
	}
	log := logger.FromContext(r.Context())

	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		log.Warn("Failed to parse multipart form or request too large", "error", err, "limit", h.maxUploadBytes)
		utils.SendJSONError(w, fmt.Sprintf("Dosya işlenemedi veya çok büyük (en fazla %d MB)", h.maxUploadBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		log.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > h.maxUploadBytes {
		log.Warn("Uploaded file header reports size too large", "fileSize", fileHeader.Size, "limit", h.maxUploadBytes)
		utils.SendJSONError(w, fmt.Sprintf("Dosya çok büyük, en fazla %d MB", h.maxUploadBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		log.Warn("Invalid client-declared file type", "contentType", clientContentType, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	format, err := validation.ValidateFileContentByMagicBytes(file)
	if err != nil {
		log.Warn("Server-side file content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	log.Info("Processing import request", "kind", kind, "filename", fileHeader.Filename, "format", format)

	preview, err := h.importService.ImportFile(r.Context(), kind, file, format, username)
	if err != nil {
		sendServiceError(w, r, err, "Error importing file")
		return
	}
	sendPreview(w, preview)
}

func sendPreview(w http.ResponseWriter, preview *services.ImportPreview) {
	if preview.Result != nil {
		utils.SendJSON(w, preview.Result, http.StatusOK)
		return
	}
	utils.SendJSON(w, preview, http.StatusConflict)
}

// HandleResolvePlan runs a halted import with the user's overwrite decision.
func (h *ImportHandler) HandleResolvePlan(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}
	var req resolvePlanRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		sendServiceError(w, r, err, "Invalid request body")
		return
	}

	result, err := h.importService.Resolve(r.Context(), chi.URLParam(r, "planId"), req.Overwrite, username)
	if err != nil {
		sendServiceError(w, r, err, "Error executing import plan")
		return
	}
	utils.SendJSON(w, result, http.StatusOK)
}

// HandleDiscardPlan drops a halted import without writing anything.
func (h *ImportHandler) HandleDiscardPlan(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}
	if !h.importService.Discard(chi.URLParam(r, "planId"), username) {
		utils.SendJSONError(w, services.ErrPlanNotFound.Error(), http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
