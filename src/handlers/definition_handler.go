// backend/src/handlers/definition_handler.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/username/finansdefter/backend/src/logger"
	"github.com/username/finansdefter/backend/src/models"
	"github.com/username/finansdefter/backend/src/services"
	"github.com/username/finansdefter/backend/src/utils"
)

type DefinitionHandler struct {
	definitionService services.DefinitionService
}

func NewDefinitionHandler(service services.DefinitionService) *DefinitionHandler {
	return &DefinitionHandler{definitionService: service}
}

// kindFromURL parses the {kind} route parameter, writing 400 when it is unknown.
func kindFromURL(w http.ResponseWriter, r *http.Request) (models.Kind, bool) {
	kind, err := models.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return "", false
	}
	return kind, true
}

func (h *DefinitionHandler) HandleListDefinitions(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromURL(w, r)
	if !ok {
		return
	}
	q := r.URL.Query()
	opts := services.ListOptions{
		Query: q.Get("q"),
		Sort:  q.Get("sort"),
		Desc:  strings.EqualFold(q.Get("dir"), "desc"),
	}

	records, err := h.definitionService.List(r.Context(), kind, opts)
	if err != nil {
		sendServiceError(w, r, err, "Error retrieving definitions")
		return
	}
	if records == nil {
		records = []models.Record{}
	}
	utils.SendJSON(w, records, http.StatusOK)
}

func (h *DefinitionHandler) HandleGetDefinition(w http.ResponseWriter, r *http.Request) {
	kind, ok := kindFromURL(w, r)
	if !ok {
		return
	}
	record, err := h.definitionService.Get(r.Context(), kind, chi.URLParam(r, "id"))
	if err != nil {
		sendServiceError(w, r, err, "Error retrieving definition")
		return
	}
	utils.SendJSON(w, record, http.StatusOK)
}

func (h *DefinitionHandler) HandleCreateDefinition(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}
	kind, ok := kindFromURL(w, r)
	if !ok {
		return
	}
	var in services.DefinitionInput
	if err := decodeJSONBody(w, r, &in); err != nil {
		sendServiceError(w, r, err, "Invalid request body")
		return
	}

	record, err := h.definitionService.Create(r.Context(), kind, in, username)
	if err != nil {
		sendServiceError(w, r, err, "Error creating definition")
		return
	}
	logger.FromContext(r.Context()).Info("Definition created", "kind", kind, "id", record.RecordID())
	utils.SendJSON(w, record, http.StatusCreated)
}

func (h *DefinitionHandler) HandleUpdateDefinition(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}
	kind, ok := kindFromURL(w, r)
	if !ok {
		return
	}
	var in services.DefinitionInput
	if err := decodeJSONBody(w, r, &in); err != nil {
		sendServiceError(w, r, err, "Invalid request body")
		return
	}

	record, err := h.definitionService.Update(r.Context(), kind, chi.URLParam(r, "id"), in, username)
	if err != nil {
		sendServiceError(w, r, err, "Error updating definition")
		return
	}
	utils.SendJSON(w, record, http.StatusOK)
}

func (h *DefinitionHandler) HandleDeleteDefinition(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}
	kind, ok := kindFromURL(w, r)
	if !ok {
		return
	}
	if err := h.definitionService.Delete(r.Context(), kind, chi.URLParam(r, "id"), username); err != nil {
		sendServiceError(w, r, err, "Error deleting definition")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
