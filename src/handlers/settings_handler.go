// backend/src/handlers/settings_handler.go
package handlers

import (
	"net/http"

	"github.com/username/finansdefter/backend/src/models"
	"github.com/username/finansdefter/backend/src/security/validation"
	"github.com/username/finansdefter/backend/src/services"
	"github.com/username/finansdefter/backend/src/utils"
)

const (
	defaultActivityLimit = 100
	maxActivityLimit     = 1000
)

type SettingsHandler struct {
	settingsService services.SettingsService
	activityService services.ActivityService
}

func NewSettingsHandler(settings services.SettingsService, activity services.ActivityService) *SettingsHandler {
	return &SettingsHandler{settingsService: settings, activityService: activity}
}

func (h *SettingsHandler) HandleGetSettings(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}
	settings, err := h.settingsService.Get(r.Context(), username)
	if err != nil {
		sendServiceError(w, r, err, "Error retrieving settings")
		return
	}
	utils.SendJSON(w, settings, http.StatusOK)
}

// HandleSaveSettings stores the caller's settings; the username always comes from the token.
func (h *SettingsHandler) HandleSaveSettings(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}
	var st models.UserSettings
	if err := decodeJSONBody(w, r, &st); err != nil {
		sendServiceError(w, r, err, "Invalid request body")
		return
	}
	st.Username = username

	saved, err := h.settingsService.Save(r.Context(), st)
	if err != nil {
		sendServiceError(w, r, err, "Error saving settings")
		return
	}
	utils.SendJSON(w, saved, http.StatusOK)
}

func (h *SettingsHandler) HandleListActivity(w http.ResponseWriter, r *http.Request) {
	limit := defaultActivityLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := validation.ValidateIntString(raw, "limit", 1, maxActivityLimit)
		if err != nil {
			sendServiceError(w, r, err, "Invalid limit")
			return
		}
		limit = n
	}

	logs, err := h.activityService.List(r.Context(), GetRoleFromContext(r.Context()), limit)
	if err != nil {
		sendServiceError(w, r, err, "Error retrieving activity log")
		return
	}
	utils.SendJSON(w, logs, http.StatusOK)
}
