// backend/src/handlers/reminder_handler.go
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/username/finansdefter/backend/src/models"
	"github.com/username/finansdefter/backend/src/services"
	"github.com/username/finansdefter/backend/src/utils"
)

type ReminderHandler struct {
	reminderService services.ReminderService
}

func NewReminderHandler(service services.ReminderService) *ReminderHandler {
	return &ReminderHandler{reminderService: service}
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (h *ReminderHandler) HandleListActive(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.reminderService.Active(r.Context())
	if err != nil {
		sendServiceError(w, r, err, "Error retrieving reminders")
		return
	}
	if reminders == nil {
		reminders = []models.Reminder{}
	}
	utils.SendJSON(w, reminders, http.StatusOK)
}

func (h *ReminderHandler) HandleListHistory(w http.ResponseWriter, r *http.Request) {
	reminders, err := h.reminderService.History(r.Context())
	if err != nil {
		sendServiceError(w, r, err, "Error retrieving reminder history")
		return
	}
	utils.SendJSON(w, reminders, http.StatusOK)
}

func (h *ReminderHandler) HandleListLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := h.reminderService.Logs(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		sendServiceError(w, r, err, "Error retrieving reminder logs")
		return
	}
	if logs == nil {
		logs = []models.ReminderLog{}
	}
	utils.SendJSON(w, logs, http.StatusOK)
}

func (h *ReminderHandler) HandleListDue(w http.ResponseWriter, r *http.Request) {
	due, err := h.reminderService.Due(r.Context())
	if err != nil {
		sendServiceError(w, r, err, "Error evaluating reminders")
		return
	}
	utils.SendJSON(w, due, http.StatusOK)
}

func (h *ReminderHandler) HandleListExpiringCards(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}
	cards, err := h.reminderService.ExpiringCards(r.Context(), username)
	if err != nil {
		sendServiceError(w, r, err, "Error retrieving expiring cards")
		return
	}
	utils.SendJSON(w, cards, http.StatusOK)
}

func (h *ReminderHandler) HandleCreateReminder(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}
	var rem models.Reminder
	if err := decodeJSONBody(w, r, &rem); err != nil {
		sendServiceError(w, r, err, "Invalid request body")
		return
	}
	created, err := h.reminderService.Create(r.Context(), rem, username)
	if err != nil {
		sendServiceError(w, r, err, "Error creating reminder")
		return
	}
	utils.SendJSON(w, created, http.StatusCreated)
}

func (h *ReminderHandler) HandleUpdateReminder(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}
	var rem models.Reminder
	if err := decodeJSONBody(w, r, &rem); err != nil {
		sendServiceError(w, r, err, "Invalid request body")
		return
	}
	updated, err := h.reminderService.Update(r.Context(), chi.URLParam(r, "id"), rem, username)
	if err != nil {
		sendServiceError(w, r, err, "Error updating reminder")
		return
	}
	utils.SendJSON(w, updated, http.StatusOK)
}

func (h *ReminderHandler) HandleSetActive(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}
	var req setActiveRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		sendServiceError(w, r, err, "Invalid request body")
		return
	}
	updated, err := h.reminderService.SetActive(r.Context(), chi.URLParam(r, "id"), req.Active, username)
	if err != nil {
		sendServiceError(w, r, err, "Error updating reminder")
		return
	}
	utils.SendJSON(w, updated, http.StatusOK)
}

func (h *ReminderHandler) HandleDeleteReminder(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}
	if err := h.reminderService.Delete(r.Context(), chi.URLParam(r, "id"), username); err != nil {
		sendServiceError(w, r, err, "Error deleting reminder")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
