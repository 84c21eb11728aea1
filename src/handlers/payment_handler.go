// backend/src/handlers/payment_handler.go
package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/username/finansdefter/backend/src/models"
	"github.com/username/finansdefter/backend/src/services"
	"github.com/username/finansdefter/backend/src/utils"
)

type PaymentHandler struct {
	paymentService services.PaymentService
}

func NewPaymentHandler(service services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: service}
}

func (h *PaymentHandler) HandleListPayments(w http.ResponseWriter, r *http.Request) {
	filter := models.PaymentFilter{
		StartDate: r.URL.Query().Get("start"),
		EndDate:   r.URL.Query().Get("end"),
	}
	payments, err := h.paymentService.List(r.Context(), filter)
	if err != nil {
		sendServiceError(w, r, err, "Error retrieving payments")
		return
	}
	if payments == nil {
		payments = []models.Payment{}
	}
	utils.SendJSON(w, payments, http.StatusOK)
}

func (h *PaymentHandler) HandleGetPayment(w http.ResponseWriter, r *http.Request) {
	payment, err := h.paymentService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		sendServiceError(w, r, err, "Error retrieving payment")
		return
	}
	utils.SendJSON(w, payment, http.StatusOK)
}

func (h *PaymentHandler) HandleCreatePayment(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}
	var p models.Payment
	if err := decodeJSONBody(w, r, &p); err != nil {
		sendServiceError(w, r, err, "Invalid request body")
		return
	}

	result, err := h.paymentService.Create(r.Context(), p, username)
	if err != nil {
		sendServiceError(w, r, err, "Error recording payment")
		return
	}
	utils.SendJSON(w, result, http.StatusCreated)
}

func (h *PaymentHandler) HandleUpdatePayment(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}
	var p models.Payment
	if err := decodeJSONBody(w, r, &p); err != nil {
		sendServiceError(w, r, err, "Invalid request body")
		return
	}

	updated, err := h.paymentService.Update(r.Context(), chi.URLParam(r, "id"), p, username)
	if err != nil {
		sendServiceError(w, r, err, "Error updating payment")
		return
	}
	utils.SendJSON(w, updated, http.StatusOK)
}

func (h *PaymentHandler) HandleDeletePayment(w http.ResponseWriter, r *http.Request) {
	username, ok := requireUsername(w, r)
	if !ok {
		return
	}
	if err := h.paymentService.Delete(r.Context(), chi.URLParam(r, "id"), username); err != nil {
		sendServiceError(w, r, err, "Error deleting payment")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PaymentHandler) HandleGetUpcomingPayments(w http.ResponseWriter, r *http.Request) {
	upcoming, err := h.paymentService.Upcoming(r.Context(), GetRoleFromContext(r.Context()))
	if err != nil {
		sendServiceError(w, r, err, "Error retrieving upcoming payments")
		return
	}
	utils.SendJSON(w, upcoming, http.StatusOK)
}

// HandleGetStatistics serves the monthly report with ETag support. The month defaults
// to the current one.
func (h *PaymentHandler) HandleGetStatistics(w http.ResponseWriter, r *http.Request) {
	month := r.URL.Query().Get("month")
	if month == "" {
		month = time.Now().Format("2006-01")
	}
	stats, err := h.paymentService.Statistics(r.Context(), month)
	if err != nil {
		sendServiceError(w, r, err, "Error computing statistics")
		return
	}
	sendJSONWithETag(w, r, stats)
}
