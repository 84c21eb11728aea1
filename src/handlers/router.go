// backend/src/handlers/router.go
package handlers

import (
	"github.com/go-chi/chi/v5"
)

// API groups the handlers mounted under /api.
type API struct {
	Users       *UserHandler
	Definitions *DefinitionHandler
	Imports     *ImportHandler
	Exports     *ExportHandler
	Payments    *PaymentHandler
	Reminders   *ReminderHandler
	Settings    *SettingsHandler
}

// Mount registers every /api route on r. All routes require a valid token; writes
// additionally require an editor role.
func (a *API) Mount(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Use(a.Users.AuthMiddleware)

		r.Get("/me", a.Users.HandleGetCurrentUser)

		r.Get("/definitions/{kind}", a.Definitions.HandleListDefinitions)
		r.Get("/definitions/{kind}/{id}", a.Definitions.HandleGetDefinition)
		r.Get("/export/{kind}", a.Exports.HandleExport)

		r.Get("/payments", a.Payments.HandleListPayments)
		r.Get("/payments/upcoming", a.Payments.HandleGetUpcomingPayments)
		r.Get("/payments/{id}", a.Payments.HandleGetPayment)
		r.Get("/statistics", a.Payments.HandleGetStatistics)

		r.Get("/reminders", a.Reminders.HandleListActive)
		r.Get("/reminders/history", a.Reminders.HandleListHistory)
		r.Get("/reminders/due", a.Reminders.HandleListDue)
		r.Get("/reminders/expiring-cards", a.Reminders.HandleListExpiringCards)
		r.Get("/reminders/{id}/logs", a.Reminders.HandleListLogs)

		r.Get("/settings", a.Settings.HandleGetSettings)
		r.Put("/settings", a.Settings.HandleSaveSettings)
		r.Get("/activity", a.Settings.HandleListActivity)

		// Editors only
		r.Group(func(r chi.Router) {
			r.Use(a.Users.EditorMiddleware)

			r.Post("/definitions/{kind}", a.Definitions.HandleCreateDefinition)
			r.Put("/definitions/{kind}/{id}", a.Definitions.HandleUpdateDefinition)
			r.Delete("/definitions/{kind}/{id}", a.Definitions.HandleDeleteDefinition)

			r.Post("/import/plans/{planId}", a.Imports.HandleResolvePlan)
			r.Delete("/import/plans/{planId}", a.Imports.HandleDiscardPlan)
			r.Post("/import/{kind}", a.Imports.HandleImport)

			r.Post("/payments", a.Payments.HandleCreatePayment)
			r.Put("/payments/{id}", a.Payments.HandleUpdatePayment)
			r.Delete("/payments/{id}", a.Payments.HandleDeletePayment)

			r.Post("/reminders", a.Reminders.HandleCreateReminder)
			r.Put("/reminders/{id}", a.Reminders.HandleUpdateReminder)
			r.Put("/reminders/{id}/active", a.Reminders.HandleSetActive)
			r.Delete("/reminders/{id}", a.Reminders.HandleDeleteReminder)
		})
	})
}
