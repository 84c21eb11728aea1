// backend/src/models/settings.go
package models

import "time"

type UserSettings struct {
	Username          string    `json:"username"`
	CalendarTheme     string    `json:"calendarTheme"`
	CardExpiryMonths  int       `json:"cardExpiryMonths"`
	ShowReminderBadge bool      `json:"showReminderBadge"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

// DefaultUserSettings is returned for users who never saved settings.
func DefaultUserSettings(username string, cardExpiryMonths int) UserSettings {
	return UserSettings{
		Username:          username,
		CalendarTheme:     "indigo",
		CardExpiryMonths:  cardExpiryMonths,
		ShowReminderBadge: true,
	}
}

// ActivityLog records who changed what.
type ActivityLog struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
}
