// backend/src/handlers/user_handler.go
package handlers

import (
	"net/http"

	"github.com/username/finansdefter/backend/src/security"
	"github.com/username/finansdefter/backend/src/utils"
)

type UserHandler struct {
	authService *security.AuthService
}

func NewUserHandler(authService *security.AuthService) *UserHandler {
	return &UserHandler{authService: authService}
}

type currentUser struct {
	Username string `json:"username"`
	Role     string `json:"role"`
	CanEdit  bool   `json:"canEdit"`
	IsAdmin  bool   `json:"isAdmin"`
}

// HandleGetCurrentUser tells the client who the token belongs to and what it may do.
func (h *UserHandler) HandleGetCurrentUser(w http.ResponseWriter, r *http.Request) {
	username, ok := GetUsernameFromContext(r.Context())
	if !ok {
		utils.SendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}
	role := GetRoleFromContext(r.Context())
	utils.SendJSON(w, currentUser{
		Username: username,
		Role:     role,
		CanEdit:  security.CanEdit(role),
		IsAdmin:  security.IsAdmin(role),
	}, http.StatusOK)
}
