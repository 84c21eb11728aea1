package security

const (
	RoleSuperAdmin = "superadmin"
	RoleAdmin      = "admin"
	RoleEditor     = "editor"
	RoleViewer     = "viewer"
)

func IsKnownRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleEditor, RoleViewer:
		return true
	}
	return false
}

// CanEdit reports whether role may create, change, delete or import records.
func CanEdit(role string) bool {
	return role == RoleSuperAdmin || role == RoleAdmin || role == RoleEditor
}

// IsAdmin reports whether role sees admin-only payments and the activity log.
func IsAdmin(role string) bool {
	return role == RoleSuperAdmin || role == RoleAdmin
}
