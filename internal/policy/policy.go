// Package policy centralizes the role/department permission rules that the
// page handlers mirror for UX. Server-side enforcement happens in the
// handlers through these same functions.
package policy

import "github.com/stocknexus/stocknexus/internal/domain"

// CanManage reports whether a user may mutate inventory, services or
// alerts scoped to targetDept. Admins manage every department, HODs only
// their own, staff are read-only.
func CanManage(role, userDept, targetDept string) bool {
	switch role {
	case domain.RoleAdmin:
		return true
	case domain.RoleHod:
		return userDept != "" && userDept == targetDept
	default:
		return false
	}
}

// CanLogin reports whether an account may open a session. Admins bypass
// the approval gate: the bootstrap admin cannot self-approve.
func CanLogin(role string, approved bool) bool {
	if role == domain.RoleAdmin {
		return true
	}
	return approved
}

// CanResolveAlerts reports whether a role may resolve stock alerts.
func CanResolveAlerts(role string) bool {
	return role == domain.RoleAdmin
}

// CanReviewRegistrations reports whether a role may approve or reject
// registration requests.
func CanReviewRegistrations(role string) bool {
	return role == domain.RoleAdmin
}
