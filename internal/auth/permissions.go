package auth

import "eventix_backend/internal/models"

// HasAnyRole is the membership test used by route guards: true when any of
// have is in want.
func HasAnyRole(have []string, want ...models.UserRole) bool {
	for _, h := range have {
		for _, w := range want {
			if models.UserRole(h) == w {
				return true
			}
		}
	}
	return false
}

// IsAdmin reports whether roles include admin.
func IsAdmin(roles []string) bool {
	return HasAnyRole(roles, models.UserRoleAdmin)
}
