package domain

// IsAllowed reports whether role is one of required. Unknown roles are never
// allowed.
func IsAllowed(role Role, required ...Role) bool {
	if !role.Valid() {
		return false
	}
	for _, r := range required {
		if r == role {
			return true
		}
	}
	return false
}
