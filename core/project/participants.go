package project

// SelectParticipants returns the users whose id is one of keys.
// The order of users is kept; unknown keys are ignored.
func SelectParticipants(users []Participant, keys []string) []Participant {
	selected := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		selected[key] = struct{}{}
	}
	out := make([]Participant, 0, len(keys))
	for _, usr := range users {
		if _, ok := selected[usr.UserID]; ok {
			out = append(out, usr)
		}
	}
	return out
}

// ValidRole reports whether role is one of the catalog's project roles.
func ValidRole(roles []string, role string) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
