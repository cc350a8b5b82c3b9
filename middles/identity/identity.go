package identity

import (
	"slices"

	"github.com/hashicorp/go-set/v3"
)

// User is the identity record of a signed in dashboard user, as handed over by
// whatever authenticates the user. It is persisted verbatim (as JSON) in the
// user cookie.
type User struct {
	ID    string   `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email,omitempty"`
	Roles []string `json:"roles,omitempty"`
}

// RoleSet returns the roles of u as a set; a nil user has no roles.
func (u *User) RoleSet() *set.Set[string] {
	if u == nil {
		return set.New[string](0)
	}
	return set.From(u.Roles)
}

// Valid reports whether u identifies somebody.
func (u *User) Valid() bool {
	return u != nil && u.ID != ""
}

// Sorted returns the elements of roles in a deterministic order, which is the
// form used when persisting or displaying a role set.
func Sorted(roles *set.Set[string]) []string {
	if roles == nil {
		return []string{}
	}
	s := roles.Slice()
	slices.Sort(s)
	return s
}

// Intersects reports whether any role in allowed is held in roles.
func Intersects(roles *set.Set[string], allowed []string) bool {
	if roles == nil {
		return false
	}
	for _, role := range allowed {
		if roles.Contains(role) {
			return true
		}
	}
	return false
}
