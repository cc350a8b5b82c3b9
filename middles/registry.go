package middles

import (
	"encoding/json"
	"errors"
	"time"

	"cattlecloud.net/go/dashboard/middles/identity"
	"github.com/shoenig/go-conceal"
)

var (
	// ErrNotFound indicates the session token is not one this server issued,
	// or it has since expired or been revoked.
	ErrNotFound = errors.New("session: not found")

	// ErrNotMatch indicates the stored session does not match the user claimed
	// by the request, likely indicating a malicious user fudging a cookie.
	ErrNotMatch = errors.New("session: not a match")
)

// Registry remembers, server side, which user each session token was issued
// to. Cookies are editable by the client; the Registry is not, so the identity
// and roles of a rehydrated session are taken from here.
//
// Entries live in a VolatileStorage, so a process restart logs everybody out.
type Registry struct {
	cache *VolatileStorage
}

// NewRegistry creates an empty Registry whose entries expire after ttl.
func NewRegistry(ttl time.Duration) *Registry {
	return &Registry{
		cache: NewVolatileStorage(ttl),
	}
}

// Register records token as belonging to user.
func (rg *Registry) Register(token *conceal.Text, user *identity.User) error {
	b, err := json.Marshal(user)
	if err != nil {
		return err
	}
	rg.cache.Put(token.Unveil(), string(b))
	return nil
}

// Match returns the user token was issued to, provided that is the user with
// the given id.
func (rg *Registry) Match(token *conceal.Text, id string) (*identity.User, error) {
	raw, exists := rg.cache.Get(token.Unveil())
	if !exists {
		return nil, ErrNotFound
	}

	user := new(identity.User)
	if err := json.Unmarshal([]byte(raw), user); err != nil {
		return nil, ErrNotFound
	}

	if user.ID != id {
		return nil, ErrNotMatch
	}

	return user, nil
}

// Revoke forgets token; later matches fail with ErrNotFound.
func (rg *Registry) Revoke(token *conceal.Text) {
	rg.cache.Remove(token.Unveil())
}
