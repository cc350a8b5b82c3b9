package main

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"cattlecloud.net/go/dashboard/middles"
	"cattlecloud.net/go/dashboard/middles/identity"
	"github.com/shoenig/go-conceal"
)

// accounts authenticates against the accounts listed in the config file. It
// stands in for the backend auth service during development.
//
// Usernames are case insensitive; the config loader lowercases them.
type accounts map[string]account

func (a accounts) Authenticate(r *http.Request) (string, *identity.User, error) {
	username := strings.ToLower(strings.TrimSpace(r.PostFormValue("username")))
	password := r.PostFormValue("password")

	acct, exists := a[username]
	if !exists || username == "" || acct.Password == "" {
		return "", nil, middles.ErrBadCredentials
	}

	if subtle.ConstantTimeCompare([]byte(acct.Password), []byte(password)) != 1 {
		return "", nil, middles.ErrBadCredentials
	}

	user := &identity.User{
		ID:    username,
		Name:  acct.Name,
		Email: acct.Email,
		Roles: acct.Roles,
	}

	return conceal.UUIDv4().Unveil(), user, nil
}
