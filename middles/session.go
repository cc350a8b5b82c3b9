package middles

import (
	"encoding/json"
	"errors"
	"fmt"

	"cattlecloud.net/go/dashboard/middles/identity"
	"github.com/hashicorp/go-set/v3"
	"github.com/shoenig/go-conceal"
	"go.uber.org/zap"
)

var (
	// ErrEmptyToken indicates an attempt to log in without a session token.
	ErrEmptyToken = errors.New("session: token is empty")

	// ErrInvalidUser indicates an attempt to log in without a user identity,
	// or with one that does not identify anybody.
	ErrInvalidUser = errors.New("session: user is not valid")
)

// Session is the authentication state of the current user: an opaque token,
// the user identity, and the user's roles.
//
// The in-memory state is mirrored into a Storage so it can be recovered on a
// later request (see Rehydrate). A Session is owned by whoever created it,
// typically the SetSession middleware for the lifetime of one request, and is
// not safe for concurrent use.
type Session struct {
	storage  Storage
	registry *Registry
	logger   *zap.Logger

	token *conceal.Text
	user  *identity.User
	roles *set.Set[string]
}

// NewSession creates an empty (unauthenticated) Session backed by storage.
//
// Whatever storage holds is believed on Rehydrate, so storage must not be
// under the control of the user (e.g. a VolatileStorage). For cookies, use
// NewVerifiedSession.
func NewSession(storage Storage, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Session{
		storage: storage,
		logger:  logger,
		roles:   set.New[string](0),
	}
}

// NewVerifiedSession creates an empty Session backed by storage whose tokens
// are checked against registry. Login registers the token; Rehydrate only
// accepts a token the registry knows for the stored user, and takes the user
// and roles from the registry rather than from storage.
//
// A nil registry keeps no tokens, so nothing rehydrates.
func NewVerifiedSession(storage Storage, registry *Registry, logger *zap.Logger) *Session {
	if registry == nil {
		// entries are expired the moment they are written
		registry = NewRegistry(-1)
	}
	s := NewSession(storage, logger)
	s.registry = registry
	return s
}

// Login records token and user as the current session, and writes all three
// entries of the session record to storage.
//
// The token is not checked for authenticity; that is the job of whatever
// handed it over (see Authenticator).
func (s *Session) Login(token string, user *identity.User) error {
	switch {
	case token == "":
		return ErrEmptyToken
	case !user.Valid():
		return ErrInvalidUser
	}

	roles := user.RoleSet()

	userJSON, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("session: unable to encode user: %w", err)
	}

	rolesJSON, err := json.Marshal(identity.Sorted(roles))
	if err != nil {
		return fmt.Errorf("session: unable to encode roles: %w", err)
	}

	s.token = conceal.New(token)
	s.user = user
	s.roles = roles

	if s.registry != nil {
		if err := s.registry.Register(s.token, user); err != nil {
			s.reset()
			return fmt.Errorf("session: unable to register token: %w", err)
		}
	}

	s.storage.Put(KeyToken, token)
	s.storage.Put(KeyUser, string(userJSON))
	s.storage.Put(KeyRoles, string(rolesJSON))

	s.logger.Debug("session login",
		zap.String("user", user.ID),
		zap.Strings("roles", identity.Sorted(roles)),
	)
	return nil
}

// Logout clears the session in memory and in storage. Calling Logout on an
// unauthenticated session is harmless.
func (s *Session) Logout() {
	if s.user != nil {
		s.logger.Debug("session logout", zap.String("user", s.user.ID))
	}

	if s.registry != nil {
		if s.token != nil {
			s.registry.Revoke(s.token)
		}
		if token, exists := s.storage.Get(KeyToken); exists {
			s.registry.Revoke(conceal.New(token))
		}
	}

	s.reset()

	s.storage.Remove(KeyToken)
	s.storage.Remove(KeyUser)
	s.storage.Remove(KeyRoles)
}

// Rehydrate replaces the in-memory session with whatever is in storage.
//
// The token and user entries are read as a unit: if either is missing, or the
// user entry cannot be decoded, the session becomes unauthenticated. A missing
// or unreadable roles entry yields an empty role set. Without a Registry,
// Rehydrate does not judge whether the token is still good.
func (s *Session) Rehydrate() {
	token, hasToken := s.storage.Get(KeyToken)
	rawUser, hasUser := s.storage.Get(KeyUser)

	if !hasToken || !hasUser || token == "" {
		if hasToken != hasUser {
			s.logger.Debug("session record is partial",
				zap.Bool("token", hasToken),
				zap.Bool("user", hasUser),
			)
		}
		s.reset()
		return
	}

	user := new(identity.User)
	if err := json.Unmarshal([]byte(rawUser), user); err != nil || !user.Valid() {
		s.logger.Debug("session user entry is unreadable", zap.Error(err))
		s.reset()
		return
	}

	if s.registry != nil {
		s.verify(token, user)
		return
	}

	var roles []string
	if rawRoles, exists := s.storage.Get(KeyRoles); exists {
		if err := json.Unmarshal([]byte(rawRoles), &roles); err != nil {
			s.logger.Debug("session roles entry is unreadable", zap.Error(err))
			roles = nil
		}
	}

	s.token = conceal.New(token)
	s.user = user
	s.roles = set.From(roles)
}

// verify completes Rehydrate against the registry, which is the authority on
// who the token belongs to and what roles they hold.
func (s *Session) verify(token string, claimed *identity.User) {
	secret := conceal.New(token)

	user, err := s.registry.Match(secret, claimed.ID)
	if err != nil {
		s.logger.Debug("session token rejected",
			zap.String("user", claimed.ID),
			zap.Error(err),
		)
		s.reset()
		return
	}

	s.token = secret
	s.user = user
	s.roles = user.RoleSet()
}

func (s *Session) reset() {
	s.token = nil
	s.user = nil
	s.roles = set.New[string](0)
}

// Authenticated reports whether the session currently holds a token.
func (s *Session) Authenticated() bool {
	return s.token != nil
}

// Token returns the session token, or nil if there is none.
func (s *Session) Token() *conceal.Text {
	return s.token
}

// User returns the identity of the session user, or nil if there is none.
func (s *Session) User() *identity.User {
	return s.user
}

// Roles returns a copy of the role set of the session.
func (s *Session) Roles() *set.Set[string] {
	return set.From(s.roles.Slice())
}

// HasRole reports whether the session user holds role.
func (s *Session) HasRole(role string) bool {
	return s.roles.Contains(role)
}
