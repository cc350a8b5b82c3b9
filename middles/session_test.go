package middles

import (
	"testing"
	"time"

	"cattlecloud.net/go/dashboard/middles/identity"
	"github.com/shoenig/go-conceal"
	"github.com/shoenig/test/must"
	"go.uber.org/zap/zaptest"
)

func testUser() *identity.User {
	return &identity.User{
		ID:    "17",
		Name:  "Ana",
		Email: "ana@example.org",
		Roles: []string{"Colaborador", "Admin"},
	}
}

func newTestSession(t *testing.T, storage Storage) *Session {
	return NewSession(storage, zaptest.NewLogger(t))
}

func TestSession_Login(t *testing.T) {
	t.Parallel()

	storage := NewVolatileStorage(time.Hour)
	s := newTestSession(t, storage)

	err := s.Login("tok-123", testUser())
	must.NoError(t, err)

	must.True(t, s.Authenticated())
	must.Eq(t, "tok-123", s.Token().Unveil())
	must.Eq(t, "17", s.User().ID)
	must.True(t, s.HasRole("Admin"))
	must.True(t, s.HasRole("Colaborador"))

	// all three entries are persisted
	token, ok := storage.Get(KeyToken)
	must.True(t, ok)
	must.Eq(t, "tok-123", token)

	_, ok = storage.Get(KeyUser)
	must.True(t, ok)

	roles, ok := storage.Get(KeyRoles)
	must.True(t, ok)
	must.Eq(t, `["Admin","Colaborador"]`, roles)
}

func TestSession_Login_noRoles(t *testing.T) {
	t.Parallel()

	storage := NewVolatileStorage(time.Hour)
	s := newTestSession(t, storage)

	err := s.Login("tok", &identity.User{ID: "1"})
	must.NoError(t, err)
	must.True(t, s.Roles().Empty())

	roles, ok := storage.Get(KeyRoles)
	must.True(t, ok)
	must.Eq(t, `[]`, roles)
}

func TestSession_Login_preconditions(t *testing.T) {
	t.Parallel()

	storage := NewVolatileStorage(time.Hour)
	s := newTestSession(t, storage)

	must.ErrorIs(t, s.Login("", testUser()), ErrEmptyToken)
	must.ErrorIs(t, s.Login("tok", nil), ErrInvalidUser)
	must.ErrorIs(t, s.Login("tok", &identity.User{Name: "no id"}), ErrInvalidUser)

	// nothing was recorded
	must.False(t, s.Authenticated())
	_, ok := storage.Get(KeyToken)
	must.False(t, ok)
}

func TestSession_Rehydrate_afterReload(t *testing.T) {
	t.Parallel()

	tokens := []string{"a", "tok-123", "eyJhbGciOiJIUzI1NiJ9.e30.x", "ñandú token"}

	for _, token := range tokens {
		storage := NewVolatileStorage(time.Hour)

		before := newTestSession(t, storage)
		must.NoError(t, before.Login(token, testUser()))
		must.Eq(t, token, before.Token().Unveil())

		// a new session over the same storage is a page reload
		after := newTestSession(t, storage)
		must.False(t, after.Authenticated())

		after.Rehydrate()
		must.True(t, after.Authenticated())
		must.Eq(t, token, after.Token().Unveil())
		must.Eq(t, testUser(), after.User())
		must.Eq(t, []string{"Admin", "Colaborador"}, identity.Sorted(after.Roles()))
	}
}

func TestSession_Rehydrate_idempotent(t *testing.T) {
	t.Parallel()

	storage := NewVolatileStorage(time.Hour)
	must.NoError(t, newTestSession(t, storage).Login("tok", testUser()))

	s := newTestSession(t, storage)
	s.Rehydrate()
	s.Rehydrate()
	must.Eq(t, "tok", s.Token().Unveil())
	must.Eq(t, 2, s.Roles().Size())
}

func TestSession_Rehydrate_degrades(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		entries map[string]string
		authed  bool
		roles   int
	}{
		{
			name:    "empty",
			entries: map[string]string{},
		},
		{
			name:    "token without user",
			entries: map[string]string{KeyToken: "tok"},
		},
		{
			name:    "user without token",
			entries: map[string]string{KeyUser: `{"id":"1"}`},
		},
		{
			name:    "corrupt user",
			entries: map[string]string{KeyToken: "tok", KeyUser: `{"id":`},
		},
		{
			name:    "user without id",
			entries: map[string]string{KeyToken: "tok", KeyUser: `{"name":"x"}`},
		},
		{
			name:    "missing roles",
			entries: map[string]string{KeyToken: "tok", KeyUser: `{"id":"1","roles":["Admin"]}`},
			authed:  true,
			roles:   0,
		},
		{
			name:    "corrupt roles",
			entries: map[string]string{KeyToken: "tok", KeyUser: `{"id":"1"}`, KeyRoles: "nope"},
			authed:  true,
			roles:   0,
		},
		{
			name:    "complete",
			entries: map[string]string{KeyToken: "tok", KeyUser: `{"id":"1"}`, KeyRoles: `["Admin"]`},
			authed:  true,
			roles:   1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			storage := NewVolatileStorage(time.Hour)
			for k, v := range tc.entries {
				storage.Put(k, v)
			}

			s := newTestSession(t, storage)
			s.Rehydrate()

			must.Eq(t, tc.authed, s.Authenticated())
			must.Eq(t, tc.authed, s.User() != nil)
			must.Eq(t, tc.roles, s.Roles().Size())
		})
	}
}

func TestSession_Rehydrate_replacesMemory(t *testing.T) {
	t.Parallel()

	// logged in here, but another tab logged out and cleared storage
	storage := NewVolatileStorage(time.Hour)
	s := newTestSession(t, storage)
	must.NoError(t, s.Login("tok", testUser()))

	newTestSession(t, storage).Logout()

	s.Rehydrate()
	must.False(t, s.Authenticated())
	must.Nil(t, s.User())
}

func TestSession_Logout(t *testing.T) {
	t.Parallel()

	t.Run("after login", func(t *testing.T) {
		storage := NewVolatileStorage(time.Hour)
		s := newTestSession(t, storage)
		must.NoError(t, s.Login("tok", testUser()))

		s.Logout()
		must.False(t, s.Authenticated())
		must.Nil(t, s.Token())
		must.Nil(t, s.User())
		must.True(t, s.Roles().Empty())

		for _, key := range []string{KeyToken, KeyUser, KeyRoles} {
			_, ok := storage.Get(key)
			must.False(t, ok)
		}

		// a reload stays logged out
		after := newTestSession(t, storage)
		after.Rehydrate()
		must.False(t, after.Authenticated())
	})

	t.Run("never logged in", func(t *testing.T) {
		s := newTestSession(t, NewVolatileStorage(time.Hour))
		s.Logout()
		s.Logout()
		must.False(t, s.Authenticated())
		must.True(t, s.Roles().Empty())
	})
}

func TestSession_Roles_copy(t *testing.T) {
	t.Parallel()

	s := newTestSession(t, NewVolatileStorage(time.Hour))
	must.NoError(t, s.Login("tok", testUser()))

	roles := s.Roles()
	roles.Insert("Root")
	must.False(t, s.HasRole("Root"))
}

func TestSession_verified(t *testing.T) {
	t.Parallel()

	t.Run("login then reload", func(t *testing.T) {
		storage := NewVolatileStorage(time.Hour)
		rg := NewRegistry(time.Hour)
		must.NoError(t, NewVerifiedSession(storage, rg, nil).Login("tok", testUser()))

		s := NewVerifiedSession(storage, rg, zaptest.NewLogger(t))
		s.Rehydrate()
		must.True(t, s.Authenticated())
		must.Eq(t, testUser(), s.User())
	})

	t.Run("roles come from the registry", func(t *testing.T) {
		storage := NewVolatileStorage(time.Hour)
		rg := NewRegistry(time.Hour)
		u := testUser()
		u.Roles = []string{"Colaborador"}
		must.NoError(t, NewVerifiedSession(storage, rg, nil).Login("tok", u))

		storage.Put(KeyRoles, `["Admin"]`)
		storage.Put(KeyUser, `{"id":"17","roles":["Admin"]}`)

		s := NewVerifiedSession(storage, rg, zaptest.NewLogger(t))
		s.Rehydrate()
		must.True(t, s.Authenticated())
		must.False(t, s.HasRole("Admin"))
		must.True(t, s.HasRole("Colaborador"))
	})

	t.Run("unregistered token", func(t *testing.T) {
		storage := NewVolatileStorage(time.Hour)
		storage.Put(KeyToken, "anything")
		storage.Put(KeyUser, `{"id":"mallory"}`)
		storage.Put(KeyRoles, `["Admin"]`)

		s := NewVerifiedSession(storage, NewRegistry(time.Hour), zaptest.NewLogger(t))
		s.Rehydrate()
		must.False(t, s.Authenticated())
		must.True(t, s.Roles().Empty())
	})

	t.Run("nil registry trusts nothing", func(t *testing.T) {
		storage := NewVolatileStorage(time.Hour)
		must.NoError(t, NewVerifiedSession(storage, nil, nil).Login("tok", testUser()))

		s := NewVerifiedSession(storage, nil, zaptest.NewLogger(t))
		s.Rehydrate()
		must.False(t, s.Authenticated())
	})

	t.Run("logout revokes", func(t *testing.T) {
		storage := NewVolatileStorage(time.Hour)
		rg := NewRegistry(time.Hour)
		must.NoError(t, NewVerifiedSession(storage, rg, nil).Login("tok", testUser()))

		// a fresh session that never rehydrated still revokes the stored token
		NewVerifiedSession(storage, rg, nil).Logout()

		_, err := rg.Match(conceal.New("tok"), "17")
		must.ErrorIs(t, err, ErrNotFound)
	})
}
