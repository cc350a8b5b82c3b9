package middles

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// GetSession extracts the Session out of the http.Request, as installed by
// SetSession.
//
// If no session is found, an empty Session backed by throwaway storage is
// returned, so an operation requiring a session simply sees nobody logged in.
func GetSession(r *http.Request) *Session {
	value, ok := r.Context().Value(sessionContextKey).(*Session)
	if !ok {
		return NewSession(NewVolatileStorage(time.Minute), nil)
	}
	return value
}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, s)
}

type userSessionKey struct{}

var sessionContextKey = userSessionKey{}

// SetSession is middleware that gives each request its own Session, persisted
// in the cookies of the requester and verified against Registry.
//
// The Session starts out empty; it is the guards (or handlers) that decide
// whether to Rehydrate it. A nil Registry means no cookie is ever trusted.
type SetSession struct {
	Cookies  *CookieFactory
	Registry *Registry
	Logger   *zap.Logger
	Next     http.Handler
}

func (ss *SetSession) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	jar := NewCookieJar(ss.Cookies, w, r)
	s := NewVerifiedSession(jar, ss.Registry, ss.Logger)
	r2 := r.WithContext(WithSession(r.Context(), s))
	ss.Next.ServeHTTP(w, r2)
}

// Sessions returns SetSession as a middleware function, the shape routers
// such as gorilla/mux expect.
func Sessions(cookies *CookieFactory, registry *Registry, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return &SetSession{
			Cookies:  cookies,
			Registry: registry,
			Logger:   logger,
			Next:     next,
		}
	}
}
