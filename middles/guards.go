package middles

import (
	"net/http"

	"cattlecloud.net/go/dashboard"
	"cattlecloud.net/go/dashboard/middles/identity"
	"go.uber.org/zap"
)

const (
	DefaultLoginPath   = "/login"
	DefaultLandingPath = "/second-page"
)

// Decision is the outcome of a guard: either let the request through, or
// send the user somewhere else.
type Decision struct {
	Allow    bool
	Redirect string
}

// Allowed is the Decision letting a request proceed.
var Allowed = Decision{Allow: true}

// RedirectTo is the Decision sending the user to location.
func RedirectTo(location string) Decision {
	return Decision{Redirect: location}
}

// Guards decide, before a page is rendered, whether the user may see it.
//
// The zero value is usable; empty paths fall back to DefaultLoginPath and
// DefaultLandingPath.
type Guards struct {
	// LoginPath is where unauthenticated users are sent.
	LoginPath string

	// LandingPath is where authenticated users visiting the login page are
	// sent.
	LandingPath string

	// RememberTarget adds the originally requested path as ?next= when
	// redirecting to the login page.
	RememberTarget bool

	// IsClient reports whether the request comes from an interactive browser.
	// The login page guard does nothing for anything else (crawlers and
	// prerender services). Defaults to checking the user agent.
	IsClient func(*http.Request) bool

	Logger *zap.Logger
}

func (g *Guards) loginPath() string {
	if g.LoginPath == "" {
		return DefaultLoginPath
	}
	return g.LoginPath
}

func (g *Guards) landingPath() string {
	if g.LandingPath == "" {
		return DefaultLandingPath
	}
	return g.LandingPath
}

func (g *Guards) logger() *zap.Logger {
	if g.Logger == nil {
		return zap.NewNop()
	}
	return g.Logger
}

func (g *Guards) isClient(r *http.Request) bool {
	if g.IsClient == nil {
		return dashboard.Origins(r).Browser()
	}
	return g.IsClient(r)
}

// Authenticate is the decision behind RequireAuth. If s holds no token it is
// rehydrated once; if there is still no token the user is sent to the login
// page.
func (g *Guards) Authenticate(s *Session) Decision {
	if !s.Authenticated() {
		s.Rehydrate()
	}

	if !s.Authenticated() {
		return RedirectTo(g.loginPath())
	}

	return Allowed
}

// Anonymous is the decision behind RedirectIfAuthenticated, guarding the
// login page itself. A browser whose session rehydrates to a token is sent
// to the landing page.
func (g *Guards) Anonymous(r *http.Request, s *Session) Decision {
	if !g.isClient(r) {
		return Allowed
	}

	s.Rehydrate()

	if s.Authenticated() {
		return RedirectTo(g.landingPath())
	}

	return Allowed
}

// RequireAuth wraps next so that only requests with a session reach it.
func (g *Guards) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := GetSession(r)
		decision := g.Authenticate(s)

		if !decision.Allow {
			location := decision.Redirect
			if g.RememberTarget {
				params := map[string]string{"next": r.URL.RequestURI()}
				location = dashboard.CreateURL("", location, params).String()
			}
			g.logger().Debug("guard redirect to login",
				zap.String("path", r.URL.Path),
				zap.Stringer("origin", dashboard.Origins(r)),
			)
			http.Redirect(w, r, location, http.StatusFound)
			return
		}

		// pages behind a session must never be cached or indexed
		dashboard.SetCacheControl(w, 0)
		dashboard.SetRobotsTag(w, dashboard.RobotsNoIndex)
		next.ServeHTTP(w, r)
	})
}

// RedirectIfAuthenticated wraps the login page so that users who already
// have a session are sent to the landing page instead.
func (g *Guards) RedirectIfAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := GetSession(r)
		decision := g.Anonymous(r, s)

		if !decision.Allow {
			g.logger().Debug("guard redirect to landing",
				zap.String("user", s.User().ID),
			)
			http.Redirect(w, r, decision.Redirect, http.StatusFound)
			return
		}

		dashboard.SetCacheControl(w, 0)
		next.ServeHTTP(w, r)
	})
}

// RequireRoles wraps next so that only sessions holding at least one of roles
// reach it; others get 403 Forbidden. Unauthenticated requests are handled as
// in RequireAuth.
func (g *Guards) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		permitted := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := GetSession(r)
			if !identity.Intersects(s.Roles(), roles) {
				g.logger().Debug("guard forbids role",
					zap.String("path", r.URL.Path),
					zap.String("user", s.User().ID),
					zap.Strings("need", roles),
				)
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
		return g.RequireAuth(permitted)
	}
}
