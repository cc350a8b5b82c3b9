package middles

import (
	"errors"
	"net/http"

	"cattlecloud.net/go/dashboard"
	"cattlecloud.net/go/dashboard/middles/identity"
	"go.uber.org/zap"
)

// ErrBadCredentials is what an Authenticator returns when it does not
// recognize the user.
var ErrBadCredentials = errors.New("session: bad credentials")

// Authenticator establishes who is logging in, typically by asking a backend
// auth service. It returns the session token and identity to keep.
type Authenticator interface {
	Authenticate(*http.Request) (string, *identity.User, error)
}

// AuthenticatorFunc adapts a function to the Authenticator interface.
type AuthenticatorFunc func(*http.Request) (string, *identity.User, error)

func (f AuthenticatorFunc) Authenticate(r *http.Request) (string, *identity.User, error) {
	return f(r)
}

// LoginHandler handles the submission of the login form.
//
// On success the session is stored and the user redirected to the (local)
// path in the "next" form value, or to the landing page. On failure the user
// is sent back to the login page with ?error=1.
type LoginHandler struct {
	Guards        *Guards
	Authenticator Authenticator
	Logger        *zap.Logger
}

func (lh *LoginHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := lh.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	failed := func(err error) {
		logger.Info("login failed",
			zap.Stringer("origin", dashboard.Origins(r)),
			zap.Error(err),
		)
		location := dashboard.CreateURL("", lh.Guards.loginPath(), map[string]string{"error": "1"})
		http.Redirect(w, r, location.String(), http.StatusSeeOther)
	}

	token, user, err := lh.Authenticator.Authenticate(r)
	if err != nil {
		failed(err)
		return
	}

	s := GetSession(r)
	if err := s.Login(token, user); err != nil {
		failed(err)
		return
	}

	logger.Info("login", zap.String("user", user.ID))

	target := dashboard.LocalPath(r.FormValue("next"), lh.Guards.landingPath())
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// LogoutHandler clears the session and sends the user to the login page.
type LogoutHandler struct {
	Guards *Guards
}

func (lh *LogoutHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s := GetSession(r)
	s.Logout()
	http.Redirect(w, r, lh.Guards.loginPath(), http.StatusSeeOther)
}
