package main

import (
	"fmt"
	"html"
	"net/http"
	"strings"

	"cattlecloud.net/go/dashboard"
	"cattlecloud.net/go/dashboard/middles"
	"cattlecloud.net/go/dashboard/nav"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const loginForm = `<!doctype html>
<title>Iniciar sesión</title>
%s<form method="post" action="%s">
  <input type="hidden" name="next" value="%s">
  <input name="username" placeholder="usuario">
  <input name="password" type="password" placeholder="contraseña">
  <button>Entrar</button>
</form>
`

func newRouter(c *config, tree nav.Tree, logger *zap.Logger) http.Handler {
	cookies := &middles.CookieFactory{
		Secure: c.SecureCookies,
		TTL:    c.CookieTTL,
	}

	registry := middles.NewRegistry(c.CookieTTL)

	guards := &middles.Guards{
		LoginPath:      c.LoginPath,
		LandingPath:    c.LandingPath,
		RememberTarget: c.RememberTarget,
		Logger:         logger,
	}

	router := mux.NewRouter()
	router.Use(middles.Sessions(cookies, registry, logger))

	router.Handle(c.LoginPath, guards.RedirectIfAuthenticated(loginPage(c.LoginPath))).
		Methods(http.MethodGet)

	router.Handle(c.LoginPath, &middles.LoginHandler{
		Guards:        guards,
		Authenticator: accounts(c.Accounts),
		Logger:        logger,
	}).Methods(http.MethodPost)

	router.Handle("/logout", &middles.LogoutHandler{Guards: guards}).
		Methods(http.MethodGet, http.MethodPost)

	protected := router.NewRoute().Subrouter()
	protected.Use(guards.RequireAuth)

	protected.Handle("/api/navigation", &nav.Handler{
		Tree:    tree,
		Options: c.menuOptions(),
		Logger:  logger,
	}).Methods(http.MethodGet)

	protected.PathPrefix("/").Handler(page()).Methods(http.MethodGet)

	return router
}

func loginPage(action string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var notice string
		if r.URL.Query().Get("error") != "" {
			notice = "<p>Usuario o contraseña incorrectos.</p>\n"
		}
		next := dashboard.LocalPath(r.URL.Query().Get("next"), "")

		dashboard.SetContentType(w, dashboard.ContentTypeHTML)
		_, _ = fmt.Fprintf(w, loginForm, notice, html.EscapeString(action), html.EscapeString(next))
	})
}

// page is a placeholder for the dashboard views, which are rendered by the
// front end; it only confirms who is signed in.
func page() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s := middles.GetSession(r)
		user := s.User()

		dashboard.SetContentType(w, dashboard.ContentTypeText)
		_, _ = fmt.Fprintf(w, "%s (%s) %s\n",
			user.ID,
			strings.Join(user.Roles, ","),
			r.URL.Path,
		)
	})
}
