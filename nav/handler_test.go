package nav

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"cattlecloud.net/go/dashboard/middles"
	"cattlecloud.net/go/dashboard/middles/identity"
	"github.com/shoenig/test/must"
	"go.uber.org/zap/zaptest"
)

func requestAs(t *testing.T, user *identity.User) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/navigation", nil)
	s := middles.NewSession(middles.NewVolatileStorage(time.Hour), zaptest.NewLogger(t))
	if user != nil {
		must.NoError(t, s.Login("tok", user))
	}
	return r.WithContext(middles.WithSession(r.Context(), s))
}

func TestHandler(t *testing.T) {
	t.Parallel()

	h := &Handler{
		Tree:   adminTree(),
		Logger: zaptest.NewLogger(t),
	}

	t.Run("admin", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, requestAs(t, &identity.User{ID: "1", Roles: []string{"Admin"}}))

		must.Eq(t, http.StatusOK, w.Code)
		must.Eq(t, "application/json; charset=utf8", w.Header().Get("Content-Type"))

		var items []*Node
		must.NoError(t, json.NewDecoder(w.Body).Decode(&items))
		must.SliceLen(t, 3, items)
		must.Eq(t, "Usuarios", items[1].Title)
	})

	t.Run("colaborador", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, requestAs(t, &identity.User{ID: "2", Roles: []string{"Colaborador"}}))

		var items []*Node
		must.NoError(t, json.NewDecoder(w.Body).Decode(&items))
		must.SliceLen(t, 2, items)
		must.Eq(t, "Home", items[0].Title)
		must.Eq(t, "Reportes", items[1].Title)
	})

	t.Run("everything hidden", func(t *testing.T) {
		h2 := &Handler{
			Tree:    Tree{{Title: "Usuarios", Roles: []string{"Admin"}}},
			Options: []OptionFunc{SetInherit(true)},
		}
		w := httptest.NewRecorder()
		h2.ServeHTTP(w, requestAs(t, nil))
		must.Eq(t, "[]\n", w.Body.String())
	})
}

// brokenWriter fails every write, as when the client has gone away
type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (brokenWriter) Write([]byte) (int, error) {
	return 0, http.ErrHandlerTimeout
}

func TestHandler_writeFailsWithoutLogger(t *testing.T) {
	t.Parallel()

	h := &Handler{Tree: Default()}
	w := brokenWriter{httptest.NewRecorder()}

	// with no Logger set the failed write is logged to a no-op logger
	h.ServeHTTP(w, requestAs(t, nil))
	must.Eq(t, "application/json; charset=utf8", w.Header().Get("Content-Type"))
}
