package nav

import (
	"encoding/json"
	"net/http"

	"cattlecloud.net/go/dashboard"
	"cattlecloud.net/go/dashboard/middles"
	"go.uber.org/zap"
)

// Handler serves the menu of the requesting user as JSON, filtered by the
// roles of the request Session. Mount it behind Guards.RequireAuth so the
// session has been rehydrated.
type Handler struct {
	Tree    Tree
	Options []OptionFunc
	Logger  *zap.Logger
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s := middles.GetSession(r)

	items := make([]*Node, 0, len(h.Tree))
	for n := range Filter(h.Tree, s.Roles(), h.Options...) {
		items = append(items, n)
	}

	dashboard.SetContentType(w, dashboard.ContentTypeJSON)
	dashboard.SetCacheControl(w, 0)
	if err := json.NewEncoder(w).Encode(items); err != nil {
		h.logger().Warn("unable to write menu", zap.Error(err))
	}
}

func (h *Handler) logger() *zap.Logger {
	if h.Logger == nil {
		return zap.NewNop()
	}
	return h.Logger
}
