package dashboard

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/mileusna/useragent"
)

// Origin contains request origination context from parsing request headers.
type Origin struct {
	Method    string
	Host      string
	Forward   string
	Reference string
	UserAgent useragent.UserAgent
}

// From returns a parsed version of the Referer headers, including the domain
// and path without the protocol or query.
func (o *Origin) From() string {
	if o.Reference == "" {
		return "-"
	}

	u, _ := url.Parse(o.Reference)
	return u.Host + u.Path
}

// Browser reports whether the request appears to come from an interactive
// web browser, as opposed to a crawler, a prerender service, or a bare HTTP
// client with no recognizable user agent.
func (o *Origin) Browser() bool {
	ua := o.UserAgent
	switch {
	case ua.Bot:
		return false
	case ua.Desktop, ua.Mobile, ua.Tablet:
		return true
	default:
		return false
	}
}

// String returns the parsed user agent, including only the name and type of
// device being used (or bot).
func (o *Origin) String() string {
	var mode string
	switch {
	case o.UserAgent.Bot:
		mode = "bot"
	case o.UserAgent.Mobile:
		mode = "phone"
	case o.UserAgent.Tablet:
		mode = "tablet"
	case o.UserAgent.Desktop:
		mode = "desktop"
	default:
		mode = "unknown"
	}
	return o.UserAgent.Name + "/" + mode
}

// Origins parses the request headers to get information about the origins of
// the request, including ...
//
// - Host
// - X-Forwarded-For
// - Referer
// - User-Agent
func Origins(r *http.Request) *Origin {
	method := strings.ToUpper(r.Method)
	reference := r.Header.Get("Referer")
	forward := r.Header.Get("X-Forwarded-For")
	agent := r.Header.Get("User-Agent")
	ua := useragent.Parse(agent)
	return &Origin{
		Method:    method,
		Host:      r.Host,
		Forward:   forward,
		Reference: reference,
		UserAgent: ua,
	}
}
