package dashboard

import (
	"net/url"
	"strings"
)

// CreateURL creates a *url.URL from the given origin, path, and request
// parameters that has been properly encoded and formatted.
//
// An empty origin produces a host-relative URL, suitable for use as the
// Location of a redirect within the same site.
//
// resource url must be valid; an invalid url will panic.
func CreateURL(origin, path string, params map[string]string) *url.URL {
	u, err := url.Parse(origin)
	if err != nil {
		// incoming resource URL should be known at compile time.
		panic("web: cannot parse url " + origin)
	}

	// Set the URL path
	u.Path = path

	// set the query parameters
	query := make(url.Values, len(params))
	for k, v := range params {
		query.Add(k, v)
	}
	u.RawQuery = query.Encode()
	return u
}

// LocalPath returns target if it is a path on this site, otherwise fallback.
//
// Used to vet user supplied redirect targets (e.g. ?next=) so that a login
// flow cannot be used to bounce a user to another origin.
func LocalPath(target, fallback string) string {
	if !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return fallback
	}

	// browsers treat backslashes like forward slashes
	if strings.Contains(target, `\`) {
		return fallback
	}

	u, err := url.Parse(target)
	if err != nil || u.Scheme != "" || u.Host != "" {
		return fallback
	}

	return target
}
