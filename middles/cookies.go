package middles

import (
	"encoding/base64"
	"net/http"
	"time"
)

// CookieFactory is used to bake the cookies carrying one entry each of the
// persisted session record.
type CookieFactory struct {
	Secure bool
	TTL    time.Duration
	Clock  func() time.Time
}

// Create a cookie of the given name holding value.
//
// The value is base64 encoded so arbitrary JSON survives the trip through the
// cookie header.
func (cf *CookieFactory) Create(name, value string) *http.Cookie {
	// compute the future time cookie expires
	expiration := cf.now().Add(cf.TTL)

	encoded := base64.StdEncoding.EncodeToString([]byte(value))

	// create and return our delicious cookie
	return &http.Cookie{
		Name:     name,
		Value:    encoded,
		Path:     "/",
		HttpOnly: true,
		Expires:  expiration,
		SameSite: http.SameSiteLaxMode,
		Secure:   cf.Secure,
	}
}

// Expire creates a cookie of the given name that instructs the browser to
// drop it immediately.
func (cf *CookieFactory) Expire(name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		SameSite: http.SameSiteLaxMode,
		Secure:   cf.Secure,
	}
}

func (cf *CookieFactory) now() time.Time {
	if cf.Clock == nil {
		return time.Now()
	}
	return cf.Clock()
}

// CookieJar implements Storage on top of the cookies of one request, writing
// changes to the response.
//
// Writes are remembered so that a Get after a Put or Remove within the same
// request observes the change, even though the browser has not seen it yet.
type CookieJar struct {
	factory *CookieFactory
	w       http.ResponseWriter
	r       *http.Request
	pending map[string]*string
}

// NewCookieJar creates a CookieJar reading from r and writing to w.
func NewCookieJar(factory *CookieFactory, w http.ResponseWriter, r *http.Request) *CookieJar {
	return &CookieJar{
		factory: factory,
		w:       w,
		r:       r,
		pending: make(map[string]*string, 3),
	}
}

func (cj *CookieJar) Get(key string) (string, bool) {
	if value, changed := cj.pending[key]; changed {
		if value == nil {
			return "", false
		}
		return *value, true
	}

	cookie, err := cj.r.Cookie(key)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	b, err := base64.StdEncoding.DecodeString(cookie.Value)
	if err != nil {
		// not one of ours; treat as absent
		return "", false
	}
	return string(b), true
}

func (cj *CookieJar) Put(key, value string) {
	cj.pending[key] = &value
	http.SetCookie(cj.w, cj.factory.Create(key, value))
}

func (cj *CookieJar) Remove(key string) {
	cj.pending[key] = nil
	http.SetCookie(cj.w, cj.factory.Expire(key))
}
