package dashboard

import (
	"net/http"
	"strconv"
	"time"
)

// MIMEType are correct identifier strings for various MIME types.
//
// Consider using one of the pre-defined types.
type MIMEType string

const (
	ContentTypeText MIMEType = "text/plain; charset=utf8"
	ContentTypeHTML MIMEType = "text/html; charset=utf8"
	ContentTypeJSON MIMEType = "application/json; charset=utf8"
)

// SetContentType sets the Content-Type header on w to the given MIME
// compatible content type string.
func SetContentType(w http.ResponseWriter, filetype MIMEType) {
	w.Header().Set("Content-Type", string(filetype))
}

// RobotIndex are correct sentinel values for indicating whether a page
// should be indexed, as set in the X-Robots-Tag HTTP response header.
type RobotIndex string

const (
	RobotsNoIndex  RobotIndex = "noindex"
	RobotsYesIndex RobotIndex = "all"
)

// SetRobotsTag to a crawl control value (e.g. noindex)
func SetRobotsTag(w http.ResponseWriter, instruction RobotIndex) {
	w.Header().Set("X-Robots-Tag", string(instruction))
}

// SetCacheControl sets a private Cache-Control headers on w with the given
// duration, rounded to seconds.
//
// A zero ttl produces "private, max-age=0", which is what every page behind
// a session guard should carry.
func SetCacheControl(w http.ResponseWriter, ttl time.Duration) {
	i := max(int(ttl.Seconds()), 0)
	s := "private, max-age=" + strconv.Itoa(i)
	w.Header().Set("Cache-Control", s)
}
