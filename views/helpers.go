package views

import (
	"net/url"
	"strings"

	"github.com/eringen/gallerydesk/api"
)

// PathEscape wraps url.PathEscape for use in templates.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// FileIDPath returns the path segment addressing a file id. A missing id
// becomes "undefined", which the handlers reject without a backend call.
func FileIDPath(id string) string {
	if strings.TrimSpace(id) == "" {
		return "undefined"
	}
	return url.PathEscape(id)
}

// FormatTime renders an upload time, empty when it is unknown.
func FormatTime(t api.Timestamp) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}

// AdminURL builds an /admin/ link that keeps the uploader filter. kv are
// extra query pairs.
func AdminURL(user string, kv ...string) string {
	q := url.Values{}
	if user != "" {
		q.Set("user", user)
	}
	for i := 0; i+1 < len(kv); i += 2 {
		q.Set(kv[i], kv[i+1])
	}
	if len(q) == 0 {
		return "/admin/"
	}
	return "/admin/?" + q.Encode()
}
