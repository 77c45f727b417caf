package server

import (
	"net/http"
	"net/url"
)

// SameOriginCheck reports whether the WebSocket request origin matches the
// request host. Requests without an Origin header (non-browser clients) are
// accepted.
func SameOriginCheck(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if r.Host == "" {
		return false
	}
	return originURL.Host == r.Host
}

// originCheck returns SameOriginCheck, or an allow-list check when allowed
// is non-empty.
func originCheck(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 {
		return SameOriginCheck
	}

	origins := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		origins[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		return origins[origin]
	}
}
