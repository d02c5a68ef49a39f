package auth

import (
	"net/url"
	"strings"
)

const DefaultLandingPath = "/account/orders"

// SafeRedirect resolves a post-login callback against baseURL. Relative
// paths and same-origin URLs are kept, anything else lands on the orders page.
func SafeRedirect(callback, baseURL string) string {
	base := strings.TrimRight(baseURL, "/")
	fallback := base + DefaultLandingPath

	if callback == "" || callback == "/" {
		return fallback
	}
	if strings.HasPrefix(callback, "/") && !strings.HasPrefix(callback, "//") && !strings.HasPrefix(callback, "/\\") {
		return base + callback
	}

	u, err := url.Parse(callback)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fallback
	}
	b, err := url.Parse(base)
	if err != nil {
		return fallback
	}
	if strings.EqualFold(u.Scheme, b.Scheme) && strings.EqualFold(u.Host, b.Host) {
		return callback
	}
	return fallback
}
