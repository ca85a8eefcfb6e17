package headers

import (
	"fmt"
	"net/http"
	"strings"
)

// DefaultBrowserUserAgent is a current desktop Chrome user agent
const DefaultBrowserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Browser returns the header set a desktop browser sends for a top-level
// navigation. Accept-Encoding is left to net/http so that gzip responses are
// decoded transparently.
func Browser(userAgent string) http.Header {
	if userAgent == "" {
		userAgent = DefaultBrowserUserAgent
	}
	h := make(http.Header)
	h.Set("User-Agent", userAgent)
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", "en-US,en;q=0.5")
	h.Set("Connection", "keep-alive")
	h.Set("Upgrade-Insecure-Requests", "1")
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-Site", "none")
	h.Set("Cache-Control", "max-age=0")
	return h
}

// Parse converts "Key: Value" strings into headers.
func Parse(h []string) (http.Header, error) {
	out := make(http.Header)
	for _, hdr := range h {
		key, value, ok := strings.Cut(hdr, ":")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid header %q: expected \"Key: Value\"", hdr)
		}
		out.Add(key, strings.TrimSpace(value))
	}
	return out, nil
}

// Merge returns base with every value of extra replacing same-named keys
func Merge(base, extra http.Header) http.Header {
	out := base.Clone()
	if out == nil {
		out = make(http.Header)
	}
	for key, values := range extra {
		out.Del(key)
		for _, v := range values {
			out.Add(key, v)
		}
	}
	return out
}
