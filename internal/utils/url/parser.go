package urlutil

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidateURL checks that urlStr is an absolute http(s) URL
func ValidateURL(urlStr string) error {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("invalid URL scheme: must be http or https, got %s", parsed.Scheme)
	}

	if parsed.Host == "" {
		return fmt.Errorf("invalid URL: missing host")
	}

	return nil
}

// ResolveURL resolves a possibly-relative href against a full base URL
func ResolveURL(base, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if u.IsAbs() {
		return href
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(u).String()
}

// ResolveAgainstHost resolves href against only the scheme and host of
// current. Pagination links on review sites are either absolute or
// root-relative, so the current path is deliberately ignored.
func ResolveAgainstHost(current, href string) (string, error) {
	href = strings.TrimSpace(href)
	if href == "" {
		return "", fmt.Errorf("empty href")
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("invalid href %q: %w", href, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	cur, err := url.Parse(current)
	if err != nil {
		return "", fmt.Errorf("invalid current URL %q: %w", current, err)
	}
	if cur.Scheme == "" || cur.Host == "" {
		return "", fmt.Errorf("current URL %q is not absolute", current)
	}
	base := &url.URL{Scheme: cur.Scheme, Host: cur.Host}
	return base.ResolveReference(ref).String(), nil
}
