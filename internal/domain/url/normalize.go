// Package url provides URL parsing and classification for the browser shell.
package url

import (
	"net/url"
	"strings"
)

var knownSchemes = []string{"http://", "https://", "file://", "about:", "chrome://", "data:"}

func hasKnownScheme(input string) bool {
	for _, scheme := range knownSchemes {
		if strings.HasPrefix(input, scheme) {
			return true
		}
	}
	return false
}

// Normalize adds an https:// prefix for URL-like inputs.
// Returns the input unchanged if it already has a scheme or doesn't look like a URL.
func Normalize(input string) string {
	if input == "" || hasKnownScheme(input) {
		return input
	}
	if isLocalhost(input) {
		return "http://" + input
	}
	if strings.Contains(input, ".") && !strings.Contains(input, " ") {
		return "https://" + input
	}
	return input
}

// LooksLikeURL checks if the input appears to be a URL rather than a search query.
func LooksLikeURL(input string) bool {
	if input == "" {
		return false
	}
	if hasKnownScheme(input) || isLocalhost(input) {
		return true
	}
	return strings.Contains(input, ".") && !strings.Contains(input, " ")
}

func isLocalhost(input string) bool {
	return input == "localhost" || strings.HasPrefix(input, "localhost:") || strings.HasPrefix(input, "localhost/")
}

// ExtractDomain extracts the host from a URL string, without a "www." prefix.
func ExtractDomain(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return strings.TrimPrefix(parsed.Host, "www.")
}

// SameDocument reports whether a and b address the same document once both
// are in the canonical form the browser reports: lowercase scheme and host,
// no default port, "/" for an empty path and no fragment.
func SameDocument(a, b string) bool {
	return canonical(a) == canonical(b)
}

func canonical(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Opaque != "" {
		return raw
	}
	u.Scheme = strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Hostname())
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	switch port := u.Port(); {
	case port == "", u.Scheme == "http" && port == "80", u.Scheme == "https" && port == "443":
		u.Host = host
	default:
		u.Host = host + ":" + port
	}
	if u.Host != "" && u.Path == "" {
		u.Path = "/"
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}
