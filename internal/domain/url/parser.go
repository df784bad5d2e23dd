package url

import (
	"net/url"
	"strings"
)

// DefaultSearchURL is used for inputs that do not look like URLs.
const DefaultSearchURL = "https://duckduckgo.com/?q=%s"

// Parser turns user input into navigable URLs and classifies them.
// AppOrigin is the origin the reserved pages are served from.
type Parser struct {
	AppOrigin string
	SearchURL string
}

// NewParser creates a parser for the given application origin.
func NewParser(appOrigin string) *Parser {
	return &Parser{
		AppOrigin: strings.TrimSuffix(appOrigin, "/"),
		SearchURL: DefaultSearchURL,
	}
}

// Parse resolves input to a URL. Empty input yields about:blank, URL-like
// input is normalized and anything else becomes a search.
func (p *Parser) Parse(input string) string {
	input = strings.TrimSpace(input)
	switch {
	case input == "":
		return "about:blank"
	case LooksLikeURL(input):
		return Normalize(input)
	case p.SearchURL != "":
		return strings.Replace(p.SearchURL, "%s", url.QueryEscape(input), 1)
	default:
		return input
	}
}

// PrettyURL shortens a URL for display: no scheme, no "www.", no trailing
// slash. Reserved pages and opaque URLs are returned as-is.
func (p *Parser) PrettyURL(rawURL string) string {
	if rawURL == "" || p.IsInternal(rawURL) {
		return rawURL
	}
	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return rawURL
	}
	pretty := strings.TrimPrefix(parsed.Host, "www.") + parsed.EscapedPath()
	if parsed.RawQuery != "" {
		pretty += "?" + parsed.RawQuery
	}
	return strings.TrimSuffix(pretty, "/")
}

// SameDocument reports whether two URLs address the same document.
func (p *Parser) SameDocument(a, b string) bool {
	return SameDocument(a, b)
}

// IsInternal reports whether rawURL is served from the application origin.
func (p *Parser) IsInternal(rawURL string) bool {
	if p.AppOrigin == "" {
		return false
	}
	return rawURL == p.AppOrigin || strings.HasPrefix(rawURL, p.AppOrigin+"/")
}

var secureSchemes = map[string]bool{
	"https":  true,
	"about":  true,
	"chrome": true,
	"file":   true,
}

// IsSecure reports whether a finished navigation to rawURL counts as secure.
func (p *Parser) IsSecure(rawURL string) bool {
	if p.IsInternal(rawURL) {
		return true
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	return secureSchemes[strings.ToLower(parsed.Scheme)]
}
