package url

import (
	"net/url"
	"strconv"
)

// Reserved page paths on the application origin.
const (
	CrashPath    = "/crash"
	ErrorPath    = "/error"
	PhishingPath = "/phishing"
)

// CrashPage returns the crash notice URL for a tab that was showing original.
func (p *Parser) CrashPage(original string) string {
	return p.page(CrashPath, url.Values{"url": {original}})
}

// ErrorPage returns the load error URL carrying the error code and failed URL.
func (p *Parser) ErrorPage(code int, failed string) string {
	return p.page(ErrorPath, url.Values{"ec": {strconv.Itoa(code)}, "url": {failed}})
}

// PhishingPage returns the phishing warning URL.
func (p *Parser) PhishingPage(blocked string) string {
	if blocked == "" {
		return p.AppOrigin + PhishingPath
	}
	return p.page(PhishingPath, url.Values{"url": {blocked}})
}

func (p *Parser) page(path string, query url.Values) string {
	return p.AppOrigin + path + "?" + query.Encode()
}
