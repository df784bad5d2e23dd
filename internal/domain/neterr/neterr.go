// Package neterr maps Chromium network error names to their numeric codes
// and to a short explanation shown on the error page.
package neterr

import "strings"

// Aborted is the code of a navigation cancelled by the user or replaced by another one.
const Aborted = -3

type netError struct {
	code        int
	name        string
	description string
}

var known = []netError{
	{-2, "FAILED", "The page could not be loaded."},
	{Aborted, "ABORTED", "The navigation was cancelled."},
	{-6, "FILE_NOT_FOUND", "The file could not be found."},
	{-7, "TIMED_OUT", "The operation timed out."},
	{-10, "ACCESS_DENIED", "Access to the resource was denied."},
	{-20, "BLOCKED_BY_CLIENT", "The request was blocked by content filtering."},
	{-21, "NETWORK_CHANGED", "The network changed while the page was loading."},
	{-100, "CONNECTION_CLOSED", "The server closed the connection."},
	{-101, "CONNECTION_RESET", "The connection was reset."},
	{-102, "CONNECTION_REFUSED", "The server refused the connection."},
	{-104, "CONNECTION_FAILED", "The connection failed."},
	{-105, "NAME_NOT_RESOLVED", "The server's address could not be found."},
	{-106, "INTERNET_DISCONNECTED", "You are not connected to the internet."},
	{-107, "SSL_PROTOCOL_ERROR", "A secure connection could not be established."},
	{-109, "ADDRESS_UNREACHABLE", "The server is unreachable."},
	{-118, "CONNECTION_TIMED_OUT", "The server took too long to respond."},
	{-137, "NAME_RESOLUTION_FAILED", "The server's address could not be resolved."},
	{-200, "CERT_COMMON_NAME_INVALID", "The certificate does not match this site."},
	{-201, "CERT_DATE_INVALID", "The site's certificate has expired or is not yet valid."},
	{-202, "CERT_AUTHORITY_INVALID", "The site's certificate is not trusted."},
	{-324, "EMPTY_RESPONSE", "The server sent no data."},
	{-501, "INSECURE_RESPONSE", "The server's response was not secure."},
}

var (
	byName = make(map[string]netError, len(known))
	byCode = make(map[int]netError, len(known))
)

func init() {
	for _, e := range known {
		byName[e.name] = e
		byCode[e.code] = e
	}
}

// Code returns the code for an error text such as "net::ERR_NAME_NOT_RESOLVED".
// Unknown names map to -2.
func Code(errorText string) int {
	name := strings.TrimPrefix(strings.TrimPrefix(errorText, "net::"), "ERR_")
	if e, ok := byName[name]; ok {
		return e.code
	}
	return -2
}

// Name returns "ERR_<NAME>" for code, or "" when unknown.
func Name(code int) string {
	if e, ok := byCode[code]; ok {
		return "ERR_" + e.name
	}
	return ""
}

// Describe returns a human-readable explanation of code.
func Describe(code int) string {
	if e, ok := byCode[code]; ok {
		return e.description
	}
	return "The page could not be loaded."
}
