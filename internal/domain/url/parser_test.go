package url

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const testOrigin = "http://127.0.0.1:7420"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"bare domain", "example.com", "https://example.com"},
		{"domain with path", "github.com/user/repo", "https://github.com/user/repo"},
		{"http kept", "http://example.com", "http://example.com"},
		{"https kept", "https://example.com", "https://example.com"},
		{"about kept", "about:blank", "about:blank"},
		{"file kept", "file:///tmp/a.html", "file:///tmp/a.html"},
		{"localhost gets http", "localhost:8080", "http://localhost:8080"},
		{"query unchanged", "hello world", "hello world"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestParser_Parse(t *testing.T) {
	p := NewParser(testOrigin)

	assert.Equal(t, "about:blank", p.Parse("  "))
	assert.Equal(t, "https://example.com", p.Parse(" example.com "))
	assert.Equal(t, "https://duckduckgo.com/?q=go+generics", p.Parse("go generics"))

	p.SearchURL = ""
	assert.Equal(t, "go generics", p.Parse("go generics"))
}

func TestParser_PrettyURL(t *testing.T) {
	p := NewParser(testOrigin)

	assert.Equal(t, "example.com", p.PrettyURL("https://www.example.com/"))
	assert.Equal(t, "example.com/a/b?x=1", p.PrettyURL("http://example.com/a/b?x=1"))
	assert.Equal(t, "about:blank", p.PrettyURL("about:blank"))
	assert.Equal(t, testOrigin+"/crash?url=x", p.PrettyURL(testOrigin+"/crash?url=x"))
}

func TestParser_IsSecure(t *testing.T) {
	p := NewParser(testOrigin + "/")

	assert.True(t, p.IsSecure("https://example.com"))
	assert.True(t, p.IsSecure("about:blank"))
	assert.True(t, p.IsSecure("chrome://version"))
	assert.True(t, p.IsSecure("file:///etc/hosts"))
	assert.True(t, p.IsSecure(testOrigin+"/error?ec=-6"))
	assert.False(t, p.IsSecure("http://example.com"))
	assert.False(t, p.IsSecure("http://127.0.0.1:7421/"))
}

func TestParser_Pages(t *testing.T) {
	p := NewParser(testOrigin)

	assert.Equal(t, testOrigin+"/error?ec=-6&url=https%3A%2F%2Fexample.com%2Fx", p.ErrorPage(-6, "https://example.com/x"))
	assert.Equal(t, testOrigin+"/crash?url=https%3A%2F%2Fexample.com", p.CrashPage("https://example.com"))
	assert.Equal(t, testOrigin+"/phishing", p.PhishingPage(""))
	assert.True(t, p.IsInternal(p.CrashPage("https://example.com")))
}

func TestExtractDomain(t *testing.T) {
	assert.Equal(t, "example.com", ExtractDomain("https://www.example.com/a"))
	assert.Equal(t, "", ExtractDomain("about:blank"))
}

func TestSameDocument(t *testing.T) {
	p := NewParser(testOrigin)
	tests := []struct {
		a, b string
		want bool
	}{
		{p.Parse("example.com"), "https://example.com/", true},
		{"https://Example.COM:443", "https://example.com/", true},
		{"http://localhost:80/a", "http://localhost/a", true},
		{"https://example.com/#top", "https://example.com/", true},
		{"https://example.com:8443", "https://example.com:8443/", true},
		{"https://example.com/a", "https://example.com/b", false},
		{"https://example.com/?q=1", "https://example.com/?q=2", false},
		{"https://cdn.example.com/", "https://example.com/", false},
		{"http://[::1]:80/", "http://[::1]/", true},
		{"about:blank", "about:blank", true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SameDocument(tt.a, tt.b), "%s vs %s", tt.a, tt.b)
	}
}
