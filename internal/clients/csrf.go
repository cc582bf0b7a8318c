package clients

import (
	"net/http"
	"net/url"
	"strings"
)

// CSRFCookieName is the cookie Django stores its CSRF token in.
const CSRFCookieName = "csrftoken"

// TokenSource supplies the CSRF token attached to unsafe requests.
type TokenSource interface {
	Token(u *url.URL) string
}

type NoToken struct{}

func (NoToken) Token(*url.URL) string { return "" }

// StaticToken is a token handed over by configuration.
type StaticToken string

func (t StaticToken) Token(*url.URL) string { return strings.TrimSpace(string(t)) }

// CookieToken reads the token from the csrftoken cookie the server set in the
// client's jar.
type CookieToken struct {
	Jar http.CookieJar
}

func (t CookieToken) Token(u *url.URL) string {
	if t.Jar == nil {
		return ""
	}
	for _, c := range t.Jar.Cookies(u) {
		if c.Name == CSRFCookieName {
			return c.Value
		}
	}
	return ""
}

// FirstToken tries each source in order and returns the first non-empty
// token.
type FirstToken []TokenSource

func (f FirstToken) Token(u *url.URL) string {
	for _, src := range f {
		if src == nil {
			continue
		}
		if tok := src.Token(u); tok != "" {
			return tok
		}
	}
	return ""
}
