package clients

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/azzeddinezrarqi1/lacaravella/internal/apperr"
)

type recordedRequest struct {
	Method   string
	Path     string
	RawQuery string
	Header   http.Header
	Body     string
}

func newStubServer(t *testing.T, status int, body string) (*httptest.Server, <-chan recordedRequest) {
	t.Helper()
	ch := make(chan recordedRequest, 10)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		ch <- recordedRequest{
			Method:   r.Method,
			Path:     r.URL.Path,
			RawQuery: r.URL.RawQuery,
			Header:   r.Header.Clone(),
			Body:     string(b),
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, ch
}

func newTestClient(t *testing.T, baseURL string, csrf TokenSource) *Client {
	t.Helper()
	c, err := NewClient("test", baseURL, nil, csrf)
	require.NoError(t, err)
	return c
}

func TestNewClientRejectsBadBaseURL(t *testing.T) {
	for _, raw := range []string{"", "ftp://example.com", "://nope"} {
		_, err := NewClient("test", raw, nil, nil)
		assert.Error(t, err, raw)
	}
}

func TestCorrelationIDPropagatedOrGenerated(t *testing.T) {
	srv, ch := newStubServer(t, http.StatusOK, `{}`)
	c := newTestClient(t, srv.URL, nil)

	ctx := WithCorrelationID(context.Background(), "abc")
	resp, err := c.Do(ctx, http.MethodGet, "/x", "", nil, nil)
	require.NoError(t, err)
	resp.Body.Close()
	got := <-ch
	assert.Equal(t, "abc", got.Header.Get(HeaderCorrelationID))

	resp, err = c.Do(context.Background(), http.MethodGet, "/x", "", nil, nil)
	require.NoError(t, err)
	resp.Body.Close()
	got = <-ch
	assert.NotEmpty(t, got.Header.Get(HeaderCorrelationID))
}

func TestCSRFOnlyOnUnsafeMethods(t *testing.T) {
	srv, ch := newStubServer(t, http.StatusOK, `{}`)
	c := newTestClient(t, srv.URL, StaticToken("tok"))

	require.NoError(t, c.getJSON(context.Background(), "get", "/a", "", nil))
	got := <-ch
	assert.Empty(t, got.Header.Get(HeaderCSRFToken))

	require.NoError(t, c.postJSON(context.Background(), "post", "/a", map[string]int{"x": 1}, nil))
	got = <-ch
	assert.Equal(t, "tok", got.Header.Get(HeaderCSRFToken))
	assert.Equal(t, "application/json", got.Header.Get("Content-Type"))
	assert.NotEmpty(t, got.Header.Get("Referer"))
	assert.JSONEq(t, `{"x":1}`, got.Body)
}

func TestCookieTokenReadsJar(t *testing.T) {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	u, _ := url.Parse("http://shop.example")
	jar.SetCookies(u, []*http.Cookie{{Name: "sessionid", Value: "s"}, {Name: CSRFCookieName, Value: "from-cookie"}})

	assert.Equal(t, "from-cookie", CookieToken{Jar: jar}.Token(u))
	assert.Empty(t, CookieToken{}.Token(u))

	first := FirstToken{StaticToken("  "), nil, CookieToken{Jar: jar}}
	assert.Equal(t, "from-cookie", first.Token(u))
	assert.Equal(t, "cfg", FirstToken{StaticToken("cfg"), CookieToken{Jar: jar}}.Token(u))
}

func TestNon2xxBecomesNetworkError(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{name: "json error field", status: http.StatusBadRequest, body: `{"error":"Produit non trouvé"}`, wantMsg: "Produit non trouvé"},
		{name: "json detail field", status: http.StatusForbidden, body: `{"detail":"CSRF Failed"}`, wantMsg: "CSRF Failed"},
		{name: "html page", status: http.StatusInternalServerError, body: `<html>oops</html>`, wantMsg: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv, _ := newStubServer(t, tt.status, tt.body)
			c := newTestClient(t, srv.URL, nil)

			err := c.getJSON(context.Background(), "load", "/a", "", &struct{}{})
			require.Error(t, err)

			var netErr *apperr.NetworkError
			require.True(t, errors.As(err, &netErr))
			assert.Equal(t, tt.status, netErr.StatusCode)
			assert.Equal(t, tt.wantMsg, netErr.Message)
			assert.ErrorIs(t, err, apperr.ErrNetwork)
			assert.Equal(t, "network", apperr.Kind(err))
		})
	}
}

func TestMalformedBodyBecomesNetworkError(t *testing.T) {
	srv, _ := newStubServer(t, http.StatusOK, `not json`)
	c := newTestClient(t, srv.URL, nil)

	err := c.getJSON(context.Background(), "load", "/a", "", &struct{}{})
	assert.ErrorIs(t, err, apperr.ErrNetwork)
}

func TestTransportFailureBecomesNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := newTestClient(t, base, nil)
	err := c.getJSON(context.Background(), "load", "/a", "", nil)
	require.Error(t, err)

	var netErr *apperr.NetworkError
	require.True(t, errors.As(err, &netErr))
	assert.Zero(t, netErr.StatusCode)
	assert.ErrorIs(t, err, apperr.ErrNetwork)
}
