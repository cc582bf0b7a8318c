package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/azzeddinezrarqi1/lacaravella/internal/apperr"
)

const (
	HeaderCSRFToken = "X-CSRFToken"

	// maxErrorBody bounds how much of a failed response is read looking for a
	// server message.
	maxErrorBody = 64 << 10
)

type Client struct {
	Name    string
	BaseURL *url.URL
	HTTP    *http.Client
	CSRF    TokenSource
}

func NewClient(name string, baseURL string, httpClient *http.Client, csrf TokenSource) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid %s base url %q: %w", name, baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid %s base url %q: scheme must be http or https", name, baseURL)
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if csrf == nil {
		csrf = NoToken{}
	}
	return &Client{Name: name, BaseURL: u, HTTP: httpClient, CSRF: csrf}, nil
}

func (c *Client) URL(path, rawQuery string) *url.URL {
	rel := &url.URL{Path: path, RawQuery: rawQuery}
	return c.BaseURL.ResolveReference(rel)
}

func (c *Client) Do(ctx context.Context, method, path, rawQuery string, body io.Reader, headers http.Header) (*http.Response, error) {
	u := c.URL(path, rawQuery)

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, err
	}

	for k, vv := range headers {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}

	cid := CorrelationID(ctx)
	if cid == "" {
		cid = uuid.NewString()
	}
	req.Header.Set(HeaderCorrelationID, cid)

	if method != http.MethodGet && method != http.MethodHead {
		if token := c.CSRF.Token(u); token != "" {
			req.Header.Set(HeaderCSRFToken, token)
		}
		// Django rejects HTTPS POSTs without a same-origin Referer.
		if req.Header.Get("Referer") == "" {
			req.Header.Set("Referer", c.BaseURL.String())
		}
	}

	return c.HTTP.Do(req)
}

// getJSON issues a GET and decodes a 2xx JSON body into out. Failures are
// returned as *apperr.NetworkError tagged with op.
func (c *Client) getJSON(ctx context.Context, op, path, rawQuery string, out any) error {
	headers := http.Header{}
	headers.Set("Accept", "application/json")
	resp, err := c.Do(ctx, http.MethodGet, path, rawQuery, nil, headers)
	if err != nil {
		return &apperr.NetworkError{Op: op, Err: err}
	}
	return decodeResponse(op, resp, out)
}

// postJSON encodes in as the request body and decodes a 2xx JSON response
// into out.
func (c *Client) postJSON(ctx context.Context, op, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("%s: encode request: %w", op, err)
	}
	headers := http.Header{}
	headers.Set("Content-Type", "application/json")
	headers.Set("Accept", "application/json")
	resp, err := c.Do(ctx, http.MethodPost, path, "", bytes.NewReader(body), headers)
	if err != nil {
		return &apperr.NetworkError{Op: op, Err: err}
	}
	return decodeResponse(op, resp, out)
}

func decodeResponse(op string, resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &apperr.NetworkError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(data)}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &apperr.NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}

// errorMessage pulls the "error" field out of a JSON error body. Non-JSON
// bodies (Django HTML error pages) yield no message.
func errorMessage(data []byte) string {
	var body struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if msg := strings.TrimSpace(body.Error); msg != "" {
		return msg
	}
	return strings.TrimSpace(body.Detail)
}
