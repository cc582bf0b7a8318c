package clients

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/azzeddinezrarqi1/lacaravella/internal/apperr"
)

// MinQueryLength is the shortest query the storefront answers.
const MinQueryLength = 2

type SearchClient struct{ c *Client }

func NewSearchClient(c *Client) *SearchClient { return &SearchClient{c: c} }

func (sc *SearchClient) Search(ctx context.Context, query string) ([]SearchResult, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinQueryLength {
		return nil, fmt.Errorf("search %q: need at least %d characters: %w", query, MinQueryLength, apperr.ErrValidation)
	}
	var resp searchResponse
	q := url.Values{"q": {query}}
	if err := sc.c.getJSON(ctx, "search products", "/products/search/", q.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Results == nil {
		resp.Results = []SearchResult{}
	}
	return resp.Results, nil
}
