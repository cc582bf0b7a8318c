// Package testutil provides an in-process fake of the storefront backend for
// client, CLI and TUI tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
)

const (
	APIBase   = "/products/ajax/"
	CSRFToken = "test-csrf-token"

	ProductID = 42
	Vanilla   = 1
	Pistachio = 2
	Almonds   = 10
	Sprinkles = 11
	Caramel   = 20
	Small     = 30
	Large     = 31
)

type Option struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      *string         `json:"image_url"`
	Color         string          `json:"color,omitempty"`
	MaxSelections int             `json:"max_selections,omitempty"`
}

type Flavor struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	PriceModifier decimal.Decimal `json:"price_modifier"`
	Color         string          `json:"color,omitempty"`
	ImageURL      *string         `json:"image_url"`
}

type Product struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"base_price"`
	Flavors   []int           `json:"-"`
}

type Request struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   []byte
}

// Storefront is a fake backend. Fields may be changed between requests with
// the mutators; the zero failure fields mean success.
type Storefront struct {
	mu sync.Mutex

	flavors  []Flavor
	toppings []Option
	sauces   []Option
	sizes    []Option
	products map[int]Product

	cartCount   int
	cartFailure string
	cartStatus  int
	priceStatus int
	omitCount   bool
	requests    []Request

	srv *httptest.Server
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// NewStorefront starts a fake backend seeded with a small catalog and closes
// it when the test ends.
func NewStorefront(t testing.TB) *Storefront {
	t.Helper()

	sf := &Storefront{
		flavors: []Flavor{
			{ID: Vanilla, Name: "Vanilla", PriceModifier: d("0"), Color: "#F3E5AB"},
			{ID: Pistachio, Name: "Pistachio", PriceModifier: d("5"), Color: "#93C572"},
		},
		toppings: []Option{
			{ID: Almonds, Name: "Almonds", Price: d("3")},
			{ID: Sprinkles, Name: "Sprinkles", Price: d("2"), MaxSelections: 2},
		},
		sauces: []Option{
			{ID: Caramel, Name: "Caramel", Price: d("2.5")},
		},
		sizes: []Option{
			{ID: Small, Name: "Small", Price: d("0")},
			{ID: Large, Name: "Large", Price: d("8")},
		},
		products: map[int]Product{
			ProductID: {ID: ProductID, Name: "Royal Cone", BasePrice: d("20"), Flavors: []int{Vanilla, Pistachio}},
		},
	}

	sf.srv = httptest.NewServer(sf.routes())
	t.Cleanup(sf.srv.Close)
	return sf
}

func (sf *Storefront) URL() string { return sf.srv.URL }

func (sf *Storefront) Client() *http.Client { return sf.srv.Client() }

// FailCart makes add-to-cart answer with status and {"error": msg}. A zero
// status answers 200 with success=false.
func (sf *Storefront) FailCart(status int, msg string) {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	sf.cartStatus = status
	sf.cartFailure = msg
}

// FailPricing makes calculate-price answer with status. Zero restores success.
func (sf *Storefront) FailPricing(status int) {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	sf.priceStatus = status
}

// OmitCartCount drops cart_count from successful add-to-cart answers.
func (sf *Storefront) OmitCartCount() {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	sf.omitCount = true
}

func (sf *Storefront) CartCount() int {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return sf.cartCount
}

func (sf *Storefront) Requests() []Request {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	return append([]Request(nil), sf.requests...)
}

// RequestsTo returns the recorded requests whose path matches.
func (sf *Storefront) RequestsTo(path string) []Request {
	var out []Request
	for _, r := range sf.Requests() {
		if r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

func (sf *Storefront) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(sf.record)

	r.Get(APIBase+"customization-options/", sf.handleOptions)
	r.Get(APIBase+"product/{id}/flavors/", sf.handleProductFlavors)
	r.Post(APIBase+"calculate-price/", sf.handleCalculatePrice)
	r.Get("/api/products/{id}/", sf.handleProduct)
	r.Post("/checkout/add-to-cart/", sf.handleAddToCart)
	r.Get("/products/search/", sf.handleSearch)

	return r
}

func (sf *Storefront) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		sf.mu.Lock()
		sf.requests = append(sf.requests, Request{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   body,
		})
		sf.mu.Unlock()

		http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: CSRFToken, Path: "/"})
		next.ServeHTTP(w, r)
	})
}

func (sf *Storefront) handleOptions(w http.ResponseWriter, r *http.Request) {
	sf.mu.Lock()
	defer sf.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"flavors":  sf.flavors,
		"toppings": sf.toppings,
		"sauces":   sf.sauces,
		"sizes":    sf.sizes,
	})
}

func (sf *Storefront) handleProductFlavors(w http.ResponseWriter, r *http.Request) {
	p, ok := sf.product(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	sf.mu.Lock()
	defer sf.mu.Unlock()
	out := make([]Flavor, 0, len(p.Flavors))
	for _, f := range sf.flavors {
		for _, id := range p.Flavors {
			if f.ID == id {
				out = append(out, f)
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"flavors": out})
}

func (sf *Storefront) handleProduct(w http.ResponseWriter, r *http.Request) {
	p, ok := sf.product(chi.URLParam(r, "id"))
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Not found."})
		return
	}
	writeJSON(w, http.StatusOK, p)
}

type priceLine struct {
	OptionID int `json:"option_id"`
	Quantity int `json:"quantity"`
}

type priceBody struct {
	ProductID      int         `json:"product_id"`
	FlavorID       *int        `json:"flavor_id"`
	Customizations []priceLine `json:"customizations"`
}

func (sf *Storefront) handleCalculatePrice(w http.ResponseWriter, r *http.Request) {
	if !sf.checkCSRF(w, r) {
		return
	}
	sf.mu.Lock()
	status := sf.priceStatus
	sf.mu.Unlock()
	if status != 0 {
		writeJSON(w, status, map[string]string{"error": "pricing unavailable"})
		return
	}

	var body priceBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	p, ok := sf.product(strconv.Itoa(body.ProductID))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Produit non trouvé"})
		return
	}

	sf.mu.Lock()
	defer sf.mu.Unlock()
	total := p.BasePrice
	if body.FlavorID != nil {
		for _, f := range sf.flavors {
			if f.ID == *body.FlavorID {
				total = total.Add(f.PriceModifier)
			}
		}
	}
	for _, line := range body.Customizations {
		for _, o := range append(append([]Option{}, sf.toppings...), sf.sauces...) {
			if o.ID == line.OptionID {
				total = total.Add(o.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
			}
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"total_price": total})
}

func (sf *Storefront) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	if !sf.checkCSRF(w, r) {
		return
	}
	var body map[string]any
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}

	sf.mu.Lock()
	defer sf.mu.Unlock()
	switch {
	case sf.cartStatus != 0:
		writeJSON(w, sf.cartStatus, map[string]any{"success": false, "error": sf.cartFailure})
		return
	case sf.cartFailure != "":
		writeJSON(w, http.StatusOK, map[string]any{"success": false, "error": sf.cartFailure})
		return
	}
	sf.cartCount++
	resp := map[string]any{"success": true}
	if !sf.omitCount {
		resp["cart_count"] = sf.cartCount
	}
	writeJSON(w, http.StatusOK, resp)
}

func (sf *Storefront) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("q")))
	results := []map[string]string{}
	if len(q) >= 2 {
		sf.mu.Lock()
		for _, p := range sf.products {
			if strings.Contains(strings.ToLower(p.Name), q) {
				results = append(results, map[string]string{
					"name":  p.Name,
					"url":   "/products/" + strconv.Itoa(p.ID) + "/",
					"image": "",
					"price": p.BasePrice.StringFixed(2),
				})
			}
		}
		sf.mu.Unlock()
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (sf *Storefront) checkCSRF(w http.ResponseWriter, r *http.Request) bool {
	if r.Header.Get("X-CSRFToken") != CSRFToken {
		writeJSON(w, http.StatusForbidden, map[string]string{"detail": "CSRF Failed: CSRF token missing."})
		return false
	}
	return true
}

func (sf *Storefront) product(raw string) (Product, bool) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return Product{}, false
	}
	sf.mu.Lock()
	defer sf.mu.Unlock()
	p, ok := sf.products[id]
	return p, ok
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
