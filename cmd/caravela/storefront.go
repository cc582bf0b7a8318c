package main

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/azzeddinezrarqi1/lacaravella/internal/apperr"
	"github.com/azzeddinezrarqi1/lacaravella/internal/catalog"
	"github.com/azzeddinezrarqi1/lacaravella/internal/clients"
)

type storefront struct {
	base    *clients.Client
	catalog *clients.CatalogClient
	pricing *clients.PricingClient
	cart    *clients.CartClient
	search  *clients.SearchClient
}

// connect builds the typed clients over one shared HTTP client. The cookie
// jar keeps the session and csrftoken cookies the server hands out on GETs.
func (a *app) connect() (*storefront, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	sharedHTTP := &http.Client{Timeout: a.cfg.Timeout, Jar: jar}
	csrf := clients.FirstToken{clients.StaticToken(a.cfg.CSRFToken), clients.CookieToken{Jar: jar}}

	base, err := clients.NewClient("storefront", a.cfg.BaseURL, sharedHTTP, csrf)
	if err != nil {
		return nil, err
	}
	return &storefront{
		base:    base,
		catalog: clients.NewCatalogClient(base, a.cfg.APIBase),
		pricing: clients.NewPricingClient(base, a.cfg.APIBase),
		cart:    clients.NewCartClient(base),
		search:  clients.NewSearchClient(base),
	}, nil
}

// loadProduct fetches the catalog, the product and its flavors in parallel.
// Product-specific flavors replace the generic ones when available; failing to
// load them is not fatal.
func (a *app) loadProduct(ctx context.Context, sf *storefront, productID int) (catalog.Catalog, catalog.Product, error) {
	var (
		cat     catalog.Catalog
		product catalog.Product
		flavors []catalog.Option
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cat, err = sf.catalog.CustomizationOptions(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		product, err = sf.catalog.GetProduct(gctx, productID)
		if err != nil {
			return fmt.Errorf("product %d: %w", productID, err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		flavors, err = sf.catalog.ProductFlavors(gctx, productID)
		if err != nil {
			a.logger.Warn("product flavors unavailable, using catalog flavors",
				zap.Int("product_id", productID),
				zap.String("kind", apperr.Kind(err)),
				zap.Error(err),
			)
			flavors = nil
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return catalog.Catalog{}, catalog.Product{}, err
	}

	a.logger.Debug("product loaded",
		zap.Int("product_id", product.ID),
		zap.Int("options", cat.Len()),
		zap.Int("product_flavors", len(flavors)),
	)
	return cat.WithFlavors(flavors), product, nil
}
