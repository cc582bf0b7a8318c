package clients

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/azzeddinezrarqi1/lacaravella/internal/catalog"
)

// DefaultAPIBase is where the storefront mounts its AJAX product endpoints.
const DefaultAPIBase = "/products/ajax/"

type CatalogClient struct {
	c       *Client
	apiBase string
}

func NewCatalogClient(c *Client, apiBase string) *CatalogClient {
	return &CatalogClient{c: c, apiBase: normalizeAPIBase(apiBase)}
}

// CustomizationOptions loads the four option sections.
func (cc *CatalogClient) CustomizationOptions(ctx context.Context) (catalog.Catalog, error) {
	var resp customizationOptionsResponse
	if err := cc.c.getJSON(ctx, "load customization options", cc.apiBase+"customization-options/", "", &resp); err != nil {
		return catalog.Catalog{}, err
	}
	return catalog.Catalog{
		Flavors:  toOptions(catalog.KindFlavor, resp.Flavors),
		Toppings: toOptions(catalog.KindTopping, resp.Toppings),
		Sauces:   toOptions(catalog.KindSauce, resp.Sauces),
		Sizes:    toOptions(catalog.KindSize, resp.Sizes),
	}, nil
}

// ProductFlavors loads the flavors available for one product, priced as
// modifiers over its base price.
func (cc *CatalogClient) ProductFlavors(ctx context.Context, productID int) ([]catalog.Option, error) {
	var resp productFlavorsResponse
	path := cc.apiBase + "product/" + strconv.Itoa(productID) + "/flavors/"
	if err := cc.c.getJSON(ctx, "load product flavors", path, "", &resp); err != nil {
		return nil, err
	}
	return toOptions(catalog.KindFlavor, resp.Flavors), nil
}

func (cc *CatalogClient) GetProduct(ctx context.Context, id int) (catalog.Product, error) {
	var resp productDTO
	if err := cc.c.getJSON(ctx, "load product", "/api/products/"+strconv.Itoa(id)+"/", "", &resp); err != nil {
		return catalog.Product{}, err
	}
	if resp.ID == 0 {
		resp.ID = id
	}
	if resp.Name == "" {
		resp.Name = fmt.Sprintf("Product #%d", id)
	}
	return catalog.Product{ID: resp.ID, Name: resp.Name, BasePrice: resp.BasePrice}, nil
}

func normalizeAPIBase(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return DefaultAPIBase
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}
