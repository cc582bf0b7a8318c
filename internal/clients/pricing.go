package clients

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/azzeddinezrarqi1/lacaravella/internal/apperr"
	"github.com/azzeddinezrarqi1/lacaravella/internal/customizer"
)

const opCalculatePrice = "calculate price"

// PricingClient asks the storefront for the authoritative total of a
// selection. It satisfies customizer.Pricer.
type PricingClient struct {
	c       *Client
	apiBase string
}

func NewPricingClient(c *Client, apiBase string) *PricingClient {
	return &PricingClient{c: c, apiBase: normalizeAPIBase(apiBase)}
}

func (pc *PricingClient) CalculatePrice(ctx context.Context, req customizer.PriceRequest) (decimal.Decimal, error) {
	if req.Customizations == nil {
		req.Customizations = []customizer.CustomizationLine{}
	}
	var resp priceResponse
	if err := pc.c.postJSON(ctx, opCalculatePrice, pc.apiBase+"calculate-price/", req, &resp); err != nil {
		return decimal.Zero, err
	}
	if resp.TotalPrice == nil {
		return decimal.Zero, &apperr.NetworkError{Op: opCalculatePrice, Err: errors.New("response has no total_price")}
	}
	return *resp.TotalPrice, nil
}

var _ customizer.Pricer = (*PricingClient)(nil)
