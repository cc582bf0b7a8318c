package customizer

import (
	"context"

	"github.com/shopspring/decimal"
)

type CustomizationLine struct {
	OptionID int `json:"option_id"`
	Quantity int `json:"quantity"`
}

// PriceRequest is the body sent to the pricing endpoint.
type PriceRequest struct {
	ProductID      int                 `json:"product_id"`
	FlavorID       *int                `json:"flavor_id"`
	Customizations []CustomizationLine `json:"customizations"`
}

// CartPayload is the body sent to the add-to-cart endpoint. Customizations
// maps option id to quantity.
type CartPayload struct {
	ProductID      int         `json:"product_id"`
	FlavorID       *int        `json:"flavor_id"`
	Customizations map[int]int `json:"customizations"`
	Quantity       int         `json:"quantity"`
}

type CartReceipt struct {
	Success   bool   `json:"success"`
	CartCount *int   `json:"cart_count,omitempty"`
	Error     string `json:"error,omitempty"`
}

// Pricer computes the authoritative total for a selection.
type Pricer interface {
	CalculatePrice(ctx context.Context, req PriceRequest) (decimal.Decimal, error)
}

// Cart accepts assembled items.
type Cart interface {
	AddToCart(ctx context.Context, payload CartPayload) (CartReceipt, error)
}

func priceRequest(productID int, sel Selection) PriceRequest {
	req := PriceRequest{
		ProductID:      productID,
		Customizations: make([]CustomizationLine, 0, len(sel.Quantities)),
	}
	if sel.FlavorID != nil {
		req.FlavorID = intPtr(*sel.FlavorID)
	}
	for _, id := range sel.OptionIDs() {
		req.Customizations = append(req.Customizations, CustomizationLine{OptionID: id, Quantity: sel.Quantities[id]})
	}
	return req
}

func cartPayload(productID int, sel Selection) CartPayload {
	c := sel.Clone()
	return CartPayload{
		ProductID:      productID,
		FlavorID:       c.FlavorID,
		Customizations: c.Quantities,
		Quantity:       1,
	}
}
