package clients

import (
	"context"

	"github.com/azzeddinezrarqi1/lacaravella/internal/customizer"
)

const AddToCartPath = "/checkout/add-to-cart/"

// CartClient submits assembled items to the storefront cart. It satisfies
// customizer.Cart.
type CartClient struct{ c *Client }

func NewCartClient(c *Client) *CartClient { return &CartClient{c: c} }

// AddToCart posts the payload. A non-2xx answer is returned as an error
// carrying the server's message; a 2xx answer with success=false is returned
// as a receipt for the caller to judge.
func (cc *CartClient) AddToCart(ctx context.Context, payload customizer.CartPayload) (customizer.CartReceipt, error) {
	if payload.Customizations == nil {
		payload.Customizations = map[int]int{}
	}
	var receipt customizer.CartReceipt
	if err := cc.c.postJSON(ctx, "add to cart", AddToCartPath, payload, &receipt); err != nil {
		return customizer.CartReceipt{}, err
	}
	return receipt, nil
}

var _ customizer.Cart = (*CartClient)(nil)
