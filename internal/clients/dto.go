package clients

import (
	"github.com/shopspring/decimal"

	"github.com/azzeddinezrarqi1/lacaravella/internal/catalog"
)

// optionDTO is one entry of the customization-options and product flavors
// responses. Flavors carry price_modifier, everything else price.
type optionDTO struct {
	ID            int              `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	PriceModifier *decimal.Decimal `json:"price_modifier"`
	ImageURL      *string          `json:"image_url"`
	Color         string           `json:"color"`
	MaxSelections int              `json:"max_selections"`
}

func (o optionDTO) toOption(kind catalog.Kind) catalog.Option {
	opt := catalog.Option{
		ID:            o.ID,
		Kind:          kind,
		Name:          o.Name,
		Description:   o.Description,
		Color:         o.Color,
		MaxSelections: o.MaxSelections,
	}
	switch {
	case o.PriceModifier != nil:
		opt.Price = *o.PriceModifier
	case o.Price != nil:
		opt.Price = *o.Price
	}
	if o.ImageURL != nil {
		opt.ImageURL = *o.ImageURL
	}
	return opt
}

func toOptions(kind catalog.Kind, in []optionDTO) []catalog.Option {
	out := make([]catalog.Option, 0, len(in))
	for _, o := range in {
		out = append(out, o.toOption(kind))
	}
	return out
}

type customizationOptionsResponse struct {
	Flavors  []optionDTO `json:"flavors"`
	Toppings []optionDTO `json:"toppings"`
	Sauces   []optionDTO `json:"sauces"`
	Sizes    []optionDTO `json:"sizes"`
}

type productFlavorsResponse struct {
	Flavors []optionDTO `json:"flavors"`
}

type productDTO struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"base_price"`
}

type priceResponse struct {
	TotalPrice *decimal.Decimal `json:"total_price"`
}

// SearchResult is one product hit. Price is preformatted by the server.
type SearchResult struct {
	Name  string `json:"name"`
	URL   string `json:"url"`
	Image string `json:"image"`
	Price string `json:"price"`
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}
