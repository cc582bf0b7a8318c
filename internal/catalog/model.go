package catalog

import "github.com/shopspring/decimal"

type Kind string

const (
	KindFlavor  Kind = "flavor"
	KindTopping Kind = "topping"
	KindSauce   Kind = "sauce"
	KindSize    Kind = "size"
)

// Kinds lists the sections in display order.
var Kinds = []Kind{KindFlavor, KindTopping, KindSauce, KindSize}

// Option is a choosable catalog item. For flavors Price is the modifier added
// to the product's base price; for everything else it is the unit price.
type Option struct {
	ID            int             `json:"id"`
	Kind          Kind            `json:"kind"`
	Name          string          `json:"name"`
	Description   string          `json:"description,omitempty"`
	Price         decimal.Decimal `json:"price"`
	ImageURL      string          `json:"image_url,omitempty"`
	Color         string          `json:"color,omitempty"`
	MaxSelections int             `json:"max_selections,omitempty"`
}

// Quantified reports whether the option is picked by quantity (toppings and
// sauces) rather than by exclusive selection (flavors and sizes).
func (o Option) Quantified() bool {
	return o.Kind == KindTopping || o.Kind == KindSauce
}

type Product struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	BasePrice decimal.Decimal `json:"base_price"`
}
