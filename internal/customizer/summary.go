package customizer

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/azzeddinezrarqi1/lacaravella/internal/catalog"
)

// SummaryLine is a display-only line item. The authoritative total always
// comes from the pricing endpoint, never from summing these.
type SummaryLine struct {
	Label string
	Price decimal.Decimal
}

func buildSummary(product *catalog.Product, cat catalog.Catalog, sel Selection) []SummaryLine {
	var lines []SummaryLine

	if product != nil {
		lines = append(lines, SummaryLine{Label: product.Name, Price: product.BasePrice})
	}

	if sel.FlavorID != nil {
		if f, ok := cat.Find(catalog.KindFlavor, *sel.FlavorID); ok {
			lines = append(lines, SummaryLine{Label: "Flavor: " + f.Name, Price: f.Price})
		}
	}

	// catalog order, toppings before sauces
	for _, kind := range []catalog.Kind{catalog.KindTopping, catalog.KindSauce} {
		for _, o := range cat.Section(kind) {
			q := sel.Quantity(o.ID)
			if q == 0 {
				continue
			}
			lines = append(lines, SummaryLine{
				Label: fmt.Sprintf("%s x%d", o.Name, q),
				Price: o.Price.Mul(decimal.NewFromInt(int64(q))),
			})
		}
	}

	if sel.SizeID != nil {
		if sz, ok := cat.Find(catalog.KindSize, *sel.SizeID); ok {
			lines = append(lines, SummaryLine{Label: "Size: " + sz.Name, Price: sz.Price})
		}
	}

	return lines
}
