package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/azzeddinezrarqi1/lacaravella/internal/catalog"
)

var sectionTitles = map[catalog.Kind]string{
	catalog.KindFlavor:  "Flavors",
	catalog.KindTopping: "Toppings",
	catalog.KindSauce:   "Sauces",
	catalog.KindSize:    "Sizes",
}

func newOptionsCmd(a *app) *cobra.Command {
	var productID int

	cmd := &cobra.Command{
		Use:   "options",
		Short: "List customization options",
		Long: `Lists flavors, toppings, sauces and sizes. With --product the flavors are
the ones available for that product, priced as modifiers of its base price.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sf, err := a.connect()
			if err != nil {
				return err
			}

			var cat catalog.Catalog
			if productID > 0 {
				var product catalog.Product
				cat, product, err = a.loadProduct(cmd.Context(), sf, productID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (#%d) from %s\n\n", product.Name, product.ID,
					catalog.FormatPrice(product.BasePrice, a.cfg.Currency))
			} else {
				cat, err = sf.catalog.CustomizationOptions(cmd.Context())
				if err != nil {
					return err
				}
			}
			printCatalog(cmd.OutOrStdout(), cat, a.cfg.Currency)
			return nil
		},
	}
	cmd.Flags().IntVar(&productID, "product", 0, "product id")
	return cmd
}

func printCatalog(w io.Writer, cat catalog.Catalog, currency string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, kind := range catalog.Kinds {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintln(tw, sectionTitles[kind])
		opts := cat.Section(kind)
		if len(opts) == 0 {
			fmt.Fprintln(tw, "  (none)")
			continue
		}
		for _, o := range opts {
			price := catalog.FormatPrice(o.Price, currency)
			if kind == catalog.KindFlavor {
				price = catalog.FormatDelta(o.Price, currency)
			}
			extra := ""
			if o.MaxSelections > 0 {
				extra = fmt.Sprintf("max %d", o.MaxSelections)
			}
			fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", o.ID, o.Name, price, extra)
		}
	}
	_ = tw.Flush()
}
