package main

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/azzeddinezrarqi1/lacaravella/internal/apperr"
	"github.com/azzeddinezrarqi1/lacaravella/internal/catalog"
	"github.com/azzeddinezrarqi1/lacaravella/internal/customizer"
)

// selectionFlags is the one-shot form of a customization.
type selectionFlags struct {
	productID int
	flavorID  int
	sizeID    int
	additions []string
}

func (f *selectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.productID, "product", 0, "product id")
	cmd.Flags().IntVar(&f.flavorID, "flavor", 0, "flavor id")
	cmd.Flags().IntVar(&f.sizeID, "size", 0, "size id")
	cmd.Flags().StringArrayVar(&f.additions, "add", nil, "topping or sauce as OPTION_ID=QTY (repeatable)")
}

// parseAdditions turns OPTION_ID=QTY pairs into quantity deltas. A bare id
// means one.
func parseAdditions(in []string) (map[int]int, error) {
	out := map[int]int{}
	for _, raw := range in {
		idPart, qtyPart, hasQty := strings.Cut(strings.TrimSpace(raw), "=")
		id, err := strconv.Atoi(idPart)
		if err != nil {
			return nil, fmt.Errorf("--add %q: option id must be a number: %w", raw, apperr.ErrValidation)
		}
		qty := 1
		if hasQty {
			qty, err = strconv.Atoi(qtyPart)
			if err != nil || qty <= 0 {
				return nil, fmt.Errorf("--add %q: quantity must be a positive number: %w", raw, apperr.ErrValidation)
			}
		}
		out[id] += qty
	}
	return out, nil
}

// newSession loads the product and replays the flags onto a session whose
// scheduled price work is dropped; callers price or submit explicitly.
func (a *app) newSession(cmd *cobra.Command, f selectionFlags, notifier customizer.Notifier) (*customizer.Session, error) {
	if f.productID <= 0 {
		return nil, fmt.Errorf("--product is required: %w", apperr.ErrValidation)
	}
	additions, err := parseAdditions(f.additions)
	if err != nil {
		return nil, err
	}

	sf, err := a.connect()
	if err != nil {
		return nil, err
	}
	cat, product, err := a.loadProduct(cmd.Context(), sf, f.productID)
	if err != nil {
		return nil, err
	}

	s := customizer.NewSession(customizer.Deps{
		Pricer:   sf.pricing,
		Cart:     sf.cart,
		Notifier: notifier,
		Run:      customizer.Discard,
		Logger:   a.logger,
	})
	s.SetCatalog(cat)
	s.SetProduct(product)

	if f.flavorID != 0 && !s.SelectFlavor(f.flavorID) {
		return nil, fmt.Errorf("unknown flavor %d for product %d: %w", f.flavorID, f.productID, apperr.ErrValidation)
	}
	if f.sizeID != 0 && !s.SelectSize(f.sizeID) {
		return nil, fmt.Errorf("unknown size %d: %w", f.sizeID, apperr.ErrValidation)
	}
	for _, id := range slices.Sorted(maps.Keys(additions)) {
		if _, ok := cat.Customization(id); !ok {
			return nil, fmt.Errorf("unknown topping or sauce %d: %w", id, apperr.ErrValidation)
		}
		s.AdjustQuantity(id, additions[id])
	}
	return s, nil
}

func newPriceCmd(a *app) *cobra.Command {
	var f selectionFlags

	cmd := &cobra.Command{
		Use:   "price",
		Short: "Price a customized product",
		Example: `  caravela price --product 42 --flavor 2 --add 10=2 --add 20
  caravela price --product 42 --size 31`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newSession(cmd, f, nil)
			if err != nil {
				return err
			}
			if err := s.ComputeTotal(cmd.Context()); err != nil {
				return err
			}
			printSummary(cmd.OutOrStdout(), s.Summary(), a.cfg.Currency)
			fmt.Fprintf(cmd.OutOrStdout(), "Total: %s\n", catalog.FormatPrice(s.Total(), a.cfg.Currency))
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var f selectionFlags

	cmd := &cobra.Command{
		Use:     "add",
		Short:   "Add a customized product to the cart",
		Example: `  caravela add --product 42 --flavor 2 --add 10=2`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.newSession(cmd, f, consoleNotifier{w: cmd.OutOrStdout()})
			if err != nil {
				return err
			}
			if err := s.SubmitToCart(cmd.Context()); err != nil {
				return err
			}
			if n := s.CartCount(); n > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Cart count: %d\n", n)
			}
			return nil
		},
	}
	f.register(cmd)
	return cmd
}

func printSummary(w io.Writer, lines []customizer.SummaryLine, currency string) {
	for _, l := range lines {
		fmt.Fprintf(w, "  %-28s %14s\n", l.Label, catalog.FormatPrice(l.Price, currency))
	}
}
