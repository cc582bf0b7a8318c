package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/azzeddinezrarqi1/lacaravella/internal/apperr"
	"github.com/azzeddinezrarqi1/lacaravella/internal/drafts"
	"github.com/azzeddinezrarqi1/lacaravella/internal/tui"
)

func newCustomizeCmd(a *app) *cobra.Command {
	var (
		productID int
		noDrafts  bool
	)

	cmd := &cobra.Command{
		Use:   "customize",
		Short: "Customize a product interactively",
		Long: `Opens the interactive customizer for one product. The selection is saved
as a draft while you work and restored the next time you open the same product.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var store drafts.Store
			if !noDrafts {
				s, err := drafts.OpenSQLite(a.cfg.DraftsPath, a.logger)
				if err != nil {
					return err
				}
				defer s.Close()
				store = s
			}

			model, err := a.customizeModel(cmd.Context(), productID, store)
			if err != nil {
				return err
			}

			p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
			if _, err := p.Run(); err != nil {
				return fmt.Errorf("customizer: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&productID, "product", 0, "product id")
	cmd.Flags().BoolVar(&noDrafts, "no-drafts", false, "do not save or restore drafts")
	return cmd
}

func (a *app) customizeModel(ctx context.Context, productID int, store drafts.Store) (tui.Model, error) {
	if productID <= 0 {
		return tui.Model{}, fmt.Errorf("--product is required: %w", apperr.ErrValidation)
	}
	sf, err := a.connect()
	if err != nil {
		return tui.Model{}, err
	}
	cat, product, err := a.loadProduct(ctx, sf, productID)
	if err != nil {
		return tui.Model{}, err
	}

	a.logger.Info("customizer started", zap.Int("product_id", product.ID))
	return tui.New(ctx, tui.Deps{
		Pricer:   sf.pricing,
		Cart:     sf.cart,
		Drafts:   store,
		Logger:   a.logger,
		Catalog:  cat,
		Product:  product,
		Currency: a.cfg.Currency,
	}), nil
}
