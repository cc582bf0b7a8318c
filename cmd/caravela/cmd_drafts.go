package main

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/azzeddinezrarqi1/lacaravella/internal/customizer"
	"github.com/azzeddinezrarqi1/lacaravella/internal/drafts"
)

func newDraftsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "drafts",
		Short: "Inspect or delete saved customizations",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List saved drafts, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := drafts.OpenSQLite(a.cfg.DraftsPath, a.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			ds, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(ds) == 0 {
				fmt.Fprintln(out, "No saved drafts.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PRODUCT\tUPDATED\tSELECTION")
			for _, d := range ds {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", d.ProductID, d.UpdatedAt.Local().Format(time.DateTime), describeSelection(d.Selection))
			}
			return tw.Flush()
		},
	}

	var productID int
	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete saved drafts (all, or one with --product)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := drafts.OpenSQLite(a.cfg.DraftsPath, a.logger)
			if err != nil {
				return err
			}
			defer store.Close()

			if productID > 0 {
				if err := store.Delete(cmd.Context(), productID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Draft for product %d deleted.\n", productID)
				return nil
			}
			if err := store.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All drafts deleted.")
			return nil
		},
	}
	clearCmd.Flags().IntVar(&productID, "product", 0, "only delete this product's draft")

	cmd.AddCommand(listCmd, clearCmd)
	return cmd
}

// describeSelection renders ids only; drafts are listed without contacting
// the storefront.
func describeSelection(sel customizer.Selection) string {
	var parts []string
	if sel.FlavorID != nil {
		parts = append(parts, fmt.Sprintf("flavor=%d", *sel.FlavorID))
	}
	if sel.SizeID != nil {
		parts = append(parts, fmt.Sprintf("size=%d", *sel.SizeID))
	}
	for _, id := range sel.OptionIDs() {
		parts = append(parts, fmt.Sprintf("%d=%d", id, sel.Quantities[id]))
	}
	return strings.Join(parts, " ")
}
