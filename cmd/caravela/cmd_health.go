package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/azzeddinezrarqi1/lacaravella/internal/clients"
)

func newHealthCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the storefront endpoints answer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sf, err := a.connect()
			if err != nil {
				return err
			}

			probes := clients.StorefrontProbes(sf.base, a.cfg.APIBase)
			results := make([]clients.HealthResult, len(probes))
			var g errgroup.Group
			for i, p := range probes {
				g.Go(func() error {
					results[i] = clients.CheckHealth(cmd.Context(), p)
					return nil
				})
			}
			_ = g.Wait()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			down := 0
			for _, r := range results {
				status := "ok"
				if !r.OK {
					status = "down"
					down++
					a.logger.Warn("storefront probe failed",
						zap.String("probe", r.Name),
						zap.Int("status", r.StatusCode),
						zap.String("error", r.Error),
					)
				}
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.Name, status, r.StatusCode, r.Latency.Round(time.Millisecond))
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if down > 0 {
				return fmt.Errorf("%d of %d storefront checks failed", down, len(results))
			}
			return nil
		},
	}
}
