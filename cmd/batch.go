package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	service "github.com/okian/sectorscore/internal/app"
	"github.com/okian/sectorscore/internal/simulate"
)

// withService opens the configured store, builds a service and runs fn.
func (c *cli) withService(cmd *cobra.Command, fn func(ctx context.Context, svc *service.Service) error) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	be, err := openBackend(ctx, c.cfg)
	if err != nil {
		return err
	}
	defer func() { _ = be.close() }()

	svc, err := newService(c.cfg, be.store)
	if err != nil {
		return err
	}
	return fn(ctx, svc)
}

func (c *cli) recomputeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recompute",
		Short: "Recompute every competitor once and print the summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				sum := svc.Recompute(ctx)
				if err := printJSON(cmd.OutOrStdout(), sum); err != nil {
					return err
				}
				if !sum.Success {
					return fmt.Errorf("recompute %s: %w: %d errors", sum.RunID, errRunFailed, sum.Failed)
				}
				return nil
			})
		},
	}
}

func (c *cli) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Move legacy biggestCatch values to grossePrise",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				sum := svc.MigrateBigCatches(ctx)
				if err := printJSON(cmd.OutOrStdout(), sum); err != nil {
					return err
				}
				if !sum.Success {
					return fmt.Errorf("migration %s: %w: %d errors", sum.RunID, errRunFailed, sum.Failed)
				}
				return nil
			})
		},
	}
}

func (c *cli) standingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "standings [sector]",
		Short:   "Print the live general and sector rankings",
		Example: "  sectorscore standings\n  sectorscore standings B",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sector := ""
			if len(args) == 1 {
				sector = args[0]
			}
			return c.withService(cmd, func(ctx context.Context, svc *service.Service) error {
				st, err := svc.Standings(ctx, sector)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), st)
			})
		},
	}
}

func (c *cli) simulateCmd() *cobra.Command {
	sim := simulate.DefaultConfig()
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Seed a generated tournament, score it and verify the results",
		Long: `simulate writes a synthetic tournament into the configured store, runs the
big-catch migration and two recomputations, and checks the stored results
against independently computed totals. Use it against an empty store.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			be, err := openBackend(ctx, c.cfg)
			if err != nil {
				return err
			}
			defer func() { _ = be.close() }()

			sim.Collections = c.cfg.Collections
			rep, err := simulate.Run(ctx, be.store, sim)
			if err != nil {
				return err
			}
			if err := printJSON(cmd.OutOrStdout(), rep); err != nil {
				return err
			}
			if !rep.Passed {
				return fmt.Errorf("simulation seed %d: %w", rep.Seed, errRunFailed)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&sim.Competitors, "competitors", sim.Competitors, "Number of competitors to generate")
	cmd.Flags().Uint64Var(&sim.Seed, "seed", sim.Seed, "Random seed")
	cmd.Flags().IntVar(&sim.Workers, "workers", sim.Workers, "Concurrent seed writes")
	cmd.Flags().Float64Var(&sim.PendingRate, "pending-rate", sim.PendingRate, "Share of entries left pending")
	cmd.Flags().Float64Var(&sim.DuplicateRate, "duplicate-rate", sim.DuplicateRate, "Share of entries submitted twice")
	cmd.Flags().Float64Var(&sim.LegacyRate, "legacy-rate", sim.LegacyRate, "Share of big catches in the legacy layout")
	cmd.Flags().StringVar(&sim.QuietSector, "quiet-sector", sim.QuietSector, "Sector that receives only pending entries (empty to disable)")
	return cmd
}
