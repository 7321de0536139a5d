package main

import (
	"fmt"
	"time"

	"github.com/plus3/grabfocus/grab"
	"github.com/plus3/grabfocus/internal/config"
	"github.com/plus3/grabfocus/internal/logging"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "grab-stress",
		Short:         "Stress the pointer resolver and transform propagator",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	cmd.AddCommand(newRunCmd())
	return cmd
}

func newRunCmd() *cobra.Command {
	var (
		params Params
		mode   string
	)

	cmd := &cobra.Command{
		Use:     "run",
		Short:   "Run the simulation and print a report",
		Example: "grab-stress run --duration 5s --targets 20000 --owners 64",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = params.Workers
			}
			if cmd.Flags().Changed("mode") {
				if err := cfg.ResolveMode.UnmarshalText([]byte(mode)); err != nil {
					return err
				}
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			logger, err := logging.New(cfg)
			if err != nil {
				return err
			}

			report, err := Run(cmd.Context(), cfg, params, logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "\n\n--- Stress Test Report ---")
			if err := report.Generate(out); err != nil {
				return eris.Wrap(err, "generate report")
			}
			fmt.Fprintln(out, "--- End of Report ---")
			return nil
		},
	}

	flags := cmd.Flags()
	flags.DurationVar(&params.Duration, "duration", 10*time.Second, "The total duration the test should run for.")
	flags.IntVar(&params.Targets, "targets", 10000, "The number of grabbable entities to create.")
	flags.IntVar(&params.Owners, "owners", 32, "The number of pointer owners to simulate.")
	flags.IntVar(&params.Views, "views", 4, "The number of cameras owners are spread across.")
	flags.BoolVar(&params.GCPauseMetrics, "gc-pause-metrics", false, "Enable detailed GC pause metrics in the report.")
	flags.BoolVar(&params.Check, "check", false, "Verify lock consistency after every tick.")
	flags.Uint64Var(&params.Seed, "seed", 1, "Seed for the pointer scripts.")
	flags.IntVar(&params.Workers, "workers", 0, "Worker count for both phases, overrides GRAB_WORKERS.")
	flags.StringVar(&mode, "mode", grab.ResolveSequential.String(), "Resolve mode (sequential or concurrent), overrides GRAB_RESOLVE_MODE.")

	return cmd
}
