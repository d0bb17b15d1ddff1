package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/zeehio/sifra/internal/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "sifra",
		Short: "Seismic damage and restoration simulation for infrastructure facilities",
	}

	rootCmd.AddCommand(simulateCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(serveCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func simulateCmd() *cobra.Command {
	var opts simulateOptions

	cmd := &cobra.Command{
		Use:   "simulate [project-path]",
		Short: "Run the Monte Carlo damage and restoration sweep",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().BoolVar(&opts.plans, "plans", false, "include per-trial restoration plans in the output")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "worker pool size (default: scenario setting)")
	cmd.Flags().Int64Var(&opts.seed, "seed", 0, "random seed override (default: scenario setting)")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate a facility model and scenario without running trials",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(args[0])
		},
	}
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Run the simulation once and serve results over HTTP",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			project, err := loadProject(args[0])
			if err != nil {
				return err
			}
			result, err := simulate(cmd.Context(), project, simulateOptions{})
			if err != nil {
				return err
			}
			srv := server.New(port, project.Facility, project.Report, result)
			return srv.Start()
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 3000, "HTTP server port")
	return cmd
}
