// Agedcache replays cache operation scripts against a manually driven clock.
//
// Usage:
//
//	agedcache simulate script.txt      # read script from file
//	agedcache simulate < script.txt    # read script from stdin
//	agedcache simulate --start 1000 -  # start clock at 1000 ms
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	cache "github.com/vearutop/agedcache"
	"github.com/vearutop/agedcache/internal/simulate"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "agedcache",
		Short:        "Aged in-memory cache playground",
		SilenceUsage: true,
	}

	root.AddCommand(newSimulateCmd())

	return root
}

func newSimulateCmd() *cobra.Command {
	var (
		start int64
		name  string
	)

	cmd := &cobra.Command{
		Use:   "simulate [script]",
		Short: "Run put/get/size/empty/advance script",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()

			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("opening script: %w", err)
				}
				defer f.Close()

				in = f
			}

			r := simulate.NewRunner(start, cache.AgedConfig{Name: name})

			return r.Run(in, cmd.OutOrStdout())
		},
	}

	cmd.Flags().Int64Var(&start, "start", 0, "initial clock instant, ms")
	cmd.Flags().StringVar(&name, "name", "simulation", "cache name")

	return cmd
}
