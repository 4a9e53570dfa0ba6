// Command lcp is a lifted constraint-based planner: it reads a finitized
// chronicle problem, searches increasing action counts for the first
// satisfiable one, and prints the resulting plan (§6).
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gitrdm/lcp/pkg/smt"
)

var (
	domainPath string
	minActions int
	maxActions int
	optimize   bool
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "lcp <problem>",
	Short: "Solve a lifted constraint-based planning problem",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		level := zapcore.InfoLevel
		if verbose {
			level = zapcore.DebugLevel
		}
		zcfg := zap.NewProductionConfig()
		zcfg.Level = zap.NewAtomicLevelAt(level)
		logger, err := zcfg.Build()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		opts := runOptions{
			problemPath: args[0],
			domainPath:  domainPath,
			minActions:  minActions,
			maxActions:  maxActions,
			optimize:    optimize,
		}
		err = run(os.Stdout, opts, logger.Sugar())
		if errors.Is(err, smt.ErrNoSolution) {
			fmt.Println("no solution")
			return nil
		}
		return err
	},
}

func init() {
	rootCmd.Flags().StringVarP(&domainPath, "domain", "d", "", "domain file path (default: discovered next to the problem file)")
	rootCmd.Flags().IntVar(&minActions, "min-actions", 0, "minimum number of instances tried per template")
	rootCmd.Flags().IntVar(&maxActions, "max-actions", -1, "maximum number of instances tried per template (-1: unbounded)")
	rootCmd.Flags().BoolVar(&optimize, "optimize", false, "minimize makespan, printing each improving plan")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "raise logging to debug level")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
