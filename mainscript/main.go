// Command mcwing averages and post-processes the slice samples of the
// McAlister wing simulations.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/marchdf/mcwing"
	"github.com/marchdf/mcwing/settings"
)

var (
	configPath string
	verbose    bool
	workers    int
	preset     string

	logger *zap.Logger
	cfg    settings.Config
)

var rootCmd = &cobra.Command{
	Use:   "mcwing",
	Short: "Post-process McAlister wing slice samples",
	Long: `mcwing turns the sharded slice samples written during a Nalu run into
time averaged tables, vortex core lineouts and surface pressure coefficients.

Run "average" on a slice directory first, then "vortex" or "wing" on the
averaged table.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		cfg, err = settings.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("workers") {
			cfg.Workers = workers
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var averageCmd = &cobra.Command{
	Use:   "average [dir]",
	Short: "Average the trailing time steps of a slice directory",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			cfg.Average.Dir = args[0]
		}
		if preset != "" {
			cfg.Average.Preset = preset
		}
		set, err := cfg.AverageSettings()
		if err != nil {
			return err
		}
		res, err := mcwing.Average(cmd.Context(), set, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "averaged %d steps into %d locations\n", len(res.Steps), res.Table.Len())
		return nil
	},
}

var vortexCmd = &cobra.Command{
	Use:   "vortex [avg_slice.csv]",
	Short: "Extract lineouts through the vortex core of each slice",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			cfg.Vortex.Input = args[0]
		}
		set, err := cfg.VortexSettings()
		if err != nil {
			return err
		}
		res, err := mcwing.PostprocessVortex(set, logger)
		var list mcwing.ErrorList
		if err != nil && !errors.As(err, &list) {
			return err
		}
		// A failing slice still leaves the others written.
		fmt.Fprintf(cmd.OutOrStdout(), "processed %d slices into %s\n", len(res.Slices), set.OutputDir)
		return err
	},
}

var wingCmd = &cobra.Command{
	Use:   "wing [avg_slice.csv]",
	Short: "Compute the pressure coefficient around each spanwise cut",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			cfg.Wing.Input = args[0]
		}
		set, err := cfg.WingSettings()
		if err != nil {
			return err
		}
		res, err := mcwing.PostprocessWing(set, logger)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "computed %d sections into %s\n", len(res.Sections), set.OutputDir)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "mcwing.yaml", "YAML configuration file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().IntVarP(&workers, "workers", "j", 0, "Maximum concurrent reads (default: GOMAXPROCS)")

	averageCmd.Flags().StringVar(&preset, "preset", "", "Averaging preset ("+settings.VortexSlices+", "+settings.WingSlices+")")
	rootCmd.AddCommand(averageCmd)
	rootCmd.AddCommand(vortexCmd)
	rootCmd.AddCommand(wingCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
