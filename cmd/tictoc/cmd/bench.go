package cmd

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/psantana5/tictoc/internal/bench"
	"github.com/psantana5/tictoc/internal/report"
)

var (
	benchRuns   int
	benchWarmup int
	benchSample bool
)

var benchCmd = &cobra.Command{
	Use:   "bench [flags] -- <command> [args...]",
	Short: "Benchmark an external command",
	Long: `Run a command repeatedly and report elapsed time statistics measured
on the monotonic clock. Optionally samples CPU and memory usage of the
command while it runs.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBench,
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().IntVarP(&benchRuns, "runs", "n", 5, "number of timed runs")
	benchCmd.Flags().IntVarP(&benchWarmup, "warmup", "w", 0, "untimed warmup runs before measuring")
	benchCmd.Flags().BoolVar(&benchSample, "sample", false, "sample CPU and RSS of the command while it runs")
}

func runBench(cmd *cobra.Command, args []string) error {
	log := NewRootLogger()

	if !cmd.Flags().Changed("runs") && viper.IsSet("bench.runs") {
		benchRuns = viper.GetInt("bench.runs")
	}
	if !cmd.Flags().Changed("warmup") && viper.IsSet("bench.warmup") {
		benchWarmup = viper.GetInt("bench.warmup")
	}

	runner := bench.NewRunner(bench.Options{
		Runs:          benchRuns,
		Warmup:        benchWarmup,
		SampleProcess: benchSample,
	}, log)

	result, err := runner.Run(context.Background(), args)
	if err != nil {
		return err
	}

	return report.Render(os.Stdout, GetOutputFormat(), result)
}
