package bench

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os/exec"

	"github.com/psantana5/tictoc/pkg/logging"
	"github.com/psantana5/tictoc/pkg/stopwatch"
	"github.com/psantana5/tictoc/pkg/timespec"
)

// Options configures a benchmark run.
type Options struct {
	Runs          int  // timed runs (minimum 1)
	Warmup        int  // untimed warmup runs before measuring
	SampleProcess bool // sample CPU/RSS of the child while it runs
}

// Result holds the outcome of a benchmark.
type Result struct {
	Command   []string            `json:"command" yaml:"command"`
	Runs      int                 `json:"runs" yaml:"runs"`
	Warmup    int                 `json:"warmup" yaml:"warmup"`
	Durations []timespec.Timespec `json:"durations" yaml:"durations"`
	Total     timespec.Timespec   `json:"total" yaml:"total"`
	Summary   Summary             `json:"summary" yaml:"summary"`
	Process   *ProcessStats       `json:"process,omitempty" yaml:"process,omitempty"`
}

// Summary holds aggregate statistics over the timed runs, in seconds.
type Summary struct {
	Min    float64 `json:"min_seconds" yaml:"min_seconds"`
	Max    float64 `json:"max_seconds" yaml:"max_seconds"`
	Mean   float64 `json:"mean_seconds" yaml:"mean_seconds"`
	Stddev float64 `json:"stddev_seconds" yaml:"stddev_seconds"`
}

// Runner benchmarks external commands.
type Runner struct {
	opts Options
	log  *logging.Logger
}

// NewRunner creates a benchmark runner.
func NewRunner(opts Options, log *logging.Logger) *Runner {
	if opts.Runs < 1 {
		opts.Runs = 1
	}
	if opts.Warmup < 0 {
		opts.Warmup = 0
	}
	return &Runner{opts: opts, log: log}
}

// Run executes the command opts.Warmup+opts.Runs times and times each
// measured run. The total accumulates across runs via lap timing, so
// it excludes runner overhead between runs.
func (r *Runner) Run(ctx context.Context, command []string) (*Result, error) {
	if len(command) == 0 {
		return nil, errors.New("bench: no command given")
	}

	for i := 0; i < r.opts.Warmup; i++ {
		r.log.Debug("warmup run", map[string]interface{}{"run": i + 1})
		if err := r.runOnce(ctx, command, nil); err != nil {
			return nil, fmt.Errorf("warmup run %d: %w", i+1, err)
		}
	}

	result := &Result{
		Command:   command,
		Runs:      r.opts.Runs,
		Warmup:    r.opts.Warmup,
		Durations: make([]timespec.Timespec, 0, r.opts.Runs),
	}

	var stats *statsAccumulator
	if r.opts.SampleProcess {
		stats = newStatsAccumulator()
	}

	sw := stopwatch.New()
	sw.Reset()
	for i := 0; i < r.opts.Runs; i++ {
		if err := sw.Start(); err != nil {
			return nil, err
		}
		if err := r.runOnce(ctx, command, stats); err != nil {
			return nil, fmt.Errorf("run %d: %w", i+1, err)
		}
		if err := sw.Stop(); err != nil {
			return nil, err
		}

		tic, _ := sw.StartedAt()
		toc, _ := sw.StoppedAt()
		d := timespec.Sub(tic, toc)
		result.Durations = append(result.Durations, d)
		r.log.Debug("timed run", map[string]interface{}{
			"run":     i + 1,
			"seconds": d.Seconds(),
		})

		if err := sw.Lap(); err != nil {
			return nil, err
		}
	}

	result.Total = sw.Elapsed()
	result.Summary = summarize(result.Durations)
	if stats != nil {
		result.Process = stats.snapshot()
	}
	return result, nil
}

func (r *Runner) runOnce(ctx context.Context, command []string, stats *statsAccumulator) error {
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start command: %w", err)
	}

	var sampleDone chan struct{}
	if stats != nil {
		sampleDone = make(chan struct{})
		go stats.sample(int32(cmd.Process.Pid), sampleDone)
	}

	err := cmd.Wait()
	if sampleDone != nil {
		close(sampleDone)
	}

	// A non-zero exit is still a valid timing sample; anything else is
	// a benchmark failure.
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

func summarize(durations []timespec.Timespec) Summary {
	if len(durations) == 0 {
		return Summary{}
	}

	var sum float64
	min := math.Inf(1)
	max := math.Inf(-1)
	for _, d := range durations {
		s := d.Seconds()
		sum += s
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	mean := sum / float64(len(durations))

	var variance float64
	for _, d := range durations {
		diff := d.Seconds() - mean
		variance += diff * diff
	}
	variance /= float64(len(durations))

	return Summary{
		Min:    min,
		Max:    max,
		Mean:   mean,
		Stddev: math.Sqrt(variance),
	}
}
