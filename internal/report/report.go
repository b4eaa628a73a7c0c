package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/psantana5/tictoc/internal/bench"
)

// Render writes a bench result to w in the requested format:
// table, json, or yaml.
func Render(w io.Writer, format string, result *bench.Result) error {
	switch format {
	case "json":
		return renderJSON(w, result)
	case "yaml":
		return renderYAML(w, result)
	case "table", "":
		return renderTable(w, result)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

func renderJSON(w io.Writer, result *bench.Result) error {
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(output))
	return nil
}

func renderYAML(w io.Writer, result *bench.Result) error {
	output, err := yaml.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	fmt.Fprint(w, string(output))
	return nil
}

func renderTable(w io.Writer, result *bench.Result) error {
	fmt.Fprintf(w, "Command: %s\n\n", strings.Join(result.Command, " "))

	table := tablewriter.NewWriter(w)
	table.Header("Field", "Value")

	table.Append("Runs", fmt.Sprintf("%d", result.Runs))
	if result.Warmup > 0 {
		table.Append("Warmup", fmt.Sprintf("%d", result.Warmup))
	}
	table.Append("Total", formatSeconds(result.Total.Seconds()))
	table.Append("Min", formatSeconds(result.Summary.Min))
	table.Append("Max", formatSeconds(result.Summary.Max))
	table.Append("Mean", formatSeconds(result.Summary.Mean))
	table.Append("Stddev", formatSeconds(result.Summary.Stddev))

	if result.Process != nil && result.Process.Samples > 0 {
		table.Append("Peak CPU", fmt.Sprintf("%.1f%%", result.Process.PeakCPUPercent))
		table.Append("Peak RSS", formatBytes(result.Process.PeakRSSBytes))
	}

	table.Render()

	if len(result.Durations) > 1 {
		fmt.Fprintln(w)
		runs := tablewriter.NewWriter(w)
		runs.Header("Run", "Seconds", "Millis")
		for i, d := range result.Durations {
			runs.Append(
				fmt.Sprintf("%d", i+1),
				formatSeconds(d.Seconds()),
				fmt.Sprintf("%d", d.Millis()),
			)
		}
		runs.Render()
	}

	return nil
}

func formatSeconds(s float64) string {
	return fmt.Sprintf("%.6f s", s)
}

func formatBytes(b uint64) string {
	const (
		kib = 1024
		mib = 1024 * kib
		gib = 1024 * mib
	)
	switch {
	case b >= gib:
		return fmt.Sprintf("%.2f GiB", float64(b)/gib)
	case b >= mib:
		return fmt.Sprintf("%.2f MiB", float64(b)/mib)
	case b >= kib:
		return fmt.Sprintf("%.2f KiB", float64(b)/kib)
	default:
		return fmt.Sprintf("%d B", b)
	}
}
