package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/psantana5/tictoc/internal/probe"
	"github.com/psantana5/tictoc/pkg/shutdown"
)

var (
	probeListen   string
	probeTargets  []string
	probeInterval time.Duration
)

var probeCmd = &cobra.Command{
	Use:   "probe",
	Short: "HTTP latency probing",
	Long:  `Commands for timing HTTP endpoint round trips on the monotonic clock.`,
}

var probeServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the latency-probe daemon",
	Long: `Probe the configured targets on their intervals and expose results as
Prometheus metrics plus a JSON timings API.`,
	RunE: runProbeServe,
}

var probeOnceCmd = &cobra.Command{
	Use:   "once",
	Short: "Probe every target once and print metrics",
	RunE:  runProbeOnce,
}

func init() {
	rootCmd.AddCommand(probeCmd)
	probeCmd.AddCommand(probeServeCmd)
	probeCmd.AddCommand(probeOnceCmd)

	probeCmd.PersistentFlags().StringSliceVar(&probeTargets, "target", nil,
		"probe target as name=url (repeatable, adds to config targets)")
	probeCmd.PersistentFlags().DurationVar(&probeInterval, "interval", 30*time.Second,
		"probe interval for targets given via --target")
	probeServeCmd.Flags().StringVar(&probeListen, "listen", "", "listen address (default from config or :9215)")
}

// loadTargets merges config-file targets with --target flags.
func loadTargets() ([]probe.Target, error) {
	var targets []probe.Target
	if viper.IsSet("probe.targets") {
		if err := viper.UnmarshalKey("probe.targets", &targets); err != nil {
			return nil, fmt.Errorf("failed to parse probe.targets: %w", err)
		}
	}

	for _, spec := range probeTargets {
		name, url, found := strings.Cut(spec, "=")
		if !found || name == "" || url == "" {
			return nil, fmt.Errorf("invalid --target %q, want name=url", spec)
		}
		targets = append(targets, probe.Target{Name: name, URL: url, Interval: probeInterval})
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("no probe targets configured")
	}
	return targets, nil
}

func runProbeServe(cmd *cobra.Command, args []string) error {
	log := NewRootLogger()

	targets, err := loadTargets()
	if err != nil {
		return err
	}

	listen := probeListen
	if listen == "" {
		listen = viper.GetString("probe.listen")
	}
	if listen == "" {
		listen = ":9215"
	}

	metrics := probe.NewMetrics()
	prober := probe.NewProber(targets, metrics, log)
	server := probe.NewServer(listen, prober, metrics, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownMgr := shutdown.New(15 * time.Second)
	shutdownMgr.Register(server.Shutdown)
	shutdownMgr.Register(func(context.Context) error {
		cancel()
		return nil
	})

	go prober.Run(ctx)
	go func() {
		if err := server.ListenAndServe(); err != nil {
			log.Error("probe server failed", map[string]interface{}{"error": err.Error()})
		}
	}()

	log.Info("probing targets", map[string]interface{}{"count": len(targets)})
	sig := shutdownMgr.Wait()
	log.Info("shutting down", map[string]interface{}{"signal": sig.String()})

	for _, err := range shutdownMgr.Shutdown() {
		log.Error("shutdown error", map[string]interface{}{"error": err.Error()})
	}
	return nil
}

func runProbeOnce(cmd *cobra.Command, args []string) error {
	log := NewRootLogger()

	targets, err := loadTargets()
	if err != nil {
		return err
	}

	metrics := probe.NewMetrics()
	prober := probe.NewProber(targets, metrics, log)
	prober.ProbeAll(context.Background())

	return metrics.Dump(os.Stdout)
}
