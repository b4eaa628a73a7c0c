package probe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/psantana5/tictoc/pkg/logging"
	"github.com/psantana5/tictoc/pkg/retry"
	"github.com/psantana5/tictoc/pkg/stopwatch"
	"github.com/psantana5/tictoc/pkg/timespec"
)

// Target is one endpoint to probe.
type Target struct {
	Name     string        `mapstructure:"name" json:"name" yaml:"name"`
	URL      string        `mapstructure:"url" json:"url" yaml:"url"`
	Interval time.Duration `mapstructure:"interval" json:"interval" yaml:"interval"`
}

// Sample is the most recent observation for a target.
type Sample struct {
	Target  string            `json:"target"`
	Elapsed timespec.Timespec `json:"elapsed"`
	Seconds float64           `json:"seconds"`
	Millis  int64             `json:"millis"`
	OK      bool              `json:"ok"`
	Error   string            `json:"error,omitempty"`
}

// Prober times HTTP round trips against a set of targets. Each probe
// is timed with a monotonic stopwatch, so wall-clock adjustments on
// the host never distort latencies.
type Prober struct {
	targets []Target
	metrics *Metrics
	client  *http.Client
	retry   retry.Config
	log     *logging.Logger

	mu   sync.RWMutex
	last map[string]Sample
}

// NewProber creates a prober over the given targets.
func NewProber(targets []Target, metrics *Metrics, log *logging.Logger) *Prober {
	return &Prober{
		targets: targets,
		metrics: metrics,
		client:  &http.Client{Timeout: 10 * time.Second},
		retry:   retry.DefaultConfig(),
		log:     log,
	}
}

// Run probes every target on its interval until ctx is cancelled.
func (p *Prober) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, target := range p.targets {
		wg.Add(1)
		go func(t Target) {
			defer wg.Done()
			p.runTarget(ctx, t)
		}(target)
	}
	wg.Wait()
}

func (p *Prober) runTarget(ctx context.Context, t Target) {
	interval := t.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	p.probe(ctx, t)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.probe(ctx, t)
		}
	}
}

// ProbeAll probes every target exactly once. Used by one-shot mode.
func (p *Prober) ProbeAll(ctx context.Context) {
	for _, t := range p.targets {
		p.probe(ctx, t)
	}
}

func (p *Prober) probe(ctx context.Context, t Target) {
	sw := stopwatch.New(stopwatch.WithMeasureOnStop())

	if err := sw.Start(); err != nil {
		p.record(t, Sample{Target: t.Name, OK: false, Error: err.Error()})
		return
	}
	err := retry.Do(ctx, p.retry, func() error {
		return p.get(ctx, t.URL)
	})
	if stopErr := sw.Stop(); stopErr != nil {
		p.record(t, Sample{Target: t.Name, OK: false, Error: stopErr.Error()})
		return
	}

	elapsed := sw.Elapsed()
	sample := Sample{
		Target:  t.Name,
		Elapsed: elapsed,
		Seconds: elapsed.Seconds(),
		Millis:  elapsed.Millis(),
		OK:      err == nil,
	}
	if err != nil {
		sample.Error = err.Error()
		p.log.Warn("probe failed", map[string]interface{}{
			"target": t.Name,
			"error":  err.Error(),
		})
	} else {
		p.log.Debug("probe complete", map[string]interface{}{
			"target":  t.Name,
			"seconds": sample.Seconds,
		})
	}
	p.record(t, sample)
}

func (p *Prober) get(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("probe request failed: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 400 {
		return fmt.Errorf("probe returned status %d", resp.StatusCode)
	}
	return nil
}

func (p *Prober) record(t Target, s Sample) {
	if s.OK {
		p.metrics.Observe(t.Name, s.Seconds)
	} else {
		p.metrics.Fail(t.Name)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.last == nil {
		p.last = make(map[string]Sample)
	}
	p.last[t.Name] = s
}

// LastSamples returns the most recent sample per target, in target
// declaration order. Targets never probed are omitted.
func (p *Prober) LastSamples() []Sample {
	p.mu.RLock()
	defer p.mu.RUnlock()

	samples := make([]Sample, 0, len(p.last))
	for _, t := range p.targets {
		if s, ok := p.last[t.Name]; ok {
			samples = append(samples, s)
		}
	}
	return samples
}
