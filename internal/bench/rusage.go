package bench

import (
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// ProcessStats holds peak resource usage observed across all timed
// runs of the benchmarked command.
type ProcessStats struct {
	PeakCPUPercent float64 `json:"peak_cpu_percent" yaml:"peak_cpu_percent"`
	PeakRSSBytes   uint64  `json:"peak_rss_bytes" yaml:"peak_rss_bytes"`
	Samples        int     `json:"samples" yaml:"samples"`
}

const sampleInterval = 50 * time.Millisecond

// statsAccumulator polls a child process and keeps the peaks. Sampling
// is best effort: short-lived processes may contribute no samples at
// all, and read failures are ignored.
type statsAccumulator struct {
	mu    sync.Mutex
	stats ProcessStats
}

func newStatsAccumulator() *statsAccumulator {
	return &statsAccumulator{}
}

func (a *statsAccumulator) sample(pid int32, done <-chan struct{}) {
	proc, err := process.NewProcess(pid)
	if err != nil {
		return
	}

	ticker := time.NewTicker(sampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			a.record(proc)
		}
	}
}

func (a *statsAccumulator) record(proc *process.Process) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if cpuPct, err := proc.CPUPercent(); err == nil && cpuPct > a.stats.PeakCPUPercent {
		a.stats.PeakCPUPercent = cpuPct
	}
	if memInfo, err := proc.MemoryInfo(); err == nil && memInfo.RSS > a.stats.PeakRSSBytes {
		a.stats.PeakRSSBytes = memInfo.RSS
	}
	a.stats.Samples++
}

func (a *statsAccumulator) snapshot() *ProcessStats {
	a.mu.Lock()
	defer a.mu.Unlock()
	s := a.stats
	return &s
}
