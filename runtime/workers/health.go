package workers

import (
	"context"
	"decision-lab/contract"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

var _ contract.Worker = (*HealthWorker)(nil)

// HealthSnapshot is what the health worker logs on each tick.
type HealthSnapshot struct {
	Rooms       int
	Connections int
	Groups      int
	// Fill of the outgoing event channel between room workers and the fanout
	Queued      int
	QueueCap    int
	RSSBytes    uint64
	CPUPercent  float64
}

// HealthWorker marks the process as serving while it runs and samples
// process and hub figures every interval.
type HealthWorker struct {
	log      *slog.Logger
	interval time.Duration
	stats    func() HealthSnapshot
	reporter contract.IStatusReporter
}

func NewHealthWorker(log *slog.Logger, interval time.Duration, stats func() HealthSnapshot, reporter contract.IStatusReporter) *HealthWorker {
	return &HealthWorker{log: log, interval: interval, stats: stats, reporter: reporter}
}

func (w *HealthWorker) Run(ctx context.Context) error {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}
	if w.reporter != nil {
		w.reporter.SetServing(true)
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			if w.reporter != nil {
				w.reporter.SetServing(false)
			}
			return nil
		case <-ticker.C:
			snapshot := w.Sample(p)
			w.log.Info("Health",
				"rooms", snapshot.Rooms,
				"connections", snapshot.Connections,
				"groups", snapshot.Groups,
				"outgoing_queued", snapshot.Queued,
				"outgoing_capacity", snapshot.QueueCap,
				"rss_bytes", snapshot.RSSBytes,
				"cpu_percent", snapshot.CPUPercent)
			if snapshot.QueueCap > 0 && snapshot.Queued*10 >= snapshot.QueueCap*8 {
				w.log.Warn("Outgoing event channel almost full", "queued", snapshot.Queued, "capacity", snapshot.QueueCap)
			}
		}
	}
}

// Sample merges hub figures with the memory and CPU usage of p.
// Process figures stay at zero when the OS refuses to report them.
func (w *HealthWorker) Sample(p *process.Process) HealthSnapshot {
	var snapshot HealthSnapshot
	if w.stats != nil {
		snapshot = w.stats()
	}
	if memInfo, err := p.MemoryInfo(); err == nil {
		snapshot.RSSBytes = memInfo.RSS
	} else {
		w.log.Debug("Failed to read memory info", "error", err)
	}
	if cpuPercent, err := p.CPUPercent(); err == nil {
		snapshot.CPUPercent = cpuPercent
	} else {
		w.log.Debug("Failed to read cpu usage", "error", err)
	}
	return snapshot
}
