package workers

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"

	"chat-room/runtime"
)

// ReporterWorker periodically logs room and process health: live
// sessions, live messages, and the server's own RSS/CPU footprint.
type ReporterWorker struct {
	log      *slog.Logger
	registry *runtime.Registry
	store    *runtime.MessageStore
	bus      *runtime.Bus
	interval time.Duration
}

func NewReporterWorker(log *slog.Logger, registry *runtime.Registry, store *runtime.MessageStore, bus *runtime.Bus, interval time.Duration) *ReporterWorker {
	return &ReporterWorker{log: log, registry: registry, store: store, bus: bus, interval: interval}
}

func (w *ReporterWorker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	self, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			rss, cpu, err := selfStats(self)
			if err != nil {
				w.log.Warn("Failed to collect process stats", "error", err)
				continue
			}
			w.log.Info("Room status",
				"sessions", w.registry.Count(),
				"live_messages", w.store.Count(),
				"subscribers", w.bus.SubscriberCount(),
				"rss_mb", rss/1024/1024,
				"cpu_percent", cpu,
			)
		}
	}
}

func selfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
