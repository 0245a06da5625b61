package services

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/taskflow/internal/infrastructure/snapshot"
	"github.com/fastygo/taskflow/repository"
)

// SnapshotArchive is the subset of snapshot.Store used by the snapshotter.
type SnapshotArchive interface {
	Save(snap snapshot.Snapshot) error
	Latest() (*snapshot.Snapshot, error)
	Cleanup(olderThan time.Time) (int, error)
}

// SnapshotConfig controls how often the collection is copied and how long copies are kept.
type SnapshotConfig struct {
	Interval  time.Duration
	Retention time.Duration
	Driver    string
}

// Snapshotter periodically copies the raw task collection into an archive.
// It only reads from the collection storage.
type Snapshotter struct {
	source  repository.CollectionStorage
	archive SnapshotArchive
	logger  *zap.Logger
	cron    *cron.Cron
	cfg     SnapshotConfig
	now     func() time.Time
}

func NewSnapshotter(
	source repository.CollectionStorage,
	archive SnapshotArchive,
	logger *zap.Logger,
	cfg SnapshotConfig,
) *Snapshotter {
	if cfg.Interval < time.Second {
		cfg.Interval = time.Hour
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 7 * 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	sn := &Snapshotter{
		source:  source,
		archive: archive,
		logger:  logger,
		cfg:     cfg,
		cron:    cron.New(cron.WithSeconds()),
		now:     time.Now,
	}

	schedule := fmt.Sprintf("@every %ds", int(cfg.Interval.Seconds()))
	_, _ = sn.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if _, err := sn.Run(ctx); err != nil {
			sn.logger.Error("snapshot failed", zap.Error(err))
		}
	})

	return sn
}

// Start launches the cron scheduler.
func (sn *Snapshotter) Start() {
	if sn == nil || sn.cron == nil {
		return
	}
	sn.cron.Start()
	sn.logger.Info("snapshotter started", zap.Duration("interval", sn.cfg.Interval))
}

// Stop waits for a running snapshot to finish or ctx to expire.
func (sn *Snapshotter) Stop(ctx context.Context) {
	if sn == nil || sn.cron == nil {
		return
	}
	stopCtx := sn.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	sn.logger.Info("snapshotter stopped")
}

// Run takes one snapshot and prunes expired ones. It reports whether a new
// snapshot was written; unchanged collections are not archived twice.
func (sn *Snapshotter) Run(ctx context.Context) (bool, error) {
	if sn == nil || sn.archive == nil {
		return false, nil
	}

	payload, err := sn.source.Read(ctx)
	if err != nil {
		return false, fmt.Errorf("read collection: %w", err)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		payload = []byte("[]")
	}
	now := sn.now()

	written := false
	latest, err := sn.archive.Latest()
	if err != nil {
		return false, fmt.Errorf("load latest snapshot: %w", err)
	}
	if latest == nil || !bytes.Equal(bytes.TrimSpace(latest.Payload), bytes.TrimSpace(payload)) {
		if err := sn.archive.Save(snapshot.Snapshot{
			Driver:    sn.cfg.Driver,
			Payload:   payload,
			Timestamp: now,
		}); err != nil {
			return false, fmt.Errorf("save snapshot: %w", err)
		}
		written = true
	}

	removed, err := sn.archive.Cleanup(now.Add(-sn.cfg.Retention))
	if err != nil {
		return written, fmt.Errorf("prune snapshots: %w", err)
	}
	sn.logger.Debug("snapshot run complete", zap.Bool("written", written), zap.Int("pruned", removed))
	return written, nil
}
