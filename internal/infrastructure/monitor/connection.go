package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fastygo/taskflow/repository"
)

// SnapshotCounter reports how many snapshots are archived.
type SnapshotCounter interface {
	Size() (int, error)
}

type Monitor struct {
	driver    string
	storage   repository.Pinger
	snapshots SnapshotCounter

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

// New builds a monitor for the active storage backend. storage or snapshots
// may be nil when the backend cannot be pinged or snapshots are disabled.
func New(driver string, storage repository.Pinger, snapshots SnapshotCounter, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		driver:    driver,
		storage:   storage,
		snapshots: snapshots,
		interval:  interval,
		stopCh:    make(chan struct{}),
		logger:    logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Storage
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Refresh(context.Background())
	for {
		select {
		case <-ticker.C:
			m.Refresh(context.Background())
		case <-m.stopCh:
			return
		}
	}
}

// Refresh probes the backend and the snapshot archive concurrently.
func (m *Monitor) Refresh(ctx context.Context) {
	var (
		storageOK bool
		snapshots int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		storageOK = m.checkStorage(gctx)
		return nil
	})
	g.Go(func() error {
		snapshots = m.checkSnapshots()
		return nil
	})
	_ = g.Wait()

	status := Status{
		Driver:    m.driver,
		Storage:   storageOK,
		Snapshots: snapshots,
		LastCheck: time.Now(),
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}

func (m *Monitor) checkStorage(ctx context.Context) bool {
	if m.storage == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := m.storage.Ping(ctx); err != nil {
		m.logger.Warn("storage ping failed", zap.String("driver", m.driver), zap.Error(err))
		return false
	}
	return true
}

func (m *Monitor) checkSnapshots() int {
	if m.snapshots == nil {
		return 0
	}
	size, err := m.snapshots.Size()
	if err != nil {
		m.logger.Warn("snapshot size check failed", zap.Error(err))
		return 0
	}
	return size
}
