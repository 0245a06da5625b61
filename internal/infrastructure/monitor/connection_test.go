package monitor

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskflow/repository/memory"
)

type failingPinger struct{}

func (failingPinger) Ping(ctx context.Context) error { return errors.New("connection refused") }

type fixedCounter int

func (c fixedCounter) Size() (int, error) { return int(c), nil }

func TestMonitor_RefreshHealthy(t *testing.T) {
	m := New("memory", memory.New(), fixedCounter(3), time.Minute, nil)

	m.Refresh(context.Background())

	status := m.GetStatus()
	assert.True(t, m.IsOnline())
	assert.Equal(t, "memory", status.Driver)
	assert.Equal(t, 3, status.Snapshots)
	assert.False(t, status.LastCheck.IsZero())
}

func TestMonitor_RefreshUnreachable(t *testing.T) {
	m := New("redis", failingPinger{}, nil, time.Minute, nil)

	m.Refresh(context.Background())

	assert.False(t, m.IsOnline())
	assert.Equal(t, 0, m.GetStatus().Snapshots)
}

func TestMonitor_StartStop(t *testing.T) {
	m := New("memory", memory.New(), nil, 10*time.Millisecond, nil)
	m.Start()

	require.Eventually(t, m.IsOnline, time.Second, 5*time.Millisecond)
	m.Stop()
	m.Stop()
}
