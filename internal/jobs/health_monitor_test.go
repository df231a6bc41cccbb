package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotBeforeFirstRunIsUnhealthy(t *testing.T) {
	m := NewHealthMonitor("@every 1m", map[string]Check{
		"database": func(context.Context) error { return nil },
	})

	_, healthy := m.Snapshot()
	assert.False(t, healthy)
}

func TestRunOnceRecordsEveryCheck(t *testing.T) {
	m := NewHealthMonitor("@every 1m", map[string]Check{
		"database": func(context.Context) error { return nil },
		"redis":    func(context.Context) error { return errors.New("connection refused") },
	})

	m.RunOnce(context.Background())
	status, healthy := m.Snapshot()

	assert.False(t, healthy)
	require.Contains(t, status, "database")
	assert.True(t, status["database"].Healthy)
	assert.False(t, status["redis"].Healthy)
	assert.Equal(t, "connection refused", status["redis"].Error)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	m := NewHealthMonitor("not a schedule", map[string]Check{
		"database": func(context.Context) error { return nil },
	})

	assert.Error(t, m.Start())
	_, healthy := m.Snapshot()
	assert.True(t, healthy)
}
