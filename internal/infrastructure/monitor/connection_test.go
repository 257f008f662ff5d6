package monitor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskboard/internal/infrastructure/boltdb"
)

func probe(name string, required bool, err error) Probe {
	return Probe{Name: name, Required: required, Check: func(context.Context) error { return err }}
}

func TestRefreshAggregatesProbes(t *testing.T) {
	tests := []struct {
		name    string
		probes  []Probe
		healthy bool
	}{
		{name: "no probes", healthy: true},
		{name: "all up", probes: []Probe{probe("postgresql", true, nil), probe("redis", true, nil)}, healthy: true},
		{name: "required down", probes: []Probe{probe("postgresql", true, errors.New("refused")), probe("redis", true, nil)}, healthy: false},
		{name: "optional down", probes: []Probe{probe("postgresql", true, nil), probe("cache", false, errors.New("refused"))}, healthy: true},
		{name: "missing check", probes: []Probe{{Name: "broken", Required: true}}, healthy: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(time.Minute, nil, tt.probes...)
			m.Refresh()

			status := m.GetStatus()
			assert.Equal(t, tt.healthy, status.Healthy)
			assert.Equal(t, tt.healthy, m.IsOnline())
			assert.Len(t, status.Components, len(tt.probes))
			assert.False(t, status.LastCheck.IsZero())
		})
	}
}

func TestGetStatusReturnsCopy(t *testing.T) {
	m := New(time.Minute, nil, probe("redis", true, nil))
	m.Refresh()

	status := m.GetStatus()
	status.Components["redis"] = false
	assert.True(t, m.GetStatus().Components["redis"])
}

func TestStartChecksImmediately(t *testing.T) {
	db, err := boltdb.Open(filepath.Join(t.TempDir(), "store.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m := New(time.Hour, nil, BoltProbe(db))
	m.Start()
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		m.Stop(ctx)
	})

	assert.True(t, m.IsOnline())
	assert.True(t, m.GetStatus().Components["bolt"])

	require.NoError(t, db.Close())
	m.Refresh()
	assert.False(t, m.IsOnline())
}
