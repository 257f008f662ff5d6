package monitor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redislib "github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	bolt "go.etcd.io/bbolt"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/internal/infrastructure/boltdb"
)

// Probe checks one dependency. Required probes decide overall health.
type Probe struct {
	Name     string
	Required bool
	Check    func(ctx context.Context) error
}

// PostgresProbe pings the pool.
func PostgresProbe(pool *pgxpool.Pool) Probe {
	return Probe{Name: "postgresql", Required: true, Check: func(ctx context.Context) error {
		return pool.Ping(ctx)
	}}
}

// RedisProbe pings the session store.
func RedisProbe(client *redislib.Client) Probe {
	return Probe{Name: "redis", Required: true, Check: func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}}
}

// BoltProbe verifies the embedded store is readable.
func BoltProbe(db *bolt.DB) Probe {
	return Probe{Name: "bolt", Required: true, Check: func(context.Context) error {
		return boltdb.Ping(db)
	}}
}

type Monitor struct {
	probes  []Probe
	timeout time.Duration

	status Status
	mu     sync.RWMutex
	cron   *cron.Cron
	logger *zap.Logger
}

func New(interval time.Duration, logger *zap.Logger, probes ...Probe) *Monitor {
	if interval < time.Second {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	m := &Monitor{
		probes:  probes,
		timeout: 3 * time.Second,
		cron:    cron.New(cron.WithSeconds()),
		logger:  logger,
	}
	if _, err := m.cron.AddFunc(fmt.Sprintf("@every %s", interval), m.Refresh); err != nil {
		logger.Error("monitor schedule rejected", zap.Duration("interval", interval), zap.Error(err))
	}
	return m
}

// Start runs a first check synchronously and then schedules periodic checks.
func (m *Monitor) Start() {
	m.Refresh()
	m.cron.Start()
}

func (m *Monitor) Stop(ctx context.Context) {
	stopCtx := m.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Healthy
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	components := make(map[string]bool, len(m.status.Components))
	for k, v := range m.status.Components {
		components[k] = v
	}
	out := m.status
	out.Components = components
	return out
}

// Refresh probes every dependency once.
func (m *Monitor) Refresh() {
	status := Status{
		Components: make(map[string]bool, len(m.probes)),
		Healthy:    true,
		LastCheck:  time.Now(),
	}
	for _, p := range m.probes {
		ok := m.check(p)
		status.Components[p.Name] = ok
		if !ok && p.Required {
			status.Healthy = false
		}
	}

	m.mu.Lock()
	m.status = status
	m.mu.Unlock()
}

func (m *Monitor) check(p Probe) bool {
	if p.Check == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	if err := p.Check(ctx); err != nil {
		m.logger.Warn("dependency check failed", zap.String("component", p.Name), zap.Error(err))
		return false
	}
	return true
}
