// Package worker holds the background loops of the service.
package worker

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"bikeship/internal/domain/entity"
	"bikeship/pkg/logx"
)

const DefaultProbeInterval = 30 * time.Second

type StatusProber interface {
	ConnectionStatus(ctx context.Context) entity.ConnectionStatus
	RemoteName() string
}

type Alerter interface {
	NotifyConnection(ctx context.Context, backend string, prev, cur entity.ConnectionStatus) error
}

// ConnectionMonitor probes the remote backend on an interval and keeps the
// latest status for readers. It never touches the data path: reads and writes
// keep going through the gateway whatever the monitor observes.
type ConnectionMonitor struct {
	prober   StatusProber
	alerter  Alerter
	interval time.Duration

	last atomic.Pointer[entity.ConnectionStatus]
}

func NewConnectionMonitor(prober StatusProber) *ConnectionMonitor {
	return &ConnectionMonitor{
		prober:   prober,
		interval: DefaultProbeInterval,
	}
}

func (m *ConnectionMonitor) WithAlerter(alerter Alerter) *ConnectionMonitor {
	m.alerter = alerter
	return m
}

func (m *ConnectionMonitor) WithInterval(interval time.Duration) *ConnectionMonitor {
	if interval > 0 {
		m.interval = interval
	}
	return m
}

// Run probes once immediately and then on every tick until ctx is done.
func (m *ConnectionMonitor) Run(ctx context.Context) error {
	logger(ctx).Info("connection monitor started", slog.Duration("interval", m.interval))

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		m.Probe(ctx)

		select {
		case <-ctx.Done():
			logger(ctx).Info("connection monitor stopped")
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// Probe checks the remote backend once, records the result and alerts on a
// state change.
func (m *ConnectionMonitor) Probe(ctx context.Context) entity.ConnectionStatus {
	cur := m.prober.ConnectionStatus(ctx)
	prev := m.last.Swap(&cur)

	backend := m.prober.RemoteName()
	if backend != "" {
		up := 0.0
		if cur.State == entity.ConnectionConnected {
			up = 1
		}
		remoteUp.WithLabelValues(backend).Set(up)
	}

	changed := prev == nil || prev.State != cur.State
	if !changed {
		return cur
	}

	remoteTransitions.WithLabelValues(backend, string(cur.State)).Inc()

	attrs := []any{
		slog.String(logx.FieldBackend, backend),
		slog.String(logx.FieldConnection, string(cur.State)),
	}
	if cur.Reason != "" {
		attrs = append(attrs, slog.String("reason", cur.Reason))
	}

	if cur.State == entity.ConnectionError {
		logger(ctx).Warn("remote backend unreachable", attrs...)
	} else {
		logger(ctx).Info("remote backend state", attrs...)
	}

	// The first probe only alerts when it finds the backend failing.
	if prev == nil && cur.State != entity.ConnectionError {
		return cur
	}

	var before entity.ConnectionStatus
	if prev != nil {
		before = *prev
	}

	if m.alerter != nil {
		if err := m.alerter.NotifyConnection(ctx, backend, before, cur); err != nil {
			logger(ctx).Warn("connection alert failed", logx.Error(err))
		}
	}

	return cur
}

// Last returns the most recent probe result, if any probe has run.
func (m *ConnectionMonitor) Last() (entity.ConnectionStatus, bool) {
	st := m.last.Load()
	if st == nil {
		return entity.ConnectionStatus{}, false
	}
	return *st, true
}
