package watcher

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"

	"github.com/manav03panchal/medtrack/internal/notify"
	"github.com/manav03panchal/medtrack/internal/scheduler"
)

// Metrics tracks watcher operational metrics.
type Metrics struct {
	// Counters
	notificationsSent   atomic.Int64
	notificationsFailed atomic.Int64
	checksRun           atomic.Int64
	errorsTotal         atomic.Int64

	// Gauges with mutex for complex types
	mu                 sync.RWMutex
	sinkLatencyMs      int64
	lastNotificationAt time.Time
	lastCheck          time.Time
	lastError          string
	lastErrorAt        time.Time

	// Error breakdown
	errorsByCategory map[string]int64
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	return &Metrics{
		errorsByCategory: make(map[string]int64),
	}
}

// MetricsSnapshot represents a point-in-time view of metrics.
type MetricsSnapshot struct {
	NotificationsSentTotal   int64            `json:"notifications_sent_total"`
	NotificationsFailedTotal int64            `json:"notifications_failed_total"`
	ChecksRunTotal           int64            `json:"checks_run_total"`
	ErrorsTotal              int64            `json:"errors_total"`
	SinkLatencyMs            int64            `json:"sink_latency_ms"`
	LastNotificationAt       *time.Time       `json:"last_notification_at,omitempty"`
	LastCheck                *time.Time       `json:"last_check,omitempty"`
	LastError                string           `json:"last_error,omitempty"`
	LastErrorAt              *time.Time       `json:"last_error_at,omitempty"`
	ErrorsByCategory         map[string]int64 `json:"errors_by_category,omitempty"`
}

// Snapshot returns a copy of current metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	snap := MetricsSnapshot{
		NotificationsSentTotal:   m.notificationsSent.Load(),
		NotificationsFailedTotal: m.notificationsFailed.Load(),
		ChecksRunTotal:           m.checksRun.Load(),
		ErrorsTotal:              m.errorsTotal.Load(),
		SinkLatencyMs:            m.sinkLatencyMs,
		LastError:                m.lastError,
		ErrorsByCategory:         make(map[string]int64, len(m.errorsByCategory)),
	}

	if !m.lastNotificationAt.IsZero() {
		t := m.lastNotificationAt
		snap.LastNotificationAt = &t
	}
	if !m.lastCheck.IsZero() {
		t := m.lastCheck
		snap.LastCheck = &t
	}
	if !m.lastErrorAt.IsZero() {
		t := m.lastErrorAt
		snap.LastErrorAt = &t
	}

	for k, v := range m.errorsByCategory {
		snap.ErrorsByCategory[k] = v
	}

	return snap
}

// JSON returns metrics as JSON.
func (m *Metrics) JSON() ([]byte, error) {
	return json.MarshalIndent(m.Snapshot(), "", "  ")
}

// RecordNotificationSent records a delivered notification.
func (m *Metrics) RecordNotificationSent(latency time.Duration) {
	m.notificationsSent.Add(1)

	m.mu.Lock()
	m.sinkLatencyMs = latency.Milliseconds()
	m.lastNotificationAt = time.Now()
	m.mu.Unlock()
}

// RecordNotificationFailed records a notification a sink rejected.
func (m *Metrics) RecordNotificationFailed(err error) {
	m.notificationsFailed.Add(1)
	m.RecordError("notification", err)
}

// RecordCheck records one check cycle.
func (m *Metrics) RecordCheck() {
	m.checksRun.Add(1)

	m.mu.Lock()
	m.lastCheck = time.Now()
	m.mu.Unlock()
}

// RecordError records an error with category.
func (m *Metrics) RecordError(category string, err error) {
	m.errorsTotal.Add(1)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.lastError = err.Error()
	m.lastErrorAt = time.Now()

	if category != "" {
		m.errorsByCategory[category]++
	}
}

// NotificationsSent returns the total notifications sent.
func (m *Metrics) NotificationsSent() int64 {
	return m.notificationsSent.Load()
}

// NotificationsFailed returns the total failed notifications.
func (m *Metrics) NotificationsFailed() int64 {
	return m.notificationsFailed.Load()
}

// ChecksRun returns the total check cycles.
func (m *Metrics) ChecksRun() int64 {
	return m.checksRun.Load()
}

// ErrorsTotal returns the total errors.
func (m *Metrics) ErrorsTotal() int64 {
	return m.errorsTotal.Load()
}

// meteredSink records every delivery attempt of the wrapped sink.
type meteredSink struct {
	notify.Sink
	metrics *Metrics
}

func (s meteredSink) Send(ctx context.Context, payload []byte) error {
	start := time.Now()
	err := s.Sink.Send(ctx, payload)
	if err != nil {
		s.metrics.RecordNotificationFailed(err)
		return err
	}
	s.metrics.RecordNotificationSent(time.Since(start))
	return nil
}

// meteredChecker records every run of the wrapped checker.
type meteredChecker struct {
	scheduler.Checker
	metrics *Metrics
}

func (c meteredChecker) Check(ctx context.Context, now time.Time) (int, error) {
	c.metrics.RecordCheck()
	n, err := c.Checker.Check(ctx, now)
	if err != nil {
		c.metrics.RecordError(c.Name(), err)
	}
	return n, err
}
