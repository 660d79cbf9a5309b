package notify

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/manav03panchal/medtrack/internal/logging"
	"github.com/manav03panchal/medtrack/internal/model"
)

// Sink receives formatted notifications.
type Sink interface {
	Name() string
	Send(ctx context.Context, payload []byte) error
}

// WriterSink writes notifications to an io.Writer such as stdout.
type WriterSink struct {
	name string
	w    io.Writer
	mu   sync.Mutex
}

// NewWriterSink creates a sink writing to w.
func NewWriterSink(name string, w io.Writer) *WriterSink {
	return &WriterSink{name: name, w: w}
}

// Name returns the sink name.
func (s *WriterSink) Name() string {
	return s.name
}

// Send writes payload. Concurrent sends are serialized.
func (s *WriterSink) Send(_ context.Context, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.w.Write(payload)
	return err
}

// Dispatcher formats a notification once and sends it to every sink.
type Dispatcher struct {
	formatter Formatter
	sinks     []Sink
}

// NewDispatcher creates a new notification dispatcher.
func NewDispatcher(formatter Formatter, sinks ...Sink) *Dispatcher {
	if formatter == nil {
		formatter = &TextFormatter{}
	}
	return &Dispatcher{formatter: formatter, sinks: sinks}
}

// DispatchResult contains the result of dispatching to a single sink.
type DispatchResult struct {
	SinkName string
	Success  bool
	Duration time.Duration
	Error    error
}

// SendNotification sends n to all sinks concurrently and returns one result
// per sink, in sink order.
func (d *Dispatcher) SendNotification(ctx context.Context, n *model.Notification) []DispatchResult {
	if len(d.sinks) == 0 {
		return nil
	}

	payload, err := d.formatter.Format(n)
	if err != nil {
		return []DispatchResult{{
			SinkName: "all",
			Error:    fmt.Errorf("failed to format notification: %w", err),
		}}
	}

	var wg sync.WaitGroup
	results := make([]DispatchResult, len(d.sinks))

	for i, sink := range d.sinks {
		wg.Add(1)
		go func(idx int, s Sink) {
			defer wg.Done()
			start := time.Now()
			err := s.Send(ctx, payload)
			results[idx] = DispatchResult{
				SinkName: s.Name(),
				Success:  err == nil,
				Duration: time.Since(start),
				Error:    err,
			}
			if err != nil {
				logging.FromContext(ctx).Warnw("notification not delivered",
					"sink", s.Name(),
					logging.KeyError, err,
				)
			}
		}(i, sink)
	}

	wg.Wait()
	return results
}

// SendTest sends a test notification, used to check sink wiring.
func (d *Dispatcher) SendTest(ctx context.Context, now time.Time) []DispatchResult {
	n := model.NewNotification(model.NotifyTest, "medtrack",
		"Reminder watcher is running.", now)
	return d.SendNotification(ctx, n)
}

// SinkCount returns the number of configured sinks.
func (d *Dispatcher) SinkCount() int {
	return len(d.sinks)
}
