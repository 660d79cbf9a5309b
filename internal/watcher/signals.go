package watcher

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// SignalHandler turns OS signals into watcher events. SIGINT and SIGTERM
// stop the watcher; SIGHUP asks for an immediate check.
type SignalHandler struct {
	signals chan os.Signal
	rescan  chan struct{}
	done    chan struct{}
}

// NewSignalHandler creates a new signal handler.
func NewSignalHandler() *SignalHandler {
	return &SignalHandler{
		signals: make(chan os.Signal, 1),
		rescan:  make(chan struct{}, 1),
		done:    make(chan struct{}),
	}
}

// Setup registers signal handlers.
func (h *SignalHandler) Setup() {
	signal.Notify(h.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
}

// Rescan delivers one value per SIGHUP received by Wait.
func (h *SignalHandler) Rescan() <-chan struct{} {
	return h.rescan
}

// Wait blocks until a shutdown signal arrives, ctx is cancelled or Stop is
// called. It returns the shutdown signal, or nil when not stopped by one.
func (h *SignalHandler) Wait(ctx context.Context) os.Signal {
	for {
		select {
		case sig := <-h.signals:
			if sig == syscall.SIGHUP {
				select {
				case h.rescan <- struct{}{}:
				default:
				}
				continue
			}
			return sig
		case <-ctx.Done():
			return nil
		case <-h.done:
			return nil
		}
	}
}

// Stop ends a pending Wait.
func (h *SignalHandler) Stop() {
	signal.Stop(h.signals)
	select {
	case <-h.done:
	default:
		close(h.done)
	}
}

// Cleanup unregisters the handlers.
func (h *SignalHandler) Cleanup() {
	signal.Stop(h.signals)
}
