package persist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/storagequest/pkg/types"
)

// Syncer writes store snapshots to a backend according to a sync strategy.
// Every save writes the whole state, so only the latest pending snapshot is
// kept.
type Syncer struct {
	backend types.Backend
	log     logrus.FieldLogger

	strategy      string        // effective sync strategy: immediate, on_close, batch
	batchSize     int           // changes before a batch flush
	batchInterval time.Duration // time between batch flushes

	mu      sync.Mutex // protects pending, changes, timer and closed
	pending *types.State
	changes int
	timer   *time.Timer
	closed  bool

	// saveMu serializes flushes so snapshots reach the backend in order.
	saveMu sync.Mutex
}

// NewSyncer creates a syncer for backend. For the batch strategy the
// interval timer starts immediately.
func NewSyncer(backend types.Backend, cfg types.SyncConfig, log logrus.FieldLogger) *Syncer {
	s := &Syncer{
		backend:       backend,
		log:           log,
		strategy:      cfg.GetStrategy(),
		batchSize:     cfg.GetBatchSize(),
		batchInterval: time.Duration(cfg.GetBatchInterval()) * time.Second,
	}
	if s.strategy == types.SyncBatch && s.batchInterval > 0 {
		s.startBatchTimer()
	}
	return s
}

// Strategy returns the effective sync strategy.
func (s *Syncer) Strategy() string {
	return s.strategy
}

// Notify records a new snapshot. It is meant to be registered with
// inventory.Store.Subscribe. Immediate saves happen before Notify returns;
// errors from background saves are logged.
func (s *Syncer) Notify(st types.State) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.pending = &st
	s.changes++
	flush := s.strategy == types.SyncImmediate ||
		(s.strategy == types.SyncBatch && s.batchSize > 0 && s.changes >= s.batchSize)
	s.mu.Unlock()

	if !flush {
		return
	}
	if err := s.Flush(context.Background()); err != nil {
		s.log.WithError(err).WithField("strategy", s.strategy).Error("snapshot save failed")
	}
}

// Pending reports whether a snapshot is waiting to be saved.
func (s *Syncer) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Flush saves the pending snapshot, if any. On failure the snapshot stays
// pending unless a newer one has arrived.
func (s *Syncer) Flush(ctx context.Context) error {
	s.saveMu.Lock()
	defer s.saveMu.Unlock()

	s.mu.Lock()
	st := s.pending
	changes := s.changes
	s.pending = nil
	s.changes = 0
	s.mu.Unlock()

	if st == nil {
		return nil
	}

	start := time.Now()
	if err := s.backend.Save(ctx, *st); err != nil {
		s.mu.Lock()
		if s.pending == nil {
			s.pending = st
			s.changes += changes
		}
		s.mu.Unlock()
		return fmt.Errorf("flush snapshot: %w", err)
	}
	s.log.WithFields(logrus.Fields{
		"strategy":    s.strategy,
		"changes":     changes,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Debug("snapshot saved")
	return nil
}

// Close stops the batch timer and flushes the pending snapshot. Later
// notifications are ignored. Close is idempotent.
func (s *Syncer) Close(ctx context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	s.stopBatchTimer()
	return s.Flush(ctx)
}

// startBatchTimer starts the batch interval timer for periodic flushes.
func (s *Syncer) startBatchTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		return // already running
	}

	s.timer = time.AfterFunc(s.batchInterval, func() {
		if err := s.Flush(context.Background()); err != nil {
			s.log.WithError(err).Error("batch flush failed")
		}

		// Restart the timer
		s.mu.Lock()
		if s.timer != nil && !s.closed {
			s.timer.Reset(s.batchInterval)
		}
		s.mu.Unlock()
	})
}

// stopBatchTimer stops the batch interval timer if running.
func (s *Syncer) stopBatchTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
