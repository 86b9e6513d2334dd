// Package inventory holds the Storage Quest state model: the catalogue of
// item definitions and instances, the storage units with their slot grids,
// and the operations that move instances between the inventory pool and
// grid cells.
//
// A Store owns one types.State. Every mutation runs under a single write
// lock and either applies completely or returns an error and leaves the
// state untouched. Readers receive deep copies.
package inventory

import (
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/mesh-intelligence/storagequest/pkg/types"
)

// Store is the single mutable owner of an inventory state.
type Store struct {
	mu    sync.RWMutex
	state types.State

	now   func() time.Time
	newID func() string
	log   logrus.FieldLogger

	// notifyMu is taken before mu is released so subscribers see
	// snapshots in mutation order.
	notifyMu sync.Mutex
	subMu    sync.Mutex
	subs     map[int]func(types.State)
	nextSub  int
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the clock used for ItemInstance.CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the UUID v7 generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(log logrus.FieldLogger) Option {
	return func(s *Store) { s.log = log }
}

// New returns a store owning a normalized copy of state.
func New(state types.State, opts ...Option) *Store {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	s := &Store{
		state: state.Clone().Normalize(),
		now:   time.Now,
		newID: generateUUID,
		log:   discard,
		subs:  make(map[int]func(types.State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() types.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// Subscribe registers fn to receive a snapshot after every successful
// mutation. fn runs outside the store lock but must not mutate the store
// synchronously. The returned function unregisters fn.
func (s *Store) Subscribe(fn func(types.State)) (cancel func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.subMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.subMu.Lock()
			delete(s.subs, id)
			s.subMu.Unlock()
		})
	}
}

// mutate runs fn under the write lock. fn must validate before it writes so
// that a returned error means the state was not touched. On success the
// subscribers are notified with a snapshot taken under the same lock.
func (s *Store) mutate(op string, fn func(st *types.State) error) error {
	s.mu.Lock()
	if err := fn(&s.state); err != nil {
		s.mu.Unlock()
		s.log.WithError(err).WithField("op", op).Debug("mutation rejected")
		return err
	}

	subs := s.subscribers()
	if len(subs) == 0 {
		s.mu.Unlock()
		return nil
	}
	snap := s.state.Clone()
	s.notifyMu.Lock()
	s.mu.Unlock()
	defer s.notifyMu.Unlock()

	for _, fn := range subs {
		fn(snap.Clone())
	}
	return nil
}

func (s *Store) subscribers() []func(types.State) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if len(s.subs) == 0 {
		return nil
	}
	ids := make([]int, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	// Registration order.
	sort.Ints(ids)
	out := make([]func(types.State), 0, len(ids))
	for _, id := range ids {
		out = append(out, s.subs[id])
	}
	return out
}

// generateUUID generates a new UUID v7 for entity IDs.
func generateUUID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
