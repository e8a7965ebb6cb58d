// Package history keeps the bounded, newest-first log of generated passwords
// and writes it through to the key-value store after every change.
package history

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/hpungsan/passgen/internal/db"
	"github.com/hpungsan/passgen/internal/errors"
	"github.com/hpungsan/passgen/internal/password"
)

// DefaultCapacity is the number of entries kept when no capacity is configured.
const DefaultCapacity = 50

// KV is the persistence the store writes through to.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Entry is one generated password. Entries are never mutated after creation.
type Entry struct {
	ID          string          `json:"id"`
	Password    string          `json:"password"`
	GeneratedAt time.Time       `json:"generated_at"`
	Strength    password.Result `json:"strength"`
}

// Store owns the in-memory log and its persisted copy.
type Store struct {
	mu       sync.Mutex
	kv       KV
	log      *zap.Logger
	capacity int
	entries  []Entry
	now      func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the logger used for load fallbacks and write failures.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) { s.log = log }
}

// New returns an empty Store. Call Load to pick up the persisted log.
func New(kv KV, capacity int, opts ...Option) *Store {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	s := &Store{
		kv:       kv,
		log:      zap.NewNop(),
		capacity: capacity,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Capacity returns the maximum number of entries kept.
func (s *Store) Capacity() int {
	return s.capacity
}

// Load replaces the in-memory log with the persisted one. A missing,
// unreadable or malformed record yields an empty log.
func (s *Store) Load(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = nil

	raw, ok, err := s.kv.Get(ctx, db.KeyHistory)
	if err != nil {
		s.log.Warn("history load failed, starting empty", zap.Error(err))
		return
	}
	if !ok || raw == "" {
		return
	}

	var entries []Entry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		s.log.Warn("history record malformed, starting empty", zap.Error(err))
		return
	}
	if len(entries) > s.capacity {
		entries = entries[:s.capacity]
	}
	s.entries = entries
	s.log.Debug("history loaded", zap.Int("entries", len(entries)))
}

// Record prepends a new entry for pwd, truncates the log to capacity and
// persists it. If the write fails the in-memory log keeps the new entry and
// the PERSISTENCE_FAILURE error is returned alongside it.
func (s *Store) Record(ctx context.Context, pwd string, strength *password.Result) (Entry, error) {
	if pwd == "" || strength == nil {
		return Entry{}, errors.NewInvalidRequest("password is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	id, err := ulid.New(ulid.Timestamp(now), ulid.Monotonic(rand.Reader, 0))
	if err != nil {
		return Entry{}, errors.NewInternal(fmt.Errorf("failed to generate ID: %w", err))
	}

	entry := Entry{
		ID:          id.String(),
		Password:    pwd,
		GeneratedAt: now,
		Strength:    *strength,
	}

	next := make([]Entry, 0, min(len(s.entries)+1, s.capacity))
	next = append(next, entry)
	next = append(next, s.entries...)
	if len(next) > s.capacity {
		next = next[:s.capacity]
	}
	s.entries = next

	if err := s.persist(ctx); err != nil {
		s.log.Error("history write failed", zap.Error(err))
		return entry, err
	}
	return entry, nil
}

// Clear empties the log and removes the persisted record. It returns the
// number of entries removed. Callers confirm with the user first.
func (s *Store) Clear(ctx context.Context) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.entries)
	s.entries = nil

	if err := s.kv.Delete(ctx, db.KeyHistory); err != nil {
		s.log.Error("history delete failed", zap.Error(err))
		return n, err
	}
	return n, nil
}

// Entries returns a copy of the log, newest first.
func (s *Store) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		e.Strength.Feedback = slices.Clone(e.Strength.Feedback)
		out[i] = e
	}
	return out
}

// Len returns the number of entries in the log.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// persist writes the current log. Caller holds s.mu.
func (s *Store) persist(ctx context.Context) error {
	data, err := json.Marshal(s.entries)
	if err != nil {
		return errors.NewInternal(err)
	}
	return s.kv.Set(ctx, db.KeyHistory, string(data))
}
