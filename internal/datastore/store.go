// Package datastore holds the in-memory state of the tracker: behaviors,
// events and preferences. Every mutation is written through to a key-value
// backend before subscribers are notified.
package datastore

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/circles/internal/constants"
	"github.com/julianstephens/circles/internal/kv"
	"github.com/julianstephens/circles/internal/logger"
	"github.com/julianstephens/circles/internal/models"
)

var (
	// ErrInvalidBehavior is returned for a behavior without a name or with an unknown circle.
	ErrInvalidBehavior = errors.New("invalid behavior")
	// ErrInvalidEvent is returned for an event whose circle cannot be determined.
	ErrInvalidEvent = errors.New("invalid event")
	// ErrCircleMismatch is returned when an event's circle disagrees with its behavior's circle.
	ErrCircleMismatch = errors.New("event circle does not match behavior circle")
)

// State is a point-in-time copy of everything the store owns.
type State struct {
	Behaviors   []models.Behavior
	Events      []models.Event
	Preferences models.Preferences
	Version     uint64
}

// Store is the tracker's single source of truth. Construct one per process
// with New, call Initialize before trusting reads, and share the pointer.
type Store struct {
	backend kv.Store
	now     func() time.Time
	newID   func() string
	loc     *time.Location

	// initMu serializes Initialize and Reload.
	initMu sync.Mutex

	mu          sync.RWMutex
	behaviors   []models.Behavior
	events      []models.Event
	prefs       models.Preferences
	initialized bool
	version     uint64
	dirty       map[string]struct{}
	persistErr  error

	subMu       sync.Mutex
	subscribers map[uint64]func()
	nextSub     uint64
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLocation sets the time zone used for calendar-day boundaries.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithIDGenerator overrides the id source.
func WithIDGenerator(newID func() string) Option {
	return func(s *Store) { s.newID = newID }
}

func New(backend kv.Store, opts ...Option) *Store {
	s := &Store{
		backend:     backend,
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
		loc:         time.Local,
		prefs:       models.DefaultPreferences(),
		dirty:       make(map[string]struct{}),
		subscribers: make(map[uint64]func()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Location returns the time zone used for calendar-day math.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Initialize loads persisted state. It is a no-op once it has succeeded.
// Unreadable or malformed keys are logged and left at their defaults; the
// only error returned is the context's.
func (s *Store) Initialize(ctx context.Context) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()

	s.mu.RLock()
	done := s.initialized
	s.mu.RUnlock()
	if done {
		return nil
	}
	return s.load(ctx)
}

// Reload re-reads persisted state, e.g. after another process wrote to the
// backend. Keys with unpersisted local changes are kept as they are.
func (s *Store) Reload(ctx context.Context) error {
	s.initMu.Lock()
	defer s.initMu.Unlock()
	return s.load(ctx)
}

// Initialized reports whether Initialize has completed.
func (s *Store) Initialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.initialized
}

func (s *Store) load(ctx context.Context) error {
	s.mu.Lock()
	for _, key := range constants.StorageKeys {
		if err := ctx.Err(); err != nil {
			s.mu.Unlock()
			return err
		}
		if _, pending := s.dirty[key]; pending {
			continue
		}
		s.loadKeyLocked(ctx, key)
	}
	if err := ctx.Err(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.initialized = true
	s.version++
	s.mu.Unlock()

	s.notify()
	return nil
}

// loadKeyLocked replaces one collection from the backend. On failure the
// collection keeps its current value, which is the default on first load.
func (s *Store) loadKeyLocked(ctx context.Context, key string) {
	value, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		logger.Warn("Failed to read stored data, keeping current state", "key", key, "error", err)
		return
	}

	switch key {
	case constants.StorageKeyBehaviors:
		if !ok {
			s.behaviors = nil
			return
		}
		behaviors, err := decodeBehaviors(value)
		if err != nil {
			logger.Warn("Discarding malformed stored data", "key", key, "error", err)
			return
		}
		s.behaviors = behaviors
	case constants.StorageKeyEvents:
		if !ok {
			s.events = nil
			return
		}
		events, err := decodeEvents(value)
		if err != nil {
			logger.Warn("Discarding malformed stored data", "key", key, "error", err)
			return
		}
		s.events = events
	case constants.StorageKeyPreferences:
		if !ok {
			s.prefs = models.DefaultPreferences()
			return
		}
		prefs, err := decodePreferences(value)
		if err != nil {
			logger.Warn("Discarding malformed stored data", "key", key, "error", err)
			return
		}
		s.prefs = prefs
	}
}

// Subscribe registers fn to run after every change. The returned function
// removes it; calling it more than once, or from inside fn, is safe.
func (s *Store) Subscribe(fn func()) func() {
	if fn == nil {
		return func() {}
	}
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subscribers[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subscribers, id)
		s.subMu.Unlock()
	}
}

// notify runs subscribers in registration order. It must not be called with
// s.mu held so subscribers can query the store.
func (s *Store) notify() {
	s.subMu.Lock()
	ids := make([]uint64, 0, len(s.subscribers))
	for id := range s.subscribers {
		ids = append(ids, id)
	}
	s.subMu.Unlock()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		s.subMu.Lock()
		fn, ok := s.subscribers[id]
		s.subMu.Unlock()
		if ok {
			fn()
		}
	}
}

// GetVersion returns a counter bumped by every change.
func (s *Store) GetVersion() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// commitLocked records a change to the given keys and writes every pending
// key to the backend. Failed keys stay pending and are retried on the next
// commit or Flush.
func (s *Store) commitLocked(ctx context.Context, keys ...string) {
	for _, key := range keys {
		s.dirty[key] = struct{}{}
	}
	s.version++
	s.persistLocked(ctx)
}

func (s *Store) persistLocked(ctx context.Context) {
	if len(s.dirty) == 0 {
		s.persistErr = nil
		return
	}

	var failed error
	for _, key := range constants.StorageKeys {
		if _, pending := s.dirty[key]; !pending {
			continue
		}
		value, err := s.encodeLocked(key)
		if err == nil {
			err = s.backend.Set(ctx, key, value)
		}
		if err != nil {
			logger.Warn("Failed to persist change, will retry", "key", key, "error", err)
			failed = fmt.Errorf("failed to persist %s: %w", key, err)
			continue
		}
		delete(s.dirty, key)
	}
	s.persistErr = failed
}

func (s *Store) encodeLocked(key string) (string, error) {
	switch key {
	case constants.StorageKeyBehaviors:
		return encodeBehaviors(s.behaviors)
	case constants.StorageKeyEvents:
		return encodeEvents(s.events)
	case constants.StorageKeyPreferences:
		return encodePreferences(s.prefs)
	}
	return "", fmt.Errorf("unknown storage key %q", key)
}

// PersistErr returns the most recent persistence failure, or nil once every
// change has reached the backend.
func (s *Store) PersistErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistErr
}

// Flush retries any pending writes and reports whether state is fully persisted.
func (s *Store) Flush(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persistLocked(ctx)
	return s.persistErr
}

// Snapshot returns a copy of the whole state.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return State{
		Behaviors:   append([]models.Behavior(nil), s.behaviors...),
		Events:      append([]models.Event(nil), s.events...),
		Preferences: s.prefs.Clone(),
		Version:     s.version,
	}
}

// uniqueIDLocked draws ids until one is unused by the given predicate.
func (s *Store) uniqueIDLocked(taken func(string) bool) string {
	id := s.newID()
	for taken(id) {
		id = s.newID()
	}
	return id
}

// GetBehaviors returns the behaviors of one circle, or all behaviors when
// circle is empty, in insertion order.
func (s *Store) GetBehaviors(circle models.CircleType) []models.Behavior {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Behavior, 0, len(s.behaviors))
	for _, b := range s.behaviors {
		if circle == "" || b.CircleType == circle {
			out = append(out, b)
		}
	}
	return out
}

// GetBehavior looks up a behavior by id.
func (s *Store) GetBehavior(id string) (models.Behavior, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.findBehaviorLocked(id)
}

func (s *Store) findBehaviorLocked(id string) (models.Behavior, bool) {
	for _, b := range s.behaviors {
		if b.ID == id {
			return b, true
		}
	}
	return models.Behavior{}, false
}

// AddBehavior creates a behavior. The name is trimmed and must not be empty;
// the description is stored as given.
func (s *Store) AddBehavior(ctx context.Context, nb models.NewBehavior) (models.Behavior, error) {
	name := strings.TrimSpace(nb.Name)
	if name == "" {
		return models.Behavior{}, fmt.Errorf("%w: name is required", ErrInvalidBehavior)
	}
	if !nb.CircleType.Valid() {
		return models.Behavior{}, fmt.Errorf("%w: unknown circle %q", ErrInvalidBehavior, nb.CircleType)
	}

	s.mu.Lock()
	b := models.Behavior{
		ID: s.uniqueIDLocked(func(id string) bool {
			_, ok := s.findBehaviorLocked(id)
			return ok
		}),
		CircleType:  nb.CircleType,
		Name:        name,
		Description: nb.Description,
	}
	s.behaviors = append(s.behaviors, b)
	s.commitLocked(ctx, constants.StorageKeyBehaviors)
	s.mu.Unlock()

	s.notify()
	return b, nil
}

// DeleteBehavior removes a behavior. Events that reference it are kept.
// Unknown ids are ignored: nothing is persisted, the version is unchanged and
// subscribers are not notified.
func (s *Store) DeleteBehavior(ctx context.Context, id string) {
	s.mu.Lock()
	idx := -1
	for i, b := range s.behaviors {
		if b.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.behaviors = append(s.behaviors[:idx:idx], s.behaviors[idx+1:]...)
	s.commitLocked(ctx, constants.StorageKeyBehaviors)
	s.mu.Unlock()

	s.notify()
}

func sortNewestFirst(events []models.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.After(events[j].Timestamp)
	})
}

// GetEvents returns every event, most recent first.
func (s *Store) GetEvents() []models.Event {
	s.mu.RLock()
	out := append([]models.Event(nil), s.events...)
	s.mu.RUnlock()

	sortNewestFirst(out)
	return out
}

// GetEventsByCircle returns the events of one circle, most recent first.
func (s *Store) GetEventsByCircle(circle models.CircleType) []models.Event {
	s.mu.RLock()
	out := make([]models.Event, 0, len(s.events))
	for _, e := range s.events {
		if e.CircleType == circle {
			out = append(out, e)
		}
	}
	s.mu.RUnlock()

	sortNewestFirst(out)
	return out
}

// AddEvent logs an occurrence of a behavior at the current instant.
//
// When the behavior is known its circle is authoritative: an empty
// ne.CircleType is filled in and a different one is rejected. Events for
// unknown behaviors need an explicit circle. Logging an inner-circle event
// restarts the sobriety streak at the event's timestamp.
func (s *Store) AddEvent(ctx context.Context, ne models.NewEvent) (models.Event, error) {
	s.mu.Lock()

	circle := ne.CircleType
	if b, ok := s.findBehaviorLocked(ne.BehaviorID); ok {
		if circle == "" {
			circle = b.CircleType
		} else if circle != b.CircleType {
			s.mu.Unlock()
			return models.Event{}, fmt.Errorf("%w: behavior %q is %s, event is %s", ErrCircleMismatch, b.Name, b.CircleType, circle)
		}
	}
	if !circle.Valid() {
		s.mu.Unlock()
		return models.Event{}, fmt.Errorf("%w: unknown circle %q", ErrInvalidEvent, circle)
	}

	e := models.Event{
		ID: s.uniqueIDLocked(func(id string) bool {
			for _, existing := range s.events {
				if existing.ID == id {
					return true
				}
			}
			return false
		}),
		BehaviorID: ne.BehaviorID,
		CircleType: circle,
		// stored precision, so a reload yields the identical instant
		Timestamp: s.now().UTC().Truncate(time.Millisecond),
		Note:      ne.Note,
	}
	s.events = append(s.events, e)

	keys := []string{constants.StorageKeyEvents}
	if circle == models.CircleInner {
		ts := e.Timestamp
		s.prefs.SobrietyStartDate = &ts
		keys = append(keys, constants.StorageKeyPreferences)
	}
	s.commitLocked(ctx, keys...)
	s.mu.Unlock()

	s.notify()
	return e, nil
}

// DeleteEvent removes an event. The sobriety start date is not rewound.
// Unknown ids are ignored: nothing is persisted, the version is unchanged and
// subscribers are not notified.
func (s *Store) DeleteEvent(ctx context.Context, id string) {
	s.mu.Lock()
	idx := -1
	for i, e := range s.events {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.events = append(s.events[:idx:idx], s.events[idx+1:]...)
	s.commitLocked(ctx, constants.StorageKeyEvents)
	s.mu.Unlock()

	s.notify()
}
