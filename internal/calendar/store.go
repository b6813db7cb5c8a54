// Package calendar keeps the week-keyed event cache behind the calendar
// views: fetch-on-select, debounced refetch after real-time pushes, and
// optimistic mutations with rollback.
package calendar

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/ethanhollins/cc-web-sub001/internal/clock"
	"github.com/ethanhollins/cc-web-sub001/internal/domain"
	"github.com/google/uuid"
)

// DefaultMinInterval is the minimum spacing between network fetches of the
// same week.
const DefaultMinInterval = 30 * time.Second

var (
	// ErrClosed is returned by operations on a closed Store.
	ErrClosed = errors.New("calendar store closed")

	// ErrPendingEvent is returned when deleting an event whose create has
	// not been confirmed by the server yet.
	ErrPendingEvent = errors.New("event is still being created")
)

// Backend is the slice of the events API the store needs.
type Backend interface {
	ListEvents(ctx context.Context, start, end time.Time) ([]domain.CalendarEvent, error)
	CreateEvent(ctx context.Context, in domain.EventInput) (*domain.CalendarEvent, error)
	UpdateEvent(ctx context.Context, id string, patch domain.EventPatch) (*domain.CalendarEvent, error)
	DeleteEvent(ctx context.Context, id string) error
}

// Snapshot is what listeners receive after every change.
type Snapshot struct {
	Week    time.Time
	Key     string
	Events  []domain.CalendarEvent
	Loading bool
}

// Option configures a Store.
type Option func(*Store)

// WithClock replaces the wall clock, for tests.
func WithClock(c clock.Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithMinInterval overrides the debounce window.
func WithMinInterval(d time.Duration) Option {
	return func(s *Store) { s.minInterval = d }
}

// WithLogger sets the logger used for fetch and rollback failures.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithLocation sets the zone in which week boundaries are computed.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithIDGenerator replaces the generator for temporary event ids.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) { s.newID = fn }
}

// inflight tracks the single network fetch the store allows at a time.
type inflight struct {
	key    string
	gen    uint64
	cancel context.CancelFunc
	done   chan struct{}
}

// Store owns the events-by-week cache. All methods are safe for concurrent
// use; network calls are made without holding the lock.
type Store struct {
	backend     Backend
	clock       clock.Clock
	minInterval time.Duration
	logger      *slog.Logger
	loc         *time.Location
	newID       func() string

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	cache     map[string][]domain.CalendarEvent
	lastFetch map[string]time.Time
	stale     map[string]bool
	week      time.Time
	key       string
	visible   []domain.CalendarEvent
	gen       uint64
	current   *inflight
	trailing  clock.Timer
	listeners map[int]func(Snapshot)
	nextSub   int
	fetches   int
	closed    bool
}

// NewStore creates a Store over backend.
func NewStore(backend Backend, opts ...Option) *Store {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Store{
		backend:     backend,
		clock:       clock.Real{},
		minInterval: DefaultMinInterval,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		loc:         time.Local,
		newID:       func() string { return uuid.New().String() },
		ctx:         ctx,
		cancel:      cancel,
		cache:       make(map[string][]domain.CalendarEvent),
		lastFetch:   make(map[string]time.Time),
		stale:       make(map[string]bool),
		listeners:   make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select makes the week containing date visible. A cached week is returned
// without a network call unless a real-time push marked it stale and the
// debounce window has passed; otherwise the week is fetched and cached.
func (s *Store) Select(ctx context.Context, date time.Time) ([]domain.CalendarEvent, error) {
	date = date.In(s.loc)
	start := domain.WeekStart(date)
	key := domain.WeekKey(date)

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if key != s.key {
		s.stopTrailingLocked()
		if s.current != nil && s.current.key != key {
			s.current.cancel()
		}
	}
	s.week, s.key = start, key

	if cached, ok := s.cache[key]; ok {
		s.visible = cloneEvents(cached)
		if !s.stale[key] || !s.windowElapsedLocked(key) {
			if s.stale[key] {
				s.scheduleTrailingLocked(key)
			}
			snap := s.snapshotLocked()
			s.mu.Unlock()
			s.notify(snap)
			return cloneEvents(cached), nil
		}
	} else {
		s.visible = nil
	}
	s.mu.Unlock()

	return s.fetch(ctx, key, start)
}

// NotifyRealtime reacts to a WebSocket push: every cached week becomes
// stale and the visible week is refetched, bypassing the cache. Inside the
// debounce window a single trailing refetch is scheduled instead.
func (s *Store) NotifyRealtime(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	for k := range s.cache {
		s.stale[k] = true
	}
	key, start := s.key, s.week
	if key == "" {
		s.mu.Unlock()
		return nil
	}
	if !s.windowElapsedLocked(key) {
		s.scheduleTrailingLocked(key)
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	_, err := s.fetch(ctx, key, start)
	return err
}

// Refresh forces a refetch of the visible week regardless of the debounce
// window.
func (s *Store) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	key, start := s.key, s.week
	s.stopTrailingLocked()
	s.mu.Unlock()
	if key == "" {
		return nil
	}
	_, err := s.fetch(ctx, key, start)
	return err
}

// Apply runs an optimistic mutation over the visible events and stores the
// result in both the visible slice and the visible week's cache entry, so
// switching weeks and back still shows the local edit.
func (s *Store) Apply(fn func([]domain.CalendarEvent) []domain.CalendarEvent) {
	s.mu.Lock()
	next := fn(cloneEvents(s.visible))
	domain.SortEvents(next)
	s.visible = next
	if s.key != "" {
		s.cache[s.key] = cloneEvents(next)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

// Upsert places ev in the cache for the week its start falls in, replacing
// any event with the same id. Nothing is sent to the backend.
func (s *Store) Upsert(ev domain.CalendarEvent) {
	s.mutate(func() { s.placeLocked(ev) })
}

// Remove drops the event with id from every cached week without calling
// the backend, returning what was removed.
func (s *Store) Remove(id string) (domain.CalendarEvent, bool) {
	s.mu.Lock()
	prev, found := s.findLocked(id)
	if !found {
		s.mu.Unlock()
		return domain.CalendarEvent{}, false
	}
	s.removeLocked(id)
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
	return prev, true
}

// Create adds a temporary event immediately and replaces it with the
// server's version once confirmed. On failure the temporary event is
// dropped.
func (s *Store) Create(ctx context.Context, in domain.EventInput) (*domain.CalendarEvent, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	tmp := in.ToEvent(domain.TempIDPrefix + s.newID())
	s.mutate(func() { s.placeLocked(tmp) })

	created, err := s.backend.CreateEvent(ctx, in)
	if err != nil {
		s.mutate(func() { s.removeLocked(tmp.ID) })
		s.logger.Error("create event failed, rolled back", "title", in.Title, "error", err)
		return nil, fmt.Errorf("creating event: %w", err)
	}

	s.mutate(func() {
		s.removeLocked(tmp.ID)
		s.placeLocked(*created)
	})
	return created, nil
}

// Update applies patch locally, then on the server. The previous version
// is restored if the server rejects it.
func (s *Store) Update(ctx context.Context, id string, patch domain.EventPatch) (*domain.CalendarEvent, error) {
	s.mu.Lock()
	prev, found := s.findLocked(id)
	if found {
		next := patch.Apply(prev)
		if err := next.Validate(); err != nil {
			s.mu.Unlock()
			return nil, err
		}
		s.placeLocked(next)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	if found {
		s.notify(snap)
	}

	updated, err := s.backend.UpdateEvent(ctx, id, patch)
	if err != nil {
		if found {
			s.mutate(func() { s.placeLocked(prev) })
		}
		s.logger.Error("update event failed, rolled back", "id", id, "error", err)
		return nil, fmt.Errorf("updating event %s: %w", id, err)
	}

	s.mutate(func() { s.placeLocked(*updated) })
	return updated, nil
}

// Delete removes the event immediately and restores it if the server call
// fails.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	prev, found := s.findLocked(id)
	if found && prev.IsPending() {
		s.mu.Unlock()
		return ErrPendingEvent
	}
	if found {
		s.removeLocked(id)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	if found {
		s.notify(snap)
	}

	if err := s.backend.DeleteEvent(ctx, id); err != nil {
		if found {
			s.mutate(func() { s.placeLocked(prev) })
		}
		s.logger.Error("delete event failed, rolled back", "id", id, "error", err)
		return fmt.Errorf("deleting event %s: %w", id, err)
	}
	return nil
}

// Events returns a copy of the visible events.
func (s *Store) Events() []domain.CalendarEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneEvents(s.visible)
}

// Week returns the start of the visible week (zero before the first Select).
func (s *Store) Week() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.week
}

// Event looks an event up in the visible week first, then in every cached
// week.
func (s *Store) Event(id string) (domain.CalendarEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(id)
}

// Cached returns the cache entry for the week containing date.
func (s *Store) Cached(date time.Time) ([]domain.CalendarEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	events, ok := s.cache[domain.WeekKey(date.In(s.loc))]
	return cloneEvents(events), ok
}

// FetchCount returns the number of network fetches issued so far.
func (s *Store) FetchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fetches
}

// Location returns the zone week boundaries are computed in.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Close cancels any in-flight fetch and pending trailing refetch.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.stopTrailingLocked()
	if s.current != nil {
		s.current.cancel()
	}
	s.cancel()
}

// fetch loads one week from the backend. Only one fetch runs at a time: a
// second caller for the same week waits for the first, and a fetch for a
// different week cancels it.
func (s *Store) fetch(ctx context.Context, key string, start time.Time) ([]domain.CalendarEvent, error) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil, ErrClosed
	}
	if cur := s.current; cur != nil {
		if cur.key == key {
			s.mu.Unlock()
			// Giving up on the wait is treated like an aborted fetch: the
			// caller gets what is cached.
			select {
			case <-cur.done:
			case <-ctx.Done():
			}
			s.mu.Lock()
			cached := cloneEvents(s.cache[key])
			s.mu.Unlock()
			return cached, nil
		}
		cur.cancel()
	}

	fctx, cancel := context.WithCancel(ctx)
	s.gen++
	f := &inflight{key: key, gen: s.gen, cancel: cancel, done: make(chan struct{})}
	s.current = f
	s.lastFetch[key] = s.clock.Now()
	s.fetches++
	loading := s.snapshotLocked()
	loading.Loading = true
	s.mu.Unlock()
	s.notify(loading)

	events, err := s.backend.ListEvents(fctx, start, start.AddDate(0, 0, 7))
	aborted := fctx.Err() != nil
	cancel()

	s.mu.Lock()
	if s.current == f {
		s.current = nil
	}
	defer close(f.done)

	if err != nil || aborted {
		cached := cloneEvents(s.cache[key])
		s.mu.Unlock()
		if aborted || errors.Is(err, context.Canceled) {
			return cached, nil
		}
		s.logger.Error("fetching events failed", "week", key, "error", err)
		return nil, fmt.Errorf("fetching week %s: %w", key, err)
	}

	domain.SortEvents(events)
	// Keep local creates that the server has not confirmed yet.
	for _, ev := range s.cache[key] {
		if ev.IsPending() {
			events = append(events, ev)
		}
	}
	domain.SortEvents(events)
	s.cache[key] = events
	delete(s.stale, key)
	if s.key == key {
		s.visible = cloneEvents(events)
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
	return cloneEvents(events), nil
}

func (s *Store) onTrailing() {
	s.mu.Lock()
	s.trailing = nil
	if s.closed || s.key == "" || !s.stale[s.key] {
		s.mu.Unlock()
		return
	}
	key, start := s.key, s.week
	s.mu.Unlock()

	if _, err := s.fetch(s.ctx, key, start); err != nil {
		s.logger.Error("trailing refetch failed", "week", key, "error", err)
	}
}

func (s *Store) windowElapsedLocked(key string) bool {
	last, ok := s.lastFetch[key]
	if !ok {
		return true
	}
	return s.clock.Now().Sub(last) >= s.minInterval
}

func (s *Store) scheduleTrailingLocked(key string) {
	if s.trailing != nil {
		return
	}
	wait := s.minInterval - s.clock.Now().Sub(s.lastFetch[key])
	if wait < 0 {
		wait = 0
	}
	s.trailing = s.clock.AfterFunc(wait, s.onTrailing)
}

func (s *Store) stopTrailingLocked() {
	if s.trailing != nil {
		s.trailing.Stop()
		s.trailing = nil
	}
}

// mutate runs fn under the lock, then notifies listeners.
func (s *Store) mutate(fn func()) {
	s.mu.Lock()
	fn()
	snap := s.snapshotLocked()
	s.mu.Unlock()
	s.notify(snap)
}

func (s *Store) findLocked(id string) (domain.CalendarEvent, bool) {
	if i := domain.FindEvent(s.visible, id); i >= 0 {
		return s.visible[i], true
	}
	for _, events := range s.cache {
		if i := domain.FindEvent(events, id); i >= 0 {
			return events[i], true
		}
	}
	return domain.CalendarEvent{}, false
}

// placeLocked removes ev from every cached week and inserts it into the
// week its start falls in, when that week is cached or visible.
func (s *Store) placeLocked(ev domain.CalendarEvent) {
	s.dropLocked(ev.ID)
	key := domain.WeekKey(ev.Start.In(s.loc))
	if entry, ok := s.cache[key]; ok || key == s.key {
		entry = append(entry, ev)
		domain.SortEvents(entry)
		s.cache[key] = entry
	}
	s.syncVisibleLocked()
}

func (s *Store) removeLocked(id string) {
	s.dropLocked(id)
	s.syncVisibleLocked()
}

func (s *Store) dropLocked(id string) {
	for key, events := range s.cache {
		if i := domain.FindEvent(events, id); i >= 0 {
			next := make([]domain.CalendarEvent, 0, len(events)-1)
			next = append(next, events[:i]...)
			next = append(next, events[i+1:]...)
			s.cache[key] = next
		}
	}
}

func (s *Store) syncVisibleLocked() {
	if s.key == "" {
		return
	}
	s.visible = cloneEvents(s.cache[s.key])
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{Week: s.week, Key: s.key, Events: cloneEvents(s.visible)}
}

func (s *Store) notify(snap Snapshot) {
	s.mu.Lock()
	fns := make([]func(Snapshot), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()
	for _, fn := range fns {
		fn(snap)
	}
}

func cloneEvents(events []domain.CalendarEvent) []domain.CalendarEvent {
	if events == nil {
		return nil
	}
	out := make([]domain.CalendarEvent, len(events))
	copy(out, events)
	return out
}
