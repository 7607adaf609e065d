// Package inmemorystore provides an ephemeral, thread-safe, in-memory
// record store.
//
// # Purpose
//
// Controllers that are registered without an explicit implementation are
// auto-provisioned with generic create/read/update/delete actions. Those
// actions need somewhere to keep records, and this store is it: one Store
// per controller instance, created in the controller's Load hook and
// discarded with the service.
//
// # Characteristics
//
//   - **Ephemeral:** Nothing is written to disk; records live as long as the process
//   - **Thread-Safe:** Backed by go-cache, which guards its map internally
//   - **No Expiry:** Items are stored with cache.NoExpiration and no janitor runs
//   - **Copy Semantics:** Records are copied on the way in and out, so callers never share maps
//
// Read-modify-write (Update) is serialized with a store-level mutex so two
// concurrent updates of the same record cannot lose each other's fields.
package inmemorystore

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// IDField is the record attribute holding the record's identifier.
const IDField = "id"

var (
	// ErrNotFound is returned when no record exists for an ID.
	ErrNotFound = errors.New("inmemorystore: record not found")
	// ErrFull is returned by CreateCapped when the store holds max records.
	ErrFull = errors.New("inmemorystore: record limit reached")
)

// Record is a single stored item. Values are whatever the request payload
// carried; the store never interprets them.
type Record map[string]any

func (r Record) clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Store keeps records keyed by ID.
type Store struct {
	items *cache.Cache
	mu    sync.Mutex // serializes Update, Delete and CreateCapped
}

// New creates a new, empty store.
func New() *Store {
	return &Store{items: cache.New(cache.NoExpiration, 0)}
}

// Create stores a copy of rec under a fresh ID and returns the stored record.
// An ID already present in rec is ignored.
func (s *Store) Create(ctx context.Context, rec Record) (Record, error) {
	stored := rec.clone()
	id := uuid.NewString()
	stored[IDField] = id
	if err := s.items.Add(id, stored, cache.NoExpiration); err != nil {
		return nil, err
	}
	return stored.clone(), nil
}

// CreateCapped is Create for a store limited to max records. The count check
// and the insert happen under one lock; max <= 0 means unlimited.
func (s *Store) CreateCapped(ctx context.Context, rec Record, max int) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if max > 0 && s.items.ItemCount() >= max {
		return nil, ErrFull
	}
	return s.Create(ctx, rec)
}

// Get returns the record stored under id.
func (s *Store) Get(ctx context.Context, id string) (Record, error) {
	v, ok := s.items.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return v.(Record).clone(), nil
}

// Update merges fields into the record stored under id. The ID itself cannot
// be changed.
func (s *Store) Update(ctx context.Context, id string, fields Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.items.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	updated := v.(Record).clone()
	for k, val := range fields {
		if k == IDField {
			continue
		}
		updated[k] = val
	}
	if err := s.items.Replace(id, updated, cache.NoExpiration); err != nil {
		return nil, ErrNotFound
	}
	return updated.clone(), nil
}

// Delete removes the record stored under id.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items.Get(id); !ok {
		return ErrNotFound
	}
	s.items.Delete(id)
	return nil
}

// List returns copies of all records ordered by ID.
func (s *Store) List(ctx context.Context) []Record {
	items := s.items.Items()
	records := make([]Record, 0, len(items))
	for _, item := range items {
		records = append(records, item.Object.(Record).clone())
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i][IDField].(string) < records[j][IDField].(string)
	})
	return records
}

// Len returns the number of stored records.
func (s *Store) Len() int { return s.items.ItemCount() }
