package history

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"
)

const (
	DefaultSlot     = "pf_license_history"
	DefaultCapacity = 50
)

// Options addresses the persisted slot and bounds the log.
type Options struct {
	Slot     string
	Capacity int
}

// DefaultOptions returns the slot name and capacity used by the web tool.
func DefaultOptions() Options {
	return Options{Slot: DefaultSlot, Capacity: DefaultCapacity}
}

// loadOutcome says how a slot read ended. Everything except loaded
// degrades to an empty log; a corrupt slot is overwritten by the next Append.
type loadOutcome int

const (
	loaded loadOutcome = iota
	absent
	unreadable
	malformed
)

func (o loadOutcome) String() string {
	switch o {
	case loaded:
		return "loaded"
	case absent:
		return "absent"
	case unreadable:
		return "unreadable"
	case malformed:
		return "malformed"
	}
	return "unknown"
}

// Store keeps the newest-first generation log in a single storage slot.
//
// Writers in one process are serialized by the store. Processes sharing a
// slot are not coordinated: concurrent appends from two processes can lose
// one record (last write wins).
type Store struct {
	storage Storage
	opts    Options
	mu      sync.Mutex
}

// NewStore creates a store over storage. Zero option fields take defaults.
func NewStore(storage Storage, opts Options) *Store {
	if opts.Slot == "" {
		opts.Slot = DefaultSlot
	}
	if opts.Capacity <= 0 {
		opts.Capacity = DefaultCapacity
	}
	return &Store{storage: storage, opts: opts}
}

// Slot returns the storage key the log lives under.
func (s *Store) Slot() string { return s.opts.Slot }

// Capacity returns the maximum number of retained records.
func (s *Store) Capacity() int { return s.opts.Capacity }

// List returns a snapshot of the log, newest first. A missing, unreadable
// or malformed slot yields an empty log rather than an error.
func (s *Store) List(ctx context.Context) []Record {
	records, _ := s.load(ctx)
	return records
}

// Append inserts record at the front of the log, drops entries beyond
// capacity and writes the whole log back.
func (s *Store) Append(ctx context.Context, record Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, _ := s.load(ctx)
	n := len(current) + 1
	if n > s.opts.Capacity {
		n = s.opts.Capacity
	}
	next := make([]Record, 0, n)
	next = append(next, record)
	next = append(next, current[:n-1]...)

	data, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if err := s.storage.Write(ctx, s.opts.Slot, string(data)); err != nil {
		return fmt.Errorf("write history slot %q: %w", s.opts.Slot, err)
	}

	log.Debug().
		Str("slot", s.opts.Slot).
		Str("device_id", record.DeviceID).
		Int("entries", len(next)).
		Msg("History appended")
	return nil
}

// Clear deletes the slot. Clearing an empty log is not an error.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.storage.Delete(ctx, s.opts.Slot); err != nil {
		return fmt.Errorf("delete history slot %q: %w", s.opts.Slot, err)
	}
	log.Debug().Str("slot", s.opts.Slot).Msg("History cleared")
	return nil
}

func (s *Store) load(ctx context.Context) ([]Record, loadOutcome) {
	raw, ok, err := s.storage.Read(ctx, s.opts.Slot)
	if err != nil {
		log.Warn().Err(err).Str("slot", s.opts.Slot).Msg("History slot unreadable, treating as empty")
		return []Record{}, unreadable
	}
	if !ok {
		return []Record{}, absent
	}

	var entries []*Record
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		log.Warn().Err(err).Str("slot", s.opts.Slot).Msg("History slot malformed, treating as empty")
		return []Record{}, malformed
	}
	records := make([]Record, 0, len(entries))
	for i, e := range entries {
		if !e.wellFormed() {
			log.Warn().Str("slot", s.opts.Slot).Int("entry", i).Msg("History slot has wrong-shaped entries, treating as empty")
			return []Record{}, malformed
		}
		records = append(records, *e)
	}
	return records, loaded
}
