// Package document holds the index-aligned source/translation table that
// the rest of the application shares. The store is created once per
// successful document load and its length never changes afterwards; loading
// a new document replaces the whole store rather than mutating the old one.
package document

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// Status is the per-paragraph translation state.
type Status int

const (
	StatusPending Status = iota
	StatusTranslating
	StatusDone
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "Pending"
	case StatusTranslating:
		return "Translating"
	case StatusDone:
		return "Done"
	case StatusFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// Unit is one paragraph of the document together with its translation.
// When Status is StatusFailed the translation holds a copy of the source
// text so the reader always has something to show.
type Unit struct {
	Source      string
	Translation string
	Status      Status
}

var (
	// ErrIndexOutOfRange is returned for indices outside [0, Len()).
	ErrIndexOutOfRange = errors.New("unit index out of range")

	// ErrBadTransition is returned when a status change is requested that
	// the unit state machine does not allow. The unit is left untouched.
	ErrBadTransition = errors.New("illegal status transition")
)

// Observer is notified after every successful status change.
type Observer func(index int, status Status)

// generationCounter hands out process-unique store generations.
var generationCounter atomic.Int64

// Store is the fixed-length table of alignment units. Writes to different
// indices never contend: each unit carries its own lock.
type Store struct {
	units []storeUnit
	gen   int64

	obsMu     sync.RWMutex
	observers []Observer
}

type storeUnit struct {
	mu   sync.Mutex
	unit Unit
}

// New creates a store with one pending unit per paragraph. An empty
// paragraph slice yields a valid zero-length store.
func New(paragraphs []string) *Store {
	s := &Store{
		units: make([]storeUnit, len(paragraphs)),
		gen:   generationCounter.Add(1),
	}
	for i, p := range paragraphs {
		s.units[i].unit = Unit{Source: p, Status: StatusPending}
	}
	return s
}

// Len returns the number of units. Fixed for the lifetime of the store.
func (s *Store) Len() int {
	return len(s.units)
}

// Generation identifies which document load this store belongs to. The
// scheduler uses it to drop results that arrive after the store has been
// replaced.
func (s *Store) Generation() int64 {
	return s.gen
}

// Unit returns a copy of the unit at index i.
func (s *Store) Unit(i int) (Unit, error) {
	if i < 0 || i >= len(s.units) {
		return Unit{}, fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, len(s.units))
	}
	su := &s.units[i]
	su.mu.Lock()
	defer su.mu.Unlock()
	return su.unit, nil
}

// SetTranslation transitions unit i and stores the new translation text
// atomically. Legal transitions are Pending/Failed -> Translating,
// Translating -> Done and Translating -> Failed; anything else leaves the
// unit untouched and returns ErrBadTransition. Observers are notified after
// every successful change, outside the unit lock.
func (s *Store) SetTranslation(i int, text string, status Status) error {
	if i < 0 || i >= len(s.units) {
		return fmt.Errorf("%w: %d (len %d)", ErrIndexOutOfRange, i, len(s.units))
	}

	su := &s.units[i]
	su.mu.Lock()
	if !legalTransition(su.unit.Status, status) {
		from := su.unit.Status
		su.mu.Unlock()
		return fmt.Errorf("%w: unit %d %s -> %s", ErrBadTransition, i, from, status)
	}
	su.unit.Status = status
	su.unit.Translation = text
	su.mu.Unlock()

	s.notify(i, status)
	return nil
}

func legalTransition(from, to Status) bool {
	switch to {
	case StatusTranslating:
		return from == StatusPending || from == StatusFailed
	case StatusDone, StatusFailed:
		return from == StatusTranslating
	default:
		return false
	}
}

// Subscribe registers an observer for unit status changes. Observers added
// after creation see only subsequent changes.
func (s *Store) Subscribe(obs Observer) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.observers = append(s.observers, obs)
}

func (s *Store) notify(index int, status Status) {
	s.obsMu.RLock()
	defer s.obsMu.RUnlock()
	for _, obs := range s.observers {
		obs(index, status)
	}
}

// Units returns a snapshot copy of all units, in index order.
func (s *Store) Units() []Unit {
	out := make([]Unit, len(s.units))
	for i := range s.units {
		su := &s.units[i]
		su.mu.Lock()
		out[i] = su.unit
		su.mu.Unlock()
	}
	return out
}
