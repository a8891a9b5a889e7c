// Package reqlog keeps a bounded in-memory log of recent HTTP transactions
// for the dashboard. Entries are plain snapshots with no reference to live
// request state, and the newest entry is always first.
package reqlog

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

const capacity = 100

const defaultListLimit = 50

type Entry struct {
	ID        string            `json:"id"`
	Timestamp string            `json:"timestamp"`
	Method    string            `json:"method"`
	Path      string            `json:"path"`
	URL       string            `json:"url"`
	Headers   map[string]string `json:"headers"`
	Body      string            `json:"body,omitempty"`
	Query     map[string]string `json:"query,omitempty"`
	Response  string            `json:"response,omitempty"`
}

type Stats struct {
	Total    int            `json:"total"`
	ByMethod map[string]int `json:"byMethod"`
	ByPath   map[string]int `json:"byPath"`
	Oldest   string         `json:"oldest,omitempty"`
	Newest   string         `json:"newest,omitempty"`
}

type Store struct {
	mu      sync.Mutex
	entries []Entry
}

func NewStore() *Store {
	return &Store{
		entries: make([]Entry, 0, capacity),
	}
}

// Record assigns an ID and timestamp to the entry and inserts it at the
// front, evicting the oldest entry when the store is full.
func (s *Store) Record(entry Entry) Entry {
	now := time.Now()
	entry.ID = fmt.Sprintf("%d.%06d", now.UnixMilli(), rand.IntN(1_000_000))
	entry.Timestamp = now.UTC().Format(time.RFC3339)

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = append([]Entry{entry}, s.entries...)
	if len(s.entries) > capacity {
		s.entries = s.entries[:capacity]
	}

	return entry
}

// List returns up to limit entries, newest first. A non-positive limit
// falls back to the default of 50.
func (s *Store) List(limit int) []Entry {
	if limit <= 0 {
		limit = defaultListLimit
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if limit > len(s.entries) {
		limit = len(s.entries)
	}

	out := make([]Entry, limit)
	copy(out, s.entries[:limit])
	return out
}

func (s *Store) Get(id string) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, entry := range s.entries {
		if entry.ID == id {
			return entry, true
		}
	}
	return Entry{}, false
}

func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries = s.entries[:0]
}

func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{
		Total:    len(s.entries),
		ByMethod: make(map[string]int),
		ByPath:   make(map[string]int),
	}

	for _, entry := range s.entries {
		stats.ByMethod[entry.Method]++
		stats.ByPath[entry.Path]++
	}

	if len(s.entries) > 0 {
		stats.Newest = s.entries[0].Timestamp
		stats.Oldest = s.entries[len(s.entries)-1].Timestamp
	}

	return stats
}
