package history

import (
	"container/list"
	"fmt"
	"sync"
)

// LRUStore keeps the most recent records in memory. With a backing
// Store, saves are written through and misses are read back from it.
type LRUStore struct {
	mu      sync.Mutex
	cap     int
	back    Store                    // nil keeps history in memory only
	order   *list.List               // of *Record, most recent first
	entries map[string]*list.Element // run ID to element in order
}

// NewLRUStore returns a store holding at most capacity records (minimum 1).
// back may be nil.
func NewLRUStore(capacity int, back Store) *LRUStore {
	return &LRUStore{
		cap:     max(capacity, 1),
		back:    back,
		order:   list.New(),
		entries: make(map[string]*list.Element),
	}
}

// Len returns the number of records held in memory.
func (s *LRUStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

func (s *LRUStore) Save(rec *Record) error {
	s.mu.Lock()
	s.add(rec)
	s.mu.Unlock()

	if s.back != nil {
		return s.back.Save(rec)
	}
	return nil
}

func (s *LRUStore) Load(runID string) (*Record, error) {
	s.mu.Lock()
	el, ok := s.entries[runID]
	if ok {
		s.order.MoveToFront(el)
	}
	s.mu.Unlock()
	if ok {
		return el.Value.(*Record), nil
	}

	if s.back == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, runID)
	}
	rec, err := s.back.Load(runID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.add(rec)
	s.mu.Unlock()
	return rec, nil
}

// add inserts or refreshes rec and evicts past capacity. s.mu is held.
func (s *LRUStore) add(rec *Record) {
	if el, ok := s.entries[rec.ID]; ok {
		el.Value = rec
		s.order.MoveToFront(el)
		return
	}
	s.entries[rec.ID] = s.order.PushFront(rec)
	for s.order.Len() > s.cap {
		oldest := s.order.Back()
		s.order.Remove(oldest)
		delete(s.entries, oldest.Value.(*Record).ID)
	}
}
