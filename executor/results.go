// Copyright (C) 2025, Lux Industries, Inc.
// See the file LICENSE for licensing terms.

package executor

import (
	"errors"
	"sync"

	"github.com/luxfi/fhe16"
)

// ErrUnknownHandle is returned when no ciphertext is held for a handle
var ErrUnknownHandle = errors.New("no ciphertext for handle")

// ResultStore is a bounded FIFO store of ciphertexts keyed by handle, with
// single-flight fetching for handles published outside the local process.
// Handles are content-addressed, so a stored value never changes; eviction
// only forces a refetch.
type ResultStore struct {
	lk       sync.RWMutex
	results  map[fhe16.Handle]Ciphertext
	queue    []fhe16.Handle
	capacity int

	inflight   map[fhe16.Handle]*fetch
	inflightLk sync.Mutex
}

// fetch represents an in-flight fetch operation
type fetch struct {
	wg  sync.WaitGroup
	ct  Ciphertext
	err error
}

// FetchFunc retrieves a ciphertext published under a handle from an
// external result channel
type FetchFunc func(fhe16.Handle) (Ciphertext, error)

// NewResultStore creates a result store holding up to [capacity] ciphertexts
func NewResultStore(capacity int) *ResultStore {
	return &ResultStore{
		results:  make(map[fhe16.Handle]Ciphertext),
		queue:    make([]fhe16.Handle, 0, capacity),
		capacity: capacity,
		inflight: make(map[fhe16.Handle]*fetch),
	}
}

// Put stores a ciphertext under its handle, evicting the oldest entry if at
// capacity
func (s *ResultStore) Put(handle fhe16.Handle, ct Ciphertext) {
	s.lk.Lock()
	defer s.lk.Unlock()
	s.set(handle, ct)
}

// Cached returns the ciphertext for a handle if held locally
func (s *ResultStore) Cached(handle fhe16.Handle) (Ciphertext, bool) {
	s.lk.RLock()
	defer s.lk.RUnlock()
	ct, ok := s.results[handle]
	return ct, ok
}

// Get retrieves the ciphertext for a handle, fetching it with fetchFunc if
// not held. Concurrent gets for the same handle share one fetch.
func (s *ResultStore) Get(handle fhe16.Handle, fetchFunc FetchFunc) (Ciphertext, error) {
	s.lk.RLock()
	if ct, ok := s.results[handle]; ok {
		s.lk.RUnlock()
		return ct, nil
	}
	s.lk.RUnlock()

	s.inflightLk.Lock()
	if f, ok := s.inflight[handle]; ok {
		// Another goroutine is already fetching this handle
		s.inflightLk.Unlock()
		f.wg.Wait()
		return f.ct, f.err
	}

	f := &fetch{}
	f.wg.Add(1)
	s.inflight[handle] = f
	s.inflightLk.Unlock()

	ct, err := fetchFunc(handle)
	f.ct = ct
	f.err = err

	if err == nil {
		s.lk.Lock()
		s.set(handle, ct)
		s.lk.Unlock()
	}

	s.inflightLk.Lock()
	delete(s.inflight, handle)
	s.inflightLk.Unlock()

	f.wg.Done()

	return ct, err
}

// set adds an entry (caller must hold the write lock)
func (s *ResultStore) set(handle fhe16.Handle, ct Ciphertext) {
	if _, exists := s.results[handle]; exists {
		// Content-addressed: same handle, same value
		return
	}

	if len(s.queue) >= s.capacity {
		oldest := s.queue[0]
		s.queue = s.queue[1:]
		delete(s.results, oldest)
	}

	s.results[handle] = ct
	s.queue = append(s.queue, handle)
}

// Len returns the number of ciphertexts held
func (s *ResultStore) Len() int {
	s.lk.RLock()
	defer s.lk.RUnlock()
	return len(s.results)
}
