// Package util contains small shared helpers.
package util

import "sync"

// KeyedMutex serializes critical sections per key. Scans of the same child
// take the child's lock so the debounce check and the idempotent dispatch
// creation stay race-free, while scans of different children proceed
// independently.
//
// Locks are reference counted and removed from the table once the last
// holder releases them, so the table does not grow with the number of
// distinct keys seen.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	mu   sync.Mutex
	refs int
}

// NewKeyedMutex creates an empty lock table.
func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{locks: make(map[string]*keyedLock)}
}

// Lock acquires the lock for key, blocking while another goroutine holds it.
func (k *KeyedMutex) Lock(key string) {
	k.mu.Lock()
	lock, ok := k.locks[key]
	if !ok {
		lock = &keyedLock{}
		k.locks[key] = lock
	}
	lock.refs++
	k.mu.Unlock()

	lock.mu.Lock()
}

// Unlock releases the lock for key.
func (k *KeyedMutex) Unlock(key string) {
	k.mu.Lock()
	lock, ok := k.locks[key]
	if ok {
		lock.refs--
		if lock.refs == 0 {
			delete(k.locks, key)
		}
	}
	k.mu.Unlock()

	if ok {
		lock.mu.Unlock()
	}
}
