package ledger

import (
	"errors"
	"sync"
)

// ErrScopeBusy is returned by Claim while another job holds the scope.
var ErrScopeBusy = errors.New("scope is busy")

type scopeLocks struct {
	mu      sync.Mutex
	writers map[string]*sync.Mutex
	claimed map[string]bool
}

func newScopeLocks() *scopeLocks {
	return &scopeLocks{
		writers: make(map[string]*sync.Mutex),
		claimed: make(map[string]bool),
	}
}

func (l *scopeLocks) writer(scope string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()

	w, ok := l.writers[scope]
	if !ok {
		w = &sync.Mutex{}
		l.writers[scope] = w
	}

	return w
}

// Claim reserves scope for a job that reads it, works for a while and writes
// it back, such as a sync cycle or an id migration. Only one claim per scope
// is held at a time; release must be called once the job is done.
func (r *Repository) Claim(scope string) (release func(), err error) {
	r.locks.mu.Lock()
	defer r.locks.mu.Unlock()

	if r.locks.claimed[scope] {
		return nil, ErrScopeBusy
	}

	r.locks.claimed[scope] = true

	return func() {
		r.locks.mu.Lock()
		defer r.locks.mu.Unlock()

		delete(r.locks.claimed, scope)
	}, nil
}

// Exclusive runs fn while holding the write lock of scope. Edits, tombstones
// and SaveNewer calls for the scope wait until fn returns, so fn must not call
// them itself.
func (r *Repository) Exclusive(scope string, fn func() error) error {
	w := r.locks.writer(scope)

	w.Lock()
	defer w.Unlock()

	return fn()
}
