package pipeline

import "sync"

// projectLocks serializes batch processing per project. Batches for
// different projects proceed fully in parallel; two batches for the same
// project run one at a time, so each sees the other's accepted findings.
type projectLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newProjectLocks() *projectLocks {
	return &projectLocks{locks: make(map[string]*sync.Mutex)}
}

// Acquire locks the project's critical section and returns the unlock
// function. Lock entries are never removed; the set of projects is small
// and bounded by the registry.
func (p *projectLocks) Acquire(projectID string) func() {
	p.mu.Lock()
	l, ok := p.locks[projectID]
	if !ok {
		l = &sync.Mutex{}
		p.locks[projectID] = l
	}
	p.mu.Unlock()

	l.Lock()
	return l.Unlock
}
