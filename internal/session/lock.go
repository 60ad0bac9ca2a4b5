package session

import "sync"

// Locker hands out one mutex per session id so requests touching the same
// session run one at a time within this process. Entries are dropped once no
// caller holds or waits on them.
type Locker struct {
	mu sync.Mutex
	m  map[string]*lockEntry
}

type lockEntry struct {
	mu   sync.Mutex
	refs int
}

func NewLocker() *Locker { return &Locker{m: map[string]*lockEntry{}} }

// Lock blocks until id is free and returns the matching unlock func.
func (l *Locker) Lock(id string) (unlock func()) {
	l.mu.Lock()
	e, ok := l.m[id]
	if !ok {
		e = &lockEntry{}
		l.m[id] = e
	}
	e.refs++
	l.mu.Unlock()

	e.mu.Lock()
	return func() {
		e.mu.Unlock()
		l.mu.Lock()
		e.refs--
		if e.refs == 0 {
			delete(l.m, id)
		}
		l.mu.Unlock()
	}
}

func (l *Locker) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.m)
}
