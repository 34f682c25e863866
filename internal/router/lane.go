package router

import "sync"

// LaneLock provides per-user serialization. It ensures that messages from
// the same user are processed one at a time (serial), while messages from
// different users can be processed concurrently (parallel). The session
// state machine assumes one turn at a time per user; interleaved turns
// would race on the session row.
//
// Design: a global mutex protects the lane map; each lane has its own
// mutex for intra-user serialization. The global mutex is held only
// briefly to look up or create the per-user mutex.
type LaneLock struct {
	mu    sync.Mutex
	lanes map[string]*lane
}

// lane stores per-user synchronization metadata. refs counts goroutines
// that acquired (or are waiting on) this lane; the entry is removed when
// refs drops to zero so the map does not grow with every user ever seen.
type lane struct {
	mu   sync.Mutex
	refs int
}

// NewLaneLock creates a ready-to-use LaneLock.
func NewLaneLock() *LaneLock {
	return &LaneLock{
		lanes: make(map[string]*lane),
	}
}

// Acquire gets or creates the per-user mutex and locks it.
// The caller must call Release with the same key when done.
func (l *LaneLock) Acquire(key string) {
	l.mu.Lock()
	ln, ok := l.lanes[key]
	if !ok {
		ln = &lane{}
		l.lanes[key] = ln
	}
	ln.refs++
	l.mu.Unlock()

	// Lock outside the global mutex so other users are not blocked.
	ln.mu.Lock()
}

// Release unlocks the per-user mutex for the given key and drops the lane
// entry once no goroutine holds or waits on it. The caller must have
// previously called Acquire with the same key.
func (l *LaneLock) Release(key string) {
	l.mu.Lock()
	ln, ok := l.lanes[key]
	if !ok {
		l.mu.Unlock()
		return
	}
	ln.refs--
	if ln.refs == 0 {
		delete(l.lanes, key)
	}
	l.mu.Unlock()

	ln.mu.Unlock()
}

// Len returns the number of lanes currently tracked.
func (l *LaneLock) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lanes)
}
