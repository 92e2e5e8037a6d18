package s3

import "sync"

// lockers holds one keyLocker per connection ID, so that every connection
// dialed from the same settings shares it.
var lockers sync.Map

func lockerFor(connectionID string) *keyLocker {
	l, _ := lockers.LoadOrStore(connectionID, &keyLocker{locks: make(map[string]*keyLock)})
	return l.(*keyLocker)
}

type keyLock struct {
	mu   sync.Mutex
	refs int
}

// keyLocker serializes commits on the same object key.
type keyLocker struct {
	mu    sync.Mutex
	locks map[string]*keyLock
}

// lock blocks until key is free and returns the function releasing it.
func (l *keyLocker) lock(key string) (unlock func()) {
	l.mu.Lock()
	kl, ok := l.locks[key]
	if !ok {
		kl = &keyLock{}
		l.locks[key] = kl
	}
	kl.refs++
	l.mu.Unlock()

	kl.mu.Lock()
	return func() {
		kl.mu.Unlock()
		l.mu.Lock()
		if kl.refs--; kl.refs == 0 {
			delete(l.locks, key)
		}
		l.mu.Unlock()
	}
}
