package lock

import (
	"context"
	"sync"
	"time"
)

type keyedSem struct {
	key  string
	ch   chan struct{}
	refs int
}

// LocalLocker is an in-process Locker. It only serialises goroutines of the
// same process; multi-instance deployments use RedisLocker.
type LocalLocker struct {
	mu      sync.Mutex
	sems    map[string]*keyedSem
	timeout time.Duration
}

// NewLocalLocker creates a LocalLocker that gives up after timeout.
func NewLocalLocker(timeout time.Duration) *LocalLocker {
	return &LocalLocker{
		sems:    make(map[string]*keyedSem),
		timeout: timeout,
	}
}

var _ Locker = (*LocalLocker)(nil)

func (l *LocalLocker) ref(key string) *keyedSem {
	l.mu.Lock()
	defer l.mu.Unlock()
	s, ok := l.sems[key]
	if !ok {
		s = &keyedSem{key: key, ch: make(chan struct{}, 1)}
		l.sems[key] = s
	}
	s.refs++
	return s
}

func (l *LocalLocker) unref(s *keyedSem) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s.refs--
	if s.refs == 0 {
		delete(l.sems, s.key)
	}
}

// Acquire implements Locker.
func (l *LocalLocker) Acquire(ctx context.Context, keys []string) (Release, error) {
	keys = normalizeKeys(keys)
	timer := time.NewTimer(l.timeout)
	defer timer.Stop()

	held := make([]*keyedSem, 0, len(keys))
	releaseAll := func() {
		for i := len(held) - 1; i >= 0; i-- {
			<-held[i].ch
			l.unref(held[i])
		}
	}

	for _, key := range keys {
		s := l.ref(key)
		select {
		case s.ch <- struct{}{}:
			held = append(held, s)
		case <-timer.C:
			l.unref(s)
			releaseAll()
			return nil, timeoutError(key, l.timeout)
		case <-ctx.Done():
			l.unref(s)
			releaseAll()
			return nil, ctx.Err()
		}
	}

	var once sync.Once
	return func() { once.Do(releaseAll) }, nil
}
