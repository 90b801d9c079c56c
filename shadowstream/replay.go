package shadowstream

import (
	"errors"
	"sync"
	"time"

	"github.com/zeebo/blake3"
)

// ErrRepeatedIV means the client presented an IV already seen within the
// retention window, the hallmark of replayed traffic.
var ErrRepeatedIV = errors.New("repeated IV detected")

const (
	ivRetention   = 60 * time.Second
	sweepInterval = 10 * time.Second
)

// ivFilter remembers recently seen client IVs. Only blake3 digests are
// stored, never the IVs themselves.
type ivFilter struct {
	mu   sync.Mutex
	seen map[[16]byte]int64 // digest -> expiry unix seconds
	stop chan struct{}
}

func newIVFilter() *ivFilter {
	f := &ivFilter{
		seen: make(map[[16]byte]int64),
		stop: make(chan struct{}),
	}
	go f.sweepRoutine()
	return f
}

// check records iv and reports whether it was already present and
// unexpired.
func (f *ivFilter) check(iv []byte) bool {
	sum := blake3.Sum256(iv)
	key := [16]byte(sum[:16])

	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now().Unix()
	expiry, exists := f.seen[key]
	f.seen[key] = now + int64(ivRetention/time.Second)
	return exists && now <= expiry
}

func (f *ivFilter) sweepRoutine() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			f.sweepExpired()
		case <-f.stop:
			return
		}
	}
}

func (f *ivFilter) sweepExpired() {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := time.Now().Unix()
	for key, expiry := range f.seen {
		if now > expiry {
			delete(f.seen, key)
		}
	}
}

// Close stops the sweep routine.
func (f *ivFilter) Close() {
	close(f.stop)
}

var (
	filter         *ivFilter
	initFilterOnce sync.Once
)

// repeatedIV checks iv against the global filter, creating it on first
// use.
func repeatedIV(iv []byte) bool {
	initFilterOnce.Do(func() {
		filter = newIVFilter()
	})
	return filter.check(iv)
}
