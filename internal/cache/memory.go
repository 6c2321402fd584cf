package cache

import (
	"context"
	"strings"
	"sync"
	"time"
)

type entry struct {
	data      []byte
	timestamp time.Time
	expiresIn time.Duration
}

func (e entry) valid(now time.Time) bool {
	return now.Sub(e.timestamp) < e.expiresIn
}

// MemoryBackend is the in-process store: a guarded map with passive expiry
// on read and a periodic sweep bounding memory. The sweep is a liveness
// optimization only; Get rejects stale entries regardless.
type MemoryBackend struct {
	mu      sync.RWMutex
	entries map[string]entry
	now     func() time.Time
	stop    chan struct{}
	once    sync.Once
}

// NewMemoryBackend starts the sweeper when sweepInterval > 0.
func NewMemoryBackend(sweepInterval time.Duration) *MemoryBackend {
	b := &MemoryBackend{
		entries: map[string]entry{},
		now:     time.Now,
		stop:    make(chan struct{}),
	}
	if sweepInterval > 0 {
		go b.sweepLoop(sweepInterval)
	}
	return b
}

// SetClock swaps the time source; tests advance it past TTLs.
func (b *MemoryBackend) SetClock(now func() time.Time) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.now = now
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.entries[key]
	if !ok {
		return nil, false
	}
	if !e.valid(b.now()) {
		delete(b.entries, key)
		return nil, false
	}
	return e.data, true
}

func (b *MemoryBackend) Set(_ context.Context, key string, data []byte, ttl time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[key] = entry{data: data, timestamp: b.now(), expiresIn: ttl}
}

func (b *MemoryBackend) Delete(_ context.Context, key string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.entries, key)
}

func (b *MemoryBackend) DeletePrefix(_ context.Context, prefix string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for key := range b.entries {
		if strings.HasPrefix(key, prefix) {
			delete(b.entries, key)
		}
	}
}

func (b *MemoryBackend) Clear(_ context.Context) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = map[string]entry{}
}

func (b *MemoryBackend) Close() {
	b.once.Do(func() { close(b.stop) })
}

// Len reports the current entry count, expired or not.
func (b *MemoryBackend) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

func (b *MemoryBackend) sweepLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-b.stop:
			return
		case <-ticker.C:
			b.Sweep()
		}
	}
}

// Sweep removes every expired entry.
func (b *MemoryBackend) Sweep() {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.now()
	for key, e := range b.entries {
		if !e.valid(now) {
			delete(b.entries, key)
		}
	}
}
