package importer

// limiter.go bounds the number of concurrently running import batches.
//
// Rows within one batch are always inserted sequentially; the limiter only
// caps how many whole batches may run at once so a burst of uploads cannot
// exhaust pool connections. When all slots are occupied, new requests wait
// up to maxWait before failing with ErrTooManyImports.

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrTooManyImports is returned when all import slots are occupied and the
// wait timeout expires. Clients should retry after a short delay.
var ErrTooManyImports = errors.New("too many concurrent imports, please try again later")

// DefaultMaxConcurrentImports is the default limit for parallel batches.
const DefaultMaxConcurrentImports = 4

// DefaultMaxWaitTime is how long to wait for a slot before rejecting.
const DefaultMaxWaitTime = 30 * time.Second

// ImportLimiter controls concurrent batch processing using a semaphore.
type ImportLimiter struct {
	semaphore chan struct{}
	maxWait   time.Duration

	mu     sync.RWMutex
	active int
}

// NewImportLimiter creates a limiter allowing at most maxConcurrent
// simultaneous batches. Requests that cannot acquire a slot within maxWait
// receive ErrTooManyImports.
func NewImportLimiter(maxConcurrent int, maxWait time.Duration) *ImportLimiter {
	if maxConcurrent <= 0 {
		maxConcurrent = DefaultMaxConcurrentImports
	}
	if maxWait <= 0 {
		maxWait = DefaultMaxWaitTime
	}

	return &ImportLimiter{
		semaphore: make(chan struct{}, maxConcurrent),
		maxWait:   maxWait,
	}
}

// Acquire attempts to acquire an import slot.
// The caller MUST call Release() when the import completes (use defer).
func (l *ImportLimiter) Acquire(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, l.maxWait)
	defer cancel()

	select {
	case l.semaphore <- struct{}{}:
		l.mu.Lock()
		l.active++
		l.mu.Unlock()
		return nil

	case <-waitCtx.Done():
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return ErrTooManyImports

	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release releases a previously acquired slot.
// Must be called exactly once for each successful Acquire.
func (l *ImportLimiter) Release() {
	l.mu.Lock()
	l.active--
	l.mu.Unlock()

	<-l.semaphore
}

// ActiveCount returns the number of currently running batches.
func (l *ImportLimiter) ActiveCount() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.active
}

// WaitForDrain blocks until all active imports complete or ctx is cancelled.
// Used for graceful shutdown so in-flight batches finish before termination.
func (l *ImportLimiter) WaitForDrain(ctx context.Context) error {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if l.ActiveCount() == 0 {
				return nil
			}
		}
	}
}

// LimiterStatus is a snapshot of the limiter's current state.
type LimiterStatus struct {
	Active        int `json:"active"`
	Available     int `json:"available"`
	MaxConcurrent int `json:"maxConcurrent"`
}

// Status returns the current limiter state for monitoring.
func (l *ImportLimiter) Status() LimiterStatus {
	l.mu.RLock()
	active := l.active
	l.mu.RUnlock()

	return LimiterStatus{
		Active:        active,
		Available:     cap(l.semaphore) - len(l.semaphore),
		MaxConcurrent: cap(l.semaphore),
	}
}
