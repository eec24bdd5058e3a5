package bizdoc

import (
	"context"
	"runtime"
	"sync/atomic"
)

// Engine concurrency bounds.
const (
	// MinPoolSize ensures at least one render can run.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent browsers to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// ResolvePoolSize determines how many browsers may run at once.
// An explicit positive value wins, otherwise half of GOMAXPROCS clamped to
// [MinPoolSize, MaxPoolSize].
func ResolvePoolSize(n int) int {
	if n > 0 {
		return n
	}

	// GOMAXPROCS is container-aware once automaxprocs has run.
	available := runtime.GOMAXPROCS(0)
	n = available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}

// engineSlots limits concurrent browser instances. Each PDF render holds a
// slot from launch until its engine is closed.
type engineSlots struct {
	sem   chan struct{}
	inUse atomic.Int64
}

func newEngineSlots(n int) *engineSlots {
	if n < MinPoolSize {
		n = MinPoolSize
	}
	return &engineSlots{sem: make(chan struct{}, n)}
}

// acquire blocks until a slot is free or ctx is done.
func (s *engineSlots) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		s.inUse.Add(1)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *engineSlots) release() {
	s.inUse.Add(-1)
	<-s.sem
}

// size returns the slot capacity.
func (s *engineSlots) size() int {
	return cap(s.sem)
}

// busy returns the number of slots held.
func (s *engineSlots) busy() int {
	return int(s.inUse.Load())
}
