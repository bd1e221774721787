package bfm

import (
	"context"
	"runtime"
	"sync"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one worker is available.
	MinPoolSize = 1

	// MaxPoolSize caps concurrent documents to bound peak memory.
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for resolver I/O and output writers.
	cpuDivisor = 2
)

// ProcessorPool hands out Processors built with the same options and bounds
// how many documents are processed at once.
// Processors are created lazily on first acquire to avoid startup cost.
type ProcessorPool struct {
	size       int
	opts       []Option
	processors []*Processor
	sem        chan *Processor
	mu         sync.Mutex
	created    int
	closed     bool
}

// NewProcessorPool creates a pool with capacity for n Processors.
// Processors are created when acquired, not at pool creation.
func NewProcessorPool(n int, opts ...Option) *ProcessorPool {
	if n < 1 {
		n = 1
	}

	return &ProcessorPool{
		size:       n,
		opts:       opts,
		processors: make([]*Processor, 0, n),
		sem:        make(chan *Processor, n),
	}
}

// Acquire gets a processor from the pool, creating one if needed.
// Blocks until one is released or ctx is done.
func (p *ProcessorPool) Acquire(ctx context.Context) (*Processor, error) {
	// Try to get an existing processor (non-blocking)
	select {
	case proc, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return proc, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, ErrPoolClosed
	}
	if p.created < p.size {
		p.created++
		p.mu.Unlock()

		// Create new processor outside the lock
		proc, err := New(p.opts...)
		if err != nil {
			p.mu.Lock()
			p.created--
			p.mu.Unlock()
			return nil, err
		}

		p.mu.Lock()
		p.processors = append(p.processors, proc)
		p.mu.Unlock()

		return proc, nil
	}
	p.mu.Unlock()

	// All processors created, wait for one to be released
	select {
	case proc, ok := <-p.sem:
		if !ok {
			return nil, ErrPoolClosed
		}
		return proc, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Release returns a processor to the pool.
// The lock is held while sending so Close cannot close the channel
// mid-send; the channel has room for every created processor.
func (p *ProcessorPool) Release(proc *Processor) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed || proc == nil {
		return
	}
	p.sem <- proc
}

// Close stops the pool. Pending and later Acquire calls fail with
// ErrPoolClosed.
func (p *ProcessorPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	close(p.sem)
	p.processors = nil
}

// Size returns the pool capacity.
func (p *ProcessorPool) Size() int {
	return p.size
}

// ResolvePoolSize determines the worker count.
// Priority: explicit workers > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolvePoolSize(workers int) int {
	// Explicit value takes priority
	if workers > 0 {
		return workers
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs for containers)
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
