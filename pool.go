package rab2html

import (
	"context"
	"errors"
	"runtime"
	"sync"
	"time"

	"github.com/alnah/go-rab2html/internal/rabbit"
)

// Pool sizing constants.
const (
	// MinPoolSize ensures at least one browser is available.
	MinPoolSize = 1

	// MaxPoolSize caps browser instances to limit memory (~200MB each).
	MaxPoolSize = 8

	// cpuDivisor leaves headroom for Chrome child processes.
	cpuDivisor = 2
)

// pooledRasterizer is a rasterizer owning a browser.
type pooledRasterizer interface {
	rabbit.Rasterizer
	Close() error
}

// RasterizerPool shares a bounded set of browser rasterizers between
// concurrent renders. Browsers are started lazily on first acquire.
type RasterizerPool struct {
	size    int
	newFunc func() pooledRasterizer
	members []pooledRasterizer
	sem     chan pooledRasterizer
	mu      sync.Mutex
	created int
	closed  bool
}

// NewRasterizerPool creates a pool of up to n browsers with the given page
// load timeout.
func NewRasterizerPool(n int, timeout time.Duration) *RasterizerPool {
	return newRasterizerPool(n, func() pooledRasterizer { return newRodRasterizer(timeout) })
}

func newRasterizerPool(n int, newFunc func() pooledRasterizer) *RasterizerPool {
	if n < 1 {
		n = 1
	}
	return &RasterizerPool{
		size:    n,
		newFunc: newFunc,
		members: make([]pooledRasterizer, 0, n),
		sem:     make(chan pooledRasterizer, n),
	}
}

// Rasterize runs page on a pooled browser, waiting for one to be free.
func (p *RasterizerPool) Rasterize(ctx context.Context, page rabbit.SlidePage) error {
	r, err := p.acquire(ctx)
	if err != nil {
		return err
	}
	defer p.release(r)
	return r.Rasterize(ctx, page)
}

// acquire gets a rasterizer from the pool, creating one if needed.
// Blocks until one is released or ctx is done.
func (p *RasterizerPool) acquire(ctx context.Context) (pooledRasterizer, error) {
	select {
	case r, ok := <-p.sem:
		if !ok {
			return nil, errPoolClosed
		}
		return r, nil
	default:
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil, errPoolClosed
	}
	if p.created < p.size {
		p.created++
		r := p.newFunc()
		p.members = append(p.members, r)
		p.mu.Unlock()
		return r, nil
	}
	p.mu.Unlock()

	select {
	case r, ok := <-p.sem:
		if !ok {
			return nil, errPoolClosed
		}
		return r, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// release returns a rasterizer to the pool.
func (p *RasterizerPool) release(r pooledRasterizer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.sem <- r
}

var errPoolClosed = errors.New("rasterizer pool is closed")

// Close releases all browser resources.
// Returns an aggregated error if several browsers fail to close.
func (p *RasterizerPool) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.sem)
	members := p.members
	p.mu.Unlock()

	var errs []error
	for _, r := range members {
		if err := r.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Size returns the pool capacity.
func (p *RasterizerPool) Size() int {
	return p.size
}

// Started returns how many browsers have been created.
func (p *RasterizerPool) Started() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.created
}

// ResolvePoolSize determines the number of browsers.
// Priority: explicit workers > GOMAXPROCS-based calculation.
func ResolvePoolSize(workers int) int {
	if workers > 0 {
		return workers
	}

	// GOMAXPROCS is adjusted by automaxprocs for containers
	n := runtime.GOMAXPROCS(0) / cpuDivisor

	if n < MinPoolSize {
		return MinPoolSize
	}
	if n > MaxPoolSize {
		return MaxPoolSize
	}
	return n
}
