package cache

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/kbukum/collection/errors"
	"github.com/kbukum/collection/logger"
	"github.com/kbukum/collection/observability"
	"github.com/kbukum/collection/sequence"
)

// Cache buffers the pairs of an upstream sequence as they are first pulled.
// Buffered pairs are never fetched again and never reordered.
//
// The first upstream error is sticky: every cursor that reaches that position
// gets it, context.Canceled and context.DeadlineExceeded included. A cache
// whose upstream was interrupted by its context cannot be resumed; build a new
// one to read past the buffer.
type Cache struct {
	id       string
	upstream sequence.Iterable
	log      *logger.Logger

	mu        sync.Mutex
	buf       []sequence.Pair
	source    sequence.Iterator
	err       error // sticky upstream error, served at position len(buf)
	exhausted bool
	closed    bool

	advancing atomic.Bool
}

// New wraps upstream in a cache. Nothing is pulled until a cursor asks for a
// pair beyond the buffer.
func New(upstream sequence.Iterable) *Cache {
	id := uuid.NewString()
	return &Cache{
		id:       id,
		upstream: upstream,
		log:      logger.Get(logger.ComponentCache).WithFields(logger.Fields(logger.FieldCacheID, id)),
	}
}

// ID returns the identifier used in logs and metric attributes.
func (c *Cache) ID() string { return c.id }

// Len returns the number of buffered pairs.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buf)
}

// Iter returns a cursor starting at the beginning of the buffer.
func (c *Cache) Iter(_ context.Context) sequence.Iterator {
	return &cursor{cache: c}
}

// Close releases the upstream iterator if it is still open. Buffered pairs
// remain readable; reading past them afterwards ends the sequence.
func (c *Cache) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return c.release()
}

// release closes the upstream iterator. Callers hold mu.
func (c *Cache) release() error {
	if c.source == nil {
		return nil
	}
	err := c.source.Close()
	c.source = nil
	c.log.Debug("upstream released", logger.Fields(logger.FieldCount, len(c.buf)))
	return err
}

// at returns the pair at position i, advancing upstream when i is the next
// position to fetch.
func (c *Cache) at(ctx context.Context, i int) (sequence.Pair, bool, error) {
	c.mu.Lock()
	if i < len(c.buf) {
		p := c.buf[i]
		c.mu.Unlock()
		observability.Default().RecordCacheReplayed(ctx, c.id)
		return p, true, nil
	}
	if c.err != nil {
		err := c.err
		c.mu.Unlock()
		return sequence.Pair{}, false, err
	}
	if c.exhausted || c.closed {
		c.mu.Unlock()
		return sequence.Pair{}, false, nil
	}
	c.mu.Unlock()

	if !c.advancing.CompareAndSwap(false, true) {
		c.log.Warn("concurrent advance rejected")
		return sequence.Pair{}, false, errors.CacheMisuse(c.id)
	}
	defer c.advancing.Store(false)
	return c.advance(ctx, i)
}

// advance pulls one pair from upstream. Only one goroutine runs it at a time.
func (c *Cache) advance(ctx context.Context, i int) (sequence.Pair, bool, error) {
	c.mu.Lock()
	if i < len(c.buf) {
		// Another cursor fetched it between the checks.
		p := c.buf[i]
		c.mu.Unlock()
		return p, true, nil
	}
	if c.err != nil {
		err := c.err
		c.mu.Unlock()
		return sequence.Pair{}, false, err
	}
	if c.exhausted || c.closed {
		// Ended or closed between the checks; the released upstream stays released.
		c.mu.Unlock()
		return sequence.Pair{}, false, nil
	}
	if c.source == nil {
		c.log.Debug("upstream opened")
		c.source = c.upstream.Iter(ctx)
	}
	src := c.source
	c.mu.Unlock()

	p, ok, err := src.Next(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case err != nil:
		c.err = err
		_ = c.release()
		return sequence.Pair{}, false, err
	case !ok:
		c.exhausted = true
		return sequence.Pair{}, false, c.release()
	}
	c.buf = append(c.buf, p)
	observability.Default().RecordCacheFetched(ctx, c.id)
	return p, true, nil
}

// cursor is one consumer's position in the cache.
type cursor struct {
	cache  *Cache
	pos    int
	closed bool
}

func (cur *cursor) Next(ctx context.Context) (sequence.Pair, bool, error) {
	if cur.closed {
		return sequence.Pair{}, false, nil
	}
	p, ok, err := cur.cache.at(ctx, cur.pos)
	if ok {
		cur.pos++
	}
	return p, ok, err
}

// Close ends this cursor only; the shared upstream stays open for others.
func (cur *cursor) Close() error {
	cur.closed = true
	return nil
}
