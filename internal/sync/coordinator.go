package sync

import (
	"context"
	"sync"
)

// Coordinator tracks in-flight field commits so other operations can wait
// for them. It does not order or retry anything; commits to different
// fields run independently.
type Coordinator struct {
	mu      sync.Mutex
	nextID  uint64
	pending map[uint64]chan struct{}
}

// NewCoordinator creates an empty coordinator
func NewCoordinator() *Coordinator {
	return &Coordinator{pending: make(map[uint64]chan struct{})}
}

// Register adds an in-flight commit and returns its completion callback.
// The callback is idempotent.
func (c *Coordinator) Register() func() {
	c.mu.Lock()
	c.nextID++
	id := c.nextID
	done := make(chan struct{})
	c.pending[id] = done
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.pending, id)
			c.mu.Unlock()
			close(done)
		})
	}
}

// PendingCount reports the number of in-flight commits
func (c *Coordinator) PendingCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.pending)
}

// Drain waits for every commit that was in flight when it was called.
// Commits registered afterwards are not waited on. Returns the context
// error if the wait is cut short.
func (c *Coordinator) Drain(ctx context.Context) error {
	c.mu.Lock()
	waiting := make([]chan struct{}, 0, len(c.pending))
	for _, done := range c.pending {
		waiting = append(waiting, done)
	}
	c.mu.Unlock()

	for _, done := range waiting {
		select {
		case <-done:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}
