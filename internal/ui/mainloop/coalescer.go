package mainloop

import "sync"

// Coalescer merges bursts of same-key tasks into one run of the latest task.
// Re-rendering a tab after a title change followed by a color change only
// renders once.
type Coalescer[K comparable] struct {
	mu        sync.Mutex
	latest    map[K]func()
	post      func(func()) bool
	destroyed bool
}

// NewCoalescer schedules merged tasks through post.
func NewCoalescer[K comparable](post func(func()) bool) *Coalescer[K] {
	if post == nil {
		panic("mainloop.NewCoalescer: post function cannot be nil")
	}
	return &Coalescer[K]{
		latest: make(map[K]func()),
		post:   post,
	}
}

// Post schedules fn under key. A task already pending for key is replaced.
func (c *Coalescer[K]) Post(key K, fn func()) {
	if fn == nil {
		return
	}

	c.mu.Lock()
	if c.destroyed {
		c.mu.Unlock()
		return
	}
	_, pending := c.latest[key]
	c.latest[key] = fn
	c.mu.Unlock()
	if pending {
		return
	}

	scheduled := c.post(func() {
		c.mu.Lock()
		fn, ok := c.latest[key]
		delete(c.latest, key)
		destroyed := c.destroyed
		c.mu.Unlock()

		if ok && !destroyed {
			fn()
		}
	})
	if !scheduled {
		c.mu.Lock()
		delete(c.latest, key)
		c.mu.Unlock()
	}
}

// Forget drops the pending task of key, if any.
func (c *Coalescer[K]) Forget(key K) {
	c.mu.Lock()
	delete(c.latest, key)
	c.mu.Unlock()
}

// Destroy drops all pending tasks and ignores later posts.
func (c *Coalescer[K]) Destroy() {
	c.mu.Lock()
	c.destroyed = true
	clear(c.latest)
	c.mu.Unlock()
}
