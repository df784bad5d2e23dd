package favicon

import (
	"container/list"

	"github.com/bnema/tabshell/internal/application/port"
)

// colorCache is a fixed-size LRU of extracted colors keyed by icon URL.
// Callers serialize access.
type colorCache struct {
	capacity int
	items    map[string]*list.Element
	order    *list.List // front is most recent
}

type colorEntry struct {
	url    string
	colors port.TabColors
}

func newColorCache(capacity int) *colorCache {
	return &colorCache{
		capacity: max(capacity, 1),
		items:    make(map[string]*list.Element),
		order:    list.New(),
	}
}

func (c *colorCache) get(url string) (port.TabColors, bool) {
	elem, ok := c.items[url]
	if !ok {
		return port.TabColors{}, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*colorEntry).colors, true
}

func (c *colorCache) set(url string, colors port.TabColors) {
	if elem, ok := c.items[url]; ok {
		elem.Value.(*colorEntry).colors = colors
		c.order.MoveToFront(elem)
		return
	}
	if c.order.Len() >= c.capacity {
		if oldest := c.order.Back(); oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*colorEntry).url)
		}
	}
	c.items[url] = c.order.PushFront(&colorEntry{url: url, colors: colors})
}

func (c *colorCache) size() int {
	return c.order.Len()
}
