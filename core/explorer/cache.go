package explorer

import (
	"encoding/binary"
	"hash/fnv"
)

// cache memoizes derived results for the current dataset revision and filter
// set. It is reset wholesale when it fills up or the dataset changes.
type cache struct {
	limit   int
	entries map[uint64]any
}

func newCache(limit int) *cache {
	return &cache{limit: limit, entries: make(map[uint64]any)}
}

func (c *cache) get(key uint64) (any, bool) {
	if c.limit <= 0 {
		return nil, false
	}
	v, ok := c.entries[key]
	return v, ok
}

func (c *cache) put(key uint64, v any) {
	if c.limit <= 0 {
		return
	}
	if len(c.entries) >= c.limit {
		c.reset()
	}
	c.entries[key] = v
}

func (c *cache) reset() {
	clear(c.entries)
}

// key fingerprints the dataset revision, the active filters in order and the
// given result parts. Inactive filters do not affect any result and are left
// out. e.mu must be held.
func (e *Explorer) key(parts ...string) uint64 {
	h := fnv.New64a()
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], e.revision)
	h.Write(buf[:])
	for _, f := range e.filters {
		if !f.IsActive {
			continue
		}
		h.Write([]byte(f.Key()))
		h.Write([]byte{0})
	}
	h.Write([]byte{1})
	for _, p := range parts {
		h.Write([]byte(p))
		h.Write([]byte{0})
	}
	return h.Sum64()
}
