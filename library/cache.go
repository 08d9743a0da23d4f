package library

import (
	"github.com/hashicorp/golang-lru/v2"

	"osuindex/dotosu"
)

type cacheKey struct {
	path    string
	modTime int64
	size    int64
}

// Cache holds recently parsed beatmaps. An entry is reused only while the
// source's path, modification time and size are unchanged. A nil *Cache is
// valid and never hits.
type Cache struct {
	entries *lru.Cache[cacheKey, *dotosu.Beatmap]
}

func NewCache(size int) (*Cache, error) {
	entries, err := lru.New[cacheKey, *dotosu.Beatmap](size)
	if err != nil {
		return nil, err
	}
	return &Cache{entries: entries}, nil
}

func keyOf(s Source) cacheKey {
	return cacheKey{path: s.Path, modTime: s.ModTime.UnixNano(), size: s.Size}
}

func (c *Cache) Get(s Source) (*dotosu.Beatmap, bool) {
	if c == nil {
		return nil, false
	}
	return c.entries.Get(keyOf(s))
}

func (c *Cache) Add(s Source, b *dotosu.Beatmap) {
	if c == nil {
		return
	}
	c.entries.Add(keyOf(s), b)
}

func (c *Cache) Len() int {
	if c == nil {
		return 0
	}
	return c.entries.Len()
}
