package templates

import (
	"fmt"
	"image"
	"sync"

	"screenbot/internal/cv"
)

// ImageCache holds decoded grayscale template images so each template is
// loaded from disk at most once per process.
type ImageCache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	stats   CacheStats
}

// CacheStats tracks cache behavior.
type CacheStats struct {
	Hits        int64
	Misses      int64
	Loads       int64
	Unloads     int64
	PreloadFail int64
}

type cacheEntry struct {
	def Definition
	mu  sync.Mutex
	img *image.Gray
}

// NewImageCache creates an empty cache.
func NewImageCache() *ImageCache {
	return &ImageCache{entries: make(map[string]*cacheEntry)}
}

func (ic *ImageCache) register(def Definition) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	if existing, ok := ic.entries[def.Name]; ok {
		existing.def = def
		return
	}
	ic.entries[def.Name] = &cacheEntry{def: def}
}

// Get returns the decoded image and definition for a template, loading it on
// first access.
func (ic *ImageCache) Get(name string) (*image.Gray, Definition, error) {
	ic.mu.RLock()
	entry, ok := ic.entries[name]
	ic.mu.RUnlock()

	if !ok {
		return nil, Definition{}, fmt.Errorf("template '%s' not found in cache", name)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if entry.img != nil {
		ic.bump(func(s *CacheStats) { s.Hits++ })
		return entry.img, entry.def, nil
	}

	img, err := cv.LoadTemplate(entry.def.Path)
	if err != nil {
		return nil, Definition{}, err
	}
	entry.img = img
	ic.bump(func(s *CacheStats) { s.Misses++; s.Loads++ })

	return img, entry.def, nil
}

// Release drops the decoded image for one template, keeping its definition.
func (ic *ImageCache) Release(name string) error {
	ic.mu.RLock()
	entry, ok := ic.entries[name]
	ic.mu.RUnlock()

	if !ok {
		return fmt.Errorf("template '%s' not found in cache", name)
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.img != nil {
		entry.img = nil
		ic.bump(func(s *CacheStats) { s.Unloads++ })
	}
	return nil
}

// PreloadAll loads every template registered with preload set.
func (ic *ImageCache) PreloadAll() error {
	ic.mu.RLock()
	var toLoad []*cacheEntry
	for _, e := range ic.entries {
		if e.def.Preload {
			toLoad = append(toLoad, e)
		}
	}
	ic.mu.RUnlock()

	var firstErr error
	failed := 0
	for _, entry := range toLoad {
		entry.mu.Lock()
		if entry.img == nil {
			img, err := cv.LoadTemplate(entry.def.Path)
			if err != nil {
				failed++
				if firstErr == nil {
					firstErr = fmt.Errorf("template %s: %w", entry.def.Name, err)
				}
				ic.bump(func(s *CacheStats) { s.PreloadFail++ })
			} else {
				entry.img = img
				ic.bump(func(s *CacheStats) { s.Loads++ })
			}
		}
		entry.mu.Unlock()
	}

	if failed > 0 {
		return fmt.Errorf("failed to preload %d templates: %w", failed, firstErr)
	}
	return nil
}

// UnloadAll drops all decoded images.
func (ic *ImageCache) UnloadAll() {
	ic.mu.RLock()
	entries := make([]*cacheEntry, 0, len(ic.entries))
	for _, e := range ic.entries {
		entries = append(entries, e)
	}
	ic.mu.RUnlock()

	for _, entry := range entries {
		entry.mu.Lock()
		if entry.img != nil {
			entry.img = nil
			ic.bump(func(s *CacheStats) { s.Unloads++ })
		}
		entry.mu.Unlock()
	}
}

// Stats returns a snapshot of cache statistics.
func (ic *ImageCache) Stats() CacheStats {
	ic.mu.RLock()
	defer ic.mu.RUnlock()
	return ic.stats
}

func (ic *ImageCache) bump(fn func(*CacheStats)) {
	ic.mu.Lock()
	fn(&ic.stats)
	ic.mu.Unlock()
}
