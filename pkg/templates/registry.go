// Package templates manages named reference images loaded from YAML
// definition files, with a load-once grayscale image cache.
package templates

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"screenbot/internal/cv"
)

// Definition describes one named template.
type Definition struct {
	Name      string  `yaml:"name"`
	Path      string  `yaml:"path"`
	Threshold float64 `yaml:"threshold,omitempty"`
	Preload   bool    `yaml:"preload,omitempty"`
}

// File is the structure of a template YAML file.
type File struct {
	Templates []Definition `yaml:"templates"`
}

// Registry maps template names to definitions. Image data is loaded lazily
// through the attached cache.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]Definition
	basePath  string
	cache     *ImageCache
}

// NewRegistry creates a registry rooted at basePath, the directory template
// image paths are resolved against.
func NewRegistry(basePath string) *Registry {
	return &Registry{
		templates: make(map[string]Definition),
		basePath:  basePath,
		cache:     NewImageCache(),
	}
}

// LoadFromFile loads template definitions from a YAML file.
func (r *Registry) LoadFromFile(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("failed to read template file %s: %w", filePath, err)
	}

	var file File
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to unmarshal template YAML: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, def := range file.Templates {
		if def.Name == "" {
			return fmt.Errorf("template %d: name cannot be empty", i+1)
		}
		if def.Path == "" {
			return fmt.Errorf("template %d (%s): path cannot be empty", i+1, def.Name)
		}

		def.Path = filepath.Join(r.basePath, def.Path)
		if def.Threshold == 0 {
			def.Threshold = cv.MatchThreshold
		}

		r.templates[def.Name] = def
		r.cache.register(def)
	}

	return nil
}

// LoadFromDirectory loads every .yaml/.yml file in a directory.
func (r *Registry) LoadFromDirectory(dirPath string) error {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read template directory %s: %w", dirPath, err)
	}

	var loadErrors []error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		if err := r.LoadFromFile(filepath.Join(dirPath, entry.Name())); err != nil {
			loadErrors = append(loadErrors, fmt.Errorf("file %s: %w", entry.Name(), err))
		}
	}

	if len(loadErrors) > 0 {
		return fmt.Errorf("failed to load %d template files (first error): %w", len(loadErrors), loadErrors[0])
	}

	return nil
}

// Get retrieves a definition by name.
func (r *Registry) Get(name string) (Definition, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	def, ok := r.templates[name]
	return def, ok
}

// Has checks whether a template is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.Get(name)
	return ok
}

// Register adds a definition programmatically.
func (r *Registry) Register(def Definition) error {
	if def.Name == "" {
		return fmt.Errorf("template name cannot be empty")
	}
	if def.Threshold == 0 {
		def.Threshold = cv.MatchThreshold
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[def.Name] = def
	r.cache.register(def)
	return nil
}

// List returns all registered template names.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	return names
}

// Count returns the number of registered templates.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.templates)
}

// Cache returns the registry's image cache.
func (r *Registry) Cache() *ImageCache {
	return r.cache
}

// PreloadAll eagerly loads every template marked for preloading.
func (r *Registry) PreloadAll() error {
	return r.cache.PreloadAll()
}

// UnloadAll drops all cached image data.
func (r *Registry) UnloadAll() {
	r.cache.UnloadAll()
}
