// Package dictionary serves named option lists (cities, currencies, banks)
// to the field renderer through the options.Provider contract.
package dictionary

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/options"
)

//go:embed data/*.yaml
var bundled embed.FS

// Registry stores dictionaries by name.
type Registry struct {
	mu      sync.RWMutex
	lists   map[string][]model.Option
	missing map[string]struct{}
	logger  *zap.Logger
}

var _ options.Provider = (*Registry)(nil)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the logger used for lookup diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Registry) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		lists:   make(map[string][]model.Option),
		missing: make(map[string]struct{}),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

// Default returns a registry preloaded with the bundled dictionaries.
func Default(opts ...Option) (*Registry, error) {
	r := NewRegistry(opts...)
	if err := r.LoadFS(bundled, "data"); err != nil {
		return nil, err
	}
	return r, nil
}

// Register stores (or replaces) a dictionary. Raw options are normalized.
func (r *Registry) Register(name string, raw []model.RawOption) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("dictionary: name is required")
	}
	list := options.Normalize(raw)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.lists[name] = list
	delete(r.missing, name)
	return nil
}

// Options implements options.Provider. Unknown names return nil and are
// logged once.
func (r *Registry) Options(name string) []model.Option {
	name = strings.TrimSpace(name)

	r.mu.RLock()
	list, ok := r.lists[name]
	r.mu.RUnlock()
	if ok {
		out := make([]model.Option, len(list))
		copy(out, list)
		return out
	}

	r.mu.Lock()
	_, seen := r.missing[name]
	r.missing[name] = struct{}{}
	r.mu.Unlock()
	if !seen {
		r.logger.Debug("dictionary not found", zap.String("dictionary", name))
	}
	return nil
}

// Has reports whether a dictionary is registered.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.lists[strings.TrimSpace(name)]
	return ok
}

// Names returns the registered dictionary names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.lists))
	for name := range r.lists {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LoadDir loads every dictionary file from a directory on disk.
func (r *Registry) LoadDir(dir string) error {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("dictionary: stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("dictionary: %s is not a directory", dir)
	}
	return r.LoadFS(os.DirFS(dir), ".")
}

// LoadFS loads <name>.yaml, <name>.yml and <name>.json files from dir. Each
// file holds a list of scalars or {value, label} pairs.
func (r *Registry) LoadFS(fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("dictionary: read %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		file := entry.Name()
		ext := strings.ToLower(path.Ext(file))
		if ext != ".yaml" && ext != ".yml" && ext != ".json" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, file))
		if err != nil {
			return fmt.Errorf("dictionary: read %s: %w", file, err)
		}
		raw, err := decode(data, ext)
		if err != nil {
			return fmt.Errorf("dictionary: decode %s: %w", file, err)
		}
		name := strings.TrimSuffix(file, path.Ext(file))
		if err := r.Register(name, raw); err != nil {
			return err
		}
		r.logger.Debug("dictionary loaded", zap.String("dictionary", name), zap.Int("options", len(raw)))
	}
	return nil
}

func decode(data []byte, ext string) ([]model.RawOption, error) {
	var raw []model.RawOption
	if ext == ".json" {
		err := json.Unmarshal(data, &raw)
		return raw, err
	}
	err := yaml.Unmarshal(data, &raw)
	return raw, err
}
