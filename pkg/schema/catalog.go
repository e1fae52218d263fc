package schema

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/goliatone/go-formwizard/pkg/model"
)

//go:embed samples/*.json
var samples embed.FS

// Samples returns the bundled example documents.
func Samples() fs.FS {
	sub, err := fs.Sub(samples, "samples")
	if err != nil {
		panic(err)
	}
	return sub
}

// Catalog keeps decoded documents by code.
type Catalog struct {
	mu     sync.RWMutex
	docs   map[string]model.DocumentSchema
	logger *zap.Logger
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithCatalogLogger sets the logger used while loading documents.
func WithCatalogLogger(logger *zap.Logger) CatalogOption {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCatalog creates an empty catalog.
func NewCatalog(opts ...CatalogOption) *Catalog {
	c := &Catalog{
		docs:   make(map[string]model.DocumentSchema),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Add registers doc under its code, replacing any previous version.
func (c *Catalog) Add(doc model.DocumentSchema) error {
	code := strings.TrimSpace(doc.Code)
	if code == "" {
		return fmt.Errorf("schema: document %q has no code", doc.Title)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs[code] = doc
	return nil
}

// Get returns the document with code.
func (c *Catalog) Get(code string) (model.DocumentSchema, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	doc, ok := c.docs[strings.TrimSpace(code)]
	return doc, ok
}

// List returns every document sorted by category then title.
func (c *Catalog) List() []model.DocumentSchema {
	c.mu.RLock()
	out := make([]model.DocumentSchema, 0, len(c.docs))
	for _, doc := range c.docs {
		out = append(out, doc)
	}
	c.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].Title != out[j].Title {
			return out[i].Title < out[j].Title
		}
		return out[i].Code < out[j].Code
	})
	return out
}

// LoadFS lints and loads every .json/.yaml/.yml document in dir of files.
// Documents with lint errors are skipped and reported in the returned map.
func (c *Catalog) LoadFS(ctx context.Context, files fs.FS, dir string, opts ...LintOption) (map[string]LintResult, error) {
	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return nil, fmt.Errorf("schema: read %s: %w", dir, err)
	}
	loader := NewLoader(WithFS(files))
	rejected := make(map[string]LintResult)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		switch strings.ToLower(path.Ext(name)) {
		case ".json", ".yaml", ".yml":
		default:
			continue
		}

		doc, err := loader.Load(ctx, SourceFromFS(path.Join(dir, name)))
		if err != nil {
			return nil, err
		}
		if result := Lint(doc, opts...); !result.Valid {
			rejected[name] = result
			c.logger.Warn("skipping invalid document",
				zap.String("file", name),
				zap.Int("issues", len(result.Errors())),
			)
			continue
		}
		decoded, err := doc.Decode()
		if err != nil {
			return nil, err
		}
		if err := c.Add(decoded); err != nil {
			return nil, err
		}
		c.logger.Debug("document loaded", zap.String("code", decoded.Code), zap.String("file", name))
	}
	return rejected, nil
}

// LoadDir loads documents from a directory on disk.
func (c *Catalog) LoadDir(ctx context.Context, dir string, opts ...LintOption) (map[string]LintResult, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("schema: stat %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("schema: %s is not a directory", dir)
	}
	return c.LoadFS(ctx, os.DirFS(dir), ".", opts...)
}
