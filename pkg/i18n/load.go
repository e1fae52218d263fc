package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed locales/*.yaml
var defaultLocales embed.FS

// DefaultLocale is used when no locale is configured.
const DefaultLocale = "en"

// Default returns a catalog seeded with the bundled en and ru messages.
func Default() *Catalog {
	catalog := NewCatalog(DefaultLocale)
	if err := LoadFS(catalog, defaultLocales, "locales"); err != nil {
		panic(fmt.Sprintf("i18n: bundled catalogs: %v", err))
	}
	return catalog
}

// LoadFS reads every <locale>.yaml (or .yml) file in dir into the catalog.
// Files hold a flat key/message map; nested maps are joined with dots.
func LoadFS(catalog *Catalog, fsys fs.FS, dir string) error {
	if catalog == nil {
		return fmt.Errorf("i18n: catalog is nil")
	}
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("i18n: read %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		ext := path.Ext(name)
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return fmt.Errorf("i18n: read %s: %w", name, err)
		}
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return fmt.Errorf("i18n: decode %s: %w", name, err)
		}
		messages := make(map[string]string)
		flattenMessages("", raw, messages)
		catalog.Add(strings.TrimSuffix(name, ext), messages)
	}
	return nil
}

func flattenMessages(prefix string, in map[string]any, out map[string]string) {
	for key, value := range in {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		switch v := value.(type) {
		case map[string]any:
			flattenMessages(full, v, out)
		case nil:
		default:
			out[full] = fmt.Sprint(v)
		}
	}
}
