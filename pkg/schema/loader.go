package schema

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// DefaultRequestTimeout bounds HTTP loads when no timeout is configured.
const DefaultRequestTimeout = 10 * time.Second

// ErrHTTPDisabled is returned for URL sources when HTTP loading is off.
var ErrHTTPDisabled = errors.New("schema: http loading disabled")

// Loader reads documents from files, an fs.FS or HTTP(S).
type Loader struct {
	fs        fs.FS
	http      *http.Client
	allowHTTP bool
	timeout   time.Duration
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithFS serves SourceKindFS lookups from files.
func WithFS(files fs.FS) LoaderOption {
	return func(l *Loader) { l.fs = files }
}

// WithHTTPClient enables URL sources using client.
func WithHTTPClient(client *http.Client) LoaderOption {
	return func(l *Loader) {
		if client == nil {
			return
		}
		clone := *client
		l.http = &clone
		l.allowHTTP = true
	}
}

// WithHTTP enables URL sources with a default client.
func WithHTTP() LoaderOption {
	return func(l *Loader) {
		if l.http == nil {
			l.http = &http.Client{}
		}
		l.allowHTTP = true
	}
}

// WithRequestTimeout bounds each HTTP request.
func WithRequestTimeout(timeout time.Duration) LoaderOption {
	return func(l *Loader) { l.timeout = timeout }
}

// NewLoader builds a Loader. HTTP is disabled unless WithHTTP or
// WithHTTPClient is given.
func NewLoader(opts ...LoaderOption) *Loader {
	l := &Loader{timeout: DefaultRequestTimeout}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Load fetches the raw document behind src.
func (l *Loader) Load(ctx context.Context, src Source) (Document, error) {
	if src == nil {
		return Document{}, errors.New("schema: source is nil")
	}
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}

	var (
		data []byte
		err  error
	)
	switch src.Kind() {
	case SourceKindFile:
		data, err = loadFile(src.Location())
	case SourceKindFS:
		data, err = loadFromFS(l.fs, src.Location())
	case SourceKindURL:
		if !l.allowHTTP {
			return Document{}, ErrHTTPDisabled
		}
		data, err = l.loadHTTP(ctx, src.Location())
	default:
		err = fmt.Errorf("unsupported source kind %q", src.Kind())
	}
	if err != nil {
		return Document{}, fmt.Errorf("schema: load %s: %w", src.Location(), err)
	}
	return NewDocument(src, data)
}

// LoadSchema loads and decodes src.
func (l *Loader) LoadSchema(ctx context.Context, src Source) (model.DocumentSchema, error) {
	doc, err := l.Load(ctx, src)
	if err != nil {
		return model.DocumentSchema{}, err
	}
	return doc.Decode()
}

func loadFile(path string) ([]byte, error) {
	if path == "" {
		return nil, errors.New("file path is required")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	return os.ReadFile(abs)
}

func loadFromFS(files fs.FS, name string) ([]byte, error) {
	if name == "" {
		return nil, errors.New("fs path is required")
	}
	if files == nil {
		return nil, errors.New("fs is not configured")
	}
	return fs.ReadFile(files, name)
}

func (l *Loader) loadHTTP(ctx context.Context, url string) ([]byte, error) {
	reqCtx := ctx
	if l.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %s", resp.Status)
	}
	return io.ReadAll(resp.Body)
}
