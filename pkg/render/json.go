package render

import (
	"context"
	"encoding/json"
	"fmt"
)

// JSONRenderer serializes a Page, for API clients and debugging.
type JSONRenderer struct {
	Indent bool
}

var _ Renderer = JSONRenderer{}

// Name implements Renderer.
func (JSONRenderer) Name() string { return "json" }

// ContentType implements Renderer.
func (JSONRenderer) ContentType() string { return "application/json; charset=utf-8" }

// Render implements Renderer.
func (r JSONRenderer) Render(_ context.Context, page Page, opts RenderOptions) ([]byte, error) {
	if opts.Locale != "" {
		page.Locale = opts.Locale
	}
	var payload any = page
	if opts.Partial {
		payload = page.AllWidgets()
	}
	var (
		out []byte
		err error
	)
	if r.Indent {
		out, err = json.MarshalIndent(payload, "", "  ")
	} else {
		out, err = json.Marshal(payload)
	}
	if err != nil {
		return nil, fmt.Errorf("render: encode page: %w", err)
	}
	return out, nil
}
