// Package formwizard is the top-level entry point: it re-exports the
// orchestrator and the embedded HTML assets for callers that want one import.
package formwizard

import (
	"context"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/orchestrator"
	"github.com/goliatone/go-formwizard/pkg/render"
	"github.com/goliatone/go-formwizard/pkg/schema"
)

// RenderOptions describes per-request presentation settings.
type RenderOptions = render.RenderOptions

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// GenerateHTML loads the document behind source and renders step (the first
// step when empty) with the named renderer.
func GenerateHTML(ctx context.Context, source schema.Source, step, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Source:   source,
		Step:     step,
		Renderer: rendererName,
	})
}

// GenerateHTMLFromDocument renders a step of a decoded document, bypassing
// the loader.
func GenerateHTMLFromDocument(ctx context.Context, doc model.DocumentSchema, step, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Document: &doc,
		Step:     step,
		Renderer: rendererName,
	})
}

// NewLoader builds a schema loader.
func NewLoader(options ...schema.LoaderOption) *schema.Loader {
	return schema.NewLoader(options...)
}

// ParseSource turns a CLI argument (path, fs:name or http(s) URL) into a
// Source.
func ParseSource(arg string) (schema.Source, error) {
	return schema.ParseSource(arg)
}
