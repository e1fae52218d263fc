package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/model"
)

// Transformer mutates a decoded document before a wizard session is built.
type Transformer interface {
	Transform(ctx context.Context, doc *model.DocumentSchema) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, doc *model.DocumentSchema) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, doc *model.DocumentSchema) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, doc)
}

// Chain runs transformers in order and stops at the first error.
func Chain(transformers ...Transformer) Transformer {
	return TransformerFunc(func(ctx context.Context, doc *model.DocumentSchema) error {
		for _, t := range transformers {
			if t == nil {
				continue
			}
			if err := t.Transform(ctx, doc); err != nil {
				return err
			}
		}
		return nil
	})
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON file,
// typically to relabel a document for another audience:
//
//	{
//	  "title": "Claim",
//	  "category": "Courts",
//	  "steps": {
//	    "married": {"title": "Are you married?", "rules": ["Attach the certificate"]},
//	    "children": {"item_label": "Child", "fields": {"name": {"label": "Full name"}}}
//	  }
//	}
type JSONPresetTransformer struct {
	document jsonTransformDocument
}

type jsonTransformDocument struct {
	Title    string                   `json:"title"`
	Category string                   `json:"category"`
	Steps    map[string]jsonStepPatch `json:"steps"`
}

type jsonStepPatch struct {
	Title     string                    `json:"title"`
	Label     string                    `json:"label"`
	ItemLabel string                    `json:"item_label"`
	Rules     []string                  `json:"rules"`
	Fields    map[string]jsonFieldPatch `json:"fields"`
}

type jsonFieldPatch struct {
	Label      string `json:"label"`
	Dictionary string `json:"dictionary"`
	ShowIf     string `json:"show_if"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document jsonTransformDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a JSON transformer document from the
// provided filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto doc. Unknown steps and
// fields are errors so stale presets surface early.
func (t *JSONPresetTransformer) Transform(ctx context.Context, doc *model.DocumentSchema) error {
	if doc == nil {
		return errors.New("json preset transformer: document is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.document.Title != "" {
		doc.Title = t.document.Title
	}
	if t.document.Category != "" {
		doc.Category = t.document.Category
	}

	for id, patch := range t.document.Steps {
		if err := ctx.Err(); err != nil {
			return err
		}
		idx := doc.StepIndex(id)
		if idx < 0 {
			return fmt.Errorf("json preset transformer: step %q not found", id)
		}
		if err := applyStepPatch(&doc.Parsed.Steps[idx], patch); err != nil {
			return err
		}
	}
	return nil
}

func applyStepPatch(step *model.StepDefinition, patch jsonStepPatch) error {
	if patch.Title != "" {
		step.Title = patch.Title
	}
	if patch.Label != "" {
		step.Label = patch.Label
	}
	if patch.ItemLabel != "" {
		step.ItemLabel = patch.ItemLabel
	}
	if len(patch.Rules) > 0 {
		step.Rules = append([]string(nil), patch.Rules...)
	}
	for name, fieldPatch := range patch.Fields {
		fields := stepFields(step, name)
		if len(fields) == 0 {
			return fmt.Errorf("json preset transformer: field %q not found in step %q", name, step.ID)
		}
		for _, field := range fields {
			applyFieldPatch(field, fieldPatch)
		}
	}
	return nil
}

func applyFieldPatch(field *model.FieldDefinition, patch jsonFieldPatch) {
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.Dictionary != "" {
		field.Dictionary = patch.Dictionary
	}
	if patch.ShowIf != "" {
		field.ShowIf = patch.ShowIf
	}
}

// stepFields finds every definition of name in the step: plain fields,
// manual-mode fields, block fields and the bank card template.
func stepFields(step *model.StepDefinition, name string) []*model.FieldDefinition {
	name = strings.TrimSpace(name)
	var out []*model.FieldDefinition
	collect := func(fields []model.FieldDefinition) {
		for idx := range fields {
			if fields[idx].Path() == name {
				out = append(out, &fields[idx])
			}
		}
	}
	collect(step.Fields)
	collect(step.ManualFields)
	for _, block := range step.Blocks {
		collect(block)
	}
	if step.BankCardTemplate != nil {
		collect(step.BankCardTemplate.Fields)
	}
	return out
}

// cloneDocument copies the slices a preset may patch so transforms never
// leak into documents shared through a catalog.
func cloneDocument(doc model.DocumentSchema) model.DocumentSchema {
	steps := make([]model.StepDefinition, len(doc.Parsed.Steps))
	for idx, step := range doc.Parsed.Steps {
		step.Fields = append([]model.FieldDefinition(nil), step.Fields...)
		step.ManualFields = append([]model.FieldDefinition(nil), step.ManualFields...)
		step.Rules = append([]string(nil), step.Rules...)
		if step.Blocks != nil {
			blocks := make(map[string][]model.FieldDefinition, len(step.Blocks))
			for key, fields := range step.Blocks {
				blocks[key] = append([]model.FieldDefinition(nil), fields...)
			}
			step.Blocks = blocks
		}
		if step.BankCardTemplate != nil {
			template := model.FieldTemplate{Fields: append([]model.FieldDefinition(nil), step.BankCardTemplate.Fields...)}
			step.BankCardTemplate = &template
		}
		steps[idx] = step
	}
	doc.Parsed.Steps = steps
	return doc
}
