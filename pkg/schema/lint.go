package schema

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/options"
	"github.com/goliatone/go-formwizard/pkg/visibility"
	"github.com/goliatone/go-formwizard/pkg/visibility/expr"
)

//go:embed document.schema.json
var documentSchemaJSON []byte

const documentSchemaURL = "document.schema.json"

// Severity grades lint issues. Only errors make a document invalid.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Issue is one lint finding with its JSON pointer location.
type Issue struct {
	Severity Severity `json:"severity"`
	Path     string   `json:"path,omitempty"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
}

// LintResult captures lint outcomes.
type LintResult struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// Errors returns the error-severity issues.
func (r LintResult) Errors() []Issue {
	var out []Issue
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			out = append(out, issue)
		}
	}
	return out
}

type lintConfig struct {
	evaluator visibility.Evaluator
	provider  options.Provider
}

// LintOption configures Lint.
type LintOption func(*lintConfig)

// WithEvaluator checks show_if rules with evaluator (default: built-in).
func WithEvaluator(evaluator visibility.Evaluator) LintOption {
	return func(cfg *lintConfig) {
		if evaluator != nil {
			cfg.evaluator = evaluator
		}
	}
}

// WithDictionaries reports dictionaries the provider cannot serve.
func WithDictionaries(provider options.Provider) LintOption {
	return func(cfg *lintConfig) { cfg.provider = provider }
}

var (
	compileOnce    sync.Once
	compiledSchema *jsonschema.Schema
	compileErr     error
)

func documentSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(documentSchemaURL, bytes.NewReader(documentSchemaJSON)); err != nil {
			compileErr = fmt.Errorf("schema: add document schema: %w", err)
			return
		}
		compiledSchema, compileErr = compiler.Compile(documentSchemaURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("schema: compile document schema: %w", compileErr)
		}
	})
	return compiledSchema, compileErr
}

// Lint validates doc structurally against the bundled JSON Schema, then
// checks references between steps, field types, show_if rules and
// dictionaries.
func Lint(doc Document, opts ...LintOption) LintResult {
	cfg := lintConfig{evaluator: expr.New()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	result := LintResult{Valid: true}
	generic, err := doc.Generic()
	if err != nil {
		return invalid(Issue{Severity: SeverityError, Message: err.Error()})
	}

	compiled, err := documentSchema()
	if err != nil {
		return invalid(Issue{Severity: SeverityError, Message: err.Error()})
	}
	if err := compiled.Validate(generic); err != nil {
		var verr *jsonschema.ValidationError
		if !errors.As(err, &verr) {
			return invalid(Issue{Severity: SeverityError, Message: err.Error()})
		}
		result.Issues = append(result.Issues, collectValidationIssues(verr)...)
		result.Valid = false
		return result
	}

	decoded, err := doc.Decode()
	if err != nil {
		return invalid(Issue{Severity: SeverityError, Message: err.Error()})
	}
	result.Issues = append(result.Issues, lintSemantics(decoded, cfg)...)
	for _, issue := range result.Issues {
		if issue.Severity == SeverityError {
			result.Valid = false
		}
	}
	return result
}

func invalid(issue Issue) LintResult {
	return LintResult{Valid: false, Issues: []Issue{issue}}
}

// collectValidationIssues flattens the cause tree into leaf messages.
func collectValidationIssues(root *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			location := e.InstanceLocation
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     location,
				Field:    fieldPathFromPointer(location),
				Message:  strings.TrimSpace(e.Message),
			})
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(root)
	sort.SliceStable(issues, func(i, j int) bool { return issues[i].Path < issues[j].Path })
	return issues
}

func lintSemantics(doc model.DocumentSchema, cfg lintConfig) []Issue {
	var issues []Issue
	add := func(severity Severity, path, format string, args ...any) {
		issues = append(issues, Issue{
			Severity: severity,
			Path:     path,
			Field:    fieldPathFromPointer(path),
			Message:  fmt.Sprintf(format, args...),
		})
	}

	seen := make(map[string]int)
	for idx, step := range doc.Steps() {
		stepPath := fmt.Sprintf("/parsed/steps/%d", idx)
		if prev, dup := seen[step.ID]; dup {
			add(SeverityError, stepPath+"/id", "duplicate step id %q (first declared at step %d)", step.ID, prev)
		} else {
			seen[step.ID] = idx
		}
	}

	for idx, step := range doc.Steps() {
		stepPath := fmt.Sprintf("/parsed/steps/%d", idx)
		lintNext(doc, step, stepPath, add)

		if step.Type == model.StepTypeInputMode && strings.TrimSpace(step.InputModeField) == "" {
			add(SeverityError, stepPath, "input-mode step %q needs input_mode_field", step.ID)
		}
		if (step.Type == model.StepTypeArray || step.Type == model.StepTypeDynamicMultiBlock) &&
			len(step.Fields) == 0 && len(step.Blocks) == 0 {
			add(SeverityWarning, stepPath, "%s step %q declares no fields", step.Type, step.ID)
		}
		if cfg.provider != nil && step.OptionsFrom != "" && len(step.Options) == 0 &&
			len(cfg.provider.Options(step.OptionsFrom)) == 0 {
			add(SeverityWarning, stepPath+"/optionsFrom", "dictionary %q is not available", step.OptionsFrom)
		}

		groups := stepFieldGroups(step)
		names := make([]string, 0, len(groups))
		for name := range groups {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, group := range names {
			for fieldIdx, field := range groups[group] {
				lintField(field, fmt.Sprintf("%s/%s/%d", stepPath, group, fieldIdx), cfg, add)
			}
		}
	}
	return issues
}

func stepFieldGroups(step model.StepDefinition) map[string][]model.FieldDefinition {
	groups := map[string][]model.FieldDefinition{
		"fields":        step.Fields,
		"manual_fields": step.ManualFields,
	}
	if step.BankCardTemplate != nil {
		groups["bank_card_template/fields"] = step.BankCardTemplate.Fields
	}
	for key, fields := range step.Blocks {
		groups["blocks/"+escapePointer(key)] = fields
	}
	return groups
}

func lintNext(doc model.DocumentSchema, step model.StepDefinition, stepPath string, add func(Severity, string, string, ...any)) {
	exists := func(id string) bool { return doc.StepIndex(id) >= 0 }
	next := step.Next
	switch {
	case next.Step != "":
		if !exists(next.Step) {
			add(SeverityError, stepPath+"/next", "step %q points to unknown step %q", step.ID, next.Step)
		}
	case len(next.ByValue) > 0:
		keys := make([]string, 0, len(next.ByValue))
		for key := range next.ByValue {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			if target := next.ByValue[key]; !exists(target) {
				add(SeverityError, stepPath+"/next/"+escapePointer(key), "step %q points to unknown step %q", step.ID, target)
			}
		}
	case len(next.Candidates) > 0:
		for _, candidate := range next.Candidates {
			if exists(candidate) {
				return
			}
		}
		add(SeverityError, stepPath+"/next", "none of the next candidates of step %q exist", step.ID)
	}
}

func lintField(field model.FieldDefinition, path string, cfg lintConfig, add func(Severity, string, string, ...any)) {
	if !field.Type.Supported() {
		add(SeverityWarning, path+"/type", "field %q has unsupported type %q", field.Name, field.Type)
	}
	if rule := strings.TrimSpace(field.ShowIf); rule != "" && cfg.evaluator != nil {
		if _, err := cfg.evaluator.Eval(field.Path(), rule, visibility.Context{}); err != nil {
			add(SeverityWarning, path+"/show_if", "field %q show_if %q: %v", field.Name, rule, err)
		}
	}
	if cfg.provider != nil && field.Dictionary != "" && len(field.Options) == 0 &&
		len(cfg.provider.Options(field.Dictionary)) == 0 {
		add(SeverityWarning, path+"/dictionary", "dictionary %q is not available", field.Dictionary)
	}
	if field.Min != nil && field.Max != nil && *field.Min > *field.Max {
		add(SeverityWarning, path, "field %q has min greater than max", field.Name)
	}
}

func escapePointer(segment string) string {
	segment = strings.ReplaceAll(segment, "~", "~0")
	return strings.ReplaceAll(segment, "/", "~1")
}

// fieldPathFromPointer turns /parsed/steps/2/fields/0 into the dotted form
// parsed.steps.2.fields.0.
func fieldPathFromPointer(pointer string) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(pointer), "#")
	trimmed = strings.Trim(trimmed, "/")
	if trimmed == "" {
		return ""
	}
	parts := strings.Split(trimmed, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.ReplaceAll(part, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		if segment != "" {
			out = append(out, segment)
		}
	}
	return strings.Join(out, ".")
}
