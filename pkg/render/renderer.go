package render

import (
	"context"
)

// Renderer turns a Page into bytes (HTML, JSON).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, page Page, opts RenderOptions) ([]byte, error)
}

// RenderOptions carry per-request presentation settings.
type RenderOptions struct {
	// Locale selects template strings; defaults to Page.Locale.
	Locale string
	// Partial renders only the widgets, without the surrounding form chrome.
	Partial bool
}

// Page is one screen: a wizard step or an account form.
type Page struct {
	Title       string         `json:"title,omitempty"`
	Heading     string         `json:"heading,omitempty"`
	Description string         `json:"description,omitempty"`
	Locale      string         `json:"locale,omitempty"`
	Action      string         `json:"action,omitempty"`
	Method      string         `json:"method,omitempty"`
	Step        *StepInfo      `json:"step,omitempty"`
	Widgets     []*Widget      `json:"widgets"`
	Sections    []Section      `json:"sections,omitempty"`
	Hidden      []HiddenField  `json:"hidden,omitempty"`
	Actions     []Action       `json:"actions,omitempty"`
	FormErrors  []string       `json:"formErrors,omitempty"`
	Notice      string         `json:"notice,omitempty"`
	Summary     map[string]any `json:"summary,omitempty"`
}

// Section groups widgets under a caption, e.g. the repeated items of an
// array step.
type Section struct {
	Title   string    `json:"title"`
	Widgets []*Widget `json:"widgets"`
}

// StepInfo locates a wizard step inside its document.
type StepInfo struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Index int    `json:"index"`
	Total int    `json:"total"`
}

// Action is a submit button.
type Action struct {
	Name    string `json:"name"`
	Value   string `json:"value"`
	Label   string `json:"label"`
	Primary bool   `json:"primary,omitempty"`
}

// AllWidgets returns the page widgets followed by every section widget.
func (p Page) AllWidgets() []*Widget {
	out := make([]*Widget, 0, len(p.Widgets))
	out = append(out, p.Widgets...)
	for _, section := range p.Sections {
		out = append(out, section.Widgets...)
	}
	return out
}
