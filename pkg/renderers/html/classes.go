package html

// Classes holds the CSS class names templates put on page chrome.
type Classes struct {
	Page        string
	Header      string
	Progress    string
	Description string
	Notice      string
	Errors      string
	Form        string
	Section     string
	Field       string
	Control     string
	Invalid     string
	Required    string
	Error       string
	Hint        string
	Choice      string
	Summary     string
	Actions     string
	Primary     string
	Unsupported string
}

// DefaultClasses returns the classes the bundled stylesheet targets.
func DefaultClasses() Classes {
	return Classes{
		Page:        "fw-page",
		Header:      "fw-header",
		Progress:    "fw-progress",
		Description: "fw-description",
		Notice:      "fw-notice",
		Errors:      "fw-errors",
		Form:        "fw-form",
		Section:     "fw-section",
		Field:       "fw-field",
		Control:     "fw-control",
		Invalid:     "fw-invalid",
		Required:    "fw-required",
		Error:       "fw-error",
		Hint:        "fw-hint",
		Choice:      "fw-choice",
		Summary:     "fw-summary",
		Actions:     "fw-actions",
		Primary:     "fw-primary",
		Unsupported: "fw-unsupported",
	}
}

// merge overrides c with the non-empty values of other.
func (c Classes) merge(other Classes) Classes {
	pick := func(base, override string) string {
		if override != "" {
			return override
		}
		return base
	}
	return Classes{
		Page:        pick(c.Page, other.Page),
		Header:      pick(c.Header, other.Header),
		Progress:    pick(c.Progress, other.Progress),
		Description: pick(c.Description, other.Description),
		Notice:      pick(c.Notice, other.Notice),
		Errors:      pick(c.Errors, other.Errors),
		Form:        pick(c.Form, other.Form),
		Section:     pick(c.Section, other.Section),
		Field:       pick(c.Field, other.Field),
		Control:     pick(c.Control, other.Control),
		Invalid:     pick(c.Invalid, other.Invalid),
		Required:    pick(c.Required, other.Required),
		Error:       pick(c.Error, other.Error),
		Hint:        pick(c.Hint, other.Hint),
		Choice:      pick(c.Choice, other.Choice),
		Summary:     pick(c.Summary, other.Summary),
		Actions:     pick(c.Actions, other.Actions),
		Primary:     pick(c.Primary, other.Primary),
		Unsupported: pick(c.Unsupported, other.Unsupported),
	}
}

func (c Classes) context() map[string]any {
	return map[string]any{
		"page":        c.Page,
		"header":      c.Header,
		"progress":    c.Progress,
		"description": c.Description,
		"notice":      c.Notice,
		"errors":      c.Errors,
		"form":        c.Form,
		"section":     c.Section,
		"field":       c.Field,
		"control":     c.Control,
		"invalid":     c.Invalid,
		"required":    c.Required,
		"error":       c.Error,
		"hint":        c.Hint,
		"choice":      c.Choice,
		"summary":     c.Summary,
		"actions":     c.Actions,
		"primary":     c.Primary,
		"unsupported": c.Unsupported,
	}
}
