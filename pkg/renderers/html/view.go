package html

import (
	"sort"
	"strconv"

	"github.com/goliatone/go-formwizard/pkg/model"
	"github.com/goliatone/go-formwizard/pkg/render"
)

// widgetView flattens a widget into template data. Numbers are preformatted
// and every label or message is sanitized.
func widgetView(w *render.Widget) map[string]any {
	view := map[string]any{
		"kind":        string(w.Kind),
		"name":        w.Name,
		"field_type":  string(w.FieldType),
		"label":       sanitizeText(w.Label),
		"label_for":   labelFor(w.Kind),
		"input_type":  w.InputType,
		"placeholder": w.Placeholder,
		"caption":     sanitizeText(w.Caption),
		"required":    w.Required,
		"text":        w.Text,
		"checked":     w.Checked,
		"error":       sanitizeText(w.Error),
		"message":     sanitizeText(w.Message),
		"min":         formatBound(w.Min),
		"max":         formatBound(w.Max),
		"rows":        "",
	}
	if w.Rows > 0 {
		view["rows"] = strconv.Itoa(w.Rows)
	}

	options := make([]any, 0, len(w.Options))
	for i, opt := range w.Options {
		options = append(options, map[string]any{
			"index":    strconv.Itoa(i),
			"text":     opt.Text,
			"label":    sanitizeText(opt.Label),
			"selected": opt.Selected,
		})
	}
	view["options"] = options

	if w.Upload != nil {
		view["upload"] = map[string]any{
			"accept":   w.Upload.Accept,
			"multiple": w.Upload.Multiple,
			"hint":     sanitizeText(w.Upload.Hint),
			"endpoint": w.Upload.Endpoint,
		}
	}
	return view
}

// labelFor reports whether the label can point at a single control.
func labelFor(kind render.WidgetKind) bool {
	switch kind {
	case render.WidgetRadio, render.WidgetCheckboxGroup, render.WidgetReadOnly, render.WidgetUnsupported:
		return false
	default:
		return true
	}
}

func formatBound(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

type summaryRow struct {
	Path  string `json:"path"`
	Value string `json:"value"`
}

// summaryRows flattens a nested answer tree into sorted path/value rows.
func summaryRows(values map[string]any) []summaryRow {
	var rows []summaryRow
	var walk func(prefix string, value any)
	walk = func(prefix string, value any) {
		switch v := value.(type) {
		case map[string]any:
			for key, child := range v {
				walk(join(prefix, key), child)
			}
		case []any:
			if len(v) == 0 {
				rows = append(rows, summaryRow{Path: prefix})
				return
			}
			scalars := true
			for _, item := range v {
				switch item.(type) {
				case map[string]any, []any:
					scalars = false
				}
			}
			if scalars {
				text := ""
				for i, item := range v {
					if i > 0 {
						text += ", "
					}
					text += model.FormatValue(item)
				}
				rows = append(rows, summaryRow{Path: prefix, Value: text})
				return
			}
			for i, item := range v {
				walk(join(prefix, strconv.Itoa(i)), item)
			}
		default:
			rows = append(rows, summaryRow{Path: prefix, Value: model.FormatValue(v)})
		}
	}
	walk("", values)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Path < rows[j].Path })
	return rows
}

func join(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func hasFileWidget(widgets []*render.Widget) bool {
	for _, w := range widgets {
		if w != nil && w.Kind == render.WidgetFile {
			return true
		}
	}
	return false
}
