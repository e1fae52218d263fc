package render

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ApplyForm writes posted form values into the widgets' bindings. Values
// are coerced by widget kind: checkboxes become booleans (absent = false),
// multi-value widgets become lists, numbers become float64 when they parse
// and option widgets map posted text back to typed option values. Read-only,
// file and unsupported widgets are skipped.
func ApplyForm(widgets []*Widget, form url.Values) error {
	for _, widget := range widgets {
		if widget == nil {
			continue
		}
		name := widget.Binding.Name()
		posted, present := form[name]

		var value any
		switch widget.Kind {
		case WidgetReadOnly, WidgetFile, WidgetUnsupported:
			continue
		case WidgetCheckbox:
			value = present && checkboxOn(first(posted))
		case WidgetMultiSelect, WidgetCheckboxGroup:
			list := make([]any, 0, len(posted))
			for _, text := range posted {
				if text = strings.TrimSpace(text); text != "" {
					list = append(list, MatchOption(widget.Options, text))
				}
			}
			value = list
		case WidgetSelect, WidgetRadio:
			if !present {
				continue
			}
			text := strings.TrimSpace(first(posted))
			if text == "" {
				value = ""
				break
			}
			value = MatchOption(widget.Options, text)
		default:
			if !present {
				continue
			}
			text := first(posted)
			if widget.InputType == "number" {
				value = parseNumber(text)
			} else {
				value = text
			}
		}

		if err := widget.Binding.Set(value); err != nil {
			return fmt.Errorf("render: apply %q: %w", name, err)
		}
	}
	return nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func checkboxOn(text string) bool {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "", "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

func parseNumber(text string) any {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	if f, err := strconv.ParseFloat(strings.ReplaceAll(trimmed, ",", "."), 64); err == nil {
		return f
	}
	return text
}
