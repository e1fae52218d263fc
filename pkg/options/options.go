// Package options normalizes option lists declared in documents and resolves
// the options a field should offer.
package options

import (
	"strings"

	"github.com/goliatone/go-formwizard/pkg/i18n"
	"github.com/goliatone/go-formwizard/pkg/model"
)

// labelTable overrides the label of well known scalar tokens. Keys are the
// translation keys under "option.".
var labelTable = map[string]string{
	"yes":           "Yes",
	"no":            "No",
	"until_divorce": "Until divorce",
	"forever":       "Forever",
	"until_date":    "Until the specified date",
	"prenup":        "Not married yet (prenup)",
	"in_marriage":   "Married (drawn up during marriage)",
	"divorce":       "After divorce (division agreement)",
	"personal":      "In person",
	"poa":           "By power of attorney",
}

// Normalizer turns raw options into {value, label} pairs. The zero value
// uses the English label table.
type Normalizer struct {
	Translator i18n.Translator
	Locale     string
}

// Normalize converts raw options with the English label table.
func Normalize(raw []model.RawOption) []model.Option {
	return Normalizer{}.Normalize(raw)
}

// Label returns the display label for a bare scalar option.
func Label(value any) string {
	return Normalizer{}.Label(value)
}

// Normalize converts raw options. Pairs pass through unchanged, so the
// operation is idempotent over its own output.
func (n Normalizer) Normalize(raw []model.RawOption) []model.Option {
	if len(raw) == 0 {
		return nil
	}
	out := make([]model.Option, 0, len(raw))
	for _, opt := range raw {
		if opt.Pair != nil {
			out = append(out, *opt.Pair)
			continue
		}
		out = append(out, model.Option{Value: opt.Scalar, Label: n.Label(opt.Scalar)})
	}
	return out
}

// Label returns the table label (translated when a translator is set) or the
// string form of the value.
func (n Normalizer) Label(value any) string {
	text := model.FormatValue(value)
	token, ok := tableToken(text)
	if !ok {
		return text
	}
	return i18n.Translate(n.Translator, n.Locale, "option."+token, labelTable[token])
}

// tableToken matches yes/no case-insensitively and the remaining tokens
// exactly.
func tableToken(text string) (string, bool) {
	if lower := strings.ToLower(text); lower == "yes" || lower == "no" {
		return lower, true
	}
	if _, ok := labelTable[text]; ok {
		return text, true
	}
	return "", false
}

// Pairs wraps normalized options back into raw pairs.
func Pairs(opts []model.Option) []model.RawOption {
	if len(opts) == 0 {
		return nil
	}
	out := make([]model.RawOption, 0, len(opts))
	for _, opt := range opts {
		out = append(out, model.PairOption(opt.Value, opt.Label))
	}
	return out
}
