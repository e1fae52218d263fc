// Package model defines the declarative wizard document consumed by the
// renderers: documents hold ordered steps, steps hold field definitions, and
// field definitions describe a single input through a closed FieldType set.
//
// Documents decode from JSON or YAML. Option lists accept either bare scalars
// (`["yes", "no"]`) or `{value, label}` pairs, and a step's `next` accepts a
// step id, a value-keyed map, or a list of candidate ids. Decoding never
// rejects an unknown field type; callers decide how to surface it (the field
// renderer shows an inline "unsupported" placeholder).
package model
