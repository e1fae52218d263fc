// Package render maps field definitions onto widgets. A FieldRenderer picks a
// widget per field type, evaluates show_if rules, resolves option lists and
// binds every widget to the injected value and error stores. Output renderers
// (HTML, terminal) consume the resulting Page.
package render
