// Package formstate holds the live values and validation messages of a form.
//
// Renderers consume the narrow ValueStore and ErrorStore interfaces and never
// write values themselves; change handlers (widget bindings, HTTP handlers,
// prompt drivers) are the only writers. Store is the in-memory implementation
// used by the wizard session, the account pages and tests.
package formstate
