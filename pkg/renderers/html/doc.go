// Package html renders wizard and account pages to HTML through pongo2
// templates. Every widget kind has its own template under
// templates/widgets; field.tmpl wraps controls with the label and error and
// page.tmpl lays out a whole page. Labels and messages are sanitized with
// bluemonday before they reach a template.
package html
