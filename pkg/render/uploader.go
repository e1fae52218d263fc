package render

import (
	"github.com/goliatone/go-formwizard/pkg/i18n"
	"github.com/goliatone/go-formwizard/pkg/model"
)

// UploadSpec describes the upload control a FileUploader wants drawn.
type UploadSpec struct {
	Accept   string `json:"accept,omitempty"`
	Multiple bool   `json:"multiple,omitempty"`
	Hint     string `json:"hint,omitempty"`
	// Endpoint is where the client posts the file; empty keeps the file in
	// the surrounding form submission.
	Endpoint string `json:"endpoint,omitempty"`
}

// FileUploader owns file fields. The renderer hands it the field definition
// and embeds the returned spec in the widget.
type FileUploader interface {
	Describe(field model.FieldDefinition, locale string) UploadSpec
}

// FileUploaderFunc adapts a function to FileUploader.
type FileUploaderFunc func(field model.FieldDefinition, locale string) UploadSpec

// Describe implements FileUploader.
func (fn FileUploaderFunc) Describe(field model.FieldDefinition, locale string) UploadSpec {
	return fn(field, locale)
}

// NoopUploader draws a plain file input and stores nothing.
type NoopUploader struct {
	Translator i18n.Translator
	Accept     string
}

// Describe implements FileUploader.
func (u NoopUploader) Describe(field model.FieldDefinition, locale string) UploadSpec {
	return UploadSpec{
		Accept:   u.Accept,
		Multiple: field.Max != nil && *field.Max > 1,
		Hint:     i18n.Translate(u.Translator, locale, "render.file.hint", "Upload a document"),
	}
}
