package formwizard

import (
	"io/fs"

	"github.com/goliatone/go-formwizard/pkg/renderers/html"
	"github.com/goliatone/go-formwizard/pkg/schema"
)

// AssetsFS exposes the stylesheet used by the HTML renderer.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(formwizard.AssetsFS()),
//	  ),
//	)
func AssetsFS() fs.FS {
	return html.AssetsFS()
}

// EmbeddedTemplates exposes the built-in HTML templates so callers can copy
// and override them through html.WithTemplatesDir.
func EmbeddedTemplates() fs.FS {
	return html.TemplatesFS()
}

// Samples exposes the bundled sample documents.
func Samples() fs.FS {
	return schema.Samples()
}
