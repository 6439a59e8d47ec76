// Package templates renders the server-side informational pages.
package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// PageMeta carries the document metadata a page sets.
type PageMeta struct {
	// Title becomes the document title and the social-preview title.
	Title string
	// Description becomes the meta description.
	Description string
	// Lang is the document language tag.
	Lang string
}

// Layout wraps page content in the shared document shell and emits the
// page metadata tags.
func Layout(meta PageMeta, content templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		lang := meta.Lang
		if lang == "" {
			lang = "ru"
		}
		if _, err := fmt.Fprintf(w,
			`<!doctype html><html lang="%s"><head><meta charset="utf-8"><title>%s</title><meta name="description" content="%s"><meta property="og:title" content="%s"></head><body><main class="main">`,
			templ.EscapeString(lang),
			templ.EscapeString(meta.Title),
			templ.EscapeString(meta.Description),
			templ.EscapeString(meta.Title),
		); err != nil {
			return err
		}
		if content != nil {
			if err := content.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</main></body></html>`)
		return err
	})
}

// Container constrains page content to the shared width and margins.
func Container(children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div class="container">`); err != nil {
			return err
		}
		for _, child := range children {
			if child == nil {
				continue
			}
			if err := child.Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}

// PageTitle renders the page heading inside the shared title wrapper.
func PageTitle(title string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<h1 class="page-title">%s</h1>`, templ.EscapeString(title))
		return err
	})
}
