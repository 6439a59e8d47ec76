package templates

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/foodgram-app/foodgram/internal/platform/branding"
)

// technologyNames is the fixed, ordered stack shown on the page.
var technologyNames = []string{
	"Go",
	"SQLite",
	"templ",
	"JWT",
	"React",
}

// TechnologiesMeta is the document metadata of the technologies page.
func TechnologiesMeta(lang string) PageMeta {
	return PageMeta{
		Title:       "Технологии — " + branding.AppName,
		Description: "Технологический стек " + branding.AppName,
		Lang:        lang,
	}
}

// Technologies renders the static technology-stack page body.
func Technologies() templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<h2 class="page-subtitle">Вот на чём написан наш проект:</h2><ul class="technologies">`); err != nil {
			return err
		}
		for _, name := range technologyNames {
			if _, err := fmt.Fprintf(w, `<li>%s</li>`, templ.EscapeString(name)); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul>`)
		return err
	})
	return Container(PageTitle("Технологии"), body)
}
