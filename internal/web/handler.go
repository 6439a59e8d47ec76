// Package web serves the server-rendered informational pages.
package web

import (
	"log"
	"net/http"

	"github.com/foodgram-app/foodgram/internal/platform/httpx"
	"github.com/foodgram-app/foodgram/internal/web/templates"
)

// NewHandler builds the informational page routes.
func NewHandler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /technologies/{$}", http.HandlerFunc(handleTechnologies))
	mux.Handle("GET /technologies", http.HandlerFunc(handleTechnologies))
	return httpx.Chain(mux, httpx.RecoverPanic())
}

func handleTechnologies(w http.ResponseWriter, r *http.Request) {
	lang := resolveLanguage(r)
	page := templates.Layout(templates.TechnologiesMeta(lang), templates.Technologies())

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := page.Render(httpx.RequestContext(r), w); err != nil {
		log.Printf("render technologies page: %v", err)
	}
}
