package templates

import (
	"context"
	"strings"
	"testing"
)

func renderToString(t *testing.T, meta PageMeta) string {
	t.Helper()
	var b strings.Builder
	if err := Layout(meta, Technologies()).Render(context.Background(), &b); err != nil {
		t.Fatalf("render: %v", err)
	}
	return b.String()
}

func TestTechnologiesContainsHeadingAndStack(t *testing.T) {
	html := renderToString(t, TechnologiesMeta("ru"))

	if !strings.Contains(html, `<h1 class="page-title">Технологии</h1>`) {
		t.Fatalf("missing heading: %s", html)
	}
	if !strings.Contains(html, "Вот на чём написан наш проект:") {
		t.Fatalf("missing subtitle: %s", html)
	}

	// The list must contain exactly the configured names in order.
	previous := 0
	for _, name := range technologyNames {
		item := "<li>" + name + "</li>"
		index := strings.Index(html, item)
		if index < 0 {
			t.Fatalf("missing technology %q: %s", name, html)
		}
		if index < previous {
			t.Fatalf("technology %q out of order", name)
		}
		previous = index
	}
	if got := strings.Count(html, "<li>"); got != len(technologyNames) {
		t.Fatalf("list item count = %d, want %d", got, len(technologyNames))
	}
}

func TestTechnologiesSetsMetadata(t *testing.T) {
	html := renderToString(t, TechnologiesMeta("ru"))

	if !strings.Contains(html, `<title>Технологии — Фудграм</title>`) {
		t.Fatalf("missing title: %s", html)
	}
	if !strings.Contains(html, `<meta name="description" content="Технологический стек Фудграм">`) {
		t.Fatalf("missing description: %s", html)
	}
	if !strings.Contains(html, `<meta property="og:title" content="Технологии — Фудграм">`) {
		t.Fatalf("missing og title: %s", html)
	}
	if !strings.Contains(html, `<html lang="ru">`) {
		t.Fatalf("missing lang attribute: %s", html)
	}
}

func TestTechnologiesRenderIsIdempotent(t *testing.T) {
	first := renderToString(t, TechnologiesMeta("ru"))
	second := renderToString(t, TechnologiesMeta("ru"))
	if first != second {
		t.Fatal("expected identical output across renders")
	}
}

func TestLayoutDefaultsLanguage(t *testing.T) {
	html := renderToString(t, PageMeta{Title: "x", Description: "y"})
	if !strings.Contains(html, `<html lang="ru">`) {
		t.Fatalf("expected default lang: %s", html)
	}
}

func TestLayoutEscapesMetadata(t *testing.T) {
	html := renderToString(t, PageMeta{Title: `<script>"x"`, Description: "a&b"})
	if strings.Contains(html, "<script>") {
		t.Fatalf("unescaped title: %s", html)
	}
	if !strings.Contains(html, "a&amp;b") {
		t.Fatalf("unescaped description: %s", html)
	}
}
