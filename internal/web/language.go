package web

import (
	"net/http"

	"golang.org/x/text/language"
)

// supportedLanguages lists the page languages; Russian is the default.
var supportedLanguages = []language.Tag{
	language.Russian,
	language.English,
}

var languageMatcher = language.NewMatcher(supportedLanguages)

// resolveLanguage picks the best supported language for the request.
func resolveLanguage(r *http.Request) string {
	if r == nil {
		return supportedLanguages[0].String()
	}
	tags, _, err := language.ParseAcceptLanguage(r.Header.Get("Accept-Language"))
	if err != nil || len(tags) == 0 {
		return supportedLanguages[0].String()
	}
	// The matcher still reports a pick for unrelated tags; only trust it
	// when it has some confidence, otherwise keep the Russian default.
	_, index, confidence := languageMatcher.Match(tags...)
	if confidence == language.No {
		return supportedLanguages[0].String()
	}
	return supportedLanguages[index].String()
}
