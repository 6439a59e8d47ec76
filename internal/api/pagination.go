package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/foodgram-app/foodgram/internal/platform/apperr"
)

const (
	defaultPageSize = 6
	maxPageSize     = 100
)

// pageParams is the parsed page-number pagination input.
type pageParams struct {
	page  int
	limit int
}

func (p pageParams) offset() int {
	return (p.page - 1) * p.limit
}

// parsePageParams reads ?page= and ?limit= with the catalog defaults.
func parsePageParams(r *http.Request) (pageParams, error) {
	params := pageParams{page: 1, limit: defaultPageSize}
	query := r.URL.Query()

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return pageParams{}, apperr.E(apperr.KindInvalidInput, "invalid page")
		}
		params.page = page
	}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return pageParams{}, apperr.E(apperr.KindInvalidInput, "invalid limit")
		}
		if limit > maxPageSize {
			limit = maxPageSize
		}
		params.limit = limit
	}
	return params, nil
}

// pageView is the standard paginated envelope.
type pageView struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  any     `json:"results"`
}

// newPageView assembles the envelope with absolute next/previous links
// derived from the request URL.
func newPageView(r *http.Request, params pageParams, total int, results any) pageView {
	view := pageView{Count: total, Results: results}
	if params.offset()+params.limit < total {
		view.Next = pageLink(r, params.page+1)
	}
	if params.page > 1 {
		view.Previous = pageLink(r, params.page-1)
	}
	return view
}

func pageLink(r *http.Request, page int) *string {
	link := url.URL{
		Scheme:   requestScheme(r),
		Host:     r.Host,
		Path:     r.URL.Path,
		RawQuery: r.URL.Query().Encode(),
	}
	query := link.Query()
	if page <= 1 {
		query.Del("page")
	} else {
		query.Set("page", strconv.Itoa(page))
	}
	link.RawQuery = query.Encode()
	rendered := link.String()
	return &rendered
}

func requestScheme(r *http.Request) string {
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// baseURL reconstructs the external origin of the request.
func baseURL(r *http.Request) string {
	return requestScheme(r) + "://" + r.Host
}
