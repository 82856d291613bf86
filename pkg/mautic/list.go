package mautic

import (
	"net/url"
	"strconv"
)

const defaultOrderByDir = "ASC"

// ListOptions filters and pages a list request. Zero values are left out of
// the query string.
type ListOptions struct {
	Search        string
	Start         int
	Limit         int
	OrderBy       string
	OrderByDir    string
	PublishedOnly bool
	Minimal       bool
}

// listParams maps each option to its query key. include reports whether the
// parameter is sent at all.
var listParams = []struct {
	key     string
	include func(ListOptions) bool
	value   func(ListOptions) string
}{
	{"search", func(o ListOptions) bool { return o.Search != "" }, func(o ListOptions) string { return o.Search }},
	{"start", func(o ListOptions) bool { return o.Start != 0 }, func(o ListOptions) string { return strconv.Itoa(o.Start) }},
	{"limit", func(o ListOptions) bool { return o.Limit != 0 }, func(o ListOptions) string { return strconv.Itoa(o.Limit) }},
	{"minimal", func(o ListOptions) bool { return o.Minimal }, func(ListOptions) string { return "true" }},
	{"orderBy", func(o ListOptions) bool { return o.OrderBy != "" }, func(o ListOptions) string { return o.OrderBy }},
	{"orderByDir", func(o ListOptions) bool { return o.OrderBy != "" }, func(o ListOptions) string { return o.orderByDir() }},
	{"publishedOnly", func(o ListOptions) bool { return o.PublishedOnly }, func(ListOptions) string { return "true" }},
}

func (o ListOptions) orderByDir() string {
	if o.OrderByDir == "" {
		return defaultOrderByDir
	}
	return o.OrderByDir
}

// Query encodes the options as list query parameters.
func (o ListOptions) Query() url.Values {
	q := url.Values{}
	for _, p := range listParams {
		if p.include(o) {
			q.Set(p.key, p.value(o))
		}
	}
	return q
}
