// Package query translates list-request parameters (filtering, sorting,
// pagination) into a normalized form the storage layer can consume.
package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Defaults applied when the request omits pagination or sorting
const (
	DefaultPage  = 1
	DefaultLimit = 10
	DefaultSort  = "-createdAt"
)

// Parameter names that control the query itself and must never be
// treated as equality filters
var reservedKeys = map[string]struct{}{
	"page":   {},
	"sort":   {},
	"limit":  {},
	"fields": {},
}

// SortField describes a single sort criterion
type SortField struct {
	Field string
	Desc  bool
}

// Params is a normalized list request
type Params struct {
	Filters map[string]string
	Sort    []SortField
	Page    int
	Limit   int
}

// Parse builds Params from raw URL query values. Reserved keys are
// excluded from the filter set, filter keys are sanitized against
// operator injection, and pagination falls back to defaults.
func Parse(values url.Values) Params {
	p := Params{
		Filters: make(map[string]string),
		Page:    DefaultPage,
		Limit:   DefaultLimit,
	}

	for key := range values {
		if _, reserved := reservedKeys[key]; reserved {
			continue
		}
		if !SafeKey(key) {
			continue
		}
		if v := values.Get(key); v != "" {
			p.Filters[key] = v
		}
	}

	if page, err := strconv.Atoi(values.Get("page")); err == nil && page > 0 {
		p.Page = page
	}
	if limit, err := strconv.Atoi(values.Get("limit")); err == nil && limit > 0 {
		p.Limit = limit
	}

	sortSpec := values.Get("sort")
	if sortSpec == "" {
		sortSpec = DefaultSort
	}
	p.Sort = parseSort(sortSpec)

	return p
}

// parseSort splits a comma-separated sort spec; a leading '-' marks
// descending order
func parseSort(spec string) []SortField {
	var fields []SortField
	for _, raw := range strings.Split(spec, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		f := SortField{Field: raw}
		if strings.HasPrefix(raw, "-") {
			f.Field = raw[1:]
			f.Desc = true
		}
		if f.Field == "" || !SafeKey(f.Field) {
			continue
		}
		fields = append(fields, f)
	}
	return fields
}

// Offset returns the number of rows to skip for the requested page
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// TotalPages computes ceil(totalMatches/limit) for the response envelope
func (p Params) TotalPages(totalMatches int) int {
	if totalMatches <= 0 {
		return 0
	}
	return (totalMatches + p.Limit - 1) / p.Limit
}
