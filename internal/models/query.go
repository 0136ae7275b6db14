package models

import (
	"strconv"
	"strings"
)

// AllValues is the request sentinel that disables a filter dimension.
const AllValues = "all"

// SortOrder selects the ordering of a catalog listing.
type SortOrder string

const (
	SortPopular   SortOrder = "popular" // clicks descending
	SortNew       SortOrder = "new"     // created_at descending
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
)

// ParseSort maps a request value to a SortOrder. Unknown values fall back
// to SortPopular.
func ParseSort(raw string) SortOrder {
	switch s := SortOrder(strings.TrimSpace(raw)); s {
	case SortNew, SortPriceAsc, SortPriceDesc:
		return s
	}
	return SortPopular
}

// CourseQuery describes a public catalog listing. A nil filter field means
// "no filter on this dimension".
type CourseQuery struct {
	Search   *string
	Category *string
	Level    *Level
	Format   *Format
	PriceMin *int
	PriceMax *int
	Sort     SortOrder
	Page     int // 1-indexed, clamped by the query engine
	PerPage  int
}

// FilterValue turns an optional request value into a filter: blank values
// and the "all" sentinel yield nil.
func FilterValue(raw string) *string {
	v := strings.TrimSpace(raw)
	if v == "" || v == AllValues {
		return nil
	}
	return &v
}

// SearchValue turns a free-text query into a filter; blank yields nil.
// Unlike FilterValue, "all" is a legitimate search term.
func SearchValue(raw string) *string {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	return &v
}

// IntFilterValue parses an optional integer bound. Blank or malformed
// values yield nil.
func IntFilterValue(raw string) *int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	return &n
}

// LevelFilter is FilterValue typed as a Level.
func LevelFilter(raw string) *Level {
	v := FilterValue(raw)
	if v == nil {
		return nil
	}
	l := Level(*v)
	return &l
}

// FormatFilter is FilterValue typed as a Format.
func FormatFilter(raw string) *Format {
	v := FilterValue(raw)
	if v == nil {
		return nil
	}
	f := Format(*v)
	return &f
}

// CoursePage is one page of a catalog listing.
type CoursePage struct {
	Courses    []Course `json:"courses"`
	Page       int      `json:"page"`
	PerPage    int      `json:"per_page"`
	Total      int64    `json:"total"`
	TotalPages int      `json:"total_pages"`
}

// CatalogFacets feeds the filter controls of the catalog views. They are
// computed over every published course, ignoring the active filters.
type CatalogFacets struct {
	Categories []string `json:"categories"`
	PriceMin   int      `json:"price_min"`
	PriceMax   int      `json:"price_max"`
}

// Defaults used for the price slider when nothing is published.
const (
	DefaultFacetPriceMin = 0
	DefaultFacetPriceMax = 100000
)

// TotalPages returns ceil(total/perPage), never less than 1.
func TotalPages(total int64, perPage int) int {
	if perPage < 1 || total <= 0 {
		return 1
	}
	pages := int((total + int64(perPage) - 1) / int64(perPage))
	if pages < 1 {
		return 1
	}
	return pages
}

// ClampPage bounds page to [1, totalPages].
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}
