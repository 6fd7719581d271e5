// Package catalog describes how the product listing can be searched,
// filtered and sorted.
package catalog

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// AllValues is the "no filter" value for Category and Brand.
const AllValues = "All"

const (
	DefaultLimit = 24
	MaxLimit     = 100
)

type Sort string

const (
	SortFeatured  Sort = "featured"
	SortPriceLow  Sort = "price-low"
	SortPriceHigh Sort = "price-high"
	SortRating    Sort = "rating"
	SortReviews   Sort = "reviews"
)

var ErrUnknownSort = errors.New("unknown sort order")

func ParseSort(s string) (Sort, error) {
	switch sort := Sort(s); sort {
	case "":
		return SortFeatured, nil
	case SortFeatured, SortPriceLow, SortPriceHigh, SortRating, SortReviews:
		return sort, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSort, s)
	}
}

// Filter selects products. Zero values and "All" mean no restriction.
type Filter struct {
	Search    string  `validate:"max=100"`
	Category  string  `validate:"max=50"`
	Brand     string  `validate:"max=50"`
	MinPrice  float64 `validate:"gte=0"`
	MaxPrice  float64 `validate:"gte=0"`
	MinRating float64 `validate:"gte=0,lte=5"`
	Sort      Sort
	Limit     int `validate:"gte=0,lte=100"`
	Offset    int `validate:"gte=0"`
}

// HasCategory reports whether the filter restricts the category.
func (f Filter) HasCategory() bool {
	return f.Category != "" && f.Category != AllValues
}

// HasBrand reports whether the filter restricts the brand.
func (f Filter) HasBrand() bool {
	return f.Brand != "" && f.Brand != AllValues
}

// PageSize returns Limit with the default applied.
func (f Filter) PageSize() int {
	if f.Limit <= 0 {
		return DefaultLimit
	}

	return min(f.Limit, MaxLimit)
}

// FromQuery reads a filter from URL query parameters: q, category, brand,
// min_price, max_price, min_rating, sort, limit, offset.
func FromQuery(q url.Values) (Filter, error) {
	var (
		f   Filter
		err error
	)

	f.Search = strings.TrimSpace(q.Get("q"))
	f.Category = q.Get("category")
	f.Brand = q.Get("brand")

	if f.Sort, err = ParseSort(q.Get("sort")); err != nil {
		return Filter{}, err
	}

	floats := []struct {
		key string
		dst *float64
	}{
		{"min_price", &f.MinPrice},
		{"max_price", &f.MaxPrice},
		{"min_rating", &f.MinRating},
	}
	for _, p := range floats {
		if v := q.Get(p.key); v != "" {
			if *p.dst, err = strconv.ParseFloat(v, 64); err != nil {
				return Filter{}, fmt.Errorf("invalid %s: %w", p.key, err)
			}
		}
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"limit", &f.Limit},
		{"offset", &f.Offset},
	}
	for _, p := range ints {
		if v := q.Get(p.key); v != "" {
			if *p.dst, err = strconv.Atoi(v); err != nil {
				return Filter{}, fmt.Errorf("invalid %s: %w", p.key, err)
			}
		}
	}

	if f.MaxPrice > 0 && f.MinPrice > f.MaxPrice {
		return Filter{}, fmt.Errorf("min_price %v is above max_price %v", f.MinPrice, f.MaxPrice)
	}

	return f, nil
}
