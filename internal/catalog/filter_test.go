package catalog

import (
	"net/url"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSort(t *testing.T) {
	for _, s := range []Sort{SortFeatured, SortPriceLow, SortPriceHigh, SortRating, SortReviews} {
		got, err := ParseSort(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	got, err := ParseSort("")
	require.NoError(t, err)
	assert.Equal(t, SortFeatured, got)

	_, err = ParseSort("cheapest")
	assert.ErrorIs(t, err, ErrUnknownSort)
}

func TestFromQuery(t *testing.T) {
	q := url.Values{
		"q":          {"  headphones "},
		"category":   {"Electronics"},
		"brand":      {"All"},
		"min_price":  {"10"},
		"max_price":  {"200.5"},
		"min_rating": {"4.5"},
		"sort":       {"price-high"},
		"limit":      {"10"},
		"offset":     {"20"},
	}

	f, err := FromQuery(q)
	require.NoError(t, err)

	assert.Equal(t, "headphones", f.Search)
	assert.True(t, f.HasCategory())
	assert.False(t, f.HasBrand())
	assert.Equal(t, 10.0, f.MinPrice)
	assert.Equal(t, 200.5, f.MaxPrice)
	assert.Equal(t, 4.5, f.MinRating)
	assert.Equal(t, SortPriceHigh, f.Sort)
	assert.Equal(t, 10, f.PageSize())
	assert.Equal(t, 20, f.Offset)

	assert.NoError(t, validator.New().Struct(f))
}

func TestFromQueryErrors(t *testing.T) {
	bad := []url.Values{
		{"min_price": {"cheap"}},
		{"limit": {"ten"}},
		{"sort": {"random"}},
		{"min_price": {"50"}, "max_price": {"10"}},
	}

	for _, q := range bad {
		_, err := FromQuery(q)
		assert.Error(t, err, "query %v", q)
	}
}

func TestFilterValidation(t *testing.T) {
	v := validator.New()

	assert.Error(t, v.Struct(Filter{MinRating: 6}))
	assert.Error(t, v.Struct(Filter{Limit: 500}))
	assert.Error(t, v.Struct(Filter{MinPrice: -1}))
}

func TestPageSize(t *testing.T) {
	assert.Equal(t, DefaultLimit, Filter{}.PageSize())
	assert.Equal(t, MaxLimit, Filter{Limit: 1000}.PageSize())
}
