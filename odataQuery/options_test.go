package odataQuery

import (
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFragments(t *testing.T) {
	t.Run("filter only", func(t *testing.T) {
		options := Options{Filter: "Name eq 'Bob'"}
		assert.Equal(t, []string{"$filter=Name eq 'Bob'"}, options.Fragments())
	})

	t.Run("skip precedes top", func(t *testing.T) {
		options := Options{Top: 10, Skip: 5}
		assert.Equal(t, []string{"$skip=5", "$top=10"}, options.Fragments())
	})

	t.Run("zero skip and top are omitted", func(t *testing.T) {
		options := Options{Top: 0, Skip: 0}
		assert.Empty(t, options.Fragments())
		assert.True(t, options.IsEmpty())
	})

	t.Run("fixed order for every option", func(t *testing.T) {
		options := Options{
			Format:      "json",
			Top:         3,
			Skip:        6,
			Select:      []string{"Id", "Name"},
			OrderBy:     []string{"Name desc", "Id"},
			InlineCount: true,
			Filter:      "Age gt 3",
			Expand:      []string{"Orders", "Address"},
		}
		assert.Equal(t, []string{
			"$expand=Orders,Address",
			"$filter=Age gt 3",
			"$inlinecount=allpages",
			"$orderby=Name desc,Id",
			"$select=Id,Name",
			"$skip=6",
			"$top=3",
			"$format=json",
		}, options.Fragments())
	})

	t.Run("empty lists and false inlinecount are omitted", func(t *testing.T) {
		options := Options{Expand: []string{}, Select: []string{}, OrderBy: nil, InlineCount: false}
		assert.Empty(t, options.Fragments())
	})

	t.Run("values are not encoded", func(t *testing.T) {
		options := Options{Filter: "startswith(Name,'A&B')"}
		assert.Equal(t, "$filter=startswith(Name,'A&B')", options.String())
	})
}

func TestInject(t *testing.T) {
	options := &Options{Top: 10, Skip: 5}

	t.Run("url without query", func(t *testing.T) {
		assert.Equal(t, "People?$skip=5&$top=10", Inject("People", options))
	})

	t.Run("url with a query appends without separator", func(t *testing.T) {
		assert.Equal(t, "People?$skip=5&$top=10", Inject("People?", options))
		assert.Equal(t, "People?a=1$skip=5&$top=10", Inject("People?a=1", options))
	})

	t.Run("nil and empty options leave url unchanged", func(t *testing.T) {
		assert.Equal(t, "People", Inject("People", nil))
		assert.Equal(t, "People", Inject("People", &Options{}))
	})

	t.Run("empty options are a no-op on an injected url", func(t *testing.T) {
		once := Inject("People", options)
		assert.Equal(t, once, Inject(once, &Options{}))
	})
}

func TestWithDefaultFilter(t *testing.T) {
	tests := []struct {
		name          string
		filter        string
		defaultFilter string
		want          string
	}{
		{name: "neither", want: ""},
		{name: "only filter", filter: "a eq 1", want: "a eq 1"},
		{name: "only default", defaultFilter: "b eq 2", want: "b eq 2"},
		{name: "both", filter: "a eq 1", defaultFilter: "b eq 2", want: "(b eq 2) and (a eq 1)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Options{Filter: tt.filter}.WithDefaultFilter(tt.defaultFilter)
			assert.Equal(t, tt.want, got.Filter)
		})
	}
}

func TestFromValues(t *testing.T) {
	t.Run("parses every option", func(t *testing.T) {
		values, err := url.ParseQuery("$expand=Orders,Address&$filter=Name eq 'Bob'&$inlinecount=allpages" +
			"&$orderby=Name desc&$select=Id, Name&$skip=5&$top=10&$format=json&other=1")
		require.NoError(t, err)

		options, err := FromValues(values)
		require.NoError(t, err)
		assert.Equal(t, Options{
			Expand:      []string{"Orders", "Address"},
			Filter:      "Name eq 'Bob'",
			InlineCount: true,
			OrderBy:     []string{"Name desc"},
			Select:      []string{"Id", "Name"},
			Skip:        5,
			Top:         10,
			Format:      "json",
		}, options)
	})

	t.Run("empty values give empty options", func(t *testing.T) {
		options, err := FromValues(url.Values{})
		require.NoError(t, err)
		assert.True(t, options.IsEmpty())
	})

	t.Run("rejects bad counts", func(t *testing.T) {
		for _, query := range []string{"$top=ten", "$skip=-1"} {
			values, err := url.ParseQuery(query)
			require.NoError(t, err)
			_, err = FromValues(values)
			assert.True(t, errors.Is(err, ErrInvalidOption), query)
		}
	})

	t.Run("rejects unknown inlinecount", func(t *testing.T) {
		_, err := FromValues(url.Values{INLINECOUNT: []string{"sometimes"}})
		assert.ErrorIs(t, err, ErrInvalidOption)
	})
}
