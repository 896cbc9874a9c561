// Package odataQuery turns structured OData query options into query string fragments.
//
// Values are emitted verbatim. Filter and orderby expressions are neither validated nor
// URL-encoded; escaping them is left to the caller.
package odataQuery

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// ErrInvalidOption is returned by FromValues when a query option cannot be parsed.
var ErrInvalidOption = errors.New("odataQuery: invalid option")

// Options are the OData system query options understood by the builder.
// The zero value of each field means the option is omitted. Skip and Top of zero are
// therefore never emitted, even when set on purpose.
type Options struct {
	// Expand lists related entities to expand inline.
	Expand []string `json:"expand,omitempty" yaml:"expand,omitempty"`
	// Filter is a boolean expression, passed through as is.
	Filter string `json:"filter,omitempty" yaml:"filter,omitempty"`
	// InlineCount asks the server for the total count of matching entities.
	InlineCount bool `json:"inlinecount,omitempty" yaml:"inlinecount,omitempty"`
	// OrderBy lists sort clauses.
	OrderBy []string `json:"orderby,omitempty" yaml:"orderby,omitempty"`
	// Select lists the properties to include.
	Select []string `json:"select,omitempty" yaml:"select,omitempty"`
	Skip   int      `json:"skip,omitempty" yaml:"skip,omitempty"`
	Top    int      `json:"top,omitempty" yaml:"top,omitempty"`
	// Format is the requested media type, e.g. json.
	Format string `json:"format,omitempty" yaml:"format,omitempty"`
}

func fragment(option string, value string) string {
	return option + EQUALS + value
}

// Fragments returns the key=value pairs for every set option, always in the order
// expand, filter, inlinecount, orderby, select, skip, top, format.
func (options Options) Fragments() []string {
	fragments := make([]string, 0, 8)
	if len(options.Expand) > 0 {
		fragments = append(fragments, fragment(EXPAND, strings.Join(options.Expand, COMMA)))
	}
	if options.Filter != "" {
		fragments = append(fragments, fragment(FILTER, options.Filter))
	}
	if options.InlineCount {
		fragments = append(fragments, fragment(INLINECOUNT, ALLPAGES))
	}
	if len(options.OrderBy) > 0 {
		fragments = append(fragments, fragment(ORDERBY, strings.Join(options.OrderBy, COMMA)))
	}
	if len(options.Select) > 0 {
		fragments = append(fragments, fragment(SELECT, strings.Join(options.Select, COMMA)))
	}
	if options.Skip != 0 {
		fragments = append(fragments, fragment(SKIP, strconv.Itoa(options.Skip)))
	}
	if options.Top != 0 {
		fragments = append(fragments, fragment(TOP, strconv.Itoa(options.Top)))
	}
	if options.Format != "" {
		fragments = append(fragments, fragment(FORMAT, options.Format))
	}
	return fragments
}

// IsEmpty reports whether no option would be emitted.
func (options Options) IsEmpty() bool {
	return len(options.Fragments()) == 0
}

// String returns the fragments joined by &.
func (options Options) String() string {
	return strings.Join(options.Fragments(), "&")
}

// Inject appends the options to url. A url without a query gets ?fragments. A url that
// already has a ? gets the fragments appended directly, with no separating &, which means
// a non-empty existing query runs into the first fragment.
func Inject(url string, options *Options) string {
	if options == nil {
		return url
	}
	fragments := options.Fragments()
	if len(fragments) == 0 {
		return url
	}
	args := strings.Join(fragments, "&")
	if !strings.Contains(url, QUESTION) {
		return url + QUESTION + args
	}
	return url + args
}

// WithDefaultFilter merges defaultFilter into the options. Whichever filter is set wins
// when the other is empty; when both are set they are combined with and.
func (options Options) WithDefaultFilter(defaultFilter string) Options {
	switch {
	case defaultFilter == "":
	case options.Filter == "":
		options.Filter = defaultFilter
	default:
		options.Filter = fmt.Sprintf("(%s) %s (%s)", defaultFilter, AND, options.Filter)
	}
	return options
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	var items []string
	for _, item := range strings.Split(value, COMMA) {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func parseCount(queryParams url.Values, option string) (int, error) {
	value := queryParams.Get(option)
	if value == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: %s=%q is not a non-negative integer", ErrInvalidOption, option, value)
	}
	return n, nil
}

// FromValues reads the options out of a parsed query string. Unknown parameters are ignored.
func FromValues(queryParams url.Values) (Options, error) {
	var options Options
	var err error

	options.Expand = splitList(queryParams.Get(EXPAND))
	options.Filter = queryParams.Get(FILTER)
	options.OrderBy = splitList(queryParams.Get(ORDERBY))
	options.Select = splitList(queryParams.Get(SELECT))
	options.Format = queryParams.Get(FORMAT)

	switch inlineCount := strings.ToLower(queryParams.Get(INLINECOUNT)); inlineCount {
	case "", "none", "false":
	case ALLPAGES, TRUE:
		options.InlineCount = true
	default:
		return options, fmt.Errorf("%w: %s=%q", ErrInvalidOption, INLINECOUNT, inlineCount)
	}

	if options.Skip, err = parseCount(queryParams, SKIP); err != nil {
		return options, err
	}
	if options.Top, err = parseCount(queryParams, TOP); err != nil {
		return options, err
	}
	return options, nil
}
