// Package odataRoute declares OData operations as plain functions. A Route binds a path
// made of literal and key segments to an optional converter; calling it builds the resource
// uri from the arguments, issues a GET and unwraps the OData envelope of the response.
package odataRoute

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Uffe-Code/go-odata-http/odataClient"
	"github.com/Uffe-Code/go-odata-http/odataQuery"
)

// Getter is the HTTP capability a Route needs. *odataClient.Client implements it.
type Getter interface {
	Get(ctx context.Context, url string, headers map[string]string, options *odataQuery.Options) (*odataClient.Response, error)
}

// Converter turns an unwrapped value and its annotations into the result of a route.
type Converter[T any] func(value any, annotations Annotations) (T, error)

// Decode returns a converter that re-encodes the value as JSON into T.
func Decode[T any]() Converter[T] {
	return func(value any, _ Annotations) (T, error) {
		var result T
		data, err := json.Marshal(value)
		if err != nil {
			return result, fmt.Errorf("odataRoute: encode value: %w", err)
		}
		if err := json.Unmarshal(data, &result); err != nil {
			return result, fmt.Errorf("odataRoute: decode into %T: %w", result, err)
		}
		return result, nil
	}
}

// Route is a declared OData operation. It keeps no state between calls and is safe for
// concurrent use.
type Route[T any] struct {
	client   Getter
	segments []Segment
	convert  Converter[T]
}

// New declares a route. With a nil convert the unwrapped value is returned as T when it
// already is one, and decoded with Decode otherwise.
func New[T any](client Getter, segments []Segment, convert Converter[T]) *Route[T] {
	return &Route[T]{client: client, segments: segments, convert: convert}
}

// optionsFrom returns the last argument when it holds query options.
func optionsFrom(args []any) *odataQuery.Options {
	if len(args) == 0 {
		return nil
	}
	switch options := args[len(args)-1].(type) {
	case odataQuery.Options:
		return &options
	case *odataQuery.Options:
		return options
	}
	return nil
}

// Url returns the resource uri and query that a call with args would request.
func (route *Route[T]) Url(args ...any) (string, error) {
	uri, err := BuildUri(route.segments, args)
	if err != nil {
		return "", err
	}
	return odataQuery.Inject(uri, optionsFrom(args)), nil
}

// Call invokes the route. Key segments see all of args; the last argument is used as query
// options when it is an odataQuery.Options or a non-nil *odataQuery.Options.
func (route *Route[T]) Call(ctx context.Context, args ...any) (T, error) {
	var result T

	uri, err := BuildUri(route.segments, args)
	if err != nil {
		return result, err
	}

	response, err := route.client.Get(ctx, uri, nil, optionsFrom(args))
	if err != nil {
		return result, err
	}

	data, err := response.Decode()
	if err != nil {
		return result, err
	}

	value, annotations := Unwrap(data)
	if route.convert != nil {
		return route.convert(value, annotations)
	}
	if typed, ok := value.(T); ok {
		return typed, nil
	}
	return Decode[T]()(value, annotations)
}

// Func returns the route as a plain function.
func (route *Route[T]) Func() func(ctx context.Context, args ...any) (T, error) {
	return route.Call
}

// Result is the single emission of an asynchronous call.
type Result[T any] struct {
	Value T
	Err   error
}

// Async runs Call in its own goroutine. The channel yields exactly one Result and is then
// closed. Cancelling ctx cancels the request.
func (route *Route[T]) Async(ctx context.Context, args ...any) <-chan Result[T] {
	results := make(chan Result[T], 1)
	go func() {
		defer close(results)
		value, err := route.Call(ctx, args...)
		results <- Result[T]{Value: value, Err: err}
	}()
	return results
}
