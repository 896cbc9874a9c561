package odataRoute

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Uffe-Code/go-odata-http/odataClient"
	"github.com/Uffe-Code/go-odata-http/odataQuery"
)

// Collection is one page of an entity set together with its annotations.
type Collection[T any] struct {
	Context  string `json:"@odata.context,omitempty"`
	Count    *int64 `json:"@odata.count,omitempty"`
	NextLink string `json:"@odata.nextLink,omitempty"`
	Value    []T    `json:"value"`
}

// Collect returns a converter that decodes the value into a Collection.
func Collect[T any]() Converter[Collection[T]] {
	decode := Decode[[]T]()
	return func(value any, annotations Annotations) (Collection[T], error) {
		collection := Collection[T]{
			Context:  annotations.Context(),
			NextLink: annotations.NextLink(),
		}
		if count, ok := annotations.Count(); ok {
			collection.Count = &count
		}
		values, err := decode(value, annotations)
		if err != nil {
			return collection, err
		}
		if values == nil {
			values = []T{}
		}
		collection.Value = values
		return collection, nil
	}
}

// EntitySet offers CRUD operations on one entity set, addressed by key.
type EntitySet[T any] struct {
	client *odataClient.Client
	name   string
	single *Route[T]
	list   *Route[Collection[T]]
}

// NewEntitySet returns the entity set called name.
func NewEntitySet[T any](wrapper odataClient.Wrapper, name string) *EntitySet[T] {
	client := wrapper.ODataClient()
	return &EntitySet[T]{
		client: client,
		name:   name,
		single: New[T](client, []Segment{Lit(name), Arg(0)}, Decode[T]()),
		list:   New(client, []Segment{Lit(name)}, Collect[T]()),
	}
}

// Name returns the name of the entity set.
func (dataSet *EntitySet[T]) Name() string {
	return dataSet.name
}

func (dataSet *EntitySet[T]) entityUrl(key any) (string, error) {
	return BuildUri([]Segment{Lit(dataSet.name), Arg(0)}, []any{key})
}

// Single model from the API by key.
func (dataSet *EntitySet[T]) Single(ctx context.Context, key any, options *odataQuery.Options) (T, error) {
	return dataSet.single.Call(ctx, key, options)
}

// List one page of the entity set. Following the next link is up to the caller.
func (dataSet *EntitySet[T]) List(ctx context.Context, options *odataQuery.Options) (Collection[T], error) {
	return dataSet.list.Call(ctx, options)
}

// Extract keeps only fields of a json object.
func Extract(jsonInput []byte, fields []string) ([]byte, error) {
	var inputData map[string]interface{}
	if err := json.Unmarshal(jsonInput, &inputData); err != nil {
		return nil, err
	}

	selectedData := make(map[string]interface{})
	for _, key := range fields {
		if value, ok := inputData[key]; ok {
			selectedData[key] = value
		}
	}
	return json.Marshal(selectedData)
}

func (dataSet *EntitySet[T]) body(model T, selectFields []string) ([]byte, error) {
	jsonData, err := json.Marshal(model)
	if err != nil {
		return nil, fmt.Errorf("odataRoute: encode %s model: %w", dataSet.name, err)
	}
	if len(selectFields) > 0 {
		return Extract(jsonData, selectFields)
	}
	return jsonData, nil
}

func decodeRepresentation[T any](response *odataClient.Response) (T, error) {
	var result T
	data, err := response.Decode()
	if err != nil || data == nil {
		return result, err
	}
	value, annotations := Unwrap(data)
	return Decode[T]()(value, annotations)
}

var representation = map[string]string{odataClient.PREFER: odataClient.RETURN_REPRESENTATION}

// Insert a model into the entity set and return the created entity. Only selectFields are
// sent when any are given.
func (dataSet *EntitySet[T]) Insert(ctx context.Context, model T, selectFields ...string) (T, error) {
	var result T
	body, err := dataSet.body(model, selectFields)
	if err != nil {
		return result, err
	}
	response, err := dataSet.client.Post(ctx, dataSet.name, body, representation, nil)
	if err != nil {
		return result, err
	}
	return decodeRepresentation[T](response)
}

// Update the entity with key. The service may answer 204 No Content, in which case the zero
// value is returned.
func (dataSet *EntitySet[T]) Update(ctx context.Context, key any, model T, selectFields ...string) (T, error) {
	var result T
	url, err := dataSet.entityUrl(key)
	if err != nil {
		return result, err
	}
	body, err := dataSet.body(model, selectFields)
	if err != nil {
		return result, err
	}
	response, err := dataSet.client.Patch(ctx, url, body, representation, nil)
	if err != nil {
		return result, err
	}
	return decodeRepresentation[T](response)
}

// Delete the entity with key.
func (dataSet *EntitySet[T]) Delete(ctx context.Context, key any) error {
	url, err := dataSet.entityUrl(key)
	if err != nil {
		return err
	}
	_, err = dataSet.client.Delete(ctx, url, nil, nil)
	return err
}
