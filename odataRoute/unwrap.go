package odataRoute

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Annotations holds the @odata.* properties of a response, keyed without the prefix.
// Properties outside the documented set are kept as well.
type Annotations map[string]any

func (annotations Annotations) stringValue(name string) string {
	value, _ := annotations[name].(string)
	return value
}

func (annotations Annotations) Context() string {
	return annotations.stringValue("context")
}

func (annotations Annotations) MetadataEtag() string {
	return annotations.stringValue("metadataEtag")
}

func (annotations Annotations) Type() string {
	return annotations.stringValue("type")
}

func (annotations Annotations) NextLink() string {
	return annotations.stringValue("nextLink")
}

func (annotations Annotations) DeltaLink() string {
	return annotations.stringValue("deltaLink")
}

func (annotations Annotations) ID() string {
	return annotations.stringValue("id")
}

func (annotations Annotations) EditLink() string {
	return annotations.stringValue("editLink")
}

func (annotations Annotations) ReadLink() string {
	return annotations.stringValue("readLink")
}

func (annotations Annotations) ETag() string {
	return annotations.stringValue("etag")
}

func (annotations Annotations) NavigationLink() string {
	return annotations.stringValue("navigationLink")
}

func (annotations Annotations) AssociationLink() string {
	return annotations.stringValue("associationLink")
}

// Count returns @odata.count. Services in IEEE754Compatible mode send it as a string.
func (annotations Annotations) Count() (int64, bool) {
	switch count := annotations["count"].(type) {
	case float64:
		return int64(count), true
	case int:
		return int64(count), true
	case int64:
		return count, true
	case json.Number:
		n, err := count.Int64()
		return n, err == nil
	case string:
		n, err := strconv.ParseInt(count, 10, 64)
		return n, err == nil
	}
	return 0, false
}

// Unwrap separates an OData JSON envelope into its payload and annotations. For an object,
// every @odata.* property is moved out of data into the annotations. The value array is
// returned when the object has one, otherwise the stripped object itself. Anything other
// than an object is returned unchanged.
func Unwrap(data any) (any, Annotations) {
	annotations := Annotations{}
	payload, ok := data.(map[string]any)
	if !ok {
		return data, annotations
	}

	for key, value := range payload {
		if strings.HasPrefix(key, ANNOTATION_PREFIX) {
			annotations[strings.TrimPrefix(key, ANNOTATION_PREFIX)] = value
			delete(payload, key)
		}
	}

	if values, ok := payload[VALUE].([]any); ok {
		return values, annotations
	}
	return payload, annotations
}
