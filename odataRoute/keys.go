package odataRoute

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ErrUnsupportedKeyType is returned when a key value has no OData literal form.
var ErrUnsupportedKeyType = errors.New("odataRoute: unsupported key type")

var guidPattern = regexp.MustCompile(`(?i)^[{(]?[0-9a-f]{8}-?([0-9a-f]{4}-?){3}[0-9a-f]{12}[)}]?$`)

// IsGuid reports whether value looks like a GUID: 8-4-4-4-12 hex digits, dashes optional,
// optionally wrapped in braces or parentheses.
func IsGuid(value string) bool {
	return guidPattern.MatchString(value)
}

// KeyLiteral is implemented by values that know their own OData literal form.
type KeyLiteral interface {
	KeyLiteral() string
}

// Field is one named part of a composite key.
type Field struct {
	Name  string
	Value any
}

// Composite is a composite key whose fields are emitted in the given order.
type Composite []Field

// FormatKey returns the OData literal for a key value:
//   - a GUID string is emitted bare, any other string is wrapped in single quotes
//   - numbers are emitted as decimal text
//   - Composite, map[string]V and structs are emitted as name=value pairs joined by commas;
//     maps in ascending key order, structs in field order named by their json tag
//   - uuid.UUID and KeyLiteral values are emitted bare
//
// Embedded quotes are not escaped, so a string containing ' produces an invalid literal.
func FormatKey(value any) (string, error) {
	if reflected := reflect.ValueOf(value); reflected.Kind() == reflect.Pointer && reflected.IsNil() {
		return "", fmt.Errorf("%w: nil %T", ErrUnsupportedKeyType, value)
	}
	switch key := value.(type) {
	case nil:
		return "", fmt.Errorf("%w: <nil>", ErrUnsupportedKeyType)
	case KeyLiteral:
		return key.KeyLiteral(), nil
	case string:
		return formatString(key), nil
	case uuid.UUID:
		return key.String(), nil
	case json.Number:
		return key.String(), nil
	case Composite:
		return formatComposite(key)
	}
	return formatReflected(reflect.ValueOf(value))
}

func formatString(value string) string {
	if IsGuid(value) {
		return value
	}
	return QUOTE + value + QUOTE
}

func formatPair(name string, value any) (string, error) {
	formatted, err := FormatKey(value)
	if err != nil {
		return "", fmt.Errorf("%s: %w", name, err)
	}
	return name + EQUALS + formatted, nil
}

func formatComposite(key Composite) (string, error) {
	pairs := make([]string, 0, len(key))
	for _, field := range key {
		pair, err := formatPair(field.Name, field.Value)
		if err != nil {
			return "", err
		}
		pairs = append(pairs, pair)
	}
	return strings.Join(pairs, COMMA), nil
}

func formatReflected(value reflect.Value) (string, error) {
	switch value.Kind() {
	case reflect.Pointer, reflect.Interface:
		if value.IsNil() {
			return "", fmt.Errorf("%w: nil %s", ErrUnsupportedKeyType, value.Type())
		}
		return FormatKey(value.Elem().Interface())
	case reflect.String:
		return formatString(value.String()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(value.Int(), 10), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(value.Uint(), 10), nil
	case reflect.Float32:
		return strconv.FormatFloat(value.Float(), 'f', -1, 32), nil
	case reflect.Float64:
		return strconv.FormatFloat(value.Float(), 'f', -1, 64), nil
	case reflect.Map:
		if value.Type().Key().Kind() != reflect.String {
			return "", fmt.Errorf("%w: %s", ErrUnsupportedKeyType, value.Type())
		}
		return formatMap(value)
	case reflect.Struct:
		return formatStruct(value)
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedKeyType, value.Type())
}

func formatMap(value reflect.Value) (string, error) {
	names := make([]string, 0, value.Len())
	for _, key := range value.MapKeys() {
		names = append(names, key.String())
	}
	sort.Strings(names)

	key := make(Composite, 0, len(names))
	for _, name := range names {
		mapKey := reflect.ValueOf(name).Convert(value.Type().Key())
		key = append(key, Field{Name: name, Value: value.MapIndex(mapKey).Interface()})
	}
	return formatComposite(key)
}

// jsonName returns the name a struct field is serialised under, or "" when it is skipped.
func jsonName(field reflect.StructField) string {
	if !field.IsExported() {
		return ""
	}
	tag := strings.Split(field.Tag.Get("json"), ",")[0]
	switch tag {
	case "-":
		return ""
	case "":
		return field.Name
	}
	return tag
}

func formatStruct(value reflect.Value) (string, error) {
	dataType := value.Type()
	key := make(Composite, 0, dataType.NumField())
	for i := 0; i < dataType.NumField(); i++ {
		name := jsonName(dataType.Field(i))
		if name == "" {
			continue
		}
		key = append(key, Field{Name: name, Value: value.Field(i).Interface()})
	}
	if len(key) == 0 {
		return "", fmt.Errorf("%w: %s has no exported fields", ErrUnsupportedKeyType, dataType)
	}
	return formatComposite(key)
}
