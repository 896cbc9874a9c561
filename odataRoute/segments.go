package odataRoute

import (
	"fmt"
	"strings"
)

// KeyFunc derives a key value from the arguments of a route call.
type KeyFunc func(args []any) any

// Segment is one part of a resource path: either a literal or a key computed from the
// call arguments.
type Segment struct {
	literal string
	key     KeyFunc
}

// Lit is a literal path segment, emitted as is.
func Lit(literal string) Segment {
	return Segment{literal: literal}
}

// Key is a computed key segment, emitted as (<literal>).
func Key(fn KeyFunc) Segment {
	return Segment{key: fn}
}

// Arg is a key segment taking the index'th call argument.
func Arg(index int) Segment {
	return Key(func(args []any) any {
		if index < 0 || index >= len(args) {
			return nil
		}
		return args[index]
	})
}

// IsKey reports whether the segment is computed.
func (segment Segment) IsKey() bool {
	return segment.key != nil
}

// BuildUri concatenates the segments, formatting every key segment with FormatKey.
// No separators are added.
func BuildUri(segments []Segment, args []any) (string, error) {
	var uri strings.Builder
	for i, segment := range segments {
		if !segment.IsKey() {
			uri.WriteString(segment.literal)
			continue
		}
		key, err := FormatKey(segment.key(args))
		if err != nil {
			return "", fmt.Errorf("segment %d: %w", i, err)
		}
		uri.WriteString(LEFT_BRACKET + key + RIGHT_BRACKET)
	}
	return uri.String(), nil
}
