package odataRoute

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildUri(t *testing.T) {
	t.Run("literal and key", func(t *testing.T) {
		uri, err := BuildUri([]Segment{Lit("Entities"), Key(func(args []any) any { return args[0] })}, []any{"abc"})
		require.NoError(t, err)
		assert.Equal(t, "Entities('abc')", uri)
	})

	t.Run("navigation between keys", func(t *testing.T) {
		segments := []Segment{Lit("Orders"), Arg(0), Lit("/Lines"), Arg(1)}
		uri, err := BuildUri(segments, []any{"3fa85f64-5717-4562-b3fc-2c963f66afa6", 2})
		require.NoError(t, err)
		assert.Equal(t, "Orders(3fa85f64-5717-4562-b3fc-2c963f66afa6)/Lines(2)", uri)
	})

	t.Run("composite key", func(t *testing.T) {
		segments := []Segment{Lit("Items"), Key(func(args []any) any {
			return map[string]any{"id": args[0], "type": args[1]}
		})}
		uri, err := BuildUri(segments, []any{1, "X"})
		require.NoError(t, err)
		assert.Equal(t, "Items(id=1,type='X')", uri)
	})

	t.Run("literals only", func(t *testing.T) {
		uri, err := BuildUri([]Segment{Lit("People"), Lit("/$count")}, nil)
		require.NoError(t, err)
		assert.Equal(t, "People/$count", uri)
	})

	t.Run("unsupported key", func(t *testing.T) {
		_, err := BuildUri([]Segment{Lit("People"), Key(func(args []any) any { return true })}, nil)
		assert.ErrorIs(t, err, ErrUnsupportedKeyType)
		assert.Contains(t, err.Error(), "segment 1")
	})

	t.Run("missing argument", func(t *testing.T) {
		_, err := BuildUri([]Segment{Lit("People"), Arg(2)}, []any{"a"})
		assert.ErrorIs(t, err, ErrUnsupportedKeyType)
	})

	t.Run("segment kinds", func(t *testing.T) {
		assert.False(t, Lit("People").IsKey())
		assert.True(t, Arg(0).IsKey())
	})
}
