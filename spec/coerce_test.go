package spec

import (
	"testing"

	assert "github.com/stretchr/testify/require"
)

func TestCoerceLiterals(t *testing.T) {
	r := NewResolver(&Document{}, nil)

	schema := r.Simplify(&Schema{Type: TypeInteger, Default: "10", Enum: []interface{}{"1", "2", "x"}})
	assert.Equal(t, int64(10), schema.Default)
	assert.Equal(t, []interface{}{int64(1), int64(2), "x"}, schema.Enum)

	schema = r.Simplify(&Schema{Type: TypeBoolean, Default: "true"})
	assert.Equal(t, true, schema.Default)

	schema = r.Simplify(&Schema{Type: TypeNumber, Default: "2.5"})
	assert.Equal(t, 2.5, schema.Default)

	// Strings stay strings, non-string values are untouched.
	schema = r.Simplify(&Schema{Type: TypeString, Default: "10"})
	assert.Equal(t, "10", schema.Default)
	schema = r.Simplify(&Schema{Type: TypeInteger, Default: 3.0})
	assert.Equal(t, 3.0, schema.Default)
}

func TestCoerceLiterals_SourceUntouched(t *testing.T) {
	source := &Schema{Type: TypeInteger, Enum: []interface{}{"1"}}
	NewResolver(&Document{}, nil).Simplify(source)
	assert.Equal(t, []interface{}{"1"}, source.Enum)
}

func TestCoercePrimitiveType(t *testing.T) {
	val, ok := coercePrimitiveType("false", TypeBoolean)
	assert.True(t, ok)
	assert.Equal(t, false, val)

	_, ok = coercePrimitiveType("maybe", TypeBoolean)
	assert.False(t, ok)

	_, ok = coercePrimitiveType(1, TypeInteger)
	assert.False(t, ok)

	_, ok = coercePrimitiveType("1", TypeObject)
	assert.False(t, ok)
}
