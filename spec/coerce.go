package spec

import (
	"strconv"
)

// coerceLiterals coerces a simplified schema's `default` and `enum` values to
// its declared primitive type. Hand-written documents often quote literals
// (`default: "10"` on an integer), and consumers of the generated schemas
// expect values they can compare against input directly.
//
// Values that don't parse as the declared type are left untouched.
func coerceLiterals(schema *Schema) {
	if !isSchemaPrimitiveType(schema) {
		return
	}

	if schema.Default != nil {
		if val, ok := coercePrimitiveType(schema.Default, schema.Type); ok {
			schema.Default = val
		}
	}

	for i, member := range schema.Enum {
		if val, ok := coercePrimitiveType(member, schema.Type); ok {
			schema.Enum[i] = val
		}
	}
}

// coercePrimitiveType tries to coerce a string into the given primitive type.
// On success it returns the coerced value with a boolean true. Non-string
// values and strings that don't parse return nil and false.
func coercePrimitiveType(val interface{}, primitiveType SchemaType) (interface{}, bool) {
	valStr, ok := val.(string)
	if !ok {
		return nil, false
	}

	switch primitiveType {
	case TypeBoolean:
		valBool, err := strconv.ParseBool(valStr)
		if err != nil {
			return nil, false
		}
		return valBool, true

	case TypeInteger:
		valInt, err := strconv.ParseInt(valStr, 10, 64)
		if err != nil {
			return nil, false
		}
		return valInt, true

	case TypeNumber:
		valFloat, err := strconv.ParseFloat(valStr, 64)
		if err != nil {
			return nil, false
		}
		return valFloat, true
	}

	return nil, false
}

// isSchemaPrimitiveType checks whether the given schema is a coercible
// primitive type (as opposed to an object, array or string).
//
// The cases here must stay in step with the ones in coercePrimitiveType.
func isSchemaPrimitiveType(schema *Schema) bool {
	switch schema.Type {
	case TypeBoolean, TypeInteger, TypeNumber:
		return true
	}
	return false
}
