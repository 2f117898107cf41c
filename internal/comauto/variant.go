package comauto

import (
	"fmt"
	"strconv"
)

// Variant is an owned wrapper around a value returned from an automation
// call. Scalar accessors coerce between the numeric types COM hands back
// (PowerPoint freely mixes int32, float32 and float64 for the same
// properties). Object values stay thread-affine; scalars are safe to carry
// anywhere.
type Variant struct {
	val interface{}
}

// NewVariant wraps a raw value. Fakes and the OLE layer use this; handlers
// should not need to.
func NewVariant(val interface{}) Variant {
	return Variant{val: val}
}

// IsNil reports whether the variant holds no value.
func (v Variant) IsNil() bool {
	return v.val == nil
}

// Raw returns the wrapped value as-is.
func (v Variant) Raw() interface{} {
	return v.val
}

// Int returns the value as an int, or 0 if it is not numeric.
func (v Variant) Int() int {
	switch x := v.val.(type) {
	case int:
		return x
	case int8:
		return int(x)
	case int16:
		return int(x)
	case int32:
		return int(x)
	case int64:
		return int(x)
	case uint32:
		return int(x)
	case float32:
		return int(x)
	case float64:
		return int(x)
	case bool:
		if x {
			return 1
		}
		return 0
	}
	return 0
}

// Float64 returns the value as a float64, or 0 if it is not numeric.
func (v Variant) Float64() float64 {
	switch x := v.val.(type) {
	case float64:
		return x
	case float32:
		return float64(x)
	case int:
		return float64(x)
	case int16:
		return float64(x)
	case int32:
		return float64(x)
	case int64:
		return float64(x)
	case uint32:
		return float64(x)
	}
	return 0
}

// String returns the value as a string. Non-string scalars are formatted;
// nil yields the empty string.
func (v Variant) String() string {
	switch x := v.val.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", v.val)
}

// Bool interprets the value as a boolean. COM tri-states arrive as
// integers where msoTrue is -1 and msoFalse is 0.
func (v Variant) Bool() bool {
	switch x := v.val.(type) {
	case bool:
		return x
	case int:
		return x != 0
	case int16:
		return x != 0
	case int32:
		return x != 0
	case int64:
		return x != 0
	case float64:
		return x != 0
	}
	return false
}

// Slice returns the value as a flat []interface{}, or nil if the variant
// does not hold an array. COM safearrays arrive already flattened.
func (v Variant) Slice() []interface{} {
	if s, ok := v.val.([]interface{}); ok {
		return s
	}
	return nil
}

// Object returns the value as an automation Object, or nil if the variant
// does not hold one.
func (v Variant) Object() Object {
	if o, ok := v.val.(Object); ok {
		return o
	}
	return nil
}
