package types

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
)

// Value is a typed SQL literal, used for argument default values. The
// zero Value is invalid; a valid Value is either a typed NULL of any type
// or a non-null scalar payload.
type Value struct {
	typ     Type
	isNull  bool
	boolVal bool
	intVal  int64
	uintVal uint64
	fltVal  float64
	strVal  string
	bytVal  []byte
}

// NullValue builds a typed NULL.
func NullValue(t Type) Value {
	return Value{typ: t, isNull: true}
}

func BoolValue(v bool) Value {
	return Value{typ: BoolType(), boolVal: v}
}

func Int32Value(v int32) Value {
	return Value{typ: Int32Type(), intVal: int64(v)}
}

func Int64Value(v int64) Value {
	return Value{typ: Int64Type(), intVal: v}
}

func Uint32Value(v uint32) Value {
	return Value{typ: Uint32Type(), uintVal: uint64(v)}
}

func Uint64Value(v uint64) Value {
	return Value{typ: Uint64Type(), uintVal: v}
}

func FloatValue(v float32) Value {
	return Value{typ: FloatType(), fltVal: float64(v)}
}

func DoubleValue(v float64) Value {
	return Value{typ: DoubleType(), fltVal: v}
}

func StringValue(v string) Value {
	return Value{typ: StringType(), strVal: v}
}

// BytesValue copies the payload.
func BytesValue(v []byte) Value {
	copied := make([]byte, len(v))
	copy(copied, v)
	return Value{typ: BytesType(), bytVal: copied}
}

// IsValid reports whether the value carries a type.
func (v Value) IsValid() bool { return v.typ != nil }

func (v Value) Type() Type   { return v.typ }
func (v Value) IsNull() bool { return v.isNull }

func (v Value) Bool() bool        { return v.boolVal }
func (v Value) Int64() int64      { return v.intVal }
func (v Value) Uint64() uint64    { return v.uintVal }
func (v Value) Double() float64   { return v.fltVal }
func (v Value) StringVal() string { return v.strVal }
func (v Value) BytesVal() []byte  { return v.bytVal }

// Equals reports whether two values have equal types and equal contents.
func (v Value) Equals(other Value) bool {
	if v.typ == nil || other.typ == nil {
		return v.typ == nil && other.typ == nil
	}
	if !v.typ.Equals(other.typ) || v.isNull != other.isNull {
		return false
	}
	if v.isNull {
		return true
	}
	switch v.typ.Kind() {
	case BoolKind:
		return v.boolVal == other.boolVal
	case Int32Kind, Int64Kind:
		return v.intVal == other.intVal
	case Uint32Kind, Uint64Kind:
		return v.uintVal == other.uintVal
	case FloatKind, DoubleKind:
		return v.fltVal == other.fltVal ||
			(math.IsNaN(v.fltVal) && math.IsNaN(other.fltVal))
	case StringKind:
		return v.strVal == other.strVal
	case BytesKind:
		return bytes.Equal(v.bytVal, other.bytVal)
	}
	return true
}

func (v Value) String() string { return v.DebugString() }

// DebugString renders the value using internal-mode type names.
func (v Value) DebugString() string { return v.SQLLiteral(ProductInternal) }

// SQLLiteral renders the value as a SQL literal under the given product
// mode.
func (v Value) SQLLiteral(mode ProductMode) string {
	if v.typ == nil {
		return "<invalid>"
	}
	if v.isNull {
		return "NULL"
	}
	switch v.typ.Kind() {
	case BoolKind:
		if v.boolVal {
			return "TRUE"
		}
		return "FALSE"
	case Int32Kind, Int64Kind:
		return strconv.FormatInt(v.intVal, 10)
	case Uint32Kind, Uint64Kind:
		return strconv.FormatUint(v.uintVal, 10)
	case FloatKind, DoubleKind:
		// Non-finite doubles have no literal syntax.
		if math.IsInf(v.fltVal, 0) || math.IsNaN(v.fltVal) {
			return fmt.Sprintf("CAST(%q AS %s)",
				strconv.FormatFloat(v.fltVal, 'g', -1, 64), v.typ.TypeName(mode))
		}
		return strconv.FormatFloat(v.fltVal, 'g', -1, 64)
	case StringKind:
		return strconv.Quote(v.strVal)
	case BytesKind:
		return "b" + strconv.Quote(string(v.bytVal))
	}
	return fmt.Sprintf("<%s>", v.typ.DebugString())
}
