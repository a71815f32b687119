// Package types models the concrete SQL type system used by signatures:
// simple scalar types, arrays, structs, and descriptor-backed proto and
// enum types, plus the language options that gate which of them a catalog
// may use.
package types

// Kind identifies a concrete SQL type. Simple kinds carry no further
// structure; Array, Struct, Proto and Enum kinds are composite and the
// structure lives in the corresponding Type implementation.
type Kind int

const (
	UnknownKind Kind = iota
	Int32Kind
	Int64Kind
	Uint32Kind
	Uint64Kind
	BoolKind
	FloatKind
	DoubleKind
	StringKind
	BytesKind
	DateKind
	TimestampKind
	TimeKind
	DatetimeKind
	IntervalKind
	NumericKind
	BigNumericKind
	JSONKind
	GeographyKind
	ArrayKind
	StructKind
	ProtoKind
	EnumKind
)

var kindNames = map[Kind]string{
	UnknownKind:    "UNKNOWN",
	Int32Kind:      "INT32",
	Int64Kind:      "INT64",
	Uint32Kind:     "UINT32",
	Uint64Kind:     "UINT64",
	BoolKind:       "BOOL",
	FloatKind:      "FLOAT",
	DoubleKind:     "DOUBLE",
	StringKind:     "STRING",
	BytesKind:      "BYTES",
	DateKind:       "DATE",
	TimestampKind:  "TIMESTAMP",
	TimeKind:       "TIME",
	DatetimeKind:   "DATETIME",
	IntervalKind:   "INTERVAL",
	NumericKind:    "NUMERIC",
	BigNumericKind: "BIGNUMERIC",
	JSONKind:       "JSON",
	GeographyKind:  "GEOGRAPHY",
	ArrayKind:      "ARRAY",
	StructKind:     "STRUCT",
	ProtoKind:      "PROTO",
	EnumKind:       "ENUM",
}

// String returns the canonical (internal-mode) name of the kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "UNKNOWN"
}

// Name returns the kind name shown to users under the given product mode.
// External mode renames DOUBLE to FLOAT64.
func (k Kind) Name(mode ProductMode) string {
	if mode == ProductExternal && k == DoubleKind {
		return "FLOAT64"
	}
	return k.String()
}

// KindFromName returns the kind with the given canonical name.
func KindFromName(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	if name == "FLOAT64" {
		return DoubleKind, true
	}
	return UnknownKind, false
}

// IsSimple reports whether the kind has no composite structure.
func (k Kind) IsSimple() bool {
	switch k {
	case ArrayKind, StructKind, ProtoKind, EnumKind, UnknownKind:
		return false
	}
	return true
}

// IsInteger reports whether the kind is a signed or unsigned integer.
func (k Kind) IsInteger() bool {
	switch k {
	case Int32Kind, Int64Kind, Uint32Kind, Uint64Kind:
		return true
	}
	return false
}

// IsSignedInteger reports whether the kind is INT32 or INT64.
func (k Kind) IsSignedInteger() bool {
	return k == Int32Kind || k == Int64Kind
}

// IsUnsignedInteger reports whether the kind is UINT32 or UINT64.
func (k Kind) IsUnsignedInteger() bool {
	return k == Uint32Kind || k == Uint64Kind
}

// IsFloatingPoint reports whether the kind is FLOAT or DOUBLE.
func (k Kind) IsFloatingPoint() bool {
	return k == FloatKind || k == DoubleKind
}

// IsNumerical reports whether the kind is usable where a number is expected.
func (k Kind) IsNumerical() bool {
	return k.IsInteger() || k.IsFloatingPoint() ||
		k == NumericKind || k == BigNumericKind
}
