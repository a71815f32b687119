package types

import (
	"fmt"
	"strings"

	"github.com/jhump/protoreflect/desc"
)

// Type is a concrete SQL type. Implementations are immutable after
// construction and safe to share across goroutines.
type Type interface {
	Kind() Kind
	// TypeName renders the type as it appears in SQL under the given
	// product mode.
	TypeName(mode ProductMode) string
	// DebugString renders the type using internal-mode names.
	DebugString() string
	Equals(other Type) bool
	// IsSupported reports whether the type may appear in a catalog built
	// under the given language options.
	IsSupported(opts *LanguageOptions) bool
	SupportsEquality() bool
	SupportsOrdering() bool
}

// SimpleType is a scalar type with no composite structure. Use the
// package-level accessors (Int64Type, StringType, ...) to obtain the
// shared instances.
type SimpleType struct {
	kind Kind
}

var simpleTypes = map[Kind]*SimpleType{
	Int32Kind:      {kind: Int32Kind},
	Int64Kind:      {kind: Int64Kind},
	Uint32Kind:     {kind: Uint32Kind},
	Uint64Kind:     {kind: Uint64Kind},
	BoolKind:       {kind: BoolKind},
	FloatKind:      {kind: FloatKind},
	DoubleKind:     {kind: DoubleKind},
	StringKind:     {kind: StringKind},
	BytesKind:      {kind: BytesKind},
	DateKind:       {kind: DateKind},
	TimestampKind:  {kind: TimestampKind},
	TimeKind:       {kind: TimeKind},
	DatetimeKind:   {kind: DatetimeKind},
	IntervalKind:   {kind: IntervalKind},
	NumericKind:    {kind: NumericKind},
	BigNumericKind: {kind: BigNumericKind},
	JSONKind:       {kind: JSONKind},
	GeographyKind:  {kind: GeographyKind},
}

// SimpleTypeForKind returns the shared instance for a simple kind.
func SimpleTypeForKind(k Kind) (*SimpleType, bool) {
	t, ok := simpleTypes[k]
	return t, ok
}

func Int32Type() *SimpleType      { return simpleTypes[Int32Kind] }
func Int64Type() *SimpleType      { return simpleTypes[Int64Kind] }
func Uint32Type() *SimpleType     { return simpleTypes[Uint32Kind] }
func Uint64Type() *SimpleType     { return simpleTypes[Uint64Kind] }
func BoolType() *SimpleType       { return simpleTypes[BoolKind] }
func FloatType() *SimpleType      { return simpleTypes[FloatKind] }
func DoubleType() *SimpleType     { return simpleTypes[DoubleKind] }
func StringType() *SimpleType     { return simpleTypes[StringKind] }
func BytesType() *SimpleType      { return simpleTypes[BytesKind] }
func DateType() *SimpleType       { return simpleTypes[DateKind] }
func TimestampType() *SimpleType  { return simpleTypes[TimestampKind] }
func TimeType() *SimpleType       { return simpleTypes[TimeKind] }
func DatetimeType() *SimpleType   { return simpleTypes[DatetimeKind] }
func IntervalType() *SimpleType   { return simpleTypes[IntervalKind] }
func NumericType() *SimpleType    { return simpleTypes[NumericKind] }
func BigNumericType() *SimpleType { return simpleTypes[BigNumericKind] }
func JSONType() *SimpleType       { return simpleTypes[JSONKind] }
func GeographyType() *SimpleType  { return simpleTypes[GeographyKind] }

func (t *SimpleType) Kind() Kind { return t.kind }

func (t *SimpleType) TypeName(mode ProductMode) string { return t.kind.Name(mode) }

func (t *SimpleType) DebugString() string { return t.kind.String() }

func (t *SimpleType) Equals(other Type) bool {
	return other != nil && other.Kind() == t.kind
}

func (t *SimpleType) IsSupported(opts *LanguageOptions) bool {
	if opts.ProductMode() == ProductExternal {
		switch t.kind {
		case Int32Kind, Uint32Kind, Uint64Kind, FloatKind:
			return false
		}
	}
	switch t.kind {
	case NumericKind:
		return opts.FeatureEnabled(FeatureNumericType)
	case BigNumericKind:
		return opts.FeatureEnabled(FeatureBigNumericType)
	case JSONKind:
		return opts.FeatureEnabled(FeatureJSONType)
	case IntervalKind:
		return opts.FeatureEnabled(FeatureIntervalType)
	case GeographyKind:
		return opts.FeatureEnabled(FeatureGeographyType)
	}
	return true
}

func (t *SimpleType) SupportsEquality() bool {
	return t.kind != JSONKind && t.kind != GeographyKind
}

func (t *SimpleType) SupportsOrdering() bool {
	return t.kind != JSONKind && t.kind != GeographyKind
}

// ArrayType is an ordered collection of elements of one type. Arrays of
// arrays are not constructible.
type ArrayType struct {
	element Type
}

// NewArrayType builds an array type. The element must not itself be an
// array.
func NewArrayType(element Type) (*ArrayType, error) {
	if element == nil {
		return nil, fmt.Errorf("array element type is nil")
	}
	if element.Kind() == ArrayKind {
		return nil, fmt.Errorf("arrays of arrays are not supported: ARRAY<%s>", element.DebugString())
	}
	return &ArrayType{element: element}, nil
}

func (t *ArrayType) Kind() Kind    { return ArrayKind }
func (t *ArrayType) Element() Type { return t.element }

func (t *ArrayType) TypeName(mode ProductMode) string {
	return fmt.Sprintf("ARRAY<%s>", t.element.TypeName(mode))
}

func (t *ArrayType) DebugString() string {
	return fmt.Sprintf("ARRAY<%s>", t.element.DebugString())
}

func (t *ArrayType) Equals(other Type) bool {
	o, ok := other.(*ArrayType)
	return ok && t.element.Equals(o.element)
}

func (t *ArrayType) IsSupported(opts *LanguageOptions) bool {
	return t.element.IsSupported(opts)
}

func (t *ArrayType) SupportsEquality() bool { return t.element.SupportsEquality() }
func (t *ArrayType) SupportsOrdering() bool { return t.element.SupportsOrdering() }

// StructField is one field of a struct type. The name may be empty for
// anonymous fields.
type StructField struct {
	Name string
	Type Type
}

// StructType is an ordered sequence of named fields.
type StructType struct {
	fields []StructField
}

// NewStructType builds a struct type from the given fields. The slice is
// copied.
func NewStructType(fields []StructField) *StructType {
	copied := make([]StructField, len(fields))
	copy(copied, fields)
	return &StructType{fields: copied}
}

func (t *StructType) Kind() Kind { return StructKind }

func (t *StructType) NumFields() int          { return len(t.fields) }
func (t *StructType) Field(i int) StructField { return t.fields[i] }
func (t *StructType) Fields() []StructField   { return t.fields }

func (t *StructType) TypeName(mode ProductMode) string {
	return t.render(func(ft Type) string { return ft.TypeName(mode) })
}

func (t *StructType) DebugString() string {
	return t.render(Type.DebugString)
}

func (t *StructType) render(typeName func(Type) string) string {
	var sb strings.Builder
	sb.WriteString("STRUCT<")
	for i, f := range t.fields {
		if i > 0 {
			sb.WriteString(", ")
		}
		if f.Name != "" {
			sb.WriteString(f.Name)
			sb.WriteString(" ")
		}
		sb.WriteString(typeName(f.Type))
	}
	sb.WriteString(">")
	return sb.String()
}

func (t *StructType) Equals(other Type) bool {
	o, ok := other.(*StructType)
	if !ok || len(o.fields) != len(t.fields) {
		return false
	}
	for i, f := range t.fields {
		if f.Name != o.fields[i].Name || !f.Type.Equals(o.fields[i].Type) {
			return false
		}
	}
	return true
}

func (t *StructType) IsSupported(opts *LanguageOptions) bool {
	for _, f := range t.fields {
		if !f.Type.IsSupported(opts) {
			return false
		}
	}
	return true
}

func (t *StructType) SupportsEquality() bool {
	for _, f := range t.fields {
		if !f.Type.SupportsEquality() {
			return false
		}
	}
	return true
}

func (t *StructType) SupportsOrdering() bool { return false }

// ProtoType is a protocol buffer message type backed by a descriptor.
type ProtoType struct {
	descriptor *desc.MessageDescriptor
}

// NewProtoType builds a proto type from a message descriptor.
func NewProtoType(md *desc.MessageDescriptor) (*ProtoType, error) {
	if md == nil {
		return nil, fmt.Errorf("proto message descriptor is nil")
	}
	return &ProtoType{descriptor: md}, nil
}

func (t *ProtoType) Kind() Kind                          { return ProtoKind }
func (t *ProtoType) Descriptor() *desc.MessageDescriptor { return t.descriptor }

func (t *ProtoType) TypeName(ProductMode) string {
	return t.descriptor.GetFullyQualifiedName()
}

func (t *ProtoType) DebugString() string {
	return fmt.Sprintf("PROTO<%s>", t.descriptor.GetFullyQualifiedName())
}

func (t *ProtoType) Equals(other Type) bool {
	o, ok := other.(*ProtoType)
	return ok && o.descriptor.GetFullyQualifiedName() == t.descriptor.GetFullyQualifiedName()
}

func (t *ProtoType) IsSupported(opts *LanguageOptions) bool {
	return opts.ProductMode() != ProductExternal
}

func (t *ProtoType) SupportsEquality() bool { return false }
func (t *ProtoType) SupportsOrdering() bool { return false }

// EnumType is a protocol buffer enum type backed by a descriptor.
type EnumType struct {
	descriptor *desc.EnumDescriptor
}

// NewEnumType builds an enum type from an enum descriptor.
func NewEnumType(ed *desc.EnumDescriptor) (*EnumType, error) {
	if ed == nil {
		return nil, fmt.Errorf("enum descriptor is nil")
	}
	return &EnumType{descriptor: ed}, nil
}

func (t *EnumType) Kind() Kind                       { return EnumKind }
func (t *EnumType) Descriptor() *desc.EnumDescriptor { return t.descriptor }

func (t *EnumType) TypeName(ProductMode) string {
	return t.descriptor.GetFullyQualifiedName()
}

func (t *EnumType) DebugString() string {
	return fmt.Sprintf("ENUM<%s>", t.descriptor.GetFullyQualifiedName())
}

func (t *EnumType) Equals(other Type) bool {
	o, ok := other.(*EnumType)
	return ok && o.descriptor.GetFullyQualifiedName() == t.descriptor.GetFullyQualifiedName()
}

func (t *EnumType) IsSupported(opts *LanguageOptions) bool {
	return opts.ProductMode() != ProductExternal
}

func (t *EnumType) SupportsEquality() bool { return true }
func (t *EnumType) SupportsOrdering() bool { return true }
