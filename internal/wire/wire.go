// Package wire defines the serialized form of signatures and the codec
// between it and the core objects. The same structs serve the JSON RPC
// payloads and the YAML catalog files; every optional field is a pointer
// or omitempty so producers on older schema versions stay decodable.
package wire

// TypeData describes a concrete SQL type. Kind is the stable kind name;
// exactly one composite payload may be set, matching the kind.
type TypeData struct {
	Kind        string      `json:"kind" yaml:"kind"`
	ElementType *TypeData   `json:"element_type,omitempty" yaml:"element_type,omitempty"`
	Fields      []FieldData `json:"fields,omitempty" yaml:"fields,omitempty"`
	ProtoName   string      `json:"proto_name,omitempty" yaml:"proto_name,omitempty"`
	EnumName    string      `json:"enum_name,omitempty" yaml:"enum_name,omitempty"`
}

// FieldData is one struct field.
type FieldData struct {
	Name string    `json:"name,omitempty" yaml:"name,omitempty"`
	Type *TypeData `json:"type" yaml:"type"`
}

// ValueData is a typed literal. The carrying context supplies the type;
// exactly one payload field is set, or Null.
type ValueData struct {
	Null   bool     `json:"null,omitempty" yaml:"null,omitempty"`
	Bool   *bool    `json:"bool,omitempty" yaml:"bool,omitempty"`
	Int64  *int64   `json:"int64,omitempty" yaml:"int64,omitempty"`
	Uint64 *uint64  `json:"uint64,omitempty" yaml:"uint64,omitempty"`
	Double *float64 `json:"double,omitempty" yaml:"double,omitempty"`
	String *string  `json:"string,omitempty" yaml:"string,omitempty"`
	Bytes  []byte   `json:"bytes,omitempty" yaml:"bytes,omitempty"`
}

// RelationColumnData is one column of a relation schema.
type RelationColumnData struct {
	Name           string    `json:"name,omitempty" yaml:"name,omitempty"`
	Type           *TypeData `json:"type" yaml:"type"`
	IsPseudoColumn bool      `json:"is_pseudo_column,omitempty" yaml:"is_pseudo_column,omitempty"`
}

// RelationData is a relation schema.
type RelationData struct {
	Columns      []RelationColumnData `json:"columns,omitempty" yaml:"columns,omitempty"`
	IsValueTable bool                 `json:"is_value_table,omitempty" yaml:"is_value_table,omitempty"`
}

// ArgumentOptionsData carries the optional constraints of one argument.
// DefaultValueType accompanies DefaultValue only on templated arguments;
// a fixed argument's default takes the argument's own type.
type ArgumentOptionsData struct {
	Cardinality                 string        `json:"cardinality,omitempty" yaml:"cardinality,omitempty"`
	MustBeConstant              bool          `json:"must_be_constant,omitempty" yaml:"must_be_constant,omitempty"`
	MustBeNonNull               bool          `json:"must_be_non_null,omitempty" yaml:"must_be_non_null,omitempty"`
	IsNotAggregate              bool          `json:"is_not_aggregate,omitempty" yaml:"is_not_aggregate,omitempty"`
	MustSupportEquality         bool          `json:"must_support_equality,omitempty" yaml:"must_support_equality,omitempty"`
	MustSupportOrdering         bool          `json:"must_support_ordering,omitempty" yaml:"must_support_ordering,omitempty"`
	MinValue                    *int64        `json:"min_value,omitempty" yaml:"min_value,omitempty"`
	MaxValue                    *int64        `json:"max_value,omitempty" yaml:"max_value,omitempty"`
	RelationInputSchema         *RelationData `json:"relation_input_schema,omitempty" yaml:"relation_input_schema,omitempty"`
	ExtraRelationColumnsAllowed bool          `json:"extra_relation_columns_allowed,omitempty" yaml:"extra_relation_columns_allowed,omitempty"`
	ArgumentName                string        `json:"argument_name,omitempty" yaml:"argument_name,omitempty"`
	NameIsMandatory             bool          `json:"name_is_mandatory,omitempty" yaml:"name_is_mandatory,omitempty"`
	ProcedureMode               string        `json:"procedure_argument_mode,omitempty" yaml:"procedure_argument_mode,omitempty"`
	DefaultValue                *ValueData    `json:"default_value,omitempty" yaml:"default_value,omitempty"`
	DefaultValueType            *TypeData     `json:"default_value_type,omitempty" yaml:"default_value_type,omitempty"`
	DescriptorTableOffset       *int          `json:"descriptor_table_offset,omitempty" yaml:"descriptor_table_offset,omitempty"`
}

// ArgumentData is one argument or result position. Type is present
// exactly when Kind is FIXED; Lambda exactly when Kind is LAMBDA.
// NumOccurrences is omitted for an uninstantiated argument.
type ArgumentData struct {
	Kind           string               `json:"kind" yaml:"kind"`
	Type           *TypeData            `json:"type,omitempty" yaml:"type,omitempty"`
	NumOccurrences *int                 `json:"num_occurrences,omitempty" yaml:"num_occurrences,omitempty"`
	Options        *ArgumentOptionsData `json:"options,omitempty" yaml:"options,omitempty"`
	Lambda         *LambdaData          `json:"lambda,omitempty" yaml:"lambda,omitempty"`
}

// LambdaData is the nested shape of a lambda argument.
type LambdaData struct {
	Arguments []ArgumentData `json:"arguments,omitempty" yaml:"arguments,omitempty"`
	Body      *ArgumentData  `json:"body" yaml:"body"`
}

// SignatureOptionsData is the signature-level options block.
type SignatureOptionsData struct {
	IsDeprecated                  bool     `json:"is_deprecated,omitempty" yaml:"is_deprecated,omitempty"`
	AdditionalDeprecationWarnings []string `json:"additional_deprecation_warnings,omitempty" yaml:"additional_deprecation_warnings,omitempty"`
	RequiredLanguageFeatures      []string `json:"required_language_features,omitempty" yaml:"required_language_features,omitempty"`
	IsAliasedSignature            bool     `json:"is_aliased_signature,omitempty" yaml:"is_aliased_signature,omitempty"`
}

// SignatureData is one serialized signature.
type SignatureData struct {
	Arguments  []ArgumentData        `json:"arguments,omitempty" yaml:"arguments,omitempty"`
	ResultType *ArgumentData         `json:"result_type" yaml:"result_type"`
	ContextID  int64                 `json:"context_id,omitempty" yaml:"context_id,omitempty"`
	Options    *SignatureOptionsData `json:"options,omitempty" yaml:"options,omitempty"`
}
