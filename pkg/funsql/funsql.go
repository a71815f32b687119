// Package funsql exposes the signature library for embedding in host
// programs.
//
// The implementation lives in internal packages; this package
// re-exports the types and constructors a host needs to declare
// function signatures, validate them, move them through the wire
// format, and load catalog files.
package funsql

import (
	"go.uber.org/zap"

	"github.com/funvibe/funsql/internal/catalog"
	"github.com/funvibe/funsql/internal/descpool"
	"github.com/funvibe/funsql/internal/function"
	"github.com/funvibe/funsql/internal/signature"
	"github.com/funvibe/funsql/internal/types"
	"github.com/funvibe/funsql/internal/wire"
)

// Type system aliases.
type Type = types.Type
type Kind = types.Kind
type Value = types.Value
type ProductMode = types.ProductMode
type LanguageOptions = types.LanguageOptions
type LanguageFeature = types.LanguageFeature
type StructField = types.StructField

// Signature aliases.
type Signature = signature.Signature
type SignatureOptions = signature.SignatureOptions
type ArgumentType = signature.ArgumentType
type ArgumentKind = signature.ArgumentKind
type ArgumentOptions = signature.ArgumentOptions
type Cardinality = signature.Cardinality
type ProcedureMode = signature.ProcedureMode
type Relation = signature.Relation
type RelationColumn = signature.RelationColumn
type ValidationError = signature.ValidationError
type InternalError = signature.InternalError

// Entity aliases.
type Function = function.Function
type FunctionMode = function.Mode
type TableValuedFunction = function.TableValuedFunction
type Procedure = function.Procedure

// Catalog aliases.
type Pool = descpool.Pool
type Loader = catalog.Loader
type Report = catalog.Report
type EntryError = catalog.EntryError
type Store = catalog.Store
type BuildInfo = catalog.BuildInfo
type SignatureRow = catalog.SignatureRow

// Argument kinds.
const (
	KindFixed         = signature.KindFixed
	KindAny1          = signature.KindAny1
	KindAny2          = signature.KindAny2
	KindArrayAny1     = signature.KindArrayAny1
	KindArrayAny2     = signature.KindArrayAny2
	KindProtoMap      = signature.KindProtoMap
	KindProtoMapKey   = signature.KindProtoMapKey
	KindProtoMapValue = signature.KindProtoMapValue
	KindProtoAny      = signature.KindProtoAny
	KindStructAny     = signature.KindStructAny
	KindEnumAny       = signature.KindEnumAny
	KindArbitrary     = signature.KindArbitrary
	KindRelation      = signature.KindRelation
	KindModel         = signature.KindModel
	KindConnection    = signature.KindConnection
	KindDescriptor    = signature.KindDescriptor
	KindLambda        = signature.KindLambda
	KindVoid          = signature.KindVoid
)

// Cardinalities.
const (
	Required = signature.Required
	Optional = signature.Optional
	Repeated = signature.Repeated
)

// Procedure argument modes.
const (
	ModeNotSet = signature.ModeNotSet
	ModeIn     = signature.ModeIn
	ModeOut    = signature.ModeOut
	ModeInOut  = signature.ModeInOut
)

// Function modes.
const (
	Scalar    = function.Scalar
	Aggregate = function.Aggregate
	Analytic  = function.Analytic
)

// Product modes.
const (
	ProductInternal = types.ProductInternal
	ProductExternal = types.ProductExternal
)

// NewLanguageOptions builds language options for a product mode with
// the given features enabled.
func NewLanguageOptions(mode ProductMode, features ...LanguageFeature) *LanguageOptions {
	return types.NewLanguageOptions(mode, features...)
}

// ProductModeFromString parses a product mode name. The empty string
// means internal.
func ProductModeFromString(s string) (ProductMode, bool) {
	return types.ProductModeFromString(s)
}

// FeatureFromName parses a language feature name like "NUMERIC_TYPE".
func FeatureFromName(name string) (LanguageFeature, bool) {
	return types.FeatureFromName(name)
}

// SimpleTypeForKind returns the singleton simple type for a kind.
func SimpleTypeForKind(k Kind) (Type, bool) {
	return types.SimpleTypeForKind(k)
}

// Common simple types.
func Int64Type() Type     { return types.Int64Type() }
func Int32Type() Type     { return types.Int32Type() }
func DoubleType() Type    { return types.DoubleType() }
func BoolType() Type      { return types.BoolType() }
func StringType() Type    { return types.StringType() }
func BytesType() Type     { return types.BytesType() }
func DateType() Type      { return types.DateType() }
func TimestampType() Type { return types.TimestampType() }

// NewArrayType builds an array type over an element type.
func NewArrayType(element Type) (Type, error) {
	return types.NewArrayType(element)
}

// NewStructType builds a struct type from named fields.
func NewStructType(fields []StructField) Type {
	return types.NewStructType(fields)
}

// NewSignature declares a signature from a result, an argument list and
// a caller-owned context id.
func NewSignature(resultType ArgumentType, arguments []ArgumentType, contextID int64) *Signature {
	return signature.NewSignature(resultType, arguments, contextID)
}

// NewSignatureWithOptions declares a signature carrying signature-level
// options.
func NewSignatureWithOptions(resultType ArgumentType, arguments []ArgumentType, contextID int64, options SignatureOptions) *Signature {
	return signature.NewSignatureWithOptions(resultType, arguments, contextID, options)
}

// Argument constructors.
func NewArgument(kind ArgumentKind) ArgumentType {
	return signature.NewArgument(kind)
}

func NewArgumentWithCardinality(kind ArgumentKind, card Cardinality) ArgumentType {
	return signature.NewArgumentWithCardinality(kind, card)
}

func NewArgumentWithOptions(kind ArgumentKind, options *ArgumentOptions) ArgumentType {
	return signature.NewArgumentWithOptions(kind, options)
}

func NewFixedArgument(t Type) ArgumentType {
	return signature.NewFixedArgument(t)
}

func NewFixedArgumentWithCardinality(t Type, card Cardinality) ArgumentType {
	return signature.NewFixedArgumentWithCardinality(t, card)
}

func NewFixedArgumentWithOptions(t Type, options *ArgumentOptions) ArgumentType {
	return signature.NewFixedArgumentWithOptions(t, options)
}

func NewRelationArgument(schema *Relation, extraColumnsAllowed bool) ArgumentType {
	return signature.NewRelationArgument(schema, extraColumnsAllowed)
}

func NewLambdaArgument(args []ArgumentType, body ArgumentType) (ArgumentType, error) {
	return signature.NewLambdaArgument(args, body)
}

// NewRelation builds a relation schema from columns.
func NewRelation(columns []RelationColumn) *Relation {
	return signature.NewRelation(columns)
}

// NewFunction declares a function with one or more signatures.
func NewFunction(name, group string, mode FunctionMode, signatures ...*Signature) (*Function, error) {
	return function.NewFunction(name, group, mode, signatures...)
}

// NewTableValuedFunction declares a table-valued function.
func NewTableValuedFunction(namePath []string, sig *Signature) (*TableValuedFunction, error) {
	return function.NewTableValuedFunction(namePath, sig)
}

// NewProcedure declares a procedure.
func NewProcedure(namePath []string, sig *Signature) (*Procedure, error) {
	return function.NewProcedure(namePath, sig)
}

// MarshalSignature renders a signature as wire bytes.
func MarshalSignature(sig *Signature) ([]byte, error) {
	return wire.MarshalSignature(sig)
}

// UnmarshalSignature parses wire bytes back into a signature. The pool
// resolves PROTO and ENUM type names and may be nil when none occur.
func UnmarshalSignature(raw []byte, pool *Pool) (*Signature, error) {
	return wire.UnmarshalSignature(raw, pool)
}

// NewPool creates an empty descriptor pool.
func NewPool() *Pool {
	return descpool.New()
}

// NewLoader creates a catalog loader. The pool backs PROTO and ENUM
// catalog types and may be nil; a nil logger disables logging.
func NewLoader(pool *Pool, opts *LanguageOptions, log *zap.Logger) *Loader {
	return catalog.NewLoader(pool, opts, log)
}

// OpenStore opens the sqlite build store at path, creating it when
// missing.
func OpenStore(path string) (*Store, error) {
	return catalog.OpenStore(path)
}
