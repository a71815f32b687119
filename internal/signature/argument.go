package signature

import (
	"fmt"
	"strings"

	"github.com/funvibe/funsql/internal/types"
)

// Lambda is the nested shape of a function-typed argument: the lambda's
// own ordered argument types plus its body type. A Lambda is owned by
// exactly one ArgumentType and never mutated after construction.
type Lambda struct {
	args []ArgumentType
	body ArgumentType
}

func (l *Lambda) Arguments() []ArgumentType { return l.args }
func (l *Lambda) Body() ArgumentType        { return l.body }

// ArgumentType describes one declared argument or result position: a
// kind, a concrete type when the kind is KindFixed, constraint options,
// and an occurrence count. The count is -1 for a signature-level
// declaration and is bound to a non-negative value once the argument is
// matched against a concrete call. ArgumentType is a value object;
// WithOccurrences returns an instantiated copy.
type ArgumentType struct {
	kind           ArgumentKind
	typ            types.Type
	options        *ArgumentOptions
	numOccurrences int
	lambda         *Lambda
}

// NewArgument builds a templated argument with plain Required options.
func NewArgument(kind ArgumentKind) ArgumentType {
	return ArgumentType{
		kind:           kind,
		options:        SimpleOptions(Required),
		numOccurrences: -1,
	}
}

// NewArgumentWithCardinality builds a templated argument with the shared
// preset for the given cardinality.
func NewArgumentWithCardinality(kind ArgumentKind, card Cardinality) ArgumentType {
	return ArgumentType{
		kind:           kind,
		options:        SimpleOptions(card),
		numOccurrences: -1,
	}
}

// NewArgumentWithOptions builds a templated argument. The options value
// is copied.
func NewArgumentWithOptions(kind ArgumentKind, options *ArgumentOptions) ArgumentType {
	copied := *options
	return ArgumentType{
		kind:           kind,
		options:        &copied,
		numOccurrences: -1,
	}
}

// NewFixedArgument builds a Required argument of a concrete type.
func NewFixedArgument(t types.Type) ArgumentType {
	return ArgumentType{
		kind:           KindFixed,
		typ:            t,
		options:        SimpleOptions(Required),
		numOccurrences: -1,
	}
}

// NewFixedArgumentWithCardinality builds an argument of a concrete type
// with the shared preset for the given cardinality.
func NewFixedArgumentWithCardinality(t types.Type, card Cardinality) ArgumentType {
	return ArgumentType{
		kind:           KindFixed,
		typ:            t,
		options:        SimpleOptions(card),
		numOccurrences: -1,
	}
}

// NewFixedArgumentWithOptions builds an argument of a concrete type. The
// options value is copied.
func NewFixedArgumentWithOptions(t types.Type, options *ArgumentOptions) ArgumentType {
	copied := *options
	return ArgumentType{
		kind:           KindFixed,
		typ:            t,
		options:        &copied,
		numOccurrences: -1,
	}
}

// NewRelationArgument builds a Required table argument bound to an input
// schema. extraColumnsAllowed permits the caller's table to carry columns
// beyond the schema.
func NewRelationArgument(schema *Relation, extraColumnsAllowed bool) ArgumentType {
	return ArgumentType{
		kind: KindRelation,
		options: &ArgumentOptions{
			Cardinality:                 Required,
			RelationSchema:              schema,
			ExtraRelationColumnsAllowed: extraColumnsAllowed,
		},
		numOccurrences: -1,
	}
}

// NewLambdaArgument builds a function-typed argument from the lambda's
// argument types and body type. Each of them must be KindFixed, KindAny1,
// KindAny2, KindArrayAny1 or KindArrayAny2 with plain Required options;
// anything else reports an internal error. The resulting argument carries
// the body's concrete type when the body is fixed.
func NewLambdaArgument(args []ArgumentType, body ArgumentType) (ArgumentType, error) {
	for _, arg := range args {
		if err := checkLambdaArgType(arg); err != nil {
			return ArgumentType{}, err
		}
	}
	if err := checkLambdaArgType(body); err != nil {
		return ArgumentType{}, err
	}
	copied := make([]ArgumentType, len(args))
	copy(copied, args)
	return ArgumentType{
		kind:           KindLambda,
		typ:            body.typ,
		options:        SimpleOptions(Required),
		numOccurrences: 1,
		lambda:         &Lambda{args: copied, body: body},
	}, nil
}

// checkLambdaArgType enforces the restricted shape of lambda argument
// and body types.
func checkLambdaArgType(arg ArgumentType) error {
	switch arg.kind {
	case KindFixed, KindAny1, KindAny2, KindArrayAny1, KindArrayAny2:
	default:
		return internalErrorf("argument type not supported by lambda: %s",
			arg.DebugString(true))
	}
	if !arg.options.isSimpleRequired() {
		return internalErrorf("only plain REQUIRED options are supported by lambda argument types: %s",
			arg.DebugString(true))
	}
	return nil
}

// WithOccurrences returns a copy of the argument bound to the given
// occurrence count.
func (a ArgumentType) WithOccurrences(n int) ArgumentType {
	a.numOccurrences = n
	return a
}

func (a ArgumentType) Kind() ArgumentKind        { return a.kind }
func (a ArgumentType) Type() types.Type          { return a.typ }
func (a ArgumentType) Options() *ArgumentOptions { return a.options }
func (a ArgumentType) NumOccurrences() int       { return a.numOccurrences }
func (a ArgumentType) Lambda() *Lambda           { return a.lambda }

func (a ArgumentType) Cardinality() Cardinality { return a.options.Cardinality }

func (a ArgumentType) IsRequired() bool { return a.options.Cardinality == Required }
func (a ArgumentType) IsOptional() bool { return a.options.Cardinality == Optional }
func (a ArgumentType) IsRepeated() bool { return a.options.Cardinality == Repeated }

func (a ArgumentType) IsRelation() bool   { return a.kind == KindRelation }
func (a ArgumentType) IsModel() bool      { return a.kind == KindModel }
func (a ArgumentType) IsConnection() bool { return a.kind == KindConnection }
func (a ArgumentType) IsDescriptor() bool { return a.kind == KindDescriptor }
func (a ArgumentType) IsLambda() bool     { return a.kind == KindLambda }
func (a ArgumentType) IsVoid() bool       { return a.kind == KindVoid }

// IsFixedRelation reports whether the argument is a relation bound to an
// input schema.
func (a ArgumentType) IsFixedRelation() bool {
	return a.kind == KindRelation && a.options.HasRelationSchema()
}

// HasDefault reports whether the argument declares a default value.
func (a ArgumentType) HasDefault() bool { return a.options.HasDefault() }

// IsConcrete reports whether the argument denotes one definite shape in
// a call: a fixed, relation, model or connection argument with a bound
// occurrence count, or a lambda whose argument and body types are all
// concrete.
func (a ArgumentType) IsConcrete() bool {
	switch a.kind {
	case KindFixed, KindRelation, KindModel, KindConnection, KindLambda:
	default:
		return false
	}
	if a.numOccurrences < 0 {
		return false
	}
	if a.kind == KindLambda {
		for _, arg := range a.lambda.args {
			if !arg.IsConcrete() {
				return false
			}
		}
		return a.lambda.body.IsConcrete()
	}
	return true
}

// IsTemplated reports whether the argument still contains a placeholder:
// any kind other than a fixed type, a schema-bound relation or void, and
// for lambdas, whether any nested argument or the body is templated.
func (a ArgumentType) IsTemplated() bool {
	if a.kind == KindLambda {
		for _, arg := range a.lambda.args {
			if arg.IsTemplated() {
				return true
			}
		}
		return a.lambda.body.IsTemplated()
	}
	return a.kind != KindFixed && !a.IsFixedRelation() && !a.IsVoid()
}

// TemplatedKindIsRelated reports whether this argument's placeholder must
// bind to the same underlying type as the given kind: a templated kind
// relates to itself, an array placeholder relates to its element
// placeholder, the proto map placeholder relates to its key and value
// placeholders, and a lambda relates to whatever its argument or body
// types relate to.
func (a ArgumentType) TemplatedKindIsRelated(kind ArgumentKind) bool {
	if !a.IsTemplated() {
		return false
	}
	if a.kind == kind {
		return true
	}
	if a.kind == KindLambda {
		for _, arg := range a.lambda.args {
			if arg.TemplatedKindIsRelated(kind) {
				return true
			}
		}
		return a.lambda.body.TemplatedKindIsRelated(kind)
	}
	switch {
	case a.kind == KindArrayAny1 && kind == KindAny1,
		a.kind == KindAny1 && kind == KindArrayAny1,
		a.kind == KindArrayAny2 && kind == KindAny2,
		a.kind == KindAny2 && kind == KindArrayAny2,
		a.kind == KindProtoMap && kind == KindProtoMapKey,
		a.kind == KindProtoMapKey && kind == KindProtoMap,
		a.kind == KindProtoMap && kind == KindProtoMapValue,
		a.kind == KindProtoMapValue && kind == KindProtoMap:
		return true
	}
	return false
}

// Validate checks the per-argument rules for the argument's cardinality
// and, for lambdas, the restricted nested shape.
func (a ArgumentType) Validate() error {
	switch a.options.Cardinality {
	case Repeated:
		if a.IsConcrete() && a.numOccurrences < 0 {
			return validationErrorf(
				"REPEATED concrete argument has %d occurrences but must have at least 0: %s",
				a.numOccurrences, a.DebugString(false))
		}
		if a.HasDefault() {
			return validationErrorf(
				"Default value cannot be applied to a REPEATED argument: %s",
				a.DebugString(false))
		}
	case Optional:
		if a.IsConcrete() && (a.numOccurrences < 0 || a.numOccurrences > 1) {
			return validationErrorf(
				"OPTIONAL concrete argument has %d occurrences but must have 0 or 1: %s",
				a.numOccurrences, a.DebugString(false))
		}
		if a.HasDefault() {
			if !CanHaveDefault(a.kind) {
				return validationErrorf(
					"%s argument cannot have a default value: %s",
					a.kind, a.DebugString(false))
			}
			if !a.options.Default.IsValid() {
				return validationErrorf(
					"Default value must be valid: %s", a.DebugString(false))
			}
			// The default's type is checked only against fixed argument
			// types; templated arguments carry the default's own type.
			if a.typ != nil && !a.options.Default.Type().Equals(a.typ) {
				return validationErrorf(
					"Default value type does not match the argument type: %s",
					a.DebugString(false))
			}
		}
	case Required:
		if a.IsConcrete() && a.numOccurrences != 1 {
			return validationErrorf(
				"REQUIRED concrete argument has %d occurrences but must have exactly 1: %s",
				a.numOccurrences, a.DebugString(false))
		}
		if a.HasDefault() {
			return validationErrorf(
				"Default value cannot be applied to a REQUIRED argument: %s",
				a.DebugString(false))
		}
	}

	if a.IsLambda() {
		if a.options.Cardinality != Required {
			return internalErrorf("lambda argument must have REQUIRED cardinality: %s",
				a.DebugString(false))
		}
		for _, arg := range a.lambda.args {
			if err := checkLambdaArgType(arg); err != nil {
				return err
			}
			if err := arg.Validate(); err != nil {
				return err
			}
		}
		if err := checkLambdaArgType(a.lambda.body); err != nil {
			return err
		}
		return a.lambda.body.Validate()
	}
	return nil
}

// UserFacingName renders the argument the way error messages shown to
// end users name it.
func (a ArgumentType) UserFacingName(mode types.ProductMode) string {
	if a.typ != nil {
		return a.typ.TypeName(mode)
	}
	switch a.kind {
	case KindArrayAny1, KindArrayAny2:
		return "ARRAY"
	case KindProtoAny:
		return "PROTO"
	case KindStructAny:
		return "STRUCT"
	case KindEnumAny:
		return "ENUM"
	case KindProtoMap:
		return "PROTO_MAP"
	case KindProtoMapKey, KindProtoMapValue, KindAny1, KindAny2, KindArbitrary:
		return "ANY"
	case KindRelation:
		return "TABLE"
	case KindModel:
		return "MODEL"
	case KindConnection:
		return "CONNECTION"
	case KindDescriptor:
		return "DESCRIPTOR"
	case KindVoid:
		return "VOID"
	case KindLambda:
		return "LAMBDA"
	}
	return "?"
}

// UserFacingNameWithCardinality wraps UserFacingName with the bracket
// notation for optional and repeated arguments and the arrow notation for
// mandatory named arguments.
func (a ArgumentType) UserFacingNameWithCardinality(mode types.ProductMode) string {
	name := a.UserFacingName(mode)
	if a.options.NameIsMandatory {
		name = a.options.ArgumentName + " => " + name
	}
	switch {
	case a.IsOptional():
		return "[" + name + "]"
	case a.IsRepeated():
		return "[" + name + ", ...]"
	}
	return name
}

// DebugString renders the argument for diagnostics, e.g.
// "repeated(2) INT64" or "optional STRING {default_value: "x"} name".
// verbose adds the options annotations.
func (a ArgumentType) DebugString(verbose bool) string {
	var card string
	switch {
	case a.IsRepeated():
		card = "repeated"
	case a.IsOptional():
		card = "optional"
	}
	var occurrences string
	if a.IsConcrete() && !a.IsRequired() {
		occurrences = fmt.Sprintf("(%d)", a.numOccurrences)
	}
	result := card + occurrences
	if !a.IsRequired() {
		result += " "
	}
	switch {
	case a.IsLambda():
		var args []string
		for _, arg := range a.lambda.args {
			args = append(args, arg.DebugString(verbose))
		}
		result += "LAMBDA(" + strings.Join(args, ", ") + ")->" +
			a.lambda.body.DebugString(false)
	case a.typ != nil:
		result += a.typ.DebugString()
	case a.IsRelation() && a.options.HasRelationSchema():
		result = a.options.RelationSchema.DebugString()
	case a.kind == KindArbitrary:
		result += "ANY TYPE"
	default:
		result += a.kind.String()
	}
	if verbose {
		result += a.options.DebugString()
	}
	if a.options.HasArgumentName() {
		result += " " + a.options.ArgumentName
	}
	return result
}

// SQLDeclaration renders the argument as it appears in a SQL
// declaration. Cardinality has no SQL syntax and is emitted as a
// comment.
func (a ArgumentType) SQLDeclaration(mode types.ProductMode) string {
	var card string
	switch {
	case a.IsRepeated():
		card = "/*repeated*/"
	case a.IsOptional():
		card = "/*optional*/"
	}
	result := card
	if !a.IsRequired() {
		result += " "
	}
	if a.IsLambda() {
		var args []string
		for _, arg := range a.lambda.args {
			args = append(args, arg.SQLDeclaration(mode))
		}
		return "LAMBDA((" + strings.Join(args, ", ") + ")->" +
			a.lambda.body.SQLDeclaration(mode) + ")"
	}
	switch {
	case a.typ != nil:
		result += a.typ.TypeName(mode)
	case a.options.HasRelationSchema():
		result += a.options.RelationSchema.SQLDeclaration(mode)
	case a.kind == KindArbitrary:
		result += "ANY TYPE"
	default:
		result += a.kind.String()
	}
	return result + a.options.SQLDeclaration(mode)
}
