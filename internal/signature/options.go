package signature

import (
	"reflect"
	"strings"
	"sync"

	"github.com/funvibe/funsql/internal/types"
)

// ArgumentOptions is the constraint bag attached to one argument type.
// The zero value plus a cardinality is the common case; everything else
// is optional. Options handed to an argument constructor must not be
// mutated afterwards.
type ArgumentOptions struct {
	Cardinality Cardinality

	// Call-site constraints checked by the resolver.
	MustBeConstant      bool
	MustBeNonNull       bool
	IsNotAggregate      bool
	MustSupportEquality bool
	MustSupportOrdering bool

	// Inclusive bounds for fixed-range integer arguments.
	MinValue *int64
	MaxValue *int64

	// Schema constraints for KindRelation arguments.
	RelationSchema              *Relation
	ExtraRelationColumnsAllowed bool

	// Named-argument support. A mandatory name must be written at the
	// call site.
	ArgumentName    string
	NameIsMandatory bool

	ProcedureMode ProcedureMode

	// Default value for Optional arguments of kinds accepted by
	// CanHaveDefault.
	Default *types.Value

	// Index of the KindRelation argument a KindDescriptor argument
	// resolves its column names against.
	DescriptorTableOffset *int
}

var (
	simpleOptionsOnce sync.Once
	simpleRequired    *ArgumentOptions
	simpleOptional    *ArgumentOptions
	simpleRepeated    *ArgumentOptions
)

// SimpleOptions returns the shared preset carrying only the given
// cardinality. The three presets are built on first use and are
// read-only from then on.
func SimpleOptions(card Cardinality) *ArgumentOptions {
	simpleOptionsOnce.Do(func() {
		simpleRequired = &ArgumentOptions{Cardinality: Required}
		simpleOptional = &ArgumentOptions{Cardinality: Optional}
		simpleRepeated = &ArgumentOptions{Cardinality: Repeated}
	})
	switch card {
	case Optional:
		return simpleOptional
	case Repeated:
		return simpleRepeated
	}
	return simpleRequired
}

func (o *ArgumentOptions) HasDefault() bool        { return o.Default != nil }
func (o *ArgumentOptions) HasRelationSchema() bool { return o.RelationSchema != nil }
func (o *ArgumentOptions) HasArgumentName() bool   { return o.ArgumentName != "" }

// isSimpleRequired reports whether the options carry nothing beyond
// plain Required cardinality. Lambda argument and body types are
// restricted to this shape.
func (o *ArgumentOptions) isSimpleRequired() bool {
	simple := SimpleOptions(Required)
	return o == simple || reflect.DeepEqual(*o, *simple)
}

// DebugString renders the options that were explicitly set, or "" when
// none were, e.g. " {must_be_constant: true}".
func (o *ArgumentOptions) DebugString() string {
	var parts []string
	if o.MustBeConstant {
		parts = append(parts, "must_be_constant: true")
	}
	if o.MustBeNonNull {
		parts = append(parts, "must_be_non_null: true")
	}
	if o.Default != nil {
		parts = append(parts, "default_value: "+o.Default.DebugString())
	}
	if o.IsNotAggregate {
		parts = append(parts, "is_not_aggregate: true")
	}
	if o.ProcedureMode != ModeNotSet {
		parts = append(parts, "procedure_argument_mode: "+o.ProcedureMode.String())
	}
	if len(parts) == 0 {
		return ""
	}
	return " {" + strings.Join(parts, ", ") + "}"
}

// SQLDeclaration renders the options that follow an argument in a SQL
// declaration. Constraints without SQL syntax are emitted as comments.
func (o *ArgumentOptions) SQLDeclaration(mode types.ProductMode) string {
	var parts []string
	if o.MustBeConstant {
		parts = append(parts, "/*must_be_constant*/")
	}
	if o.MustBeNonNull {
		parts = append(parts, "/*must_be_non_null*/")
	}
	if o.Default != nil {
		parts = append(parts, "DEFAULT", o.Default.SQLLiteral(mode))
	}
	if o.IsNotAggregate {
		parts = append(parts, "NOT AGGREGATE")
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}
