package signature

import (
	"fmt"
	"strings"

	"github.com/funvibe/funsql/internal/types"
)

// SignatureOptions carries signature-level annotations that do not
// affect the argument shape.
type SignatureOptions struct {
	IsDeprecated bool

	// AdditionalDeprecationWarnings are shown alongside the deprecation
	// flag when the signature is matched.
	AdditionalDeprecationWarnings []string

	// RequiredLanguageFeatures must all be enabled for the signature to
	// be usable.
	RequiredLanguageFeatures []types.LanguageFeature

	// IsAliasedSignature marks a signature registered under an alias of
	// its function's primary name.
	IsAliasedSignature bool

	// Constraints, when set, vets a concrete signature after matching.
	// It returns "" when satisfied and a reason otherwise. Constraints
	// are not serialized.
	Constraints func(sig *Signature) string
}

// CheckRequiredFeatures reports whether every required language feature
// is enabled.
func (o *SignatureOptions) CheckRequiredFeatures(opts *types.LanguageOptions) bool {
	for _, f := range o.RequiredLanguageFeatures {
		if !opts.FeatureEnabled(f) {
			return false
		}
	}
	return true
}

// Signature is the declared shape of one function, procedure or
// table-valued function overload: an ordered argument list, a result
// type, signature options and an opaque context identifier. The repeated
// and optional counts, the concreteness flag and the concrete-argument
// expansion are derived once at construction. Signatures are immutable
// and safe to share, except for SetConcreteResultType.
type Signature struct {
	arguments  []ArgumentType
	resultType ArgumentType
	contextID  int64
	options    SignatureOptions

	numRepeated       int
	numOptional       int
	isConcrete        bool
	concreteArguments []ArgumentType
}

// NewSignature builds a signature with default options. The argument
// slice is copied. Construction never fails; Validate and the
// context-specific variants check the declaration rules.
func NewSignature(resultType ArgumentType, arguments []ArgumentType, contextID int64) *Signature {
	return NewSignatureWithOptions(resultType, arguments, contextID, SignatureOptions{})
}

// NewSignatureWithOptions builds a signature with the given options.
func NewSignatureWithOptions(resultType ArgumentType, arguments []ArgumentType, contextID int64, options SignatureOptions) *Signature {
	copied := make([]ArgumentType, len(arguments))
	copy(copied, arguments)
	s := &Signature{
		arguments:  copied,
		resultType: resultType,
		contextID:  contextID,
		options:    options,
	}
	s.numRepeated = s.computeNumRepeated()
	s.numOptional = s.computeNumOptional()
	s.computeConcreteArguments()
	return s
}

func (s *Signature) Arguments() []ArgumentType   { return s.arguments }
func (s *Signature) Argument(i int) ArgumentType { return s.arguments[i] }
func (s *Signature) NumArguments() int           { return len(s.arguments) }
func (s *Signature) ResultType() ArgumentType    { return s.resultType }
func (s *Signature) ContextID() int64            { return s.contextID }
func (s *Signature) Options() *SignatureOptions  { return &s.options }

func (s *Signature) IsDeprecated() bool { return s.options.IsDeprecated }

func (s *Signature) NumRepeatedArguments() int { return s.numRepeated }
func (s *Signature) NumOptionalArguments() int { return s.numOptional }

// NumRequiredArguments counts the arguments outside the repeated block
// and the optional suffix.
func (s *Signature) NumRequiredArguments() int {
	return len(s.arguments) - s.numRepeated - s.numOptional
}

// IsConcrete reports whether every argument and the result denote one
// definite call shape.
func (s *Signature) IsConcrete() bool { return s.isConcrete }

// HasConcreteArguments reports whether every argument present in the
// call (occurrence count above zero) is concrete. Omitted templated
// arguments are allowed.
func (s *Signature) HasConcreteArguments() bool {
	return s.hasConcreteArguments()
}

// ConcreteArguments is the flat expansion of the argument list for one
// concrete call, with the repeated block emitted once per repetition.
func (s *Signature) ConcreteArguments() []ArgumentType { return s.concreteArguments }

func (s *Signature) ConcreteArgument(i int) ArgumentType { return s.concreteArguments[i] }
func (s *Signature) NumConcreteArguments() int           { return len(s.concreteArguments) }

func (s *Signature) firstRepeatedIndex() int {
	for i, arg := range s.arguments {
		if arg.IsRepeated() {
			return i
		}
	}
	return -1
}

func (s *Signature) lastRepeatedIndex() int {
	for i := len(s.arguments) - 1; i >= 0; i-- {
		if s.arguments[i].IsRepeated() {
			return i
		}
	}
	return -1
}

func (s *Signature) computeNumRepeated() int {
	first := s.firstRepeatedIndex()
	if first == -1 {
		return 0
	}
	return s.lastRepeatedIndex() - first + 1
}

func (s *Signature) computeNumOptional() int {
	idx := len(s.arguments)
	for idx-1 >= 0 && s.arguments[idx-1].IsOptional() {
		idx--
	}
	return len(s.arguments) - idx
}

func (s *Signature) hasConcreteArguments() bool {
	if s.isConcrete {
		return true
	}
	for _, arg := range s.arguments {
		// Omitted templated arguments may stay unresolved in an
		// otherwise concrete call.
		if arg.NumOccurrences() > 0 && !arg.IsConcrete() {
			return false
		}
	}
	return true
}

func (s *Signature) computeIsConcrete() bool {
	if !s.hasConcreteArguments() {
		return false
	}
	if s.resultType.IsRelation() {
		// A relation result is always concrete once the arguments are.
		return true
	}
	return s.resultType.IsConcrete()
}

// computeConcreteArguments expands the argument list for one concrete
// call: non-repeated arguments bound to one occurrence are emitted once,
// and the repeated block is emitted as a whole once per repetition,
// preserving the declared order inside each repetition.
func (s *Signature) computeConcreteArguments() {
	s.isConcrete = s.computeIsConcrete()
	if !s.hasConcreteArguments() {
		return
	}

	first := s.firstRepeatedIndex()
	last := s.lastRepeatedIndex()
	total := 0
	for _, arg := range s.arguments {
		if arg.NumOccurrences() > 0 {
			total += arg.NumOccurrences()
		}
	}
	s.concreteArguments = make([]ArgumentType, 0, total)

	if first == -1 {
		for _, arg := range s.arguments {
			if arg.NumOccurrences() == 1 {
				s.concreteArguments = append(s.concreteArguments, arg)
			}
		}
		return
	}

	for _, arg := range s.arguments[:first] {
		if arg.NumOccurrences() == 1 {
			s.concreteArguments = append(s.concreteArguments, arg)
		}
	}
	// Every argument in the repeated block shares the same occurrence
	// count.
	repetitions := s.arguments[first].NumOccurrences()
	for c := 0; c < repetitions; c++ {
		s.concreteArguments = append(s.concreteArguments, s.arguments[first:last+1]...)
	}
	for _, arg := range s.arguments[last+1:] {
		if arg.NumOccurrences() == 1 {
			s.concreteArguments = append(s.concreteArguments, arg)
		}
	}
}

// Validate checks the whole-signature declaration rules on top of each
// argument's own rules.
func (s *Signature) Validate() error {
	if s.resultType.IsRepeated() || s.resultType.IsOptional() {
		return validationErrorf("Result type cannot be repeated or optional")
	}

	// An arbitrary result stands for "any type" and a relation result is
	// the TVF case; other templated results must be inferable from some
	// argument.
	if s.resultType.IsTemplated() && s.resultType.Kind() != KindArbitrary &&
		!s.resultType.IsRelation() {
		related := false
		for _, arg := range s.arguments {
			if s.resultType.TemplatedKindIsRelated(arg.Kind()) {
				related = true
				break
			}
		}
		if !related {
			return validationErrorf(
				"Result type template must match an argument type template: %s",
				s.DebugString("", false))
		}
	}

	sawOptional := false
	inRepeatedBlock := false
	afterRepeatedBlock := false
	for i, arg := range s.arguments {
		if err := arg.Validate(); err != nil {
			return err
		}
		if arg.IsVoid() {
			return validationErrorf("Arguments cannot have type VOID: %s",
				s.DebugString("", false))
		}
		if arg.IsOptional() {
			sawOptional = true
		} else if sawOptional {
			return validationErrorf(
				"Optional arguments must be at the end of the argument list: %s",
				s.DebugString("", false))
		}
		if arg.IsRepeated() {
			if afterRepeatedBlock {
				return validationErrorf("Repeated arguments must be consecutive: %s",
					s.DebugString("", false))
			}
			inRepeatedBlock = true
		} else if inRepeatedBlock {
			afterRepeatedBlock = true
			inRepeatedBlock = false
		}

		// A lambda's templated argument types must be resolvable from
		// arguments declared before the lambda, so a resolver can type
		// the lambda in one left-to-right pass.
		if arg.IsLambda() {
			for _, lambdaArg := range arg.Lambda().Arguments() {
				if !lambdaArg.IsTemplated() {
					continue
				}
				related := false
				for j := 0; j < i; j++ {
					if lambdaArg.TemplatedKindIsRelated(s.arguments[j].Kind()) {
						related = true
						break
					}
				}
				if !related {
					return validationErrorf(
						"Templated argument of lambda argument type must match an argument type before the lambda argument: %s",
						s.DebugString("", false))
				}
			}
		}
	}

	if first := s.firstRepeatedIndex(); first >= 0 {
		last := s.lastRepeatedIndex()
		occurrences := s.arguments[first].NumOccurrences()
		for i := first + 1; i <= last; i++ {
			if s.arguments[i].NumOccurrences() != occurrences {
				return validationErrorf(
					"Repeated arguments must have the same num_occurrences: %s",
					s.DebugString("", false))
			}
		}
		if s.NumRepeatedArguments() <= s.NumOptionalArguments() {
			return validationErrorf(
				"The number of repeated arguments (%d) must be greater than the number of optional arguments (%d) for signature: %s",
				s.NumRepeatedArguments(), s.NumOptionalArguments(),
				s.DebugString("", false))
		}
	}

	for i, arg := range s.arguments {
		if arg.IsDescriptor() && arg.Options().DescriptorTableOffset != nil {
			offset := *arg.Options().DescriptorTableOffset
			if offset < 0 || offset >= len(s.arguments) ||
				!s.arguments[offset].IsRelation() {
				return validationErrorf(
					"The table offset argument (%d) of descriptor at argument (%d) should point to a valid table argument for signature: %s",
					offset, i, s.DebugString("", false))
			}
		}
	}
	return nil
}

// ValidateForFunction checks the rules for scalar, aggregate and
// analytic function signatures on top of Validate.
func (s *Signature) ValidateForFunction() error {
	if err := s.Validate(); err != nil {
		return err
	}
	for _, arg := range s.arguments {
		if arg.IsRelation() {
			return validationErrorf(
				"Relation arguments are only allowed in table-valued functions: %s",
				s.DebugString("", false))
		}
	}
	if s.resultType.IsRelation() {
		return validationErrorf(
			"Relation return types are only allowed in table-valued functions: %s",
			s.DebugString("", false))
	}
	if s.resultType.IsVoid() {
		return validationErrorf("Function must have a return type: %s",
			s.DebugString("", false))
	}
	return nil
}

// ValidateForTableValuedFunction checks the rules for TVF signatures on
// top of Validate. Relation arguments must bind positionally, so they
// may not be repeated or follow non-required arguments.
func (s *Signature) ValidateForTableValuedFunction() error {
	if err := s.Validate(); err != nil {
		return err
	}
	seenNonRequired := false
	for _, arg := range s.arguments {
		if arg.IsRelation() {
			if arg.IsRepeated() {
				return validationErrorf("Repeated relation argument is not supported: %s",
					s.DebugString("", false))
			}
			if seenNonRequired {
				return validationErrorf(
					"Relation arguments cannot follow repeated or optional arguments: %s",
					s.DebugString("", false))
			}
			if arg.Options().HasRelationSchema() {
				if name, ok := duplicateColumnName(arg.Options().RelationSchema); ok {
					return validationErrorf(
						"Relation argument input schema has duplicate column name %q: %s",
						name, s.DebugString("", false))
				}
			}
		} else if arg.Options().HasRelationSchema() {
			return internalErrorf("relation input schema on a %s argument: %s",
				arg.Kind().Name(), s.DebugString("", false))
		}
		if !arg.IsRequired() {
			seenNonRequired = true
		}
	}
	if !s.resultType.IsRelation() {
		return validationErrorf(
			"Table-valued functions must have relation return type: %s",
			s.DebugString("", false))
	}
	return nil
}

// duplicateColumnName finds the first column name that repeats
// case-insensitively.
func duplicateColumnName(schema *Relation) (string, bool) {
	seen := make(map[string]bool, schema.NumColumns())
	for _, col := range schema.Columns() {
		lower := strings.ToLower(col.Name)
		if seen[lower] {
			return col.Name, true
		}
		seen[lower] = true
	}
	return "", false
}

// ValidateForProcedure checks the rules for procedure signatures on top
// of Validate.
func (s *Signature) ValidateForProcedure() error {
	if err := s.Validate(); err != nil {
		return err
	}
	for _, arg := range s.arguments {
		if arg.IsRelation() {
			return validationErrorf(
				"Relation arguments are only allowed in table-valued functions: %s",
				s.DebugString("", false))
		}
	}
	if s.resultType.IsRelation() {
		return validationErrorf(
			"Relation return types are only allowed in table-valued functions: %s",
			s.DebugString("", false))
	}
	return nil
}

// HasUnsupportedType reports whether any fixed argument or the fixed
// result uses a type the language options do not support. Templated
// positions carry no type and never count.
func (s *Signature) HasUnsupportedType(opts *types.LanguageOptions) bool {
	if s.resultType.Type() != nil && !s.resultType.Type().IsSupported(opts) {
		return true
	}
	for _, arg := range s.arguments {
		if arg.Type() != nil && !arg.Type().IsSupported(opts) {
			return true
		}
	}
	return false
}

// CheckConstraints runs the options constraint callback against this
// signature. The result is the violation message, or "" when the
// callback is unset or satisfied. Calling it on a non-concrete signature
// is a caller bug.
func (s *Signature) CheckConstraints() (string, error) {
	if s.options.Constraints == nil {
		return "", nil
	}
	if !s.IsConcrete() {
		return "", internalErrorf(
			"signature constraints can only be checked on a concrete signature: %s",
			s.DebugString("", false))
	}
	return s.options.Constraints(s), nil
}

// SetConcreteResultType binds a concrete type to the result with exactly
// one occurrence and refreshes the concreteness flag. This is the only
// permitted post-construction mutation.
func (s *Signature) SetConcreteResultType(t types.Type) {
	s.resultType = NewFixedArgument(t).WithOccurrences(1)
	s.isConcrete = s.computeIsConcrete()
}

// DebugString renders the signature for diagnostics, e.g.
// "f(INT64, repeated <T1>) -> BOOL". verbose adds options annotations
// and deprecation warnings.
func (s *Signature) DebugString(functionName string, verbose bool) string {
	var sb strings.Builder
	sb.WriteString(functionName)
	sb.WriteString("(")
	for i, arg := range s.arguments {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(arg.DebugString(verbose))
	}
	sb.WriteString(") -> ")
	sb.WriteString(s.resultType.DebugString(verbose))
	if verbose && len(s.options.AdditionalDeprecationWarnings) > 0 {
		n := len(s.options.AdditionalDeprecationWarnings)
		plural := "s"
		if n == 1 {
			plural = ""
		}
		fmt.Fprintf(&sb, " (%d deprecation warning%s)", n, plural)
	}
	return sb.String()
}

// SignaturesToString renders one signature per line, indented, for
// multi-signature diagnostics.
func SignaturesToString(signatures []*Signature, verbose bool) string {
	var sb strings.Builder
	for i, sig := range signatures {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("  ")
		sb.WriteString(sig.DebugString("", verbose))
	}
	return sb.String()
}

// SQLDeclaration renders the signature's argument list and result as
// displayable SQL. argumentNames supplies names positionally and may be
// shorter than the argument list. The RETURNS clause is omitted for
// void, arbitrary and schema-less relation results.
func (s *Signature) SQLDeclaration(argumentNames []string, mode types.ProductMode) string {
	var sb strings.Builder
	sb.WriteString("(")
	for i, arg := range s.arguments {
		if i > 0 {
			sb.WriteString(", ")
		}
		if m := arg.Options().ProcedureMode; m != ModeNotSet {
			sb.WriteString(m.String())
			sb.WriteString(" ")
		}
		if i < len(argumentNames) && argumentNames[i] != "" {
			sb.WriteString(IdentifierLiteral(argumentNames[i]))
			sb.WriteString(" ")
		}
		sb.WriteString(arg.SQLDeclaration(mode))
	}
	sb.WriteString(")")
	if !s.resultType.IsVoid() && s.resultType.Kind() != KindArbitrary &&
		!(s.resultType.IsRelation() && !s.resultType.Options().HasRelationSchema()) {
		sb.WriteString(" RETURNS ")
		sb.WriteString(s.resultType.SQLDeclaration(mode))
	}
	return sb.String()
}

// ArgumentNames collects the declared argument names, positionally, for
// use with SQLDeclaration. Nil when no argument is named.
func (s *Signature) ArgumentNames() []string {
	names := make([]string, len(s.arguments))
	found := false
	for i, arg := range s.arguments {
		names[i] = arg.Options().ArgumentName
		if names[i] != "" {
			found = true
		}
	}
	if !found {
		return nil
	}
	return names
}

// IdentifierLiteral backquotes names that are not plain identifiers.
func IdentifierLiteral(name string) string {
	plain := name != ""
	for i, r := range name {
		switch {
		case r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
		case r >= '0' && r <= '9':
			if i == 0 {
				plain = false
			}
		default:
			plain = false
		}
	}
	if plain {
		return name
	}
	return "`" + strings.ReplaceAll(name, "`", "\\`") + "`"
}
