package signature

import (
	"errors"
	"strings"
	"testing"

	"github.com/funvibe/funsql/internal/types"
)

func concreteTypeNames(sig *Signature) string {
	var names []string
	for _, arg := range sig.ConcreteArguments() {
		names = append(names, arg.Type().DebugString())
	}
	return strings.Join(names, " ")
}

func TestSignatureDerivedCounts(t *testing.T) {
	tests := []struct {
		name         string
		args         []ArgumentType
		wantRequired int
		wantRepeated int
		wantOptional int
	}{
		{
			"required only",
			[]ArgumentType{
				NewFixedArgument(types.Int64Type()),
				NewFixedArgument(types.StringType()),
			},
			2, 0, 0,
		},
		{
			"repeated block in the middle",
			[]ArgumentType{
				NewFixedArgument(types.Int64Type()),
				NewFixedArgumentWithCardinality(types.StringType(), Repeated),
				NewFixedArgumentWithCardinality(types.BoolType(), Repeated),
				NewFixedArgument(types.DoubleType()),
			},
			2, 2, 0,
		},
		{
			"trailing optionals",
			[]ArgumentType{
				NewFixedArgument(types.Int64Type()),
				NewFixedArgumentWithCardinality(types.StringType(), Optional),
				NewFixedArgumentWithCardinality(types.BoolType(), Optional),
			},
			1, 0, 2,
		},
		{
			// Only the trailing run counts as the optional suffix.
			"optional before a required argument",
			[]ArgumentType{
				NewFixedArgumentWithCardinality(types.StringType(), Optional),
				NewFixedArgument(types.Int64Type()),
			},
			2, 0, 0,
		},
		{
			"repeated then optional",
			[]ArgumentType{
				NewFixedArgumentWithCardinality(types.StringType(), Repeated),
				NewFixedArgumentWithCardinality(types.BoolType(), Optional),
			},
			0, 1, 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig := NewSignature(NewFixedArgument(types.BoolType()), tt.args, 0)
			if got := sig.NumRequiredArguments(); got != tt.wantRequired {
				t.Errorf("NumRequiredArguments = %d, want %d", got, tt.wantRequired)
			}
			if got := sig.NumRepeatedArguments(); got != tt.wantRepeated {
				t.Errorf("NumRepeatedArguments = %d, want %d", got, tt.wantRepeated)
			}
			if got := sig.NumOptionalArguments(); got != tt.wantOptional {
				t.Errorf("NumOptionalArguments = %d, want %d", got, tt.wantOptional)
			}
		})
	}
}

func TestSignatureCopiesArguments(t *testing.T) {
	args := []ArgumentType{NewFixedArgument(types.Int64Type())}
	sig := NewSignature(NewFixedArgument(types.BoolType()), args, 7)
	args[0] = NewArgument(KindAny1)
	if sig.Argument(0).Kind() != KindFixed {
		t.Errorf("NewSignature should copy the argument slice")
	}
	if sig.ContextID() != 7 {
		t.Errorf("ContextID = %d, want 7", sig.ContextID())
	}
}

func TestConcreteArgumentExpansion(t *testing.T) {
	// Two required arguments and a repeated one bound four times expand
	// to six concrete arguments.
	sig := NewSignature(
		NewFixedArgument(types.BoolType()).WithOccurrences(1),
		[]ArgumentType{
			NewFixedArgument(types.StringType()).WithOccurrences(1),
			NewFixedArgument(types.BoolType()).WithOccurrences(1),
			NewFixedArgumentWithCardinality(types.Int64Type(), Repeated).WithOccurrences(4),
		},
		0,
	)
	if !sig.IsConcrete() {
		t.Fatalf("signature should be concrete")
	}
	if got := sig.NumConcreteArguments(); got != 6 {
		t.Fatalf("NumConcreteArguments = %d, want 6", got)
	}
	want := "STRING BOOL INT64 INT64 INT64 INT64"
	if got := concreteTypeNames(sig); got != want {
		t.Errorf("concrete arguments = %s, want %s", got, want)
	}
}

func TestConcreteArgumentExpansionInterleavesTheBlock(t *testing.T) {
	// The whole repeated block repeats as a unit, and omitted optionals
	// are dropped.
	sig := NewSignature(
		NewFixedArgument(types.BoolType()).WithOccurrences(1),
		[]ArgumentType{
			NewFixedArgument(types.StringType()).WithOccurrences(1),
			NewFixedArgumentWithCardinality(types.Int64Type(), Repeated).WithOccurrences(2),
			NewFixedArgumentWithCardinality(types.BoolType(), Repeated).WithOccurrences(2),
			NewFixedArgumentWithCardinality(types.DoubleType(), Optional).WithOccurrences(0),
		},
		0,
	)
	want := "STRING INT64 BOOL INT64 BOOL"
	if got := concreteTypeNames(sig); got != want {
		t.Errorf("concrete arguments = %s, want %s", got, want)
	}
}

func TestConcreteArgumentExpansionWithEmptyBlock(t *testing.T) {
	sig := NewSignature(
		NewFixedArgument(types.BoolType()).WithOccurrences(1),
		[]ArgumentType{
			NewFixedArgument(types.StringType()).WithOccurrences(1),
			NewFixedArgumentWithCardinality(types.Int64Type(), Repeated).WithOccurrences(0),
			NewFixedArgument(types.BoolType()).WithOccurrences(1),
		},
		0,
	)
	if got := concreteTypeNames(sig); got != "STRING BOOL" {
		t.Errorf("concrete arguments = %s, want STRING BOOL", got)
	}
}

func TestHasConcreteArguments(t *testing.T) {
	tests := []struct {
		name string
		sig  *Signature
		want bool
	}{
		{
			// Unbound arguments are skipped, not rejected.
			"unbound signature",
			NewSignature(NewArgument(KindAny1),
				[]ArgumentType{NewArgument(KindAny1)}, 0),
			true,
		},
		{
			"bound fixed arguments",
			NewSignature(NewFixedArgument(types.BoolType()),
				[]ArgumentType{NewFixedArgument(types.Int64Type()).WithOccurrences(1)}, 0),
			true,
		},
		{
			"bound templated argument",
			NewSignature(NewFixedArgument(types.BoolType()),
				[]ArgumentType{NewArgument(KindAny1).WithOccurrences(1)}, 0),
			false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sig.HasConcreteArguments(); got != tt.want {
				t.Errorf("HasConcreteArguments = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsConcreteDependsOnResult(t *testing.T) {
	boundArgs := []ArgumentType{NewFixedArgument(types.Int64Type()).WithOccurrences(1)}

	unboundResult := NewSignature(NewFixedArgument(types.BoolType()), boundArgs, 0)
	if unboundResult.IsConcrete() {
		t.Errorf("signature with an unbound result should not be concrete")
	}

	bound := NewSignature(NewFixedArgument(types.BoolType()).WithOccurrences(1), boundArgs, 0)
	if !bound.IsConcrete() {
		t.Errorf("signature with bound arguments and result should be concrete")
	}

	// A relation result is concrete as soon as the arguments are.
	relation := NewSignature(NewArgument(KindRelation), boundArgs, 0)
	if !relation.IsConcrete() {
		t.Errorf("signature with a relation result should be concrete")
	}

	templated := NewSignature(NewArgument(KindAny1), boundArgs, 0)
	if templated.IsConcrete() {
		t.Errorf("signature with a templated result should not be concrete")
	}
}

func TestSignatureValidate(t *testing.T) {
	schema := NewRelation([]RelationColumn{{Name: "a", Type: types.Int64Type()}})
	lambdaArray, err := NewLambdaArgument(
		[]ArgumentType{NewArgument(KindArrayAny1)},
		NewFixedArgument(types.BoolType()))
	if err != nil {
		t.Fatalf("NewLambdaArgument: %v", err)
	}
	lambdaFixed, err := NewLambdaArgument(
		[]ArgumentType{NewFixedArgument(types.Int64Type())},
		NewFixedArgument(types.BoolType()))
	if err != nil {
		t.Fatalf("NewLambdaArgument: %v", err)
	}
	offsetZero, offsetOne, offsetFive := 0, 1, 5
	descriptorAt := func(offset *int) ArgumentType {
		return NewArgumentWithOptions(KindDescriptor,
			&ArgumentOptions{Cardinality: Required, DescriptorTableOffset: offset})
	}

	tests := []struct {
		name    string
		sig     *Signature
		wantErr string
	}{
		{
			"plain scalar signature",
			NewSignature(NewFixedArgument(types.BoolType()),
				[]ArgumentType{NewFixedArgument(types.Int64Type())}, 0),
			"",
		},
		{
			"repeated result",
			NewSignature(NewFixedArgumentWithCardinality(types.Int64Type(), Repeated),
				nil, 0),
			"Result type cannot be repeated or optional",
		},
		{
			"optional result",
			NewSignature(NewFixedArgumentWithCardinality(types.Int64Type(), Optional),
				nil, 0),
			"Result type cannot be repeated or optional",
		},
		{
			"unrelated templated result",
			NewSignature(NewArgument(KindAny2),
				[]ArgumentType{NewArgument(KindAny1)}, 0),
			"Result type template must match an argument type template",
		},
		{
			"result related through an array",
			NewSignature(NewArgument(KindAny1),
				[]ArgumentType{NewArgument(KindArrayAny1)}, 0),
			"",
		},
		{
			"arbitrary result needs no argument",
			NewSignature(NewArgument(KindArbitrary), nil, 0),
			"",
		},
		{
			"relation result needs no argument",
			NewSignature(NewArgument(KindRelation), nil, 0),
			"",
		},
		{
			"void argument",
			NewSignature(NewFixedArgument(types.BoolType()),
				[]ArgumentType{NewArgument(KindVoid)}, 0),
			"Arguments cannot have type VOID",
		},
		{
			"optional before required",
			NewSignature(NewFixedArgument(types.BoolType()),
				[]ArgumentType{
					NewFixedArgumentWithCardinality(types.Int64Type(), Optional),
					NewFixedArgument(types.StringType()),
				}, 0),
			"Optional arguments must be at the end of the argument list",
		},
		{
			"split repeated block",
			NewSignature(NewFixedArgument(types.BoolType()),
				[]ArgumentType{
					NewFixedArgumentWithCardinality(types.Int64Type(), Repeated),
					NewFixedArgument(types.StringType()),
					NewFixedArgumentWithCardinality(types.DoubleType(), Repeated),
				}, 0),
			"Repeated arguments must be consecutive",
		},
		{
			"repeated block with uneven occurrences",
			NewSignature(NewFixedArgument(types.BoolType()),
				[]ArgumentType{
					NewFixedArgumentWithCardinality(types.Int64Type(), Repeated).WithOccurrences(2),
					NewFixedArgumentWithCardinality(types.StringType(), Repeated).WithOccurrences(3),
				}, 0),
			"Repeated arguments must have the same num_occurrences",
		},
		{
			"as many optionals as repeateds",
			NewSignature(NewFixedArgument(types.BoolType()),
				[]ArgumentType{
					NewFixedArgumentWithCardinality(types.Int64Type(), Repeated),
					NewFixedArgumentWithCardinality(types.StringType(), Optional),
				}, 0),
			"must be greater than the number of optional arguments",
		},
		{
			"more repeateds than optionals",
			NewSignature(NewFixedArgument(types.BoolType()),
				[]ArgumentType{
					NewFixedArgumentWithCardinality(types.Int64Type(), Repeated),
					NewFixedArgumentWithCardinality(types.StringType(), Repeated),
					NewFixedArgumentWithCardinality(types.DoubleType(), Optional),
				}, 0),
			"",
		},
		{
			"lambda resolvable from an earlier repeated argument",
			NewSignature(NewFixedArgument(types.BoolType()),
				[]ArgumentType{
					NewArgumentWithCardinality(KindAny1, Repeated),
					lambdaArray,
				}, 0),
			"",
		},
		{
			"lambda with an unrelated earlier argument",
			NewSignature(NewFixedArgument(types.BoolType()),
				[]ArgumentType{NewArgument(KindAny2), lambdaArray}, 0),
			"Templated argument of lambda argument type must match an argument type before the lambda argument",
		},
		{
			"templated lambda with nothing before it",
			NewSignature(NewFixedArgument(types.BoolType()),
				[]ArgumentType{lambdaArray}, 0),
			"Templated argument of lambda argument type must match an argument type before the lambda argument",
		},
		{
			"fixed lambda needs nothing before it",
			NewSignature(NewFixedArgument(types.BoolType()),
				[]ArgumentType{lambdaFixed}, 0),
			"",
		},
		{
			"descriptor pointing at a relation",
			NewSignature(NewFixedArgument(types.BoolType()),
				[]ArgumentType{
					NewRelationArgument(schema, false),
					descriptorAt(&offsetZero),
				}, 0),
			"",
		},
		{
			"descriptor pointing at itself",
			NewSignature(NewFixedArgument(types.BoolType()),
				[]ArgumentType{
					NewRelationArgument(schema, false),
					descriptorAt(&offsetOne),
				}, 0),
			"The table offset argument (1) of descriptor at argument (1) should point to a valid table argument",
		},
		{
			"descriptor pointing out of range",
			NewSignature(NewFixedArgument(types.BoolType()),
				[]ArgumentType{
					NewRelationArgument(schema, false),
					descriptorAt(&offsetFive),
				}, 0),
			"The table offset argument (5) of descriptor at argument (1) should point to a valid table argument",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sig.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate should fail with %q", tt.wantErr)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Errorf("error = %v, want ValidationError", err)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %q, want it to contain %q", err.Error(), tt.wantErr)
			}
		})
	}
}

func TestValidateForFunction(t *testing.T) {
	tests := []struct {
		name    string
		sig     *Signature
		wantErr string
	}{
		{
			"scalar function",
			NewSignature(NewFixedArgument(types.BoolType()),
				[]ArgumentType{NewFixedArgument(types.Int64Type())}, 0),
			"",
		},
		{
			"relation argument",
			NewSignature(NewFixedArgument(types.BoolType()),
				[]ArgumentType{NewArgument(KindRelation)}, 0),
			"Relation arguments are only allowed in table-valued functions",
		},
		{
			"relation result",
			NewSignature(NewArgument(KindRelation),
				[]ArgumentType{NewFixedArgument(types.Int64Type())}, 0),
			"Relation return types are only allowed in table-valued functions",
		},
		{
			"void result",
			NewSignature(NewArgument(KindVoid),
				[]ArgumentType{NewFixedArgument(types.Int64Type())}, 0),
			"Function must have a return type",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sig.ValidateForFunction()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateForFunction: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestValidateForTableValuedFunction(t *testing.T) {
	schema := NewRelation([]RelationColumn{{Name: "a", Type: types.Int64Type()}})
	duplicated := NewRelation([]RelationColumn{
		{Name: "a", Type: types.Int64Type()},
		{Name: "A", Type: types.StringType()},
	})

	tests := []struct {
		name    string
		sig     *Signature
		wantErr string
	}{
		{
			"scalar and relation arguments",
			NewSignature(NewArgument(KindRelation),
				[]ArgumentType{
					NewFixedArgument(types.Int64Type()),
					NewRelationArgument(schema, false),
				}, 0),
			"",
		},
		{
			"non-relation result",
			NewSignature(NewFixedArgument(types.BoolType()),
				[]ArgumentType{NewArgument(KindRelation)}, 0),
			"Table-valued functions must have relation return type",
		},
		{
			"repeated relation argument",
			NewSignature(NewArgument(KindRelation),
				[]ArgumentType{NewArgumentWithCardinality(KindRelation, Repeated)}, 0),
			"Repeated relation argument is not supported",
		},
		{
			"relation after an optional argument",
			NewSignature(NewArgument(KindRelation),
				[]ArgumentType{
					NewFixedArgumentWithCardinality(types.Int64Type(), Optional),
					NewArgumentWithCardinality(KindRelation, Optional),
				}, 0),
			"Relation arguments cannot follow repeated or optional arguments",
		},
		{
			"duplicate schema columns",
			NewSignature(NewArgument(KindRelation),
				[]ArgumentType{NewRelationArgument(duplicated, false)}, 0),
			`duplicate column name "A"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.sig.ValidateForTableValuedFunction()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateForTableValuedFunction: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want it to contain %q", err, tt.wantErr)
			}
		})
	}
}

func TestTableValuedFunctionRejectsSchemaOnNonRelation(t *testing.T) {
	schema := NewRelation([]RelationColumn{{Name: "a", Type: types.Int64Type()}})
	sig := NewSignature(NewArgument(KindRelation),
		[]ArgumentType{NewArgumentWithOptions(KindModel,
			&ArgumentOptions{Cardinality: Required, RelationSchema: schema})}, 0)
	err := sig.ValidateForTableValuedFunction()
	if err == nil {
		t.Fatalf("ValidateForTableValuedFunction should fail")
	}
	var ierr *InternalError
	if !errors.As(err, &ierr) {
		t.Errorf("error = %v, want InternalError", err)
	}
}

func TestValidateForProcedure(t *testing.T) {
	ok := NewSignature(NewArgument(KindVoid),
		[]ArgumentType{NewFixedArgument(types.Int64Type())}, 0)
	if err := ok.ValidateForProcedure(); err != nil {
		t.Fatalf("ValidateForProcedure: %v", err)
	}

	withRelation := NewSignature(NewArgument(KindVoid),
		[]ArgumentType{NewArgument(KindRelation)}, 0)
	err := withRelation.ValidateForProcedure()
	if err == nil || !strings.Contains(err.Error(),
		"Relation arguments are only allowed in table-valued functions") {
		t.Errorf("error = %v, want relation argument rejection", err)
	}
}

func TestSetConcreteResultType(t *testing.T) {
	sig := NewSignature(NewArgument(KindAny1),
		[]ArgumentType{NewFixedArgument(types.Int64Type()).WithOccurrences(1)}, 0)
	if sig.IsConcrete() {
		t.Fatalf("signature with templated result should not start concrete")
	}
	sig.SetConcreteResultType(types.StringType())
	if !sig.IsConcrete() {
		t.Errorf("signature should be concrete after binding the result")
	}
	result := sig.ResultType()
	if result.Kind() != KindFixed || !result.Type().Equals(types.StringType()) {
		t.Errorf("result = %s, want fixed STRING", result.DebugString(false))
	}
	if result.NumOccurrences() != 1 {
		t.Errorf("result NumOccurrences = %d, want 1", result.NumOccurrences())
	}
}

func TestCheckConstraints(t *testing.T) {
	boundArgs := []ArgumentType{NewFixedArgument(types.Int64Type()).WithOccurrences(1)}
	boundResult := NewFixedArgument(types.BoolType()).WithOccurrences(1)

	none := NewSignature(boundResult, boundArgs, 0)
	if msg, err := none.CheckConstraints(); msg != "" || err != nil {
		t.Errorf("CheckConstraints without a callback = %q, %v, want \"\", nil", msg, err)
	}

	reject := NewSignatureWithOptions(boundResult, boundArgs, 0, SignatureOptions{
		Constraints: func(sig *Signature) string {
			if sig.ConcreteArgument(0).Type().Equals(types.Int64Type()) {
				return "INT64 arguments are not allowed here"
			}
			return ""
		},
	})
	msg, err := reject.CheckConstraints()
	if err != nil {
		t.Fatalf("CheckConstraints: %v", err)
	}
	if msg != "INT64 arguments are not allowed here" {
		t.Errorf("violation = %q, want the callback message", msg)
	}

	unbound := NewSignatureWithOptions(NewFixedArgument(types.BoolType()),
		[]ArgumentType{NewFixedArgument(types.Int64Type())}, 0, SignatureOptions{
			Constraints: func(sig *Signature) string { return "" },
		})
	if _, err := unbound.CheckConstraints(); err == nil {
		t.Fatalf("CheckConstraints on a non-concrete signature should fail")
	} else {
		var ierr *InternalError
		if !errors.As(err, &ierr) {
			t.Errorf("error = %v, want InternalError", err)
		}
	}
}

func TestCheckRequiredFeatures(t *testing.T) {
	opts := SignatureOptions{
		RequiredLanguageFeatures: []types.LanguageFeature{types.FeatureNamedArguments},
	}
	if opts.CheckRequiredFeatures(types.NewLanguageOptions(types.ProductInternal)) {
		t.Errorf("missing feature should fail the check")
	}
	if !opts.CheckRequiredFeatures(types.NewLanguageOptions(types.ProductInternal,
		types.FeatureNamedArguments)) {
		t.Errorf("enabled feature should pass the check")
	}
	// Nil language options enable everything.
	if !opts.CheckRequiredFeatures(nil) {
		t.Errorf("nil options should pass the check")
	}
}

func TestHasUnsupportedType(t *testing.T) {
	external := types.NewLanguageOptions(types.ProductExternal)

	sig := NewSignature(NewFixedArgument(types.Int64Type()),
		[]ArgumentType{NewFixedArgument(types.Int32Type())}, 0)
	if !sig.HasUnsupportedType(external) {
		t.Errorf("INT32 argument should be unsupported in external mode")
	}
	if sig.HasUnsupportedType(nil) {
		t.Errorf("nil options should support everything")
	}

	badResult := NewSignature(NewFixedArgument(types.Int32Type()),
		[]ArgumentType{NewFixedArgument(types.Int64Type())}, 0)
	if !badResult.HasUnsupportedType(external) {
		t.Errorf("INT32 result should be unsupported in external mode")
	}

	templated := NewSignature(NewArgument(KindAny1),
		[]ArgumentType{NewArgument(KindAny1)}, 0)
	if templated.HasUnsupportedType(external) {
		t.Errorf("templated positions carry no type to reject")
	}
}

func TestSignatureDebugString(t *testing.T) {
	sig := NewSignature(NewFixedArgument(types.BoolType()),
		[]ArgumentType{
			NewFixedArgument(types.Int64Type()),
			NewArgumentWithCardinality(KindAny1, Repeated),
		}, 0)
	if got := sig.DebugString("f", false); got != "f(INT64, repeated <T1>) -> BOOL" {
		t.Errorf("DebugString = %q, want %q", got, "f(INT64, repeated <T1>) -> BOOL")
	}
	if got := sig.DebugString("", false); got != "(INT64, repeated <T1>) -> BOOL" {
		t.Errorf("anonymous DebugString = %q", got)
	}
}

func TestSignatureDebugStringDeprecationWarnings(t *testing.T) {
	one := NewSignatureWithOptions(NewFixedArgument(types.BoolType()), nil, 0,
		SignatureOptions{AdditionalDeprecationWarnings: []string{"w"}})
	if got := one.DebugString("f", true); got != "f() -> BOOL (1 deprecation warning)" {
		t.Errorf("DebugString = %q, want singular warning note", got)
	}
	two := NewSignatureWithOptions(NewFixedArgument(types.BoolType()), nil, 0,
		SignatureOptions{AdditionalDeprecationWarnings: []string{"w1", "w2"}})
	if got := two.DebugString("f", true); got != "f() -> BOOL (2 deprecation warnings)" {
		t.Errorf("DebugString = %q, want plural warning note", got)
	}
	// The note is verbose-only.
	if got := two.DebugString("f", false); got != "f() -> BOOL" {
		t.Errorf("non-verbose DebugString = %q, want %q", got, "f() -> BOOL")
	}
}

func TestSignaturesToString(t *testing.T) {
	sigs := []*Signature{
		NewSignature(NewFixedArgument(types.BoolType()),
			[]ArgumentType{NewFixedArgument(types.Int64Type())}, 0),
		NewSignature(NewFixedArgument(types.BoolType()),
			[]ArgumentType{NewFixedArgument(types.StringType())}, 0),
	}
	want := "  (INT64) -> BOOL\n  (STRING) -> BOOL"
	if got := SignaturesToString(sigs, false); got != want {
		t.Errorf("SignaturesToString = %q, want %q", got, want)
	}
	if got := SignaturesToString(nil, false); got != "" {
		t.Errorf("empty SignaturesToString = %q, want \"\"", got)
	}
}

func TestSignatureSQLDeclaration(t *testing.T) {
	schema := NewRelation([]RelationColumn{{Name: "a", Type: types.Int64Type()}})

	tests := []struct {
		name  string
		sig   *Signature
		names []string
		mode  types.ProductMode
		want  string
	}{
		{
			"named arguments",
			NewSignature(NewFixedArgument(types.BoolType()),
				[]ArgumentType{
					NewFixedArgument(types.Int64Type()),
					NewFixedArgument(types.StringType()),
				}, 0),
			[]string{"a", "b"},
			types.ProductInternal,
			"(a INT64, b STRING) RETURNS BOOL",
		},
		{
			"missing names fall back to positions",
			NewSignature(NewFixedArgument(types.BoolType()),
				[]ArgumentType{
					NewFixedArgument(types.Int64Type()),
					NewFixedArgument(types.StringType()),
				}, 0),
			[]string{"a"},
			types.ProductInternal,
			"(a INT64, STRING) RETURNS BOOL",
		},
		{
			"non-identifier names are quoted",
			NewSignature(NewFixedArgument(types.BoolType()),
				[]ArgumentType{NewFixedArgument(types.Int64Type())}, 0),
			[]string{"my col"},
			types.ProductInternal,
			"(`my col` INT64) RETURNS BOOL",
		},
		{
			"procedure modes prefix the arguments",
			NewSignature(NewArgument(KindVoid),
				[]ArgumentType{
					NewFixedArgumentWithOptions(types.Int64Type(),
						&ArgumentOptions{Cardinality: Required, ProcedureMode: ModeIn}),
					NewFixedArgumentWithOptions(types.StringType(),
						&ArgumentOptions{Cardinality: Required, ProcedureMode: ModeOut}),
				}, 0),
			[]string{"x", "y"},
			types.ProductInternal,
			"(IN x INT64, OUT y STRING)",
		},
		{
			"arbitrary result has no RETURNS clause",
			NewSignature(NewArgument(KindArbitrary),
				[]ArgumentType{NewFixedArgument(types.Int64Type())}, 0),
			nil,
			types.ProductInternal,
			"(INT64)",
		},
		{
			"schema-less relation result has no RETURNS clause",
			NewSignature(NewArgument(KindRelation),
				[]ArgumentType{NewFixedArgument(types.Int64Type())}, 0),
			nil,
			types.ProductInternal,
			"(INT64)",
		},
		{
			"relation result with a schema keeps it",
			NewSignature(NewRelationArgument(schema, false),
				[]ArgumentType{NewFixedArgument(types.Int64Type())}, 0),
			nil,
			types.ProductInternal,
			"(INT64) RETURNS TABLE<a INT64>",
		},
		{
			"external mode renames DOUBLE",
			NewSignature(NewFixedArgument(types.DoubleType()),
				[]ArgumentType{NewFixedArgument(types.DoubleType())}, 0),
			nil,
			types.ProductExternal,
			"(FLOAT64) RETURNS FLOAT64",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sig.SQLDeclaration(tt.names, tt.mode); got != tt.want {
				t.Errorf("SQLDeclaration = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestArgumentNames(t *testing.T) {
	named := NewSignature(NewFixedArgument(types.BoolType()),
		[]ArgumentType{
			NewFixedArgumentWithOptions(types.Int64Type(),
				&ArgumentOptions{Cardinality: Required, ArgumentName: "x"}),
			NewFixedArgument(types.StringType()),
		}, 0)
	if got := named.ArgumentNames(); len(got) != 2 || got[0] != "x" || got[1] != "" {
		t.Errorf("ArgumentNames() = %v, want [x ]", got)
	}

	unnamed := NewSignature(NewFixedArgument(types.BoolType()),
		[]ArgumentType{NewFixedArgument(types.Int64Type())}, 0)
	if got := unnamed.ArgumentNames(); got != nil {
		t.Errorf("ArgumentNames() = %v, want nil", got)
	}
}

func TestIdentifierLiteral(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"with_underscore", "with_underscore"},
		{"x9", "x9"},
		{"9x", "`9x`"},
		{"has space", "`has space`"},
		{"", "``"},
		{"back`tick", "`back\\`tick`"},
	}
	for _, tt := range tests {
		if got := IdentifierLiteral(tt.in); got != tt.want {
			t.Errorf("IdentifierLiteral(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsDeprecated(t *testing.T) {
	plain := NewSignature(NewFixedArgument(types.BoolType()), nil, 0)
	if plain.IsDeprecated() {
		t.Errorf("fresh signature should not be deprecated")
	}
	deprecated := NewSignatureWithOptions(NewFixedArgument(types.BoolType()), nil, 0,
		SignatureOptions{IsDeprecated: true})
	if !deprecated.IsDeprecated() {
		t.Errorf("IsDeprecated = false, want true")
	}
}
