package signature

import (
	"testing"

	"github.com/funvibe/funsql/internal/types"
)

func TestSimpleOptionsAreShared(t *testing.T) {
	if SimpleOptions(Required) != SimpleOptions(Required) {
		t.Errorf("SimpleOptions(Required) should return the shared instance")
	}
	if SimpleOptions(Optional) == SimpleOptions(Repeated) {
		t.Errorf("presets for different cardinalities should be distinct")
	}
	if SimpleOptions(Optional).Cardinality != Optional {
		t.Errorf("SimpleOptions(Optional).Cardinality = %v, want Optional",
			SimpleOptions(Optional).Cardinality)
	}
}

func TestIsSimpleRequired(t *testing.T) {
	if !SimpleOptions(Required).isSimpleRequired() {
		t.Errorf("shared Required preset should be simple required")
	}
	// A fresh value with identical contents also counts.
	plain := &ArgumentOptions{Cardinality: Required}
	if !plain.isSimpleRequired() {
		t.Errorf("equivalent fresh options should be simple required")
	}
	if SimpleOptions(Optional).isSimpleRequired() {
		t.Errorf("Optional preset should not be simple required")
	}
	constant := &ArgumentOptions{Cardinality: Required, MustBeConstant: true}
	if constant.isSimpleRequired() {
		t.Errorf("options with extra constraints should not be simple required")
	}
}

func TestOptionsDebugString(t *testing.T) {
	def := types.Int64Value(42)
	tests := []struct {
		name string
		opts ArgumentOptions
		want string
	}{
		{"empty", ArgumentOptions{}, ""},
		{"constant", ArgumentOptions{MustBeConstant: true}, " {must_be_constant: true}"},
		{
			"all set",
			ArgumentOptions{
				MustBeConstant: true,
				MustBeNonNull:  true,
				IsNotAggregate: true,
				ProcedureMode:  ModeInOut,
				Default:        &def,
			},
			" {must_be_constant: true, must_be_non_null: true, default_value: 42, is_not_aggregate: true, procedure_argument_mode: INOUT}",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.opts.DebugString(); got != tt.want {
				t.Errorf("DebugString = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOptionsSQLDeclaration(t *testing.T) {
	def := types.StringValue("x")
	opts := ArgumentOptions{
		MustBeConstant: true,
		MustBeNonNull:  true,
		IsNotAggregate: true,
		Default:        &def,
	}
	want := ` /*must_be_constant*/ /*must_be_non_null*/ DEFAULT "x" NOT AGGREGATE`
	if got := opts.SQLDeclaration(types.ProductInternal); got != want {
		t.Errorf("SQLDeclaration = %q, want %q", got, want)
	}
	if got := (&ArgumentOptions{}).SQLDeclaration(types.ProductInternal); got != "" {
		t.Errorf("empty SQLDeclaration = %q, want \"\"", got)
	}
}

func TestOptionsPredicates(t *testing.T) {
	def := types.BoolValue(true)
	opts := ArgumentOptions{ArgumentName: "x", Default: &def}
	if !opts.HasDefault() || !opts.HasArgumentName() || opts.HasRelationSchema() {
		t.Errorf("predicates = %v, %v, %v, want true, true, false",
			opts.HasDefault(), opts.HasArgumentName(), opts.HasRelationSchema())
	}
	schema := NewRelation([]RelationColumn{{Name: "c", Type: types.Int64Type()}})
	withSchema := ArgumentOptions{RelationSchema: schema}
	if !withSchema.HasRelationSchema() {
		t.Errorf("HasRelationSchema = false, want true")
	}
}
