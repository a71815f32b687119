// Package function wraps declared signatures in the callable shapes a
// catalog holds: scalar, aggregate and analytic functions, table-valued
// functions and procedures. Each wrapper checks its signatures against
// the rules of its own calling context.
package function

import (
	"fmt"
	"strings"

	"github.com/funvibe/funsql/internal/signature"
	"github.com/funvibe/funsql/internal/types"
)

// Mode states how a function consumes its input rows.
type Mode int

const (
	Scalar Mode = iota
	Aggregate
	Analytic
)

func (m Mode) String() string {
	switch m {
	case Aggregate:
		return "aggregate"
	case Analytic:
		return "analytic"
	}
	return "scalar"
}

// ModeFromName parses "scalar", "aggregate" or "analytic". The empty
// string means scalar.
func ModeFromName(name string) (Mode, bool) {
	switch name {
	case "scalar", "":
		return Scalar, true
	case "aggregate":
		return Aggregate, true
	case "analytic":
		return Analytic, true
	}
	return Scalar, false
}

// Function is a named scalar, aggregate or analytic function with an
// ordered list of signatures.
type Function struct {
	name       string
	group      string
	mode       Mode
	signatures []*signature.Signature
}

// NewFunction builds a function, checking every signature in the
// function context.
func NewFunction(name, group string, mode Mode, signatures ...*signature.Signature) (*Function, error) {
	f := &Function{name: name, group: group, mode: mode}
	for _, sig := range signatures {
		if err := f.AddSignature(sig); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func (f *Function) Name() string  { return f.name }
func (f *Function) Group() string { return f.group }
func (f *Function) Mode() Mode    { return f.mode }

func (f *Function) IsScalar() bool    { return f.mode == Scalar }
func (f *Function) IsAggregate() bool { return f.mode == Aggregate }
func (f *Function) IsAnalytic() bool  { return f.mode == Analytic }

// FullName prefixes the group when asked for and present.
func (f *Function) FullName(includeGroup bool) string {
	if includeGroup && f.group != "" {
		return f.group + ":" + f.name
	}
	return f.name
}

func (f *Function) NumSignatures() int                   { return len(f.signatures) }
func (f *Function) Signatures() []*signature.Signature   { return f.signatures }
func (f *Function) Signature(i int) *signature.Signature { return f.signatures[i] }

// AddSignature appends one signature after validating it for the
// function context.
func (f *Function) AddSignature(sig *signature.Signature) error {
	if err := sig.ValidateForFunction(); err != nil {
		return err
	}
	f.signatures = append(f.signatures, sig)
	return nil
}

// IsOperator reports whether the function surfaces through operator
// syntax instead of a call. Operator names start with "$"; $count_star
// and the $extract family keep the prefix but are calls.
func (f *Function) IsOperator() bool {
	return strings.HasPrefix(f.name, "$") &&
		f.name != "$count_star" &&
		!strings.HasPrefix(f.name, "$extract")
}

// SQLName spells the name the way user-facing messages do: upper case,
// without the operator prefix.
func (f *Function) SQLName() string {
	return strings.ToUpper(strings.TrimPrefix(f.name, "$"))
}

// DebugString renders the full name, and with verbose one signature per
// line beneath it.
func (f *Function) DebugString(verbose bool) string {
	if !verbose || len(f.signatures) == 0 {
		return f.FullName(true)
	}
	return f.FullName(true) + "\n" + signature.SignaturesToString(f.signatures, false)
}

// SupportedSignaturesText lists the callable shapes the way "no
// matching signature" errors print them, e.g. "ABS(INT64); ABS(DOUBLE)".
// Deprecated signatures, aliased signatures, signatures behind disabled
// features and signatures naming types the product mode cannot spell
// are skipped.
func (f *Function) SupportedSignaturesText(opts *types.LanguageOptions) string {
	mode := opts.ProductMode()
	var parts []string
	for _, sig := range f.signatures {
		if sig.IsDeprecated() || sig.Options().IsAliasedSignature ||
			sig.HasUnsupportedType(opts) ||
			!sig.Options().CheckRequiredFeatures(opts) {
			continue
		}
		args := make([]string, 0, sig.NumArguments())
		for _, arg := range sig.Arguments() {
			args = append(args, arg.UserFacingNameWithCardinality(mode))
		}
		parts = append(parts, fmt.Sprintf("%s(%s)", f.SQLName(), strings.Join(args, ", ")))
	}
	return strings.Join(parts, "; ")
}
