package function

import (
	"strings"

	"github.com/funvibe/funsql/internal/signature"
	"github.com/funvibe/funsql/internal/types"
)

// TableValuedFunction is a named function returning a relation. Unlike
// Function it carries exactly one signature.
type TableValuedFunction struct {
	namePath []string
	sig      *signature.Signature
}

// NewTableValuedFunction builds a TVF, checking the signature in the
// table-valued context.
func NewTableValuedFunction(namePath []string, sig *signature.Signature) (*TableValuedFunction, error) {
	if len(namePath) == 0 {
		return nil, signature.NewValidationError("Table-valued function must have a name")
	}
	if err := sig.ValidateForTableValuedFunction(); err != nil {
		return nil, err
	}
	return &TableValuedFunction{
		namePath: append([]string(nil), namePath...),
		sig:      sig,
	}, nil
}

func (t *TableValuedFunction) NamePath() []string              { return t.namePath }
func (t *TableValuedFunction) Signature() *signature.Signature { return t.sig }

// FullName joins the name path with dots.
func (t *TableValuedFunction) FullName() string {
	return strings.Join(t.namePath, ".")
}

func (t *TableValuedFunction) DebugString() string {
	return t.sig.DebugString(t.FullName(), false)
}

// SQLDeclaration renders a CREATE TABLE FUNCTION statement.
func (t *TableValuedFunction) SQLDeclaration(argumentNames []string, mode types.ProductMode) string {
	return "CREATE TABLE FUNCTION " + identifierPath(t.namePath) +
		t.sig.SQLDeclaration(argumentNames, mode)
}

func identifierPath(path []string) string {
	parts := make([]string, 0, len(path))
	for _, p := range path {
		parts = append(parts, signature.IdentifierLiteral(p))
	}
	return strings.Join(parts, ".")
}
