package function

import (
	"strings"

	"github.com/funvibe/funsql/internal/signature"
	"github.com/funvibe/funsql/internal/types"
)

// Procedure is a named statement invoked through CALL. It carries
// exactly one signature whose arguments may declare IN/OUT/INOUT modes.
type Procedure struct {
	namePath []string
	sig      *signature.Signature
}

// NewProcedure builds a procedure, checking the signature in the
// procedure context.
func NewProcedure(namePath []string, sig *signature.Signature) (*Procedure, error) {
	if len(namePath) == 0 {
		return nil, signature.NewValidationError("Procedure must have a name")
	}
	if err := sig.ValidateForProcedure(); err != nil {
		return nil, err
	}
	return &Procedure{
		namePath: append([]string(nil), namePath...),
		sig:      sig,
	}, nil
}

func (p *Procedure) NamePath() []string              { return p.namePath }
func (p *Procedure) Signature() *signature.Signature { return p.sig }

// FullName joins the name path with dots.
func (p *Procedure) FullName() string {
	return strings.Join(p.namePath, ".")
}

func (p *Procedure) DebugString() string {
	return p.sig.DebugString(p.FullName(), false)
}

// SQLDeclaration renders a CREATE PROCEDURE statement.
func (p *Procedure) SQLDeclaration(argumentNames []string, mode types.ProductMode) string {
	return "CREATE PROCEDURE " + identifierPath(p.namePath) +
		p.sig.SQLDeclaration(argumentNames, mode)
}
