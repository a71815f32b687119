package signature

import (
	"strings"

	"github.com/funvibe/funsql/internal/types"
)

// RelationColumn is one column of a relation schema. Pseudo columns are
// implementation columns that exist on the relation but have no SQL
// declaration surface.
type RelationColumn struct {
	Name           string
	Type           types.Type
	IsPseudoColumn bool
}

// Relation is the schema of a table argument or table result: an ordered
// column list, or a value table producing one unnamed value per row.
type Relation struct {
	columns      []RelationColumn
	isValueTable bool
}

// NewRelation builds a relation schema from the given columns. The slice
// is copied.
func NewRelation(columns []RelationColumn) *Relation {
	copied := make([]RelationColumn, len(columns))
	copy(copied, columns)
	return &Relation{columns: copied}
}

// NewValueTableRelation builds a value-table schema carrying a single
// unnamed column of the given type.
func NewValueTableRelation(t types.Type) *Relation {
	return &Relation{
		columns:      []RelationColumn{{Type: t}},
		isValueTable: true,
	}
}

func (r *Relation) IsValueTable() bool { return r.isValueTable }

func (r *Relation) NumColumns() int             { return len(r.columns) }
func (r *Relation) Column(i int) RelationColumn { return r.columns[i] }
func (r *Relation) Columns() []RelationColumn   { return r.columns }

func (r *Relation) Equals(other *Relation) bool {
	if other == nil || r.isValueTable != other.isValueTable ||
		len(r.columns) != len(other.columns) {
		return false
	}
	for i, col := range r.columns {
		o := other.columns[i]
		if col.Name != o.Name || col.IsPseudoColumn != o.IsPseudoColumn ||
			!col.Type.Equals(o.Type) {
			return false
		}
	}
	return true
}

// DebugString renders the schema with internal-mode type names,
// e.g. TABLE<a INT64, b STRING>.
func (r *Relation) DebugString() string {
	if r.isValueTable {
		return "TABLE<" + r.columns[0].Type.DebugString() + ">"
	}
	var parts []string
	for _, col := range r.columns {
		parts = append(parts, col.Name+" "+col.Type.DebugString())
	}
	return "TABLE<" + strings.Join(parts, ", ") + ">"
}

// SQLDeclaration renders the schema as SQL. Pseudo columns are omitted.
func (r *Relation) SQLDeclaration(mode types.ProductMode) string {
	if r.isValueTable {
		return "TABLE<" + r.columns[0].Type.TypeName(mode) + ">"
	}
	var parts []string
	for _, col := range r.columns {
		if col.IsPseudoColumn {
			continue
		}
		parts = append(parts, col.Name+" "+col.Type.TypeName(mode))
	}
	return "TABLE<" + strings.Join(parts, ", ") + ">"
}
