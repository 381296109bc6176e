package store

import (
	"net/url"
	"strings"

	"github.com/google/uuid"
)

type FilterOp int

const (
	Contains FilterOp = iota
	Exact
)

func (op FilterOp) suffix() string {
	if op == Contains {
		return "__icontains"
	}
	return "__exact"
}

// Filter is a query parameter a table accepts on list.
type Filter struct {
	Field string
	Op    FilterOp
	Expr  string
	UUID  bool
}

func (f Filter) Param() string {
	return f.Field + f.Op.suffix()
}

// Condition is a filter bound to a request value.
type Condition struct {
	Filter Filter
	Value  string
}

// Table describes how a record type is stored. The primary table is always
// aliased t; From carries the joins needed to render parent references.
type Table struct {
	Name    string
	Columns []string
	From    string
	Filters []Filter
}

const baseColumns = "t.id, t.external_id, t.owner_id, t.created_at, t.updated_at, t.deleted"

func (t Table) selectList() string {
	if len(t.Columns) == 0 {
		return baseColumns
	}
	return baseColumns + ", " + strings.Join(t.Columns, ", ")
}

func (t Table) from() string {
	if t.From == "" {
		return t.Name + " t"
	}
	return t.From
}

// Conditions picks the declared filters out of a query string. Parameters
// the table does not declare are ignored. ok is false when a filter can
// never match, such as an exact lookup on a malformed id.
func (t Table) Conditions(params url.Values) (conds []Condition, ok bool) {
	ok = true
	for _, f := range t.Filters {
		value := params.Get(f.Param())
		if !params.Has(f.Param()) {
			continue
		}
		if f.UUID && f.Op == Exact {
			if _, err := uuid.Parse(value); err != nil {
				ok = false
				continue
			}
		}
		conds = append(conds, Condition{Filter: f, Value: value})
	}
	return conds, ok
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func containsPattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}
