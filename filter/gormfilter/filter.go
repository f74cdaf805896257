package gormfilter

import (
	"net/url"
	"strings"

	"github.com/samber/lo"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"github.com/theplant/staymarket/filter"
)

// Scope applies clauses to the query, AND-combined in a single WHERE group.
// Clauses are normalized first, so malformed ranges are dropped rather than
// reported.
func Scope(clauses []filter.Clause) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if db == nil {
			return nil
		}
		expr := buildFilterExpr(filter.NormalizeAll(clauses))
		if expr == nil {
			return db
		}
		return db.Where(expr)
	}
}

// ScopeValues transforms raw query values with spec and applies the result.
func ScopeValues(spec *filter.Spec, values url.Values) func(db *gorm.DB) *gorm.DB {
	return Scope(spec.TransformValues(values))
}

// Search adds a single OR group matching term as a case-insensitive
// substring of any of the columns. LIKE wildcards in term match literally. A
// blank term leaves the query untouched.
func Search(term string, columns ...string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if db == nil {
			return nil
		}
		term = strings.TrimSpace(term)
		if term == "" || len(columns) == 0 {
			return db
		}
		pattern := filter.Wildcard + likeEscaper.Replace(strings.ToLower(term)) + filter.Wildcard
		exprs := lo.Map(columns, func(name string, _ int) clause.Expression {
			return clause.Like{Column: clause.Expr{SQL: "LOWER(?)", Vars: []any{column(name)}}, Value: pattern}
		})
		if len(exprs) == 1 {
			return db.Where(exprs[0])
		}
		return db.Where(clause.Or(exprs...))
	}
}

// backslash is the default LIKE escape character on postgres
var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func buildFilterExpr(clauses []filter.Clause) clause.Expression {
	exprs := make([]clause.Expression, 0, len(clauses))
	for _, c := range clauses {
		if buildClauseExpr(c) != nil {
			exprs = append(exprs, typedClause{clause: c})
		}
	}
	return combineExprs(exprs...)
}

// typedClause builds its clause once the statement schema is known: coerced
// booleans are bound as booleans only to boolean columns, other columns get
// the query text and leave the cast to the database.
type typedClause struct {
	clause filter.Clause
}

func (t typedClause) Build(builder clause.Builder) {
	c := t.clause
	if c.Raw != nil && !isBoolColumn(builder, c.Column) {
		c.Value = uncoerce(c.Value, c.Raw)
	}
	buildClauseExpr(c).Build(builder)
}

func isBoolColumn(builder clause.Builder, name string) bool {
	stmt, ok := builder.(*gorm.Statement)
	if !ok || stmt.Schema == nil {
		return false
	}
	if table, col, ok := strings.Cut(name, "."); ok {
		if table != stmt.Table && table != stmt.Schema.Table {
			return false
		}
		name = col
	}
	field := stmt.Schema.LookUpField(name)
	return field != nil && field.DataType == schema.Bool
}

// uncoerce puts the raw text back wherever coercion produced a boolean. Nil
// stays nil so null keeps meaning IS NULL.
func uncoerce(value, raw any) any {
	switch v := value.(type) {
	case bool:
		if s, ok := raw.(string); ok {
			return s
		}
	case []any:
		r, ok := raw.([]any)
		if !ok || len(r) != len(v) {
			return value
		}
		result := make([]any, len(v))
		for i := range v {
			result[i] = uncoerce(v[i], r[i])
		}
		return result
	}
	return value
}

func buildClauseExpr(c filter.Clause) clause.Expression {
	col := column(c.Column)

	switch c.Operator {
	case filter.Eq:
		return clause.Eq{Column: col, Value: c.Value}
	case filter.Ne:
		return clause.Neq{Column: col, Value: c.Value}
	case filter.Lt:
		return clause.Lt{Column: col, Value: c.Value}
	case filter.Lte:
		return clause.Lte{Column: col, Value: c.Value}
	case filter.Gt:
		return clause.Gt{Column: col, Value: c.Value}
	case filter.Gte:
		return clause.Gte{Column: col, Value: c.Value}
	case filter.Like:
		return clause.Like{Column: col, Value: c.Value}

	case filter.In, filter.NotIn:
		values, ok := c.Value.([]any)
		if !ok {
			return nil
		}
		var expr clause.Expression = clause.IN{Column: col, Values: values}
		if c.Operator == filter.NotIn {
			expr = clause.Not(expr)
		}
		return expr

	case filter.Btw, filter.NotBtw:
		values, ok := c.Value.([]any)
		if !ok || len(values) != 2 {
			return nil
		}
		var expr clause.Expression = Between{Column: col, Low: values[0], High: values[1]}
		if c.Operator == filter.NotBtw {
			expr = clause.Not(expr)
		}
		return expr
	}

	return nil
}

func column(name string) clause.Column {
	if table, col, ok := strings.Cut(name, "."); ok {
		return clause.Column{Table: table, Name: col}
	}
	return clause.Column{Table: clause.CurrentTable, Name: name}
}

// combineExprs combines multiple expressions into a single expression
func combineExprs(exprs ...clause.Expression) clause.Expression {
	switch len(exprs) {
	case 0:
		return nil
	case 1:
		return exprs[0]
	default:
		return clause.And(exprs...)
	}
}
