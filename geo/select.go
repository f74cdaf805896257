package geo

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var clauseSelectName = clause.Select{}.Name()

// appendSelect keeps whatever the query already selects (`*` by default)
// and adds columns after it. It hooks the SELECT clause builder instead of
// calling db.Select so that Count can still replace the expression.
// The statement is changed in place, so db must not be a shared root.
func appendSelect(db *gorm.DB, columns ...clause.Column) *gorm.DB {
	if len(columns) == 0 {
		return db
	}
	c, ok := db.Statement.Clauses[clauseSelectName]
	if !ok {
		c = clause.Clause{Name: clauseSelectName}
	}
	prev := c.Builder
	c.Builder = func(c clause.Clause, builder clause.Builder) {
		if sel, ok := c.Expression.(clause.Select); ok {
			if len(sel.Columns) == 0 {
				sel.Columns = []clause.Column{{Name: "*", Raw: true}}
			}
			sel.Columns = append(sel.Columns, columns...)
			c.Expression = sel
		}
		if prev != nil {
			prev(c, builder)
			return
		}
		c.Builder = nil
		c.Build(builder)
	}
	db.Statement.Clauses[clauseSelectName] = c
	return db
}
