// Package option provides composable gorm query modifiers for the generic
// repository.
package option

import "gorm.io/gorm"

// QueryOption customizes a gorm statement before execution.
type QueryOption interface {
	Apply(db *gorm.DB) *gorm.DB
}

type orderBy struct {
	expr string
}

func (o orderBy) Apply(db *gorm.DB) *gorm.DB { return db.Order(o.expr) }

// WithOrderBy sorts results by the given SQL order expression.
func WithOrderBy(expr string) QueryOption { return orderBy{expr: expr} }

type limit struct {
	n int
}

func (l limit) Apply(db *gorm.DB) *gorm.DB { return db.Limit(l.n) }

// WithLimit caps the number of returned rows.
func WithLimit(n int) QueryOption { return limit{n: n} }
