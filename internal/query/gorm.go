package query

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Page is one slice of a listing. Count is the filtered total before paging.
type Page[T any] struct {
	Count    int64 `json:"count"`
	PageSize int   `json:"page_size"`
	Results  []T   `json:"results"`
}

// Map converts the results of p with f, keeping the counters.
func Map[T, U any](p Page[T], f func(T) U) Page[U] {
	out := Page[U]{Count: p.Count, PageSize: p.PageSize, Results: make([]U, len(p.Results))}
	for i, v := range p.Results {
		out.Results[i] = f(v)
	}
	return out
}

// Filter applies the search and list-membership predicates.
func (s Spec) Filter(db *gorm.DB) *gorm.DB {
	if s.search != "" {
		db = db.Where(containsExpr(db.Dialector.Name(), s.searchCol, s.search))
	}
	for _, f := range s.in {
		vals := make([]any, len(f.values))
		for i, v := range f.values {
			vals[i] = v
		}
		db = db.Where(clause.IN{Column: clause.Column{Name: f.column}, Values: vals})
	}
	return db
}

// Order applies the sort column and the ascending tiebreak.
func (s Spec) Order(db *gorm.DB) *gorm.DB {
	if s.sortCol != "" {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: s.sortCol}, Desc: s.dir == Desc})
	}
	if s.tiebreak != "" && s.tiebreak != s.sortCol {
		db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: s.tiebreak}})
	}
	return db
}

// Paginate applies offset/limit.
func (s Spec) Paginate(db *gorm.DB) *gorm.DB {
	return db.Offset(s.Offset()).Limit(s.pageSize)
}

// containsExpr is a case-sensitive substring test for each supported dialect.
func containsExpr(dialect, column, term string) clause.Expr {
	col := clause.Column{Name: column}
	switch dialect {
	case "postgres":
		return clause.Expr{SQL: "strpos(?, ?) > 0", Vars: []any{col, term}}
	case "mysql":
		return clause.Expr{SQL: "INSTR(CAST(? AS BINARY), CAST(? AS BINARY)) > 0", Vars: []any{col, term}}
	default: // sqlite instr() compares bytes
		return clause.Expr{SQL: "instr(?, ?) > 0", Vars: []any{col, term}}
	}
}

// Run counts and loads one page of T. db should not carry a Model yet.
func Run[T any](ctx context.Context, db *gorm.DB, spec Spec) (Page[T], error) {
	base := func() *gorm.DB {
		return db.WithContext(ctx).Model(new(T)).Scopes(spec.Filter)
	}

	out := Page[T]{PageSize: spec.pageSize, Results: []T{}}
	if err := base().Count(&out.Count).Error; err != nil {
		return Page[T]{}, err
	}
	if int64(spec.Offset()) >= out.Count {
		return out, nil
	}
	if err := base().Scopes(spec.Order, spec.Paginate).Find(&out.Results).Error; err != nil {
		return Page[T]{}, err
	}
	return out, nil
}
