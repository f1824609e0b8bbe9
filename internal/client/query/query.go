// Package query describes the small relational subset the reports viewer
// needs (equality, inclusive range, single-column ordering, limit) and
// renders it either as PostgREST URL parameters or as PostgreSQL.
package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
)

type Operator string

const (
	OpEq  Operator = "eq"
	OpGte Operator = "gte"
	OpLte Operator = "lte"
)

var sqlOperators = map[Operator]string{
	OpEq:  "=",
	OpGte: ">=",
	OpLte: "<=",
}

type Condition struct {
	Column string
	Op     Operator
	Value  string
}

type Order struct {
	Column     string
	Descending bool
}

// Query selects whole rows of Table. Filters are combined with AND.
// Limit <= 0 means no limit.
type Query struct {
	Table   string
	Columns []string
	Filters []Condition
	Order   *Order
	Limit   int
}

func From(table string) *Query {
	return &Query{Table: table}
}

// Select restricts the returned columns. No columns means all.
func (q *Query) Select(columns ...string) *Query {
	q.Columns = append(q.Columns, columns...)
	return q
}

func (q *Query) Eq(column, value string) *Query {
	return q.where(column, OpEq, value)
}

func (q *Query) Gte(column, value string) *Query {
	return q.where(column, OpGte, value)
}

func (q *Query) Lte(column, value string) *Query {
	return q.where(column, OpLte, value)
}

func (q *Query) OrderBy(column string, descending bool) *Query {
	q.Order = &Order{Column: column, Descending: descending}
	return q
}

func (q *Query) WithLimit(n int) *Query {
	q.Limit = n
	return q
}

func (q *Query) where(column string, op Operator, value string) *Query {
	q.Filters = append(q.Filters, Condition{Column: column, Op: op, Value: value})
	return q
}

// String is a compact description used in log lines.
func (q *Query) String() string {
	var b strings.Builder
	b.WriteString(q.Table)
	for _, f := range q.Filters {
		fmt.Fprintf(&b, " %s.%s.%s", f.Column, f.Op, f.Value)
	}
	if q.Order != nil {
		dir := "asc"
		if q.Order.Descending {
			dir = "desc"
		}
		fmt.Fprintf(&b, " order=%s.%s", q.Order.Column, dir)
	}
	if q.Limit > 0 {
		b.WriteString(" limit=" + strconv.Itoa(q.Limit))
	}
	return b.String()
}

// SQL renders q for PostgreSQL. Each row is returned as a single JSON text
// column so both transports decode records the same way.
func (q *Query) SQL() (string, []any, error) {
	if q.Table == "" {
		return "", nil, fmt.Errorf("query has no table")
	}

	var (
		b    strings.Builder
		args []any
	)

	b.WriteString("SELECT row_to_json(t)::text FROM ")
	if len(q.Columns) > 0 {
		cols := make([]string, len(q.Columns))
		for i, c := range q.Columns {
			cols[i] = pgx.Identifier{c}.Sanitize()
		}
		fmt.Fprintf(&b, "(SELECT %s FROM %s) AS t", strings.Join(cols, ", "), pgx.Identifier{q.Table}.Sanitize())
	} else {
		fmt.Fprintf(&b, "%s AS t", pgx.Identifier{q.Table}.Sanitize())
	}

	for i, f := range q.Filters {
		op, ok := sqlOperators[f.Op]
		if !ok {
			return "", nil, fmt.Errorf("unsupported operator %q", f.Op)
		}
		if i == 0 {
			b.WriteString(" WHERE ")
		} else {
			b.WriteString(" AND ")
		}
		args = append(args, f.Value)
		fmt.Fprintf(&b, "t.%s %s $%d", pgx.Identifier{f.Column}.Sanitize(), op, len(args))
	}

	if q.Order != nil {
		fmt.Fprintf(&b, " ORDER BY t.%s", pgx.Identifier{q.Order.Column}.Sanitize())
		if q.Order.Descending {
			b.WriteString(" DESC")
		} else {
			b.WriteString(" ASC")
		}
	}

	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}

	return b.String(), args, nil
}
