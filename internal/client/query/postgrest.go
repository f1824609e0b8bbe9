package query

import (
	"net/url"
	"strconv"
	"strings"
)

// Values renders q as PostgREST query parameters.
func (q *Query) Values() url.Values {
	v := url.Values{}

	if len(q.Columns) > 0 {
		v.Set("select", strings.Join(q.Columns, ","))
	} else {
		v.Set("select", "*")
	}

	for _, f := range q.Filters {
		v.Add(f.Column, string(f.Op)+"."+f.Value)
	}

	if q.Order != nil {
		dir := "asc"
		if q.Order.Descending {
			dir = "desc"
		}
		v.Set("order", q.Order.Column+"."+dir)
	}

	if q.Limit > 0 {
		v.Set("limit", strconv.Itoa(q.Limit))
	}
	return v
}
