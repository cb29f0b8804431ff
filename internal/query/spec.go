package query

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 200
)

// Request is the raw, untrusted listing input. Empty strings mean "absent".
type Request struct {
	Search    string
	SortKey   string
	SortValue string
	Page      string
	PageSize  string
	// Lists holds list-membership filters keyed by filter name.
	Lists map[string][]string
	// Malformed names filters whose value could not be read as a list of strings.
	Malformed []string
}

type Options struct {
	// Strict rejects unknown sort keys, directions and filters instead of
	// falling back to the defaults.
	Strict          bool
	DefaultPageSize int
	MaxPageSize     int
}

func (o Options) pageSizes() (def, maxSize int) {
	def, maxSize = o.DefaultPageSize, o.MaxPageSize
	if maxSize <= 0 {
		maxSize = MaxPageSize
	}
	if def <= 0 {
		def = DefaultPageSize
	}
	return min(def, maxSize), maxSize
}

// Rejection records one input that was not honoured as given.
type Rejection struct {
	Field  string
	Value  string
	Reason string
}

func (r Rejection) String() string { return fmt.Sprintf("%s=%q: %s", r.Field, r.Value, r.Reason) }

// RejectedError is returned by Build in strict mode.
type RejectedError struct {
	Rejections []Rejection
}

func (e *RejectedError) Error() string {
	parts := make([]string, len(e.Rejections))
	for i, r := range e.Rejections {
		parts[i] = r.String()
	}
	return "query rejected: " + strings.Join(parts, "; ")
}

// Fields groups the rejection reasons by request field.
func (e *RejectedError) Fields() map[string][]string {
	out := map[string][]string{}
	for _, r := range e.Rejections {
		out[r.Field] = append(out[r.Field], r.Reason)
	}
	return out
}

type inFilter struct {
	column string
	values []string
}

// Spec is a validated listing request. Build is the only way to get one.
type Spec struct {
	schema   string
	sortKey  string
	sortCol  string
	dir      Direction
	tiebreak string

	page     int
	pageSize int

	searchCol string
	search    string
	in        []inFilter
}

func (s Spec) SortKey() string      { return s.sortKey }
func (s Spec) Direction() Direction { return s.dir }
func (s Spec) Page() int            { return s.page }
func (s Spec) PageSize() int        { return s.pageSize }
func (s Spec) Offset() int          { return (s.page - 1) * s.pageSize }
func (s Spec) Search() string       { return s.search }

// Build validates r against the schema. Page parameters are always coerced
// (clamped or defaulted) and never rejected. In permissive mode the returned
// rejections describe every fallback taken; in strict mode any sort or filter
// rejection makes Build fail with *RejectedError.
func (sc *Schema) Build(r Request, opt Options) (Spec, []Rejection, error) {
	var rejected, coerced []Rejection
	defSize, maxSize := opt.pageSizes()

	spec := Spec{
		schema:   sc.name,
		sortKey:  sc.defaultSort,
		sortCol:  sc.sortable[sc.defaultSort],
		dir:      sc.defaultDir,
		tiebreak: sc.tiebreak,
		page:     1,
		pageSize: defSize,
	}

	if k := strings.TrimSpace(r.SortKey); k != "" {
		if col, ok := sc.sortable[k]; ok {
			spec.sortKey, spec.sortCol = k, col
		} else {
			rejected = append(rejected, Rejection{"sort_key", k,
				fmt.Sprintf("must be one of %s", strings.Join(sc.SortKeys(), ", "))})
		}
	}
	if v := strings.ToLower(strings.TrimSpace(r.SortValue)); v != "" {
		if d := Direction(v); d.valid() {
			spec.dir = d
		} else {
			rejected = append(rejected, Rejection{"sort_value", r.SortValue, "must be one of asc, desc"})
		}
	}

	if r.Search != "" {
		if sc.searchCol != "" {
			spec.searchCol, spec.search = sc.searchCol, r.Search
		} else {
			rejected = append(rejected, Rejection{"search", r.Search, "search is not supported"})
		}
	}

	for _, name := range r.Malformed {
		rejected = append(rejected, Rejection{name, "", "must be a list of strings"})
	}
	names := make([]string, 0, len(r.Lists))
	for name := range r.Lists {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		vals := r.Lists[name]
		if len(vals) == 0 {
			continue
		}
		col, ok := sc.filterable[name]
		if !ok {
			rejected = append(rejected, Rejection{name, strings.Join(vals, ","), "unknown filter"})
			continue
		}
		spec.in = append(spec.in, inFilter{column: col, values: vals})
	}

	if p := strings.TrimSpace(r.Page); p != "" {
		n, err := strconv.Atoi(p)
		switch {
		case err != nil:
			coerced = append(coerced, Rejection{"page", p, "not an integer, using 1"})
		case n < 1:
			coerced = append(coerced, Rejection{"page", p, "below 1, using 1"})
		default:
			spec.page = n
		}
	}
	if ps := strings.TrimSpace(r.PageSize); ps != "" {
		n, err := strconv.Atoi(ps)
		switch {
		case err != nil:
			coerced = append(coerced, Rejection{"page_size", ps, fmt.Sprintf("not an integer, using %d", defSize)})
		case n < 1:
			spec.pageSize = 1
			coerced = append(coerced, Rejection{"page_size", ps, "clamped to 1"})
		case n > maxSize:
			spec.pageSize = maxSize
			coerced = append(coerced, Rejection{"page_size", ps, fmt.Sprintf("clamped to %d", maxSize)})
		default:
			spec.pageSize = n
		}
	}

	// (page-1)*pageSize 不能溢出；截断后的页仍然超出任何 count
	if last := math.MaxInt / spec.pageSize; spec.page > last {
		coerced = append(coerced, Rejection{"page", strconv.Itoa(spec.page), fmt.Sprintf("too large, using %d", last)})
		spec.page = last
	}

	if opt.Strict && len(rejected) > 0 {
		return Spec{}, nil, &RejectedError{Rejections: rejected}
	}
	return spec, append(rejected, coerced...), nil
}
