// Package query turns partially-trusted listing parameters into a typed,
// allow-listed Spec and applies it to a gorm query.
//
// Column names only ever come from a Schema; request values are bound as
// parameters. Sorting always ends with the tiebreak column ascending so that
// pages of the same Spec partition the filtered collection.
package query

import "sort"

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

func (d Direction) valid() bool { return d == Asc || d == Desc }

// Schema is the allow-list for one collection.
type Schema struct {
	name        string
	sortable    map[string]string // key -> column
	filterable  map[string]string // key -> column, list membership
	searchCol   string
	defaultSort string
	defaultDir  Direction
	tiebreak    string
}

// NewSchema starts a schema sorted by updated_at desc with an id tiebreak.
func NewSchema(name string) *Schema {
	return &Schema{
		name:        name,
		sortable:    map[string]string{},
		filterable:  map[string]string{},
		defaultSort: "updated_at",
		defaultDir:  Desc,
		tiebreak:    "id",
	}
}

// Sortable allows each key as a sort key on the column of the same name.
func (s *Schema) Sortable(keys ...string) *Schema {
	for _, k := range keys {
		s.sortable[k] = k
	}
	return s
}

// Filterable allows each key as a list-membership filter.
func (s *Schema) Filterable(keys ...string) *Schema {
	for _, k := range keys {
		s.filterable[k] = k
	}
	return s
}

// Searchable enables substring search on column.
func (s *Schema) Searchable(column string) *Schema {
	s.searchCol = column
	return s
}

func (s *Schema) DefaultSort(key string, dir Direction) *Schema {
	s.defaultSort, s.defaultDir = key, dir
	return s
}

func (s *Schema) Name() string { return s.name }

func (s *Schema) SortKeys() []string { return sortedKeys(s.sortable) }

func (s *Schema) FilterKeys() []string { return sortedKeys(s.filterable) }

func sortedKeys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

var sortFields = []string{"title", "description", "created_at", "updated_at"}

var (
	Projects = NewSchema("projects").Sortable(sortFields...).Searchable("title")
	Issues   = NewSchema("issues").Sortable(sortFields...).Filterable("title", "description")
)
