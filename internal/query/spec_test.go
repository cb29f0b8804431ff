package query_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"issue-tracker/internal/query"
)

func TestBuild_Defaults(t *testing.T) {
	spec, rej, err := query.Issues.Build(query.Request{}, query.Options{})
	require.NoError(t, err)
	assert.Empty(t, rej)
	assert.Equal(t, "updated_at", spec.SortKey())
	assert.Equal(t, query.Desc, spec.Direction())
	assert.Equal(t, 1, spec.Page())
	assert.Equal(t, 10, spec.PageSize())
	assert.Equal(t, 0, spec.Offset())
}

func TestBuild_ValidSort(t *testing.T) {
	for _, key := range []string{"title", "description", "created_at", "updated_at"} {
		spec, rej, err := query.Issues.Build(query.Request{SortKey: key, SortValue: "ASC"}, query.Options{})
		require.NoError(t, err)
		assert.Empty(t, rej)
		assert.Equal(t, key, spec.SortKey())
		assert.Equal(t, query.Asc, spec.Direction())
	}
}

func TestBuild_PermissiveFallback(t *testing.T) {
	spec, rej, err := query.Issues.Build(query.Request{
		SortKey:   "id; DROP TABLE issues",
		SortValue: "sideways",
		Lists:     map[string][]string{"owner": {"1"}},
		Malformed: []string{"description"},
	}, query.Options{})
	require.NoError(t, err)
	assert.Equal(t, "updated_at", spec.SortKey())
	assert.Equal(t, query.Desc, spec.Direction())

	fields := map[string]bool{}
	for _, r := range rej {
		fields[r.Field] = true
	}
	assert.True(t, fields["sort_key"])
	assert.True(t, fields["sort_value"])
	assert.True(t, fields["owner"])
	assert.True(t, fields["description"])
}

func TestBuild_StrictRejects(t *testing.T) {
	_, _, err := query.Issues.Build(query.Request{SortKey: "owner"}, query.Options{Strict: true})
	var re *query.RejectedError
	require.True(t, errors.As(err, &re))
	assert.Contains(t, re.Fields(), "sort_key")

	_, _, err = query.Projects.Build(query.Request{Lists: map[string][]string{"title": {"x"}}}, query.Options{Strict: true})
	require.True(t, errors.As(err, &re))
	assert.Contains(t, re.Fields(), "title")
}

func TestBuild_StrictStillClampsPageSize(t *testing.T) {
	spec, rej, err := query.Issues.Build(query.Request{PageSize: "5000", Page: "x"}, query.Options{Strict: true})
	require.NoError(t, err)
	assert.Equal(t, 200, spec.PageSize())
	assert.Equal(t, 1, spec.Page())
	assert.Len(t, rej, 2)
}

func TestBuild_PageSizeClamp(t *testing.T) {
	cases := map[string]int{
		"":     10,
		"0":    1,
		"-3":   1,
		"1":    1,
		"25":   25,
		"200":  200,
		"201":  200,
		"9999": 200,
		"ten":  10,
	}
	for in, want := range cases {
		spec, _, err := query.Projects.Build(query.Request{PageSize: in}, query.Options{})
		require.NoError(t, err)
		assert.Equal(t, want, spec.PageSize(), "page_size=%q", in)
	}
}

func TestBuild_CustomPageSizes(t *testing.T) {
	spec, _, err := query.Projects.Build(query.Request{PageSize: "80"}, query.Options{DefaultPageSize: 20, MaxPageSize: 50})
	require.NoError(t, err)
	assert.Equal(t, 50, spec.PageSize())

	spec, _, err = query.Projects.Build(query.Request{}, query.Options{DefaultPageSize: 20, MaxPageSize: 50})
	require.NoError(t, err)
	assert.Equal(t, 20, spec.PageSize())
}

func TestBuild_PageOffset(t *testing.T) {
	spec, _, err := query.Issues.Build(query.Request{Page: "3", PageSize: "7"}, query.Options{})
	require.NoError(t, err)
	assert.Equal(t, 3, spec.Page())
	assert.Equal(t, 14, spec.Offset())
}

func TestBuild_HugePageDoesNotWrap(t *testing.T) {
	spec, rej, err := query.Issues.Build(query.Request{Page: "922337203685477581", PageSize: "10"}, query.Options{Strict: true})
	require.NoError(t, err)
	assert.Greater(t, spec.Offset(), 0)
	assert.Equal(t, (spec.Page()-1)*10, spec.Offset())
	require.Len(t, rej, 1)
	assert.Equal(t, "page", rej[0].Field)
}

func TestBuild_SearchOnlyWhereSupported(t *testing.T) {
	spec, rej, err := query.Projects.Build(query.Request{Search: "Migrate"}, query.Options{})
	require.NoError(t, err)
	assert.Empty(t, rej)
	assert.Equal(t, "Migrate", spec.Search())

	spec, rej, err = query.Issues.Build(query.Request{Search: "Migrate"}, query.Options{})
	require.NoError(t, err)
	assert.Len(t, rej, 1)
	assert.Empty(t, spec.Search())
}
