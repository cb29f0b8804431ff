package query_test

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"issue-tracker/internal/query"
	"issue-tracker/internal/testutil"
)

type row struct {
	ID          uint64 `gorm:"primaryKey"`
	Title       string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (row) TableName() string { return "rows" }

func seedRows(t *testing.T, db *gorm.DB, n int) []row {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]row, n)
	for i := range rows {
		rows[i] = row{
			// heavy duplication so the tiebreak matters
			Title:       fmt.Sprintf("title-%d", i%4),
			Description: fmt.Sprintf("desc-%d", i%3),
			CreatedAt:   base.Add(time.Duration(i%5) * time.Hour),
			UpdatedAt:   base.Add(time.Duration(i%2) * time.Hour),
		}
	}
	require.NoError(t, db.Create(&rows).Error)
	return rows
}

func sortKeyOf(r row, key string) string {
	switch key {
	case "title":
		return r.Title
	case "description":
		return r.Description
	case "created_at":
		return r.CreatedAt.Format(time.RFC3339Nano)
	default:
		return r.UpdatedAt.Format(time.RFC3339Nano)
	}
}

func expectedOrder(rows []row, key string, dir query.Direction) []uint64 {
	cp := append([]row(nil), rows...)
	sort.SliceStable(cp, func(i, j int) bool {
		a, b := sortKeyOf(cp[i], key), sortKeyOf(cp[j], key)
		if a != b {
			if dir == query.Desc {
				return a > b
			}
			return a < b
		}
		return cp[i].ID < cp[j].ID
	})
	ids := make([]uint64, len(cp))
	for i, r := range cp {
		ids[i] = r.ID
	}
	return ids
}

func TestRun_PagesPartitionCollection(t *testing.T) {
	db := testutil.OpenDB(t, &row{})
	rows := seedRows(t, db, 47)
	ctx := context.Background()

	for _, key := range query.Issues.SortKeys() {
		for _, dir := range []query.Direction{query.Asc, query.Desc} {
			for _, size := range []int{1, 5, 10, 47, 200} {
				t.Run(fmt.Sprintf("%s_%s_%d", key, dir, size), func(t *testing.T) {
					var got []uint64
					for page := 1; ; page++ {
						spec, _, err := query.Issues.Build(query.Request{
							SortKey: key, SortValue: string(dir),
							Page: strconv.Itoa(page), PageSize: strconv.Itoa(size),
						}, query.Options{})
						require.NoError(t, err)

						p, err := query.Run[row](ctx, db, spec)
						require.NoError(t, err)
						require.EqualValues(t, len(rows), p.Count)
						require.Equal(t, size, p.PageSize)
						if len(p.Results) == 0 {
							break
						}
						require.LessOrEqual(t, len(p.Results), size)
						for _, r := range p.Results {
							got = append(got, r.ID)
						}
					}
					assert.Equal(t, expectedOrder(rows, key, dir), got)
				})
			}
		}
	}
}

func TestRun_RepeatedCallsAreStable(t *testing.T) {
	db := testutil.OpenDB(t, &row{})
	seedRows(t, db, 20)
	spec, _, err := query.Issues.Build(query.Request{SortKey: "title", PageSize: "6", Page: "2"}, query.Options{})
	require.NoError(t, err)

	first, err := query.Run[row](context.Background(), db, spec)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := query.Run[row](context.Background(), db, spec)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestRun_PageBeyondRange(t *testing.T) {
	db := testutil.OpenDB(t, &row{})
	seedRows(t, db, 12)
	spec, _, err := query.Issues.Build(query.Request{Page: "99"}, query.Options{})
	require.NoError(t, err)

	p, err := query.Run[row](context.Background(), db, spec)
	require.NoError(t, err)
	assert.EqualValues(t, 12, p.Count)
	assert.NotNil(t, p.Results)
	assert.Empty(t, p.Results)

	spec, _, err = query.Issues.Build(query.Request{Page: "922337203685477581", PageSize: "10"}, query.Options{})
	require.NoError(t, err)
	p, err = query.Run[row](context.Background(), db, spec)
	require.NoError(t, err)
	assert.EqualValues(t, 12, p.Count)
	assert.Empty(t, p.Results)
}

func TestRun_ListFilters(t *testing.T) {
	db := testutil.OpenDB(t, &row{})
	seedRows(t, db, 24)

	spec, _, err := query.Issues.Build(query.Request{
		Lists: map[string][]string{
			"title":       {"title-1", "title-2"},
			"description": {"desc-0"},
		},
		PageSize: "200",
	}, query.Options{})
	require.NoError(t, err)

	p, err := query.Run[row](context.Background(), db, spec)
	require.NoError(t, err)
	require.NotEmpty(t, p.Results)
	assert.EqualValues(t, len(p.Results), p.Count)
	for _, r := range p.Results {
		assert.Contains(t, []string{"title-1", "title-2"}, r.Title)
		assert.Equal(t, "desc-0", r.Description)
	}
}

func TestRun_SearchIsCaseSensitiveSubstring(t *testing.T) {
	db := testutil.OpenDB(t, &row{})
	require.NoError(t, db.Create(&[]row{
		{Title: "Migrate backend"},
		{Title: "migrate frontend"},
		{Title: "Plan the Migration"},
		{Title: "Unrelated"},
	}).Error)

	spec, _, err := query.Projects.Build(query.Request{Search: "Migrat", SortKey: "title", SortValue: "asc"}, query.Options{})
	require.NoError(t, err)

	p, err := query.Run[row](context.Background(), db, spec)
	require.NoError(t, err)
	assert.EqualValues(t, 2, p.Count)
	titles := []string{p.Results[0].Title, p.Results[1].Title}
	assert.Equal(t, []string{"Migrate backend", "Plan the Migration"}, titles)
}

func TestRun_SearchTreatsWildcardsLiterally(t *testing.T) {
	db := testutil.OpenDB(t, &row{})
	require.NoError(t, db.Create(&[]row{{Title: "100% done"}, {Title: "100 done"}}).Error)

	spec, _, err := query.Projects.Build(query.Request{Search: "0%"}, query.Options{})
	require.NoError(t, err)
	p, err := query.Run[row](context.Background(), db, spec)
	require.NoError(t, err)
	require.EqualValues(t, 1, p.Count)
	assert.Equal(t, "100% done", p.Results[0].Title)
}

func TestMap(t *testing.T) {
	p := query.Page[int]{Count: 9, PageSize: 2, Results: []int{1, 2}}
	out := query.Map(p, strconv.Itoa)
	assert.Equal(t, query.Page[string]{Count: 9, PageSize: 2, Results: []string{"1", "2"}}, out)
}
