package dashboard

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(rows []Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func fixtureRows() []Row {
	return []Row{
		{ID: "1", Title: "banana", Rating: 12, Tier: 2, Difficulty: CSP, Score: 900000},
		{ID: "2", Title: "Apple", Rating: 14, Tier: -1, Difficulty: BSP, Score: 950000},
		{ID: "3", Title: "cherry", Rating: 14, Tier: 5, Difficulty: DSP, Score: 0},
		{ID: "4", Title: "Éclair", Rating: 13, Tier: 3, Difficulty: ESP, Score: 999000},
	}
}

func TestApplyDefaults(t *testing.T) {
	rows := fixtureRows()
	got := Apply(rows, DefaultFilter(), DefaultSort())
	// Apple has a negative tier and is hidden.
	assert.Equal(t, []string{"1", "3", "4"}, ids(got))
}

func TestApplyNegativeTier(t *testing.T) {
	rows := []Row{
		{ID: "a", Title: "a", Tier: -1},
		{ID: "b", Title: "b", Tier: 2},
		{ID: "c", Title: "c", Tier: 5},
	}
	assert.Len(t, Apply(rows, DefaultFilter(), DefaultSort()), 2)

	f := DefaultFilter()
	f.IncludeNegativeTier = true
	assert.Len(t, Apply(rows, f, DefaultSort()), 3)
}

func TestApplyDirectionReverses(t *testing.T) {
	f := DefaultFilter()
	f.IncludeNegativeTier = true
	rows := fixtureRows()

	asc := Apply(rows, f, Sort{Key: SortScore, Direction: Ascending})
	desc := Apply(rows, f, Sort{Key: SortScore, Direction: Descending})
	require.Equal(t, []string{"3", "1", "2", "4"}, ids(asc))

	reversed := make([]string, len(asc))
	for i, r := range asc {
		reversed[len(asc)-1-i] = r.ID
	}
	assert.Equal(t, reversed, ids(desc))
}

func TestApplyTiesFollowInputOrder(t *testing.T) {
	f := DefaultFilter()
	f.IncludeNegativeTier = true
	got := Apply(fixtureRows(), f, Sort{Key: SortRating, Direction: Ascending})
	assert.Equal(t, []string{"1", "4", "2", "3"}, ids(got))

	got = Apply(fixtureRows(), f, Sort{Key: SortRating, Direction: Descending})
	assert.Equal(t, []string{"3", "2", "4", "1"}, ids(got))
}

func TestApplyDirectionReversesWithTies(t *testing.T) {
	rows := []Row{
		{ID: "a", Title: "a", Score: 0},
		{ID: "b", Title: "b", Score: 0},
		{ID: "c", Title: "c", Score: 5},
		{ID: "d", Title: "d", Score: 0},
	}

	for _, key := range SortKeys {
		asc := ids(Apply(rows, DefaultFilter(), Sort{Key: key, Direction: Ascending}))
		desc := ids(Apply(rows, DefaultFilter(), Sort{Key: key, Direction: Descending}))

		reversed := make([]string, len(asc))
		for i, id := range asc {
			reversed[len(asc)-1-i] = id
		}
		assert.Equal(t, reversed, desc, "sort key %s", key)
	}

	asc := Apply(rows, DefaultFilter(), Sort{Key: SortScore, Direction: Ascending})
	assert.Equal(t, []string{"a", "b", "d", "c"}, ids(asc))
}

func TestApplyDifficultyRank(t *testing.T) {
	f := DefaultFilter()
	f.IncludeNegativeTier = true
	got := Apply(fixtureRows(), f, Sort{Key: SortDifficulty, Direction: Ascending})
	assert.Equal(t, []string{"2", "3", "4", "1"}, ids(got))
}

func TestApplyTitleCollation(t *testing.T) {
	f := DefaultFilter()
	f.IncludeNegativeTier = true
	got := Apply(fixtureRows(), f, DefaultSort())
	assert.Equal(t, []string{"2", "1", "3", "4"}, ids(got))
}

func TestApplySearch(t *testing.T) {
	f := DefaultFilter()
	f.Search = "AN"
	assert.Equal(t, []string{"1"}, ids(Apply(fixtureRows(), f, DefaultSort())))

	f.Search = "zzz"
	assert.Empty(t, Apply(fixtureRows(), f, DefaultSort()))
}

func TestApplyRatingAndScoreRange(t *testing.T) {
	f := DefaultFilter()
	f.IncludeNegativeTier = true
	rating := 14.0
	f.Rating = &rating
	assert.Equal(t, []string{"2", "3"}, ids(Apply(fixtureRows(), f, DefaultSort())))

	f = DefaultFilter()
	f.MinScore = 900000
	f.MaxScore = 999000
	assert.Equal(t, []string{"1", "4"}, ids(Apply(fixtureRows(), f, DefaultSort())))
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	rows := fixtureRows()
	before := append([]Row(nil), rows...)
	_ = Apply(rows, DefaultFilter(), Sort{Key: SortScore, Direction: Descending})
	assert.Equal(t, before, rows)
}

func TestRatings(t *testing.T) {
	assert.Equal(t, []float64{12, 13, 14}, Ratings(fixtureRows()))
	assert.Empty(t, Ratings(nil))
}

func TestFromQuery(t *testing.T) {
	q, err := url.ParseQuery("search=apple&rating=14&omni=on&minScore=100&maxScore=500&sortBy=score&sortOrder=desc")
	require.NoError(t, err)

	f, s := FromQuery(q)
	assert.Equal(t, "apple", f.Search)
	require.NotNil(t, f.Rating)
	assert.Equal(t, 14.0, *f.Rating)
	assert.True(t, f.IncludeNegativeTier)
	assert.Equal(t, 100.0, f.MinScore)
	assert.Equal(t, 500.0, f.MaxScore)
	assert.Equal(t, Sort{Key: SortScore, Direction: Descending}, s)

	f2, s2 := FromQuery(Query(f, s))
	assert.Equal(t, f, f2)
	assert.Equal(t, s, s2)
}

func TestFromQueryDefaults(t *testing.T) {
	f, s := FromQuery(url.Values{"rating": {"all"}, "sortBy": {"bogus"}, "maxScore": {"x"}})
	assert.Equal(t, DefaultFilter(), f)
	assert.Equal(t, DefaultSort(), s)
}
