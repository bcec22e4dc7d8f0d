package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tierscope/tierscope/pkg/charts"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "tierscope.sqlite"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSaveAndListRun(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	_, err := db.LatestRun(ctx)
	require.True(t, errors.Is(err, ErrNoRuns))

	list := []charts.Chart{
		{ID: "b", Title: "Bee", Rating: 14, Tier: 1.5, Difficulty: charts.ChallengeSingle, YouTubeURL: "https://www.youtube.com/watch?v=b"},
		{ID: "a", Title: "Ay", Rating: 12, Tier: -1, Difficulty: charts.BasicSingle},
		{ID: "b", Title: "Bee", Rating: 14, Tier: 1.5, Difficulty: charts.ChallengeSingle},
	}
	first, err := db.SaveRun(ctx, list[:1])
	require.NoError(t, err)
	second, err := db.SaveRun(ctx, list)
	require.NoError(t, err)
	require.NotEqual(t, first.ID, second.ID)

	latest, err := db.LatestRun(ctx)
	require.NoError(t, err)
	require.Equal(t, second.ID, latest.ID)
	require.Equal(t, 3, latest.ChartCount)
	require.True(t, second.CreatedAt.Equal(latest.CreatedAt), "created_at %v != %v", second.CreatedAt, latest.CreatedAt)

	got, err := db.ListCharts(ctx, latest.ID)
	require.NoError(t, err)
	require.Equal(t, list, got)

	runs, err := db.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	require.Equal(t, first.ID, runs[1].ID)
}

func TestGetStats(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	run, err := db.SaveRun(ctx, []charts.Chart{
		{ID: "x", Title: "X", Rating: 18, Difficulty: charts.ChallengeDouble},
		{ID: "x", Title: "X", Rating: 15, Difficulty: charts.ChallengeSingle},
		{ID: "y", Title: "Y", Rating: 13, Difficulty: charts.ChallengeSingle},
		{ID: "y", Title: "Y", Rating: 13, Difficulty: charts.ChallengeSingle},
		{ID: "z", Title: "Z", Rating: 2, Difficulty: charts.BeginnerSingle},
	})
	require.NoError(t, err)

	stats, err := db.GetStats(ctx, run.ID)
	require.NoError(t, err)
	require.Equal(t, []DifficultyStats{
		{Difficulty: "0 bSP", ChartCount: 1, SongCount: 1, MinRating: 2, MaxRating: 2},
		{Difficulty: "0 CSP", ChartCount: 3, SongCount: 2, MinRating: 13, MaxRating: 15},
		{Difficulty: "1 CDP", ChartCount: 1, SongCount: 1, MinRating: 18, MaxRating: 18},
	}, stats)
}
