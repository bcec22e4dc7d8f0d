package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tierscope/tierscope/pkg/charts"
)

const songData = `var ALL_SONG_DATA=[{"song_id":"s1","song_name":"Song One","romanized_name":"Uno","ratings":[1,2,3,4,5,6,7,8,9]}];`

const level14 = `<html><head><script>
let rawMetadata = [{"song_id":"s1","difficulty":3,"youtube_id":"v14"},{"song_id":"s2","difficulty":4,"youtube_id":null}];
let difficultyList = {"s1/3":{"tier":1,"rating":14},"s2/4":{"tier":-1,"rating":14}};
</script></head></html>`

const level15 = `<html><head><script>
let rawMetadata = [{"song_id":"s1","difficulty":4,"youtube_id":"v15"}];
let difficultyList = {"s1/4":{"tier":2.5,"rating":15}};
</script></head></html>`

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestRun(t *testing.T) {
	dataDir := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "output")

	writeFile(t, dataDir, "songdata.js", songData)
	writeFile(t, dataDir, "14.html", level14)
	writeFile(t, dataDir, "15.html", level15)
	writeFile(t, dataDir, "16.html", "<html>no data here</html>")
	writeFile(t, dataDir, "additional.csv", "x1,Extra,1 CDP,18,1.5,https://youtu.be/xx\nshort,line,0 CSP,1\n")

	res, err := Run(context.Background(), Config{DataDir: dataDir, OutputDir: outDir})
	require.NoError(t, err)

	require.Equal(t, []charts.Chart{
		{ID: "s1", Title: "Song One (Uno)", Rating: 4, Tier: 1, Difficulty: charts.ExpertSingle, YouTubeURL: "https://www.youtube.com/watch?v=v14"},
		{ID: "s2", Title: "s2", Rating: 14, Tier: -1, Difficulty: charts.ChallengeSingle},
		{ID: "s1", Title: "Song One (Uno)", Rating: 5, Tier: 2.5, Difficulty: charts.ChallengeSingle, YouTubeURL: "https://www.youtube.com/watch?v=v15"},
		{ID: "x1", Title: "Extra", Rating: 18, Tier: 1.5, Difficulty: charts.ChallengeDouble, YouTubeURL: "https://www.youtube.com/watch?v=xx"},
	}, res.Collection.Charts)

	require.Equal(t, 1, res.Additional)
	require.Len(t, res.Files, 3)
	failed := res.Failed()
	require.Len(t, failed, 1)
	require.Equal(t, "16.html", failed[0].Name)

	require.Equal(t, filepath.Join(outDir, charts.OutputFileName), res.OutputPath)
	data, err := os.ReadFile(res.OutputPath)
	require.NoError(t, err)
	require.Contains(t, string(data), "ID,Title,Difficulty,Rating,Tier,YouTube URL\ns1,Song One (Uno),0 ESP,4,1,https://www.youtube.com/watch?v=v14\n")

	summary := Summary(res.Collection)
	require.Equal(t, []DifficultyCount{
		{Difficulty: charts.ExpertSingle, Count: 1},
		{Difficulty: charts.ChallengeSingle, Count: 2},
		{Difficulty: charts.ChallengeDouble, Count: 1},
	}, summary)
}

func TestRunWithoutSongIndex(t *testing.T) {
	dataDir := t.TempDir()
	writeFile(t, dataDir, "14.html", level14)

	res, err := Run(context.Background(), Config{DataDir: dataDir, OutputDir: t.TempDir()})
	require.NoError(t, err)
	require.Equal(t, 2, res.Collection.Len())
	require.Equal(t, "s1", res.Collection.Charts[0].Title)
	require.Equal(t, 14.0, res.Collection.Charts[0].Rating)
	require.Zero(t, res.Additional)
}

func TestRunPreconditions(t *testing.T) {
	_, err := Run(context.Background(), Config{DataDir: filepath.Join(t.TempDir(), "missing"), OutputDir: t.TempDir()})
	require.True(t, errors.Is(err, ErrNoDataDir), "got %v", err)

	empty := t.TempDir()
	writeFile(t, empty, "songdata.js", songData)
	_, err = Run(context.Background(), Config{DataDir: empty, OutputDir: t.TempDir()})
	require.True(t, errors.Is(err, ErrNoHTML), "got %v", err)
}
