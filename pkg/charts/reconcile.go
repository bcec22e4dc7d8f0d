package charts

import (
	"fmt"

	"github.com/tierscope/tierscope/internal/utils"
	"github.com/tierscope/tierscope/pkg/songindex"
)

// YouTubeWatchURL is the template for chart video links.
const YouTubeWatchURL = "https://www.youtube.com/watch?v="

// StatKey builds the difficultyList key for a chart.
func StatKey(songID string, code int) string {
	return fmt.Sprintf("%s/%d", songID, code)
}

// Reconcile joins one page's entries with their stats and the song index.
// Entries without a stat are skipped; entries with an unknown difficulty code
// are skipped with a warning.
func Reconcile(p Page, idx songindex.Index) []Chart {
	charts := make([]Chart, 0, len(p.Entries))

	for _, e := range p.Entries {
		stat, ok := p.Stats[StatKey(e.SongID, e.Difficulty)]
		if !ok {
			continue
		}

		difficulty, ok := DifficultyFromCode(e.Difficulty)
		if !ok {
			utils.Log.Warnf("Unknown difficulty value: %d for song %s", e.Difficulty, e.SongID)
			continue
		}

		title := e.SongID
		rating := stat.Rating
		if song, found := idx.Get(e.SongID); found {
			title = BuildTitle(song.Name, song.RomanizedName, song.AlternateName)
			if r, defined := song.RatingAt(e.Difficulty); defined {
				rating = r
			}
		}

		youtubeURL := ""
		if e.YouTubeID != nil && *e.YouTubeID != "" {
			youtubeURL = YouTubeWatchURL + *e.YouTubeID
		}

		charts = append(charts, Chart{
			ID:         e.SongID,
			Title:      title,
			Rating:     rating,
			Tier:       stat.Tier,
			Difficulty: difficulty,
			YouTubeURL: youtubeURL,
		})
	}

	return charts
}
