package charts

import (
	"github.com/tierscope/tierscope/pkg/extract"
)

const (
	metadataVariable       = "rawMetadata"
	difficultyListVariable = "difficultyList"
)

// RawEntry is one chart as listed in a difficulty-list page.
type RawEntry struct {
	SongID     string  `json:"song_id"`
	Difficulty int     `json:"difficulty"`
	YouTubeID  *string `json:"youtube_id"`
}

// Stat is the tier and rating the page assigns to a "songId/difficulty" key.
type Stat struct {
	Tier   float64 `json:"tier"`
	Rating float64 `json:"rating"`
}

// Page is the data embedded in one difficulty-list document.
type Page struct {
	Entries []RawEntry
	Stats   map[string]Stat
}

// ExtractPage pulls rawMetadata and difficultyList out of a difficulty-list
// HTML document. Both are required.
func ExtractPage(html string) (Page, error) {
	var p Page

	lit, err := extract.FromHTML(html, metadataVariable)
	if err != nil {
		return Page{}, err
	}
	if err := extract.Decode(lit, metadataVariable, &p.Entries); err != nil {
		return Page{}, err
	}

	lit, err = extract.FromHTML(html, difficultyListVariable)
	if err != nil {
		return Page{}, err
	}
	if err := extract.Decode(lit, difficultyListVariable, &p.Stats); err != nil {
		return Page{}, err
	}
	return p, nil
}
