// Package songindex loads the site's song metadata script (songdata.js) into a
// lookup table keyed by song id. The index is a soft dependency: every failure
// degrades to an empty index.
package songindex

import (
	"os"

	"github.com/tidwall/gjson"

	"github.com/tierscope/tierscope/internal/utils"
	"github.com/tierscope/tierscope/pkg/extract"
)

// Variable is the script variable holding the song array.
const Variable = "ALL_SONG_DATA"

// FileName is the name songdata.js is stored under in the data directory.
const FileName = "songdata.js"

// Entry is one song of the index.
type Entry struct {
	SongID        string
	Name          string
	RomanizedName string
	AlternateName string
	Version       int
	Deleted       bool

	// Indexed by difficulty code. A nil element means the value is not
	// defined for that difficulty.
	Ratings []*float64
	Tiers   []*float64
}

// RatingAt returns the rating for a difficulty code, if the index defines one.
func (e Entry) RatingAt(code int) (float64, bool) {
	return at(e.Ratings, code)
}

// TierAt returns the tier for a difficulty code, if the index defines one.
func (e Entry) TierAt(code int) (float64, bool) {
	return at(e.Tiers, code)
}

func at(values []*float64, code int) (float64, bool) {
	if code < 0 || code >= len(values) || values[code] == nil {
		return 0, false
	}
	return *values[code], true
}

// Index maps song ids to entries.
type Index struct {
	entries map[string]Entry
}

// Empty returns an index without entries.
func Empty() Index {
	return Index{entries: map[string]Entry{}}
}

func (idx Index) Get(songID string) (Entry, bool) {
	e, ok := idx.entries[songID]
	return e, ok
}

func (idx Index) Len() int {
	return len(idx.entries)
}

// Parse reads the ALL_SONG_DATA array out of a songdata.js text. Entries
// without a song_id are ignored and later duplicates replace earlier ones.
func Parse(text string) Index {
	res, err := extract.Result(text, Variable)
	if err != nil {
		utils.Log.Warnf("Could not parse %s (%v). Song titles will use song_id as fallback.", FileName, err)
		return Empty()
	}
	if !res.IsArray() {
		utils.Log.Warnf("%s in %s is not an array. Song titles will use song_id as fallback.", Variable, FileName)
		return Empty()
	}

	idx := Empty()
	res.ForEach(func(_, v gjson.Result) bool {
		id := v.Get("song_id").String()
		if id == "" {
			return true
		}
		idx.entries[id] = Entry{
			SongID:        id,
			Name:          v.Get("song_name").String(),
			RomanizedName: v.Get("romanized_name").String(),
			AlternateName: v.Get("alternate_name").String(),
			Version:       int(v.Get("version_num").Int()),
			Deleted:       v.Get("deleted").Int() != 0,
			Ratings:       numbers(v.Get("ratings")),
			Tiers:         numbers(v.Get("tiers")),
		}
		return true
	})
	return idx
}

func numbers(v gjson.Result) []*float64 {
	if !v.IsArray() {
		return nil
	}
	arr := v.Array()
	out := make([]*float64, len(arr))
	for i, n := range arr {
		if n.Type != gjson.Number {
			continue
		}
		f := n.Float()
		out[i] = &f
	}
	return out
}

// Load reads and parses a songdata.js file. A missing or unreadable file
// gives an empty index.
func Load(path string) Index {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			utils.Log.Warnf("%s not found. Song titles will use song_id as fallback.", FileName)
		} else {
			utils.Log.Warnf("Error loading %s: %v", FileName, err)
		}
		return Empty()
	}

	idx := Parse(string(data))
	utils.Log.Infof("Loaded %d songs from %s", idx.Len(), FileName)
	return idx
}
