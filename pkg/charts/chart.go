// Package charts turns difficulty-list pages, the song index and the
// hand-maintained additional CSV into one ordered chart collection, and writes
// that collection out as CSV.
package charts

import (
	"fmt"
	"strings"
)

// Difficulty is the enumerated difficulty of a chart. The leading digit is the
// play mode (0 single, 1 double).
type Difficulty string

const (
	BeginnerSingle  Difficulty = "0 bSP"
	BasicSingle     Difficulty = "0 BSP"
	DifficultSingle Difficulty = "0 DSP"
	ExpertSingle    Difficulty = "0 ESP"
	ChallengeSingle Difficulty = "0 CSP"
	BasicDouble     Difficulty = "1 BDP"
	DifficultDouble Difficulty = "1 DDP"
	ExpertDouble    Difficulty = "1 EDP"
	ChallengeDouble Difficulty = "1 CDP"
)

// difficultyByCode maps the site's difficulty codes 0-8.
var difficultyByCode = [...]Difficulty{
	BeginnerSingle,
	BasicSingle,
	DifficultSingle,
	ExpertSingle,
	ChallengeSingle,
	BasicDouble,
	DifficultDouble,
	ExpertDouble,
	ChallengeDouble,
}

var codeByDifficulty map[Difficulty]int

func init() {
	codeByDifficulty = make(map[Difficulty]int, len(difficultyByCode))
	for code, d := range difficultyByCode {
		codeByDifficulty[d] = code
	}
}

// DifficultyFromCode maps a site difficulty code to its Difficulty.
func DifficultyFromCode(code int) (Difficulty, bool) {
	if code < 0 || code >= len(difficultyByCode) {
		return "", false
	}
	return difficultyByCode[code], true
}

// ParseDifficulty accepts exactly one of the nine difficulty strings.
func ParseDifficulty(s string) (Difficulty, bool) {
	d := Difficulty(s)
	_, ok := codeByDifficulty[d]
	return d, ok
}

// Code returns the site difficulty code, or -1 for an unknown value.
func (d Difficulty) Code() int {
	if code, ok := codeByDifficulty[d]; ok {
		return code
	}
	return -1
}

// Difficulties lists all difficulties in code order.
func Difficulties() []Difficulty {
	out := make([]Difficulty, len(difficultyByCode))
	copy(out, difficultyByCode[:])
	return out
}

// Chart is one playable chart: a song at one difficulty.
type Chart struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Rating     float64    `json:"rating"`
	Tier       float64    `json:"tier"`
	Difficulty Difficulty `json:"difficulty"`
	YouTubeURL string     `json:"youtubeURL"`
}

func (c Chart) String() string {
	return fmt.Sprintf("%s [%s] %s", c.ID, c.Difficulty, c.Title)
}

// Collection is the ordered, append-only set of charts of one run. Duplicate
// ids from different sources are kept as separate charts.
type Collection struct {
	Charts []Chart
}

func (c *Collection) Append(charts ...Chart) {
	c.Charts = append(c.Charts, charts...)
}

func (c *Collection) Len() int {
	return len(c.Charts)
}

// CountByDifficulty returns the number of charts per difficulty.
func (c *Collection) CountByDifficulty() map[Difficulty]int {
	out := map[Difficulty]int{}
	for _, ch := range c.Charts {
		out[ch.Difficulty]++
	}
	return out
}

// BuildTitle joins the base name with the romanized and alternate names that
// are present: "Name (Romanized/Alternate)".
func BuildTitle(name, romanized, alternate string) string {
	var parts []string
	if romanized != "" {
		parts = append(parts, romanized)
	}
	if alternate != "" {
		parts = append(parts, alternate)
	}
	if len(parts) == 0 {
		return name
	}
	return name + " (" + strings.Join(parts, "/") + ")"
}
