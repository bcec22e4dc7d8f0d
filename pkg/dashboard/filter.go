package dashboard

import (
	"net/url"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// MaxScore is the best possible chart score.
const MaxScore = 1000000

type SortKey string

const (
	SortTitle      SortKey = "title"
	SortRating     SortKey = "rating"
	SortTier       SortKey = "tier"
	SortScore      SortKey = "score"
	SortDifficulty SortKey = "difficulty"
)

// SortKeys lists the keys in the order the UI offers them.
var SortKeys = []SortKey{SortTitle, SortRating, SortTier, SortScore, SortDifficulty}

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// Filter selects rows. All conditions must hold.
type Filter struct {
	// Search is a case-insensitive substring of the title; empty matches all.
	Search string
	// Rating keeps only rows with exactly this rating; nil keeps all.
	Rating *float64
	// IncludeNegativeTier keeps omni/removed charts (tier < 0).
	IncludeNegativeTier bool
	// MinScore and MaxScore bound the score, inclusive.
	MinScore float64
	MaxScore float64
}

func DefaultFilter() Filter {
	return Filter{MinScore: 0, MaxScore: MaxScore}
}

type Sort struct {
	Key       SortKey
	Direction Direction
}

func DefaultSort() Sort {
	return Sort{Key: SortTitle, Direction: Ascending}
}

// ParseSortKey returns the key named by s, or SortTitle.
func ParseSortKey(s string) SortKey {
	k := SortKey(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range SortKeys {
		if k == known {
			return k
		}
	}
	return SortTitle
}

// ParseDirection returns Descending for "desc", Ascending otherwise.
func ParseDirection(s string) Direction {
	if strings.ToLower(strings.TrimSpace(s)) == string(Descending) {
		return Descending
	}
	return Ascending
}

// Match reports whether a row passes every condition of the filter.
func (f Filter) Match(r Row) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(r.Title), strings.ToLower(f.Search)) {
		return false
	}
	if f.Rating != nil && r.Rating != *f.Rating {
		return false
	}
	if !f.IncludeNegativeTier && r.Tier < 0 {
		return false
	}
	return r.Score >= f.MinScore && r.Score <= f.MaxScore
}

// Apply filters and sorts rows into a new slice; rows is left untouched.
// Rows with equal keys are ordered by input position, and the direction
// applies to that tie-break too, so descending is exactly ascending reversed.
func Apply(rows []Row, f Filter, s Sort) []Row {
	pos := make([]int, 0, len(rows))
	for i, r := range rows {
		if f.Match(r) {
			pos = append(pos, i)
		}
	}

	cmp := comparator(s.Key)
	sign := 1
	if s.Direction == Descending {
		sign = -1
	}
	sort.Slice(pos, func(i, j int) bool {
		c := cmp(rows[pos[i]], rows[pos[j]])
		if c == 0 {
			c = pos[i] - pos[j]
		}
		return sign*c < 0
	})

	out := make([]Row, len(pos))
	for i, p := range pos {
		out[i] = rows[p]
	}
	return out
}

func comparator(key SortKey) func(a, b Row) int {
	switch key {
	case SortRating:
		return func(a, b Row) int { return compareFloat(a.Rating, b.Rating) }
	case SortTier:
		return func(a, b Row) int { return compareFloat(a.Tier, b.Tier) }
	case SortScore:
		return func(a, b Row) int { return compareFloat(a.Score, b.Score) }
	case SortDifficulty:
		return func(a, b Row) int { return difficultyRank[a.Difficulty] - difficultyRank[b.Difficulty] }
	default:
		// Collator keeps internal buffers, one per Apply call.
		c := collate.New(language.English)
		return func(a, b Row) int { return c.CompareString(a.Title, b.Title) }
	}
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Ratings lists the distinct ratings present in rows, ascending.
func Ratings(rows []Row) []float64 {
	seen := map[float64]bool{}
	var out []float64
	for _, r := range rows {
		if !seen[r.Rating] {
			seen[r.Rating] = true
			out = append(out, r.Rating)
		}
	}
	sort.Float64s(out)
	return out
}

// FromQuery reads a filter and sort configuration from URL query values:
// search, rating ("all" or a number), omni, minScore, maxScore, sortBy and
// sortOrder. Missing or invalid values keep their defaults.
func FromQuery(q url.Values) (Filter, Sort) {
	f := DefaultFilter()
	f.Search = strings.TrimSpace(q.Get("search"))

	if v := strings.TrimSpace(q.Get("rating")); v != "" && v != "all" {
		if rating, err := strconv.ParseFloat(v, 64); err == nil {
			f.Rating = &rating
		}
	}

	switch strings.ToLower(q.Get("omni")) {
	case "1", "true", "on", "yes":
		f.IncludeNegativeTier = true
	}

	if v, err := strconv.ParseFloat(q.Get("minScore"), 64); err == nil {
		f.MinScore = v
	}
	if v, err := strconv.ParseFloat(q.Get("maxScore"), 64); err == nil {
		f.MaxScore = v
	}

	return f, Sort{
		Key:       ParseSortKey(q.Get("sortBy")),
		Direction: ParseDirection(q.Get("sortOrder")),
	}
}

// Query is the inverse of FromQuery, used to build links that keep the
// current configuration.
func Query(f Filter, s Sort) url.Values {
	q := url.Values{}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.Rating != nil {
		q.Set("rating", strconv.FormatFloat(*f.Rating, 'f', -1, 64))
	}
	if f.IncludeNegativeTier {
		q.Set("omni", "1")
	}
	if f.MinScore != 0 {
		q.Set("minScore", strconv.FormatFloat(f.MinScore, 'f', -1, 64))
	}
	if f.MaxScore != MaxScore {
		q.Set("maxScore", strconv.FormatFloat(f.MaxScore, 'f', -1, 64))
	}
	q.Set("sortBy", string(s.Key))
	q.Set("sortOrder", string(s.Direction))
	return q
}
