package charts

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/tierscope/tierscope/internal/utils"
)

// AdditionalFileName is the hand-maintained CSV of charts missing from the site.
const AdditionalFileName = "additional.csv"

// minAdditionalFields is id,title,difficulty,rating,tier; the YouTube URL
// column is optional.
const minAdditionalFields = 5

// ParseAdditional reads charts from the additional CSV, one chart per line in
// the order id,title,difficulty,rating,tier[,youtubeURL]. Bad lines are logged
// and skipped; the second return value counts them. A leading header line
// starting with "ID" is ignored.
func ParseAdditional(text string) ([]Chart, int) {
	var (
		charts  []Chart
		skipped int
	)

	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		lineNo := i + 1
		line = strings.TrimSuffix(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		fields, err := splitCSVLine(line)
		if err != nil {
			utils.Log.Warnf("Skipping malformed line %d: %v", lineNo, err)
			skipped++
			continue
		}

		if len(fields) < minAdditionalFields {
			utils.Log.Warnf("Skipping invalid line %d (%d fields): %s", lineNo, len(fields), line)
			skipped++
			continue
		}

		if lineNo == 1 && strings.EqualFold(strings.TrimSpace(fields[0]), "id") {
			continue
		}

		chart, err := additionalChart(fields)
		if err != nil {
			utils.Log.Warnf("Skipping line %d: %v", lineNo, err)
			skipped++
			continue
		}
		charts = append(charts, chart)
	}

	return charts, skipped
}

func splitCSVLine(line string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(line))
	r.FieldsPerRecord = -1
	fields, err := r.Read()
	if err == io.EOF {
		return nil, nil
	}
	return fields, err
}

func additionalChart(fields []string) (Chart, error) {
	id := strings.TrimSpace(fields[0])
	title := strings.TrimSpace(fields[1])
	difficultyField := strings.TrimSpace(fields[2])
	ratingField := strings.TrimSpace(fields[3])
	tierField := strings.TrimSpace(fields[4])

	difficulty, ok := ParseDifficulty(difficultyField)
	if !ok {
		return Chart{}, fmt.Errorf("invalid difficulty %q for chart %s", difficultyField, id)
	}

	rating, err := strconv.ParseFloat(ratingField, 64)
	if err != nil {
		return Chart{}, fmt.Errorf("invalid rating %q for chart %s", ratingField, id)
	}

	var tier float64
	if tierField != "" {
		tier, err = strconv.ParseFloat(tierField, 64)
		if err != nil {
			return Chart{}, fmt.Errorf("invalid tier %q for chart %s", tierField, id)
		}
	}

	youtubeURL := ""
	if len(fields) > minAdditionalFields {
		youtubeURL = NormalizeVideoURL(fields[minAdditionalFields])
	}

	return Chart{
		ID:         id,
		Title:      title,
		Rating:     rating,
		Tier:       tier,
		Difficulty: difficulty,
		YouTubeURL: youtubeURL,
	}, nil
}

// LoadAdditional reads the additional CSV at path. A missing file is not an
// error: found is false and no charts are returned.
func LoadAdditional(path string) (charts []Chart, found bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, true, fmt.Errorf("reading %s: %w", path, err)
	}

	charts, skipped := ParseAdditional(string(data))
	if skipped > 0 {
		utils.Log.Warnf("Skipped %d line(s) of %s", skipped, path)
	}
	return charts, true, nil
}
