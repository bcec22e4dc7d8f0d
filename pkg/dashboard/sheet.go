// Package dashboard loads the published chart spreadsheet and derives the
// filtered, sorted tile grid shown by the web UI.
package dashboard

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/tierscope/tierscope/internal/utils"
	"github.com/tierscope/tierscope/pkg/whttp"
)

const (
	DefaultSpreadsheetID = "1T2sE9Wogz7lKdZ7bSOsQdEfutbKscQbBfhN79eQVFn0"
	DefaultSheetGID      = "2142633309"
)

var ErrEmptySheet = errors.New("empty spreadsheet")

// Difficulty is one of the four single-play difficulties the sheet tracks.
type Difficulty string

const (
	BSP Difficulty = "BSP"
	DSP Difficulty = "DSP"
	ESP Difficulty = "ESP"
	CSP Difficulty = "CSP"
)

var difficultyRank = map[Difficulty]int{BSP: 0, DSP: 1, ESP: 2, CSP: 3}

// ParseDifficulty falls back to BSP for anything unrecognized.
func ParseDifficulty(s string) Difficulty {
	d := Difficulty(strings.TrimSpace(s))
	if _, ok := difficultyRank[d]; ok {
		return d
	}
	return BSP
}

// Row is one chart of the spreadsheet. Score 0 means no recorded clear.
type Row struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Rating     float64    `json:"rating"`
	Tier       float64    `json:"tier"`
	Difficulty Difficulty `json:"difficulty"`
	YouTubeURL string     `json:"youtubeURL"`
	Score      float64    `json:"score"`
}

// Spreadsheet column headers.
const (
	colID         = "ID"
	colTitle      = "Title"
	colRating     = "Rating"
	colTier       = "Tier"
	colDifficulty = "Difficulty"
	colYouTube    = "yt"
	colScore      = "Score"
)

// SheetURL is the CSV export URL of one sheet of a published spreadsheet.
func SheetURL(spreadsheetID, gid string) string {
	return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s", spreadsheetID, gid)
}

// ParseSheet reads the exported CSV. The first record is the header; columns
// are looked up by header text. Rows without an ID or a Title are dropped.
func ParseSheet(r io.Reader) ([]Row, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parsing spreadsheet: %w", err)
	}

	var nonBlank [][]string
	for _, rec := range records {
		if !blank(rec) {
			nonBlank = append(nonBlank, rec)
		}
	}
	if len(nonBlank) == 0 {
		return nil, ErrEmptySheet
	}

	header := make([]string, len(nonBlank[0]))
	for i, h := range nonBlank[0] {
		header[i] = strings.TrimSpace(h)
	}

	rows := make([]Row, 0, len(nonBlank)-1)
	for _, rec := range nonBlank[1:] {
		values := make(map[string]string, len(header))
		for i, h := range header {
			if i < len(rec) {
				values[h] = strings.TrimSpace(rec[i])
			}
		}

		row := Row{
			ID:         values[colID],
			Title:      values[colTitle],
			Rating:     number(values[colRating]),
			Tier:       number(values[colTier]),
			Difficulty: ParseDifficulty(values[colDifficulty]),
			YouTubeURL: values[colYouTube],
			Score:      number(values[colScore]),
		}
		if row.ID == "" || row.Title == "" {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// number parses a numeric cell; missing or invalid values become 0.
func number(s string) float64 {
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// Fetch downloads and parses the sheet at url. A non-2xx response or an empty
// document is an error.
func Fetch(ctx context.Context, client *retryablehttp.Client, url string) ([]Row, error) {
	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{URL: url}, client)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch spreadsheet: %w", err)
	}
	utils.Log.Debugf("Fetched spreadsheet (%d bytes)", len(res.BodyString))

	rows, err := ParseSheet(strings.NewReader(res.BodyString))
	if err != nil {
		return nil, err
	}
	utils.Log.Infof("Parsed %d charts from spreadsheet", len(rows))
	return rows, nil
}
