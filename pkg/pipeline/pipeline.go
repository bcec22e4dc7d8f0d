// Package pipeline runs the scrape-and-merge pass over a data directory:
// song index, every difficulty-list page, the additional CSV, then the CSV
// export. All locations come from Config.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tierscope/tierscope/internal/utils"
	"github.com/tierscope/tierscope/pkg/charts"
	"github.com/tierscope/tierscope/pkg/songindex"
)

var (
	ErrNoDataDir = errors.New("data directory not found")
	ErrNoHTML    = errors.New("no HTML files found in data directory")
)

type Config struct {
	DataDir   string
	OutputDir string
}

// FileResult records what one difficulty-list page contributed.
type FileResult struct {
	Name   string
	Charts int
	Err    error
}

type Result struct {
	Collection charts.Collection
	Files      []FileResult
	// Additional is the number of charts taken from additional.csv.
	Additional int
	OutputPath string
}

// Failed returns the pages that could not be parsed.
func (r Result) Failed() []FileResult {
	var out []FileResult
	for _, f := range r.Files {
		if f.Err != nil {
			out = append(out, f)
		}
	}
	return out
}

// Run executes the whole pass. A missing data directory or a directory without
// any .html page aborts the run; a single bad page is logged and skipped.
func Run(ctx context.Context, cfg Config) (Result, error) {
	var res Result

	info, err := os.Stat(cfg.DataDir)
	if err != nil || !info.IsDir() {
		return res, fmt.Errorf("%w at %s", ErrNoDataDir, cfg.DataDir)
	}

	idx := songindex.Load(filepath.Join(cfg.DataDir, songindex.FileName))

	pages, err := htmlFiles(cfg.DataDir)
	if err != nil {
		return res, err
	}
	if len(pages) == 0 {
		return res, fmt.Errorf("%w: %s", ErrNoHTML, cfg.DataDir)
	}
	utils.Log.Infof("Found %d HTML file(s) to parse", len(pages))

	for _, name := range pages {
		if err := ctx.Err(); err != nil {
			return res, err
		}

		utils.Log.Infof("Parsing %s...", name)
		parsed, err := ParseFile(filepath.Join(cfg.DataDir, name), idx)
		if err != nil {
			utils.Log.Errorf("Error parsing %s: %v", name, err)
			res.Files = append(res.Files, FileResult{Name: name, Err: err})
			continue
		}
		res.Collection.Append(parsed...)
		res.Files = append(res.Files, FileResult{Name: name, Charts: len(parsed)})
		utils.Log.Infof("Added %d charts from %s", len(parsed), name)
	}

	res.Additional = appendAdditional(&res.Collection, cfg.DataDir)

	res.OutputPath, err = charts.ExportFile(cfg.OutputDir, res.Collection.Charts)
	if err != nil {
		return res, fmt.Errorf("exporting charts: %w", err)
	}
	utils.Log.Infof("Exported %d charts to %s", res.Collection.Len(), res.OutputPath)
	return res, nil
}

// ParseFile extracts and reconciles one difficulty-list page.
func ParseFile(path string, idx songindex.Index) ([]charts.Chart, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	page, err := charts.ExtractPage(string(data))
	if err != nil {
		return nil, err
	}
	return charts.Reconcile(page, idx), nil
}

func htmlFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".html") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func appendAdditional(c *charts.Collection, dataDir string) int {
	path := filepath.Join(dataDir, charts.AdditionalFileName)
	extra, found, err := charts.LoadAdditional(path)
	if err != nil {
		utils.Log.Errorf("Error loading %s: %v", charts.AdditionalFileName, err)
		return 0
	}
	if !found {
		utils.Log.Infof("No %s found, skipping additional charts", charts.AdditionalFileName)
		return 0
	}
	c.Append(extra...)
	utils.Log.Infof("Added %d additional charts from %s", len(extra), charts.AdditionalFileName)
	return len(extra)
}

// DifficultyCount is one line of the per-difficulty summary.
type DifficultyCount struct {
	Difficulty charts.Difficulty
	Count      int
}

// Summary counts charts per difficulty, ordered by difficulty code.
func Summary(c charts.Collection) []DifficultyCount {
	counts := c.CountByDifficulty()
	out := make([]DifficultyCount, 0, len(counts))
	for d, n := range counts {
		out = append(out, DifficultyCount{Difficulty: d, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Difficulty.Code() < out[j].Difficulty.Code()
	})
	return out
}
