// Package fetcher downloads the raw inputs of the pipeline (songdata.js and
// one difficulty-list page per level) into the data directory.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/tierscope/tierscope/internal/utils"
	"github.com/tierscope/tierscope/pkg/songindex"
	"github.com/tierscope/tierscope/pkg/whttp"
)

const (
	DefaultBaseURL = "https://3icecream.com"

	MinLevel = 1
	MaxLevel = 19
)

var ErrInvalidLevel = errors.New("difficulty must be a number between 1 and 19")

// ParseLevel validates a difficulty level given as text (flag or DIFFICULTY
// environment variable).
func ParseLevel(s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: not set", ErrInvalidLevel)
	}
	level, err := strconv.Atoi(s)
	if err != nil || level < MinLevel || level > MaxLevel {
		return 0, fmt.Errorf("%w: got %q", ErrInvalidLevel, s)
	}
	return level, nil
}

// Fetcher downloads into DataDir.
type Fetcher struct {
	Client  *retryablehttp.Client
	BaseURL string
	DataDir string
}

func (f *Fetcher) baseURL() string {
	if f.BaseURL == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(f.BaseURL, "/")
}

// LevelURL is the difficulty-list page for a level.
func (f *Fetcher) LevelURL(level int) string {
	return fmt.Sprintf("%s/difficulty_list/%d", f.baseURL(), level)
}

// SongDataURL is the location of songdata.js.
func (f *Fetcher) SongDataURL() string {
	return f.baseURL() + "/js/" + songindex.FileName
}

// Level downloads the difficulty-list page for level to DataDir/<level>.html.
// The level is validated before any request is made.
func (f *Fetcher) Level(ctx context.Context, level int) (string, error) {
	if level < MinLevel || level > MaxLevel {
		return "", fmt.Errorf("%w: got %d", ErrInvalidLevel, level)
	}

	url := f.LevelURL(level)
	utils.Log.Infof("Fetching %s...", url)
	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{URL: url}, f.Client)
	if err != nil {
		return "", fmt.Errorf("fetching level %d: %w", level, err)
	}
	utils.Log.Infof("Fetched %d bytes", len(res.BodyString))
	if res.HTTPTitle != "" {
		utils.Log.Debugf("Page title: %s", res.HTTPTitle)
	}

	return f.save(strconv.Itoa(level)+".html", res.BodyString)
}

// SongData downloads songdata.js unless it is already present (force
// re-downloads it). The song index is optional, so callers usually log the
// error and continue.
func (f *Fetcher) SongData(ctx context.Context, force bool) (string, error) {
	path := filepath.Join(f.DataDir, songindex.FileName)
	if !force {
		if _, err := os.Stat(path); err == nil {
			utils.Log.Infof("%s already exists, skipping download", songindex.FileName)
			return path, nil
		}
	}

	url := f.SongDataURL()
	utils.Log.Infof("Fetching %s...", url)
	res, err := whttp.SendHTTPRequest(ctx, &whttp.WHTTPReq{URL: url}, f.Client)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", songindex.FileName, err)
	}
	utils.Log.Infof("Fetched %s (%d bytes)", songindex.FileName, len(res.BodyString))

	return f.save(songindex.FileName, res.BodyString)
}

func (f *Fetcher) save(name, body string) (string, error) {
	if _, err := os.Stat(f.DataDir); os.IsNotExist(err) {
		if err := os.MkdirAll(f.DataDir, 0o755); err != nil {
			return "", err
		}
		utils.Log.Infof("Created directory: %s", f.DataDir)
	}

	path := filepath.Join(f.DataDir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", err
	}
	utils.Log.Infof("Saved to %s", path)
	return path, nil
}
