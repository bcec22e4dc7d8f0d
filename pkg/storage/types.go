package storage

import "time"

// Run is one archived pipeline run.
type Run struct {
	ID         string
	CreatedAt  time.Time
	ChartCount int
}

// DifficultyStats counts the charts of a run at one difficulty.
type DifficultyStats struct {
	Difficulty string
	ChartCount int
	SongCount  int
	MinRating  float64
	MaxRating  float64
}
