package charts

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tierscope/tierscope/internal/utils"
)

// OutputFileName is the name of the exported CSV inside the output directory.
const OutputFileName = "charts.csv"

// Header is the column order of the exported CSV.
var Header = []string{"ID", "Title", "Difficulty", "Rating", "Tier", "YouTube URL"}

// sanitizeCSVField quotes a field only when it contains a comma, a newline or
// a double quote. Inner quotes are doubled.
func sanitizeCSVField(field string) string {
	if strings.ContainsAny(field, ",\n\"") {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return field
}

func csvRow(fields []string) string {
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = sanitizeCSVField(f)
	}
	return strings.Join(out, ",")
}

// Row returns the exported fields of a chart in Header order.
func (c Chart) Row() []string {
	return []string{
		c.ID,
		c.Title,
		string(c.Difficulty),
		utils.FormatNumber(c.Rating),
		utils.FormatNumber(c.Tier),
		c.YouTubeURL,
	}
}

// WriteCSV writes the header and one row per chart, in collection order.
// Rows are separated by "\n"; there is no trailing newline.
func WriteCSV(w io.Writer, charts []Chart) error {
	bw := bufio.NewWriter(w)
	if _, err := bw.WriteString(csvRow(Header)); err != nil {
		return err
	}
	for _, c := range charts {
		if _, err := bw.WriteString("\n" + csvRow(c.Row())); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// ExportFile writes charts to dir/charts.csv, creating dir when needed, and
// returns the written path.
func ExportFile(dir string, charts []Chart) (string, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", err
		}
		utils.Log.Infof("Created directory: %s", dir)
	}

	path := filepath.Join(dir, OutputFileName)
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}

	if err := WriteCSV(f, charts); err != nil {
		f.Close()
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}
