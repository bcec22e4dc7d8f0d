package utils

import (
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
)

// NewTable returns a rounded-style table that renders to w.
func NewTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}
