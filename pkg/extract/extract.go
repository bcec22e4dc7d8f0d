// Package extract pulls JSON literals that pages embed as script variables,
// e.g. `let rawMetadata = [...];`. It is pattern based on purpose: the
// documents are not parsed as JavaScript.
package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/tidwall/gjson"
	"github.com/titanous/json5"
)

var (
	ErrNotFound  = errors.New("variable not found")
	ErrMalformed = errors.New("malformed literal")
)

func assignmentPattern(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)\b(?:var|let|const)\s+` + regexp.QuoteMeta(name) + `\s*=\s*(\[.*?\]|\{.*?\})\s*;`)
}

// Literal returns the array or object literal assigned to name in text.
// The literal ends at the first closing bracket followed by a semicolon.
func Literal(text, name string) (string, error) {
	m := assignmentPattern(name).FindStringSubmatch(text)
	if m == nil {
		return "", fmt.Errorf("%s: %w", name, ErrNotFound)
	}
	return m[1], nil
}

// FromHTML is Literal for HTML documents: script bodies are searched first,
// then the raw document text.
func FromHTML(doc, name string) (string, error) {
	d, err := goquery.NewDocumentFromReader(strings.NewReader(doc))
	if err == nil {
		var (
			lit   string
			found bool
		)
		d.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if l, err := Literal(s.Text(), name); err == nil {
				lit, found = l, true
				return false
			}
			return true
		})
		if found {
			return lit, nil
		}
	}
	return Literal(doc, name)
}

// Result parses the literal bound to name with gjson.
func Result(text, name string) (gjson.Result, error) {
	lit, err := Literal(text, name)
	if err != nil {
		return gjson.Result{}, err
	}
	if !gjson.Valid(lit) {
		return gjson.Result{}, fmt.Errorf("%s: %w: not valid JSON", name, ErrMalformed)
	}
	return gjson.Parse(lit), nil
}

// Decode unmarshals the literal bound to name into v. JSON5 is accepted so
// trailing commas and unquoted keys in hand-written scripts do not break the
// decode.
func Decode(lit, name string, v interface{}) error {
	if err := json5.Unmarshal([]byte(lit), v); err != nil {
		return fmt.Errorf("%s: %w: %v", name, ErrMalformed, err)
	}
	return nil
}
