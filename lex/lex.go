// Package lex provides the small lexical helpers shared by the config
// loader and log parser: coordinate parsing, whitespace/paren
// trimming, bounded line copies, and colon/bar field splitting.
package lex

import (
	"errors"
	"strconv"
	"strings"

	"github.com/kestrel-play/taskcheck/model"
)

// ErrNoComma is returned by ParseCoords when the input has no comma
// separating the two coordinate halves.
var ErrNoComma = errors.New("coordinate has no comma separator")

// MaxLineBytes is the maximum length of a single config or log line
// (spec §6: "Maximum line length 4095 bytes").
const MaxLineBytes = 4095

// ParseCoords parses a "(x,y)" or "x,y" string into a Point. Leading
// whitespace and an optional leading '(' are trimmed first; trailing
// whitespace and an optional trailing ')' are trimmed last. The
// remainder is split on the first comma and each half is parsed as a
// float32.
func ParseCoords(s string) (model.Point, error) {
	s = strings.TrimLeft(s, " \t")
	s = strings.TrimPrefix(s, "(")
	s = strings.TrimRight(s, " \t")
	s = strings.TrimSuffix(s, ")")

	idx := strings.IndexByte(s, ',')
	if idx < 0 {
		return model.Point{}, ErrNoComma
	}

	xStr := strings.TrimSpace(s[:idx])
	yStr := strings.TrimSpace(s[idx+1:])

	x, err := strconv.ParseFloat(xStr, 32)
	if err != nil {
		return model.Point{}, err
	}
	y, err := strconv.ParseFloat(yStr, 32)
	if err != nil {
		return model.Point{}, err
	}

	return model.Point{X: float32(x), Y: float32(y)}, nil
}

// BoundedCopy truncates s to MaxLineBytes bytes, returning it
// unchanged if it is already within bounds.
func BoundedCopy(s string) string {
	if len(s) <= MaxLineBytes {
		return s
	}
	return s[:MaxLineBytes]
}

// SplitColon splits a line into exactly n ':'-separated fields,
// trimming surrounding whitespace from the original line first. ok is
// false if the line doesn't split into exactly n fields.
func SplitColon(line string, n int) ([]string, bool) {
	fields := strings.Split(strings.TrimSpace(line), ":")
	if len(fields) != n {
		return nil, false
	}
	return fields, true
}

// ParseFloatOrZero parses s as a float32, treating an empty (after
// trimming) string as 0 rather than an error.
func ParseFloatOrZero(s string) (float32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 32)
	if err != nil {
		return 0, err
	}
	return float32(v), nil
}

// SplitBar splits a '|'-delimited row into exactly n fields, trimming
// whitespace from each field.
func SplitBar(line string, n int) ([]string, bool) {
	parts := strings.Split(line, "|")
	if len(parts) != n {
		return nil, false
	}
	fields := make([]string, n)
	for i, p := range parts {
		fields[i] = strings.TrimSpace(p)
	}
	return fields, true
}
