// Package diff provides unified diff generation.
package diff

import (
	"strings"

	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
)

// contextLines is the number of unchanged lines shown around each hunk.
const contextLines = 3

// noNewline marks a last line that lacks a line terminator.
const noNewline = "\n\\ No newline at end of file\n"

// Unified generates a unified diff between oldText and newText.
// Returns an empty string if the inputs are identical.
func Unified(filename, oldText, newText string) string {
	if oldText == newText {
		return ""
	}

	d, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        splitLines(oldText),
		B:        splitLines(newText),
		FromFile: "a/" + filename,
		ToFile:   "b/" + filename,
		Context:  contextLines,
	})
	if err != nil {
		// Writes go to a strings.Builder and cannot fail.
		panic(err)
	}
	return d
}

// splitLines splits text into newline-terminated lines. An empty string
// produces zero lines; an unterminated last line is marked the way diff(1)
// marks it.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	// SplitAfter leaves an empty trailing element when s ends with \n.
	if lines[len(lines)-1] == "" {
		return lines[:len(lines)-1]
	}
	lines[len(lines)-1] += noNewline
	return lines
}

var (
	headerColor = color.New(color.Bold)
	hunkColor   = color.New(color.FgCyan)
	addColor    = color.New(color.FgGreen)
	delColor    = color.New(color.FgRed)
)

// Colorize returns d with ANSI colors: bold file headers, cyan hunk
// headers, green additions and red deletions. Colors are always emitted;
// callers decide whether the output supports them.
func Colorize(d string) string {
	if d == "" {
		return ""
	}

	var b strings.Builder
	for _, line := range strings.SplitAfter(d, "\n") {
		if line == "" {
			continue
		}
		text, nl := strings.CutSuffix(line, "\n")
		var c *color.Color
		switch {
		case strings.HasPrefix(text, "+++"), strings.HasPrefix(text, "---"):
			c = headerColor
		case strings.HasPrefix(text, "@@"):
			c = hunkColor
		case strings.HasPrefix(text, "+"):
			c = addColor
		case strings.HasPrefix(text, "-"):
			c = delColor
		}
		if c != nil {
			text = sprint(c, text)
		}
		b.WriteString(text)
		if nl {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func sprint(c *color.Color, s string) string {
	forced := *c
	forced.EnableColor()
	return forced.Sprint(s)
}
