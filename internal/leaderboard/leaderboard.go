// Package leaderboard renders author aggregates as fixed-width chat tables.
package leaderboard

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/Kamar-Folarin/commitboard/internal/models"
)

// Style selects how the table is wrapped
type Style string

const (
	StyleCode Style = "code"
	StyleText Style = "text"
)

const (
	DefaultTop        = 10
	DefaultPadAuthor  = 18
	DefaultPadNum     = 8
	DefaultSafeBudget = 1900

	// TruncationMarker ends a table cut at the safe budget.
	TruncationMarker = "\n…(truncated)"

	rankWidth = 3
	colSep    = "  "
	fence     = "```"
)

// Options controls Render. Zero values take the defaults.
type Options struct {
	Title            string
	Top              int
	IncludeDeletions bool
	IncludeTotal     bool
	Style            Style
	PadAuthor        int
	PadNum           int
	SafeBudget       int
}

func (o Options) withDefaults() Options {
	if o.Top <= 0 {
		o.Top = DefaultTop
	}
	if o.Style == "" {
		o.Style = StyleCode
	}
	if o.PadAuthor <= 0 {
		o.PadAuthor = DefaultPadAuthor
	}
	if o.PadNum <= 0 {
		o.PadNum = DefaultPadNum
	}
	if o.SafeBudget <= 0 {
		o.SafeBudget = DefaultSafeBudget
	}
	return o
}

// Render ranks rows by total and lays out the top entries as a table.
// The input slice is not modified.
func Render(rows []models.AuthorAggregate, opts Options) string {
	opts = opts.withDefaults()

	data := make([]models.AuthorAggregate, len(rows))
	copy(data, rows)
	sort.SliceStable(data, func(i, j int) bool {
		return data[i].Total > data[j].Total
	})
	if len(data) > opts.Top {
		data = data[:opts.Top]
	}

	headerCols := []string{
		padRight("#", rankWidth),
		padRight("Author", opts.PadAuthor),
		padLeft("add", opts.PadNum),
	}
	if opts.IncludeDeletions {
		headerCols = append(headerCols, padLeft("del", opts.PadNum))
	}
	if opts.IncludeTotal {
		headerCols = append(headerCols, padLeft("total", opts.PadNum))
	}
	header := strings.Join(headerCols, colSep)

	var lines []string
	if title := strings.TrimSpace(opts.Title); title != "" {
		lines = append(lines, title)
	}
	if opts.Style == StyleCode {
		lines = append(lines, fence)
	}
	lines = append(lines, header, strings.Repeat("-", runeLen(header)))

	for i, row := range data {
		author := row.Author
		if author == "" {
			author = models.UnknownAuthor
		}
		cols := []string{
			padRight(strconv.Itoa(i+1), rankWidth),
			padRight(author, opts.PadAuthor),
			padLeft(strconv.Itoa(row.Additions), opts.PadNum),
		}
		if opts.IncludeDeletions {
			cols = append(cols, padLeft(strconv.Itoa(row.Deletions), opts.PadNum))
		}
		if opts.IncludeTotal {
			cols = append(cols, padLeft(strconv.Itoa(row.Total), opts.PadNum))
		}
		lines = append(lines, strings.Join(cols, colSep))
	}

	if opts.Style == StyleCode {
		lines = append(lines, fence)
	}

	return truncate(strings.Join(lines, "\n"), opts.SafeBudget)
}

// RenderList numbers items inside a txt block, under an optional title.
func RenderList(items []string, title string) string {
	var lines []string
	if title != "" {
		lines = append(lines, title)
	}
	lines = append(lines, fence+"txt")
	for i, item := range items {
		lines = append(lines, fmt.Sprintf("%2d. %s", i+1, item))
	}
	lines = append(lines, fence)
	return strings.Join(lines, "\n")
}

func truncate(s string, budget int) string {
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	keep := budget - runeLen(TruncationMarker)
	if keep < 0 {
		keep = 0
	}
	return string(runes[:keep]) + TruncationMarker
}

// padRight left-aligns s in width columns, cutting it when too long.
func padRight(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return string(runes[:width])
	}
	return s + strings.Repeat(" ", width-len(runes))
}

// padLeft right-aligns s in width columns, cutting it when too long.
func padLeft(s string, width int) string {
	runes := []rune(s)
	if len(runes) >= width {
		return string(runes[:width])
	}
	return strings.Repeat(" ", width-len(runes)) + s
}

func runeLen(s string) int {
	return len([]rune(s))
}
