// Package report renders the leaderboard as a plain-text table for the CLI.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	models "github.com/CodeAndHammer/typeproof/internal/models"
)

const maxNameWidth = 24

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C0C0C0")).Bold(true)
	rankStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
)

type Options struct {
	// Color forces ANSI styling on even when w is not a terminal.
	Color bool
}

type column struct {
	title string
	right bool
}

var columns = []column{
	{"#", true},
	{"Name", false},
	{"Score", true},
	{"WPM", true},
	{"Acc", true},
	{"Chars", true},
	{"Date", false},
}

// Render writes records as an aligned table. Widths are measured in terminal
// cells so wide (CJK) names line up.
func Render(w io.Writer, records []models.ScoreRecord, opts Options) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No scores yet.")
		return err
	}

	color := shouldUseColor(w, opts.Color)
	rows := buildRows(records)

	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = runewidth.StringWidth(col.title)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	header := make([]string, len(columns))
	for i, col := range columns {
		header[i] = pad(col.title, widths[i], col.right)
	}
	if err := writeLine(w, strings.Join(header, "  "), headerStyle, color); err != nil {
		return err
	}
	rule := make([]string, len(columns))
	for i := range columns {
		rule[i] = strings.Repeat("-", widths[i])
	}
	if err := writeLine(w, strings.Join(rule, "  "), mutedStyle, color); err != nil {
		return err
	}

	for _, row := range rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = pad(cell, widths[i], columns[i].right)
		}
		if color {
			cells[0] = rankStyle.Render(cells[0])
		}
		if _, err := fmt.Fprintln(w, strings.Join(cells, "  ")); err != nil {
			return err
		}
	}
	return nil
}

func buildRows(records []models.ScoreRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for i, rec := range records {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			runewidth.Truncate(rec.Name, maxNameWidth, "…"),
			strconv.Itoa(rec.Score),
			strconv.Itoa(rec.WPM),
			strconv.Itoa(rec.Accuracy) + "%",
			strconv.Itoa(rec.CorrectChars),
			rec.Date,
		})
	}
	return rows
}

func pad(s string, width int, right bool) string {
	if right {
		return runewidth.FillLeft(s, width)
	}
	return runewidth.FillRight(s, width)
}

func writeLine(w io.Writer, line string, style lipgloss.Style, color bool) error {
	if color {
		line = style.Render(line)
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

func shouldUseColor(w io.Writer, force bool) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if force {
		return true
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}
