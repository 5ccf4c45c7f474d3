package print

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/bgunnarsson/insuresql/internal/db"
)

var (
	ErrWidthMismatch = errors.New("display widths do not match column count")
	ErrRowShape      = errors.New("row cell count does not match column count")
	ErrInvalidWidth  = errors.New("display width must not be negative")
)

const defaultMaxWidth = 40

type Options struct {
	// Widths fixes the display width per column; nil derives them via AutoWidths.
	Widths   []int
	MaxWidth int // cap for derived widths, 0 = 40
}

func RenderTable(w io.Writer, rows *db.Rows, opts Options) error {
	widths := opts.Widths
	if widths == nil {
		widths = AutoWidths(rows, opts.MaxWidth)
	}
	out, err := Format(rows, widths)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

// Format renders rows as a bordered fixed-width table:
//
//	2 rows selected.
//	----------------
//	| ID |  Name   |
//	----------------
//	| 1  |  Anna   |
//	| 2  |  Jonas  |
//	----------------
//
// Every cell, header included, goes through Fit. A result without data rows
// renders as the single line "No rows selected.".
func Format(rows *db.Rows, widths []int) (string, error) {
	if rows == nil {
		rows = &db.Rows{}
	}
	cols := len(rows.Columns)
	if len(widths) != cols {
		return "", fmt.Errorf("%w: %d widths for %d columns", ErrWidthMismatch, len(widths), cols)
	}
	total := cols + 1
	for i, n := range widths {
		if n < 0 {
			return "", fmt.Errorf("%w: column %d has width %d", ErrInvalidWidth, i+1, n)
		}
		total += n
	}
	for i, r := range rows.Data {
		if len(r) != cols {
			return "", fmt.Errorf("%w: row %d has %d cells, want %d", ErrRowShape, i+1, len(r), cols)
		}
	}

	if len(rows.Data) == 0 {
		return rowCountLine(0) + "\n", nil
	}

	bar := strings.Repeat("-", total)
	lines := make([]string, 0, len(rows.Data)+5)
	lines = append(lines, rowCountLine(len(rows.Data)), bar)

	header := make([]string, cols)
	for i, col := range rows.Columns {
		header[i] = flattenControls(col.Name)
	}
	lines = append(lines, joinCells(header, widths), bar)

	cells := make([]string, cols)
	for _, r := range rows.Data {
		for i, v := range r {
			cells[i] = formatCell(v)
		}
		lines = append(lines, joinCells(cells, widths))
	}
	lines = append(lines, bar)

	return strings.Join(lines, "\n") + "\n", nil
}

func rowCountLine(n int) string {
	switch n {
	case 0:
		return "No rows selected."
	case 1:
		return "1 row selected."
	default:
		return strconv.Itoa(n) + " rows selected."
	}
}

func joinCells(cells []string, widths []int) string {
	var b strings.Builder
	b.WriteString("|")
	for i, c := range cells {
		b.WriteString(Fit(c, widths[i]))
		b.WriteString("|")
	}
	return b.String()
}

// Fit returns text as exactly width runes: longer text keeps its left-most
// runes, shorter text is centered with the smaller half of the padding on
// the left.
func Fit(text string, width int) string {
	if width <= 0 {
		return ""
	}
	n := utf8.RuneCountInString(text)
	if n > width {
		return truncateRunes(text, width)
	}
	pad := width - n
	left := pad / 2
	return strings.Repeat(" ", left) + text + strings.Repeat(" ", pad-left)
}

// AutoWidths sizes each column to its widest label, declared length or
// cell text, capped at maxWidth.
func AutoWidths(rows *db.Rows, maxWidth int) []int {
	if maxWidth <= 0 {
		maxWidth = defaultMaxWidth
	}
	if rows == nil {
		return []int{}
	}

	widths := make([]int, len(rows.Columns))
	for i, col := range rows.Columns {
		widths[i] = utf8.RuneCountInString(col.Name)
		if col.Length > widths[i] {
			widths[i] = col.Length
		}
	}

	for _, r := range rows.Data {
		for i, cell := range r {
			if i >= len(widths) {
				break
			}
			if l := utf8.RuneCountInString(formatCell(cell)); l > widths[i] {
				widths[i] = l
			}
		}
	}

	for i := range widths {
		widths[i] = min(widths[i], maxWidth)
	}
	return widths
}

// formatCell renders v as single-line cell text.
func formatCell(v any) string {
	return flattenControls(cellText(v))
}

func cellText(v any) string {
	if v == nil {
		return "NULL"
	}
	switch t := v.(type) {
	case string:
		return t
	case []byte:
		// heuristic: treat as string if printable, else show len
		s := string(t)
		if isPrintable(s) {
			return s
		}
		return fmt.Sprintf("<blob %d bytes>", len(t))
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format(time.DateOnly)
		}
		return t.Format(time.RFC3339)
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func isPrintable(s string) bool {
	if !utf8.ValidString(s) {
		return false
	}
	for _, r := range s {
		if r < 32 && r != '\n' && r != '\t' {
			return false
		}
	}
	return true
}

// flattenControls replaces control runes with a space so every cell keeps
// the width of one table line.
func flattenControls(s string) string {
	if strings.IndexFunc(s, unicode.IsControl) < 0 {
		return s
	}
	return strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, s)
}

func truncateRunes(s string, n int) string {
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
