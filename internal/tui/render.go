package tui

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/commitlens/commitlens/internal/diff"
	"github.com/commitlens/commitlens/internal/prefs"
)

const numWidth = 4

// renderDiff lays a file diff out as styled terminal lines for the
// given view mode and width.
func renderDiff(f diff.FileDiff, mode prefs.ViewMode, width int) (string, error) {
	if f.IsBinary {
		return mutedStyle.Render("Binary file not shown"), nil
	}
	if mode == prefs.ViewUnified {
		return renderUnified(f, width)
	}
	return renderSplit(f, width)
}

func renderUnified(f diff.FileDiff, width int) (string, error) {
	rows, err := diff.UnifiedRows(f)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	hunks := f.Hunks
	rowIdx := 0
	for _, h := range hunks {
		b.WriteString(hunkStyle.Render(truncate(h.Header, width)))
		b.WriteByte('\n')
		for range h.Lines {
			r := rows[rowIdx]
			rowIdx++
			b.WriteString(renderUnifiedRow(r, width))
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

func renderUnifiedRow(r diff.UnifiedRow, width int) string {
	var marker byte
	var style = contextStyle
	switch r.Type {
	case diff.LineAddition:
		marker, style = '+', addStyle
	case diff.LineDeletion:
		marker, style = '-', deleteStyle
	default:
		marker = ' '
	}
	line := fmt.Sprintf("%s %s %c%s",
		lineNum(r.OldNum), lineNum(r.NewNum), marker, r.Content)
	return style.Render(truncate(line, width))
}

func renderSplit(f diff.FileDiff, width int) (string, error) {
	rows, err := diff.SplitRows(f)
	if err != nil {
		return "", err
	}
	// Two columns with a separator between them.
	colWidth := (width - 3) / 2
	if colWidth < numWidth+2 {
		colWidth = numWidth + 2
	}
	sep := mutedStyle.Render(" │ ")

	var b strings.Builder
	rowIdx := 0
	for _, h := range f.Hunks {
		b.WriteString(hunkStyle.Render(truncate(h.Header, width)))
		b.WriteByte('\n')
		n := splitRowCount(h)
		for ; rowIdx < len(rows) && n > 0; n-- {
			r := rows[rowIdx]
			rowIdx++
			left := renderCell(r.Left, r.Right, true, colWidth)
			right := renderCell(r.Right, r.Left, false, colWidth)
			b.WriteString(left)
			b.WriteString(sep)
			b.WriteString(right)
			b.WriteByte('\n')
		}
	}
	return strings.TrimRight(b.String(), "\n"), nil
}

// splitRowCount computes how many split rows one hunk produces: paired
// change runs collapse to the longer side.
func splitRowCount(h diff.Hunk) int {
	total := 0
	dels, adds := 0, 0
	flush := func() {
		total += max(dels, adds)
		dels, adds = 0, 0
	}
	for _, l := range h.Lines {
		switch l.Type {
		case diff.LineDeletion:
			dels++
		case diff.LineAddition:
			adds++
		default:
			flush()
			total++
		}
	}
	flush()
	return total
}

// renderCell renders one side of a split row padded to the column
// width. other is the opposite cell, used to classify the row.
func renderCell(c, other *diff.Cell, left bool, width int) string {
	if c == nil {
		return strings.Repeat(" ", width)
	}
	style := contextStyle
	if other == nil {
		if left {
			style = deleteStyle
		} else {
			style = addStyle
		}
	} else if c.Content != other.Content {
		if left {
			style = deleteStyle
		} else {
			style = addStyle
		}
	}
	line := fmt.Sprintf("%s %s", lineNum(c.Num), c.Content)
	return style.Render(pad(truncate(line, width), width))
}

func lineNum(n int) string {
	if n == 0 {
		return strings.Repeat(" ", numWidth)
	}
	return fmt.Sprintf("%*d", numWidth, n)
}

func truncate(s string, width int) string {
	return runewidth.Truncate(s, width, "…")
}

func pad(s string, width int) string {
	return runewidth.FillRight(s, width)
}
