package printer

import (
	"strings"
	"unicode/utf8"
)

const (
	topLeftCorner    = "┌"
	bottomLeftCorner = "└"
	horizontalLine   = "─"
	titleLead        = "──────"
)

// wrapLine splits line into chunks of at most width characters.
// The split is a hard character boundary, so joining the chunks gives back line exactly.
func wrapLine(line string, width int) []string {
	if width <= 0 || utf8.RuneCountInString(line) <= width {
		return []string{line}
	}

	var (
		chunks = make([]string, 0, utf8.RuneCountInString(line)/width+1)
		start  int
		count  int
	)

	for i := range line {
		if count == width {
			chunks = append(chunks, line[start:i])
			start = i
			count = 0
		}

		count++
	}

	return append(chunks, line[start:])
}

// borderWidth returns the width of decoration lines for the given maximum line length.
func borderWidth(maxLineLength int) int {
	return min(maxLineLength, DefaultLineLength)
}

// topBorder builds "┌────── Title ─────" padded to width, dropping the title if it does not fit.
func topBorder(title string, width int) string {
	prefix := topLeftCorner + titleLead + " " + title + " "

	prefixLength := utf8.RuneCountInString(prefix)
	if prefixLength >= width {
		return topLeftCorner + strings.Repeat(horizontalLine, max(width-1, 0))
	}

	return prefix + strings.Repeat(horizontalLine, width-prefixLength)
}

// bottomBorder builds "└─────" of the given width.
func bottomBorder(width int) string {
	return bottomLeftCorner + strings.Repeat(horizontalLine, max(width-1, 0))
}

// isBorder reports whether line is a decoration line.
func isBorder(line string) bool {
	return strings.HasPrefix(line, topLeftCorner+horizontalLine) ||
		strings.HasPrefix(line, bottomLeftCorner+horizontalLine)
}
