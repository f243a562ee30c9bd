package board

import (
	"strconv"
	"strings"
)

// ToDisplayText renders the board with column numbers across the top and
// row numbers down the side, matching the "<x> <y>" move format.
func (b Board) ToDisplayText() string {
	n := b.dim
	var sb strings.Builder
	header := make([]string, n)
	for i := range header {
		header[i] = strconv.Itoa(i)
	}
	frame := "   " + strings.TrimSpace(strings.Repeat("- ", n+1)) + "\n"

	sb.WriteString("    " + strings.Join(header, " ") + "\n")
	sb.WriteString(frame)
	for y := 0; y < n; y++ {
		sb.WriteString(strconv.Itoa(y) + " | ")
		for x := 0; x < n; x++ {
			sb.WriteByte(byte(b.At(x, y)))
			sb.WriteByte(' ')
		}
		sb.WriteString("|\n")
	}
	sb.WriteString(frame)
	return sb.String()
}
