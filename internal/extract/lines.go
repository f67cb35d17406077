package extract

import "bytes"

// line is one line of a window. end excludes the newline and any trailing '\r'.
type line struct {
	start, end int
	// complete is false for a final line with no newline yet.
	complete bool
}

// splitLines indexes the lines of window. The final unterminated line, if any,
// is included with complete=false.
func splitLines(window []byte) []line {
	var lines []line
	pos := 0
	for pos < len(window) {
		i := bytes.IndexByte(window[pos:], '\n')
		if i < 0 {
			lines = append(lines, line{start: pos, end: trimCR(window, pos, len(window))})
			break
		}
		lines = append(lines, line{start: pos, end: trimCR(window, pos, pos+i), complete: true})
		pos += i + 1
	}
	return lines
}

func trimCR(window []byte, start, end int) int {
	if end > start && window[end-1] == '\r' {
		return end - 1
	}
	return end
}
