package yamlmodel

import "bytes"

// LineIndex maps 1-based (line, column) pairs from yaml.v3 to byte offsets
// and back. yaml.v3 only gives us line/column; every renderer and patch
// consumer in this module works in byte offsets, so this is the one place
// that bridges the two.
type LineIndex struct {
	text    []byte
	offsets []int // offsets[i] = byte offset of the start of line i+1
}

// NewLineIndex scans text once for line-start offsets.
func NewLineIndex(text []byte) *LineIndex {
	offsets := []int{0}
	start := 0
	for {
		i := bytes.IndexByte(text[start:], '\n')
		if i < 0 {
			break
		}
		start += i + 1
		offsets = append(offsets, start)
	}
	return &LineIndex{text: text, offsets: offsets}
}

// Offset converts a 1-based (line, column) pair, both counted in runes per
// yaml.v3 convention, into a byte offset into text.
func (li *LineIndex) Offset(line, column int) int {
	if line < 1 {
		line = 1
	}
	if line > len(li.offsets) {
		return len(li.text)
	}
	lineStart := li.offsets[line-1]
	lineEnd := len(li.text)
	if line < len(li.offsets) {
		lineEnd = li.offsets[line]
	}
	return lineStart + runeOffset(li.text[lineStart:lineEnd], column-1)
}

// runeOffset returns the byte offset of the nth rune (0-based) within b, or
// len(b) if n exceeds the number of runes present.
func runeOffset(b []byte, n int) int {
	if n <= 0 {
		return 0
	}
	count := 0
	for i, r := range string(b) {
		if count == n {
			return i
		}
		_ = r
		count++
	}
	return len(b)
}

// LineCol converts a byte offset back to a 1-based (line, column) pair,
// used by renderers that print "file:line:col".
func (li *LineIndex) LineCol(offset int) (line, column int) {
	// binary search for the last line start <= offset
	lo, hi := 0, len(li.offsets)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if li.offsets[mid] <= offset {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	lineStart := li.offsets[lo]
	end := offset
	if end > len(li.text) {
		end = len(li.text)
	}
	col := 1
	for i := range string(li.text[lineStart:end]) {
		_ = i
		col++
	}
	return lo + 1, col
}
