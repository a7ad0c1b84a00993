// Package wordcount counts words in CFR documents.
//
// The canonical tokenization rule, used by every counting mode, is
// letter/digit run counting: a word is a maximal run of Unicode
// letters or digits. Punctuation-only tokens never count, and the
// result is independent of how the input is chunked.
package wordcount

import (
	"unicode"
	"unicode/utf8"
)

// Counter is an incremental word counter. Feed it arbitrary text
// chunks via Write; it carries word-in-progress state across chunk
// boundaries, so the total never depends on where the input was split.
// It holds at most one partial UTF-8 sequence between writes.
type Counter struct {
	total   int
	inWord  bool
	partial []byte
}

// Write consumes the next chunk of text. It never fails; the error is
// present to satisfy io.Writer.
func (c *Counter) Write(p []byte) (int, error) {
	n := len(p)
	if len(c.partial) > 0 {
		p = append(c.partial, p...)
		c.partial = nil
	}
	for len(p) > 0 {
		if !utf8.FullRune(p) {
			// Trailing bytes of a rune split across chunks.
			c.partial = append([]byte(nil), p...)
			break
		}
		r, size := utf8.DecodeRune(p)
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if !c.inWord {
				c.total++
				c.inWord = true
			}
		} else {
			c.inWord = false
		}
		p = p[size:]
	}
	return n, nil
}

// WriteString consumes a string chunk.
func (c *Counter) WriteString(s string) {
	_, _ = c.Write([]byte(s))
}

// Total returns the words counted so far. An incomplete trailing byte
// sequence cannot be a letter or digit, so nothing is pending.
func (c *Counter) Total() int {
	return c.total
}

// Reset clears the counter for reuse.
func (c *Counter) Reset() {
	c.total = 0
	c.inWord = false
	c.partial = nil
}

// CountText counts word-like tokens in a string.
func CountText(s string) int {
	inWord := false
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if !inWord {
				n++
				inWord = true
			}
		} else {
			inWord = false
		}
	}
	return n
}
