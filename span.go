package tagger

import (
	"unicode/utf16"
	"unicode/utf8"
)

// Span is a half-open byte range [Start, End) into the source text together
// with a copy of the matched text. The boundary character that precedes a
// match is never part of the span.
type Span struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Kind  Kind   `json:"kind"`
	Text  string `json:"text"`
}

// Len returns the span length in bytes.
func (s Span) Len() int {
	return s.End - s.Start
}

// Overlaps reports whether s and o share at least one byte.
func (s Span) Overlaps(o Span) bool {
	return s.Start < o.End && o.Start < s.End
}

// RuneRange converts the span to rune offsets within text.
func (s Span) RuneRange(text string) (start, end int) {
	start = utf8.RuneCountInString(text[:s.Start])
	end = start + utf8.RuneCountInString(text[s.Start:s.End])
	return start, end
}

// UTF16Range converts the span to UTF-16 code unit offsets within text, the
// indexing used by Java and JavaScript text widgets.
func (s Span) UTF16Range(text string) (start, end int) {
	start = utf16Len(text[:s.Start])
	end = start + utf16Len(text[s.Start:s.End])
	return start, end
}

func utf16Len(s string) int {
	n := 0
	for _, r := range s {
		if l := utf16.RuneLen(r); l > 0 {
			n += l
		} else {
			n++
		}
	}
	return n
}
