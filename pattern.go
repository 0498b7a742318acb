package tagger

import (
	"regexp"
)

// Kind is the category of a matched span.
type Kind uint8

const (
	// KindTag marks an @mention or #hashtag.
	KindTag Kind = iota + 1
	// KindLink marks an http or https URL.
	KindLink
)

// String returns the category name of the kind.
func (k Kind) String() string {
	switch k {
	case KindTag:
		return "mention_or_hashtag"
	case KindLink:
		return "link"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

const (
	// whitespace is the classic \s set including vertical tab, which RE2's \s lacks.
	whitespace = `\t\n\v\f\r `
	// tagExcluded lists the characters that end a tag body.
	tagExcluded = `@#` + whitespace + `\^!"§%&/()=?´°{\[\]}\\` + "`" + `+\-*'~.,;:<>|`

	boundary = `(?:^|[` + whitespace + `])`
)

// Pattern is an immutable lexical rule. The compiled expression has a single
// capture group holding the reported span; anything before it is the boundary.
type Pattern struct {
	kind Kind
	re   *regexp.Regexp
}

var (
	// TagPattern matches @mentions and #hashtags preceded by whitespace or the start of text.
	TagPattern = newPattern(KindTag, boundary+`([@#][^`+tagExcluded+`]+)`)
	// LinkPattern matches http(s) URLs preceded by whitespace or the start of text.
	LinkPattern = newPattern(KindLink, boundary+`(https?://[^`+whitespace+`]+)`)
)

func newPattern(kind Kind, expr string) Pattern {
	return Pattern{kind: kind, re: regexp.MustCompile(expr)}
}

// Kind returns the category assigned to spans found by the pattern.
func (p Pattern) Kind() Kind {
	return p.kind
}

// String returns the source of the compiled expression.
func (p Pattern) String() string {
	return p.re.String()
}

// Find returns every match in text, in ascending offset order.
//
// RE2 has no lookbehind, so the boundary is consumed by the match and the
// span is taken from the capture group instead. The ^ alternative lets a
// match at offset 0 through without padding the text.
func (p Pattern) Find(text string) []Span {
	return p.appendMatches(nil, text, 0)
}

// appendMatches appends the matches in text to dst with offsets shifted by base.
func (p Pattern) appendMatches(dst []Span, text string, base int) []Span {
	for _, m := range p.re.FindAllStringSubmatchIndex(text, -1) {
		start, end := m[2], m[3]
		if start < 0 || end <= start {
			continue
		}
		dst = append(dst, Span{
			Start: base + start,
			End:   base + end,
			Kind:  p.kind,
			Text:  text[start:end],
		})
	}
	return dst
}
