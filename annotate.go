package tagger

import (
	"errors"
	"sort"
)

// ErrNilHandler is returned by the interactive variants when no handler is given.
var ErrNilHandler = errors.New("tag handler is nil")

// Mode selects which patterns are applied.
type Mode uint8

const (
	// TagsOnly finds @mentions and #hashtags.
	TagsOnly Mode = iota
	// TagsAndLinks additionally finds http(s) links.
	TagsAndLinks
)

// TagHandler receives the matched text of a clicked span.
type TagHandler interface {
	HandleTag(tag string)
}

// TagHandlerFunc adapts a function to TagHandler.
type TagHandlerFunc func(tag string)

// HandleTag calls f(tag).
func (f TagHandlerFunc) HandleTag(tag string) {
	f(tag)
}

// Annotation is a span plus presentation. Handler is nil for presentation-only
// annotations; binding it to real input events is up to the host.
type Annotation struct {
	Span
	Color   Color
	Handler TagHandler
}

// Click delivers the matched text to the handler. It reports false when no
// handler is attached.
func (a Annotation) Click() bool {
	if a.Handler == nil {
		return false
	}
	a.Handler.HandleTag(a.Text)
	return true
}

// Interactive reports whether a click handler is attached.
func (a Annotation) Interactive() bool {
	return a.Handler != nil
}

// AnnotatedText is the input text, unchanged, with its annotations in
// ascending offset order.
type AnnotatedText struct {
	Text        string
	Annotations []Annotation
}

// Segment is a run of text, annotated or not.
type Segment struct {
	Text       string
	Annotation *Annotation
}

// Segments splits the text into plain and annotated runs covering it completely.
func (t AnnotatedText) Segments() []Segment {
	out := make([]Segment, 0, 2*len(t.Annotations)+1)
	prev := 0
	for i := range t.Annotations {
		a := &t.Annotations[i]
		if a.Start > prev {
			out = append(out, Segment{Text: t.Text[prev:a.Start]})
		}
		out = append(out, Segment{Text: t.Text[a.Start:a.End], Annotation: a})
		prev = a.End
	}
	if prev < len(t.Text) {
		out = append(out, Segment{Text: t.Text[prev:]})
	}
	return out
}

// Spans returns the spans of all annotations.
func (t AnnotatedText) Spans() []Span {
	out := make([]Span, len(t.Annotations))
	for i, a := range t.Annotations {
		out[i] = a.Span
	}
	return out
}

// At returns the annotation covering the byte offset, if any.
func (t AnnotatedText) At(offset int) (Annotation, bool) {
	i := sort.Search(len(t.Annotations), func(i int) bool {
		return t.Annotations[i].End > offset
	})
	if i < len(t.Annotations) && t.Annotations[i].Start <= offset {
		return t.Annotations[i], true
	}
	return Annotation{}, false
}

// ClickAt simulates a click at the byte offset and reports whether a handler ran.
func (t AnnotatedText) ClickAt(offset int) bool {
	a, ok := t.At(offset)
	if !ok {
		return false
	}
	return a.Click()
}

// Scan returns the spans found in text for the given mode, ordered by start
// offset, with tags before links and no two spans overlapping.
func Scan(text string, mode Mode) []Span {
	return scanAt(text, 0, mode)
}

func scanAt(text string, base int, mode Mode) []Span {
	spans := TagPattern.appendMatches(nil, text, base)
	if mode != TagsAndLinks {
		return spans
	}
	return mergeSpans(spans, LinkPattern.appendMatches(nil, text, base))
}

// mergeSpans orders tags and links together. The character classes keep the
// two sets apart; anything overlapping an earlier span is dropped regardless.
func mergeSpans(tags, links []Span) []Span {
	if len(links) == 0 {
		return tags
	}
	if len(tags) == 0 {
		return links
	}
	all := make([]Span, 0, len(tags)+len(links))
	all = append(all, tags...)
	all = append(all, links...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].Start < all[j].Start
	})
	out := all[:1]
	for _, s := range all[1:] {
		if s.Overlaps(out[len(out)-1]) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func annotate(text string, mode Mode, color Color, handler TagHandler) AnnotatedText {
	spans := Scan(text, mode)
	at := AnnotatedText{Text: text}
	if len(spans) == 0 {
		return at
	}
	at.Annotations = make([]Annotation, len(spans))
	for i, s := range spans {
		at.Annotations[i] = Annotation{Span: s, Color: color, Handler: handler}
	}
	return at
}

func checkHandler(h TagHandler) error {
	if h == nil {
		return ErrNilHandler
	}
	if f, ok := h.(TagHandlerFunc); ok && f == nil {
		return ErrNilHandler
	}
	return nil
}

// Annotate colors @mentions and #hashtags and attaches onTag as their click handler.
func Annotate(text string, color Color, onTag TagHandler) (AnnotatedText, error) {
	if err := checkHandler(onTag); err != nil {
		return AnnotatedText{}, err
	}
	return annotate(text, TagsOnly, color, onTag), nil
}

// AnnotateWithLinks is Annotate with http(s) links included.
func AnnotateWithLinks(text string, color Color, onTag TagHandler) (AnnotatedText, error) {
	if err := checkHandler(onTag); err != nil {
		return AnnotatedText{}, err
	}
	return annotate(text, TagsAndLinks, color, onTag), nil
}

// Highlight colors @mentions and #hashtags without click handlers.
func Highlight(text string, color Color) AnnotatedText {
	return annotate(text, TagsOnly, color, nil)
}

// HighlightWithLinks colors @mentions, #hashtags and http(s) links without click handlers.
func HighlightWithLinks(text string, color Color) AnnotatedText {
	return annotate(text, TagsAndLinks, color, nil)
}
