// Package tagger finds @mentions, #hashtags and http(s) links in plain text
// and annotates them with a color and an optional click handler.
//
// A tag or link only counts when it starts the text or follows whitespace, so
// "mail@example.com" and "page#anchor" are left alone. Tag bodies stop at
// whitespace and at a fixed set of punctuation; links run to the next
// whitespace. Matching uses Go's regexp package, which runs in time linear in
// the input, so there is no input size limit.
//
// The annotated text is plain data: byte spans, a color and a handler. Binding
// it to a widget is up to the host. Render binds it to a terminal, where the
// color becomes an SGR sequence and the click action an OSC 8 hyperlink.
//
// Example:
//
//	at, err := tagger.AnnotateWithLinks("hi @bob, see https://example.com",
//		tagger.DefaultColor(), tagger.TagHandlerFunc(func(tag string) {
//			fmt.Println("clicked", tag)
//		}))
//	if err != nil {
//		log.Fatal(err)
//	}
//	for _, seg := range at.Segments() {
//		if seg.Annotation != nil {
//			fmt.Printf("%s %q\n", seg.Annotation.Kind, seg.Text)
//		}
//	}
//
// Stream and ScanReader process unbounded input line by line.
package tagger
