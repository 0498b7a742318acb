package tagger

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"sync"
)

var bufferPool = sync.Pool{
	New: func() any {
		return new(bytes.Buffer)
	},
}

// RenderRequest configures Render.
type RenderRequest struct {
	Writer  io.Writer
	Text    AnnotatedText
	Width   int
	Level   ColorLevel
	Options []RenderOption
}

// Render writes annotated text to a terminal. Annotation colors become SGR
// sequences at the requested level; with OSC 8 enabled, links and tags with a
// tag URL become hyperlinks. Width > 0 word-wraps the output unless OSC 8 is
// on, since hyperlink payloads cannot be measured by the wrapper.
func Render(req RenderRequest) error {
	if req.Writer == nil {
		return fmt.Errorf("render: writer is nil")
	}
	cfg := newRenderConfig(req.Options)
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer bufferPool.Put(buf)

	writeSegments(buf, req.Text, req.Level, &cfg)
	var out string
	if req.Width > 0 && !cfg.osc8 {
		out = wrapLines(buf.String(), req.Width)
	} else {
		out = buf.String()
	}
	if cfg.newline && !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	if _, err := io.WriteString(req.Writer, out); err != nil {
		return fmt.Errorf("render: %w", err)
	}
	return nil
}

// RenderString renders to a string without wrapping.
func RenderString(text AnnotatedText, level ColorLevel, opts ...RenderOption) string {
	var b strings.Builder
	_ = Render(RenderRequest{Writer: &b, Text: text, Level: level, Options: opts})
	return b.String()
}

func writeSegments(buf *bytes.Buffer, text AnnotatedText, level ColorLevel, cfg *renderConfig) {
	buf.Grow(len(text.Text) + len(text.Annotations)*32)
	for _, seg := range text.Segments() {
		a := seg.Annotation
		if a == nil {
			buf.WriteString(stripControl(seg.Text))
			continue
		}
		display := stripControl(seg.Text)
		if a.Kind == KindLink && cfg.maxLinkWidth > 0 {
			display = fitURL(display, cfg.maxLinkWidth)
		}
		target := ""
		if cfg.osc8 {
			target = stripControl(linkTarget(a, cfg))
		}
		if target != "" {
			buf.WriteString(osc8Start)
			buf.WriteString(target)
			buf.WriteString(osc8ST)
		}
		if prefix := a.Color.SGR(level); prefix != "" {
			buf.WriteString(prefix)
			buf.WriteString(display)
			buf.WriteString(ansiReset)
		} else {
			buf.WriteString(display)
		}
		if target != "" {
			buf.WriteString(osc8End)
		}
	}
}
