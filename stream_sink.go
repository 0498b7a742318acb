package tagger

import "io"

// Sink receives annotated lines from Stream.
type Sink interface {
	WriteLine(AnnotatedText) error
	Flush() error
}

// Renderer is a Sink that renders each line to a terminal writer.
type Renderer struct {
	w     io.Writer
	width int
	level ColorLevel
	opts  []RenderOption
}

// NewRenderer creates a line renderer.
func NewRenderer(w io.Writer, width int, level ColorLevel, opts ...RenderOption) *Renderer {
	return &Renderer{w: w, width: width, level: level, opts: opts}
}

// WriteLine renders one line, including its trailing newline if present.
func (r *Renderer) WriteLine(line AnnotatedText) error {
	return Render(RenderRequest{
		Writer:  r.w,
		Text:    line,
		Width:   r.width,
		Level:   r.level,
		Options: r.opts,
	})
}

// Flush flushes the underlying writer when it buffers.
func (r *Renderer) Flush() error {
	if f, ok := r.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}
