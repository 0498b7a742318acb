package tagger

import (
	"bufio"
	"fmt"
	"io"
	"sync"
)

var readerPool = sync.Pool{
	New: func() any {
		return bufio.NewReaderSize(nil, 4096)
	},
}

// StreamRequest configures Stream.
type StreamRequest struct {
	Reader  io.Reader
	Sink    Sink
	Mode    Mode
	Color   Color
	Handler TagHandler
}

// Stream annotates text from Reader one line at a time and hands each line to
// Sink. Tags and links never span a newline, so the result is the same as
// annotating the whole input at once. Handler may be nil for presentation-only
// output. Invalid UTF-8 or a NUL byte stops the stream at that line; input
// whose share of control characters marks it binary fails once it is read to
// the end, with the same rules as ValidateInput.
func Stream(req StreamRequest) error {
	if req.Reader == nil {
		return fmt.Errorf("stream: reader is nil")
	}
	if req.Sink == nil {
		return fmt.Errorf("stream: sink is nil")
	}
	handler := req.Handler
	if checkHandler(handler) != nil {
		handler = nil
	}
	err := forEachLine(req.Reader, func(line string, _ int) error {
		if err := req.Sink.WriteLine(annotate(line, req.Mode, req.Color, handler)); err != nil {
			return fmt.Errorf("stream: write: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if err := req.Sink.Flush(); err != nil {
		return fmt.Errorf("stream: flush: %w", err)
	}
	return nil
}

// ScanReader calls fn for every span in r. Offsets are relative to the start
// of the stream.
func ScanReader(r io.Reader, mode Mode, fn func(Span) error) error {
	if r == nil {
		return fmt.Errorf("scan: reader is nil")
	}
	if fn == nil {
		return fmt.Errorf("scan: callback is nil")
	}
	return forEachLine(r, func(line string, base int) error {
		for _, s := range scanAt(line, base, mode) {
			if err := fn(s); err != nil {
				return err
			}
		}
		return nil
	})
}

func forEachLine(r io.Reader, fn func(line string, base int) error) error {
	reader := readerPool.Get().(*bufio.Reader)
	reader.Reset(r)
	defer func() {
		reader.Reset(nil)
		readerPool.Put(reader)
	}()
	var v validator
	base := 0
	for {
		line, err := reader.ReadString('\n')
		if len(line) > 0 {
			if verr := v.addLine(line); verr != nil {
				return fmt.Errorf("stream: offset %d: %w", base, verr)
			}
			if ferr := fn(line, base); ferr != nil {
				return ferr
			}
			base += len(line)
		}
		if err != nil {
			if err == io.EOF {
				if verr := v.finish(); verr != nil {
					return fmt.Errorf("stream: %w", verr)
				}
				return nil
			}
			return fmt.Errorf("stream: read: %w", err)
		}
	}
}
