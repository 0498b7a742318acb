package tagger

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

type captureSink struct {
	lines   []AnnotatedText
	flushed int
	failAt  int
}

func (s *captureSink) WriteLine(line AnnotatedText) error {
	if s.failAt > 0 && len(s.lines)+1 == s.failAt {
		return errWrite
	}
	s.lines = append(s.lines, line)
	return nil
}

func (s *captureSink) Flush() error {
	s.flushed++
	return nil
}

const streamSample = "hello @alice\n#go is fun https://go.dev\n\nlast line #end"

func TestStreamMatchesWholeInput(t *testing.T) {
	inputs := []string{
		streamSample,
		strings.Repeat("a", 64) + "\x1b\x1b" + strings.Repeat(" #ok", 300),
		strings.Repeat("x\v#t", 40),
		strings.Repeat("page\f#next https://x.co\n", 20),
	}
	for _, in := range inputs {
		if err := ValidateInput([]byte(in)); err != nil {
			t.Fatalf("ValidateInput(%q): %v", in, err)
		}
		sink := &captureSink{}
		err := Stream(StreamRequest{
			Reader: strings.NewReader(in),
			Sink:   sink,
			Mode:   TagsAndLinks,
			Color:  DefaultColor(),
		})
		if err != nil {
			t.Fatalf("Stream(%q): %v", in, err)
		}
		if sink.flushed != 1 {
			t.Fatalf("expected one flush, got %d", sink.flushed)
		}
		var rebuilt strings.Builder
		var texts []string
		for _, line := range sink.lines {
			rebuilt.WriteString(line.Text)
			for _, a := range line.Annotations {
				texts = append(texts, a.Text)
			}
		}
		if rebuilt.String() != in {
			t.Fatalf("lines rebuilt %q want %q", rebuilt.String(), in)
		}
		want := spanTexts(Scan(in, TagsAndLinks))
		if !reflect.DeepEqual(texts, want) {
			t.Fatalf("stream found %q want %q", texts, want)
		}
	}
}

func TestStreamLineCount(t *testing.T) {
	sink := &captureSink{}
	if err := Stream(StreamRequest{Reader: strings.NewReader(streamSample), Sink: sink}); err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if len(sink.lines) != 4 {
		t.Fatalf("expected 4 lines, got %d", len(sink.lines))
	}
}

func TestStreamRejectsBinaryShareAtEOF(t *testing.T) {
	in := strings.Repeat("a", 100) + "\x01\x02\x03"
	if err := ValidateInput([]byte(in)); !errors.Is(err, ErrBinaryInput) {
		t.Fatalf("ValidateInput expected ErrBinaryInput, got %v", err)
	}
	err := Stream(StreamRequest{Reader: strings.NewReader(in), Sink: &captureSink{}})
	if !errors.Is(err, ErrBinaryInput) {
		t.Fatalf("Stream expected ErrBinaryInput, got %v", err)
	}
	err = ScanReader(strings.NewReader(in), TagsOnly, func(Span) error { return nil })
	if !errors.Is(err, ErrBinaryInput) {
		t.Fatalf("ScanReader expected ErrBinaryInput, got %v", err)
	}
}

func TestStreamPassesHandler(t *testing.T) {
	var clicked []string
	sink := &captureSink{}
	err := Stream(StreamRequest{
		Reader: strings.NewReader("#a\n@b\n"),
		Sink:   sink,
		Handler: TagHandlerFunc(func(tag string) {
			clicked = append(clicked, tag)
		}),
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	for _, line := range sink.lines {
		for _, a := range line.Annotations {
			a.Click()
		}
	}
	if !reflect.DeepEqual(clicked, []string{"#a", "@b"}) {
		t.Fatalf("clicked %q", clicked)
	}

	var nilFunc TagHandlerFunc
	sink = &captureSink{}
	if err := Stream(StreamRequest{Reader: strings.NewReader("#a"), Sink: sink, Handler: nilFunc}); err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if sink.lines[0].Annotations[0].Interactive() {
		t.Fatalf("expected nil func handler to be dropped")
	}
}

func TestStreamErrors(t *testing.T) {
	if err := Stream(StreamRequest{Sink: &captureSink{}}); err == nil {
		t.Fatalf("expected error for nil reader")
	}
	if err := Stream(StreamRequest{Reader: strings.NewReader("x")}); err == nil {
		t.Fatalf("expected error for nil sink")
	}
	err := Stream(StreamRequest{Reader: strings.NewReader("#a\n#b\n"), Sink: &captureSink{failAt: 2}})
	if !errors.Is(err, errWrite) {
		t.Fatalf("expected sink error, got %v", err)
	}
	err = Stream(StreamRequest{Reader: strings.NewReader("ok\nbad \xff\n"), Sink: &captureSink{}})
	if !errors.Is(err, ErrInvalidUTF8) {
		t.Fatalf("expected ErrInvalidUTF8, got %v", err)
	}
	if !strings.Contains(err.Error(), "offset 3") {
		t.Fatalf("expected line offset in error, got %v", err)
	}
	err = Stream(StreamRequest{Reader: strings.NewReader("a\x00b"), Sink: &captureSink{}})
	if !errors.Is(err, ErrBinaryInput) {
		t.Fatalf("expected ErrBinaryInput, got %v", err)
	}
}

type errReader struct{}

var errRead = errors.New("read failed")

func (errReader) Read([]byte) (int, error) { return 0, errRead }

func TestStreamReadError(t *testing.T) {
	err := Stream(StreamRequest{Reader: errReader{}, Sink: &captureSink{}})
	if !errors.Is(err, errRead) {
		t.Fatalf("expected read error, got %v", err)
	}
}

func TestScanReaderOffsets(t *testing.T) {
	var got []Span
	err := ScanReader(strings.NewReader(streamSample), TagsAndLinks, func(s Span) error {
		got = append(got, s)
		return nil
	})
	if err != nil {
		t.Fatalf("ScanReader: %v", err)
	}
	want := Scan(streamSample, TagsAndLinks)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ScanReader=%+v want %+v", got, want)
	}
	for _, s := range got {
		if streamSample[s.Start:s.End] != s.Text {
			t.Fatalf("offset mismatch for %+v", s)
		}
	}
}

func TestScanReaderStopsOnCallbackError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	err := ScanReader(strings.NewReader("#a #b\n#c"), TagsOnly, func(Span) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) || calls != 1 {
		t.Fatalf("expected stop after first span, got %v after %d calls", err, calls)
	}
	if err := ScanReader(nil, TagsOnly, func(Span) error { return nil }); err == nil {
		t.Fatalf("expected error for nil reader")
	}
	if err := ScanReader(strings.NewReader(""), TagsOnly, nil); err == nil {
		t.Fatalf("expected error for nil callback")
	}
}

func TestStreamLongLines(t *testing.T) {
	line := strings.Repeat("word ", 4000) + "#tail"
	sink := &captureSink{}
	if err := Stream(StreamRequest{Reader: strings.NewReader(line), Sink: sink}); err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if len(sink.lines) != 1 || len(sink.lines[0].Annotations) != 1 {
		t.Fatalf("expected one line with one tag, got %d lines", len(sink.lines))
	}
	if a := sink.lines[0].Annotations[0]; a.Start != len(line)-5 || a.Text != "#tail" {
		t.Fatalf("unexpected annotation %+v", a.Span)
	}
}

func TestStreamToBufferedRenderer(t *testing.T) {
	var b strings.Builder
	bw := bufio.NewWriter(&b)
	err := Stream(StreamRequest{
		Reader: strings.NewReader("#a\nplain\n"),
		Sink:   NewRenderer(bw, 0, LevelTrueColor),
		Color:  RGB(0, 0xff, 0),
	})
	if err != nil {
		t.Fatalf("Stream: %v", err)
	}
	if got := b.String(); got != "\x1b[38;2;0;255;0m#a\x1b[0m\nplain\n" {
		t.Fatalf("got %q", got)
	}
}

func TestHTTPStream(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/post":
			_, _ = io.WriteString(w, "remote #tag https://x.co\n")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	sink := &captureSink{}
	err := HTTPStream(context.Background(), HTTPStreamRequest{
		URL:    srv.URL + "/post",
		Client: srv.Client(),
		Sink:   sink,
		Mode:   TagsAndLinks,
		Color:  DefaultColor(),
	})
	if err != nil {
		t.Fatalf("HTTPStream: %v", err)
	}
	if len(sink.lines) != 1 || len(sink.lines[0].Annotations) != 2 {
		t.Fatalf("unexpected lines %+v", sink.lines)
	}

	err = HTTPStream(context.Background(), HTTPStreamRequest{URL: srv.URL + "/missing", Client: srv.Client(), Sink: &captureSink{}})
	if err == nil || !strings.Contains(err.Error(), "404") {
		t.Fatalf("expected 404 error, got %v", err)
	}
}

func TestHTTPStreamValidation(t *testing.T) {
	if err := HTTPStream(context.Background(), HTTPStreamRequest{Sink: &captureSink{}}); err == nil {
		t.Fatalf("expected error for empty URL")
	}
	if err := HTTPStream(context.Background(), HTTPStreamRequest{URL: "http://x"}); err == nil {
		t.Fatalf("expected error for nil sink")
	}
	err := HTTPStream(context.Background(), HTTPStreamRequest{URL: "ftp://x/y", Sink: &captureSink{}})
	if err == nil || !strings.Contains(err.Error(), "unsupported scheme") {
		t.Fatalf("expected unsupported scheme error, got %v", err)
	}
}
