package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"golang.org/x/term"
	"pkt.systems/tagger"
	"pkt.systems/version"
)

const defaultWidth = 80

func init() {
	version.SetDefaultModule("pkt.systems/tagger")
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type options struct {
	links        bool
	colorName    string
	listColors   bool
	osc8         string
	mentionURL   string
	hashtagURL   string
	width        int
	wrap         bool
	colorMode    string
	boring       bool
	maxLinkWidth int
	jsonOut      bool
	outPath      string
	debug        bool
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var opts options
	flags := pflag.NewFlagSet("tagger", pflag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.BoolVarP(&opts.links, "links", "l", false, "Also annotate http(s) links")
	flags.StringVarP(&opts.colorName, "color", "c", "default", "Annotation color: #rrggbb, #rgb or a color name")
	flags.BoolVar(&opts.listColors, "list-colors", false, "List available color names")
	flags.StringVarP(&opts.osc8, "osc8", "8", "auto", "OSC8 hyperlinks: auto|on|off")
	flags.StringVar(&opts.mentionURL, "mention-url", "", "Hyperlink template for @mentions, {} is replaced by the handle")
	flags.StringVar(&opts.hashtagURL, "hashtag-url", "", "Hyperlink template for #hashtags, {} is replaced by the tag")
	flags.IntVarP(&opts.width, "width", "w", 0, "Wrap width (0 disables wrapping unless --wrap is set)")
	flags.BoolVar(&opts.wrap, "wrap", false, "Wrap at the terminal width when --width is 0")
	flags.StringVar(&opts.colorMode, "color-mode", "auto", "Color depth: auto|truecolor|256|16|none")
	flags.BoolVarP(&opts.boring, "boring", "b", false, "Disable colors")
	flags.IntVar(&opts.maxLinkWidth, "max-link-width", 0, "Shorten displayed links wider than this (0 keeps them)")
	flags.BoolVar(&opts.jsonOut, "json", false, "Print one JSON object per span instead of rendering")
	flags.StringVarP(&opts.outPath, "output", "o", "", "Output file instead of stdout")
	flags.BoolVar(&opts.debug, "debug", false, "Log every span to stderr")

	flags.SetInterspersed(true)
	flags.Usage = func() {
		fmt.Fprintln(stderr, version.Module(), version.Current())
		fmt.Fprintf(stderr, "Usage: tagger [flags] [inputs...]\n")
		fmt.Fprintln(stderr, "\nInputs are files, file:// or http(s):// URLs. If none is given, text is read from stdin.")
		fmt.Fprintln(stderr, "\nFlags:")
		flags.PrintDefaults()
	}

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	logger := newLogger(stderr, opts.debug)

	if opts.listColors {
		printColors(stdout)
		return 0
	}

	color, err := tagger.ParseColor(opts.colorName)
	if err != nil {
		logger.Error().Err(err).Msg("invalid --color")
		return 2
	}
	level, err := tagger.ParseColorLevel(opts.colorMode)
	if err != nil {
		logger.Error().Err(err).Str("value", opts.colorMode).Msg("invalid --color-mode")
		return 2
	}
	osc8, err := resolveOSC8(opts.osc8)
	if err != nil {
		logger.Error().Err(err).Str("value", opts.osc8).Msg("invalid --osc8")
		return 2
	}

	reader, closer, err := openInputs(flags.Args(), stdin)
	if err != nil {
		logger.Error().Err(err).Msg("open input")
		return 1
	}
	if closer != nil {
		defer func() { _ = closer.Close() }()
	}

	writer, closeOut, err := resolveOutput(opts.outPath, stdout)
	if err != nil {
		logger.Error().Err(err).Msg("open output")
		return 1
	}
	if closeOut != nil {
		defer func() { _ = closeOut.Close() }()
	}

	mode := tagger.TagsOnly
	if opts.links {
		mode = tagger.TagsAndLinks
	}

	if opts.jsonOut {
		if err := writeJSON(reader, writer, mode, logger); err != nil {
			logger.Error().Err(err).Msg("scan")
			return 1
		}
		return 0
	}

	terminal := isTerminal(writer)
	if opts.boring {
		level = tagger.LevelNone
	} else if isAuto(opts.colorMode) && !terminal {
		level = tagger.LevelNone
	}
	if isAuto(opts.osc8) && !terminal {
		osc8 = false
	}
	width := opts.width
	if width <= 0 && opts.wrap {
		width = terminalWidth(defaultWidth)
	}
	logger.Debug().
		Str("color", color.Hex()).
		Int("level", int(level)).
		Bool("osc8", osc8).
		Int("width", width).
		Stringer("mode", modeName(mode)).
		Msg("render settings")

	out := bufio.NewWriter(writer)
	renderer := tagger.NewRenderer(out, width, level,
		tagger.WithOSC8(osc8),
		tagger.WithTagURL(tagger.TagURLTemplate(opts.mentionURL, opts.hashtagURL)),
		tagger.WithMaxLinkWidth(opts.maxLinkWidth),
	)
	if err := tagger.Stream(tagger.StreamRequest{
		Reader: reader,
		Sink:   &loggingSink{Sink: renderer, logger: logger},
		Mode:   mode,
		Color:  color,
	}); err != nil {
		logger.Error().Err(err).Msg("render")
		return 1
	}
	return 0
}

func newLogger(w io.Writer, debug bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: !isTerminal(w)}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

type modeName tagger.Mode

func (m modeName) String() string {
	if tagger.Mode(m) == tagger.TagsAndLinks {
		return "tags+links"
	}
	return "tags"
}

// loggingSink traces spans at debug level before passing lines on.
type loggingSink struct {
	tagger.Sink
	logger zerolog.Logger
	line   int
}

func (s *loggingSink) WriteLine(line tagger.AnnotatedText) error {
	s.line++
	if s.logger.GetLevel() <= zerolog.DebugLevel {
		for _, a := range line.Annotations {
			s.logger.Debug().
				Int("line", s.line).
				Int("start", a.Start).
				Int("end", a.End).
				Stringer("kind", a.Kind).
				Str("text", a.Text).
				Msg("span")
		}
	}
	return s.Sink.WriteLine(line)
}

func writeJSON(r io.Reader, w io.Writer, mode tagger.Mode, logger zerolog.Logger) error {
	out := bufio.NewWriter(w)
	enc := json.NewEncoder(out)
	enc.SetEscapeHTML(false)
	count := 0
	err := tagger.ScanReader(r, mode, func(s tagger.Span) error {
		count++
		logger.Debug().Int("start", s.Start).Int("end", s.End).Stringer("kind", s.Kind).Msg("span")
		return enc.Encode(s)
	})
	if err != nil {
		return err
	}
	logger.Debug().Int("spans", count).Msg("scan complete")
	return out.Flush()
}

func isAuto(mode string) bool {
	mode = strings.ToLower(strings.TrimSpace(mode))
	return mode == "" || mode == "auto"
}

func printColors(w io.Writer) {
	for _, name := range tagger.AvailableColors() {
		c, _ := tagger.ColorByName(name)
		fmt.Fprintf(w, "%-12s %s\n", name, c.Hex())
	}
}

func terminalWidth(fallback int) int {
	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		if w, _, err := term.GetSize(fd); err == nil && w > 0 {
			return w
		}
	}
	if value := os.Getenv("COLUMNS"); value != "" {
		if w, err := strconv.Atoi(value); err == nil && w > 0 {
			return w
		}
	}
	return fallback
}

func resolveOSC8(mode string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", "auto":
		return tagger.DetectOSC8Support(), nil
	case "on", "true", "1", "yes":
		return true, nil
	case "off", "false", "0", "no":
		return false, nil
	default:
		return false, fmt.Errorf("expected auto|on|off")
	}
}

type inputSource struct {
	open func() (io.Reader, io.Closer, error)
}

// multiInputReader concatenates sources, separating them with a newline when
// a source does not end in one so a tag at the start of the next source keeps
// its boundary.
type multiInputReader struct {
	sources   []inputSource
	idx       int
	cur       io.Reader
	curCloser io.Closer
	closed    bool
	last      byte
	needSep   bool
}

func (m *multiInputReader) Read(p []byte) (int, error) {
	for {
		if m.closed {
			return 0, io.EOF
		}
		if m.cur == nil {
			if m.idx >= len(m.sources) {
				m.closed = true
				return 0, io.EOF
			}
			if m.needSep {
				if len(p) == 0 {
					return 0, nil
				}
				p[0] = '\n'
				m.last = '\n'
				m.needSep = false
				return 1, nil
			}
			reader, closer, err := m.sources[m.idx].open()
			if err != nil {
				return 0, err
			}
			m.cur = reader
			m.curCloser = closer
			m.idx++
		}
		n, err := m.cur.Read(p)
		if n > 0 {
			m.last = p[n-1]
			return n, nil
		}
		if err == io.EOF {
			if m.curCloser != nil {
				_ = m.curCloser.Close()
			}
			m.cur = nil
			m.curCloser = nil
			m.needSep = m.last != 0 && m.last != '\n'
			continue
		}
		if err != nil {
			return 0, err
		}
	}
}

func (m *multiInputReader) Close() error {
	m.closed = true
	if m.curCloser != nil {
		return m.curCloser.Close()
	}
	return nil
}

func openInputs(args []string, stdin io.Reader) (io.Reader, io.Closer, error) {
	if len(args) == 0 {
		return stdin, nil, nil
	}
	sources := make([]inputSource, 0, len(args))
	for _, raw := range args {
		src, err := makeInputSource(raw)
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, src)
	}
	m := &multiInputReader{sources: sources}
	return m, m, nil
}

func makeInputSource(raw string) (inputSource, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return inputSource{}, fmt.Errorf("empty input argument")
	}
	u, err := url.Parse(raw)
	if err == nil && u.Scheme != "" {
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openURL(raw)
			}}, nil
		case "file":
			path := u.Path
			if path == "" {
				path = u.Host
			}
			if unescaped, err := url.PathUnescape(path); err == nil {
				path = unescaped
			}
			return inputSource{open: func() (io.Reader, io.Closer, error) {
				return openFile(path)
			}}, nil
		}
	}
	return inputSource{open: func() (io.Reader, io.Closer, error) {
		return openFile(raw)
	}}, nil
}

func openURL(raw string) (io.Reader, io.Closer, error) {
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, raw, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, nil, fmt.Errorf("http %s: %s", raw, resp.Status)
	}
	return resp.Body, resp.Body, nil
}

func openFile(path string) (io.Reader, io.Closer, error) {
	f, err := os.Open(normalizePath(path))
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func resolveOutput(path string, stdout io.Writer) (io.Writer, io.Closer, error) {
	if strings.TrimSpace(path) == "" {
		return stdout, nil, nil
	}
	clean := normalizePath(path)
	dir := filepath.Dir(clean)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, err
		}
	}
	f, err := os.Create(clean)
	if err != nil {
		return nil, nil, err
	}
	return f, f, nil
}

func normalizePath(path string) string {
	if strings.HasPrefix(path, "~/") || path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			if path == "~" {
				path = home
			} else {
				path = filepath.Join(home, path[2:])
			}
		}
	}
	abs, err := filepath.Abs(path)
	if err == nil {
		return abs
	}
	return path
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
