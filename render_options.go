package tagger

// RenderOption configures rendering behavior.
type RenderOption func(*renderConfig)

type renderConfig struct {
	osc8         bool
	tagURL       func(tag string) string
	maxLinkWidth int
	newline      bool
}

func newRenderConfig(opts []RenderOption) renderConfig {
	cfg := renderConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithOSC8 enables or disables OSC 8 hyperlinks, the terminal's click action.
func WithOSC8(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.osc8 = enabled
	}
}

// WithTagURL sets the hyperlink target for @mentions and #hashtags. Tags are
// not linked when fn is nil or returns "".
func WithTagURL(fn func(tag string) string) RenderOption {
	return func(cfg *renderConfig) {
		cfg.tagURL = fn
	}
}

// WithMaxLinkWidth shortens the displayed text of longer links. The hyperlink
// target keeps the full URL.
func WithMaxLinkWidth(width int) RenderOption {
	return func(cfg *renderConfig) {
		cfg.maxLinkWidth = width
	}
}

// WithNewline terminates output that does not already end in a newline.
func WithNewline(enabled bool) RenderOption {
	return func(cfg *renderConfig) {
		cfg.newline = enabled
	}
}
