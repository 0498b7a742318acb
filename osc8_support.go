package tagger

import (
	"net/url"
	"os"
	"strconv"
	"strings"
)

const (
	osc8Start = "\x1b]8;;"
	osc8ST    = "\x1b\\"
	osc8End   = "\x1b]8;;\x1b\\"
)

// DetectOSC8Support returns true if the current environment likely supports
// OSC 8 hyperlinks. TAGGER_OSC8=0|1 overrides the guess.
func DetectOSC8Support() bool {
	switch os.Getenv("TAGGER_OSC8") {
	case "0":
		return false
	case "1":
		return true
	}
	if os.Getenv("OSC8") == "0" {
		return false
	}
	if os.Getenv("DOMTERM") != "" || os.Getenv("WT_SESSION") != "" {
		return true
	}
	switch os.Getenv("TERM_PROGRAM") {
	case "iTerm.app", "WezTerm", "vscode", "ghostty":
		return true
	}
	if strings.Contains(strings.ToLower(os.Getenv("TERM")), "kitty") {
		return true
	}
	if vte := os.Getenv("VTE_VERSION"); vte != "" {
		if n, err := strconv.Atoi(vte); err == nil && n >= 5000 {
			return true
		}
	}
	return false
}

// TagURLTemplate returns a WithTagURL function. Templates contain {} where the
// path-escaped tag body goes, e.g. "https://example.social/@{}". The body is
// appended when there is no placeholder. An empty template leaves that tag
// type unlinked.
func TagURLTemplate(mention, hashtag string) func(tag string) string {
	return func(tag string) string {
		if len(tag) < 2 {
			return ""
		}
		tmpl := hashtag
		if tag[0] == '@' {
			tmpl = mention
		}
		if tmpl == "" {
			return ""
		}
		body := url.PathEscape(tag[1:])
		if strings.Contains(tmpl, "{}") {
			return strings.ReplaceAll(tmpl, "{}", body)
		}
		return tmpl + body
	}
}

func linkTarget(a *Annotation, cfg *renderConfig) string {
	if a.Kind == KindLink {
		return a.Text
	}
	if cfg.tagURL == nil {
		return ""
	}
	return cfg.tagURL(a.Text)
}
