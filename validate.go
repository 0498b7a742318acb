package tagger

import (
	"errors"
	"strings"
	"unicode/utf8"
)

var (
	// ErrInvalidUTF8 reports invalid UTF-8 input.
	ErrInvalidUTF8 = errors.New("invalid utf-8 input")
	// ErrBinaryInput reports input that appears to be binary.
	ErrBinaryInput = errors.New("binary input detected")
)

const (
	minBinarySample = 64
	maxControlPct   = 2
)

// ValidateInput returns an error if the input is not valid UTF-8 or appears binary.
func ValidateInput(src []byte) error {
	if !utf8.Valid(src) {
		return ErrInvalidUTF8
	}
	var total, control int
	for _, b := range src {
		total++
		if b == 0x00 {
			return ErrBinaryInput
		}
		if isControlByte(b) {
			control++
		}
	}
	if total >= minBinarySample && control*100 >= total*maxControlPct {
		return ErrBinaryInput
	}
	return nil
}

// validator applies the ValidateInput rules incrementally, one line at a time.
// Invalid UTF-8 and NUL bytes fail at once; the control share is only known
// once the whole input has been seen, so finish checks it.
type validator struct {
	total   int
	control int
}

// addLine checks a complete line. A rune cut off at the end is invalid since
// lines end at a newline byte or at EOF.
func (v *validator) addLine(s string) error {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if err := v.addRune(r, size); err != nil {
			return err
		}
		i += size
	}
	return nil
}

func (v *validator) addRune(r rune, size int) error {
	if r == utf8.RuneError && size == 1 {
		return ErrInvalidUTF8
	}
	if r == 0 {
		return ErrBinaryInput
	}
	v.total += size
	if isControlRune(r) {
		v.control++
	}
	return nil
}

func (v *validator) finish() error {
	if v.total >= minBinarySample && v.control*100 >= v.total*maxControlPct {
		return ErrBinaryInput
	}
	return nil
}

func isControlByte(b byte) bool {
	if b < 0x09 {
		return true
	}
	if b > 0x0D && b < 0x20 {
		return true
	}
	if b == 0x7F {
		return true
	}
	return false
}

func isControlRune(r rune) bool {
	return r < utf8.RuneSelf && isControlByte(byte(r))
}

// stripControl drops control characters other than the 0x09-0x0D whitespace
// range so that text written to a terminal cannot carry its own escape sequences.
func stripControl(s string) string {
	clean := true
	for i := 0; i < len(s); i++ {
		if isControlRune(rune(s[i])) {
			clean = false
			break
		}
	}
	if clean {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if isControlRune(rune(s[i])) {
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
