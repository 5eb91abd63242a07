package ingredient

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

// ErrSyntax is matched by every *SyntaxError via errors.Is.
var ErrSyntax = errors.New("syntax error")

// Frame is one grammar rule that was being tried when parsing stopped.
type Frame struct {
	Rule   string `json:"rule"`
	Offset int    `json:"offset"`
}

// SyntaxError reports input that no grammar alternative could match.
type SyntaxError struct {
	Input string
	// Remainder is the unmatched input at the innermost failure.
	Remainder string
	// Trace lists the rules that failed, innermost first.
	Trace   []Frame
	Verbose bool
}

// Error implements the error interface.
func (e *SyntaxError) Error() string {
	if len(e.Trace) == 0 {
		return fmt.Sprintf("failed to parse %q", e.Input)
	}
	if !e.Verbose {
		return fmt.Sprintf("failed to parse %q: expected %s at offset %d", e.Input, e.Trace[0].Rule, e.Trace[0].Offset)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "failed to parse %q:", e.Input)
	for i, f := range e.Trace {
		verb := "in"
		if i == 0 {
			verb = "expected"
		}
		fmt.Fprintf(&b, "\n%d: at offset %d, %s %s: %q", i, f.Offset, verb, f.Rule, excerpt(e.Input, f.Offset))
	}
	return b.String()
}

// Is reports whether target is ErrSyntax.
func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

func (p *Parser) syntaxError(input string, f *failure) *SyntaxError {
	e := &SyntaxError{Input: input, Verbose: p.verbose}
	for _, fr := range f.frames {
		e.Trace = append(e.Trace, Frame{Rule: fr.rule, Offset: len(input) - len(fr.rest)})
	}
	if len(f.frames) > 0 {
		e.Remainder = f.frames[0].rest
	}
	return e
}

// excerpt returns up to 20 bytes of input starting at offset, cut back to a rune boundary.
func excerpt(input string, offset int) string {
	const width = 20
	if offset >= len(input) {
		return ""
	}
	s := input[offset:]
	if len(s) <= width {
		return s
	}
	s = s[:width]
	for len(s) > 0 && !utf8.ValidString(s) {
		s = s[:len(s)-1]
	}
	return s + "..."
}
