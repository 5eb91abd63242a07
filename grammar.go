package ingredient

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// rule consumes a prefix of in and returns what is left along with the matched value.
// On failure the returned remainder is in itself.
type rule[T any] func(in string) (string, T, *failure)

// failure is an unwinding parse error. Frames are appended innermost first as it
// travels back up through named rules. A cut failure is never backtracked over.
type failure struct {
	frames []frame
	cut    bool
}

type frame struct {
	rule string
	rest string
}

func fail(in, expected string) *failure {
	return &failure{frames: []frame{{rule: expected, rest: in}}}
}

func (f *failure) push(name, in string) *failure {
	f.frames = append(f.frames, frame{rule: name, rest: in})
	return f
}

// named records name in the trace when r fails.
func named[T any](name string, r rule[T]) rule[T] {
	return func(in string) (string, T, *failure) {
		rest, v, err := r(in)
		if err != nil {
			return in, v, err.push(name, in)
		}
		return rest, v, nil
	}
}

// alt tries each rule in order and commits to the first that matches.
func alt[T any](rules ...rule[T]) rule[T] {
	return func(in string) (string, T, *failure) {
		var (
			zero T
			last *failure
		)
		for _, r := range rules {
			rest, v, err := r(in)
			if err == nil {
				return rest, v, nil
			}
			if err.cut {
				return in, zero, err
			}
			last = err
		}
		return in, zero, last.push("alt", in)
	}
}

// opt never fails unless r cuts; ok reports whether r matched.
func opt[T any](r rule[T]) func(in string) (rest string, v T, ok bool, err *failure) {
	return func(in string) (string, T, bool, *failure) {
		rest, v, err := r(in)
		if err != nil {
			if err.cut {
				return in, v, false, err
			}
			var zero T
			return in, zero, false, nil
		}
		return rest, v, true, nil
	}
}

// many1 applies r until it stops matching or stops consuming input.
func many1[T any](r rule[T]) rule[[]T] {
	return func(in string) (string, []T, *failure) {
		rest, v, err := r(in)
		if err != nil {
			return in, nil, err.push("many1", in)
		}
		out := []T{v}
		for {
			next, v, err := r(rest)
			if err != nil {
				if err.cut {
					return in, nil, err
				}
				return rest, out, nil
			}
			if len(next) == len(rest) {
				return rest, out, nil
			}
			out = append(out, v)
			rest = next
		}
	}
}

func tag(t string) rule[string] {
	return func(in string) (string, string, *failure) {
		if strings.HasPrefix(in, t) {
			return in[len(t):], t, nil
		}
		return in, "", fail(in, strconv.Quote(t))
	}
}

func char(c rune) rule[rune] {
	return func(in string) (string, rune, *failure) {
		r, size := utf8.DecodeRuneInString(in)
		if size == 0 || r != c {
			return in, 0, fail(in, strconv.QuoteRune(c))
		}
		return in[size:], r, nil
	}
}

// takeWhile returns the longest prefix of in made of bytes accepted by ok.
func takeWhile(in string, ok func(byte) bool) (string, string) {
	i := 0
	for i < len(in) && ok(in[i]) {
		i++
	}
	return in[i:], in[:i]
}

func isSpace(b byte) bool { return b == ' ' || b == '\t' }

func isAlpha(b byte) bool { return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') }

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func space0(in string) (string, string, *failure) {
	rest, s := takeWhile(in, isSpace)
	return rest, s, nil
}

func space1(in string) (string, string, *failure) {
	rest, s := takeWhile(in, isSpace)
	if s == "" {
		return in, "", fail(in, "space")
	}
	return rest, s, nil
}

// alpha1 matches one or more ASCII letters.
func alpha1(in string) (string, string, *failure) {
	rest, s := takeWhile(in, isAlpha)
	if s == "" {
		return in, "", fail(in, "alpha")
	}
	return rest, s, nil
}

// notLineEnding matches everything up to a "\n" or "\r\n". A carriage return
// that does not start a "\r\n" pair is an error.
func notLineEnding(in string) (string, string, *failure) {
	i := strings.IndexAny(in, "\r\n")
	if i < 0 {
		return "", in, nil
	}
	if in[i] == '\r' && !strings.HasPrefix(in[i:], "\r\n") {
		return in, "", fail(in[i:], "line ending")
	}
	return in[i:], in[:i], nil
}

// decimal matches an optionally signed decimal number with an optional exponent.
// The exponent is only consumed when digits follow it, so "2eggs" reads as 2.
func decimal(in string) (string, float64, *failure) {
	i := 0
	if i < len(in) && (in[i] == '+' || in[i] == '-') {
		i++
	}
	_, whole := takeWhile(in[i:], isDigit)
	i += len(whole)
	var frac string
	if i < len(in) && in[i] == '.' {
		_, frac = takeWhile(in[i+1:], isDigit)
		if whole != "" || frac != "" {
			i += 1 + len(frac)
		}
	}
	if whole == "" && frac == "" {
		return in, 0, fail(in, "float")
	}
	if i < len(in) && (in[i] == 'e' || in[i] == 'E') {
		j := i + 1
		if j < len(in) && (in[j] == '+' || in[j] == '-') {
			j++
		}
		if _, exp := takeWhile(in[j:], isDigit); exp != "" {
			i = j + len(exp)
		}
	}
	v, err := strconv.ParseFloat(in[:i], 64)
	if err != nil {
		return in, 0, fail(in, "float")
	}
	return in[i:], v, nil
}
