package ingredient

import (
	"fmt"
	"unicode/utf8"
)

// vulgarFractions maps the fraction glyphs with a known value.
var vulgarFractions = map[rune]float64{
	'¾': 3.0 / 4.0,
	'⅛': 1.0 / 8.0,
	'¼': 1.0 / 4.0,
	'⅓': 1.0 / 3.0,
	'½': 1.0 / 2.0,
}

// isFractionGlyph covers both unicode vulgar fraction blocks.
func isFractionGlyph(r rune) bool {
	return (r >= '¼' && r <= '¾') || (r >= '⅐' && r <= '⅞')
}

// vulgarFraction parses a single fraction glyph. Glyphs missing from vulgarFractions
// are worth 0 unless the parser is strict about them.
func (p *Parser) vulgarFraction(in string) (string, float64, *failure) {
	r, size := utf8.DecodeRuneInString(in)
	if size == 0 || !isFractionGlyph(r) {
		return in, 0, fail(in, "vulgar fraction").push("v_fraction", in)
	}
	v, ok := vulgarFractions[r]
	if !ok && p.strictFractions {
		err := fail(in, fmt.Sprintf("known fraction, got %q", r)).push("v_fraction", in)
		err.cut = true
		return in, 0, err
	}
	return in[size:], v, nil
}

// slashFraction parses "a/b". A zero denominator does not match.
func slashFraction(in string) (string, float64, *failure) {
	rest, num, err := decimal(in)
	if err != nil {
		return in, 0, err.push("n_fraction", in)
	}
	if rest, _, err = tag("/")(rest); err != nil {
		return in, 0, err.push("n_fraction", in)
	}
	rest, den, err := decimal(rest)
	if err != nil {
		return in, 0, err.push("n_fraction", in)
	}
	if den == 0 {
		return in, 0, fail(rest, "nonzero denominator").push("n_fraction", in)
	}
	return rest, num / den, nil
}

// vulgarMixed parses "1¼" or "1 ¼" as well as a bare "¼".
func (p *Parser) vulgarMixed(in string) (string, float64, *failure) {
	rest, whole, err := decimal(in)
	if err != nil {
		rest, whole = in, 0
	} else {
		rest, _, _ = space0(rest)
	}
	rest, frac, err := p.vulgarFraction(rest)
	if err != nil {
		return in, 0, err
	}
	return rest, whole + frac, nil
}

// slashMixed parses "1 1/4" as well as a bare "1/4". The whole part needs a space
// after it, otherwise the slash fraction is read from the start.
func slashMixed(in string) (string, float64, *failure) {
	rest, whole, err := decimal(in)
	if err == nil {
		if r, _, err := space1(rest); err == nil {
			rest = r
		} else {
			rest, whole = in, 0
		}
	} else {
		rest, whole = in, 0
	}
	rest, frac, err := slashFraction(rest)
	if err != nil {
		return in, 0, err
	}
	return rest, whole + frac, nil
}

// fractionNumber parses "1 ⅛" or "1 1/8" into 1.125.
func (p *Parser) fractionNumber(in string) (string, float64, *failure) {
	return named("fraction_number", alt[float64](p.vulgarMixed, slashMixed))(in)
}

func textNumber(in string) (string, float64, *failure) {
	rest, _, err := tag("one")(in)
	if err != nil {
		return in, 0, err.push("text_number", in)
	}
	return rest, 1, nil
}

// num parses a single numeric value. Fractions go first so that "1 1/4" is not
// read as just "1".
func (p *Parser) num(in string) (string, float64, *failure) {
	return named("num", alt[float64](p.fractionNumber, textNumber, decimal))(in)
}

type span struct {
	value float64
	upper *float64
}

// numOrRange parses a value optionally followed by "- upper", spaces optional.
func (p *Parser) numOrRange(in string) (string, span, *failure) {
	rest, v, err := p.num(in)
	if err != nil {
		return in, span{}, err.push("num_or_range", in)
	}
	out := span{value: v}
	upperBound := func(in string) (string, float64, *failure) {
		rest, _, _ := space0(in)
		rest, _, err := tag("-")(rest)
		if err != nil {
			return in, 0, err
		}
		rest, _, _ = space0(rest)
		return p.num(rest)
	}
	rest, upper, ok, err := opt[float64](upperBound)(rest)
	if err != nil {
		return in, span{}, err.push("num_or_range", in)
	}
	if ok {
		out.upper = &upper
	}
	return rest, out, nil
}
