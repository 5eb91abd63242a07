package ingredient

import "strings"

// Parser parses ingredient lines. The zero value is not usable; use New.
// A Parser holds only options and is safe for concurrent use.
type Parser struct {
	verbose         bool
	strictFractions bool
	approximate     bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithVerboseErrors makes syntax errors render every grammar rule that was tried.
func WithVerboseErrors() Option {
	return func(p *Parser) { p.verbose = true }
}

// WithStrictFractions rejects vulgar fraction glyphs with no known value instead of
// reading them as 0.
func WithStrictFractions() Option {
	return func(p *Parser) { p.strictFractions = true }
}

// WithApproximate flags amounts written with a leading "about ".
func WithApproximate() Option {
	return func(p *Parser) { p.approximate = true }
}

// New returns a Parser configured with opts.
func New(opts ...Option) *Parser {
	p := &Parser{}
	for _, o := range opts {
		o(p)
	}
	return p
}

var defaultParser = New()

// Parse parses an ingredient line item such as
// "120 grams / 1 cup whole wheat flour, sifted lightly" with the default options.
//
// Supported shapes include:
//
//	1 g name
//	1 g / 1g name, modifier
//	1 g; 1 g name
//	¼ g name
//	1/4 g name
//	1 ¼ g name
//	1 1/4 g name
//	1 g (1 g) name
//	1 g name (about 1 g; 1 g)
//	name
//	1 name
func Parse(line string) (Ingredient, error) {
	return defaultParser.Parse(line)
}

// ParseAmount parses the one or two amounts at the start of phrase, e.g. "12 grams"
// or "120 grams / 1 cup", with the default options.
func ParseAmount(phrase string) ([]Amount, error) {
	return defaultParser.ParseAmount(phrase)
}

// Parse parses a single ingredient line. A trailing "\n" or "\r\n" is allowed; any
// other text after the line ending is a syntax error.
func (p *Parser) Parse(line string) (Ingredient, error) {
	rest, ing, err := p.ingredient(line)
	if err != nil {
		return Ingredient{}, p.syntaxError(line, err)
	}
	if rest != "" && rest != "\n" && rest != "\r\n" {
		return Ingredient{}, p.syntaxError(line, fail(rest, "end of line").push("ing", line))
	}
	return ing, nil
}

// ParseAmount parses the amount group at the start of phrase. Text after it is ignored.
func (p *Parser) ParseAmount(phrase string) ([]Amount, error) {
	_, out, err := p.amounts(phrase)
	if err != nil {
		return nil, p.syntaxError(phrase, err)
	}
	return out, nil
}

// nameToken is a run of letters, a run of whitespace or a hyphen.
func nameToken(in string) (string, string, *failure) {
	return alt[string](alpha1, space1, tag("-"))(in)
}

func (p *Parser) ingredient(in string) (string, Ingredient, *failure) {
	// leading amount(s)
	rest, amounts, _, err := opt[[]Amount](p.amounts)(in)
	if err != nil {
		return in, Ingredient{}, err.push("ing", in)
	}
	rest, _, _ = space0(rest)

	// name, can be multiple words
	rest, chunks, _, err := opt(many1[string](nameToken))(rest)
	if err != nil {
		return in, Ingredient{}, err.push("ing", in)
	}

	// more amounts may follow the name in parens
	rest, more, _, err := opt[[]Amount](p.amountParens)(rest)
	if err != nil {
		return in, Ingredient{}, err.push("ing", in)
	}

	// the comma separates the modifier
	rest, _, _, _ = opt(tag(", "))(rest)

	// once past the comma anything goes, digits included
	rest, modifier, err := notLineEnding(rest)
	if err != nil {
		return in, Ingredient{}, err.push("ing", in)
	}

	all := make([]Amount, 0, len(amounts)+len(more))
	all = append(all, amounts...)
	all = append(all, more...)

	return rest, normalize(strings.Trim(strings.Join(chunks, ""), " "), all, modifier), nil
}

// normalize applies the post-parse rules. When there is a unit but no name, as in
// "1 egg", the unit is really the name, so the line becomes "1 whole egg".
func normalize(name string, amounts []Amount, modifier string) Ingredient {
	if name == "" && len(amounts) == 1 {
		name = amounts[0].Unit
		amounts[0].Unit = "whole"
	}
	ing := Ingredient{Name: name, Amounts: amounts}
	if len(modifier) > 0 {
		ing.Modifier = &modifier
	}
	return ing
}
