package ingredient

// amountSeparators is tried in order; longer separators go first so a lone
// space does not swallow part of " / " or ", ".
var amountSeparators = []rule[string]{tag("; "), tag(" / "), tag(" "), tag(", "), tag("/")}

// amount1 parses a single amount such as "1 gram", "about 2 tsp" or "1-2 cups".
func (p *Parser) amount1(in string) (string, []Amount, *failure) {
	rest, _, about, err := opt(tag("about "))(in)
	if err != nil {
		return in, nil, err.push("amount1", in)
	}
	rest, value, err := p.numOrRange(rest)
	if err != nil {
		return in, nil, err.push("amount1", in)
	}
	rest, _, _ = space0(rest)
	rest, unit, err := alpha1(rest)
	if err != nil {
		return in, nil, err.push("amount1", in)
	}
	a := Amount{Unit: unit, Value: value.value, UpperValue: value.upper}
	if p.approximate {
		a.Approximate = about
	}
	return rest, []Amount{a}, nil
}

// amount2 parses two amounts joined by a separator, e.g. "120 grams / 1 cup" or
// "1 cup (125 grams)". Once a separator matches there is no retry with the next one.
func (p *Parser) amount2(in string) (string, []Amount, *failure) {
	rest, first, err := p.amount1(in)
	if err != nil {
		return in, nil, err.push("amount2", in)
	}
	rest, _, err = alt(amountSeparators...)(rest)
	if err != nil {
		return in, nil, err.push("amount2", in)
	}
	rest, second, err := alt[[]Amount](p.amountParens, p.amount1)(rest)
	if err != nil {
		return in, nil, err.push("amount2", in)
	}
	return rest, append(first, second...), nil
}

// amounts parses one or two amounts, e.g. "12 grams" or "120 grams / 1 cup".
func (p *Parser) amounts(in string) (string, []Amount, *failure) {
	return named("amount", alt[[]Amount](p.amount2, p.amount1))(in)
}

// amountParens parses a parenthesized amount group such as "(1 packet, about 2 teaspoons)".
func (p *Parser) amountParens(in string) (string, []Amount, *failure) {
	rest, _, err := char('(')(in)
	if err != nil {
		return in, nil, err.push("amt_parens", in)
	}
	rest, out, err := p.amounts(rest)
	if err != nil {
		return in, nil, err.push("amt_parens", in)
	}
	rest, _, err = char(')')(rest)
	if err != nil {
		return in, nil, err.push("amt_parens", in)
	}
	return rest, out, nil
}
