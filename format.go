package ingredient

import (
	"strconv"
	"strings"
)

// FormatValue renders v with the fewest digits that read back as v.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatAmount renders a as "<value> <unit>".
func FormatAmount(a Amount) string {
	return FormatValue(a.Value) + " " + a.Unit
}

// FormatIngredient renders i as "<amounts> <name>[, <modifier>]", with amounts joined
// by " / " or "n/a" when there are none. It is not a strict inverse of Parse.
func FormatIngredient(i Ingredient) string {
	var b strings.Builder
	if len(i.Amounts) == 0 {
		b.WriteString("n/a")
	}
	for n, a := range i.Amounts {
		if n > 0 {
			b.WriteString(" / ")
		}
		b.WriteString(FormatAmount(a))
	}
	b.WriteString(" ")
	b.WriteString(i.Name)
	if i.Modifier != nil {
		b.WriteString(", ")
		b.WriteString(*i.Modifier)
	}
	return b.String()
}

func (a Amount) String() string { return FormatAmount(a) }

func (i Ingredient) String() string { return FormatIngredient(i) }
