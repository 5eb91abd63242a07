package ingredient

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestParse(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Ingredient
	}{
		{
			name:  "amount and name",
			input: "12 cups flour",
			want: Ingredient{
				Name:    "flour",
				Amounts: []Amount{NewAmount("cups", 12)},
			},
		},
		{
			name:  "two amounts with vulgar fraction",
			input: "1¼  cups / 155.5 grams flour",
			want: Ingredient{
				Name:    "flour",
				Amounts: []Amount{NewAmount("cups", 1.25), NewAmount("grams", 155.5)},
			},
		},
		{
			name:  "name only",
			input: "egg",
			want:  Ingredient{Name: "egg", Amounts: []Amount{}},
		},
		{
			name:  "bare quantity becomes whole",
			input: "1 egg",
			want: Ingredient{
				Name:    "egg",
				Amounts: []Amount{NewAmount("whole", 1)},
			},
		},
		{
			name:  "trailing parenthetical amounts are appended",
			input: "6 ounces unsalted butter (1½ sticks; 168.75g)",
			want: Ingredient{
				Name: "unsalted butter",
				Amounts: []Amount{
					NewAmount("ounces", 6),
					NewAmount("sticks", 1.5),
					NewAmount("g", 168.75),
				},
			},
		},
		{
			name:  "modifier after comma",
			input: "12 cups all purpose flour, lightly sifted",
			want: Ingredient{
				Name:     "all purpose flour",
				Amounts:  []Amount{NewAmount("cups", 12)},
				Modifier: strPtr("lightly sifted"),
			},
		},
		{
			name:  "nested parenthetical with about",
			input: "0.25 ounces (1 packet, about 2 teaspoons) instant or rapid rise yeast",
			want: Ingredient{
				Name: "instant or rapid rise yeast",
				Amounts: []Amount{
					NewAmount("ounces", 0.25),
					NewAmount("packet", 1),
					NewAmount("teaspoons", 2),
				},
			},
		},
		{
			name:  "range",
			input: "1-2 cups flour",
			want: Ingredient{
				Name:    "flour",
				Amounts: []Amount{NewRangeAmount("cups", 1, 2)},
			},
		},
		{
			name:  "spelled out one",
			input: "one whole egg",
			want: Ingredient{
				Name:    "egg",
				Amounts: []Amount{NewAmount("whole", 1)},
			},
		},
		{
			name:  "modifier kept verbatim",
			input: "salt,  to taste ",
			want: Ingredient{
				Name:     "salt",
				Amounts:  []Amount{},
				Modifier: strPtr(" to taste "),
			},
		},
		{
			name:  "modifier may contain digits",
			input: "2 cups water, about 110°F",
			want: Ingredient{
				Name:     "water",
				Amounts:  []Amount{NewAmount("cups", 2)},
				Modifier: strPtr("about 110°F"),
			},
		},
		{
			name:  "empty modifier is absent",
			input: "1 cup sugar, ",
			want: Ingredient{
				Name:    "sugar",
				Amounts: []Amount{NewAmount("cup", 1)},
			},
		},
		{
			name:  "hyphenated name",
			input: "2 cups all-purpose flour",
			want: Ingredient{
				Name:    "all-purpose flour",
				Amounts: []Amount{NewAmount("cups", 2)},
			},
		},
		{
			name:  "unknown glyph reads as zero",
			input: "⅐ cup sugar",
			want: Ingredient{
				Name:    "sugar",
				Amounts: []Amount{NewAmount("cup", 0)},
			},
		},
		{
			name:  "trailing newline",
			input: "1 egg\n",
			want: Ingredient{
				Name:    "egg",
				Amounts: []Amount{NewAmount("whole", 1)},
			},
		},
		{
			name:  "empty line",
			input: "",
			want:  Ingredient{Amounts: []Amount{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_EquivalentForms(t *testing.T) {
	a, err := Parse("1 ½ cups/192 grams all-purpose flour")
	require.NoError(t, err)
	b, err := Parse("1 1/2 cups / 192 grams all-purpose flour")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	a, err = Parse("2¼-2.5 cups milk")
	require.NoError(t, err)
	b, err = Parse("2 ¼ - 2.5 cups milk")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestParse_Separators(t *testing.T) {
	want := []Amount{NewAmount("cup", 1), NewAmount("g", 2)}
	for _, input := range []string{
		"1 cup; 2 g",
		"1 cup / 2 g",
		"1 cup 2 g",
		"1 cup, 2 g",
		"1 cup/2 g",
	} {
		t.Run(input, func(t *testing.T) {
			got, err := ParseAmount(input)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name          string
		parser        *Parser
		input         string
		wantRemainder string
	}{
		{
			name:          "text after the line ending",
			parser:        New(),
			input:         "egg\nmilk",
			wantRemainder: "\nmilk",
		},
		{
			name:          "lone carriage return",
			parser:        New(),
			input:         "1 cup\rflour",
			wantRemainder: "\rflour",
		},
		{
			name:          "strict fractions reject unknown glyphs",
			parser:        New(WithStrictFractions()),
			input:         "⅐ cup sugar",
			wantRemainder: "⅐ cup sugar",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.parser.Parse(tt.input)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrSyntax))

			var se *SyntaxError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.input, se.Input)
			assert.Equal(t, tt.wantRemainder, se.Remainder)
			assert.NotEmpty(t, se.Trace)
		})
	}
}

func TestParseAmount(t *testing.T) {
	t.Run("single", func(t *testing.T) {
		got, err := ParseAmount("120 grams")
		require.NoError(t, err)
		assert.Equal(t, []Amount{NewAmount("grams", 120)}, got)
	})

	t.Run("double", func(t *testing.T) {
		got, err := ParseAmount("120 grams / 1 cup")
		require.NoError(t, err)
		assert.Equal(t, []Amount{NewAmount("grams", 120), NewAmount("cup", 1)}, got)
	})

	t.Run("range", func(t *testing.T) {
		got, err := ParseAmount("2¼-2.5 cups")
		require.NoError(t, err)
		assert.Equal(t, []Amount{NewRangeAmount("cups", 2.25, 2.5)}, got)

		other, err := ParseAmount("2 ¼ - 2.5 cups")
		require.NoError(t, err)
		assert.Equal(t, got, other)
	})

	t.Run("trailing text is ignored", func(t *testing.T) {
		got, err := ParseAmount("3 tbsp butter")
		require.NoError(t, err)
		assert.Equal(t, []Amount{NewAmount("tbsp", 3)}, got)
	})

	t.Run("about is dropped by default", func(t *testing.T) {
		got, err := ParseAmount("about 2 teaspoons")
		require.NoError(t, err)
		assert.Equal(t, []Amount{NewAmount("teaspoons", 2)}, got)
	})

	t.Run("about is kept when asked", func(t *testing.T) {
		got, err := New(WithApproximate()).ParseAmount("1 packet, about 2 teaspoons")
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.False(t, got[0].Approximate)
		assert.True(t, got[1].Approximate)
	})

	t.Run("no amount", func(t *testing.T) {
		got, err := ParseAmount("flour")
		require.Error(t, err)
		assert.Nil(t, got)
		assert.ErrorIs(t, err, ErrSyntax)
	})
}

func TestParse_Concurrent(t *testing.T) {
	p := New(WithApproximate())
	lines := []string{
		"12 cups flour",
		"1 egg",
		"6 ounces unsalted butter (1½ sticks; 168.75g)",
		"about 2 tsp salt, to taste",
	}

	var wg sync.WaitGroup
	results := make([][]Ingredient, 8)
	for w := range results {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for _, line := range lines {
				ing, err := p.Parse(line)
				if err == nil {
					results[w] = append(results[w], ing)
				}
			}
		}(w)
	}
	wg.Wait()

	for _, r := range results[1:] {
		assert.Equal(t, results[0], r)
	}
	assert.Len(t, results[0], len(lines))
}
