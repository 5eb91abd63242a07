package render

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"ingredient"
)

func (w *Writer) writeTable(entries []Entry) error {
	if len(entries) == 0 {
		fmt.Fprintln(w.output, "<empty>")
		return nil
	}

	tw := tabwriter.NewWriter(w.output, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "LINE\tAMOUNTS\tNAME\tMODIFIER")
	fmt.Fprintln(tw, "----\t-------\t----\t--------")
	for _, e := range entries {
		if e.Ingredient == nil {
			// verbose traces span several lines; only the first fits a row
			msg, _, _ := strings.Cut(e.Error, "\n")
			fmt.Fprintf(tw, "%d\terror: %s\t\t\n", e.Line, cell(msg))
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.Line, w.palette.amounts(e.Ingredient.Amounts), cell(e.Ingredient.Name), cell(modifier(e.Ingredient)))
	}
	return tw.Flush()
}

func modifier(i *ingredient.Ingredient) string {
	if i.Modifier == nil {
		return "-"
	}
	return strings.TrimSpace(*i.Modifier)
}

// cell keeps a value inside its column; a tab would start a new one.
func cell(s string) string {
	return strings.ReplaceAll(s, "\t", " ")
}
