package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/unbound-force/forge/internal/synth"
)

// WriteText writes the engine result as human-readable styled text.
// Output uses lipgloss for color and formatting when the output is
// a TTY; degrades gracefully for pipes and CI.
func WriteText(w io.Writer, res synth.Result) error {
	s := DefaultStyles()
	doc := Build(res)

	fmt.Fprintln(w, s.Header.Render(fmt.Sprintf("=== module %s ===", doc.Module)))

	totalCases, totalFailing := 0, 0
	count := func(cs []Case) {
		for _, c := range cs {
			totalCases++
			if c.ErrKind != "" {
				totalFailing++
			}
		}
	}

	for _, fc := range doc.Functions {
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.Header.Render(fmt.Sprintf("=== %s ===", fc.Function)))
		writeCaseTable(w, fc.Cases, s)
		count(fc.Cases)
	}

	for _, cc := range doc.Classes {
		fmt.Fprintln(w)
		fmt.Fprintln(w, s.Header.Render(fmt.Sprintf("=== class %s ===", cc.Class)))
		for _, mc := range cc.Members {
			fmt.Fprintln(w, s.SubHeader.Render(fmt.Sprintf("    %s", mc.Member)))
			writeCaseTable(w, mc.Cases, s)
			count(mc.Cases)
		}
	}

	fmt.Fprintf(w, "\n%s\n",
		s.Header.Render(fmt.Sprintf(
			"%d case(s) generated, %d expect errors",
			totalCases, totalFailing)))

	return nil
}

func writeCaseTable(w io.Writer, cases []Case, s Styles) {
	if len(cases) == 0 {
		fmt.Fprintln(w, s.Muted.Render("    No cases generated."))
		return
	}

	// Budget: 80 cols total. Borders take ~4, padding 1 space each
	// side per column. RESULT=6, INPUTS=24, EXPECTED=40.
	const maxCell = 40
	rows := make([][]string, 0, len(cases))
	for _, c := range cases {
		result := "ok"
		expected := strings.Join(c.Outputs, ", ")
		if c.ErrKind != "" {
			result = "error"
			expected = c.ErrKind
		}
		rows = append(rows, []string{
			result,
			clip(strings.Join(c.Inputs, ", "), 24),
			clip(expected, maxCell),
		})
	}

	t := table.New().
		Width(76). // Leave 4 chars for left indent.
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			if col == 0 && row >= 0 && row < len(rows) {
				return s.OutcomeStyle(rows[row][0] == "error")
			}
			return s.TableCell
		}).
		Headers("RESULT", "INPUTS", "EXPECTED").
		Rows(rows...)

	fmt.Fprintln(w, t)
}

func clip(s string, max int) string {
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}
