package reports

import (
	"regexp"
	"strconv"
	"strings"

	"weblog-analytics/internal/models"
)

var cellGap = regexp.MustCompile(` {2,}`)

// Format renders an aggregation result as padded tabular text: a header row
// of column labels, then one line per result row in the order the query
// produced them. Rows are never re-sorted. Every column is padded to its
// widest cell with a two-space gap; the last column carries no trailing
// padding. The label count must match the arity of every row.
func Format(result *models.AggregationResult, labels []string) (string, error) {
	for _, row := range result.Rows {
		if row.Arity() != len(labels) {
			return "", errSchemaMismatch(len(labels), row.Arity())
		}
	}

	table := make([][]string, 0, len(result.Rows)+1)
	table = append(table, labels)
	for _, row := range result.Rows {
		cells := make([]string, 0, row.Arity())
		cells = append(cells, row.Key...)
		cells = append(cells, strconv.FormatInt(row.Count, 10))
		table = append(table, cells)
	}

	widths := make([]int, len(labels))
	for _, cells := range table {
		for c, cell := range cells {
			if len(cell) > widths[c] {
				widths[c] = len(cell)
			}
		}
	}

	var b strings.Builder
	for _, cells := range table {
		for c, cell := range cells {
			b.WriteString(cell)
			if c < len(cells)-1 {
				b.WriteString(strings.Repeat(" ", widths[c]-len(cell)+2))
			}
		}
		b.WriteByte('\n')
	}
	return b.String(), nil
}

// ParseTable is Format's inverse for well-formed tables: each line splits on
// runs of two or more spaces, the first line is the header, and every data
// line must have the header's cell count. Cells that themselves contain a
// run of two or more spaces do not survive the round trip.
func ParseTable(text string) ([][]string, error) {
	if text == "" {
		return nil, errEmptyTable()
	}

	lines := strings.Split(strings.TrimSuffix(text, "\n"), "\n")
	table := make([][]string, 0, len(lines))
	for i, line := range lines {
		cells := cellGap.Split(line, -1)
		if i > 0 && len(cells) != len(table[0]) {
			return nil, errMalformedTable(i+1, len(cells), len(table[0]))
		}
		table = append(table, cells)
	}
	return table, nil
}
