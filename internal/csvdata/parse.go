// Package csvdata turns the site's CSV data files into header-keyed records.
//
// The dialect is deliberately small: comma separated, double-quote quoting with
// doubled-quote escapes, one record per physical line. Quoted fields cannot
// span lines; a quote left open at the end of a line is closed implicitly and
// the next line starts fresh. Nothing in this package returns an error:
// malformed input produces a best-effort split.
package csvdata

import "strings"

const utf8BOM = "\uFEFF"

// SplitLine tokenizes a single line into raw fields. Fields are returned
// exactly as accumulated; whitespace and enclosing quotes are left for Clean.
func SplitLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '"':
			if inQuotes && i+1 < len(runes) && runes[i+1] == '"' {
				current.WriteRune('"')
				i++
				continue
			}
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(fields, current.String())
}

// Parse splits text into the header row and the data rows. The first line is
// always the header. Empty (or whitespace-only) text yields neither.
func Parse(text string) (header []string, rows [][]string) {
	text = strings.TrimSpace(strings.TrimPrefix(text, utf8BOM))
	if text == "" {
		return nil, nil
	}

	lines := strings.Split(text, "\n")
	header = SplitLine(strings.TrimSuffix(lines[0], "\r"))
	for _, line := range lines[1:] {
		rows = append(rows, SplitLine(strings.TrimSuffix(line, "\r")))
	}
	return header, rows
}
