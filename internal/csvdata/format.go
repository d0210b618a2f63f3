package csvdata

import "strings"

// FormatLine joins values into one line that SplitLine followed by Clean
// reads back unchanged, provided each value is already clean (no edge
// whitespace, no enclosing quote pair, no line breaks). Values holding a comma
// or a quote are quoted with embedded quotes doubled.
func FormatLine(values []string) string {
	var b strings.Builder
	for i, v := range values {
		if i > 0 {
			b.WriteByte(',')
		}
		if needsQuotes(v) {
			b.WriteByte('"')
			b.WriteString(strings.ReplaceAll(v, `"`, `""`))
			b.WriteByte('"')
			continue
		}
		b.WriteString(v)
	}
	return b.String()
}

// FormatRecords writes header followed by one line per record, using header
// to order the columns.
func FormatRecords(header []string, records []Record) string {
	var b strings.Builder
	b.WriteString(FormatLine(header))
	b.WriteByte('\n')

	row := make([]string, len(header))
	for _, rec := range records {
		for i, name := range header {
			row[i] = rec.Get(name)
		}
		b.WriteString(FormatLine(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func needsQuotes(v string) bool {
	return strings.ContainsAny(v, `",`)
}
