package csvdata

import "strings"

// Record is one data row keyed by header name. Treat it as read-only once
// BuildRecord has returned it.
type Record map[string]string

// Get returns the value for field, or "" when the record has no such field.
func (r Record) Get(field string) string {
	return r[field]
}

// Clean trims surrounding whitespace and then removes a single pair of
// enclosing double quotes. A value quoted on one side only is left alone.
func Clean(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

// BuildRecord maps row onto header by position. Short rows are padded with
// empty values and values past the end of the header are discarded. A header
// name that appears twice keeps the later column's value.
func BuildRecord(header, row []string) Record {
	rec := make(Record, len(header))
	for i, name := range header {
		var value string
		if i < len(row) {
			value = Clean(row[i])
		}
		rec[Clean(name)] = value
	}
	return rec
}

// Table is a parsed file: the cleaned header names in column order and the
// records built from the data rows.
type Table struct {
	Header  []string
	Records []Record
}

// ParseTable parses text into a Table.
func ParseTable(text string) Table {
	header, rows := Parse(text)

	t := Table{Header: make([]string, len(header))}
	for i, name := range header {
		t.Header[i] = Clean(name)
	}
	if len(rows) > 0 {
		t.Records = make([]Record, 0, len(rows))
	}
	for _, row := range rows {
		t.Records = append(t.Records, BuildRecord(header, row))
	}
	return t
}

// ParseRecords parses text and builds one record per data row, in source
// order. Text with only a header line yields no records.
func ParseRecords(text string) []Record {
	return ParseTable(text).Records
}
