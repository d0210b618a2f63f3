package csvdata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "  Book ", want: "Book"},
		{in: `"Book"`, want: "Book"},
		{in: ` "Book" `, want: "Book"},
		{in: `""Book""`, want: `"Book"`},
		{in: `"Book`, want: `"Book`},
		{in: `Book"`, want: `Book"`},
		{in: `"`, want: `"`},
		{in: `""`, want: ""},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestBuildRecord(t *testing.T) {
	t.Run("short row pads with empty values", func(t *testing.T) {
		rec := BuildRecord([]string{"Type", "Title", "Link"}, []string{"Book"})
		assert.Equal(t, Record{"Type": "Book", "Title": "", "Link": ""}, rec)
	})

	t.Run("extra values are discarded", func(t *testing.T) {
		rec := BuildRecord([]string{"Type"}, []string{"Book", "Extra"})
		assert.Equal(t, Record{"Type": "Book"}, rec)
	})

	t.Run("header names are cleaned", func(t *testing.T) {
		rec := BuildRecord([]string{` "Type" `, " Title"}, []string{"Book", "X"})
		assert.Equal(t, Record{"Type": "Book", "Title": "X"}, rec)
	})

	t.Run("repeated header keeps the later value", func(t *testing.T) {
		rec := BuildRecord([]string{"Note", "Note"}, []string{"first", "second"})
		assert.Equal(t, Record{"Note": "second"}, rec)
	})

	t.Run("missing field reads as empty", func(t *testing.T) {
		rec := BuildRecord([]string{"Type"}, []string{"Book"})
		assert.Equal(t, "", rec.Get("Award"))
	})
}

func TestParseRecords(t *testing.T) {
	t.Run("single record", func(t *testing.T) {
		records := ParseRecords("Type,Title\nBook,My Book\n")
		require.Len(t, records, 1)
		assert.Equal(t, Record{"Type": "Book", "Title": "My Book"}, records[0])
	})

	t.Run("quoted comma and embedded quotes", func(t *testing.T) {
		records := ParseRecords("Authors,Title\n\"Smith, J.\",\"\"\"Quoted\"\" Title\"\n")
		require.Len(t, records, 1)
		assert.Equal(t, "Smith, J.", records[0].Get("Authors"))
		assert.Equal(t, `"Quoted" Title`, records[0].Get("Title"))
	})

	t.Run("header with fewer columns than the row", func(t *testing.T) {
		records := ParseRecords("Type\nBook,Extra\n")
		require.Len(t, records, 1)
		assert.Equal(t, Record{"Type": "Book"}, records[0])
	})

	t.Run("header only", func(t *testing.T) {
		assert.Empty(t, ParseRecords("Type,Title\n"))
	})

	t.Run("empty text", func(t *testing.T) {
		assert.Empty(t, ParseRecords(""))
	})

	t.Run("values map to their column", func(t *testing.T) {
		header := []string{"A", "B", "C"}
		rows := [][]string{{"1", "2", "3"}, {"x", "", "z"}, {" p ", `"q"`, "r"}}
		var lines []string
		lines = append(lines, strings.Join(header, ","))
		for _, row := range rows {
			lines = append(lines, strings.Join(row, ","))
		}

		records := ParseRecords(strings.Join(lines, "\n"))
		require.Len(t, records, len(rows))
		for i, row := range rows {
			for j, name := range header {
				assert.Equal(t, Clean(row[j]), records[i].Get(name), "row %d column %s", i, name)
			}
		}
	})
}

func TestParseTable(t *testing.T) {
	table := ParseTable("\"Type\", Title ,Link\nBook,A\n")
	assert.Equal(t, []string{"Type", "Title", "Link"}, table.Header)
	require.Len(t, table.Records, 1)
	assert.Equal(t, Record{"Type": "Book", "Title": "A", "Link": ""}, table.Records[0])

	empty := ParseTable("")
	assert.Empty(t, empty.Header)
	assert.Nil(t, empty.Records)
}
