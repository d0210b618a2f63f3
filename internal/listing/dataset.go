// Package listing groups parsed records into display categories and renders
// them as HTML fragments.
//
// Each dataset is plain configuration: where its CSV lives, which element on
// the page receives the output, how records map onto canonical buckets and
// which markup fragments make up one item. Adding a category means adding a
// table row, not a code path.
package listing

// Fragment is one piece of an item's markup. Markup is html/template source
// executed with the record as dot; missing fields render as "". When Field is
// set the fragment is optional and is only emitted if the record's value for
// Field is non-empty.
type Fragment struct {
	Field  string
	Markup string
}

// Always returns a fragment that is emitted for every record.
func Always(markup string) Fragment {
	return Fragment{Markup: markup}
}

// When returns a fragment emitted only when field is non-empty.
func When(field, markup string) Fragment {
	return Fragment{Field: field, Markup: markup}
}

// Bucket is one canonical category. Key is matched against the (aliased)
// category value; Heading is what readers see.
type Bucket struct {
	Key     string
	Heading string
	Item    []Fragment
}

// Layout holds the CSS classes of the wrapper elements.
type Layout struct {
	Category string
	Title    string
	Inner    string
	Item     string
}

// Dataset describes one CSV-backed listing.
type Dataset struct {
	Name string
	// File is resolved against the configured data base location.
	File string
	// Container is the class selector (".publications-list") of the element
	// that receives the rendered fragment.
	Container     string
	CategoryField string
	// Grouping maps category values to bucket keys. A nil Grouping renders
	// every record with the first bucket's item and no headings.
	Grouping Grouping
	Buckets  []Bucket
	Layout   Layout
}

// Grouped reports whether records are split into headed categories.
func (d Dataset) Grouped() bool {
	return d.Grouping != nil
}

// Grouping resolves a raw category value to a bucket key. The returned key
// need not exist; Group drops records whose key matches no bucket.
type Grouping interface {
	Resolve(value string) string
}

// AliasTable renames legacy category values. Values without an entry pass
// through unchanged.
type AliasTable map[string]string

// Resolve implements Grouping.
func (a AliasTable) Resolve(value string) string {
	if canonical, ok := a[value]; ok {
		return canonical
	}
	return value
}

// Split sends values listed in Match to the Matched bucket and everything
// else, empty values included, to Rest.
type Split struct {
	Match   []string
	Matched string
	Rest    string
}

// Resolve implements Grouping.
func (s Split) Resolve(value string) string {
	for _, m := range s.Match {
		if value == m {
			return s.Matched
		}
	}
	return s.Rest
}
