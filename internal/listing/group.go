package listing

import "github.com/Zachkp/scholar-site/internal/csvdata"

// Grouped is the result of bucketing one dataset's records. Bucket order is
// the dataset's declared order; records keep their source order.
type Grouped struct {
	keys    []string
	buckets map[string][]csvdata.Record
	dropped int
}

// Group buckets records for ds. Records whose resolved category matches no
// declared bucket are left out and counted in Dropped.
func Group(ds Dataset, records []csvdata.Record) Grouped {
	g := Grouped{buckets: make(map[string][]csvdata.Record, len(ds.Buckets))}
	for _, b := range ds.Buckets {
		if _, seen := g.buckets[b.Key]; seen {
			continue
		}
		g.keys = append(g.keys, b.Key)
		g.buckets[b.Key] = nil
	}

	if !ds.Grouped() {
		if len(g.keys) == 0 {
			g.dropped = len(records)
			return g
		}
		g.buckets[g.keys[0]] = append(g.buckets[g.keys[0]], records...)
		return g
	}

	for _, rec := range records {
		key := ds.Grouping.Resolve(rec.Get(ds.CategoryField))
		if _, ok := g.buckets[key]; !ok {
			g.dropped++
			continue
		}
		g.buckets[key] = append(g.buckets[key], rec)
	}
	return g
}

// Keys returns the bucket keys in display order, including empty buckets.
func (g Grouped) Keys() []string {
	return g.keys
}

// Records returns the records in bucket key.
func (g Grouped) Records(key string) []csvdata.Record {
	return g.buckets[key]
}

// Len is the number of records kept across all buckets.
func (g Grouped) Len() int {
	n := 0
	for _, recs := range g.buckets {
		n += len(recs)
	}
	return n
}

// Dropped is the number of records that matched no bucket.
func (g Grouped) Dropped() int {
	return g.dropped
}
