package mapper

import (
	"math"
	"sort"
)

// LatestTimestamp is the sentinel version for cells written "now". Stores
// resolve it to the server-side write time; until then it sorts after every
// real timestamp.
const LatestTimestamp int64 = math.MaxInt64

// VersionedValues holds every stored version of one column, keyed by
// timestamp.
type VersionedValues map[int64][]byte

// Latest returns the entry with the greatest timestamp.
func (v VersionedValues) Latest() (int64, []byte, bool) {
	var (
		maxTS int64
		value []byte
		found bool
	)
	for ts, b := range v {
		if !found || ts > maxTS {
			maxTS, value, found = ts, b, true
		}
	}
	return maxTS, value, found
}

// Timestamps returns every version timestamp in descending order, the
// exchange ordering storage adapters expect.
func (v VersionedValues) Timestamps() []int64 {
	out := make([]int64, 0, len(v))
	for ts := range v {
		out = append(out, ts)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] > out[j] })
	return out
}

// VersionedQualifier maps qualifiers to their versioned values.
type VersionedQualifier map[string]VersionedValues

// Qualifiers returns the qualifier names in byte-lexicographic order.
func (q VersionedQualifier) Qualifiers() []string {
	out := make([]string, 0, len(q))
	for name := range q {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Row is the canonical columnar form of one record: raw row key bytes plus
// family → qualifier → timestamp → value cells.
//
// Example:
//
//	Row{
//	  Key: []byte("row1"),
//	  Columns: map[string]VersionedQualifier{
//	    "family1": {
//	      "qualifier1": {LatestTimestamp: []byte("value1")},
//	    },
//	  },
//	}
//
// Family and qualifier ordering is byte-lexicographic; use Families and
// Qualifiers to iterate in that order.
type Row struct {
	Key     []byte
	Columns map[string]VersionedQualifier
}

// Families returns the family names in byte-lexicographic order.
func (r *Row) Families() []string {
	out := make([]string, 0, len(r.Columns))
	for name := range r.Columns {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// IsEmpty reports whether the row holds no cells at all.
func (r *Row) IsEmpty() bool {
	for _, qualifiers := range r.Columns {
		for _, versions := range qualifiers {
			if len(versions) > 0 {
				return false
			}
		}
	}
	return true
}

// add stores one cell, creating the nested maps as needed.
func (r *Row) add(family, qualifier string, ts int64, value []byte) {
	if r.Columns == nil {
		r.Columns = make(map[string]VersionedQualifier)
	}
	if _, exists := r.Columns[family]; !exists {
		r.Columns[family] = make(VersionedQualifier)
	}
	if _, exists := r.Columns[family][qualifier]; !exists {
		r.Columns[family][qualifier] = make(VersionedValues)
	}
	r.Columns[family][qualifier][ts] = value
}
