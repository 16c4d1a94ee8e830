package rating

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Bucket is one row of a rating histogram.
type Bucket struct {
	// Rating is the raw bucket value.
	Rating float64
	// Label is the bucket value for whole ratings and empty for fractional ones.
	Label string
	// Labeled is false for fractional buckets.
	Labeled bool
	Count   int
	// Bar is the Bar glyph repeated Count times.
	Bar string
}

func rated(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if it.HasDirector() {
			out = append(out, it)
		}
	}
	return out
}

// Average returns the mean rating of the items that have a director,
// rounded to two decimals. It fails with ErrEmptyInput when there are none.
func Average(items []Item) (float64, error) {
	valid := rated(items)
	if len(valid) == 0 {
		return 0, emptyInput(len(items))
	}

	var total float64
	for _, it := range valid {
		total += it.Value()
	}
	return math.Round(total/float64(len(valid))*100) / 100, nil
}

// Histogram groups the items that have a director by rating, in ascending
// order. Numerically equal ratings share a bucket.
func (f *Formatter) Histogram(items []Item) []Bucket {
	counts := make(map[float64]int)
	for _, it := range rated(items) {
		v := it.Value()
		if v == 0 {
			v = 0 // folds -0 into the 0 bucket
		}
		counts[v]++
	}

	keys := make([]float64, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	buckets := make([]Bucket, 0, len(keys))
	for _, k := range keys {
		b := Bucket{
			Rating: k,
			Count:  counts[k],
			Bar:    strings.Repeat(f.glyphs.Bar, counts[k]),
		}
		if k == math.Floor(k) {
			b.Label = strconv.FormatFloat(k, 'f', -1, 64)
			b.Labeled = true
		}
		buckets = append(buckets, b)
	}
	return buckets
}

// Histogram groups items with the default glyphs.
func Histogram(items []Item) []Bucket {
	return defaultFormatter.Histogram(items)
}
