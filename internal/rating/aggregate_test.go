package rating

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestAverage(t *testing.T) {
	items := []Item{
		NewItem(4, "A"),
		NewItem(2, "B"),
		{Rating: ptr(5.0)},
	}

	avg, err := Average(items)
	require.NoError(t, err)
	assert.Equal(t, 3.0, avg)
}

func TestAverage_RoundsToTwoDecimals(t *testing.T) {
	items := []Item{NewItem(4, "A"), NewItem(3, "B"), NewItem(3, "C")}

	avg, err := Average(items)
	require.NoError(t, err)
	assert.Equal(t, 3.33, avg)
}

func TestAverage_MissingRatingCountsAsZero(t *testing.T) {
	items := []Item{NewItem(4, "A"), {Director: ptr("B")}}

	avg, err := Average(items)
	require.NoError(t, err)
	assert.Equal(t, 2.0, avg)
}

func TestAverage_EmptyInput(t *testing.T) {
	t.Run("no items", func(t *testing.T) {
		_, err := Average(nil)
		assert.ErrorIs(t, err, ErrEmptyInput)
	})

	t.Run("no directors", func(t *testing.T) {
		_, err := Average([]Item{{Rating: ptr(5.0)}, {Rating: ptr(3.0)}})
		assert.ErrorIs(t, err, ErrEmptyInput)
	})
}

func TestHistogram(t *testing.T) {
	items := []Item{
		NewItem(2, "B"),
		NewItem(3.5, "D"),
		NewItem(1, "A"),
		NewItem(1, "C"),
		{Rating: ptr(5.0)},
	}

	got := Histogram(items)

	require.Len(t, got, 3)
	assert.Equal(t, Bucket{Rating: 1, Label: "1", Labeled: true, Count: 2, Bar: "**"}, got[0])
	assert.Equal(t, Bucket{Rating: 2, Label: "2", Labeled: true, Count: 1, Bar: "*"}, got[1])
	assert.Equal(t, Bucket{Rating: 3.5, Label: "", Labeled: false, Count: 1, Bar: "*"}, got[2])
}

func TestHistogram_MissingRatingBucketsAtZero(t *testing.T) {
	got := Histogram([]Item{{Director: ptr("A")}, NewItem(0, "B")})

	require.Len(t, got, 1)
	assert.Equal(t, "0", got[0].Label)
	assert.Equal(t, 2, got[0].Count)
}

func TestHistogram_NegativeZeroSharesZeroBucket(t *testing.T) {
	got := Histogram([]Item{NewItem(math.Copysign(0, -1), "A"), NewItem(0, "B")})

	require.Len(t, got, 1)
	assert.Equal(t, "0", got[0].Label)
	assert.False(t, math.Signbit(got[0].Rating))
	assert.Equal(t, 2, got[0].Count)
}

func TestHistogram_Empty(t *testing.T) {
	assert.Empty(t, Histogram(nil))
}

func TestHistogram_CustomBar(t *testing.T) {
	f := New(Glyphs{Bar: "#"})
	got := f.Histogram([]Item{NewItem(4, "A"), NewItem(4, "B"), NewItem(4, "C")})

	require.Len(t, got, 1)
	assert.Equal(t, "###", got[0].Bar)
}

func TestHistogram_Idempotent(t *testing.T) {
	items := []Item{NewItem(1, "A"), NewItem(2.5, "B")}
	assert.Equal(t, Histogram(items), Histogram(items))
}
