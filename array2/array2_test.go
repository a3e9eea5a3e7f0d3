package array2

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFill(t *testing.T) {
	a := New(3, 2, 7)
	assert.Equal(t, 3, a.Width())
	assert.Equal(t, 2, a.Height())
	assert.Equal(t, 6, a.Len())
	for _, v := range a.Elements() {
		assert.Equal(t, 7, v)
	}

	empty := New(-1, 4, 0)
	assert.Equal(t, 0, empty.Len())
}

func TestFromRowMajor(t *testing.T) {
	a, err := FromRowMajor(2, 2, []int{1, 2, 3, 4})
	require.NoError(t, err)
	v, ok := a.Get(1, 0)
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	v, ok = a.Get(0, 1)
	assert.True(t, ok)
	assert.Equal(t, 3, v)

	_, err = FromRowMajor(3, 2, []int{1, 2, 3})
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestOutOfBounds(t *testing.T) {
	a := New(2, 3, "x")
	for _, p := range []Point{{-1, 0}, {0, -1}, {2, 0}, {0, 3}, {5, 5}} {
		_, ok := a.Get(p.X, p.Y)
		assert.False(t, ok, "Get(%v)", p)
		assert.False(t, a.Set(p.X, p.Y, "y"), "Set(%v)", p)
		assert.Nil(t, a.Ptr(p.X, p.Y), "Ptr(%v)", p)
	}
}

func TestSetAndPtr(t *testing.T) {
	a := New(2, 2, 0)
	require.True(t, a.Set(1, 1, 9))
	*a.Ptr(0, 1) = 5
	if diff := cmp.Diff([]int{0, 0, 5, 9}, a.Elements()); diff != "" {
		t.Fatalf("elements mismatch (-want +got):\n%s", diff)
	}
}

func TestTraversalOrder(t *testing.T) {
	a, err := FromRowMajor(3, 2, []int{0, 1, 2, 3, 4, 5})
	require.NoError(t, err)

	var rows []Point
	var rowVals []int
	for p, v := range a.RowMajor() {
		rows = append(rows, p)
		rowVals = append(rowVals, v)
	}
	wantRows := []Point{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}}
	if diff := cmp.Diff(wantRows, rows); diff != "" {
		t.Fatalf("row-major points (-want +got):\n%s", diff)
	}
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, rowVals)

	var colVals []int
	for p, v := range a.ColMajor() {
		got, ok := a.Get(p.X, p.Y)
		require.True(t, ok)
		assert.Equal(t, got, v)
		colVals = append(colVals, v)
	}
	assert.Equal(t, []int{0, 3, 1, 4, 2, 5}, colVals)
}

func TestTraversalStopsEarly(t *testing.T) {
	a := New(4, 4, 1)
	n := 0
	for range a.ColMajor() {
		n++
		if n == 3 {
			break
		}
	}
	assert.Equal(t, 3, n)
}
