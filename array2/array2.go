// Package array2 provides a fixed-size two-dimensional array stored as a
// single row-major slice.
package array2

import (
	"errors"
	"fmt"
	"iter"
)

// ErrDimensionMismatch is returned when the number of values does not equal
// width*height.
var ErrDimensionMismatch = errors.New("array2: value count does not match dimensions")

// Point is a column/row coordinate.
type Point struct {
	X, Y int
}

// Array2 is a width x height grid of T. The zero value is an empty array.
type Array2[T any] struct {
	width  int
	height int
	data   []T
}

// New returns a width x height array with every element set to fill.
// Negative dimensions are treated as zero.
func New[T any](width, height int, fill T) *Array2[T] {
	width, height = max(width, 0), max(height, 0)
	data := make([]T, width*height)
	for i := range data {
		data[i] = fill
	}
	return &Array2[T]{width: width, height: height, data: data}
}

// FromRowMajor wraps values, laid out row by row, as a width x height array.
// The slice is used directly, not copied.
func FromRowMajor[T any](width, height int, values []T) (*Array2[T], error) {
	if width < 0 || height < 0 || width*height != len(values) {
		return nil, fmt.Errorf("%w: %d values for %dx%d", ErrDimensionMismatch, len(values), width, height)
	}
	return &Array2[T]{width: width, height: height, data: values}, nil
}

func (a *Array2[T]) Width() int { return a.width }
func (a *Array2[T]) Height() int { return a.height }
func (a *Array2[T]) Len() int { return len(a.data) }

// Elements returns the backing slice in row-major order.
func (a *Array2[T]) Elements() []T { return a.data }

func (a *Array2[T]) index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= a.width || y >= a.height {
		return 0, false
	}
	return y*a.width + x, true
}

// Get returns the element at column x, row y. The boolean is false when the
// coordinate is out of bounds.
func (a *Array2[T]) Get(x, y int) (T, bool) {
	i, ok := a.index(x, y)
	if !ok {
		var zero T
		return zero, false
	}
	return a.data[i], true
}

// Set stores v at column x, row y and reports whether the coordinate was in
// bounds.
func (a *Array2[T]) Set(x, y int, v T) bool {
	i, ok := a.index(x, y)
	if ok {
		a.data[i] = v
	}
	return ok
}

// Ptr returns a pointer to the element at x, y, or nil when out of bounds.
func (a *Array2[T]) Ptr(x, y int) *T {
	i, ok := a.index(x, y)
	if !ok {
		return nil
	}
	return &a.data[i]
}

// RowMajor yields every element row by row, left to right.
func (a *Array2[T]) RowMajor() iter.Seq2[Point, T] {
	return func(yield func(Point, T) bool) {
		for i, v := range a.data {
			if !yield(Point{X: i % a.width, Y: i / a.width}, v) {
				return
			}
		}
	}
}

// ColMajor yields every element column by column, top to bottom.
func (a *Array2[T]) ColMajor() iter.Seq2[Point, T] {
	return func(yield func(Point, T) bool) {
		for x := 0; x < a.width; x++ {
			for y := 0; y < a.height; y++ {
				if !yield(Point{X: x, Y: y}, a.data[y*a.width+x]) {
					return
				}
			}
		}
	}
}
