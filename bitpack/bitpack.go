// Package bitpack packs and extracts fixed-width signed and unsigned
// bit fields inside a 64-bit word.
//
// A field is described by its width in bits and the offset of its least
// significant bit. Fields of width 0 hold only the value 0; width+lsb must
// not exceed 64.
package bitpack

import (
	"errors"
	"fmt"
)

// Errors returned by the packing functions.
var (
	ErrOverflow   = errors.New("bitpack: value does not fit in field")
	ErrFieldRange = errors.New("bitpack: field exceeds 64-bit word")
)

// shl and shr treat shifts of 64 or more as producing zero (or the sign
// fill for arithmetic shifts), so width 64 works without special cases.
func shl(v uint64, n uint) uint64 {
	if n >= 64 {
		return 0
	}
	return v << n
}

func shr(v uint64, n uint) uint64 {
	if n >= 64 {
		return 0
	}
	return v >> n
}

func sar(v int64, n uint) int64 {
	if n >= 64 {
		if v < 0 {
			return -1
		}
		return 0
	}
	return v >> n
}

// mask returns a word with width ones starting at bit lsb.
func mask(width, lsb uint) uint64 {
	return shl(shr(^uint64(0), 64-width), lsb)
}

func checkField(width, lsb uint) error {
	if width > 64 || width+lsb > 64 {
		return fmt.Errorf("%w: width %d at lsb %d", ErrFieldRange, width, lsb)
	}
	return nil
}

// FitsU reports whether n can be represented in width unsigned bits.
func FitsU(n uint64, width uint) bool {
	if width >= 64 {
		return true
	}
	return shr(n, width) == 0
}

// FitsS reports whether n can be represented in width bits of two's
// complement.
func FitsS(n int64, width uint) bool {
	if width == 0 {
		return n == 0
	}
	if width >= 64 {
		return true
	}
	lo := -(int64(1) << (width - 1))
	hi := int64(1)<<(width-1) - 1
	return n >= lo && n <= hi
}

// GetU extracts the unsigned field of the given width at lsb.
func GetU(word uint64, width, lsb uint) (uint64, error) {
	if err := checkField(width, lsb); err != nil {
		return 0, err
	}
	return shr(word&mask(width, lsb), lsb), nil
}

// GetS extracts the signed field of the given width at lsb, sign-extending
// from its top bit.
func GetS(word uint64, width, lsb uint) (int64, error) {
	if err := checkField(width, lsb); err != nil {
		return 0, err
	}
	if width == 0 {
		return 0, nil
	}
	// Move the field to the top of the word, then shift back arithmetically.
	top := shl(word, 64-width-lsb)
	return sar(int64(top), 64-width), nil
}

// NewU returns word with the unsigned field at lsb replaced by value.
func NewU(word uint64, width, lsb uint, value uint64) (uint64, error) {
	if err := checkField(width, lsb); err != nil {
		return 0, err
	}
	if !FitsU(value, width) {
		return 0, fmt.Errorf("%w: %d in %d unsigned bits", ErrOverflow, value, width)
	}
	m := mask(width, lsb)
	return word&^m | shl(value, lsb)&m, nil
}

// NewS returns word with the signed field at lsb replaced by value.
func NewS(word uint64, width, lsb uint, value int64) (uint64, error) {
	if err := checkField(width, lsb); err != nil {
		return 0, err
	}
	if !FitsS(value, width) {
		return 0, fmt.Errorf("%w: %d in %d signed bits", ErrOverflow, value, width)
	}
	m := mask(width, lsb)
	return word&^m | shl(uint64(value), lsb)&m, nil
}
