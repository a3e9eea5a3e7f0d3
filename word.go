package rpeg

import (
	"fmt"

	"github.com/svanichkin/rpeg/bitpack"
)

// Word layout, most significant field first.
type field struct {
	name   string
	width  uint
	lsb    uint
	signed bool
}

var (
	fieldA  = field{"a", 9, 23, false}
	fieldB  = field{"b", 5, 18, true}
	fieldC  = field{"c", 5, 13, true}
	fieldD  = field{"d", 5, 8, true}
	fieldPb = field{"pb", 4, 4, false}
	fieldPr = field{"pr", 4, 0, false}
)

// PackWord packs blk into a 32-bit word. It fails with bitpack.ErrOverflow
// when a field does not fit its width.
func PackWord(blk Block) (uint32, error) {
	var (
		w   uint64
		err error
	)
	packU := func(f field, v uint64) {
		if err == nil {
			if w, err = bitpack.NewU(w, f.width, f.lsb, v); err != nil {
				err = fmt.Errorf("field %s: %w", f.name, err)
			}
		}
	}
	packS := func(f field, v int64) {
		if err == nil {
			if w, err = bitpack.NewS(w, f.width, f.lsb, v); err != nil {
				err = fmt.Errorf("field %s: %w", f.name, err)
			}
		}
	}
	packU(fieldA, blk.A)
	packS(fieldB, blk.B)
	packS(fieldC, blk.C)
	packS(fieldD, blk.D)
	packU(fieldPb, blk.Pb)
	packU(fieldPr, blk.Pr)
	if err != nil {
		return 0, err
	}
	return uint32(w), nil
}

// UnpackWord splits a packed word back into its block fields.
func UnpackWord(word uint32) Block {
	w := uint64(word)
	// Every field lies within 32 bits, so extraction cannot fail.
	getU := func(f field) uint64 {
		v, _ := bitpack.GetU(w, f.width, f.lsb)
		return v
	}
	getS := func(f field) int64 {
		v, _ := bitpack.GetS(w, f.width, f.lsb)
		return v
	}
	return Block{
		A:  getU(fieldA),
		B:  getS(fieldB),
		C:  getS(fieldC),
		D:  getS(fieldD),
		Pb: getU(fieldPb),
		Pr: getU(fieldPr),
	}
}
