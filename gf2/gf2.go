// Package gf2 holds the bit level helpers used by the codes. Vectors are
// sparsemat vectors but every function here treats the bits past Len() as
// zero, so two vectors of different lengths can still be combined or compared.
package gf2

import (
	"fmt"
	"strings"

	mat "github.com/nathanhack/sparsemat"
	"golang.org/x/exp/slices"
)

//Bit returns the bit at index i, positions outside the vector are zero.
func Bit(v mat.SparseVector, i int) int {
	if v == nil || i < 0 || i >= v.Len() {
		return 0
	}
	return v.At(i) & 1
}

//Flip toggles the bit at index i in place.
func Flip(v mat.SparseVector, i int) {
	v.Set(i, v.At(i)^1)
}

//Resize returns a copy of v with exactly length bits, truncating or zero padding as needed.
func Resize(v mat.SparseVector, length int) mat.SparseVector {
	result := mat.CSRVec(length)
	if v == nil {
		return result
	}
	for _, i := range v.NonzeroArray() {
		if i < length {
			result.Set(i, 1)
		}
	}
	return result
}

//Xor is GF(2) addition.
func Xor(a, b mat.SparseVector) mat.SparseVector {
	result := Resize(a, max(a.Len(), b.Len()))
	for _, i := range b.NonzeroArray() {
		Flip(result, i)
	}
	return result
}

//And is GF(2) multiplication, element by element.
func And(a, b mat.SparseVector) mat.SparseVector {
	result := mat.CSRVec(max(a.Len(), b.Len()))
	for _, i := range a.NonzeroArray() {
		if Bit(b, i) == 1 {
			result.Set(i, 1)
		}
	}
	return result
}

//Weight is the number of ones in v.
func Weight(v mat.SparseVector) int {
	return len(v.NonzeroArray())
}

//Distance is the hamming distance between a and b.
func Distance(a, b mat.SparseVector) int {
	return Weight(Xor(a, b))
}

//Equal reports if a and b hold the same set bits, trailing zeros are ignored.
func Equal(a, b mat.SparseVector) bool {
	x := slices.Clone(a.NonzeroArray())
	y := slices.Clone(b.NonzeroArray())
	slices.Sort(x)
	slices.Sort(y)
	return slices.Equal(x, y)
}

// VecMat computes p = v·M. The vector is zero padded (or truncated) to the
// number of rows in M, and p has one bit per column of M where p[j] is the
// parity of the rows i with v[i]=1 and M[i][j]=1.
func VecMat(v mat.SparseVector, M mat.SparseMat) mat.SparseVector {
	rows, cols := M.Dims()
	in := v
	if v.Len() != rows {
		in = Resize(v, rows)
	}
	result := mat.CSRVec(cols)
	result.MulMat(in, M)
	return result
}

//Slice copies length bits of v starting at start into a new vector.
func Slice(v mat.SparseVector, start, length int) mat.SparseVector {
	result := mat.CSRVec(length)
	for _, i := range v.NonzeroArray() {
		if start <= i && i < start+length {
			result.Set(i-start, 1)
		}
	}
	return result
}

// Chunk splits the first length bits of v into blocks of size bits. The
// last block is zero padded, so there are ceil(length/size) blocks.
func Chunk(v mat.SparseVector, length, size int) []mat.SparseVector {
	if size <= 0 {
		panic(fmt.Sprintf("block size > 0 required but found %v", size))
	}
	count := (length + size - 1) / size
	blocks := make([]mat.SparseVector, count)
	for b := 0; b < count; b++ {
		block := mat.CSRVec(size)
		for j := 0; j < size; j++ {
			idx := b*size + j
			if idx >= length {
				break
			}
			if Bit(v, idx) == 1 {
				block.Set(j, 1)
			}
		}
		blocks[b] = block
	}
	return blocks
}

//Concat joins the blocks end to end.
func Concat(blocks ...mat.SparseVector) mat.SparseVector {
	total := 0
	for _, b := range blocks {
		total += b.Len()
	}
	result := mat.CSRVec(total)
	offset := 0
	for _, b := range blocks {
		for _, i := range b.NonzeroArray() {
			result.Set(offset+i, 1)
		}
		offset += b.Len()
	}
	return result
}

//Repeat returns (v, v), a vector twice as long as v.
func Repeat(v mat.SparseVector) mat.SparseVector {
	return Concat(v, v)
}

//Reverse mirrors the bit positions of v end to end.
func Reverse(v mat.SparseVector) mat.SparseVector {
	n := v.Len()
	result := mat.CSRVec(n)
	for _, i := range v.NonzeroArray() {
		result.Set(n-1-i, 1)
	}
	return result
}

//Parse reads a string of '0' and '1' characters, whitespace and underscores are skipped.
func Parse(bits string) (mat.SparseVector, int, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\n', '\r', '_':
			return -1
		}
		return r
	}, bits)

	result := mat.CSRVec(len(cleaned))
	for i, c := range cleaned {
		switch c {
		case '0':
		case '1':
			result.Set(i, 1)
		default:
			return nil, 0, fmt.Errorf("invalid bit %q at index %v", c, i)
		}
	}
	return result, len(cleaned), nil
}

//Format writes the first length bits of v as '0' and '1' characters.
func Format(v mat.SparseVector, length int) string {
	buf := strings.Builder{}
	for i := 0; i < length; i++ {
		if Bit(v, i) == 1 {
			buf.WriteByte('1')
		} else {
			buf.WriteByte('0')
		}
	}
	return buf.String()
}
