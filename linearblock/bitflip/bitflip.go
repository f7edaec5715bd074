// Package bitflip decodes linear block codes with Gallager's hard decision
// bit flipping instead of the syndrome table. Each round flips the bit that
// takes part in the most unsatisfied parity checks, until the syndrome is
// zero or the round limit is reached.
package bitflip

import (
	"fmt"

	"github.com/nathanhack/blockcodes/gf2"
	"github.com/nathanhack/blockcodes/linearblock"
	mat "github.com/nathanhack/sparsemat"
	"github.com/sirupsen/logrus"
)

func argMaxInt(values []int) int {
	result := 0
	max := values[0]
	for i := 1; i < len(values); i++ {
		v := values[i]
		if max < v {
			result = i
			max = v
		}
	}
	return result
}

//Decoder holds H and the checks each bit takes part in. It is safe for concurrent use.
type Decoder struct {
	H       mat.SparseMat
	MaxIter int
	columns [][]int
}

func NewDecoder(H mat.SparseMat, maxIter int) *Decoder {
	_, cols := H.Dims()
	columns := make([][]int, cols)
	for n := 0; n < cols; n++ {
		columns[n] = H.Column(n).NonzeroArray()
	}
	return &Decoder{H: H, MaxIter: maxIter, columns: columns}
}

//flipScores sets e_n to (unsatisfied - satisfied) checks of bit n
func (d *Decoder) flipScores(syndrome mat.SparseVector, e_n []int) {
	// E_n = -sum((1-2*s_m), m ∈ M(n))
	synIndices := syndrome.NonzeroArray()
	synIndicesLen := len(synIndices)
	for n := range e_n {
		sum := 0
		indices := d.columns[n]
		indicesLen := len(indices)
		for i, j := 0, 0; i < indicesLen && j < synIndicesLen; {
			if indices[i] == synIndices[j] {
				sum++
				i++
				j++
			} else if indices[i] < synIndices[j] {
				i++
			} else {
				j++
			}
		}
		e_n[n] = -indicesLen + 2*sum
	}
}

// Correct runs up to MaxIter flips on a single codeword block. It returns the
// corrected block and the syndrome of it, which is zero when it is a codeword.
func (d *Decoder) Correct(block mat.SparseVector) (codeword, syndrome mat.SparseVector) {
	rows, cols := d.H.Dims()
	if block.Len() != cols {
		panic(fmt.Sprintf("codeword length == %v required but found %v", cols, block.Len()))
	}

	codeword = mat.CSRVecCopy(block)
	syndrome = mat.CSRVec(rows)
	e_n := make([]int, cols)
	for i := 0; ; i++ {
		syndrome.MatMul(d.H, codeword)
		if syndrome.IsZero() || i >= d.MaxIter {
			return codeword, syndrome
		}
		d.flipScores(syndrome, e_n)
		gf2.Flip(codeword, argMaxInt(e_n))
	}
}

// Code encodes with a LinearBlock but decodes with bit flipping. DecodeIfUnique
// fails on the first block still holding a nonzero syndrome after MaxIter flips.
type Code struct {
	*linearblock.LinearBlock
	decoder *Decoder
}

func New(l *linearblock.LinearBlock, maxIter int) (*Code, error) {
	if maxIter < 1 {
		return nil, fmt.Errorf("%w: bit flipping requires >=1 iterations but found %v", linearblock.ErrInvalidParameters, maxIter)
	}
	logrus.Debugf("Using bit flipping with %v iterations", maxIter)
	c := &Code{LinearBlock: l}
	if l.H != nil {
		c.decoder = NewDecoder(l.H, maxIter)
	}
	return c, nil
}

func (c *Code) decodeBlock(block mat.SparseVector) (mat.SparseVector, mat.SparseVector) {
	if c.decoder == nil {
		return gf2.Slice(block, 0, c.MessageLength()), nil
	}
	codeword, syndrome := c.decoder.Correct(block)
	return gf2.Slice(codeword, 0, c.MessageLength()), syndrome
}

func (c *Code) DecodeAlways(codetext mat.SparseVector, length int) (message mat.SparseVector) {
	blocks := gf2.Chunk(codetext, length, c.CodewordLength())
	for i, block := range blocks {
		blocks[i], _ = c.decodeBlock(block)
	}
	return gf2.Concat(blocks...)
}

func (c *Code) DecodeIfUnique(codetext mat.SparseVector, length int) (message mat.SparseVector, err error) {
	blocks := gf2.Chunk(codetext, length, c.CodewordLength())
	for i, block := range blocks {
		decoded, syndrome := c.decodeBlock(block)
		if syndrome != nil && !syndrome.IsZero() {
			return nil, &linearblock.UncorrectableError{Block: i, Syndrome: gf2.Format(syndrome, syndrome.Len())}
		}
		blocks[i] = decoded
	}
	return gf2.Concat(blocks...), nil
}
