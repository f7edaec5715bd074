package hamming

import (
	"context"
	"fmt"

	"github.com/nathanhack/blockcodes/gf2"
	"github.com/nathanhack/blockcodes/linearblock"
	mat "github.com/nathanhack/sparsemat"
	"github.com/sirupsen/logrus"
)

const (
	//Distance is the minimum distance of every hamming code.
	Distance = 3
	//MaxParitySymbols caps a codeword at 2^24-1 bits, encode and decode walk every position of a block.
	MaxParitySymbols = 24
)

// Code is a hamming code with 2^r-1 bit codewords. It encodes and decodes
// with position arithmetic, no matrices or syndrome table are involved.
// Parity bits sit at the 1-indexed positions that are powers of two and the
// message bits fill the remaining positions in order.
type Code struct {
	paritySymbols int
}

func validate(paritySymbols int) error {
	if paritySymbols < 2 || paritySymbols > MaxParitySymbols {
		return fmt.Errorf("%w: hamming codes require [2,%v] parity symbols but found %v", linearblock.ErrInvalidParameters, MaxParitySymbols, paritySymbols)
	}
	return nil
}

// New creates the hamming code with paritySymbols number of parity symbols.
// Hamming codes can detect up to two-bit errors or correct one-bit errors without
// detection of uncorrected errors.
func New(paritySymbols int) (*Code, error) {
	if err := validate(paritySymbols); err != nil {
		return nil, err
	}
	logrus.Debugf("Creating hamming code with %v parity symbols", paritySymbols)
	return &Code{paritySymbols: paritySymbols}, nil
}

func (h *Code) ParitySymbols() int {
	return h.paritySymbols
}
func (h *Code) CodewordLength() int {
	return 1<<h.paritySymbols - 1
}
func (h *Code) MessageLength() int {
	return h.CodewordLength() - h.paritySymbols
}
func (h *Code) CodeRate() float64 {
	return float64(h.MessageLength()) / float64(h.CodewordLength())
}

func isParityPosition(position int) bool {
	return position&(position-1) == 0
}

//parity is the xor of every position, other than the parity position itself, that has bit e set
func (h *Code) parity(codeword mat.SparseVector, e int) int {
	check := 1 << e
	result := 0
	for _, i := range codeword.NonzeroArray() {
		position := i + 1
		if position != check && position&check != 0 {
			result ^= 1
		}
	}
	return result
}

func (h *Code) encodeBlock(message mat.SparseVector) mat.SparseVector {
	n := h.CodewordLength()
	codeword := mat.CSRVec(n)

	j := 0
	for position := 1; position <= n; position++ {
		if isParityPosition(position) {
			continue
		}
		if gf2.Bit(message, j) == 1 {
			codeword.Set(position-1, 1)
		}
		j++
	}

	for e := 0; e < h.paritySymbols; e++ {
		codeword.Set(1<<e-1, h.parity(codeword, e))
	}
	return codeword
}

func (h *Code) decodeBlock(block mat.SparseVector) mat.SparseVector {
	n := h.CodewordLength()
	codeword := gf2.Resize(block, n)

	//the syndrome is the sum of the parity positions that disagree,
	// which is the 1-indexed position of a single bit error
	syndrome := 0
	for e := 0; e < h.paritySymbols; e++ {
		position := 1 << e
		if gf2.Bit(codeword, position-1) != h.parity(codeword, e) {
			syndrome += position
		}
	}
	if syndrome != 0 {
		gf2.Flip(codeword, syndrome-1)
	}

	message := mat.CSRVec(h.MessageLength())
	j := 0
	for position := 1; position <= n; position++ {
		if isParityPosition(position) {
			continue
		}
		if gf2.Bit(codeword, position-1) == 1 {
			message.Set(j, 1)
		}
		j++
	}
	return message
}

//Encode splits the first length bits of message into blocks and encodes each of them.
func (h *Code) Encode(message mat.SparseVector, length int) (codetext mat.SparseVector) {
	blocks := gf2.Chunk(message, length, h.MessageLength())
	for i, block := range blocks {
		blocks[i] = h.encodeBlock(block)
	}
	return gf2.Concat(blocks...)
}

//DecodeAlways corrects up to one bit error in each codeword block.
func (h *Code) DecodeAlways(codetext mat.SparseVector, length int) (message mat.SparseVector) {
	blocks := gf2.Chunk(codetext, length, h.CodewordLength())
	for i, block := range blocks {
		blocks[i] = h.decodeBlock(block)
	}
	return gf2.Concat(blocks...)
}

// DecodeIfUnique is DecodeAlways. Hamming codes are perfect, every syndrome
// names exactly one correctable position so decoding never fails.
func (h *Code) DecodeIfUnique(codetext mat.SparseVector, length int) (message mat.SparseVector, err error) {
	return h.DecodeAlways(codetext, length), nil
}

func (h *Code) String() string {
	return fmt.Sprintf("Hamming(%v,%v)", h.CodewordLength(), h.MessageLength())
}

// NewLinearBlock creates the systematic hamming code with paritySymbols number
// of parity symbols as a syndrome table decoded linear block.
func NewLinearBlock(ctx context.Context, paritySymbols int, threads int) (*linearblock.LinearBlock, error) {
	if err := validate(paritySymbols); err != nil {
		return nil, err
	}
	n := 1<<paritySymbols - 1
	H := mat.CSRMat(paritySymbols, n)

	//To make Hamming codes we make the columns the bit versions
	// of every number from 1 to and including n -> [1,n] (note they're nonzero)
	for i := 1; i <= n; i++ {
		vec := mat.CSRVec(paritySymbols)
		for j := 0; j < paritySymbols; j++ {
			if i&(1<<j) > 0 {
				vec.Set(j, 1)
			}
		}
		H.SetColumn(i-1, vec)
	}

	return linearblock.NewFromH(ctx, H, Distance, threads)
}
