package linearblock

import (
	"context"
	"fmt"
	"strings"

	"github.com/nathanhack/blockcodes/gf2"
	"github.com/nathanhack/blockcodes/linearblock/internal"
	mat "github.com/nathanhack/sparsemat"
	"github.com/sirupsen/logrus"
)

// Code is a binary block code. Messages are split into MessageLength() bit
// blocks and each block becomes a CodewordLength() bit codeword.
type Code interface {
	CodewordLength() int
	MessageLength() int
	//Encode encodes the first length bits of message
	Encode(message mat.SparseVector, length int) (codetext mat.SparseVector)
	//DecodeAlways decodes the first length bits of codetext and always returns a best guess
	DecodeAlways(codetext mat.SparseVector, length int) (message mat.SparseVector)
	//DecodeIfUnique decodes the first length bits of codetext or fails with an *UncorrectableError
	DecodeIfUnique(codetext mat.SparseVector, length int) (message mat.SparseVector, err error)
}

//LinearBlock is a syndrome table decoded linear block code.
type LinearBlock struct {
	Distance    int           // minimum distance
	G           mat.SparseMat // systematic generator [I_k | P]
	H           mat.SparseMat // parity matrix [P^T | I_(n-k)], nil when n == k
	ColumnOrder []int         // ColumnOrder[j] is the original column stored at position j
	Perfect     bool          // every syndrome has a table entry
	Table       *SyndromeTable
}

//NewFromG creates a LinearBlock from a full rank generator matrix with the given minimum distance.
func NewFromG(ctx context.Context, G mat.SparseMat, distance int, threads int) (*LinearBlock, error) {
	k, n := G.Dims()
	if k <= 0 || k > n {
		return nil, fmt.Errorf("%w: generator shape (%v, %v) requires 0 < rows <= cols", ErrInvalidParameters, k, n)
	}
	if distance < 1 {
		return nil, fmt.Errorf("%w: distance >= 1 required but found %v", ErrInvalidParameters, distance)
	}

	logrus.Debugf("Creating linear block code n=%v k=%v d=%v", n, k, distance)
	if rank := internal.CalculateRank(ctx, G, threads); rank != k {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: generator has rank %v but %v rows", ErrRankDeficient, rank, k)
	}

	S, order, err := internal.Standardize(ctx, G, threads)
	if err != nil {
		return nil, fmt.Errorf("unable to standardize generator: %w", err)
	}

	l := &LinearBlock{
		Distance:    distance,
		G:           S,
		ColumnOrder: order,
	}

	if k == n {
		//no parity so every word is a codeword
		l.Perfect = true
		return l, nil
	}

	l.H = internal.ParityCheck(S)
	if err := l.buildTable(ctx, threads); err != nil {
		return nil, err
	}
	return l, nil
}

// NewFromH creates a LinearBlock from a full rank parity matrix H with the
// given minimum distance. The columns of H may be reordered, see ColumnOrder.
func NewFromH(ctx context.Context, H mat.SparseMat, distance int, threads int) (*LinearBlock, error) {
	if distance < 1 {
		return nil, fmt.Errorf("%w: distance >= 1 required but found %v", ErrInvalidParameters, distance)
	}

	G, sysH, order, err := internal.GeneratorFromH(ctx, H, threads)
	if err != nil {
		return nil, fmt.Errorf("unable to create generator for H matrix: %w", err)
	}

	l := &LinearBlock{
		Distance:    distance,
		G:           G,
		H:           sysH,
		ColumnOrder: order,
	}
	if err := l.buildTable(ctx, threads); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *LinearBlock) buildTable(ctx context.Context, threads int) error {
	table, err := BuildSyndromeTable(ctx, l.H, l.CorrectableErrors(), threads)
	if err != nil {
		return fmt.Errorf("unable to build syndrome table: %w", err)
	}
	l.Table = table

	parity := l.ParitySymbols()
	l.Perfect = parity < 63 && table.Len() == 1<<parity
	logrus.Debugf("Syndrome table has %v entries (perfect: %v)", table.Len(), l.Perfect)
	return nil
}

//Encode takes in a message and encodes it block by block, returning the codetext
func (l *LinearBlock) Encode(message mat.SparseVector, length int) (codetext mat.SparseVector) {
	blocks := gf2.Chunk(message, length, l.MessageLength())
	for i, block := range blocks {
		blocks[i] = gf2.VecMat(block, l.G)
	}
	return gf2.Concat(blocks...)
}

// DecodeAlways corrects each codeword block using the syndrome table. When a
// syndrome is not in the table the entry with the nearest syndrome is used
// instead, so a message is always returned even if it is wrong.
func (l *LinearBlock) DecodeAlways(codetext mat.SparseVector, length int) (message mat.SparseVector) {
	blocks := gf2.Chunk(codetext, length, l.CodewordLength())
	for i, block := range blocks {
		blocks[i], _ = l.decodeBlock(block, false)
	}
	return gf2.Concat(blocks...)
}

// DecodeIfUnique corrects each codeword block using the syndrome table and
// fails with an *UncorrectableError on the first block whose syndrome is not
// in the table. Perfect codes never fail so they decode like DecodeAlways.
func (l *LinearBlock) DecodeIfUnique(codetext mat.SparseVector, length int) (message mat.SparseVector, err error) {
	if l.Perfect {
		return l.DecodeAlways(codetext, length), nil
	}

	blocks := gf2.Chunk(codetext, length, l.CodewordLength())
	for i, block := range blocks {
		decoded, ok := l.decodeBlock(block, true)
		if !ok {
			return nil, &UncorrectableError{Block: i, Syndrome: key(l.Syndrome(block))}
		}
		blocks[i] = decoded
	}
	return gf2.Concat(blocks...), nil
}

func (l *LinearBlock) decodeBlock(block mat.SparseVector, exact bool) (mat.SparseVector, bool) {
	k := l.MessageLength()
	if l.H == nil {
		return gf2.Slice(block, 0, k), true
	}

	syndrome := l.Syndrome(block)
	errorPattern, has := l.Table.Lookup(syndrome)
	if !has {
		if exact {
			return nil, false
		}
		closest, found := l.Table.Closest(syndrome)
		if !found {
			return gf2.Slice(block, 0, k), true
		}
		errorPattern = closest.Error
	}

	return gf2.Slice(gf2.Xor(block, errorPattern), 0, k), true
}

//Syndrome returns H*codeword for a single codeword block
func (l *LinearBlock) Syndrome(codeword mat.SparseVector) (syndrome mat.SparseVector) {
	if codeword.Len() != l.CodewordLength() {
		panic(fmt.Sprintf("codeword length == %v required but found %v", l.CodewordLength(), codeword.Len()))
	}
	return syndromeOf(l.H, codeword)
}

//ToOriginalOrder moves the bits of a single codeword back to the column order of the matrix the code was built from
func (l *LinearBlock) ToOriginalOrder(codeword mat.SparseVector) mat.SparseVector {
	return unorderVector(codeword, l.ColumnOrder)
}

//ToSystematicOrder is the inverse of ToOriginalOrder
func (l *LinearBlock) ToSystematicOrder(codeword mat.SparseVector) mat.SparseVector {
	return orderVector(codeword, l.ColumnOrder)
}

func unorderVector(codeword mat.SparseVector, ordering []int) mat.SparseVector {
	if len(ordering) > 0 && codeword.Len() != len(ordering) {
		panic("vector length must equal ordering length")
	}
	result := mat.CSRVec(codeword.Len())

	for c, c1 := range ordering {
		result.Set(c1, codeword.At(c))
	}

	return result
}

func orderVector(codeword mat.SparseVector, ordering []int) mat.SparseVector {
	if len(ordering) > 0 && codeword.Len() != len(ordering) {
		panic("vector length must equal ordering length")
	}
	result := mat.CSRVec(codeword.Len())

	for c, c1 := range ordering {
		result.Set(c, codeword.At(c1))
	}

	return result
}

func (l *LinearBlock) MessageLength() int {
	k, _ := l.G.Dims()
	return k
}
func (l *LinearBlock) ParitySymbols() int {
	return l.CodewordLength() - l.MessageLength()
}
func (l *LinearBlock) CodewordLength() int {
	_, n := l.G.Dims()
	return n
}
func (l *LinearBlock) CodeRate() float64 {
	return float64(l.MessageLength()) / float64(l.CodewordLength())
}

//CorrectableErrors is the number of bit errors per block the code is guaranteed to correct.
func (l *LinearBlock) CorrectableErrors() int {
	return (l.Distance - 1) / 2
}

//Validate will test if this linearblock satisfies G*H.T=0, where G is the generator matrix and H.T is the transpose of H
func (l *LinearBlock) Validate() bool {
	if l.H == nil {
		return l.MessageLength() == l.CodewordLength()
	}
	return internal.IsSystematic(l.G) && internal.ValidateHGMatrices(l.G, l.H)
}

//ValidateOriginal tests if the generator G, given in its original column order, is orthogonal to this code's H.
func (l *LinearBlock) ValidateOriginal(G mat.SparseMat) bool {
	if l.H == nil {
		return true
	}
	return internal.ValidateHGMatrices(G, internal.ColumnUnswapped(l.H, l.ColumnOrder))
}

func (l *LinearBlock) String() string {
	buf := strings.Builder{}
	buf.WriteString(fmt.Sprintf("{\nn=%v k=%v d=%v perfect=%v\nG:\n", l.CodewordLength(), l.MessageLength(), l.Distance, l.Perfect))
	buf.WriteString(l.G.String())
	buf.WriteString(fmt.Sprintf("Order: %v", l.ColumnOrder))
	if l.H != nil {
		buf.WriteString("\nH:\n")
		buf.WriteString(l.H.String())
	}
	buf.WriteString("\n}\n")
	return buf.String()
}
