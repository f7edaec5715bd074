// Package reedmuller builds Reed-Muller generator matrices. The codes
// themselves are plain linearblock codes, standardized and decoded through
// the syndrome table like any other generator.
package reedmuller

import (
	"context"
	"fmt"

	"github.com/nathanhack/blockcodes/gf2"
	"github.com/nathanhack/blockcodes/linearblock"
	"github.com/nathanhack/blockcodes/linearblock/internal"
	mat "github.com/nathanhack/sparsemat"
	"github.com/sirupsen/logrus"
)

func validate(variables, order int) error {
	if variables <= 0 {
		return fmt.Errorf("%w: reed-muller codes require >0 variables but found %v", linearblock.ErrInvalidParameters, variables)
	}
	if order < 0 || order > variables {
		return fmt.Errorf("%w: reed-muller order must be in [0,%v] but found %v", linearblock.ErrInvalidParameters, variables, order)
	}
	return nil
}

//Length is the codeword length 2^variables.
func Length(variables int) int {
	return 1 << variables
}

//Dimension is the message length, the sum of C(variables,i) for i in [0,order].
func Dimension(variables, order int) int {
	dim := 0
	for i := 0; i <= order; i++ {
		dim += internal.Binomial(variables, i)
	}
	return dim
}

//Distance is the minimum distance 2^(variables-order).
func Distance(variables, order int) int {
	return 1 << (variables - order)
}

// Basis returns the order 1 basis as variables+1 rows of 2^variables bits.
// The first variables rows are the variables and the last row is all ones.
func Basis(variables int) []mat.SparseVector {
	rows := []mat.SparseVector{mat.CSRVec(1, 1)}

	for i := 1; i <= variables; i++ {
		half := 1 << (i - 1)
		for j := range rows {
			rows[j] = gf2.Repeat(rows[j])
		}

		row := mat.CSRVec(2 * half)
		for j := half; j < 2*half; j++ {
			row.Set(j, 1)
		}
		rows = append(rows, row)
	}

	//the rows were built lowest position first so flip both ways
	basis := make([]mat.SparseVector, len(rows))
	for i, row := range rows {
		basis[len(rows)-1-i] = gf2.Reverse(row)
	}
	return basis
}

// Monomials returns the products of every set of 2 to order variable rows
// of basis. The products are listed by ascending set size and lexicographic
// order of the sets.
func Monomials(basis []mat.SparseVector, order int) []mat.SparseVector {
	variables := len(basis) - 1
	result := make([]mat.SparseVector, 0)
	for size := 2; size <= order; size++ {
		internal.Combinations(variables, size, func(subset []int) bool {
			row := basis[subset[0]]
			for _, v := range subset[1:] {
				row = gf2.And(row, basis[v])
			}
			result = append(result, row)
			return true
		})
	}
	return result
}

// Generator returns the Dimension(variables, order) x 2^variables generator
// matrix. Its rows are the basis followed by the monomials in reverse order.
// Order 0 is the repetition code with only the all ones row.
func Generator(variables, order int) (mat.SparseMat, error) {
	if err := validate(variables, order); err != nil {
		return nil, err
	}
	n := Length(variables)
	basis := Basis(variables)

	if order == 0 {
		G := mat.CSRMat(1, n)
		G.SetRow(0, basis[variables])
		return G, nil
	}

	rows := append([]mat.SparseVector{}, basis...)
	monomials := Monomials(basis, order)
	for i := len(monomials) - 1; i >= 0; i-- {
		rows = append(rows, monomials[i])
	}

	G := mat.CSRMat(len(rows), n)
	for i, row := range rows {
		G.SetRow(i, row)
	}
	return G, nil
}

//New creates the reed-muller code RM(order, variables) with length 2^variables.
func New(ctx context.Context, variables, order int, threads int) (*linearblock.LinearBlock, error) {
	G, err := Generator(variables, order)
	if err != nil {
		return nil, err
	}
	logrus.Debugf("Creating reed-muller code with %v variables of order %v", variables, order)
	return linearblock.NewFromG(ctx, G, Distance(variables, order), threads)
}
