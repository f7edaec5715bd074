package internal

import (
	"context"
	"fmt"

	mat "github.com/nathanhack/sparsemat"
	"github.com/sirupsen/logrus"
)

//ParityCheck takes a standardized generator [I_k | P] and returns H = [P^T | I_(n-k)].
func ParityCheck(G mat.SparseMat) mat.SparseMat {
	k, n := G.Dims()
	if k >= n {
		panic(fmt.Sprintf("generator shape == (rows, cols) where rows < cols required but found (%v, %v)", k, n))
	}

	P := G.Slice(0, k, k, n-k)
	H := mat.CSRMat(n-k, n)
	H.SetMatrix(P.T(), 0, 0)
	H.SetMatrix(mat.CSRIdentity(n-k), 0, k)
	return H
}

// IsSystematic reports whether the first rows columns of M are the identity.
func IsSystematic(M mat.SparseMat) bool {
	rows, _ := M.Dims()
	return M.Slice(0, 0, rows, rows).Equals(mat.CSRIdentity(rows))
}

func ExtractAFromH(ctx context.Context, H mat.SparseMat, threads int) (A mat.SparseMat, columnOrdering []int, err error) {
	m, N := H.Dims()

	gje, ordering, err := Standardize(ctx, H, threads)
	if err != nil {
		return nil, nil, err
	}

	//let's check if we got a [ I, * ] format
	if !IsSystematic(gje) {
		logrus.Errorf("failed to create transform H matrix into [I,*]")
		return nil, nil, fmt.Errorf("%w: H did not reduce to [I,*]", ErrRankDeficient)
	}

	//we need to convert gje from [ I, A] to [ A, I] (while keeping track)
	// and then extract A

	// first the keeping track part
	columnOrdering = make([]int, len(ordering))
	copy(columnOrdering[0:N-m], ordering[m:N])
	copy(columnOrdering[N-m:N], ordering[0:m])

	//finally extract the A
	A = gje.Slice(0, m, m, N-m)
	return A, columnOrdering, nil
}

// GeneratorFromH creates the systematic generator G = [I, A^T] and the matching
// parity matrix [A, I] from an arbitrary full rank parity matrix H.
// Note: the columns are reordered, columnOrder maps each new column to its column in H.
func GeneratorFromH(ctx context.Context, H mat.SparseMat, threads int) (G, systematicH mat.SparseMat, columnOrder []int, err error) {
	hrows, hcols := H.Dims()
	if hrows >= hcols {
		return nil, nil, nil, fmt.Errorf("H matrix shape == (rows, cols) where rows < cols required but found (%v, %v)", hrows, hcols)
	}
	// So we now take the current H matrix
	// convert H=[*] -> H=[A,I]
	// then extract out the A and keep track of columnSwaps during it
	logrus.Debugf("Creating generator matrix from H matrix")
	A, columnSwaps, err := ExtractAFromH(ctx, H, threads)
	if err != nil {
		logrus.Debugf("Unable to create generator matrix from H")
		return nil, nil, nil, err
	}

	AT := A.T() // transpose of A
	atRows, atCols := AT.Dims()

	//Next using A make G=[I, A^T] where A^T is the transpose of A
	G = mat.CSRMat(atRows, atRows+atCols)
	G.SetMatrix(mat.CSRIdentity(atRows), 0, 0)
	G.SetMatrix(AT, 0, atRows)

	systematicH = mat.CSRMat(atCols, atRows+atCols)
	systematicH.SetMatrix(A, 0, 0)
	systematicH.SetMatrix(mat.CSRIdentity(atCols), 0, atRows)

	logrus.Debugf("Generator Matrix complete")
	return G, systematicH, columnSwaps, nil
}

//ColumnSwapped returns a copy of M where column c is M's column order[c].
func ColumnSwapped(M mat.SparseMat, order []int) mat.SparseMat {
	rows, cols := M.Dims()
	result := mat.CSRMat(rows, cols)

	for c, c1 := range order {
		result.SetColumn(c, M.Column(c1))
	}
	return result
}

//ColumnUnswapped undoes ColumnSwapped, column c of M is placed at order[c].
func ColumnUnswapped(M mat.SparseMat, order []int) mat.SparseMat {
	rows, cols := M.Dims()
	result := mat.CSRMat(rows, cols)

	for c, c1 := range order {
		result.SetColumn(c1, M.Column(c))
	}
	return result
}

//ValidateHGMatrices tests if G*H.T ==0 where H.T is the transpose of H
func ValidateHGMatrices(G, H mat.SparseMat) bool {
	rows, _ := G.Dims()
	cols, _ := H.Dims()

	//we cache the H.T hopefully this is in CSR so this should be way
	// faster than taking the actual H.T() then doing this
	cache := make([]mat.SparseVector, cols)
	for i := 0; i < cols; i++ {
		cache[i] = H.Row(i)
	}
	for i := 0; i < rows; i++ {
		row := G.Row(i)
		for j := 0; j < cols; j++ {
			//equiv to G*H.T
			if row.Dot(cache[j]) > 0 {
				return false
			}
		}
	}

	return true
}
