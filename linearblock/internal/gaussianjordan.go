package internal

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/cheggaaa/pb/v3"
	mat "github.com/nathanhack/sparsemat"
	"github.com/nathanhack/threadpool"
	"github.com/sirupsen/logrus"
)

var ErrRankDeficient = errors.New("rows are not linearly independent")

func swapColOrder(i, j int, colIndices []int) {
	x := len(colIndices)
	if 0 <= i && i < x && 0 <= j && j < x {
		idx := colIndices[i]
		colIndices[i] = colIndices[j]
		colIndices[j] = idx
	}
}

func swapColumns(M mat.SparseMat, i, j int) {
	ci := mat.CSRVecCopy(M.Column(i))
	cj := mat.CSRVecCopy(M.Column(j))
	M.SetColumn(i, cj)
	M.SetColumn(j, ci)
}

func swapRows(M mat.SparseMat, i, j int) {
	ri := mat.CSRVecCopy(M.Row(i))
	rj := mat.CSRVecCopy(M.Row(j))
	M.SetRow(i, rj)
	M.SetRow(j, ri)
}

//firstSetRow returns the first row >= fromRow with a one in column col, or -1
func firstSetRow(M mat.SparseMat, fromRow, col int) int {
	for _, r := range M.Column(col).NonzeroArray() {
		if r >= fromRow {
			return r
		}
	}
	return -1
}

func newBar(rows int, prefix string) *pb.ProgressBar {
	bar := pb.Full.New(rows)
	bar.Set("prefix", prefix)
	bar.SetWriter(os.Stdout)
	if logrus.GetLevel() == logrus.DebugLevel {
		bar.Start()
	}
	return bar
}

func finishBar(bar *pb.ProgressBar) {
	bar.SetTemplateString(`{{string . "prefix"}}{{counters . }}{{string . "suffix"}}`)
	bar.Set("suffix", " Done")
	bar.Finish()
}

// Standardize puts M (rows <= cols, full row rank) into the systematic form
// [I | P] using row swaps, row additions and column swaps. M is not modified.
// The returned order maps each result column to the column of M it came from.
//
// For row r the pivot is searched in column r among rows r and below. When none
// of them has a one there, column r is swapped with r+1, then r+2 and so on
// until a pivot shows up.
func Standardize(ctx context.Context, M mat.SparseMat, threads int) (S mat.SparseMat, order []int, err error) {
	rows, cols := M.Dims()
	if cols < rows {
		return nil, nil, fmt.Errorf("%w: %v rows but only %v columns", ErrRankDeficient, rows, cols)
	}

	S = mat.CSRMatCopy(M)
	order = make([]int, cols)
	for c := 0; c < cols; c++ {
		order[c] = c
	}

	logrus.Debugf("Standardizing %vx%v matrix", rows, cols)
	bar := newBar(rows, "Processing Row ")
	for r := 0; r < rows; r++ {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		default:
		}
		bar.Increment()

		pivot, err := pivotSwap(S, r, order)
		if err != nil {
			logrus.Debugf("Unable to standardize: %v", err)
			return nil, nil, err
		}
		if pivot != r {
			swapRows(S, r, pivot)
		}

		// row r now has its pivot at column r, so we clear
		// column r from every other row holding a one there
		eliminateOtherRows(ctx, r, S, threads)
	}
	finishBar(bar)

	logrus.Debugf("Standardization complete")
	return S, order, nil
}

func pivotSwap(S mat.SparseMat, rowIndex int, columnSwapHistory []int) (int, error) {
	_, cols := S.Dims()
	for next := rowIndex + 1; ; next++ {
		pivot := firstSetRow(S, rowIndex, rowIndex)
		if pivot >= 0 {
			return pivot, nil
		}
		if next >= cols {
			return -1, fmt.Errorf("%w: no pivot available for row %v", ErrRankDeficient, rowIndex)
		}
		swapColumns(S, rowIndex, next)
		swapColOrder(rowIndex, next, columnSwapHistory)
	}
}

func eliminateOtherRows(ctx context.Context, rowIndex int, result mat.SparseMat, threads int) {
	pivots := result.Column(rowIndex).NonzeroArray()
	if len(pivots) <= 1 {
		return
	}

	//create a pool with 1 less pivot
	pool := threadpool.NewFixedSize(ctx, threads, len(pivots)-1)
	rrow := mat.CSRVecCopy(result.Row(rowIndex))
	mut := sync.RWMutex{}

	//for all pivots except the one equal to r subtract it (in GF2 subtract is add)
	for _, index := range pivots {
		pIndex := index
		if index != rowIndex {
			pool.Add(func() {
				mut.RLock()
				prow := mat.CSRVecCopy(result.Row(pIndex))
				mut.RUnlock()
				prow.Add(prow, rrow)
				mut.Lock()
				result.SetRow(pIndex, prow)
				mut.Unlock()
			})
		}
	}
	pool.Wait()
}

//CalculateRank returns the GF(2) rank of M.
func CalculateRank(ctx context.Context, M mat.SparseMat, threads int) int {
	if M == nil {
		return -1
	}
	tmp := mat.CSRMatCopy(M)
	rows, cols := tmp.Dims()

	rank := 0
	for c := 0; c < cols && rank < rows; c++ {
		select {
		case <-ctx.Done():
			return -1
		default:
		}
		pivot := firstSetRow(tmp, rank, c)
		if pivot < 0 {
			continue
		}
		if pivot != rank {
			swapRows(tmp, rank, pivot)
		}
		eliminateLowerRows(ctx, rank, c, tmp, threads)
		rank++
	}
	return rank
}

func eliminateLowerRows(ctx context.Context, rowIndex, col int, result mat.SparseMat, threads int) {
	//rows above rowIndex may also hold a one in col, only the lower ones are cleared
	lower := make([]int, 0)
	for _, index := range result.Column(col).NonzeroArray() {
		if index > rowIndex {
			lower = append(lower, index)
		}
	}
	if len(lower) == 0 {
		return
	}

	pool := threadpool.NewFixedSize(ctx, threads, len(lower))
	rrow := mat.CSRVecCopy(result.Row(rowIndex))
	mut := sync.RWMutex{}

	for _, index := range lower {
		pIndex := index
		pool.Add(func() {
			mut.RLock()
			prow := mat.CSRVecCopy(result.Row(pIndex))
			mut.RUnlock()
			prow.Add(prow, rrow)
			mut.Lock()
			result.SetRow(pIndex, prow)
			mut.Unlock()
		})
	}
	pool.Wait()
}
