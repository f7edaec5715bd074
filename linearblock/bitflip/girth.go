package bitflip

import (
	"context"
	"math"
	"sync"

	mat "github.com/nathanhack/sparsemat"
	"github.com/nathanhack/threadpool"
)

type girthNode struct {
	parentIndex int
}

// Girth returns the length of the smallest cycle in the tanner graph of H, or
// -1 when the graph has no cycles. Short cycles, 4 in particular, are what
// keep bit flipping from converging. threads <= 0 uses runtime.NumCPU().
func Girth(ctx context.Context, H mat.SparseMat, threads int) int {
	rows, _ := H.Dims()
	if rows == 0 {
		return -1
	}

	pool := threadpool.NewFixedSize(ctx, threads, rows)
	girth := -1
	mux := sync.Mutex{}
	for i := 0; i < rows; i++ {
		index := i
		pool.Add(func() {
			mux.Lock()
			bound := girth
			mux.Unlock()

			g := cycleFrom(ctx, H, index, bound)

			mux.Lock()
			if g > 0 && (girth == -1 || g < girth) {
				girth = g
			}
			mux.Unlock()
		})
	}
	pool.Wait()
	return girth
}

// cycleFrom runs a BFS starting at the checkIndex check node for maxGirth/2 steps
// (no limit when maxGirth is -1). It returns the length of the first cycle found or -1.
func cycleFrom(ctx context.Context, H mat.SparseMat, checkIndex, maxGirth int) int {
	if maxGirth == -1 {
		maxGirth = math.MaxInt64
	}
	//we make a history that will alternate between variable nodes and check nodes
	// as we extend to each new hop away from the checkIndex
	rows, _ := H.Dims()

	//we prime the history
	prevHop := make(map[int]girthNode)
	for _, i := range H.Row(checkIndex).NonzeroArray() {
		prevHop[i] = girthNode{parentIndex: checkIndex}
	}
	//with one variable node (or none) there is no way back to checkIndex
	if len(prevHop) <= 1 {
		return -1
	}

	for level := 1; level < 2*rows && level < maxGirth/2+1; level++ {
		if ctx.Err() != nil {
			return -1
		}
		hop := make(map[int]girthNode)
		checks := level%2 == 1
		for v, gn := range prevHop {
			var indices []int
			if checks {
				indices = H.Column(v).NonzeroArray()
			} else {
				indices = H.Row(v).NonzeroArray()
			}
			for _, i := range indices {
				if i == gn.parentIndex {
					continue
				}
				_, has := hop[i]
				if has || (checks && i == checkIndex) {
					return (level + 1) * 2
				}
				hop[i] = girthNode{parentIndex: v}
			}
		}
		prevHop = hop
	}
	return -1
}
