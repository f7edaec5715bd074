package internal

import (
	"gonum.org/v1/gonum/stat/combin"
)

//Binomial is n choose k, zero when k is out of [0,n].
func Binomial(n, k int) int {
	if k < 0 || n < 0 || k > n {
		return 0
	}
	return combin.Binomial(n, k)
}

// Combinations calls fn with every size k subset of {0,...,n-1}, each subset
// sorted ascending and the subsets in lexicographic order. The slice handed to
// fn is reused between calls. Returning false from fn stops the enumeration.
func Combinations(n, k int, fn func(subset []int) bool) {
	if k < 0 || k > n {
		return
	}
	gen := combin.NewCombinationGenerator(n, k)
	subset := make([]int, k)
	for gen.Next() {
		if !fn(gen.Combination(subset)) {
			return
		}
	}
}
