package linearblock

import (
	"context"
	"fmt"

	"github.com/cheggaaa/pb/v3"
	"github.com/nathanhack/blockcodes/gf2"
	"github.com/nathanhack/blockcodes/linearblock/internal"
	mat "github.com/nathanhack/sparsemat"
	"github.com/nathanhack/threadpool"
	"github.com/sirupsen/logrus"
)

//Entry pairs a syndrome with the smallest error pattern producing it.
type Entry struct {
	Syndrome mat.SparseVector
	Error    mat.SparseVector
}

// SyndromeTable maps syndromes to error patterns. Entries keep the order they
// were inserted in (ascending weight, then ascending positions) and that order
// is what Closest walks.
type SyndromeTable struct {
	entries []Entry
	index   map[string]int
}

func newSyndromeTable() *SyndromeTable {
	return &SyndromeTable{index: make(map[string]int)}
}

func key(syndrome mat.SparseVector) string {
	return gf2.Format(syndrome, syndrome.Len())
}

//insert adds the entry unless the syndrome is already present, first writer wins
func (s *SyndromeTable) insert(syndrome, errorPattern mat.SparseVector) bool {
	k := key(syndrome)
	if _, has := s.index[k]; has {
		return false
	}
	s.index[k] = len(s.entries)
	s.entries = append(s.entries, Entry{Syndrome: syndrome, Error: errorPattern})
	return true
}

func (s *SyndromeTable) remove(syndrome mat.SparseVector) bool {
	idx, has := s.index[key(syndrome)]
	if !has {
		return false
	}
	s.entries = append(s.entries[:idx], s.entries[idx+1:]...)
	s.index = make(map[string]int, len(s.entries))
	for i, e := range s.entries {
		s.index[key(e.Syndrome)] = i
	}
	return true
}

//Len is the number of syndromes in the table.
func (s *SyndromeTable) Len() int {
	return len(s.entries)
}

//Entries returns the entries in traversal order.
func (s *SyndromeTable) Entries() []Entry {
	result := make([]Entry, len(s.entries))
	copy(result, s.entries)
	return result
}

//Lookup returns the error pattern stored for the syndrome.
func (s *SyndromeTable) Lookup(syndrome mat.SparseVector) (mat.SparseVector, bool) {
	idx, has := s.index[key(syndrome)]
	if !has {
		return nil, false
	}
	return s.entries[idx].Error, true
}

// Closest returns the entry whose syndrome has the smallest hamming distance
// to syndrome. Ties go to the entry that comes first in the table.
func (s *SyndromeTable) Closest(syndrome mat.SparseVector) (Entry, bool) {
	best := -1
	bestDistance := 0
	for i, e := range s.entries {
		d := gf2.Distance(e.Syndrome, syndrome)
		if best == -1 || d < bestDistance {
			best = i
			bestDistance = d
		}
	}
	if best == -1 {
		return Entry{}, false
	}
	return s.entries[best], true
}

//SyndromeTableSize is the number of error patterns of weight 0 to t over n bits.
func SyndromeTableSize(n, t int) int {
	total := 0
	for w := 0; w <= t && w <= n; w++ {
		total += internal.Binomial(n, w)
	}
	return total
}

func syndromeOf(H mat.SparseMat, word mat.SparseVector) mat.SparseVector {
	rows, _ := H.Dims()
	syndrome := mat.CSRVec(rows)
	syndrome.MatMul(H, word)
	return syndrome
}

// BuildSyndromeTable enumerates every error pattern of weight 0 through t and
// records the syndrome of each one under H. Patterns are visited by ascending
// weight and then in lexicographic order of their positions, so a syndrome
// always keeps the first (lightest) pattern that produced it. Each weight is
// split among workers by the position of the first error bit and the results
// are merged back in order, so the table is the same for any thread count.
func BuildSyndromeTable(ctx context.Context, H mat.SparseMat, t int, threads int) (*SyndromeTable, error) {
	if t < 0 {
		return nil, fmt.Errorf("%w: correctable errors must be >= 0 but found %v", ErrInvalidParameters, t)
	}
	rows, n := H.Dims()
	table := newSyndromeTable()

	logrus.Debugf("Building syndrome table for %v error patterns", SyndromeTableSize(n, t))
	bar := pb.Full.New(SyndromeTableSize(n, t))
	if logrus.GetLevel() == logrus.DebugLevel {
		bar.Start()
	}

	zero := mat.CSRVec(n)
	table.insert(syndromeOf(H, zero), zero)
	bar.Increment()

	for w := 1; w <= t && w <= n; w++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		results := make([][]Entry, n)
		pool := threadpool.NewFixedSize(ctx, threads, n-w+1)
		for first := 0; first <= n-w; first++ {
			f := first
			pool.Add(func() {
				local := make([]Entry, 0, internal.Binomial(n-f-1, w-1))
				internal.Combinations(n-f-1, w-1, func(rest []int) bool {
					e := mat.CSRVec(n)
					e.Set(f, 1)
					for _, r := range rest {
						e.Set(f+1+r, 1)
					}
					local = append(local, Entry{Syndrome: syndromeOf(H, e), Error: e})
					bar.Increment()
					return ctx.Err() == nil
				})
				results[f] = local
			})
		}
		pool.Wait()

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		for _, local := range results {
			for _, e := range local {
				table.insert(e.Syndrome, e.Error)
			}
		}
		logrus.Debugf("Weight %v done, %v syndromes in table", w, table.Len())

		//every syndrome is taken, heavier patterns can't add anything
		if rows < 63 && table.Len() == 1<<rows {
			break
		}
	}
	bar.Finish()

	return table, nil
}
