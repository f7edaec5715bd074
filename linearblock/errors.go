package linearblock

import (
	"errors"
	"fmt"

	"github.com/nathanhack/blockcodes/linearblock/internal"
)

var (
	//ErrInvalidParameters is returned when a code can not be built from the parameters given.
	ErrInvalidParameters = errors.New("invalid code parameters")
	//ErrRankDeficient is returned when a generator or parity matrix does not have full row rank.
	ErrRankDeficient = internal.ErrRankDeficient
)

//UncorrectableError is returned by DecodeIfUnique when a block's syndrome has no table entry.
type UncorrectableError struct {
	Block    int    // index of the codeword block that failed
	Syndrome string // the block's syndrome as 0/1 text
}

func (e *UncorrectableError) Error() string {
	return fmt.Sprintf("uncorrectable error in block %v: syndrome %v has no unique correction", e.Block, e.Syndrome)
}
