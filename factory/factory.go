// Package factory turns a code description into a ready to use code. The
// description is a small JSON document so the CLI can save a code and build
// it again later.
package factory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/nathanhack/blockcodes/linearblock"
	"github.com/nathanhack/blockcodes/linearblock/bitflip"
	"github.com/nathanhack/blockcodes/linearblock/hamming"
	"github.com/nathanhack/blockcodes/linearblock/reedmuller"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat/combin"
)

type Family string

const (
	//Hamming is the closed form hamming code
	Hamming Family = "hamming"
	//HammingTable is the hamming code decoded with a syndrome table
	HammingTable Family = "hamming-table"
	ReedMuller   Family = "reedmuller"
)

//DefaultMaxTableEntries is used when a Spec leaves MaxTableEntries at zero.
const DefaultMaxTableEntries = 1 << 22

//ErrTableTooLarge is returned when a code would need more syndrome table entries than allowed.
var ErrTableTooLarge = errors.New("syndrome table too large")

//Spec describes a code.
type Spec struct {
	Family          Family `json:"family"`
	Redundancy      int    `json:"redundancy,omitempty"` // hamming parity symbols
	Variables       int    `json:"variables,omitempty"`  // reed-muller variables, length is 2^variables
	Order           int    `json:"order,omitempty"`      // reed-muller order
	Threads         int    `json:"threads,omitempty"`    // 0 means one per cpu
	MaxTableEntries int    `json:"maxTableEntries,omitempty"`
	// BitFlipIterations > 0 decodes with bit flipping instead of the syndrome table
	BitFlipIterations int `json:"bitFlipIterations,omitempty"`
}

func (s Spec) String() string {
	switch s.Family {
	case Hamming, HammingTable:
		return fmt.Sprintf("%v(r=%v)", s.Family, s.Redundancy)
	case ReedMuller:
		return fmt.Sprintf("%v(k=%v,r=%v)", s.Family, s.Variables, s.Order)
	}
	return string(s.Family)
}

func (s Spec) maxTableEntries() float64 {
	if s.MaxTableEntries <= 0 {
		return DefaultMaxTableEntries
	}
	return float64(s.MaxTableEntries)
}

// TableEntries is the number of error patterns the syndrome table of the code
// would enumerate, zero for codes without one. Counting stops once limit is passed.
func (s Spec) TableEntries(limit float64) float64 {
	switch s.Family {
	case HammingTable:
		if s.Redundancy < 0 || s.Redundancy > hamming.MaxParitySymbols {
			return 0
		}
		return tableSize(1<<s.Redundancy-1, 1, limit)
	case ReedMuller:
		if s.Variables < 0 || s.Variables > 62 || s.Order < 0 || s.Order >= s.Variables {
			return 0
		}
		t := (reedmuller.Distance(s.Variables, s.Order) - 1) / 2
		return tableSize(reedmuller.Length(s.Variables), t, limit)
	}
	return 0
}

//tableSize sums C(n,w) for w in [0,t] in floating point, large codes would overflow an int
func tableSize(n, t int, limit float64) float64 {
	total := 0.0
	for w := 0; w <= t && w <= n && total <= limit; w++ {
		total += combin.GeneralizedBinomial(float64(n), float64(w))
	}
	return total
}

//Validate checks the parameters without building anything.
func (s Spec) Validate() error {
	switch s.Family {
	case Hamming, HammingTable:
		if s.Redundancy < 2 || s.Redundancy > hamming.MaxParitySymbols {
			return fmt.Errorf("%w: %v requires redundancy in [2,%v] but found %v", linearblock.ErrInvalidParameters, s.Family, hamming.MaxParitySymbols, s.Redundancy)
		}
	case ReedMuller:
		if s.Variables <= 0 || s.Variables > 30 {
			return fmt.Errorf("%w: %v requires variables in [1,30] but found %v", linearblock.ErrInvalidParameters, s.Family, s.Variables)
		}
		if s.Order < 0 || s.Order > s.Variables {
			return fmt.Errorf("%w: %v requires order in [0,%v] but found %v", linearblock.ErrInvalidParameters, s.Family, s.Variables, s.Order)
		}
	default:
		return fmt.Errorf("%w: unknown family %q", linearblock.ErrInvalidParameters, s.Family)
	}

	if s.BitFlipIterations < 0 || (s.BitFlipIterations > 0 && s.Family == Hamming) {
		return fmt.Errorf("%w: bit flipping needs a table based family and >=0 iterations", linearblock.ErrInvalidParameters)
	}

	if entries := s.TableEntries(s.maxTableEntries()); entries > s.maxTableEntries() {
		return fmt.Errorf("%w: %v needs %.0f entries but at most %.0f are allowed", ErrTableTooLarge, s, entries, s.maxTableEntries())
	}
	return nil
}

//Make builds the code the spec describes.
func Make(ctx context.Context, spec Spec) (linearblock.Code, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	logrus.Debugf("Making %v", spec)

	if spec.Family == Hamming {
		h, err := hamming.New(spec.Redundancy)
		if err != nil {
			return nil, err
		}
		return h, nil
	}

	var block *linearblock.LinearBlock
	var err error
	switch spec.Family {
	case HammingTable:
		block, err = hamming.NewLinearBlock(ctx, spec.Redundancy, spec.Threads)
	case ReedMuller:
		block, err = reedmuller.New(ctx, spec.Variables, spec.Order, spec.Threads)
	}
	if err != nil {
		return nil, err
	}

	if spec.BitFlipIterations > 0 {
		c, err := bitflip.New(block, spec.BitFlipIterations)
		if err != nil {
			return nil, err
		}
		return c, nil
	}
	return block, nil
}

//MakeHammingCode creates the closed form hamming code with redundancy parity symbols.
func MakeHammingCode(redundancy int) (*hamming.Code, error) {
	return hamming.New(redundancy)
}

//MakeReedMullerCode creates RM(order, variables) using every cpu for the construction.
func MakeReedMullerCode(ctx context.Context, variables, order int) (*linearblock.LinearBlock, error) {
	spec := Spec{Family: ReedMuller, Variables: variables, Order: order}
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	return reedmuller.New(ctx, variables, order, 0)
}

//Load reads a Spec saved with Save.
func Load(filepath string) (Spec, error) {
	var spec Spec
	bs, err := os.ReadFile(filepath)
	if err != nil {
		return spec, fmt.Errorf("error while reading file %v: %w", filepath, err)
	}

	if err := json.Unmarshal(bs, &spec); err != nil {
		return spec, fmt.Errorf("error while unmarshalling file %v: %w", filepath, err)
	}
	return spec, spec.Validate()
}

//Save writes the spec as JSON.
func Save(filepath string, spec Spec) error {
	bs, err := json.MarshalIndent(spec, "", "  ")
	if err != nil {
		return fmt.Errorf("error serializing spec: %w", err)
	}

	if err := os.WriteFile(filepath, bs, 0644); err != nil {
		return fmt.Errorf("error while saving spec to %v: %w", filepath, err)
	}
	return nil
}
