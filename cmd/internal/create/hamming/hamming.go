package hamming

import (
	"fmt"

	"github.com/nathanhack/blockcodes/cmd/internal/create"
	"github.com/nathanhack/blockcodes/factory"
	"github.com/spf13/cobra"
)

var (
	ParityBits      uint
	Table           bool
	BitFlip         uint
	Threads         uint
	MaxTableEntries uint
	Verbose         bool
)

var HammingRun = func(cmd *cobra.Command, args []string) {
	spec := factory.Spec{
		Family:            factory.Hamming,
		Redundancy:        int(ParityBits),
		Threads:           int(Threads),
		MaxTableEntries:   int(MaxTableEntries),
		BitFlipIterations: int(BitFlip),
	}
	if Table || BitFlip > 0 {
		spec.Family = factory.HammingTable
	}

	if err := create.Save(args[0], spec, Verbose); err != nil {
		fmt.Println("Unable to create hamming code: ", err)
	}
}
