package reedmuller

import (
	"fmt"

	"github.com/nathanhack/blockcodes/cmd/internal/create"
	"github.com/nathanhack/blockcodes/factory"
	"github.com/spf13/cobra"
)

var (
	Variables       uint
	Order           uint
	BitFlip         uint
	Threads         uint
	MaxTableEntries uint
	Verbose         bool
)

var ReedMullerRun = func(cmd *cobra.Command, args []string) {
	spec := factory.Spec{
		Family:            factory.ReedMuller,
		Variables:         int(Variables),
		Order:             int(Order),
		Threads:           int(Threads),
		MaxTableEntries:   int(MaxTableEntries),
		BitFlipIterations: int(BitFlip),
	}

	if err := create.Save(args[0], spec, Verbose); err != nil {
		fmt.Println("Unable to create reed-muller code: ", err)
	}
}
