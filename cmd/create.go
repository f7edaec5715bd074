package cmd

import (
	"github.com/nathanhack/blockcodes/cmd/internal/create/hamming"
	"github.com/nathanhack/blockcodes/cmd/internal/create/reedmuller"

	"github.com/spf13/cobra"
)

// createCmd represents the create command
var createCmd = &cobra.Command{
	Use:     "create",
	Aliases: []string{"c"},
	Short:   "used to create a new code",
	Long:    `create provides the ability to make a new code from the list of built-in codes and save them so they can be used later by the tools.`,
}

// createHammingCmd represents the Hamming command
var createHammingCmd = &cobra.Command{
	Use:     "hamming OUTPUT_CODE_JSON",
	Aliases: []string{"h", "ham"},
	Short:   "Creates a new Hamming code",
	Long:    `Creates a new Hamming code. By default it is decoded in closed form, --table uses a syndrome table instead.`,
	Args:    cobra.ExactArgs(1),
	Run:     hamming.HammingRun,
}

// createReedMullerCmd represents the reedmuller command
var createReedMullerCmd = &cobra.Command{
	Use:     "reedmuller OUTPUT_CODE_JSON",
	Aliases: []string{"rm", "r"},
	Short:   "Creates a new Reed-Muller code",
	Long:    `Creates a new Reed-Muller code RM(order, variables) with codewords of 2^variables bits.`,
	Args:    cobra.ExactArgs(1),
	Run:     reedmuller.ReedMullerRun,
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.AddCommand(createHammingCmd)
	createHammingCmd.Flags().UintVarP(&hamming.ParityBits, "parity", "p", 3, "the parity >=2, sets codeword size (cs) == 2^parity-1 and message size == cs-parity")
	createHammingCmd.Flags().BoolVar(&hamming.Table, "table", false, "decode with a syndrome table instead of the closed form")
	createHammingCmd.Flags().UintVarP(&hamming.BitFlip, "bitflip", "b", 0, "decode with at most this many bit flips per block instead of the syndrome table (0 disables)")
	createHammingCmd.Flags().UintVarP(&hamming.Threads, "threads", "t", 0, "the number of threads to use; note 0 means use the number of cpus")
	createHammingCmd.Flags().UintVar(&hamming.MaxTableEntries, "max", 0, "the most syndrome table entries allowed; note 0 means the default")
	createHammingCmd.Flags().BoolVarP(&hamming.Verbose, "verbose", "v", false, "enable verbose info")

	createCmd.AddCommand(createReedMullerCmd)
	createReedMullerCmd.Flags().UintVarP(&reedmuller.Variables, "variables", "k", 4, "the number of variables >0, sets codeword size == 2^variables")
	createReedMullerCmd.Flags().UintVarP(&reedmuller.Order, "order", "r", 1, "the order, 0 <= order <= variables")
	createReedMullerCmd.Flags().UintVarP(&reedmuller.BitFlip, "bitflip", "b", 0, "decode with at most this many bit flips per block instead of the syndrome table (0 disables)")
	createReedMullerCmd.Flags().UintVarP(&reedmuller.Threads, "threads", "t", 0, "the number of threads to use; note 0 means use the number of cpus")
	createReedMullerCmd.Flags().UintVar(&reedmuller.MaxTableEntries, "max", 0, "the most syndrome table entries allowed; note 0 means the default")
	createReedMullerCmd.Flags().BoolVarP(&reedmuller.Verbose, "verbose", "v", false, "enable verbose info")
}
