package cmd

import (
	"github.com/nathanhack/blockcodes/cmd/internal/codec"

	"github.com/spf13/cobra"
)

// encodeCmd represents the encode command
var encodeCmd = &cobra.Command{
	Use:     "encode CODE_JSON BITS",
	Aliases: []string{"e", "enc"},
	Short:   "Encodes a string of 0s and 1s",
	Long:    `Encodes a string of 0s and 1s with a code made by create. The message is zero padded to whole blocks.`,
	Args:    cobra.ExactArgs(2),
	Run:     codec.EncodeRun,
}

// decodeCmd represents the decode command
var decodeCmd = &cobra.Command{
	Use:     "decode CODE_JSON BITS",
	Aliases: []string{"d", "dec"},
	Short:   "Decodes a string of 0s and 1s",
	Long:    `Decodes a string of 0s and 1s with a code made by create, correcting what errors it can.`,
	Args:    cobra.ExactArgs(2),
	Run:     codec.DecodeRun,
}

func init() {
	rootCmd.AddCommand(encodeCmd)
	encodeCmd.Flags().BoolVarP(&codec.Verbose, "verbose", "v", false, "enable verbose info")

	rootCmd.AddCommand(decodeCmd)
	decodeCmd.Flags().BoolVarP(&codec.Unique, "unique", "u", false, "fail instead of guessing when a block can't be corrected uniquely")
	decodeCmd.Flags().BoolVarP(&codec.Verbose, "verbose", "v", false, "enable verbose info")
}
