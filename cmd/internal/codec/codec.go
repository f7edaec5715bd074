package codec

import (
	"context"
	"fmt"

	"github.com/nathanhack/blockcodes/cmd/internal/tools"
	"github.com/nathanhack/blockcodes/gf2"
	"github.com/spf13/cobra"
)

var (
	Unique  bool
	Verbose bool
)

var EncodeRun = func(cmd *cobra.Command, args []string) {
	tools.SetVerbose(Verbose)
	result, err := Encode(tools.SignalContext(), args[0], args[1])
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(result)
}

var DecodeRun = func(cmd *cobra.Command, args []string) {
	tools.SetVerbose(Verbose)
	result, err := Decode(tools.SignalContext(), args[0], args[1], Unique)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(result)
}

//Encode encodes the 0/1 text bits with the code saved in codeFile.
func Encode(ctx context.Context, codeFile, bits string) (string, error) {
	_, code, err := tools.LoadCode(ctx, codeFile)
	if err != nil {
		return "", err
	}

	message, length, err := gf2.Parse(bits)
	if err != nil {
		return "", err
	}
	codetext := code.Encode(message, length)
	return gf2.Format(codetext, codetext.Len()), nil
}

// Decode decodes the 0/1 text bits with the code saved in codeFile. The result
// is padded to whole message blocks.
func Decode(ctx context.Context, codeFile, bits string, unique bool) (string, error) {
	_, code, err := tools.LoadCode(ctx, codeFile)
	if err != nil {
		return "", err
	}

	codetext, length, err := gf2.Parse(bits)
	if err != nil {
		return "", err
	}
	if length%code.CodewordLength() != 0 {
		return "", fmt.Errorf("codetext length must be a multiple of %v but found %v", code.CodewordLength(), length)
	}

	if unique {
		message, err := code.DecodeIfUnique(codetext, length)
		if err != nil {
			return "", err
		}
		return gf2.Format(message, message.Len()), nil
	}
	message := code.DecodeAlways(codetext, length)
	return gf2.Format(message, message.Len()), nil
}
