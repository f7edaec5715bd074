package bpsk

import (
	"context"
	"fmt"

	"github.com/nathanhack/blockcodes/benchmarking"
	"github.com/nathanhack/blockcodes/cmd/internal/tools"
	"github.com/nathanhack/blockcodes/linearblock"
	"github.com/spf13/cobra"
	mat2 "gonum.org/v1/gonum/mat"
)

var (
	Trials  uint
	EbN0    []float64
	Threads uint
	Unique  bool
	Verbose bool
)

func typeInfo(decoding benchmarking.Decoding) string {
	return fmt.Sprintf("BPSK:%v", decoding)
}

// RunBPSK runs trials of BPSK over an AWGN channel with the given E_b/N_0
// over code, hard deciding every received symbol.
func RunBPSK(ctx context.Context,
	code linearblock.Code, decoding benchmarking.Decoding,
	E_bPerN_0 float64, trials, threads int,
	previousStats benchmarking.Stats,
	checkpoints benchmarking.Checkpoints,
	showProgress bool) benchmarking.Stats {

	createMessage := tools.MessageConstructor(code.MessageLength())

	channel := func(codetext mat2.Vector) mat2.Vector {
		return benchmarking.RandomNoiseBPSK(codetext, E_bPerN_0)
	}

	return benchmarking.BenchmarkBPSKContinueStats(ctx, code, decoding, trials, threads, createMessage, channel, checkpoints, previousStats, showProgress)
}

var BpskRun = func(cmd *cobra.Command, args []string) {
	tools.SetVerbose(Verbose)
	ctx := tools.SignalContext()

	spec, code, err := tools.LoadCode(ctx, args[0])
	if err != nil {
		fmt.Println(err)
		return
	}

	decoding := benchmarking.Always
	if Unique {
		decoding = benchmarking.Unique
	}

	data, err := tools.OpenResults(args[1], typeInfo(decoding), spec)
	if err != nil {
		fmt.Println(err)
		return
	}

	run := func(ctx context.Context, ebn0 float64, trials int, previous benchmarking.Stats, checkpoints benchmarking.Checkpoints) benchmarking.Stats {
		return RunBPSK(ctx, code, decoding, ebn0, trials, int(Threads), previous, checkpoints, false)
	}
	tools.Simulate(ctx, data, EbN0, int(Trials), int(Threads), run, args[1])

	err = tools.SaveResults(args[1], data)
	if err != nil {
		fmt.Println(err)
	}
}
