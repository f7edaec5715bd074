package bsc

import (
	"context"
	"fmt"

	"github.com/nathanhack/blockcodes/benchmarking"
	"github.com/nathanhack/blockcodes/cmd/internal/tools"
	"github.com/nathanhack/blockcodes/linearblock"
	mat "github.com/nathanhack/sparsemat"
	"github.com/spf13/cobra"
)

var (
	Trials           uint
	ErrorProbability []float64
	Threads          uint
	Unique           bool
	Verbose          bool
)

func typeInfo(decoding benchmarking.Decoding) string {
	return fmt.Sprintf("BSC:%v", decoding)
}

//RunBSC runs trials of a binary symmetric channel with the crossover probability over code.
func RunBSC(ctx context.Context,
	code linearblock.Code, decoding benchmarking.Decoding,
	crossoverProbability float64, trials, threads int,
	previousStats benchmarking.Stats,
	checkpoints benchmarking.Checkpoints,
	showProgress bool) benchmarking.Stats {

	createMessage := tools.MessageConstructor(code.MessageLength())

	channel := func(codetext mat.SparseVector) mat.SparseVector {
		return benchmarking.RandomFlipProbability(codetext, crossoverProbability)
	}

	return benchmarking.BenchmarkBSCContinueStats(ctx, code, decoding, trials, threads, createMessage, channel, checkpoints, previousStats, showProgress)
}

var BscRun = func(cmd *cobra.Command, args []string) {
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

	//next we see if the RESULT_JSON exists if so we load it and validate we're running it against the right thing
	data, err := tools.OpenResults(args[1], typeInfo(decoding), spec)
	if err != nil {
		fmt.Println(err)
		return
	}

	run := func(ctx context.Context, p float64, trials int, previous benchmarking.Stats, checkpoints benchmarking.Checkpoints) benchmarking.Stats {
		return RunBSC(ctx, code, decoding, p, trials, int(Threads), previous, checkpoints, false)
	}
	tools.Simulate(ctx, data, ErrorProbability, int(Trials), int(Threads), run, args[1])

	err = tools.SaveResults(args[1], data)
	if err != nil {
		fmt.Println(err)
	}
}
