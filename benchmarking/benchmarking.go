package benchmarking

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/cheggaaa/pb/v3"
	"github.com/nathanhack/avgstd"
	"github.com/nathanhack/blockcodes/gf2"
	"github.com/nathanhack/blockcodes/linearblock"
	mat "github.com/nathanhack/sparsemat"
	"github.com/nathanhack/threadpool"
	mat2 "gonum.org/v1/gonum/mat"
)

type Stats struct {
	MessageError  avgstd.AvgStd // fraction of message bits still wrong after decoding
	BlockError    avgstd.AvgStd // 1 when any message bit was wrong after decoding
	Uncorrectable avgstd.AvgStd // 1 when DecodeIfUnique gave up on the codetext
}

func (s Stats) String() string {
	return fmt.Sprintf("{Message:%0.02f(+/-%0.02f), Block:%0.02f(+/-%0.02f), Uncorrectable:%0.02f(+/-%0.02f)}",
		s.MessageError.Mean, math.Sqrt(s.MessageError.SampledVariance()),
		s.BlockError.Mean, math.Sqrt(s.BlockError.SampledVariance()),
		s.Uncorrectable.Mean, math.Sqrt(s.Uncorrectable.SampledVariance()),
	)
}

//Decoding picks which decode a simulation uses.
type Decoding int

const (
	//Always uses DecodeAlways.
	Always Decoding = iota
	// Unique uses DecodeIfUnique and falls back to DecodeAlways when it fails,
	// the failure is counted in Stats.Uncorrectable.
	Unique
)

func (d Decoding) String() string {
	if d == Unique {
		return "unique"
	}
	return "always"
}

type Checkpoints func(updatedStats Stats)

type BinaryMessageConstructor func(trial int) (message mat.SparseVector)

//specific to BSC
type BinarySymmetricChannel func(codetext mat.SparseVector) (channelInducedCodetext mat.SparseVector)

//specific to BPSK
type BPSKChannel func(codetext mat2.Vector) (channelInducedCodetext mat2.Vector)

//decode returns the decoded message and if DecodeIfUnique failed
func decode(code linearblock.Code, decoding Decoding, codetext mat.SparseVector) (mat.SparseVector, bool) {
	if decoding == Unique {
		message, err := code.DecodeIfUnique(codetext, codetext.Len())
		if err == nil {
			return message, false
		}
	}
	return code.DecodeAlways(codetext, codetext.Len()), decoding == Unique
}

func metrics(message, decoded mat.SparseVector, length int) (messageError, blockError float64) {
	if length == 0 {
		return 0, 0
	}
	errors := gf2.Distance(message, gf2.Slice(decoded, 0, length))
	if errors > 0 {
		blockError = 1
	}
	return float64(errors) / float64(length), blockError
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

//run adds trials-previousStats.MessageError.Count results of trial to previousStats
func run(ctx context.Context,
	trials, threads int,
	trial func(i int) (messageError, blockError float64, uncorrectable bool),
	checkpoints Checkpoints,
	previousStats Stats,
	showProgress bool) Stats {
	trialsToRun := trials - previousStats.MessageError.Count
	if trialsToRun <= 0 {
		return previousStats
	}

	var bar *pb.ProgressBar
	if showProgress {
		bar = pb.StartNew(trialsToRun)
	}

	pool := threadpool.NewFixedSize(ctx, threads, trialsToRun)
	statsMux := sync.Mutex{}

	for i := previousStats.MessageError.Count; i < trials; i++ {
		tmp := i
		pool.Add(func() {
			if showProgress {
				bar.Increment()
			}
			messageError, blockError, uncorrectable := trial(tmp)

			statsMux.Lock()
			previousStats.MessageError.Update(messageError)
			previousStats.BlockError.Update(blockError)
			previousStats.Uncorrectable.Update(boolToFloat(uncorrectable))
			if checkpoints != nil {
				checkpoints(previousStats) //give them the updated checkpoint
			}
			statsMux.Unlock()
		})
	}
	pool.Wait()
	if showProgress {
		bar.Finish()
	}
	return previousStats
}

func BenchmarkBSC(ctx context.Context,
	code linearblock.Code, decoding Decoding,
	trials int, threads int,
	createMessage BinaryMessageConstructor,
	channel BinarySymmetricChannel,
	checkpoints Checkpoints,
	showProgress bool) Stats {
	return BenchmarkBSCContinueStats(ctx, code, decoding, trials, threads, createMessage, channel, checkpoints, Stats{}, showProgress)
}

func BenchmarkBSCContinueStats(ctx context.Context,
	code linearblock.Code, decoding Decoding,
	trials int, threads int,
	createMessage BinaryMessageConstructor,
	channel BinarySymmetricChannel,
	checkpoints Checkpoints,
	previousStats Stats,
	showProgress bool) Stats {
	trial := func(i int) (float64, float64, bool) {
		//we create a random message
		message := createMessage(i)
		length := message.Len()

		// encode to get our codetext
		codetext := code.Encode(message, length)

		// send through the channel to get channel induced errors
		channelInducedCodetext := channel(codetext)

		// repair and decode (if possible)
		decoded, uncorrectable := decode(code, decoding, channelInducedCodetext)

		messageError, blockError := metrics(message, decoded, length)
		return messageError, blockError, uncorrectable
	}
	return run(ctx, trials, threads, trial, checkpoints, previousStats, showProgress)
}

func BenchmarkBPSK(ctx context.Context,
	code linearblock.Code, decoding Decoding,
	trials int, threads int,
	createMessage BinaryMessageConstructor,
	channel BPSKChannel,
	checkpoints Checkpoints, showProgress bool) Stats {
	return BenchmarkBPSKContinueStats(ctx, code, decoding, trials, threads, createMessage, channel, checkpoints, Stats{}, showProgress)
}

func BenchmarkBPSKContinueStats(ctx context.Context,
	code linearblock.Code, decoding Decoding,
	trials int, threads int,
	createMessage BinaryMessageConstructor,
	channel BPSKChannel,
	checkpoints Checkpoints,
	previousStats Stats,
	showProgress bool) Stats {
	trial := func(i int) (float64, float64, bool) {
		message := createMessage(i)
		length := message.Len()

		// encode and modulate
		codetext := BitsToBPSK(code.Encode(message, length))

		channelInducedCodetext := channel(codetext)

		//we're going to simulate a hard decision of >=0 is 1
		// and <0 will be 0 on the received codetext
		decoded, uncorrectable := decode(code, decoding, BPSKToBits(channelInducedCodetext, 0))

		messageError, blockError := metrics(message, decoded, length)
		return messageError, blockError, uncorrectable
	}
	return run(ctx, trials, threads, trial, checkpoints, previousStats, showProgress)
}

//BitsToBPSK converts a [0,1] vector to a [-1,1] vector, a must not be empty
func BitsToBPSK(a mat.SparseVector) mat2.Vector {
	output := mat2.NewVecDense(a.Len(), nil)

	for i := 0; i < a.Len(); i++ {
		if a.At(i) > 0 {
			output.SetVec(i, 1)
		} else {
			output.SetVec(i, -1)
		}
	}

	return output
}

//BPSKToBits conversts a BPSK vector [-1,1] to sparse vector [0,1].
// Values >= boundary will be considered a 1, otherwise a 0.
func BPSKToBits(a mat2.Vector, boundary float64) mat.SparseVector {
	result := mat.CSRVec(a.Len())

	for i := 0; i < a.Len(); i++ {
		if a.AtVec(i) >= boundary {
			result.Set(i, 1)
		}
	}
	return result
}

//HammingDistanceBPSK calculates number of bits different.
// Assumes >=0 is 1 and <0 is 0
// If a and b are different sizes it assumes they are
// both aligned with the zero index (the difference is at the end)
func HammingDistanceBPSK(a, b mat2.Vector) int {
	min := a.Len()
	max := b.Len()
	if min > max {
		min = b.Len()
		max = a.Len()
	}

	count := 0
	for i := 0; i < min; i++ {
		aOne := a.AtVec(i) >= 0
		bOne := b.AtVec(i) >= 0
		if aOne != bOne {
			count++
		}
	}
	return max - min + count
}
