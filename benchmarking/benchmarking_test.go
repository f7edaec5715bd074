package benchmarking

import (
	"context"
	"fmt"
	"math"
	"reflect"
	"runtime"
	"testing"

	"github.com/nathanhack/blockcodes/gf2"
	"github.com/nathanhack/blockcodes/linearblock/hamming"
	"github.com/nathanhack/blockcodes/linearblock/reedmuller"
	mat "github.com/nathanhack/sparsemat"
	mat2 "gonum.org/v1/gonum/mat"
)

func ExampleBenchmarkBSC() {
	code, _ := hamming.New(3)

	createMessage := func(trial int) mat.SparseVector {
		t := trial % 16
		message := mat.CSRVec(4)
		for i := 0; i < 4; i++ {
			message.Set(i, (t&(1<<i))>>i)
		}
		return message
	}

	channel := func(codetext mat.SparseVector) mat.SparseVector {
		//since hamming can fix only one bit wrong we'll just flip one bit per codeword
		return RandomFlipBitCount(codetext, 1)
	}

	checkpoint := func(updatedStats Stats) {}

	stats := BenchmarkBSC(context.Background(), code, Always, 100, 1, createMessage, channel, checkpoint, false)

	fmt.Println("Bit Error Probability :", stats)
	//Output:
	// Bit Error Probability : {Message:0.00(+/-0.00), Block:0.00(+/-0.00), Uncorrectable:0.00(+/-0.00)}
}

func ExampleBenchmarkBPSK() {
	threads := runtime.NumCPU()
	code, _ := reedmuller.New(context.Background(), 4, 1, threads)

	createMessage := func(trial int) mat.SparseVector {
		return RandomMessage(code.MessageLength())
	}

	channel := func(codetext mat2.Vector) mat2.Vector {
		//with this much signal the noise almost never crosses zero
		return RandomNoiseBPSK(codetext, 100.0)
	}

	stats := BenchmarkBPSK(context.Background(), code, Unique, 1000, threads, createMessage, channel, nil, false)

	fmt.Println("Bit Error Probability :", stats)
	//Output:
	// Bit Error Probability : {Message:0.00(+/-0.00), Block:0.00(+/-0.00), Uncorrectable:0.00(+/-0.00)}
}

func TestBenchmarkBSCUncorrectable(t *testing.T) {
	code, err := reedmuller.New(context.Background(), 3, 1, 0)
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}

	createMessage := func(trial int) mat.SparseVector {
		return RandomMessage(code.MessageLength())
	}
	//two flips in the only block are always detected by a distance 4 code
	channel := func(codetext mat.SparseVector) mat.SparseVector {
		return RandomFlipBitCount(codetext, 2)
	}

	stats := BenchmarkBSC(context.Background(), code, Unique, 50, 2, createMessage, channel, nil, false)
	if stats.Uncorrectable.Count != 50 {
		t.Fatalf("expected %v trials but found %v", 50, stats.Uncorrectable.Count)
	}
	if math.Abs(stats.Uncorrectable.Mean-1) > 1e-9 {
		t.Fatalf("expected every trial to be uncorrectable but found %v", stats.Uncorrectable.Mean)
	}

	stats = BenchmarkBSC(context.Background(), code, Always, 50, 2, createMessage, channel, nil, false)
	if math.Abs(stats.Uncorrectable.Mean) > 1e-9 {
		t.Fatalf("expected no uncorrectable trials but found %v", stats.Uncorrectable.Mean)
	}
}

func TestBenchmarkBSCContinueStats(t *testing.T) {
	code, err := hamming.New(4)
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}

	createMessage := func(trial int) mat.SparseVector {
		return RandomMessage(30)
	}
	channel := func(codetext mat.SparseVector) mat.SparseVector {
		return codetext
	}

	checkpoints := 0
	stats := BenchmarkBSC(context.Background(), code, Unique, 10, 1, createMessage, channel, func(Stats) { checkpoints++ }, false)
	if stats.MessageError.Count != 10 {
		t.Fatalf("expected %v trials but found %v", 10, stats.MessageError.Count)
	}
	if checkpoints != 10 {
		t.Fatalf("expected %v checkpoints but found %v", 10, checkpoints)
	}

	stats = BenchmarkBSCContinueStats(context.Background(), code, Unique, 25, 1, createMessage, channel, nil, stats, false)
	if stats.MessageError.Count != 25 {
		t.Fatalf("expected %v trials but found %v", 25, stats.MessageError.Count)
	}
	if math.Abs(stats.BlockError.Mean) > 1e-9 {
		t.Fatalf("expected no block errors but found %v", stats.BlockError.Mean)
	}

	//nothing left to run
	again := BenchmarkBSCContinueStats(context.Background(), code, Unique, 20, 1, createMessage, channel, nil, stats, false)
	if !reflect.DeepEqual(stats, again) {
		t.Fatalf("expected %v but found %v", stats, again)
	}
}

func TestBPSKConversions(t *testing.T) {
	bits, length, err := gf2.Parse("10110")
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	bpsk := BitsToBPSK(bits)
	if bpsk.Len() != length {
		t.Fatalf("expected length %v but found %v", length, bpsk.Len())
	}
	if bpsk.AtVec(1) != -1.0 {
		t.Fatalf("expected %v but found %v", -1.0, bpsk.AtVec(1))
	}
	if actual := BPSKToBits(bpsk, 0); !bits.Equals(actual) {
		t.Fatalf("expected %v but found %v", bits, actual)
	}
	if d := HammingDistanceBPSK(bpsk, BitsToBPSK(bits)); d != 0 {
		t.Fatalf("expected %v but found %v", 0, d)
	}

	flipped := BitsToBPSK(RandomFlipBitCount(bits, 2))
	if d := HammingDistanceBPSK(bpsk, flipped); d != 2 {
		t.Fatalf("expected %v but found %v", 2, d)
	}
}

func TestRandomFlipProbability(t *testing.T) {
	message := RandomMessage(64)
	if actual := RandomFlipProbability(message, 0); !message.Equals(actual) {
		t.Fatalf("expected %v but found %v", message, actual)
	}
	if d := message.HammingDistance(RandomFlipProbability(message, 1)); d != 64 {
		t.Fatalf("expected %v but found %v", 64, d)
	}
}
