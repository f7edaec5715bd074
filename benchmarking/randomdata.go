package benchmarking

import (
	"math"
	"math/rand"

	mat "github.com/nathanhack/sparsemat"
	mat2 "gonum.org/v1/gonum/mat"
)

// RandomMessage creates a random message of length len.
func RandomMessage(len int) mat.SparseVector {
	message := mat.CSRVec(len)
	for i := 0; i < len; i++ {
		message.Set(i, rand.Intn(2))
	}
	return message
}

// RandomFlipBitCount randomly flips min(numberOfBitsToFlip,len(input)) number of bits.
func RandomFlipBitCount(input mat.SparseVector, numberOfBitsToFlip int) mat.SparseVector {
	output := mat.CSRVecCopy(input)

	flip := make(map[int]bool)
	for len(flip) < numberOfBitsToFlip && len(flip) < input.Len() {
		flip[rand.Intn(input.Len())] = true
	}

	for i := range flip {
		output.Set(i, output.At(i)+1)
	}
	return output
}

// RandomFlipProbability is the binary symmetric channel, every bit is flipped
// with probability probabilityOfFlip.
func RandomFlipProbability(input mat.SparseVector, probabilityOfFlip float64) mat.SparseVector {
	output := mat.CSRVecCopy(input)
	for i := 0; i < input.Len(); i++ {
		if rand.Float64() < probabilityOfFlip {
			output.Set(i, output.At(i)+1)
		}
	}
	return output
}

// RandomNoiseBPSK creates a randomizes version of the bpsk vector using the E_b/N_0 passed in
func RandomNoiseBPSK(bpsk mat2.Vector, E_bPerN_0 float64) mat2.Vector {
	//using  σ^2 = N_0/2 and E_b=1
	// we get  σ = sqrt(1/(2*E_bPerN_0))
	σ := math.Sqrt(1 / (2 * E_bPerN_0))
	result := mat2.NewVecDense(bpsk.Len(), nil)
	for i := 0; i < bpsk.Len(); i++ {
		result.SetVec(i, rand.NormFloat64()*σ)
	}
	result.AddVec(result, bpsk)
	return result
}
