package reedmuller

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"testing"

	"github.com/nathanhack/blockcodes/gf2"
	"github.com/nathanhack/blockcodes/linearblock"
	"github.com/nathanhack/blockcodes/linearblock/internal"
	mat "github.com/nathanhack/sparsemat"
)

func randomVector(r *rand.Rand, n int) mat.SparseVector {
	v := mat.CSRVec(n)
	for i := 0; i < n; i++ {
		v.Set(i, r.Intn(2))
	}
	return v
}

func encodedLength(c linearblock.Code, length int) int {
	k := c.MessageLength()
	return (length + k - 1) / k * c.CodewordLength()
}

//flipDistinct flips count different bits of v
func flipDistinct(r *rand.Rand, v mat.SparseVector, length, count int) {
	for _, i := range r.Perm(length)[:count] {
		gf2.Flip(v, i)
	}
}

func TestBasis(t *testing.T) {
	expected := []string{"1100", "1010", "1111"}
	basis := Basis(2)
	if len(basis) != len(expected) {
		t.Fatalf("expected %v rows but found %v", len(expected), len(basis))
	}
	for i, row := range basis {
		if actual := gf2.Format(row, 4); actual != expected[i] {
			t.Fatalf("expected %v but found %v", expected[i], actual)
		}
	}

	basis = Basis(3)
	if len(basis) != 4 {
		t.Fatalf("expected %v rows but found %v", 4, len(basis))
	}
	if actual := gf2.Format(basis[3], 8); actual != "11111111" {
		t.Fatalf("expected %v but found %v", "11111111", actual)
	}
	for _, row := range basis[:3] {
		if gf2.Weight(row) != 4 {
			t.Fatalf("expected weight %v but found %v", 4, gf2.Weight(row))
		}
	}
}

func TestDimension(t *testing.T) {
	//expected[order][variables-1]
	expected := [][]int{
		{1, 1, 1, 1, 1},
		{2, 3, 4, 5, 6},
		{0, 4, 7, 11, 16},
		{0, 0, 8, 15, 26},
		{0, 0, 0, 16, 31},
	}
	for order, row := range expected {
		for v, dim := range row {
			variables := v + 1
			if order > variables {
				continue
			}
			if actual := Dimension(variables, order); actual != dim {
				t.Fatalf("RM(%v,%v): expected %v but found %v", order, variables, dim, actual)
			}

			G, err := Generator(variables, order)
			if err != nil {
				t.Fatalf("expected no error but found %v", err)
			}
			rows, cols := G.Dims()
			if rows != dim || cols != Length(variables) {
				t.Fatalf("RM(%v,%v): expected (%v,%v) but found (%v,%v)", order, variables, dim, Length(variables), rows, cols)
			}
			if rank := internal.CalculateRank(context.Background(), G, 0); rank != dim {
				t.Fatalf("RM(%v,%v): expected rank %v but found %v", order, variables, dim, rank)
			}
		}
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		variables, order int
		n, k, d          int
	}{
		{3, 0, 8, 1, 8},
		{3, 1, 8, 4, 4},
		{4, 1, 16, 5, 8},
		{5, 2, 32, 16, 8},
		{3, 3, 8, 8, 1},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			c, err := New(context.Background(), test.variables, test.order, 0)
			if err != nil {
				t.Fatalf("expected no error but found %v", err)
			}
			if c.CodewordLength() != test.n || c.MessageLength() != test.k || c.Distance != test.d {
				t.Fatalf("expected (n,k,d)=(%v,%v,%v) but found (%v,%v,%v)", test.n, test.k, test.d, c.CodewordLength(), c.MessageLength(), c.Distance)
			}
			if !c.Validate() {
				t.Fatalf("expected valid code")
			}
		})
	}
}

func TestNewInvalid(t *testing.T) {
	tests := []struct {
		variables, order int
	}{
		{0, 0},
		{-1, 0},
		{3, -1},
		{3, 4},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			_, err := New(context.Background(), test.variables, test.order, 0)
			if !errors.Is(err, linearblock.ErrInvalidParameters) {
				t.Fatalf("expected ErrInvalidParameters but found %v", err)
			}
		})
	}
}

func codes(t *testing.T) []*linearblock.LinearBlock {
	params := [][2]int{{3, 1}, {4, 1}, {5, 2}}
	result := make([]*linearblock.LinearBlock, 0, len(params))
	for _, p := range params {
		c, err := New(context.Background(), p[0], p[1], 0)
		if err != nil {
			t.Fatalf("expected no error but found %v", err)
		}
		result = append(result, c)
	}
	return result
}

//roundTrip flips errorCount distinct bits of every encoded message and checks both decoders recover it
func roundTrip(t *testing.T, r *rand.Rand, c *linearblock.LinearBlock, length, errorCount int) {
	message := randomVector(r, length)
	enclen := encodedLength(c, length)
	codetext := c.Encode(message, length)
	if codetext.Len() != enclen {
		t.Fatalf("expected codetext length %v but found %v", enclen, codetext.Len())
	}
	if length > 0 {
		flipDistinct(r, codetext, enclen, errorCount)
	}

	if actual := c.DecodeAlways(codetext, enclen); !gf2.Equal(message, actual) {
		t.Fatalf("d=%v length %v: expected %v but found %v", c.Distance, length, message, actual)
	}
	actual, err := c.DecodeIfUnique(codetext, enclen)
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	if !gf2.Equal(message, actual) {
		t.Fatalf("d=%v length %v: expected %v but found %v", c.Distance, length, message, actual)
	}
}

func TestEncodeDecodeClean(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for _, c := range codes(t) {
		for length := 0; length < 30; length++ {
			roundTrip(t, r, c, length, 0)
		}
	}
}

func TestEncodeDecodeOneError(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for _, c := range codes(t) {
		for length := 1; length < 30; length++ {
			roundTrip(t, r, c, length, 1)
		}
	}
}

func testMultipleErrors(t *testing.T, variables, order, errorCount int) {
	c, err := New(context.Background(), variables, order, 0)
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	if c.CorrectableErrors() < errorCount {
		t.Fatalf("expected at least %v correctable errors but found %v", errorCount, c.CorrectableErrors())
	}

	r := rand.New(rand.NewSource(int64(variables*10 + order)))
	for length := 1; length < 30; length++ {
		roundTrip(t, r, c, length, errorCount)
	}
}

func TestTwoErrors(t *testing.T) {
	testMultipleErrors(t, 4, 1, 2)
	testMultipleErrors(t, 5, 2, 2)
}

func TestThreeErrors(t *testing.T) {
	testMultipleErrors(t, 4, 1, 3)
	testMultipleErrors(t, 5, 2, 3)
	if testing.Short() {
		t.Skip("skipping RM(3,6) in short mode")
	}
	testMultipleErrors(t, 6, 3, 3)
}

func TestDecodeIfUniqueTwoErrors(t *testing.T) {
	c, err := New(context.Background(), 3, 1, 0)
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	if c.Perfect {
		t.Fatalf("expected RM(1,3) to not be perfect")
	}

	r := rand.New(rand.NewSource(5))
	failures := 0
	for trial := 0; trial < 100; trial++ {
		message := randomVector(r, 8)
		enclen := encodedLength(c, 8)
		codetext := c.Encode(message, 8)
		flipDistinct(r, codetext, enclen, 2)

		actual, err := c.DecodeIfUnique(codetext, enclen)
		if err != nil {
			var uncorrectable *linearblock.UncorrectableError
			if !errors.As(err, &uncorrectable) {
				t.Fatalf("expected UncorrectableError but found %v", err)
			}
			failures++
			continue
		}
		//the flips landed in different blocks
		if !gf2.Equal(message, actual) {
			t.Fatalf("expected %v but found %v", message, actual)
		}
	}
	if failures == 0 || failures == 100 {
		t.Fatalf("expected some but not all trials to fail, found %v failures", failures)
	}
}

func TestDecodeIfUniqueFourErrors(t *testing.T) {
	c, err := New(context.Background(), 4, 1, 0)
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}

	r := rand.New(rand.NewSource(6))
	for trial := 0; trial < 20; trial++ {
		message := randomVector(r, c.MessageLength())
		codetext := c.Encode(message, c.MessageLength())
		flipDistinct(r, codetext, c.CodewordLength(), 4)

		//no nonzero codeword is lighter than 8 so four flips never reach a table entry
		_, err := c.DecodeIfUnique(codetext, c.CodewordLength())
		var uncorrectable *linearblock.UncorrectableError
		if !errors.As(err, &uncorrectable) {
			t.Fatalf("expected UncorrectableError but found %v", err)
		}
		if uncorrectable.Block != 0 {
			t.Fatalf("expected block 0 but found %v", uncorrectable.Block)
		}

		if l := c.DecodeAlways(codetext, c.CodewordLength()).Len(); l != c.MessageLength() {
			t.Fatalf("expected %v bits but found %v", c.MessageLength(), l)
		}
	}
}
