package gf2

import (
	"reflect"
	"strconv"
	"testing"

	mat "github.com/nathanhack/sparsemat"
)

func TestVecMat(t *testing.T) {
	tests := []struct {
		v        mat.SparseVector
		M        mat.SparseMat
		expected mat.SparseVector
	}{
		{mat.CSRVec(2, 1, 1), mat.CSRMat(2, 3, 1, 0, 1, 1, 1, 0), mat.CSRVec(3, 0, 1, 1)},
		{mat.CSRVec(2, 1, 0), mat.CSRMat(2, 3, 1, 0, 1, 1, 1, 0), mat.CSRVec(3, 1, 0, 1)},
		{mat.CSRVec(1, 0), mat.CSRMat(2, 3, 1, 0, 1, 1, 1, 0), mat.CSRVec(3)},
		//short vectors are zero padded
		{mat.CSRVec(1, 1), mat.CSRMat(2, 3, 1, 0, 1, 1, 1, 0), mat.CSRVec(3, 1, 0, 1)},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			actual := VecMat(test.v, test.M)
			if actual.Len() != 3 {
				t.Fatalf("expected length %v but found %v", 3, actual.Len())
			}
			if !Equal(test.expected, actual) {
				t.Fatalf("expected %v but found %v", test.expected, actual)
			}
		})
	}
}

func TestXorAnd(t *testing.T) {
	a := mat.CSRVec(4, 1, 1, 0, 1)
	b := mat.CSRVec(6, 0, 1, 1, 1, 0, 1)

	sum := Xor(a, b)
	if sum.Len() != 6 {
		t.Fatalf("expected length %v but found %v", 6, sum.Len())
	}
	if !reflect.DeepEqual([]int{0, 2, 5}, sum.NonzeroArray()) {
		t.Fatalf("expected %v but found %v", []int{0, 2, 5}, sum.NonzeroArray())
	}

	product := And(a, b)
	if !reflect.DeepEqual([]int{1, 3}, product.NonzeroArray()) {
		t.Fatalf("expected %v but found %v", []int{1, 3}, product.NonzeroArray())
	}

	if Weight(a) != 3 {
		t.Fatalf("expected weight %v but found %v", 3, Weight(a))
	}
	if Distance(a, b) != 3 {
		t.Fatalf("expected distance %v but found %v", 3, Distance(a, b))
	}
}

func TestEqualIgnoresLength(t *testing.T) {
	tests := []struct {
		a, b     mat.SparseVector
		expected bool
	}{
		{mat.CSRVec(3, 1, 0, 1), mat.CSRVec(8, 1, 0, 1, 0, 0, 0, 0, 0), true},
		{mat.CSRVec(3, 1, 0, 1), mat.CSRVec(8, 1, 0, 1, 0, 0, 0, 0, 1), false},
		{mat.CSRVec(0), mat.CSRVec(5), true},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			actual := Equal(test.a, test.b)
			if actual != test.expected {
				t.Fatalf("expected %v but found %v", test.expected, actual)
			}
		})
	}
}

func TestChunkConcat(t *testing.T) {
	v, length, err := Parse("1011_0110_1")
	if err != nil {
		t.Fatalf("expected no error but found %v", err)
	}
	if length != 9 {
		t.Fatalf("expected length %v but found %v", 9, length)
	}

	blocks := Chunk(v, length, 4)
	if len(blocks) != 3 {
		t.Fatalf("expected %v blocks but found %v", 3, len(blocks))
	}
	for i, expected := range []string{"1011", "0110", "1000"} {
		if actual := Format(blocks[i], 4); actual != expected {
			t.Fatalf("expected %v but found %v", expected, actual)
		}
	}

	joined := Concat(blocks...)
	if joined.Len() != 12 {
		t.Fatalf("expected length %v but found %v", 12, joined.Len())
	}
	if !Equal(v, joined) {
		t.Fatalf("expected %v but found %v", v, joined)
	}

	if len(Chunk(v, 0, 4)) != 0 {
		t.Fatalf("expected no blocks for an empty message")
	}
}

func TestRepeatReverse(t *testing.T) {
	v := mat.CSRVec(3, 1, 1, 0)
	tests := []struct {
		actual, expected string
	}{
		{Format(Repeat(v), 6), "110110"},
		{Format(Reverse(v), 3), "011"},
		{Format(Slice(Repeat(v), 1, 2), 2), "10"},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			if test.actual != test.expected {
				t.Fatalf("expected %v but found %v", test.expected, test.actual)
			}
		})
	}
}

func TestParseInvalid(t *testing.T) {
	if _, _, err := Parse("10x1"); err == nil {
		t.Fatalf("expected an error for an invalid bit")
	}
}

func TestBitFlip(t *testing.T) {
	v := mat.CSRVec(3)
	Flip(v, 1)
	if Bit(v, 1) != 1 {
		t.Fatalf("expected %v but found %v", 1, Bit(v, 1))
	}
	Flip(v, 1)
	if Bit(v, 1) != 0 {
		t.Fatalf("expected %v but found %v", 0, Bit(v, 1))
	}
	if Bit(v, 100) != 0 {
		t.Fatalf("expected bits past the end to be zero")
	}
}
