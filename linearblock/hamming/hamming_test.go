package hamming

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"testing"

	"github.com/nathanhack/blockcodes/gf2"
	"github.com/nathanhack/blockcodes/linearblock"
	mat "github.com/nathanhack/sparsemat"
)

func randomVector(n int, seed int64) mat.SparseVector {
	r := rand.New(rand.NewSource(seed))
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

func TestNew(t *testing.T) {
	tests := []struct {
		paritySymbols int
		n, k          int
	}{
		{2, 3, 1},
		{3, 7, 4},
		{4, 15, 11},
		{5, 31, 26},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			actual, err := New(test.paritySymbols)
			if err != nil {
				t.Fatalf("expected no error found :%v", err)
			}
			if actual.CodewordLength() != test.n {
				t.Fatalf("expected length %v but found %v", test.n, actual.CodewordLength())
			}
			if actual.MessageLength() != test.k {
				t.Fatalf("expected dimension %v but found %v", test.k, actual.MessageLength())
			}
		})
	}
}

func TestNewInvalid(t *testing.T) {
	for _, p := range []int{-1, 0, 1, MaxParitySymbols + 1, 62} {
		if _, err := New(p); !errors.Is(err, linearblock.ErrInvalidParameters) {
			t.Fatalf("expected ErrInvalidParameters for %v but found %v", p, err)
		}
		if _, err := NewLinearBlock(context.Background(), p, 0); !errors.Is(err, linearblock.ErrInvalidParameters) {
			t.Fatalf("expected ErrInvalidParameters for %v but found %v", p, err)
		}
	}
}

func TestEncode(t *testing.T) {
	h, _ := New(3)
	message, length, _ := gf2.Parse("1011")
	actual := h.Encode(message, length)
	if gf2.Format(actual, 7) != "0110011" {
		t.Fatalf("expected 0110011 but found %v", gf2.Format(actual, 7))
	}
}

func TestDecodeEveryPosition(t *testing.T) {
	h, _ := New(4)
	message := randomVector(h.MessageLength(), 7)
	codeword := h.Encode(message, h.MessageLength())
	for i := 0; i < h.CodewordLength(); i++ {
		corrupted := mat.CSRVecCopy(codeword)
		gf2.Flip(corrupted, i)
		actual := h.DecodeAlways(corrupted, h.CodewordLength())
		if !gf2.Equal(message, actual) {
			t.Fatalf("flip %v: expected %v but found %v", i, message, actual)
		}
	}
}

func TestNewLinearBlock(t *testing.T) {
	tests := []struct {
		paritySymbols int
	}{
		{3},
		{4},
	}
	for i, test := range tests {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			actual, err := NewLinearBlock(context.Background(), test.paritySymbols, 0)
			if err != nil {
				t.Fatalf("expected no error found :%v", err)
			}

			if !actual.Validate() {
				t.Fatalf("expected valid linearblock code")
			}
			if !actual.Perfect {
				t.Fatalf("expected hamming code to be perfect")
			}
			if actual.CodewordLength() != 1<<test.paritySymbols-1 {
				t.Fatalf("expected length %v but found %v", 1<<test.paritySymbols-1, actual.CodewordLength())
			}
		})
	}
}

func codes(t *testing.T) []linearblock.Code {
	var result []linearblock.Code
	for p := 3; p <= 4; p++ {
		h, err := New(p)
		if err != nil {
			t.Fatalf("expected no error found :%v", err)
		}
		l, err := NewLinearBlock(context.Background(), p, 0)
		if err != nil {
			t.Fatalf("expected no error found :%v", err)
		}
		result = append(result, h, l)
	}
	return result
}

func TestEncodeDecodeClean(t *testing.T) {
	for ci, c := range codes(t) {
		for length := 0; length < 30; length++ {
			message := randomVector(length, int64(length))
			enclen := encodedLength(c, length)
			codetext := c.Encode(message, length)
			if codetext.Len() != enclen {
				t.Fatalf("expected %v bits but found %v", enclen, codetext.Len())
			}
			actual := c.DecodeAlways(codetext, enclen)
			if !gf2.Equal(message, actual) {
				t.Fatalf("%v: expected %v but found %v", ci, message, actual)
			}
		}
	}
}

func TestEncodeDecodeOneError(t *testing.T) {
	r := rand.New(rand.NewSource(3))
	for ci, c := range codes(t) {
		for length := 1; length < 30; length++ {
			message := randomVector(length, int64(length))
			enclen := encodedLength(c, length)
			codetext := c.Encode(message, length)
			gf2.Flip(codetext, r.Intn(enclen))

			actual := c.DecodeAlways(codetext, enclen)
			if !gf2.Equal(message, actual) {
				t.Fatalf("%v: expected %v but found %v", ci, message, actual)
			}
			actual, err := c.DecodeIfUnique(codetext, enclen)
			if err != nil {
				t.Fatalf("expected no error but found %v", err)
			}
			if !gf2.Equal(message, actual) {
				t.Fatalf("%v: expected %v but found %v", ci, message, actual)
			}
		}
	}
}
