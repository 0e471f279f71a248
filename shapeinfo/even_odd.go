package shapeinfo

import (
	"fmt"
	"unsafe"

	"github.com/ajroetker/go-highway/hwy"
	"github.com/notargets/MatrixFree/vectorized"
)

// Parity is the sign relating a table to its mirror image:
// a[rows-1-i][cols-1-q] = Parity * a[i][q]
type Parity int8

const (
	EvenParity Parity = 1  // values, Hessians
	OddParity  Parity = -1 // gradients
)

func (p Parity) String() string {
	if p == OddParity {
		return "odd"
	}
	return "even"
}

// EvenOddTable holds a mirror-symmetric rows×cols table as its even and odd
// halves, halving the work of a 1D matrix-vector product. Row i < rows/2
// stores the even part 0.5*(a[i][q] + a[i][cols-1-q]), the mirrored row
// rows-1-i the odd part 0.5*(a[i][q] - a[i][cols-1-q]), for q < Stride().
// With odd rows the middle row stores the first Stride() entries of the
// middle function.
type EvenOddTable[T vectorized.Number] struct {
	rows, cols, stride int
	parity             Parity
	data               *vectorized.Array[T]
}

// EncodeEvenOdd packs a dense table laid out i*cols+q
func EncodeEvenOdd[T vectorized.Number](dense []float64, rows, cols int, parity Parity) *EvenOddTable[T] {
	if len(dense) != rows*cols {
		panic(fmt.Sprintf("even-odd table of %dx%d given %d entries", rows, cols, len(dense)))
	}
	stride := (cols + 1) / 2
	eo := &EvenOddTable[T]{
		rows:   rows,
		cols:   cols,
		stride: stride,
		parity: parity,
		data:   vectorized.New[T](rows * stride),
	}
	for i := 0; i < rows/2; i++ {
		for q := 0; q < stride; q++ {
			a, b := dense[i*cols+q], dense[i*cols+cols-1-q]
			eo.data.Set(i*stride+q, T(0.5*(a+b)))
			eo.data.Set((rows-1-i)*stride+q, T(0.5*(a-b)))
		}
	}
	if rows%2 == 1 {
		mid := rows / 2
		for q := 0; q < stride; q++ {
			eo.data.Set(mid*stride+q, T(dense[mid*cols+q]))
		}
	}
	return eo
}

func (eo *EvenOddTable[T]) Rows() int      { return eo.rows }
func (eo *EvenOddTable[T]) Cols() int      { return eo.cols }
func (eo *EvenOddTable[T]) Stride() int    { return eo.stride }
func (eo *EvenOddTable[T]) Parity() Parity { return eo.parity }

// Even returns the even part of row i < Rows()/2 at q < Stride()
func (eo *EvenOddTable[T]) Even(i, q int) T {
	return eo.data.At(i*eo.stride + q)
}

// Odd returns the odd part of row i < Rows()/2 at q < Stride()
func (eo *EvenOddTable[T]) Odd(i, q int) T {
	return eo.data.At((eo.rows-1-i)*eo.stride + q)
}

// Middle returns the middle row at q < Stride(); only valid for odd Rows()
func (eo *EvenOddTable[T]) Middle(q int) T {
	return eo.data.At((eo.rows/2)*eo.stride + q)
}

func (eo *EvenOddTable[T]) EvenVec(i, q int) hwy.Vec[T] {
	return eo.data.Vec(i*eo.stride + q)
}

func (eo *EvenOddTable[T]) OddVec(i, q int) hwy.Vec[T] {
	return eo.data.Vec((eo.rows-1-i)*eo.stride + q)
}

func (eo *EvenOddTable[T]) MiddleVec(q int) hwy.Vec[T] {
	return eo.data.Vec((eo.rows/2)*eo.stride + q)
}

// Split returns lane 0 of the even and odd parts, each Rows()/2 x Stride()
// laid out i*Stride()+q, and the middle row (nil for even Rows())
func (eo *EvenOddTable[T]) Split() (even, odd, middle []T) {
	half := eo.rows / 2
	even = make([]T, half*eo.stride)
	odd = make([]T, half*eo.stride)
	for i := 0; i < half; i++ {
		for q := 0; q < eo.stride; q++ {
			even[i*eo.stride+q] = eo.Even(i, q)
			odd[i*eo.stride+q] = eo.Odd(i, q)
		}
	}
	if eo.rows%2 == 1 {
		middle = make([]T, eo.stride)
		for q := range middle {
			middle[q] = eo.Middle(q)
		}
	}
	return even, odd, middle
}

// Decode rebuilds the dense rows×cols table, using the parity to fill the
// mirrored rows
func (eo *EvenOddTable[T]) Decode() []T {
	rows, cols, s := eo.rows, eo.cols, T(eo.parity)
	d := make([]T, rows*cols)
	for i := 0; i < rows/2; i++ {
		for q := 0; q < eo.stride; q++ {
			e, o := eo.Even(i, q), eo.Odd(i, q)
			d[i*cols+cols-1-q] = e - o
			d[i*cols+q] = e + o
		}
		for q := 0; q < cols; q++ {
			d[(rows-1-i)*cols+q] = s * d[i*cols+cols-1-q]
		}
	}
	if rows%2 == 1 {
		mid := rows / 2
		for q := 0; q < eo.stride; q++ {
			d[mid*cols+q] = eo.Middle(q)
			if m := cols - 1 - q; m != q {
				d[mid*cols+m] = s * eo.Middle(q)
			}
		}
	}
	return d
}

func (eo *EvenOddTable[T]) MemoryConsumption() int64 {
	if eo == nil {
		return 0
	}
	return int64(unsafe.Sizeof(*eo)) + eo.data.MemoryConsumption()
}
