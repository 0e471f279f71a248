package shapeinfo

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mirrored builds a random rows×cols table with a[rows-1-i][cols-1-q] =
// parity*a[i][q]
func mirrored(rng *rand.Rand, rows, cols int, parity Parity) []float64 {
	a := make([]float64, rows*cols)
	for i := 0; i < rows; i++ {
		for q := 0; q < cols; q++ {
			k, m := i*cols+q, (rows-1-i)*cols+cols-1-q
			switch {
			case k < m:
				a[k] = rng.Float64()*2 - 1
			case k == m:
				if parity == EvenParity {
					a[k] = rng.Float64()*2 - 1
				}
			default:
				a[k] = float64(parity) * a[m]
			}
		}
	}
	return a
}

func TestEncodeDecodeRandomTables(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for rows := 1; rows <= 6; rows++ {
		for cols := 1; cols <= 6; cols++ {
			for _, parity := range []Parity{EvenParity, OddParity} {
				t.Run(fmt.Sprintf("%dx%d_%s", rows, cols, parity), func(t *testing.T) {
					dense := mirrored(rng, rows, cols, parity)
					eo := EncodeEvenOdd[float64](dense, rows, cols, parity)
					assert.Equal(t, rows, eo.Rows())
					assert.Equal(t, cols, eo.Cols())
					assert.Equal(t, (cols+1)/2, eo.Stride())
					even, odd, middle := eo.Split()
					assert.Len(t, even, rows/2*eo.Stride())
					assert.Len(t, odd, rows/2*eo.Stride())
					assert.Equal(t, rows%2 == 1, middle != nil)
					assert.InDeltaSlice(t, dense, eo.Decode(), 1e-15)
				})
			}
		}
	}
}

func TestEvenOddAccessors(t *testing.T) {
	// 3 functions on 4 points
	dense := []float64{
		1, 2, 3, 4,
		5, 6, 6, 5,
		4, 3, 2, 1,
	}
	eo := EncodeEvenOdd[float64](dense, 3, 4, EvenParity)
	assert.Equal(t, 2.5, eo.Even(0, 0))
	assert.Equal(t, -1.5, eo.Odd(0, 0))
	assert.Equal(t, 2.5, eo.Even(0, 1))
	assert.Equal(t, -0.5, eo.Odd(0, 1))
	assert.Equal(t, 5., eo.Middle(0))
	assert.Equal(t, 6., eo.Middle(1))
	for _, x := range eo.EvenVec(0, 1).Data() {
		assert.Equal(t, 2.5, x)
	}
	for _, x := range eo.OddVec(0, 0).Data() {
		assert.Equal(t, -1.5, x)
	}
	for _, x := range eo.MiddleVec(1).Data() {
		assert.Equal(t, 6., x)
	}
	assert.Equal(t, dense, eo.Decode())
	assert.Panics(t, func() { EncodeEvenOdd[float64](dense, 2, 4, EvenParity) })
}

func TestClassifySymmetry(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	n, nq := 4, 5
	v := mirrored(rng, n, nq, EvenParity)
	g := mirrored(rng, n, nq, OddParity)
	h := mirrored(rng, n, nq, EvenParity)
	require.True(t, classifySymmetry(v, g, h, n, nq))

	for _, table := range [][]float64{v, g, h} {
		table[1] += 1e-6
		assert.False(t, classifySymmetry(v, g, h, n, nq))
		table[1] -= 1e-6
	}
	// perturbations below the scaled tolerance are accepted
	v[1] += 1e-14
	assert.True(t, classifySymmetry(v, g, h, n, nq))
}

func TestClassifySymmetryMiddleFunction(t *testing.T) {
	// three functions at three points, mirror symmetric
	v := []float64{
		0.6, 0, -0.1,
		0.5, 1, 0.5,
		-0.1, 0, 0.6,
	}
	g := make([]float64, 9)
	h := make([]float64, 9)
	assert.True(t, classifySymmetry(v, g, h, 3, 3))

	// symmetric, but the outer functions do not vanish in the middle
	v[1], v[7] = 0.2, 0.2
	assert.False(t, classifySymmetry(v, g, h, 3, 3))
	v[1], v[7] = 0, 0
	v[4] = 0.9
	assert.False(t, classifySymmetry(v, g, h, 3, 3))
}

func TestCheckCollocation(t *testing.T) {
	id := []float64{1, 0, 0, 0, 1, 0, 0, 0, 1}
	assert.True(t, checkCollocation(id, 3, 3))
	id[1] = 1e-9
	assert.False(t, checkCollocation(id, 3, 3))
	assert.False(t, checkCollocation(make([]float64, 6), 2, 3))
}

func TestCheckHermite(t *testing.T) {
	assert.True(t, checkHermite([]float64{1, 0, 0, 0}, []float64{-3, 1, 0, 0}))
	assert.False(t, checkHermite([]float64{1, 0.1, 0, 0}, []float64{-3, 1, 0, 0}))
	assert.False(t, checkHermite([]float64{1, 0, 0, 0}, []float64{-3, 1, 2, 0}))
}

func TestElementTypeString(t *testing.T) {
	names := map[ElementType]string{
		Collocation:           "collocation",
		Hermite:               "hermite",
		Symmetric:             "symmetric",
		General:               "general",
		Truncated:             "truncated",
		SymmetricPlusConstant: "symmetric_plus_constant",
	}
	for et, name := range names {
		assert.Equal(t, name, et.String())
	}
	assert.Equal(t, ElementType(2), Symmetric)
	assert.Equal(t, ElementType(5), SymmetricPlusConstant)
	assert.True(t, Hermite.IsSymmetric())
	assert.False(t, General.IsSymmetric())
	assert.False(t, Truncated.IsSymmetric())
	assert.Equal(t, "ElementType(9)", ElementType(9).String())
}
