package shapeinfo

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/notargets/MatrixFree/element"
	"github.com/notargets/MatrixFree/element/library"
	"github.com/notargets/MatrixFree/quadrature"
	"github.com/notargets/MatrixFree/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gauss(t *testing.T, n int) quadrature.Rule {
	q, err := quadrature.Gauss(n)
	require.NoError(t, err)
	return q
}

func lobatto(t *testing.T, n int) quadrature.Rule {
	q, err := quadrature.GaussLobatto(n)
	require.NoError(t, err)
	return q
}

func TestLinearLagrangeGaussIsSymmetric(t *testing.T) {
	fe, err := library.NewFEQ(1, 1)
	require.NoError(t, err)
	sd, err := New[float64](gauss(t, 2), fe, 0)
	require.NoError(t, err)

	assert.Equal(t, Symmetric, sd.ElementType)
	assert.Equal(t, 2, sd.NDofs1D)
	assert.Equal(t, 1, sd.Degree)
	assert.NotNil(t, sd.ShapeValuesEO)
	assert.NotNil(t, sd.ShapeGradientsEO)
	assert.NotNil(t, sd.ShapeHessiansEO)
	assert.NotNil(t, sd.GradientsCollocationEO)

	x0 := 0.5 - 0.5/math.Sqrt(3)
	assert.InDelta(t, 1-x0, sd.ShapeValuesScalar[0], 1e-14)
	assert.InDelta(t, x0, sd.ShapeValuesScalar[1], 1e-14)
	assert.InDelta(t, -1, sd.ShapeGradientsScalar[0], 1e-14)
	assert.InDelta(t, 1, sd.ShapeGradientsScalar[2], 1e-14)
}

func TestGaussLobattoCollocation(t *testing.T) {
	for dim := 1; dim <= 3; dim++ {
		for degree := 1; degree <= 8; degree++ {
			t.Run(fmt.Sprintf("dim%d_p%d", dim, degree), func(t *testing.T) {
				fe, err := library.NewFEQGaussLobatto(dim, degree)
				require.NoError(t, err)
				sd, err := New[float64](lobatto(t, degree+1), fe, 0)
				require.NoError(t, err)
				assert.Equal(t, Collocation, sd.ElementType)
				n := sd.NDofs1D
				for i := 0; i < n; i++ {
					for q := 0; q < n; q++ {
						want := 0.
						if i == q {
							want = 1
						}
						assert.InDelta(t, want, sd.ShapeValues.At(i*n+q), 1e-12)
					}
				}
			})
		}
	}
}

func TestHermiteClassification(t *testing.T) {
	for _, nq := range []int{4, 5, 6} {
		fe, err := library.NewFEQHermite(2, 3)
		require.NoError(t, err)
		sd, err := New[float64](gauss(t, nq), fe, 0)
		require.NoError(t, err)
		assert.Equal(t, Hermite, sd.ElementType, "nq=%d", nq)
		assert.NotNil(t, sd.ShapeValuesEO)
	}
}

func TestSimplexIsRejected(t *testing.T) {
	fe, err := library.NewFESimplexP(2)
	require.NoError(t, err)
	sd, err := New[float64](gauss(t, 3), fe, 0)
	assert.Nil(t, sd)
	assert.True(t, errors.Is(err, ErrNotTensorProduct))
}

func TestEvenOddDecodeReproducesTables(t *testing.T) {
	for degree := 1; degree <= 10; degree++ {
		for _, extra := range []int{0, 1} {
			nq := degree + 1 + extra
			t.Run(fmt.Sprintf("p%d_nq%d", degree, nq), func(t *testing.T) {
				fe, err := library.NewFEQ(1, degree)
				require.NoError(t, err)
				sd, err := New[float64](gauss(t, nq), fe, 0)
				require.NoError(t, err)
				require.True(t, sd.ElementType.IsSymmetric())

				check := func(eo *EvenOddTable[float64], dense []float64) {
					decoded := eo.Decode()
					require.Len(t, decoded, len(dense))
					tol := 1e-12 * math.Max(1, maxAbs(dense))
					for k := range dense {
						assert.InDelta(t, dense[k], decoded[k], tol)
					}
				}
				check(sd.ShapeValuesEO, sd.ShapeValues.Scalars())
				check(sd.ShapeGradientsEO, sd.ShapeGradients.Scalars())
				check(sd.ShapeHessiansEO, sd.ShapeHessians.Scalars())
				assert.Equal(t, (nq+1)/2, sd.ShapeValuesEO.Stride())
				assert.Equal(t, OddParity, sd.ShapeGradientsEO.Parity())
			})
		}
	}
}

func TestCollocationDerivativeTables(t *testing.T) {
	// the collocation gradient of a GLL element on its own points equals
	// the element gradient table
	fe, err := library.NewFEQGaussLobatto(1, 4)
	require.NoError(t, err)
	sd, err := New[float64](lobatto(t, 5), fe, 0)
	require.NoError(t, err)
	require.NotNil(t, sd.GradientsCollocationEO)
	require.NotNil(t, sd.HessiansCollocationEO)

	grad := sd.GradientsCollocationEO.Decode()
	hess := sd.HessiansCollocationEO.Decode()
	g := sd.ShapeGradients.Scalars()
	h := sd.ShapeHessians.Scalars()
	for k := range g {
		assert.InDelta(t, g[k], grad[k], 1e-10)
		assert.InDelta(t, h[k], hess[k], 1e-8)
	}
}

func TestGeneralElement(t *testing.T) {
	fe, err := library.NewFEDGQ(1, []float64{0, 0.3, 1})
	require.NoError(t, err)
	sd, err := New[float64](gauss(t, 3), fe, 0)
	require.NoError(t, err)
	assert.Equal(t, General, sd.ElementType)
	assert.Nil(t, sd.ShapeValuesEO)
	assert.Nil(t, sd.GradientsCollocationEO)

	// symmetric element on an asymmetric quadrature
	q, err := quadrature.New([]float64{0.1, 0.5, 0.8}, []float64{0.3, 0.4, 0.3})
	require.NoError(t, err)
	feq, err := library.NewFEQ(1, 2)
	require.NoError(t, err)
	sd, err = New[float64](q, feq, 0)
	require.NoError(t, err)
	assert.Equal(t, General, sd.ElementType)
}

func TestTruncatedElement(t *testing.T) {
	fe, err := library.NewFEDGP(3, 2)
	require.NoError(t, err)
	sd, err := New[float64](gauss(t, 3), fe, 0)
	require.NoError(t, err)
	assert.Equal(t, Truncated, sd.ElementType)
	assert.Nil(t, sd.FaceIndices)
	assert.Nil(t, sd.ShapeValuesEO)
	assert.Equal(t, 10, sd.DofsPerCell)
	assert.Equal(t, 6, sd.DofsPerFace)
	assert.Equal(t, 3, sd.NDofs1D)
	assert.Equal(t, 27, sd.NQuadPoints)
	assert.Equal(t, 9, sd.NQuadPointsFace)
	assert.InDelta(t, 1, sd.ShapeValuesScalar[0], 1e-14)
}

func TestSymmetricPlusConstant(t *testing.T) {
	fe, err := library.NewFEQDG0(2, 2)
	require.NoError(t, err)
	sd, err := New[float64](gauss(t, 3), fe, 0)
	require.NoError(t, err)
	assert.Equal(t, SymmetricPlusConstant, sd.ElementType)
	assert.Equal(t, 10, sd.DofsPerCell)
	assert.Equal(t, 3, sd.NDofs1D)
	assert.Equal(t, 3, sd.DofsPerFace)
	assert.Len(t, sd.LexicographicNumbering, 10)
	assert.Equal(t, 9, sd.LexicographicNumbering[9])
	assert.NotNil(t, sd.ShapeValuesEO)
	assert.NoError(t, utils.VerifyPermutation(sd.LexicographicNumbering))
}

func TestPlusConstantOnAsymmetricQuadrature(t *testing.T) {
	q, err := quadrature.New([]float64{0.1, 0.5, 0.8}, []float64{0.3, 0.4, 0.3})
	require.NoError(t, err)

	feq, err := library.NewFEQ(2, 2)
	require.NoError(t, err)
	ref, err := New[float64](q, feq, 0)
	require.NoError(t, err)
	assert.Equal(t, General, ref.ElementType)

	fe, err := library.NewFEQDG0(2, 2)
	require.NoError(t, err)
	sd, err := New[float64](q, fe, 0)
	require.NoError(t, err)
	assert.Equal(t, General, sd.ElementType)
	assert.Equal(t, 10, sd.DofsPerCell)
	assert.Equal(t, 3, sd.DofsPerFace)
	assert.Len(t, sd.LexicographicNumbering, 10)
	assert.Equal(t, 9, sd.LexicographicNumbering[9])
	assert.Nil(t, sd.ShapeValuesEO)
	assert.Nil(t, sd.GradientsCollocationEO)
	assert.Len(t, sd.FaceIndices, 4)
	assert.Equal(t, ref.ShapeValues.Scalars(), sd.ShapeValues.Scalars())
}

func TestEvenDegreeHermiteOnOddRule(t *testing.T) {
	for _, tc := range []struct {
		degree, nq int
		want       ElementType
	}{
		{4, 4, Hermite},
		{4, 5, General},
		{6, 6, Hermite},
		{6, 7, General},
		{5, 5, Hermite},
	} {
		fe, err := library.NewFEQHermite(1, tc.degree)
		require.NoError(t, err)
		sd, err := New[float64](gauss(t, tc.nq), fe, 0)
		require.NoError(t, err)
		assert.Equal(t, tc.want, sd.ElementType, "degree=%d nq=%d", tc.degree, tc.nq)
	}
}

func TestFaceData(t *testing.T) {
	fe, err := library.NewFEQ(1, 1)
	require.NoError(t, err)
	quad := gauss(t, 3)
	sd, err := New[float64](quad, fe, 0)
	require.NoError(t, err)

	assert.InDeltaSlice(t, []float64{1, 0}, sd.FaceValue[0], 1e-15)
	assert.InDeltaSlice(t, []float64{0, 1}, sd.FaceValue[1], 1e-15)
	assert.InDeltaSlice(t, []float64{-1, 1}, sd.FaceGradient[0], 1e-14)
	assert.InDeltaSlice(t, []float64{-1, 1}, sd.FaceGradient[1], 1e-14)

	nq := quad.Size()
	require.Len(t, sd.SubfaceValue[0], 2*nq)
	for q := 0; q < nq; q++ {
		x := quad.Point(q)
		assert.InDelta(t, 1-0.5*x, sd.SubfaceValue[0][q], 1e-15)
		assert.InDelta(t, 0.5*x, sd.SubfaceValue[0][nq+q], 1e-15)
		assert.InDelta(t, 0.5-0.5*x, sd.SubfaceValue[1][q], 1e-15)
		assert.InDelta(t, 0.5+0.5*x, sd.SubfaceValue[1][nq+q], 1e-15)
	}
}

func TestFaceIndices(t *testing.T) {
	for dim := 1; dim <= 3; dim++ {
		for degree := 1; degree <= 4; degree++ {
			fe, err := library.NewFEQ(dim, degree)
			require.NoError(t, err)
			sd, err := New[float64](gauss(t, degree+1), fe, 0)
			require.NoError(t, err)
			n := degree + 1
			perFace := 1
			for d := 1; d < dim; d++ {
				perFace *= n
			}
			require.Len(t, sd.FaceIndices, 2*dim)
			assert.Equal(t, perFace, sd.DofsPerFace)
			for f, row := range sd.FaceIndices {
				require.Len(t, row, perFace)
				stride := 1
				for d := 0; d < f/2; d++ {
					stride *= n
				}
				for k, lex := range row {
					idx := (lex / stride) % n
					if f%2 == 0 {
						assert.Equal(t, 0, idx)
					} else {
						assert.Equal(t, n-1, idx)
					}
					if k > 0 {
						assert.Greater(t, lex, row[k-1])
					}
				}
			}
		}
	}
	assert.Equal(t, [][]int{{0, 3, 6}, {2, 5, 8}, {0, 1, 2}, {6, 7, 8}}, faceIndices(2, 3))
}

// Every boundary DoF appears once per face it lies on, interior DoFs never.
func TestFaceIndicesCoverBoundary(t *testing.T) {
	for _, tc := range []struct {
		dim, degree, total int
	}{
		{2, 2, 12}, {3, 2, 54}, {2, 3, 16}, {3, 1, 24},
	} {
		n := tc.degree + 1
		rows := faceIndices(tc.dim, n)
		count := make(map[int]int)
		sum := 0
		for _, row := range rows {
			sum += len(row)
			for _, lex := range row {
				count[lex]++
			}
		}
		assert.Equal(t, tc.total, sum, "dim=%d p=%d", tc.dim, tc.degree)

		nDofs := 1
		for d := 0; d < tc.dim; d++ {
			nDofs *= n
		}
		for lex := 0; lex < nDofs; lex++ {
			onFaces, stride := 0, 1
			for d := 0; d < tc.dim; d++ {
				if idx := (lex / stride) % n; idx == 0 || idx == n-1 {
					onFaces++
				}
				stride *= n
			}
			assert.Equal(t, onFaces, count[lex], "dim=%d p=%d lex=%d", tc.dim, tc.degree, lex)
		}
	}
}

func TestLexicographicNumberingPermutation(t *testing.T) {
	for dim := 1; dim <= 3; dim++ {
		fe, err := library.NewFEQ(dim, 3)
		require.NoError(t, err)
		sd, err := New[float64](gauss(t, 4), fe, 0)
		require.NoError(t, err)
		assert.Len(t, sd.LexicographicNumbering, sd.DofsPerCell)
		assert.NoError(t, utils.VerifyPermutation(sd.LexicographicNumbering))
	}
}

func TestSystemLexicographicNumbering(t *testing.T) {
	q2, err := library.NewFEQ(2, 2)
	require.NoError(t, err)
	q1, err := library.NewFEQ(2, 1)
	require.NoError(t, err)
	sys, err := library.NewFESystem([]element.FiniteElement{q2, q1}, []int{2, 1})
	require.NoError(t, err)

	sd, err := New[float64](gauss(t, 3), sys, 0)
	require.NoError(t, err)
	assert.Equal(t, Symmetric, sd.ElementType)
	assert.Equal(t, 9, sd.DofsPerCell)
	require.Len(t, sd.LexicographicNumbering, 18)

	lex := q2.LexicographicNumbering()
	for c := 0; c < 2; c++ {
		for k := 0; k < 9; k++ {
			assert.Equal(t, sys.ComponentToSystemIndex(c, lex[k]), sd.LexicographicNumbering[9*c+k])
		}
	}
	seen := make(map[int]bool)
	for _, idx := range sd.LexicographicNumbering {
		assert.False(t, seen[idx])
		seen[idx] = true
	}

	sd1, err := New[float64](gauss(t, 3), sys, 1)
	require.NoError(t, err)
	require.Len(t, sd1.LexicographicNumbering, 4)
	for k, idx := range sd1.LexicographicNumbering {
		assert.Equal(t, sys.ComponentToSystemIndex(2, q1.LexicographicNumbering()[k]), idx)
	}

	_, err = New[float64](gauss(t, 3), sys, 2)
	assert.True(t, errors.Is(err, ErrBaseElementIndex))
}

func TestConfigurationErrors(t *testing.T) {
	fe, err := library.NewFEQ(2, 2)
	require.NoError(t, err)

	empty, err := quadrature.New(nil, nil)
	require.NoError(t, err)
	_, err = New[float64](empty, fe, 0)
	assert.True(t, errors.Is(err, ErrEmptyQuadrature))

	_, err = New[float64](gauss(t, 3), fe, 1)
	assert.True(t, errors.Is(err, ErrBaseElementIndex))

	_, err = New[float64](gauss(t, 3), vectorValued{fe}, 0)
	assert.True(t, errors.Is(err, ErrNotScalar))

	_, err = New[float64](gauss(t, 3), scaled{fe}, 0)
	assert.True(t, errors.Is(err, ErrCannotDecode1D))

	_, err = New[float64](gauss(t, 3), plusConstant{fe}, 0)
	assert.True(t, errors.Is(err, ErrInconsistentElement))

	// a plus-constant element whose 1D basis is not symmetric
	asym, err := library.NewFEDGQ(1, []float64{0, 0.2, 1})
	require.NoError(t, err)
	_, err = New[float64](gauss(t, 3), withConstant{asym}, 0)
	assert.True(t, errors.Is(err, ErrInconsistentElement))
}

func TestFloat32Tables(t *testing.T) {
	fe, err := library.NewFEQ(3, 4)
	require.NoError(t, err)
	sd32, err := New[float32](gauss(t, 5), fe, 0)
	require.NoError(t, err)
	sd64, err := New[float64](gauss(t, 5), fe, 0)
	require.NoError(t, err)

	assert.Equal(t, sd64.ElementType, sd32.ElementType)
	for k, v := range sd64.ShapeValuesScalar {
		assert.InDelta(t, v, float64(sd32.ShapeValuesScalar[k]), 1e-6)
	}
	decoded := sd32.ShapeGradientsEO.Decode()
	for k, v := range sd64.ShapeGradientsScalar {
		assert.InDelta(t, v, float64(decoded[k]), 1e-5)
	}
}

func TestMemoryConsumptionAndSummary(t *testing.T) {
	small, err := library.NewFEQ(2, 1)
	require.NoError(t, err)
	large, err := library.NewFEQ(2, 6)
	require.NoError(t, err)
	sdSmall, err := New[float64](gauss(t, 2), small, 0)
	require.NoError(t, err)
	sdLarge, err := New[float64](gauss(t, 7), large, 0)
	require.NoError(t, err)

	assert.Positive(t, sdSmall.MemoryConsumption())
	assert.Greater(t, sdLarge.MemoryConsumption(), sdSmall.MemoryConsumption())

	summary := sdLarge.String()
	assert.Contains(t, summary, "Element type: symmetric")
	assert.Contains(t, summary, "Degree: 6")
	assert.Contains(t, summary, "Even-odd")
}

func maxAbs(x []float64) float64 {
	var m float64
	for _, v := range x {
		m = math.Max(m, math.Abs(v))
	}
	return m
}

// vectorValued reports two components for a scalar element
type vectorValued struct{ element.TensorProductElement }

func (vectorValued) NComponents() int { return 2 }

// scaled breaks the unit value of the first function
type scaled struct{ element.TensorProductElement }

func (s scaled) ShapeValue(i int, p []float64) float64 {
	return 2 * s.TensorProductElement.ShapeValue(i, p)
}

// plusConstant declares a constant function the element does not have
type plusConstant struct{ element.TensorProductElement }

func (plusConstant) Structure() element.TensorStructure { return element.TensorPlusConstant }

// withConstant appends a constant function to a scalar element
type withConstant struct{ element.TensorProductElement }

func (w withConstant) DofsPerCell() int { return w.TensorProductElement.DofsPerCell() + 1 }

func (withConstant) Structure() element.TensorStructure { return element.TensorPlusConstant }

func (w withConstant) LexicographicNumbering() []int {
	lex := w.TensorProductElement.LexicographicNumbering()
	return append(lex, len(lex))
}

func (w withConstant) ShapeValue(i int, p []float64) float64 {
	if i == w.TensorProductElement.DofsPerCell() {
		return 1
	}
	return w.TensorProductElement.ShapeValue(i, p)
}
