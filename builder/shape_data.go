package builder

import (
	"fmt"
	"strings"

	"github.com/notargets/MatrixFree/shapeinfo"
	"github.com/notargets/MatrixFree/vectorized"
	"gonum.org/v1/gonum/mat"
)

// AddShapeData embeds the tables of sd under the symbol prefix name:
//
//	name_N_DOFS_1D, name_N_Q_1D, name_ELEMENT_TYPE, name_DIM, ... defines
//	name_values[n][nq], name_gradients, name_hessians
//	name_face_value[2][n], name_face_gradient[2][n]
//	name_<table>_even[n/2][stride], _odd, _middle[stride] for symmetric elements
//	name_face_indices[2*dim][dofs_per_face], name_lexicographic[]
//
// and the macros name_INTERPOLATE_1D(IN, OUT), plus name_INTERPOLATE_1D_EO
// when even-odd tables exist, which map n coefficients to nq point values.
func AddShapeData[T vectorized.Number](kb *Builder, name string, sd *shapeinfo.ShapeData[T]) {
	n, nq := sd.NDofs1D, sd.NQuadPoints1D

	kb.Define(name+"_N_DOFS_1D", n)
	kb.Define(name+"_N_Q_1D", nq)
	kb.Define(name+"_ELEMENT_TYPE", int(sd.ElementType))
	kb.Define(name+"_DIM", sd.Dim)
	kb.Define(name+"_DOFS_PER_CELL", sd.DofsPerCell)
	kb.Define(name+"_DOFS_PER_FACE", sd.DofsPerFace)
	kb.Define(name+"_N_Q_POINTS", sd.NQuadPoints)

	tables := []struct {
		suffix string
		data   *vectorized.Array[T]
		eo     *shapeinfo.EvenOddTable[T]
	}{
		{"values", sd.ShapeValues, sd.ShapeValuesEO},
		{"gradients", sd.ShapeGradients, sd.ShapeGradientsEO},
		{"hessians", sd.ShapeHessians, sd.ShapeHessiansEO},
	}
	for _, tbl := range tables {
		kb.AddStaticMatrix(name+"_"+tbl.suffix, mat.NewDense(n, nq, toFloat64(tbl.data.Scalars())))
		if tbl.eo != nil {
			addEvenOdd(kb, name+"_"+tbl.suffix, tbl.eo)
		}
	}

	faceValue := mat.NewDense(2, n, nil)
	faceGradient := mat.NewDense(2, n, nil)
	for side := 0; side < 2; side++ {
		faceValue.SetRow(side, toFloat64(sd.FaceValue[side]))
		faceGradient.SetRow(side, toFloat64(sd.FaceGradient[side]))
	}
	kb.AddStaticMatrix(name+"_face_value", faceValue)
	kb.AddStaticMatrix(name+"_face_gradient", faceGradient)

	if len(sd.FaceIndices) > 0 && len(sd.FaceIndices[0]) > 0 {
		kb.AddStaticIndices(name+"_face_indices", sd.FaceIndices)
	}
	kb.AddStaticIndices(name+"_lexicographic", [][]int{sd.LexicographicNumbering})

	kb.AddMacro(interpolateMacro(kb.Symbol(name), n))
	if sd.ShapeValuesEO != nil {
		kb.AddMacro(interpolateEvenOddMacro(kb.Symbol(name), n))
	}
}

func addEvenOdd[T vectorized.Number](kb *Builder, name string, eo *shapeinfo.EvenOddTable[T]) {
	half, stride := eo.Rows()/2, eo.Stride()
	if half > 0 {
		even := mat.NewDense(half, stride, nil)
		odd := mat.NewDense(half, stride, nil)
		for i := 0; i < half; i++ {
			for q := 0; q < stride; q++ {
				even.Set(i, q, float64(eo.Even(i, q)))
				odd.Set(i, q, float64(eo.Odd(i, q)))
			}
		}
		kb.AddStaticMatrix(name+"_even", even)
		kb.AddStaticMatrix(name+"_odd", odd)
	}
	if eo.Rows()%2 == 1 {
		middle := make([]float64, stride)
		for q := range middle {
			middle[q] = float64(eo.Middle(q))
		}
		kb.AddStaticVector(name+"_middle", middle)
	}
}

// interpolateMacro applies the dense value table to one line of
// coefficients
func interpolateMacro(sym string, n int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("#define %s_INTERPOLATE_1D(IN, OUT) \\\n", sym))
	sb.WriteString(fmt.Sprintf("  for (int q_ = 0; q_ < %s_N_Q_1D; ++q_) { \\\n", sym))
	sb.WriteString("    real_t sum_ = REAL_ZERO; \\\n")
	sb.WriteString(fmt.Sprintf("    for (int i_ = 0; i_ < %d; ++i_) \\\n", n))
	sb.WriteString(fmt.Sprintf("      sum_ += %s_values[i_][q_] * (IN)[i_]; \\\n", sym))
	sb.WriteString("    (OUT)[q_] = sum_; \\\n")
	sb.WriteString("  }\n")
	return sb.String()
}

// interpolateEvenOddMacro applies the value table in even-odd form: pairs
// of mirrored coefficients are combined first, so each output pair costs
// half the multiplications of the dense product
func interpolateEvenOddMacro(sym string, n int) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("#define %s_INTERPOLATE_1D_EO(IN, OUT) \\\n", sym))
	sb.WriteString(fmt.Sprintf("  for (int q_ = 0; q_ < (%s_N_Q_1D + 1) / 2; ++q_) { \\\n", sym))
	sb.WriteString("    real_t e_ = REAL_ZERO, o_ = REAL_ZERO; \\\n")
	if n/2 > 0 {
		sb.WriteString(fmt.Sprintf("    for (int i_ = 0; i_ < %d; ++i_) { \\\n", n/2))
		sb.WriteString(fmt.Sprintf("      e_ += %s_values_even[i_][q_] * ((IN)[i_] + (IN)[%d - i_]); \\\n", sym, n-1))
		sb.WriteString(fmt.Sprintf("      o_ += %s_values_odd[i_][q_] * ((IN)[i_] - (IN)[%d - i_]); \\\n", sym, n-1))
		sb.WriteString("    } \\\n")
	}
	if n%2 == 1 {
		sb.WriteString(fmt.Sprintf("    e_ += %s_values_middle[q_] * (IN)[%d]; \\\n", sym, n/2))
	}
	sb.WriteString("    (OUT)[q_] = e_ + o_; \\\n")
	sb.WriteString(fmt.Sprintf("    (OUT)[%s_N_Q_1D - 1 - q_] = e_ - o_; \\\n", sym))
	sb.WriteString("  }\n")
	return sb.String()
}

func toFloat64[T vectorized.Number](vals []T) []float64 {
	out := make([]float64, len(vals))
	for i, v := range vals {
		out[i] = float64(v)
	}
	return out
}
