package library

import (
	"github.com/notargets/MatrixFree/element"
)

// tensorElement implements element.TensorProductElement for every scalar
// element of this package. Native DoF i is the product of the 1D basis
// functions tuples[i]; a nil tuple stands for the constant function.
type tensorElement struct {
	name        string
	dim         int
	degree      int
	basis       basis1D
	tuples      [][]int
	lexToNative []int
	support     [][]float64 // nil when the element has no support points
	structure   element.TensorStructure
}

func (te *tensorElement) Name() string                       { return te.name }
func (te *tensorElement) Dimensions() element.Dimensionality { return element.Dimensionality(te.dim) }
func (te *tensorElement) Degree() int                        { return te.degree }
func (te *tensorElement) DofsPerCell() int                   { return len(te.tuples) }
func (te *tensorElement) NComponents() int                   { return 1 }
func (te *tensorElement) Structure() element.TensorStructure { return te.structure }

func (te *tensorElement) LexicographicNumbering() []int {
	return append([]int(nil), te.lexToNative...)
}

func (te *tensorElement) UnitSupportPoint(i int) ([]float64, bool) {
	if te.support == nil {
		return nil, false
	}
	return append([]float64(nil), te.support[i]...), true
}

// factors evaluates the 1D factors of native DoF i at p
func (te *tensorElement) factors(i int, p []float64) (v, d1, d2 []float64) {
	v = make([]float64, te.dim)
	d1 = make([]float64, te.dim)
	d2 = make([]float64, te.dim)
	tuple := te.tuples[i]
	for d := 0; d < te.dim; d++ {
		if tuple == nil {
			v[d] = 1
			continue
		}
		v[d], d1[d], d2[d] = te.basis.Eval(tuple[d], p[d])
	}
	return
}

func (te *tensorElement) ShapeValue(i int, p []float64) float64 {
	v, _, _ := te.factors(i, p)
	val := 1.
	for _, f := range v {
		val *= f
	}
	return val
}

func (te *tensorElement) ShapeGrad(i int, p []float64) []float64 {
	v, d1, _ := te.factors(i, p)
	grad := make([]float64, te.dim)
	for d := range grad {
		grad[d] = d1[d]
		for e := range v {
			if e != d {
				grad[d] *= v[e]
			}
		}
	}
	return grad
}

func (te *tensorElement) ShapeHessian(i int, p []float64) [][]float64 {
	v, d1, d2 := te.factors(i, p)
	hess := make([][]float64, te.dim)
	for a := range hess {
		hess[a] = make([]float64, te.dim)
		for b := range hess[a] {
			h := 1.
			for e := range v {
				switch {
				case a == b && e == a:
					h *= d2[e]
				case e == a || e == b:
					h *= d1[e]
				default:
					h *= v[e]
				}
			}
			hess[a][b] = h
		}
	}
	return hess
}

// lexTuples returns the tensor indices of all n^dim lexicographic positions
func lexTuples(dim, n int) [][]int {
	total := 1
	for d := 0; d < dim; d++ {
		total *= n
	}
	tuples := make([][]int, total)
	for lex := range tuples {
		tuples[lex] = make([]int, dim)
		rem := lex
		for d := 0; d < dim; d++ {
			tuples[lex][d] = rem % n
			rem /= n
		}
	}
	return tuples
}

func identity(n int) []int {
	p := make([]int, n)
	for i := range p {
		p[i] = i
	}
	return p
}

func nodalSupport(tuples [][]int, nodes []float64) [][]float64 {
	support := make([][]float64, len(tuples))
	for i, tuple := range tuples {
		support[i] = make([]float64, len(tuple))
		for d, k := range tuple {
			support[i][d] = nodes[k]
		}
	}
	return support
}
