package library

import (
	"fmt"

	"github.com/notargets/MatrixFree/element"
	"github.com/notargets/MatrixFree/element/library/gonudg"
	"gonum.org/v1/gonum/mat"
)

// FESimplexP is the nodal P_k element on the unit triangle
// (0,0), (1,0), (0,1) with equidistant nodes. It is not a tensor-product
// element.
type FESimplexP struct {
	degree int
	nodes  [][2]float64
	vInv   *mat.Dense // inverse Vandermonde, modal to nodal
}

var _ element.FiniteElement = (*FESimplexP)(nil)

// NewFESimplexP builds the triangle element of the given degree
func NewFESimplexP(degree int) (*FESimplexP, error) {
	if degree < 1 {
		return nil, fmt.Errorf("FE_SimplexP needs degree >= 1, got %d", degree)
	}
	fe := &FESimplexP{degree: degree}
	var r, s []float64
	for j := 0; j <= degree; j++ {
		for i := 0; i <= degree-j; i++ {
			x, y := float64(i)/float64(degree), float64(j)/float64(degree)
			fe.nodes = append(fe.nodes, [2]float64{x, y})
			r = append(r, 2*x-1)
			s = append(s, 2*y-1)
		}
	}
	V := gonudg.Vandermonde2D(degree, r, s)
	fe.vInv = mat.NewDense(len(r), len(r), nil)
	if err := fe.vInv.Inverse(V); err != nil {
		return nil, fmt.Errorf("FE_SimplexP(%d) vandermonde: %w", degree, err)
	}
	return fe, nil
}

func (fe *FESimplexP) Name() string                       { return fmt.Sprintf("FE_SimplexP<2>(%d)", fe.degree) }
func (fe *FESimplexP) Dimensions() element.Dimensionality { return element.D2 }
func (fe *FESimplexP) Degree() int                        { return fe.degree }
func (fe *FESimplexP) DofsPerCell() int                   { return len(fe.nodes) }
func (fe *FESimplexP) NComponents() int                   { return 1 }

// Node returns the support point of DoF i
func (fe *FESimplexP) Node(i int) [2]float64 { return fe.nodes[i] }

// ShapeValue evaluates the i-th nodal basis function at p
func (fe *FESimplexP) ShapeValue(i int, p []float64) float64 {
	modes := gonudg.Vandermonde2D(fe.degree, []float64{2*p[0] - 1}, []float64{2*p[1] - 1})
	var v float64
	for j := 0; j < len(fe.nodes); j++ {
		v += modes.At(0, j) * fe.vInv.At(j, i)
	}
	return v
}
