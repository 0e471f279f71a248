// Package library provides concrete finite elements on the unit hypercube
// [0,1]^dim for dim 1, 2 and 3, plus a nodal triangle element.
package library

import (
	"fmt"

	"github.com/notargets/MatrixFree/element"
	"github.com/notargets/MatrixFree/element/library/gonudg"
	"github.com/notargets/MatrixFree/utils"
)

func checkDim(dim int) error {
	if dim < 1 || dim > 3 {
		return fmt.Errorf("dimension %d not supported, need 1, 2 or 3", dim)
	}
	return nil
}

// NewFEQ returns the continuous Lagrange element of the given degree with
// equidistant nodes. DoFs are numbered hierarchically: vertices, lines,
// quads, then the interior.
func NewFEQ(dim, degree int) (element.TensorProductElement, error) {
	if degree < 1 {
		return nil, fmt.Errorf("FE_Q needs degree >= 1, got %d", degree)
	}
	fe, err := newFEQ(fmt.Sprintf("FE_Q<%d>(%d)", dim, degree), dim, degree,
		gonudg.EquidistantNodes(degree))
	if err != nil {
		return nil, err
	}
	return fe, nil
}

// NewFEQGaussLobatto returns the continuous Lagrange element with nodes in
// the Gauss-Lobatto-Legendre points
func NewFEQGaussLobatto(dim, degree int) (element.TensorProductElement, error) {
	if degree < 1 {
		return nil, fmt.Errorf("FE_Q needs degree >= 1, got %d", degree)
	}
	fe, err := newFEQ(fmt.Sprintf("FE_Q<%d>(QGaussLobatto(%d))", dim, degree+1), dim, degree,
		gonudg.GaussLobattoNodes(degree))
	if err != nil {
		return nil, err
	}
	return fe, nil
}

func newFEQ(name string, dim, degree int, nodes []float64) (*tensorElement, error) {
	if err := checkDim(dim); err != nil {
		return nil, err
	}
	basis, err := gonudg.NewLagrange1D(nodes)
	if err != nil {
		return nil, err
	}
	h2l := gonudg.HierarchicToLexicographic(dim, degree)
	lex := lexTuples(dim, degree+1)
	tuples := make([][]int, len(h2l))
	for h, l := range h2l {
		tuples[h] = lex[l]
	}
	return &tensorElement{
		name:        name,
		dim:         dim,
		degree:      degree,
		basis:       basis,
		tuples:      tuples,
		lexToNative: utils.InvertPermutation(h2l),
		support:     nodalSupport(tuples, nodes),
		structure:   element.FullTensor,
	}, nil
}

// NewFEDGQ returns the discontinuous Lagrange element through the given 1D
// nodes in [0,1], numbered lexicographically
func NewFEDGQ(dim int, nodes []float64) (element.TensorProductElement, error) {
	if err := checkDim(dim); err != nil {
		return nil, err
	}
	for i, x := range nodes {
		if x < 0 || x > 1 {
			return nil, fmt.Errorf("FE_DGQ node %d = %g outside [0,1]", i, x)
		}
	}
	basis, err := gonudg.NewLagrange1D(nodes)
	if err != nil {
		return nil, err
	}
	degree := len(nodes) - 1
	tuples := lexTuples(dim, degree+1)
	return &tensorElement{
		name:        fmt.Sprintf("FE_DGQArbitraryNodes<%d>(%d)", dim, degree),
		dim:         dim,
		degree:      degree,
		basis:       basis,
		tuples:      tuples,
		lexToNative: identity(len(tuples)),
		support:     nodalSupport(tuples, nodes),
		structure:   element.FullTensor,
	}, nil
}

// NewFEQHermite returns the C1 Hermite-like element of degree >= 3. It has
// no support points.
func NewFEQHermite(dim, degree int) (element.TensorProductElement, error) {
	if err := checkDim(dim); err != nil {
		return nil, err
	}
	basis, err := newHermite1D(degree)
	if err != nil {
		return nil, err
	}
	tuples := lexTuples(dim, degree+1)
	return &tensorElement{
		name:        fmt.Sprintf("FE_Hermite<%d>(%d)", dim, degree),
		dim:         dim,
		degree:      degree,
		basis:       basis,
		tuples:      tuples,
		lexToNative: identity(len(tuples)),
		structure:   element.FullTensor,
	}, nil
}

// NewFEDGP returns the discontinuous element spanning all polynomials of
// complete degree <= degree in a tensor-product Legendre basis. DoFs are
// ordered by increasing y (and z) index, x running fastest.
func NewFEDGP(dim, degree int) (element.TensorProductElement, error) {
	if err := checkDim(dim); err != nil {
		return nil, err
	}
	if degree < 0 {
		return nil, fmt.Errorf("FE_DGP needs degree >= 0, got %d", degree)
	}
	var tuples [][]int
	for _, t := range lexTuples(dim, degree+1) {
		sum := 0
		for _, k := range t {
			sum += k
		}
		if sum <= degree {
			tuples = append(tuples, t)
		}
	}
	return &tensorElement{
		name:        fmt.Sprintf("FE_DGP<%d>(%d)", dim, degree),
		dim:         dim,
		degree:      degree,
		basis:       legendre1D{degree: degree},
		tuples:      tuples,
		lexToNative: identity(len(tuples)),
		structure:   element.TruncatedTensor,
	}, nil
}

// NewFEQDG0 returns FE_Q with equidistant nodes enriched by a discontinuous
// constant function, numbered last. Its support point is the cell centre.
func NewFEQDG0(dim, degree int) (element.TensorProductElement, error) {
	if degree < 1 {
		return nil, fmt.Errorf("FE_Q_DG0 needs degree >= 1, got %d", degree)
	}
	fe, err := newFEQ(fmt.Sprintf("FE_Q_DG0<%d>(%d)", dim, degree), dim, degree,
		gonudg.EquidistantNodes(degree))
	if err != nil {
		return nil, err
	}
	centre := make([]float64, dim)
	for d := range centre {
		centre[d] = 0.5
	}
	fe.tuples = append(fe.tuples, nil)
	fe.support = append(fe.support, centre)
	fe.lexToNative = append(fe.lexToNative, len(fe.lexToNative))
	fe.structure = element.TensorPlusConstant
	return fe, nil
}
