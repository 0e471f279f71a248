package gonudg

import "fmt"

// Lagrange1D is the nodal Lagrange basis through a set of distinct 1D nodes
type Lagrange1D struct {
	Nodes []float64
	denom []float64 // prod_{m != i} (x_i - x_m)
}

// NewLagrange1D builds the Lagrange basis for the given nodes
func NewLagrange1D(nodes []float64) (*Lagrange1D, error) {
	if len(nodes) == 0 {
		return nil, fmt.Errorf("lagrange basis needs at least one node")
	}
	lb := &Lagrange1D{
		Nodes: append([]float64(nil), nodes...),
		denom: make([]float64, len(nodes)),
	}
	for i, xi := range nodes {
		d := 1.
		for m, xm := range nodes {
			if m == i {
				continue
			}
			if xi == xm {
				return nil, fmt.Errorf("duplicate lagrange node %g at %d and %d", xi, m, i)
			}
			d *= xi - xm
		}
		lb.denom[i] = d
	}
	return lb, nil
}

// N returns the number of basis functions
func (lb *Lagrange1D) N() int { return len(lb.Nodes) }

// Eval returns the value, first and second derivative of the i-th basis
// function at x. The product of linear factors is accumulated together
// with its derivatives so no cancellation-prone divisions by (x - x_m) occur.
func (lb *Lagrange1D) Eval(i int, x float64) (value, grad, hess float64) {
	v, d1, d2 := 1., 0., 0.
	for m, xm := range lb.Nodes {
		if m == i {
			continue
		}
		f := x - xm
		d2 = d2*f + 2*d1
		d1 = d1*f + v
		v *= f
	}
	s := 1 / lb.denom[i]
	return v * s, d1 * s, d2 * s
}

// Value returns the value of the i-th basis function at x
func (lb *Lagrange1D) Value(i int, x float64) float64 {
	v, _, _ := lb.Eval(i, x)
	return v
}

// EquidistantNodes returns degree+1 equally spaced nodes on [0,1]
func EquidistantNodes(degree int) []float64 {
	if degree == 0 {
		return []float64{0.5}
	}
	x := make([]float64, degree+1)
	for i := range x {
		x[i] = float64(i) / float64(degree)
	}
	return x
}

// GaussLobattoNodes returns the degree+1 Gauss-Lobatto-Legendre nodes
// mapped to [0,1]
func GaussLobattoNodes(degree int) []float64 {
	if degree == 0 {
		return []float64{0.5}
	}
	r := JacobiGL(0, 0, degree)
	x := make([]float64, len(r))
	for i, ri := range r {
		x[i] = 0.5 * (ri + 1)
	}
	// enforce exact endpoints and mirror symmetry about 0.5
	x[0], x[degree] = 0, 1
	for i := 0; i < len(x)/2; i++ {
		x[degree-i] = 1 - x[i]
	}
	if degree%2 == 0 {
		x[degree/2] = 0.5
	}
	return x
}
