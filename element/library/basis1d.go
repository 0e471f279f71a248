package library

import (
	"fmt"

	"github.com/notargets/MatrixFree/element/library/gonudg"
)

// basis1D is a set of 1D polynomials on [0,1] evaluated together with their
// first and second derivatives
type basis1D interface {
	N() int
	Eval(i int, x float64) (value, grad, hess float64)
}

// legendre1D is the orthonormal Legendre basis of degree 0..degree
type legendre1D struct {
	degree int
}

func (lb legendre1D) N() int { return lb.degree + 1 }

func (lb legendre1D) Eval(i int, x float64) (value, grad, hess float64) {
	return gonudg.LegendreUnit(x, i)
}

// hermite1D is a C1 Hermite-like basis of degree >= 3 ordered
// [value at 0, slope at 0, interior..., slope at 1, value at 1]. Interior
// functions carry a double root at both ends, so at x=0 only the first two
// functions have a non-zero value or derivative. The basis is mirror
// symmetric: phi_{N-1-i}(x) = phi_i(1-x).
type hermite1D struct {
	degree   int
	interior *gonudg.Lagrange1D
}

func newHermite1D(degree int) (*hermite1D, error) {
	if degree < 3 {
		return nil, fmt.Errorf("hermite basis needs degree >= 3, got %d", degree)
	}
	hb := &hermite1D{degree: degree}
	if nInt := degree - 3; nInt > 0 {
		nodes := make([]float64, nInt)
		for m := range nodes {
			nodes[m] = float64(m+1) / float64(nInt+1)
		}
		var err error
		if hb.interior, err = gonudg.NewLagrange1D(nodes); err != nil {
			return nil, err
		}
	}
	return hb, nil
}

func (hb *hermite1D) N() int { return hb.degree + 1 }

func (hb *hermite1D) Eval(i int, x float64) (value, grad, hess float64) {
	last := hb.degree
	switch {
	case i == 0:
		return hermiteValue0(x)
	case i == 1:
		return hermiteSlope0(x)
	case i == last:
		v, d, dd := hermiteValue0(1 - x)
		return v, -d, dd
	case i == last-1:
		v, d, dd := hermiteSlope0(1 - x)
		return v, -d, dd
	}
	// x^2 (1-x)^2 q_k(x)
	t := x - x*x
	g, dg, ddg := t*t, 2*t*(1-2*x), 2*(1-2*x)*(1-2*x)-4*t
	q, dq, ddq := hb.interior.Eval(i-2, x)
	return g * q, dg*q + g*dq, ddg*q + 2*dg*dq + g*ddq
}

// (1-x)^2 (1+2x)
func hermiteValue0(x float64) (float64, float64, float64) {
	return 1 - 3*x*x + 2*x*x*x, -6*x + 6*x*x, -6 + 12*x
}

// x (1-x)^2
func hermiteSlope0(x float64) (float64, float64, float64) {
	return x - 2*x*x + x*x*x, 1 - 4*x + 3*x*x, -4 + 6*x
}
