// Package quadrature provides one-dimensional quadrature rules on the unit
// interval [0,1].
package quadrature

import (
	"fmt"
	"math"

	"github.com/notargets/MatrixFree/element/library/gonudg"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
)

// Rule is an ordered set of quadrature points in [0,1] with weights
type Rule struct {
	points  []float64
	weights []float64
}

// New builds a rule from user supplied points and weights
func New(points, weights []float64) (Rule, error) {
	if len(points) != len(weights) {
		return Rule{}, fmt.Errorf("quadrature has %d points but %d weights", len(points), len(weights))
	}
	for i, x := range points {
		if x < 0 || x > 1 || math.IsNaN(x) {
			return Rule{}, fmt.Errorf("quadrature point %d = %g outside [0,1]", i, x)
		}
	}
	return Rule{
		points:  append([]float64(nil), points...),
		weights: append([]float64(nil), weights...),
	}, nil
}

// Gauss returns the n-point Gauss-Legendre rule, exact for degree 2n-1
func Gauss(n int) (Rule, error) {
	if n < 1 {
		return Rule{}, fmt.Errorf("gauss rule needs at least 1 point, got %d", n)
	}
	r, w := gonudg.JacobiGQ(0, 0, n-1)
	return fromReference(r, w), nil
}

// GaussLobatto returns the n-point Gauss-Lobatto-Legendre rule including
// both endpoints, exact for degree 2n-3
func GaussLobatto(n int) (Rule, error) {
	if n < 2 {
		return Rule{}, fmt.Errorf("gauss-lobatto rule needs at least 2 points, got %d", n)
	}
	r := gonudg.JacobiGL(0, 0, n-1)
	w := gonudg.LegendreGLWeights(r)
	q := fromReference(r, w)
	q.points[0], q.points[n-1] = 0, 1
	return q, nil
}

// fromReference maps a rule on [-1,1] to [0,1] and removes the round-off
// asymmetry of the eigenvalue solve
func fromReference(r, w []float64) Rule {
	n := len(r)
	q := Rule{
		points:  make([]float64, n),
		weights: make([]float64, n),
	}
	for i := range r {
		q.points[i] = 0.5 * (r[i] + 1)
		q.weights[i] = 0.5 * w[i]
	}
	for i := 0; i < n/2; i++ {
		j := n - 1 - i
		x := 0.5 * (q.points[i] + 1 - q.points[j])
		wt := 0.5 * (q.weights[i] + q.weights[j])
		q.points[i], q.points[j] = x, 1-x
		q.weights[i], q.weights[j] = wt, wt
	}
	if n%2 == 1 {
		q.points[n/2] = 0.5
	}
	return q
}

// Size returns the number of points
func (q Rule) Size() int { return len(q.points) }

// Point returns the i-th point
func (q Rule) Point(i int) float64 { return q.points[i] }

// Weight returns the i-th weight
func (q Rule) Weight(i int) float64 { return q.weights[i] }

// Points returns a copy of the points
func (q Rule) Points() []float64 { return append([]float64(nil), q.points...) }

// Weights returns a copy of the weights
func (q Rule) Weights() []float64 { return append([]float64(nil), q.weights...) }

// IsSymmetric reports whether the points are mirror images about 0.5
func (q Rule) IsSymmetric(tol float64) bool {
	n := q.Size()
	for i := 0; i < n; i++ {
		if !scalar.EqualWithinAbs(q.points[i], 1-q.points[n-1-i], tol) {
			return false
		}
	}
	return true
}

// Integrate applies the rule to f
func (q Rule) Integrate(f func(x float64) float64) float64 {
	vals := make([]float64, q.Size())
	for i, x := range q.points {
		vals[i] = f(x)
	}
	return floats.Dot(vals, q.weights)
}

// String describes the rule
func (q Rule) String() string {
	return fmt.Sprintf("Quadrature1D{n=%d, points=%v}", q.Size(), q.points)
}
