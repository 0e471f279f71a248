package gonudg

// INDEXING NOTE: Points are returned in ascending order on [-1,1] and all
// loops are 0-based. Mapping onto the unit interval is done by the
// quadrature package.

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// JacobiGL computes the N+1 Gauss-Lobatto points for Jacobi polynomials,
// the zeros of (1-x^2)*P'_N^{alpha,beta}(x)
func JacobiGL(alpha, beta float64, N int) []float64 {
	if N == 0 {
		return []float64{0.0}
	}

	if N == 1 {
		return []float64{-1.0, 1.0}
	}

	// N-1 interior Gauss-Jacobi points plus the two endpoints
	xint, _ := JacobiGQ(alpha+1, beta+1, N-2)

	x := make([]float64, N+1)
	x[0] = -1.0
	copy(x[1:N], xint)
	x[N] = 1.0

	return x
}

// JacobiGQ computes the N+1 Gauss points and weights for the Jacobi weight
// (1-x)^alpha (1+x)^beta using the Golub-Welsch eigenvalue formulation
func JacobiGQ(alpha, beta float64, N int) (X, W []float64) {
	if N == 0 {
		return []float64{-(alpha - beta) / (alpha + beta + 2.)}, []float64{2.}
	}

	h1 := make([]float64, N+1)
	for i := range h1 {
		h1[i] = 2*float64(i) + alpha + beta
	}

	// main diagonal: d0[i] = -(β²-α²)/((2i+α+β)*(2i+α+β+2))
	d0 := make([]float64, N+1)
	fac := beta*beta - alpha*alpha
	for i := range d0 {
		d0[i] = fac / (h1[i] * (h1[i] + 2.))
	}
	// 0/0 for alpha+beta == 0
	if alpha+beta < 10*1.e-16 {
		d0[0] = 0.
	}

	// first upper diagonal
	d1 := make([]float64, N)
	for i := range d1 {
		ip1 := float64(i + 1)
		d1[i] = 2.0 / (h1[i] + 2.0) * math.Sqrt(
			ip1*(ip1+alpha+beta)*(ip1+alpha)*(ip1+beta)/(h1[i]+1)/(h1[i]+3),
		)
	}

	var eig mat.EigenSym
	if ok := eig.Factorize(NewSymTriDiagonal(d0, d1), true); !ok {
		panic("eigenvalue decomposition failed")
	}
	X = eig.Values(nil)

	vecs := mat.NewDense(len(X), len(X), nil)
	eig.VectorsTo(vecs)
	W = make([]float64, len(X))
	g0 := Gamma0(alpha, beta)
	for i := range W {
		v := vecs.At(0, i)
		W[i] = v * v * g0
	}
	return X, W
}

// LegendreGLWeights returns the Gauss-Lobatto-Legendre weights on [-1,1]
// for the points x = JacobiGL(0, 0, len(x)-1)
func LegendreGLWeights(x []float64) []float64 {
	N := len(x) - 1
	W := make([]float64, len(x))
	if N == 0 {
		W[0] = 2
		return W
	}
	fN := float64(N)
	// JacobiP is orthonormal, P_N = sqrt(2/(2N+1)) * JacobiP
	scale := math.Sqrt(2 / (2*fN + 1))
	P := JacobiP(x, 0, 0, N)
	for i := range W {
		pn := scale * P[i]
		W[i] = 2 / (fN * (fN + 1) * pn * pn)
	}
	return W
}

// Gamma0 is the integral of the Jacobi weight over [-1,1]
func Gamma0(alpha, beta float64) float64 {
	ab1 := alpha + beta + 1.
	a1 := alpha + 1.
	b1 := beta + 1.
	return math.Gamma(a1) * math.Gamma(b1) * math.Pow(2, ab1) / ab1 / math.Gamma(ab1)
}

// NewSymTriDiagonal builds a symmetric tridiagonal matrix from its diagonal
// d0 and first off-diagonal d1
func NewSymTriDiagonal(d0, d1 []float64) *mat.SymDense {
	n := len(d0)
	Tri := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		Tri.SetSym(i, i, d0[i])
		if i < n-1 {
			Tri.SetSym(i, i+1, d1[i])
		}
	}
	return Tri
}
