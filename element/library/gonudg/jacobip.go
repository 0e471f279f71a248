package gonudg

import (
	"math"

	"github.com/notargets/gocfd/DG1D"
	"github.com/notargets/gocfd/utils"
)

// JacobiP evaluates the orthonormal Jacobi polynomial of type (alpha,beta)
// and order n at points x in [-1,1]
func JacobiP(x []float64, alpha, beta float64, n int) []float64 {
	xVec := utils.NewVector(len(x), x)
	return DG1D.JacobiP(xVec, alpha, beta, n)
}

// JacobiPSingle evaluates JacobiP at a single point
func JacobiPSingle(x, alpha, beta float64, n int) float64 {
	return JacobiP([]float64{x}, alpha, beta, n)[0]
}

// GradJacobiP evaluates the derivative of the orthonormal Jacobi polynomial
// of type (alpha,beta) and order n at points x
func GradJacobiP(x []float64, alpha, beta float64, n int) []float64 {
	if n == 0 {
		return make([]float64, len(x))
	}
	xVec := utils.NewVector(len(x), x)
	return DG1D.GradJacobiP(xVec, alpha, beta, n)
}

// GradJacobiPSingle evaluates GradJacobiP at a single point
func GradJacobiPSingle(x, alpha, beta float64, n int) float64 {
	return GradJacobiP([]float64{x}, alpha, beta, n)[0]
}

// Grad2JacobiPSingle evaluates the second derivative of the orthonormal
// Jacobi polynomial using d/dx P_n^(a,b) = sqrt(n(n+a+b+1)) P_{n-1}^(a+1,b+1)
func Grad2JacobiPSingle(x, alpha, beta float64, n int) float64 {
	if n < 2 {
		return 0
	}
	fn := float64(n)
	return math.Sqrt(fn*(fn+alpha+beta+1)) *
		GradJacobiPSingle(x, alpha+1, beta+1, n-1)
}

// LegendreUnit evaluates the Legendre polynomial of order n, orthonormal on
// the unit interval [0,1], with its first and second derivatives at x.
// LegendreUnit(x, 0) is identically one.
func LegendreUnit(x float64, n int) (value, grad, hess float64) {
	r := 2*x - 1
	value = math.Sqrt2 * JacobiPSingle(r, 0, 0, n)
	grad = 2 * math.Sqrt2 * GradJacobiPSingle(r, 0, 0, n)
	hess = 4 * math.Sqrt2 * Grad2JacobiPSingle(r, 0, 0, n)
	return
}
