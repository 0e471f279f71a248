package gonudg

import (
	"math"

	"gonum.org/v1/gonum/mat"
)

// Vandermonde2D builds the [len(R) × Np] Vandermonde matrix of the
// orthonormal simplex basis of order N at the points (R,S) of the reference
// triangle (-1,-1), (1,-1), (-1,1)
func Vandermonde2D(N int, R, S []float64) *mat.Dense {
	Np := (N + 1) * (N + 2) / 2
	V2D := mat.NewDense(len(R), Np, nil)

	sk := 0
	for i := 0; i <= N; i++ {
		for j := 0; j <= N-i; j++ {
			V2D.SetCol(sk, Simplex2DP(R, S, i, j))
			sk++
		}
	}
	return V2D
}

// Simplex2DP evaluates the 2D orthonormal polynomial of order (i,j) on the
// simplex at (R,S)
func Simplex2DP(R, S []float64, i, j int) []float64 {
	a, b := RStoAB(R, S)

	h1 := JacobiP(a, 0, 0, i)
	h2 := JacobiP(b, float64(2*i+1), 0, j)

	P := make([]float64, len(R))
	for n := range P {
		P[n] = math.Sqrt2 * h1[n] * h2[n] * pow(1-b[n], i)
	}
	return P
}

// RStoAB maps the triangle coordinates (r,s) to the collapsed square (a,b)
func RStoAB(R, S []float64) (a, b []float64) {
	a = make([]float64, len(R))
	b = make([]float64, len(R))
	for n := range R {
		if S[n] != 1 {
			a[n] = 2*(1+R[n])/(1-S[n]) - 1
		} else {
			a[n] = -1
		}
		b[n] = S[n]
	}
	return
}

func pow(x float64, n int) float64 {
	result := 1.0
	for i := 0; i < n; i++ {
		result *= x
	}
	return result
}
