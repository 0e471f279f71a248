package shapeinfo

import "math"

const zeroTol = 1e-12

// tolerance scales zeroTol by the largest magnitude in the table
func tolerance(table []float64) float64 {
	m := 1.
	for _, x := range table {
		m = math.Max(m, math.Abs(x))
	}
	return zeroTol * m
}

// classifySymmetry reports whether the 1D tables, laid out i*nq+q, mirror
// about x = 0.5: values and Hessians even, gradients odd. When both nDofs1D
// and nq are odd the middle function must be 1 and all others 0 at the
// middle point.
func classifySymmetry(values, gradients, hessians []float64, nDofs1D, nq int) bool {
	tolV, tolG, tolH := tolerance(values), tolerance(gradients), tolerance(hessians)
	for i := 0; i < (nDofs1D+1)/2; i++ {
		for q := 0; q < nq; q++ {
			a := i*nq + q
			b := (nDofs1D-1-i)*nq + nq - 1 - q
			if math.Abs(values[a]-values[b]) > tolV ||
				math.Abs(gradients[a]+gradients[b]) > tolG ||
				math.Abs(hessians[a]-hessians[b]) > tolH {
				return false
			}
		}
	}
	if nDofs1D%2 == 1 && nq%2 == 1 {
		mid := nq / 2
		for i := 0; i < nDofs1D; i++ {
			want := 0.
			if i == nDofs1D/2 {
				want = 1
			}
			if math.Abs(values[i*nq+mid]-want) > tolV {
				return false
			}
		}
	}
	return true
}

// checkCollocation reports whether the value table is the identity, i.e.
// the nodes sit in the quadrature points
func checkCollocation(values []float64, nDofs1D, nq int) bool {
	if nDofs1D != nq {
		return false
	}
	tol := tolerance(values)
	for i := 0; i < nDofs1D; i++ {
		for q := 0; q < nq; q++ {
			want := 0.
			if i == q {
				want = 1
			}
			if math.Abs(values[i*nq+q]-want) > tol {
				return false
			}
		}
	}
	return true
}

// checkHermite reports whether at x = 0 only function 0 has a value and only
// functions 0 and 1 have a derivative
func checkHermite(faceValue0, faceGradient0 []float64) bool {
	tolV, tolG := tolerance(faceValue0), tolerance(faceGradient0)
	for i := 1; i < len(faceValue0); i++ {
		if math.Abs(faceValue0[i]) > tolV {
			return false
		}
	}
	for i := 2; i < len(faceGradient0); i++ {
		if math.Abs(faceGradient0[i]) > tolG {
			return false
		}
	}
	return true
}
