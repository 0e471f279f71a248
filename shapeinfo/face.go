package shapeinfo

import (
	"github.com/notargets/MatrixFree/element/library/gonudg"
)

// faceData holds the 1D basis traces on the end points x = 0 and x = 1 and
// on the quadrature points mapped into the two halves [0,0.5] and [0.5,1]
type faceData struct {
	value    [2][]float64 // [side][i]
	gradient [2][]float64 // [side][i]
	subface  [2][]float64 // [half][i*nq+q]
}

// buildFaceData evaluates the 1D basis along the line through base. eval
// returns value and x-derivative of the i-th lexicographic function at p.
func buildFaceData(eval func(i int, p []float64) (float64, float64),
	base []float64, nDofs1D int, points []float64) faceData {
	nq := len(points)
	var fd faceData
	p := append([]float64(nil), base...)
	for side := 0; side < 2; side++ {
		fd.value[side] = make([]float64, nDofs1D)
		fd.gradient[side] = make([]float64, nDofs1D)
		fd.subface[side] = make([]float64, nDofs1D*nq)
	}
	for i := 0; i < nDofs1D; i++ {
		for side := 0; side < 2; side++ {
			p[0] = float64(side)
			fd.value[side][i], fd.gradient[side][i] = eval(i, p)
		}
		for q, x := range points {
			p[0] = 0.5 * x
			fd.subface[0][i*nq+q], _ = eval(i, p)
			p[0] = 0.5 + 0.5*x
			fd.subface[1][i*nq+q], _ = eval(i, p)
		}
	}
	return fd
}

// faceIndices lists, for each of the 2*dim faces, the lexicographic cell DoFs
// that lie on it. Face f has normal direction f/2 and sits at the low (f
// even) or high end of that direction. Indices are in increasing order.
func faceIndices(dim, n int) [][]int {
	total := gonudg.IntPow(n, dim)
	faces := make([][]int, 2*dim)
	for f := range faces {
		d, side := f/2, f%2
		target := 0
		if side == 1 {
			target = n - 1
		}
		faces[f] = make([]int, 0, total/n)
		for lex := 0; lex < total; lex++ {
			if gonudg.TensorIndex(lex, n, dim)[d] == target {
				faces[f] = append(faces[f], lex)
			}
		}
	}
	return faces
}
