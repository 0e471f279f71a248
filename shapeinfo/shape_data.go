// Package shapeinfo precomputes the 1D shape function tables that
// sum-factorization kernels need for a tensor-product finite element and a
// 1D quadrature rule, and classifies the pair into the element type that
// selects the fastest evaluation path.
package shapeinfo

import (
	"fmt"
	"math"
	"strings"
	"unsafe"

	"github.com/notargets/MatrixFree/element"
	"github.com/notargets/MatrixFree/element/library/gonudg"
	"github.com/notargets/MatrixFree/quadrature"
	"github.com/notargets/MatrixFree/utils"
	"github.com/notargets/MatrixFree/vectorized"
)

// ShapeData holds the 1D shape tables of one element/quadrature pair. It is
// read-only after New returns and may be shared between goroutines.
//
// Dense tables are laid out i*NQuadPoints1D+q with the quadrature index
// running fastest, i in lexicographic order.
type ShapeData[T vectorized.Number] struct {
	ElementType ElementType

	ShapeValues    *vectorized.Array[T]
	ShapeGradients *vectorized.Array[T]
	ShapeHessians  *vectorized.Array[T]

	// Even-odd tables, nil unless ElementType.IsSymmetric()
	ShapeValuesEO    *EvenOddTable[T]
	ShapeGradientsEO *EvenOddTable[T]
	ShapeHessiansEO  *EvenOddTable[T]

	// Derivatives of the Lagrange basis through the quadrature points, at
	// the quadrature points. Nil unless the element is symmetric and the
	// quadrature mirrors about 0.5.
	GradientsCollocationEO *EvenOddTable[T]
	HessiansCollocationEO  *EvenOddTable[T]

	// FaceIndices[f] are the lexicographic DoFs on face f, nil for
	// truncated elements
	FaceIndices [][]int

	FaceValue    [2][]T // basis at x=0 and x=1
	FaceGradient [2][]T // derivative at x=0 and x=1
	SubfaceValue [2][]T // basis at the quadrature points of [0,0.5] and [0.5,1]

	ShapeValuesScalar    []T
	ShapeGradientsScalar []T

	// LexicographicNumbering[k] is the native index of the k-th DoF in
	// lexicographic order. For vector-valued elements every component of
	// the selected base is numbered in full before the next.
	LexicographicNumbering []int

	Dim             int
	Degree          int
	NQuadPoints1D   int
	NQuadPoints     int
	DofsPerCell     int
	NQuadPointsFace int
	DofsPerFace     int
	NDofs1D         int
}

// New evaluates base element baseElement of fe on quad. A scalar element is
// its own base element 0.
func New[T vectorized.Number](quad quadrature.Rule, fe element.FiniteElement, baseElement int) (*ShapeData[T], error) {
	if quad.Size() == 0 {
		return nil, ErrEmptyQuadrature
	}
	bases := element.Bases(fe)
	if baseElement < 0 || baseElement >= len(bases) {
		return nil, fmt.Errorf("%w: %d not in [0,%d) for %s",
			ErrBaseElementIndex, baseElement, len(bases), fe.Name())
	}
	base := bases[baseElement]
	tp, ok := base.(element.TensorProductElement)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotTensorProduct, base.Name())
	}
	if tp.NComponents() != 1 {
		return nil, fmt.Errorf("%w: %s has %d components", ErrNotScalar, tp.Name(), tp.NComponents())
	}

	sd := &ShapeData[T]{
		Dim:           int(tp.Dimensions()),
		DofsPerCell:   tp.DofsPerCell(),
		NQuadPoints1D: quad.Size(),
	}
	sd.NDofs1D = min(tp.Degree()+1, sd.DofsPerCell)
	sd.Degree = sd.NDofs1D - 1
	sd.NQuadPoints = gonudg.IntPow(sd.NQuadPoints1D, sd.Dim)
	sd.NQuadPointsFace = gonudg.IntPow(sd.NQuadPoints1D, sd.Dim-1)

	lexToNative := tp.LexicographicNumbering()
	if err := checkStructure(tp, lexToNative, sd.NDofs1D); err != nil {
		return nil, err
	}
	switch tp.Structure() {
	case element.TruncatedTensor:
		sd.ElementType = Truncated
		sd.DofsPerFace = binomial(sd.Degree+sd.Dim-1, sd.Dim-1)
	case element.TensorPlusConstant:
		sd.ElementType = SymmetricPlusConstant
		sd.DofsPerFace = gonudg.IntPow(sd.NDofs1D, sd.Dim-1)
	default:
		sd.ElementType = General
		sd.DofsPerFace = gonudg.IntPow(sd.NDofs1D, sd.Dim-1)
	}

	// the 1D functions are read off along the x-line through the support
	// point of the first lexicographic DoF, or through the origin
	basePoint, ok := tp.UnitSupportPoint(lexToNative[0])
	if !ok {
		basePoint = make([]float64, sd.Dim)
	}
	if v := tp.ShapeValue(lexToNative[0], basePoint); math.Abs(v-1) > 1e-13 {
		return nil, fmt.Errorf("%w: first lexicographic function of %s is %g at %v, expected 1",
			ErrCannotDecode1D, tp.Name(), v, basePoint)
	}

	n, nq := sd.NDofs1D, sd.NQuadPoints1D
	values := make([]float64, n*nq)
	gradients := make([]float64, n*nq)
	hessians := make([]float64, n*nq)
	p := append([]float64(nil), basePoint...)
	for i := 0; i < n; i++ {
		native := lexToNative[i]
		for q := 0; q < nq; q++ {
			p[0] = quad.Point(q)
			values[i*nq+q] = tp.ShapeValue(native, p)
			gradients[i*nq+q] = tp.ShapeGrad(native, p)[0]
			hessians[i*nq+q] = tp.ShapeHessian(native, p)[0][0]
		}
	}

	fd := buildFaceData(func(i int, p []float64) (float64, float64) {
		return tp.ShapeValue(lexToNative[i], p), tp.ShapeGrad(lexToNative[i], p)[0]
	}, basePoint, n, quad.Points())

	switch sd.ElementType {
	case General:
		if classifySymmetry(values, gradients, hessians, n, nq) {
			sd.ElementType = Symmetric
			if checkCollocation(values, n, nq) {
				sd.ElementType = Collocation
			} else if n > 3 && checkHermite(fd.value[0], fd.gradient[0]) {
				sd.ElementType = Hermite
			}
		}
	case SymmetricPlusConstant:
		if !classifySymmetry(values, gradients, hessians, n, nq) {
			// on a mirrored rule the basis itself is broken; otherwise the
			// tables are just not symmetric and the general path applies
			if quad.IsSymmetric(zeroTol) {
				return nil, fmt.Errorf("%w: %s declares a symmetric basis plus a constant but its 1D basis is not symmetric",
					ErrInconsistentElement, tp.Name())
			}
			sd.ElementType = General
		}
	}

	sd.ShapeValues = vectorized.FromScalars[T](values)
	sd.ShapeGradients = vectorized.FromScalars[T](gradients)
	sd.ShapeHessians = vectorized.FromScalars[T](hessians)
	sd.ShapeValuesScalar = convert[T](values)
	sd.ShapeGradientsScalar = convert[T](gradients)

	if sd.ElementType.IsSymmetric() {
		sd.ShapeValuesEO = EncodeEvenOdd[T](values, n, nq, EvenParity)
		sd.ShapeGradientsEO = EncodeEvenOdd[T](gradients, n, nq, OddParity)
		sd.ShapeHessiansEO = EncodeEvenOdd[T](hessians, n, nq, EvenParity)
		if quad.IsSymmetric(zeroTol) {
			colGrad, colHess, err := collocationDerivatives(quad.Points())
			if err != nil {
				return nil, fmt.Errorf("collocation basis on %s: %w", quad, err)
			}
			sd.GradientsCollocationEO = EncodeEvenOdd[T](colGrad, nq, nq, OddParity)
			sd.HessiansCollocationEO = EncodeEvenOdd[T](colHess, nq, nq, EvenParity)
		}
	}

	for side := 0; side < 2; side++ {
		sd.FaceValue[side] = convert[T](fd.value[side])
		sd.FaceGradient[side] = convert[T](fd.gradient[side])
		sd.SubfaceValue[side] = convert[T](fd.subface[side])
	}
	if sd.ElementType != Truncated {
		sd.FaceIndices = faceIndices(sd.Dim, n)
	}

	sd.LexicographicNumbering = lexicographicNumbering(fe, baseElement, lexToNative)
	return sd, nil
}

// checkStructure verifies the DoF count and numbering against the declared
// tensor structure
func checkStructure(tp element.TensorProductElement, lexToNative []int, n int) error {
	dim, dofs := int(tp.Dimensions()), tp.DofsPerCell()
	if len(lexToNative) != dofs {
		return fmt.Errorf("%w: %s numbers %d of %d DoFs lexicographically",
			ErrInconsistentElement, tp.Name(), len(lexToNative), dofs)
	}
	if err := utils.VerifyPermutation(lexToNative); err != nil {
		return fmt.Errorf("%w: %s lexicographic numbering: %v", ErrInconsistentElement, tp.Name(), err)
	}
	var want int
	switch tp.Structure() {
	case element.TruncatedTensor:
		want = binomial(n-1+dim, dim)
	case element.TensorPlusConstant:
		want = gonudg.IntPow(n, dim) + 1
	default:
		want = gonudg.IntPow(n, dim)
	}
	if dofs != want {
		return fmt.Errorf("%w: %s (%v) has %d DoFs, expected %d",
			ErrInconsistentElement, tp.Name(), tp.Structure(), dofs, want)
	}
	if tp.Structure() == element.TensorPlusConstant {
		// the last function must be constant
		constant := lexToNative[dofs-1]
		for _, x := range [][]float64{{0, 0, 0}, {1, 1, 1}, {0.3, 0.7, 0.1}} {
			if v := tp.ShapeValue(constant, x[:dim]); math.Abs(v-1) > 1e-12 {
				return fmt.Errorf("%w: last function of %s is %g at %v, expected constant 1",
					ErrInconsistentElement, tp.Name(), v, x[:dim])
			}
		}
	}
	return nil
}

// lexicographicNumbering returns the lexicographic-to-native map. For a
// composite element the copies of the selected base are numbered one after
// the other, mapped to system indices of the composite.
func lexicographicNumbering(fe element.FiniteElement, baseElement int, lexToNative []int) []int {
	comp, ok := fe.(element.Composite)
	if !ok {
		return lexToNative
	}
	componentsBefore := 0
	for b := 0; b < baseElement; b++ {
		componentsBefore += comp.Multiplicity(b)
	}
	n := len(lexToNative)
	nativeToLex := utils.InvertPermutation(lexToNative)
	lexnum := make([]int, n*comp.Multiplicity(baseElement))
	for c := 0; c < comp.Multiplicity(baseElement); c++ {
		for i := 0; i < n; i++ {
			lexnum[n*c+nativeToLex[i]] = comp.ComponentToSystemIndex(componentsBefore+c, i)
		}
	}
	return lexnum
}

// collocationDerivatives tabulates the first and second derivatives of the
// Lagrange basis through points at points, laid out i*n+q
func collocationDerivatives(points []float64) (grad, hess []float64, err error) {
	lb, err := gonudg.NewLagrange1D(points)
	if err != nil {
		return nil, nil, err
	}
	n := len(points)
	grad = make([]float64, n*n)
	hess = make([]float64, n*n)
	for i := 0; i < n; i++ {
		for q, x := range points {
			_, grad[i*n+q], hess[i*n+q] = lb.Eval(i, x)
		}
	}
	return grad, hess, nil
}

func convert[T vectorized.Number](vals []float64) []T {
	out := make([]T, len(vals))
	for i, v := range vals {
		out[i] = T(v)
	}
	return out
}

func binomial(n, k int) int {
	if k < 0 || k > n {
		return 0
	}
	r := 1
	for i := 1; i <= k; i++ {
		r = r * (n - k + i) / i
	}
	return r
}

// MemoryConsumption returns the bytes held by the tables
func (sd *ShapeData[T]) MemoryConsumption() int64 {
	var zero T
	tsize := int64(unsafe.Sizeof(zero))
	isize := int64(unsafe.Sizeof(int(0)))

	total := int64(unsafe.Sizeof(*sd))
	for _, a := range []*vectorized.Array[T]{sd.ShapeValues, sd.ShapeGradients, sd.ShapeHessians} {
		total += a.MemoryConsumption()
	}
	for _, eo := range []*EvenOddTable[T]{sd.ShapeValuesEO, sd.ShapeGradientsEO, sd.ShapeHessiansEO,
		sd.GradientsCollocationEO, sd.HessiansCollocationEO} {
		total += eo.MemoryConsumption()
	}
	for side := 0; side < 2; side++ {
		total += tsize * int64(len(sd.FaceValue[side])+len(sd.FaceGradient[side])+len(sd.SubfaceValue[side]))
	}
	total += tsize * int64(len(sd.ShapeValuesScalar)+len(sd.ShapeGradientsScalar))
	for _, row := range sd.FaceIndices {
		total += isize * int64(len(row))
	}
	total += isize * int64(len(sd.LexicographicNumbering))
	return total
}

// String returns a summary of the shape data
func (sd *ShapeData[T]) String() string {
	var sb strings.Builder
	var zero T

	sb.WriteString("=== ShapeData Summary ===\n")
	sb.WriteString(fmt.Sprintf("  Element type: %s\n", sd.ElementType))
	sb.WriteString(fmt.Sprintf("  Precision: %T\n", zero))
	sb.WriteString(fmt.Sprintf("  Dimensions: %d\n", sd.Dim))
	sb.WriteString(fmt.Sprintf("  Degree: %d (%d DoFs per direction)\n", sd.Degree, sd.NDofs1D))
	sb.WriteString(fmt.Sprintf("  DoFs per cell: %d, per face: %d\n", sd.DofsPerCell, sd.DofsPerFace))
	sb.WriteString(fmt.Sprintf("  Quadrature points: %d per direction, %d per cell, %d per face\n",
		sd.NQuadPoints1D, sd.NQuadPoints, sd.NQuadPointsFace))
	sb.WriteString(fmt.Sprintf("  SIMD: %s, %d lanes\n", vectorized.Target(), sd.ShapeValues.Lanes()))

	sb.WriteString("\n--- Tables ---\n")
	sb.WriteString(fmt.Sprintf("  Shape values/gradients/Hessians: %d×%d\n", sd.NDofs1D, sd.NQuadPoints1D))
	if sd.ShapeValuesEO != nil {
		sb.WriteString(fmt.Sprintf("  Even-odd: %d rows, stride %d\n",
			sd.ShapeValuesEO.Rows(), sd.ShapeValuesEO.Stride()))
	}
	if sd.GradientsCollocationEO != nil {
		sb.WriteString(fmt.Sprintf("  Collocation derivatives: %d×%d\n",
			sd.GradientsCollocationEO.Rows(), sd.GradientsCollocationEO.Cols()))
	}
	if sd.FaceIndices != nil {
		sb.WriteString(fmt.Sprintf("  Face indices: %d faces × %d\n", len(sd.FaceIndices), sd.DofsPerFace))
	}
	sb.WriteString(fmt.Sprintf("  Lexicographic numbering: %d entries\n", len(sd.LexicographicNumbering)))
	sb.WriteString(fmt.Sprintf("  Memory: %d bytes\n", sd.MemoryConsumption()))
	return sb.String()
}
