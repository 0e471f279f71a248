package element

// Dimensionality represents the spatial dimension of an element
type Dimensionality uint8

const (
	D0 Dimensionality = iota // 0D elements (points)
	D1                       // 1D elements (lines)
	D2                       // 2D elements (quadrilaterals, triangles)
	D3                       // 3D elements (hexahedra)
)

// TensorStructure describes how the polynomial space of a tensor-product
// element relates to the full tensor product of its 1D basis
type TensorStructure uint8

const (
	// FullTensor spans the complete tensor product of a 1D basis
	FullTensor TensorStructure = iota
	// TruncatedTensor spans polynomials of complete degree, a masked
	// tensor product
	TruncatedTensor
	// TensorPlusConstant is a full tensor product augmented with a single
	// constant shape function numbered last
	TensorPlusConstant
)

func (ts TensorStructure) String() string {
	switch ts {
	case FullTensor:
		return "full tensor"
	case TruncatedTensor:
		return "truncated tensor"
	case TensorPlusConstant:
		return "tensor plus constant"
	default:
		return "unknown"
	}
}

// FiniteElement is a finite element on the reference cell [0,1]^dim.
// Points are given as slices of length Dimensions().
type FiniteElement interface {
	Name() string
	Dimensions() Dimensionality
	Degree() int
	DofsPerCell() int
	NComponents() int

	// ShapeValue evaluates the i-th shape function in the element's native
	// numbering at p
	ShapeValue(i int, p []float64) float64
}

// Composite is implemented by elements composed of scalar base elements,
// e.g. vector-valued systems
type Composite interface {
	FiniteElement
	NBaseElements() int
	BaseElement(b int) FiniteElement
	Multiplicity(b int) int // number of copies of base element b

	// ComponentToSystemIndex maps DoF index of a vector component's base
	// element to the element's native numbering
	ComponentToSystemIndex(component, index int) int
}

// TensorProductElement is a scalar element built as a (possibly truncated
// or augmented) tensor product of a 1D basis
type TensorProductElement interface {
	FiniteElement
	Structure() TensorStructure

	// LexicographicNumbering returns lexToNative: entry k is the native
	// index of the k-th DoF in lexicographic order, x running fastest
	LexicographicNumbering() []int

	// UnitSupportPoint returns the support point of the native DoF i, or
	// false for elements without support points
	UnitSupportPoint(i int) ([]float64, bool)

	ShapeGrad(i int, p []float64) []float64
	ShapeHessian(i int, p []float64) [][]float64
}
