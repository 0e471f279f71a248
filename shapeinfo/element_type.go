package shapeinfo

import "fmt"

// ElementType is the algorithmic category of an element/quadrature pair.
// Evaluation kernels select their code path by switching on it.
type ElementType uint8

const (
	// Collocation: nodes coincide with the quadrature points, the value
	// matrix is the identity
	Collocation ElementType = 0
	// Hermite: symmetric, and at each end point only the first basis
	// function has a value and only the first two have a derivative
	Hermite ElementType = 1
	// Symmetric: values and quadrature mirror about x = 0.5
	Symmetric ElementType = 2
	// General tensor product without further structure
	General ElementType = 3
	// Truncated: polynomials of complete degree, a masked tensor product
	Truncated ElementType = 4
	// SymmetricPlusConstant: symmetric tensor product plus one constant
	// function
	SymmetricPlusConstant ElementType = 5
)

func (et ElementType) String() string {
	switch et {
	case Collocation:
		return "collocation"
	case Hermite:
		return "hermite"
	case Symmetric:
		return "symmetric"
	case General:
		return "general"
	case Truncated:
		return "truncated"
	case SymmetricPlusConstant:
		return "symmetric_plus_constant"
	default:
		return fmt.Sprintf("ElementType(%d)", uint8(et))
	}
}

// IsSymmetric reports whether the 1D tables carry the mirror symmetry the
// even-odd tables exploit
func (et ElementType) IsSymmetric() bool {
	switch et {
	case Collocation, Hermite, Symmetric, SymmetricPlusConstant:
		return true
	}
	return false
}
