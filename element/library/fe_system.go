package library

import (
	"fmt"
	"strings"

	"github.com/notargets/MatrixFree/element"
)

// FESystem is a vector-valued element built from scalar base elements, each
// repeated Multiplicity(b) times. System DoFs are grouped by base element;
// within a base the copies are interleaved:
// system = offset(b) + index*Multiplicity(b) + copy.
type FESystem struct {
	bases   []element.FiniteElement
	mults   []int
	offsets []int
	ndofs   int
}

var _ element.Composite = (*FESystem)(nil)

// NewFESystem composes the given scalar bases with their multiplicities
func NewFESystem(bases []element.FiniteElement, multiplicities []int) (*FESystem, error) {
	if len(bases) == 0 {
		return nil, fmt.Errorf("FESystem needs at least one base element")
	}
	if len(bases) != len(multiplicities) {
		return nil, fmt.Errorf("FESystem has %d bases but %d multiplicities",
			len(bases), len(multiplicities))
	}
	sys := &FESystem{
		bases:   append([]element.FiniteElement(nil), bases...),
		mults:   append([]int(nil), multiplicities...),
		offsets: make([]int, len(bases)),
	}
	for b, base := range bases {
		switch {
		case base.NComponents() != 1:
			return nil, fmt.Errorf("FESystem base %d (%s) has %d components, need 1",
				b, base.Name(), base.NComponents())
		case base.Dimensions() != bases[0].Dimensions():
			return nil, fmt.Errorf("FESystem base %d has dimension %d, expected %d",
				b, base.Dimensions(), bases[0].Dimensions())
		case multiplicities[b] < 1:
			return nil, fmt.Errorf("FESystem multiplicity %d of base %d must be positive",
				multiplicities[b], b)
		}
		sys.offsets[b] = sys.ndofs
		sys.ndofs += base.DofsPerCell() * multiplicities[b]
	}
	return sys, nil
}

func (s *FESystem) Name() string {
	parts := make([]string, len(s.bases))
	for b, base := range s.bases {
		parts[b] = fmt.Sprintf("%s^%d", base.Name(), s.mults[b])
	}
	return fmt.Sprintf("FESystem[%s]", strings.Join(parts, "-"))
}

func (s *FESystem) Dimensions() element.Dimensionality { return s.bases[0].Dimensions() }

func (s *FESystem) Degree() int {
	deg := 0
	for _, base := range s.bases {
		deg = max(deg, base.Degree())
	}
	return deg
}

func (s *FESystem) DofsPerCell() int { return s.ndofs }

func (s *FESystem) NComponents() int {
	nc := 0
	for _, m := range s.mults {
		nc += m
	}
	return nc
}

func (s *FESystem) NBaseElements() int                      { return len(s.bases) }
func (s *FESystem) BaseElement(b int) element.FiniteElement { return s.bases[b] }
func (s *FESystem) Multiplicity(b int) int                  { return s.mults[b] }

func (s *FESystem) ComponentToSystemIndex(component, index int) int {
	for b, m := range s.mults {
		if component < m {
			return s.offsets[b] + index*m + component
		}
		component -= m
	}
	panic(fmt.Sprintf("component out of range for %s", s.Name()))
}

// ShapeValue evaluates the non-zero component of system DoF i
func (s *FESystem) ShapeValue(i int, p []float64) float64 {
	b, index := s.locate(i)
	return s.bases[b].ShapeValue(index, p)
}

func (s *FESystem) locate(i int) (base, index int) {
	for b := len(s.offsets) - 1; b >= 0; b-- {
		if i >= s.offsets[b] {
			return b, (i - s.offsets[b]) / s.mults[b]
		}
	}
	panic(fmt.Sprintf("dof %d out of range for %s", i, s.Name()))
}
