package element

// ElementProperties contains metadata describing an element
type ElementProperties struct {
	Name        string         // Full descriptive name (e.g., "FE_Q(3)")
	Dimensions  Dimensionality // Spatial dimension
	Degree      int            // Polynomial degree
	Np          int            // Number of DoFs per cell
	NComponents int            // Number of vector components
	NBases      int            // Number of distinct base elements
	IsTensor    bool           // Every base element is a tensor product
}

// GetProperties collects the metadata of a finite element
func GetProperties(fe FiniteElement) ElementProperties {
	props := ElementProperties{
		Name:        fe.Name(),
		Dimensions:  fe.Dimensions(),
		Degree:      fe.Degree(),
		Np:          fe.DofsPerCell(),
		NComponents: fe.NComponents(),
		NBases:      1,
		IsTensor:    true,
	}
	for _, base := range Bases(fe) {
		if _, ok := base.(TensorProductElement); !ok {
			props.IsTensor = false
		}
	}
	props.NBases = len(Bases(fe))
	return props
}

// Bases returns the base elements of fe; a non-composite element is its
// own single base
func Bases(fe FiniteElement) []FiniteElement {
	comp, ok := fe.(Composite)
	if !ok {
		return []FiniteElement{fe}
	}
	bases := make([]FiniteElement, comp.NBaseElements())
	for b := range bases {
		bases[b] = comp.BaseElement(b)
	}
	return bases
}
