package shapeinfo

import "errors"

// Configuration errors returned by New. They are wrapped with context, test
// with errors.Is.
var (
	ErrBaseElementIndex    = errors.New("base element index out of range")
	ErrNotTensorProduct    = errors.New("base element is not a tensor product element")
	ErrNotScalar           = errors.New("base element is not scalar")
	ErrEmptyQuadrature     = errors.New("quadrature has no points")
	ErrCannotDecode1D      = errors.New("cannot extract 1D shape functions")
	ErrInconsistentElement = errors.New("element data inconsistent with its declared structure")
)
