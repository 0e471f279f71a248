// Package vectorized stores scalar tables with every entry broadcast across
// the SIMD lanes of the running target, so sum-factorization kernels can
// load an entry as a full vector without a shuffle.
package vectorized

import (
	"fmt"
	"unsafe"

	"github.com/ajroetker/go-highway/hwy"
)

// Number is the set of element types shape data can be stored in
type Number interface {
	~float32 | ~float64
}

// Lanes returns the SIMD lane count for T on the running target, at least 1
func Lanes[T Number]() int {
	return max(1, hwy.MaxLanes[T]())
}

// Target names the SIMD instruction set the lane count is derived from
func Target() string {
	if name := hwy.CurrentName(); name != "" {
		return name
	}
	return "scalar"
}

// Array is a fixed-length table of lane-replicated entries. Entry i occupies
// data[i*lanes : (i+1)*lanes] and all of its lanes hold the same value.
type Array[T Number] struct {
	lanes int
	data  []T
}

// New returns a zero array of n entries
func New[T Number](n int) *Array[T] {
	lanes := Lanes[T]()
	return &Array[T]{
		lanes: lanes,
		data:  make([]T, n*lanes),
	}
}

// FromScalars broadcasts every value of vals into its own entry
func FromScalars[T Number](vals []float64) *Array[T] {
	a := New[T](len(vals))
	for i, v := range vals {
		a.Set(i, T(v))
	}
	return a
}

// Len returns the number of entries
func (a *Array[T]) Len() int {
	if a == nil {
		return 0
	}
	return len(a.data) / a.lanes
}

// Lanes returns the number of lanes per entry
func (a *Array[T]) Lanes() int { return a.lanes }

// Set broadcasts v into entry i
func (a *Array[T]) Set(i int, v T) {
	dst := a.entry(i)
	vec := hwy.Set(v)
	hwy.Store(vec, dst)
	for k := vec.NumLanes(); k < len(dst); k++ {
		dst[k] = v
	}
}

// At returns lane 0 of entry i
func (a *Array[T]) At(i int) T { return a.data[i*a.lanes] }

// Lane returns lane l of entry i
func (a *Array[T]) Lane(i, l int) T { return a.data[i*a.lanes+l] }

// Vec loads entry i as a SIMD vector
func (a *Array[T]) Vec(i int) hwy.Vec[T] {
	return hwy.Load(a.entry(i))
}

// Scalars returns lane 0 of every entry
func (a *Array[T]) Scalars() []T {
	out := make([]T, a.Len())
	for i := range out {
		out[i] = a.At(i)
	}
	return out
}

// MemoryConsumption returns the bytes held by the array
func (a *Array[T]) MemoryConsumption() int64 {
	if a == nil {
		return 0
	}
	var zero T
	return int64(unsafe.Sizeof(*a)) + int64(len(a.data))*int64(unsafe.Sizeof(zero))
}

func (a *Array[T]) entry(i int) []T {
	if i < 0 || i >= a.Len() {
		panic(fmt.Sprintf("vectorized entry %d out of range [0,%d)", i, a.Len()))
	}
	return a.data[i*a.lanes : (i+1)*a.lanes]
}
