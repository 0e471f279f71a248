package runner

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/notargets/MatrixFree/builder"
	"github.com/notargets/MatrixFree/shapeinfo"
	"github.com/notargets/MatrixFree/vectorized"
	"github.com/notargets/gocca"
)

// Element is the set of host types that can be copied to device arrays
type Element interface {
	~float32 | ~float64 | ~int32 | ~int64
}

// ArrayMetadata stores information about allocated arrays
type ArrayMetadata struct {
	DataType builder.DataType
	Length   int
}

// Runner owns the device copies of shape tables and work arrays, and
// compiles kernels against the preamble of its builder
type Runner struct {
	*builder.Builder
	Device        *gocca.OCCADevice
	Kernels       map[string]*gocca.OCCAKernel
	PooledMemory  map[string]*gocca.OCCAMemory
	arrayMetadata map[string]ArrayMetadata
	arrays        []string
}

// NewRunner creates a new Runner instance
func NewRunner(device *gocca.OCCADevice, cfg builder.Config) *Runner {
	if device == nil {
		panic("device cannot be nil")
	}
	return &Runner{
		Builder:       builder.NewBuilder(cfg),
		Device:        device,
		Kernels:       make(map[string]*gocca.OCCAKernel),
		PooledMemory:  make(map[string]*gocca.OCCAMemory),
		arrayMetadata: make(map[string]ArrayMetadata),
	}
}

// Free releases all kernels and device memory
func (kr *Runner) Free() {
	for _, kernel := range kr.Kernels {
		kernel.Free()
	}
	for _, mem := range kr.PooledMemory {
		mem.Free()
	}
	kr.Kernels = make(map[string]*gocca.OCCAKernel)
	kr.PooledMemory = make(map[string]*gocca.OCCAMemory)
	kr.arrayMetadata = make(map[string]ArrayMetadata)
	kr.arrays = nil
}

// UploadShapeData copies the lane-0 tables of sd to device memory and, once
// every copy succeeded, embeds sd in the kernel preamble under name. Device
// arrays are named after the preamble symbols with a _d suffix, e.g.
// name_values_d, and the face tables are split per side
// (name_face_value_0_d). Empty even-odd parts are not allocated. On error
// nothing of sd is left on the device or in the preamble.
func UploadShapeData[T vectorized.Number](kr *Runner, name string, sd *shapeinfo.ShapeData[T]) error {
	if dt := getDataTypeFromSample(T(0)); dt != kr.FloatType {
		return fmt.Errorf("shape data %s holds %v but real_t is %v", name, dt, kr.FloatType)
	}

	type table struct {
		suffix string
		data   []T
	}
	tables := []table{
		{"values", sd.ShapeValues.Scalars()},
		{"gradients", sd.ShapeGradients.Scalars()},
		{"hessians", sd.ShapeHessians.Scalars()},
		{"face_value_0", sd.FaceValue[0]},
		{"face_value_1", sd.FaceValue[1]},
		{"face_gradient_0", sd.FaceGradient[0]},
		{"face_gradient_1", sd.FaceGradient[1]},
		{"subface_value_0", sd.SubfaceValue[0]},
		{"subface_value_1", sd.SubfaceValue[1]},
	}
	for _, eo := range []struct {
		suffix string
		tbl    *shapeinfo.EvenOddTable[T]
	}{
		{"values", sd.ShapeValuesEO},
		{"gradients", sd.ShapeGradientsEO},
		{"hessians", sd.ShapeHessiansEO},
	} {
		if eo.tbl == nil {
			continue
		}
		even, odd, middle := eo.tbl.Split()
		tables = append(tables,
			table{eo.suffix + "_even", even},
			table{eo.suffix + "_odd", odd},
			table{eo.suffix + "_middle", middle})
	}

	var allocated []string
	rollback := func(err error) error {
		for _, arr := range allocated {
			kr.freeArray(arr)
		}
		return err
	}
	for _, tbl := range tables {
		if len(tbl.data) == 0 {
			continue
		}
		arr := kr.Symbol(name + "_" + tbl.suffix + "_d")
		if err := AllocateArray(kr, arr, tbl.data); err != nil {
			return rollback(fmt.Errorf("failed to upload %s of %s: %w", tbl.suffix, name, err))
		}
		allocated = append(allocated, arr)
	}

	arr := kr.Symbol(name + "_lexicographic_d")
	var err error
	if kr.IntType == builder.INT32 {
		lex := make([]int32, len(sd.LexicographicNumbering))
		for i, v := range sd.LexicographicNumbering {
			lex[i] = int32(v)
		}
		err = AllocateArray(kr, arr, lex)
	} else {
		lex := make([]int64, len(sd.LexicographicNumbering))
		for i, v := range sd.LexicographicNumbering {
			lex[i] = int64(v)
		}
		err = AllocateArray(kr, arr, lex)
	}
	if err != nil {
		return rollback(fmt.Errorf("failed to upload lexicographic numbering of %s: %w", name, err))
	}

	builder.AddShapeData(kr.Builder, name, sd)
	return nil
}

// freeArray releases one allocated array and forgets it
func (kr *Runner) freeArray(name string) {
	if mem, ok := kr.PooledMemory[name]; ok {
		mem.Free()
	}
	delete(kr.PooledMemory, name)
	delete(kr.arrayMetadata, name)
	for i, arr := range kr.arrays {
		if arr == name {
			kr.arrays = append(kr.arrays[:i], kr.arrays[i+1:]...)
			break
		}
	}
}

// AllocateArray allocates device memory for data and copies it over
func AllocateArray[T Element](kr *Runner, name string, data []T) error {
	if len(data) == 0 {
		return fmt.Errorf("array %s is empty", name)
	}
	if _, exists := kr.PooledMemory[name]; exists {
		return fmt.Errorf("array %s already allocated", name)
	}
	var sample T
	bytes := int64(len(data)) * int64(unsafe.Sizeof(sample))
	mem := kr.Device.Malloc(bytes, unsafe.Pointer(&data[0]), nil)
	if mem == nil {
		return fmt.Errorf("device allocation of %d bytes for %s failed", bytes, name)
	}
	kr.PooledMemory[name] = mem
	kr.arrayMetadata[name] = ArrayMetadata{
		DataType: getDataTypeFromSample(sample),
		Length:   len(data),
	}
	kr.arrays = append(kr.arrays, name)
	return nil
}

// CopyArrayToHost copies array data from device to host
func CopyArrayToHost[T Element](kr *Runner, name string) ([]T, error) {
	metadata, exists := kr.arrayMetadata[name]
	if !exists {
		return nil, fmt.Errorf("array %s not found", name)
	}

	// Verify type matches
	var sample T
	requestedType := getDataTypeFromSample(sample)
	if requestedType != metadata.DataType {
		return nil, fmt.Errorf("type mismatch: array is %v, requested %v",
			metadata.DataType, requestedType)
	}

	result := make([]T, metadata.Length)
	kr.PooledMemory[name].CopyTo(unsafe.Pointer(&result[0]),
		int64(metadata.Length)*int64(unsafe.Sizeof(sample)))
	return result, nil
}

// GetMemory returns the device memory of an allocated array
func (kr *Runner) GetMemory(name string) *gocca.OCCAMemory {
	return kr.PooledMemory[name]
}

// GetArrayMetadata returns metadata of an allocated array
func (kr *Runner) GetArrayMetadata(name string) (ArrayMetadata, bool) {
	md, ok := kr.arrayMetadata[name]
	return md, ok
}

// GetAllocatedArrays returns the allocated array names in allocation order
func (kr *Runner) GetAllocatedArrays() []string {
	return append([]string(nil), kr.arrays...)
}

// BuildKernel compiles and registers a kernel with the preamble
func (kr *Runner) BuildKernel(kernelSource, kernelName string) (*gocca.OCCAKernel, error) {
	fullSource := kr.GeneratePreamble() + "\n" + kernelSource

	var kernel *gocca.OCCAKernel
	var err error

	if kr.Device.Mode() == "OpenMP" {
		// Workaround for OCCA bug: OpenMP doesn't get default -O3 flag
		props := gocca.JsonParse(`{"compiler_flags": "-O3"}`)
		defer props.Free()
		kernel, err = kr.Device.BuildKernelFromString(fullSource, kernelName, props)
	} else {
		kernel, err = kr.Device.BuildKernelFromString(fullSource, kernelName, nil)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to build kernel %s: %w", kernelName, err)
	}
	if kernel == nil {
		return nil, fmt.Errorf("kernel build returned nil for %s", kernelName)
	}
	if old, exists := kr.Kernels[kernelName]; exists {
		old.Free()
	}
	kr.Kernels[kernelName] = kernel
	return kernel, nil
}

// RunKernel executes a registered kernel. String arguments name allocated
// arrays; everything else is passed by value.
func (kr *Runner) RunKernel(kernelName string, args ...interface{}) error {
	kernel, exists := kr.Kernels[kernelName]
	if !exists {
		return fmt.Errorf("kernel %s not found", kernelName)
	}

	expanded := make([]interface{}, len(args))
	for i, arg := range args {
		name, ok := arg.(string)
		if !ok {
			expanded[i] = arg
			continue
		}
		mem, found := kr.PooledMemory[name]
		if !found {
			return fmt.Errorf("kernel %s argument %d: array %s not allocated", kernelName, i, name)
		}
		expanded[i] = mem
	}

	if err := kernel.RunWithArgs(expanded...); err != nil {
		return fmt.Errorf("kernel execution failed: %w", err)
	}
	kr.Device.Finish()
	return nil
}

// getDataTypeFromSample infers DataType from a sample value
func getDataTypeFromSample[T Element](sample T) builder.DataType {
	switch reflect.TypeOf(sample).Kind() {
	case reflect.Float32:
		return builder.Float32
	case reflect.Float64:
		return builder.Float64
	case reflect.Int32:
		return builder.INT32
	default:
		return builder.INT64
	}
}
