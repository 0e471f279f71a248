package builder

import (
	"fmt"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// DataType represents the precision of numerical data
type DataType int

const (
	Float32 DataType = iota + 1
	Float64
	INT32
	INT64
)

func (dt DataType) String() string {
	switch dt {
	case Float32:
		return "float32"
	case Float64:
		return "float64"
	case INT32:
		return "int32"
	case INT64:
		return "int64"
	default:
		return fmt.Sprintf("DataType(%d)", int(dt))
	}
}

// Builder collects static tables and macros and emits them as an OCCA
// kernel preamble
type Builder struct {
	// Type configuration
	FloatType DataType
	IntType   DataType

	// Prefix is prepended to every emitted symbol
	Prefix string

	// Static data to embed
	StaticMatrices map[string]mat.Matrix
	staticVectors  map[string][]float64
	staticIndices  map[string][][]int

	// emission order of static data and defines
	order   []string
	defines []define
	macros  []string

	// Generated code
	kernelPreamble string
}

type define struct {
	name  string
	value string
}

// Config holds configuration for creating a Builder
type Config struct {
	FloatType DataType
	IntType   DataType
	Prefix    string
}

// NewBuilder creates a new Builder instance
func NewBuilder(cfg Config) *Builder {
	// Set defaults
	floatType := cfg.FloatType
	if floatType == 0 {
		floatType = Float64
	}
	intType := cfg.IntType
	if intType == 0 {
		intType = INT64
	}

	return &Builder{
		FloatType:      floatType,
		IntType:        intType,
		Prefix:         cfg.Prefix,
		StaticMatrices: make(map[string]mat.Matrix),
		staticVectors:  make(map[string][]float64),
		staticIndices:  make(map[string][][]int),
	}
}

// AddStaticMatrix adds a matrix to be embedded as static const in kernels
func (kb *Builder) AddStaticMatrix(name string, m mat.Matrix) {
	name = kb.Prefix + name
	if _, ok := kb.StaticMatrices[name]; !ok {
		kb.order = append(kb.order, name)
	}
	kb.StaticMatrices[name] = m
	kb.kernelPreamble = ""
}

// AddStaticVector adds a 1D real array
func (kb *Builder) AddStaticVector(name string, v []float64) {
	name = kb.Prefix + name
	if _, ok := kb.staticVectors[name]; !ok {
		kb.order = append(kb.order, name)
	}
	kb.staticVectors[name] = append([]float64(nil), v...)
	kb.kernelPreamble = ""
}

// AddStaticIndices adds a rectangular integer table. A single row is
// emitted as a 1D array.
func (kb *Builder) AddStaticIndices(name string, rows [][]int) {
	name = kb.Prefix + name
	if _, ok := kb.staticIndices[name]; !ok {
		kb.order = append(kb.order, name)
	}
	kb.staticIndices[name] = rows
	kb.kernelPreamble = ""
}

// Define adds an integer constant
func (kb *Builder) Define(name string, value int) {
	kb.defines = append(kb.defines, define{kb.Prefix + name, fmt.Sprint(value)})
	kb.kernelPreamble = ""
}

// AddMacro appends a verbatim macro definition
func (kb *Builder) AddMacro(src string) {
	kb.macros = append(kb.macros, src)
	kb.kernelPreamble = ""
}

// Symbol returns the emitted name of a table or define
func (kb *Builder) Symbol(name string) string { return kb.Prefix + name }

// GeneratePreamble generates the kernel preamble with static data and utilities
func (kb *Builder) GeneratePreamble() string {
	if kb.kernelPreamble != "" {
		return kb.kernelPreamble
	}
	var sb strings.Builder

	// 1. Type definitions and constants
	sb.WriteString(kb.generateTypeDefinitions())

	// 2. Static data declarations
	sb.WriteString(kb.generateStaticData())

	// 3. Table operation macros
	for _, m := range kb.macros {
		sb.WriteString(m)
		sb.WriteString("\n")
	}

	kb.kernelPreamble = sb.String()
	return kb.kernelPreamble
}

// generateTypeDefinitions creates type definitions based on precision settings
func (kb *Builder) generateTypeDefinitions() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("typedef %s real_t;\n", kb.realTypeName()))
	sb.WriteString(fmt.Sprintf("typedef %s int_t;\n", kb.intTypeName()))
	sb.WriteString(fmt.Sprintf("#define REAL_ZERO 0.0%s\n", kb.floatSuffix()))
	sb.WriteString(fmt.Sprintf("#define REAL_ONE 1.0%s\n", kb.floatSuffix()))
	sb.WriteString("\n")

	// Constants
	if len(kb.defines) > 0 {
		for _, d := range kb.defines {
			sb.WriteString(fmt.Sprintf("#define %s %s\n", d.name, d.value))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// generateStaticData converts tables to static array initializations
func (kb *Builder) generateStaticData() string {
	var sb strings.Builder

	if len(kb.order) > 0 {
		sb.WriteString("// Static tables\n")
		for _, name := range kb.order {
			switch {
			case kb.StaticMatrices[name] != nil:
				sb.WriteString(kb.formatStaticMatrix(name, kb.StaticMatrices[name]))
			case kb.staticVectors[name] != nil:
				sb.WriteString(kb.formatStaticVector(name, kb.staticVectors[name]))
			case kb.staticIndices[name] != nil:
				sb.WriteString(kb.formatStaticIndices(name, kb.staticIndices[name]))
			}
		}
	}

	return sb.String()
}

// formatStaticMatrix formats a single matrix as a static C array
func (kb *Builder) formatStaticMatrix(name string, m mat.Matrix) string {
	rows, cols := m.Dims()
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("const %s %s[%d][%d] = {\n", kb.realTypeName(), name, rows, cols))

	for i := 0; i < rows; i++ {
		sb.WriteString("    {")
		for j := 0; j < cols; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(kb.formatReal(m.At(i, j)))
		}
		sb.WriteString("}")
		if i < rows-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("};\n\n")

	return sb.String()
}

func (kb *Builder) formatStaticVector(name string, v []float64) string {
	vals := make([]string, len(v))
	for i, x := range v {
		vals[i] = kb.formatReal(x)
	}
	return fmt.Sprintf("const %s %s[%d] = {%s};\n\n",
		kb.realTypeName(), name, len(v), strings.Join(vals, ", "))
}

func (kb *Builder) formatStaticIndices(name string, rows [][]int) string {
	row := func(r []int) string {
		vals := make([]string, len(r))
		for i, x := range r {
			vals[i] = fmt.Sprint(x)
		}
		return strings.Join(vals, ", ")
	}
	if len(rows) == 1 {
		return fmt.Sprintf("const %s %s[%d] = {%s};\n\n",
			kb.intTypeName(), name, len(rows[0]), row(rows[0]))
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("const %s %s[%d][%d] = {\n", kb.intTypeName(), name, len(rows), len(rows[0])))
	for i, r := range rows {
		sb.WriteString("    {" + row(r) + "}")
		if i < len(rows)-1 {
			sb.WriteString(",")
		}
		sb.WriteString("\n")
	}
	sb.WriteString("};\n\n")
	return sb.String()
}

func (kb *Builder) formatReal(val float64) string {
	if kb.FloatType == Float32 {
		return fmt.Sprintf("%.7ef", val)
	}
	return fmt.Sprintf("%.15e", val)
}

func (kb *Builder) realTypeName() string {
	if kb.FloatType == Float32 {
		return "float"
	}
	return "double"
}

func (kb *Builder) intTypeName() string {
	if kb.IntType == INT32 {
		return "int"
	}
	return "long"
}

func (kb *Builder) floatSuffix() string {
	if kb.FloatType == Float32 {
		return "f"
	}
	return ""
}

// GetIntSize returns the byte size of int_t
func (kb *Builder) GetIntSize() int {
	if kb.IntType == INT32 {
		return 4
	}
	return 8
}

// GetRealSize returns the byte size of real_t
func (kb *Builder) GetRealSize() int {
	if kb.FloatType == Float32 {
		return 4
	}
	return 8
}
