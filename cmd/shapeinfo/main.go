// Command shapeinfo tabulates the 1D shape data of a finite element on a
// quadrature rule and prints its classification, tables or kernel preamble.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/notargets/MatrixFree/builder"
	"github.com/notargets/MatrixFree/element"
	"github.com/notargets/MatrixFree/element/library"
	"github.com/notargets/MatrixFree/quadrature"
	"github.com/notargets/MatrixFree/runner"
	"github.com/notargets/MatrixFree/shapeinfo"
	"github.com/notargets/MatrixFree/utils"
	"github.com/notargets/MatrixFree/vectorized"
	"github.com/spf13/cobra"
)

type options struct {
	element    string
	dim        int
	degree     int
	quadrature string
	points     int
	components int
	precision  string
	preamble   bool
	tables     bool
	device     string
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "shapeinfo",
		Short: "Tabulate matrix-free shape data for a tensor product element",
		Long: `shapeinfo evaluates a finite element along one coordinate line at the
points of a 1D quadrature rule, classifies the resulting tables and reports
them. Elements: q, q-gl, dgq, hermite, dgp, q-dg0.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(opts, cmd.OutOrStdout())
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.element, "element", "e", "q", "element family")
	f.IntVarP(&opts.dim, "dim", "d", 2, "space dimension (1-3)")
	f.IntVarP(&opts.degree, "degree", "p", 2, "polynomial degree")
	f.StringVarP(&opts.quadrature, "quadrature", "q", "gauss", "1D rule: gauss or lobatto")
	f.IntVarP(&opts.points, "points", "n", 0, "number of 1D quadrature points (default degree+1)")
	f.IntVarP(&opts.components, "components", "c", 1, "wrap the element in a system with this many copies")
	f.StringVar(&opts.precision, "precision", "float64", "float32 or float64")
	f.BoolVar(&opts.preamble, "preamble", false, "print the generated kernel preamble")
	f.BoolVar(&opts.tables, "tables", false, "print the 1D value, gradient and hessian tables")
	f.StringVar(&opts.device, "device", "", "upload the tables to an OCCA device (serial, openmp, cuda)")
	return cmd
}

func run(opts *options, w io.Writer) error {
	fe, err := makeElement(opts)
	if err != nil {
		return err
	}
	quad, err := makeRule(opts)
	if err != nil {
		return err
	}
	switch opts.precision {
	case "float64":
		return report[float64](w, opts, quad, fe)
	case "float32":
		return report[float32](w, opts, quad, fe)
	default:
		return fmt.Errorf("unknown precision %q", opts.precision)
	}
}

func makeElement(opts *options) (element.FiniteElement, error) {
	var (
		fe  element.TensorProductElement
		err error
	)
	switch opts.element {
	case "q":
		fe, err = library.NewFEQ(opts.dim, opts.degree)
	case "q-gl":
		fe, err = library.NewFEQGaussLobatto(opts.dim, opts.degree)
	case "dgq":
		var rule quadrature.Rule
		if rule, err = quadrature.Gauss(opts.degree + 1); err == nil {
			fe, err = library.NewFEDGQ(opts.dim, rule.Points())
		}
	case "hermite":
		fe, err = library.NewFEQHermite(opts.dim, opts.degree)
	case "dgp":
		fe, err = library.NewFEDGP(opts.dim, opts.degree)
	case "q-dg0":
		fe, err = library.NewFEQDG0(opts.dim, opts.degree)
	default:
		return nil, fmt.Errorf("unknown element %q", opts.element)
	}
	if err != nil {
		return nil, err
	}
	if opts.components <= 1 {
		return fe, nil
	}
	sys, err := library.NewFESystem([]element.FiniteElement{fe}, []int{opts.components})
	if err != nil {
		return nil, err
	}
	return sys, nil
}

func makeRule(opts *options) (quadrature.Rule, error) {
	n := opts.points
	if n <= 0 {
		n = opts.degree + 1
	}
	switch opts.quadrature {
	case "gauss":
		return quadrature.Gauss(n)
	case "lobatto":
		return quadrature.GaussLobatto(n)
	default:
		return quadrature.Rule{}, fmt.Errorf("unknown quadrature %q", opts.quadrature)
	}
}

func report[T vectorized.Number](w io.Writer, opts *options, quad quadrature.Rule, fe element.FiniteElement) error {
	sd, err := shapeinfo.New[T](quad, fe, 0)
	if err != nil {
		return fmt.Errorf("%s on %s: %w", fe.Name(), quad, err)
	}
	props := element.GetProperties(fe)
	fmt.Fprintf(w, "%s: %d DoFs, %d components, %d base elements\n",
		props.Name, props.Np, props.NComponents, props.NBases)
	fmt.Fprint(w, sd.String())

	if opts.tables {
		for _, tbl := range []struct {
			title string
			data  []T
		}{
			{"values", sd.ShapeValues.Scalars()},
			{"gradients", sd.ShapeGradients.Scalars()},
			{"hessians", sd.ShapeHessians.Scalars()},
		} {
			fmt.Fprintln(w)
			writeTable(w, tbl.title, tbl.data, sd.NDofs1D, sd.NQuadPoints1D)
		}
	}

	cfg := builder.Config{}
	if opts.precision == "float32" {
		cfg.FloatType = builder.Float32
	}

	if opts.device != "" {
		if err := upload(w, opts.device, cfg, sd); err != nil {
			return err
		}
	}

	if opts.preamble {
		kb := builder.NewBuilder(cfg)
		builder.AddShapeData(kb, "SHAPE", sd)
		fmt.Fprintln(w)
		fmt.Fprint(w, kb.GeneratePreamble())
	}
	return nil
}

// upload copies the tables of sd to a device and reads the value table
// back as a check
func upload[T vectorized.Number](w io.Writer, mode string, cfg builder.Config, sd *shapeinfo.ShapeData[T]) error {
	device, err := utils.NewDevice(mode)
	if err != nil {
		return err
	}
	defer device.Free()

	kr := runner.NewRunner(device, cfg)
	defer kr.Free()
	if err = runner.UploadShapeData(kr, "SHAPE", sd); err != nil {
		return err
	}
	back, err := runner.CopyArrayToHost[T](kr, "SHAPE_values_d")
	if err != nil {
		return err
	}
	for i, v := range sd.ShapeValues.Scalars() {
		if back[i] != v {
			return fmt.Errorf("device copy of value table differs at %d: %v != %v", i, back[i], v)
		}
	}
	fmt.Fprintf(w, "\nUploaded %d arrays to %s device\n", len(kr.GetAllocatedArrays()), device.Mode())
	return nil
}

// writeTable prints an n x nq table laid out i*nq+q, one row per function
func writeTable[T vectorized.Number](w io.Writer, title string, data []T, n, nq int) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetTitle(title)
	header := table.Row{"i \\ q"}
	for q := 0; q < nq; q++ {
		header = append(header, q)
	}
	tw.AppendHeader(header)
	for i := 0; i < n; i++ {
		row := table.Row{i}
		for q := 0; q < nq; q++ {
			row = append(row, strconv.FormatFloat(float64(data[i*nq+q]), 'e', 6, 64))
		}
		tw.AppendRow(row)
	}
	tw.SetStyle(table.StyleLight)
	tw.Render()
}
