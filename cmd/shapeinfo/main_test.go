package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSummary(t *testing.T) {
	out, err := execute(t, "--element", "q", "--dim", "3", "--degree", "3")
	require.NoError(t, err)
	assert.Contains(t, out, "Element type: symmetric")
	assert.Contains(t, out, "Degree: 3 (4 DoFs per direction)")
	assert.Contains(t, out, "DoFs per cell: 64, per face: 16")
}

func TestCollocationOnLobatto(t *testing.T) {
	out, err := execute(t, "-e", "q-gl", "-d", "2", "-p", "4", "-q", "lobatto")
	require.NoError(t, err)
	assert.Contains(t, out, "Element type: collocation")
	assert.Contains(t, out, "Collocation derivatives: 5×5")
}

func TestTruncatedSystemFloat32(t *testing.T) {
	out, err := execute(t, "-e", "dgp", "-d", "2", "-p", "2", "-c", "2", "--precision", "float32")
	require.NoError(t, err)
	assert.Contains(t, out, "FESystem[FE_DGP<2>(2)^2]: 12 DoFs, 2 components, 1 base elements")
	assert.Contains(t, out, "Element type: truncated")
	assert.Contains(t, out, "Precision: float32")
	assert.Contains(t, out, "Lexicographic numbering: 12 entries")
}

func TestTablesAndPreamble(t *testing.T) {
	out, err := execute(t, "-e", "q", "-d", "1", "-p", "1", "-n", "2", "--tables", "--preamble")
	require.NoError(t, err)
	assert.Contains(t, out, "values")
	assert.Contains(t, out, "hessians")
	assert.Contains(t, out, "#define SHAPE_N_DOFS_1D 2")
	assert.Contains(t, out, "#define SHAPE_INTERPOLATE_1D_EO(IN, OUT)")
}

func TestInvalidOptions(t *testing.T) {
	for _, args := range [][]string{
		{"-e", "nedelec"},
		{"-q", "newton-cotes"},
		{"--precision", "float16"},
		{"-d", "4"},
		{"-e", "hermite", "-p", "2"},
	} {
		_, err := execute(t, args...)
		assert.Error(t, err, "%v", args)
	}
}

func TestUploadToSerialDevice(t *testing.T) {
	out, err := execute(t, "-e", "q", "-d", "2", "-p", "3", "--device", "serial")
	require.NoError(t, err)
	// nine dense and face tables, even and odd parts of three tables, and
	// the numbering
	assert.Contains(t, out, "Uploaded 16 arrays to Serial device")

	_, err = execute(t, "--device", "tpu")
	assert.Error(t, err)
}
