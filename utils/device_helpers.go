package utils

import (
	"fmt"
	"strings"

	"github.com/notargets/gocca"
)

var deviceProps = map[string]string{
	"serial": `{"mode": "Serial"}`,
	"openmp": `{"mode": "OpenMP"}`,
	"cuda":   `{"mode": "CUDA", "device_id": 0}`,
}

// NewDevice opens the OCCA backend named mode (serial, openmp or cuda)
func NewDevice(mode string) (*gocca.OCCADevice, error) {
	props, ok := deviceProps[strings.ToLower(mode)]
	if !ok {
		return nil, fmt.Errorf("unknown device mode %q", mode)
	}
	device, err := gocca.NewDevice(props)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s device: %w", mode, err)
	}
	return device, nil
}

// CreateTestDevice creates a Device for testing, preferring parallel backends
func CreateTestDevice() *gocca.OCCADevice {
	// OpenMP, then CUDA, then fall back to Serial
	for _, mode := range []string{"openmp", "cuda", "serial"} {
		device, err := NewDevice(mode)
		if err == nil {
			fmt.Printf("Created %s Device\n", device.Mode())
			return device
		}
	}

	// Should not reach here
	panic("Failed to create any Device")
}
