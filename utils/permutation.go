package utils

import "fmt"

// InvertPermutation returns inv with inv[p[i]] = i
func InvertPermutation(p []int) []int {
	inv := make([]int, len(p))
	for i := range inv {
		inv[i] = -1
	}
	for i, pi := range p {
		inv[pi] = i
	}
	return inv
}

// VerifyPermutation checks that p is a permutation of [0, len(p))
func VerifyPermutation(p []int) error {
	seen := make([]bool, len(p))
	for i, pi := range p {
		if pi < 0 || pi >= len(p) {
			return fmt.Errorf("entry %d = %d out of range [0,%d)", i, pi, len(p))
		}
		if seen[pi] {
			return fmt.Errorf("entry %d = %d appears twice", i, pi)
		}
		seen[pi] = true
	}
	return nil
}
