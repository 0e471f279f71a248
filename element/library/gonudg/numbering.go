package gonudg

// HierarchicToLexicographic returns h2l for the continuous tensor-product
// Lagrange element of the given degree in dim dimensions: h2l[h] is the
// lexicographic position (x fastest) of the DoF with hierarchic index h.
// Hierarchic order is vertices, then lines, then quads, then the interior.
func HierarchicToLexicographic(dim, degree int) []int {
	n := degree + 1
	nl := degree - 1 // dofs per line
	if degree == 0 {
		switch dim {
		case 1, 2, 3:
			return []int{0}
		}
	}

	var h2l []int
	add := func(idx int) { h2l = append(h2l, idx) }

	switch dim {
	case 1:
		add(0)
		add(degree)
		for i := 0; i < nl; i++ {
			add(i + 1)
		}

	case 2:
		// vertices
		add(0)
		add(n - 1)
		add(n * (n - 1))
		add(n*n - 1)
		// lines x=0, x=1, y=0, y=1
		for i := 0; i < nl; i++ {
			add((1 + i) * n)
		}
		for i := 0; i < nl; i++ {
			add((2+i)*n - 1)
		}
		for i := 0; i < nl; i++ {
			add(1 + i)
		}
		for i := 0; i < nl; i++ {
			add(n*(n-1) + i + 1)
		}
		// quad interior
		for i := 0; i < nl; i++ {
			for j := 0; j < nl; j++ {
				add(n*(i+1) + j + 1)
			}
		}

	case 3:
		n2 := n * n
		// vertices
		add(0)
		add(degree)
		add(n * degree)
		add((n + 1) * degree)
		add(n2 * degree)
		add((n2 + 1) * degree)
		add((n2 + n) * degree)
		add((n2 + n + 1) * degree)

		// twelve lines: bottom face (z=0), top face (z=1), then vertical
		lines := []func(i int) int{
			func(i int) int { return (i + 1) * n },
			func(i int) int { return n - 1 + (i+1)*n },
			func(i int) int { return 1 + i },
			func(i int) int { return 1 + i + n*(n-1) },
			func(i int) int { return (n-1)*n2 + (i+1)*n },
			func(i int) int { return (n-1)*(n2+1) + (i+1)*n },
			func(i int) int { return n2*(n-1) + i + 1 },
			func(i int) int { return n2*(n-1) + i + 1 + n*(n-1) },
			func(i int) int { return (i + 1) * n2 },
			func(i int) int { return n - 1 + (i+1)*n2 },
			func(i int) int { return (i+1)*n2 + n*(n-1) },
			func(i int) int { return n - 1 + (i+1)*n2 + n*(n-1) },
		}
		for _, line := range lines {
			for i := 0; i < nl; i++ {
				add(line(i))
			}
		}

		// six quads, faces 2 and 3 run with swapped orientation
		quads := []func(i, j int) int{
			func(i, j int) int { return (i+1)*n2 + n*(j+1) },
			func(i, j int) int { return (i+1)*n2 + n - 1 + n*(j+1) },
			func(i, j int) int { return (j+1)*n2 + i + 1 },
			func(i, j int) int { return (j+1)*n2 + n*(n-1) + i + 1 },
			func(i, j int) int { return n*(i+1) + j + 1 },
			func(i, j int) int { return (n-1)*n2 + n*(i+1) + j + 1 },
		}
		for _, quad := range quads {
			for i := 0; i < nl; i++ {
				for j := 0; j < nl; j++ {
					add(quad(i, j))
				}
			}
		}

		// hex interior
		for i := 0; i < nl; i++ {
			for j := 0; j < nl; j++ {
				for k := 0; k < nl; k++ {
					add(n2*(i+1) + n*(j+1) + k + 1)
				}
			}
		}

	default:
		panic("hierarchic numbering is only defined for dim 1, 2 and 3")
	}
	return h2l
}

// TensorIndex splits a lexicographic index into its per-direction indices,
// x first
func TensorIndex(lex, n, dim int) []int {
	idx := make([]int, dim)
	for d := 0; d < dim; d++ {
		idx[d] = lex % n
		lex /= n
	}
	return idx
}

// IntPow returns base^exp for small non-negative exponents
func IntPow(base, exp int) int {
	r := 1
	for i := 0; i < exp; i++ {
		r *= base
	}
	return r
}
