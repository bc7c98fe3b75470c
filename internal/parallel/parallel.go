// Package parallel holds the work-splitting helpers shared by the data-parallel
// phases.
package parallel

import "runtime"

// Workers returns n when positive, otherwise GOMAXPROCS.
func Workers(n int) int {
	if n > 0 {
		return n
	}
	return runtime.GOMAXPROCS(0)
}

// Range is the half-open interval [Lo, Hi).
type Range struct{ Lo, Hi int }

// Split divides [0, n) into at most parts contiguous ranges of near-equal size.
// It returns nil for n <= 0.
func Split(n, parts int) []Range {
	if n <= 0 {
		return nil
	}
	if parts <= 0 {
		parts = 1
	}
	if parts > n {
		parts = n
	}
	out := make([]Range, 0, parts)
	size, rem := n/parts, n%parts
	lo := 0
	for p := 0; p < parts; p++ {
		hi := lo + size
		if p < rem {
			hi++
		}
		out = append(out, Range{Lo: lo, Hi: hi})
		lo = hi
	}
	return out
}
