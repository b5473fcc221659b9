package bytesize

var (
	binaryFactors  = [6]uint64{1 << 10, 1 << 20, 1 << 30, 1 << 40, 1 << 50, 1 << 60}
	decimalFactors = [6]uint64{1e3, 1e6, 1e9, 1e12, 1e15, 1e18}
)

type scaleMode int

const (
	scaleByte scaleMode = iota
	scaleFixed
	scaleExact    // largest factor dividing the magnitude exactly
	scaleShortest // largest factor not exceeding the magnitude
)

type scaleDirective struct {
	mode scaleMode
	idx  int // 1..6 for scaleFixed
}

// resolveScale picks the divisor for a magnitude. The returned index is
// 1..6 into the active factor list, 0 for plain bytes. Callers pass the
// absolute value of signed sizes so negatives scale like their positive
// counterparts. The binary and decimal lists are never mixed within one
// resolution.
func resolveScale(magnitude uint64, d scaleDirective, decimal bool) (uint64, int) {
	factors := &binaryFactors
	if decimal {
		factors = &decimalFactors
	}
	switch d.mode {
	case scaleByte:
		return 1, 0
	case scaleFixed:
		return factors[d.idx-1], d.idx
	}
	for i := 5; i >= 0; i-- {
		f := factors[i]
		if f > magnitude {
			continue
		}
		if d.mode == scaleExact && magnitude%f != 0 {
			continue
		}
		return f, i + 1
	}
	return 1, 0
}
