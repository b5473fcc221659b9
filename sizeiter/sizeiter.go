// Package sizeiter provides folds over size sequences. The helpers impose
// no synchronization of their own; they inherit whatever model the source
// iterator provides.
package sizeiter

import (
	"iter"

	"github.com/BooleanCat/go-functional/v2/it"

	bytesize "github.com/authenticvision/bytesize-go"
)

// Sum adds up all sizes in the sequence. Overflow wraps like native int64
// addition.
func Sum(sizes iter.Seq[bytesize.Size]) bytesize.Size {
	return it.Fold(sizes, func(sum, v bytesize.Size) bytesize.Size {
		return sum + v
	}, bytesize.Size(0))
}

// Average returns the truncating mean of the sequence, 0 when it is empty.
func Average(sizes iter.Seq[bytesize.Size]) bytesize.Size {
	type acc struct {
		sum bytesize.Size
		n   int64
	}
	total := it.Fold(sizes, func(a acc, v bytesize.Size) acc {
		return acc{sum: a.sum + v, n: a.n + 1}
	}, acc{})
	if total.n == 0 {
		return 0
	}
	return total.sum / bytesize.Size(total.n)
}

// Max returns the largest size in the sequence and whether the sequence
// was non-empty.
func Max(sizes iter.Seq[bytesize.Size]) (bytesize.Size, bool) {
	type acc struct {
		max bytesize.Size
		ok  bool
	}
	m := it.Fold(sizes, func(a acc, v bytesize.Size) acc {
		if !a.ok || v > a.max {
			return acc{max: v, ok: true}
		}
		return a
	}, acc{})
	return m.max, m.ok
}

// ParseEach parses every string in the sequence with bytesize.ParseWith,
// yielding each value alongside its error.
func ParseEach(texts iter.Seq[string], flags bytesize.ParseFlags, table *bytesize.UnitTable) iter.Seq2[bytesize.Size, error] {
	return func(yield func(bytesize.Size, error) bool) {
		for s := range texts {
			v, err := bytesize.ParseWith(s, flags, table)
			if !yield(v, err) {
				return
			}
		}
	}
}
