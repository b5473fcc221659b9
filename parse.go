package bytesize

import (
	"errors"
	"fmt"
	"math"
	"math/bits"
	"sort"
	"strings"
)

var (
	// ErrSyntax reports input that does not match the size grammar.
	ErrSyntax = errors.New("invalid size syntax")
	// ErrRange reports a magnitude outside the 64-bit size domain.
	ErrRange = errors.New("size out of range")
	// ErrLayout reports a malformed format layout or option combination.
	ErrLayout = errors.New("invalid size layout")
)

// ParseFlags adjust how ParseWith interprets unit suffixes.
type ParseFlags uint8

const (
	// ParseIECStandard interprets the SI-style prefixes (k, M, G, ...) as
	// powers of 1000 instead of the default powers of 1024. The binary
	// prefixes (Ki, Mi, ...) are powers of 1024 either way.
	ParseIECStandard ParseFlags = 1 << iota
	// ParseAbbreviatedOnly matches only the abbreviated unit spellings.
	ParseAbbreviatedOnly
	// ParseUnabbreviatedOnly matches only the unabbreviated unit spellings.
	ParseUnabbreviatedOnly

	ParseDefault ParseFlags = 0
)

// Parse parses a human-readable size like "1024", "2.5 GiB", "5G" or
// "3 megabytes" using the default flags and table. An empty string parses
// as zero. Unit matching is case-insensitive and plain prefix letters
// scale by powers of 1024.
func Parse(s string) (Size, error) {
	return ParseWith(s, ParseDefault, nil)
}

// ParseWith parses a human-readable size. A nil table means DefaultTable.
// Errors wrap ErrSyntax, ErrRange or ErrLayout.
func ParseWith(s string, flags ParseFlags, t *UnitTable) (Size, error) {
	if flags&ParseAbbreviatedOnly != 0 && flags&ParseUnabbreviatedOnly != 0 {
		return 0, fmt.Errorf("bytesize: %w: abbreviated-only and unabbreviated-only are mutually exclusive", ErrLayout)
	}
	if t == nil {
		t = DefaultTable()
	}
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, nil
	}
	rest, div := stripUnit(trimmed, flags, t)
	v, err := parseDecimal(rest, div)
	if err != nil {
		return 0, fmt.Errorf("bytesize: parse %q: %w", s, err)
	}
	return v, nil
}

// stripUnit removes a trailing byte word, connector and prefix token and
// returns the remaining numeric text together with the recovered divisor.
func stripUnit(s string, flags ParseFlags, t *UnitTable) (string, uint64) {
	long := flags&ParseAbbreviatedOnly == 0
	short := flags&ParseUnabbreviatedOnly == 0

	type byteWord struct {
		token string
		abbr  bool
	}
	// unabbreviated spellings before abbreviated
	var byteWords []byteWord
	if long {
		byteWords = append(byteWords,
			byteWord{t.bytesLong, false},
			byteWord{t.byteLong, false})
	}
	if short {
		byteWords = append(byteWords,
			byteWord{t.bytesShort, true},
			byteWord{t.byteShort, true})
	}
	for _, w := range byteWords {
		if !t.matchSuffix(s, w.token) {
			continue
		}
		s = s[:len(s)-len(w.token)]
		if conn := t.Connector(w.abbr); conn != "" && t.matchSuffix(s, conn) {
			s = s[:len(s)-len(conn)]
		}
		break
	}

	type candidate struct {
		token   string
		divisor uint64
	}
	siFactors := &binaryFactors
	if flags&ParseIECStandard != 0 {
		siFactors = &decimalFactors
	}
	var cands []candidate
	for i := range 6 {
		if long {
			cands = append(cands,
				candidate{t.iecLong[i], binaryFactors[i]},
				candidate{t.siLong[i], siFactors[i]})
		}
		if short {
			cands = append(cands,
				candidate{t.iecShort[i], binaryFactors[i]},
				candidate{t.siShort[i], siFactors[i]})
		}
	}
	if short {
		cands = append(cands, candidate{t.decimalKiloShort, siFactors[0]})
	}
	// longest token first, so "Ki" wins over "K" and a bare "i" never
	// counts as an IEC marker
	sort.SliceStable(cands, func(i, j int) bool {
		return len(cands[i].token) > len(cands[j].token)
	})
	for _, c := range cands {
		if t.matchSuffix(s, c.token) {
			return s[:len(s)-len(c.token)], c.divisor
		}
	}
	return s, 1
}

func (t *UnitTable) matchSuffix(s, token string) bool {
	if token == "" || len(s) < len(token) {
		return false
	}
	tail := s[len(s)-len(token):]
	if t.caseSensitive {
		return tail == token
	}
	return strings.EqualFold(tail, token)
}

var pow10 = [20]uint64{
	1, 1e1, 1e2, 1e3, 1e4, 1e5, 1e6, 1e7, 1e8, 1e9,
	1e10, 1e11, 1e12, 1e13, 1e14, 1e15, 1e16, 1e17, 1e18, 1e19,
}

// parseDecimal parses the numeric text left over after unit stripping and
// multiplies it by the divisor through a 128-bit intermediate, truncating
// any sub-byte remainder. Grouping commas are accepted between integer
// digits.
func parseDecimal(s string, div uint64) (Size, error) {
	s = strings.TrimRight(s, " \t")
	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	intPart, fracPart, _ := strings.Cut(s, ".")

	var intVal uint64
	intDigits := 0
	for i := 0; i < len(intPart); i++ {
		c := intPart[i]
		if c == ',' {
			if i == 0 || i == len(intPart)-1 || intPart[i-1] == ',' {
				return 0, ErrSyntax
			}
			continue
		}
		if c < '0' || c > '9' {
			return 0, ErrSyntax
		}
		d := uint64(c - '0')
		if intVal > (math.MaxUint64-d)/10 {
			return 0, ErrRange
		}
		intVal = intVal*10 + d
		intDigits++
	}

	var fracVal uint64
	fracDigits := 0
	for i := 0; i < len(fracPart); i++ {
		c := fracPart[i]
		if c < '0' || c > '9' {
			return 0, ErrSyntax
		}
		// divisors stay below 2^60, so digits past the 19th shift the
		// truncated product by less than one byte
		if fracDigits < 19 {
			fracVal = fracVal*10 + uint64(c-'0')
			fracDigits++
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return 0, ErrSyntax
	}

	hi, lo := bits.Mul64(intVal, div)
	if hi != 0 {
		return 0, ErrRange
	}
	total := lo
	if fracVal != 0 {
		fhi, flo := bits.Mul64(fracVal, div)
		q, _ := bits.Div64(fhi, flo, pow10[fracDigits])
		if total > math.MaxUint64-q {
			return 0, ErrRange
		}
		total += q
	}

	if neg {
		if total > 1<<63 {
			return 0, ErrRange
		}
		if total == 1<<63 {
			return Size(math.MinInt64), nil
		}
		return -Size(total), nil
	}
	if total > math.MaxInt64 {
		return 0, ErrRange
	}
	return Size(total), nil
}
