package bytesize

import (
	"fmt"
	"strconv"
	"strings"
)

// A layout is tokenized right to left: an optional byte word ("bytes",
// "byte", "B"), an optional IEC marker "i", and a single prefix letter out
// of K/M/G/T/P/E plus the automatic selectors A (largest exact factor) and
// S (largest factor ≤ value). An uppercase letter scales by powers of
// 1024, a lowercase one by powers of 1000; the "i" marker forces powers of
// 1024 and the Ki/Mi/... spellings regardless of case. Whatever precedes
// the matched tokens is the numeric picture, with its trailing whitespace
// kept verbatim as the separator. The empty layout and "G" mean
// "0-decimals exact scaling, KiB-style unit, single space".
type formatSpec struct {
	pic       picture
	hasPic    bool
	separator string
	directive scaleDirective
	decimal   bool
	iec       bool
	byteWord  bool
	longUnit  bool
}

func parseLayout(layout string) (formatSpec, error) {
	if layout == "" || layout == "G" || layout == "g" {
		return formatSpec{
			directive: scaleDirective{mode: scaleExact},
			iec:       true,
			byteWord:  true,
			separator: " ",
		}, nil
	}
	spec := formatSpec{directive: scaleDirective{mode: scaleByte}}
	rest := layout
	switch {
	case hasSuffixFold(rest, "bytes"):
		spec.byteWord, spec.longUnit = true, true
		rest = rest[:len(rest)-5]
	case hasSuffixFold(rest, "byte"):
		spec.byteWord, spec.longUnit = true, true
		rest = rest[:len(rest)-4]
	case hasSuffixFold(rest, "b"):
		spec.byteWord = true
		rest = rest[:len(rest)-1]
	}
	// "i" only counts as the IEC marker when a prefix letter precedes it
	if n := len(rest); n >= 2 && rest[n-1] == 'i' {
		if _, _, ok := classifyPrefixLetter(rest[n-2]); ok {
			spec.iec = true
			rest = rest[:n-1]
		}
	}
	if n := len(rest); n > 0 {
		if d, lower, ok := classifyPrefixLetter(rest[n-1]); ok {
			spec.directive = d
			spec.decimal = lower && !spec.iec
			rest = rest[:n-1]
		}
	}
	picText := strings.TrimRight(rest, " \t")
	spec.separator = rest[len(picText):]
	if picText == "" {
		if spec.separator == "" && (spec.byteWord || spec.directive.mode != scaleByte) {
			spec.separator = " "
		}
		return spec, nil
	}
	pic, err := parsePicture(picText)
	if err != nil {
		return formatSpec{}, fmt.Errorf("layout %q: %w", layout, err)
	}
	spec.pic = pic
	spec.hasPic = true
	return spec, nil
}

func classifyPrefixLetter(c byte) (scaleDirective, bool, bool) {
	lower := c >= 'a' && c <= 'z'
	if lower {
		c -= 'a' - 'A'
	}
	switch c {
	case 'K':
		return scaleDirective{mode: scaleFixed, idx: 1}, lower, true
	case 'M':
		return scaleDirective{mode: scaleFixed, idx: 2}, lower, true
	case 'G':
		return scaleDirective{mode: scaleFixed, idx: 3}, lower, true
	case 'T':
		return scaleDirective{mode: scaleFixed, idx: 4}, lower, true
	case 'P':
		return scaleDirective{mode: scaleFixed, idx: 5}, lower, true
	case 'E':
		return scaleDirective{mode: scaleFixed, idx: 6}, lower, true
	case 'A':
		return scaleDirective{mode: scaleExact}, lower, true
	case 'S':
		return scaleDirective{mode: scaleShortest}, lower, true
	}
	return scaleDirective{}, false, false
}

func hasSuffixFold(s, suffix string) bool {
	return len(s) >= len(suffix) && strings.EqualFold(s[len(s)-len(suffix):], suffix)
}

// picture is a "#,##0.0#"-style numeric sub-format: "0" forces a digit,
// "#" allows one, "," enables thousands grouping, everything after "."
// counts fraction digits.
type picture struct {
	grouping bool
	minInt   int
	minFrac  int
	maxFrac  int
}

func parsePicture(s string) (picture, error) {
	var p picture
	intPart, fracPart, _ := strings.Cut(s, ".")
	seenZero := false
	for i := 0; i < len(intPart); i++ {
		switch intPart[i] {
		case '0':
			seenZero = true
			p.minInt++
		case '#':
			if seenZero {
				p.minInt++
			}
		case ',':
			p.grouping = true
		default:
			return picture{}, fmt.Errorf("%w: unsupported picture character %q", ErrLayout, intPart[i])
		}
	}
	for i := 0; i < len(fracPart); i++ {
		switch fracPart[i] {
		case '0':
			p.maxFrac++
			p.minFrac = p.maxFrac
		case '#':
			p.maxFrac++
		default:
			return picture{}, fmt.Errorf("%w: unsupported picture character %q", ErrLayout, fracPart[i])
		}
	}
	return p, nil
}

// renderNumber divides mag by div with integer long division (no floating
// point, so values near 2^63 keep full precision) and renders the quotient
// per the picture. The returned flag reports whether the rendered, rounded
// quotient is exactly 1, which selects the singular byte word.
func renderNumber(spec formatSpec, neg bool, mag, div uint64) (string, bool) {
	whole := mag / div
	rem := mag % div
	var sb strings.Builder

	if !spec.hasPic {
		// exact expansion; every divisor is 2^k or 10^k, so it terminates
		isOne := whole == 1 && rem == 0
		if neg && (whole != 0 || rem != 0) {
			sb.WriteByte('-')
		}
		sb.WriteString(strconv.FormatUint(whole, 10))
		if rem != 0 {
			sb.WriteByte('.')
			for rem != 0 {
				rem *= 10
				sb.WriteByte(byte('0' + rem/div))
				rem %= div
			}
		}
		return sb.String(), isOne
	}

	p := spec.pic
	digits := make([]byte, 0, p.maxFrac+1)
	r := rem
	for i := 0; i <= p.maxFrac; i++ {
		r *= 10
		digits = append(digits, byte(r/div))
		r %= div
	}
	// round half away from zero on the extra digit
	if digits[p.maxFrac] >= 5 {
		carry := true
		for i := p.maxFrac - 1; i >= 0 && carry; i-- {
			digits[i]++
			if digits[i] < 10 {
				carry = false
			} else {
				digits[i] = 0
			}
		}
		if carry {
			whole++
		}
	}
	digits = digits[:p.maxFrac]
	for len(digits) > p.minFrac && digits[len(digits)-1] == 0 {
		digits = digits[:len(digits)-1]
	}
	fracZero := true
	for _, d := range digits {
		if d != 0 {
			fracZero = false
			break
		}
	}

	intStr := strconv.FormatUint(whole, 10)
	if whole == 0 && p.minInt == 0 {
		intStr = ""
	}
	for len(intStr) < p.minInt {
		intStr = "0" + intStr
	}
	if p.grouping {
		intStr = groupThousands(intStr)
	}
	if neg && (whole != 0 || !fracZero) {
		sb.WriteByte('-')
	}
	sb.WriteString(intStr)
	if len(digits) > 0 {
		sb.WriteByte('.')
		for _, d := range digits {
			sb.WriteByte('0' + d)
		}
	}
	return sb.String(), whole == 1 && fracZero
}

func groupThousands(s string) string {
	if len(s) <= 3 {
		return s
	}
	var sb strings.Builder
	lead := len(s) % 3
	if lead == 0 {
		lead = 3
	}
	sb.WriteString(s[:lead])
	for i := lead; i < len(s); i += 3 {
		sb.WriteByte(',')
		sb.WriteString(s[i : i+3])
	}
	return sb.String()
}

func appendFormat(dst []byte, v Size, layout string, t *UnitTable) ([]byte, error) {
	if t == nil {
		t = DefaultTable()
	}
	spec, err := parseLayout(layout)
	if err != nil {
		return dst, err
	}
	neg := v < 0
	mag := uint64(v)
	if neg {
		mag = -mag
	}
	div, idx := resolveScale(mag, spec.directive, spec.decimal)
	num, one := renderNumber(spec, neg, mag, div)
	dst = append(dst, num...)
	if idx == 0 && !spec.byteWord {
		return dst, nil
	}
	dst = append(dst, spec.separator...)
	abbr := !spec.longUnit
	if idx > 0 {
		dst = append(dst, t.prefixString(idx, abbr, spec.iec, spec.decimal)...)
		if spec.byteWord {
			dst = append(dst, t.Connector(abbr)...)
		}
	}
	if spec.byteWord {
		dst = append(dst, t.ByteWord(!one, abbr)...)
	}
	return dst, nil
}
