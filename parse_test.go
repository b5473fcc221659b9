package bytesize

import (
	"errors"
	"math"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		arg     string
		want    Size
		wantErr error
	}{
		{name: "empty string", arg: "", want: 0},
		{name: "spaces only", arg: "   ", want: 0},
		{name: "zero", arg: "0", want: 0},
		{name: "one", arg: "1", want: 1},
		{name: "1B", arg: "1B", want: B},
		{name: "1KiB", arg: "1KiB", want: KiB},
		{name: "1kB defaults to 1024", arg: "1kB", want: KiB},
		{name: "5G", arg: "5G", want: 5 * GiB},
		{name: "1TiB", arg: "1TiB", want: TiB},
		{name: "1EiB", arg: "1EiB", want: EiB},
		{name: "plus sign", arg: "+5 KiB", want: 5 * KiB},
		{name: "negative", arg: "-2560 MiB", want: -2560 * MiB},
		{name: "fractional", arg: "2.5 GiB", want: 2684354560},
		{name: "fraction only", arg: ".5 KiB", want: 512},
		{name: "wire form", arg: "2560MiB", want: 2560 * MiB},
		{name: "grouping", arg: "2,684,354,560", want: 2684354560},
		{name: "long unit", arg: "3 megabytes", want: 3 * MiB},
		{name: "long singular", arg: "1 kibibyte", want: KiB},
		{name: "surrounding space", arg: " 42 MiB ", want: 42 * MiB},
		{name: "min int64", arg: "-8EiB", want: Size(math.MinInt64)},
		{name: "invalid", arg: "asdf", wantErr: ErrSyntax},
		{name: "trailing junk", arg: "12x", wantErr: ErrSyntax},
		{name: "bare i is no IEC marker", arg: "5i", wantErr: ErrSyntax},
		{name: "double sign", arg: "--5", wantErr: ErrSyntax},
		{name: "lone dot", arg: ".", wantErr: ErrSyntax},
		{name: "misplaced comma", arg: ",5", wantErr: ErrSyntax},
		{name: "MAXINT64+1", arg: "9223372036854775808", wantErr: ErrRange},
		{name: "8EiB overflows", arg: "8EiB", wantErr: ErrRange},
		{name: "huge integer", arg: "99999999999999999999999", wantErr: ErrRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.arg)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Parse(%q) error = %v, want %v", tt.arg, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.arg, got, tt.want)
			}
		})
	}
}

func TestParseCaseInvariance(t *testing.T) {
	want := 10 * KiB
	for _, arg := range []string{"10kb", "10KB", "10Kb", "10kB"} {
		got, err := Parse(arg)
		if err != nil {
			t.Fatalf("Parse(%q): %v", arg, err)
		}
		if got != want {
			t.Errorf("Parse(%q) = %d, want %d", arg, got, want)
		}
	}
}

func TestParseIECStandard(t *testing.T) {
	tests := []struct {
		arg   string
		flags ParseFlags
		want  Size
	}{
		// binary prefixes are powers of 1024 no matter the flags
		{arg: "1KiB", flags: ParseDefault, want: 1024},
		{arg: "1kiB", flags: ParseIECStandard, want: 1024},
		{arg: "1kB", flags: ParseDefault, want: 1024},
		{arg: "1kB", flags: ParseIECStandard, want: 1000},
		{arg: "5G", flags: ParseIECStandard, want: 5000000000},
		{arg: "1 exabyte", flags: ParseIECStandard, want: EB},
		{arg: "1 exbibyte", flags: ParseIECStandard, want: EiB},
	}
	for _, tt := range tests {
		got, err := ParseWith(tt.arg, tt.flags, nil)
		if err != nil {
			t.Fatalf("ParseWith(%q, %b): %v", tt.arg, tt.flags, err)
		}
		if got != tt.want {
			t.Errorf("ParseWith(%q, %b) = %d, want %d", tt.arg, tt.flags, got, tt.want)
		}
	}
}

func TestParseFamilyRestriction(t *testing.T) {
	if _, err := ParseWith("5 MiB", ParseUnabbreviatedOnly, nil); !errors.Is(err, ErrSyntax) {
		t.Errorf("abbreviated unit with ParseUnabbreviatedOnly: err = %v, want ErrSyntax", err)
	}
	if _, err := ParseWith("5 mebibytes", ParseAbbreviatedOnly, nil); !errors.Is(err, ErrSyntax) {
		t.Errorf("long unit with ParseAbbreviatedOnly: err = %v, want ErrSyntax", err)
	}
	got, err := ParseWith("5 mebibytes", ParseUnabbreviatedOnly, nil)
	if err != nil || got != 5*MiB {
		t.Errorf("ParseWith long-only = %d, %v, want %d", got, err, 5*MiB)
	}
	if _, err := ParseWith("5", ParseAbbreviatedOnly|ParseUnabbreviatedOnly, nil); !errors.Is(err, ErrLayout) {
		t.Errorf("conflicting flags: err = %v, want ErrLayout", err)
	}
}

func TestParseCaseSensitiveTable(t *testing.T) {
	b := English()
	b.CaseSensitive = true
	table, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	if got, err := ParseWith("1KiB", ParseDefault, table); err != nil || got != KiB {
		t.Errorf("ParseWith(1KiB) = %d, %v", got, err)
	}
	if _, err := ParseWith("1kib", ParseDefault, table); !errors.Is(err, ErrSyntax) {
		t.Errorf("case-sensitive table accepted %q: err = %v", "1kib", err)
	}
}

func TestRoundTrip(t *testing.T) {
	multipliers := []int64{1, 2, 5, 999, 1023, 4096}
	for i, f := range binaryFactors {
		for _, n := range multipliers {
			v := Size(n) * Size(f)
			if v/Size(f) != Size(n) || v < 0 {
				continue // out of range
			}
			s, err := v.Format("AiB")
			if err != nil {
				t.Fatalf("format %d: %v", v, err)
			}
			got, err := Parse(s)
			if err != nil {
				t.Fatalf("parse %q: %v", s, err)
			}
			if got != v {
				t.Errorf("factor %d: %d -> %q -> %d", i, v, s, got)
			}
		}
	}
	for i, f := range decimalFactors {
		for _, n := range multipliers {
			v := Size(n) * Size(f)
			if v/Size(f) != Size(n) || v < 0 {
				continue
			}
			s, err := v.Format("aB")
			if err != nil {
				t.Fatalf("format %d: %v", v, err)
			}
			got, err := ParseWith(s, ParseIECStandard, nil)
			if err != nil {
				t.Fatalf("parse %q: %v", s, err)
			}
			if got != v {
				t.Errorf("decimal factor %d: %d -> %q -> %d", i, v, s, got)
			}
		}
	}
}

func TestParsePrecisionNearMax(t *testing.T) {
	// 2^63 - 1024 is an exact KiB multiple close to the int64 ceiling
	v := Size(math.MaxInt64 - 1023)
	s, err := v.Format("AiB")
	if err != nil {
		t.Fatal(err)
	}
	got, err := Parse(s)
	if err != nil {
		t.Fatalf("parse %q: %v", s, err)
	}
	if got != v {
		t.Errorf("%d -> %q -> %d", v, s, got)
	}
}
