package bytesize

import (
	"fmt"
	"sync"
)

// Prefix identifies a unit prefix in a UnitTable. The binary prefixes
// (Kibi..Exbi) always denote powers of 1024; the SI prefixes (Kilo..Exa)
// denote powers of 1024 or 1000 depending on the parse/format options in
// effect, never on the table itself.
type Prefix int

const (
	NoPrefix Prefix = iota
	Kibi
	Mebi
	Gibi
	Tebi
	Pebi
	Exbi
	Kilo
	Mega
	Giga
	Tera
	Peta
	Exa
)

// UnitTable holds the unit spellings used when formatting and parsing sizes.
// A UnitTable is immutable; build one with TableBuilder.Build or use
// DefaultTable. Immutability is the thread-safety boundary: a table may be
// shared freely across goroutines.
type UnitTable struct {
	byteShort, bytesShort string
	byteLong, bytesLong   string
	connShort, connLong   string
	iecShort, iecLong     [6]string
	siShort, siLong       [6]string
	decimalKiloShort      string
	caseSensitive         bool
}

// TableBuilder is a mutable recipe for a UnitTable. The zero value is not
// useful; start from English() and override fields as needed.
type TableBuilder struct {
	ByteShort, BytesShort string // abbreviated byte word, singular/plural
	ByteLong, BytesLong   string // unabbreviated byte word, singular/plural

	// Connectors are inserted between a prefix and the byte word. Both may
	// be empty.
	ConnectorShort, ConnectorLong string

	IECShort [6]string // Ki..Ei
	IECLong  [6]string // kibi..exbi
	SIShort  [6]string // K..E, the power-of-1024 spellings
	SILong   [6]string // kilo..exa

	// DecimalKiloShort is the abbreviated kilo used in power-of-1000 mode.
	// Convention renders the 1024-kilo as "K" and the 1000-kilo as "k";
	// the remaining letters share one spelling across both modes.
	DecimalKiloShort string

	// CaseSensitive switches unit matching during parsing from
	// case-insensitive (the default) to exact comparison.
	CaseSensitive bool
}

// English returns a builder pre-populated with the default English unit
// spellings, case-insensitive.
func English() TableBuilder {
	return TableBuilder{
		ByteShort:        "B",
		BytesShort:       "B",
		ByteLong:         "byte",
		BytesLong:        "bytes",
		IECShort:         [6]string{"Ki", "Mi", "Gi", "Ti", "Pi", "Ei"},
		IECLong:          [6]string{"kibi", "mebi", "gibi", "tebi", "pebi", "exbi"},
		SIShort:          [6]string{"K", "M", "G", "T", "P", "E"},
		SILong:           [6]string{"kilo", "mega", "giga", "tera", "peta", "exa"},
		DecimalKiloShort: "k",
	}
}

// Build validates the builder and returns an immutable UnitTable. Every
// unit string must be non-empty; connectors may be empty.
func (b TableBuilder) Build() (*UnitTable, error) {
	named := []struct {
		name  string
		value string
	}{
		{"ByteShort", b.ByteShort},
		{"BytesShort", b.BytesShort},
		{"ByteLong", b.ByteLong},
		{"BytesLong", b.BytesLong},
		{"DecimalKiloShort", b.DecimalKiloShort},
	}
	for _, f := range named {
		if f.value == "" {
			return nil, fmt.Errorf("bytesize: table field %s must not be empty", f.name)
		}
	}
	for i := range 6 {
		for _, f := range []struct {
			name  string
			value string
		}{
			{"IECShort", b.IECShort[i]},
			{"IECLong", b.IECLong[i]},
			{"SIShort", b.SIShort[i]},
			{"SILong", b.SILong[i]},
		} {
			if f.value == "" {
				return nil, fmt.Errorf("bytesize: table field %s[%d] must not be empty", f.name, i)
			}
		}
	}
	return &UnitTable{
		byteShort:        b.ByteShort,
		bytesShort:       b.BytesShort,
		byteLong:         b.ByteLong,
		bytesLong:        b.BytesLong,
		connShort:        b.ConnectorShort,
		connLong:         b.ConnectorLong,
		iecShort:         b.IECShort,
		iecLong:          b.IECLong,
		siShort:          b.SIShort,
		siLong:           b.SILong,
		decimalKiloShort: b.DecimalKiloShort,
		caseSensitive:    b.CaseSensitive,
	}, nil
}

var defaultTable = sync.OnceValue(func() *UnitTable {
	t, err := English().Build()
	if err != nil {
		panic(err)
	}
	return t
})

// DefaultTable returns the process-wide English table. It is built once on
// first use and never mutated.
func DefaultTable() *UnitTable {
	return defaultTable()
}

// PrefixString returns the spelling of a prefix. The abbreviated SI kilo
// is the power-of-1000 "k"; formatting reaches the power-of-1024 "K"
// through the layout's letter case instead.
func (t *UnitTable) PrefixString(p Prefix, abbreviated bool) string {
	switch {
	case p >= Kibi && p <= Exbi:
		if abbreviated {
			return t.iecShort[p-Kibi]
		}
		return t.iecLong[p-Kibi]
	case p >= Kilo && p <= Exa:
		if abbreviated {
			if p == Kilo {
				return t.decimalKiloShort
			}
			return t.siShort[p-Kilo]
		}
		return t.siLong[p-Kilo]
	}
	return ""
}

// ByteWord returns the byte unit word.
func (t *UnitTable) ByteWord(plural, abbreviated bool) string {
	if abbreviated {
		if plural {
			return t.bytesShort
		}
		return t.byteShort
	}
	if plural {
		return t.bytesLong
	}
	return t.byteLong
}

// Connector returns the string inserted between a prefix and the byte word.
func (t *UnitTable) Connector(abbreviated bool) string {
	if abbreviated {
		return t.connShort
	}
	return t.connLong
}

// CaseSensitive reports whether unit matching during parsing compares
// exactly instead of case-insensitively.
func (t *UnitTable) CaseSensitive() bool {
	return t.caseSensitive
}

// prefixString resolves the rendered prefix for the format engine.
// iec selects the IEC spellings (Ki..Ei / kibi..exbi); decimal selects the
// power-of-1000 kilo in abbreviated SI mode.
func (t *UnitTable) prefixString(idx int, abbreviated, iec, decimal bool) string {
	if iec {
		if abbreviated {
			return t.iecShort[idx-1]
		}
		return t.iecLong[idx-1]
	}
	if abbreviated {
		if decimal && idx == 1 {
			return t.decimalKiloShort
		}
		return t.siShort[idx-1]
	}
	return t.siLong[idx-1]
}
