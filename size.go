// Package bytesize converts between 64-bit byte counts and human-readable
// text with binary (IEC, "KiB") and decimal (SI, "kB") unit prefixes, in
// abbreviated and unabbreviated forms, modeled after time.Duration.
//
// Formatting is driven by a small layout language, see Size.Format.
// Unit spellings are customizable through a UnitTable.
package bytesize

import (
	"encoding"
	"log/slog"

	"github.com/BooleanCat/go-functional/v2/it/op"
	"github.com/spf13/pflag"
)

// Size is a count of bytes.
type Size int64

const (
	B Size = 1

	// powers of 1024
	KiB Size = 1 << 10
	MiB Size = 1 << 20
	GiB Size = 1 << 30
	TiB Size = 1 << 40
	PiB Size = 1 << 50
	EiB Size = 1 << 60

	// powers of 1000
	KB Size = 1e3
	MB Size = 1e6
	GB Size = 1e9
	TB Size = 1e12
	PB Size = 1e15
	EB Size = 1e18
)

// wireLayout is the serialization format: exact binary scaling with no
// separator, e.g. 2684354560 <-> "2560MiB".
const wireLayout = "0AiB"

var (
	_ pflag.Value              = op.Ref(Size(0))
	_ encoding.TextMarshaler   = Size(0)
	_ encoding.TextUnmarshaler = op.Ref(Size(0))
	_ slog.LogValuer           = Size(0)
)

// String formats the size with the default layout and table, e.g.
// "2560 MiB" or "0 B". It never fails.
func (v Size) String() string {
	b, _ := appendFormat(nil, v, "", nil)
	return string(b)
}

// Format renders the size per a layout string using the default table.
//
// A layout is an optional numeric picture ("#,##0.0#"-style; "0" forces a
// digit, "#" allows one, "," groups thousands) followed by an optional
// scaling suffix: one of the prefix letters K, M, G, T, P, E, or A for the
// largest factor dividing the value exactly, or S for the largest factor
// not exceeding it. An uppercase letter scales by powers of 1024, a
// lowercase one by powers of 1000; appending "i" forces powers of 1024 and
// the Ki/Mi/... spellings. A trailing "B" appends the abbreviated byte
// word, "byte"/"bytes" the unabbreviated one (singular when the rendered
// quotient is exactly 1). Whitespace between picture and suffix is kept
// verbatim; with no picture a single space is used. The empty layout and
// "G" are shorthand for exact binary scaling, as in "2560 MiB".
//
//	Format("")         // "2560 MiB"
//	Format("#.0 SiB")  // "2.5 GiB"
//	Format("0AiB")     // "2560MiB"
//	Format("0.0 kB")   // "2684354.6 kB"
//	Format("# Mibyte") // "2560 mebibytes"
func (v Size) Format(layout string) (string, error) {
	return v.FormatWith(layout, nil)
}

// FormatWith is Format with a custom unit table. A nil table means
// DefaultTable.
func (v Size) FormatWith(layout string, t *UnitTable) (string, error) {
	b, err := appendFormat(nil, v, layout, t)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// AppendFormat appends the formatted size to dst and returns the extended
// buffer.
func (v Size) AppendFormat(dst []byte, layout string, t *UnitTable) ([]byte, error) {
	return appendFormat(dst, v, layout, t)
}

// Int64 returns the size as a plain count of bytes.
func (v Size) Int64() int64 {
	return int64(v)
}

func (v Size) MarshalText() ([]byte, error) {
	return appendFormat(nil, v, wireLayout, nil)
}

func (v *Size) UnmarshalText(s []byte) error {
	n, err := Parse(string(s))
	if err != nil {
		return err
	}
	*v = n
	return nil
}

func (v *Size) Set(s string) error {
	return v.UnmarshalText([]byte(s))
}

func (v *Size) Type() string {
	return "size"
}

func (v Size) LogValue() slog.Value {
	return slog.StringValue(v.String())
}
