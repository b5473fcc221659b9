// Package sizeconf binds configuration structs from the environment.
// Fields of type bytesize.Size are parsed with the core size grammar and
// can select parse options through a `size` tag; other field types are
// supported via encoding.TextUnmarshaler or strconv.
package sizeconf

import (
	"encoding"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"

	"github.com/iancoleman/strcase"

	bytesize "github.com/authenticvision/bytesize-go"
)

// Env supplies configuration values by variable name. An empty string
// means the variable is absent.
type Env interface {
	Get(key string) string
}

type MapEnv map[string]string

func (e MapEnv) Get(key string) string {
	return e[key]
}

type OSEnv struct{}

func (OSEnv) Get(key string) string {
	return os.Getenv(key)
}

// ErrRequired is wrapped into the error of a required field that is unset.
var ErrRequired = errors.New("required field is not set")

// VarError carries the environment variable whose value failed to bind.
type VarError struct {
	EnvVar string
	Err    error
}

func (e VarError) Error() string {
	return fmt.Sprintf("env var %s: %s", e.EnvVar, e.Err.Error())
}

func (e VarError) Unwrap() error {
	return e.Err
}

// Parse binds config from env into a struct T. Variable names are the
// SCREAMING_SNAKE field names, nested structs contributing a prefix.
// Whether a field is required comes from the `required` tag; the value
// used when the variable is unset comes from the `default` tag. Size
// fields accept a `size` tag with a comma list of "iec", "short" and
// "long" selecting the parse flags.
func Parse[T any](env Env, prefix string) (*T, error) {
	if env == nil {
		env = OSEnv{}
	}
	var ret T
	v := reflect.ValueOf(&ret).Elem()
	if v.Kind() != reflect.Struct {
		return nil, fmt.Errorf("type %T must be a struct", ret)
	}
	p := parser{}
	if err := p.parseStruct(prefix, v); err != nil {
		return nil, fmt.Errorf("invalid config struct: %w", err)
	}
	if err := p.execute(env); err != nil {
		return nil, err
	}
	return &ret, nil
}

type binding struct {
	envVar   string
	def      string // empty when no default
	required bool
	set      func(value string) error
}

type parser struct {
	bindings []binding
}

var (
	unmarshalerType = reflect.TypeFor[encoding.TextUnmarshaler]()
	sizeType        = reflect.TypeFor[bytesize.Size]()
)

func (p *parser) parseStruct(prefix string, v reflect.Value) error {
	for i := 0; i < v.NumField(); i++ {
		f := v.Field(i)
		t := v.Type().Field(i)
		if err := p.parseField(prefix, t, f); err != nil {
			return fmt.Errorf("field %q: %w", t.Name, err)
		}
	}
	return nil
}

func (p *parser) parseField(prefix string, field reflect.StructField, value reflect.Value) error {
	if !field.IsExported() {
		return nil
	}
	name := prefix + strcase.ToScreamingSnake(field.Name)

	required := false
	if reqStr, ok := field.Tag.Lookup("required"); ok {
		var err error
		required, err = strconv.ParseBool(reqStr)
		if err != nil {
			return err
		}
	}
	def, defOK := field.Tag.Lookup("default")
	if defOK && def == "" {
		return errors.New("default tag cannot be empty")
	}
	if required && defOK {
		return errors.New("field cannot be required and have a default")
	}

	bind := func(set func(s string) error) {
		p.bindings = append(p.bindings, binding{
			envVar:   name,
			def:      def,
			required: required,
			set:      set,
		})
	}

	if value.Type() == sizeType {
		flags, err := sizeFlags(field)
		if err != nil {
			return err
		}
		bind(func(s string) error {
			v, err := bytesize.ParseWith(s, flags, nil)
			if err != nil {
				return err
			}
			value.SetInt(int64(v))
			return nil
		})
		return nil
	}

	if value.Kind() == reflect.Pointer {
		return errors.New("destination field cannot be a pointer")
	}

	if value.Addr().Type().Implements(unmarshalerType) {
		unmarshaler := value.Addr().Interface().(encoding.TextUnmarshaler)
		bind(func(s string) error {
			return unmarshaler.UnmarshalText([]byte(s))
		})
		return nil
	}

	switch value.Kind() {
	case reflect.Bool:
		bind(func(s string) error {
			b, err := strconv.ParseBool(s)
			if err != nil {
				return err
			}
			value.SetBool(b)
			return nil
		})
	case reflect.String:
		bind(func(s string) error {
			value.SetString(s)
			return nil
		})
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		bind(func(s string) error {
			i, err := strconv.ParseInt(s, 0, value.Type().Bits())
			if err != nil {
				return err
			}
			value.SetInt(i)
			return nil
		})
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		bind(func(s string) error {
			i, err := strconv.ParseUint(s, 0, value.Type().Bits())
			if err != nil {
				return err
			}
			value.SetUint(i)
			return nil
		})
	case reflect.Float32, reflect.Float64:
		bind(func(s string) error {
			f, err := strconv.ParseFloat(s, value.Type().Bits())
			if err != nil {
				return err
			}
			value.SetFloat(f)
			return nil
		})
	case reflect.Struct:
		if required {
			return errors.New("nested structs can't be required")
		}
		return p.parseStruct(name+"_", value)
	default:
		return fmt.Errorf("unsupported destination type: %s", value.Type())
	}
	return nil
}

func sizeFlags(field reflect.StructField) (bytesize.ParseFlags, error) {
	var flags bytesize.ParseFlags
	tag, ok := field.Tag.Lookup("size")
	if !ok {
		return flags, nil
	}
	for _, opt := range strings.Split(tag, ",") {
		switch opt {
		case "iec":
			flags |= bytesize.ParseIECStandard
		case "short":
			flags |= bytesize.ParseAbbreviatedOnly
		case "long":
			flags |= bytesize.ParseUnabbreviatedOnly
		case "":
		default:
			return 0, fmt.Errorf("unknown size tag option %q", opt)
		}
	}
	return flags, nil
}

func (p *parser) execute(env Env) error {
	var errs []error
	for _, b := range p.bindings {
		value := env.Get(b.envVar)
		if value != "" {
			if err := b.set(value); err != nil {
				errs = append(errs, VarError{EnvVar: b.envVar, Err: err})
			}
			continue
		}
		if b.required {
			errs = append(errs, VarError{EnvVar: b.envVar, Err: ErrRequired})
			continue
		}
		if b.def == "" {
			// no default, leave the field zero
			continue
		}
		if err := b.set(b.def); err != nil {
			err = fmt.Errorf("setting default value %q: %w", b.def, err)
			errs = append(errs, VarError{EnvVar: b.envVar, Err: err})
		}
	}
	return errors.Join(errs...)
}
