package sizeconf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bytesize "github.com/authenticvision/bytesize-go"
)

type cacheConfig struct {
	MaxSize bytesize.Size `default:"256MiB"`
	Quota   bytesize.Size `size:"iec"`
	Name    string        `required:"true"`
	Workers int           `default:"4"`
	Nested  nestedConfig
}

type nestedConfig struct {
	SpoolSize bytesize.Size
}

func TestParse(t *testing.T) {
	r := require.New(t)
	a := assert.New(t)

	cfg, err := Parse[cacheConfig](MapEnv{
		"NAME":              "cache",
		"QUOTA":             "5GB",
		"NESTED_SPOOL_SIZE": "1.5 KiB",
	}, "")
	r.NoError(err)
	a.Equal(256*bytesize.MiB, cfg.MaxSize)
	a.Equal(bytesize.Size(5_000_000_000), cfg.Quota, "iec tag makes GB decimal")
	a.Equal("cache", cfg.Name)
	a.Equal(4, cfg.Workers)
	a.Equal(1536*bytesize.B, cfg.Nested.SpoolSize)
}

func TestParsePrefix(t *testing.T) {
	r := require.New(t)
	cfg, err := Parse[struct {
		MaxSize bytesize.Size
		Name    string `required:"true"`
	}](MapEnv{"APP_MAX_SIZE": "1GiB", "APP_NAME": "x"}, "APP_")
	r.NoError(err)
	r.Equal(bytesize.GiB, cfg.MaxSize)
}

func TestParseErrors(t *testing.T) {
	r := require.New(t)
	a := assert.New(t)

	_, err := Parse[cacheConfig](MapEnv{}, "")
	r.Error(err)
	a.ErrorIs(err, ErrRequired)

	_, err = Parse[cacheConfig](MapEnv{"NAME": "x", "QUOTA": "lots"}, "")
	r.Error(err)
	a.ErrorIs(err, bytesize.ErrSyntax)
	var ve VarError
	a.ErrorAs(err, &ve)
	a.Equal("QUOTA", ve.EnvVar)

	_, err = Parse[struct {
		Bad bytesize.Size `size:"huge"`
	}](MapEnv{}, "")
	r.ErrorContains(err, "unknown size tag option")

	_, err = Parse[struct {
		Bad bytesize.Size `required:"true" default:"1KiB"`
	}](MapEnv{}, "")
	r.ErrorContains(err, "required and have a default")
}

func TestParseTagCombinations(t *testing.T) {
	r := require.New(t)
	cfg, err := Parse[struct {
		Limit bytesize.Size `size:"long" default:"2 mebibytes"`
	}](MapEnv{}, "")
	r.NoError(err)
	r.Equal(2*bytesize.MiB, cfg.Limit)

	_, err = Parse[struct {
		Limit bytesize.Size `size:"long"`
	}](MapEnv{"LIMIT": "2MiB"}, "")
	r.ErrorIs(err, bytesize.ErrSyntax)
}
