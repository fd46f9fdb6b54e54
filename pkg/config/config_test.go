package config

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromEnviron(t *testing.T) {
	var tests = map[string]struct {
		environ []string
		want    *Config
		wantErr string
	}{
		"defaults": {
			environ: []string{"INPUT_TOKEN=secret"},
			want: &Config{
				Token:          "secret",
				ValidateSchema: true,
				SchemaURL:      DefaultSchemaURL,
				Endpoint:       DefaultEndpoint,
				YttVersion:     DefaultYttVersion,
			},
		},
		"all_set": {
			environ: []string{
				"INPUT_FILE=doc.json",
				"INPUT_TEMPLATE=tpl/",
				"INPUT_TEMPLATE_VALUES=values.yml",
				"INPUT_TOKEN=secret",
				"INPUT_VALIDATE_SCHEMA=false",
				"INPUT_SCHEMA_URL=https://example.com/schema.json",
				"INPUT_ENDPOINT=https://example.com/import",
				"INPUT_YTT_VERSION=v0.39.0",
				"INPUT_YTT_ARGS=--strict",
				"HOME=/home/nobody",
			},
			want: &Config{
				File:           "doc.json",
				Template:       "tpl/",
				TemplateValues: "values.yml",
				Token:          "secret",
				ValidateSchema: false,
				SchemaURL:      "https://example.com/schema.json",
				Endpoint:       "https://example.com/import",
				YttVersion:     "v0.39.0",
				YttArgs:        "--strict",
			},
		},
		"missing_token": {
			environ: []string{"INPUT_FILE=doc.json"},
			wantErr: "Missing required input: token",
		},
		"blank_token": {
			environ: []string{"INPUT_TOKEN=   "},
			wantErr: "Missing required input: token",
		},
		"validate_schema_non_truthy_value_is_false": {
			environ: []string{"INPUT_TOKEN=secret", "INPUT_VALIDATE_SCHEMA=nope"},
			want: &Config{
				Token:          "secret",
				ValidateSchema: false,
				SchemaURL:      DefaultSchemaURL,
				Endpoint:       DefaultEndpoint,
				YttVersion:     DefaultYttVersion,
			},
		},
	}

	for name, tst := range tests {
		t.Run(name, func(t *testing.T) {
			got, err := FromEnviron(tst.environ)
			if tst.wantErr != "" {
				assert.EqualError(t, err, tst.wantErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tst.want, got)
		})
	}
}

func TestFromEnvironMissingInputType(t *testing.T) {
	_, err := FromEnviron(nil)

	var miss *MissingInputError
	assert.True(t, errors.As(err, &miss))
	assert.Equal(t, "token", miss.Name)
}

func TestInput(t *testing.T) {
	l := NewLookup([]string{"INPUT_FILE=doc.json", "INPUT_EMPTY="})

	v, err := l.Input("file", false)
	assert.NoError(t, err)
	assert.Equal(t, "doc.json", v)

	v, err = l.Input("absent", false)
	assert.NoError(t, err)
	assert.Equal(t, "", v)

	_, err = l.Input("empty", true)
	assert.EqualError(t, err, "Missing required input: empty")
}

func TestKey(t *testing.T) {
	assert.Equal(t, "INPUT_FILE", Key("file"))
	assert.Equal(t, "INPUT_TEMPLATE_VALUES", Key("template_values"))
	assert.Equal(t, "INPUT_TEMPLATE_VALUES", Key("template values"))
}

func TestParseBool(t *testing.T) {
	var tests = map[string]struct {
		in   string
		def  bool
		want bool
	}{
		"one":            {in: "1", want: true},
		"true":           {in: "true", want: true},
		"yes":            {in: "yes", want: true},
		"on":             {in: "on", want: true},
		"mixed_case":     {in: "TrUe", want: true},
		"upper_yes":      {in: "YES", want: true},
		"false":          {in: "false", want: false},
		"zero":           {in: "0", want: false},
		"garbage":        {in: "anything else", def: true, want: false},
		"empty_def_true": {in: "", def: true, want: true},
		"empty_def_false": {
			in: "", def: false, want: false,
		},
	}

	for name, tst := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tst.want, ParseBool(tst.in, tst.def))
		})
	}
}
