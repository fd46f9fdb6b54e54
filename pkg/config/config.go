// Package config reads the tool inputs from an environment snapshot.
//
// CI runners expose step inputs as INPUT_* environment variables; no code
// outside this package reads the process environment.
package config

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/mitchellh/mapstructure"
)

// Defaults for optional inputs.
const (
	DefaultSchemaURL  = "https://import.mmlt.io/api/v1/schema.json"
	DefaultEndpoint   = "https://import.mmlt.io/api/v1/documents"
	DefaultYttVersion = "v0.40.1"
)

// Prefix is prepended to normalized input names to form environment keys.
const Prefix = "INPUT_"

// Config are the inputs of one invocation.
type Config struct {
	// File is the path of a YAML or JSON document to upload.
	File string `input:"file"`
	// Template is the path of a ytt template to render into the document.
	// Either File or Template must be set.
	Template string `input:"template"`
	// TemplateValues is the path of a values file passed to ytt.
	TemplateValues string `input:"template_values"`
	// Token authorizes the upload.
	Token string `input:"token"`
	// ValidateSchema enables schema validation before upload.
	ValidateSchema bool `input:"validate_schema"`
	// SchemaURL is where the JSON schema is fetched from.
	SchemaURL string `input:"schema_url"`
	// Endpoint is the import API URL.
	Endpoint string `input:"endpoint"`
	// YttVersion is the release to download when no ytt binary is present.
	YttVersion string `input:"ytt_version"`
	// YttArgs are extra space separated arguments for ytt.
	YttArgs string `input:"ytt_args"`
}

// MissingInputError means a required input is absent or blank.
type MissingInputError struct {
	Name string
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("Missing required input: %s", e.Name)
}

// Lookup is an environment snapshot indexed by key.
type Lookup map[string]string

// NewLookup converts a []string with "key=value" items to a Lookup.
func NewLookup(environ []string) Lookup {
	result := make(Lookup)
	for _, s := range environ {
		sl := strings.SplitN(s, "=", 2)
		if len(sl) != 2 {
			continue
		}
		result[sl[0]] = sl[1]
	}
	return result
}

// Input returns the value of the named input.
// A required input that is absent or blank yields a MissingInputError.
func (l Lookup) Input(name string, required bool) (string, error) {
	v := l[Key(name)]
	if required && strings.TrimSpace(v) == "" {
		return "", &MissingInputError{Name: name}
	}
	return v, nil
}

// Key normalizes an input name to its environment key;
// spaces become underscores, letters upper-case, Prefix is prepended.
func Key(name string) string {
	return Prefix + strings.ToUpper(strings.ReplaceAll(name, " ", "_"))
}

// ParseBool maps "1", "true", "yes" and "on" (any case) to true and an
// empty string to def. Any other value is false.
func ParseBool(s string, def bool) bool {
	if s == "" {
		return def
	}
	switch strings.ToLower(s) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}

// Parameter declares an input with its required/default rules.
type parameter struct {
	name     string
	required bool
	def      string
}

var parameters = []parameter{
	{name: "file"},
	{name: "template"},
	{name: "template_values"},
	{name: "token", required: true},
	{name: "schema_url", def: DefaultSchemaURL},
	{name: "endpoint", def: DefaultEndpoint},
	{name: "ytt_version", def: DefaultYttVersion},
	{name: "ytt_args"},
}

// FromEnviron builds a Config from an environment snapshot.
// All missing required inputs are reported in one error, one per line.
func FromEnviron(environ []string) (*Config, error) {
	l := NewLookup(environ)

	in := map[string]interface{}{}
	var errs *multierror.Error
	for _, p := range parameters {
		v, err := l.Input(p.name, p.required)
		if err != nil {
			errs = multierror.Append(errs, err)
			continue
		}
		if v == "" {
			v = p.def
		}
		in[p.name] = v
	}
	if err := errs.ErrorOrNil(); err != nil {
		errs.ErrorFormat = listFormat
		return nil, errs
	}

	vs, _ := l.Input("validate_schema", false)
	in["validate_schema"] = ParseBool(vs, true)

	return decode(in)
}

// Decode turns the dynamic input map into a Config.
func decode(in map[string]interface{}) (*Config, error) {
	cfg := &mapstructure.DecoderConfig{TagName: "input"}
	cfg.Result = &Config{}

	dec, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, err
	}
	err = dec.Decode(in)
	if err != nil {
		return nil, err
	}

	return cfg.Result.(*Config), nil
}

// ListFormat renders errors one per line without a count header.
func listFormat(es []error) string {
	if len(es) == 1 {
		return es[0].Error()
	}
	lines := make([]string, len(es))
	for i, e := range es {
		lines[i] = e.Error()
	}
	return strings.Join(lines, "\n")
}
