// Package document parses YAML/JSON text into one format-agnostic value tree.
package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// Format tags the source syntax a Document was parsed from.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
)

// Document is the parsed form of an input text.
// Value is a JSON value tree (map[string]interface{}, []interface{},
// string, number, bool, nil) regardless of the source format; everything
// downstream of parsing operates on Value only.
type Document struct {
	Value  interface{}
	Format Format
}

// ParseError means the input text is not well-formed in the detected format.
type ParseError struct {
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Detect guesses the format of raw.
// A ".json" source hint or a leading '{' selects JSON, anything else is
// YAML. A YAML flow mapping also starts with '{' and is misread as JSON;
// accepted so that detection needs no configuration.
func Detect(raw []byte, sourceHint string) Format {
	if strings.HasSuffix(sourceHint, ".json") {
		return JSON
	}
	if bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return JSON
	}
	return YAML
}

// Load parses raw as JSON or YAML depending on Detect.
// sourceHint is the file or template path raw came from; it is only used
// for format detection.
func Load(raw []byte, sourceHint string) (*Document, error) {
	f := Detect(raw, sourceHint)

	var v interface{}
	var err error
	switch f {
	case JSON:
		err = json.Unmarshal(raw, &v)
	case YAML:
		err = yaml.Unmarshal(raw, &v)
		v = jsonify(v)
	}
	if err != nil {
		return nil, &ParseError{Format: f, Err: err}
	}

	return &Document{Value: v, Format: f}, nil
}

// JSON returns the canonical JSON serialization of the document.
func (d *Document) JSON() ([]byte, error) {
	return json.Marshal(d.Value)
}

// Jsonify rewrites a YAML value tree so it marshals to JSON;
// map keys become strings.
func jsonify(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		for k, e := range x {
			x[k] = jsonify(e)
		}
	case map[interface{}]interface{}:
		m := make(map[string]interface{}, len(x))
		for k, e := range x {
			m[fmt.Sprint(k)] = jsonify(e)
		}
		return m
	case []interface{}:
		for i, e := range x {
			x[i] = jsonify(e)
		}
	}
	return v
}
