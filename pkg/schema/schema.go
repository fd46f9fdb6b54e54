// Package schema validates documents against a remote JSON schema.
package schema

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-cleanhttp"
	"github.com/xeipuuv/gojsonschema"
)

// FetchError means getting the schema got a non-success response.
type FetchError struct {
	URL        string
	StatusCode int
	// Status is the status line, including the code.
	Status string
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch schema %s: %s", e.URL, e.Status)
}

// ValidationError lists all violations found in one validation pass.
type ValidationError struct {
	Violations []string
}

// Error renders the violations one per line, in validator order.
func (e *ValidationError) Error() string {
	return strings.Join(e.Violations, "\n")
}

// Validator checks documents against a JSON schema fetched from a URL.
// The schema is fetched on every call, nothing is cached.
type Validator struct {
	Log    logr.Logger
	Client *http.Client
}

// New returns a Validator.
func New(log logr.Logger) *Validator {
	return &Validator{Log: log, Client: cleanhttp.DefaultClient()}
}

// Validate fetches the draft-04 schema at schemaURL and checks doc against
// it. Standard format validators (date-time, email, uri, ...) apply and
// unknown schema keywords are ignored so vendor extensions don't reject the
// schema. All violations are collected before reporting.
func (v *Validator) Validate(doc interface{}, schemaURL string) error {
	v.Log.V(2).Info("fetch schema", "url", schemaURL)

	resp, err := v.Client.Get(schemaURL)
	if err != nil {
		return fmt.Errorf("fetch schema: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{URL: schemaURL, StatusCode: resp.StatusCode, Status: resp.Status}
	}
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("fetch schema: %w", err)
	}

	sl := gojsonschema.NewSchemaLoader()
	sl.Draft = gojsonschema.Draft4
	// a $schema declaration in the fetched document must not override the
	// draft-04 contract.
	sl.AutoDetect = false
	sch, err := sl.Compile(gojsonschema.NewBytesLoader(b))
	if err != nil {
		return fmt.Errorf("compile schema %s: %w", schemaURL, err)
	}

	res, err := sch.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}
	if res.Valid() {
		return nil
	}

	vs := make([]string, 0, len(res.Errors()))
	for _, re := range res.Errors() {
		vs = append(vs, re.String())
	}
	return &ValidationError{Violations: vs}
}
