package tool

import (
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/mmlt/ytt-import/pkg/config"
	"github.com/mmlt/ytt-import/pkg/document"
	"github.com/mmlt/ytt-import/pkg/provision"
	"github.com/mmlt/ytt-import/pkg/render"
	"github.com/mmlt/ytt-import/pkg/schema"
	"github.com/mmlt/ytt-import/pkg/upload"
)

// InputError means the invocation didn't specify a document source.
type InputError struct{}

func (e *InputError) Error() string {
	return "Provide either 'file' or 'template'."
}

// Tool is responsible for acquiring one document (by rendering a template
// or reading a file), parsing it, optionally validating it against a remote
// schema and uploading it to the import API.
type Tool struct {
	// Config are the invocation inputs.
	Config *config.Config

	// Render expands a template via the external render tool.
	Render renderer

	// Validate checks a document against the schema at a URL.
	Validate validator

	// Upload sends a document to the import API.
	Upload uploader

	// Cleanup releases temporary directories at the end of the run
	// (best-effort).
	Cleanup func()

	Log logr.Logger

	// readFileFn reads the 'file' input.
	readFileFn func(string) ([]byte, error)
}

// Renderer turns a template plus values into document text.
type renderer interface {
	Render(templatePath, valuesPath, extraArgs, version string) (string, error)
}

// Validator reports schema violations of a document value tree.
type validator interface {
	Validate(doc interface{}, schemaURL string) error
}

// Uploader sends a document and returns the API response text.
type uploader interface {
	Upload(doc *document.Document, token, endpoint string) (string, error)
}

// New wires a Tool with its default collaborators.
func New(log logr.Logger, cfg *config.Config) *Tool {
	p := provision.New(log)
	return &Tool{
		Config:   cfg,
		Render:   &render.Renderer{Log: log, EnsureTool: p.Ensure},
		Validate: schema.New(log),
		Upload:   upload.New(log),
		Cleanup:  p.Cleanup,
		Log:      log,
	}
}

// Run performs one import and writes the API response to out.
// Any step failure ends the run, nothing is uploaded after a failure.
func (t *Tool) Run(out io.Writer) error {
	if t.Cleanup != nil {
		defer t.Cleanup()
	}
	if t.readFileFn == nil {
		t.readFileFn = os.ReadFile
	}

	raw, hint, err := t.acquire()
	if err != nil {
		return err
	}

	doc, err := document.Load(raw, hint)
	if err != nil {
		return err
	}
	t.Log.V(2).Info("document loaded", "format", doc.Format)

	if t.Config.ValidateSchema {
		err = t.Validate.Validate(doc.Value, t.Config.SchemaURL)
		if err != nil {
			return err
		}
		t.Log.V(1).Info("document is valid", "schema", t.Config.SchemaURL)
	} else {
		t.Log.V(1).Info("schema validation skipped")
	}

	resp, err := t.Upload.Upload(doc, t.Config.Token, t.Config.Endpoint)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(out, resp)

	return nil
}

// Acquire returns the raw document text and a source hint for format
// detection.
func (t *Tool) acquire() ([]byte, string, error) {
	switch {
	case t.Config.Template != "":
		s, err := t.Render.Render(t.Config.Template, t.Config.TemplateValues, t.Config.YttArgs, t.Config.YttVersion)
		if err != nil {
			return nil, "", err
		}
		return []byte(s), t.Config.Template, nil
	case t.Config.File != "":
		b, err := t.readFileFn(t.Config.File)
		if err != nil {
			return nil, "", fmt.Errorf("file: %w", err)
		}
		return b, t.Config.File, nil
	}
	return nil, "", &InputError{}
}
