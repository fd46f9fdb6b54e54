package main

import (
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-logr/stdr"
	"github.com/mmlt/ytt-import/pkg/config"
	"github.com/mmlt/ytt-import/pkg/tool"
)

var (
	// Version as set during build.
	Version string

	showVersion = flag.Bool("version", false,
		`Print version and exit`)

	verbosity = flag.String("v", "0",
		`Log verbosity, higher numbers produce more output`)

	// Usage text argument: %[1]=program name, %[2]=program version.
	usage = `%[1]s %[2]s
%[1]s uploads a YAML/JSON document to the import API.

The document is read from the 'file' input or rendered from the 'template'
input with ytt (downloaded on demand when no ./ytt binary is present).
Unless 'validate_schema' is false the document is checked against the JSON
schema at 'schema_url' before upload.

Inputs are read from INPUT_* environment variables:
    file, template, template_values, token (required), validate_schema,
    schema_url, endpoint, ytt_version, ytt_args

Usage: %[1]s [options...]
`
)

func main() {
	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, usage, filepath.Base(os.Args[0]), Version)
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println(Version)
		return
	}

	v, _ := strconv.Atoi(*verbosity)
	stdr.SetVerbosity(v)
	log := stdr.New(stdlog.New(os.Stderr, "I ", stdlog.Ltime))

	cfg, err := config.FromEnviron(os.Environ())
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "E", err)
		os.Exit(1)
	}

	tl := tool.New(log, cfg)
	err = tl.Run(os.Stdout)
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, "E", err)
		os.Exit(1)
	}
}
