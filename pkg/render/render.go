// Package render expands templates by invoking the external render tool.
package render

import (
	"bytes"
	"fmt"
	"os/exec"
	"strings"

	"github.com/go-logr/logr"
)

// MaxOutput caps captured subprocess output per stream.
const MaxOutput = 10 << 20 // 10 MiB

// Error wraps a render tool failure with its diagnostic output.
type Error struct {
	Tool   string
	Args   []string
	Stderr string
	Err    error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %v: %v - %s", e.Tool, e.Args, e.Err, e.Stderr)
}

func (e *Error) Unwrap() error { return e.Err }

// Renderer runs the render tool as a subprocess.
type Renderer struct {
	Log logr.Logger

	// EnsureTool returns the path of the render tool binary for version.
	EnsureTool func(version string) (string, error)
}

// Render expands templatePath and returns the tool's stdout verbatim.
// valuesPath and extraArgs are optional; extraArgs is split on single
// spaces with empty tokens dropped. Tool output on stderr is logged but is
// not a failure by itself, the tool may emit warnings on success.
func (r *Renderer) Render(templatePath, valuesPath, extraArgs, version string) (string, error) {
	bin, err := r.EnsureTool(version)
	if err != nil {
		return "", err
	}

	args := []string{"-f", templatePath}
	if valuesPath != "" {
		args = append(args, "-f", valuesPath)
	}
	for _, a := range strings.Split(extraArgs, " ") {
		if a == "" {
			continue
		}
		args = append(args, a)
	}

	r.Log.V(2).Info("run", "cmd", bin, "args", args)

	c := exec.Command(bin, args...)
	var sout, serr cappedBuffer
	c.Stdout, c.Stderr = &sout, &serr
	err = c.Run()
	stdout, stderr := sout.String(), serr.String()
	r.Log.V(3).Info("run-result", "stderr", stderr, "stdout", stdout)
	if stderr != "" {
		r.Log.Info("render tool", "stderr", stderr)
	}
	if err != nil {
		return "", &Error{Tool: bin, Args: args, Stderr: stderr, Err: err}
	}
	if sout.overflow || serr.overflow {
		stream := "stdout"
		if serr.overflow {
			stream = "stderr"
		}
		return "", &Error{Tool: bin, Args: args, Stderr: stderr,
			Err: fmt.Errorf("%s exceeds 10 MiB", stream)}
	}

	return stdout, nil
}

// CappedBuffer keeps the first MaxOutput bytes and flags overflow.
type cappedBuffer struct {
	buf      bytes.Buffer
	overflow bool
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	if n := MaxOutput - b.buf.Len(); len(p) > n {
		b.overflow = true
		if n > 0 {
			b.buf.Write(p[:n])
		}
	} else {
		b.buf.Write(p)
	}
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	return b.buf.String()
}
