// Package provision makes sure the ytt binary is available locally.
package provision

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-logr/logr"
	"github.com/hashicorp/go-cleanhttp"
)

// ToolName is the file name of the render tool binary.
const ToolName = "ytt"

// ReleaseURL is the download location of render tool release assets.
// %[1]s is the version, %[2]s the asset name.
const ReleaseURL = "https://github.com/carvel-dev/ytt/releases/download/%[1]s/%[2]s"

// UnsupportedPlatformError means no release asset exists for the platform.
type UnsupportedPlatformError struct {
	OS   string
	Arch string
}

func (e *UnsupportedPlatformError) Error() string {
	if e.OS != "" {
		return fmt.Sprintf("unsupported operating system: %s", e.OS)
	}
	return fmt.Sprintf("unsupported architecture: %s", e.Arch)
}

// DownloadError means the release download got a non-success response.
type DownloadError struct {
	URL        string
	StatusCode int
	// Status is the status line, including the code.
	Status string
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %s", e.URL, e.Status)
}

// Provisioner resolves the render tool binary for a platform.
type Provisioner struct {
	Log logr.Logger

	// Client performs the release download.
	Client *http.Client

	// OS and Arch select the release asset.
	OS   string
	Arch string

	// BaseURL overrides ReleaseURL (tests).
	BaseURL string

	// dir is the temporary directory created by Ensure, if any.
	dir string
}

// New returns a Provisioner for the running program's platform.
func New(log logr.Logger) *Provisioner {
	return &Provisioner{
		Log:    log,
		Client: cleanhttp.DefaultClient(),
		OS:     runtime.GOOS,
		Arch:   runtime.GOARCH,
	}
}

// Ensure returns the path of the render tool binary for version.
// A binary in the current working directory is trusted as-is, even when its
// version differs from the requested one. Otherwise the release asset for
// the platform is downloaded to a fresh temporary directory.
// The download is not checksum verified.
func (p *Provisioner) Ensure(version string) (string, error) {
	if _, err := os.Stat(ToolName); err == nil {
		abs, err := filepath.Abs(ToolName)
		if err != nil {
			return "", err
		}
		p.Log.V(2).Info("using existing tool", "path", abs)
		return abs, nil
	}

	asset, err := p.asset()
	if err != nil {
		return "", err
	}

	base := p.BaseURL
	if base == "" {
		base = ReleaseURL
	}
	url := fmt.Sprintf(base, version, asset)

	dir, err := os.MkdirTemp("", "ytt-import-")
	if err != nil {
		return "", err
	}
	p.dir = dir

	p.Log.V(2).Info("download tool", "url", url)

	resp, err := p.Client.Get(url)
	if err != nil {
		return "", fmt.Errorf("download %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &DownloadError{URL: url, StatusCode: resp.StatusCode, Status: resp.Status}
	}

	path := filepath.Join(dir, ToolName)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0755)
	if err != nil {
		return "", err
	}
	_, err = io.Copy(f, resp.Body)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	return path, nil
}

// Cleanup removes the temporary directory created by Ensure (best-effort).
func (p *Provisioner) Cleanup() {
	if p.dir != "" {
		_ = os.RemoveAll(p.dir)
		p.dir = ""
	}
}

// Asset maps the platform to a release asset name.
func (p *Provisioner) asset() (string, error) {
	var osID string
	switch p.OS {
	case "linux":
		osID = "linux"
	case "darwin":
		osID = "darwin"
	default:
		return "", &UnsupportedPlatformError{OS: p.OS}
	}

	var archID string
	switch p.Arch {
	case "amd64":
		archID = "amd64"
	case "arm64":
		archID = "arm64"
	default:
		return "", &UnsupportedPlatformError{Arch: p.Arch}
	}

	return fmt.Sprintf("%s-%s-%s", ToolName, osID, archID), nil
}
