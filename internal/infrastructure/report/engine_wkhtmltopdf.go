package report

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/google/uuid"
)

const defaultEngineTimeout = 60 * time.Second

// WkhtmltopdfEngine pipes the HTML into the wkhtmltopdf binary.
type WkhtmltopdfEngine struct {
	binary  string
	timeout time.Duration
}

func NewWkhtmltopdfEngine(binary string, timeout time.Duration) *WkhtmltopdfEngine {
	if strings.TrimSpace(binary) == "" {
		binary = "wkhtmltopdf"
	}
	if timeout <= 0 {
		timeout = defaultEngineTimeout
	}
	return &WkhtmltopdfEngine{binary: binary, timeout: timeout}
}

func (e *WkhtmltopdfEngine) Name() string {
	return "wkhtmltopdf"
}

func (e *WkhtmltopdfEngine) Convert(ctx context.Context, html []byte, outputPath string) error {
	binary, err := exec.LookPath(e.binary)
	if err != nil {
		return crerr.Wrapf(ErrEngineUnavailable, "lookup %s: %v", e.binary, err)
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	tmpPath := tempOutputPath(outputPath)
	defer os.Remove(tmpPath)

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, binary, "--quiet", "--encoding", "utf-8", "-", tmpPath)
	cmd.Stdin = bytes.NewReader(html)
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return crerr.Wrapf(ErrConversion, "wkhtmltopdf timed out after %s", e.timeout)
		}
		return crerr.Wrapf(ErrConversion, "wkhtmltopdf: %v: %s", err, strings.TrimSpace(stderr.String()))
	}

	return commitOutput(tmpPath, outputPath)
}

// tempOutputPath sits next to the target so the final rename stays on one filesystem.
func tempOutputPath(outputPath string) string {
	return filepath.Join(filepath.Dir(outputPath), "."+uuid.NewString()+".pdf")
}

func commitOutput(tmpPath, outputPath string) error {
	info, err := os.Stat(tmpPath)
	if err != nil {
		return crerr.Wrapf(ErrConversion, "engine produced no output: %v", err)
	}
	if info.Size() == 0 {
		return crerr.Wrap(ErrConversion, "engine produced an empty file")
	}
	if err := os.Rename(tmpPath, outputPath); err != nil {
		return crerr.Wrapf(ErrConversion, "move output into place: %v", err)
	}
	return nil
}
