package report

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	crerr "github.com/cockroachdb/errors"
)

// ChromedpEngine prints the HTML to PDF with headless Chrome. chromePath is
// either a local executable or a ws:// DevTools URL of a running browser.
type ChromedpEngine struct {
	chromePath string
	timeout    time.Duration
}

func NewChromedpEngine(chromePath string, timeout time.Duration) *ChromedpEngine {
	if timeout <= 0 {
		timeout = defaultEngineTimeout
	}
	return &ChromedpEngine{chromePath: strings.TrimSpace(chromePath), timeout: timeout}
}

func (e *ChromedpEngine) Name() string {
	return "chromedp"
}

func (e *ChromedpEngine) Convert(ctx context.Context, html []byte, outputPath string) error {
	allocCtx, cancelAlloc := e.allocator(ctx)
	defer cancelAlloc()

	taskCtx, cancelTask := chromedp.NewContext(allocCtx)
	defer cancelTask()
	taskCtx, cancelTimeout := context.WithTimeout(taskCtx, e.timeout)
	defer cancelTimeout()

	var pdf []byte
	err := chromedp.Run(taskCtx, chromedp.Tasks{
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, string(html)).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdf = buf
			return nil
		}),
	})
	if err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return crerr.Wrapf(ErrEngineUnavailable, "chrome: %v", err)
		}
		return crerr.Wrapf(ErrConversion, "chrome print: %v", err)
	}

	tmpPath := tempOutputPath(outputPath)
	defer os.Remove(tmpPath)
	if err := os.WriteFile(tmpPath, pdf, 0o644); err != nil {
		return crerr.Wrapf(ErrConversion, "write pdf: %v", err)
	}
	return commitOutput(tmpPath, outputPath)
}

func (e *ChromedpEngine) allocator(ctx context.Context) (context.Context, context.CancelFunc) {
	if strings.HasPrefix(e.chromePath, "ws://") || strings.HasPrefix(e.chromePath, "wss://") {
		return chromedp.NewRemoteAllocator(ctx, e.chromePath)
	}
	opts := append([]chromedp.ExecAllocatorOption(nil), chromedp.DefaultExecAllocatorOptions[:]...)
	if e.chromePath != "" {
		opts = append(opts, chromedp.ExecPath(e.chromePath))
	}
	return chromedp.NewExecAllocator(ctx, opts...)
}
