package rab2html

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-rab2html/internal/fileutil"
	"github.com/alnah/go-rab2html/internal/process"
	"github.com/alnah/go-rab2html/internal/rabbit"
)

// rodRasterizer screenshots slide pages in headless Chrome.
// Rod downloads Chromium on first run if none is found.
// It is not safe for concurrent use; RasterizerPool hands out one per goroutine.
type rodRasterizer struct {
	launcher *launcher.Launcher
	browser  *rod.Browser
	timeout  time.Duration
}

func newRodRasterizer(timeout time.Duration) *rodRasterizer {
	return &rodRasterizer{timeout: timeout}
}

// ensureBrowser lazily starts and connects to the browser.
func (r *rodRasterizer) ensureBrowser() error {
	if r.browser != nil {
		return nil
	}

	l := launcher.New()

	// Pre-installed browser (Docker/containerized environments)
	if bin := os.Getenv("ROD_BROWSER_BIN"); bin != "" {
		l = l.Bin(bin)
	}

	// NoSandbox required for CI and containerized environments
	if os.Getenv("CI") == "true" || os.Getenv("ROD_BROWSER_BIN") != "" {
		l = l.NoSandbox(true)
	}

	u, err := l.Launch()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher = l
	r.browser = browser
	return nil
}

// Rasterize loads page.HTML from a temporary file and writes a PNG
// screenshot of page.Width x page.Height pixels to page.Path.
func (r *rodRasterizer) Rasterize(ctx context.Context, page rabbit.SlidePage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := r.ensureBrowser(); err != nil {
		return err
	}

	htmlPath, cleanup, err := fileutil.WriteTempFile(page.HTML, "html")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	defer cleanup()

	p, err := r.browser.Page(proto.TargetCreateTarget{URL: "file://" + htmlPath})
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	defer func() { _ = p.Close() }()

	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return context.DeadlineExceeded
		}
	}
	p = p.Context(ctx).Timeout(timeout)

	err = p.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             page.Width,
		Height:            page.Height,
		DeviceScaleFactor: 1,
	})
	if err != nil {
		return fmt.Errorf("%w: setting viewport: %v", ErrPageLoad, err)
	}
	if err := p.WaitLoad(); err != nil {
		return fmt.Errorf("%w: %v", ErrPageLoad, err)
	}

	png, err := p.Screenshot(false, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
		Clip: &proto.PageViewport{
			Width:  float64(page.Width),
			Height: float64(page.Height),
			Scale:  1,
		},
	})
	if err != nil {
		return fmt.Errorf("%w: slide %d: %v", ErrScreenshot, page.Index, err)
	}

	if err := os.WriteFile(page.Path, png, 0o644); err != nil { // #nosec G306 -- published site asset
		return fmt.Errorf("%w: writing %s: %v", ErrScreenshot, page.Path, err)
	}
	return nil
}

// Close shuts the browser down. Chrome helper processes are killed with
// the browser's process group.
func (r *rodRasterizer) Close() error {
	if r.browser == nil {
		return nil
	}
	err := r.browser.Close()
	if pid := r.launcher.PID(); pid > 0 {
		process.KillProcessGroup(pid)
	}
	r.launcher.Kill()
	r.browser = nil
	r.launcher = nil
	return err
}
