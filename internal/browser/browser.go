// Package browser backs the export pipeline with a headless Chrome instance.
// It rasterizes rendered document HTML into full-height screenshots and
// drives the DevTools print-to-PDF pathway for native print output.
package browser

import (
	"bytes"
	"context"
	"fmt"
	"image/png"
	"io"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/agrodocs/docforge/pkg/export"
)

// Config holds browser configuration.
type Config struct {
	// DebuggerURL connects to an already-running Chrome instead of
	// launching one.
	DebuggerURL string `json:"debugger_url"`
	Bin         string `json:"bin"`
	Headless    bool   `json:"headless"`
	// CaptureWidth is the viewport width in pixels used for screenshots.
	// The page height follows the content.
	CaptureWidth int `json:"capture_width"`
	TimeoutMs    int `json:"timeout_ms"`
}

// DefaultConfig returns sensible defaults for unattended export runs.
func DefaultConfig() Config {
	return Config{
		Headless:     true,
		CaptureWidth: 1240,
		TimeoutMs:    30000,
	}
}

// GetCaptureWidth returns the capture viewport width.
func (c Config) GetCaptureWidth() int {
	if c.CaptureWidth <= 0 {
		return 1240
	}
	return c.CaptureWidth
}

// Timeout returns the per-operation deadline.
func (c Config) Timeout() time.Duration {
	if c.TimeoutMs <= 0 {
		return 30 * time.Second
	}
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

// Chrome owns a lazily-connected browser and satisfies both the capture and
// the print side of the export pipeline.
type Chrome struct {
	cfg     Config
	mu      sync.Mutex
	browser *rod.Browser
}

var (
	_ export.Capturer = (*Chrome)(nil)
	_ export.Printer  = (*Chrome)(nil)
)

// New creates a Chrome backend. The browser process starts on first use.
func New(cfg Config) *Chrome {
	return &Chrome{cfg: cfg}
}

func (c *Chrome) connect(ctx context.Context) (*rod.Browser, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.browser != nil {
		return c.browser, nil
	}

	controlURL := c.cfg.DebuggerURL
	if controlURL == "" {
		launch := launcher.New().Headless(c.cfg.Headless)
		if c.cfg.Bin != "" {
			launch = launch.Bin(c.cfg.Bin)
		}
		url, err := launch.Launch()
		if err != nil {
			return nil, fmt.Errorf("launch chrome: %w", err)
		}
		controlURL = url
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, fmt.Errorf("connect to chrome: %w", err)
	}
	c.browser = browser
	return browser, nil
}

// Close shuts down the browser connection. Safe to call when never started.
func (c *Chrome) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.browser == nil {
		return nil
	}
	err := c.browser.Close()
	c.browser = nil
	return err
}

func (c *Chrome) openPage(ctx context.Context, html string) (*rod.Page, error) {
	browser, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "about:blank"})
	if err != nil {
		return nil, fmt.Errorf("create page: %w", err)
	}
	page = page.Context(ctx).Timeout(c.cfg.Timeout())

	if err := (proto.EmulationSetDeviceMetricsOverride{
		Width:             c.cfg.GetCaptureWidth(),
		Height:            600,
		DeviceScaleFactor: 1.0,
		Mobile:            false,
	}).Call(page); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("set viewport: %w", err)
	}

	if err := page.SetDocumentContent(html); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("set document content: %w", err)
	}
	if err := page.WaitStable(300 * time.Millisecond); err != nil {
		_ = page.Close()
		return nil, fmt.Errorf("wait for document: %w", err)
	}
	return page, nil
}

// Capture renders the HTML at the configured width and returns a full-height
// PNG screenshot with its pixel geometry.
func (c *Chrome) Capture(ctx context.Context, html string) (export.Image, error) {
	page, err := c.openPage(ctx, html)
	if err != nil {
		return export.Image{}, err
	}
	defer page.Close()

	data, err := page.Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
	if err != nil {
		return export.Image{}, fmt.Errorf("screenshot: %w", err)
	}

	cfg, err := png.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return export.Image{}, fmt.Errorf("decode screenshot: %w", err)
	}
	return export.Image{Data: data, Width: cfg.Width, Height: cfg.Height}, nil
}

// A4 portrait paper size in inches, the unit PrintToPDF expects.
const (
	a4WidthInches  = 8.27
	a4HeightInches = 11.69
)

// Print runs the DevTools print-to-PDF pathway over the rendered HTML. The
// browser handles page breaks, so output quality matches a desktop print
// dialog rather than a rasterized capture.
func (c *Chrome) Print(ctx context.Context, html string) ([]byte, error) {
	page, err := c.openPage(ctx, html)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	stream, err := page.PDF(&proto.PagePrintToPDF{
		Landscape:         false,
		PrintBackground:   true,
		PaperWidth:        float64Ptr(a4WidthInches),
		PaperHeight:       float64Ptr(a4HeightInches),
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("print to pdf: %w", err)
	}
	defer stream.Close()

	data, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("read pdf stream: %w", err)
	}
	return data, nil
}

func float64Ptr(v float64) *float64 { return &v }
