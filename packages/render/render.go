// Package render formats completed responses for terminal output: status
// line coloring, optional header listing, and token-level JSON
// colorization with graceful fallback to raw text.
package render

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/mcohen01/rusttpx/packages/client"
)

// ColorMode is the tri-state color switch.
type ColorMode int

const (
	// ColorAuto enables color only when writing to an interactive
	// terminal.
	ColorAuto ColorMode = iota
	// ColorAlways forces color on (still overridden by NO_COLOR).
	ColorAlways
	// ColorNever disables color.
	ColorNever
)

// Options controls one render call.
type Options struct {
	ShowHeaders bool
	ShowBody    bool
	Color       ColorMode
}

type Renderer struct {
	writer io.Writer
}

type Option func(*Renderer)

func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{writer: os.Stdout}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func WithWriter(w io.Writer) Option {
	return func(r *Renderer) {
		r.writer = w
	}
}

// Render writes the response. Rendering never fails: a body that cannot
// be parsed degrades to raw text.
func (r *Renderer) Render(resp *client.Response, opts Options) {
	p := newPalette(r.colorEnabled(opts.Color))

	r.renderStatus(resp, p)

	if opts.ShowHeaders {
		r.renderHeaders(resp, p)
	}

	if opts.ShowBody && len(resp.Body) > 0 {
		r.renderBody(resp, p)
	}
}

// colorEnabled resolves the tri-state once per render call, never mid
// render. NO_COLOR wins over everything, including ColorAlways.
func (r *Renderer) colorEnabled(mode ColorMode) bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}
	if f, ok := r.writer.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

func (r *Renderer) renderStatus(resp *client.Response, p *palette) {
	paint := p.plain
	switch {
	case resp.IsSuccess():
		paint = p.green
	case resp.IsRedirect():
		paint = p.yellow
	case resp.IsClientError() || resp.IsServerError():
		paint = p.red
	}
	fmt.Fprintf(r.writer, "%s\n", paint(resp.Status))
}

func (r *Renderer) renderHeaders(resp *client.Response, p *palette) {
	names := make([]string, 0, len(resp.Header))
	for name := range resp.Header {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, value := range resp.Header[name] {
			fmt.Fprintf(r.writer, "%s: %s\n", p.cyan(name), p.white(value))
		}
	}
	fmt.Fprintln(r.writer)
}

func (r *Renderer) renderBody(resp *client.Response, p *palette) {
	if p.enabled {
		if out, ok := colorizeJSON(resp.Body, p); ok {
			fmt.Fprintln(r.writer, out)
			return
		}
	}
	fmt.Fprintln(r.writer, string(resp.Body))
}

// palette holds the per-call color functions. Each function is bound to
// enabled/disabled explicitly so the global tty autodetection in the
// color package never flips output mid-run.
type palette struct {
	enabled bool
	green   func(a ...interface{}) string
	yellow  func(a ...interface{}) string
	red     func(a ...interface{}) string
	cyan    func(a ...interface{}) string
	white   func(a ...interface{}) string
	blue    func(a ...interface{}) string
	magenta func(a ...interface{}) string
	plain   func(a ...interface{}) string
}

func newPalette(enabled bool) *palette {
	bind := func(attrs ...color.Attribute) func(a ...interface{}) string {
		c := color.New(attrs...)
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
		return c.SprintFunc()
	}

	return &palette{
		enabled: enabled,
		green:   bind(color.FgGreen),
		yellow:  bind(color.FgYellow),
		red:     bind(color.FgRed),
		cyan:    bind(color.FgCyan),
		white:   bind(color.FgWhite),
		blue:    bind(color.FgBlue),
		magenta: bind(color.FgMagenta),
		plain:   bind(),
	}
}
