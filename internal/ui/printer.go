package ui

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/muurk/coopdoor/internal/deviceapi"
)

// Printer writes UI components to a writer. Styled output is used only when
// the writer is a terminal; otherwise plain text is written.
type Printer struct {
	mu     sync.Mutex
	out    io.Writer
	width  int
	styled bool
}

// NewPrinter creates a Printer for w. If w is nil, os.Stdout is used.
func NewPrinter(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	styled := false
	if f, ok := w.(*os.File); ok && f == os.Stdout {
		styled = IsTerminal()
	}
	return &Printer{
		out:    w,
		width:  GetTerminalWidth(),
		styled: styled,
	}
}

// SetStyled forces styled (true) or plain (false) output
func (p *Printer) SetStyled(styled bool) *Printer {
	p.styled = styled
	return p
}

// Styled reports whether the printer renders lipgloss boxes
func (p *Printer) Styled() bool {
	return p.styled
}

// Width returns the terminal width used by this printer
func (p *Printer) Width() int {
	return p.width
}

// Notify prints a notice; Printer is a deviceapi.Notifier.
// Completions may call it from several goroutines.
func (p *Printer) Notify(n deviceapi.Notice) {
	if p.styled {
		p.Println(RenderNotice(n, p.width))
		return
	}
	p.Println(PlainNotice(n))
}

// Failure prints an error with the troubleshooting tips deviceapi knows for it.
func (p *Printer) Failure(title string, err error) {
	if !p.styled {
		p.Println(fmt.Sprintf("%s %s: %s", FailureMarker, title, deviceapi.GetShortErrorMessage(err)))
		return
	}
	tips := TroubleshootingTips(deviceapi.GetTroubleshootingHint(err))
	p.Println(RenderFailure(title, err, tips, p.width))
}

// Println writes content with a newline
func (p *Printer) Println(content string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(p.out, content)
}

// Printf writes formatted content
func (p *Printer) Printf(format string, args ...any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintf(p.out, format, args...)
}
