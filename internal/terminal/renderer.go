package terminal

import (
	"fmt"
	"github.com/bokysan/tonconv/internal/ui"
	log "github.com/sirupsen/logrus"
	"io"
	"strings"
	"sync"
	"unicode/utf8"
)

const (
	Bold      = "\x1b[1m"
	Reset     = "\x1b[0m"
	DarkGray  = "\x1b[90m"
	Green     = "\x1b[32m"
	Red       = "\x1b[31m"
	EraseLine = "\x1b[K"

	InputLabel   = "User-friendly address: "
	OutputLabel  = "Raw address:           "
	CopiedNotice = "Copied to clipboard!"
	HelpText     = "Ctrl-Y / Tab: copy, Enter / Ctrl-C: quit"
)

// Renderer draws the session state as a block of three lines and parks the cursor at the end of the input
// line. Every frame is written with a single Write call.
type Renderer struct {
	mu    sync.Mutex
	out   io.Writer
	color bool
	done  bool
}

func NewRenderer(out io.Writer, color bool) *Renderer {
	return &Renderer{
		out:   out,
		color: color,
	}
}

func (r *Renderer) paint(code, text string) string {
	if !r.color || text == "" {
		return text
	}
	return code + text + Reset
}

// Render redraws the block
func (r *Renderer) Render(s ui.State) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return
	}

	output := s.Output
	if s.Valid() {
		output = r.paint(Bold, output)
	} else {
		output = r.paint(Red, output)
	}

	notice := r.paint(DarkGray, HelpText)
	if s.Copied {
		notice = r.paint(Green, CopiedNotice)
	}

	b := &strings.Builder{}
	b.WriteString("\r" + EraseLine + InputLabel + s.Input)
	b.WriteString("\r\n" + EraseLine + OutputLabel + output)
	b.WriteString("\r\n" + EraseLine + notice)
	// back to the end of the input
	b.WriteString(fmt.Sprintf("\x1b[2A\x1b[%dG", utf8.RuneCountInString(InputLabel+s.Input)+1))

	if _, err := io.WriteString(r.out, b.String()); err != nil {
		log.WithError(err).Debugf("Could not render: %v", err)
	}
}

// Finish moves the cursor below the block. Nothing is drawn afterwards.
func (r *Renderer) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.done {
		return
	}
	r.done = true
	if _, err := io.WriteString(r.out, "\x1b[2B\r\n"); err != nil {
		log.WithError(err).Debugf("Could not render: %v", err)
	}
}
