package ui

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"io"
	"os/exec"
	"strings"
	"sync"
)

// Clipboard kinds, as accepted by NewClipboard
const (
	ClipboardAuto    = "auto"
	ClipboardOSC52   = "osc52"
	ClipboardCommand = "command"
	ClipboardNone    = "none"
)

// ErrClipboardUnavailable is returned when there is no way to reach the system clipboard
var ErrClipboardUnavailable = errors.New("clipboard is not available")

// Clipboard writes text to the system clipboard
type Clipboard interface {
	WriteText(ctx context.Context, text string) error
}

// knownCommands are tried in order when looking for a clipboard program
var knownCommands = []string{
	"pbcopy",
	"wl-copy",
	"xclip -selection clipboard",
	"xsel --clipboard --input",
	"clip.exe",
}

// lookPath is replaced in tests
var lookPath = exec.LookPath

// NewClipboard creates a clipboard of the given kind. `command` is only used for `command` and `auto`
// kinds; when empty, the first of the well known clipboard programs found on the PATH is used. `out` is
// the terminal which receives OSC 52 sequences.
func NewClipboard(kind, command string, out io.Writer) (Clipboard, error) {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case ClipboardNone:
		return &NoClipboard{}, nil
	case ClipboardOSC52:
		return NewOSC52Clipboard(out), nil
	case ClipboardCommand:
		if command == "" {
			command = findCommand()
		}
		if command == "" {
			return nil, errors.Errorf("No clipboard program found. Tried: %v", strings.Join(knownCommands, ", "))
		}
		return NewCommandClipboard(command), nil
	case ClipboardAuto, "":
		if command == "" {
			command = findCommand()
		}
		if command != "" {
			return NewCommandClipboard(command), nil
		}
		log.Debugf("No clipboard program found, falling back to OSC 52")
		return NewOSC52Clipboard(out), nil
	default:
		return nil, errors.Errorf("Unknown clipboard kind: %v", kind)
	}
}

func findCommand() string {
	for _, c := range knownCommands {
		program := strings.Fields(c)[0]
		if _, err := lookPath(program); err == nil {
			return c
		}
	}
	return ""
}

// ------ // ------ // ------ // ------ // ------ // ------ // ------ //

// OSC52Clipboard asks the terminal emulator to set the clipboard by writing the OSC 52 escape sequence.
// Works over SSH, as long as the terminal supports it.
type OSC52Clipboard struct {
	out io.Writer
}

func NewOSC52Clipboard(out io.Writer) *OSC52Clipboard {
	return &OSC52Clipboard{
		out: out,
	}
}

func (o *OSC52Clipboard) String() string {
	return ClipboardOSC52
}

func (o *OSC52Clipboard) WriteText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}
	seq := "\x1b]52;c;" + base64.StdEncoding.EncodeToString([]byte(text)) + "\a"
	if _, err := io.WriteString(o.out, seq); err != nil {
		return errors.Wrapf(err, "Could not write OSC 52 sequence")
	}
	return nil
}

// ------ // ------ // ------ // ------ // ------ // ------ // ------ //

// CommandClipboard pipes the text into an external program, e.g. `pbcopy` or `xclip`
type CommandClipboard struct {
	Command string
}

func NewCommandClipboard(command string) *CommandClipboard {
	return &CommandClipboard{
		Command: command,
	}
}

func (c *CommandClipboard) String() string {
	return fmt.Sprintf("%s(%s)", ClipboardCommand, c.Command)
}

func (c *CommandClipboard) WriteText(ctx context.Context, text string) error {
	fields := strings.Fields(c.Command)
	if len(fields) == 0 {
		return errors.WithStack(ErrClipboardUnavailable)
	}

	cmd := exec.CommandContext(ctx, fields[0], fields[1:]...)
	cmd.Stdin = strings.NewReader(text)
	stderr := bytes.NewBuffer([]byte{})
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "Failed executing %s: %s", c.Command, strings.TrimSpace(stderr.String()))
	}
	return nil
}

// ------ // ------ // ------ // ------ // ------ // ------ // ------ //

// NoClipboard refuses every write
type NoClipboard struct {
}

func (n *NoClipboard) String() string {
	return ClipboardNone
}

func (n *NoClipboard) WriteText(context.Context, string) error {
	return errors.WithStack(ErrClipboardUnavailable)
}

// ------ // ------ // ------ // ------ // ------ // ------ // ------ //

// MemoryClipboard keeps the last written text. Useful when there is no system clipboard at all.
type MemoryClipboard struct {
	mu   sync.Mutex
	text string
	err  error
}

// Fail makes every following write return `err`. Passing `nil` restores normal operation.
func (m *MemoryClipboard) Fail(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.err = err
}

func (m *MemoryClipboard) WriteText(ctx context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return errors.WithStack(err)
	}
	if m.err != nil {
		return m.err
	}
	m.text = text
	return nil
}

// Text returns the last text written
func (m *MemoryClipboard) Text() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.text
}
