package terminal

import "unicode"

// Action tells the caller what to do after a key has been fed into the Editor
type Action int

const (
	ActionNone Action = iota
	ActionChanged
	ActionCopy
	ActionQuit
)

const (
	keyCtrlC     = 0x03
	keyCtrlD     = 0x04
	keyBackspace = 0x08
	keyTab       = 0x09
	keyLF        = 0x0a
	keyCR        = 0x0d
	keyCtrlU     = 0x15
	keyCtrlY     = 0x19
	keyEscape    = 0x1b
	keyDelete    = 0x7f
)

type escapeState int

const (
	escNone escapeState = iota
	escStart
	escSequence
)

// Editor is a minimal single-line editor. It only ever appends or removes at the end of the line, the
// cursor is not movable: arrow keys and other escape sequences are swallowed.
type Editor struct {
	line   []rune
	escape escapeState
}

func NewEditor() *Editor {
	return &Editor{
		line: make([]rune, 0, 64),
	}
}

// Text returns the current content of the line
func (e *Editor) Text() string {
	return string(e.line)
}

// Feed processes one rune of raw terminal input
func (e *Editor) Feed(r rune) Action {
	switch e.escape {
	case escStart:
		if r == '[' || r == 'O' {
			e.escape = escSequence
		} else {
			e.escape = escNone
		}
		return ActionNone
	case escSequence:
		// CSI sequences end with a byte in range 0x40-0x7e
		if r >= 0x40 && r <= 0x7e {
			e.escape = escNone
		}
		return ActionNone
	}

	switch r {
	case keyEscape:
		e.escape = escStart
		return ActionNone
	case keyCtrlC, keyCtrlD, keyCR, keyLF:
		return ActionQuit
	case keyCtrlY, keyTab:
		return ActionCopy
	case keyBackspace, keyDelete:
		if len(e.line) == 0 {
			return ActionNone
		}
		e.line = e.line[:len(e.line)-1]
		return ActionChanged
	case keyCtrlU:
		if len(e.line) == 0 {
			return ActionNone
		}
		e.line = e.line[:0]
		return ActionChanged
	}

	if !unicode.IsPrint(r) {
		return ActionNone
	}
	e.line = append(e.line, r)
	return ActionChanged
}
