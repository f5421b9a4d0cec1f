// Package terminal implements the live terminal front-end: every keystroke re-converts the whole input.
package terminal

import (
	"bufio"
	"context"
	"fmt"
	"github.com/bokysan/tonconv/internal/ui"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"io"
	"strings"
)

// Run drives the session from raw terminal input until the user quits or the input ends. The terminal
// is expected to already be in raw mode.
func Run(ctx context.Context, in io.Reader, out io.Writer, session *ui.Session, color bool) error {
	renderer := NewRenderer(out, color)
	defer renderer.Finish()

	session.OnChange(renderer.Render)
	renderer.Render(session.State())

	editor := NewEditor()
	reader := bufio.NewReader(in)
	for {
		if ctx.Err() != nil {
			return nil
		}

		r, _, err := reader.ReadRune()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return errors.Wrapf(err, "Could not read input")
		}

		switch editor.Feed(r) {
		case ActionChanged:
			session.SetInput(editor.Text())
		case ActionCopy:
			go func() {
				if err := session.Copy(ctx); err != nil {
					log.WithError(err).Debugf("Copy failed: %v", err)
				}
			}()
		case ActionQuit:
			return nil
		}
	}
}

// RunLines is the fallback for input which is not a terminal: every line is treated as the full content
// of the input field and the converted value is printed on its own line.
func RunLines(ctx context.Context, in io.Reader, out io.Writer, session *ui.Session) error {
	reader := bufio.NewReader(in)
	for {
		if ctx.Err() != nil {
			return nil
		}

		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return errors.Wrapf(err, "Could not read input")
		}
		if line == "" && err == io.EOF {
			return nil
		}

		state := session.SetInput(strings.TrimRight(line, "\r\n"))
		if _, werr := fmt.Fprintln(out, state.Output); werr != nil {
			return errors.Wrapf(werr, "Could not write output")
		}

		if err == io.EOF {
			return nil
		}
	}
}
