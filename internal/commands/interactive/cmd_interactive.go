package interactive

import (
	"context"
	"github.com/bokysan/tonconv/internal/args"
	"github.com/bokysan/tonconv/internal/logging"
	"github.com/bokysan/tonconv/internal/terminal"
	"github.com/bokysan/tonconv/internal/ui"
	"github.com/k0kubun/go-ansi"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	sshterm "golang.org/x/crypto/ssh/terminal"
	"os"
	"os/signal"
	"syscall"
)

// Command runs the live converter in the terminal
type Command struct {
	Clipboard        string `json:"clipboard"        long:"clipboard"         env:"CLIPBOARD"         description:"How to reach the clipboard" choice:"auto" choice:"osc52" choice:"command" choice:"none" default:"auto"`
	ClipboardCommand string `json:"clipboardCommand" long:"clipboard-command" env:"CLIPBOARD_COMMAND" description:"Program which receives the copied text on stdin, e.g. 'xclip -selection clipboard'"`
}

func NewCommand() *Command {
	return &Command{
		Clipboard: ui.ClipboardAuto,
	}
}

func (c *Command) Execute([]string) error {
	logging.SetupLogging()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interrupted)
	go func() {
		select {
		case <-interrupted:
			cancel()
		case <-ctx.Done():
		}
	}()

	out := terminal.NewLockedWriter(ansi.NewAnsiStdout())
	clipboard, err := ui.NewClipboard(c.Clipboard, c.ClipboardCommand, out)
	if err != nil {
		return errors.WithStack(err)
	}
	log.Debugf("Using clipboard %v", clipboard)

	session := ui.NewSession(clipboard, nil)
	defer session.Close()

	fd := int(os.Stdin.Fd())
	if !sshterm.IsTerminal(fd) {
		log.Debugf("Stdin is not a terminal, converting line by line")
		return terminal.RunLines(ctx, os.Stdin, out, session)
	}

	state, err := sshterm.MakeRaw(fd)
	if err != nil {
		return errors.Wrapf(err, "Could not switch terminal to raw mode")
	}
	defer func() {
		if err := sshterm.Restore(fd, state); err != nil {
			log.WithError(err).Errorf("Could not restore terminal: %v", err)
		}
	}()

	color := args.ColorEnabled(sshterm.IsTerminal(int(os.Stdout.Fd())))
	return terminal.Run(ctx, os.Stdin, out, session, color)
}
