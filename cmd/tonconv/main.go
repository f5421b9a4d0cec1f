package main

import (
	"fmt"
	"github.com/bokysan/tonconv/internal/args"
	"github.com/bokysan/tonconv/internal/commands/convert"
	"github.com/bokysan/tonconv/internal/commands/interactive"
	"github.com/bokysan/tonconv/internal/commands/server"
	"github.com/bokysan/tonconv/internal/commands/version"
	tcFlags "github.com/bokysan/tonconv/internal/flags"
	"github.com/bokysan/tonconv/internal/util"
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	"os"
	"path"
)

const (
	// ErrConfigFileDoesNotExist is raised when configuration file cannot be found
	ErrConfigFileDoesNotExist = flags.ErrInvalidTag + 1
)

// TonConv is the main executable
type TonConv struct {
	parser *flags.Parser
}

// NewTonConv will create a new instance of TonConv and initialize the parser
func NewTonConv() *TonConv {
	executablePath := path.Base(os.Args[0])

	tc := &TonConv{
		parser: flags.NewNamedParser(executablePath, flags.HelpFlag|flags.PrintErrors),
	}
	tc.parser.LongDescription = "Converts user-friendly TON addresses (EQ... / UQ...) into their raw hexadecimal form."

	tc.setupGeneral()
	tc.addCommand("version", "Print the version", "Print the application version and exit", &version.Command{})
	tc.addCommand("convert", "Convert addresses", "Convert the given addresses, or every line of stdin, and print the raw form", convert.NewCommand())
	tc.addCommand("interactive", "Live converter in the terminal", "Convert the address as you type. Ctrl-Y or Tab copies the result.", interactive.NewCommand())
	tc.addCommand("server", "Run the web converter", "Serve the converter web page, the JSON API and the live conversion websocket", server.NewCommand())

	return tc
}

// setupGeneral will configure general options
func (tc *TonConv) setupGeneral() {
	if _, err := tc.parser.AddGroup("General", "General options", &args.General); err != nil {
		util.MustErrorNilOrExit(errors.WithStack(err))
	}
}

func (tc *TonConv) addCommand(name, short, long string, data interface{}) {
	_, err := tc.parser.AddCommand(name, short, long, data)
	util.MustErrorNilOrExit(err)
}

// main starts tonconv and reads the configuration file
func main() {
	tonConv := NewTonConv()
	args.General.ConfigurationFile = func(file string) error {
		if _, err := os.Stat(file); os.IsNotExist(err) {
			util.MustErrorNilOrExit(&flags.Error{
				Type:    ErrConfigFileDoesNotExist,
				Message: fmt.Sprintf("Configuration file %s does not exist.", file),
			})
		}

		args.General.ConfigurationFilePath = file
		return tcFlags.NewYamlParser(tonConv.parser).ParseFile(file)
	}

	_, err := tonConv.parser.Parse()
	util.MustErrorNilOrExit(err)
}
