package convert

import (
	"bufio"
	"encoding/json"
	"fmt"
	"github.com/bokysan/tonconv/internal/address"
	"github.com/bokysan/tonconv/internal/logging"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"io"
	"os"
	"strings"
)

// ExitInvalidAddress is the exit code of `convert --strict` when at least one address was invalid
const ExitInvalidAddress = 2

// Result is one line of `convert --json` output
type Result struct {
	Address string `json:"address"`
	Result  string `json:"result"`
	Valid   bool   `json:"valid"`
}

// InvalidAddressError is returned in strict mode
type InvalidAddressError struct {
	Address string
}

func (e *InvalidAddressError) Error() string {
	return fmt.Sprintf("%s: %q", address.InvalidAddressFormat, e.Address)
}

func (e *InvalidAddressError) ExitCode() int {
	return ExitInvalidAddress
}

// Command converts the addresses given as arguments, or every line of stdin if there are none
type Command struct {
	Strict bool `json:"strict" short:"s" long:"strict" env:"STRICT" description:"Exit with an error if any of the addresses is invalid"`
	Json   bool `json:"json"   short:"j" long:"json"   env:"JSON"   description:"Print one JSON object per address instead of plain text"`

	Args struct {
		Addresses []string `positional-arg-name:"ADDRESS" description:"User-friendly addresses. If not given, addresses are read from stdin, one per line."`
	} `positional-args:"yes"`

	in  io.Reader
	out io.Writer
}

func NewCommand() *Command {
	return &Command{
		in:  os.Stdin,
		out: os.Stdout,
	}
}

func (c *Command) Execute(args []string) error {
	logging.SetupLogging()

	addresses := append(c.Args.Addresses, args...)
	if len(addresses) > 0 {
		return c.Convert(addresses)
	}

	log.Debugf("No addresses given, reading stdin")
	return c.ConvertStream(c.in)
}

// Convert converts all the addresses and prints the results in order
func (c *Command) Convert(addresses []string) error {
	var errs error
	for _, a := range addresses {
		if err := c.print(a); err != nil {
			if _, ok := err.(*InvalidAddressError); !ok {
				return err
			}
			errs = multierror.Append(errs, err)
		}
	}
	return wrap(errs)
}

// ConvertStream treats every line of the input as an address
func (c *Command) ConvertStream(in io.Reader) error {
	var errs error
	reader := bufio.NewReader(in)
	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return errors.Wrapf(err, "Could not read input")
		}
		if line != "" || err == nil {
			if perr := c.print(strings.TrimRight(line, "\r\n")); perr != nil {
				if _, ok := perr.(*InvalidAddressError); !ok {
					return perr
				}
				errs = multierror.Append(errs, perr)
			}
		}
		if err == io.EOF {
			return wrap(errs)
		}
	}
}

// wrap returns a single invalid address as is and a list of them as an error which keeps the exit code
func wrap(errs error) error {
	if errs == nil {
		return nil
	}
	if merr, ok := errs.(*multierror.Error); ok && len(merr.Errors) == 1 {
		return merr.Errors[0]
	}
	return &strictError{errs}
}

// print writes the result. In strict mode, an invalid address is returned as an error.
func (c *Command) print(a string) error {
	raw, err := address.ToRaw(a)
	valid := err == nil
	if !valid {
		raw = address.InvalidAddressFormat
		log.Debugf("Invalid address: %q", a)
	}

	if c.Json {
		line, merr := json.Marshal(Result{Address: a, Result: raw, Valid: valid})
		if merr != nil {
			return errors.WithStack(merr)
		}
		raw = string(line)
	}

	if _, werr := fmt.Fprintln(c.out, raw); werr != nil {
		return errors.Wrapf(werr, "Could not write output")
	}

	if !valid && c.Strict {
		return &InvalidAddressError{Address: a}
	}
	return nil
}

// strictError keeps the exit code of a list of invalid addresses
type strictError struct {
	error
}

func (s *strictError) ExitCode() int {
	return ExitInvalidAddress
}
