package util

import (
	"github.com/jessevdk/go-flags"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"os"
)

const (
	ErrGeneric = 99
)

// ExitCoder is implemented by errors which carry their own process exit code
type ExitCoder interface {
	ExitCode() int
}

// MustErrorNilOrExit will check the provided argument. If it's `nil` it will simply return. If it's
// not `nil`, it will log the error as `log.FatalLevel` and exit immediately with an error code.
// The error code is taken from `flags.Error` or from an ExitCoder anywhere in the cause chain. Any other
// error exits with a generic error code - 99.
func MustErrorNilOrExit(err error) {
	if err == nil {
		return
	}

	if flagsError, ok := errors.Cause(err).(*flags.Error); ok {
		if flagsError.Type == flags.ErrHelp {
			os.Exit(0)
			return
		}

		log.StandardLogger().WithError(err).Logf(log.FatalLevel, "Error: %+v", err)
		log.Exit(int(flagsError.Type))
		return
	}

	code := ErrGeneric
	if coder, ok := errors.Cause(err).(ExitCoder); ok {
		code = coder.ExitCode()
	} else if coder, ok := err.(ExitCoder); ok {
		code = coder.ExitCode()
	}

	log.StandardLogger().WithError(err).Logf(log.FatalLevel, "Error: %+v", err)
	log.Exit(code)
}
