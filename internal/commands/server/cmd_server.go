package server

import (
	"github.com/bokysan/tonconv/internal/logging"
	"github.com/bokysan/tonconv/internal/server"
	"github.com/bokysan/tonconv/internal/util/addr"
	"github.com/davecgh/go-spew/spew"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"os"
	"os/signal"
	"syscall"
)

// Command runs the web front-end of the converter
type Command struct {
	server.Config

	srv *server.HttpServer
}

func NewCommand() *Command {
	return &Command{
		Config: server.Config{
			Address:   addr.ProtoAddress{Scheme: addr.SchemeHttp, Host: "127.0.0.1:8080"},
			ReadLimit: server.DefaultReadLimit,
		},
	}
}

func (s *Command) Startup() error {
	log.Tracef("Server configuration: %s", spew.Sdump(s.Config))

	s.srv = server.NewHttpServer(s.Config)
	if err := s.srv.Startup(); err != nil {
		return errors.Wrapf(err, "Could not start %v", s.srv)
	}
	return nil
}

func (s *Command) Shutdown() error {
	var errs error

	log.Infof("Graceful server shutdown...")
	if s.srv != nil {
		if err := s.srv.Shutdown(); err != nil {
			errs = multierror.Append(errs, errors.Wrapf(err, "Could not shutdown %v", s.srv))
		}
	}

	return errs
}

func (s *Command) Execute([]string) error {
	logging.SetupLogging()

	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(interrupted)

	if err := s.Startup(); err != nil {
		return err
	}

	<-interrupted
	return s.Shutdown()
}
