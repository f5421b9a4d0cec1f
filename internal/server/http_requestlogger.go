package server

import (
	"github.com/bokysan/tonconv/internal/args"
	"github.com/bokysan/tonconv/internal/logging"
	"github.com/go-chi/chi/middleware"
	"net"
	"net/http"
)

type NextHandlerFunc func(next http.Handler) http.Handler

// GetRequestLogger returns the access log middleware matching the configured log format
func GetRequestLogger(address *net.TCPAddr) NextHandlerFunc {
	if args.General.LogFormat == "json" {
		return middleware.RequestLogger(
			&logging.JSONLogFormatter{
				ServerAddress: address,
			},
		)
	}

	return middleware.RequestLogger(
		&middleware.DefaultLogFormatter{
			Logger:  &logging.ChiLogWriter{},
			NoColor: !args.ColorEnabled(false),
		},
	)
}
