package server

import (
	"github.com/bokysan/tonconv/internal/util/addr"
	"github.com/bokysan/tonconv/internal/util/cert"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

const DefaultReadLimit = 4096

// Config holds everything needed to start the HTTP server
type Config struct {
	cert.ServerConfig

	Address           addr.ProtoAddress `json:"address"           short:"a" long:"listen"             env:"LISTEN"             description:"Listen address, e.g. 'http://127.0.0.1:8080' or 'https://0.0.0.0:8443'" default:"http://127.0.0.1:8080"`
	EnableCompression bool              `json:"enableCompression"           long:"enable-compression" env:"ENABLE_COMPRESSION" description:"Negotiate permessage-deflate on websocket connections"`
	ReadLimit         int64             `json:"readLimit"                   long:"read-limit"         env:"READ_LIMIT"         description:"Maximum size of a request body or a websocket message, in bytes" default:"4096"`
}

// Validate checks the configuration and returns all problems found
func (c *Config) Validate() error {
	var errs error

	if c.Address.Host == "" {
		errs = multierror.Append(errs, errors.Errorf("Listen address is not defined"))
	}
	if c.Address.Secure() && !c.HasCertificate() {
		errs = multierror.Append(errs, errors.Errorf("Listen address %v requires a certificate", c.Address))
	}
	if !c.Address.Secure() && c.HasCertificate() {
		errs = multierror.Append(errs, errors.Errorf("Certificate given but listen address %v is not https", c.Address))
	}
	if c.ReadLimit <= 0 {
		errs = multierror.Append(errs, errors.Errorf("Read limit must be positive, got %v", c.ReadLimit))
	}

	return errs
}
