package addr

import (
	"github.com/pkg/errors"
	"strings"
)

const (
	SchemeHttp  = "http"
	SchemeHttps = "https"
)

// ProtoAddress is a combination of scheme and host address, e.g. `https://0.0.0.0:8443`
type ProtoAddress struct {
	Scheme string `json:"scheme"`
	Host   string `json:"host"`
}

// String will combine the scheme with the host in format <scheme>://<host>
func (p ProtoAddress) String() string {
	return p.Scheme + "://" + p.Host
}

// Secure returns true if the address requires TLS
func (p ProtoAddress) Secure() bool {
	return p.Scheme == SchemeHttps
}

// ParseAddress does the reverse of ProtoAddress.String -- it will take a string and convert it to an
// address. An address without the scheme defaults to `http`.
func ParseAddress(a string) (ProtoAddress, error) {
	a = strings.TrimSpace(a)
	if a == "" {
		return ProtoAddress{}, errors.Errorf("Empty address")
	}

	parts := strings.SplitN(a, "://", 2)
	if len(parts) == 1 {
		parts = []string{SchemeHttp, parts[0]}
	}

	scheme := strings.ToLower(parts[0])
	switch scheme {
	case SchemeHttp, SchemeHttps:
	case "ws":
		scheme = SchemeHttp
	case "wss":
		scheme = SchemeHttps
	default:
		return ProtoAddress{}, errors.Errorf("Invalid address format, unsupported scheme '%v': %v", parts[0], a)
	}

	if parts[1] == "" {
		return ProtoAddress{}, errors.Errorf("Invalid address format, missing host: %v", a)
	}

	return ProtoAddress{
		Scheme: scheme, Host: parts[1],
	}, nil
}

// UnmarshalFlag is called by the flags library when parsing the command line
func (p *ProtoAddress) UnmarshalFlag(value string) error {
	parsed, err := ParseAddress(value)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// MarshalFlag is the reverse of UnmarshalFlag
func (p ProtoAddress) MarshalFlag() (string, error) {
	return p.String(), nil
}

// UnmarshalYAML allows the address to be written as a plain string in the configuration file
func (p *ProtoAddress) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var value string
	if err := unmarshal(&value); err != nil {
		return errors.WithStack(err)
	}
	return p.UnmarshalFlag(value)
}
