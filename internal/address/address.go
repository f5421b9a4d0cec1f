// Package address converts user-friendly TON addresses into their raw hexadecimal form.
package address

import (
	"github.com/bokysan/tonconv/internal/util/enc"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"strings"
)

const (
	// InvalidAddressFormat is returned by Convert in place of a hex string when the input is not acceptable.
	InvalidAddressFormat = "Invalid address format"

	// BounceablePrefix starts every bounceable user-friendly address
	BounceablePrefix = "EQ"
	// NonBounceablePrefix starts every non-bounceable user-friendly address
	NonBounceablePrefix = "UQ"

	prefixLength = 2
)

// ErrInvalidAddressFormat is returned by ToRaw when the input does not start with a known prefix
var ErrInvalidAddressFormat = errors.New(InvalidAddressFormat)

// HasValidPrefix returns true if the address starts with `EQ` or `UQ`. Comparison is case-sensitive.
func HasValidPrefix(addr string) bool {
	return strings.HasPrefix(addr, BounceablePrefix) || strings.HasPrefix(addr, NonBounceablePrefix)
}

// ToRaw strips the prefix from the user-friendly address and decodes the rest into a hexadecimal string.
// Payload is decoded permissively: characters outside of the base64 alphabet are skipped and never
// cause an error. The only error ever returned is ErrInvalidAddressFormat.
func ToRaw(addr string) (raw string, err error) {
	if !HasValidPrefix(addr) {
		return "", ErrInvalidAddressFormat
	}

	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Recovered while decoding %q: %v", addr, r)
			raw, err = "", ErrInvalidAddressFormat
		}
	}()

	return enc.Base64ToHex(addr[prefixLength:]), nil
}

// Convert returns the raw hexadecimal representation of the address or InvalidAddressFormat. It is a pure
// function: same input always yields the same output.
func Convert(addr string) string {
	raw, err := ToRaw(addr)
	if err != nil {
		return InvalidAddressFormat
	}
	return raw
}
