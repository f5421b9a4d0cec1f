package enc

const (
	// Base64Alphabet is the standard base64 character set. Index of every character is its 6-bit value.
	Base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"

	invalid = 0xff
)

// lookup maps a byte to its 6-bit value or to `invalid`. It's filled once and never modified afterwards.
var lookup [256]byte

func init() {
	for i := range lookup {
		lookup[i] = invalid
	}
	for i := 0; i < len(Base64Alphabet); i++ {
		lookup[Base64Alphabet[i]] = byte(i)
	}
}

// normalize maps the URL-safe substitutes to their standard counterparts: `_` to `/` and `-` to `+`.
func normalize(r rune) rune {
	switch r {
	case '_':
		return '/'
	case '-':
		return '+'
	}
	return r
}

// value returns the 6-bit value of the (normalized) rune and `true`, or `false` if the rune is not
// part of the alphabet.
func value(r rune) (byte, bool) {
	r = normalize(r)
	if r < 0 || r > 0x7f {
		return 0, false
	}
	v := lookup[r]
	return v, v != invalid
}
