package enc

const hexDigits = "0123456789abcdef"

// Base64ToHex converts a base64 (or base64url) string into a lowercase hexadecimal string.
//
// Every character contributes six bits, most significant bit first. Characters outside of the alphabet
// (padding, whitespace, anything else) are skipped. The resulting bit stream is read four bits at a time;
// a trailing group shorter than four bits is dropped. The function never fails: input without a single
// valid character simply yields an empty string.
func Base64ToHex(s string) string {
	out := make([]byte, 0, len(s)*6/4)

	var acc uint
	var bits uint
	for _, r := range s {
		v, ok := value(r)
		if !ok {
			continue
		}
		acc = acc<<6 | uint(v)
		bits += 6
		for bits >= 4 {
			bits -= 4
			out = append(out, hexDigits[(acc>>bits)&0xf])
		}
		acc &= 1<<bits - 1
	}

	return string(out)
}

// ValidCount returns the number of characters in `s` which Base64ToHex would decode.
func ValidCount(s string) (n int) {
	for _, r := range s {
		if _, ok := value(r); ok {
			n++
		}
	}
	return
}
