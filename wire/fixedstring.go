package wire

import (
	"fmt"
	"unicode/utf8"
)

// PutFixedString writes s into dst (len(dst) must be N), left-justified and
// zero-padded. It fails if s does not fit or is not valid UTF-8.
func PutFixedString(dst []byte, s string) error {
	if !utf8.ValidString(s) {
		return fmt.Errorf("igtlink: fixed string is not valid UTF-8")
	}
	if len(s) > len(dst) {
		return fmt.Errorf("igtlink: fixed string %q exceeds %d-byte field", s, len(dst))
	}
	n := copy(dst, s)
	for i := n; i < len(dst); i++ {
		dst[i] = 0
	}
	return nil
}

// FixedString decodes an N-byte field into the UTF-8 prefix up to the first
// zero byte, per the FixedString<N> invariant.
func FixedString(src []byte) (string, error) {
	end := len(src)
	for i, b := range src {
		if b == 0 {
			end = i
			break
		}
	}
	if !utf8.Valid(src[:end]) {
		return "", fmt.Errorf("igtlink: fixed string field is not valid UTF-8")
	}
	return string(src[:end]), nil
}
