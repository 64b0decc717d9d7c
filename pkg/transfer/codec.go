package transfer

import (
	"fmt"
	"unicode/utf8"
)

// ToBinary encodes canonical document text into its binary wire form.
// The encoding is UTF-8 and the conversion is lossless.
func ToBinary(text string) []byte {
	return []byte(text)
}

// ToText decodes a binary payload into canonical document text. Payloads that
// are not valid UTF-8 fail with ErrEncoding rather than being silently
// replaced or truncated.
func ToText(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w (%d bytes)", ErrEncoding, len(data))
	}
	return string(data), nil
}
