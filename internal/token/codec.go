package token

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// EncodeSegment serializes value to JSON and encodes it with the unpadded
// base64url alphabet. The output is deterministic for a given value.
func EncodeSegment(value any) (string, error) {
	raw, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("token: encode segment: %w", err)
	}
	return base64URLEncode(raw), nil
}

// DecodeSegment reverses EncodeSegment into out. Any base64 or JSON failure is
// returned as an error wrapping ErrMalformed.
func DecodeSegment(text string, out any) error {
	raw, err := base64URLDecode(text)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return nil
}

func base64URLEncode(data []byte) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString(data), "=")
}

// base64URLDecode restores the stripped padding before decoding. A length of
// 1 mod 4 can never come from the encoder and is left for the decoder to reject.
func base64URLDecode(s string) ([]byte, error) {
	switch len(s) % 4 {
	case 2:
		s += "=="
	case 3:
		s += "="
	}
	return base64.URLEncoding.DecodeString(s)
}
