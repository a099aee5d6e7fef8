package token

import (
	"crypto/hmac"
	"crypto/sha256"
	"crypto/subtle"
	"strings"
)

// Sign returns the base64url HMAC-SHA256 of headerSegment + "." + payloadSegment.
func Sign(headerSegment, payloadSegment string, secret []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(headerSegment))
	mac.Write([]byte{'.'})
	mac.Write([]byte(payloadSegment))
	return base64URLEncode(mac.Sum(nil))
}

// VerifySignature recomputes the signature over the first two segments of
// token and compares it with the third in constant time.
func VerifySignature(token string, secret []byte) bool {
	parts, ok := splitToken(token)
	if !ok {
		return false
	}
	return verifyParts(parts, secret)
}

func verifyParts(parts [3]string, secret []byte) bool {
	expected := Sign(parts[0], parts[1], secret)
	return ConstantTimeEqual(expected, parts[2])
}

// ConstantTimeEqual reports whether a and b are equal. Inputs of different
// length return false at once; equal-length inputs are always compared in full.
func ConstantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// splitToken requires exactly three non-empty dot-separated segments.
func splitToken(token string) ([3]string, bool) {
	var parts [3]string
	if strings.Count(token, ".") != 2 {
		return parts, false
	}
	first := strings.IndexByte(token, '.')
	second := first + 1 + strings.IndexByte(token[first+1:], '.')
	parts[0] = token[:first]
	parts[1] = token[first+1 : second]
	parts[2] = token[second+1:]
	for _, p := range parts {
		if p == "" {
			return parts, false
		}
	}
	return parts, true
}
