package domain

import (
	"crypto/rand"
	"fmt"
)

// SecurityCode is the opaque bearer token that authorizes recipient-side
// actions (accept, deny, pickup) on one donation intent. It is the sole
// credential for those actions, so it must come from a cryptographically
// strong source and must never appear in logs.
//
// String() and MarshalJSON redact the value; callers that genuinely need the
// raw token (persistence, outbound notifications, API responses) must call
// Reveal explicitly.
type SecurityCode string

// Alphabet avoids visually ambiguous characters (0/O, 1/I/L) since codes are
// relayed to humans through chat messages.
const codeAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const codeLength = 10

// Bytes at or above this limit are discarded so every alphabet character has
// the same number of byte preimages; a plain modulo would skew the first
// 256 mod len characters.
const codeSampleLimit = 256 - 256%len(codeAlphabet)

// NewSecurityCode generates a fresh random code. Uniqueness across intents is
// enforced by the caller (regenerate on collision).
func NewSecurityCode() (SecurityCode, error) {
	code := make([]byte, 0, codeLength)
	raw := make([]byte, codeLength)

	for len(code) < codeLength {
		if _, err := rand.Read(raw); err != nil {
			return "", fmt.Errorf("new security code: read random bytes: %w", err)
		}
		for _, b := range raw {
			ch, ok := codeChar(b)
			if !ok {
				continue
			}
			code = append(code, ch)
			if len(code) == codeLength {
				break
			}
		}
	}
	return SecurityCode(code), nil
}

// codeChar maps one random byte onto the alphabet, rejecting bytes that would
// bias the distribution.
func codeChar(b byte) (byte, bool) {
	if int(b) >= codeSampleLimit {
		return 0, false
	}
	return codeAlphabet[int(b)%len(codeAlphabet)], true
}

// Reveal returns the raw token value.
func (c SecurityCode) Reveal() string { return string(c) }

func (c SecurityCode) IsZero() bool { return c == "" }

// String returns a redacted form safe for logging.
func (c SecurityCode) String() string {
	if len(c) <= 4 {
		return "****"
	}
	return string(c[:2]) + "******"
}

func (c SecurityCode) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}
