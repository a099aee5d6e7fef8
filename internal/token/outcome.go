package token

// Outcome is the internal result of inspecting a token. Only OutcomeOK yields
// claims; every other value is reported to callers of Verify as a plain miss.
type Outcome uint8

const (
	OutcomeOK Outcome = iota
	OutcomeMalformed
	OutcomeBadSignature
	OutcomeExpired
	OutcomeWrongClass
)

func (o Outcome) String() string {
	switch o {
	case OutcomeOK:
		return "ok"
	case OutcomeMalformed:
		return "malformed"
	case OutcomeBadSignature:
		return "bad_signature"
	case OutcomeExpired:
		return "expired"
	case OutcomeWrongClass:
		return "wrong_class"
	default:
		return "unknown"
	}
}
