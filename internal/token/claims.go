package token

// Class selects the secret and lifetime a token is minted and verified with.
type Class string

const (
	ClassAccess  Class = "access"
	ClassRefresh Class = "refresh"
)

// Valid reports whether c is one of the two known token classes.
func (c Class) Valid() bool {
	return c == ClassAccess || c == ClassRefresh
}

// Header is the fixed JOSE header carried by every token.
type Header struct {
	Algorithm string `json:"alg"`
	Type      string `json:"typ"`
}

const (
	headerAlgorithm = "HS256"
	headerType      = "JWT"
)

var defaultHeader = Header{Algorithm: headerAlgorithm, Type: headerType}

// Claims is the signed payload. Field order fixes the JSON layout on the wire.
type Claims struct {
	UserID    string `json:"userId"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Class     Class  `json:"type"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
