// Package certificate answers the challenges of certificate authorities so the site can get TLS certificates.
package certificate

import (
	"errors"
	"fmt"
	"io"
)

// Challenge token and key used to get a TLS certificate using the ACME HTTP-01 challenge.
type Challenge struct {
	Token string
	Key   string
}

// PathPrefix is the path of the endpoint to serve the challenge at.  The token follows it.
const PathPrefix = "/.well-known/acme-challenge/"

// ErrWrongToken is returned when a challenge is requested for a token that is not the token of the challenge.
var ErrWrongToken = errors.New("token is not for challenge")

// Enabled determines if the challenge can be answered.
func (c Challenge) Enabled() bool {
	return len(c.Token) != 0 && len(c.Key) != 0
}

// Handle writes the key authorization of the challenge, which is the concatenation of the token, a period, and the key.
func (c Challenge) Handle(w io.Writer, token string) error {
	if !c.Enabled() || token != c.Token {
		return fmt.Errorf("%q: %w", token, ErrWrongToken)
	}
	data := c.Token + "." + c.Key
	if _, err := io.WriteString(w, data); err != nil {
		return fmt.Errorf("writing acme token: %w", err)
	}
	return nil
}
