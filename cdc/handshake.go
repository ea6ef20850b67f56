package cdc

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
)

// okResponse is the literal acknowledgment sent by the server after a
// successful handshake step.
const okResponse = "OK\n"

// authToken computes the authentication token for the credential
// handshake: the hex encoding of "<user>:" followed by the hex
// encoding of the SHA1 digest of the raw password bytes. The token is
// deterministic for a given credential pair.
func authToken(user, password string) string {
	var digest = sha1.Sum([]byte(password))
	return hex.EncodeToString([]byte(user+":")) + hex.EncodeToString(digest[:])
}

// authenticate writes the authentication token (with no terminator)
// and checks the server's reply against the literal acknowledgment.
// Any other reply is surfaced verbatim as an authentication failure.
func (c *Connection) authenticate(ctx context.Context) error {
	var token = authToken(c.config.Login.User, c.config.Login.Password)
	if err := c.transport.WriteString(ctx, token); err != nil {
		return fmt.Errorf("failed to write authentication data: %w", err)
	}
	var reply, err = c.transport.ReadSome(ctx)
	if err != nil {
		return fmt.Errorf("failed to read authentication response: %w", err)
	}
	if !strings.HasPrefix(reply, okResponse) {
		return &AuthenticationError{Response: strings.TrimRight(reply, "\n")}
	}
	return nil
}

// register declares the connector identity and requests JSON output
// encoding. It is only attempted after authentication has succeeded.
func (c *Connection) register(ctx context.Context) error {
	var msg = "REGISTER UUID=" + c.config.Advanced.ClientID + ", TYPE=JSON"
	if err := c.transport.WriteString(ctx, msg); err != nil {
		return fmt.Errorf("failed to write registration message: %w", err)
	}
	var reply, err = c.transport.ReadSome(ctx)
	if err != nil {
		return fmt.Errorf("failed to read registration response: %w", err)
	}
	if !strings.HasPrefix(reply, okResponse) {
		return &RegistrationError{Response: strings.TrimRight(reply, "\n")}
	}
	return nil
}
