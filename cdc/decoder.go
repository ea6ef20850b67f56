package cdc

import (
	"bytes"
	"context"
)

// errPrefix marks an in-band error line from the server.
var errPrefix = []byte("ERR")

// readLine accumulates bytes from the transport until a newline, which
// is discarded. A completed line carrying the in-band error prefix
// becomes a ServerError. On timeout the partial accumulator is
// discarded and the connection must not be used for further reads,
// since a partially consumed line poisons subsequent framing.
func (c *Connection) readLine(ctx context.Context) ([]byte, error) {
	var line []byte
	for {
		var b, err = c.transport.ReadByte(ctx)
		if err != nil {
			return nil, err
		}
		if b == '\n' {
			break
		}
		line = append(line, b)
	}
	if bytes.HasPrefix(line, errPrefix) {
		return nil, &ServerError{Message: string(line)}
	}
	return line, nil
}
