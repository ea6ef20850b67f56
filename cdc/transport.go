package cdc

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"time"
)

// responseBufferSize bounds a single handshake response read.
const responseBufferSize = 1024

// transport wraps the raw connection with per-operation deadlines. A
// deadline expiry plays the role of a readiness poll timing out on a
// nonblocking socket: no bytes moved within the window.
type transport struct {
	conn    net.Conn
	armed   *armedReader
	reader  *bufio.Reader
	timeout time.Duration
}

// armedReader arms the read deadline before every descent into the
// underlying connection, so reads through the buffer still observe
// the per-operation cutoff.
type armedReader struct {
	conn     net.Conn
	deadline time.Time
}

func (r *armedReader) Read(p []byte) (int, error) {
	if err := r.conn.SetReadDeadline(r.deadline); err != nil {
		return 0, err
	}
	return r.conn.Read(p)
}

func newTransport(conn net.Conn, timeout time.Duration) *transport {
	var armed = &armedReader{conn: conn}
	return &transport{
		conn:    conn,
		armed:   armed,
		reader:  bufio.NewReader(armed),
		timeout: timeout,
	}
}

// dial opens the TCP connection to the CDC listener.
func dial(ctx context.Context, address string, timeout time.Duration) (*transport, error) {
	if _, _, err := net.SplitHostPort(address); err != nil {
		return nil, &AddressError{Address: address, Reason: err}
	}
	var dialer = &net.Dialer{Timeout: timeout}
	var conn, err = dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		var addrErr *net.AddrError
		var dnsErr *net.DNSError
		if errors.As(err, &addrErr) || errors.As(err, &dnsErr) {
			return nil, &AddressError{Address: address, Reason: err}
		}
		return nil, &SocketError{Reason: err}
	}
	return newTransport(conn, timeout), nil
}

// deadline computes the cutoff for one blocking operation: the
// configured timeout, shortened by the context deadline when that
// comes first.
func (t *transport) deadline(ctx context.Context) time.Time {
	var deadline = time.Now().Add(t.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	return deadline
}

// ReadByte returns the next byte of the stream.
func (t *transport) ReadByte(ctx context.Context) (byte, error) {
	t.armed.deadline = t.deadline(ctx)
	var b, err = t.reader.ReadByte()
	if err != nil {
		return 0, classifyReadError(err)
	}
	return b, nil
}

// ReadSome performs a single bounded read and returns whatever bytes
// arrived, for handshake responses that carry no framing.
func (t *transport) ReadSome(ctx context.Context) (string, error) {
	t.armed.deadline = t.deadline(ctx)
	var buf = make([]byte, responseBufferSize)
	var n, err = t.reader.Read(buf)
	if err != nil {
		return "", classifyReadError(err)
	}
	return string(buf[:n]), nil
}

// WriteString writes the message in full. The protocol sends its
// commands without a line terminator.
func (t *transport) WriteString(ctx context.Context, msg string) error {
	if err := t.conn.SetWriteDeadline(t.deadline(ctx)); err != nil {
		return &IOError{Op: "write data", Reason: err}
	}
	if _, err := io.WriteString(t.conn, msg); err != nil {
		var netErr net.Error
		if errors.As(err, &netErr) && netErr.Timeout() {
			return ErrTimeout
		}
		return &IOError{Op: "write data", Reason: err}
	}
	return nil
}

func (t *transport) Close() error {
	return t.conn.Close()
}

// classifyReadError maps raw I/O failures into the error taxonomy:
// deadline expiry is a timeout, everything else is fatal to the
// connection.
func classifyReadError(err error) error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout
	}
	if errors.Is(err, io.EOF) {
		return &IOError{Op: "read data", Reason: errors.New("connection closed by server")}
	}
	return &IOError{Op: "read data", Reason: err}
}
