package cdc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// Protocol literals of the CDC listener.
const (
	requestCommand = "REQUEST-DATA "
	closeMessage   = "CLOSE"
)

type connState int

const (
	stateNotConnected connState = iota
	stateConnected
	stateStreaming
	stateClosed
)

// Connection is one logical CDC session. It owns the socket, the
// active schema, and the last-error message; all of that state is
// mutated in place by whichever call is in flight, so a Connection
// must not be used from multiple goroutines without external
// serialization. Independent Connections share no state and may run
// concurrently.
type Connection struct {
	config    *Config
	transport *transport
	logger    *log.Entry

	state     connState
	broken    bool    // Set when the stream position became undefined.
	fields    []field // Active schema, replaced wholesale per announcement.
	rawSchema string  // Raw text of the most recent schema announcement.
	lastError string  // Message of the most recent failed operation.
}

// Connect dials the configured address and performs the
// authentication and registration handshakes. A handshake failure
// tears the socket down; a fresh Connect call is required to retry.
func Connect(ctx context.Context, config *Config) (*Connection, error) {
	config.SetDefaults()
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	var logger = log.WithFields(log.Fields{
		"address": config.Address,
		"session": uuid.NewString(),
	})

	var transport, err = dial(ctx, config.Address, config.timeout())
	if err != nil {
		return nil, err
	}
	var c = &Connection{config: config, transport: transport, logger: logger}
	if err := c.authenticate(ctx); err != nil {
		transport.Close()
		return nil, err
	}
	if err := c.register(ctx); err != nil {
		transport.Close()
		return nil, err
	}
	c.state = stateConnected
	logger.WithField("user", config.Login.User).Info("connected")
	return c, nil
}

// RequestData asks the server to begin streaming change events for a
// table, optionally resuming from a GTID position in
// "domain-server_id-sequence" form. Subsequent events are consumed via
// Read.
func (c *Connection) RequestData(ctx context.Context, table, gtid string) error {
	c.lastError = ""
	if c.state == stateClosed || c.transport == nil {
		return c.fail(ErrClosed)
	}
	var msg = requestCommand + table
	if gtid != "" {
		msg += " " + gtid
	}
	if err := c.transport.WriteString(ctx, msg); err != nil {
		return c.fail(fmt.Errorf("failed to write request: %w", err))
	}
	c.state = stateStreaming
	c.logger.WithFields(log.Fields{"table": table, "gtid": gtid}).Info("requested data stream")
	return nil
}

// Read returns the next change event from the stream. Schema
// announcements are consumed transparently: each one replaces the
// active schema and reading continues until a data event arrives.
// After a timeout, in-band server error, or I/O failure the stream
// position is undefined and further reads are refused; close the
// connection and construct a new one to resume.
func (c *Connection) Read(ctx context.Context) (*Row, error) {
	c.lastError = ""
	if c.state == stateClosed || c.transport == nil {
		return nil, c.fail(ErrClosed)
	}
	if c.broken {
		return nil, c.fail(&IOError{Op: "read data", Reason: errors.New("stream position is undefined after a previous failure")})
	}
	for {
		var line, err = c.readLine(ctx)
		if err != nil {
			c.broken = true
			return nil, c.fail(err)
		}
		if !gjson.ValidBytes(line) {
			return nil, c.fail(&DecodeError{Message: "failed to parse JSON: " + parseDiagnostic(line)})
		}
		var js = gjson.ParseBytes(line)
		if isSchema(js) {
			c.rawSchema = string(line)
			c.fields = parseSchema(js)
			c.logger.WithField("fields", len(c.fields)).Debug("schema updated")
			continue
		}
		var row, rowErr = newRow(c.fields, js)
		if rowErr != nil {
			return nil, c.fail(rowErr)
		}
		return row, nil
	}
}

// Close sends the best-effort close notification and releases the
// socket. It is idempotent and safe to call on a connection that
// never finished connecting.
func (c *Connection) Close() error {
	if c.transport == nil || c.state == stateClosed {
		c.state = stateClosed
		return nil
	}
	c.state = stateClosed
	if err := c.transport.WriteString(context.Background(), closeMessage); err != nil {
		// The notification is advisory; the server notices the
		// disconnect either way.
		c.logger.WithField("error", err).Warn("failed to send close notification")
	}
	var err = c.transport.Close()
	c.transport = nil
	c.logger.Info("closed connection")
	return err
}

// Schema returns the raw text of the most recent schema announcement,
// or the empty string if none has arrived yet.
func (c *Connection) Schema() string { return c.rawSchema }

// Fields returns the active schema as a map of field name to SQL
// type. The map is a copy; later announcements do not modify it.
func (c *Connection) Fields() map[string]string {
	var fields = make(map[string]string, len(c.fields))
	for _, f := range c.fields {
		fields[f.Name] = f.Type
	}
	return fields
}

// Err returns the human-readable message of the most recent failed
// operation, or the empty string if the last operation succeeded.
func (c *Connection) Err() string { return c.lastError }

// fail records err as the connection's last-error message and returns
// it unchanged.
func (c *Connection) fail(err error) error {
	c.lastError = err.Error()
	return err
}

// parseDiagnostic produces a human-readable reason for a line that
// failed JSON validation. gjson validates without reporting positions,
// so the diagnostic comes from encoding/json.
func parseDiagnostic(line []byte) string {
	var value any
	if err := json.Unmarshal(line, &value); err != nil {
		return err.Error()
	}
	return "invalid JSON"
}
