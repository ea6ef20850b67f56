// Package cdc implements a client for the MariaDB MaxScale CDC
// protocol. A Connection dials the CDC listener over TCP, performs the
// credential and registration handshakes, requests a change stream for
// a table, and then yields one immutable Row per data event. Schema
// announcements interleaved in the stream are consumed transparently
// and replace the active field set; rows always carry their own copy
// of the schema under which they were decoded.
//
// A Connection is fully synchronous and is not safe for concurrent use
// without external serialization. After a timeout, in-band server
// error, or I/O failure the stream position is undefined and the
// connection must be closed and reconstructed; no automatic retry or
// resynchronization is attempted.
package cdc
