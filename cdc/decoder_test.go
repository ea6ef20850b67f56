package cdc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

// pipeConnection builds a Connection over an in-memory pipe, with the
// server side handed to the caller.
func pipeConnection(t *testing.T, timeout time.Duration) (*Connection, net.Conn) {
	t.Helper()
	var client, server = net.Pipe()
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	var c = &Connection{
		transport: newTransport(client, timeout),
		state:     stateStreaming,
	}
	return c, server
}

func TestReadLine(t *testing.T) {
	var c, server = pipeConnection(t, time.Second)

	var group errgroup.Group
	group.Go(func() error {
		var _, err = server.Write([]byte("{\"a\":1}\nsecond\n"))
		return err
	})

	var line, err = c.readLine(context.Background())
	require.NoError(t, err)
	require.Equal(t, `{"a":1}`, string(line))

	// The terminator is discarded and framing picks up exactly where
	// the previous line ended.
	line, err = c.readLine(context.Background())
	require.NoError(t, err)
	require.Equal(t, "second", string(line))
	require.NoError(t, group.Wait())
}

func TestReadLineServerError(t *testing.T) {
	var c, server = pipeConnection(t, time.Second)

	var group errgroup.Group
	group.Go(func() error {
		var _, err = server.Write([]byte("ERR: no such table\n"))
		return err
	})

	var _, err = c.readLine(context.Background())
	var serverErr *ServerError
	require.ErrorAs(t, err, &serverErr)
	require.Contains(t, serverErr.Message, "no such table")
	require.NoError(t, group.Wait())
}

func TestReadLineErrPrefixOnly(t *testing.T) {
	// The marker comparison is an exact prefix check: a line that
	// merely starts with "E" is ordinary payload.
	var c, server = pipeConnection(t, time.Second)

	var group errgroup.Group
	group.Go(func() error {
		var _, err = server.Write([]byte("Everything is fine\n"))
		return err
	})

	var line, err = c.readLine(context.Background())
	require.NoError(t, err)
	require.Equal(t, "Everything is fine", string(line))
	require.NoError(t, group.Wait())
}

func TestReadLineTimeoutDiscardsPartial(t *testing.T) {
	var c, server = pipeConnection(t, 50*time.Millisecond)

	var group errgroup.Group
	group.Go(func() error {
		// A partial line with no terminator.
		var _, err = server.Write([]byte(`{"tru`))
		return err
	})

	var line, err = c.readLine(context.Background())
	require.ErrorIs(t, err, ErrTimeout)
	require.Nil(t, line)
	require.NoError(t, group.Wait())
}
