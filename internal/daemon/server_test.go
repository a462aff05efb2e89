package daemon

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thenoetrevino/studio/internal/events"
)

// Test helpers to avoid import cycle with testutil

func setupTestDaemon(t *testing.T) (*Server, string) {
	t.Helper()
	socketPath := filepath.Join(t.TempDir(), "studio.sock")

	server, err := NewServer(socketPath)
	require.NoError(t, err, "failed to create test daemon")
	t.Cleanup(func() { _ = server.Shutdown() })

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = server.Start(ctx) }()

	return server, socketPath
}

type rawClient struct {
	conn net.Conn
	enc  *json.Encoder
	msgs chan events.Message
}

func connectRawClient(t *testing.T, socketPath string, filters ...events.Filter) *rawClient {
	t.Helper()

	conn, err := (&net.Dialer{}).DialContext(context.Background(), "unix", socketPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	rc := &rawClient{conn: conn, enc: json.NewEncoder(conn), msgs: make(chan events.Message, 256)}
	// A single reader owns the decoder; waits time out on the channel, never on the socket
	go func() {
		defer close(rc.msgs)
		dec := json.NewDecoder(conn)
		for {
			var msg events.Message
			if err := dec.Decode(&msg); err != nil {
				return
			}
			rc.msgs <- msg
		}
	}()

	require.NoError(t, rc.enc.Encode(events.Message{
		Version:   events.ProtocolVersion,
		Type:      events.MsgSubscribe,
		Subscribe: &events.SubscribeMessage{Filters: filters},
	}))
	rc.expect(t, events.MsgAck, time.Second)
	return rc
}

// expect reads until a message of msgType arrives
func (rc *rawClient) expect(t *testing.T, msgType string, timeout time.Duration) events.Message {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case msg, ok := <-rc.msgs:
			require.True(t, ok, "connection closed waiting for %q", msgType)
			if msg.Type == msgType {
				return msg
			}
		case <-deadline:
			t.Fatalf("timeout waiting for %q", msgType)
		}
	}
}

// expectNone asserts that no event arrives within timeout
func (rc *rawClient) expectNone(t *testing.T, timeout time.Duration) {
	t.Helper()
	deadline := time.After(timeout)
	for {
		select {
		case msg, ok := <-rc.msgs:
			if !ok {
				return
			}
			if msg.Type == events.MsgEvent {
				t.Fatalf("unexpected event %+v", msg.Event)
			}
		case <-deadline:
			return
		}
	}
}

func (rc *rawClient) publish(t *testing.T, ev events.Event) {
	t.Helper()
	require.NoError(t, rc.enc.Encode(events.Message{Version: events.ProtocolVersion, Type: events.MsgEvent, Event: &ev}))
}

// ============================================================================
// Tests
// ============================================================================

func TestNewServer_StaleSocketCleanup(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "nested", "studio.sock")
	require.NoError(t, os.MkdirAll(filepath.Dir(socketPath), 0o700))
	require.NoError(t, os.WriteFile(socketPath, []byte("stale"), 0o600))

	server, err := NewServer(socketPath)
	require.NoError(t, err)
	require.NoError(t, server.Shutdown())

	_, err = os.Stat(socketPath)
	assert.True(t, os.IsNotExist(err), "socket removed on shutdown")
}

func TestNewServer_EnvVarConfiguration(t *testing.T) {
	t.Setenv("STUDIO_DAEMON_CLIENT_BUFFER", "42")
	t.Setenv("STUDIO_DAEMON_BROADCAST_BUFFER", "7")

	server, err := NewServer(filepath.Join(t.TempDir(), "studio.sock"))
	require.NoError(t, err)
	defer func() { _ = server.Shutdown() }()

	assert.Equal(t, 42, server.clientBufferSize)
	assert.Equal(t, 7, cap(server.broadcast))
}

func TestBroadcast_FilteredByTableAndKey(t *testing.T) {
	_, socketPath := setupTestDaemon(t)

	board := connectRawClient(t, socketPath, events.Filter{Table: "tasks", Column: "project_id", Value: "1"})
	all := connectRawClient(t, socketPath)
	writer := connectRawClient(t, socketPath, events.Filter{Table: "nothing"})

	writer.publish(t, events.NewChange("tasks", events.OpUpdate, map[string]string{"id": "3", "project_id": "2"}))
	msg := all.expect(t, events.MsgEvent, time.Second)
	assert.Equal(t, "2", msg.Event.Key("project_id"))
	board.expectNone(t, 100*time.Millisecond)

	writer.publish(t, events.NewChange("tasks", events.OpUpdate, map[string]string{"id": "4", "project_id": "1"}))
	msg = board.expect(t, events.MsgEvent, time.Second)
	assert.Equal(t, "4", msg.Event.Key("id"))
	writer.expectNone(t, 100*time.Millisecond)
}

func TestBroadcast_SequenceNumbers(t *testing.T) {
	server, socketPath := setupTestDaemon(t)
	rc := connectRawClient(t, socketPath)

	for i := 0; i < 3; i++ {
		require.NoError(t, server.Broadcast(events.NewChange("folders", events.OpInsert, nil)))
	}

	var last int64
	for i := 0; i < 3; i++ {
		msg := rc.expect(t, events.MsgEvent, time.Second)
		assert.Greater(t, msg.Event.SequenceID, last)
		last = msg.Event.SequenceID
	}
	assert.Equal(t, int64(3), server.Metrics().GetSnapshot().BroadcastsTotal)
}

func TestBroadcast_IgnoresNonChangeEvents(t *testing.T) {
	_, socketPath := setupTestDaemon(t)
	rc := connectRawClient(t, socketPath)
	writer := connectRawClient(t, socketPath)

	writer.publish(t, events.Event{Type: events.EventPong})
	rc.expectNone(t, 100*time.Millisecond)
}

func TestClientConnection_CountsAndDisconnect(t *testing.T) {
	server, socketPath := setupTestDaemon(t)

	rc := connectRawClient(t, socketPath)
	connectRawClient(t, socketPath)
	assert.Eventually(t, func() bool { return server.getClientCount() == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, rc.conn.Close())
	assert.Eventually(t, func() bool { return server.getClientCount() == 1 }, time.Second, 10*time.Millisecond)
	assert.Equal(t, int32(1), server.Metrics().GetSnapshot().ConnectedClients)
}

func TestPing_StaleClientRemoved(t *testing.T) {
	socketPath := filepath.Join(t.TempDir(), "studio.sock")
	server, err := NewServer(socketPath)
	require.NoError(t, err)
	server.pingInterval = 20 * time.Millisecond
	server.staleAfter = 50 * time.Millisecond
	t.Cleanup(func() { _ = server.Shutdown() })
	go func() { _ = server.Start(context.Background()) }()

	rc := connectRawClient(t, socketPath)
	rc.expect(t, events.MsgPing, time.Second)

	// Never answering the ping gets the client dropped
	assert.Eventually(t, func() bool { return server.getClientCount() == 0 }, 2*time.Second, 10*time.Millisecond)
	assert.GreaterOrEqual(t, server.Metrics().GetSnapshot().StaleRemoved, int64(1))
}

func TestEventsClient_RoundTripThroughDaemon(t *testing.T) {
	_, socketPath := setupTestDaemon(t)

	reader, err := events.NewClient(socketPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = reader.Close() })
	require.NoError(t, reader.Subscribe([]events.Filter{{Table: "documents"}}))
	require.NoError(t, reader.Connect(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := reader.Listen(ctx)
	require.NoError(t, err)

	writer, err := events.NewClient(socketPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = writer.Close() })
	require.NoError(t, writer.Connect(context.Background()))

	// Give the daemon time to register the reader's filters
	time.Sleep(50 * time.Millisecond)
	require.NoError(t, writer.SendEvent(events.NewChange("tasks", events.OpUpdate, nil)))
	require.NoError(t, writer.SendEvent(events.NewChange("documents", events.OpUpdate, map[string]string{"id": "8"})))

	select {
	case ev := <-ch:
		assert.Equal(t, "documents", ev.Table)
		assert.Equal(t, "8", ev.Key("id"))
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}
}

func TestShutdown_Idempotent(t *testing.T) {
	server, _ := setupTestDaemon(t)

	assert.NoError(t, server.Shutdown())
	assert.NoError(t, server.Shutdown())
	assert.Error(t, server.Broadcast(events.NewChange("tasks", events.OpUpdate, nil)))
}
