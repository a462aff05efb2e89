package testutil

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/thenoetrevino/studio/internal/daemon"
	"github.com/thenoetrevino/studio/internal/events"
)

// GetTestSocketPath returns a socket path inside a fresh temp dir
func GetTestSocketPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "studio-test.sock")
}

// SetupTestDaemon starts a hub on a temporary socket and waits until it accepts
// connections. Shutdown is registered with t.Cleanup.
func SetupTestDaemon(t *testing.T) (*daemon.Server, string) {
	t.Helper()

	socketPath := GetTestSocketPath(t)

	server, err := daemon.NewServer(socketPath)
	if err != nil {
		t.Fatalf("Failed to create test daemon: %v", err)
	}
	t.Cleanup(func() {
		if err := server.Shutdown(); err != nil {
			t.Logf("Warning: daemon shutdown error during cleanup: %v", err)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	go func() {
		if err := server.Start(ctx); err != nil {
			t.Logf("Server error: %v", err)
		}
	}()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if _, err := os.Stat(socketPath); err == nil {
			return server, socketPath
		}
		time.Sleep(10 * time.Millisecond)
	}

	t.Fatal("Timeout waiting for daemon socket to be created")
	return nil, ""
}

// SetupTestClient connects an events.Client to socketPath
func SetupTestClient(t *testing.T, socketPath string) *events.Client {
	t.Helper()

	client, err := events.NewClient(socketPath)
	if err != nil {
		t.Fatalf("Failed to create test client: %v", err)
	}
	t.Cleanup(func() {
		if err := client.Close(); err != nil {
			t.Logf("Warning: client close error during cleanup: %v", err)
		}
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Connect(ctx); err != nil {
		t.Fatalf("Failed to connect test client: %v", err)
	}

	return client
}

// ConnectRawClient dials the hub without the events.Client machinery. A raw
// connection has no filters, so it is sent every change.
func ConnectRawClient(t *testing.T, socketPath string) (net.Conn, *json.Encoder, *json.Decoder) {
	t.Helper()

	conn, err := (&net.Dialer{}).DialContext(context.Background(), "unix", socketPath)
	if err != nil {
		t.Fatalf("Failed to dial daemon socket: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	return conn, json.NewEncoder(conn), json.NewDecoder(conn)
}

// WaitForClientCount polls the hub metrics until at least expected clients are
// connected. Returns false on timeout.
func WaitForClientCount(t *testing.T, server *daemon.Server, expected int32, timeout time.Duration) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if server.Metrics().GetSnapshot().ConnectedClients >= expected {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

// WaitForEvent returns the next event on ch or fails the test after timeout
func WaitForEvent(t *testing.T, ch <-chan events.Event, timeout time.Duration) events.Event {
	t.Helper()

	select {
	case event, ok := <-ch:
		if !ok {
			t.Fatal("Event channel closed unexpectedly")
		}
		return event
	case <-time.After(timeout):
		t.Fatalf("Timeout waiting for event after %v", timeout)
		return events.Event{}
	}
}

// WaitForNoEvent fails the test if anything arrives on ch within timeout
func WaitForNoEvent(t *testing.T, ch <-chan events.Event, timeout time.Duration) {
	t.Helper()

	select {
	case event := <-ch:
		t.Fatalf("Unexpected event received: %+v", event)
	case <-time.After(timeout):
	}
}

// AssertChangeReceived waits for the next event and checks its table and key
func AssertChangeReceived(t *testing.T, ch <-chan events.Event, table, column, value string, timeout time.Duration) events.Event {
	t.Helper()

	event := WaitForEvent(t, ch, timeout)
	if event.Table != table {
		t.Errorf("Expected change on %q, got %q", table, event.Table)
	}
	if column != "" && event.Key(column) != value {
		t.Errorf("Expected %s=%s, got %q", column, value, event.Key(column))
	}
	return event
}
