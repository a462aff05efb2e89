package events

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestNilClientMethods verifies that calling methods on a nil *Client doesn't panic
func TestNilClientMethods(t *testing.T) {
	var client *Client

	assert.NotPanics(t, func() { client.SetNotifyFunc(func(level, message string) {}) })

	t.Run("Listen", func(t *testing.T) {
		eventChan, err := client.Listen(context.Background())
		assert.Error(t, err)
		select {
		case _, ok := <-eventChan:
			assert.False(t, ok, "expected closed channel from nil client Listen")
		case <-time.After(100 * time.Millisecond):
			t.Error("channel should be immediately readable (closed)")
		}
	})

	assert.Error(t, client.Subscribe([]Filter{{Table: "tasks"}}))
	assert.Error(t, client.SendEvent(NewChange("tasks", OpUpdate, nil)))
	assert.Error(t, client.Connect(context.Background()))
	assert.NoError(t, client.Close())
}
