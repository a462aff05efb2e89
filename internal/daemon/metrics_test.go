package daemon

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics()

	m.IncEventsSent()
	m.IncEventsSent()
	m.IncEventsReceived()
	m.IncEventsDropped()
	m.IncBroadcastsTotal()
	m.IncStaleRemoved()
	m.SetConnectedClients(3)

	snap := m.GetSnapshot()
	assert.Equal(t, int64(2), snap.EventsSent)
	assert.Equal(t, int64(1), snap.EventsReceived)
	assert.Equal(t, int64(1), snap.EventsDropped)
	assert.Equal(t, int64(1), snap.BroadcastsTotal)
	assert.Equal(t, int64(1), snap.StaleRemoved)
	assert.Equal(t, int32(3), snap.ConnectedClients)
	assert.NotEmpty(t, snap.Uptime)
}

func TestMetrics_Concurrency(t *testing.T) {
	m := NewMetrics()
	const workers, perWorker = 10, 100

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				m.IncEventsSent()
				m.IncBroadcastsTotal()
				_ = m.GetSnapshot()
			}
		}()
	}
	wg.Wait()

	snap := m.GetSnapshot()
	assert.Equal(t, int64(workers*perWorker), snap.EventsSent)
	assert.Equal(t, int64(workers*perWorker), snap.BroadcastsTotal)
}

func TestMetricsSnapshot_IsImmutable(t *testing.T) {
	m := NewMetrics()
	m.IncEventsSent()
	snap := m.GetSnapshot()

	m.IncEventsSent()

	assert.Equal(t, int64(1), snap.EventsSent)
	assert.Equal(t, int64(2), m.GetSnapshot().EventsSent)
}
