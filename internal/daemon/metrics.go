package daemon

import (
	"sync/atomic"
	"time"
)

// Metrics tracks daemon statistics using atomic operations for thread-safety
type Metrics struct {
	EventsSent       atomic.Int64
	EventsReceived   atomic.Int64
	EventsDropped    atomic.Int64
	BroadcastsTotal  atomic.Int64
	StaleRemoved     atomic.Int64
	ConnectedClients atomic.Int32
	StartTime        time.Time
}

// NewMetrics creates a new Metrics instance
func NewMetrics() *Metrics {
	return &Metrics{
		StartTime: time.Now(),
	}
}

// IncEventsSent counts an event written to a client socket
func (m *Metrics) IncEventsSent() { m.EventsSent.Add(1) }

// IncEventsReceived counts an event published by a client
func (m *Metrics) IncEventsReceived() { m.EventsReceived.Add(1) }

// IncEventsDropped counts an event lost to a full queue
func (m *Metrics) IncEventsDropped() { m.EventsDropped.Add(1) }

// IncBroadcastsTotal counts an event stamped and fanned out
func (m *Metrics) IncBroadcastsTotal() { m.BroadcastsTotal.Add(1) }

// IncStaleRemoved counts a client dropped for missing pongs
func (m *Metrics) IncStaleRemoved() { m.StaleRemoved.Add(1) }

// SetConnectedClients sets the current connected clients count
func (m *Metrics) SetConnectedClients(count int32) { m.ConnectedClients.Store(count) }

// MetricsSnapshot represents a point-in-time snapshot of metrics
type MetricsSnapshot struct {
	EventsSent       int64     `json:"events_sent"`
	EventsReceived   int64     `json:"events_received"`
	EventsDropped    int64     `json:"events_dropped"`
	BroadcastsTotal  int64     `json:"broadcasts_total"`
	StaleRemoved     int64     `json:"stale_removed"`
	ConnectedClients int32     `json:"connected_clients"`
	StartTime        time.Time `json:"start_time"`
	Uptime           string    `json:"uptime"`
}

// GetSnapshot returns a snapshot of current metrics
func (m *Metrics) GetSnapshot() MetricsSnapshot {
	return MetricsSnapshot{
		EventsSent:       m.EventsSent.Load(),
		EventsReceived:   m.EventsReceived.Load(),
		EventsDropped:    m.EventsDropped.Load(),
		BroadcastsTotal:  m.BroadcastsTotal.Load(),
		StaleRemoved:     m.StaleRemoved.Load(),
		ConnectedClients: m.ConnectedClients.Load(),
		StartTime:        m.StartTime,
		Uptime:           time.Since(m.StartTime).Round(time.Second).String(),
	}
}
