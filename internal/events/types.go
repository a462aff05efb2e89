package events

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// ProtocolVersion is bumped whenever the wire format changes incompatibly
const ProtocolVersion = 1

// EventType indicates what kind of message an event is
type EventType string

const (
	EventChange EventType = "change"
	EventPing   EventType = "ping"
	EventPong   EventType = "pong"
)

// Op is the kind of row change a notification describes
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Message types on the wire
const (
	MsgEvent     = "event"
	MsgSubscribe = "subscribe"
	MsgPing      = "ping"
	MsgPong      = "pong"
	MsgAck       = "ack"
)

// Event is a change notification for one row of one table. Keys carries the row's
// identifying columns (for example "id", "project_id", "task_id") as strings; it is a
// routing hint and receivers must not treat it as the row contents.
type Event struct {
	Type       EventType         `json:"type"`
	Table      string            `json:"table,omitempty"`
	Op         Op                `json:"op,omitempty"`
	Keys       map[string]string `json:"keys,omitempty"`
	Timestamp  time.Time         `json:"timestamp"`
	SequenceID int64             `json:"seq,omitempty"` // stamped by the daemon
}

// NewChange builds a change notification for table
func NewChange(table string, op Op, keys map[string]string) Event {
	return Event{
		Type:      EventChange,
		Table:     table,
		Op:        op,
		Keys:      keys,
		Timestamp: time.Now(),
	}
}

// ID formats an integer key value
func ID(id int) string { return strconv.Itoa(id) }

// Key returns the value of a key column, or "" when absent
func (e Event) Key(column string) string {
	return e.Keys[column]
}

// identity is the coalescing key of an event: two events with the same identity
// describe the same change and only one needs to be delivered per debounce window.
func (e Event) identity() string {
	cols := make([]string, 0, len(e.Keys))
	for k := range e.Keys {
		cols = append(cols, k)
	}
	sort.Strings(cols)

	var b strings.Builder
	b.WriteString(e.Table)
	b.WriteByte('|')
	b.WriteString(string(e.Op))
	for _, k := range cols {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(e.Keys[k])
	}
	return b.String()
}

// AnyTable matches events of every table
const AnyTable = "*"

// Filter selects change notifications. It matches an event when Table equals the
// event's table (or is AnyTable) and, if Column is set, the event's key Column
// equals Value.
type Filter struct {
	Table  string `json:"table"`
	Column string `json:"column,omitempty"`
	Value  string `json:"value,omitempty"`
}

// Matches reports whether f selects e
func (f Filter) Matches(e Event) bool {
	if f.Table != AnyTable && f.Table != e.Table {
		return false
	}
	if f.Column == "" {
		return true
	}
	v, ok := e.Keys[f.Column]
	return ok && v == f.Value
}

func (f Filter) String() string {
	if f.Column == "" {
		return f.Table
	}
	return f.Table + ":" + f.Column + "=" + f.Value
}

// MatchAny reports whether any filter selects e. An empty filter set selects everything.
func MatchAny(filters []Filter, e Event) bool {
	if len(filters) == 0 {
		return true
	}
	for _, f := range filters {
		if f.Matches(e) {
			return true
		}
	}
	return false
}

// SubscribeMessage replaces the sender's filter set on the daemon. No filters means
// every change.
type SubscribeMessage struct {
	Filters []Filter `json:"filters,omitempty"`
}

// Message wraps events and control messages for wire protocol
type Message struct {
	Version   int               `json:"version"`
	Type      string            `json:"type"` // "event", "subscribe", "ping", "pong", "ack"
	Event     *Event            `json:"event,omitempty"`
	Subscribe *SubscribeMessage `json:"subscribe,omitempty"`
}

// NotifyFunc receives connection status messages ("info", "warning", "error")
type NotifyFunc func(level, message string)
