package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/thenoetrevino/studio/internal/events"
	"github.com/thenoetrevino/studio/internal/realtime"
)

const (
	wsQueueSize    = 64
	wsWriteTimeout = 5 * time.Second
)

// handleWS streams change notifications matching ?table=&column=&value= until the
// browser disconnects. Notifications are only dirty flags; the page re-fetches.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	if s.feed == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorBody{Error: "change feed not configured"})
		return
	}

	q := r.URL.Query()
	filter := events.Filter{Table: q.Get("table"), Column: q.Get("column"), Value: q.Get("value")}
	if filter.Table == "" {
		filter.Table = events.AnyTable
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: s.origins})
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	defer func() { _ = conn.Close(websocket.StatusNormalClosure, "") }()

	// Nothing is read from the browser; CloseRead handles control frames and ends ctx
	// when the peer goes away.
	ctx := conn.CloseRead(r.Context())

	queue := make(chan events.Event, wsQueueSize)
	sub := s.feed.Watch(realtime.Scope{Name: "ws " + filter.String(), Filters: []events.Filter{filter}}, func(e events.Event) {
		select {
		case queue <- e:
		default:
			s.logger.Warn("websocket queue full, dropping change", "table", e.Table)
		}
	})
	defer sub.Release()

	s.logger.Debug("websocket connected", "filter", filter.String())
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-queue:
			if err := writeEvent(ctx, conn, e); err != nil {
				s.logger.Debug("websocket write failed", "error", err)
				return
			}
		}
	}
}

func writeEvent(ctx context.Context, conn *websocket.Conn, e events.Event) error {
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, wsWriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, data)
}
