package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"tableside/entity"
)

// Bridge is the client end of the orders realtime channel. One connection
// per process, explicitly connected around the lifetime of the tracking
// view. It never mutates order state itself — every inbound event only
// requests a refetch, so out-of-order pushes cost nothing.
type Bridge struct {
	url    string
	logger *zap.SugaredLogger

	// OnInvalidate fires for both event kinds; the next successful fetch
	// is the sole source of truth.
	OnInvalidate func()
	// OnItemRejected fires when an item-changed event carries a rejection
	// reason, for a transient auto-dismissing notice.
	OnItemRejected func(reason string)

	mu   sync.Mutex
	conn *websocket.Conn
	done chan struct{}
}

func NewBridge(url string, logger *zap.SugaredLogger) *Bridge {
	return &Bridge{url: url, logger: logger}
}

// frame is the generic event wrapper the server sends.
type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// Connect dials the orders namespace and joins the table's room.
func (b *Bridge) Connect(ctx context.Context, tableID string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn != nil {
		return nil
	}

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, b.url, nil)
	if err != nil {
		return err
	}

	join := frame{Event: "join_table"}
	join.Data, _ = json.Marshal(entity.JoinTable{TableID: tableID})
	if err := conn.WriteJSON(join); err != nil {
		conn.Close()
		return err
	}

	b.conn = conn
	b.done = make(chan struct{})
	go b.readLoop(conn, b.done)
	b.logger.Infow("realtime bridge connected", "table_id", tableID)
	return nil
}

// Close tears the subscription down. Reconnecting later starts fresh,
// there is no event replay.
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.conn == nil {
		return
	}
	b.conn.Close()
	<-b.done
	b.conn = nil
	b.logger.Info("realtime bridge disconnected")
}

func (b *Bridge) readLoop(conn *websocket.Conn, done chan struct{}) {
	defer close(done)
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			// normal on Close(); anything else just ends the subscription
			b.logger.Debugw("ws read ended", "error", err)
			return
		}

		var f frame
		if err := json.Unmarshal(raw, &f); err != nil {
			b.logger.Warnw("invalid ws frame", "error", err)
			continue
		}

		switch f.Event {
		case "order_status_updated":
			var ev entity.OrderStatusUpdated
			if err := json.Unmarshal(f.Data, &ev); err != nil {
				b.logger.Warnw("bad order_status_updated payload", "error", err)
				continue
			}
			b.invalidate()

		case "order_item_updated":
			var ev entity.OrderItemUpdated
			if err := json.Unmarshal(f.Data, &ev); err != nil {
				b.logger.Warnw("bad order_item_updated payload", "error", err)
				continue
			}
			if ev.Status == entity.ItemStatusRejected && ev.RejectedReason != "" && b.OnItemRejected != nil {
				b.OnItemRejected(ev.RejectedReason)
			}
			b.invalidate()
		}
	}
}

func (b *Bridge) invalidate() {
	if b.OnInvalidate != nil {
		b.OnInvalidate()
	}
}
