package service

import (
	"context"
	"encoding/json"
	"meal_streak_backend/internal/model"
	"meal_streak_backend/pkg/logger"
	"meal_streak_backend/pkg/monitoring"
	"net/http"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512

	hubChannel = "meal_streak_updates"
)

const (
	TopicAchievements = "achievements"
)

func DailyTopic(date string) string {
	return "daily:" + date
}

func ProfileTopic(p model.Participant) string {
	return "profile:" + string(p)
}

func NotificationTopic(p model.Participant) string {
	return "notifications:" + string(p)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Update is one versioned snapshot pushed to subscribers of a topic.
type Update struct {
	Topic   string          `json:"topic"`
	Version int64           `json:"version"`
	Payload json.RawMessage `json:"payload"`
}

type subscriber struct {
	topic string
	ch    chan Update
}

// Subscription delivers the latest snapshot of a topic. Slow readers skip intermediate versions.
type Subscription struct {
	C   <-chan Update
	hub *RecordHub
	sub *subscriber
}

func (s *Subscription) Close() {
	s.hub.unsubscribe(s.sub)
}

// RecordHub fans out record, profile, achievement and notification snapshots.
// With Redis every instance receives the update through pub/sub, otherwise it is dispatched in process.
type RecordHub struct {
	Redis *redis.Client

	mu     sync.Mutex
	subs   map[string]map[*subscriber]struct{}
	latest map[string]int64

	pubsub *redis.PubSub
	cancel context.CancelFunc
	done   chan struct{}
}

func NewRecordHub(rdb *redis.Client) *RecordHub {
	return &RecordHub{
		Redis:  rdb,
		subs:   make(map[string]map[*subscriber]struct{}),
		latest: make(map[string]int64),
	}
}

// Start subscribes to the Redis channel before returning, so no publish after Start is missed.
func (h *RecordHub) Start(ctx context.Context) error {
	if h.Redis == nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	pubsub := h.Redis.Subscribe(ctx, hubChannel)
	if _, err := pubsub.Receive(ctx); err != nil {
		cancel()
		pubsub.Close()
		return err
	}
	h.pubsub = pubsub
	h.cancel = cancel
	h.done = make(chan struct{})

	go func() {
		defer close(h.done)
		ch := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				var u Update
				if err := json.Unmarshal([]byte(msg.Payload), &u); err != nil {
					logger.Log.Error("PubSub unmarshal error", zap.Error(err))
					continue
				}
				h.dispatch(u)
			}
		}
	}()
	return nil
}

func (h *RecordHub) Stop() {
	if h.cancel != nil {
		h.cancel()
		h.pubsub.Close()
		<-h.done
	}

	h.mu.Lock()
	closed := 0
	for topic, subs := range h.subs {
		for s := range subs {
			close(s.ch)
			closed++
		}
		delete(h.subs, topic)
	}
	h.mu.Unlock()

	monitoring.RealtimeSubscribers.Set(0)
	logger.Log.Info("RecordHub stopped", zap.Int("closedSubscriptions", closed))
}

// Publish sends a snapshot of payload at version. Delivery is best effort: failures are logged, never returned to the mutation.
func (h *RecordHub) Publish(ctx context.Context, topic string, version int64, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		logger.Log.Error("Marshal hub payload failed", zap.String("topic", topic), zap.Error(err))
		return
	}
	u := Update{Topic: topic, Version: version, Payload: data}

	if h.Redis == nil {
		h.dispatch(u)
		return
	}

	msg, _ := json.Marshal(u)
	if err := h.Redis.Publish(ctx, hubChannel, msg).Err(); err != nil {
		logger.Log.Warn("Redis publish failed, dispatching locally", zap.String("topic", topic), zap.Error(err))
		h.dispatch(u)
	}
}

func (h *RecordHub) Subscribe(topic string) *Subscription {
	s := &subscriber{topic: topic, ch: make(chan Update, 1)}
	h.mu.Lock()
	if h.subs[topic] == nil {
		h.subs[topic] = make(map[*subscriber]struct{})
	}
	h.subs[topic][s] = struct{}{}
	h.mu.Unlock()

	monitoring.RealtimeSubscribers.Inc()
	return &Subscription{C: s.ch, hub: h, sub: s}
}

func (h *RecordHub) unsubscribe(s *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.subs[s.topic]
	if !ok {
		return
	}
	if _, ok := subs[s]; !ok {
		return
	}
	delete(subs, s)
	if len(subs) == 0 {
		delete(h.subs, s.topic)
	}
	close(s.ch)
	monitoring.RealtimeSubscribers.Dec()
}

// dispatch drops anything not newer than the last version seen on the topic.
func (h *RecordHub) dispatch(u Update) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if u.Version <= h.latest[u.Topic] {
		logger.Log.Debug("Dropping stale update", zap.String("topic", u.Topic), zap.Int64("version", u.Version))
		return
	}
	h.latest[u.Topic] = u.Version

	for s := range h.subs[u.Topic] {
		deliverLatest(s.ch, u)
	}
}

// deliverLatest replaces an undelivered snapshot with u.
func deliverLatest(ch chan Update, u Update) {
	for {
		select {
		case ch <- u:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

// wsClient streams one subscription to a websocket connection.
type wsClient struct {
	conn    *websocket.Conn
	sub     *Subscription
	limiter *rate.Limiter
	topic   string
}

func (c *wsClient) readPump() {
	defer c.sub.Close()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Log.Error("WebSocket unexpected close", zap.Error(err), zap.String("topic", c.topic))
			}
			return
		}
		// 客户端只读，入站消息仅做限流后丢弃
		if !c.limiter.Allow() {
			logger.Log.Debug("WebSocket client over rate limit", zap.String("topic", c.topic))
		}
	}
}

func (c *wsClient) writePump(initial *Update) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	if initial != nil {
		c.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := c.conn.WriteJSON(initial); err != nil {
			return
		}
	}

	for {
		select {
		case u, ok := <-c.sub.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if initial != nil && u.Version <= initial.Version {
				continue
			}
			if err := c.conn.WriteJSON(u); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ServeWs upgrades the request and streams sub. The caller subscribes before loading initial, so a change
// committed in between is still delivered; initial, when set, is written first.
func ServeWs(w http.ResponseWriter, r *http.Request, sub *Subscription, topic string, initial *Update) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Log.Error("WebSocket upgrade failed", zap.Error(err), zap.String("topic", topic))
		sub.Close()
		return
	}
	client := &wsClient{
		conn:    conn,
		sub:     sub,
		limiter: rate.NewLimiter(rate.Limit(5), 10),
		topic:   topic,
	}

	go client.writePump(initial)
	go client.readPump()
}
