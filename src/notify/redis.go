package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/travelbunk/backend/src/lib"
)

const (
	channelPrefix    = "travelbunk:notify:"
	broadcastChannel = "travelbunk:notify:*all*"
)

// envelope is the JSON frame carried over Redis pub/sub.
type envelope struct {
	Channel string          `json:"channel"`
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// ConnectRedis creates a Redis client from REDIS_ADDR / REDIS_DB and verifies
// the connection.
func ConnectRedis() (*redis.Client, error) {
	addr := lib.GetEnv("REDIS_ADDR", "localhost:6379")
	dbIdx, err := strconv.Atoi(lib.GetEnv("REDIS_DB", "0"))
	if err != nil {
		dbIdx = 0
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
		DB:   dbIdx,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", addr, err)
	}
	return rdb, nil
}

// RedisSink routes events through Redis pub/sub so every node in a multi-node
// deployment delivers to its own local websocket subscribers. Events published
// here come back through Run's subscription, including on the publishing node,
// so the local hub is only ever written from one place.
type RedisSink struct {
	rdb *redis.Client
	hub *Hub
}

func NewRedisSink(rdb *redis.Client, hub *Hub) *RedisSink {
	return &RedisSink{rdb: rdb, hub: hub}
}

func (s *RedisSink) Publish(ctx context.Context, channel, event string, payload any) {
	s.send(ctx, channel, event, payload)
}

func (s *RedisSink) Broadcast(ctx context.Context, event string, payload any) {
	s.send(ctx, broadcastChannel, event, payload)
}

func (s *RedisSink) send(ctx context.Context, channel, event string, payload any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		lib.Log.WithField("event", event).Warnf("notify: marshal payload: %v", err)
		return
	}
	frame, err := json.Marshal(envelope{Channel: channel, Event: event, Payload: raw})
	if err != nil {
		lib.Log.WithField("event", event).Warnf("notify: marshal envelope: %v", err)
		return
	}
	if err := s.rdb.Publish(ctx, channelPrefix+channel, frame).Err(); err != nil {
		lib.Log.WithField("event", event).Warnf("notify: redis publish: %v", err)
	}
}

// Run subscribes to all notification channels and feeds the local hub until
// ctx is cancelled. Call it in its own goroutine at startup.
func (s *RedisSink) Run(ctx context.Context) {
	sub := s.rdb.PSubscribe(ctx, channelPrefix+"*")
	defer sub.Close()

	lib.Log.Info("notify: redis bridge running")
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-sub.Channel():
			if !ok {
				return
			}
			var env envelope
			if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
				lib.Log.Warnf("notify: bad frame from redis: %v", err)
				continue
			}
			var payload any
			if len(env.Payload) > 0 {
				if err := json.Unmarshal(env.Payload, &payload); err != nil {
					lib.Log.Warnf("notify: bad payload from redis: %v", err)
					continue
				}
			}
			if env.Channel == broadcastChannel {
				s.hub.Broadcast(ctx, env.Event, payload)
			} else {
				s.hub.Publish(ctx, env.Channel, env.Event, payload)
			}
		}
	}
}
