package notify

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/travelbunk/backend/src/lib"
)

// Subscriber is one connected client. *websocket.Conn satisfies it.
type Subscriber interface {
	WriteJSON(v any) error
}

// Hub tracks websocket subscribers per channel and fans events out to them.
// It is the in-process equivalent of Socket.io rooms keyed by email.
type Hub struct {
	mu   sync.RWMutex
	subs map[string]map[Subscriber]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[string]map[Subscriber]struct{})}
}

// Subscribe registers a client on a channel.
func (h *Hub) Subscribe(channel string, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.subs[channel] == nil {
		h.subs[channel] = make(map[Subscriber]struct{})
	}
	h.subs[channel][sub] = struct{}{}
}

// Unsubscribe removes a client. Safe to call for unknown subscribers.
func (h *Hub) Unsubscribe(channel string, sub Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.subs[channel]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, channel)
		}
	}
}

func (h *Hub) Publish(_ context.Context, channel, event string, payload any) {
	h.mu.RLock()
	targets := make([]Subscriber, 0, len(h.subs[channel]))
	for sub := range h.subs[channel] {
		targets = append(targets, sub)
	}
	h.mu.RUnlock()

	h.deliver(targets, channel, event, payload)
}

func (h *Hub) Broadcast(_ context.Context, event string, payload any) {
	h.mu.RLock()
	var targets []Subscriber
	for _, set := range h.subs {
		for sub := range set {
			targets = append(targets, sub)
		}
	}
	h.mu.RUnlock()

	h.deliver(targets, "", event, payload)
}

func (h *Hub) deliver(targets []Subscriber, channel, event string, payload any) {
	msg := Event{Event: event, Data: payload}
	for _, sub := range targets {
		if err := sub.WriteJSON(msg); err != nil {
			lib.Log.WithFields(logrus.Fields{
				"channel": channel,
				"event":   event,
				"error":   err,
			}).Warn("notify: dropped event")
		}
	}
}

// Subscribers reports how many clients are on a channel.
func (h *Hub) Subscribers(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[channel])
}
