package controllers

import (
	"github.com/travelbunk/backend/src/connections"
	"github.com/travelbunk/backend/src/notify"
	"github.com/travelbunk/backend/src/store"
)

// Shared collaborators, wired once from main before routes are registered.
var (
	users   store.UserStore
	manager *connections.Manager
	sink    notify.Sink = notify.NopSink{}
	hub     *notify.Hub
)

// Init hands the controllers their collaborators.
func Init(u store.UserStore, m *connections.Manager, s notify.Sink, h *notify.Hub) {
	users = u
	manager = m
	sink = s
	hub = h
}
