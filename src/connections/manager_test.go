package connections

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/travelbunk/backend/src/models"
	"github.com/travelbunk/backend/src/store"
)

type sinkEvent struct {
	Channel string
	Event   string
	Payload any
}

// recordSink captures published events for assertions.
type recordSink struct {
	events []sinkEvent
}

func (s *recordSink) Publish(_ context.Context, channel, event string, payload any) {
	s.events = append(s.events, sinkEvent{Channel: channel, Event: event, Payload: payload})
}

func (s *recordSink) Broadcast(_ context.Context, event string, payload any) {
	s.events = append(s.events, sinkEvent{Channel: "*", Event: event, Payload: payload})
}

func newTestManager(t *testing.T, emails ...string) (*Manager, *store.MemoryUserStore, *recordSink) {
	t.Helper()
	users := store.NewMemoryUserStore()
	for _, email := range emails {
		err := users.Insert(context.Background(), &models.User{
			FirstName: "User",
			Email:     email,
		})
		require.NoError(t, err)
	}
	sink := &recordSink{}
	return NewManager(users, sink), users, sink
}

func TestSendRequestHappyPath(t *testing.T) {
	ctx := context.Background()
	m, _, sink := newTestManager(t, "alice@x.com", "bob@x.com")

	res := m.SendRequest(ctx, "alice@x.com", "bob@x.com", map[string]any{"destination": "Goa"})
	require.True(t, res.OK, "send failed: %s", res.Message)

	incoming, _, lres := m.ListRequests(ctx, "bob@x.com")
	require.True(t, lres.OK)
	require.Len(t, incoming, 1)
	assert.Equal(t, "alice@x.com", incoming[0].FromEmail)
	assert.Equal(t, models.RequestStatusPending, incoming[0].Status)
	assert.Equal(t, "Goa", incoming[0].Trip["destination"])
	assert.NotEmpty(t, incoming[0].Id)
	assert.False(t, incoming[0].CreatedAt.IsZero())

	_, outgoing, lres := m.ListRequests(ctx, "alice@x.com")
	require.True(t, lres.OK)
	require.Len(t, outgoing, 1)
	assert.Equal(t, "bob@x.com", outgoing[0].ToEmail)
	assert.Equal(t, models.RequestStatusPending, outgoing[0].Status)
	assert.Equal(t, incoming[0].Id, outgoing[0].Id, "both sides share the request id")

	require.Len(t, sink.events, 1)
	assert.Equal(t, "bob@x.com", sink.events[0].Channel)
	assert.Equal(t, "request-received", sink.events[0].Event)
}

func TestSendRequestValidation(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t, "alice@x.com", "bob@x.com")

	res := m.SendRequest(ctx, "", "bob@x.com", nil)
	assert.False(t, res.OK)
	assert.Equal(t, KindValidation, res.Kind)

	res = m.SendRequest(ctx, "alice@x.com", "", nil)
	assert.False(t, res.OK)
	assert.Equal(t, KindValidation, res.Kind)

	res = m.SendRequest(ctx, "alice@x.com", "alice@x.com", nil)
	assert.False(t, res.OK)
	assert.Equal(t, KindValidation, res.Kind)
	assert.Equal(t, "Cannot send request to yourself", res.Message)
}

func TestSendRequestUnknownUser(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t, "alice@x.com")

	res := m.SendRequest(ctx, "alice@x.com", "ghost@x.com", nil)
	assert.False(t, res.OK)
	assert.Equal(t, KindNotFound, res.Kind)

	res = m.SendRequest(ctx, "ghost@x.com", "alice@x.com", nil)
	assert.False(t, res.OK)
	assert.Equal(t, KindNotFound, res.Kind)
}

func TestSendRequestDuplicatePending(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t, "alice@x.com", "bob@x.com")

	require.True(t, m.SendRequest(ctx, "alice@x.com", "bob@x.com", nil).OK)

	res := m.SendRequest(ctx, "alice@x.com", "bob@x.com", nil)
	assert.False(t, res.OK)
	assert.Equal(t, KindConflict, res.Kind)
	assert.Equal(t, "Request already sent", res.Message)
}

func TestSendRequestReverseStillPending(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t, "alice@x.com", "bob@x.com")

	require.True(t, m.SendRequest(ctx, "alice@x.com", "bob@x.com", nil).OK)

	// Bob asking Alice while her request sits unanswered is allowed by the
	// pre-checks only in the alice->bob direction; the reverse direction has
	// its own pending pair, so it goes through.
	res := m.SendRequest(ctx, "bob@x.com", "alice@x.com", nil)
	assert.True(t, res.OK)
}

func TestSendRequestIncomingSideGuard(t *testing.T) {
	ctx := context.Background()
	m, users, _ := newTestManager(t, "alice@x.com", "bob@x.com")

	// Simulate a crashed earlier send that only reached the receiver.
	err := users.PushIncomingRequest(ctx, "bob@x.com", models.ConnectionRequest{
		Id:        "orphan",
		FromEmail: "alice@x.com",
		Status:    models.RequestStatusPending,
	})
	require.NoError(t, err)

	res := m.SendRequest(ctx, "alice@x.com", "bob@x.com", nil)
	assert.False(t, res.OK)
	assert.Equal(t, KindConflict, res.Kind)
	assert.Equal(t, "Request already pending", res.Message)
}

func TestRespondRequestAccept(t *testing.T) {
	ctx := context.Background()
	m, _, sink := newTestManager(t, "alice@x.com", "bob@x.com")

	require.True(t, m.SendRequest(ctx, "alice@x.com", "bob@x.com", nil).OK)

	res := m.RespondRequest(ctx, "bob@x.com", "alice@x.com", ActionAccept)
	require.True(t, res.OK, "respond failed: %s", res.Message)

	connected, err := m.AreConnected(ctx, "alice@x.com", "bob@x.com")
	require.NoError(t, err)
	assert.True(t, connected)
	connected, err = m.AreConnected(ctx, "bob@x.com", "alice@x.com")
	require.NoError(t, err)
	assert.True(t, connected)

	incoming, _, _ := m.ListRequests(ctx, "bob@x.com")
	require.Len(t, incoming, 1)
	assert.Equal(t, models.RequestStatusAccepted, incoming[0].Status)

	_, outgoing, _ := m.ListRequests(ctx, "alice@x.com")
	require.Len(t, outgoing, 1)
	assert.Equal(t, models.RequestStatusAccepted, outgoing[0].Status)

	// request-received to bob, then request-accepted to alice
	require.Len(t, sink.events, 2)
	assert.Equal(t, "alice@x.com", sink.events[1].Channel)
	assert.Equal(t, "request-accepted", sink.events[1].Event)
}

func TestRespondRequestReject(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t, "alice@x.com", "bob@x.com")

	require.True(t, m.SendRequest(ctx, "alice@x.com", "bob@x.com", nil).OK)
	require.True(t, m.RespondRequest(ctx, "bob@x.com", "alice@x.com", ActionReject).OK)

	connected, err := m.AreConnected(ctx, "alice@x.com", "bob@x.com")
	require.NoError(t, err)
	assert.False(t, connected)

	incoming, _, _ := m.ListRequests(ctx, "bob@x.com")
	require.Len(t, incoming, 1)
	assert.Equal(t, models.RequestStatusRejected, incoming[0].Status)

	// A rejected request does not block a new attempt.
	res := m.SendRequest(ctx, "alice@x.com", "bob@x.com", nil)
	assert.True(t, res.OK, "resend after reject failed: %s", res.Message)

	incoming, _, _ = m.ListRequests(ctx, "bob@x.com")
	assert.Len(t, incoming, 2)
}

func TestRespondRequestInvalidAction(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t, "alice@x.com", "bob@x.com")

	res := m.RespondRequest(ctx, "bob@x.com", "alice@x.com", "block")
	assert.False(t, res.OK)
	assert.Equal(t, KindValidation, res.Kind)
	assert.Equal(t, "Invalid action", res.Message)
}

func TestRespondRequestIdempotentAccept(t *testing.T) {
	ctx := context.Background()
	m, users, _ := newTestManager(t, "alice@x.com", "bob@x.com")

	require.True(t, m.SendRequest(ctx, "alice@x.com", "bob@x.com", nil).OK)
	require.True(t, m.RespondRequest(ctx, "bob@x.com", "alice@x.com", ActionAccept).OK)

	// No matching pending record remains; the leniency policy still reports
	// success and the connection sets stay free of duplicates.
	res := m.RespondRequest(ctx, "bob@x.com", "alice@x.com", ActionAccept)
	assert.True(t, res.OK)

	bob, err := users.FindByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"alice@x.com"}, bob.Connections)

	alice, err := users.FindByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob@x.com"}, alice.Connections)
}

func TestRespondRequestOneSidedRecord(t *testing.T) {
	ctx := context.Background()
	m, users, _ := newTestManager(t, "alice@x.com", "bob@x.com")

	// Only the receiver holds the record, as after a partial send.
	err := users.PushIncomingRequest(ctx, "bob@x.com", models.ConnectionRequest{
		Id:        "half",
		FromEmail: "alice@x.com",
		Status:    models.RequestStatusPending,
	})
	require.NoError(t, err)

	res := m.RespondRequest(ctx, "bob@x.com", "alice@x.com", ActionAccept)
	assert.True(t, res.OK)

	bob, err := users.FindByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	require.Len(t, bob.Requests, 1)
	assert.Equal(t, models.RequestStatusAccepted, bob.Requests[0].Status)

	connected, err := m.AreConnected(ctx, "alice@x.com", "bob@x.com")
	require.NoError(t, err)
	assert.True(t, connected)
}

func TestRespondRequestPicksMostRecentPending(t *testing.T) {
	ctx := context.Background()
	m, users, _ := newTestManager(t, "alice@x.com", "bob@x.com")

	// Two pending records from the same sender can exist after a lost race;
	// the most recent one is resolved.
	for _, id := range []string{"old", "new"} {
		err := users.PushIncomingRequest(ctx, "bob@x.com", models.ConnectionRequest{
			Id:        id,
			FromEmail: "alice@x.com",
			Status:    models.RequestStatusPending,
		})
		require.NoError(t, err)
	}

	require.True(t, m.RespondRequest(ctx, "bob@x.com", "alice@x.com", ActionReject).OK)

	bob, err := users.FindByEmail(ctx, "bob@x.com")
	require.NoError(t, err)
	assert.Equal(t, models.RequestStatusPending, bob.Requests[0].Status)
	assert.Equal(t, models.RequestStatusRejected, bob.Requests[1].Status)
}

func TestSendRequestWhenAlreadyConnected(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t, "alice@x.com", "bob@x.com")

	require.True(t, m.SendRequest(ctx, "alice@x.com", "bob@x.com", nil).OK)
	require.True(t, m.RespondRequest(ctx, "bob@x.com", "alice@x.com", ActionAccept).OK)

	for _, pair := range [][2]string{
		{"alice@x.com", "bob@x.com"},
		{"bob@x.com", "alice@x.com"},
	} {
		res := m.SendRequest(ctx, pair[0], pair[1], nil)
		assert.False(t, res.OK)
		assert.Equal(t, KindConflict, res.Kind)
		assert.Equal(t, "Already connected", res.Message)
	}
}

func TestListRequestsUnknownUser(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t)

	_, _, res := m.ListRequests(ctx, "ghost@x.com")
	assert.False(t, res.OK)
	assert.Equal(t, KindNotFound, res.Kind)
}

func TestListRequestsEmptyUser(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t, "alice@x.com")

	incoming, outgoing, res := m.ListRequests(ctx, "alice@x.com")
	require.True(t, res.OK)
	assert.NotNil(t, incoming)
	assert.NotNil(t, outgoing)
	assert.Empty(t, incoming)
	assert.Empty(t, outgoing)
}

func TestStatusDerivation(t *testing.T) {
	ctx := context.Background()
	m, _, _ := newTestManager(t, "alice@x.com", "bob@x.com", "carol@x.com")

	status, res := m.Status(ctx, "alice@x.com", "carol@x.com")
	require.True(t, res.OK)
	assert.Equal(t, "none", status)

	require.True(t, m.SendRequest(ctx, "alice@x.com", "bob@x.com", nil).OK)

	status, _ = m.Status(ctx, "alice@x.com", "bob@x.com")
	assert.Equal(t, "pending", status)
	status, _ = m.Status(ctx, "bob@x.com", "alice@x.com")
	assert.Equal(t, "received", status)

	require.True(t, m.RespondRequest(ctx, "bob@x.com", "alice@x.com", ActionAccept).OK)

	status, _ = m.Status(ctx, "alice@x.com", "bob@x.com")
	assert.Equal(t, "connected", status)

	_, res = m.Status(ctx, "alice@x.com", "alice@x.com")
	assert.False(t, res.OK)
	assert.Equal(t, KindValidation, res.Kind)
}
