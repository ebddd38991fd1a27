// Package connections implements the connection-request state machine over
// the user directory. Each request is stored denormalized on both the
// sender's and the receiver's document; the two writes are not atomic, so a
// crash between them can leave one side updated. Respond tolerates that by
// updating whichever side still holds the record.
package connections

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/travelbunk/backend/src/lib"
	"github.com/travelbunk/backend/src/models"
	"github.com/travelbunk/backend/src/notify"
	"github.com/travelbunk/backend/src/store"
)

const (
	ActionAccept = "accept"
	ActionReject = "reject"
)

// Manager runs the send/respond/list operations. Construct with NewManager.
type Manager struct {
	users store.UserStore
	sink  notify.Sink
	now   func() time.Time
	newID func() string
}

func NewManager(users store.UserStore, sink notify.Sink) *Manager {
	return &Manager{
		users: users,
		sink:  sink,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// SendRequest creates a pending request from fromEmail to toEmail. The trip
// payload is opaque and stored as-is. Preconditions run in order and the
// first failure wins; on success the receiver's document is written first,
// then the sender's, then a request-received event is published to the
// receiver's channel.
func (m *Manager) SendRequest(ctx context.Context, fromEmail, toEmail string, trip map[string]any) Result {
	if fromEmail == "" || toEmail == "" {
		return failResult(KindValidation, "Missing emails")
	}
	if fromEmail == toEmail {
		return failResult(KindValidation, "Cannot send request to yourself")
	}

	sender, err := m.users.FindByEmail(ctx, fromEmail)
	if err != nil {
		return m.lookupFailure(err)
	}
	receiver, err := m.users.FindByEmail(ctx, toEmail)
	if err != nil {
		return m.lookupFailure(err)
	}

	if slices.Contains(sender.Connections, toEmail) || slices.Contains(receiver.Connections, fromEmail) {
		return failResult(KindConflict, "Already connected")
	}
	if hasPendingOutgoing(sender.SentRequests, toEmail) {
		return failResult(KindConflict, "Request already sent")
	}
	// Guards the race where an earlier send landed on the receiver only.
	if hasPendingIncoming(receiver.Requests, fromEmail) {
		return failResult(KindConflict, "Request already pending")
	}

	now := m.now()
	id := m.newID()

	incoming := models.ConnectionRequest{
		Id:        id,
		FromEmail: fromEmail,
		FromName:  sender.FirstName,
		Trip:      trip,
		Status:    models.RequestStatusPending,
		CreatedAt: now,
	}
	outgoing := models.ConnectionRequest{
		Id:        id,
		ToEmail:   toEmail,
		Trip:      trip,
		Status:    models.RequestStatusPending,
		CreatedAt: now,
	}

	if err := m.users.PushIncomingRequest(ctx, toEmail, incoming); err != nil {
		lib.Log.WithError(err).Error("connections: push incoming request")
		return failResult(KindStore, "Server error")
	}
	if err := m.users.PushOutgoingRequest(ctx, fromEmail, outgoing); err != nil {
		// The receiver already holds the record; the pre-checks on the
		// incoming side keep a retry from duplicating it.
		lib.Log.WithError(err).WithFields(logrus.Fields{
			"from": fromEmail,
			"to":   toEmail,
		}).Error("connections: push outgoing request, receiver side already written")
		return failResult(KindStore, "Server error")
	}

	m.sink.Publish(ctx, toEmail, "request-received", incoming)

	return okResult()
}

// RespondRequest resolves a pending request at toEmail from fromEmail with
// accept or reject. Both sides' records transition together when present; a
// missing side is logged and skipped rather than failing the operation, since
// the dual write in SendRequest is not atomic. Accept adds each user to the
// other's connection set (idempotent).
func (m *Manager) RespondRequest(ctx context.Context, toEmail, fromEmail, action string) Result {
	if action != ActionAccept && action != ActionReject {
		return failResult(KindValidation, "Invalid action")
	}
	if toEmail == "" || fromEmail == "" {
		return failResult(KindValidation, "Missing emails")
	}

	receiver, err := m.users.FindByEmail(ctx, toEmail)
	if err != nil {
		return m.lookupFailure(err)
	}
	sender, err := m.users.FindByEmail(ctx, fromEmail)
	if err != nil {
		return m.lookupFailure(err)
	}

	status := models.RequestStatusAccepted
	if action == ActionReject {
		status = models.RequestStatusRejected
	}

	incoming, haveIncoming := latestPendingIncoming(receiver.Requests, fromEmail)
	outgoing, haveOutgoing := latestPendingOutgoing(sender.SentRequests, toEmail)
	if haveIncoming != haveOutgoing {
		lib.Log.WithFields(logrus.Fields{
			"from":        fromEmail,
			"to":          toEmail,
			"receiverHas": haveIncoming,
		}).Warn("connections: one-sided request record, proceeding on the present side")
	}

	if haveIncoming {
		if err := m.users.SetIncomingStatus(ctx, toEmail, incoming.Id, status); err != nil {
			lib.Log.WithError(err).Error("connections: set incoming status")
			return failResult(KindStore, "Server error")
		}
	}
	if haveOutgoing {
		if err := m.users.SetOutgoingStatus(ctx, fromEmail, outgoing.Id, status); err != nil {
			lib.Log.WithError(err).Error("connections: set outgoing status")
			return failResult(KindStore, "Server error")
		}
	}

	if action == ActionAccept {
		if err := m.users.AddConnection(ctx, toEmail, fromEmail); err != nil {
			lib.Log.WithError(err).Error("connections: add connection to receiver")
			return failResult(KindStore, "Server error")
		}
		if err := m.users.AddConnection(ctx, fromEmail, toEmail); err != nil {
			lib.Log.WithError(err).WithFields(logrus.Fields{
				"from": fromEmail,
				"to":   toEmail,
			}).Error("connections: add connection to sender, connection set asymmetric")
			return failResult(KindStore, "Server error")
		}
	}

	m.sink.Publish(ctx, fromEmail, "request-"+action+"ed", map[string]any{
		"toEmail": toEmail,
		"status":  string(status),
	})

	return okResult()
}

// ListRequests returns the user's incoming and outgoing requests in stored
// order.
func (m *Manager) ListRequests(ctx context.Context, email string) ([]models.ConnectionRequest, []models.ConnectionRequest, Result) {
	if email == "" {
		return nil, nil, failResult(KindValidation, "Missing email")
	}

	user, err := m.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, m.lookupFailure(err)
	}

	incoming := user.Requests
	if incoming == nil {
		incoming = []models.ConnectionRequest{}
	}
	outgoing := user.SentRequests
	if outgoing == nil {
		outgoing = []models.ConnectionRequest{}
	}
	return incoming, outgoing, okResult()
}

// AreConnected reports whether a and b hold an established connection.
func (m *Manager) AreConnected(ctx context.Context, a, b string) (bool, error) {
	user, err := m.users.FindByEmail(ctx, a)
	if err != nil {
		return false, err
	}
	return slices.Contains(user.Connections, b), nil
}

// Status derives the relationship between fromEmail and toEmail as seen from
// fromEmail: connected, pending (request sent), received (request waiting for
// a response) or none.
func (m *Manager) Status(ctx context.Context, fromEmail, toEmail string) (string, Result) {
	if fromEmail == "" || toEmail == "" {
		return "", failResult(KindValidation, "Missing emails")
	}
	if fromEmail == toEmail {
		return "", failResult(KindValidation, "Cannot check status with yourself")
	}

	user, err := m.users.FindByEmail(ctx, fromEmail)
	if err != nil {
		return "", m.lookupFailure(err)
	}

	switch {
	case slices.Contains(user.Connections, toEmail):
		return "connected", okResult()
	case hasPendingOutgoing(user.SentRequests, toEmail):
		return "pending", okResult()
	case hasPendingIncoming(user.Requests, toEmail):
		return "received", okResult()
	}
	return "none", okResult()
}

func (m *Manager) lookupFailure(err error) Result {
	if errors.Is(err, store.ErrNotFound) {
		return failResult(KindNotFound, "User not found")
	}
	lib.Log.WithError(err).Error("connections: user lookup")
	return failResult(KindStore, "Server error")
}

func hasPendingOutgoing(reqs []models.ConnectionRequest, toEmail string) bool {
	_, found := latestPendingOutgoing(reqs, toEmail)
	return found
}

func hasPendingIncoming(reqs []models.ConnectionRequest, fromEmail string) bool {
	_, found := latestPendingIncoming(reqs, fromEmail)
	return found
}

// latestPendingIncoming picks the most recent pending record from fromEmail.
// Insertion order is preserved in storage, so the last match wins.
func latestPendingIncoming(reqs []models.ConnectionRequest, fromEmail string) (models.ConnectionRequest, bool) {
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].FromEmail == fromEmail && reqs[i].Status == models.RequestStatusPending {
			return reqs[i], true
		}
	}
	return models.ConnectionRequest{}, false
}

func latestPendingOutgoing(reqs []models.ConnectionRequest, toEmail string) (models.ConnectionRequest, bool) {
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].ToEmail == toEmail && reqs[i].Status == models.RequestStatusPending {
			return reqs[i], true
		}
	}
	return models.ConnectionRequest{}, false
}
