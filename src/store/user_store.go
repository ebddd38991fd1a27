// Package store adapts the users collection as the user directory consumed by
// the connection-request manager: keyed lookup by email, partial updates and
// the embedded request/connection array mutations.
package store

import (
	"context"
	"errors"

	"github.com/travelbunk/backend/src/models"
)

// ErrNotFound is returned when no user document matches the given email.
var ErrNotFound = errors.New("store: user not found")

// ErrDuplicateEmail is returned when an insert collides with the unique email
// index.
var ErrDuplicateEmail = errors.New("store: email already exists")

// UserStore is the user directory contract. Every mutation targets a single
// document; there is no cross-document transaction, so callers sequencing
// writes against two users own the partial-failure window.
type UserStore interface {
	// FindByEmail returns the full user document or ErrNotFound.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// Insert stores a new user, ErrDuplicateEmail if the email is taken.
	Insert(ctx context.Context, user *models.User) error

	// UpdateFields applies a partial $set-style patch to one user.
	UpdateFields(ctx context.Context, email string, patch map[string]any) error

	// PushIncomingRequest appends a record to the user's incoming requests.
	PushIncomingRequest(ctx context.Context, email string, req models.ConnectionRequest) error

	// PushOutgoingRequest appends a record to the user's outgoing requests.
	PushOutgoingRequest(ctx context.Context, email string, req models.ConnectionRequest) error

	// SetIncomingStatus updates the status of the incoming record with the
	// given request id. Missing records are not an error.
	SetIncomingStatus(ctx context.Context, email, requestID string, status models.RequestStatus) error

	// SetOutgoingStatus is SetIncomingStatus for the outgoing side.
	SetOutgoingStatus(ctx context.Context, email, requestID string, status models.RequestStatus) error

	// AddConnection adds peer to the user's connection set. Idempotent.
	AddConnection(ctx context.Context, email, peer string) error
}
