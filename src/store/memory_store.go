package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/travelbunk/backend/src/models"
)

// MemoryUserStore is an in-memory UserStore used by tests. Documents are
// deep-copied on the way in and out so callers cannot mutate stored state.
type MemoryUserStore struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[string]*models.User)}
}

func (s *MemoryUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUser(u), nil
}

func (s *MemoryUserStore) Insert(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Email]; ok {
		return ErrDuplicateEmail
	}
	s.users[user.Email] = copyUser(user)
	return nil
}

func (s *MemoryUserStore) UpdateFields(_ context.Context, email string, patch map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return ErrNotFound
	}
	// Patching a field this double does not map is a bug in the test, not a
	// silent no-op, so it errors loudly.
	for k, v := range patch {
		switch k {
		case "firstName":
			u.FirstName, _ = v.(string)
		case "lastName":
			u.LastName, _ = v.(string)
		case "phone":
			u.Phone, _ = v.(string)
		case "travelStyle":
			u.TravelStyle, _ = v.(string)
		case "bio":
			u.Bio, _ = v.(string)
		case "college":
			u.College, _ = v.(string)
		case "img":
			u.Img, _ = v.(string)
		default:
			return fmt.Errorf("memory store: unmapped patch field %q", k)
		}
	}
	return nil
}

func (s *MemoryUserStore) PushIncomingRequest(_ context.Context, email string, req models.ConnectionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return ErrNotFound
	}
	u.Requests = append(u.Requests, req)
	return nil
}

func (s *MemoryUserStore) PushOutgoingRequest(_ context.Context, email string, req models.ConnectionRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return ErrNotFound
	}
	u.SentRequests = append(u.SentRequests, req)
	return nil
}

func (s *MemoryUserStore) SetIncomingStatus(_ context.Context, email, requestID string, status models.RequestStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return nil
	}
	for i := range u.Requests {
		if u.Requests[i].Id == requestID {
			u.Requests[i].Status = status
		}
	}
	return nil
}

func (s *MemoryUserStore) SetOutgoingStatus(_ context.Context, email, requestID string, status models.RequestStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return nil
	}
	for i := range u.SentRequests {
		if u.SentRequests[i].Id == requestID {
			u.SentRequests[i].Status = status
		}
	}
	return nil
}

func (s *MemoryUserStore) AddConnection(_ context.Context, email, peer string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.users[email]
	if !ok {
		return ErrNotFound
	}
	for _, c := range u.Connections {
		if c == peer {
			return nil
		}
	}
	u.Connections = append(u.Connections, peer)
	return nil
}

func copyUser(u *models.User) *models.User {
	out := *u
	out.Trips = append([]models.Trip(nil), u.Trips...)
	out.Blogs = append([]models.BlogSummary(nil), u.Blogs...)
	out.Photos = append([]models.PhotoSummary(nil), u.Photos...)
	out.Badges = append([]string(nil), u.Badges...)
	out.Connections = append([]string(nil), u.Connections...)
	out.Requests = copyRequests(u.Requests)
	out.SentRequests = copyRequests(u.SentRequests)
	return &out
}

func copyRequests(in []models.ConnectionRequest) []models.ConnectionRequest {
	if in == nil {
		return nil
	}
	out := make([]models.ConnectionRequest, len(in))
	copy(out, in)
	for i := range out {
		if out[i].Trip != nil {
			trip := make(map[string]any, len(out[i].Trip))
			for k, v := range out[i].Trip {
				trip[k] = v
			}
			out[i].Trip = trip
		}
	}
	return out
}
