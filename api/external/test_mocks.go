/* test_mocks.go
 * Contains a mock implementation of Interface for testing the packages that call the festival API
 * Authors: AIRO Web Team
 */

package external

import (
	"context"
	"fmt"
	"sync"

	"airo-web/api/shared"
)

// GenderCall records one UpdateGender call made against MockBackend
type GenderCall struct {
	Token              string
	Gender             shared.Gender
	ClearRegistrations bool
}

// MockBackend implements Interface for testing
type MockBackend struct {
	mu sync.Mutex

	// Canned responses
	Auth          AuthResponse
	Events        []shared.SportEvent
	Registrations []shared.Registration
	Created       shared.Registration

	// Set to make UpdateGender without clearRegistrations ask for confirmation
	ConfirmRegistrations int

	// Error injection for testing error paths
	LoginError              error
	UpdateGenderError       error
	FetchEventsError        error
	FetchRegistrationsError error
	CreateError             error
	DeleteError             error

	// Call log
	Calls       []string
	Tokens      []string
	GenderCalls []GenderCall
	Payloads    []RegistrationPayload
	DeletedIDs  []string
	LoginTokens []string
	LoginCodes  []string
}

// Ensure MockBackend implements Interface
var _ Interface = (*MockBackend)(nil)

// NewMockBackend creates a new MockBackend whose logins succeed for a user with no gender
func NewMockBackend() *MockBackend {
	return &MockBackend{
		Auth: AuthResponse{
			User:  shared.User{ID: "user-1", Email: "asha@nitt.edu", Name: "Asha", Role: "USER"},
			Token: "token-1",
		},
	}
}

func (m *MockBackend) record(call string, token string) {
	m.Calls = append(m.Calls, call)
	m.Tokens = append(m.Tokens, token)
}

// CallCount returns the number of calls made with the given name, e.g. "CreateRegistration"
func (m *MockBackend) CallCount(call string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.Calls {
		if c == call {
			n++
		}
	}
	return n
}

func (m *MockBackend) GoogleLogin(ctx context.Context, idToken string) (AuthResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GoogleLogin", "")
	m.LoginTokens = append(m.LoginTokens, idToken)
	if m.LoginError != nil {
		return AuthResponse{}, m.LoginError
	}
	return m.Auth, nil
}

func (m *MockBackend) GoogleCodeLogin(ctx context.Context, code string) (AuthResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("GoogleCodeLogin", "")
	m.LoginCodes = append(m.LoginCodes, code)
	if m.LoginError != nil {
		return AuthResponse{}, m.LoginError
	}
	return m.Auth, nil
}

func (m *MockBackend) UpdateGender(ctx context.Context, token string, gender shared.Gender, clearRegistrations bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("UpdateGender", token)
	m.GenderCalls = append(m.GenderCalls, GenderCall{Token: token, Gender: gender, ClearRegistrations: clearRegistrations})
	if m.UpdateGenderError != nil {
		return m.UpdateGenderError
	}
	if m.ConfirmRegistrations > 0 && !clearRegistrations {
		return &APIError{
			Status:               409,
			Message:              fmt.Sprintf("You have %d registrations", m.ConfirmRegistrations),
			RequiresConfirmation: true,
			RegistrationCount:    m.ConfirmRegistrations,
		}
	}
	return nil
}

func (m *MockBackend) FetchEvents(ctx context.Context) ([]shared.SportEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FetchEvents", "")
	if m.FetchEventsError != nil {
		return nil, m.FetchEventsError
	}
	return append([]shared.SportEvent(nil), m.Events...), nil
}

func (m *MockBackend) FetchRegistrations(ctx context.Context, token string) ([]shared.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("FetchRegistrations", token)
	if m.FetchRegistrationsError != nil {
		return nil, m.FetchRegistrationsError
	}
	return append([]shared.Registration(nil), m.Registrations...), nil
}

func (m *MockBackend) CreateRegistration(ctx context.Context, token string, payload RegistrationPayload) (shared.Registration, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("CreateRegistration", token)
	m.Payloads = append(m.Payloads, payload)
	if m.CreateError != nil {
		return shared.Registration{}, m.CreateError
	}
	return m.Created, nil
}

func (m *MockBackend) DeleteRegistration(ctx context.Context, token string, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.record("DeleteRegistration", token)
	m.DeletedIDs = append(m.DeletedIDs, id)
	if m.DeleteError != nil {
		return m.DeleteError
	}
	kept := m.Registrations[:0]
	for _, reg := range m.Registrations {
		if reg.ID != id {
			kept = append(kept, reg)
		}
	}
	m.Registrations = kept
	return nil
}
