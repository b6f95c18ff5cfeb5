/* test_mocks.go
 * Contains mock structures for testing the API package
 * Authors: AIRO Web Team
 */

package api

import (
	"sync"

	"airo-web/api/shared"
)

// MockNotifier implements Notifier for testing
type MockNotifier struct {
	mu        sync.Mutex
	Created   []shared.Registration
	Cancelled []shared.Registration
	Users     []shared.User
}

// Ensure MockNotifier implements Notifier
var _ Notifier = (*MockNotifier)(nil)

func (m *MockNotifier) RegistrationCreated(user shared.User, event shared.SportEvent, reg shared.Registration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Users = append(m.Users, user)
	m.Created = append(m.Created, reg)
}

func (m *MockNotifier) RegistrationCancelled(user shared.User, reg shared.Registration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Users = append(m.Users, user)
	m.Cancelled = append(m.Cancelled, reg)
}
