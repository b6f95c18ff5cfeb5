/* session.go
 * Contains the session store: the signed in user and their bearer token for one browser, persisted in durable
 * storage keyed by the session cookie. A Session is created per request by a Manager and passed explicitly to
 * whatever needs it; there is no package level session state
 * Authors: AIRO Web Team
 */

package session

import (
	"context"
	"errors"
	"fmt"
	"log"

	"airo-web/api/external"
	"airo-web/api/shared"
	"airo-web/api/store"

	"github.com/google/uuid"
)

const (
	MsgAuthFailed = "Authentication failed"
	MsgNetwork    = "Network error. Please try again."
)

// ErrSignedOut is returned by writes to a session that is signed out, or was signed out by another request since
// it was hydrated
var ErrSignedOut = errors.New("session is signed out")

// Result is the outcome of a login. Login never returns a Go error; failures are described by Error
type Result struct {
	Success bool
	Error   string
}

// Manager creates Sessions bound to a storage backend and the festival API
type Manager struct {
	Store   store.Interface
	Backend external.Interface
}

func NewManager(st store.Interface, backend external.Interface) *Manager {
	return &Manager{Store: st, Backend: backend}
}

// New creates a session with a freshly minted id. Nothing is stored until the first write
func (m *Manager) New() *Session {
	return m.Open(uuid.NewString())
}

// Open binds a session to an existing id. The session reports IsLoading until Hydrate is called
func (m *Manager) Open(sid string) *Session {
	return &Session{id: sid, store: m.Store, backend: m.Backend, loading: true}
}

// Session is the signed in state of one browser
type Session struct {
	id      string
	store   store.Interface
	backend external.Interface
	loading bool
	stored  bool
	record  store.Record
}

func (s *Session) ID() string {
	return s.id
}

// Stored reports whether Hydrate found a record for this id. Ids without one were never signed in by this server
func (s *Session) Stored() bool {
	return s.stored
}

// IsLoading reports whether the session has not been hydrated from durable storage yet
func (s *Session) IsLoading() bool {
	return s.loading
}

// Hydrate loads the persisted record for this session.
// Preconditions: Receives a context
// Postconditions: IsLoading is false. A missing record leaves the session signed out and is not an error; a
// storage failure also leaves it signed out and is returned
func (s *Session) Hydrate(ctx context.Context) error {
	defer func() { s.loading = false }()

	s.stored = false
	record, err := s.store.Load(ctx, s.id)
	if errors.Is(err, store.ErrNotFound) {
		s.record = store.Record{}
		return nil
	}
	if err != nil {
		s.record = store.Record{}
		return fmt.Errorf("failed to hydrate session: %w", err)
	}
	// token and user only count together
	if !record.SignedIn() {
		record.Token, record.User = "", nil
	}
	s.stored = true
	s.record = record
	return nil
}

// User returns a copy of the signed in user, or nil when signed out
func (s *Session) User() *shared.User {
	if s.record.User == nil {
		return nil
	}
	user := *s.record.User
	return &user
}

// Token returns the bearer token, or an empty string when signed out
func (s *Session) Token() string {
	return s.record.Token
}

func (s *Session) SignedIn() bool {
	return s.record.SignedIn()
}

// Login exchanges a Google identity token for an application session (POST /auth/google)
func (s *Session) Login(ctx context.Context, idToken string) Result {
	res, err := s.backend.GoogleLogin(ctx, idToken)
	return s.completeLogin(ctx, res, err)
}

// LoginWithCode exchanges a Google authorization code for an application session (POST /auth/google/code)
func (s *Session) LoginWithCode(ctx context.Context, code string) Result {
	res, err := s.backend.GoogleCodeLogin(ctx, code)
	return s.completeLogin(ctx, res, err)
}

// completeLogin persists {user, token} under a freshly minted id and only then makes them the in memory state.
// The id in use before the login is deleted, so an id known before sign in never becomes a signed in one; callers
// must reissue the session cookie from ID()
func (s *Session) completeLogin(ctx context.Context, res external.AuthResponse, err error) Result {
	if err != nil {
		var apiErr *external.APIError
		if errors.As(err, &apiErr) {
			return Result{Error: apiErr.MessageOr(MsgAuthFailed)}
		}
		log.Printf("login request failed: %v", err)
		return Result{Error: MsgNetwork}
	}
	if res.Token == "" || res.User.ID == "" {
		return Result{Error: MsgAuthFailed}
	}

	user := res.User
	record := store.Record{Token: res.Token, User: &user}
	sid := uuid.NewString()
	if err := s.store.Save(ctx, sid, record); err != nil {
		log.Printf("failed to persist session: %v", err)
		return Result{Error: MsgAuthFailed}
	}
	if err := s.store.Delete(ctx, s.id); err != nil {
		log.Printf("failed to remove pre-login session: %v", err)
	}
	s.id = sid
	s.record = record
	s.stored = true
	s.loading = false
	return Result{Success: true}
}

// Logout clears the session in memory and in durable storage. It makes no network call and may be repeated.
// The in memory state is cleared even when the storage delete fails; that error is returned
func (s *Session) Logout(ctx context.Context) error {
	s.record = store.Record{}
	s.stored = false
	s.loading = false
	if err := s.store.Delete(ctx, s.id); err != nil {
		return fmt.Errorf("failed to clear session %s: %w", s.id, err)
	}
	return nil
}

// UpdateUser merges the non nil fields of patch into the signed in user and persists the result.
// Preconditions: Receives a context and a patch
// Postconditions: No-op when signed out. Otherwise the merged user is written to storage first and only assigned
// in memory when the write succeeded
func (s *Session) UpdateUser(ctx context.Context, patch shared.UserPatch) error {
	if !s.SignedIn() {
		return nil
	}
	merged := *s.record.User
	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.Picture != nil {
		merged.Picture = *patch.Picture
	}
	if patch.Gender != nil {
		merged.Gender = *patch.Gender
	}

	record := s.record
	record.User = &merged
	if err := s.save(ctx, record); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	return nil
}

// PendingGender returns the gender change waiting for confirmation, if any
func (s *Session) PendingGender() *store.PendingGender {
	if s.record.PendingGender == nil {
		return nil
	}
	pending := *s.record.PendingGender
	return &pending
}

// SetPendingGender stores (or with nil, clears) the gender change waiting for confirmation
func (s *Session) SetPendingGender(ctx context.Context, pending *store.PendingGender) error {
	record := s.record
	record.PendingGender = pending
	return s.save(ctx, record)
}

// SetFlash stores a message to show on the next page render
func (s *Session) SetFlash(ctx context.Context, msg string) error {
	record := s.record
	record.Flash = msg
	return s.save(ctx, record)
}

// TakeFlash returns the stored flash message and clears it
func (s *Session) TakeFlash(ctx context.Context) string {
	msg := s.record.Flash
	if msg == "" {
		return ""
	}
	record := s.record
	record.Flash = ""
	if err := s.save(ctx, record); err != nil {
		log.Printf("failed to clear flash for session %s: %v", s.id, err)
	}
	return msg
}

// save writes record over the stored one and, on success, makes it the in memory state. The write only lands
// while storage still holds this login's token; otherwise the session is signed out here too and ErrSignedOut is
// returned
func (s *Session) save(ctx context.Context, record store.Record) error {
	if !s.SignedIn() {
		return ErrSignedOut
	}
	err := s.store.Update(ctx, s.id, s.record.Token, record)
	if errors.Is(err, store.ErrNotFound) {
		s.record = store.Record{}
		s.stored = false
		return ErrSignedOut
	}
	if err != nil {
		return err
	}
	s.record = record
	return nil
}
