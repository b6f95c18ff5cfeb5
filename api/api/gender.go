/* gender.go
 * Contains the gender change flow. Changing gender may cancel the user's registrations, in which case the backend
 * asks for confirmation first:
 *
 *   Idle --Request--> (requiresConfirmation) --> PendingConfirmation --Confirm--> Applying --> Idle
 *                                                PendingConfirmation --Dismiss--> Idle
 *
 * The pending change is kept in the session record so it survives between page loads
 * Authors: AIRO Web Team
 */

package api

import (
	"context"
	"errors"
	"fmt"

	"airo-web/api/external"
	"airo-web/api/session"
	"airo-web/api/shared"
	"airo-web/api/store"
)

type GenderState int

const (
	Idle GenderState = iota
	PendingConfirmation
	Applying
)

func (s GenderState) String() string {
	switch s {
	case Idle:
		return "idle"
	case PendingConfirmation:
		return "pending confirmation"
	case Applying:
		return "applying"
	}
	return fmt.Sprintf("GenderState(%d)", int(s))
}

// ErrNoPendingChange is returned by Confirm when there is nothing to confirm
var ErrNoPendingChange = errors.New("no gender change is waiting for confirmation")

// GenderChange drives one session's gender change
type GenderChange struct {
	api     *API
	sess    *session.Session
	state   GenderState
	pending *store.PendingGender
}

// GenderChange resumes the gender change of sess: PendingConfirmation when the session holds a pending change,
// Idle otherwise
func (a *API) GenderChange(sess *session.Session) *GenderChange {
	g := &GenderChange{api: a, sess: sess, state: Idle}
	if pending := sess.PendingGender(); pending != nil {
		g.state = PendingConfirmation
		g.pending = pending
	}
	return g
}

func (g *GenderChange) State() GenderState {
	return g.state
}

// Pending returns the change waiting for confirmation, nil outside PendingConfirmation
func (g *GenderChange) Pending() *store.PendingGender {
	if g.pending == nil {
		return nil
	}
	pending := *g.pending
	return &pending
}

// Request asks the backend to set gender without clearing registrations.
// Preconditions: Receives a context and MALE or FEMALE. A pending change is replaced
// Postconditions: Returns nil and ends in Idle with the session user updated, or returns nil and ends in
// PendingConfirmation when the backend requires confirmation, or returns a *FlowError and ends in Idle
func (g *GenderChange) Request(ctx context.Context, gender shared.Gender) error {
	if !gender.Valid() {
		return &FlowError{Message: MsgGenderFailed, Err: fmt.Errorf("invalid gender %q", gender)}
	}
	if err := g.reset(ctx); err != nil {
		return &FlowError{Message: MsgGenderFailed, Err: err}
	}

	err := g.api.Backend.UpdateGender(ctx, g.sess.Token(), gender, false)
	var apiErr *external.APIError
	if errors.As(err, &apiErr) && apiErr.RequiresConfirmation {
		pending := &store.PendingGender{Gender: gender, RegistrationCount: apiErr.RegistrationCount}
		if err := g.sess.SetPendingGender(ctx, pending); err != nil {
			return &FlowError{Message: MsgGenderFailed, Err: err}
		}
		g.state = PendingConfirmation
		g.pending = pending
		return nil
	}
	return g.finish(ctx, gender, err)
}

// Confirm re-sends the pending change with clearRegistrations set, cancelling the user's registrations.
// Postconditions: Ends in Idle. Returns ErrNoPendingChange outside PendingConfirmation, a *FlowError when the
// backend rejects the change, nil on success
func (g *GenderChange) Confirm(ctx context.Context) error {
	if g.state != PendingConfirmation || g.pending == nil {
		return ErrNoPendingChange
	}
	gender := g.pending.Gender
	g.state = Applying

	err := g.api.Backend.UpdateGender(ctx, g.sess.Token(), gender, true)
	if resetErr := g.reset(ctx); resetErr != nil && err == nil {
		err = resetErr
	}
	return g.finish(ctx, gender, err)
}

// Dismiss drops the pending change without contacting the backend
func (g *GenderChange) Dismiss(ctx context.Context) error {
	return g.reset(ctx)
}

// finish applies a successful change to the session user, or turns err into a *FlowError
func (g *GenderChange) finish(ctx context.Context, gender shared.Gender, err error) error {
	g.state = Idle
	if err != nil {
		msg := MsgGenderFailed
		var apiErr *external.APIError
		if errors.As(err, &apiErr) {
			msg = apiErr.MessageOr(MsgGenderFailed)
		}
		return &FlowError{Message: msg, Err: err}
	}
	if err := g.sess.UpdateUser(ctx, shared.UserPatch{Gender: &gender}); err != nil {
		return &FlowError{Message: MsgGenderFailed, Err: err}
	}
	return nil
}

// reset returns to Idle and clears the persisted pending change
func (g *GenderChange) reset(ctx context.Context) error {
	g.state = Idle
	g.pending = nil
	if g.sess.PendingGender() == nil {
		return nil
	}
	return g.sess.SetPendingGender(ctx, nil)
}
