/* api.go
 * This file contains the public methods for interacting with the festival flows. Handlers should only call the
 * festival API through this package, not through external directly
 * Authors: AIRO Web Team
 */

package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"airo-web/api/external"
	"airo-web/api/logic"
	"airo-web/api/session"
	"airo-web/api/shared"
)

// API provides the registration flows on top of the festival API
type API struct {
	Backend  external.Interface
	Notifier Notifier
}

// NewAPI creates a new API instance. notifier may be nil
func NewAPI(backend external.Interface, notifier Notifier) (*API, error) {
	if backend == nil {
		return nil, fmt.Errorf("festival API client is required")
	}
	return &API{Backend: backend, Notifier: notifier}, nil
}

// Catalog fetches the events and prepares them for the registration page.
// Preconditions: Receives a context, the signed in user (nil when signed out) and the search box contents
// Postconditions: Returns the visible events grouped by sport. When the user has no gender the groups are empty
// and NeedsGender is set. On failure the view carries the error message and the cause is returned
func (a *API) Catalog(ctx context.Context, user *shared.User, query string) (CatalogView, error) {
	view := CatalogView{Query: strings.TrimSpace(query), NeedsGender: logic.NeedsGender(user)}

	events, err := a.Backend.FetchEvents(ctx)
	if err != nil {
		view.Error = MsgEventsFailed
		return view, &FlowError{Message: MsgEventsFailed, Err: err}
	}

	var gender shared.Gender
	if user != nil {
		gender = user.Gender
	}
	visible := logic.FilterByGender(events, gender)
	view.Groups = logic.GroupBySport(logic.SearchEvents(visible, view.Query))
	return view, nil
}

// Event returns the event with the given id if it is visible to user
func (a *API) Event(ctx context.Context, user *shared.User, id string) (shared.SportEvent, bool, error) {
	events, err := a.Backend.FetchEvents(ctx)
	if err != nil {
		return shared.SportEvent{}, false, &FlowError{Message: MsgEventsFailed, Err: err}
	}
	event, ok := logic.FindEvent(events, id)
	if !ok || user == nil || !logic.Visible(event, user.Gender) {
		return shared.SportEvent{}, false, nil
	}
	return event, true, nil
}

// BuildPayload turns a validated draft into the body of POST /registrations. Captain and team fields are only
// present for team drafts
func BuildPayload(event shared.SportEvent, draft logic.Draft) external.RegistrationPayload {
	payload := external.RegistrationPayload{
		EventID:     event.ID,
		CollegeName: strings.TrimSpace(draft.College()),
	}
	if team, ok := draft.(*logic.TeamDraft); ok {
		payload.CaptainName = strings.TrimSpace(team.CaptainName)
		payload.CaptainEmail = strings.TrimSpace(team.CaptainEmail)
		payload.CaptainPhone = logic.SanitizePhone(team.CaptainPhone)
		payload.TeamMembers = make([]shared.TeamMember, 0, len(team.Members))
		for _, m := range team.Members {
			payload.TeamMembers = append(payload.TeamMembers, shared.TeamMember{
				Name:  strings.TrimSpace(m.Name),
				Phone: logic.SanitizePhone(m.Phone),
			})
		}
	}
	return payload
}

// Submit validates draft and, if it passes, creates the registration.
// Preconditions: Receives a context, the session of the signed in user, the target event and the draft
// Postconditions: Returns Success with the created registration, or the first validation failure (no request is
// sent), or the server's message / a generic failure. Nothing is retried and no local state changes; the caller
// reloads the cart to see the new registration
func (a *API) Submit(ctx context.Context, sess *session.Session, event shared.SportEvent, draft logic.Draft) SubmitResult {
	if err := logic.Validate(event, draft); err != nil {
		return SubmitResult{Error: err.Error()}
	}

	reg, err := a.Backend.CreateRegistration(ctx, sess.Token(), BuildPayload(event, draft))
	if err != nil {
		var apiErr *external.APIError
		switch {
		case errors.As(err, &apiErr):
			return SubmitResult{Error: apiErr.MessageOr(MsgRegistrationFailed)}
		case errors.Is(err, external.ErrNetwork):
			log.Printf("registration for event %s failed: %v", event.ID, err)
			return SubmitResult{Error: session.MsgNetwork}
		default:
			log.Printf("registration for event %s failed: %v", event.ID, err)
			return SubmitResult{Error: MsgRegistrationFailed}
		}
	}

	if a.Notifier != nil {
		if user := sess.User(); user != nil {
			a.Notifier.RegistrationCreated(*user, event, reg)
		}
	}
	return SubmitResult{Success: true, Registration: &reg}
}
