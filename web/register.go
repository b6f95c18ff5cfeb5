/* register.go
 * Contains the registration handlers: the gender filtered catalog, the gender change flow and the per event form.
 * The form is server rendered, so each add/remove/import round trip re-posts the whole draft
 * Authors: AIRO Web Team
 */

package web

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"airo-web/api/api"
	"airo-web/api/logic"
	"airo-web/api/session"
	"airo-web/api/shared"
)

// renderRegister renders the catalog page, with errMsg shown above it when set
func (s *Server) renderRegister(w http.ResponseWriter, r *http.Request, sess *session.Session, errMsg string) {
	view, err := s.api.Catalog(r.Context(), sess.User(), r.URL.Query().Get("q"))
	if err != nil {
		log.Printf("failed to load catalog: %v", err)
		if errMsg == "" {
			errMsg = view.Error
		}
	}
	s.render(w, r, sess, "register", http.StatusOK, page{
		Title: "Register",
		Error: errMsg,
		Data:  registerView{Catalog: view, Pending: s.api.GenderChange(sess).Pending()},
	})
}

// RegisterHandler lists the events the signed in user may register for, or prompts for their gender
func (s *Server) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.loadSession(w, r)
	if !requireUser(w, r, sess) {
		return
	}
	s.renderRegister(w, r, sess, "")
}

// GenderHandler drives the gender change (POST /profile/gender with action request, confirm or dismiss)
// Preconditions: Signed in visitor, form with action and, for request, gender
// Postconditions: Redirects back to /register on success or when confirmation is now pending. On failure the
// catalog is rendered with the error
func (s *Server) GenderHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.loadSession(w, r)
	if !requireUser(w, r, sess) {
		return
	}
	change := s.api.GenderChange(sess)

	var err error
	switch r.PostFormValue("action") {
	case "confirm":
		err = change.Confirm(r.Context())
	case "dismiss":
		err = change.Dismiss(r.Context())
	default:
		err = change.Request(r.Context(), shared.Gender(strings.ToUpper(r.PostFormValue("gender"))))
	}

	if err != nil {
		log.Printf("gender change failed: %v", err)
		msg := api.MsgGenderFailed
		var flowErr *api.FlowError
		if errors.As(err, &flowErr) {
			msg = flowErr.Message
		}
		s.renderRegister(w, r, sess, msg)
		return
	}
	http.Redirect(w, r, "/register", http.StatusSeeOther)
}

// loadEvent finds the event named in the path. It writes the response and returns false when the form cannot be shown
func (s *Server) loadEvent(w http.ResponseWriter, r *http.Request, sess *session.Session) (shared.SportEvent, bool) {
	user := sess.User()
	if logic.NeedsGender(user) {
		http.Redirect(w, r, "/register", http.StatusSeeOther)
		return shared.SportEvent{}, false
	}
	event, ok, err := s.api.Event(r.Context(), user, r.PathValue("id"))
	if err != nil {
		log.Printf("failed to load event %s: %v", r.PathValue("id"), err)
		s.render(w, r, sess, "register", http.StatusBadGateway, page{
			Title: "Register",
			Error: api.MsgEventsFailed,
			Data:  registerView{Catalog: api.CatalogView{Error: api.MsgEventsFailed}},
		})
		return shared.SportEvent{}, false
	}
	if !ok {
		http.NotFound(w, r)
		return shared.SportEvent{}, false
	}
	return event, true
}

func formView(event shared.SportEvent, draft logic.Draft) eventView {
	view := eventView{Event: event, College: draft.College()}
	if team, ok := draft.(*logic.TeamDraft); ok {
		view.Team = team
		view.CanAdd = len(team.Members) < logic.MaxMembers(event)
		view.CanRemove = len(team.Members) > logic.MinMembers(event)
	}
	return view
}

// EventFormHandler renders an empty registration form for one event (GET /register/{id})
func (s *Server) EventFormHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.loadSession(w, r)
	if !requireUser(w, r, sess) {
		return
	}
	event, ok := s.loadEvent(w, r, sess)
	if !ok {
		return
	}
	s.render(w, r, sess, "event", http.StatusOK, page{Title: event.DisplayName, Data: formView(event, logic.NewDraft(event))})
}

// draftFromForm rebuilds the draft posted by the event form. Phones are sanitized as they are read
func draftFromForm(event shared.SportEvent, r *http.Request) logic.Draft {
	college := r.PostFormValue("collegeName")
	if !event.IsTeamEvent {
		return &logic.IndividualDraft{CollegeName: college}
	}
	team := &logic.TeamDraft{
		CollegeName:  college,
		CaptainName:  r.PostFormValue("captainName"),
		CaptainEmail: strings.TrimSpace(r.PostFormValue("captainEmail")),
	}
	team.SetCaptainPhone(r.PostFormValue("captainPhone"))

	names := r.PostForm["memberName"]
	phones := r.PostForm["memberPhone"]
	team.Members = make([]shared.TeamMember, len(names))
	for i, name := range names {
		phone := ""
		if i < len(phones) {
			phone = phones[i]
		}
		team.SetMember(i, name, phone)
	}
	return team
}

// EventSubmitHandler handles every button of the event form (POST /register/{id}): add, remove:<index>, import and
// submit
func (s *Server) EventSubmitHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.loadSession(w, r)
	if !requireUser(w, r, sess) {
		return
	}
	event, ok := s.loadEvent(w, r, sess)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	draft := draftFromForm(event, r)
	team, isTeam := draft.(*logic.TeamDraft)
	action := r.PostFormValue("action")

	var errMsg string
	switch {
	case isTeam && action == "add":
		team.AddMember(event)
	case isTeam && strings.HasPrefix(action, "remove:"):
		if i, err := strconv.Atoi(strings.TrimPrefix(action, "remove:")); err == nil {
			team.RemoveMember(event, i)
		}
	case isTeam && action == "import":
		members, err := logic.ParseRoster(r.PostFormValue("roster"))
		if err != nil {
			errMsg = fmt.Sprintf("Could not read the roster: %v", err)
			break
		}
		if dropped := team.ImportMembers(event, members); dropped > 0 {
			errMsg = fmt.Sprintf("Only %d team members fit this event; %d were left out", logic.MaxMembers(event), dropped)
		}
	default:
		res := s.api.Submit(r.Context(), sess, event, draft)
		if res.Success {
			s.metrics.registrations.WithLabelValues("created").Inc()
			if err := sess.SetFlash(r.Context(), api.MsgRegistered); err != nil {
				log.Printf("failed to store flash: %v", err)
			}
			http.Redirect(w, r, "/register", http.StatusSeeOther)
			return
		}
		s.metrics.registrations.WithLabelValues(outcome(logic.Validate(event, draft) != nil, "invalid", "rejected")).Inc()
		s.render(w, r, sess, "event", http.StatusUnprocessableEntity, page{
			Title: event.DisplayName, Error: res.Error, Data: formView(event, draft),
		})
		return
	}

	s.render(w, r, sess, "event", http.StatusOK, page{Title: event.DisplayName, Error: errMsg, Data: formView(event, draft)})
}
