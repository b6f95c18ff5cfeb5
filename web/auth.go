/* auth.go
 * Contains the sign in and sign out handlers. Two Google flows are supported: the authorization code redirect
 * (oauth2) and the Google Identity Services button, which posts an id token back to /auth/google
 * Authors: AIRO Web Team
 */

package web

import (
	"log"
	"net/http"
	"net/url"
	"strings"

	"airo-web/api/session"

	"github.com/google/uuid"
)

// googleCSRFCookie is set by the Google Identity Services script and echoed in the posted form
const googleCSRFCookie = "g_csrf_token"

// signinPage builds the sign in view. A fresh oauth state is stored in a cookie together with the page to return to
func (s *Server) signinPage(w http.ResponseWriter, redirect string) signinView {
	view := signinView{ClientID: s.clientID}
	if s.clientID != "" {
		view.LoginURI = s.public + "/auth/google?redirect=" + url.QueryEscape(redirect)
	}
	if s.oauth != nil {
		state := uuid.NewString()
		http.SetCookie(w, &http.Cookie{
			Name:     stateCookie,
			Value:    state + "|" + url.QueryEscape(redirect),
			Path:     "/auth",
			HttpOnly: true,
			Secure:   s.secure,
			SameSite: http.SameSiteLaxMode,
			MaxAge:   600,
		})
		view.AuthURL = s.oauth.AuthCodeURL(state)
	}
	return view
}

// SigninHandler renders the sign in page, or sends signed in visitors on to where they were going
func (s *Server) SigninHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.loadSession(w, r)
	redirect := safeRedirect(r.URL.Query().Get("redirect"))
	if sess.SignedIn() {
		http.Redirect(w, r, redirect, http.StatusSeeOther)
		return
	}
	s.render(w, r, sess, "signin", http.StatusOK, page{Title: "Sign in", Data: s.signinPage(w, redirect)})
}

// readState returns the state and redirect stored by signinPage and clears the cookie
func (s *Server) readState(w http.ResponseWriter, r *http.Request) (string, string) {
	c, err := r.Cookie(stateCookie)
	if err != nil {
		return "", "/"
	}
	http.SetCookie(w, &http.Cookie{Name: stateCookie, Value: "", Path: "/auth", MaxAge: -1})
	state, escaped, _ := strings.Cut(c.Value, "|")
	redirect, err := url.QueryUnescape(escaped)
	if err != nil {
		redirect = "/"
	}
	return state, safeRedirect(redirect)
}

// CallbackHandler completes the authorization code flow (GET /auth/callback?code=...&state=...)
// Preconditions: Google redirected the visitor back after consent
// Postconditions: On success the session is signed in and the visitor is sent to the page they came from. On failure
// the sign in page is shown again with the error
func (s *Server) CallbackHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.loadSession(w, r)
	state, redirect := s.readState(w, r)
	q := r.URL.Query()

	if state == "" || q.Get("state") != state || q.Get("code") == "" || q.Get("error") != "" {
		s.metrics.logins.WithLabelValues("code", "failed").Inc()
		s.render(w, r, sess, "signin", http.StatusBadRequest, page{
			Title: "Sign in", Error: session.MsgAuthFailed, Data: s.signinPage(w, redirect),
		})
		return
	}

	res := sess.LoginWithCode(r.Context(), q.Get("code"))
	s.finishLogin(w, r, sess, "code", res, redirect)
}

// GoogleCredentialHandler completes the Google Identity Services flow (POST /auth/google with a credential)
func (s *Server) GoogleCredentialHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.loadSession(w, r)
	redirect := safeRedirect(r.URL.Query().Get("redirect"))

	cookie, err := r.Cookie(googleCSRFCookie)
	credential := r.PostFormValue("credential")
	if err != nil || cookie.Value == "" || cookie.Value != r.PostFormValue(googleCSRFCookie) || credential == "" {
		s.metrics.logins.WithLabelValues("id_token", "failed").Inc()
		s.render(w, r, sess, "signin", http.StatusBadRequest, page{
			Title: "Sign in", Error: session.MsgAuthFailed, Data: s.signinPage(w, redirect),
		})
		return
	}

	res := sess.Login(r.Context(), credential)
	s.finishLogin(w, r, sess, "id_token", res, redirect)
}

func (s *Server) finishLogin(w http.ResponseWriter, r *http.Request, sess *session.Session, method string, res session.Result, redirect string) {
	s.metrics.logins.WithLabelValues(method, outcome(res.Success, "ok", "failed")).Inc()
	if !res.Success {
		s.render(w, r, sess, "signin", http.StatusUnauthorized, page{
			Title: "Sign in", Error: res.Error, Data: s.signinPage(w, redirect),
		})
		return
	}
	// login moved the session to a new id
	s.setSessionCookie(w, sess.ID())
	http.Redirect(w, r, redirect, http.StatusSeeOther)
}

// LogoutHandler signs the visitor out. It never calls the festival API
func (s *Server) LogoutHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.loadSession(w, r)
	if err := sess.Logout(r.Context()); err != nil {
		log.Println(err)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
