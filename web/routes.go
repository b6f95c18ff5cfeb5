/* routes.go
 * Contains the construction of the server: templates, routes and the middleware every request passes through
 * Authors: AIRO Web Team
 */

package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"airo-web/api/logic"
	"airo-web/api/session"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
)

//go:embed templates static
var assets embed.FS

const (
	sessionCookie = "airo_session"
	stateCookie   = "airo_oauth_state"
	csrfField     = "csrf_token"
)

var pageFiles = []string{"home", "signin", "register", "event", "cart", "confirm"}

var templateFuncs = template.FuncMap{
	"phoneHint":     logic.PhoneHint,
	"headCount":     logic.HeadCount,
	"sortedMembers": logic.SortedMembers,
	"add":           func(a, b int) int { return a + b },
}

// NewServer parses the templates and renders the static parts of the site
// Preconditions: Receives a Config with API and Sessions set
// Postconditions: Returns a server ready to be mounted with Handler, or an error if a template is broken
func NewServer(cfg Config) (*Server, error) {
	if cfg.API == nil || cfg.Sessions == nil {
		return nil, fmt.Errorf("web server requires API and Sessions")
	}
	s := &Server{
		api:      cfg.API,
		sessions: cfg.Sessions,
		oauth:    cfg.OAuth,
		clientID: cfg.GoogleClientID,
		public:   strings.TrimRight(cfg.PublicURL, "/"),
		csrfKey:  cfg.CSRFKey,
		secure:   cfg.SecureCookies,
		pages:    make(map[string]*template.Template, len(pageFiles)),
		metrics:  newMetrics(),
	}

	for _, name := range pageFiles {
		t, err := template.New(name).Funcs(templateFuncs).ParseFS(assets, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
		}
		s.pages[name] = t
	}

	src, err := assets.ReadFile("templates/about.md")
	if err != nil {
		return nil, fmt.Errorf("failed to read about block: %w", err)
	}
	var buf bytes.Buffer
	if err := goldmark.Convert(src, &buf); err != nil {
		return nil, fmt.Errorf("failed to render about block: %w", err)
	}
	s.about = template.HTML(buf.String())
	return s, nil
}

// Handler returns the routes wrapped in the request middleware
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	// bind handler methods that have access to s.api
	mux.HandleFunc("GET /{$}", s.HomeHandler)
	mux.HandleFunc("GET /signin", s.SigninHandler)
	mux.HandleFunc("GET /auth/callback", s.CallbackHandler)
	mux.HandleFunc("POST /auth/google", s.GoogleCredentialHandler)
	mux.HandleFunc("POST /logout", s.LogoutHandler)
	mux.HandleFunc("GET /register", s.RegisterHandler)
	mux.HandleFunc("GET /register/{id}", s.EventFormHandler)
	mux.HandleFunc("POST /register/{id}", s.EventSubmitHandler)
	mux.HandleFunc("POST /profile/gender", s.GenderHandler)
	mux.HandleFunc("GET /cart", s.CartHandler)
	mux.HandleFunc("POST /cart/cancel", s.CancelHandler)
	mux.HandleFunc("GET /healthz", s.HealthHandler)
	mux.Handle("GET /metrics", s.metrics.handler())

	static, _ := fs.Sub(assets, "static")
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))

	var h http.Handler = mux
	if len(s.csrfKey) > 0 {
		protect := csrf.Protect(s.csrfKey,
			csrf.Secure(s.secure),
			csrf.Path("/"),
			csrf.FieldName(csrfField),
			csrf.ErrorHandler(http.HandlerFunc(csrfFailure)),
		)
		h = skipGoogleCredential(protect(h))
	}
	return s.instrument(mux, h)
}

// skipGoogleCredential exempts the Google Identity Services post from the form token check. That request is
// posted by Google's script and is verified with Google's own double submit cookie instead
func skipGoogleCredential(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/auth/google" {
			r = csrf.UnsafeSkipCheck(r)
		}
		next.ServeHTTP(w, r)
	})
}

func csrfFailure(w http.ResponseWriter, r *http.Request) {
	log.Printf("csrf check failed for %s %s: %v", r.Method, r.URL.Path, csrf.FailureReason(r))
	http.Error(w, "Forbidden - invalid form token, please reload the page", http.StatusForbidden)
}

// statusRecorder remembers the status code written by a handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument logs every request and records it in the request metrics, labelled by the matching route pattern
func (s *Server) instrument(mux *http.ServeMux, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		_, route := mux.Handler(r)
		if route == "" {
			route = "unmatched"
		}
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		elapsed := time.Since(start)
		s.metrics.observeRequest(route, rec.status, elapsed)
		log.Printf("%s %s %d %s", r.Method, r.URL.Path, rec.status, elapsed.Round(time.Millisecond))
	})
}

// loadSession returns the hydrated session of the browser. A session cookie is minted on first visit and whenever
// the presented one is not an id this server could have issued
func (s *Server) loadSession(w http.ResponseWriter, r *http.Request) *session.Session {
	var sess *session.Session
	if c, err := r.Cookie(sessionCookie); err == nil && validSessionID(c.Value) {
		sess = s.sessions.Open(c.Value)
	} else {
		sess = s.sessions.New()
		s.setSessionCookie(w, sess.ID())
	}
	if err := sess.Hydrate(r.Context()); err != nil {
		log.Printf("failed to load session: %v", err)
	}
	return sess
}

// validSessionID accepts only the canonical uuid form that Manager mints
func validSessionID(sid string) bool {
	id, err := uuid.Parse(sid)
	return err == nil && id.String() == sid
}

func (s *Server) setSessionCookie(w http.ResponseWriter, sid string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    sid,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
	})
}

// requireUser redirects signed out visitors to the sign in page and reports whether the handler may continue
func requireUser(w http.ResponseWriter, r *http.Request, sess *session.Session) bool {
	if sess.SignedIn() {
		return true
	}
	http.Redirect(w, r, "/signin?redirect="+url.QueryEscape(r.URL.RequestURI()), http.StatusSeeOther)
	return false
}

// safeRedirect only allows local paths, so ?redirect= cannot send the visitor to another site
func safeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return "/"
	}
	return target
}

// render executes a page template. The flash message is consumed here
func (s *Server) render(w http.ResponseWriter, r *http.Request, sess *session.Session, name string, status int, p page) {
	p.User = sess.User()
	if p.Flash == "" {
		p.Flash = sess.TakeFlash(r.Context())
	}
	p.CSRF = csrf.TemplateField(r)

	var buf bytes.Buffer
	if err := s.pages[name].ExecuteTemplate(&buf, "layout", p); err != nil {
		log.Printf("failed to render %s: %v", name, err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// HealthHandler reports whether the session storage is reachable
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Store.Ping(r.Context()); err != nil {
		log.Println("health check failed:", err)
		http.Error(w, "session storage unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Write([]byte("ok"))
}
