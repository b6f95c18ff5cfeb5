/* models.go
 * Contains the configuration and state of the web server and the data passed to the page templates
 * Authors: AIRO Web Team
 */

package web

import (
	"html/template"

	"airo-web/api/api"
	"airo-web/api/logic"
	"airo-web/api/session"
	"airo-web/api/shared"
	"airo-web/api/store"

	"golang.org/x/oauth2"
)

// Config holds the configuration for the web server
type Config struct {
	Addr     string
	API      *api.API
	Sessions *session.Manager

	// OAuth drives the "Continue with Google" redirect flow; nil hides it
	OAuth *oauth2.Config
	// GoogleClientID enables the Google Identity Services button, which posts an id token to /auth/google
	GoogleClientID string
	PublicURL      string

	// CSRFKey is the 32 byte key for form tokens; empty disables CSRF protection (tests only)
	CSRFKey       []byte
	SecureCookies bool
}

// Server is the HTTP server that renders the festival pages
type Server struct {
	api      *api.API
	sessions *session.Manager
	oauth    *oauth2.Config
	clientID string
	public   string
	csrfKey  []byte
	secure   bool

	pages   map[string]*template.Template
	about   template.HTML
	metrics *metrics
}

// page is the data every template receives. Data holds the page specific view
type page struct {
	Title string
	User  *shared.User
	Flash string
	Error string
	CSRF  template.HTML
	Data  any
}

type stat struct {
	Label string
	Value string
}

type sponsor struct {
	Name string
	Logo string
}

type featuredEvent struct {
	ID          string
	Title       string
	Description string
	Date        string
	Time        string
	Image       string
	Tag         string
}

type homeView struct {
	Slides   []string
	Stats    []stat
	Events   []featuredEvent
	Sponsors []sponsor
	About    template.HTML
}

type signinView struct {
	ClientID string
	LoginURI string
	AuthURL  string
}

type registerView struct {
	Catalog api.CatalogView
	Pending *store.PendingGender
}

type eventView struct {
	Event     shared.SportEvent
	College   string
	Team      *logic.TeamDraft
	CanAdd    bool
	CanRemove bool
}

type cartView struct {
	Cart *api.Cart
}

type confirmView struct {
	Prompt string
	Action string
	Back   string
	Fields map[string]string
}
