/* server_test.go
 * Contains unit tests for the web handlers - every page is exercised through the full handler chain with a mock
 * festival API and an in memory session store
 * Authors: AIRO Web Team
 */

package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"airo-web/api/api"
	"airo-web/api/external"
	"airo-web/api/logic"
	"airo-web/api/session"
	"airo-web/api/shared"
	"airo-web/api/store"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type testServer struct {
	backend  *external.MockBackend
	notifier *api.MockNotifier
	store    *store.MemoryStore
	manager  *session.Manager
	server   *Server
	handler  http.Handler
}

func testEvents() []shared.SportEvent {
	return []shared.SportEvent{
		{ID: "fb-m", Sport: "FOOTBALL", DisplayName: "Football", Category: shared.CategoryMens, IsTeamEvent: true, MinPlayers: 3, MaxPlayers: 5, RegistrationFee: decimal.NewFromInt(1500)},
		{ID: "fb-w", Sport: "FOOTBALL", DisplayName: "Football", Category: shared.CategoryWomens, IsTeamEvent: true, MinPlayers: 3, MaxPlayers: 5},
		{ID: "chess", Sport: "CHESS", DisplayName: "Rapid Chess", Category: shared.CategoryMixed, MinPlayers: 1, MaxPlayers: 1, RegistrationFee: decimal.NewFromInt(200)},
	}
}

func newTestServer(t *testing.T, mutate func(*Config)) *testServer {
	t.Helper()
	backend := external.NewMockBackend()
	backend.Events = testEvents()
	notifier := &api.MockNotifier{}
	a, err := api.NewAPI(backend, notifier)
	require.NoError(t, err)
	st := store.NewMemoryStore()
	manager := session.NewManager(st, backend)

	cfg := Config{
		Addr:           ":0",
		API:            a,
		Sessions:       manager,
		GoogleClientID: "client-id",
		PublicURL:      "http://localhost:8080/",
		OAuth: &oauth2.Config{
			ClientID:    "client-id",
			RedirectURL: "http://localhost:8080/auth/callback",
			Endpoint:    oauth2.Endpoint{AuthURL: "https://accounts.example.com/o/oauth2/auth", TokenURL: "https://accounts.example.com/token"},
			Scopes:      []string{"openid", "email", "profile"},
		},
	}
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := NewServer(cfg)
	require.NoError(t, err)
	return &testServer{backend: backend, notifier: notifier, store: st, manager: manager, server: s, handler: s.Handler()}
}

// signIn stores a signed in session for a user with the given gender and returns its cookie
func (ts *testServer) signIn(t *testing.T, gender shared.Gender) *http.Cookie {
	t.Helper()
	ts.backend.Auth.User.Gender = gender
	sess := ts.manager.New()
	require.NoError(t, sess.Hydrate(context.Background()))
	require.True(t, sess.Login(context.Background(), "id-token").Success)
	return &http.Cookie{Name: sessionCookie, Value: sess.ID()}
}

// reload returns the stored session for a cookie
func (ts *testServer) reload(t *testing.T, c *http.Cookie) *session.Session {
	t.Helper()
	sess := ts.manager.Open(c.Value)
	require.NoError(t, sess.Hydrate(context.Background()))
	return sess
}

func (ts *testServer) do(method string, target string, form url.Values, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func findCookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	var found *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			found = c
		}
	}
	return found
}

func teamForm() url.Values {
	return url.Values{
		"collegeName":  {"NIT Trichy"},
		"captainName":  {"Asha"},
		"captainEmail": {"asha@nitt.edu"},
		"captainPhone": {"98765-43210"},
		"memberName":   {"Ravi", "Kiran"},
		"memberPhone":  {"9876543211", "9876543212"},
	}
}

// region NewServer tests

func TestNewServer_RequiresDependencies(t *testing.T) {
	_, err := NewServer(Config{})

	assert.Error(t, err)
}

func TestNewServer_RendersAboutBlock(t *testing.T) {
	ts := newTestServer(t, nil)

	assert.Contains(t, string(ts.server.about), "<h2>")
	assert.Equal(t, "http://localhost:8080", ts.server.public)
}

// endregion

// region Home, health and metrics tests

func TestHome_RendersWithoutCallingAPI(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "AIRO 2026")
	assert.Contains(t, body, "Mahindra University")
	assert.Contains(t, body, "Sign in")
	assert.Empty(t, ts.backend.Calls)
	require.NotNil(t, findCookie(rec, sessionCookie))
}

func TestHome_ReusesSessionCookie(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, shared.GenderMale)

	rec := ts.do(http.MethodGet, "/", nil, cookie)

	assert.Nil(t, findCookie(rec, sessionCookie))
	assert.Contains(t, rec.Body.String(), "Sign out")
	assert.Contains(t, rec.Body.String(), "Asha")
}

func TestUnknownPath_NotFound(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodGet, "/nope", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth_OK(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestMetrics_CountsRequests(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.do(http.MethodGet, "/", nil)

	rec := ts.do(http.MethodGet, "/metrics", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `airo_http_requests_total{code="200",route="GET /{$}"} 1`)
}

func TestStatic_ServesStylesheet(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodGet, "/static/site.css", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
}

// endregion

// region Auth tests

func TestSafeRedirect(t *testing.T) {
	assert.Equal(t, "/cart", safeRedirect("/cart"))
	assert.Equal(t, "/register?q=chess", safeRedirect("/register?q=chess"))
	assert.Equal(t, "/", safeRedirect(""))
	assert.Equal(t, "/", safeRedirect("https://evil.example.com"))
	assert.Equal(t, "/", safeRedirect("//evil.example.com"))
	assert.Equal(t, "/", safeRedirect("/\\evil.example.com"))
}

func TestSignin_RendersBothFlows(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodGet, "/signin?redirect=/cart", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "accounts.example.com/o/oauth2/auth")
	assert.Contains(t, body, `data-client_id="client-id"`)
	state := findCookie(rec, stateCookie)
	require.NotNil(t, state)
	assert.True(t, strings.HasSuffix(state.Value, "|"+url.QueryEscape("/cart")))
}

func TestSignin_SignedInRedirects(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, shared.GenderMale)

	rec := ts.do(http.MethodGet, "/signin?redirect=/cart", nil, cookie)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/cart", rec.Header().Get("Location"))
}

func TestCallback_Success(t *testing.T) {
	ts := newTestServer(t, nil)
	signin := ts.do(http.MethodGet, "/signin?redirect=/cart", nil)
	sessCookie := findCookie(signin, sessionCookie)
	stateC := findCookie(signin, stateCookie)
	state, _, _ := strings.Cut(stateC.Value, "|")

	rec := ts.do(http.MethodGet, "/auth/callback?code=abc&state="+state, nil, sessCookie, stateC)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/cart", rec.Header().Get("Location"))
	assert.Equal(t, []string{"abc"}, ts.backend.LoginCodes)
	issued := findCookie(rec, sessionCookie)
	require.NotNil(t, issued)
	assert.NotEqual(t, sessCookie.Value, issued.Value)
	assert.True(t, issued.HttpOnly)
	assert.False(t, ts.reload(t, sessCookie).SignedIn())
	assert.True(t, ts.reload(t, issued).SignedIn())
}

func TestGoogleCredential_PlantedCookieNotSignedIn(t *testing.T) {
	ts := newTestServer(t, nil)
	planted := &http.Cookie{Name: sessionCookie, Value: "attacker-chosen-sid"}
	form := url.Values{"credential": {"id-token"}, googleCSRFCookie: {"double"}}

	rec := ts.do(http.MethodPost, "/auth/google", form, planted, &http.Cookie{Name: googleCSRFCookie, Value: "double"})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	issued := findCookie(rec, sessionCookie)
	require.NotNil(t, issued)
	assert.NotEqual(t, planted.Value, issued.Value)
	assert.False(t, ts.reload(t, planted).SignedIn())
	assert.True(t, ts.reload(t, issued).SignedIn())
}

func TestGoogleCredential_KnownPreLoginIDNotSignedIn(t *testing.T) {
	ts := newTestServer(t, nil)
	home := ts.do(http.MethodGet, "/", nil)
	before := findCookie(home, sessionCookie)
	form := url.Values{"credential": {"id-token"}, googleCSRFCookie: {"double"}}

	rec := ts.do(http.MethodPost, "/auth/google", form, before, &http.Cookie{Name: googleCSRFCookie, Value: "double"})

	issued := findCookie(rec, sessionCookie)
	require.NotNil(t, issued)
	assert.NotEqual(t, before.Value, issued.Value)
	assert.False(t, ts.reload(t, before).SignedIn())
	assert.Equal(t, 1, ts.store.Len())
}

func TestHome_ReplacesMalformedSessionCookie(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodGet, "/", nil, &http.Cookie{Name: sessionCookie, Value: "not-a-session"})

	issued := findCookie(rec, sessionCookie)
	require.NotNil(t, issued)
	assert.NotEqual(t, "not-a-session", issued.Value)
	assert.True(t, validSessionID(issued.Value))
}

func TestCallback_StateMismatch(t *testing.T) {
	ts := newTestServer(t, nil)
	signin := ts.do(http.MethodGet, "/signin", nil)

	rec := ts.do(http.MethodGet, "/auth/callback?code=abc&state=forged", nil, findCookie(signin, stateCookie))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), session.MsgAuthFailed)
	assert.Equal(t, 0, ts.backend.CallCount("GoogleCodeLogin"))
}

func TestCallback_MissingStateCookie(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodGet, "/auth/callback?code=abc&state=", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, ts.backend.Calls)
}

func TestGoogleCredential_Success(t *testing.T) {
	ts := newTestServer(t, nil)
	form := url.Values{"credential": {"id-token"}, googleCSRFCookie: {"double"}}

	rec := ts.do(http.MethodPost, "/auth/google?redirect=/register", form, &http.Cookie{Name: googleCSRFCookie, Value: "double"})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/register", rec.Header().Get("Location"))
	assert.Equal(t, []string{"id-token"}, ts.backend.LoginTokens)
	sess := ts.reload(t, findCookie(rec, sessionCookie))
	assert.Equal(t, "token-1", sess.Token())
}

func TestGoogleCredential_DoubleSubmitMismatch(t *testing.T) {
	ts := newTestServer(t, nil)
	form := url.Values{"credential": {"id-token"}, googleCSRFCookie: {"double"}}

	rec := ts.do(http.MethodPost, "/auth/google", form, &http.Cookie{Name: googleCSRFCookie, Value: "other"})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, ts.backend.LoginTokens)
}

func TestGoogleCredential_BackendRejects(t *testing.T) {
	ts := newTestServer(t, nil)
	ts.backend.LoginError = &external.APIError{Status: http.StatusUnauthorized, Message: "Invalid Google token"}
	form := url.Values{"credential": {"bad"}, googleCSRFCookie: {"double"}}

	rec := ts.do(http.MethodPost, "/auth/google", form, &http.Cookie{Name: googleCSRFCookie, Value: "double"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid Google token")
	assert.False(t, ts.reload(t, findCookie(rec, sessionCookie)).SignedIn())
}

func TestLogout_ClearsSession(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, shared.GenderMale)
	calls := len(ts.backend.Calls)

	rec := ts.do(http.MethodPost, "/logout", url.Values{}, cookie)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Equal(t, 0, ts.store.Len())
	assert.Len(t, ts.backend.Calls, calls)
	assert.False(t, ts.reload(t, cookie).SignedIn())
}

// endregion

// region CSRF tests

func TestCSRF_RejectsFormWithoutToken(t *testing.T) {
	ts := newTestServer(t, func(cfg *Config) { cfg.CSRFKey = []byte(strings.Repeat("k", 32)) })
	cookie := ts.signIn(t, shared.GenderMale)

	rec := ts.do(http.MethodPost, "/logout", url.Values{}, cookie)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.True(t, ts.reload(t, cookie).SignedIn())
}

func TestCSRF_RendersTokenField(t *testing.T) {
	ts := newTestServer(t, func(cfg *Config) { cfg.CSRFKey = []byte(strings.Repeat("k", 32)) })
	cookie := ts.signIn(t, shared.GenderMale)

	rec := ts.do(http.MethodGet, "/", nil, cookie)

	assert.Contains(t, rec.Body.String(), `name="`+csrfField+`"`)
}

func TestCSRF_GoogleCredentialIsExempt(t *testing.T) {
	ts := newTestServer(t, func(cfg *Config) { cfg.CSRFKey = []byte(strings.Repeat("k", 32)) })
	form := url.Values{"credential": {"id-token"}, googleCSRFCookie: {"double"}}

	rec := ts.do(http.MethodPost, "/auth/google", form, &http.Cookie{Name: googleCSRFCookie, Value: "double"})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
}

// endregion

// region Register tests

func TestRegister_SignedOutRedirects(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodGet, "/register?q=chess", nil)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/signin?redirect="+url.QueryEscape("/register?q=chess"), rec.Header().Get("Location"))
}

func TestRegister_PromptsForGender(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, "")

	rec := ts.do(http.MethodGet, "/register", nil, cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Select your gender")
	assert.NotContains(t, rec.Body.String(), "No events found")
}

func TestRegister_ListsVisibleEvents(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, shared.GenderMale)

	rec := ts.do(http.MethodGet, "/register", nil, cookie)

	body := rec.Body.String()
	assert.Contains(t, body, `href="/register/fb-m"`)
	assert.Contains(t, body, `href="/register/chess"`)
	assert.NotContains(t, body, `href="/register/fb-w"`)
}

func TestRegister_SearchWithNoMatches(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, shared.GenderMale)

	rec := ts.do(http.MethodGet, "/register?q=zzzz", nil, cookie)

	assert.Contains(t, rec.Body.String(), "No events found")
}

func TestRegister_FetchErrorShowsMessage(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, shared.GenderMale)
	ts.backend.FetchEventsError = external.ErrNetwork

	rec := ts.do(http.MethodGet, "/register", nil, cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), api.MsgEventsFailed)
}

// endregion

// region Gender tests

func TestGender_SetWithoutRegistrations(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, "")

	rec := ts.do(http.MethodPost, "/profile/gender", url.Values{"action": {"request"}, "gender": {"female"}}, cookie)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/register", rec.Header().Get("Location"))
	require.Len(t, ts.backend.GenderCalls, 1)
	assert.False(t, ts.backend.GenderCalls[0].ClearRegistrations)
	assert.Equal(t, shared.GenderFemale, ts.reload(t, cookie).User().Gender)
}

func TestGender_ConfirmationRoundTrip(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, shared.GenderMale)
	ts.backend.ConfirmRegistrations = 2

	rec := ts.do(http.MethodPost, "/profile/gender", url.Values{"action": {"request"}, "gender": {"FEMALE"}}, cookie)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, shared.GenderMale, ts.reload(t, cookie).User().Gender)

	page := ts.do(http.MethodGet, "/register", nil, cookie)
	assert.Contains(t, page.Body.String(), "cancel your 2 existing registration(s)")

	rec = ts.do(http.MethodPost, "/profile/gender", url.Values{"action": {"confirm"}}, cookie)
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	require.Len(t, ts.backend.GenderCalls, 2)
	assert.True(t, ts.backend.GenderCalls[1].ClearRegistrations)
	sess := ts.reload(t, cookie)
	assert.Equal(t, shared.GenderFemale, sess.User().Gender)
	assert.Nil(t, sess.PendingGender())
}

func TestGender_DismissKeepsGender(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, shared.GenderMale)
	ts.backend.ConfirmRegistrations = 1
	ts.do(http.MethodPost, "/profile/gender", url.Values{"action": {"request"}, "gender": {"FEMALE"}}, cookie)

	rec := ts.do(http.MethodPost, "/profile/gender", url.Values{"action": {"dismiss"}}, cookie)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Len(t, ts.backend.GenderCalls, 1)
	sess := ts.reload(t, cookie)
	assert.Equal(t, shared.GenderMale, sess.User().Gender)
	assert.Nil(t, sess.PendingGender())
}

func TestGender_InvalidValue(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, "")

	rec := ts.do(http.MethodPost, "/profile/gender", url.Values{"action": {"request"}, "gender": {"OTHER"}}, cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, ts.backend.GenderCalls)
}

func TestGender_BackendFailure(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, "")
	ts.backend.UpdateGenderError = &external.APIError{Status: http.StatusInternalServerError}

	rec := ts.do(http.MethodPost, "/profile/gender", url.Values{"action": {"request"}, "gender": {"MALE"}}, cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), api.MsgGenderFailed)
	assert.Equal(t, shared.Gender(""), ts.reload(t, cookie).User().Gender)
}

// endregion

// region Event form tests

func TestEventForm_TeamStartsAtMinimum(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, shared.GenderMale)

	rec := ts.do(http.MethodGet, "/register/fb-m", nil, cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Equal(t, 2, strings.Count(body, `name="memberName"`))
	assert.Contains(t, body, `value="add"`)
	assert.NotContains(t, body, `value="remove:0"`)
}

func TestEventForm_EnterSubmitsRegistration(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, shared.GenderMale)

	rec := ts.do(http.MethodPost, "/register/fb-m", url.Values{"action": {"add"}, "memberName": {"Ravi", "Kiran"}, "memberPhone": {"", ""}}, cookie)

	body := rec.Body.String()
	require.Contains(t, body, `value="remove:0"`)
	first := strings.Index(body, `name="action"`)
	require.NotEqual(t, -1, first)
	assert.True(t, strings.HasPrefix(body[first:], `name="action" value="submit"`))
	assert.Less(t, first, strings.Index(body, `value="remove:0"`))
	assert.Less(t, first, strings.Index(body, `value="add"`))
}

func TestEventForm_IndividualHasNoTeamFields(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, shared.GenderMale)

	rec := ts.do(http.MethodGet, "/register/chess", nil, cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `name="collegeName"`)
	assert.NotContains(t, rec.Body.String(), `name="captainName"`)
}

func TestEventForm_HiddenEventNotFound(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, shared.GenderMale)

	rec := ts.do(http.MethodGet, "/register/fb-w", nil, cookie)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventForm_NoGenderRedirects(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, "")

	rec := ts.do(http.MethodGet, "/register/chess", nil, cookie)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/register", rec.Header().Get("Location"))
}

func TestEventSubmit_AddAndRemoveMembers(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, shared.GenderMale)

	form := teamForm()
	form.Set("action", "add")
	rec := ts.do(http.MethodPost, "/register/fb-m", form, cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, strings.Count(rec.Body.String(), `name="memberName"`))
	assert.Contains(t, rec.Body.String(), `value="remove:2"`)
	assert.Contains(t, rec.Body.String(), `value="NIT Trichy"`)

	form = teamForm()
	form["memberName"] = []string{"Ravi", "Kiran", "Dev"}
	form["memberPhone"] = []string{"9876543211", "9876543212", "9876543213"}
	form.Set("action", "remove:0")
	rec = ts.do(http.MethodPost, "/register/fb-m", form, cookie)

	body := rec.Body.String()
	assert.Equal(t, 2, strings.Count(body, `name="memberName"`))
	assert.NotContains(t, body, `value="Ravi"`)
	assert.Equal(t, 0, ts.backend.CallCount("CreateRegistration"))
}

func TestEventSubmit_ImportRoster(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, shared.GenderMale)
	form := teamForm()
	form.Set("action", "import")
	form.Set("roster", "\"Meera Nair\" 98765 43214\nDev 9876543215\nTara 9876543216\nOm 9876543217\nZoya 9876543218")

	rec := ts.do(http.MethodPost, "/register/fb-m", form, cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, `value="Meera Nair"`)
	assert.Contains(t, body, `value="9876543214"`)
	assert.Equal(t, logic.MaxMembers(testEvents()[0]), strings.Count(body, `name="memberName"`))
	assert.Contains(t, body, "were left out")
}

func TestEventSubmit_ImportRosterError(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, shared.GenderMale)
	form := teamForm()
	form.Set("action", "import")
	form.Set("roster", "Dev 9876543215\n98765 43210")

	rec := ts.do(http.MethodPost, "/register/fb-m", form, cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not read the roster: line 2")
	assert.Contains(t, rec.Body.String(), `value="Ravi"`)
}

func TestEventSubmit_Success(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, shared.GenderMale)
	ts.backend.Created = shared.Registration{ID: "r1", PaidAmount: decimal.NewFromInt(1500)}
	form := teamForm()
	form.Set("action", "submit")

	rec := ts.do(http.MethodPost, "/register/fb-m", form, cookie)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/register", rec.Header().Get("Location"))
	require.Len(t, ts.backend.Payloads, 1)
	assert.Equal(t, "9876543210", ts.backend.Payloads[0].CaptainPhone)
	assert.Len(t, ts.backend.Payloads[0].TeamMembers, 2)
	assert.Len(t, ts.notifier.Created, 1)

	page := ts.do(http.MethodGet, "/register", nil, cookie)
	assert.Contains(t, page.Body.String(), api.MsgRegistered)
	page = ts.do(http.MethodGet, "/register", nil, cookie)
	assert.NotContains(t, page.Body.String(), api.MsgRegistered)

	metrics := ts.do(http.MethodGet, "/metrics", nil)
	assert.Contains(t, metrics.Body.String(), `airo_registrations_total{outcome="created"} 1`)
}

func TestEventSubmit_InvalidDraftSendsNothing(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, shared.GenderMale)
	form := teamForm()
	form.Set("collegeName", " ")

	rec := ts.do(http.MethodPost, "/register/fb-m", form, cookie)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), logic.MsgCollegeRequired)
	assert.Equal(t, 0, ts.backend.CallCount("CreateRegistration"))
	metrics := ts.do(http.MethodGet, "/metrics", nil)
	assert.Contains(t, metrics.Body.String(), `airo_registrations_total{outcome="invalid"} 1`)
}

func TestEventSubmit_BackendRejects(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, shared.GenderMale)
	ts.backend.CreateError = &external.APIError{Status: http.StatusConflict, Message: "Already registered for this event"}

	rec := ts.do(http.MethodPost, "/register/chess", url.Values{"collegeName": {"IIT Madras"}, "action": {"submit"}}, cookie)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "Already registered for this event")
	assert.Contains(t, rec.Body.String(), `value="IIT Madras"`)
	assert.Empty(t, ts.notifier.Created)
}

// endregion

// region Cart tests

func cartRegistrations() []shared.Registration {
	created := time.Date(2026, 1, 20, 10, 0, 0, 0, time.UTC)
	return []shared.Registration{
		{ID: "r1", PaidAmount: decimal.NewFromInt(1500), CreatedAt: created, CollegeName: "NIT Trichy", CaptainName: "Asha", CaptainPhone: "9876543210", Event: testEvents()[0],
			TeamMembers: []shared.RegisteredMember{{Name: "Kiran", Phone: "9876543212", PlayerNumber: 3}, {Name: "Ravi", Phone: "9876543211", PlayerNumber: 2}}},
		{ID: "r2", PaidAmount: decimal.NewFromInt(200), CreatedAt: created, CollegeName: "NIT Trichy", Event: testEvents()[2]},
	}
}

func TestCart_ListsRegistrations(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, shared.GenderMale)
	ts.backend.Registrations = cartRegistrations()

	rec := ts.do(http.MethodGet, "/cart", nil, cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "2 registration(s)")
	assert.Contains(t, body, "Total paid ₹1700")
	assert.Contains(t, body, "Team of 3")
	assert.Less(t, strings.Index(body, "Ravi"), strings.Index(body, "Kiran"))
	assert.Equal(t, "token-1", ts.backend.Tokens[len(ts.backend.Tokens)-1])
}

func TestCart_Empty(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, shared.GenderMale)

	rec := ts.do(http.MethodGet, "/cart", nil, cookie)

	assert.Contains(t, rec.Body.String(), "You have not registered for any events yet")
}

func TestCart_FetchError(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, shared.GenderMale)
	ts.backend.FetchRegistrationsError = external.ErrNetwork

	rec := ts.do(http.MethodGet, "/cart", nil, cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), api.MsgCartFailed)
}

func TestCancel_AsksForConfirmation(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, shared.GenderMale)
	ts.backend.Registrations = cartRegistrations()

	rec := ts.do(http.MethodPost, "/cart/cancel", url.Values{"id": {"r1"}}, cookie)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), api.MsgCancelConfirm)
	assert.Contains(t, rec.Body.String(), `name="confirm" value="yes"`)
	assert.Empty(t, ts.backend.DeletedIDs)
}

func TestCancel_Confirmed(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, shared.GenderMale)
	ts.backend.Registrations = cartRegistrations()

	rec := ts.do(http.MethodPost, "/cart/cancel", url.Values{"id": {"r1"}, "confirm": {"yes"}}, cookie)

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/cart", rec.Header().Get("Location"))
	assert.Equal(t, []string{"r1"}, ts.backend.DeletedIDs)
	require.Len(t, ts.notifier.Cancelled, 1)
	assert.Equal(t, "r1", ts.notifier.Cancelled[0].ID)

	cart := ts.do(http.MethodGet, "/cart", nil, cookie)
	body := cart.Body.String()
	assert.Contains(t, body, api.MsgCancelled)
	assert.Contains(t, body, "1 registration(s)")
	assert.Contains(t, body, "Total paid ₹200")
	assert.NotContains(t, ts.do(http.MethodGet, "/cart", nil, cookie).Body.String(), api.MsgCancelled)
}

func TestCancel_BackendFailureKeepsList(t *testing.T) {
	ts := newTestServer(t, nil)
	cookie := ts.signIn(t, shared.GenderMale)
	ts.backend.Registrations = cartRegistrations()
	ts.backend.DeleteError = external.ErrNetwork

	rec := ts.do(http.MethodPost, "/cart/cancel", url.Values{"id": {"r1"}, "confirm": {"yes"}}, cookie)

	body := rec.Body.String()
	assert.Contains(t, body, api.MsgCancelFailed)
	assert.Contains(t, body, "2 registration(s)")
	assert.Empty(t, ts.notifier.Cancelled)
	metrics := ts.do(http.MethodGet, "/metrics", nil)
	assert.Contains(t, metrics.Body.String(), `airo_cancellations_total{outcome="failed"} 1`)
}

func TestCancel_SignedOutRedirects(t *testing.T) {
	ts := newTestServer(t, nil)

	rec := ts.do(http.MethodPost, "/cart/cancel", url.Values{"id": {"r1"}, "confirm": {"yes"}})

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Empty(t, ts.backend.DeletedIDs)
}

// endregion
