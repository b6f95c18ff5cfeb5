/* festival.go
 * Contains one method per festival API endpoint
 * Authors: AIRO Web Team
 */

package external

import (
	"context"
	"net/http"
	"net/url"

	"airo-web/api/shared"
)

// Interface defines the methods that Client implements.
// This allows for mocking in tests.
type Interface interface {
	GoogleLogin(ctx context.Context, idToken string) (AuthResponse, error)
	GoogleCodeLogin(ctx context.Context, code string) (AuthResponse, error)
	UpdateGender(ctx context.Context, token string, gender shared.Gender, clearRegistrations bool) error
	FetchEvents(ctx context.Context) ([]shared.SportEvent, error)
	FetchRegistrations(ctx context.Context, token string) ([]shared.Registration, error)
	CreateRegistration(ctx context.Context, token string, payload RegistrationPayload) (shared.Registration, error)
	DeleteRegistration(ctx context.Context, token string, id string) error
}

// Ensure Client implements Interface
var _ Interface = (*Client)(nil)

// GoogleLogin exchanges a Google identity token for an application session (POST /auth/google)
func (c *Client) GoogleLogin(ctx context.Context, idToken string) (AuthResponse, error) {
	var res AuthResponse
	err := c.do(ctx, request{Method: http.MethodPost, Path: "/auth/google", Body: googleTokenRequest{IDToken: idToken}}, &res)
	return res, err
}

// GoogleCodeLogin exchanges a Google authorization code for an application session (POST /auth/google/code)
func (c *Client) GoogleCodeLogin(ctx context.Context, code string) (AuthResponse, error) {
	var res AuthResponse
	err := c.do(ctx, request{Method: http.MethodPost, Path: "/auth/google/code", Body: googleCodeRequest{Code: code}}, &res)
	return res, err
}

// UpdateGender sets the caller's gender (PATCH /auth/me).
// Preconditions: Receives the bearer token, the new gender and whether existing registrations may be cleared
// Postconditions: Returns nil on success. When the change would cancel registrations and clearRegistrations is
// false, returns an *APIError with RequiresConfirmation set and the number of affected registrations
func (c *Client) UpdateGender(ctx context.Context, token string, gender shared.Gender, clearRegistrations bool) error {
	return c.do(ctx, request{
		Method:        http.MethodPatch,
		Path:          "/auth/me",
		Token:         token,
		Authenticated: true,
		Body:          genderRequest{Gender: gender, ClearRegistrations: clearRegistrations},
	}, nil)
}

// FetchEvents lists every registerable event, in the order the catalog returns them (GET /events)
func (c *Client) FetchEvents(ctx context.Context) ([]shared.SportEvent, error) {
	var events []shared.SportEvent
	if err := c.do(ctx, request{Method: http.MethodGet, Path: "/events"}, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// FetchRegistrations lists the caller's registrations (GET /registrations)
func (c *Client) FetchRegistrations(ctx context.Context, token string) ([]shared.Registration, error) {
	var regs []shared.Registration
	err := c.do(ctx, request{Method: http.MethodGet, Path: "/registrations", Token: token, Authenticated: true}, &regs)
	if err != nil {
		return nil, err
	}
	return regs, nil
}

// CreateRegistration submits a registration (POST /registrations) and returns the record created by the backend
func (c *Client) CreateRegistration(ctx context.Context, token string, payload RegistrationPayload) (shared.Registration, error) {
	var reg shared.Registration
	err := c.do(ctx, request{
		Method:        http.MethodPost,
		Path:          "/registrations",
		Token:         token,
		Authenticated: true,
		Body:          payload,
	}, &reg)
	return reg, err
}

// DeleteRegistration cancels one of the caller's registrations (DELETE /registrations/:id)
func (c *Client) DeleteRegistration(ctx context.Context, token string, id string) error {
	return c.do(ctx, request{
		Method:        http.MethodDelete,
		Path:          "/registrations/" + url.PathEscape(id),
		Token:         token,
		Authenticated: true,
	}, nil)
}
