/* models.go
 * This file contains the request and response models used by the external package when talking to the festival
 * REST API, and the error types returned to the higher level packages
 * Authors: AIRO Web Team
 */

package external

import (
	"errors"
	"fmt"

	"airo-web/api/shared"
)

// ErrNetwork wraps transport level failures: the request never produced a usable response
var ErrNetwork = errors.New("network error")

// APIError is returned when the backend answered with a non 2xx status
type APIError struct {
	Status  int
	Message string
	// Set by PATCH /auth/me when changing gender would cancel existing registrations
	RequiresConfirmation bool
	RegistrationCount    int
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend returned status %d", e.Status)
	}
	return fmt.Sprintf("backend returned status %d: %s", e.Status, e.Message)
}

// MessageOr returns the server supplied message, or fallback when the server did not send one
func (e *APIError) MessageOr(fallback string) string {
	if e.Message == "" {
		return fallback
	}
	return e.Message
}

// errorBody is the shape of every non 2xx body. Auth endpoints use `message`, registrations use `error`
type errorBody struct {
	Message              string `json:"message"`
	Error                string `json:"error"`
	RequiresConfirmation bool   `json:"requiresConfirmation"`
	RegistrationCount    int    `json:"registrationCount"`
}

// AuthResponse is returned by both Google exchange endpoints: the user record flattened next to the session token
type AuthResponse struct {
	shared.User
	Token string `json:"token"`
}

type googleTokenRequest struct {
	IDToken string `json:"idToken"`
}

type googleCodeRequest struct {
	Code string `json:"code"`
}

type genderRequest struct {
	Gender             shared.Gender `json:"gender"`
	ClearRegistrations bool          `json:"clearRegistrations"`
}

// RegistrationPayload is the body of POST /registrations. Captain and team fields are only sent for team events
type RegistrationPayload struct {
	EventID      string              `json:"eventId"`
	CollegeName  string              `json:"collegeName"`
	CaptainName  string              `json:"captainName,omitempty"`
	CaptainEmail string              `json:"captainEmail,omitempty"`
	CaptainPhone string              `json:"captainPhone,omitempty"`
	TeamMembers  []shared.TeamMember `json:"teamMembers,omitempty"`
}
