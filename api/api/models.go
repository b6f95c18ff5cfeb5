/* models.go
 * This file contain the interfaces, structs and messages that are used by api consumers
 * Authors: AIRO Web Team
 */

package api

import (
	"airo-web/api/logic"
	"airo-web/api/shared"
)

// Messages shown to the user when a flow fails
const (
	MsgEventsFailed       = "Failed to load events. Please try again later."
	MsgRegistrationFailed = "Registration failed"
	MsgCartFailed         = "Failed to load your registrations."
	MsgCancelFailed       = "Failed to cancel registration."
	MsgCancelled          = "Registration cancelled."
	MsgCancelConfirm      = "Are you sure you want to cancel this registration?"
	MsgGenderFailed       = "Failed to update gender"
	MsgRegistered         = "Registration successful! View your registrations in the Cart."
)

// FlowError is a failure that has already been turned into a message fit for the user. Err keeps the cause
type FlowError struct {
	Message string
	Err     error
}

func (e *FlowError) Error() string {
	return e.Message
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

// Notifier is told about registration changes, e.g. to announce them to the organizers
type Notifier interface {
	RegistrationCreated(user shared.User, event shared.SportEvent, reg shared.Registration)
	RegistrationCancelled(user shared.User, reg shared.Registration)
}

// CatalogView is what the registration page shows: the visible events grouped by sport, or the gender prompt
type CatalogView struct {
	Groups      []logic.SportGroup
	NeedsGender bool
	Query       string
	Error       string
}

// Empty reports whether there is nothing to list even though the user has declared a gender
func (v CatalogView) Empty() bool {
	return !v.NeedsGender && v.Error == "" && len(v.Groups) == 0
}

// SubmitResult is the outcome of a registration submit. Registration is set on success
type SubmitResult struct {
	Success      bool
	Registration *shared.Registration
	Error        string
}
