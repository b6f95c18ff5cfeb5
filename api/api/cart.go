/* cart.go
 * Contains the registration list ("cart") of the signed in user and its cancel flow
 * Authors: AIRO Web Team
 */

package api

import (
	"context"
	"errors"

	"airo-web/api/external"
	"airo-web/api/logic"
	"airo-web/api/session"
	"airo-web/api/shared"

	"github.com/shopspring/decimal"
)

// Cart is the loaded list of registrations. Totals are derived from Registrations on every call
type Cart struct {
	Registrations []shared.Registration

	api  *API
	sess *session.Session
}

// Cart fetches the registrations of the signed in user.
// Preconditions: Receives a context and the user's session
// Postconditions: Returns the cart, or a *FlowError carrying "Failed to load your registrations."
func (a *API) Cart(ctx context.Context, sess *session.Session) (*Cart, error) {
	regs, err := a.Backend.FetchRegistrations(ctx, sess.Token())
	if err != nil {
		return nil, &FlowError{Message: MsgCartFailed, Err: err}
	}
	return &Cart{Registrations: regs, api: a, sess: sess}, nil
}

// TotalPaid is the sum of PaidAmount over the loaded registrations
func (c *Cart) TotalPaid() decimal.Decimal {
	return logic.TotalPaid(c.Registrations)
}

func (c *Cart) Count() int {
	return len(c.Registrations)
}

// Cancel deletes a registration after confirm approves the prompt.
// Preconditions: Receives a context, the registration id and a confirmation callback
// Postconditions: Returns false and nil when the user declined. On success the registration is removed from the
// local list (an id that is not loaded leaves the list unchanged) and true is returned. On failure the list is
// left unchanged and a *FlowError is returned
func (c *Cart) Cancel(ctx context.Context, id string, confirm func(prompt string) bool) (bool, error) {
	if confirm == nil || !confirm(MsgCancelConfirm) {
		return false, nil
	}

	if err := c.api.Backend.DeleteRegistration(ctx, c.sess.Token(), id); err != nil {
		msg := MsgCancelFailed
		var apiErr *external.APIError
		if errors.As(err, &apiErr) {
			msg = apiErr.MessageOr(MsgCancelFailed)
		}
		return false, &FlowError{Message: msg, Err: err}
	}

	if c.api.Notifier != nil {
		if user := c.sess.User(); user != nil {
			for _, reg := range c.Registrations {
				if reg.ID == id {
					c.api.Notifier.RegistrationCancelled(*user, reg)
					break
				}
			}
		}
	}
	c.Registrations = logic.RemoveByID(c.Registrations, id)
	return true, nil
}
