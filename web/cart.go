/* cart.go
 * Contains the cart handlers: the list of the visitor's registrations and the confirmed cancel
 * Authors: AIRO Web Team
 */

package web

import (
	"log"
	"net/http"

	"airo-web/api/api"
)

// CartHandler lists the signed in user's registrations with the derived totals
func (s *Server) CartHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.loadSession(w, r)
	if !requireUser(w, r, sess) {
		return
	}
	cart, err := s.api.Cart(r.Context(), sess)
	if err != nil {
		log.Printf("failed to load cart: %v", err)
		s.render(w, r, sess, "cart", http.StatusOK, page{Title: "Cart", Error: api.MsgCartFailed, Data: cartView{}})
		return
	}
	s.render(w, r, sess, "cart", http.StatusOK, page{Title: "Cart", Data: cartView{Cart: cart}})
}

// CancelHandler cancels a registration (POST /cart/cancel with id). Without confirm=yes the confirmation dialog is
// rendered instead and nothing is sent. A successful cancel redirects to /cart with a flash, so a reload never
// posts the cancel again
func (s *Server) CancelHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.loadSession(w, r)
	if !requireUser(w, r, sess) {
		return
	}
	id := r.PostFormValue("id")
	if id == "" {
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	if r.PostFormValue("confirm") != "yes" {
		s.render(w, r, sess, "confirm", http.StatusOK, page{
			Title: "Cancel registration",
			Data: confirmView{
				Prompt: api.MsgCancelConfirm,
				Action: "/cart/cancel",
				Back:   "/cart",
				Fields: map[string]string{"id": id},
			},
		})
		return
	}

	cart, err := s.api.Cart(r.Context(), sess)
	if err != nil {
		log.Printf("failed to load cart: %v", err)
		s.render(w, r, sess, "cart", http.StatusOK, page{Title: "Cart", Error: api.MsgCartFailed, Data: cartView{}})
		return
	}
	// the visitor already answered the prompt on the confirmation page
	_, err = cart.Cancel(r.Context(), id, func(string) bool { return true })
	if err != nil {
		log.Printf("failed to cancel registration %s: %v", id, err)
		s.metrics.cancellations.WithLabelValues("failed").Inc()
		s.render(w, r, sess, "cart", http.StatusOK, page{Title: "Cart", Error: err.Error(), Data: cartView{Cart: cart}})
		return
	}
	s.metrics.cancellations.WithLabelValues("cancelled").Inc()
	if err := sess.SetFlash(r.Context(), api.MsgCancelled); err != nil {
		log.Printf("failed to store flash: %v", err)
	}
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}
