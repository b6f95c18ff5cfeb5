/* home.go
 * Contains the landing page: hero slideshow, stats, featured events, the about block and sponsors
 * Authors: AIRO Web Team
 */

package web

import (
	"net/http"
)

var heroSlides = []string{
	"/static/images/hero-1.jpg",
	"/static/images/hero-2.jpg",
	"/static/images/hero-3.jpg",
	"/static/images/hero-4.jpg",
}

var festStats = []stat{
	{Label: "Events", Value: "20+"},
	{Label: "Participants", Value: "5,000"},
	{Label: "Championships", Value: "18"},
}

var featuredEvents = []featuredEvent{
	{ID: "archery", Title: "Archery", Description: "Precision rounds with knockout brackets and finals on the main lawn.", Date: "Feb 9", Time: "9:00 AM", Image: "/static/images/event-1.svg", Tag: "Target"},
	{ID: "athletics", Title: "Athletics", Description: "Track & field sprints, relays, and endurance finals.", Date: "Feb 9", Time: "3:00 PM", Image: "/static/images/event-2.svg", Tag: "Track"},
	{ID: "badminton", Title: "Badminton", Description: "Fast-paced rallies with singles and doubles championship matches.", Date: "Feb 10", Time: "10:30 AM", Image: "/static/images/event-3.svg", Tag: "Court"},
	{ID: "basketball", Title: "Basketball", Description: "High-intensity knockout games under the arena lights.", Date: "Feb 10", Time: "6:00 PM", Image: "/static/images/event-1.svg", Tag: "Arena"},
	{ID: "chess", Title: "Chess", Description: "Rapid and blitz formats with live boards and analysis lounge.", Date: "Feb 11", Time: "11:00 AM", Image: "/static/images/event-2.svg", Tag: "Mind"},
	{ID: "cricket", Title: "Cricket", Description: "Day-night clashes with campus rivalries and finals ceremony.", Date: "Feb 11", Time: "4:30 PM", Image: "/static/images/event-3.svg", Tag: "Field"},
}

var sponsors = []sponsor{
	{Name: "Mahindra University", Logo: "/static/images/sponsor-1.svg"},
	{Name: "Tech Mahindra", Logo: "/static/images/sponsor-2.svg"},
	{Name: "Mahindra Group", Logo: "/static/images/sponsor-3.svg"},
}

// HomeHandler renders the landing page. It never calls the festival API
func (s *Server) HomeHandler(w http.ResponseWriter, r *http.Request) {
	sess := s.loadSession(w, r)
	s.render(w, r, sess, "home", http.StatusOK, page{
		Data: homeView{
			Slides:   heroSlides,
			Stats:    festStats,
			Events:   featuredEvents,
			Sponsors: sponsors,
			About:    s.about,
		},
	})
}
