/* handlers.go
 * Contains the formatting of the announcements posted by the announcer
 * Authors: AIRO Web Team
 */

package bot

import (
	"fmt"
	"strings"

	"airo-web/api/logic"
	"airo-web/api/shared"
)

// eventName returns e.g. "Football (Men's)", falling back to the snapshot's display name
func eventName(event shared.SportEvent) string {
	name := event.DisplayName
	if name == "" {
		name = shared.SportLabel(event.Sport)
	}
	if label := event.Category.Label(); label != "" {
		name = fmt.Sprintf("%s (%s)", name, label)
	}
	return name
}

// createdMessage formats a new registration, e.g.
// New registration: **Football (Men's)** by Asha <asha@nitt.edu> from NIT Trichy, team of 5, paid ₹1500
func createdMessage(user shared.User, event shared.SportEvent, reg shared.Registration) string {
	if event.ID == "" {
		event = reg.Event
	}
	var res strings.Builder
	res.WriteString(fmt.Sprintf("New registration: **%s** by %s <%s>", eventName(event), user.Name, user.Email))
	if reg.CollegeName != "" {
		res.WriteString(fmt.Sprintf(" from %s", reg.CollegeName))
	}
	if event.IsTeamEvent {
		res.WriteString(fmt.Sprintf(", team of %d", logic.HeadCount(reg)))
	}
	res.WriteString(fmt.Sprintf(", paid ₹%s", reg.PaidAmount.String()))
	return res.String()
}

// cancelledMessage formats a cancelled registration, e.g.
// Registration cancelled: **Football (Men's)** by Asha <asha@nitt.edu> (NIT Trichy)
func cancelledMessage(user shared.User, reg shared.Registration) string {
	res := fmt.Sprintf("Registration cancelled: **%s** by %s <%s>", eventName(reg.Event), user.Name, user.Email)
	if reg.CollegeName != "" {
		res += fmt.Sprintf(" (%s)", reg.CollegeName)
	}
	return res
}
