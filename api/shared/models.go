/* models.go
 * This file contain the structs and helper functions that are shared between sub packages: the signed in user,
 * the events supplied by the festival catalog and the registrations owned by a user
 * Authors: AIRO Web Team
 */

package shared

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

type Gender string

const (
	GenderUnset  Gender = ""
	GenderMale   Gender = "MALE"
	GenderFemale Gender = "FEMALE"
)

// Valid reports whether g is one of the declarable genders
func (g Gender) Valid() bool {
	return g == GenderMale || g == GenderFemale
}

// Label returns the display label for the gender ("Male" / "Female"), or an empty string when unset
func (g Gender) Label() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	}
	return ""
}

// Opposite returns the other declarable gender. Used by the "Change" button on the gender selector
func (g Gender) Opposite() Gender {
	if g == GenderMale {
		return GenderFemale
	}
	return GenderMale
}

type Category string

const (
	CategoryMens   Category = "MENS"
	CategoryWomens Category = "WOMENS"
	CategoryMixed  Category = "MIXED"
)

var categoryLabels = map[Category]string{
	CategoryMens:   "Men's",
	CategoryWomens: "Women's",
	CategoryMixed:  "Mixed",
}

// Label returns the display label of a category, e.g. MENS -> Men's
func (c Category) Label() string {
	if label, ok := categoryLabels[c]; ok {
		return label
	}
	return string(c)
}

var sportLabels = map[string]string{
	"ARCHERY":      "Archery",
	"ATHLETICS":    "Athletics",
	"BADMINTON":    "Badminton",
	"BASKETBALL":   "Basketball",
	"CHESS":        "Chess",
	"CRICKET":      "Cricket",
	"FOOTBALL":     "Football",
	"KABADDI":      "Kabaddi",
	"KHO_KHO":      "Kho Kho",
	"POOL":         "Pool",
	"SNOOKER":      "Snooker",
	"POWERLIFTING": "Powerlifting",
	"SWIMMING":     "Swimming",
	"TABLE_TENNIS": "Table Tennis",
	"TENNIS":       "Tennis",
	"THROWBALL":    "Throwball",
	"VOLLEYBALL":   "Volleyball",
	"YOGA":         "Yoga",
}

// SportLabel returns the display name for a sport code. Unknown codes are returned unchanged
func SportLabel(sport string) string {
	if label, ok := sportLabels[sport]; ok {
		return label
	}
	return sport
}

// User is the signed in visitor. Gender is mutable after creation, everything else is owned by the auth service
type User struct {
	ID      string `json:"id" bson:"id"`
	Email   string `json:"email" bson:"email"`
	Name    string `json:"name" bson:"name"`
	Role    string `json:"role" bson:"role"`
	Picture string `json:"picture,omitempty" bson:"picture,omitempty"`
	Gender  Gender `json:"gender,omitempty" bson:"gender,omitempty"`
}

// UserPatch holds the fields of a User that may be merged by UpdateUser. Nil fields are left untouched
type UserPatch struct {
	Name    *string
	Picture *string
	Gender  *Gender
}

// SportEvent is a registerable competition supplied by the catalog service. Read only on this side
type SportEvent struct {
	ID              string          `json:"id"`
	Sport           string          `json:"sport"`
	EventType       string          `json:"eventType"`
	DisplayName     string          `json:"displayName"`
	PrizePool       decimal.Decimal `json:"prizePool"`
	RegistrationFee decimal.Decimal `json:"registrationFee"`
	MinPlayers      int             `json:"minPlayers"`
	MaxPlayers      int             `json:"maxPlayers"`
	IsTeamEvent     bool            `json:"isTeamEvent"`
	Category        Category        `json:"category"`
}

// PlayersLabel describes the team size, e.g. "Team of 5" or "5-7 players"
func (e SportEvent) PlayersLabel() string {
	if !e.IsTeamEvent {
		return ""
	}
	if e.MinPlayers == e.MaxPlayers {
		return "Team of " + strconv.Itoa(e.MinPlayers)
	}
	return strconv.Itoa(e.MinPlayers) + "-" + strconv.Itoa(e.MaxPlayers) + " players"
}

// TeamMember is a member slot of a registration that is still being composed
type TeamMember struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// RegisteredMember is a team member as stored by the backend
type RegisteredMember struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	PlayerNumber int    `json:"playerNumber"`
}

// Registration is created by the backend on a successful submission and owned by the user that created it
type Registration struct {
	ID           string             `json:"id"`
	PaidAmount   decimal.Decimal    `json:"paidAmount"`
	CreatedAt    time.Time          `json:"createdAt"`
	CollegeName  string             `json:"collegeName,omitempty"`
	CaptainName  string             `json:"captainName,omitempty"`
	CaptainPhone string             `json:"captainPhone,omitempty"`
	TeamMembers  []RegisteredMember `json:"teamMembers,omitempty"`
	Event        SportEvent         `json:"event"`
}
