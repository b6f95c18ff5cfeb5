/* validation.go
 * Contains the registration form drafts and the rules that gate a registration before it is sent to the backend.
 * A draft is either an IndividualDraft or a TeamDraft; only team drafts carry captain and member fields
 * Authors: AIRO Web Team
 */

package logic

import (
	"fmt"
	"regexp"
	"strings"

	"airo-web/api/shared"
)

const PhoneDigits = 10

// Messages shown to the user when a rule fails
const (
	MsgCollegeRequired  = "Please enter your college name"
	MsgCaptainName      = "Please enter the captain's name"
	MsgMemberName       = "Every team member needs a name"
	MsgCaptainEmail     = "Please enter a valid email address for the captain"
	MsgCaptainPhone     = "Captain phone must be exactly 10 digits"
	MsgMemberPhones     = "All team member phone numbers must be exactly 10 digits"
	MsgDuplicateNames   = "Each team member must have a unique name"
	MsgDuplicatePhones  = "Each team member must have a unique phone number"
	MsgDraftMismatch    = "This registration form does not match the selected event"
	MsgPhoneHint        = "Must be 10 digits"
	msgTeamSizeTemplate = "Team must have between %d and %d players including the captain"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nonDigit     = regexp.MustCompile(`\D`)
)

// ValidationError is a local, synchronous rejection of a draft. No request is sent when one is returned
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// SanitizePhone drops every non digit character and truncates the result to 10 digits
// e.g. "98-765 4321 0" -> "9876543210"
func SanitizePhone(raw string) string {
	digits := nonDigit.ReplaceAllString(raw, "")
	if len(digits) > PhoneDigits {
		digits = digits[:PhoneDigits]
	}
	return digits
}

// ValidPhone reports whether phone holds exactly 10 digits once non digit characters are stripped
func ValidPhone(phone string) bool {
	return len(nonDigit.ReplaceAllString(phone, "")) == PhoneDigits
}

// PhoneHint returns the inline hint shown under a phone field: empty for an empty or complete number
func PhoneHint(phone string) string {
	if phone != "" && len(phone) != PhoneDigits {
		return MsgPhoneHint
	}
	return ""
}

// ValidEmail reports whether email has the general shape local@domain.tld
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Draft is a registration being composed, either IndividualDraft or TeamDraft
type Draft interface {
	College() string
	isDraft()
}

// IndividualDraft is the form of a non team event: only the college is asked for
type IndividualDraft struct {
	CollegeName string
}

func (d *IndividualDraft) College() string { return d.CollegeName }
func (d *IndividualDraft) isDraft()        {}

// TeamDraft is the form of a team event. The captain is a player; Members are the additional players
type TeamDraft struct {
	CollegeName  string
	CaptainName  string
	CaptainEmail string
	CaptainPhone string
	Members      []shared.TeamMember
}

func (d *TeamDraft) College() string { return d.CollegeName }
func (d *TeamDraft) isDraft()        {}

// MinMembers is the number of players required besides the captain
func MinMembers(event shared.SportEvent) int {
	if event.MinPlayers < 1 {
		return 0
	}
	return event.MinPlayers - 1
}

// MaxMembers is the number of players allowed besides the captain
func MaxMembers(event shared.SportEvent) int {
	upper := event.MaxPlayers - 1
	if lower := MinMembers(event); upper < lower {
		return lower
	}
	return upper
}

// NewDraft returns an empty draft of the right kind for event.
// Team drafts start with exactly MinMembers empty member slots
func NewDraft(event shared.SportEvent) Draft {
	if !event.IsTeamEvent {
		return &IndividualDraft{}
	}
	return &TeamDraft{Members: make([]shared.TeamMember, MinMembers(event))}
}

// AddMember appends an empty member slot. It is a no-op returning false once the event maximum is reached
func (d *TeamDraft) AddMember(event shared.SportEvent) bool {
	if len(d.Members) >= MaxMembers(event) {
		return false
	}
	d.Members = append(d.Members, shared.TeamMember{})
	return true
}

// RemoveMember removes the slot at index. It is a no-op returning false at the event minimum or for a bad index
func (d *TeamDraft) RemoveMember(event shared.SportEvent, index int) bool {
	if len(d.Members) <= MinMembers(event) || index < 0 || index >= len(d.Members) {
		return false
	}
	d.Members = append(d.Members[:index:index], d.Members[index+1:]...)
	return true
}

// SetCaptainPhone stores the sanitized form of raw, so the draft only ever holds up to 10 digits
func (d *TeamDraft) SetCaptainPhone(raw string) {
	d.CaptainPhone = SanitizePhone(raw)
}

// SetMember stores a member slot, sanitizing its phone. Out of range indexes are ignored
func (d *TeamDraft) SetMember(index int, name string, rawPhone string) {
	if index < 0 || index >= len(d.Members) {
		return
	}
	d.Members[index] = shared.TeamMember{Name: name, Phone: SanitizePhone(rawPhone)}
}

// ImportMembers replaces the member slots with members, truncating to the event maximum and padding with empty
// slots up to the minimum. Returns the number of members that were dropped
func (d *TeamDraft) ImportMembers(event shared.SportEvent, members []shared.TeamMember) int {
	dropped := 0
	if upper := MaxMembers(event); len(members) > upper {
		dropped = len(members) - upper
		members = members[:upper]
	}
	slots := make([]shared.TeamMember, 0, len(members))
	for _, m := range members {
		slots = append(slots, shared.TeamMember{Name: m.Name, Phone: SanitizePhone(m.Phone)})
	}
	for len(slots) < MinMembers(event) {
		slots = append(slots, shared.TeamMember{})
	}
	d.Members = slots
	return dropped
}

// HeadCount is the number of players in the draft, captain included
func (d *TeamDraft) HeadCount() int {
	return len(d.Members) + 1
}

// Validate runs every rule for the draft at submit time and returns the first failure as a *ValidationError.
// Team size and the required fields (college, captain name, member names) are checked first, so a blank field is
// reported ahead of any format rule. The remaining team rules then run in this order: captain email, captain phone,
// member phones, duplicate names, duplicate phones
func Validate(event shared.SportEvent, draft Draft) error {
	switch d := draft.(type) {
	case *IndividualDraft:
		if event.IsTeamEvent {
			return invalid(MsgDraftMismatch)
		}
		if strings.TrimSpace(d.CollegeName) == "" {
			return invalid(MsgCollegeRequired)
		}
		return nil
	case *TeamDraft:
		if !event.IsTeamEvent {
			return invalid(MsgDraftMismatch)
		}
		return validateTeam(event, d)
	default:
		return invalid(MsgDraftMismatch)
	}
}

func validateTeam(event shared.SportEvent, d *TeamDraft) error {
	if n := len(d.Members); n < MinMembers(event) || n > MaxMembers(event) {
		return invalid(fmt.Sprintf(msgTeamSizeTemplate, MinMembers(event)+1, MaxMembers(event)+1))
	}
	if strings.TrimSpace(d.CollegeName) == "" {
		return invalid(MsgCollegeRequired)
	}
	if strings.TrimSpace(d.CaptainName) == "" {
		return invalid(MsgCaptainName)
	}
	for _, m := range d.Members {
		if strings.TrimSpace(m.Name) == "" {
			return invalid(MsgMemberName)
		}
	}

	if !ValidEmail(d.CaptainEmail) {
		return invalid(MsgCaptainEmail)
	}
	if !ValidPhone(d.CaptainPhone) {
		return invalid(MsgCaptainPhone)
	}
	for _, m := range d.Members {
		if !ValidPhone(m.Phone) {
			return invalid(MsgMemberPhones)
		}
	}

	// Check for duplicate names
	names := make(map[string]bool, len(d.Members)+1)
	names[normalizeName(d.CaptainName)] = true
	for _, m := range d.Members {
		key := normalizeName(m.Name)
		if names[key] {
			return invalid(MsgDuplicateNames)
		}
		names[key] = true
	}

	// Check for duplicate phone numbers
	phones := make(map[string]bool, len(d.Members)+1)
	phones[SanitizePhone(d.CaptainPhone)] = true
	for _, m := range d.Members {
		key := SanitizePhone(m.Phone)
		if phones[key] {
			return invalid(MsgDuplicatePhones)
		}
		phones[key] = true
	}
	return nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
