/* roster.go
 * Contains the parser for the "paste roster" box on the team registration form. One player per line: the name,
 * followed by the phone number. Names that contain spaces may be quoted, e.g. "Asha Rao" 98765 43210
 * Authors: AIRO Web Team
 */

package logic

import (
	"fmt"
	"strings"
	"unicode"

	"airo-web/api/shared"

	"github.com/go-andiamo/splitter"
)

// ParseRoster parses a pasted roster into member slots. Phones are sanitized; blank lines are skipped.
// Preconditions: Receives the raw text of the roster box
// Postconditions: Returns the members in order, or an error naming the first line that could not be parsed
func ParseRoster(text string) ([]shared.TeamMember, error) {
	// we use splitter here instead of strings.Fields so quoted names with spaces stay one token
	spaceSplitter, err := splitter.NewSplitter(' ', splitter.DoubleQuotes, splitter.LeftRightDoubleDoubleQuotes)
	if err != nil {
		return nil, fmt.Errorf("failed to create roster splitter: %w", err)
	}

	var members []shared.TeamMember
	for i, line := range strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n") {
		line = strings.TrimSpace(strings.ReplaceAll(line, "\t", " "))
		if line == "" {
			continue
		}
		parts, err := spaceSplitter.Split(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}

		var tokens []string
		for _, part := range parts {
			part = strings.TrimSpace(part)
			part = strings.Trim(part, "\"“”")
			if part != "" {
				tokens = append(tokens, part)
			}
		}

		// Phone tokens are taken from the end of the line, so "98765 43210" may be split across tokens
		cut := len(tokens)
		for cut > 0 && isPhoneToken(tokens[cut-1]) {
			cut--
		}
		name := strings.Join(tokens[:cut], " ")
		if name == "" {
			return nil, fmt.Errorf("line %d: missing player name", i+1)
		}
		members = append(members, shared.TeamMember{
			Name:  name,
			Phone: SanitizePhone(strings.Join(tokens[cut:], "")),
		})
	}
	return members, nil
}

// isPhoneToken reports whether token looks like (part of) a phone number: digits and separators, no letters
func isPhoneToken(token string) bool {
	hasDigit := false
	for _, r := range token {
		switch {
		case unicode.IsDigit(r):
			hasDigit = true
		case r == '+' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return false
		}
	}
	return hasDigit
}
