/* cart.go
 * Contains the values derived from a list of registrations. None of these are stored; they are recomputed from
 * the list every time it changes
 * Authors: AIRO Web Team
 */

package logic

import (
	"sort"

	"airo-web/api/shared"

	"github.com/shopspring/decimal"
)

// TotalPaid sums PaidAmount over regs
func TotalPaid(regs []shared.Registration) decimal.Decimal {
	total := decimal.Zero
	for _, r := range regs {
		total = total.Add(r.PaidAmount)
	}
	return total
}

// HeadCount is the team size of a registration, captain included
func HeadCount(reg shared.Registration) int {
	return len(reg.TeamMembers) + 1
}

// SortedMembers returns a copy of the registration's members ordered by ascending player number
func SortedMembers(reg shared.Registration) []shared.RegisteredMember {
	members := make([]shared.RegisteredMember, len(reg.TeamMembers))
	copy(members, reg.TeamMembers)
	sort.SliceStable(members, func(i, j int) bool {
		return members[i].PlayerNumber < members[j].PlayerNumber
	})
	return members
}

// RemoveByID returns regs without the registration with the given id. An unknown id leaves the list unchanged
func RemoveByID(regs []shared.Registration, id string) []shared.Registration {
	kept := make([]shared.Registration, 0, len(regs))
	for _, r := range regs {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	return kept
}
