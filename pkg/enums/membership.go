package enums

import "slices"

// Membership is the customer loyalty tier. New customers are bronze.
type Membership string

const (
	MembershipBronze Membership = "B"
	MembershipSilver Membership = "S"
	MembershipGold   Membership = "G"
)

var memberships = []Membership{MembershipBronze, MembershipSilver, MembershipGold}

func (m Membership) String() string { return string(m) }

// Label returns the tier name shown in the admin.
func (m Membership) Label() string {
	switch m {
	case MembershipBronze:
		return "Bronze"
	case MembershipSilver:
		return "Silver"
	case MembershipGold:
		return "Gold"
	}
	return ""
}

func (m Membership) IsValid() bool { return slices.Contains(memberships, m) }

func ParseMembership(value string) (Membership, error) {
	return parseChoice("membership", value, memberships)
}
