package enums

// ActionFlag classifies an admin log entry.
type ActionFlag int

const (
	ActionFlagAddition ActionFlag = 1
	ActionFlagChange   ActionFlag = 2
	ActionFlagDeletion ActionFlag = 3
)

// String implements fmt.Stringer.
func (a ActionFlag) String() string {
	switch a {
	case ActionFlagAddition:
		return "addition"
	case ActionFlagChange:
		return "change"
	case ActionFlagDeletion:
		return "deletion"
	}
	return "unknown"
}
