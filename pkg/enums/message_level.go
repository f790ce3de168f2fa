package enums

// MessageLevel is the severity attached to an operator message.
type MessageLevel string

const (
	MessageLevelDebug   MessageLevel = "debug"
	MessageLevelInfo    MessageLevel = "info"
	MessageLevelSuccess MessageLevel = "success"
	MessageLevelWarning MessageLevel = "warning"
	MessageLevelError   MessageLevel = "error"
)

// String implements fmt.Stringer.
func (l MessageLevel) String() string {
	return string(l)
}
