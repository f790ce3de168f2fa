package enums

import "slices"

// PaymentStatus tracks the settlement state of an order. Orders start
// pending; the stored value is the single letter code.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "P"
	PaymentStatusComplete PaymentStatus = "C"
	PaymentStatusFailed   PaymentStatus = "F"
)

var paymentStatuses = []PaymentStatus{PaymentStatusPending, PaymentStatusComplete, PaymentStatusFailed}

func (p PaymentStatus) String() string { return string(p) }

func (p PaymentStatus) Label() string {
	switch p {
	case PaymentStatusPending:
		return "Pending"
	case PaymentStatusComplete:
		return "Complete"
	case PaymentStatusFailed:
		return "Failed"
	}
	return ""
}

func (p PaymentStatus) IsValid() bool { return slices.Contains(paymentStatuses, p) }

func ParsePaymentStatus(value string) (PaymentStatus, error) {
	return parseChoice("payment status", value, paymentStatuses)
}
