package enums

import "testing"

func TestParseMembership(t *testing.T) {
	for _, raw := range []string{"B", "S", "G"} {
		m, err := ParseMembership(raw)
		if err != nil {
			t.Fatalf("ParseMembership(%q) returned error: %v", raw, err)
		}
		if !m.IsValid() {
			t.Fatalf("expected %q to be valid", raw)
		}
	}
	if _, err := ParseMembership("P"); err == nil {
		t.Fatal("expected unknown tier to fail")
	}
	if MembershipGold.Label() != "Gold" {
		t.Fatalf("unexpected label %q", MembershipGold.Label())
	}
}

func TestParsePaymentStatus(t *testing.T) {
	if _, err := ParsePaymentStatus("C"); err != nil {
		t.Fatalf("expected complete status to parse: %v", err)
	}
	if _, err := ParsePaymentStatus("complete"); err == nil {
		t.Fatal("expected long form to be rejected")
	}
	if PaymentStatusFailed.Label() != "Failed" || PaymentStatus("X").Label() != "" {
		t.Fatal("unexpected payment status labels")
	}
	if PaymentStatus("X").IsValid() {
		t.Fatal("expected unknown status to be invalid")
	}
}

func TestActionFlagString(t *testing.T) {
	if ActionFlagDeletion.String() != "deletion" {
		t.Fatalf("unexpected flag string %q", ActionFlagDeletion.String())
	}
	if ActionFlag(9).String() != "unknown" {
		t.Fatal("expected unknown flag")
	}
}
