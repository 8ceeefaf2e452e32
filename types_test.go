package kodak

import (
	"encoding/json"
	"testing"
)

func TestMoney_WeakCurrencyMerge(t *testing.T) {
	got := M(0, "").Add(NOK(100))
	if got.Currency() != "NOK" {
		t.Errorf("Currency = %q, want NOK adopted from the operand", got.Currency())
	}
	got = NOK(100).Sub(M(30, ""))
	if got.Currency() != "NOK" || !got.Equal(NOK(70)) {
		t.Errorf("got %s %s, want NOK 70", got, got.Currency())
	}
}

func TestMoney_SignedString(t *testing.T) {
	if got := NOK(0).SignedString(); got != "-" {
		t.Errorf("SignedString(0) = %q, want -", got)
	}
	if got := NOK(12.5).SignedString(); got[0] != '+' {
		t.Errorf("SignedString(12.5) = %q, want a leading +", got)
	}
}

func TestMoney_MarshalBareDecimal(t *testing.T) {
	b, err := json.Marshal(NOK(-10500.5))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(b) != "-10500.5" {
		t.Errorf("Marshal = %s, want a bare decimal", b)
	}
}

func TestQuantity_IsDust(t *testing.T) {
	tests := []struct {
		qty  float64
		want bool
	}{
		{0, true},
		{0.0005, true},
		{-0.0005, true},
		{0.001, false},
		{5, false},
	}
	for _, tc := range tests {
		if got := Q(tc.qty).IsDust(); got != tc.want {
			t.Errorf("Q(%v).IsDust() = %v, want %v", tc.qty, got, tc.want)
		}
	}
}

func TestPercent_Strings(t *testing.T) {
	if got := Percent(5.256).String(); got != "5.26%" {
		t.Errorf("String = %q, want 5.26%%", got)
	}
	if got := Percent(-3.1).SignedString(); got != "-3.10%" {
		t.Errorf("SignedString = %q, want -3.10%%", got)
	}
	if got := Percent(0).SignedString(); got != "-" {
		t.Errorf("SignedString(0) = %q, want -", got)
	}
}

func TestValidateCurrency(t *testing.T) {
	if err := ValidateCurrency("NOK"); err != nil {
		t.Errorf("ValidateCurrency(NOK) error = %v", err)
	}
	if err := ValidateCurrency("XXXX"); err == nil {
		t.Error("ValidateCurrency(XXXX) error = nil, want unknown currency")
	}
}
