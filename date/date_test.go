package date

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    Date
		wantErr bool
	}{
		{in: "2024-01-31", want: New(2024, time.January, 31)},
		{in: "2024-1-3", want: New(2024, time.January, 3)},
		{in: "not-a-date", wantErr: true},
		{in: "2024-13-01", wantErr: true},
	}
	for _, tc := range tests {
		got, err := Parse(tc.in)
		if (err != nil) != tc.wantErr {
			t.Errorf("Parse(%q) error = %v, wantErr %v", tc.in, err, tc.wantErr)
			continue
		}
		if !tc.wantErr && got != tc.want {
			t.Errorf("Parse(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestAddNormalizes(t *testing.T) {
	d := New(2023, time.December, 31).Add(1)
	if d != New(2024, time.January, 1) {
		t.Errorf("Add(1) = %v, want 2024-01-01", d)
	}
	d = New(2024, time.March, 1).Add(-1)
	if d != New(2024, time.February, 29) {
		t.Errorf("Add(-1) = %v, want 2024-02-29 (leap year)", d)
	}
}

func TestDaysBetween(t *testing.T) {
	a := New(2023, time.January, 1)
	b := New(2024, time.January, 1)
	if got := DaysBetween(a, b); got != 365 {
		t.Errorf("DaysBetween = %d, want 365", got)
	}
	if got := DaysBetween(b, a); got != -365 {
		t.Errorf("DaysBetween reversed = %d, want -365", got)
	}
}

func TestYearBoundaries(t *testing.T) {
	d := New(2022, time.June, 15)
	if d.StartOfYear() != New(2022, time.January, 1) {
		t.Errorf("StartOfYear = %v", d.StartOfYear())
	}
	if d.EndOfYear() != New(2022, time.December, 31) {
		t.Errorf("EndOfYear = %v", d.EndOfYear())
	}
}

func TestJSONRoundTrip(t *testing.T) {
	d := New(2021, time.September, 9)
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(raw) != `"2021-09-09"` {
		t.Errorf("Marshal = %s", raw)
	}
	var back Date
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if back != d {
		t.Errorf("round trip = %v, want %v", back, d)
	}
}

func TestRangeContains(t *testing.T) {
	r := YearRange(2023)
	for _, d := range []Date{New(2023, time.January, 1), New(2023, time.July, 4), New(2023, time.December, 31)} {
		if !r.Contains(d) {
			t.Errorf("Range should contain %v", d)
		}
	}
	for _, d := range []Date{New(2022, time.December, 31), New(2024, time.January, 1)} {
		if r.Contains(d) {
			t.Errorf("Range should not contain %v", d)
		}
	}
}
