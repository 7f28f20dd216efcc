package models

import (
	"encoding/json"
	"testing"
	"time"
)

// TestParseFlexTime verifies every accepted layout, including the naive
// ISO-8601 form older backends emit without a zone.
func TestParseFlexTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2024-03-15T10:30:00Z", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		{"2024-03-15T10:30:00.250Z", time.Date(2024, 3, 15, 10, 30, 0, 250_000_000, time.UTC)},
		{"2024-03-15T10:30:00", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		{"2024-03-15T10:30:00.123456", time.Date(2024, 3, 15, 10, 30, 0, 123_456_000, time.UTC)},
		{"2024-03-15 10:30:00", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		{"2024-03-15T10:30", time.Date(2024, 3, 15, 10, 30, 0, 0, time.UTC)},
		{"2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFlexTime(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseFlexTime(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// TestParseFlexTimeInvalid verifies garbage input is rejected.
func TestParseFlexTimeInvalid(t *testing.T) {
	for _, in := range []string{"", "not-a-date", "15/03/2024", "2024-13-01"} {
		if _, err := ParseFlexTime(in); err == nil {
			t.Errorf("ParseFlexTime(%q): expected error", in)
		}
	}
}

// TestTimestampJSON verifies optional timestamps decode from null and naive
// strings and encode back as RFC3339.
func TestTimestampJSON(t *testing.T) {
	var v struct {
		A *Timestamp `json:"a"`
		B *Timestamp `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":"2024-01-01T08:00:00","b":null}`), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.A == nil || !v.A.Equal(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)) {
		t.Errorf("a = %v, want 2024-01-01T08:00:00Z", v.A)
	}
	if v.B != nil {
		t.Errorf("b = %v, want nil", v.B)
	}

	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if want := `{"a":"2024-01-01T08:00:00Z","b":null}`; string(out) != want {
		t.Errorf("marshal = %s, want %s", out, want)
	}
}

// TestTimestampKeepsFraction verifies sub-second precision survives an
// encode/decode round trip.
func TestTimestampKeepsFraction(t *testing.T) {
	want := time.Date(2024, 3, 1, 10, 0, 0, 900_000_000, time.UTC)
	out, err := json.Marshal(NewTimestamp(want))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `"2024-03-01T10:00:00.9Z"` {
		t.Errorf("marshal = %s", out)
	}

	var back Timestamp
	if err := json.Unmarshal(out, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !back.Equal(want) {
		t.Errorf("round trip = %v, want %v", back.Time, want)
	}
}

// TestTimestampRejectsNumber verifies a non-string timestamp is an error.
func TestTimestampRejectsNumber(t *testing.T) {
	var ts Timestamp
	if err := json.Unmarshal([]byte(`1700000000`), &ts); err == nil {
		t.Error("expected error for numeric timestamp")
	}
}

// TestNormalize verifies absent sequences become empty ones.
func TestNormalize(t *testing.T) {
	var r WorkoutPlanReport
	if err := json.Unmarshal([]byte(`{"workout_plan_id":1,"workout_plan_sessions":[{"session_id":3}]}`), &r); err != nil {
		t.Fatal(err)
	}
	r.Normalize()
	if r.Exercises == nil {
		t.Error("exercises still nil")
	}
	if len(r.Sessions) != 1 || r.Sessions[0].Exercises == nil {
		t.Errorf("session exercises not defaulted: %+v", r.Sessions)
	}

	out, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"workout_plan_id":1,"workout_plan_name":"","workout_plan_exercises":[],"workout_plan_sessions":[{"session_id":3,"scheduled_at":null,"started_at":null,"completed_at":null,"session_exercises":[]}]}`
	if string(out) != want {
		t.Errorf("marshal = %s\nwant %s", out, want)
	}
}
