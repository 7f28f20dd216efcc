package storage

import (
	"errors"
	"fmt"
	"testing"

	"github.com/claude/workouttracker/internal/models"
	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// TestAttachRecords verifies records land on their sessions in query order.
func TestAttachRecords(t *testing.T) {
	sessions := []models.ReportSession{{ID: 3}, {ID: 7}, {ID: 9}}
	records := []sessionRecord{
		{SessionID: 3, Record: models.SessionExerciseRecord{ID: 10, ExerciseName: "Squat"}},
		{SessionID: 7, Record: models.SessionExerciseRecord{ID: 11, ExerciseName: "Bench Press"}},
		{SessionID: 3, Record: models.SessionExerciseRecord{ID: 12, ExerciseName: "Deadlift"}},
		{SessionID: 42, Record: models.SessionExerciseRecord{ID: 13, ExerciseName: "Orphan"}},
	}

	attachRecords(sessions, records)

	got := make(map[int][]int)
	for _, s := range sessions {
		for _, r := range s.Exercises {
			got[s.ID] = append(got[s.ID], r.ID)
		}
	}
	want := map[int][]int{3: {10, 12}, 7: {11}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("attached records mismatch (-want +got):\n%s", diff)
	}
	if sessions[2].Exercises != nil {
		t.Errorf("session 9 exercises = %v, want nil before Normalize", sessions[2].Exercises)
	}
}

// TestNotFound verifies pgx.ErrNoRows maps to ErrNotFound and other errors wrap.
func TestNotFound(t *testing.T) {
	if err := notFound(pgx.ErrNoRows, "querying x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("notFound(ErrNoRows) = %v, want ErrNotFound", err)
	}
	boom := errors.New("boom")
	err := notFound(boom, "querying x")
	if errors.Is(err, ErrNotFound) {
		t.Error("unexpected ErrNotFound for generic error")
	}
	if !errors.Is(err, boom) {
		t.Errorf("notFound(boom) = %v, want wrapped boom", err)
	}
	if err.Error() != "querying x: boom" {
		t.Errorf("message = %q", err.Error())
	}
}

// TestIsUniqueViolation verifies only SQLSTATE 23505 is treated as a duplicate.
func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unique", &pgconn.PgError{Code: "23505"}, true},
		{"wrapped unique", fmt.Errorf("inserting: %w", &pgconn.PgError{Code: "23505"}), true},
		{"foreign key", &pgconn.PgError{Code: "23503"}, false},
		{"plain", errors.New("x"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUniqueViolation(tt.err); got != tt.want {
				t.Errorf("isUniqueViolation = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestMissingExerciseError verifies the sentinel is reachable through errors.Is
// and the id through errors.As.
func TestMissingExerciseError(t *testing.T) {
	err := fmt.Errorf("tx: %w", &MissingExerciseError{ID: 5, Err: ErrExerciseNotInPlan})

	if !errors.Is(err, ErrExerciseNotInPlan) {
		t.Error("errors.Is(ErrExerciseNotInPlan) = false")
	}
	if errors.Is(err, ErrExerciseNotFound) {
		t.Error("errors.Is(ErrExerciseNotFound) = true")
	}
	var me *MissingExerciseError
	if !errors.As(err, &me) {
		t.Fatal("errors.As(*MissingExerciseError) = false")
	}
	if me.ID != 5 {
		t.Errorf("ID = %d, want 5", me.ID)
	}
}

// TestNormalizeEmail verifies lookups ignore case and surrounding space.
func TestNormalizeEmail(t *testing.T) {
	if got := normalizeEmail("  Jane.Doe@Example.COM "); got != "jane.doe@example.com" {
		t.Errorf("normalizeEmail = %q", got)
	}
}
