// Package report derives display statistics from a workout plan's progress
// payload: a completion summary and per-exercise personal bests.
//
// All functions are pure. They never mutate the report they are given and
// keep no state between calls.
package report

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/claude/workouttracker/internal/models"
)

// Summary holds the headline numbers for a plan.
type Summary struct {
	TotalSessions  int        `json:"total_sessions"`
	CompletedCount int        `json:"completed_sessions"`
	CompletionRate int        `json:"completion_rate"`
	LastCompleted  *time.Time `json:"last_completed"`
}

// ComputeSummary counts sessions, the rounded completion percentage and the
// latest completion time. An empty report yields zeros and no last completion.
func ComputeSummary(r models.WorkoutPlanReport) Summary {
	s := Summary{TotalSessions: len(r.Sessions)}

	for i := range r.Sessions {
		completed := r.Sessions[i].CompletedAt
		if completed == nil {
			continue
		}
		s.CompletedCount++
		// Strict comparison keeps the first of several identical timestamps.
		if s.LastCompleted == nil || completed.After(*s.LastCompleted) {
			t := completed.Time
			s.LastCompleted = &t
		}
	}

	s.CompletionRate = percentRounded(s.CompletedCount, s.TotalSessions)
	return s
}

// percentRounded returns round-half-up(100*part/whole), or 0 when whole is 0.
func percentRounded(part, whole int) int {
	if whole <= 0 {
		return 0
	}
	return (200*part + whole) / (2 * whole)
}

// PersonalBest holds, for one exercise name, the record with the heaviest
// weight, the most reps and the most sets. The three are chosen
// independently and may point at different records.
type PersonalBest struct {
	ExerciseName string                        `json:"exercise_name"`
	Weight       *models.SessionExerciseRecord `json:"weight"`
	Reps         *models.SessionExerciseRecord `json:"reps"`
	Sets         *models.SessionExerciseRecord `json:"sets"`
}

// PersonalBests maps exercise names to their bests and remembers the order
// in which names were first seen.
type PersonalBests struct {
	order  []string
	byName map[string]*PersonalBest
}

// Len returns the number of distinct exercise names.
func (p PersonalBests) Len() int {
	return len(p.order)
}

// Names returns exercise names in first-seen order.
func (p PersonalBests) Names() []string {
	out := make([]string, len(p.order))
	copy(out, p.order)
	return out
}

// Get returns the bests for an exercise name.
func (p PersonalBests) Get(name string) (PersonalBest, bool) {
	pb, ok := p.byName[name]
	if !ok {
		return PersonalBest{}, false
	}
	return *pb, true
}

// All returns every entry in first-seen order.
func (p PersonalBests) All() []PersonalBest {
	out := make([]PersonalBest, 0, len(p.order))
	for _, name := range p.order {
		out = append(out, *p.byName[name])
	}
	return out
}

// MarshalJSON encodes an object keyed by exercise name whose keys appear in
// first-seen order.
func (p PersonalBests) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range p.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(p.byName[name])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// ComputePersonalBests walks every session exercise in document order and
// keeps, per exercise name, the first record that strictly beats the current
// best for each metric. Records sharing a name are merged even when they come
// from different plan exercises.
func ComputePersonalBests(r models.WorkoutPlanReport) PersonalBests {
	p := PersonalBests{byName: make(map[string]*PersonalBest)}

	for i := range r.Sessions {
		exercises := r.Sessions[i].Exercises
		for j := range exercises {
			rec := &exercises[j]

			pb, ok := p.byName[rec.ExerciseName]
			if !ok {
				pb = &PersonalBest{ExerciseName: rec.ExerciseName}
				p.byName[rec.ExerciseName] = pb
				p.order = append(p.order, rec.ExerciseName)
			}

			if pb.Weight == nil || rec.ActualWeight > pb.Weight.ActualWeight {
				pb.Weight = rec
			}
			if pb.Reps == nil || rec.ActualReps > pb.Reps.ActualReps {
				pb.Reps = rec
			}
			if pb.Sets == nil || rec.ActualSets > pb.Sets.ActualSets {
				pb.Sets = rec
			}
		}
	}
	return p
}

// Result bundles everything the presentation layer shows for a plan.
type Result struct {
	WorkoutPlanID   int           `json:"workout_plan_id"`
	WorkoutPlanName string        `json:"workout_plan_name"`
	Summary         Summary       `json:"summary"`
	PersonalBests   PersonalBests `json:"personal_bests"`
}

// Build runs both computations over the same report.
func Build(r models.WorkoutPlanReport) Result {
	return Result{
		WorkoutPlanID:   r.ID,
		WorkoutPlanName: r.Name,
		Summary:         ComputeSummary(r),
		PersonalBests:   ComputePersonalBests(r),
	}
}
