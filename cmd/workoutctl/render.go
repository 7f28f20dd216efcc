package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/claude/workouttracker/internal/models"
	"github.com/claude/workouttracker/internal/report"
)

const timeLayout = "2006-01-02 15:04"

func fmtTime(t *models.Timestamp) string {
	if t == nil {
		return "-"
	}
	return t.Time.Format(timeLayout)
}

func fmtWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}

func printExercises(w io.Writer, exercises []models.Exercise) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tCATEGORY\tMUSCLE GROUP")
	for _, e := range exercises {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\n", e.ID, e.Name, deref(e.Category), deref(e.MuscleGroup))
	}
	tw.Flush()
}

func printPlans(w io.Writer, plans []models.WorkoutPlan) {
	if len(plans) == 0 {
		fmt.Fprintln(w, "No workout plans.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tEXERCISES\tUPDATED")
	for _, p := range plans {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", p.ID, p.Name, len(p.Exercises), p.UpdatedAt.Format(timeLayout))
	}
	tw.Flush()
}

func printSessions(w io.Writer, sessions []models.SessionListItem) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No workout sessions.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tPLAN\tSCHEDULED")
	for _, s := range sessions {
		fmt.Fprintf(tw, "%d\t%d\t%s\n", s.ID, s.WorkoutPlanID, fmtTime(s.ScheduledAt))
	}
	tw.Flush()
}

// printReport renders the plan summary, personal bests in first-seen order
// and the session history.
func printReport(w io.Writer, rep models.WorkoutPlanReport, res report.Result) {
	fmt.Fprintf(w, "Workout plan: %s (#%d)\n\n", res.WorkoutPlanName, res.WorkoutPlanID)

	s := res.Summary
	last := "never"
	if s.LastCompleted != nil {
		last = s.LastCompleted.Format(timeLayout)
	}
	fmt.Fprintf(w, "Sessions:        %d\n", s.TotalSessions)
	fmt.Fprintf(w, "Completed:       %d (%d%%)\n", s.CompletedCount, s.CompletionRate)
	fmt.Fprintf(w, "Last completed:  %s\n\n", last)

	fmt.Fprintln(w, "Personal bests:")
	if res.PersonalBests.Len() == 0 {
		fmt.Fprintln(w, "  none recorded")
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "  EXERCISE\tWEIGHT\tREPS\tSETS")
		for _, pb := range res.PersonalBests.All() {
			fmt.Fprintf(tw, "  %s\t%s\t%d\t%d\n",
				pb.ExerciseName, fmtWeight(pb.Weight.ActualWeight), pb.Reps.ActualReps, pb.Sets.ActualSets)
		}
		tw.Flush()
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, "History:")
	if len(rep.Sessions) == 0 {
		fmt.Fprintln(w, "  no sessions")
		return
	}
	for _, sess := range rep.Sessions {
		status := "pending"
		if sess.Completed() {
			status = "completed " + fmtTime(sess.CompletedAt)
		}
		fmt.Fprintf(w, "  #%d scheduled %s, %s\n", sess.ID, fmtTime(sess.ScheduledAt), status)
		for _, e := range sess.Exercises {
			fmt.Fprintf(w, "    %s %dx%d @ %s", e.ExerciseName, e.ActualSets, e.ActualReps, fmtWeight(e.ActualWeight))
			if e.Notes != nil && *e.Notes != "" {
				fmt.Fprintf(w, " (%s)", *e.Notes)
			}
			fmt.Fprintln(w)
		}
	}
}
