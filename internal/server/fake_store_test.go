package server

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/claude/workouttracker/internal/models"
	"github.com/claude/workouttracker/internal/storage"
)

// fakeStore is an in-memory Store for handler tests. It keeps just enough
// state to exercise ownership and lookup behavior.
type fakeStore struct {
	users     map[int]*models.User
	exercises []models.Exercise
	plans     map[int]*models.WorkoutPlan
	sessions  map[int]*models.WorkoutSession
	reports   map[int]*models.WorkoutPlanReport
	nextID    int
	pingErr   error
	failWith  error

	lastSessionInput models.WorkoutSessionInput
}

func newFakeStore() *fakeStore {
	cat := "Strength"
	return &fakeStore{
		users: map[int]*models.User{},
		exercises: []models.Exercise{
			{ID: 1, Name: "Squat", Category: &cat},
			{ID: 2, Name: "Bench Press", Category: &cat},
		},
		plans:    map[int]*models.WorkoutPlan{},
		sessions: map[int]*models.WorkoutSession{},
		reports:  map[int]*models.WorkoutPlanReport{},
		nextID:   100,
	}
}

func (f *fakeStore) id() int {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) addUser(id int, email, hash string) *models.User {
	u := &models.User{ID: id, Name: "Jane", Surname: "Doe", Email: email, PasswordHash: hash, CreatedAt: time.Now()}
	f.users[id] = u
	return u
}

func (f *fakeStore) Ping(context.Context) error { return f.pingErr }

func (f *fakeStore) CreateUser(_ context.Context, name, surname, email, hash string) (*models.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return nil, storage.ErrUserExists
		}
	}
	u := &models.User{ID: f.id(), Name: name, Surname: surname, Email: strings.ToLower(email), PasswordHash: hash}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeStore) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) GetUserByID(_ context.Context, id int) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) ListExercises(context.Context) ([]models.Exercise, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	return f.exercises, nil
}

func (f *fakeStore) GetExercise(_ context.Context, id int) (*models.Exercise, error) {
	for _, e := range f.exercises {
		if e.ID == id {
			return &e, nil
		}
	}
	return nil, storage.ErrNotFound
}

func (f *fakeStore) ownedPlan(userID, planID int) (*models.WorkoutPlan, error) {
	p, ok := f.plans[planID]
	if !ok || p.UserID != userID {
		return nil, storage.ErrNotFound
	}
	return p, nil
}

func (f *fakeStore) ListWorkoutPlans(_ context.Context, userID int) ([]models.WorkoutPlan, error) {
	var out []models.WorkoutPlan
	for _, p := range f.plans {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) GetWorkoutPlan(_ context.Context, userID, planID int) (*models.WorkoutPlan, error) {
	return f.ownedPlan(userID, planID)
}

func (f *fakeStore) applyPlanExercises(p *models.WorkoutPlan, in []models.PlanExerciseInput) error {
	for _, ex := range in {
		e, err := f.GetExercise(context.Background(), ex.ExerciseID)
		if err != nil {
			return &storage.MissingExerciseError{ID: ex.ExerciseID, Err: storage.ErrExerciseNotFound}
		}
		pe := models.PlanExercise{
			ID: f.id(), ExerciseID: e.ID, Name: e.Name,
			TargetSets: models.DefaultSets, TargetReps: models.DefaultReps, TargetWeight: models.DefaultWeight,
		}
		if ex.TargetSets != nil {
			pe.TargetSets = *ex.TargetSets
		}
		if ex.TargetReps != nil {
			pe.TargetReps = *ex.TargetReps
		}
		if ex.TargetWeight != nil {
			pe.TargetWeight = *ex.TargetWeight
		}
		p.Exercises = append(p.Exercises, pe)
	}
	return nil
}

func (f *fakeStore) CreateWorkoutPlan(_ context.Context, userID int, name string, in []models.PlanExerciseInput) (*models.WorkoutPlan, error) {
	p := &models.WorkoutPlan{ID: f.id(), UserID: userID, Name: name, Exercises: []models.PlanExercise{}}
	if err := f.applyPlanExercises(p, in); err != nil {
		return nil, err
	}
	f.plans[p.ID] = p
	return p, nil
}

func (f *fakeStore) UpdateWorkoutPlan(_ context.Context, userID, planID int, name *string, in []models.PlanExerciseInput) (*models.WorkoutPlan, error) {
	p, err := f.ownedPlan(userID, planID)
	if err != nil {
		return nil, err
	}
	if name != nil {
		p.Name = *name
	}
	if err := f.applyPlanExercises(p, in); err != nil {
		return nil, err
	}
	return p, nil
}

func (f *fakeStore) DeleteWorkoutPlan(_ context.Context, userID, planID int) error {
	if _, err := f.ownedPlan(userID, planID); err != nil {
		return err
	}
	delete(f.plans, planID)
	return nil
}

func (f *fakeStore) ListWorkoutSessions(_ context.Context, userID int) ([]models.SessionListItem, error) {
	var out []models.SessionListItem
	for _, s := range f.sessions {
		if _, err := f.ownedPlan(userID, s.WorkoutPlanID); err == nil {
			out = append(out, models.SessionListItem{ID: s.ID, WorkoutPlanID: s.WorkoutPlanID, ScheduledAt: s.ScheduledAt})
		}
	}
	return out, nil
}

func (f *fakeStore) GetWorkoutSession(_ context.Context, userID, planID, sessionID int) (*models.WorkoutSession, error) {
	if _, err := f.ownedPlan(userID, planID); err != nil {
		return nil, err
	}
	s, ok := f.sessions[sessionID]
	if !ok || s.WorkoutPlanID != planID {
		return nil, storage.ErrNotFound
	}
	return s, nil
}

func (f *fakeStore) checkSessionExercises(p *models.WorkoutPlan, in []models.SessionExerciseInput) error {
	for _, ex := range in {
		found := false
		for _, pe := range p.Exercises {
			if pe.ID == ex.WorkoutPlanExerciseID {
				found = true
			}
		}
		if !found {
			return &storage.MissingExerciseError{ID: ex.WorkoutPlanExerciseID, Err: storage.ErrExerciseNotInPlan}
		}
	}
	return nil
}

func (f *fakeStore) CreateWorkoutSession(_ context.Context, userID, planID int, in models.WorkoutSessionInput) (*models.WorkoutSession, error) {
	f.lastSessionInput = in
	p, err := f.ownedPlan(userID, planID)
	if err != nil {
		return nil, err
	}
	if err := f.checkSessionExercises(p, in.Exercises); err != nil {
		return nil, err
	}
	s := &models.WorkoutSession{
		ID: f.id(), WorkoutPlanID: planID,
		ScheduledAt: in.ScheduledAt, StartedAt: in.StartedAt, CompletedAt: in.CompletedAt,
		Exercises: []models.SessionExercise{},
	}
	f.sessions[s.ID] = s
	return s, nil
}

func (f *fakeStore) UpdateWorkoutSession(ctx context.Context, userID, planID, sessionID int, in models.WorkoutSessionInput) (*models.WorkoutSession, error) {
	f.lastSessionInput = in
	s, err := f.GetWorkoutSession(ctx, userID, planID, sessionID)
	if err != nil {
		return nil, err
	}
	if err := f.checkSessionExercises(f.plans[planID], in.Exercises); err != nil {
		return nil, err
	}
	if in.Sets(models.FieldScheduledAt) {
		s.ScheduledAt = in.ScheduledAt
	}
	if in.Sets(models.FieldStartedAt) {
		s.StartedAt = in.StartedAt
	}
	if in.Sets(models.FieldCompletedAt) {
		s.CompletedAt = in.CompletedAt
	}
	return s, nil
}

func (f *fakeStore) DeleteWorkoutSession(ctx context.Context, userID, planID, sessionID int) error {
	if _, err := f.GetWorkoutSession(ctx, userID, planID, sessionID); err != nil {
		return err
	}
	delete(f.sessions, sessionID)
	return nil
}

func (f *fakeStore) GetWorkoutPlanReport(_ context.Context, userID, planID int) (*models.WorkoutPlanReport, error) {
	if _, err := f.ownedPlan(userID, planID); err != nil {
		return nil, err
	}
	r, ok := f.reports[planID]
	if !ok {
		return nil, errors.New("no report fixture")
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) GetDataStats(_ context.Context, userID int) (*storage.DataStats, error) {
	if f.failWith != nil {
		return nil, f.failWith
	}
	var plans int64
	for _, p := range f.plans {
		if p.UserID == userID {
			plans++
		}
	}
	return &storage.DataStats{TotalPlans: plans, TopExercises: []storage.ExerciseStat{}}, nil
}
