package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/liftwise/coach/internal/ai"
	"github.com/liftwise/coach/internal/domain"
)

// In-memory repository fakes shared by the service tests. They mirror the
// ordering and not-found behavior of the postgres implementations.

type fakeUserRepo struct {
	users []*domain.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	user.ID = uuid.New()
	user.CreatedAt = time.Now().UTC()
	f.users = append(f.users, user)
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	for _, u := range f.users {
		if u.Username == username {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeExerciseRepo struct {
	exercises []*domain.Exercise
}

func (f *fakeExerciseRepo) Create(_ context.Context, exercise *domain.Exercise) error {
	if exercise.ID == uuid.Nil {
		exercise.ID = uuid.New()
	}
	exercise.CreatedAt = time.Now().UTC()
	f.exercises = append(f.exercises, exercise)
	return nil
}

func (f *fakeExerciseRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Exercise, error) {
	for _, e := range f.exercises {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeExerciseRepo) ListGlobal(_ context.Context, search string) ([]*domain.Exercise, error) {
	var out []*domain.Exercise
	for _, e := range f.exercises {
		if !e.IsGlobal {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(e.Name), strings.ToLower(search)) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeExerciseRepo) GetByName(_ context.Context, name string) (*domain.Exercise, error) {
	for _, e := range f.exercises {
		if e.Name == name {
			return e, nil
		}
	}
	return nil, domain.ErrNotFound
}

type fakeWorkoutRepo struct {
	workouts []*domain.Workout
}

func (f *fakeWorkoutRepo) Create(_ context.Context, workout *domain.Workout) error {
	if workout.ID == uuid.Nil {
		workout.ID = uuid.New()
	}
	workout.CreatedAt = time.Now().UTC()
	f.workouts = append(f.workouts, workout)
	return nil
}

func (f *fakeWorkoutRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Workout, error) {
	for _, w := range f.workouts {
		if w.ID == id {
			return w, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeWorkoutRepo) ListByUser(_ context.Context, userID uuid.UUID, skip, limit int) ([]*domain.Workout, error) {
	var own []*domain.Workout
	for _, w := range f.workouts {
		if w.UserID == userID {
			own = append(own, w)
		}
	}
	sort.Slice(own, func(i, j int) bool { return own[i].StartedAt.After(own[j].StartedAt) })
	if skip >= len(own) {
		return nil, nil
	}
	own = own[skip:]
	if limit < len(own) {
		own = own[:limit]
	}
	return own, nil
}

func (f *fakeWorkoutRepo) GetManyByID(_ context.Context, ids []uuid.UUID) ([]*domain.Workout, error) {
	var out []*domain.Workout
	for _, w := range f.workouts {
		for _, id := range ids {
			if w.ID == id {
				out = append(out, w)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeWorkoutRepo) Update(_ context.Context, workout *domain.Workout) error {
	for i, w := range f.workouts {
		if w.ID == workout.ID {
			f.workouts[i] = workout
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeSetRepo struct {
	sets []*domain.Set
}

// Create keeps a caller-provided LoggedAt so fixtures can backdate history.
func (f *fakeSetRepo) Create(_ context.Context, set *domain.Set) error {
	if set.ID == uuid.Nil {
		set.ID = uuid.New()
	}
	if set.LoggedAt.IsZero() {
		set.LoggedAt = time.Now().UTC()
	}
	set.CreatedAt = set.LoggedAt
	f.sets = append(f.sets, set)
	return nil
}

func (f *fakeSetRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Set, error) {
	for _, s := range f.sets {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeSetRepo) GetForWorkout(_ context.Context, workoutID uuid.UUID) ([]*domain.Set, error) {
	var out []*domain.Set
	for _, s := range f.sets {
		if s.WorkoutID == workoutID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SetNumber < out[j].SetNumber })
	return out, nil
}

func (f *fakeSetRepo) GetForWorkoutAndExercise(_ context.Context, workoutID, exerciseID uuid.UUID) ([]*domain.Set, error) {
	var out []*domain.Set
	for _, s := range f.sets {
		if s.WorkoutID == workoutID && s.ExerciseID == exerciseID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].SetNumber < out[j].SetNumber })
	return out, nil
}

func (f *fakeSetRepo) GetRecentForExercise(_ context.Context, userID, exerciseID uuid.UUID, limit int) ([]*domain.Set, error) {
	var out []*domain.Set
	for _, s := range f.sets {
		if s.UserID == userID && s.ExerciseID == exerciseID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].LoggedAt.After(out[j].LoggedAt) })
	if limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSetRepo) CountInWorkout(_ context.Context, workoutID uuid.UUID) (int, error) {
	count := 0
	for _, s := range f.sets {
		if s.WorkoutID == workoutID {
			count++
		}
	}
	return count, nil
}

func (f *fakeSetRepo) GetMaxWeightForExercise(_ context.Context, userID, exerciseID uuid.UUID) (*float64, error) {
	var max *float64
	for _, s := range f.sets {
		if s.UserID == userID && s.ExerciseID == exerciseID {
			if max == nil || s.WeightKg > *max {
				w := s.WeightKg
				max = &w
			}
		}
	}
	return max, nil
}

func (f *fakeSetRepo) Delete(_ context.Context, id uuid.UUID) error {
	for i, s := range f.sets {
		if s.ID == id {
			f.sets = append(f.sets[:i], f.sets[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeRecommendationRepo struct {
	recs []*domain.Recommendation
}

func (f *fakeRecommendationRepo) Create(_ context.Context, rec *domain.Recommendation) error {
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now().UTC()
	f.recs = append(f.recs, rec)
	return nil
}

func (f *fakeRecommendationRepo) GetBySetID(_ context.Context, setID uuid.UUID) (*domain.Recommendation, error) {
	for i := len(f.recs) - 1; i >= 0; i-- {
		if f.recs[i].SetID != nil && *f.recs[i].SetID == setID {
			return f.recs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// fakeTxRunner runs the function directly; the fakes have no transactions.
type fakeTxRunner struct{}

func (fakeTxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeProvider returns a canned recommendation or error and counts calls.
type fakeProvider struct {
	rec   *ai.Recommendation
	err   error
	calls int
}

func (f *fakeProvider) Recommend(_ context.Context, _ *domain.WorkoutContext) (*ai.Recommendation, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.rec, nil
}

func (f *fakeProvider) HealthCheck(_ context.Context) bool { return f.err == nil }

func (f *fakeProvider) Name() string { return "fake" }
