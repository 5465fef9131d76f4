package domain

// SetSummary is one set as the recommendation pipeline sees it.
type SetSummary struct {
	Weight    float64
	Reps      int
	RPE       *float64
	SetNumber int
}

// SessionSummary is one prior session for the same exercise.
type SessionSummary struct {
	Date string // ISO date of the session's started_at
	Sets []SetSummary
}

// WorkoutContext carries everything the AI prompt and the rule engine need
// to reason about the next set. Built once per log-set request, read-only
// afterwards.
type WorkoutContext struct {
	ExerciseName  string
	MuscleGroup   string
	EquipmentType *string
	IsCompound    bool

	// CurrentSessionSets are this workout's sets for the exercise, ordered
	// by set number and including the set just logged.
	CurrentSessionSets []SetSummary

	// RecentSessions holds up to 3 prior sessions, most recent first.
	RecentSessions []SessionSummary

	// Estimated1RM is the Epley estimate over recent history (the set just
	// logged included), nil when the user has no sets for the exercise.
	Estimated1RM  *float64
	MaxWeightEver *float64

	// TotalSetsToday counts all sets in the workout across exercises.
	TotalSetsToday int

	// WorkoutDurationMinutes is now minus started_at in whole minutes,
	// floored at zero.
	WorkoutDurationMinutes int
}
