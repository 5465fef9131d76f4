package ai

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/liftwise/coach/internal/domain"
)

// SystemPrompt is the fixed instruction sent with every recommendation
// request. Kept as a single constant so the provider and its tests agree on
// the exact bytes.
const SystemPrompt = "You are an expert strength coach specializing in strength and hypertrophy training. " +
	"Your job is to recommend the NEXT SET ONLY (weight in kg and number of reps) " +
	"based on the athlete's context: exercise, current session sets, recent session history, " +
	"estimated 1RM, personal best, and fatigue signals (total sets today, workout duration).\n\n" +
	"CRITICAL OUTPUT RULES:\n" +
	"- You must respond with ONLY valid JSON.\n" +
	"- Do NOT include markdown, code fences, or explanatory text outside the JSON.\n" +
	"- Your entire response must be exactly one JSON object matching the requested schema.\n" +
	"- Do NOT recommend multiple sets.\n" +
	"- Do NOT recommend a full workout.\n\n" +
	"WEIGHT AND REP CONSTRAINTS:\n" +
	"- All weights must be in kilograms (kg).\n" +
	"- All rep counts must be integers.\n" +
	"- Weight must be a realistic gym load.\n" +
	"- Only use increments of 1.25 kg.\n" +
	"- Never suggest impossible weights like 83.7 kg.\n\n" +
	"COACHING GUIDELINES:\n" +
	"- Base recommendations on the athlete's demonstrated strength and fatigue.\n" +
	"- Prefer conservative progression when fatigue is high.\n" +
	"- Do not increase weight aggressively if recent sets were near failure.\n"

// BuildRecommendationPrompt renders the user prompt for a single set
// recommendation. The rendering order and wording are fixed: downstream
// tests pin prompts byte for byte.
func BuildRecommendationPrompt(wc *domain.WorkoutContext) string {
	equipment := ""
	if wc.EquipmentType != nil {
		equipment = *wc.EquipmentType
	}
	compound := "False"
	if wc.IsCompound {
		compound = "True"
	}

	lines := []string{
		"Recommend the next set for this exercise.",
		"",
		"--- Exercise ---",
		fmt.Sprintf("Exercise: %s", wc.ExerciseName),
		fmt.Sprintf("Muscle group: %s", wc.MuscleGroup),
		fmt.Sprintf("Equipment: %s", equipment),
		fmt.Sprintf("Compound movement: %s", compound),
		"",
	}

	if wc.Estimated1RM != nil {
		lines = append(lines, fmt.Sprintf("Estimated 1RM: %s kg", formatFloat(*wc.Estimated1RM)))
	} else {
		lines = append(lines, "Estimated 1RM: not available")
	}
	if wc.MaxWeightEver != nil {
		lines = append(lines, fmt.Sprintf("Personal best (max weight ever): %s kg", formatFloat(*wc.MaxWeightEver)))
	} else {
		lines = append(lines, "Personal best: not available")
	}
	lines = append(lines, "")

	lines = append(lines, "--- Current session sets (this exercise) ---")
	if len(wc.CurrentSessionSets) > 0 {
		lines = append(lines, formatCurrentSets(wc.CurrentSessionSets))
	} else {
		lines = append(lines, "No sets completed yet this session.")
	}
	lines = append(lines, "")

	lines = append(lines, "--- Recent session history (last 3 sessions for this exercise) ---")
	if len(wc.RecentSessions) > 0 {
		lines = append(lines, formatSessionHistory(wc.RecentSessions))
	} else {
		lines = append(lines, "No recent session data.")
	}
	lines = append(lines, "")

	lines = append(lines, "--- Fatigue / workload today ---")
	lines = append(lines, fmt.Sprintf("Total sets completed today (all exercises): %d", wc.TotalSetsToday))
	lines = append(lines, fmt.Sprintf("Workout duration so far: %d minutes", wc.WorkoutDurationMinutes))
	lines = append(lines, "")

	lines = append(lines,
		"Respond with ONLY a JSON object with exactly these keys (no other keys, no extra text):",
		`  "suggested_weight_kg": <number in kg, e.g. 82.5>,`,
		`  "suggested_reps": <integer number of reps>,`,
		`  "explanation": "<short reason for this recommendation>",`,
		`  "confidence": "<one of: high | medium | low>"`,
	)
	return strings.Join(lines, "\n")
}

func formatCurrentSets(sets []domain.SetSummary) string {
	out := make([]string, 0, len(sets))
	for _, s := range sets {
		out = append(out, fmt.Sprintf("  Set %d: %s kg x %d reps%s",
			s.SetNumber, formatFloat(s.Weight), s.Reps, rpeSuffix(s.RPE)))
	}
	return strings.Join(out, "\n")
}

func formatSessionHistory(sessions []domain.SessionSummary) string {
	out := make([]string, 0, len(sessions))
	for i, session := range sessions {
		setStrs := make([]string, 0, len(session.Sets))
		for _, s := range session.Sets {
			setStrs = append(setStrs, fmt.Sprintf("%s kg x %d reps%s",
				formatFloat(s.Weight), s.Reps, rpeSuffix(s.RPE)))
		}
		out = append(out, strings.TrimSpace(fmt.Sprintf("Session %d: date=%s %s",
			i+1, session.Date, strings.Join(setStrs, "; "))))
	}
	return strings.Join(out, "\n")
}

func rpeSuffix(rpe *float64) string {
	if rpe == nil {
		return ""
	}
	return fmt.Sprintf(" RPE %s", formatFloat(*rpe))
}

// formatFloat renders a weight or RPE the way the prompt expects: shortest
// decimal form, with integral values keeping one trailing zero ("80.0",
// "82.5", "8.0").
func formatFloat(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

