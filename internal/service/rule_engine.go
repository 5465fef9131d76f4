package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/liftwise/coach/internal/domain"
)

// Fatigue signal names used in explanations.
const (
	signalRepDrop         = "Rep drop"
	signalRPESpike        = "RPE spike"
	signalExcessiveVolume = "Excessive volume"
	signalDuration        = "Duration"
)

// roundWeight rounds to the nearest 1.25 kg plate increment, clamped to >= 0.
func roundWeight(weightKg float64) float64 {
	clamped := math.Max(0, weightKg)
	return math.Round(clamped/1.25) * 1.25
}

// weightDelta is 2.5 kg for compound lifts, 1.25 kg for isolation work.
func weightDelta(isCompound bool) float64 {
	if isCompound {
		return 2.5
	}
	return 1.25
}

// apply1RMCap clamps the suggestion to 90% of the estimated 1RM (floored to
// a plate increment). Returns the clamped weight and any extra explanation
// parts.
func apply1RMCap(wc *domain.WorkoutContext, weight float64) (float64, []string) {
	if wc.Estimated1RM == nil {
		return weight, nil
	}
	capKg := math.Floor(0.9*(*wc.Estimated1RM)/1.25) * 1.25
	if weight > capKg {
		return roundWeight(capKg), []string{"Capped at 90% estimated 1RM."}
	}
	return weight, nil
}

// RuleBasedRecommendation applies the progression rules in strict priority
// order and returns (weight, reps, explanation).
//
// Fatigue scoring: the maximum score is 3 (rep drop, RPE spike, volume).
// The duration signal is an exclusive fallback and cannot combine with
// others, so it never produces hard fatigue on its own. RPE >= 9 always
// fires the spike signal, which means the RPE-band rule below only ever
// maintains or increases.
func RuleBasedRecommendation(wc *domain.WorkoutContext, lastWeightKg float64, lastReps int, lastRPE *float64) (float64, int, string) {
	var parts []string

	// RULE 1: fatigue detection
	var fatigueSignals []string

	if len(wc.CurrentSessionSets) >= 2 {
		prevReps := wc.CurrentSessionSets[len(wc.CurrentSessionSets)-2].Reps
		if lastReps-prevReps <= -3 {
			fatigueSignals = append(fatigueSignals, signalRepDrop)
		}
	}

	if lastRPE != nil && *lastRPE >= 9 {
		fatigueSignals = append(fatigueSignals, signalRPESpike)
	}

	if wc.TotalSetsToday >= 18 {
		fatigueSignals = append(fatigueSignals, signalExcessiveVolume)
	}

	// Duration only contributes when the three signals above are all absent.
	if len(fatigueSignals) == 0 && wc.WorkoutDurationMinutes > 120 {
		fatigueSignals = append(fatigueSignals, signalDuration)
	}

	softFatigue := len(fatigueSignals) == 1
	hardFatigue := len(fatigueSignals) >= 2

	if hardFatigue {
		delta := weightDelta(wc.IsCompound)
		weight := roundWeight(math.Max(0, lastWeightKg-delta))
		parts = append(parts, fmt.Sprintf("%s: reducing load by %s kg.",
			strings.Join(fatigueSignals, " + "), formatWeight(delta)))
		weight, capParts := apply1RMCap(wc, weight)
		parts = append(parts, capParts...)
		parts = append(parts, " | Rule-based suggestion.")
		return weight, lastReps, strings.Join(parts, " ")
	}

	if softFatigue {
		weight := roundWeight(lastWeightKg)
		parts = append(parts, fatigueSignals[0], " — maintaining load.")
		weight, capParts := apply1RMCap(wc, weight)
		parts = append(parts, capParts...)
		parts = append(parts, " | Rule-based suggestion.")
		return weight, lastReps, strings.Join(parts, " ")
	}

	// RULE 2: RPE bands. The decrease branch is unreachable: RPE >= 9 fired
	// the spike signal above. Only maintain and increase outcomes apply.
	var weight float64
	switch {
	case lastRPE == nil || (*lastRPE >= 7 && *lastRPE <= 8):
		weight = lastWeightKg
		parts = append(parts, "RPE 7–8 (or unknown) — maintaining load.")
	case *lastRPE <= 6:
		delta := weightDelta(wc.IsCompound)
		weight = lastWeightKg + delta
		kind := "isolation"
		if wc.IsCompound {
			kind = "compound"
		}
		parts = append(parts, fmt.Sprintf("RPE %d — adding %s kg (%s).",
			int(*lastRPE), formatWeight(delta), kind))
	default:
		// lastRPE strictly between 8 and 9
		weight = lastWeightKg
		parts = append(parts, "RPE 7–8 (or unknown) — maintaining load.")
	}
	weight = roundWeight(math.Max(0, weight))

	increaseSuppressed := false

	// RULE 3: session trend within the current workout
	if len(wc.CurrentSessionSets) >= 2 {
		prev := wc.CurrentSessionSets[len(wc.CurrentSessionSets)-2]
		repDrop := lastReps - prev.Reps
		weightDropped := lastWeightKg < prev.Weight
		if (repDrop <= -2 || weightDropped) && lastRPE != nil && *lastRPE <= 6 {
			increaseSuppressed = true
			weight = roundWeight(lastWeightKg)
			parts = []string{
				"Session trend declining — suppressing increase.",
				fmt.Sprintf("RPE %d noted but overridden.", int(*lastRPE)),
			}
		}
	}

	// RULE 4: comparison against the most recent prior session
	if !increaseSuppressed && len(wc.RecentSessions) > 0 {
		priorSets := wc.RecentSessions[0].Sets
		if len(priorSets) > 0 {
			bestPriorWeight := priorSets[0].Weight
			for _, s := range priorSets[1:] {
				if s.Weight > bestPriorWeight {
					bestPriorWeight = s.Weight
				}
			}
			if lastWeightKg < bestPriorWeight && lastRPE != nil && *lastRPE <= 6 {
				weight = roundWeight(lastWeightKg)
				parts = []string{
					"Current weight below prior session best — suppressing increase.",
				}
			}
		}
	}

	// RULE 5: 1RM cap, always applied last
	weight, capParts := apply1RMCap(wc, weight)
	parts = append(parts, capParts...)
	parts = append(parts, " | Rule-based suggestion.")
	return roundWeight(weight), lastReps, strings.Join(parts, " ")
}

// MinimalFallback is used when no workout context could be built. It neither
// rounds nor caps; a degraded path kept intentionally simple.
func MinimalFallback(lastWeightKg float64, lastReps int, lastRPE *float64) (float64, int, string) {
	const explanation = "AI unavailable. Rule-based suggestion."
	if lastRPE != nil && *lastRPE <= 7 {
		return lastWeightKg + 2.5, lastReps, explanation
	}
	return lastWeightKg, lastReps, explanation
}

// formatWeight renders a plate increment without trailing zeros ("2.5",
// "1.25").
func formatWeight(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
