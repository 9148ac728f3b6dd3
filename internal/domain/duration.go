// internal/domain/duration.go
package domain

import "math"

// Allowances used when a placement has no explicit duration.
const (
	SecondsPerRepetition  = 3
	SecondsPerMeter       = 0.36 // 6:00 min/km
	MinWorkoutMinutes     = 1
	MaxWorkoutMinutes     = 600
	secondsPerMinuteFloat = 60.0
)

// EstimateSeconds is the single estimate of how long a placement takes.
//
// Work per set comes from the first parameter present in this order:
// explicit duration, repetitions, distance. Sets default to 1. Rest is
// counted once per set. Weight never affects time. A placement with no
// work parameter contributes only its rest.
func EstimateSeconds(p ExerciseParameters) int {
	sets := 1
	if p.Sets != nil && *p.Sets > 0 {
		sets = *p.Sets
	}

	var perSet float64
	switch {
	case p.DurationSeconds != nil:
		perSet = float64(*p.DurationSeconds)
	case p.Repetitions != nil:
		perSet = float64(*p.Repetitions * SecondsPerRepetition)
	case p.DistanceMeters != nil:
		perSet = *p.DistanceMeters * SecondsPerMeter
	}
	if p.RestSeconds != nil {
		perSet += float64(*p.RestSeconds)
	}
	return int(math.Ceil(perSet * float64(sets)))
}

// EstimateMinutes rounds EstimateSeconds up, so any non-zero time counts as at least a minute.
func EstimateMinutes(p ExerciseParameters) int {
	return int(math.Ceil(float64(EstimateSeconds(p)) / secondsPerMinuteFloat))
}

// phaseDurationMinutes sums the placements, or falls back to the type default when there are none.
func phaseDurationMinutes(phaseType PhaseType, exercises []*WorkoutExercise) int {
	if len(exercises) == 0 {
		return phaseType.DefaultDurationMinutes()
	}
	total := 0
	for _, e := range exercises {
		total += e.EstimatedMinutes()
	}
	return total
}
