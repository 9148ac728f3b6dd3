package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEstimateSeconds(t *testing.T) {
	tests := []struct {
		name   string
		params ExerciseParameters
		want   int
	}{
		{"nothing", ExerciseParameters{}, 0},
		{"weight only", ExerciseParameters{WeightKg: floatPtr(100)}, 0},
		{"reps", ExerciseParameters{Repetitions: intPtr(10)}, 30},
		{"sets x reps", ExerciseParameters{Sets: intPtr(4), Repetitions: intPtr(8)}, 96},
		{"sets x reps + rest", ExerciseParameters{Sets: intPtr(3), Repetitions: intPtr(10), RestSeconds: intPtr(90)}, 360},
		{"duration wins over reps", ExerciseParameters{DurationSeconds: intPtr(45), Repetitions: intPtr(100)}, 45},
		{"sets x duration", ExerciseParameters{Sets: intPtr(3), DurationSeconds: intPtr(40), RestSeconds: intPtr(20)}, 180},
		{"distance", ExerciseParameters{DistanceMeters: floatPtr(1000)}, 360},
		{"rest only", ExerciseParameters{RestSeconds: intPtr(30)}, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EstimateSeconds(tt.params))
		})
	}
}

func TestEstimateMinutesRoundsUp(t *testing.T) {
	assert.Equal(t, 0, EstimateMinutes(ExerciseParameters{}))
	assert.Equal(t, 1, EstimateMinutes(ExerciseParameters{DurationSeconds: intPtr(1)}))
	assert.Equal(t, 1, EstimateMinutes(ExerciseParameters{DurationSeconds: intPtr(60)}))
	assert.Equal(t, 2, EstimateMinutes(ExerciseParameters{DurationSeconds: intPtr(61)}))
}

func TestPhaseDefaultDurations(t *testing.T) {
	want := map[PhaseType]int{
		PhaseWarmUp:     8,
		PhaseMainEffort: 25,
		PhaseRecovery:   10,
		PhaseCoolDown:   5,
		PhaseStretching: 10,
		PhaseActivation: 15,
		PhaseSkill:      15,
	}
	for pt, minutes := range want {
		assert.Equal(t, minutes, phaseDurationMinutes(pt, nil), pt)
	}
}
