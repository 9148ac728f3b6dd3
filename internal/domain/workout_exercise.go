// internal/domain/workout_exercise.go
package domain

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Limits for placement parameters.
const (
	MaxExerciseNotesLength = 500
	MaxRepetitions         = 1000
	MaxSets                = 100
	MaxExerciseSeconds     = 4 * 60 * 60
	MaxRestSeconds         = 60 * 60
	MaxWeightKg            = 1000.0
	MaxDistanceMeters      = 200000.0
)

// ExerciseParameters are the optional performance targets of a placement.
// Which ones matter depends on the metric type of the catalog exercise.
type ExerciseParameters struct {
	Repetitions     *int     `bson:"repetitions,omitempty" json:"repetitions,omitempty"`
	Sets            *int     `bson:"sets,omitempty" json:"sets,omitempty"`
	DurationSeconds *int     `bson:"durationSeconds,omitempty" json:"durationSeconds,omitempty"`
	WeightKg        *float64 `bson:"weightKg,omitempty" json:"weightKg,omitempty"`
	DistanceMeters  *float64 `bson:"distanceMeters,omitempty" json:"distanceMeters,omitempty"`
	RestSeconds     *int     `bson:"restSeconds,omitempty" json:"restSeconds,omitempty"`
}

// Validate checks every present parameter against its range.
func (p ExerciseParameters) Validate() error {
	if err := checkIntRange("repetitions", p.Repetitions, 1, MaxRepetitions); err != nil {
		return err
	}
	if err := checkIntRange("sets", p.Sets, 1, MaxSets); err != nil {
		return err
	}
	if err := checkIntRange("durationSeconds", p.DurationSeconds, 1, MaxExerciseSeconds); err != nil {
		return err
	}
	if err := checkIntRange("restSeconds", p.RestSeconds, 0, MaxRestSeconds); err != nil {
		return err
	}
	if p.WeightKg != nil && (*p.WeightKg < 0 || *p.WeightKg > MaxWeightKg) {
		return invalid("weightKg", "must be between 0 and %.0f", MaxWeightKg)
	}
	if p.DistanceMeters != nil && (*p.DistanceMeters <= 0 || *p.DistanceMeters > MaxDistanceMeters) {
		return invalid("distanceMeters", "must be greater than 0 and at most %.0f", MaxDistanceMeters)
	}
	return nil
}

func checkIntRange(field string, v *int, min, max int) error {
	if v != nil && (*v < min || *v > max) {
		return invalid(field, "must be between %d and %d", min, max)
	}
	return nil
}

// WorkoutExercise places a catalog exercise inside a phase.
// Name is a snapshot of the catalog name taken when the placement was added.
type WorkoutExercise struct {
	ID                 primitive.ObjectID `bson:"_id" json:"id"`
	ExerciseID         primitive.ObjectID `bson:"exerciseId" json:"exerciseId"` // Catalog reference, unique within a phase
	Name               string             `bson:"name" json:"name"`
	ExerciseParameters `bson:",inline"`
	Notes              string `bson:"notes,omitempty" json:"notes,omitempty"`
	Order              int    `bson:"order" json:"order"`
}

func (e *WorkoutExercise) orderKey() primitive.ObjectID { return e.ExerciseID }
func (e *WorkoutExercise) position() int                { return e.Order }
func (e *WorkoutExercise) setPosition(order int)        { e.Order = order }

// EstimatedMinutes is the placement's share of its phase duration.
func (e *WorkoutExercise) EstimatedMinutes() int {
	return EstimateMinutes(e.ExerciseParameters)
}

func validateNotes(notes string) (string, error) {
	notes = strings.TrimSpace(notes)
	if len([]rune(notes)) > MaxExerciseNotesLength {
		return "", invalid("notes", "must be at most %d characters", MaxExerciseNotesLength)
	}
	return notes, nil
}
