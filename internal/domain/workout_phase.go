// internal/domain/workout_phase.go
package domain

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MaxPhaseNameLength        = 100
	MaxPhaseDescriptionLength = 500
)

// WorkoutPhase is one ordered block of a workout (warm-up, main effort, ...).
// Phases only exist inside a Workout and are created through Workout.AddPhase.
type WorkoutPhase struct {
	ID                       primitive.ObjectID `bson:"_id" json:"id"`
	Type                     PhaseType          `bson:"type" json:"type"`
	Name                     string             `bson:"name" json:"name"`
	Description              string             `bson:"description,omitempty" json:"description,omitempty"`
	EstimatedDurationMinutes int                `bson:"estimatedDurationMinutes" json:"estimatedDurationMinutes"` // Derived, see RecalculateDuration
	Order                    int                `bson:"order" json:"order"`
	Exercises                []*WorkoutExercise `bson:"exercises" json:"exercises"`
}

func (p *WorkoutPhase) orderKey() PhaseType   { return p.Type }
func (p *WorkoutPhase) position() int         { return p.Order }
func (p *WorkoutPhase) setPosition(order int) { p.Order = order }

func newWorkoutPhase(phaseType PhaseType, name string) (*WorkoutPhase, error) {
	if !phaseType.IsValid() {
		return nil, invalid("phaseType", "unknown phase type %q", phaseType)
	}
	name, err := validatePhaseName(name)
	if err != nil {
		return nil, err
	}
	p := &WorkoutPhase{
		ID:        primitive.NewObjectID(),
		Type:      phaseType,
		Name:      name,
		Exercises: []*WorkoutExercise{},
	}
	p.RecalculateDuration()
	return p, nil
}

func validatePhaseName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := len([]rune(name))
	if n < 1 || n > MaxPhaseNameLength {
		return "", invalid("phaseName", "must be between 1 and %d characters", MaxPhaseNameLength)
	}
	return name, nil
}

func validatePhaseDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if len([]rune(description)) > MaxPhaseDescriptionLength {
		return "", invalid("phaseDescription", "must be at most %d characters", MaxPhaseDescriptionLength)
	}
	return description, nil
}

// RecalculateDuration refreshes EstimatedDurationMinutes from the current exercises.
func (p *WorkoutPhase) RecalculateDuration() {
	p.EstimatedDurationMinutes = phaseDurationMinutes(p.Type, p.Exercises)
}

// ExerciseCount is the number of placements in the phase.
func (p *WorkoutPhase) ExerciseCount() int {
	return len(p.Exercises)
}

// OrderedExercises returns the placements sorted by Order.
func (p *WorkoutPhase) OrderedExercises() []*WorkoutExercise {
	return sortedChildren[primitive.ObjectID](p.Exercises)
}

// Exercise returns the placement referencing the catalog exercise, if present.
func (p *WorkoutPhase) Exercise(exerciseID primitive.ObjectID) (*WorkoutExercise, bool) {
	idx := indexOfChild(p.Exercises, exerciseID)
	if idx < 0 {
		return nil, false
	}
	return p.Exercises[idx], true
}

// AddExercise appends a placement of the catalog exercise and recalculates the phase duration.
func (p *WorkoutPhase) AddExercise(exerciseID primitive.ObjectID, name string, params ExerciseParameters, notes string) (*WorkoutExercise, error) {
	if exerciseID == primitive.NilObjectID {
		return nil, invalid("exerciseId", "is required")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("exerciseName", "is required")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	notes, err := validateNotes(notes)
	if err != nil {
		return nil, err
	}

	placement := &WorkoutExercise{
		ID:                 primitive.NewObjectID(),
		ExerciseID:         exerciseID,
		Name:               name,
		ExerciseParameters: params,
		Notes:              notes,
	}
	exercises, err := appendChild[primitive.ObjectID](CollectionExercises, p.Exercises, placement)
	if err != nil {
		return nil, err
	}
	p.Exercises = exercises
	p.RecalculateDuration()
	return placement, nil
}

// RemoveExercise drops the placement and renumbers the remaining ones.
func (p *WorkoutPhase) RemoveExercise(exerciseID primitive.ObjectID) error {
	exercises, err := removeChild(CollectionExercises, p.Exercises, exerciseID)
	if err != nil {
		return err
	}
	p.Exercises = exercises
	p.RecalculateDuration()
	return nil
}

// MoveExercise repositions a placement. Reports whether anything moved.
func (p *WorkoutPhase) MoveExercise(exerciseID primitive.ObjectID, newOrder int) (bool, error) {
	return moveChild(CollectionExercises, p.Exercises, exerciseID, newOrder)
}

// UpdateParameters replaces the parameters and notes of a placement in place.
// Order is untouched; the phase duration follows the new parameters.
func (p *WorkoutPhase) UpdateParameters(exerciseID primitive.ObjectID, params ExerciseParameters, notes *string) (bool, error) {
	placement, ok := p.Exercise(exerciseID)
	if !ok {
		return false, &NotFoundError{Collection: CollectionExercises, Key: exerciseID.Hex()}
	}
	if err := params.Validate(); err != nil {
		return false, err
	}
	newNotes := placement.Notes
	if notes != nil {
		n, err := validateNotes(*notes)
		if err != nil {
			return false, err
		}
		newNotes = n
	}

	changed := !sameParameters(placement.ExerciseParameters, params) || newNotes != placement.Notes
	if !changed {
		return false, nil
	}
	placement.ExerciseParameters = params
	placement.Notes = newNotes
	p.RecalculateDuration()
	return true, nil
}

// UpdateDetails renames or re-describes the phase. Nil arguments are left alone.
func (p *WorkoutPhase) UpdateDetails(name, description *string) (bool, error) {
	newName, newDescription := p.Name, p.Description
	if name != nil {
		n, err := validatePhaseName(*name)
		if err != nil {
			return false, err
		}
		newName = n
	}
	if description != nil {
		d, err := validatePhaseDescription(*description)
		if err != nil {
			return false, err
		}
		newDescription = d
	}
	if newName == p.Name && newDescription == p.Description {
		return false, nil
	}
	p.Name, p.Description = newName, newDescription
	return true, nil
}

func sameParameters(a, b ExerciseParameters) bool {
	return eqInt(a.Repetitions, b.Repetitions) &&
		eqInt(a.Sets, b.Sets) &&
		eqInt(a.DurationSeconds, b.DurationSeconds) &&
		eqInt(a.RestSeconds, b.RestSeconds) &&
		eqFloat(a.WeightKg, b.WeightKg) &&
		eqFloat(a.DistanceMeters, b.DistanceMeters)
}

func eqInt(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func eqFloat(a, b *float64) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
