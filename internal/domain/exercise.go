// internal/domain/exercise.go
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MetricType tells which placement parameters are meaningful for a catalog exercise.
type MetricType string

const (
	MetricRepetitions MetricType = "repetitions" // Sets x reps, optional weight
	MetricDuration    MetricType = "duration"    // Timed holds, intervals
	MetricDistance    MetricType = "distance"    // Runs, rows, rides
)

// Exercise is an entry of the exercise catalog. Workouts never own it; a
// WorkoutExercise placement only references it by ID and keeps a copy of its name.
type Exercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	MuscleGroup string             `bson:"muscleGroup,omitempty" json:"muscleGroup,omitempty"` // e.g., "Chest", "Legs", "Back"
	MetricType  MetricType         `bson:"metricType" json:"metricType"`
	VideoURL    string             `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (m MetricType) IsValid() bool {
	switch m {
	case MetricRepetitions, MetricDuration, MetricDistance:
		return true
	}
	return false
}
