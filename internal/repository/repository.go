package repository

import (
	"alcyxob/workout-composer/internal/domain" // Import our defined domain models
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive" // For using ObjectIDs
)

// Error constants for repository layer
var (
	ErrNotFound        = RepositoryError("not found")
	ErrVersionConflict = RepositoryError("version conflict: workout was modified concurrently")
	ErrDeleteFailed    = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// WorkoutRepository loads and stores whole Workout aggregates (phases and
// placements included). Save is a compare-and-swap on Workout.Version.
type WorkoutRepository interface {
	Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error)
	// Save replaces the stored aggregate if its version still matches workout.Version,
	// then increments workout.Version. Returns ErrVersionConflict otherwise.
	Save(ctx context.Context, workout *domain.Workout) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	// ListVisible returns system-wide workouts, coach-owned workouts and workouts owned by actorID.
	ListVisible(ctx context.Context, actorID primitive.ObjectID) ([]domain.Workout, error)
	// UpsertTemplate stores a system-wide template keyed by its name.
	UpsertTemplate(ctx context.Context, workout *domain.Workout) error
}

// ExerciseCatalog resolves catalog exercises referenced by placements.
type ExerciseCatalog interface {
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
}

// ExerciseRepository is the catalog store itself. Entries are seeded from presets.
type ExerciseRepository interface {
	ExerciseCatalog
	List(ctx context.Context) ([]domain.Exercise, error)
	// UpsertByName inserts or updates the entry with the same name and returns its ID.
	UpsertByName(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
}
