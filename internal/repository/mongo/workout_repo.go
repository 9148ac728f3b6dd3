// internal/repository/mongo/workout_repo.go
package mongo

import (
	"alcyxob/workout-composer/internal/domain"
	"alcyxob/workout-composer/internal/repository"
	"context"
	"errors"
	"fmt"
	"reflect"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository.
// A workout is stored as a single document: phases and placements are embedded,
// so every save replaces the whole aggregate.
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

// Create inserts a new workout at version 1.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.Workout) (primitive.ObjectID, error) {
	if workout.Name == "" {
		return primitive.NilObjectID, errors.New("workout name is required")
	}
	if workout.ID == primitive.NilObjectID {
		workout.ID = primitive.NewObjectID()
	}
	workout.Version = 1

	result, err := r.collection.InsertOne(ctx, workout)
	if err != nil {
		workout.Version = 0
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted workout ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single workout by its ID.
func (r *mongoWorkoutRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	var workout domain.Workout
	filter := bson.M{"_id": id}
	err := r.collection.FindOne(ctx, filter).Decode(&workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &workout, nil
}

// Save replaces the stored document only if nobody saved it since it was loaded.
func (r *mongoWorkoutRepository) Save(ctx context.Context, workout *domain.Workout) error {
	if workout.ID == primitive.NilObjectID {
		return errors.New("workout ID is required for save")
	}

	expected := workout.Version
	workout.Version = expected + 1

	filter := bson.M{"_id": workout.ID, "version": expected}
	result, err := r.collection.ReplaceOne(ctx, filter, workout)
	if err != nil {
		workout.Version = expected
		return err
	}
	if result.MatchedCount == 0 {
		workout.Version = expected
		// Tell a missing document apart from a stale version.
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": workout.ID})
		if err != nil {
			return err
		}
		if count == 0 {
			return repository.ErrNotFound
		}
		return repository.ErrVersionConflict
	}
	return nil
}

func (r *mongoWorkoutRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if id == primitive.NilObjectID {
		return errors.New("workout ID is required for deletion")
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// ListVisible narrows the candidates in the query. The caller still applies the
// authorization predicate to every result.
func (r *mongoWorkoutRepository) ListVisible(ctx context.Context, actorID primitive.ObjectID) ([]domain.Workout, error) {
	var workouts []domain.Workout
	findOptions := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := r.collection.Find(ctx, visibleFilter(actorID), findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &workouts); err != nil {
		return nil, err
	}
	if err = cursor.Err(); err != nil {
		return nil, err
	}
	return workouts, nil
}

// visibleFilter matches workouts without an owning user (system-wide and
// coach-owned ones) plus everything the actor owns as user or coach.
func visibleFilter(actorID primitive.ObjectID) bson.M {
	clauses := bson.A{
		bson.M{"userId": bson.M{"$exists": false}},
	}
	if actorID != primitive.NilObjectID {
		clauses = append(clauses,
			bson.M{"userId": actorID},
			bson.M{"coachId": actorID},
		)
	}
	return bson.M{"$or": clauses}
}

// UpsertTemplate stores a system-wide template, replacing an existing template with
// the same name. The stored ID is kept so clients holding it stay valid. When the
// stored template already has the same content nothing is written and workout is
// replaced by the stored copy.
func (r *mongoWorkoutRepository) UpsertTemplate(ctx context.Context, workout *domain.Workout) error {
	if !workout.IsSystemWide() {
		return fmt.Errorf("workout %q is not system-wide", workout.Name)
	}
	filter := templateFilter(workout.Name)

	var existing domain.Workout
	err := r.collection.FindOne(ctx, filter).Decode(&existing)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
		_, err = r.Create(ctx, workout)
		return err
	case err != nil:
		return err
	}

	if sameTemplateContent(&existing, workout) {
		*workout = existing
		return nil
	}
	workout.ID = existing.ID
	workout.CreatedAt = existing.CreatedAt
	workout.Version = existing.Version
	return r.Save(ctx, workout)
}

type placementContent struct {
	ExerciseID primitive.ObjectID
	Name       string
	Params     domain.ExerciseParameters
	Notes      string
	Order      int
}

type phaseContent struct {
	Type        domain.PhaseType
	Name        string
	Description string
	Order       int
	Exercises   []placementContent
}

type templateContent struct {
	Name        string
	Description string
	Category    domain.WorkoutCategory
	Difficulty  domain.DifficultyLevel
	Equipment   domain.EquipmentRequirement
	IsActive    bool
	Override    *int
	Phases      []phaseContent
}

// contentOf drops IDs, timestamps and the version, leaving what a preset defines.
func contentOf(w *domain.Workout) templateContent {
	c := templateContent{
		Name:        w.Name,
		Description: w.Description,
		Category:    w.Category,
		Difficulty:  w.Difficulty,
		Equipment:   w.Equipment,
		IsActive:    w.IsActive,
		Override:    w.DurationOverrideMinutes,
	}
	for _, p := range w.OrderedPhases() {
		pc := phaseContent{Type: p.Type, Name: p.Name, Description: p.Description, Order: p.Order}
		for _, e := range p.OrderedExercises() {
			pc.Exercises = append(pc.Exercises, placementContent{
				ExerciseID: e.ExerciseID,
				Name:       e.Name,
				Params:     e.ExerciseParameters,
				Notes:      e.Notes,
				Order:      e.Order,
			})
		}
		c.Phases = append(c.Phases, pc)
	}
	return c
}

func sameTemplateContent(stored, built *domain.Workout) bool {
	return reflect.DeepEqual(contentOf(stored), contentOf(built))
}

func templateFilter(name string) bson.M {
	return bson.M{
		"name":    name,
		"type":    domain.WorkoutTypeTemplate,
		"userId":  bson.M{"$exists": false},
		"coachId": bson.M{"$exists": false},
	}
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Owned-by-user lookups for listing
			Keys:    bson.D{{Key: "userId", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "coachId", Value: 1}},
			Options: options.Index(),
		},
		{
			// Template upserts by name
			Keys:    bson.D{{Key: "type", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

