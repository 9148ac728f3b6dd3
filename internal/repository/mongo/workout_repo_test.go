package mongo

import (
	"alcyxob/workout-composer/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestVisibleFilterForAnonymousActor(t *testing.T) {
	filter := visibleFilter(primitive.NilObjectID)

	clauses, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	assert.Len(t, clauses, 1)
	assert.Equal(t, bson.M{"userId": bson.M{"$exists": false}}, clauses[0])
}

func TestVisibleFilterForActor(t *testing.T) {
	actor := primitive.NewObjectID()
	filter := visibleFilter(actor)

	clauses, ok := filter["$or"].(bson.A)
	require.True(t, ok)
	assert.Equal(t, bson.A{
		bson.M{"userId": bson.M{"$exists": false}},
		bson.M{"userId": actor},
		bson.M{"coachId": actor},
	}, clauses)
}

func TestTemplateFilterMatchesOnlyUnownedTemplates(t *testing.T) {
	filter := templateFilter("Morning Mobility")
	assert.Equal(t, "Morning Mobility", filter["name"])
	assert.Equal(t, domain.WorkoutTypeTemplate, filter["type"])
	assert.Equal(t, bson.M{"$exists": false}, filter["userId"])
	assert.Equal(t, bson.M{"$exists": false}, filter["coachId"])
}

// The stored document must carry the nested collections and the version used by Save.
func TestWorkoutDocumentShape(t *testing.T) {
	w, err := domain.NewUserWorkout(primitive.NewObjectID(), domain.NewWorkoutParams{Name: "Legs"})
	require.NoError(t, err)
	_, err = w.AddPhase(domain.PhaseWarmUp, "Warm up", nil)
	require.NoError(t, err)
	reps := 10
	_, err = w.AddExercise(domain.PhaseWarmUp, primitive.NewObjectID(), "Air squat", domain.ExerciseParameters{Repetitions: &reps}, "")
	require.NoError(t, err)
	w.Version = 3

	raw, err := bson.Marshal(w)
	require.NoError(t, err)

	var doc bson.M
	require.NoError(t, bson.Unmarshal(raw, &doc))
	assert.EqualValues(t, 3, doc["version"])
	assert.NotContains(t, doc, "coachId")

	phases, ok := doc["phases"].(bson.A)
	require.True(t, ok)
	require.Len(t, phases, 1)
	phase := phases[0].(bson.M)
	exercises := phase["exercises"].(bson.A)
	require.Len(t, exercises, 1)
	placement := exercises[0].(bson.M)
	assert.EqualValues(t, 10, placement["repetitions"])
	assert.EqualValues(t, 1, placement["order"])

	var back domain.Workout
	require.NoError(t, bson.Unmarshal(raw, &back))
	assert.Equal(t, w.ID, back.ID)
	require.Len(t, back.Phases, 1)
	require.Len(t, back.Phases[0].Exercises, 1)
	assert.Equal(t, 10, *back.Phases[0].Exercises[0].Repetitions)
}

func buildTemplate(t *testing.T, squat primitive.ObjectID, reps int) *domain.Workout {
	t.Helper()
	w, err := domain.NewTemplateWorkout(domain.NewWorkoutParams{Name: "Bodyweight Basics"})
	require.NoError(t, err)
	_, err = w.AddPhase(domain.PhaseMainEffort, "Main", nil)
	require.NoError(t, err)
	_, err = w.AddExercise(domain.PhaseMainEffort, squat, "Air squat", domain.ExerciseParameters{Repetitions: &reps}, "")
	require.NoError(t, err)
	return w
}

func TestSameTemplateContentIgnoresIdentity(t *testing.T) {
	squat := primitive.NewObjectID()
	stored := buildTemplate(t, squat, 10)
	stored.Version = 4

	raw, err := bson.Marshal(stored)
	require.NoError(t, err)
	var decoded domain.Workout
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	rebuilt := buildTemplate(t, squat, 10)
	require.NotEqual(t, decoded.ID, rebuilt.ID)
	require.NotEqual(t, decoded.Phases[0].ID, rebuilt.Phases[0].ID)
	assert.True(t, sameTemplateContent(&decoded, rebuilt))
}

func TestSameTemplateContentDetectsEdits(t *testing.T) {
	squat := primitive.NewObjectID()
	stored := buildTemplate(t, squat, 10)

	assert.False(t, sameTemplateContent(stored, buildTemplate(t, squat, 12)))
	assert.False(t, sameTemplateContent(stored, buildTemplate(t, primitive.NewObjectID(), 10)))

	renamed := buildTemplate(t, squat, 10)
	name := "Strength"
	require.NoError(t, renamed.UpdatePhaseDetails(domain.PhaseMainEffort, &name, nil))
	assert.False(t, sameTemplateContent(stored, renamed))

	extra := buildTemplate(t, squat, 10)
	_, err := extra.AddPhase(domain.PhaseCoolDown, "Cool down", nil)
	require.NoError(t, err)
	assert.False(t, sameTemplateContent(stored, extra))
}
