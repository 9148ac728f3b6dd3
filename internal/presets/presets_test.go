package presets

import (
	"alcyxob/workout-composer/internal/domain"
	"alcyxob/workout-composer/internal/logger"
	"alcyxob/workout-composer/internal/repository"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const sample = `
exercises:
  - name: Air squat
    metricType: repetitions
  - name: Plank
    metricType: duration
workouts:
  - name: Quick Core
    difficulty: intermediate
    phases:
      - type: main_effort
        name: Work
        exercises:
          - exercise: Air squat
            sets: 3
            repetitions: 20
          - exercise: Plank
            durationSeconds: 90
      - type: warm_up
        name: Warm up
`

func TestParseAndBuild(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)
	require.Len(t, f.Workouts, 1)

	squat, plank := primitive.NewObjectID(), primitive.NewObjectID()
	w, err := f.Workouts[0].Build(map[string]primitive.ObjectID{"Air squat": squat, "Plank": plank})
	require.NoError(t, err)

	assert.True(t, w.IsSystemWide())
	assert.Equal(t, domain.WorkoutTypeTemplate, w.Type)
	assert.Equal(t, domain.DifficultyIntermediate, w.Difficulty)

	phases := w.OrderedPhases()
	require.Len(t, phases, 2)
	assert.Equal(t, domain.PhaseMainEffort, phases[0].Type)
	assert.Equal(t, domain.PhaseWarmUp, phases[1].Type)

	exercises := phases[0].OrderedExercises()
	require.Len(t, exercises, 2)
	assert.Equal(t, squat, exercises[0].ExerciseID)
	assert.Equal(t, plank, exercises[1].ExerciseID)
	// 3 x 20 x 3s = 3 min, plank 90s = 2 min
	assert.Equal(t, 5, phases[0].EstimatedDurationMinutes)
}

func TestParseRejectsBadDocuments(t *testing.T) {
	tests := map[string]string{
		"unknown key":        "exercises: []\nworkout: []\n",
		"unknown exercise":   "exercises: []\nworkouts:\n  - name: A\n    phases:\n      - type: warm_up\n        name: W\n        exercises:\n          - exercise: Ghost\n",
		"duplicate exercise": "exercises:\n  - name: A\n    metricType: duration\n  - name: A\n    metricType: duration\n",
		"bad metric":         "exercises:\n  - name: A\n    metricType: weight\n",
		"duplicate template": "workouts:\n  - name: A\n  - name: A\n",
		"not yaml":           "exercises: [",
	}
	for name, doc := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(doc))
			assert.Error(t, err)
		})
	}
}

func TestBuildSurfacesDomainErrors(t *testing.T) {
	def := WorkoutDef{
		Name: "Twice",
		Phases: []PhaseDef{
			{Type: domain.PhaseWarmUp, Name: "A"},
			{Type: domain.PhaseWarmUp, Name: "B"},
		},
	}
	_, err := def.Build(nil)
	assert.ErrorIs(t, err, domain.ErrDuplicatePhaseType)
}

func TestShippedPresetsAreValid(t *testing.T) {
	f, err := Load(filepath.Join("..", "..", "presets", "templates.yaml"))
	require.NoError(t, err)

	catalog := map[string]primitive.ObjectID{}
	for _, ex := range f.Exercises {
		catalog[ex.Name] = primitive.NewObjectID()
	}
	for _, def := range f.Workouts {
		_, err := def.Build(catalog)
		assert.NoError(t, err, def.Name)
	}
}

type stubExercises struct {
	byName map[string]primitive.ObjectID
}

func (s *stubExercises) GetByID(context.Context, primitive.ObjectID) (*domain.Exercise, error) {
	return nil, repository.ErrNotFound
}
func (s *stubExercises) List(context.Context) ([]domain.Exercise, error) { return nil, nil }
func (s *stubExercises) UpsertByName(_ context.Context, ex *domain.Exercise) (primitive.ObjectID, error) {
	if id, ok := s.byName[ex.Name]; ok {
		return id, nil
	}
	id := primitive.NewObjectID()
	s.byName[ex.Name] = id
	return id, nil
}

type stubWorkouts struct {
	repository.WorkoutRepository
	templates map[string]*domain.Workout
}

func (s *stubWorkouts) UpsertTemplate(_ context.Context, w *domain.Workout) error {
	s.templates[w.Name] = w
	return nil
}

func TestSeedIsIdempotent(t *testing.T) {
	f, err := Parse([]byte(sample))
	require.NoError(t, err)
	exercises := &stubExercises{byName: map[string]primitive.ObjectID{}}
	workouts := &stubWorkouts{templates: map[string]*domain.Workout{}}

	require.NoError(t, Seed(context.Background(), logger.Nop(), f, exercises, workouts))
	require.NoError(t, Seed(context.Background(), logger.Nop(), f, exercises, workouts))

	assert.Len(t, exercises.byName, 2)
	require.Len(t, workouts.templates, 1)
	w := workouts.templates["Quick Core"]
	phase, ok := w.Phase(domain.PhaseMainEffort)
	require.True(t, ok)
	placement, ok := phase.Exercise(exercises.byName["Plank"])
	require.True(t, ok)
	assert.Equal(t, "Plank", placement.Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
