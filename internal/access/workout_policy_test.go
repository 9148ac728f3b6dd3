package access

import (
	"alcyxob/workout-composer/internal/domain"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var params = domain.NewWorkoutParams{Name: "Full Body A"}

func TestDecisionTable(t *testing.T) {
	owner, coach, stranger := primitive.NewObjectID(), primitive.NewObjectID(), primitive.NewObjectID()
	anonymous := primitive.NilObjectID

	system, err := domain.NewTemplateWorkout(params)
	require.NoError(t, err)
	userOwned, err := domain.NewUserWorkout(owner, params)
	require.NoError(t, err)
	coachOwned, err := domain.NewCoachWorkout(coach, params)
	require.NoError(t, err)
	assigned, err := domain.NewAssignedWorkout(coach, owner, params)
	require.NoError(t, err)

	tests := []struct {
		name       string
		workout    *domain.Workout
		actor      primitive.ObjectID
		wantView   bool
		wantModify bool
	}{
		{"system / stranger", system, stranger, true, false},
		{"system / anonymous", system, anonymous, true, false},
		{"user-owned / owner", userOwned, owner, true, true},
		{"user-owned / stranger", userOwned, stranger, false, false},
		{"user-owned / anonymous", userOwned, anonymous, false, false},
		{"coach-owned / coach", coachOwned, coach, true, true},
		{"coach-owned / stranger", coachOwned, stranger, true, false},
		{"coach-owned / anonymous", coachOwned, anonymous, true, false},
		{"assigned / client", assigned, owner, true, false},
		{"assigned / coach", assigned, coach, true, true},
		{"assigned / stranger", assigned, stranger, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantView, CanView(tt.workout, tt.actor))
			assert.Equal(t, tt.wantModify, CanModify(tt.workout, tt.actor))
			assert.Equal(t, tt.wantModify, CanDelete(tt.workout, tt.actor))
			assert.Equal(t, tt.wantModify, CanCreate(tt.workout, tt.actor))
		})
	}
}

func TestNilWorkoutIsDenied(t *testing.T) {
	actor := primitive.NewObjectID()
	assert.False(t, CanView(nil, actor))
	assert.False(t, CanModify(nil, actor))
	assert.ErrorIs(t, EnsureCanView(nil, actor), ErrAccessDenied)
}

func TestEnsureReturnsAuthorizationError(t *testing.T) {
	owner, stranger := primitive.NewObjectID(), primitive.NewObjectID()
	w, err := domain.NewUserWorkout(owner, params)
	require.NoError(t, err)

	require.NoError(t, EnsureCanView(w, owner))
	require.NoError(t, EnsureCanModify(w, owner))
	require.NoError(t, EnsureCanDelete(w, owner))
	require.NoError(t, EnsureCanCreate(w, owner))

	err = EnsureCanModify(w, stranger)
	var authErr *AuthorizationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, ActionModify, authErr.Action)
	assert.Equal(t, stranger, authErr.ActorID)
	assert.Equal(t, w.ID, authErr.WorkoutID)
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Contains(t, err.Error(), w.ID.Hex())

	assert.ErrorIs(t, EnsureCanDelete(w, stranger), ErrAccessDenied)
	assert.ErrorIs(t, EnsureCanView(w, primitive.NilObjectID), ErrAccessDenied)
}
