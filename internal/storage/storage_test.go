package storage

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestWorkoutImageKey(t *testing.T) {
	id := primitive.NewObjectID()

	key, err := WorkoutImageKey(id, "image/PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "workouts/"+id.Hex()+"/"))
	assert.True(t, strings.HasSuffix(key, ".png"))
	assert.True(t, BelongsToWorkout(key, id))

	other, err := WorkoutImageKey(id, "image/png")
	require.NoError(t, err)
	assert.NotEqual(t, key, other)
}

func TestWorkoutImageKeyRejectsUnknownTypes(t *testing.T) {
	_, err := WorkoutImageKey(primitive.NewObjectID(), "application/pdf")
	assert.ErrorIs(t, err, ErrUnsupportedContentType)
}

func TestBelongsToWorkout(t *testing.T) {
	id := primitive.NewObjectID()
	key, err := WorkoutImageKey(id, "image/jpeg")
	require.NoError(t, err)

	assert.False(t, BelongsToWorkout(key, primitive.NewObjectID()))
	assert.False(t, BelongsToWorkout("workouts/"+id.Hex()+"/not-a-uuid.jpg", id))
	assert.False(t, BelongsToWorkout("workouts/"+id.Hex()+"/../../etc/passwd", id))
	assert.False(t, BelongsToWorkout(strings.TrimSuffix(key, ".jpg")+".exe", id))
}

func TestEndpointURL(t *testing.T) {
	assert.Equal(t, "", endpointURL("", true))
	assert.Equal(t, "https://s3.example.com", endpointURL("s3.example.com", true))
	assert.Equal(t, "http://minio:9000", endpointURL("minio:9000", false))
	assert.Equal(t, "http://minio:9000", endpointURL("http://minio:9000", true))
}
