// Package access decides who may view, create, modify and delete workouts.
// Decisions depend only on the workout's owner fields and the actor's ID;
// primitive.NilObjectID stands for an unauthenticated actor.
package access

import (
	"alcyxob/workout-composer/internal/domain"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Action is a capability checked against a workout.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionModify Action = "modify"
	ActionDelete Action = "delete"
)

var ErrAccessDenied = errors.New("access denied")

// AuthorizationError is returned by the Ensure functions when the actor lacks the capability.
type AuthorizationError struct {
	Action    Action
	ActorID   primitive.ObjectID
	WorkoutID primitive.ObjectID
}

func (e *AuthorizationError) Error() string {
	if e.WorkoutID == primitive.NilObjectID {
		return fmt.Sprintf("access denied: actor %s may not %s this workout", e.ActorID.Hex(), e.Action)
	}
	return fmt.Sprintf("access denied: actor %s may not %s workout %s", e.ActorID.Hex(), e.Action, e.WorkoutID.Hex())
}

func (e *AuthorizationError) Unwrap() error { return ErrAccessDenied }

// CanView:
//   - system-wide and coach-owned workouts are visible to everyone
//   - user-owned workouts only to that user
//   - assigned workouts (user and coach set) to that user and that coach
func CanView(w *domain.Workout, actorID primitive.ObjectID) bool {
	if w == nil {
		return false
	}
	switch {
	case w.IsSystemWide():
		return true
	case w.UserID != nil:
		return w.IsOwnedByUser(actorID) || w.IsOwnedByCoach(actorID)
	default:
		return true
	}
}

// CanModify: nobody for system-wide workouts, otherwise the coach when one is set, else the user.
func CanModify(w *domain.Workout, actorID primitive.ObjectID) bool {
	if w == nil || actorID == primitive.NilObjectID {
		return false
	}
	switch {
	case w.IsSystemWide():
		return false
	case w.CoachID != nil:
		return w.IsOwnedByCoach(actorID)
	default:
		return w.IsOwnedByUser(actorID)
	}
}

// CanDelete follows the same table as CanModify.
func CanDelete(w *domain.Workout, actorID primitive.ObjectID) bool {
	return CanModify(w, actorID)
}

// CanCreate checks a workout that is about to be created: the actor must be the
// owner it would have under CanModify. System-wide workouts are only created by seeding.
func CanCreate(w *domain.Workout, actorID primitive.ObjectID) bool {
	return CanModify(w, actorID)
}

func EnsureCanView(w *domain.Workout, actorID primitive.ObjectID) error {
	return ensure(CanView(w, actorID), ActionView, w, actorID)
}

func EnsureCanCreate(w *domain.Workout, actorID primitive.ObjectID) error {
	return ensure(CanCreate(w, actorID), ActionCreate, w, actorID)
}

func EnsureCanModify(w *domain.Workout, actorID primitive.ObjectID) error {
	return ensure(CanModify(w, actorID), ActionModify, w, actorID)
}

func EnsureCanDelete(w *domain.Workout, actorID primitive.ObjectID) error {
	return ensure(CanDelete(w, actorID), ActionDelete, w, actorID)
}

func ensure(allowed bool, action Action, w *domain.Workout, actorID primitive.ObjectID) error {
	if allowed {
		return nil
	}
	err := &AuthorizationError{Action: action, ActorID: actorID}
	if w != nil {
		err.WorkoutID = w.ID
	}
	return err
}
