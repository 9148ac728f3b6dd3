package service

import (
	"alcyxob/workout-composer/internal/access"
	"alcyxob/workout-composer/internal/domain"
	"alcyxob/workout-composer/internal/logger"
	"alcyxob/workout-composer/internal/repository"
	"alcyxob/workout-composer/internal/storage"
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound         = errors.New("workout not found")
	ErrCatalogExerciseNotFound = errors.New("exercise not found in catalog")
	ErrNoImage                 = errors.New("workout has no image")
	ErrUnknownRole             = errors.New("unknown actor role")
)

// Actor is the authenticated caller. A zero ID means anonymous.
type Actor struct {
	ID   primitive.ObjectID
	Role domain.Role
}

// CreateWorkoutInput selects the factory: coaches may build for a client,
// users may ask for a generated workout.
type CreateWorkoutInput struct {
	Params    domain.NewWorkoutParams
	ClientID  *primitive.ObjectID // Coach only
	Generated bool                // User only
}

// ImageUpload is a presigned PUT for a new workout image. The key is passed back to ConfirmImage.
type ImageUpload struct {
	URL       string
	ObjectKey string
	ExpiresAt time.Time
}

// --- Service Interface ---
type WorkoutService interface {
	Create(ctx context.Context, actor Actor, input CreateWorkoutInput) (*domain.Workout, error)
	Get(ctx context.Context, actorID, workoutID primitive.ObjectID) (*domain.Workout, error)
	ListVisible(ctx context.Context, actorID primitive.ObjectID) ([]domain.Workout, error)
	UpdateDetails(ctx context.Context, actorID, workoutID primitive.ObjectID, update domain.WorkoutDetailsUpdate) (*domain.Workout, error)
	SetActive(ctx context.Context, actorID, workoutID primitive.ObjectID, active bool) (*domain.Workout, error)
	Delete(ctx context.Context, actorID, workoutID primitive.ObjectID) error

	AddPhase(ctx context.Context, actorID, workoutID primitive.ObjectID, phaseType domain.PhaseType, name string, orderHint *int) (*domain.Workout, error)
	RemovePhase(ctx context.Context, actorID, workoutID primitive.ObjectID, phaseType domain.PhaseType) (*domain.Workout, error)
	MovePhase(ctx context.Context, actorID, workoutID primitive.ObjectID, phaseType domain.PhaseType, newOrder int) (*domain.Workout, error)
	UpdatePhaseDetails(ctx context.Context, actorID, workoutID primitive.ObjectID, phaseType domain.PhaseType, name, description *string) (*domain.Workout, error)

	AddExercise(ctx context.Context, actorID, workoutID primitive.ObjectID, phaseType domain.PhaseType, exerciseID primitive.ObjectID, params domain.ExerciseParameters, notes string) (*domain.Workout, error)
	RemoveExercise(ctx context.Context, actorID, workoutID primitive.ObjectID, phaseType domain.PhaseType, exerciseID primitive.ObjectID) (*domain.Workout, error)
	MoveExercise(ctx context.Context, actorID, workoutID primitive.ObjectID, phaseType domain.PhaseType, exerciseID primitive.ObjectID, newOrder int) (*domain.Workout, error)
	UpdateExerciseParameters(ctx context.Context, actorID, workoutID primitive.ObjectID, phaseType domain.PhaseType, exerciseID primitive.ObjectID, params domain.ExerciseParameters, notes *string) (*domain.Workout, error)

	RequestImageUpload(ctx context.Context, actorID, workoutID primitive.ObjectID, contentType string) (*ImageUpload, error)
	ConfirmImage(ctx context.Context, actorID, workoutID primitive.ObjectID, objectKey string) (*domain.Workout, error)
	GetImageURL(ctx context.Context, actorID, workoutID primitive.ObjectID) (string, error)
}

// --- Service Implementation ---

type workoutService struct {
	workoutRepo repository.WorkoutRepository
	catalog     repository.ExerciseCatalog
	files       storage.FileStorage
	log         *logger.Logger
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	catalog repository.ExerciseCatalog,
	files storage.FileStorage,
	log *logger.Logger,
) WorkoutService {
	return &workoutService{
		workoutRepo: workoutRepo,
		catalog:     catalog,
		files:       files,
		log:         log.With("service", "WorkoutService"),
	}
}

// Create builds a workout through the factory matching the actor's role and stores it.
func (s *workoutService) Create(ctx context.Context, actor Actor, input CreateWorkoutInput) (*domain.Workout, error) {
	var (
		workout *domain.Workout
		err     error
	)
	switch actor.Role {
	case domain.RoleCoach:
		if input.ClientID != nil {
			workout, err = domain.NewAssignedWorkout(actor.ID, *input.ClientID, input.Params)
		} else {
			workout, err = domain.NewCoachWorkout(actor.ID, input.Params)
		}
	case domain.RoleUser:
		if input.ClientID != nil {
			return nil, &domain.ValidationError{Field: "clientId", Reason: "only coaches can build workouts for a client"}
		}
		if input.Generated {
			workout, err = domain.NewAIGeneratedWorkout(actor.ID, input.Params)
		} else {
			workout, err = domain.NewUserWorkout(actor.ID, input.Params)
		}
	default:
		return nil, ErrUnknownRole
	}
	if err != nil {
		return nil, err
	}
	if err := access.EnsureCanCreate(workout, actor.ID); err != nil {
		return nil, err
	}

	if _, err := s.workoutRepo.Create(ctx, workout); err != nil {
		s.log.Error("failed to create workout", "actorId", actor.ID.Hex(), "error", err)
		return nil, fmt.Errorf("create workout: %w", err)
	}
	s.log.Info("workout created", "workoutId", workout.ID.Hex(), "type", workout.Type, "actorId", actor.ID.Hex())
	return workout, nil
}

func (s *workoutService) Get(ctx context.Context, actorID, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.load(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	if err := access.EnsureCanView(workout, actorID); err != nil {
		return nil, err
	}
	return workout, nil
}

// ListVisible returns every workout the actor may view, newest first.
func (s *workoutService) ListVisible(ctx context.Context, actorID primitive.ObjectID) ([]domain.Workout, error) {
	candidates, err := s.workoutRepo.ListVisible(ctx, actorID)
	if err != nil {
		s.log.Error("failed to list workouts", "actorId", actorID.Hex(), "error", err)
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	visible := make([]domain.Workout, 0, len(candidates))
	for i := range candidates {
		if access.CanView(&candidates[i], actorID) {
			visible = append(visible, candidates[i])
		}
	}
	return visible, nil
}

func (s *workoutService) UpdateDetails(ctx context.Context, actorID, workoutID primitive.ObjectID, update domain.WorkoutDetailsUpdate) (*domain.Workout, error) {
	return s.mutate(ctx, actorID, workoutID, "update_details", func(w *domain.Workout) error {
		return w.UpdateDetails(update)
	})
}

func (s *workoutService) SetActive(ctx context.Context, actorID, workoutID primitive.ObjectID, active bool) (*domain.Workout, error) {
	return s.mutate(ctx, actorID, workoutID, "set_active", func(w *domain.Workout) error {
		if active {
			w.Activate()
		} else {
			w.Deactivate()
		}
		return nil
	})
}

// Delete removes the workout and, best effort, its image.
func (s *workoutService) Delete(ctx context.Context, actorID, workoutID primitive.ObjectID) error {
	workout, err := s.load(ctx, workoutID)
	if err != nil {
		return err
	}
	if err := access.EnsureCanDelete(workout, actorID); err != nil {
		return err
	}
	if err := s.workoutRepo.Delete(ctx, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		s.log.Error("failed to delete workout", "workoutId", workoutID.Hex(), "error", err)
		return fmt.Errorf("delete workout: %w", err)
	}
	if workout.ImageKey != "" {
		if err := s.files.DeleteObject(ctx, workout.ImageKey); err != nil {
			s.log.Warn("orphaned workout image", "workoutId", workoutID.Hex(), "key", workout.ImageKey, "error", err)
		}
	}
	s.log.Info("workout deleted", "workoutId", workoutID.Hex(), "actorId", actorID.Hex())
	return nil
}

// === Phases ===

func (s *workoutService) AddPhase(ctx context.Context, actorID, workoutID primitive.ObjectID, phaseType domain.PhaseType, name string, orderHint *int) (*domain.Workout, error) {
	return s.mutate(ctx, actorID, workoutID, "add_phase", func(w *domain.Workout) error {
		_, err := w.AddPhase(phaseType, name, orderHint)
		return err
	})
}

func (s *workoutService) RemovePhase(ctx context.Context, actorID, workoutID primitive.ObjectID, phaseType domain.PhaseType) (*domain.Workout, error) {
	return s.mutate(ctx, actorID, workoutID, "remove_phase", func(w *domain.Workout) error {
		return w.RemovePhase(phaseType)
	})
}

func (s *workoutService) MovePhase(ctx context.Context, actorID, workoutID primitive.ObjectID, phaseType domain.PhaseType, newOrder int) (*domain.Workout, error) {
	return s.mutate(ctx, actorID, workoutID, "move_phase", func(w *domain.Workout) error {
		return w.MovePhase(phaseType, newOrder)
	})
}

func (s *workoutService) UpdatePhaseDetails(ctx context.Context, actorID, workoutID primitive.ObjectID, phaseType domain.PhaseType, name, description *string) (*domain.Workout, error) {
	return s.mutate(ctx, actorID, workoutID, "update_phase", func(w *domain.Workout) error {
		return w.UpdatePhaseDetails(phaseType, name, description)
	})
}

// === Exercise placements ===

// AddExercise places a catalog exercise into a phase, snapshotting its catalog name.
func (s *workoutService) AddExercise(ctx context.Context, actorID, workoutID primitive.ObjectID, phaseType domain.PhaseType, exerciseID primitive.ObjectID, params domain.ExerciseParameters, notes string) (*domain.Workout, error) {
	return s.mutate(ctx, actorID, workoutID, "add_exercise", func(w *domain.Workout) error {
		entry, err := s.catalog.GetByID(ctx, exerciseID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrCatalogExerciseNotFound
			}
			return fmt.Errorf("catalog lookup: %w", err)
		}
		_, err = w.AddExercise(phaseType, entry.ID, entry.Name, params, notes)
		return err
	})
}

func (s *workoutService) RemoveExercise(ctx context.Context, actorID, workoutID primitive.ObjectID, phaseType domain.PhaseType, exerciseID primitive.ObjectID) (*domain.Workout, error) {
	return s.mutate(ctx, actorID, workoutID, "remove_exercise", func(w *domain.Workout) error {
		return w.RemoveExercise(phaseType, exerciseID)
	})
}

func (s *workoutService) MoveExercise(ctx context.Context, actorID, workoutID primitive.ObjectID, phaseType domain.PhaseType, exerciseID primitive.ObjectID, newOrder int) (*domain.Workout, error) {
	return s.mutate(ctx, actorID, workoutID, "move_exercise", func(w *domain.Workout) error {
		return w.MoveExercise(phaseType, exerciseID, newOrder)
	})
}

func (s *workoutService) UpdateExerciseParameters(ctx context.Context, actorID, workoutID primitive.ObjectID, phaseType domain.PhaseType, exerciseID primitive.ObjectID, params domain.ExerciseParameters, notes *string) (*domain.Workout, error) {
	return s.mutate(ctx, actorID, workoutID, "update_exercise", func(w *domain.Workout) error {
		return w.UpdateExerciseParameters(phaseType, exerciseID, params, notes)
	})
}

// === Image ===

// RequestImageUpload issues a presigned PUT for a fresh object key. The workout is
// unchanged until ConfirmImage is called with that key.
func (s *workoutService) RequestImageUpload(ctx context.Context, actorID, workoutID primitive.ObjectID, contentType string) (*ImageUpload, error) {
	workout, err := s.load(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	if err := access.EnsureCanModify(workout, actorID); err != nil {
		return nil, err
	}
	key, err := storage.WorkoutImageKey(workoutID, contentType)
	if err != nil {
		return nil, &domain.ValidationError{Field: "contentType", Reason: err.Error()}
	}
	url, err := s.files.GeneratePresignedUploadURL(ctx, key, contentType, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, fmt.Errorf("presign upload: %w", err)
	}
	return &ImageUpload{
		URL:       url,
		ObjectKey: key,
		ExpiresAt: time.Now().UTC().Add(storage.DefaultPresignedURLExpiry),
	}, nil
}

// ConfirmImage records an uploaded image and drops the previous one.
func (s *workoutService) ConfirmImage(ctx context.Context, actorID, workoutID primitive.ObjectID, objectKey string) (*domain.Workout, error) {
	if !storage.BelongsToWorkout(objectKey, workoutID) {
		return nil, &domain.ValidationError{Field: "objectKey", Reason: "was not issued for this workout"}
	}
	var previous string
	workout, err := s.mutate(ctx, actorID, workoutID, "set_image", func(w *domain.Workout) error {
		previous = w.ImageKey
		w.SetImage(objectKey)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if previous != "" && previous != objectKey {
		if err := s.files.DeleteObject(ctx, previous); err != nil {
			s.log.Warn("failed to delete replaced image", "workoutId", workoutID.Hex(), "key", previous, "error", err)
		}
	}
	return workout, nil
}

func (s *workoutService) GetImageURL(ctx context.Context, actorID, workoutID primitive.ObjectID) (string, error) {
	workout, err := s.Get(ctx, actorID, workoutID)
	if err != nil {
		return "", err
	}
	if workout.ImageKey == "" {
		return "", ErrNoImage
	}
	url, err := s.files.GeneratePresignedDownloadURL(ctx, workout.ImageKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return "", fmt.Errorf("presign download: %w", err)
	}
	return url, nil
}

// === Helpers ===

func (s *workoutService) load(ctx context.Context, workoutID primitive.ObjectID) (*domain.Workout, error) {
	workout, err := s.workoutRepo.GetByID(ctx, workoutID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		s.log.Error("failed to load workout", "workoutId", workoutID.Hex(), "error", err)
		return nil, fmt.Errorf("load workout: %w", err)
	}
	return workout, nil
}

// mutate authorizes, loads, applies fn and saves. fn either fully applies or
// returns an error with the aggregate untouched. Nothing is saved when fn
// leaves UpdatedAt alone, which is how the aggregate reports a no-op.
func (s *workoutService) mutate(ctx context.Context, actorID, workoutID primitive.ObjectID, op string, fn func(w *domain.Workout) error) (*domain.Workout, error) {
	workout, err := s.load(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	if err := access.EnsureCanModify(workout, actorID); err != nil {
		return nil, err
	}

	before := workout.UpdatedAt
	if err := fn(workout); err != nil {
		return nil, err
	}
	if workout.UpdatedAt == before {
		return workout, nil
	}

	if err := s.workoutRepo.Save(ctx, workout); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			return nil, ErrWorkoutNotFound
		case errors.Is(err, repository.ErrVersionConflict):
			return nil, err
		}
		s.log.Error("failed to save workout", "workoutId", workoutID.Hex(), "op", op, "error", err)
		return nil, fmt.Errorf("save workout: %w", err)
	}
	s.log.Debug("workout updated", "workoutId", workoutID.Hex(), "op", op, "version", workout.Version)
	return workout, nil
}
