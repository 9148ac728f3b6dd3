package service

import (
	"alcyxob/workout-composer/internal/domain"
	"alcyxob/workout-composer/internal/repository"
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CatalogService exposes the read side of the exercise catalog.
type CatalogService interface {
	ListExercises(ctx context.Context) ([]domain.Exercise, error)
	GetExercise(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
}

type catalogService struct {
	exerciseRepo repository.ExerciseRepository
	lookup       repository.ExerciseCatalog // exerciseRepo, possibly behind a cache
}

// NewCatalogService creates a new instance of catalogService.
func NewCatalogService(exerciseRepo repository.ExerciseRepository, lookup repository.ExerciseCatalog) CatalogService {
	if lookup == nil {
		lookup = exerciseRepo
	}
	return &catalogService{
		exerciseRepo: exerciseRepo,
		lookup:       lookup,
	}
}

func (s *catalogService) ListExercises(ctx context.Context) ([]domain.Exercise, error) {
	exercises, err := s.exerciseRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list catalog: %w", err)
	}
	return exercises, nil
}

func (s *catalogService) GetExercise(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.lookup.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCatalogExerciseNotFound
		}
		return nil, fmt.Errorf("catalog lookup: %w", err)
	}
	return exercise, nil
}
