package api

import (
	"alcyxob/workout-composer/internal/domain"
	"alcyxob/workout-composer/internal/logger"
	"alcyxob/workout-composer/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// ExerciseHandler serves the read-only exercise catalog.
type ExerciseHandler struct {
	catalogService service.CatalogService
	log            *logger.Logger
}

// NewExerciseHandler creates a new ExerciseHandler.
func NewExerciseHandler(catalogService service.CatalogService, log *logger.Logger) *ExerciseHandler {
	return &ExerciseHandler{
		catalogService: catalogService,
		log:            log.With("handler", "ExerciseHandler"),
	}
}

// ExerciseResponse is the DTO for returning exercise details.
type ExerciseResponse struct {
	ID          string            `json:"id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	MuscleGroup string            `json:"muscleGroup,omitempty"`
	MetricType  domain.MetricType `json:"metricType"`
	VideoURL    string            `json:"videoUrl,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// MapExerciseToResponse converts a domain.Exercise to ExerciseResponse DTO.
func MapExerciseToResponse(ex *domain.Exercise) ExerciseResponse {
	if ex == nil {
		return ExerciseResponse{}
	}
	return ExerciseResponse{
		ID:          ex.ID.Hex(),
		Name:        ex.Name,
		Description: ex.Description,
		MuscleGroup: ex.MuscleGroup,
		MetricType:  ex.MetricType,
		VideoURL:    ex.VideoURL,
		CreatedAt:   ex.CreatedAt,
		UpdatedAt:   ex.UpdatedAt,
	}
}

// MapExercisesToResponse converts a slice of domain.Exercise to a slice of ExerciseResponse DTO.
func MapExercisesToResponse(exercises []domain.Exercise) []ExerciseResponse {
	responses := make([]ExerciseResponse, len(exercises))
	for i := range exercises {
		responses[i] = MapExerciseToResponse(&exercises[i])
	}
	return responses
}

// ListExercises handles GET /exercises
func (h *ExerciseHandler) ListExercises(c *gin.Context) {
	exercises, err := h.catalogService.ListExercises(c.Request.Context())
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapExercisesToResponse(exercises))
}

// GetExercise handles GET /exercises/:exerciseId
func (h *ExerciseHandler) GetExercise(c *gin.Context) {
	exerciseID, ok := parseObjectIDParam(c, "exerciseId")
	if !ok {
		return
	}
	exercise, err := h.catalogService.GetExercise(c.Request.Context(), exerciseID)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapExerciseToResponse(exercise))
}
