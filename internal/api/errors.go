package api

import (
	"alcyxob/workout-composer/internal/access"
	"alcyxob/workout-composer/internal/domain"
	"alcyxob/workout-composer/internal/logger"
	"alcyxob/workout-composer/internal/repository"
	"alcyxob/workout-composer/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// statusForError maps service and domain errors onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, access.ErrAccessDenied), errors.Is(err, service.ErrUnknownRole):
		return http.StatusForbidden
	case errors.Is(err, service.ErrWorkoutNotFound),
		errors.Is(err, service.ErrCatalogExerciseNotFound),
		errors.Is(err, service.ErrNoImage),
		errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDuplicateKey),
		errors.Is(err, domain.ErrInvalidOrder),
		errors.Is(err, repository.ErrVersionConflict):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondWithError writes the mapped status. Internal errors are logged and
// their details withheld from the client.
func respondWithError(c *gin.Context, log *logger.Logger, err error) {
	code := statusForError(err)
	if code == http.StatusInternalServerError {
		log.Error("request failed", "method", c.Request.Method, "path", c.FullPath(), "error", err)
		abortWithError(c, code, "Internal server error")
		return
	}
	abortWithError(c, code, err.Error())
}
