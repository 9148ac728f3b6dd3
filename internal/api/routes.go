package api

import (
	"alcyxob/workout-composer/internal/domain" // Needed for RoleMiddleware
	"alcyxob/workout-composer/internal/logger"
	"alcyxob/workout-composer/internal/service"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows browser clients from the configured origins.
func CORS(origins []string) gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	})
}

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	log *logger.Logger,
	workoutService service.WorkoutService,
	catalogService service.CatalogService,
) {
	workoutHandler := NewWorkoutHandler(workoutService, log)
	exerciseHandler := NewExerciseHandler(catalogService, log)

	authMiddleware := AuthMiddleware(jwtSecret)
	optionalAuth := OptionalAuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")

	// --- Public reads: anonymous callers see system-wide and coach-owned workouts ---
	public := apiV1.Group("")
	public.Use(optionalAuth)
	{
		public.GET("/exercises", exerciseHandler.ListExercises)
		public.GET("/exercises/:exerciseId", exerciseHandler.GetExercise)

		public.GET("/workouts", workoutHandler.ListWorkouts)
		public.GET("/workouts/:workoutId", workoutHandler.GetWorkout)
		public.GET("/workouts/:workoutId/image", workoutHandler.GetImage)
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			actor := getActorFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": actor.ID.Hex(), "role": actor.Role})
		})

		// POST /api/v1/workouts - users and coaches; the role picks the workout type
		protected.POST("/workouts", RoleMiddleware(domain.RoleUser, domain.RoleCoach), workoutHandler.CreateWorkout)

		// Ownership is checked per workout by the service.
		workoutGroup := protected.Group("/workouts/:workoutId")
		{
			workoutGroup.PATCH("", workoutHandler.UpdateWorkout)
			workoutGroup.DELETE("", workoutHandler.DeleteWorkout)
			workoutGroup.PUT("/active", workoutHandler.SetActive)

			workoutGroup.POST("/image/upload-url", workoutHandler.RequestImageUpload)
			workoutGroup.PUT("/image", workoutHandler.ConfirmImage)

			workoutGroup.POST("/phases", workoutHandler.AddPhase)
			workoutGroup.PATCH("/phases/:phaseType", workoutHandler.UpdatePhase)
			workoutGroup.PUT("/phases/:phaseType/order", workoutHandler.MovePhase)
			workoutGroup.DELETE("/phases/:phaseType", workoutHandler.RemovePhase)

			workoutGroup.POST("/phases/:phaseType/exercises", workoutHandler.AddExercise)
			workoutGroup.PATCH("/phases/:phaseType/exercises/:exerciseId", workoutHandler.UpdateExercise)
			workoutGroup.PUT("/phases/:phaseType/exercises/:exerciseId/order", workoutHandler.MoveExercise)
			workoutGroup.DELETE("/phases/:phaseType/exercises/:exerciseId", workoutHandler.RemoveExercise)
		}
	}
}
