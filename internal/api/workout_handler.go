package api

import (
	"alcyxob/workout-composer/internal/domain"
	"alcyxob/workout-composer/internal/logger"
	"alcyxob/workout-composer/internal/service"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// WorkoutHandler holds the workout service dependency.
type WorkoutHandler struct {
	workoutService service.WorkoutService
	log            *logger.Logger
}

// NewWorkoutHandler creates a new WorkoutHandler.
func NewWorkoutHandler(workoutService service.WorkoutService, log *logger.Logger) *WorkoutHandler {
	return &WorkoutHandler{
		workoutService: workoutService,
		log:            log.With("handler", "WorkoutHandler"),
	}
}

// --- DTOs for API (Data Transfer Objects) ---

type CreateWorkoutRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Difficulty  string `json:"difficulty"`
	Equipment   string `json:"equipment"`
	ClientID    string `json:"clientId" binding:"omitempty,len=24,hexadecimal"` // Coach building for a client
	Generated   bool   `json:"generated"`
}

type UpdateWorkoutRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	Difficulty      *string `json:"difficulty"`
	DurationMinutes *int    `json:"durationMinutes"`
}

type SetActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

type AddPhaseRequest struct {
	Type  string `json:"type" binding:"required"`
	Name  string `json:"name" binding:"required"`
	Order *int   `json:"order"` // Optional slot in [1, phaseCount+1]
}

type UpdatePhaseRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type MoveRequest struct {
	Order *int `json:"order" binding:"required"`
}

// ExerciseParametersRequest mirrors domain.ExerciseParameters; ranges are checked by the domain.
type ExerciseParametersRequest struct {
	Repetitions     *int     `json:"repetitions"`
	Sets            *int     `json:"sets"`
	DurationSeconds *int     `json:"durationSeconds"`
	WeightKg        *float64 `json:"weightKg"`
	DistanceMeters  *float64 `json:"distanceMeters"`
	RestSeconds     *int     `json:"restSeconds"`
}

func (p ExerciseParametersRequest) toDomain() domain.ExerciseParameters {
	return domain.ExerciseParameters{
		Repetitions:     p.Repetitions,
		Sets:            p.Sets,
		DurationSeconds: p.DurationSeconds,
		WeightKg:        p.WeightKg,
		DistanceMeters:  p.DistanceMeters,
		RestSeconds:     p.RestSeconds,
	}
}

type AddExerciseRequest struct {
	ExerciseID string `json:"exerciseId" binding:"required,len=24,hexadecimal"`
	ExerciseParametersRequest
	Notes string `json:"notes"`
}

type UpdateExerciseRequest struct {
	ExerciseParametersRequest
	Notes *string `json:"notes"`
}

type ImageUploadRequest struct {
	ContentType string `json:"contentType" binding:"required"`
}

type ImageUploadResponse struct {
	UploadURL string    `json:"uploadUrl"`
	ObjectKey string    `json:"objectKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ConfirmImageRequest struct {
	ObjectKey string `json:"objectKey" binding:"required"`
}

type PlacementResponse struct {
	ExerciseID string `json:"exerciseId"`
	Name       string `json:"name"`
	Order      int    `json:"order"`
	ExerciseParametersRequest
	Notes            string `json:"notes,omitempty"`
	EstimatedMinutes int    `json:"estimatedMinutes"`
}

type PhaseResponse struct {
	Type                     domain.PhaseType    `json:"type"`
	Name                     string              `json:"name"`
	Description              string              `json:"description,omitempty"`
	Order                    int                 `json:"order"`
	EstimatedDurationMinutes int                 `json:"estimatedDurationMinutes"`
	Exercises                []PlacementResponse `json:"exercises"`
}

type WorkoutResponse struct {
	ID                        string                      `json:"id"`
	Name                      string                      `json:"name"`
	Description               string                      `json:"description,omitempty"`
	Type                      domain.WorkoutType          `json:"type"`
	Category                  domain.WorkoutCategory      `json:"category"`
	Difficulty                domain.DifficultyLevel      `json:"difficulty"`
	Equipment                 domain.EquipmentRequirement `json:"equipment"`
	IsActive                  bool                        `json:"isActive"`
	HasImage                  bool                        `json:"hasImage"`
	UserID                    string                      `json:"userId,omitempty"`
	CoachID                   string                      `json:"coachId,omitempty"`
	EstimatedDurationMinutes  int                         `json:"estimatedDurationMinutes"`
	CalculatedDurationMinutes int                         `json:"calculatedDurationMinutes"`
	DurationOverrideMinutes   *int                        `json:"durationOverrideMinutes,omitempty"`
	PhaseCount                int                         `json:"phaseCount"`
	TotalExercises            int                         `json:"totalExercises"`
	Phases                    []PhaseResponse             `json:"phases"`
	Version                   int64                       `json:"version"`
	CreatedAt                 time.Time                   `json:"createdAt"`
	UpdatedAt                 *time.Time                  `json:"updatedAt,omitempty"`
}

// MapWorkoutToResponse converts a domain.Workout into its DTO with phases and
// placements in display order.
func MapWorkoutToResponse(w *domain.Workout) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	resp := WorkoutResponse{
		ID:                        w.ID.Hex(),
		Name:                      w.Name,
		Description:               w.Description,
		Type:                      w.Type,
		Category:                  w.Category,
		Difficulty:                w.Difficulty,
		Equipment:                 w.Equipment,
		IsActive:                  w.IsActive,
		HasImage:                  w.ImageKey != "",
		EstimatedDurationMinutes:  w.EstimatedDurationMinutes(),
		CalculatedDurationMinutes: w.CalculateActualDurationMinutes(),
		DurationOverrideMinutes:   w.DurationOverrideMinutes,
		PhaseCount:                w.PhaseCount(),
		TotalExercises:            w.TotalExercises(),
		Version:                   w.Version,
		CreatedAt:                 w.CreatedAt,
		UpdatedAt:                 w.UpdatedAt,
	}
	if w.UserID != nil {
		resp.UserID = w.UserID.Hex()
	}
	if w.CoachID != nil {
		resp.CoachID = w.CoachID.Hex()
	}

	phases := w.OrderedPhases()
	resp.Phases = make([]PhaseResponse, len(phases))
	for i, p := range phases {
		exercises := p.OrderedExercises()
		pr := PhaseResponse{
			Type:                     p.Type,
			Name:                     p.Name,
			Description:              p.Description,
			Order:                    p.Order,
			EstimatedDurationMinutes: p.EstimatedDurationMinutes,
			Exercises:                make([]PlacementResponse, len(exercises)),
		}
		for j, e := range exercises {
			pr.Exercises[j] = PlacementResponse{
				ExerciseID: e.ExerciseID.Hex(),
				Name:       e.Name,
				Order:      e.Order,
				ExerciseParametersRequest: ExerciseParametersRequest{
					Repetitions:     e.Repetitions,
					Sets:            e.Sets,
					DurationSeconds: e.DurationSeconds,
					WeightKg:        e.WeightKg,
					DistanceMeters:  e.DistanceMeters,
					RestSeconds:     e.RestSeconds,
				},
				Notes:            e.Notes,
				EstimatedMinutes: e.EstimatedMinutes(),
			}
		}
		resp.Phases[i] = pr
	}
	return resp
}

// MapWorkoutsToResponse converts a slice of domain.Workout to DTOs.
func MapWorkoutsToResponse(workouts []domain.Workout) []WorkoutResponse {
	responses := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		responses[i] = MapWorkoutToResponse(&workouts[i])
	}
	return responses
}

// --- Helpers ---

func parseObjectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid "+name+" format")
		return primitive.NilObjectID, false
	}
	return id, true
}

func phaseTypeParam(c *gin.Context) domain.PhaseType {
	return domain.PhaseType(c.Param("phaseType"))
}

// respond writes the workout or maps the error.
func (h *WorkoutHandler) respond(c *gin.Context, status int, w *domain.Workout, err error) {
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(status, MapWorkoutToResponse(w))
}

// --- Handler Methods ---

// CreateWorkout handles POST /workouts
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	var req CreateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	input := service.CreateWorkoutInput{
		Params: domain.NewWorkoutParams{
			Name:        req.Name,
			Description: req.Description,
			Category:    domain.WorkoutCategory(req.Category),
			Difficulty:  domain.DifficultyLevel(req.Difficulty),
			Equipment:   domain.EquipmentRequirement(req.Equipment),
		},
		Generated: req.Generated,
	}
	if req.ClientID != "" {
		clientID, err := primitive.ObjectIDFromHex(req.ClientID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid clientId format")
			return
		}
		input.ClientID = &clientID
	}

	workout, err := h.workoutService.Create(c.Request.Context(), getActorFromContext(c), input)
	h.respond(c, http.StatusCreated, workout, err)
}

// ListWorkouts handles GET /workouts
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	workouts, err := h.workoutService.ListVisible(c.Request.Context(), getActorFromContext(c).ID)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, MapWorkoutsToResponse(workouts))
}

// GetWorkout handles GET /workouts/:workoutId
func (h *WorkoutHandler) GetWorkout(c *gin.Context) {
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	workout, err := h.workoutService.Get(c.Request.Context(), getActorFromContext(c).ID, workoutID)
	h.respond(c, http.StatusOK, workout, err)
}

// UpdateWorkout handles PATCH /workouts/:workoutId
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	var req UpdateWorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	update := domain.WorkoutDetailsUpdate{
		Name:                    req.Name,
		Description:             req.Description,
		DurationOverrideMinutes: req.DurationMinutes,
	}
	if req.Difficulty != nil {
		d := domain.DifficultyLevel(*req.Difficulty)
		update.Difficulty = &d
	}
	workout, err := h.workoutService.UpdateDetails(c.Request.Context(), getActorFromContext(c).ID, workoutID, update)
	h.respond(c, http.StatusOK, workout, err)
}

// SetActive handles PUT /workouts/:workoutId/active
func (h *WorkoutHandler) SetActive(c *gin.Context) {
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	workout, err := h.workoutService.SetActive(c.Request.Context(), getActorFromContext(c).ID, workoutID, *req.Active)
	h.respond(c, http.StatusOK, workout, err)
}

// DeleteWorkout handles DELETE /workouts/:workoutId
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	if err := h.workoutService.Delete(c.Request.Context(), getActorFromContext(c).ID, workoutID); err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// === Phases ===

// AddPhase handles POST /workouts/:workoutId/phases
func (h *WorkoutHandler) AddPhase(c *gin.Context) {
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	var req AddPhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	workout, err := h.workoutService.AddPhase(c.Request.Context(), getActorFromContext(c).ID, workoutID,
		domain.PhaseType(req.Type), req.Name, req.Order)
	h.respond(c, http.StatusCreated, workout, err)
}

// UpdatePhase handles PATCH /workouts/:workoutId/phases/:phaseType
func (h *WorkoutHandler) UpdatePhase(c *gin.Context) {
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	var req UpdatePhaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	workout, err := h.workoutService.UpdatePhaseDetails(c.Request.Context(), getActorFromContext(c).ID, workoutID,
		phaseTypeParam(c), req.Name, req.Description)
	h.respond(c, http.StatusOK, workout, err)
}

// MovePhase handles PUT /workouts/:workoutId/phases/:phaseType/order
func (h *WorkoutHandler) MovePhase(c *gin.Context) {
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	workout, err := h.workoutService.MovePhase(c.Request.Context(), getActorFromContext(c).ID, workoutID,
		phaseTypeParam(c), *req.Order)
	h.respond(c, http.StatusOK, workout, err)
}

// RemovePhase handles DELETE /workouts/:workoutId/phases/:phaseType
func (h *WorkoutHandler) RemovePhase(c *gin.Context) {
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	workout, err := h.workoutService.RemovePhase(c.Request.Context(), getActorFromContext(c).ID, workoutID, phaseTypeParam(c))
	h.respond(c, http.StatusOK, workout, err)
}

// === Exercise placements ===

// AddExercise handles POST /workouts/:workoutId/phases/:phaseType/exercises
func (h *WorkoutHandler) AddExercise(c *gin.Context) {
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	var req AddExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	exerciseID, err := primitive.ObjectIDFromHex(req.ExerciseID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "Invalid exerciseId format")
		return
	}
	workout, err := h.workoutService.AddExercise(c.Request.Context(), getActorFromContext(c).ID, workoutID,
		phaseTypeParam(c), exerciseID, req.toDomain(), req.Notes)
	h.respond(c, http.StatusCreated, workout, err)
}

// UpdateExercise handles PATCH /workouts/:workoutId/phases/:phaseType/exercises/:exerciseId
func (h *WorkoutHandler) UpdateExercise(c *gin.Context) {
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	exerciseID, ok := parseObjectIDParam(c, "exerciseId")
	if !ok {
		return
	}
	var req UpdateExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	workout, err := h.workoutService.UpdateExerciseParameters(c.Request.Context(), getActorFromContext(c).ID, workoutID,
		phaseTypeParam(c), exerciseID, req.toDomain(), req.Notes)
	h.respond(c, http.StatusOK, workout, err)
}

// MoveExercise handles PUT /workouts/:workoutId/phases/:phaseType/exercises/:exerciseId/order
func (h *WorkoutHandler) MoveExercise(c *gin.Context) {
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	exerciseID, ok := parseObjectIDParam(c, "exerciseId")
	if !ok {
		return
	}
	var req MoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	workout, err := h.workoutService.MoveExercise(c.Request.Context(), getActorFromContext(c).ID, workoutID,
		phaseTypeParam(c), exerciseID, *req.Order)
	h.respond(c, http.StatusOK, workout, err)
}

// RemoveExercise handles DELETE /workouts/:workoutId/phases/:phaseType/exercises/:exerciseId
func (h *WorkoutHandler) RemoveExercise(c *gin.Context) {
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	exerciseID, ok := parseObjectIDParam(c, "exerciseId")
	if !ok {
		return
	}
	workout, err := h.workoutService.RemoveExercise(c.Request.Context(), getActorFromContext(c).ID, workoutID,
		phaseTypeParam(c), exerciseID)
	h.respond(c, http.StatusOK, workout, err)
}

// === Image ===

// RequestImageUpload handles POST /workouts/:workoutId/image/upload-url
func (h *WorkoutHandler) RequestImageUpload(c *gin.Context) {
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	var req ImageUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	upload, err := h.workoutService.RequestImageUpload(c.Request.Context(), getActorFromContext(c).ID, workoutID, req.ContentType)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, ImageUploadResponse{
		UploadURL: upload.URL,
		ObjectKey: upload.ObjectKey,
		ExpiresAt: upload.ExpiresAt,
	})
}

// ConfirmImage handles PUT /workouts/:workoutId/image
func (h *WorkoutHandler) ConfirmImage(c *gin.Context) {
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	var req ConfirmImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}
	workout, err := h.workoutService.ConfirmImage(c.Request.Context(), getActorFromContext(c).ID, workoutID, req.ObjectKey)
	h.respond(c, http.StatusOK, workout, err)
}

// GetImage handles GET /workouts/:workoutId/image by redirecting to a presigned URL.
func (h *WorkoutHandler) GetImage(c *gin.Context) {
	workoutID, ok := parseObjectIDParam(c, "workoutId")
	if !ok {
		return
	}
	url, err := h.workoutService.GetImageURL(c.Request.Context(), getActorFromContext(c).ID, workoutID)
	if err != nil {
		respondWithError(c, h.log, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}
