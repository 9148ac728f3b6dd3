// internal/domain/workout.go
package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	MaxWorkoutNameLength        = 200
	MaxWorkoutDescriptionLength = 1000
)

// now is swapped in tests to observe timestamp refreshes.
var now = func() time.Time { return time.Now().UTC() }

// Workout is the aggregate root: every change to its phases and their
// exercise placements goes through its methods.
type Workout struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Name        string               `bson:"name" json:"name"`
	Description string               `bson:"description,omitempty" json:"description,omitempty"`
	Type        WorkoutType          `bson:"type" json:"type"`
	Category    WorkoutCategory      `bson:"category" json:"category"`
	Difficulty  DifficultyLevel      `bson:"difficulty" json:"difficulty"`
	Equipment   EquipmentRequirement `bson:"equipment" json:"equipment"`
	IsActive    bool                 `bson:"isActive" json:"isActive"`
	ImageKey    string               `bson:"imageKey,omitempty" json:"-"` // Object key in S3, internal use

	// Ownership. Neither set means a system-wide workout.
	UserID  *primitive.ObjectID `bson:"userId,omitempty" json:"userId,omitempty"`
	CoachID *primitive.ObjectID `bson:"coachId,omitempty" json:"coachId,omitempty"`

	DurationOverrideMinutes *int            `bson:"durationOverrideMinutes,omitempty" json:"durationOverrideMinutes,omitempty"`
	Phases                  []*WorkoutPhase `bson:"phases" json:"phases"`

	Version   int64      `bson:"version" json:"version"` // Bumped by the repository on every save
	CreatedAt time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt *time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// NewWorkoutParams holds the descriptive fields shared by all factories.
// Empty enum values fall back to full_body / beginner / none.
type NewWorkoutParams struct {
	Name        string
	Description string
	Category    WorkoutCategory
	Difficulty  DifficultyLevel
	Equipment   EquipmentRequirement
}

// NewUserWorkout creates a workout owned by a regular user.
func NewUserWorkout(userID primitive.ObjectID, params NewWorkoutParams) (*Workout, error) {
	if userID == primitive.NilObjectID {
		return nil, invalid("userId", "is required")
	}
	return newWorkout(WorkoutTypeUserCreated, &userID, nil, params)
}

// NewCoachWorkout creates a workout owned by a coach and visible to everyone.
func NewCoachWorkout(coachID primitive.ObjectID, params NewWorkoutParams) (*Workout, error) {
	if coachID == primitive.NilObjectID {
		return nil, invalid("coachId", "is required")
	}
	return newWorkout(WorkoutTypeCoachCreated, nil, &coachID, params)
}

// NewAssignedWorkout creates a workout a coach builds for one of their clients.
func NewAssignedWorkout(coachID, userID primitive.ObjectID, params NewWorkoutParams) (*Workout, error) {
	if coachID == primitive.NilObjectID || userID == primitive.NilObjectID {
		return nil, invalid("owner", "coach and user IDs are required")
	}
	return newWorkout(WorkoutTypeCoachCreated, &userID, &coachID, params)
}

// NewTemplateWorkout creates a system-wide preset with no owner.
func NewTemplateWorkout(params NewWorkoutParams) (*Workout, error) {
	return newWorkout(WorkoutTypeTemplate, nil, nil, params)
}

// NewAIGeneratedWorkout creates a generated workout owned by the user it was generated for.
func NewAIGeneratedWorkout(userID primitive.ObjectID, params NewWorkoutParams) (*Workout, error) {
	if userID == primitive.NilObjectID {
		return nil, invalid("userId", "is required")
	}
	return newWorkout(WorkoutTypeAIGenerated, &userID, nil, params)
}

func newWorkout(workoutType WorkoutType, userID, coachID *primitive.ObjectID, params NewWorkoutParams) (*Workout, error) {
	name, err := validateWorkoutName(params.Name)
	if err != nil {
		return nil, err
	}
	description, err := validateWorkoutDescription(params.Description)
	if err != nil {
		return nil, err
	}

	category := params.Category
	if category == "" {
		category = CategoryFullBody
	}
	if !category.IsValid() {
		return nil, invalid("category", "unknown category %q", category)
	}
	difficulty := params.Difficulty
	if difficulty == "" {
		difficulty = DifficultyBeginner
	}
	if !difficulty.IsValid() {
		return nil, invalid("difficulty", "unknown difficulty %q", difficulty)
	}
	equipment := params.Equipment
	if equipment == "" {
		equipment = EquipmentNone
	}
	if !equipment.IsValid() {
		return nil, invalid("equipment", "unknown equipment requirement %q", equipment)
	}

	return &Workout{
		ID:          primitive.NewObjectID(),
		Name:        name,
		Description: description,
		Type:        workoutType,
		Category:    category,
		Difficulty:  difficulty,
		Equipment:   equipment,
		IsActive:    true,
		UserID:      userID,
		CoachID:     coachID,
		Phases:      []*WorkoutPhase{},
		CreatedAt:   now(),
	}, nil
}

func validateWorkoutName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := len([]rune(name))
	if n < 1 || n > MaxWorkoutNameLength {
		return "", invalid("name", "must be between 1 and %d characters", MaxWorkoutNameLength)
	}
	return name, nil
}

func validateWorkoutDescription(description string) (string, error) {
	description = strings.TrimSpace(description)
	if len([]rune(description)) > MaxWorkoutDescriptionLength {
		return "", invalid("description", "must be at most %d characters", MaxWorkoutDescriptionLength)
	}
	return description, nil
}

// touch stamps UpdatedAt. Only called after a mutation actually changed state.
func (w *Workout) touch() {
	t := now()
	w.UpdatedAt = &t
}

// --- Ownership ---

// IsSystemWide reports whether the workout has neither an owning user nor coach.
func (w *Workout) IsSystemWide() bool {
	return w.UserID == nil && w.CoachID == nil
}

func (w *Workout) IsOwnedByUser(id primitive.ObjectID) bool {
	return id != primitive.NilObjectID && w.UserID != nil && *w.UserID == id
}

func (w *Workout) IsOwnedByCoach(id primitive.ObjectID) bool {
	return id != primitive.NilObjectID && w.CoachID != nil && *w.CoachID == id
}

// --- Derived views ---

func (w *Workout) PhaseCount() int {
	return len(w.Phases)
}

func (w *Workout) TotalExercises() int {
	total := 0
	for _, p := range w.Phases {
		total += len(p.Exercises)
	}
	return total
}

// OrderedPhases returns the phases sorted by Order.
func (w *Workout) OrderedPhases() []*WorkoutPhase {
	return sortedChildren[PhaseType](w.Phases)
}

// Phase returns the phase of the given type, if present.
func (w *Workout) Phase(phaseType PhaseType) (*WorkoutPhase, bool) {
	idx := indexOfChild(w.Phases, phaseType)
	if idx < 0 {
		return nil, false
	}
	return w.Phases[idx], true
}

func (w *Workout) mustPhase(phaseType PhaseType) (*WorkoutPhase, error) {
	p, ok := w.Phase(phaseType)
	if !ok {
		return nil, &NotFoundError{Collection: CollectionPhases, Key: string(phaseType)}
	}
	return p, nil
}

// CalculateActualDurationMinutes sums the phase durations, with a floor of one minute.
func (w *Workout) CalculateActualDurationMinutes() int {
	total := 0
	for _, p := range w.Phases {
		total += p.EstimatedDurationMinutes
	}
	if total < MinWorkoutMinutes {
		return MinWorkoutMinutes
	}
	return total
}

// EstimatedDurationMinutes is the override when one is set, otherwise the roll-up.
func (w *Workout) EstimatedDurationMinutes() int {
	if w.DurationOverrideMinutes != nil {
		return *w.DurationOverrideMinutes
	}
	return w.CalculateActualDurationMinutes()
}

// --- Phase operations ---

// AddPhase appends a new phase of the given type. When orderHint is set the
// phase is then moved to that slot; the hint must lie in [1, PhaseCount()+1].
func (w *Workout) AddPhase(phaseType PhaseType, name string, orderHint *int) (*WorkoutPhase, error) {
	if _, exists := w.Phase(phaseType); exists {
		return nil, &DuplicateKeyError{Collection: CollectionPhases, Key: string(phaseType)}
	}
	if orderHint != nil && (*orderHint < 1 || *orderHint > len(w.Phases)+1) {
		return nil, &InvalidOrderError{Collection: CollectionPhases, Requested: *orderHint, Count: len(w.Phases) + 1}
	}
	phase, err := newWorkoutPhase(phaseType, name)
	if err != nil {
		return nil, err
	}

	phases, err := appendChild[PhaseType](CollectionPhases, w.Phases, phase)
	if err != nil {
		return nil, err
	}
	w.Phases = phases
	if orderHint != nil {
		if _, err := moveChild(CollectionPhases, w.Phases, phaseType, *orderHint); err != nil {
			return nil, err
		}
	}
	w.touch()
	return phase, nil
}

// RemovePhase drops the phase and renumbers the rest.
func (w *Workout) RemovePhase(phaseType PhaseType) error {
	phases, err := removeChild(CollectionPhases, w.Phases, phaseType)
	if err != nil {
		return err
	}
	w.Phases = phases
	w.touch()
	return nil
}

// MovePhase repositions a phase. Moving to its current slot changes nothing.
func (w *Workout) MovePhase(phaseType PhaseType, newOrder int) error {
	changed, err := moveChild(CollectionPhases, w.Phases, phaseType, newOrder)
	if err != nil {
		return err
	}
	if changed {
		w.touch()
	}
	return nil
}

func (w *Workout) UpdatePhaseDetails(phaseType PhaseType, name, description *string) error {
	phase, err := w.mustPhase(phaseType)
	if err != nil {
		return err
	}
	changed, err := phase.UpdateDetails(name, description)
	if err != nil {
		return err
	}
	if changed {
		w.touch()
	}
	return nil
}

// --- Exercise operations (routed through the aggregate so UpdatedAt stays accurate) ---

func (w *Workout) AddExercise(phaseType PhaseType, exerciseID primitive.ObjectID, name string, params ExerciseParameters, notes string) (*WorkoutExercise, error) {
	phase, err := w.mustPhase(phaseType)
	if err != nil {
		return nil, err
	}
	placement, err := phase.AddExercise(exerciseID, name, params, notes)
	if err != nil {
		return nil, err
	}
	w.touch()
	return placement, nil
}

func (w *Workout) RemoveExercise(phaseType PhaseType, exerciseID primitive.ObjectID) error {
	phase, err := w.mustPhase(phaseType)
	if err != nil {
		return err
	}
	if err := phase.RemoveExercise(exerciseID); err != nil {
		return err
	}
	w.touch()
	return nil
}

func (w *Workout) MoveExercise(phaseType PhaseType, exerciseID primitive.ObjectID, newOrder int) error {
	phase, err := w.mustPhase(phaseType)
	if err != nil {
		return err
	}
	changed, err := phase.MoveExercise(exerciseID, newOrder)
	if err != nil {
		return err
	}
	if changed {
		w.touch()
	}
	return nil
}

func (w *Workout) UpdateExerciseParameters(phaseType PhaseType, exerciseID primitive.ObjectID, params ExerciseParameters, notes *string) error {
	phase, err := w.mustPhase(phaseType)
	if err != nil {
		return err
	}
	changed, err := phase.UpdateParameters(exerciseID, params, notes)
	if err != nil {
		return err
	}
	if changed {
		w.touch()
	}
	return nil
}

// --- Details and lifecycle ---

// WorkoutDetailsUpdate carries optional edits. Nil fields are left alone.
type WorkoutDetailsUpdate struct {
	Name                    *string
	Description             *string
	Difficulty              *DifficultyLevel
	DurationOverrideMinutes *int
}

// UpdateDetails validates every present field before applying any of them.
func (w *Workout) UpdateDetails(u WorkoutDetailsUpdate) error {
	name, description, difficulty := w.Name, w.Description, w.Difficulty
	override := w.DurationOverrideMinutes

	if u.Name != nil {
		n, err := validateWorkoutName(*u.Name)
		if err != nil {
			return err
		}
		name = n
	}
	if u.Description != nil {
		d, err := validateWorkoutDescription(*u.Description)
		if err != nil {
			return err
		}
		description = d
	}
	if u.Difficulty != nil {
		if !u.Difficulty.IsValid() {
			return invalid("difficulty", "unknown difficulty %q", *u.Difficulty)
		}
		difficulty = *u.Difficulty
	}
	if u.DurationOverrideMinutes != nil {
		m := *u.DurationOverrideMinutes
		if m < MinWorkoutMinutes || m > MaxWorkoutMinutes {
			return invalid("durationMinutes", "must be between %d and %d", MinWorkoutMinutes, MaxWorkoutMinutes)
		}
		override = &m
	}

	changed := name != w.Name || description != w.Description || difficulty != w.Difficulty ||
		!eqInt(override, w.DurationOverrideMinutes)
	if !changed {
		return nil
	}
	w.Name, w.Description, w.Difficulty = name, description, difficulty
	w.DurationOverrideMinutes = override
	w.touch()
	return nil
}

// Activate marks the workout active. Reports false, and leaves UpdatedAt alone, if it already was.
func (w *Workout) Activate() bool {
	return w.setActive(true)
}

// Deactivate marks the workout inactive. Reports false, and leaves UpdatedAt alone, if it already was.
func (w *Workout) Deactivate() bool {
	return w.setActive(false)
}

func (w *Workout) setActive(active bool) bool {
	if w.IsActive == active {
		return false
	}
	w.IsActive = active
	w.touch()
	return true
}

// SetImage records the storage key of the workout image.
func (w *Workout) SetImage(key string) bool {
	key = strings.TrimSpace(key)
	if key == w.ImageKey {
		return false
	}
	w.ImageKey = key
	w.touch()
	return true
}
