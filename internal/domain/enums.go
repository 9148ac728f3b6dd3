// internal/domain/enums.go
package domain

// WorkoutType records which factory path created a workout.
type WorkoutType string

const (
	WorkoutTypeUserCreated  WorkoutType = "user_created"
	WorkoutTypeCoachCreated WorkoutType = "coach_created"
	WorkoutTypeTemplate     WorkoutType = "template"     // System preset, no owner
	WorkoutTypeAIGenerated  WorkoutType = "ai_generated" // Generated for a user
)

func (t WorkoutType) IsValid() bool {
	switch t {
	case WorkoutTypeUserCreated, WorkoutTypeCoachCreated, WorkoutTypeTemplate, WorkoutTypeAIGenerated:
		return true
	}
	return false
}

// WorkoutCategory is the broad training focus of a workout.
type WorkoutCategory string

const (
	CategoryStrength  WorkoutCategory = "strength"
	CategoryCardio    WorkoutCategory = "cardio"
	CategoryHIIT      WorkoutCategory = "hiit"
	CategoryMobility  WorkoutCategory = "mobility"
	CategoryEndurance WorkoutCategory = "endurance"
	CategoryFullBody  WorkoutCategory = "full_body"
)

func (c WorkoutCategory) IsValid() bool {
	switch c {
	case CategoryStrength, CategoryCardio, CategoryHIIT, CategoryMobility, CategoryEndurance, CategoryFullBody:
		return true
	}
	return false
}

type DifficultyLevel string

const (
	DifficultyBeginner     DifficultyLevel = "beginner"
	DifficultyIntermediate DifficultyLevel = "intermediate"
	DifficultyAdvanced     DifficultyLevel = "advanced"
	DifficultyExpert       DifficultyLevel = "expert"
)

func (d DifficultyLevel) IsValid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyExpert:
		return true
	}
	return false
}

// EquipmentRequirement describes what a client needs to perform the workout.
type EquipmentRequirement string

const (
	EquipmentNone    EquipmentRequirement = "none"
	EquipmentMinimal EquipmentRequirement = "minimal"  // Bands, a mat, light dumbbells
	EquipmentHomeGym EquipmentRequirement = "home_gym" // Rack, bench, adjustable weights
	EquipmentFullGym EquipmentRequirement = "full_gym"
)

func (e EquipmentRequirement) IsValid() bool {
	switch e {
	case EquipmentNone, EquipmentMinimal, EquipmentHomeGym, EquipmentFullGym:
		return true
	}
	return false
}

// PhaseType identifies a phase within a workout. A workout holds at most one phase per type.
type PhaseType string

const (
	PhaseWarmUp     PhaseType = "warm_up"
	PhaseActivation PhaseType = "activation"
	PhaseMainEffort PhaseType = "main_effort"
	PhaseRecovery   PhaseType = "recovery"
	PhaseCoolDown   PhaseType = "cool_down"
	PhaseStretching PhaseType = "stretching"
	PhaseSkill      PhaseType = "skill"
)

func (p PhaseType) IsValid() bool {
	switch p {
	case PhaseWarmUp, PhaseActivation, PhaseMainEffort, PhaseRecovery, PhaseCoolDown, PhaseStretching, PhaseSkill:
		return true
	}
	return false
}

// DefaultDurationMinutes is the estimate used for a phase that has no exercises yet.
func (p PhaseType) DefaultDurationMinutes() int {
	switch p {
	case PhaseWarmUp:
		return 8
	case PhaseMainEffort:
		return 25
	case PhaseRecovery:
		return 10
	case PhaseCoolDown:
		return 5
	case PhaseStretching:
		return 10
	default:
		return 15
	}
}
