// Package presets loads system-wide template workouts and their catalog
// exercises from YAML and seeds them at startup.
package presets

import (
	"alcyxob/workout-composer/internal/domain"
	"alcyxob/workout-composer/internal/logger"
	"alcyxob/workout-composer/internal/repository"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gopkg.in/yaml.v3"
)

type File struct {
	Exercises []ExerciseDef `yaml:"exercises"`
	Workouts  []WorkoutDef  `yaml:"workouts"`
}

type ExerciseDef struct {
	Name        string            `yaml:"name"`
	Description string            `yaml:"description,omitempty"`
	MuscleGroup string            `yaml:"muscleGroup,omitempty"`
	MetricType  domain.MetricType `yaml:"metricType"`
	VideoURL    string            `yaml:"videoUrl,omitempty"`
}

type WorkoutDef struct {
	Name                    string                      `yaml:"name"`
	Description             string                      `yaml:"description,omitempty"`
	Category                domain.WorkoutCategory      `yaml:"category,omitempty"`
	Difficulty              domain.DifficultyLevel      `yaml:"difficulty,omitempty"`
	Equipment               domain.EquipmentRequirement `yaml:"equipment,omitempty"`
	DurationOverrideMinutes *int                        `yaml:"durationMinutes,omitempty"`
	Phases                  []PhaseDef                  `yaml:"phases"`
}

type PhaseDef struct {
	Type        domain.PhaseType `yaml:"type"`
	Name        string           `yaml:"name"`
	Description string           `yaml:"description,omitempty"`
	Exercises   []PlacementDef   `yaml:"exercises,omitempty"`
}

// PlacementDef references a catalog exercise by name.
type PlacementDef struct {
	Exercise        string   `yaml:"exercise"`
	Sets            *int     `yaml:"sets,omitempty"`
	Repetitions     *int     `yaml:"repetitions,omitempty"`
	DurationSeconds *int     `yaml:"durationSeconds,omitempty"`
	WeightKg        *float64 `yaml:"weightKg,omitempty"`
	DistanceMeters  *float64 `yaml:"distanceMeters,omitempty"`
	RestSeconds     *int     `yaml:"restSeconds,omitempty"`
	Notes           string   `yaml:"notes,omitempty"`
}

func (p PlacementDef) parameters() domain.ExerciseParameters {
	return domain.ExerciseParameters{
		Repetitions:     p.Repetitions,
		Sets:            p.Sets,
		DurationSeconds: p.DurationSeconds,
		WeightKg:        p.WeightKg,
		DistanceMeters:  p.DistanceMeters,
		RestSeconds:     p.RestSeconds,
	}
}

func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read presets: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a presets document. Unknown keys are rejected.
func Parse(input []byte) (File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(input))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return File{}, fmt.Errorf("decode presets: %w", err)
	}
	if err := f.Validate(); err != nil {
		return File{}, err
	}
	return f, nil
}

// Validate checks the cross references only. Field-level rules are enforced by
// the domain when the workouts are built.
func (f File) Validate() error {
	known := make(map[string]struct{}, len(f.Exercises))
	for i, ex := range f.Exercises {
		name := strings.TrimSpace(ex.Name)
		if name == "" {
			return fmt.Errorf("exercises[%d].name is required", i)
		}
		if _, dup := known[name]; dup {
			return fmt.Errorf("exercises[%d].name must be unique (duplicate %q)", i, name)
		}
		if !ex.MetricType.IsValid() {
			return fmt.Errorf("exercises[%d].metricType unsupported: %q", i, ex.MetricType)
		}
		known[name] = struct{}{}
	}

	workouts := make(map[string]struct{}, len(f.Workouts))
	for i, w := range f.Workouts {
		name := strings.TrimSpace(w.Name)
		if _, dup := workouts[name]; dup {
			return fmt.Errorf("workouts[%d].name must be unique (duplicate %q)", i, name)
		}
		workouts[name] = struct{}{}
		for j, p := range w.Phases {
			for k, pl := range p.Exercises {
				if _, ok := known[strings.TrimSpace(pl.Exercise)]; !ok {
					return fmt.Errorf("workouts[%d].phases[%d].exercises[%d]: unknown exercise %q", i, j, k, pl.Exercise)
				}
			}
		}
	}
	return nil
}

// Build assembles the template through the aggregate so every invariant holds.
// catalog maps exercise names to catalog IDs.
func (d WorkoutDef) Build(catalog map[string]primitive.ObjectID) (*domain.Workout, error) {
	w, err := domain.NewTemplateWorkout(domain.NewWorkoutParams{
		Name:        d.Name,
		Description: d.Description,
		Category:    d.Category,
		Difficulty:  d.Difficulty,
		Equipment:   d.Equipment,
	})
	if err != nil {
		return nil, err
	}
	if d.DurationOverrideMinutes != nil {
		if err := w.UpdateDetails(domain.WorkoutDetailsUpdate{DurationOverrideMinutes: d.DurationOverrideMinutes}); err != nil {
			return nil, err
		}
	}
	for _, p := range d.Phases {
		if _, err := w.AddPhase(p.Type, p.Name, nil); err != nil {
			return nil, fmt.Errorf("phase %q: %w", p.Type, err)
		}
		if p.Description != "" {
			if err := w.UpdatePhaseDetails(p.Type, nil, &p.Description); err != nil {
				return nil, fmt.Errorf("phase %q: %w", p.Type, err)
			}
		}
		for _, pl := range p.Exercises {
			name := strings.TrimSpace(pl.Exercise)
			id, ok := catalog[name]
			if !ok {
				return nil, fmt.Errorf("phase %q: unknown exercise %q", p.Type, name)
			}
			if _, err := w.AddExercise(p.Type, id, name, pl.parameters(), pl.Notes); err != nil {
				return nil, fmt.Errorf("phase %q, exercise %q: %w", p.Type, name, err)
			}
		}
	}
	return w, nil
}

// Seed upserts the catalog entries, then the templates, both keyed by name.
func Seed(ctx context.Context, log *logger.Logger, f File, exercises repository.ExerciseRepository, workouts repository.WorkoutRepository) error {
	catalog := make(map[string]primitive.ObjectID, len(f.Exercises))
	for _, def := range f.Exercises {
		ex := &domain.Exercise{
			Name:        strings.TrimSpace(def.Name),
			Description: def.Description,
			MuscleGroup: def.MuscleGroup,
			MetricType:  def.MetricType,
			VideoURL:    def.VideoURL,
		}
		id, err := exercises.UpsertByName(ctx, ex)
		if err != nil {
			return fmt.Errorf("seed exercise %q: %w", ex.Name, err)
		}
		catalog[ex.Name] = id
	}

	for _, def := range f.Workouts {
		w, err := def.Build(catalog)
		if err != nil {
			return fmt.Errorf("build template %q: %w", def.Name, err)
		}
		if err := workouts.UpsertTemplate(ctx, w); err != nil {
			return fmt.Errorf("seed template %q: %w", def.Name, err)
		}
		log.Debug("template seeded", "name", w.Name, "workoutId", w.ID.Hex(), "phases", w.PhaseCount())
	}
	log.Info("presets seeded", "exercises", len(f.Exercises), "workouts", len(f.Workouts))
	return nil
}
