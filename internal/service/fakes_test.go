package service

import (
	"alcyxob/workout-composer/internal/domain"
	"alcyxob/workout-composer/internal/repository"
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// memWorkoutRepo stores BSON round-tripped copies so callers never share memory
// with the store, like the mongo implementation.
type memWorkoutRepo struct {
	mu         sync.Mutex
	docs       map[primitive.ObjectID][]byte
	saves      int
	beforeSave func(id primitive.ObjectID) // lets tests interleave a concurrent writer
}

func newMemWorkoutRepo() *memWorkoutRepo {
	return &memWorkoutRepo{docs: map[primitive.ObjectID][]byte{}}
}

func (r *memWorkoutRepo) put(w *domain.Workout) {
	raw, err := bson.Marshal(w)
	if err != nil {
		panic(err)
	}
	r.docs[w.ID] = raw
}

func (r *memWorkoutRepo) get(id primitive.ObjectID) (*domain.Workout, bool) {
	raw, ok := r.docs[id]
	if !ok {
		return nil, false
	}
	var w domain.Workout
	if err := bson.Unmarshal(raw, &w); err != nil {
		panic(err)
	}
	return &w, true
}

func (r *memWorkoutRepo) Create(_ context.Context, w *domain.Workout) (primitive.ObjectID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if w.ID == primitive.NilObjectID {
		w.ID = primitive.NewObjectID()
	}
	w.Version = 1
	r.put(w)
	return w.ID, nil
}

func (r *memWorkoutRepo) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	w, ok := r.get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return w, nil
}

func (r *memWorkoutRepo) Save(_ context.Context, w *domain.Workout) error {
	if r.beforeSave != nil {
		r.beforeSave(w.ID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.get(w.ID)
	if !ok {
		return repository.ErrNotFound
	}
	if stored.Version != w.Version {
		return repository.ErrVersionConflict
	}
	w.Version++
	r.put(w)
	r.saves++
	return nil
}

func (r *memWorkoutRepo) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *memWorkoutRepo) ListVisible(_ context.Context, actorID primitive.ObjectID) ([]domain.Workout, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	// Returns everything so the service-side filter is what gets tested.
	out := make([]domain.Workout, 0, len(r.docs))
	for id := range r.docs {
		w, _ := r.get(id)
		out = append(out, *w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memWorkoutRepo) UpsertTemplate(ctx context.Context, w *domain.Workout) error {
	r.mu.Lock()
	for id := range r.docs {
		existing, _ := r.get(id)
		if existing.IsSystemWide() && existing.Name == w.Name {
			w.ID, w.Version, w.CreatedAt = existing.ID, existing.Version, existing.CreatedAt
			r.mu.Unlock()
			return r.Save(ctx, w)
		}
	}
	r.mu.Unlock()
	_, err := r.Create(ctx, w)
	return err
}

type memCatalog struct {
	entries map[primitive.ObjectID]domain.Exercise
}

func newMemCatalog(names ...string) (*memCatalog, []primitive.ObjectID) {
	c := &memCatalog{entries: map[primitive.ObjectID]domain.Exercise{}}
	ids := make([]primitive.ObjectID, 0, len(names))
	for _, n := range names {
		id := primitive.NewObjectID()
		c.entries[id] = domain.Exercise{ID: id, Name: n, MetricType: domain.MetricRepetitions}
		ids = append(ids, id)
	}
	return c, ids
}

func (c *memCatalog) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Exercise, error) {
	ex, ok := c.entries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &ex, nil
}

func (c *memCatalog) List(_ context.Context) ([]domain.Exercise, error) {
	out := make([]domain.Exercise, 0, len(c.entries))
	for _, ex := range c.entries {
		out = append(out, ex)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (c *memCatalog) UpsertByName(_ context.Context, ex *domain.Exercise) (primitive.ObjectID, error) {
	for id, existing := range c.entries {
		if existing.Name == ex.Name {
			ex.ID = id
			c.entries[id] = *ex
			return id, nil
		}
	}
	ex.ID = primitive.NewObjectID()
	c.entries[ex.ID] = *ex
	return ex.ID, nil
}

type fakeStorage struct {
	deleted []string
}

func (f *fakeStorage) GeneratePresignedUploadURL(_ context.Context, key, contentType string, _ time.Duration) (string, error) {
	return "https://upload.test/" + key + "?type=" + contentType, nil
}

func (f *fakeStorage) GeneratePresignedDownloadURL(_ context.Context, key string, _ time.Duration) (string, error) {
	return "https://download.test/" + key, nil
}

func (f *fakeStorage) DeleteObject(_ context.Context, key string) error {
	f.deleted = append(f.deleted, key)
	return nil
}
