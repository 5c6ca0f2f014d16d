package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"todo-hub-api/internal/domain"
)

// MockProjectRepository implements repository.ProjectRepository against an
// in-memory map. Function fields override the default behavior per test.
type MockProjectRepository struct {
	projects map[uuid.UUID]*domain.Project

	CreateFunc          func(ctx context.Context, project *domain.Project) error
	FindByIDAndOwnerFunc func(ctx context.Context, id, ownerID uuid.UUID) (*domain.Project, error)
	FindByOwnerFunc     func(ctx context.Context, ownerID uuid.UUID) ([]*domain.Project, error)
	DeleteFunc          func(ctx context.Context, id, ownerID uuid.UUID) error
	MutateOwnedFunc     func(ctx context.Context, id, ownerID uuid.UUID, fn func(*domain.Project) error) (*domain.Project, error)
	AllStoragePathsFunc func(ctx context.Context) (map[string]struct{}, error)
	CountProjectsFunc   func(ctx context.Context) (int64, error)
}

func NewMockProjectRepository() *MockProjectRepository {
	return &MockProjectRepository{projects: make(map[uuid.UUID]*domain.Project)}
}

// Seed stores a project directly, bypassing Create
func (m *MockProjectRepository) Seed(project *domain.Project) {
	m.projects[project.ID] = project
}

// Get returns the stored project for assertions
func (m *MockProjectRepository) Get(id uuid.UUID) *domain.Project {
	return m.projects[id]
}

func (m *MockProjectRepository) Create(ctx context.Context, project *domain.Project) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, project)
	}
	if project.ID == uuid.Nil {
		project.ID = uuid.New()
	}
	m.projects[project.ID] = project
	return nil
}

func (m *MockProjectRepository) FindByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Project, error) {
	if m.FindByIDAndOwnerFunc != nil {
		return m.FindByIDAndOwnerFunc(ctx, id, ownerID)
	}
	project, ok := m.projects[id]
	if !ok || project.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}
	return project, nil
}

func (m *MockProjectRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Project, error) {
	if m.FindByOwnerFunc != nil {
		return m.FindByOwnerFunc(ctx, ownerID)
	}
	var projects []*domain.Project
	for _, project := range m.projects {
		if project.OwnerID == ownerID {
			projects = append(projects, project)
		}
	}
	return projects, nil
}

func (m *MockProjectRepository) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id, ownerID)
	}
	project, ok := m.projects[id]
	if !ok || project.OwnerID != ownerID {
		return gorm.ErrRecordNotFound
	}
	delete(m.projects, id)
	return nil
}

// MutateOwned applies fn to a copy and commits only on success, mirroring
// the transactional rollback of the real repository.
func (m *MockProjectRepository) MutateOwned(ctx context.Context, id, ownerID uuid.UUID, fn func(*domain.Project) error) (*domain.Project, error) {
	if m.MutateOwnedFunc != nil {
		return m.MutateOwnedFunc(ctx, id, ownerID, fn)
	}
	project, ok := m.projects[id]
	if !ok || project.OwnerID != ownerID {
		return nil, gorm.ErrRecordNotFound
	}

	working := cloneProject(project)
	if err := fn(working); err != nil {
		return nil, err
	}
	m.projects[id] = working
	return working, nil
}

func (m *MockProjectRepository) AllStoragePaths(ctx context.Context) (map[string]struct{}, error) {
	if m.AllStoragePathsFunc != nil {
		return m.AllStoragePathsFunc(ctx)
	}
	paths := make(map[string]struct{})
	for _, project := range m.projects {
		for _, path := range project.StoragePaths() {
			paths[path] = struct{}{}
		}
	}
	return paths, nil
}

func (m *MockProjectRepository) CountProjects(ctx context.Context) (int64, error) {
	if m.CountProjectsFunc != nil {
		return m.CountProjectsFunc(ctx)
	}
	return int64(len(m.projects)), nil
}

func cloneProject(project *domain.Project) *domain.Project {
	data, err := json.Marshal(project)
	if err != nil {
		panic(err)
	}
	clone := &domain.Project{}
	if err := json.Unmarshal(data, clone); err != nil {
		panic(err)
	}
	// UpdatedAt is excluded from the JSON shape
	clone.UpdatedAt = project.UpdatedAt
	return clone
}
