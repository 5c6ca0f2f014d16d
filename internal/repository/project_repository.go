package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"todo-hub-api/internal/domain"
)

// ProjectRepository defines the interface for project document access.
// Every lookup is owner-scoped; a project that exists but belongs to someone
// else surfaces as gorm.ErrRecordNotFound, never as a forbidden error.
type ProjectRepository interface {
	Create(ctx context.Context, project *domain.Project) error
	FindByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Project, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Project, error)
	Delete(ctx context.Context, id, ownerID uuid.UUID) error
	MutateOwned(ctx context.Context, id, ownerID uuid.UUID, fn func(*domain.Project) error) (*domain.Project, error)
	AllStoragePaths(ctx context.Context) (map[string]struct{}, error)
	CountProjects(ctx context.Context) (int64, error)
}

// projectRepositoryImpl is the GORM implementation of ProjectRepository
type projectRepositoryImpl struct {
	db *gorm.DB
}

// NewProjectRepository creates a new instance of ProjectRepository
func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepositoryImpl{db: db}
}

// Create creates a new project row
func (r *projectRepositoryImpl) Create(ctx context.Context, project *domain.Project) error {
	if err := r.db.WithContext(ctx).Create(project).Error; err != nil {
		return err
	}
	return nil
}

// FindByIDAndOwner finds a project by ID scoped to its owner
func (r *projectRepositoryImpl) FindByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Project, error) {
	var project domain.Project
	if err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&project).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

// FindByOwner finds all projects belonging to an owner
func (r *projectRepositoryImpl) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Project, error) {
	var projects []*domain.Project
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at ASC").
		Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

// Delete removes a project owned by ownerID. Missing or foreign rows
// report gorm.ErrRecordNotFound.
func (r *projectRepositoryImpl) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&domain.Project{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MutateOwned loads the project under a row lock, applies fn to the document
// and saves the result, all inside one transaction. Concurrent mutations of
// the same project serialize at the lock, so a patch never overwrites a
// sibling field written in between.
func (r *projectRepositoryImpl) MutateOwned(ctx context.Context, id, ownerID uuid.UUID, fn func(*domain.Project) error) (*domain.Project, error) {
	var mutated *domain.Project
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		query := tx
		// SQLite serializes writers on its own and rejects FOR UPDATE
		if tx.Dialector.Name() == "postgres" {
			query = tx.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var project domain.Project
		if err := query.
			Where("id = ? AND owner_id = ?", id, ownerID).
			First(&project).Error; err != nil {
			return err
		}

		if err := fn(&project); err != nil {
			return err
		}

		if err := tx.Save(&project).Error; err != nil {
			return err
		}

		mutated = &project
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mutated, nil
}

// AllStoragePaths collects every attachment storage path referenced by any
// project document. Used by the orphan sweep to decide what is still live.
func (r *projectRepositoryImpl) AllStoragePaths(ctx context.Context) (map[string]struct{}, error) {
	var projects []*domain.Project
	if err := r.db.WithContext(ctx).Find(&projects).Error; err != nil {
		return nil, err
	}

	paths := make(map[string]struct{})
	for _, project := range projects {
		for _, path := range project.StoragePaths() {
			paths[path] = struct{}{}
		}
	}
	return paths, nil
}

// CountProjects counts all project rows
func (r *projectRepositoryImpl) CountProjects(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&domain.Project{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
