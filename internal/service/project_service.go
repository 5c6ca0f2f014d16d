package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"todo-hub-api/internal/domain"
	"todo-hub-api/internal/dto"
	"todo-hub-api/internal/metrics"
	"todo-hub-api/internal/repository"
	"todo-hub-api/internal/response"
)

// ProjectService defines the interface for board tree business logic.
// Every nested mutation runs inside the repository's locked mutate, so
// concurrent patches to one project serialize instead of clobbering each
// other's fields.
type ProjectService interface {
	CreateProject(ctx context.Context, req *dto.CreateProjectRequest, userID uuid.UUID) (*domain.Project, error)
	GetProjects(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error)
	GetProject(ctx context.Context, projectID, userID uuid.UUID) (*domain.Project, error)
	UpdateProject(ctx context.Context, projectID, userID uuid.UUID, req *dto.PatchProjectRequest) (*domain.Project, error)
	DeleteProject(ctx context.Context, projectID, userID uuid.UUID) error

	AddCard(ctx context.Context, projectID, userID uuid.UUID, req *dto.AddCardRequest) (*domain.Card, error)
	UpdateCard(ctx context.Context, projectID, userID uuid.UUID, cardID string, req *dto.PatchCardRequest) error
	DeleteCard(ctx context.Context, projectID, userID uuid.UUID, cardID string) error

	AddSection(ctx context.Context, projectID, userID uuid.UUID, cardID string, req *dto.AddSectionRequest) (*domain.Section, error)
	UpdateSection(ctx context.Context, projectID, userID uuid.UUID, cardID, sectionID string, req *dto.PatchSectionRequest) error
	DeleteSection(ctx context.Context, projectID, userID uuid.UUID, cardID, sectionID string) error

	AddTask(ctx context.Context, projectID, userID uuid.UUID, cardID, sectionID string, req *dto.AddTaskRequest) (*domain.Task, error)
	UpdateTask(ctx context.Context, projectID, userID uuid.UUID, cardID, sectionID, taskID string, req *dto.PatchTaskRequest) error
	DeleteTask(ctx context.Context, projectID, userID uuid.UUID, cardID, sectionID, taskID string) error
}

// projectServiceImpl is the implementation of ProjectService
type projectServiceImpl struct {
	projectRepo repository.ProjectRepository
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

// NewProjectService creates a new instance of ProjectService
func NewProjectService(projectRepo repository.ProjectRepository, m *metrics.Metrics, logger *zap.Logger) ProjectService {
	return &projectServiceImpl{
		projectRepo: projectRepo,
		metrics:     m,
		logger:      logger,
	}
}

// CreateProject creates a new empty project
func (s *projectServiceImpl) CreateProject(ctx context.Context, req *dto.CreateProjectRequest, userID uuid.UUID) (*domain.Project, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, response.NewValidationError("Title is required", "")
	}
	if len([]rune(title)) > domain.MaxProjectTitleLength {
		return nil, response.NewValidationError("Title must be 35 characters or fewer", "")
	}

	project := &domain.Project{
		OwnerID: userID,
		Title:   title,
		Cards:   []domain.Card{},
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, response.NewAppError(response.ErrCodeInternal, "Failed to create project", err.Error())
	}

	if s.metrics != nil {
		s.metrics.IncrementProjectCreated()
	}
	s.logger.Info("Project created",
		zap.String("project_id", project.ID.String()),
		zap.String("owner_id", userID.String()),
	)
	return project, nil
}

// GetProjects lists the user's projects, oldest first
func (s *projectServiceImpl) GetProjects(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	return s.projectRepo.FindByOwner(ctx, userID)
}

// GetProject fetches one project with its full tree
func (s *projectServiceImpl) GetProject(ctx context.Context, projectID, userID uuid.UUID) (*domain.Project, error) {
	return s.projectRepo.FindByIDAndOwner(ctx, projectID, userID)
}

// UpdateProject applies a partial project update and returns the stored
// project
func (s *projectServiceImpl) UpdateProject(ctx context.Context, projectID, userID uuid.UUID, req *dto.PatchProjectRequest) (*domain.Project, error) {
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, response.NewValidationError("Title is required", "")
		}
		if len([]rune(title)) > domain.MaxProjectTitleLength {
			return nil, response.NewValidationError("Title must be 35 characters or fewer", "")
		}
	}

	return s.projectRepo.MutateOwned(ctx, projectID, userID, func(p *domain.Project) error {
		if req.Title != nil {
			p.Title = strings.TrimSpace(*req.Title)
		}
		return nil
	})
}

// DeleteProject deletes a project and its whole tree
func (s *projectServiceImpl) DeleteProject(ctx context.Context, projectID, userID uuid.UUID) error {
	if err := s.projectRepo.Delete(ctx, projectID, userID); err != nil {
		return err
	}
	s.logger.Info("Project deleted",
		zap.String("project_id", projectID.String()),
		zap.String("owner_id", userID.String()),
	)
	return nil
}

// AddCard appends a card to the project. A blank title gets a positional
// default so the client can create first and name later.
func (s *projectServiceImpl) AddCard(ctx context.Context, projectID, userID uuid.UUID, req *dto.AddCardRequest) (*domain.Card, error) {
	title := strings.TrimSpace(req.Title)

	var created domain.Card
	_, err := s.projectRepo.MutateOwned(ctx, projectID, userID, func(p *domain.Project) error {
		if title == "" {
			title = fmt.Sprintf("Card %d", len(p.Cards)+1)
		}
		created = domain.Card{
			ID:        uuid.NewString(),
			Title:     title,
			Sections:  []domain.Section{},
			CreatedAt: time.Now().UTC(),
		}
		p.Cards = append(p.Cards, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementCardCreated()
	}
	return &created, nil
}

// UpdateCard applies a partial card update. Absent fields stay untouched;
// an explicit null due date clears it.
func (s *projectServiceImpl) UpdateCard(ctx context.Context, projectID, userID uuid.UUID, cardID string, req *dto.PatchCardRequest) error {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return response.NewValidationError("Title is required", "")
	}

	_, err := s.projectRepo.MutateOwned(ctx, projectID, userID, func(p *domain.Project) error {
		card := p.FindCard(cardID)
		if card == nil {
			return response.NewNotFoundError("Card not found")
		}
		if req.Title != nil {
			card.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			card.Description = *req.Description
		}
		if req.DueDate.Present {
			card.DueDate = req.DueDate.Value
		}
		if req.IsImportant != nil {
			card.IsImportant = *req.IsImportant
		}
		return nil
	})
	return err
}

// DeleteCard removes a card and everything under it
func (s *projectServiceImpl) DeleteCard(ctx context.Context, projectID, userID uuid.UUID, cardID string) error {
	_, err := s.projectRepo.MutateOwned(ctx, projectID, userID, func(p *domain.Project) error {
		for i := range p.Cards {
			if p.Cards[i].ID == cardID {
				p.Cards = append(p.Cards[:i], p.Cards[i+1:]...)
				return nil
			}
		}
		return response.NewNotFoundError("Card not found")
	})
	return err
}

// AddSection appends a section to a card
func (s *projectServiceImpl) AddSection(ctx context.Context, projectID, userID uuid.UUID, cardID string, req *dto.AddSectionRequest) (*domain.Section, error) {
	title := strings.TrimSpace(req.Title)

	var created domain.Section
	_, err := s.projectRepo.MutateOwned(ctx, projectID, userID, func(p *domain.Project) error {
		card := p.FindCard(cardID)
		if card == nil {
			return response.NewNotFoundError("Card not found")
		}
		if title == "" {
			title = fmt.Sprintf("Section %d", len(card.Sections)+1)
		}
		created = domain.Section{
			ID:    uuid.NewString(),
			Title: title,
			Tasks: []domain.Task{},
		}
		card.Sections = append(card.Sections, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateSection applies a partial section update
func (s *projectServiceImpl) UpdateSection(ctx context.Context, projectID, userID uuid.UUID, cardID, sectionID string, req *dto.PatchSectionRequest) error {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return response.NewValidationError("Title is required", "")
	}

	_, err := s.projectRepo.MutateOwned(ctx, projectID, userID, func(p *domain.Project) error {
		section := p.FindSection(cardID, sectionID)
		if section == nil {
			return response.NewNotFoundError("Section not found")
		}
		if req.Title != nil {
			section.Title = strings.TrimSpace(*req.Title)
		}
		return nil
	})
	return err
}

// DeleteSection removes a section and its tasks
func (s *projectServiceImpl) DeleteSection(ctx context.Context, projectID, userID uuid.UUID, cardID, sectionID string) error {
	_, err := s.projectRepo.MutateOwned(ctx, projectID, userID, func(p *domain.Project) error {
		card := p.FindCard(cardID)
		if card == nil {
			return response.NewNotFoundError("Card not found")
		}
		for i := range card.Sections {
			if card.Sections[i].ID == sectionID {
				card.Sections = append(card.Sections[:i], card.Sections[i+1:]...)
				return nil
			}
		}
		return response.NewNotFoundError("Section not found")
	})
	return err
}

// AddTask appends a task to a section
func (s *projectServiceImpl) AddTask(ctx context.Context, projectID, userID uuid.UUID, cardID, sectionID string, req *dto.AddTaskRequest) (*domain.Task, error) {
	title := strings.TrimSpace(req.Title)

	var created domain.Task
	_, err := s.projectRepo.MutateOwned(ctx, projectID, userID, func(p *domain.Project) error {
		section := p.FindSection(cardID, sectionID)
		if section == nil {
			return response.NewNotFoundError("Section not found")
		}
		if title == "" {
			title = fmt.Sprintf("Task %d", len(section.Tasks)+1)
		}
		created = domain.Task{
			ID:          uuid.NewString(),
			Title:       title,
			Tags:        []string{},
			Attachments: []domain.Attachment{},
		}
		section.Tasks = append(section.Tasks, created)
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.IncrementTaskCreated()
	}
	return &created, nil
}

// UpdateTask applies a partial task update. A present tags list replaces
// the whole list.
func (s *projectServiceImpl) UpdateTask(ctx context.Context, projectID, userID uuid.UUID, cardID, sectionID, taskID string, req *dto.PatchTaskRequest) error {
	if req.Title != nil && strings.TrimSpace(*req.Title) == "" {
		return response.NewValidationError("Title is required", "")
	}

	_, err := s.projectRepo.MutateOwned(ctx, projectID, userID, func(p *domain.Project) error {
		task := p.FindTask(cardID, sectionID, taskID)
		if task == nil {
			return response.NewNotFoundError("Task not found")
		}
		if req.Title != nil {
			task.Title = strings.TrimSpace(*req.Title)
		}
		if req.Description != nil {
			task.Description = *req.Description
		}
		if req.IsCompleted != nil {
			task.IsCompleted = *req.IsCompleted
		}
		if req.Tags != nil {
			task.Tags = *req.Tags
		}
		return nil
	})
	return err
}

// DeleteTask removes a task
func (s *projectServiceImpl) DeleteTask(ctx context.Context, projectID, userID uuid.UUID, cardID, sectionID, taskID string) error {
	_, err := s.projectRepo.MutateOwned(ctx, projectID, userID, func(p *domain.Project) error {
		section := p.FindSection(cardID, sectionID)
		if section == nil {
			return response.NewNotFoundError("Section not found")
		}
		for i := range section.Tasks {
			if section.Tasks[i].ID == taskID {
				section.Tasks = append(section.Tasks[:i], section.Tasks[i+1:]...)
				return nil
			}
		}
		return response.NewNotFoundError("Task not found")
	})
	return err
}
