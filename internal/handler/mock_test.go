package handler

import (
	"context"
	"io"

	"github.com/google/uuid"

	"todo-hub-api/internal/domain"
	"todo-hub-api/internal/dto"
)

// mockProjectService implements service.ProjectService with function fields
type mockProjectService struct {
	CreateProjectFunc func(ctx context.Context, req *dto.CreateProjectRequest, userID uuid.UUID) (*domain.Project, error)
	GetProjectsFunc   func(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error)
	GetProjectFunc    func(ctx context.Context, projectID, userID uuid.UUID) (*domain.Project, error)
	UpdateProjectFunc func(ctx context.Context, projectID, userID uuid.UUID, req *dto.PatchProjectRequest) (*domain.Project, error)
	DeleteProjectFunc func(ctx context.Context, projectID, userID uuid.UUID) error

	AddCardFunc    func(ctx context.Context, projectID, userID uuid.UUID, req *dto.AddCardRequest) (*domain.Card, error)
	UpdateCardFunc func(ctx context.Context, projectID, userID uuid.UUID, cardID string, req *dto.PatchCardRequest) error
	DeleteCardFunc func(ctx context.Context, projectID, userID uuid.UUID, cardID string) error

	AddSectionFunc    func(ctx context.Context, projectID, userID uuid.UUID, cardID string, req *dto.AddSectionRequest) (*domain.Section, error)
	UpdateSectionFunc func(ctx context.Context, projectID, userID uuid.UUID, cardID, sectionID string, req *dto.PatchSectionRequest) error
	DeleteSectionFunc func(ctx context.Context, projectID, userID uuid.UUID, cardID, sectionID string) error

	AddTaskFunc    func(ctx context.Context, projectID, userID uuid.UUID, cardID, sectionID string, req *dto.AddTaskRequest) (*domain.Task, error)
	UpdateTaskFunc func(ctx context.Context, projectID, userID uuid.UUID, cardID, sectionID, taskID string, req *dto.PatchTaskRequest) error
	DeleteTaskFunc func(ctx context.Context, projectID, userID uuid.UUID, cardID, sectionID, taskID string) error
}

func (m *mockProjectService) CreateProject(ctx context.Context, req *dto.CreateProjectRequest, userID uuid.UUID) (*domain.Project, error) {
	return m.CreateProjectFunc(ctx, req, userID)
}

func (m *mockProjectService) GetProjects(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error) {
	return m.GetProjectsFunc(ctx, userID)
}

func (m *mockProjectService) GetProject(ctx context.Context, projectID, userID uuid.UUID) (*domain.Project, error) {
	return m.GetProjectFunc(ctx, projectID, userID)
}

func (m *mockProjectService) UpdateProject(ctx context.Context, projectID, userID uuid.UUID, req *dto.PatchProjectRequest) (*domain.Project, error) {
	return m.UpdateProjectFunc(ctx, projectID, userID, req)
}

func (m *mockProjectService) DeleteProject(ctx context.Context, projectID, userID uuid.UUID) error {
	return m.DeleteProjectFunc(ctx, projectID, userID)
}

func (m *mockProjectService) AddCard(ctx context.Context, projectID, userID uuid.UUID, req *dto.AddCardRequest) (*domain.Card, error) {
	return m.AddCardFunc(ctx, projectID, userID, req)
}

func (m *mockProjectService) UpdateCard(ctx context.Context, projectID, userID uuid.UUID, cardID string, req *dto.PatchCardRequest) error {
	return m.UpdateCardFunc(ctx, projectID, userID, cardID, req)
}

func (m *mockProjectService) DeleteCard(ctx context.Context, projectID, userID uuid.UUID, cardID string) error {
	return m.DeleteCardFunc(ctx, projectID, userID, cardID)
}

func (m *mockProjectService) AddSection(ctx context.Context, projectID, userID uuid.UUID, cardID string, req *dto.AddSectionRequest) (*domain.Section, error) {
	return m.AddSectionFunc(ctx, projectID, userID, cardID, req)
}

func (m *mockProjectService) UpdateSection(ctx context.Context, projectID, userID uuid.UUID, cardID, sectionID string, req *dto.PatchSectionRequest) error {
	return m.UpdateSectionFunc(ctx, projectID, userID, cardID, sectionID, req)
}

func (m *mockProjectService) DeleteSection(ctx context.Context, projectID, userID uuid.UUID, cardID, sectionID string) error {
	return m.DeleteSectionFunc(ctx, projectID, userID, cardID, sectionID)
}

func (m *mockProjectService) AddTask(ctx context.Context, projectID, userID uuid.UUID, cardID, sectionID string, req *dto.AddTaskRequest) (*domain.Task, error) {
	return m.AddTaskFunc(ctx, projectID, userID, cardID, sectionID, req)
}

func (m *mockProjectService) UpdateTask(ctx context.Context, projectID, userID uuid.UUID, cardID, sectionID, taskID string, req *dto.PatchTaskRequest) error {
	return m.UpdateTaskFunc(ctx, projectID, userID, cardID, sectionID, taskID, req)
}

func (m *mockProjectService) DeleteTask(ctx context.Context, projectID, userID uuid.UUID, cardID, sectionID, taskID string) error {
	return m.DeleteTaskFunc(ctx, projectID, userID, cardID, sectionID, taskID)
}

// mockAttachmentService implements service.AttachmentService with function fields
type mockAttachmentService struct {
	UploadFunc       func(ctx context.Context, userID, projectID uuid.UUID, cardID, sectionID, taskID, fileName, contentType string, file io.Reader) (*domain.Attachment, string, error)
	GetSignedURLFunc func(ctx context.Context, userID uuid.UUID, bucket, path string) (string, error)
}

func (m *mockAttachmentService) Upload(ctx context.Context, userID, projectID uuid.UUID, cardID, sectionID, taskID, fileName, contentType string, file io.Reader) (*domain.Attachment, string, error) {
	return m.UploadFunc(ctx, userID, projectID, cardID, sectionID, taskID, fileName, contentType, file)
}

func (m *mockAttachmentService) GetSignedURL(ctx context.Context, userID uuid.UUID, bucket, path string) (string, error) {
	return m.GetSignedURLFunc(ctx, userID, bucket, path)
}
