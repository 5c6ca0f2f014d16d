package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"go.uber.org/zap"

	"todo-hub-api/internal/domain"
)

// APIError is a non-2xx answer from the board API, carrying the flat
// error message off the wire
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("board api: %d %s", e.StatusCode, e.Message)
}

// UploadResult is the payload of a successful upload
type UploadResult struct {
	Attachment domain.Attachment `json:"attachment"`
	URL        string            `json:"url"`
}

// BoardClient is the typed HTTP consumer of the board API. The replica and
// the save coordinator go through it; it never touches local state itself.
type BoardClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewBoardClient creates a board API client holding a session token
func NewBoardClient(baseURL, sessionToken string, timeout time.Duration, logger *zap.Logger) *BoardClient {
	return &BoardClient{
		baseURL: baseURL,
		token:   sessionToken,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// do sends the request with the session cookie and decodes into out when
// the caller wants the body. Non-2xx statuses come back as *APIError.
func (c *BoardClient) do(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reqBody = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(&http.Cookie{Name: "token", Value: c.token})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.apiError(resp)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}
	return nil
}

func (c *BoardClient) apiError(resp *http.Response) error {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
		body.Error = http.StatusText(resp.StatusCode)
	}
	c.logger.Debug("Board API error",
		zap.Int("status_code", resp.StatusCode),
		zap.String("message", body.Error),
	)
	return &APIError{StatusCode: resp.StatusCode, Message: body.Error}
}

// ListProjects fetches all projects of the session user
func (c *BoardClient) ListProjects(ctx context.Context) ([]*domain.Project, error) {
	var projects []*domain.Project
	if err := c.do(ctx, http.MethodGet, "/api/project", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// GetProject fetches one project with its full tree
func (c *BoardClient) GetProject(ctx context.Context, projectID string) (*domain.Project, error) {
	var project domain.Project
	if err := c.do(ctx, http.MethodGet, "/api/project/"+projectID, nil, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// CreateProject creates a project and returns the stored entity
func (c *BoardClient) CreateProject(ctx context.Context, title string) (*domain.Project, error) {
	var project domain.Project
	body := map[string]string{"title": title}
	if err := c.do(ctx, http.MethodPost, "/api/project", body, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// PatchProject sends a partial project update
func (c *BoardClient) PatchProject(ctx context.Context, projectID string, body any) error {
	return c.do(ctx, http.MethodPatch, "/api/project/"+projectID, body, nil)
}

// DeleteProject deletes a project
func (c *BoardClient) DeleteProject(ctx context.Context, projectID string) error {
	return c.do(ctx, http.MethodDelete, "/api/project/"+projectID, nil, nil)
}

// AddCard appends a card and returns the stored entity
func (c *BoardClient) AddCard(ctx context.Context, projectID, title string) (*domain.Card, error) {
	var card domain.Card
	body := map[string]string{"title": title}
	if err := c.do(ctx, http.MethodPost, "/api/project/"+projectID+"/card", body, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// PatchCard sends a partial card update
func (c *BoardClient) PatchCard(ctx context.Context, projectID, cardID string, body any) error {
	return c.do(ctx, http.MethodPatch, c.cardPath(projectID, cardID), body, nil)
}

// DeleteCard deletes a card and everything under it
func (c *BoardClient) DeleteCard(ctx context.Context, projectID, cardID string) error {
	return c.do(ctx, http.MethodDelete, c.cardPath(projectID, cardID), nil, nil)
}

// AddSection appends a section and returns the stored entity
func (c *BoardClient) AddSection(ctx context.Context, projectID, cardID, title string) (*domain.Section, error) {
	var section domain.Section
	body := map[string]string{"title": title}
	if err := c.do(ctx, http.MethodPost, c.cardPath(projectID, cardID)+"/section", body, &section); err != nil {
		return nil, err
	}
	return &section, nil
}

// PatchSection sends a partial section update
func (c *BoardClient) PatchSection(ctx context.Context, projectID, cardID, sectionID string, body any) error {
	return c.do(ctx, http.MethodPatch, c.sectionPath(projectID, cardID, sectionID), body, nil)
}

// DeleteSection deletes a section and its tasks
func (c *BoardClient) DeleteSection(ctx context.Context, projectID, cardID, sectionID string) error {
	return c.do(ctx, http.MethodDelete, c.sectionPath(projectID, cardID, sectionID), nil, nil)
}

// AddTask appends a task and returns the stored entity
func (c *BoardClient) AddTask(ctx context.Context, projectID, cardID, sectionID, title string) (*domain.Task, error) {
	var task domain.Task
	body := map[string]string{"title": title}
	if err := c.do(ctx, http.MethodPost, c.sectionPath(projectID, cardID, sectionID)+"/task", body, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// PatchTask sends a partial task update
func (c *BoardClient) PatchTask(ctx context.Context, projectID, cardID, sectionID, taskID string, body any) error {
	return c.do(ctx, http.MethodPatch, c.taskPath(projectID, cardID, sectionID, taskID), body, nil)
}

// DeleteTask deletes a task
func (c *BoardClient) DeleteTask(ctx context.Context, projectID, cardID, sectionID, taskID string) error {
	return c.do(ctx, http.MethodDelete, c.taskPath(projectID, cardID, sectionID, taskID), nil, nil)
}

// Upload sends a file for a task as multipart form data and returns the
// stored attachment metadata with a fresh signed URL
func (c *BoardClient) Upload(ctx context.Context, projectID, cardID, sectionID, taskID, fileName, contentType string, file io.Reader) (*UploadResult, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	fields := map[string]string{
		"projectId": projectID,
		"cardId":    cardID,
		"sectionId": sectionID,
		"taskId":    taskID,
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("failed to write form field: %w", err)
		}
	}

	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, fileName))
	header.Set("Content-Type", contentType)
	part, err := writer.CreatePart(header)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("failed to copy file body: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to finish multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/project/upload", &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.AddCookie(&http.Cookie{Name: "token", Value: c.token})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upload request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, c.apiError(resp)
	}

	var body struct {
		Success    bool              `json:"success"`
		Attachment domain.Attachment `json:"attachment"`
		URL        string            `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode upload response: %w", err)
	}
	return &UploadResult{Attachment: body.Attachment, URL: body.URL}, nil
}

// SignedURL fetches a download URL for a stored attachment
func (c *BoardClient) SignedURL(ctx context.Context, bucket, path string) (string, error) {
	query := url.Values{}
	query.Set("bucket", bucket)
	query.Set("path", path)

	var body struct {
		URL string `json:"url"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/project/signed-url?"+query.Encode(), nil, &body); err != nil {
		return "", err
	}
	return body.URL, nil
}

func (c *BoardClient) cardPath(projectID, cardID string) string {
	return fmt.Sprintf("/api/project/%s/card/%s", projectID, cardID)
}

func (c *BoardClient) sectionPath(projectID, cardID, sectionID string) string {
	return fmt.Sprintf("/api/project/%s/card/%s/section/%s", projectID, cardID, sectionID)
}

func (c *BoardClient) taskPath(projectID, cardID, sectionID, taskID string) string {
	return fmt.Sprintf("/api/project/%s/card/%s/section/%s/task/%s", projectID, cardID, sectionID, taskID)
}
