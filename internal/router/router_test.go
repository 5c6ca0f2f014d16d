package router

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"todo-hub-api/internal/client"
	"todo-hub-api/internal/database"
	"todo-hub-api/internal/domain"
	"todo-hub-api/internal/metrics"
	"todo-hub-api/internal/middleware"
)

const testJWTSecret = "test-secret"

// setupTestConfig creates a router config backed by in-memory SQLite and
// the in-memory storage client
func setupTestConfig(t *testing.T) Config {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	return Config{
		DB:        db,
		Logger:    zap.NewNop(),
		JWTSecret: testJWTSecret,
		S3Client:  client.NewMockS3Client(),
	}
}

func sessionCookie(t *testing.T, userID uuid.UUID) *http.Cookie {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": userID.String(),
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte(testJWTSecret))
	require.NoError(t, err)
	return &http.Cookie{Name: middleware.SessionCookieName, Value: signed}
}

func doRequest(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func authedJSON(t *testing.T, userID uuid.UUID, method, path, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(sessionCookie(t, userID))
	return req
}

func TestHealthEndpoint(t *testing.T) {
	r := Setup(setupTestConfig(t))

	w := doRequest(r, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ok")
}

func TestMetricsEndpoint(t *testing.T) {
	registry := prometheus.NewRegistry()
	cfg := setupTestConfig(t)
	cfg.Metrics = metrics.NewWithRegistry(registry, zap.NewNop())
	r := Setup(cfg)

	w := doRequest(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "# HELP")
}

func TestAPIRequiresAuthentication(t *testing.T) {
	r := Setup(setupTestConfig(t))

	req := httptest.NewRequest(http.MethodGet, "/api/project", nil)
	w := doRequest(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/project", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: "garbage"})
	w = doRequest(r, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFullBoardFlow(t *testing.T) {
	r := Setup(setupTestConfig(t))
	userID := uuid.New()

	// Create a project
	w := doRequest(r, authedJSON(t, userID, http.MethodPost, "/api/project", `{"title":"Groceries"}`))
	require.Equal(t, http.StatusCreated, w.Code)
	var project domain.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &project))
	projectPath := "/api/project/" + project.ID.String()

	// Add a card (default title)
	w = doRequest(r, authedJSON(t, userID, http.MethodPost, projectPath+"/card", `{}`))
	require.Equal(t, http.StatusCreated, w.Code)
	var card domain.Card
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card))
	assert.Equal(t, "Card 1", card.Title)

	// Add a section to the card
	w = doRequest(r, authedJSON(t, userID, http.MethodPost, projectPath+"/card/"+card.ID+"/section", `{"title":"Produce"}`))
	require.Equal(t, http.StatusCreated, w.Code)
	var section domain.Section
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &section))

	// Add a task to the section
	w = doRequest(r, authedJSON(t, userID, http.MethodPost, projectPath+"/card/"+card.ID+"/section/"+section.ID+"/task", `{"title":"Apples"}`))
	require.Equal(t, http.StatusCreated, w.Code)
	var task domain.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))

	// Complete the task
	taskPath := projectPath + "/card/" + card.ID + "/section/" + section.ID + "/task/" + task.ID
	w = doRequest(r, authedJSON(t, userID, http.MethodPatch, taskPath, `{"isCompleted":true}`))
	require.Equal(t, http.StatusOK, w.Code)

	// Read the whole tree back
	w = doRequest(r, authedJSON(t, userID, http.MethodGet, projectPath, ""))
	require.Equal(t, http.StatusOK, w.Code)
	var fetched domain.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	got := fetched.FindTask(card.ID, section.ID, task.ID)
	require.NotNil(t, got)
	assert.True(t, got.IsCompleted)

	// Delete the card; the tree under it goes too
	w = doRequest(r, authedJSON(t, userID, http.MethodDelete, projectPath+"/card/"+card.ID, ""))
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, authedJSON(t, userID, http.MethodGet, projectPath, ""))
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &fetched))
	assert.Nil(t, fetched.FindCard(card.ID))
}

func TestOwnershipIsolation(t *testing.T) {
	r := Setup(setupTestConfig(t))
	owner := uuid.New()
	intruder := uuid.New()

	w := doRequest(r, authedJSON(t, owner, http.MethodPost, "/api/project", `{"title":"Private"}`))
	require.Equal(t, http.StatusCreated, w.Code)
	var project domain.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &project))

	// Another user cannot see or touch it
	w = doRequest(r, authedJSON(t, intruder, http.MethodGet, "/api/project/"+project.ID.String(), ""))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(r, authedJSON(t, intruder, http.MethodDelete, "/api/project/"+project.ID.String(), ""))
	assert.Equal(t, http.StatusNotFound, w.Code)

	// And it does not appear in their listing
	w = doRequest(r, authedJSON(t, intruder, http.MethodGet, "/api/project", ""))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))
}

func TestUploadAndSignedURLFlow(t *testing.T) {
	cfg := setupTestConfig(t)
	r := Setup(cfg)
	userID := uuid.New()

	// Build a project with a task to attach to
	w := doRequest(r, authedJSON(t, userID, http.MethodPost, "/api/project", `{"title":"Docs"}`))
	require.Equal(t, http.StatusCreated, w.Code)
	var project domain.Project
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &project))
	projectPath := "/api/project/" + project.ID.String()

	w = doRequest(r, authedJSON(t, userID, http.MethodPost, projectPath+"/card", `{}`))
	var card domain.Card
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &card))
	w = doRequest(r, authedJSON(t, userID, http.MethodPost, projectPath+"/card/"+card.ID+"/section", `{}`))
	var section domain.Section
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &section))
	w = doRequest(r, authedJSON(t, userID, http.MethodPost, projectPath+"/card/"+card.ID+"/section/"+section.ID+"/task", `{}`))
	var task domain.Task
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &task))

	// Upload a PDF against the task
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("projectId", project.ID.String()))
	require.NoError(t, writer.WriteField("cardId", card.ID))
	require.NoError(t, writer.WriteField("sectionId", section.ID))
	require.NoError(t, writer.WriteField("taskId", task.ID))
	partHeader := textproto.MIMEHeader{}
	partHeader.Set("Content-Disposition", `form-data; name="file"; filename="receipt.pdf"`)
	partHeader.Set("Content-Type", "application/pdf")
	part, err := writer.CreatePart(partHeader)
	require.NoError(t, err)
	_, err = part.Write([]byte("%PDF-1.4 fake"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/project/upload", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.AddCookie(sessionCookie(t, userID))
	w = doRequest(r, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var uploadBody struct {
		Success    bool              `json:"success"`
		Attachment domain.Attachment `json:"attachment"`
		URL        string            `json:"url"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &uploadBody))
	assert.True(t, uploadBody.Success)
	assert.NotEmpty(t, uploadBody.URL)

	// Fetch a signed URL for the stored object
	w = doRequest(r, authedJSON(t, userID, http.MethodGet,
		"/api/project/signed-url?bucket=attachments-pdf&path="+uploadBody.Attachment.StoragePath, ""))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "url")

	// Someone else cannot sign the same path
	w = doRequest(r, authedJSON(t, uuid.New(), http.MethodGet,
		"/api/project/signed-url?bucket=attachments-pdf&path="+uploadBody.Attachment.StoragePath, ""))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestBasePathRouting(t *testing.T) {
	cfg := setupTestConfig(t)
	cfg.BasePath = "/todo-hub"
	r := Setup(cfg)
	userID := uuid.New()

	w := doRequest(r, httptest.NewRequest(http.MethodGet, "/todo-hub/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, authedJSON(t, userID, http.MethodPost, "/todo-hub/api/project", `{"title":"Behind ingress"}`))
	assert.Equal(t, http.StatusCreated, w.Code)

	// Root path keeps working too
	w = doRequest(r, authedJSON(t, userID, http.MethodGet, "/api/project", ""))
	assert.Equal(t, http.StatusOK, w.Code)
}
