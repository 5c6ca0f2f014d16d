package client

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"todo-hub-api/internal/domain"
)

func newTestBoardClient(t *testing.T, handler http.HandlerFunc) (*BoardClient, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewBoardClient(server.URL, "session-token", 5*time.Second, zap.NewNop()), server
}

func TestBoardClient_SendsSessionCookie(t *testing.T) {
	var gotCookie string
	c, _ := newTestBoardClient(t, func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("token"); err == nil {
			gotCookie = cookie.Value
		}
		json.NewEncoder(w).Encode([]*domain.Project{})
	})

	_, err := c.ListProjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "session-token", gotCookie)
}

func TestBoardClient_CreateProject(t *testing.T) {
	c, _ := newTestBoardClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/project", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Trip planning", body["title"])

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.Project{Title: body["title"]})
	})

	project, err := c.CreateProject(context.Background(), "Trip planning")
	require.NoError(t, err)
	assert.Equal(t, "Trip planning", project.Title)
}

func TestBoardClient_PatchCard_Paths(t *testing.T) {
	var gotPath, gotMethod string
	c, _ := newTestBoardClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		json.NewEncoder(w).Encode(map[string]bool{"success": true})
	})

	err := c.PatchCard(context.Background(), "p1", "c1", map[string]string{"title": "Renamed"})
	require.NoError(t, err)
	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/api/project/p1/card/c1", gotPath)
}

func TestBoardClient_AddTask_Path(t *testing.T) {
	var gotPath string
	c, _ := newTestBoardClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.Task{ID: "t1", Title: "Apples"})
	})

	task, err := c.AddTask(context.Background(), "p1", "c1", "s1", "Apples")
	require.NoError(t, err)
	assert.Equal(t, "/api/project/p1/card/c1/section/s1/task", gotPath)
	assert.Equal(t, "Apples", task.Title)
}

func TestBoardClient_ErrorEnvelope(t *testing.T) {
	c, _ := newTestBoardClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "Resource not found"})
	})

	err := c.DeleteTask(context.Background(), "p1", "c1", "s1", "t1")
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "Resource not found", apiErr.Message)
}

func TestBoardClient_Upload(t *testing.T) {
	c, _ := newTestBoardClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/project/upload", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		assert.Equal(t, "p1", r.FormValue("projectId"))
		assert.Equal(t, "t1", r.FormValue("taskId"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "receipt.pdf", header.Filename)
		data, err := io.ReadAll(file)
		require.NoError(t, err)
		assert.Equal(t, "pdf-bytes", string(data))

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"attachment": domain.Attachment{
				Name:        "receipt.pdf",
				Kind:        domain.AttachmentKindPDF,
				StoragePath: "tasks/t1/1_abc.pdf",
			},
			"url": "https://storage.test/signed",
		})
	})

	result, err := c.Upload(context.Background(), "p1", "c1", "s1", "t1", "receipt.pdf", "application/pdf", strings.NewReader("pdf-bytes"))
	require.NoError(t, err)
	assert.Equal(t, "tasks/t1/1_abc.pdf", result.Attachment.StoragePath)
	assert.Equal(t, "https://storage.test/signed", result.URL)
}

func TestBoardClient_SignedURL(t *testing.T) {
	c, _ := newTestBoardClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/project/signed-url", r.URL.Path)
		assert.Equal(t, "attachments-pdf", r.URL.Query().Get("bucket"))
		assert.Equal(t, "tasks/t1/1_abc.pdf", r.URL.Query().Get("path"))
		json.NewEncoder(w).Encode(map[string]string{"url": "https://storage.test/signed"})
	})

	url, err := c.SignedURL(context.Background(), "attachments-pdf", "tasks/t1/1_abc.pdf")
	require.NoError(t, err)
	assert.Equal(t, "https://storage.test/signed", url)
}
