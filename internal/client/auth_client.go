package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"todo-hub-api/internal/metrics"
)

// AuthClient validates session tokens against the auth service. Unlike the
// best-effort clients, a failure here must fail the request: an unverifiable
// session cannot be let through.
type AuthClient interface {
	ValidateToken(ctx context.Context, tokenStr string) (uuid.UUID, error)
}

type authClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
	metrics    *metrics.Metrics
}

// NewAuthClient creates a new auth service client
func NewAuthClient(baseURL string, timeout time.Duration, logger *zap.Logger, m *metrics.Metrics) AuthClient {
	return &authClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		metrics: m,
	}
}

type validateTokenResponse struct {
	UserID string `json:"userId"`
}

// ValidateToken asks the auth service whether the session token is valid
// (including revocation) and returns the user it belongs to
func (c *authClient) ValidateToken(ctx context.Context, tokenStr string) (uuid.UUID, error) {
	url := fmt.Sprintf("%s/api/auth/validate", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.AddCookie(&http.Cookie{Name: "token", Value: tokenStr})

	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(startTime)

	statusCode := 0
	if resp != nil {
		statusCode = resp.StatusCode
	}
	if c.metrics != nil {
		c.metrics.RecordExternalAPICall(url, "GET", statusCode, duration, err)
	}

	if err != nil {
		c.logger.Error("Auth service unreachable",
			zap.Error(err),
			zap.Duration("duration", duration),
		)
		return uuid.Nil, fmt.Errorf("auth service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("Auth service rejected token",
			zap.Int("status_code", resp.StatusCode),
			zap.Duration("duration", duration),
		)
		return uuid.Nil, fmt.Errorf("token rejected with status %d", resp.StatusCode)
	}

	var body validateTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return uuid.Nil, fmt.Errorf("failed to decode validate response: %w", err)
	}

	userID, err := uuid.Parse(body.UserID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("auth service returned invalid user id: %w", err)
	}

	return userID, nil
}
