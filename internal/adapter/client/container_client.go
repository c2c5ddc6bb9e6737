package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ressKim-io/shopper-predict/api-service/internal/domain/service"
)

// Remote error codes reported by the container backend
const (
	ErrCodeValidation = "ValidationError"
	ErrCodeThrottling = "ThrottlingException"
)

// maxErrorBody bounds how much of an error response is kept in the message
const maxErrorBody = 1024

// ContainerClient is an HTTP client for a model container that speaks the
// SageMaker serving contract (POST /invocations). It is used for local
// development and for models hosted outside SageMaker.
type ContainerClient struct {
	name       string
	baseURL    string
	httpClient *http.Client
}

var _ service.Endpoint = (*ContainerClient)(nil)

// NewContainerClient creates a new container client
func NewContainerClient(name, baseURL string, timeout time.Duration) *ContainerClient {
	return &ContainerClient{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Name returns the endpoint name
func (c *ContainerClient) Name() string {
	return c.name
}

// Invoke posts the CSV-encoded features to the container
func (c *ContainerClient) Invoke(ctx context.Context, features []float64) (*service.InvokeResult, error) {
	body := EncodeFeatures(features)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/invocations", strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", ContentTypeCSV)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	elapsed := time.Since(start)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg := string(respBody)
		if len(msg) > maxErrorBody {
			msg = msg[:maxErrorBody]
		}
		return nil, &service.RemoteError{
			Code:    codeForStatus(resp.StatusCode),
			Message: fmt.Sprintf("container returned status %d: %s", resp.StatusCode, strings.TrimSpace(msg)),
			Elapsed: elapsed,
		}
	}

	return &service.InvokeResult{
		Body:    string(respBody),
		Elapsed: elapsed,
	}, nil
}

// codeForStatus classifies container status codes the way SageMaker does:
// the container failing to produce an answer is a ModelError.
func codeForStatus(status int) string {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrCodeThrottling
	case status == http.StatusFailedDependency, status >= http.StatusInternalServerError:
		return service.ErrCodeModelError
	default:
		return ErrCodeValidation
	}
}
