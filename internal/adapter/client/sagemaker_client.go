package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sagemakerruntime"
	"github.com/aws/smithy-go"

	"github.com/ressKim-io/shopper-predict/api-service/internal/domain/service"
)

// InvokeEndpointAPI is the subset of the SageMaker runtime client used here
type InvokeEndpointAPI interface {
	InvokeEndpoint(ctx context.Context, params *sagemakerruntime.InvokeEndpointInput, optFns ...func(*sagemakerruntime.Options)) (*sagemakerruntime.InvokeEndpointOutput, error)
}

// SageMakerClient invokes a SageMaker real-time inference endpoint
type SageMakerClient struct {
	api          InvokeEndpointAPI
	endpointName string
	timeout      time.Duration
}

var _ service.Endpoint = (*SageMakerClient)(nil)

// NewSageMakerClient creates a new SageMaker endpoint client.
// A zero timeout leaves the call bounded only by the caller's context.
func NewSageMakerClient(api InvokeEndpointAPI, endpointName string, timeout time.Duration) *SageMakerClient {
	return &SageMakerClient{
		api:          api,
		endpointName: endpointName,
		timeout:      timeout,
	}
}

// Name returns the endpoint name
func (c *SageMakerClient) Name() string {
	return c.endpointName
}

// Invoke calls InvokeEndpoint once with the CSV-encoded features
func (c *SageMakerClient) Invoke(ctx context.Context, features []float64) (*service.InvokeResult, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	input := &sagemakerruntime.InvokeEndpointInput{
		EndpointName: aws.String(c.endpointName),
		ContentType:  aws.String(ContentTypeCSV),
		Body:         []byte(EncodeFeatures(features)),
	}

	start := time.Now()
	out, err := c.api.InvokeEndpoint(ctx, input)
	elapsed := time.Since(start)
	if err != nil {
		var apiErr smithy.APIError
		if errors.As(err, &apiErr) {
			return nil, &service.RemoteError{
				Code:    apiErr.ErrorCode(),
				Message: apiErr.ErrorMessage(),
				Elapsed: elapsed,
			}
		}
		return nil, fmt.Errorf("failed to invoke endpoint %s: %w", c.endpointName, err)
	}

	return &service.InvokeResult{
		Body:    string(out.Body),
		Elapsed: elapsed,
	}, nil
}
