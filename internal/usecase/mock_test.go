package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/ressKim-io/shopper-predict/api-service/internal/domain/service"
)

// MockEndpoint is a mock implementation of service.Endpoint
type MockEndpoint struct {
	mock.Mock
}

func (m *MockEndpoint) Name() string {
	return "test-endpoint"
}

func (m *MockEndpoint) Invoke(ctx context.Context, features []float64) (*service.InvokeResult, error) {
	args := m.Called(ctx, features)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.InvokeResult), args.Error(1)
}

// sleepRecorder records requested pauses without sleeping
type sleepRecorder struct {
	pauses []time.Duration
}

func (s *sleepRecorder) sleep(ctx context.Context, d time.Duration) error {
	s.pauses = append(s.pauses, d)
	return ctx.Err()
}

func ok(body string, elapsed time.Duration) *service.InvokeResult {
	return &service.InvokeResult{Body: body, Elapsed: elapsed}
}

func modelError() error {
	return &service.RemoteError{Code: service.ErrCodeModelError, Message: "model container failed"}
}

func features(n int) []float64 {
	f := make([]float64, n)
	for i := range f {
		f[i] = float64(i) / 10
	}
	return f
}
