package router

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ressKim-io/shopper-predict/api-service/internal/adapter/client"
	"github.com/ressKim-io/shopper-predict/api-service/internal/usecase"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeModel is a model container whose responses are scripted per call
type fakeModel struct {
	server    *httptest.Server
	calls     atomic.Int32
	responses []func(w http.ResponseWriter)
}

func newFakeModel(t *testing.T, responses ...func(w http.ResponseWriter)) *fakeModel {
	m := &fakeModel{responses: responses}
	m.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(m.calls.Add(1)) - 1
		if n >= len(m.responses) {
			t.Errorf("unexpected call %d to model", n+1)
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		m.responses[n](w)
	}))
	t.Cleanup(m.server.Close)
	return m
}

func respond(status int, body string) func(w http.ResponseWriter) {
	return func(w http.ResponseWriter) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}
}

type pauses struct {
	recorded []time.Duration
}

func (p *pauses) sleep(_ context.Context, d time.Duration) error {
	p.recorded = append(p.recorded, d)
	return nil
}

func newTestRouter(model *fakeModel, p *pauses) *gin.Engine {
	return Setup(Deps{
		Version:      "v3.0-cicd",
		Endpoint:     client.NewContainerClient("shoppers-xgboost-endpoint", model.server.URL, 5*time.Second),
		RetryPolicy:  usecase.DefaultRetryPolicy(),
		FeatureCount: 17,
		RetryOptions: []usecase.RetryOption{usecase.WithSleepFunc(p.sleep)},
	})
}

func predict(router *gin.Engine, n int) *httptest.ResponseRecorder {
	values := make([]string, n)
	for i := range values {
		values[i] = fmt.Sprintf("%d.5", i)
	}
	body := fmt.Sprintf(`{"features":[%s]}`, strings.Join(values, ","))

	req, _ := http.NewRequest("POST", "/predict", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPredict_Confidence(t *testing.T) {
	tests := []struct {
		body       string
		confidence string
	}{
		{"0.85", "high"},
		{"0.5", "medium"},
		{"0.1", "low"},
	}

	for _, tt := range tests {
		t.Run(tt.confidence, func(t *testing.T) {
			model := newFakeModel(t, respond(http.StatusOK, tt.body))
			router := newTestRouter(model, &pauses{})

			w := predict(router, 17)

			require.Equal(t, http.StatusOK, w.Code)
			var out usecase.PredictOutput
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
			assert.Equal(t, tt.confidence, out.Confidence)
			assert.Equal(t, int32(1), model.calls.Load())
		})
	}
}

func TestPredict_WrongFeatureCount(t *testing.T) {
	for _, n := range []int{0, 16, 18} {
		model := newFakeModel(t)
		router := newTestRouter(model, &pauses{})

		w := predict(router, n)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), fmt.Sprintf("expected 17 features, got %d", n))
		assert.Equal(t, int32(0), model.calls.Load())
	}
}

func TestPredict_NullFeature(t *testing.T) {
	model := newFakeModel(t)
	router := newTestRouter(model, &pauses{})

	values := make([]string, 16)
	for i := range values {
		values[i] = "1.0"
	}
	body := fmt.Sprintf(`{"features":[%s,null]}`, strings.Join(values, ","))

	req, _ := http.NewRequest("POST", "/predict", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
	assert.Contains(t, w.Body.String(), "features[16]")
	assert.Equal(t, int32(0), model.calls.Load())
}

func TestPredict_RetriesModelErrors(t *testing.T) {
	model := newFakeModel(t,
		respond(http.StatusInternalServerError, "warming up"),
		respond(http.StatusInternalServerError, "warming up"),
		respond(http.StatusOK, "0.91"),
	)
	p := &pauses{}
	router := newTestRouter(model, p)

	w := predict(router, 17)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"prediction":0.91,"confidence":"high"}`, w.Body.String())
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, p.recorded)
	assert.Equal(t, int32(3), model.calls.Load())
}

func TestPredict_FatalRemoteError(t *testing.T) {
	model := newFakeModel(t, respond(http.StatusBadRequest, "unable to parse csv"))
	router := newTestRouter(model, &pauses{})

	w := predict(router, 17)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "ValidationError")
	assert.Equal(t, int32(1), model.calls.Load())
}

func TestPredict_Exhausted(t *testing.T) {
	model := newFakeModel(t,
		respond(http.StatusServiceUnavailable, ""),
		respond(http.StatusServiceUnavailable, ""),
		respond(http.StatusServiceUnavailable, ""),
	)
	router := newTestRouter(model, &pauses{})

	w := predict(router, 17)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "endpoint unavailable after retries")
	assert.Equal(t, int32(3), model.calls.Load())
}

func TestPredict_UnparseableResponse(t *testing.T) {
	model := newFakeModel(t, respond(http.StatusOK, "oops"))
	router := newTestRouter(model, &pauses{})

	w := predict(router, 17)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestHealthAndReady(t *testing.T) {
	model := newFakeModel(t)
	router := newTestRouter(model, &pauses{})

	for path, expected := range map[string]string{
		"/health": `{"status":"healthy","version":"v3.0-cicd"}`,
		"/ready":  `{"status":"ready","endpoint":"shoppers-xgboost-endpoint"}`,
	} {
		req, _ := http.NewRequest("GET", path, http.NoBody)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code, path)
		assert.JSONEq(t, expected, w.Body.String(), path)
	}
	assert.Equal(t, int32(0), model.calls.Load())
}

func TestSetup_WithoutEndpoint(t *testing.T) {
	router := Setup(Deps{Version: "v1", FeatureCount: 17})

	req, _ := http.NewRequest("GET", "/ready", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = predict(router, 17)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	router := Setup(Deps{Version: "v1", FeatureCount: 17})

	req, _ := http.NewRequest("GET", "/metrics", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
