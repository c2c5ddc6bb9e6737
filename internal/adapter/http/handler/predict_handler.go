package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ressKim-io/shopper-predict/api-service/internal/usecase"
)

// PredictRequest is the /predict body. Elements are pointers so that a
// JSON null is told apart from 0.
type PredictRequest struct {
	Features []*float64 `json:"features" binding:"required"`
}

// toInput converts the request, rejecting null features
func (r *PredictRequest) toInput() (*usecase.PredictInput, error) {
	features := make([]float64, len(r.Features))
	for i, f := range r.Features {
		if f == nil {
			return nil, fmt.Errorf("features[%d] must be a number, got null", i)
		}
		features[i] = *f
	}
	return &usecase.PredictInput{Features: features}, nil
}

// PredictHandler handles prediction requests
type PredictHandler struct {
	predictUC usecase.PredictUsecase
}

// NewPredictHandler creates a new predict handler
func NewPredictHandler(predictUC usecase.PredictUsecase) *PredictHandler {
	return &PredictHandler{predictUC: predictUC}
}

// Predict handles POST /predict
func (h *PredictHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	input, err := req.toInput()
	if err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	output, err := h.predictUC.Predict(c.Request.Context(), input)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, output)
}

// EndpointNotConfigured handles POST /predict when no endpoint client exists
func EndpointNotConfigured(c *gin.Context) {
	respondError(c, http.StatusServiceUnavailable, "ENDPOINT_UNAVAILABLE", "endpoint client not initialized")
}
