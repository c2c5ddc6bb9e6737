package router

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ressKim-io/shopper-predict/api-service/internal/adapter/http/handler"
	"github.com/ressKim-io/shopper-predict/api-service/internal/adapter/http/middleware"
	"github.com/ressKim-io/shopper-predict/api-service/internal/domain/service"
	"github.com/ressKim-io/shopper-predict/api-service/internal/usecase"
)

// Deps are the process-wide, read-only collaborators shared by all handlers
type Deps struct {
	Version      string
	Endpoint     service.Endpoint
	RetryPolicy  usecase.RetryPolicy
	FeatureCount int
	Logger       *zap.Logger

	// RetryOptions customise the retry controller, e.g. in tests
	RetryOptions []usecase.RetryOption
}

// Setup creates and configures the Gin router
func Setup(deps Deps) *gin.Engine {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))
	router.Use(middleware.CORS())
	router.Use(middleware.Metrics())

	// Health endpoints
	healthHandler := handler.NewHealthHandler(deps.Version, deps.Endpoint)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Prediction
	if deps.Endpoint != nil {
		retrier := usecase.NewRetryController(deps.Endpoint, deps.RetryPolicy, logger, deps.RetryOptions...)
		predictUC := usecase.NewPredictUsecase(retrier, deps.FeatureCount, logger)
		predictHandler := handler.NewPredictHandler(predictUC)
		router.POST("/predict", predictHandler.Predict)
	} else {
		router.POST("/predict", handler.EndpointNotConfigured)
	}

	return router
}
