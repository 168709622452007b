package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/annel0/colony-core/internal/logging"
	"github.com/annel0/colony-core/internal/middleware"
	"github.com/annel0/colony-core/internal/sim"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const shutdownTimeout = 5 * time.Second

// DebugServer – HTTP-интерфейс для наблюдения за симуляцией и ручных преобразований
type DebugServer struct {
	router  *gin.Engine
	driver  *sim.Driver
	addr    string
	metrics *ProcessMetrics
	log     *logging.Logger
}

// Config содержит конфигурацию debug-сервера
type Config struct {
	Addr       string                // адрес для прослушивания, например ":8088"
	Driver     *sim.Driver           // драйвер симуляции
	Registerer prometheus.Registerer // nil – дефолтный регистр
	Gatherer   prometheus.Gatherer   // источник для /metrics, nil – дефолтный регистр
	Service    string                // имя сервиса для otelgin и namespace метрик
}

// NewDebugServer создаёт сервер и настраивает маршруты
func NewDebugServer(config Config) *DebugServer {
	if config.Addr == "" {
		config.Addr = ":8088"
	}
	if config.Service == "" {
		config.Service = "colony"
	}

	router := gin.New() // без стандартного logger
	router.Use(gin.Recovery())

	router.Use(otelgin.Middleware(config.Service))
	router.Use(middleware.NewRequestLogger(nil).Handler())

	promMw := middleware.NewPrometheusMiddleware(config.Service, config.Registerer)
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router, config.Gatherer)

	s := &DebugServer{
		router:  router,
		driver:  config.Driver,
		addr:    config.Addr,
		metrics: NewProcessMetrics(),
		log:     logging.GetAPILogger(),
	}
	s.setupRoutes()
	return s
}

func (s *DebugServer) setupRoutes() {
	s.router.GET("/health", s.handleHealth)

	api := s.router.Group("/api")
	{
		api.GET("/stats", s.handleStats)
		api.GET("/cell", s.handleCell)
		api.POST("/transformations", s.handleAllowedTransformations)
		api.POST("/transform", s.handleTransform)
	}
}

// Handler возвращает http.Handler сервера (используется в тестах)
func (s *DebugServer) Handler() http.Handler {
	return s.router
}

// Start слушает адрес до отмены ctx, затем корректно останавливает сервер
func (s *DebugServer) Start(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("🌐 Debug API слушает %s", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("debug API: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("остановка debug API: %w", err)
	}
	s.log.Info("🛑 Debug API остановлен")
	return nil
}
