package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/david/market-finder/internal/config"
	"github.com/david/market-finder/internal/metrics"
	"github.com/david/market-finder/internal/store"
)

type Server struct {
	Store   *store.Store
	Echo    *echo.Echo
	Logger  *zap.Logger
	Metrics *metrics.Registry

	cfg config.Config
}

func NewServer(cfg config.Config, st *store.Store, logger *zap.Logger, reg *metrics.Registry) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reg == nil {
		reg = metrics.NewRegistry()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		Store:   st,
		Echo:    e,
		Logger:  logger,
		Metrics: reg,
		cfg:     cfg,
	}
	e.HTTPErrorHandler = s.handleError

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:     true,
		LogURI:        true,
		LogStatus:     true,
		LogLatency:    true,
		LogRequestID:  true,
		LogRemoteIP:   true,
		LogError:      true,
		HandleError:   true,
		LogValuesFunc: s.logRequest,
	}))
	e.Use(middleware.Recover())

	// CORS: configured origins always include the local frontend
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodHead, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept},
	}))

	s.routes()
	return s
}

func (s *Server) routes() {
	s.Echo.GET("/health", s.handleHealth)
	s.Echo.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))
	s.Echo.GET("/sitemap.xml", s.handleSitemap)

	api := s.Echo.Group("/api")
	api.GET("/markets", s.handleListMarkets)
	api.GET("/markets/facets", s.handleGetFacets)
	api.GET("/markets/aggregations", s.handleGetAggregations)
	api.GET("/markets/map", s.handleGetMap)
	api.GET("/markets/", s.handleGetMarket)
	api.GET("/markets/:id", s.handleGetMarket)
	api.GET("/stats", s.handleGetStats)
}

func (s *Server) logRequest(c echo.Context, v middleware.RequestLoggerValues) error {
	route := c.Path()
	if route == "" {
		route = "unmatched"
	}
	s.Metrics.Requests.WithLabelValues(route, strconv.Itoa(v.Status)).Inc()

	fields := []zap.Field{
		zap.String("request_id", v.RequestID),
		zap.String("method", v.Method),
		zap.String("uri", v.URI),
		zap.Int("status", v.Status),
		zap.Duration("latency", v.Latency),
		zap.String("remote_ip", v.RemoteIP),
	}
	if v.Error != nil {
		s.Logger.Error("request failed", append(fields, zap.Error(v.Error))...)
		return nil
	}
	s.Logger.Info("request", fields...)
	return nil
}

// handleError renders errors that escape handlers, recovered panics
// included, as {"error": message}. Server errors get a generic message and
// the cause goes to the log.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	msg := "Internal server error"
	var he *echo.HTTPError
	if errors.As(err, &he) && he.Code < http.StatusInternalServerError {
		code = he.Code
		msg = http.StatusText(code)
		if m, ok := he.Message.(string); ok && m != "" {
			msg = m
		}
	} else {
		s.Logger.Error("unhandled request error", zap.Error(err), s.requestID(c))
	}

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, map[string]string{"error": msg})
	}
	if werr != nil {
		s.Logger.Error("failed to write error response", zap.Error(werr), s.requestID(c))
	}
}

func (s *Server) Start(port string) error {
	s.Logger.Info("server starting", zap.String("port", port), zap.String("data_path", s.Store.Path()))
	return s.Echo.Start(":" + port)
}

// Shutdown drains in-flight requests, giving up after timeout.
func (s *Server) Shutdown(timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.Echo.Shutdown(ctx)
}
