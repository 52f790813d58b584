package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/david/market-finder/internal/store"
)

func (s *Server) handleHealth(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (s *Server) handleListMarkets(c echo.Context) error {
	params := s.parseListParams(c)

	result, err := s.Store.ListMarkets(c.Request().Context(), params)
	if err != nil {
		s.Logger.Error("failed to list markets", zap.Error(err), s.requestID(c))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch markets"})
	}
	return c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetMarket(c echo.Context) error {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Market ID is required"})
	}

	market, err := s.Store.GetMarket(c.Request().Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Market not found"})
	}
	if err != nil {
		s.Logger.Error("failed to get market", zap.String("id", id), zap.Error(err), s.requestID(c))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch market"})
	}
	return c.JSON(http.StatusOK, map[string]any{"data": market})
}

func (s *Server) handleGetFacets(c echo.Context) error {
	facets, err := s.Store.GetFacets(c.Request().Context())
	if err != nil {
		s.Logger.Error("failed to build facets", zap.Error(err), s.requestID(c))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch markets"})
	}
	return c.JSON(http.StatusOK, facets)
}

func (s *Server) handleGetAggregations(c echo.Context) error {
	aggs, err := s.Store.GetAggregations(c.Request().Context(), s.parseCriteria(c))
	if err != nil {
		s.Logger.Error("failed to aggregate markets", zap.Error(err), s.requestID(c))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch markets"})
	}
	return c.JSON(http.StatusOK, aggs)
}

func (s *Server) handleGetMap(c echo.Context) error {
	res, err := s.Store.MapMarkers(c.Request().Context(), s.parseCriteria(c), s.cfg.MapMarkerLimit)
	if err != nil {
		s.Logger.Error("failed to build map markers", zap.Error(err), s.requestID(c))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch markets"})
	}
	return c.JSON(http.StatusOK, res)
}

func (s *Server) handleGetStats(c echo.Context) error {
	stats, err := s.Store.GetStats(c.Request().Context())
	if err != nil {
		s.Logger.Error("failed to compute stats", zap.Error(err), s.requestID(c))
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch markets"})
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) requestID(c echo.Context) zap.Field {
	return zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID))
}
