// Package api exposes matrix multiplication over HTTP.
package api

import (
	"net/http"

	"github.com/labstack/echo/v5"

	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/logger"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/matmul"
	"github.com/iKaeru/MatrixMultiplication-ThreadingTasks/internal/version"
)

type Server struct {
	store   *ProductStore
	service *MultiplyService
	log     logger.Logger
}

func NewServer(store *ProductStore, service *MultiplyService, log logger.Logger) *Server {
	if store == nil {
		store = NewProductStore(0)
	}
	if service == nil {
		service = NewMultiplyService(ServiceConfig{})
	}
	if log == nil {
		log = logger.Discard()
	}
	return &Server{store: store, service: service, log: log}
}

func (s *Server) Register(e *echo.Echo) {
	e.GET("/healthz", s.handleHealth)
	e.GET("/v1/algorithms", s.handleListAlgorithms)
	e.POST("/v1/products", s.handleCreateProduct)
	e.GET("/v1/products/:id", s.handleGetProduct)
	e.DELETE("/v1/products/:id", s.handleDeleteProduct)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, Health{
		Status:   "ok",
		Version:  version.String(),
		Workers:  matmul.PoolSize(),
		Products: s.store.Len(),
	})
}

func (s *Server) handleListAlgorithms(c *echo.Context) error {
	algs := matmul.Algorithms()
	names := make([]string, len(algs))
	for i, a := range algs {
		names[i] = a.String()
	}
	return c.JSON(http.StatusOK, AlgorithmList{Object: "list", Data: names})
}

func (s *Server) handleCreateProduct(c *echo.Context) error {
	req, err := decodeJSON[ProductRequest](c.Request().Body)
	if err != nil {
		return writeServiceError(c, err)
	}
	ctx := logger.WithContext(c.Request().Context(), s.log)
	product, err := s.service.Multiply(ctx, req)
	if err != nil {
		s.log.Warn("multiply rejected", "error", err)
		return writeServiceError(c, err)
	}
	s.store.Put(product)
	return c.JSON(http.StatusOK, product)
}

func (s *Server) handleGetProduct(c *echo.Context) error {
	id := c.Param("id")
	product, ok := s.store.Get(id)
	if !ok {
		return writeNotFound(c, "product not found: "+id)
	}
	return c.JSON(http.StatusOK, product)
}

func (s *Server) handleDeleteProduct(c *echo.Context) error {
	id := c.Param("id")
	if !s.store.Delete(id) {
		return writeNotFound(c, "product not found: "+id)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"id":      id,
		"object":  "matrix.product.deleted",
		"deleted": true,
	})
}
